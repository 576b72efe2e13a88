package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/heimdex/msve-edl/internal/timecode"
)

const (
	reelAX     = "AX"
	trackVideo = "V"
	trackAudio = "A"
	editCut    = "C"
)

// Validate checks every entry and returns a *MalformedProjectError for the
// first one that cannot be converted.
func Validate(title string, entries []Entry) error {
	for i, e := range entries {
		bad := func(field, reason string) error {
			return &MalformedProjectError{Project: title, Entry: i + 1, Field: field, Reason: reason}
		}
		switch {
		case strings.TrimSpace(e.SourcePath) == "":
			return bad("source_path", "missing source path")
		case e.SourceStartTicks < 0:
			return bad("source_start_ticks", fmt.Sprintf("negative value %d", e.SourceStartTicks))
		case e.DurationTicks < 0:
			return bad("duration_ticks", fmt.Sprintf("negative value %d", e.DurationTicks))
		case e.SourceStartTicks > math.MaxInt64-e.DurationTicks:
			return bad("duration_ticks", "source out point overflows")
		}
	}
	return nil
}

// BuildEvents converts entries into numbered events. The record position
// starts at the numeric frame rate taken as a tick count and advances by each
// entry's duration.
func BuildEvents(title string, frameRate int, entries []Entry) ([]Event, error) {
	if err := Validate(title, entries); err != nil {
		return nil, err
	}
	if frameRate <= 0 {
		frameRate = timecode.DefaultFrameRate
	}

	events := make([]Event, 0, len(entries))
	record := int64(frameRate)
	for i, e := range entries {
		if e.DurationTicks > math.MaxInt64-record {
			return nil, &MalformedProjectError{Project: title, Entry: i + 1, Field: "duration_ticks", Reason: "record out point overflows"}
		}
		events = append(events, Event{
			Number:    i + 1,
			Reel:      reelAX,
			SourceIn:  timecode.FromTicks(e.SourceStartTicks, frameRate),
			SourceOut: timecode.FromTicks(e.SourceStartTicks+e.DurationTicks, frameRate),
			RecordIn:  timecode.FromTicks(record, frameRate),
			RecordOut: timecode.FromTicks(record+e.DurationTicks, frameRate),
			ClipName:  e.SourcePath,
		})
		record += e.DurationTicks
	}
	return events, nil
}

// ConvertEDL returns the lines of a cuts-only EDL: a three line header, then
// a video event, an audio event, a clip comment and a blank line per entry.
// Nothing is returned if any entry is malformed.
func ConvertEDL(title string, frameRate int, entries []Entry) ([]string, error) {
	events, err := BuildEvents(title, frameRate, entries)
	if err != nil {
		return nil, err
	}

	lines := make([]string, 0, 3+4*len(events))
	lines = append(lines, fmt.Sprintf("TITLE: %s", title), "FCM: NON-DROP FRAME", "")

	for _, ev := range events {
		times := strings.Join([]string{ev.SourceIn, ev.SourceOut, ev.RecordIn, ev.RecordOut}, " ")
		lines = append(lines,
			fmt.Sprintf("%03d  %s  %s  %s  %s", ev.Number, ev.Reel, trackVideo, editCut, times),
			fmt.Sprintf("%03d  %s  %s  %s  %s", ev.Number, ev.Reel, trackAudio, editCut, times),
			fmt.Sprintf("* FROM CLIP NAME: %s", ev.ClipName),
			"",
		)
	}
	return lines, nil
}

// GenerateEDL joins the ConvertEDL lines with newlines.
func GenerateEDL(title string, frameRate int, entries []Entry) (string, error) {
	lines, err := ConvertEDL(title, frameRate, entries)
	if err != nil {
		return "", err
	}
	return strings.Join(lines, "\n"), nil
}
