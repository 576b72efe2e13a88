package export

import (
	"fmt"
	"strings"

	"github.com/gocarina/gocsv"
)

const (
	FormatEDL = "edl"
	FormatCSV = "csv"
)

// GenerateCSV renders the same events as GenerateEDL, one row per entry.
func GenerateCSV(title string, frameRate int, entries []Entry) (string, error) {
	events, err := BuildEvents(title, frameRate, entries)
	if err != nil {
		return "", err
	}
	out, err := gocsv.MarshalString(&events)
	if err != nil {
		return "", fmt.Errorf("failed to encode csv: %w", err)
	}
	return out, nil
}

// ParseFormat normalizes a format name. Empty selects FormatEDL.
func ParseFormat(s string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(s)); f {
	case "":
		return FormatEDL, nil
	case FormatEDL, FormatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported format %q", s)
	}
}

// Render converts p into the requested format.
func Render(format string, p *Project, frameRate int) (string, error) {
	f, err := ParseFormat(format)
	if err != nil {
		return "", err
	}
	if f == FormatCSV {
		return GenerateCSV(p.Name, frameRate, p.Entries)
	}
	return GenerateEDL(p.Name, frameRate, p.Entries)
}

// ContentType returns the HTTP content type for a parsed format.
func ContentType(format string) string {
	if format == FormatCSV {
		return "text/csv; charset=utf-8"
	}
	return "text/plain; charset=utf-8"
}
