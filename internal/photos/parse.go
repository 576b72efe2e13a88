package photos

import (
	"strconv"

	"github.com/heimdex/msve-edl/internal/export"
	"github.com/tidwall/gjson"
)

// Paths into the project state. The blob field holds a JSON document
// encoded as a string inside the outer JSON document.
const (
	blobField   = "RenderableProjectManagerBlob"
	cardsPath   = "Project.Cards"
	sourcesKey  = "Sources"
	urlPath     = "MediaBackedSourceProperties.url"
	startPath   = "VideoSourceProperties.idealAssetStartTime"
	durationKey = "idealDuration"
)

// ParseProject decodes a Project_RpmState value into a timeline. Every card
// must carry exactly one media source.
func ParseProject(name, rpmState string) (*export.Project, error) {
	malformed := func(field, reason string) error {
		return &export.MalformedProjectError{Project: name, Field: field, Reason: reason}
	}

	if !gjson.Valid(rpmState) {
		return nil, malformed("", "project state is not valid JSON")
	}

	blob := gjson.Get(rpmState, blobField)
	switch {
	case !blob.Exists():
		return nil, malformed(blobField, "missing")
	case blob.Type != gjson.String:
		return nil, malformed(blobField, "not a string")
	case !gjson.Valid(blob.Str):
		return nil, malformed(blobField, "not valid JSON")
	}

	cards := gjson.Get(blob.Str, cardsPath)
	if !cards.IsArray() {
		return nil, malformed(cardsPath, "missing card list")
	}

	items := cards.Array()
	p := &export.Project{Name: name, Entries: make([]export.Entry, 0, len(items))}
	for i, card := range items {
		entry, err := parseCard(card)
		if err != nil {
			err.Project = name
			err.Entry = i + 1
			return nil, err
		}
		p.Entries = append(p.Entries, entry)
	}
	return p, nil
}

func parseCard(card gjson.Result) (export.Entry, *export.MalformedProjectError) {
	bad := func(field, reason string) (export.Entry, *export.MalformedProjectError) {
		return export.Entry{}, &export.MalformedProjectError{Field: field, Reason: reason}
	}

	sources := card.Get(sourcesKey)
	if !sources.IsArray() {
		return bad(sourcesKey, "missing")
	}
	list := sources.Array()
	switch {
	case len(list) == 0:
		return bad(sourcesKey, "no media source")
	case len(list) > 1:
		return bad(sourcesKey, "multiple media sources are not supported")
	}
	src := list[0]

	url := src.Get(urlPath)
	switch {
	case !url.Exists():
		return bad(sourcesKey+"[0]."+urlPath, "missing")
	case url.Type != gjson.String:
		return bad(sourcesKey+"[0]."+urlPath, "not a string")
	case url.Str == "":
		return bad(sourcesKey+"[0]."+urlPath, "empty")
	}

	start, reason := ticks(src.Get(startPath))
	if reason != "" {
		return bad(sourcesKey+"[0]."+startPath, reason)
	}

	duration, reason := ticks(card.Get(durationKey))
	if reason != "" {
		return bad(durationKey, reason)
	}

	return export.Entry{SourcePath: url.Str, SourceStartTicks: start, DurationTicks: duration}, nil
}

// ticks reads a non-negative integer tick count, or returns why it can't.
func ticks(r gjson.Result) (int64, string) {
	if !r.Exists() {
		return 0, "missing"
	}
	if r.Type != gjson.Number {
		return 0, "not a number"
	}
	v, err := strconv.ParseInt(r.Raw, 10, 64)
	if err != nil {
		return 0, "not an integer tick count"
	}
	if v < 0 {
		return 0, "negative value " + r.Raw
	}
	return v, ""
}
