package photos

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/heimdex/msve-edl/internal/export"
)

func TestParseProject(t *testing.T) {
	state := rpmState(t, []any{
		cardJSON(`C:\Users\me\Videos\a.mp4`, 0, 10_000_000),
		cardJSON(`C:\Users\me\Videos\b.mov`, 240_000_000, 55_500_000),
	})

	p, err := ParseProject("Holiday", state)
	if err != nil {
		t.Fatalf("ParseProject() error = %v", err)
	}

	want := &export.Project{
		Name: "Holiday",
		Entries: []export.Entry{
			{SourcePath: `C:\Users\me\Videos\a.mp4`, SourceStartTicks: 0, DurationTicks: 10_000_000},
			{SourcePath: `C:\Users\me\Videos\b.mov`, SourceStartTicks: 240_000_000, DurationTicks: 55_500_000},
		},
	}
	if diff := cmp.Diff(want, p); diff != "" {
		t.Fatalf("ParseProject() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseProject_NoCards(t *testing.T) {
	p, err := ParseProject("Empty", rpmState(t, []any{}))
	if err != nil {
		t.Fatalf("ParseProject() error = %v", err)
	}
	if len(p.Entries) != 0 {
		t.Fatalf("got %d entries, want 0", len(p.Entries))
	}
}

func TestParseProject_Malformed(t *testing.T) {
	twoSources := cardJSON("/a.mp4", 0, 1)
	twoSources["Sources"] = append(twoSources["Sources"].([]any), twoSources["Sources"].([]any)[0])

	noSources := cardJSON("/a.mp4", 0, 1)
	noSources["Sources"] = []any{}

	missingURL := cardJSON("/a.mp4", 0, 1)
	missingURL["Sources"].([]any)[0].(map[string]any)["MediaBackedSourceProperties"] = map[string]any{}

	missingStart := cardJSON("/a.mp4", 0, 1)
	missingStart["Sources"].([]any)[0].(map[string]any)["VideoSourceProperties"] = map[string]any{}

	missingDuration := cardJSON("/a.mp4", 0, 1)
	delete(missingDuration, "idealDuration")

	fractional := cardJSON("/a.mp4", 0, 1)
	fractional["idealDuration"] = 12.5

	stringDuration := cardJSON("/a.mp4", 0, 1)
	stringDuration["idealDuration"] = "100"

	numericURL := cardJSON("/a.mp4", 0, 1)
	numericURL["Sources"].([]any)[0].(map[string]any)["MediaBackedSourceProperties"] = map[string]any{"url": 7}

	tests := []struct {
		name  string
		state string
		entry int
		field string
	}{
		{name: "outer not json", state: "{nope", field: ""},
		{name: "missing blob", state: `{"Other": "x"}`, field: blobField},
		{name: "blob not string", state: `{"RenderableProjectManagerBlob": {"Project": {}}}`, field: blobField},
		{name: "blob not json", state: `{"RenderableProjectManagerBlob": "{broken"}`, field: blobField},
		{name: "missing cards", state: `{"RenderableProjectManagerBlob": "{\"Project\": {}}"}`, field: cardsPath},
		{name: "no sources", state: rpmState(t, []any{noSources}), entry: 1, field: sourcesKey},
		{name: "multiple sources", state: rpmState(t, []any{cardJSON("/ok.mp4", 0, 1), twoSources}), entry: 2, field: sourcesKey},
		{name: "missing url", state: rpmState(t, []any{missingURL}), entry: 1, field: "Sources[0]." + urlPath},
		{name: "url not string", state: rpmState(t, []any{numericURL}), entry: 1, field: "Sources[0]." + urlPath},
		{name: "empty url", state: rpmState(t, []any{cardJSON("", 0, 1)}), entry: 1, field: "Sources[0]." + urlPath},
		{name: "missing start", state: rpmState(t, []any{missingStart}), entry: 1, field: "Sources[0]." + startPath},
		{name: "negative start", state: rpmState(t, []any{cardJSON("/a.mp4", -1, 1)}), entry: 1, field: "Sources[0]." + startPath},
		{name: "missing duration", state: rpmState(t, []any{missingDuration}), entry: 1, field: durationKey},
		{name: "fractional duration", state: rpmState(t, []any{fractional}), entry: 1, field: durationKey},
		{name: "string duration", state: rpmState(t, []any{stringDuration}), entry: 1, field: durationKey},
		{name: "negative duration", state: rpmState(t, []any{cardJSON("/a.mp4", 0, -10)}), entry: 1, field: durationKey},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p, err := ParseProject("Broken", tc.state)
			if p != nil {
				t.Fatalf("expected nil project, got %+v", p)
			}

			var mpe *export.MalformedProjectError
			if !errors.As(err, &mpe) {
				t.Fatalf("error = %v, want *export.MalformedProjectError", err)
			}
			if mpe.Project != "Broken" || mpe.Entry != tc.entry || mpe.Field != tc.field {
				t.Fatalf("error = %+v, want entry %d field %q", mpe, tc.entry, tc.field)
			}
		})
	}
}
