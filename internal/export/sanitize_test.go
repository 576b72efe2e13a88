package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		maxLen int
		want   string
	}{
		{name: "control chars dropped", in: " Trip\n2024\r\t\x00 ", maxLen: 100, want: "Trip2024"},
		{name: "allowed punctuation kept", in: "Az09 -_.,()", maxLen: 100, want: "Az09 -_.,()"},
		{name: "path separators replaced", in: `c:\cuts/final?<v2>`, maxLen: 100, want: "c__cuts_final__v2_"},
		{name: "unicode letters kept", in: "Été à Kyoto 京都", maxLen: 100, want: "Été à Kyoto 京都"},
		{name: "truncated by rune", in: "京都京都京都", maxLen: 4, want: "京都京都"},
		{name: "trailing space after truncation", in: "abc def", maxLen: 4, want: "abc"},
		{name: "no limit", in: strings.Repeat("a", 300), maxLen: 0, want: strings.Repeat("a", 300)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := SanitizeName(tc.in, tc.maxLen); got != tc.want {
				t.Errorf("SanitizeName(%q, %d) = %q, want %q", tc.in, tc.maxLen, got, tc.want)
			}
		})
	}
}

func TestValidateOutputDir(t *testing.T) {
	base := t.TempDir()
	file := filepath.Join(base, "cut.edl")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("failed to create file: %v", err)
	}

	tests := []struct {
		name    string
		dir     string
		wantErr string
	}{
		{name: "existing dir", dir: base},
		{name: "empty", dir: " ", wantErr: "required"},
		{name: "traversal", dir: base + "/../" + filepath.Base(base), wantErr: "traversal"},
		{name: "unclean", dir: base + "/./", wantErr: "clean"},
		{name: "missing", dir: filepath.Join(base, "missing"), wantErr: "does not exist"},
		{name: "file", dir: file, wantErr: "not a directory"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateOutputDir(tc.dir)
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("ValidateOutputDir(%q) error = %v", tc.dir, err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("ValidateOutputDir(%q) error = %v, want %q", tc.dir, err, tc.wantErr)
			}
		})
	}
}

func TestDefaultFileName(t *testing.T) {
	tests := []struct {
		title  string
		format string
		want   string
	}{
		{title: "Summer Trip", format: FormatEDL, want: "Summer Trip.edl"},
		{title: "a/b:c", format: FormatCSV, want: "a_b_c.csv"},
		{title: "", format: FormatEDL, want: "output.edl"},
		{title: "..", format: "", want: "output.edl"},
		{title: strings.Repeat("x", 200), format: FormatEDL, want: strings.Repeat("x", maxFileNameLen) + ".edl"},
	}

	for _, tc := range tests {
		if got := DefaultFileName(tc.title, tc.format); got != tc.want {
			t.Errorf("DefaultFileName(%q, %q) = %q, want %q", tc.title, tc.format, got, tc.want)
		}
	}
}
