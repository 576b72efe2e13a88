package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

const (
	maxFileNameLen = 120
	fallbackName   = "output"
)

// SanitizeName drops control characters, replaces anything outside a small
// allow list with '_', trims and truncates to maxLen runes when maxLen > 0.
func SanitizeName(s string, maxLen int) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsControl(r):
		case isAllowedNameRune(r):
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	cleaned := strings.TrimSpace(b.String())
	if runes := []rune(cleaned); maxLen > 0 && len(runes) > maxLen {
		cleaned = strings.TrimSpace(string(runes[:maxLen]))
	}
	return cleaned
}

func isAllowedNameRune(r rune) bool {
	if unicode.IsLetter(r) || unicode.IsDigit(r) {
		return true
	}
	switch r {
	case ' ', '-', '_', '.', ',', '(', ')':
		return true
	default:
		return false
	}
}

// DefaultFileName derives an output file name from a project title.
func DefaultFileName(title, format string) string {
	name := SanitizeName(title, maxFileNameLen)
	if name == "" || strings.Trim(name, ".") == "" {
		name = fallbackName
	}
	if format == "" {
		format = FormatEDL
	}
	return name + "." + format
}

// ValidateOutputDir requires dir to be a clean, existing directory path
// without ".." segments.
func ValidateOutputDir(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return fmt.Errorf("output_dir is required")
	}

	for _, part := range strings.Split(filepath.ToSlash(dir), "/") {
		if part == ".." {
			return fmt.Errorf("output_dir cannot contain path traversal")
		}
	}

	if filepath.Clean(dir) != dir {
		return fmt.Errorf("output_dir must be clean path")
	}

	info, err := os.Stat(dir)
	switch {
	case os.IsNotExist(err):
		return fmt.Errorf("output_dir does not exist")
	case err != nil:
		return fmt.Errorf("invalid output_dir: %w", err)
	case !info.IsDir():
		return fmt.Errorf("output_dir is not a directory")
	}
	return nil
}
