// Package scenename derives filesystem- and Manim-friendly scene names from
// free-form session input (a topic or an uploaded file's base name).
package scenename

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	fallback  = "Animation"
	maxLength = 64
)

var titleCaser = cases.Title(language.English)

// Derive turns free-form input into a CamelCase identifier: words are
// title-cased and joined, everything outside [A-Za-z0-9] is dropped, and a
// name that would start with a digit or come out empty falls back to
// "Animation".
func Derive(input string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return ' '
		}
	}, input)

	var b strings.Builder
	for _, word := range strings.Fields(cleaned) {
		b.WriteString(titleCaser.String(strings.ToLower(word)))
	}
	name := b.String()

	if name == "" || (name[0] >= '0' && name[0] <= '9') {
		name = fallback + name
	}
	if len(name) > maxLength {
		name = name[:maxLength]
	}
	return name
}

// FromPDF derives a scene name from an uploaded file's base name.
func FromPDF(path string) string {
	base := filepath.Base(path)
	return Derive(strings.TrimSuffix(base, filepath.Ext(base)))
}
