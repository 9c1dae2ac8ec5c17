package arbfile

import (
	"fmt"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// DefaultKeepEscaped lists characters that are written as \uXXXX escapes
// even though every other non-ASCII character is written literally.
var DefaultKeepEscaped = []rune{
	'\u00a0', // no-break space
	'\u2026', // horizontal ellipsis
}

// Layout controls how a document is rendered to file content.
type Layout struct {
	// Indent is the number of spaces per nesting level.
	Indent int
	// KeepEscaped lists characters written in escaped form.
	KeepEscaped []rune
}

// DefaultLayout returns a 4-space layout that keeps DefaultKeepEscaped
// characters escaped.
func DefaultLayout() Layout {
	return Layout{
		Indent:      DefaultIndent,
		KeepEscaped: append([]rune(nil), DefaultKeepEscaped...),
	}
}

// Render produces the full file content for v: indented JSON with the
// configured characters escaped, blank lines copied from sourceLines, no
// leading or trailing whitespace and exactly one final newline.
func Render(v Value, sourceLines []string, l Layout) []byte {
	text := KeepEscaped(string(Marshal(v, l.Indent)), l.KeepEscaped)
	lines := RestoreBlankLines(sourceLines, strings.Split(text, "\n"))
	return []byte(strings.TrimSpace(strings.Join(lines, "\n")) + "\n")
}

// KeepEscaped replaces every occurrence of the given characters in text
// with their JSON escape sequence. ASCII characters are skipped, so only
// characters that can appear inside string literals are touched.
func KeepEscaped(text string, runes []rune) string {
	pairs := make([]string, 0, 2*len(runes))
	for _, r := range runes {
		if r < utf8.RuneSelf {
			continue
		}
		pairs = append(pairs, string(r), EscapeRune(r))
	}
	if len(pairs) == 0 {
		return text
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

// EscapeRune returns the JSON escape sequence for r, using a surrogate
// pair outside the Basic Multilingual Plane.
func EscapeRune(r rune) string {
	if r > 0xFFFF {
		hi, lo := utf16.EncodeRune(r)
		return fmt.Sprintf(`\u%04x\u%04x`, hi, lo)
	}
	return fmt.Sprintf(`\u%04x`, r)
}

// RestoreBlankLines inserts an empty line into target at every index i
// where source line i is blank (empty or whitespace only), walking source
// from top to bottom. An index past the end of target appends.
//
// This is a positional heuristic: it assumes source and target lines line
// up after serialization. When the documents differ in structure (for
// example a metadata entry that spans a different number of lines) blank
// lines land in different places than in the source.
func RestoreBlankLines(source, target []string) []string {
	out := make([]string, len(target), len(target)+len(source))
	copy(out, target)
	for i, line := range source {
		if strings.TrimSpace(line) != "" {
			continue
		}
		if i >= len(out) {
			out = append(out, "")
			continue
		}
		out = append(out, "")
		copy(out[i+1:], out[i:])
		out[i] = ""
	}
	return out
}
