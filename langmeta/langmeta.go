// Package langmeta provides language display metadata (native names and
// emoji flags) used in CLI output.
package langmeta

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Meta describes language display metadata.
type Meta struct {
	Tag  language.Tag
	Name string
	Flag string
}

// Label returns "Name Flag", or just the name when there is no flag.
func (m Meta) Label() string {
	if m.Flag == "" {
		return m.Name
	}
	return m.Name + " " + m.Flag
}

func canonicalize(lang string) string {
	normalized := strings.ReplaceAll(strings.TrimSpace(lang), "_", "-")
	if normalized == "" {
		return ""
	}
	parts := strings.Split(normalized, "-")
	parts[0] = strings.ToLower(parts[0])
	if len(parts) >= 2 && len(parts[1]) == 2 {
		parts[1] = strings.ToUpper(parts[1])
	}
	return strings.Join(parts, "-")
}

// Resolve returns best-effort metadata for a language code such as "de",
// "pt_BR" or "zh-Hant". The name is the language's own name for itself.
// The flag comes from the explicit region or, failing that, the most
// likely region. Unknown codes come back with the code as name and no flag.
func Resolve(lang string) Meta {
	tag, err := language.Parse(canonicalize(lang))
	if err != nil {
		return Meta{Name: lang}
	}

	m := Meta{Tag: tag, Name: display.Self.Name(tag)}
	if m.Name == "" {
		m.Name = lang
	}
	if region, conf := tag.Region(); conf != language.No {
		m.Flag = flagFromRegion(region.String())
	}
	return m
}

// flagFromRegion maps a two-letter region code to its regional-indicator
// emoji pair. Anything else (such as UN M.49 "419") has no flag.
func flagFromRegion(region string) string {
	if len(region) != 2 {
		return ""
	}
	var b strings.Builder
	for _, c := range strings.ToUpper(region) {
		if c < 'A' || c > 'Z' {
			return ""
		}
		b.WriteRune(0x1F1E6 + (c - 'A'))
	}
	return b.String()
}
