// .arbsync.yaml configuration file support.
//
// When a .arbsync.yaml file exists in the project root, its settings
// override both the defaults and Flutter's l10n.yaml. Every key is
// optional.

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// FileName is the default config file name.
const FileName = ".arbsync.yaml"

// File is the top-level .arbsync.yaml structure.
type File struct {
	// ARBDir is the ARB directory relative to the project root.
	ARBDir string `yaml:"arb_dir,omitempty"`
	// Template is the source ARB file name inside ARBDir.
	Template string `yaml:"template,omitempty"`
	// Pattern selects target files; defaults to one derived from Template.
	Pattern string `yaml:"pattern,omitempty"`
	// Indent is the number of spaces per nesting level.
	Indent *int `yaml:"indent,omitempty"`
	// KeepEscaped lists characters written as \uXXXX escapes, each given
	// either as the character itself or as "U+XXXX". An empty list turns
	// the escaping off.
	KeepEscaped *[]string `yaml:"keep_escaped,omitempty"`
}

// LoadFile loads .arbsync.yaml from rootDir. Returns nil if no
// .arbsync.yaml exists. Unknown keys are rejected.
func LoadFile(fsys afero.Fs, rootDir string) (*File, error) {
	path := filepath.Join(rootDir, FileName)
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &f, nil
}

func (f *File) apply(p *Project) error {
	if f.ARBDir != "" {
		p.ARBDir = filepath.FromSlash(f.ARBDir)
	}
	if f.Template != "" {
		p.TemplateFile = f.Template
		p.Pattern = PatternFor(f.Template)
	}
	if f.Pattern != "" {
		p.Pattern = f.Pattern
	}
	if f.Indent != nil {
		p.Indent = *f.Indent
	}
	if f.KeepEscaped != nil {
		runes := make([]rune, 0, len(*f.KeepEscaped))
		for _, s := range *f.KeepEscaped {
			r, err := ParseRune(s)
			if err != nil {
				return fmt.Errorf("keep_escaped: %w", err)
			}
			runes = append(runes, r)
		}
		p.KeepEscaped = runes
	}
	return nil
}

// ParseRune accepts a single non-ASCII character or a "U+XXXX" code point
// above U+007F.
func ParseRune(s string) (rune, error) {
	r, err := parseRune(s)
	if err != nil {
		return 0, err
	}
	if r < utf8.RuneSelf {
		return 0, fmt.Errorf("%q is ASCII; only non-ASCII characters can be kept escaped", s)
	}
	return r, nil
}

func parseRune(s string) (rune, error) {
	if utf8.RuneCountInString(s) == 1 {
		r, _ := utf8.DecodeRuneInString(s)
		return r, nil
	}
	upper := strings.ToUpper(s)
	if strings.HasPrefix(upper, "U+") {
		n, err := strconv.ParseUint(upper[2:], 16, 32)
		if err == nil && n <= utf8.MaxRune {
			return rune(n), nil
		}
	}
	return 0, fmt.Errorf("%q is neither a single character nor U+XXXX", s)
}
