// Package arbfile implements reading and writing of Flutter ARB (Application
// Resource Bundle) files.
//
// ARB files are JSON files with a specific structure:
//
//   - "@@locale" holds the BCP-47 language code (e.g. "en", "ru").
//   - Keys starting with "@" (other than "@@locale") are metadata entries
//     (e.g. "@greeting") describing the translatable key of the same base
//     name. Their "placeholders" object names the interpolation variables.
//   - All other values are translatable; null marks an entry that still
//     needs translation.
//
// File naming convention: app_LANG.arb (e.g. app_en.arb, app_ru.arb) stored
// in a single directory (e.g. lib/l10n/).
//
// The document is kept as a generic ordered JSON tree (Value) so that any
// nesting survives a round trip with its key order intact.
package arbfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"unicode/utf8"

	"github.com/spf13/afero"
)

// LocaleKey is the top-level key holding the file's locale.
const LocaleKey = "@@locale"

// File is a parsed ARB file together with the raw lines it was read from.
type File struct {
	root  Value
	lines []string
}

// ---------------------------------------------------------------------------
// Parsing
// ---------------------------------------------------------------------------

// ReadFile reads a file from fsys, reporting a missing file as
// *NotFoundError and any other failure as *IOError.
func ReadFile(fsys afero.Fs, path string) ([]byte, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Path: path, Err: err}
		}
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}
	return data, nil
}

// ParseFile reads and parses an ARB file from fsys.
func ParseFile(fsys afero.Fs, path string) (*File, error) {
	data, err := ReadFile(fsys, path)
	if err != nil {
		return nil, err
	}
	return ParseNamed(path, data)
}

// ParseNamed is Parse with path recorded in any *ParseError.
func ParseNamed(path string, data []byte) (*File, error) {
	f, err := Parse(data)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}
	return f, nil
}

// Parse parses ARB content from a byte slice. Any JSON value is accepted
// as the root, although ARB files are objects in practice.
func Parse(data []byte) (*File, error) {
	if i := invalidUTF8(data); i >= 0 {
		line, col := position(data[:i])
		return nil, &ParseError{Line: line, Column: col, Err: fmt.Errorf("invalid UTF-8 byte 0x%02x", data[i])}
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	root, err := parseValue(dec)
	if err != nil {
		return nil, newParseError(data, dec, err)
	}
	if tok, err := dec.Token(); err != io.EOF {
		if err == nil {
			err = fmt.Errorf("unexpected %v after top-level value", tok)
		}
		return nil, newParseError(data, dec, err)
	}

	return &File{root: root, lines: SplitLines(string(data))}, nil
}

// parseValue decodes one value using token streaming so that object key
// order is preserved. Duplicate keys keep their first position and take
// the last value.
func parseValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return Value{}, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			m := NewMap()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return Value{}, fmt.Errorf("expected string key, got %v", keyTok)
				}
				v, err := parseValue(dec)
				if err != nil {
					return Value{}, err
				}
				m.Set(key, v)
			}
			if err := closeToken(dec); err != nil {
				return Value{}, err
			}
			return ObjectValue(m), nil
		case '[':
			items := []Value{}
			for dec.More() {
				v, err := parseValue(dec)
				if err != nil {
					return Value{}, err
				}
				items = append(items, v)
			}
			if err := closeToken(dec); err != nil {
				return Value{}, err
			}
			return ArrayValue(items...), nil
		}
		return Value{}, fmt.Errorf("unexpected %q", rune(t))
	case string:
		return StringValue(t), nil
	case json.Number:
		return NumberValue(string(t)), nil
	case bool:
		return BoolValue(t), nil
	case nil:
		return NullValue(), nil
	}
	return Value{}, fmt.Errorf("unexpected token %v", tok)
}

// invalidUTF8 returns the offset of the first byte that is not part of a
// valid UTF-8 sequence, or -1.
func invalidUTF8(data []byte) int {
	for i := 0; i < len(data); {
		if data[i] < utf8.RuneSelf {
			i++
			continue
		}
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}

// closeToken consumes the '}' or ']' that ends the current container.
func closeToken(dec *json.Decoder) error {
	if _, err := dec.Token(); err != nil {
		if err == io.EOF {
			return io.ErrUnexpectedEOF
		}
		return err
	}
	return nil
}

func newParseError(data []byte, dec *json.Decoder, err error) *ParseError {
	offset := dec.InputOffset()
	var se *json.SyntaxError
	if errors.As(err, &se) {
		offset = se.Offset
	}
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	line, col := position(data[:offset])
	return &ParseError{Line: line, Column: col, Err: err}
}

// position converts the consumed prefix of the input into a 1-based
// line and column.
func position(prefix []byte) (int, int) {
	line := 1 + bytes.Count(prefix, []byte{'\n'})
	col := len(prefix) + 1
	if i := bytes.LastIndexByte(prefix, '\n'); i >= 0 {
		col = len(prefix) - i
	}
	return line, col
}

// SplitLines splits text the way a text-mode line reader does: "\r\n" and
// "\r" count as "\n", separators are dropped, and a final newline does not
// produce a trailing empty line.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.TrimSuffix(text, "\n")
	return strings.Split(text, "\n")
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

// Root returns the parsed document.
func (f *File) Root() Value { return f.root }

// Lines returns the raw text lines of the parsed content.
func (f *File) Lines() []string {
	out := make([]string, len(f.lines))
	copy(out, f.lines)
	return out
}

// Locale returns the @@locale value, or "" if absent.
func (f *File) Locale() string {
	m, ok := f.root.AsObject()
	if !ok {
		return ""
	}
	v, _ := m.Get(LocaleKey)
	s, _ := v.AsString()
	return s
}

// IsMetaKey reports whether key names a metadata entry.
func IsMetaKey(key string) bool { return strings.HasPrefix(key, "@") }

// Keys returns all translatable (non-metadata) top-level keys in document order.
func (f *File) Keys() []string {
	var keys []string
	if m, ok := f.root.AsObject(); ok {
		m.Range(func(k string, _ Value) bool {
			if !IsMetaKey(k) {
				keys = append(keys, k)
			}
			return true
		})
	}
	return keys
}

// Get returns the string value of a translatable key.
func (f *File) Get(key string) (string, bool) {
	m, ok := f.root.AsObject()
	if !ok || IsMetaKey(key) {
		return "", false
	}
	v, ok := m.Get(key)
	if !ok {
		return "", false
	}
	return v.AsString()
}

// UntranslatedKeys returns translatable keys whose value is null or empty.
func (f *File) UntranslatedKeys() []string {
	m, ok := f.root.AsObject()
	if !ok {
		return nil
	}
	var keys []string
	for _, k := range f.Keys() {
		v, _ := m.Get(k)
		if s, isStr := v.AsString(); v.IsNull() || (isStr && s == "") {
			keys = append(keys, k)
		}
	}
	return keys
}

// Stats returns (total, translated, percentTranslated).
func (f *File) Stats() (int, int, float64) {
	total := len(f.Keys())
	translated := total - len(f.UntranslatedKeys())
	pct := 0.0
	if total > 0 {
		pct = float64(translated) / float64(total) * 100
	}
	return total, translated, pct
}
