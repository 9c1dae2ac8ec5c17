package arbfile

import (
	"bytes"
	"strings"
	"unicode/utf8"
)

// DefaultIndent is the number of spaces per nesting level in written files.
const DefaultIndent = 4

// Marshal serialises v as indented JSON.
//
// Keys are written in insertion order, one entry per line, with ": "
// between key and value. Non-ASCII characters are written literally and
// HTML characters are not escaped. Only '"', '\\', control characters and
// the line separators U+2028/U+2029 are escaped. Empty objects and arrays
// are written as {} and []. The output has no trailing newline.
func Marshal(v Value, indent int) []byte {
	if indent < 0 {
		indent = 0
	}
	var buf bytes.Buffer
	e := encoder{buf: &buf, indent: strings.Repeat(" ", indent)}
	e.value(v, 0)
	return buf.Bytes()
}

type encoder struct {
	buf    *bytes.Buffer
	indent string
}

func (e *encoder) newline(depth int) {
	e.buf.WriteByte('\n')
	for i := 0; i < depth; i++ {
		e.buf.WriteString(e.indent)
	}
}

func (e *encoder) value(v Value, depth int) {
	switch v.kind {
	case Null:
		e.buf.WriteString("null")
	case Bool:
		if v.b {
			e.buf.WriteString("true")
		} else {
			e.buf.WriteString("false")
		}
	case Number:
		e.buf.WriteString(v.s)
	case String:
		writeString(e.buf, v.s)
	case Array:
		if len(v.items) == 0 {
			e.buf.WriteString("[]")
			return
		}
		e.buf.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				e.buf.WriteByte(',')
			}
			e.newline(depth + 1)
			e.value(item, depth+1)
		}
		e.newline(depth)
		e.buf.WriteByte(']')
	case Object:
		if v.obj == nil || v.obj.Len() == 0 {
			e.buf.WriteString("{}")
			return
		}
		e.buf.WriteByte('{')
		first := true
		v.obj.Range(func(k string, val Value) bool {
			if !first {
				e.buf.WriteByte(',')
			}
			first = false
			e.newline(depth + 1)
			writeString(e.buf, k)
			e.buf.WriteString(": ")
			e.value(val, depth+1)
			return true
		})
		e.newline(depth)
		e.buf.WriteByte('}')
	}
}

const hexDigits = "0123456789abcdef"

// writeString writes s as a JSON string. Quotes, backslashes and control
// characters are escaped, as are U+2028, U+2029 and invalid UTF-8.
func writeString(buf *bytes.Buffer, s string) {
	buf.WriteByte('"')
	for i := 0; i < len(s); {
		b := s[i]
		if b < utf8.RuneSelf {
			switch b {
			case '"':
				buf.WriteString(`\"`)
			case '\\':
				buf.WriteString(`\\`)
			case '\n':
				buf.WriteString(`\n`)
			case '\r':
				buf.WriteString(`\r`)
			case '\t':
				buf.WriteString(`\t`)
			case '\b':
				buf.WriteString(`\b`)
			case '\f':
				buf.WriteString(`\f`)
			default:
				if b < 0x20 {
					buf.WriteString(`\u00`)
					buf.WriteByte(hexDigits[b>>4])
					buf.WriteByte(hexDigits[b&0xF])
				} else {
					buf.WriteByte(b)
				}
			}
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case r == utf8.RuneError && size == 1:
			buf.WriteString(`\ufffd`)
		case r == '\u2028':
			buf.WriteString(`\u2028`)
		case r == '\u2029':
			buf.WriteString(`\u2029`)
		default:
			buf.WriteString(s[i : i+size])
		}
		i += size
	}
	buf.WriteByte('"')
}
