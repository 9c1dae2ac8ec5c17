package arbfile

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustParse(t *testing.T, s string) *File {
	t.Helper()
	f, err := Parse([]byte(s))
	if err != nil {
		t.Fatalf("Parse(%q): %v", s, err)
	}
	return f
}

func TestMarshal_Indentation(t *testing.T) {
	f := mustParse(t, `{"a":"x","@a":{"type":"text","placeholders":{}},"list":[1,[],{"k":false}],"n":null}`)
	want := `{
    "a": "x",
    "@a": {
        "type": "text",
        "placeholders": {}
    },
    "list": [
        1,
        [],
        {
            "k": false
        }
    ],
    "n": null
}`
	if diff := cmp.Diff(want, string(Marshal(f.Root(), 4))); diff != "" {
		t.Errorf("Marshal (-want +got):\n%s", diff)
	}
}

func TestMarshal_StringEscaping(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "literal non-ASCII", in: "Привет, 世界", want: `"Привет, 世界"`},
		{name: "no HTML escaping", in: "<b>&</b>", want: `"<b>&</b>"`},
		{name: "quotes and backslash", in: `say "hi" \o/`, want: `"say \"hi\" \\o/"`},
		{name: "control characters", in: "a\nb\tc\x01\x7f", want: "\"a\\nb\\tc\\u0001\x7f\""},
		{name: "line separator", in: "a\xe2\x80\xa8b", want: `"a\u2028b"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := string(Marshal(StringValue(tc.in), 4))
			if got != tc.want {
				t.Errorf("Marshal(%q) = %s, want %s", tc.in, got, tc.want)
			}
		})
	}
}

func TestMarshal_NumbersKeepLiteral(t *testing.T) {
	f := mustParse(t, `[1.50, -0, 1e5, 12345678901234567890]`)
	want := "[\n  1.50,\n  -0,\n  1e5,\n  12345678901234567890\n]"
	if got := string(Marshal(f.Root(), 2)); got != want {
		t.Errorf("Marshal = %q, want %q", got, want)
	}
}

func TestKeepEscaped(t *testing.T) {
	text := "\"Loading\xe2\x80\xa6\",\"a\xc2\xa0b\",\"caf\xc3\xa9\""
	want := `"Loading\u2026","a\u00a0b","café"`
	if got := KeepEscaped(text, DefaultKeepEscaped); got != want {
		t.Errorf("KeepEscaped = %q, want %q", got, want)
	}
	if got := KeepEscaped(text, nil); got != text {
		t.Errorf("KeepEscaped with no runes changed the text: %q", got)
	}
	if got := KeepEscaped(`{\n    "a": "x y"\n}`, []rune{' ', '"', '{'}); got != `{\n    "a": "x y"\n}` {
		t.Errorf("KeepEscaped rewrote ASCII: %q", got)
	}
	if got := EscapeRune(0x1F600); got != `\ud83d\ude00` {
		t.Errorf("EscapeRune(U+1F600) = %q", got)
	}
}

func TestRestoreBlankLines(t *testing.T) {
	cases := []struct {
		name   string
		source []string
		target []string
		want   []string
	}{
		{
			name:   "aligned",
			source: []string{"{", "a", "", "b", "}"},
			target: []string{"{", "A", "B", "}"},
			want:   []string{"{", "A", "", "B", "}"},
		},
		{
			name:   "whitespace only counts as blank",
			source: []string{"{", " \t", "a", "}"},
			target: []string{"{", "A", "}"},
			want:   []string{"{", "", "A", "}"},
		},
		{
			name:   "consecutive blanks shift later inserts",
			source: []string{"{", "", "", "a", "}"},
			target: []string{"{", "A", "}"},
			want:   []string{"{", "", "", "A", "}"},
		},
		{
			name:   "index past end appends",
			source: []string{"{", "a", "b", "c", "}", "", ""},
			target: []string{"{", "A", "}"},
			want:   []string{"{", "A", "}", "", ""},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			target := append([]string(nil), tc.target...)
			got := RestoreBlankLines(tc.source, target)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("RestoreBlankLines (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tc.target, target); diff != "" {
				t.Errorf("input was modified (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRender(t *testing.T) {
	source := "{\n  \"a\": \"x\",\n\n  \"b\": \"y\"\n}\n"
	target := mustParse(t, "{\"a\":\"\xc2\xa0A\",\"b\":\"B\xe2\x80\xa6\"}")

	got := string(Render(target.Root(), SplitLines(source), DefaultLayout()))
	want := strings.Join([]string{
		`{`,
		`    "a": "\u00a0A",`,
		``,
		`    "b": "B\u2026"`,
		`}`,
		``,
	}, "\n")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Render (-want +got):\n%s", diff)
	}
}

func TestRender_TrimsSurroundingBlankLines(t *testing.T) {
	source := []string{"", "{", "}", "", ""}
	got := string(Render(ObjectValue(NewMap()), source, DefaultLayout()))
	if got != "{}\n" {
		t.Errorf("Render = %q, want %q", got, "{}\n")
	}
}
