package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/pflag"

	"github.com/minios-linux/arbsync/config"
	"github.com/minios-linux/arbsync/i18n"
)

func disableColor(t *testing.T) {
	t.Helper()
	old := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = old })
}

func TestProgressBar(t *testing.T) {
	disableColor(t)

	tests := []struct {
		name    string
		percent int
		width   int
		want    string
	}{
		{
			name:    "clamps below zero",
			percent: -10,
			width:   4,
			want:    "░░░░   0%",
		},
		{
			name:    "mid range",
			percent: 50,
			width:   4,
			want:    "██░░  50%",
		},
		{
			name:    "clamps above hundred",
			percent: 120,
			width:   4,
			want:    "████ 100%",
		},
	}

	for _, tc := range tests {
		if got := progressBar(tc.percent, tc.width); got != tc.want {
			t.Fatalf("%s: progressBar() = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestPercentOf(t *testing.T) {
	if got := percentOf(1, 3); got != 33 {
		t.Fatalf("percentOf(1, 3) = %d, want 33", got)
	}
	if got := percentOf(0, 0); got != 100 {
		t.Fatalf("percentOf(0, 0) = %d, want 100", got)
	}
}

func parseFlags(t *testing.T, args ...string) (*pflag.FlagSet, *options) {
	t.Helper()
	var o options
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	registerFlags(fs, &o)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("Parse(%v): %v", args, err)
	}
	return fs, &o
}

func TestApplyFlags(t *testing.T) {
	t.Run("no flags keeps detected settings", func(t *testing.T) {
		proj := config.Default(".")
		fs, o := parseFlags(t)
		if err := applyFlags(proj, fs, o); err != nil {
			t.Fatalf("applyFlags: %v", err)
		}
		if proj.ARBDir != config.DefaultARBDir || proj.TemplateFile != config.DefaultTemplateFile || proj.Pattern != "app_*.arb" {
			t.Fatalf("settings changed: %+v", proj)
		}
	})

	t.Run("source re-derives pattern", func(t *testing.T) {
		proj := config.Default(".")
		fs, o := parseFlags(t, "--dir", "l10n", "--source", "intl_en.arb")
		if err := applyFlags(proj, fs, o); err != nil {
			t.Fatalf("applyFlags: %v", err)
		}
		if proj.ARBDir != "l10n" || proj.TemplateFile != "intl_en.arb" || proj.Pattern != "intl_*.arb" {
			t.Fatalf("unexpected settings: %+v", proj)
		}
	})

	t.Run("explicit pattern wins", func(t *testing.T) {
		proj := config.Default(".")
		fs, o := parseFlags(t, "--source", "intl_en.arb", "--pattern", "*.arb")
		if err := applyFlags(proj, fs, o); err != nil {
			t.Fatalf("applyFlags: %v", err)
		}
		if proj.Pattern != "*.arb" {
			t.Fatalf("Pattern = %q, want *.arb", proj.Pattern)
		}
	})

	t.Run("configured pattern is kept", func(t *testing.T) {
		proj := config.Default(".")
		proj.Pattern = "app_??.arb"
		fs, o := parseFlags(t, "--source", "app_de.arb")
		if err := applyFlags(proj, fs, o); err != nil {
			t.Fatalf("applyFlags: %v", err)
		}
		if proj.Pattern != "app_??.arb" {
			t.Fatalf("Pattern = %q, want app_??.arb", proj.Pattern)
		}
	})

	t.Run("invalid source", func(t *testing.T) {
		proj := config.Default(".")
		fs, o := parseFlags(t, "--source", "sub/app_en.arb")
		if err := applyFlags(proj, fs, o); err == nil {
			t.Fatal("expected error for template outside the ARB directory")
		}
	})
}

func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("os.MkdirAll() error: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("os.WriteFile() error: %v", err)
		}
	}
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	disableColor(t)
	old := opts
	t.Cleanup(func() { opts = old })

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSyncCommand(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"lib/l10n/app_en.arb": "{\n    \"a\": \"A\",\n\n    \"b\": \"B\"\n}\n",
		"lib/l10n/app_de.arb": `{"b": "B de", "x": "old"}`,
	})

	out, err := execute(t, "--root", dir)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	want := "File updated: app_de.arb\nFile updated: app_en.arb\n"
	if out != want {
		t.Fatalf("output = %q, want %q", out, want)
	}

	data, err := os.ReadFile(filepath.Join(dir, "lib/l10n/app_de.arb"))
	if err != nil {
		t.Fatalf("os.ReadFile() error: %v", err)
	}
	wantDE := "{\n    \"a\": null,\n\n    \"b\": \"B de\"\n}\n"
	if string(data) != wantDE {
		t.Fatalf("app_de.arb = %q, want %q", data, wantDE)
	}
}

func TestSyncConfirmationIsNotTranslated(t *testing.T) {
	i18n.Init("de")
	t.Cleanup(func() { i18n.Init("en") })

	dir := writeProject(t, map[string]string{
		"lib/l10n/app_en.arb": "{\n    \"a\": \"A\"\n}\n",
	})
	out, err := execute(t, "--root", dir)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if out != "File updated: app_en.arb\n" {
		t.Fatalf("output = %q, want the untranslated confirmation line", out)
	}
}

func TestCheckCommand(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"lib/l10n/app_en.arb": "{\n    \"a\": \"A\",\n    \"b\": \"B\"\n}\n",
		"lib/l10n/app_de.arb": "{\n    \"b\": \"B de\"\n}\n",
	})

	out, err := execute(t, "--root", dir, "check")
	if err == nil {
		t.Fatal("check: expected error for drifting file")
	}
	if !strings.Contains(err.Error(), "1 file is out of sync") {
		t.Errorf("error = %q", err)
	}
	for _, line := range []string{"+    \"a\": null,", " {", "--- "} {
		if !strings.Contains(out, line) {
			t.Errorf("diff output missing %q:\n%s", line, out)
		}
	}

	data, _ := os.ReadFile(filepath.Join(dir, "lib/l10n/app_de.arb"))
	if string(data) != "{\n    \"b\": \"B de\"\n}\n" {
		t.Errorf("check modified app_de.arb: %q", data)
	}
}

func TestCheckCommandMissingDir(t *testing.T) {
	_, err := execute(t, "--root", t.TempDir(), "check")
	if err == nil || !strings.Contains(err.Error(), "file not found") {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestRejectsArguments(t *testing.T) {
	if _, err := execute(t, "extra"); err == nil {
		t.Fatal("expected error for positional argument")
	}
}
