// Package config implements auto-detection of project settings
// from pubspec.yaml, Flutter's l10n.yaml and .arbsync.yaml.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/minios-linux/arbsync/arbfile"
)

const (
	// DefaultARBDir is where Flutter keeps ARB files unless l10n.yaml says otherwise.
	DefaultARBDir = "lib/l10n"
	// DefaultTemplateFile is the canonical source file inside the ARB directory.
	DefaultTemplateFile = "app_en.arb"
	// L10nFileName is Flutter's gen-l10n configuration file.
	L10nFileName = "l10n.yaml"
	// PubspecFileName is the Dart package manifest.
	PubspecFileName = "pubspec.yaml"
)

// Project holds the resolved settings for one run.
type Project struct {
	// Root is the project root; relative paths below are resolved against it.
	Root string
	// Name and Version come from pubspec.yaml, falling back to the
	// directory name and "0.0.0".
	Name    string
	Version string
	// ARBDir is the directory holding the ARB files, relative to Root.
	ARBDir string
	// TemplateFile is the file name of the source ARB inside ARBDir.
	TemplateFile string
	// Pattern selects target files by name inside ARBDir.
	Pattern string
	// Indent is the number of spaces per nesting level in written files.
	Indent int
	// KeepEscaped lists characters written as \uXXXX escapes.
	KeepEscaped []rune
	// ConfigFiles lists the configuration files that were applied, in order.
	ConfigFiles []string
}

// Default returns the settings used when no configuration file exists.
func Default(rootDir string) *Project {
	return &Project{
		Root:         rootDir,
		Name:         filepath.Base(absOrSelf(rootDir)),
		Version:      "0.0.0",
		ARBDir:       DefaultARBDir,
		TemplateFile: DefaultTemplateFile,
		Pattern:      PatternFor(DefaultTemplateFile),
		Indent:       arbfile.DefaultIndent,
		KeepEscaped:  append([]rune(nil), arbfile.DefaultKeepEscaped...),
	}
}

// Detect builds the project settings for rootDir. Defaults are overlaid
// with l10n.yaml and then .arbsync.yaml, when those files exist.
func Detect(fsys afero.Fs, rootDir string) (*Project, error) {
	p := Default(rootDir)

	if name, version, err := parsePubspec(fsys, filepath.Join(rootDir, PubspecFileName)); err == nil {
		if name != "" {
			p.Name = name
		}
		if version != "" {
			p.Version = version
		}
	}

	l10n, err := LoadL10nFile(fsys, rootDir)
	if err != nil {
		return nil, err
	}
	if l10n != nil {
		l10n.apply(p)
		p.ConfigFiles = append(p.ConfigFiles, L10nFileName)
	}

	af, err := LoadFile(fsys, rootDir)
	if err != nil {
		return nil, err
	}
	if af != nil {
		if err := af.apply(p); err != nil {
			return nil, fmt.Errorf("%s: %w", FileName, err)
		}
		p.ConfigFiles = append(p.ConfigFiles, FileName)
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks that the settings can be used for a run.
func (p *Project) Validate() error {
	if p.ARBDir == "" {
		return errors.New("ARB directory is empty")
	}
	if p.TemplateFile == "" {
		return errors.New("template file is empty")
	}
	if strings.ContainsRune(p.TemplateFile, filepath.Separator) || strings.Contains(p.TemplateFile, "/") {
		return fmt.Errorf("template file %q must be a file name inside the ARB directory", p.TemplateFile)
	}
	if _, err := glob.Compile(p.Pattern); err != nil {
		return fmt.Errorf("invalid pattern %q: %w", p.Pattern, err)
	}
	if p.Indent < 0 || p.Indent > 16 {
		return fmt.Errorf("indent %d out of range 0..16", p.Indent)
	}
	return nil
}

// ARBDirPath returns the ARB directory joined with Root.
func (p *Project) ARBDirPath() string {
	return filepath.Join(p.Root, p.ARBDir)
}

// TemplatePath returns the path of the source ARB file.
func (p *Project) TemplatePath() string {
	return filepath.Join(p.ARBDirPath(), p.TemplateFile)
}

// Layout returns the rendering settings for arbfile.Render.
func (p *Project) Layout() arbfile.Layout {
	return arbfile.Layout{
		Indent:      p.Indent,
		KeepEscaped: append([]rune(nil), p.KeepEscaped...),
	}
}

// PatternFor derives the target file pattern from a template file name:
// "app_en.arb" gives "app_*.arb". A name without an underscore matches
// every file with the same extension.
func PatternFor(template string) string {
	ext := filepath.Ext(template)
	base := strings.TrimSuffix(template, ext)
	if i := strings.IndexByte(base, '_'); i > 0 {
		return base[:i] + "_*" + ext
	}
	return "*" + ext
}

// ---------------------------------------------------------------------------
// l10n.yaml
// ---------------------------------------------------------------------------

// L10nFile is the subset of Flutter's l10n.yaml that locates ARB files.
type L10nFile struct {
	ARBDir          string `yaml:"arb-dir"`
	TemplateARBFile string `yaml:"template-arb-file"`
}

// LoadL10nFile loads l10n.yaml from rootDir. Returns nil if it doesn't exist.
func LoadL10nFile(fsys afero.Fs, rootDir string) (*L10nFile, error) {
	path := filepath.Join(rootDir, L10nFileName)
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var lf L10nFile
	if err := yaml.Unmarshal(data, &lf); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &lf, nil
}

func (lf *L10nFile) apply(p *Project) {
	if lf.ARBDir != "" {
		p.ARBDir = filepath.FromSlash(lf.ARBDir)
	}
	if lf.TemplateARBFile != "" {
		p.TemplateFile = lf.TemplateARBFile
		p.Pattern = PatternFor(lf.TemplateARBFile)
	}
}

// ---------------------------------------------------------------------------
// pubspec.yaml
// ---------------------------------------------------------------------------

type pubspec struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// parsePubspec extracts the package name and version from pubspec.yaml.
func parsePubspec(fsys afero.Fs, path string) (name, version string, err error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return "", "", err
	}
	var ps pubspec
	if err := yaml.Unmarshal(data, &ps); err != nil {
		return "", "", err
	}
	return ps.Name, ps.Version, nil
}

func absOrSelf(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
