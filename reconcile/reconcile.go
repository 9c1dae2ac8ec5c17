// Package reconcile rewrites translated ARB files so they mirror the key
// order and key set of the source (template) ARB file.
//
// For every target file the source is read as raw lines and as JSON, the
// target is equalized against it (see package merge), rendered as indented
// JSON with the source's blank lines restored, and written back in place.
package reconcile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
	"github.com/spf13/afero"
	"go.uber.org/multierr"

	"github.com/minios-linux/arbsync/arbfile"
	"github.com/minios-linux/arbsync/merge"
)

// filePerm is used only when a target does not exist yet; existing files
// keep their mode.
const filePerm os.FileMode = 0644

// Result describes one reconciled target.
type Result struct {
	// Name is the target's file name, Path its full path.
	Name string
	Path string
	// Lang is the language code derived from Name.
	Lang string
	// Locale is the @@locale value of the rendered target, if any.
	Locale string
	// Before is the target content that was read, After the rendered content.
	Before []byte
	After  []byte
	// Untranslated lists translatable keys that are null or empty after
	// reconciliation.
	Untranslated []string
	// Dropped lists top-level target keys that were removed because the
	// source does not have them.
	Dropped []string
	// Total is the number of translatable keys.
	Total int
}

// Changed reports whether the rendered content differs from what was read.
func (r *Result) Changed() bool {
	return !bytes.Equal(r.Before, r.After)
}

// Render reconciles targetPath against sourcePath and returns the result
// without writing anything.
func Render(fsys afero.Fs, sourcePath, targetPath string, layout arbfile.Layout) (*Result, error) {
	source, err := arbfile.ParseFile(fsys, sourcePath)
	if err != nil {
		return nil, err
	}
	before, err := arbfile.ReadFile(fsys, targetPath)
	if err != nil {
		return nil, err
	}
	target, err := arbfile.ParseNamed(targetPath, before)
	if err != nil {
		return nil, err
	}

	reordered := merge.Equalize(source.Root(), target.Root())
	after := arbfile.Render(reordered, source.Lines(), layout)

	name := filepath.Base(targetPath)
	res := &Result{
		Name:    name,
		Path:    targetPath,
		Lang:    LanguageCode(name),
		Before:  before,
		After:   after,
		Dropped: merge.Dropped(source.Root(), target.Root()),
	}

	// Stats describe the rendered bytes, not the in-memory tree.
	if out, err := arbfile.Parse(after); err == nil {
		res.Locale = out.Locale()
		res.Untranslated = out.UntranslatedKeys()
		res.Total = len(out.Keys())
	}
	return res, nil
}

// File reconciles targetPath against sourcePath and overwrites targetPath
// with the result. Nothing is written unless rendering succeeded.
func File(fsys afero.Fs, sourcePath, targetPath string, layout arbfile.Layout) (*Result, error) {
	res, err := Render(fsys, sourcePath, targetPath, layout)
	if err != nil {
		return nil, err
	}
	if err := afero.WriteFile(fsys, targetPath, res.After, filePerm); err != nil {
		return nil, &arbfile.IOError{Op: "write", Path: targetPath, Err: err}
	}
	return res, nil
}

// ---------------------------------------------------------------------------
// Discovery
// ---------------------------------------------------------------------------

// Target is a file selected for reconciliation.
type Target struct {
	Name string
	Path string
	Lang string
}

// Discover lists the regular files in dir whose names match pattern,
// sorted by name.
func Discover(fsys afero.Fs, dir, pattern string) ([]Target, error) {
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}

	entries, err := afero.ReadDir(fsys, dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &arbfile.NotFoundError{Path: dir, Err: err}
		}
		return nil, &arbfile.IOError{Op: "read", Path: dir, Err: err}
	}

	var targets []Target
	for _, e := range entries {
		if e.IsDir() || !g.Match(e.Name()) {
			continue
		}
		targets = append(targets, Target{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Lang: LanguageCode(e.Name()),
		})
	}
	sort.Slice(targets, func(i, j int) bool { return targets[i].Name < targets[j].Name })
	return targets, nil
}

// LanguageCode derives the language code from a file name: the text
// between the first and second underscore, cut at the first dot, so
// "app_de.arb" gives "de" and "app_pt_BR.arb" gives "pt". A name without
// an underscore gives the name without its extension.
func LanguageCode(name string) string {
	parts := strings.Split(name, "_")
	if len(parts) < 2 {
		return strings.TrimSuffix(name, filepath.Ext(name))
	}
	code, _, _ := strings.Cut(parts[1], ".")
	return code
}

// ---------------------------------------------------------------------------
// Directory runs
// ---------------------------------------------------------------------------

// Runner reconciles every matching target in one directory.
type Runner struct {
	Fs afero.Fs
	// Dir holds both the source file and the targets.
	Dir string
	// Source is the file name of the source ARB inside Dir.
	Source string
	// Pattern selects targets by file name. The source matches the default
	// pattern too and is normalized like any other target.
	Pattern string
	Layout  arbfile.Layout
	// OnResult, if set, is called after each target has been processed.
	OnResult func(*Result)
}

// SourcePath returns the path of the source file.
func (r *Runner) SourcePath() string {
	return filepath.Join(r.Dir, r.Source)
}

// Run reconciles and rewrites every target in name order. It stops at the
// first failure; files processed before it stay written. Cancelling ctx
// stops the run before the next file.
func (r *Runner) Run(ctx context.Context) ([]*Result, error) {
	return r.each(ctx, File, nil)
}

// Check renders every target without writing and returns a *DriftError
// for each target whose content would change, combined with multierr.
// Read and parse failures abort the check like they abort Run.
func (r *Runner) Check(ctx context.Context) ([]*Result, error) {
	var drift error
	results, err := r.each(ctx, Render, func(res *Result) {
		if res.Changed() {
			drift = multierr.Append(drift, &DriftError{Path: res.Path})
		}
	})
	if err != nil {
		return results, err
	}
	return results, drift
}

type processFunc func(fsys afero.Fs, sourcePath, targetPath string, layout arbfile.Layout) (*Result, error)

func (r *Runner) each(ctx context.Context, process processFunc, after func(*Result)) ([]*Result, error) {
	targets, err := Discover(r.Fs, r.Dir, r.Pattern)
	if err != nil {
		return nil, err
	}

	var results []*Result
	for _, t := range targets {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res, err := process(r.Fs, r.SourcePath(), t.Path, r.Layout)
		if err != nil {
			return results, err
		}
		results = append(results, res)
		if after != nil {
			after(res)
		}
		if r.OnResult != nil {
			r.OnResult(res)
		}
	}
	return results, nil
}

// DriftError reports a target whose content is not what reconciliation
// would produce.
type DriftError struct {
	Path string
}

func (e *DriftError) Error() string {
	return fmt.Sprintf("%s is out of sync", e.Path)
}
