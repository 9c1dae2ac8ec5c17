// arbsync keeps translated Flutter ARB files in step with their template:
// same keys, same order, same blank lines.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/multierr"

	"github.com/minios-linux/arbsync/config"
	"github.com/minios-linux/arbsync/i18n"
	"github.com/minios-linux/arbsync/langmeta"
	"github.com/minios-linux/arbsync/reconcile"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func logLine(attr color.Attribute, tag, format string, args ...any) {
	fmt.Fprintf(color.Error, "%s %s\n", color.New(attr).Sprint(tag), fmt.Sprintf(format, args...))
}

func logInfo(format string, args ...any)    { logLine(color.FgBlue, "[INFO]", format, args...) }
func logSuccess(format string, args ...any) { logLine(color.FgGreen, "[OK]", format, args...) }
func logWarning(format string, args ...any) { logLine(color.FgYellow, "[WARN]", format, args...) }
func logError(format string, args ...any)   { logLine(color.FgRed, "[ERROR]", format, args...) }

// ---------------------------------------------------------------------------
// Global flags
// ---------------------------------------------------------------------------

type options struct {
	root    string
	dir     string
	source  string
	pattern string
	verbose bool
	noColor bool
}

var opts options

func registerFlags(fs *pflag.FlagSet, o *options) {
	fs.StringVar(&o.root, "root", ".", i18n.T("Project root directory"))
	fs.StringVar(&o.dir, "dir", "", i18n.T("ARB directory relative to the root (default lib/l10n)"))
	fs.StringVar(&o.source, "source", "", i18n.T("Template ARB file name inside the ARB directory (default app_en.arb)"))
	fs.StringVar(&o.pattern, "pattern", "", i18n.T("Glob selecting target files (default derived from the template name)"))
	fs.BoolVarP(&o.verbose, "verbose", "v", false, i18n.T("Log language details and untranslated counts"))
	fs.BoolVar(&o.noColor, "no-color", false, i18n.T("Disable colored output"))
}

// applyFlags overlays explicitly set flags on top of the detected project.
// Changing the template without a pattern re-derives the pattern when the
// old one was derived too.
func applyFlags(proj *config.Project, fs *pflag.FlagSet, o *options) error {
	if fs.Changed("dir") {
		proj.ARBDir = o.dir
	}
	if fs.Changed("source") {
		if !fs.Changed("pattern") && proj.Pattern == config.PatternFor(proj.TemplateFile) {
			proj.Pattern = config.PatternFor(o.source)
		}
		proj.TemplateFile = o.source
	}
	if fs.Changed("pattern") {
		proj.Pattern = o.pattern
	}
	return proj.Validate()
}

func loadProject(cmd *cobra.Command) (*config.Project, error) {
	proj, err := config.Detect(afero.NewOsFs(), opts.root)
	if err != nil {
		return nil, err
	}
	if err := applyFlags(proj, cmd.Flags(), &opts); err != nil {
		return nil, err
	}
	return proj, nil
}

func newRunner(proj *config.Project) *reconcile.Runner {
	return &reconcile.Runner{
		Fs:      afero.NewOsFs(),
		Dir:     proj.ARBDirPath(),
		Source:  proj.TemplateFile,
		Pattern: proj.Pattern,
		Layout:  proj.Layout(),
	}
}

// ---------------------------------------------------------------------------
// Root command (sync)
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "arbsync",
		Short: i18n.T("Synchronize ARB translation files with their template"),
		Long: i18n.T(`arbsync rewrites every translated ARB file so it mirrors the template:
keys follow the template's order, keys the template does not have are
removed, missing translations become null and blank lines are copied
from the template.

Without a subcommand every lib/l10n/app_*.arb file is rewritten in place.`),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.noColor {
				color.NoColor = true
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd)
		},
	}

	registerFlags(root.PersistentFlags(), &opts)

	root.AddCommand(
		newCheckCmd(),
		newStatusCmd(),
		newVersionCmd(),
	)

	return root
}

func main() {
	i18n.Init("")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		logError("%v", err)
		stop()
		os.Exit(1)
	}
}

func runSync(cmd *cobra.Command) error {
	proj, err := loadProject(cmd)
	if err != nil {
		return err
	}
	if opts.verbose {
		logProject(proj)
	}

	r := newRunner(proj)
	r.OnResult = func(res *reconcile.Result) {
		// Scripts match this line, so it is never translated.
		fmt.Fprintf(cmd.OutOrStdout(), "File updated: %s\n", res.Name)
		if opts.verbose {
			logResult(res)
		}
	}

	results, err := r.Run(cmd.Context())
	if err != nil {
		return err
	}
	if opts.verbose {
		logSuccess("%s", i18n.N("%d file processed", "%d files processed", len(results)))
	}
	return nil
}

func logProject(proj *config.Project) {
	logInfo("%s", i18n.Tf("Template: %s", proj.TemplatePath()))
	logInfo("%s", i18n.Tf("Pattern: %s", proj.Pattern))
	if len(proj.ConfigFiles) > 0 {
		logInfo("%s", i18n.Tf("Configuration: %s", strings.Join(proj.ConfigFiles, ", ")))
	}
}

func logResult(res *reconcile.Result) {
	meta := langmeta.Resolve(res.Lang)
	logInfo("%s: %s (%s)", res.Name, meta.Label(), res.Lang)
	if n := len(res.Untranslated); n > 0 {
		logWarning("%s: %s", res.Name, i18n.N("%d untranslated key", "%d untranslated keys", n))
	}
	if len(res.Dropped) > 0 {
		logWarning("%s: %s", res.Name, i18n.Tf("removed keys missing from the template: %s", strings.Join(res.Dropped, ", ")))
	}
}

// ---------------------------------------------------------------------------
// check (read-only drift detection)
// ---------------------------------------------------------------------------

const diffContext = 3

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: i18n.T("Report files that are out of sync without writing them"),
		Long: i18n.T(`Render every target the way the default command would and print a
line diff for each file whose content would change. Exits with status 1
when any file is out of sync. Does not modify any files.`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd)
		},
	}
}

func runCheck(cmd *cobra.Command) error {
	proj, err := loadProject(cmd)
	if err != nil {
		return err
	}

	r := newRunner(proj)
	r.OnResult = func(res *reconcile.Result) {
		if res.Changed() {
			printDiff(cmd, res)
		} else if opts.verbose {
			logSuccess("%s", i18n.Tf("%s is up to date", res.Name))
		}
	}

	_, err = r.Check(cmd.Context())
	var drift *reconcile.DriftError
	if !errors.As(err, &drift) {
		return err
	}
	n := len(multierr.Errors(err))
	return errors.New(i18n.N("%d file is out of sync", "%d files are out of sync", n))
}

func printDiff(cmd *cobra.Command, res *reconcile.Result) {
	w := cmd.OutOrStdout()
	bold := color.New(color.Bold)
	bold.Fprintf(w, "--- %s\n", res.Path)
	bold.Fprintf(w, "+++ %s\n", res.Path)

	del := color.New(color.FgRed)
	ins := color.New(color.FgGreen)
	sep := color.New(color.FgCyan)
	for _, l := range reconcile.Hunks(reconcile.LineDiff(string(res.Before), string(res.After)), diffContext) {
		switch {
		case l == nil:
			sep.Fprintln(w, "@@")
		case l.Op == reconcile.OpDelete:
			del.Fprintln(w, l.String())
		case l.Op == reconcile.OpInsert:
			ins.Fprintln(w, l.String())
		default:
			fmt.Fprintln(w, l.String())
		}
	}
	fmt.Fprintln(w)
}

// ---------------------------------------------------------------------------
// status (read-only: project info + translation stats)
// ---------------------------------------------------------------------------

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: i18n.T("Show project info and translation statistics"),
		Long: i18n.T(`Show the detected ARB directory, template and pattern, followed by
per-language translation progress as it would be after synchronization.
Does not modify any files.`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd)
		},
	}
}

const progressWidth = 20

func runStatus(cmd *cobra.Command) error {
	proj, err := loadProject(cmd)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	head := color.New(color.FgBlue)
	head.Fprintf(w, "\n%s\n", i18n.T("Project"))
	fmt.Fprintln(w, strings.Repeat("─", 60))
	fmt.Fprintf(w, "  %-12s %s %s\n", i18n.T("Name:"), proj.Name, proj.Version)
	fmt.Fprintf(w, "  %-12s %s\n", i18n.T("ARB dir:"), proj.ARBDirPath())
	fmt.Fprintf(w, "  %-12s %s\n", i18n.T("Template:"), proj.TemplateFile)
	fmt.Fprintf(w, "  %-12s %s\n", i18n.T("Pattern:"), proj.Pattern)
	fmt.Fprintln(w)

	r := newRunner(proj)
	targets, err := reconcile.Discover(r.Fs, r.Dir, r.Pattern)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		logInfo("%s", i18n.Tf("No files match %s", proj.Pattern))
		return nil
	}

	head.Fprintf(w, "%s\n", i18n.T("Translation Statistics"))
	fmt.Fprintln(w, strings.Repeat("─", 60))
	fmt.Fprintf(w, "%-8s %-8s %-11s %-9s %-26s %s\n",
		i18n.T("Lang"), i18n.T("Keys"), i18n.T("Translated"), i18n.T("Untrans."), i18n.T("Progress"), i18n.T("Language"))

	drift := 0
	for _, t := range targets {
		if err := cmd.Context().Err(); err != nil {
			return err
		}
		res, err := reconcile.Render(r.Fs, r.SourcePath(), t.Path, r.Layout)
		if err != nil {
			return err
		}
		if res.Changed() {
			drift++
		}
		untranslated := len(res.Untranslated)
		translated := res.Total - untranslated
		fmt.Fprintf(w, "%-8s %-8d %-11d %-9d %s  %s\n",
			t.Lang, res.Total, translated, untranslated,
			progressBar(percentOf(translated, res.Total), progressWidth),
			langmeta.Resolve(t.Lang).Label())
	}
	fmt.Fprintln(w)

	if drift > 0 {
		logWarning("%s", i18n.N("%d file needs synchronization", "%d files need synchronization", drift))
	}
	return nil
}

func percentOf(n, total int) int {
	if total == 0 {
		return 100
	}
	return n * 100 / total
}

// progressBar renders a bar of width cells followed by the percentage.
// Below 50% the bar is red, below 100% yellow, otherwise green.
func progressBar(percent, width int) string {
	percent = max(0, min(100, percent))
	filled := percent * width / 100

	c := color.New(color.FgGreen)
	switch {
	case percent < 50:
		c = color.New(color.FgRed)
	case percent < 100:
		c = color.New(color.FgYellow)
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return c.Sprint(bar) + fmt.Sprintf(" %3d%%", percent)
}

// ---------------------------------------------------------------------------
// version
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: i18n.T("Show version information"),
		Long:  i18n.T(`Display version, commit hash, and build date.`),
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "arbsync version %s\n", version)
			fmt.Fprintf(w, "  commit:    %s\n", commit)
			fmt.Fprintf(w, "  built:     %s\n", date)
		},
	}
}

