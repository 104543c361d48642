package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/minios-linux/icucheck/arbfile"
	"github.com/minios-linux/icucheck/baseline"
	"github.com/minios-linux/icucheck/config"
	"github.com/minios-linux/icucheck/highlight"
	"github.com/minios-linux/icucheck/i18n"
	"github.com/minios-linux/icucheck/langmeta"
	"github.com/minios-linux/icucheck/pofile"
	"github.com/minios-linux/icucheck/resource"
	"github.com/minios-linux/icucheck/result"
	"github.com/minios-linux/icucheck/rules"
	"github.com/minios-linux/icucheck/yamlfile"
)

// ---------------------------------------------------------------------------
// check
// ---------------------------------------------------------------------------

// checkArgs holds all flags for the check command.
type checkArgs struct {
	targets        []string
	sourceLocale   string
	format         string
	baselinePath   string
	updateBaseline bool
	disable        []string
	failOnWarning  bool
	ignoreTags     bool
}

func newCheckCmd() *cobra.Command {
	var a checkArgs

	cmd := &cobra.Command{
		Use:   "check [target...]",
		Short: i18n.T("Check translation files"),
		Long: i18n.T(`Check every target declared in .icucheck.yaml, or the detected ARB, PO
and YAML files when there is no config. Naming targets limits the check to them.

Findings already recorded in the baseline file are not reported. Use
--update-baseline to accept the current findings.

Exit status is 1 when an error remains (or a warning, with
--fail-on-warning).`),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.targets = args
			return runCheck(a)
		},
	}

	f := cmd.Flags()
	f.StringVar(&a.sourceLocale, "source-locale", "", i18n.T("Locale of the source strings (overrides the config)"))
	f.StringVar(&a.format, "format", "text", i18n.T("Output format: text or json"))
	f.StringVar(&a.baselinePath, "baseline", "", i18n.T("Baseline file (default: from config, or icucheck.baseline)"))
	f.BoolVar(&a.updateBaseline, "update-baseline", false, i18n.T("Record the current findings in the baseline file and exit"))
	f.StringSliceVar(&a.disable, "disable", nil, i18n.T("Rule IDs to disable (comma-separated)"))
	f.BoolVar(&a.failOnWarning, "fail-on-warning", false, i18n.T("Exit with status 1 on warnings too"))
	f.BoolVar(&a.ignoreTags, "ignore-tags", false, i18n.T("Treat '<' as plain text instead of markup"))

	return cmd
}

func runCheck(a checkArgs) error {
	if a.format != "text" && a.format != "json" {
		return fmt.Errorf("unknown format %q (valid: text, json)", a.format)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg == nil {
		cfg = config.Detect(rootDir, a.sourceLocale)
		if len(cfg.Targets) == 0 {
			return fmt.Errorf("no translation files found in %s (create %s or run 'icucheck init')", rootDir, config.FileName)
		}
	}
	if a.sourceLocale != "" {
		cfg.SourceLocale = a.sourceLocale
		for i := range cfg.Targets {
			cfg.Targets[i].SourceLocale = a.sourceLocale
		}
	}
	if err := selectTargets(cfg, a.targets); err != nil {
		return err
	}

	checker, err := newChecker(cfg, a)
	if err != nil {
		return err
	}
	// ARB and YAML targets share one source file; its own findings are reported
	// once, against that file, instead of once per translation.
	translationChecker, err := newChecker(cfg, a, sourceRules...)
	if err != nil {
		return err
	}

	resolved, err := cfg.Resolve(rootDir)
	if err != nil {
		return err
	}

	var results []result.Result
	files := 0
	for _, rt := range resolved {
		rs, n, err := checkTarget(checker, translationChecker, rt)
		if err != nil {
			return err
		}
		results = append(results, rs...)
		files += n
	}

	blPath := a.baselinePath
	if blPath == "" && cfg.Baseline != "" {
		blPath = cfg.Baseline
	}
	if blPath == "" {
		blPath = config.DefaultBaseline
	}
	if !filepath.IsAbs(blPath) {
		blPath = filepath.Join(rootDir, blPath)
	}

	bl, err := baseline.Load(blPath)
	if err != nil {
		return err
	}
	if a.updateBaseline {
		bl.Update(results)
		if err := bl.Save(); err != nil {
			return err
		}
		logSuccess(i18n.T("Baseline %s updated: %s"), relPath(bl.Path()), bl.Summary())
		return nil
	}

	results, suppressed := bl.Filter(results)

	switch a.format {
	case "json":
		if err := writeJSON(stdout, results); err != nil {
			return err
		}
	default:
		writeReport(stdout, results)
		writeSummary(results, files, suppressed)
	}

	errs, warnings := result.Stats(results)
	if errs > 0 || (a.failOnWarning && warnings > 0) {
		return errFindings
	}
	return nil
}

// selectTargets keeps only the named targets.
func selectTargets(cfg *config.File, names []string) error {
	if len(names) == 0 {
		return nil
	}
	byName := make(map[string]config.Target, len(cfg.Targets))
	for _, t := range cfg.Targets {
		byName[t.Name] = t
	}
	var kept []config.Target
	for _, name := range names {
		t, ok := byName[name]
		if !ok {
			return fmt.Errorf("unknown target %q", name)
		}
		kept = append(kept, t)
	}
	cfg.Targets = kept
	return nil
}

// sourceRules only look at the source string.
var sourceRules = []string{rules.SourceSyntax, rules.SourceCategories, rules.SourceParams, rules.UnexplainedParams}

func newChecker(cfg *config.File, a checkArgs, extraDisabled ...string) (*rules.Checker, error) {
	disabled, severity, err := cfg.RuleSettings()
	if err != nil {
		return nil, err
	}
	disabled = append(disabled, extraDisabled...)
	for _, id := range a.disable {
		id = strings.TrimSpace(id)
		if !rules.Known(id) {
			return nil, fmt.Errorf("unknown rule %q (see 'icucheck rules')", id)
		}
		disabled = append(disabled, id)
	}

	opts := []rules.Option{rules.WithDisabled(disabled...)}
	for id, sev := range severity {
		opts = append(opts, rules.WithSeverity(id, sev))
	}
	if cfg.IgnoreTags || a.ignoreTags {
		opts = append(opts, rules.WithoutTags())
	}
	return rules.New(opts...), nil
}

// checkTarget checks every translation file of a target and returns the
// findings and the number of files read.
func checkTarget(checker, translationChecker *rules.Checker, rt config.ResolvedTarget) ([]result.Result, int, error) {
	t := rt.Target
	var results []result.Result

	switch t.Type {
	case config.TargetTypeARB:
		src, err := arbfile.ParseFile(rt.SourcePath)
		if err != nil {
			return nil, 0, err
		}
		srcLocale := t.SourceLocale
		results = checkResources(checker, arbfile.Resources(src, srcLocale, nil, "", relPath(rt.SourcePath)))
		for _, tf := range rt.Files {
			tgt, err := arbfile.ParseFile(tf.Path)
			if err != nil {
				return nil, 0, err
			}
			locale := langmeta.Canonicalize(arbfile.FileLocale(tgt, tf.Path))
			resources := arbfile.Resources(src, srcLocale, tgt, locale, relPath(tf.Path))
			results = append(results, checkResources(translationChecker, resources)...)
		}
		return results, len(rt.Files) + 1, nil

	case config.TargetTypePO:
		for _, tf := range rt.Files {
			f, err := pofile.ParseFile(tf.Path)
			if err != nil {
				return nil, 0, err
			}
			locale := langmeta.Canonicalize(pofile.Language(f, tf.Path))
			results = append(results, checkResources(checker, pofile.Resources(f, t.SourceLocale, locale, relPath(tf.Path)))...)
		}
		return results, len(rt.Files), nil

	case config.TargetTypeYAML:
		src, err := yamlfile.ParseFile(rt.SourcePath)
		if err != nil {
			return nil, 0, err
		}
		srcLocale := t.SourceLocale
		results = checkResources(checker, yamlfile.Resources(src, srcLocale, nil, "", relPath(rt.SourcePath)))
		for _, tf := range rt.Files {
			tgt, err := yamlfile.ParseFile(tf.Path)
			if err != nil {
				return nil, 0, err
			}
			locale := langmeta.Canonicalize(yamlfile.FileLocale(tgt, tf.Path))
			resources := yamlfile.Resources(src, srcLocale, tgt, locale, relPath(tf.Path))
			results = append(results, checkResources(translationChecker, resources)...)
		}
		return results, len(rt.Files) + 1, nil
	}
	return nil, 0, fmt.Errorf("target %q has unknown type %q", t.Name, t.Type)
}

func checkResources(checker *rules.Checker, resources []*resource.Resource) []result.Result {
	var results []result.Result
	for _, r := range resources {
		results = append(results, checker.CheckResource(r)...)
	}
	return results
}

// ---------------------------------------------------------------------------
// Output
// ---------------------------------------------------------------------------

func writeJSON(w io.Writer, results []result.Result) error {
	if results == nil {
		results = []result.Result{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("encoding results: %w", err)
	}
	return nil
}

var markStyle = color.New(color.FgRed, color.Bold, color.Underline)

// renderHighlight shows the marked ranges of a highlight in color, or in
// »brackets« when color is off. An empty range becomes a caret.
func renderHighlight(hl string) string {
	return highlight.Render(hl, func(text string) string {
		if text == "" {
			text = "^"
		}
		if color.NoColor {
			return "»" + text + "«"
		}
		return markStyle.Sprint(text)
	})
}

// writeReport prints the findings grouped by file, in file order.
func writeReport(w io.Writer, results []result.Result) {
	byPath := make(map[string][]result.Result)
	var paths []string
	for _, r := range results {
		if _, ok := byPath[r.PathName]; !ok {
			paths = append(paths, r.PathName)
		}
		byPath[r.PathName] = append(byPath[r.PathName], r)
	}
	sort.Strings(paths)

	for _, path := range paths {
		rs := byPath[path]
		sort.SliceStable(rs, func(i, j int) bool { return rs[i].LineNumber < rs[j].LineNumber })

		heading := path
		if locale := rs[0].Locale; locale != "" {
			heading = fmt.Sprintf("%s (%s)", path, langmeta.DisplayName(locale))
		}
		fmt.Fprintf(w, "\n%s\n", headingStyle.Sprint(heading))
		fmt.Fprintln(w, strings.Repeat("─", 60))

		for _, r := range rs {
			level := r.Severity.String()
			fmt.Fprintf(w, "%5d  %s %s %s\n",
				r.LineNumber,
				severityColor(level).Sprintf("%-8s", level),
				r.Description,
				color.New(color.Faint).Sprintf("[%s]", r.ID))
			if r.Key != "" {
				fmt.Fprintf(w, "       %s %s\n", i18n.T("key:"), r.Key)
			}
			fmt.Fprintf(w, "       %s\n", renderHighlight(r.Highlight))
		}
	}
	if len(paths) > 0 {
		fmt.Fprintln(w)
	}
}

// writeSummary logs the totals to stderr.
func writeSummary(results []result.Result, files, suppressed int) {
	errs, warnings := result.Stats(results)
	checked := fmt.Sprintf(i18n.N("%d file checked", "%d files checked", files), files)

	if errs == 0 && warnings == 0 {
		logSuccess("%s. %s", i18n.T("No problems found"), checked)
	} else {
		msg := fmt.Sprintf("%s, %s. %s",
			fmt.Sprintf(i18n.N("%d error", "%d errors", errs), errs),
			fmt.Sprintf(i18n.N("%d warning", "%d warnings", warnings), warnings),
			checked)
		if errs > 0 {
			logError("%s", msg)
		} else {
			logWarning("%s", msg)
		}
	}
	if suppressed > 0 {
		logInfo(i18n.N("%d finding suppressed by the baseline", "%d findings suppressed by the baseline", suppressed), suppressed)
	}
}
