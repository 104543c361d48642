// icucheck checks ICU MessageFormat plurals and selects in Flutter ARB,
// gettext PO and YAML translations.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/minios-linux/icucheck/config"
	"github.com/minios-linux/icucheck/i18n"
	"github.com/minios-linux/icucheck/result"
	"github.com/minios-linux/icucheck/rules"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Output streams; color.Output and color.Error handle Windows consoles.
var (
	stdout io.Writer = color.Output
	stderr io.Writer = color.Error
)

var (
	infoLabel    = color.New(color.FgBlue)
	successLabel = color.New(color.FgGreen)
	warningLabel = color.New(color.FgYellow, color.Bold)
	errorLabel   = color.New(color.FgRed)
	headingStyle = color.New(color.FgBlue)
)

func logInfo(format string, args ...any) {
	fmt.Fprintf(stderr, infoLabel.Sprint("[INFO]")+" "+format+"\n", args...)
}

func logSuccess(format string, args ...any) {
	fmt.Fprintf(stderr, successLabel.Sprint("[OK]")+" "+format+"\n", args...)
}

func logWarning(format string, args ...any) {
	fmt.Fprintf(stderr, warningLabel.Sprint("[WARN]")+" "+format+"\n", args...)
}

func logError(format string, args ...any) {
	fmt.Fprintf(stderr, errorLabel.Sprint("[ERROR]")+" "+format+"\n", args...)
}

// errFindings makes the process exit 1 without logging anything more; the
// report already says what is wrong.
var errFindings = errors.New("findings reported")

// ---------------------------------------------------------------------------
// Global flags
// ---------------------------------------------------------------------------

var (
	rootDir    string
	configPath string
	noColor    bool
)

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "icucheck",
		Short: i18n.T("Check ICU plurals and selects in translation files"),
		Long: i18n.T(`icucheck checks ICU MessageFormat plural, selectordinal and select
arguments in Flutter ARB, gettext PO and YAML (messages+intl-icu) files.

Source strings are checked for syntax, for the plural categories their
language needs and for parameters the comment for translators does not
explain. Translations are checked for syntax, for the plural categories
the target language needs, for categories they drop or add, for renamed
pivot variables and for categories left untranslated.

Without .icucheck.yaml, lib/l10n/*.arb, po/*.po and
translations/messages+intl-icu.*.yaml are found automatically.

Commands:
  check       Check translation files
  rules       List the rules and their severities
  init        Write .icucheck.yaml for the detected layout
  version     Show version information`),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor {
				color.NoColor = true
			}
		},
	}

	// Global persistent flags, inherited by all subcommands
	root.PersistentFlags().StringVar(&rootDir, "root", ".", i18n.T("Project root directory"))
	root.PersistentFlags().StringVar(&configPath, "config", "", i18n.T("Config file (default: <root>/.icucheck.yaml)"))
	root.PersistentFlags().BoolVar(&noColor, "no-color", false, i18n.T("Disable colored output"))

	root.AddCommand(
		newCheckCmd(),
		newRulesCmd(),
		newInitCmd(),
		newVersionCmd(),
	)

	return root
}

func main() {
	i18n.Init("")
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errFindings) {
			logError("%v", err)
		}
		os.Exit(1)
	}
}

// loadConfig reads --config or <root>/.icucheck.yaml. It returns nil when
// neither exists.
func loadConfig() (*config.File, error) {
	if configPath != "" {
		cfg, err := config.LoadFile(configPath)
		if err != nil {
			return nil, err
		}
		if cfg == nil {
			return nil, fmt.Errorf("config file %s not found", configPath)
		}
		return cfg, nil
	}
	return config.Load(rootDir)
}

// ---------------------------------------------------------------------------
// version (display version information)
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: i18n.T("Show version information"),
		Long:  i18n.T(`Display version, commit hash, and build date.`),
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "icucheck version %s\n", version)
			fmt.Fprintf(out, "  commit:    %s\n", commit)
			fmt.Fprintf(out, "  built:     %s\n", date)
		},
	}
}

// ---------------------------------------------------------------------------
// rules (list rules)
// ---------------------------------------------------------------------------

func newRulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: i18n.T("List the rules and their severities"),
		Long: i18n.T(`List every rule with its ID, its severity and what it checks.

Severities come from .icucheck.yaml when it overrides them; "off" marks a
disabled rule.`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return printRules(cmd.OutOrStdout(), cfg)
		},
	}
}

func printRules(w io.Writer, cfg *config.File) error {
	disabled := map[string]bool{}
	severity := map[string]result.Severity{}
	if cfg != nil {
		off, sev, err := cfg.RuleSettings()
		if err != nil {
			return err
		}
		for _, id := range off {
			disabled[id] = true
		}
		severity = sev
	}

	ids := rules.RuleIDs()
	width := 0
	for _, id := range ids {
		width = max(width, len(id))
	}

	for _, id := range ids {
		level := rules.DefaultSeverity(id).String()
		if sev, ok := severity[id]; ok {
			level = sev.String()
		}
		if disabled[id] {
			level = "off"
		}
		fmt.Fprintf(w, "%-*s  %s %s\n", width, id, severityColor(level).Sprintf("%-8s", level), rules.Describe(id))
	}
	return nil
}

func severityColor(level string) *color.Color {
	switch level {
	case "error":
		return errorLabel
	case "warning":
		return warningLabel
	default:
		return color.New(color.Faint)
	}
}

// ---------------------------------------------------------------------------
// init (write .icucheck.yaml)
// ---------------------------------------------------------------------------

func newInitCmd() *cobra.Command {
	var sourceLocale string
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: i18n.T("Write .icucheck.yaml for the detected layout"),
		Long: i18n.T(`Detect lib/l10n/*.arb, po/*.po and translations/*.yaml in the project
root and write a .icucheck.yaml declaring them as targets. An existing file is kept unless
--force is given.`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(sourceLocale, force)
		},
	}

	cmd.Flags().StringVar(&sourceLocale, "source-locale", config.DefaultSourceLocale, i18n.T("Locale of the source strings"))
	cmd.Flags().BoolVar(&force, "force", false, i18n.T("Overwrite an existing config file"))

	return cmd
}

func runInit(sourceLocale string, force bool) error {
	path := filepath.Join(rootDir, config.FileName)
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	cfg := config.Detect(rootDir, sourceLocale)
	if len(cfg.Targets) == 0 {
		logWarning(i18n.T("No translation files found; writing a config without targets"))
	}
	for _, t := range cfg.Targets {
		logInfo(i18n.T("Found %s target in %s"), t.Type, t.Dir)
	}
	if err := cfg.Write(path); err != nil {
		return err
	}
	logSuccess(i18n.T("Wrote %s"), path)
	return nil
}

// relPath makes path relative to the project root for reports and the
// baseline, falling back to path itself.
func relPath(path string) string {
	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(absRoot, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}
