// Package config loads .icucheck.yaml, the project configuration file.
//
// When the file exists it is the sole source of truth for what to check:
// every target must be declared. Without it, Detect looks for the usual
// Flutter and gettext layouts.
//
//	source_locale: en-US
//	baseline: icucheck.baseline
//	rules:
//	  source-icu-unexplained-params: off
//	  resource-icu-plurals-translated: error
//	targets:
//	  - name: app
//	    type: arb
//	    dir: lib/l10n
//	    source: app_en.arb
//	  - name: cli
//	    type: po
//	    dir: po
//	    locales: [ru, de]
//	  - name: web
//	    type: yaml
//	    dir: translations
//	    source: messages+intl-icu.en.yaml
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/minios-linux/icucheck/result"
	"github.com/minios-linux/icucheck/rules"
)

// FileName is the default config file name.
const FileName = ".icucheck.yaml"

// DefaultSourceLocale is used when neither the file nor a flag names one.
const DefaultSourceLocale = "en-US"

// DefaultBaseline is the baseline file name used by --update-baseline when
// the config does not name one.
const DefaultBaseline = "icucheck.baseline"

// ---------------------------------------------------------------------------
// YAML schema
// ---------------------------------------------------------------------------

// File is the top-level .icucheck.yaml structure.
type File struct {
	// SourceLocale is the locale source strings are written in.
	SourceLocale string `yaml:"source_locale,omitempty"`
	// Baseline is the path of the baseline file relative to the project root.
	Baseline string `yaml:"baseline,omitempty"`
	// IgnoreTags makes '<' plain text in messages.
	IgnoreTags bool `yaml:"ignore_tags,omitempty"`
	// Rules maps a rule ID to "off", "warning" or "error".
	Rules map[string]string `yaml:"rules,omitempty"`
	// Targets is the list of translation targets.
	Targets []Target `yaml:"targets"`
}

// Target describes one set of translation files.
type Target struct {
	// Name is a human-readable label shown in logs.
	Name string `yaml:"name"`
	// Type: "arb", "po" or "yaml".
	Type string `yaml:"type"`
	// Dir holds the translation files, relative to the project root.
	Dir string `yaml:"dir,omitempty"`
	// Source is the source-language file inside Dir. Not used by po
	// targets, which carry their source strings in msgid.
	Source string `yaml:"source,omitempty"`
	// Locales limits the check to these target locales.
	Locales []string `yaml:"locales,omitempty"`
	// SourceLocale overrides the global source locale for this target.
	SourceLocale string `yaml:"source_locale,omitempty"`
}

// TargetTypeARB is used for Flutter ARB directories.
const TargetTypeARB = "arb"

// TargetTypePO is used for gettext PO directories.
const TargetTypePO = "po"

// TargetTypeYAML is used for YAML catalogs of ICU messages.
const TargetTypeYAML = "yaml"

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Load loads and validates .icucheck.yaml from the given directory.
// Returns nil if no .icucheck.yaml exists.
func Load(rootDir string) (*File, error) {
	return LoadFile(filepath.Join(rootDir, FileName))
}

// LoadFile loads and validates a config file at path.
// Returns nil if the file does not exist.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := f.normalize(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &f, nil
}

// normalize applies defaults and validates every target.
func (f *File) normalize() error {
	if f.SourceLocale == "" {
		f.SourceLocale = DefaultSourceLocale
	}

	seen := make(map[string]bool)
	for i := range f.Targets {
		t := &f.Targets[i]

		if t.Name == "" {
			return fmt.Errorf("target #%d has no name", i+1)
		}
		if seen[t.Name] {
			return fmt.Errorf("target %q is declared twice", t.Name)
		}
		seen[t.Name] = true

		if t.SourceLocale == "" {
			t.SourceLocale = f.SourceLocale
		}

		switch t.Type {
		case TargetTypeARB:
			if t.Dir == "" {
				t.Dir = "lib/l10n"
			}
			if t.Source == "" {
				t.Source = "app_" + strings.ReplaceAll(baseOf(t.SourceLocale), "-", "_") + ".arb"
			}
		case TargetTypePO:
			if t.Dir == "" {
				t.Dir = "po"
			}
			if t.Source != "" {
				return fmt.Errorf("target %q: \"source\" is not used by po targets", t.Name)
			}
		case TargetTypeYAML:
			if t.Dir == "" {
				t.Dir = "translations"
			}
			if t.Source == "" {
				t.Source = "messages+intl-icu." + strings.ReplaceAll(baseOf(t.SourceLocale), "-", "_") + ".yaml"
			}
		case "":
			return fmt.Errorf("target %q has no type", t.Name)
		default:
			return fmt.Errorf("target %q has unknown type %q (valid: arb, po, yaml)", t.Name, t.Type)
		}
	}

	if _, _, err := f.RuleSettings(); err != nil {
		return err
	}
	return nil
}

func baseOf(locale string) string {
	base, _, _ := strings.Cut(strings.ReplaceAll(locale, "_", "-"), "-")
	return strings.ToLower(base)
}

// RuleSettings turns the rules map into the rules to disable and the
// severity overrides for the rest.
func (f *File) RuleSettings() (disabled []string, severity map[string]result.Severity, err error) {
	severity = make(map[string]result.Severity)
	ids := make([]string, 0, len(f.Rules))
	for id := range f.Rules {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		if !rules.Known(id) {
			return nil, nil, fmt.Errorf("unknown rule %q", id)
		}
		value := strings.ToLower(strings.TrimSpace(f.Rules[id]))
		if value == "off" || value == "false" {
			disabled = append(disabled, id)
			continue
		}
		sev, err := result.ParseSeverity(value)
		if err != nil {
			return nil, nil, fmt.Errorf("rule %q: %w", id, err)
		}
		severity[id] = sev
	}
	return disabled, severity, nil
}

// Write saves f as YAML to path.
func (f *File) Write(path string) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
