package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/minios-linux/icucheck/arbfile"
	"github.com/minios-linux/icucheck/langmeta"
	"github.com/minios-linux/icucheck/yamlfile"
)

// Detect builds a config for a project without .icucheck.yaml by looking
// for lib/l10n/*.arb, po/*.po (or po/LANG/*.po) and
// translations/messages+intl-icu.*.yaml. It returns a config with no
// targets when none of these layouts is present.
func Detect(rootDir, sourceLocale string) *File {
	if sourceLocale == "" {
		sourceLocale = DefaultSourceLocale
	}
	f := &File{SourceLocale: sourceLocale}

	if hasFiles(filepath.Join(rootDir, "lib", "l10n"), ".arb", "") {
		f.Targets = append(f.Targets, Target{Name: "flutter", Type: TargetTypeARB})
	}
	poDir := filepath.Join(rootDir, "po")
	if len(detectPOFiles(poDir)) > 0 {
		f.Targets = append(f.Targets, Target{Name: "gettext", Type: TargetTypePO})
	}
	if hasFiles(filepath.Join(rootDir, "translations"), ".yaml", "messages+intl-icu.") {
		f.Targets = append(f.Targets, Target{Name: "symfony", Type: TargetTypeYAML})
	}

	// Only fails on rules, and there are none yet.
	_ = f.normalize()
	return f
}

func hasFiles(dir, ext, prefix string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() && strings.HasSuffix(name, ext) && strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// Resolving targets to files
// ---------------------------------------------------------------------------

// TranslationFile is one target-language file of a target.
type TranslationFile struct {
	Locale string
	Path   string
}

// ResolvedTarget holds a target with absolute paths and the translation
// files found on disk.
type ResolvedTarget struct {
	Target Target
	AbsDir string
	// SourcePath is the absolute source file path (not set for PO).
	SourcePath string
	Files      []TranslationFile
}

// Resolve finds the translation files of every target. Targets whose
// directory does not exist are an error; a declared target that matches
// no files is not.
func (f *File) Resolve(projectRoot string) ([]ResolvedTarget, error) {
	absProjectRoot, err := filepath.Abs(projectRoot)
	if err != nil {
		return nil, err
	}

	var resolved []ResolvedTarget
	for _, t := range f.Targets {
		rt := ResolvedTarget{Target: t, AbsDir: filepath.Join(absProjectRoot, t.Dir)}
		if info, err := os.Stat(rt.AbsDir); err != nil || !info.IsDir() {
			return nil, fmt.Errorf("target %q: directory %s not found", t.Name, rt.AbsDir)
		}

		var files []TranslationFile
		switch t.Type {
		case TargetTypeARB:
			rt.SourcePath = filepath.Join(rt.AbsDir, t.Source)
			if _, err := os.Stat(rt.SourcePath); err != nil {
				return nil, fmt.Errorf("target %q: source file: %w", t.Name, err)
			}
			files = detectARBFiles(rt.AbsDir, t.Source)
		case TargetTypePO:
			files = detectPOFiles(rt.AbsDir)
		case TargetTypeYAML:
			rt.SourcePath = filepath.Join(rt.AbsDir, t.Source)
			if _, err := os.Stat(rt.SourcePath); err != nil {
				return nil, fmt.Errorf("target %q: source file: %w", t.Name, err)
			}
			files = detectYAMLFiles(rt.AbsDir, t.Source)
		}
		rt.Files = filterLocales(files, t.Locales, t.SourceLocale)
		resolved = append(resolved, rt)
	}
	return resolved, nil
}

// detectARBFiles lists the ARB files in dir other than the source file.
func detectARBFiles(dir, source string) []TranslationFile {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var files []TranslationFile
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".arb") || name == source {
			continue
		}
		path := filepath.Join(dir, name)
		locale := arbfile.LocaleFromPath(path)
		if parsed, err := arbfile.ParseFile(path); err == nil && parsed.Locale() != "" {
			locale = parsed.Locale()
		}
		if locale == "" {
			continue
		}
		files = append(files, TranslationFile{Locale: locale, Path: path})
	}
	sortFiles(files)
	return files
}

// detectYAMLFiles lists the catalogs in dir that share the source file's
// domain prefix: messages+intl-icu.en.yaml goes with
// messages+intl-icu.ru.yaml but not with validators.ru.yaml.
func detectYAMLFiles(dir, source string) []TranslationFile {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	srcPrefix, _ := yamlfile.SplitName(source)

	var files []TranslationFile
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || name == source || !(strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")) {
			continue
		}
		prefix, locale := yamlfile.SplitName(name)
		if prefix != srcPrefix || !isLangCode(locale) {
			continue
		}
		files = append(files, TranslationFile{Locale: locale, Path: filepath.Join(dir, name)})
	}
	sortFiles(files)
	return files
}

// detectPOFiles finds PO files in the flat (po/ru.po) and nested
// (po/ru/app.po) layouts.
func detectPOFiles(dir string) []TranslationFile {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var files []TranslationFile
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() {
			if strings.HasSuffix(name, ".po") {
				files = append(files, TranslationFile{
					Locale: strings.TrimSuffix(name, ".po"),
					Path:   filepath.Join(dir, name),
				})
			}
			continue
		}
		if !isLangCode(name) {
			continue
		}
		langDir := filepath.Join(dir, name)
		subEntries, err := os.ReadDir(langDir)
		if err != nil {
			continue
		}
		for _, sub := range subEntries {
			if !sub.IsDir() && strings.HasSuffix(sub.Name(), ".po") {
				files = append(files, TranslationFile{Locale: name, Path: filepath.Join(langDir, sub.Name())})
			}
		}
	}
	sortFiles(files)
	return files
}

// isLangCode checks if a string looks like a locale identifier (en, ru,
// pt_BR, zh-Hant, ...).
func isLangCode(s string) bool {
	if len(s) < 2 || len(s) > 11 {
		return false
	}
	_, err := langmeta.Parse(s)
	return err == nil
}

func sortFiles(files []TranslationFile) {
	sort.Slice(files, func(i, j int) bool {
		if files[i].Locale != files[j].Locale {
			return files[i].Locale < files[j].Locale
		}
		return files[i].Path < files[j].Path
	})
}

// filterLocales keeps the files whose locale is listed, or all of them
// when the list is empty. Files in the source locale itself are dropped.
func filterLocales(files []TranslationFile, locales []string, sourceLocale string) []TranslationFile {
	want := make(map[string]bool, len(locales))
	for _, l := range locales {
		want[langmeta.Canonicalize(l)] = true
	}
	src := langmeta.Canonicalize(sourceLocale)

	var out []TranslationFile
	for _, tf := range files {
		locale := langmeta.Canonicalize(tf.Locale)
		if locale == src {
			continue
		}
		if len(want) > 0 && !want[locale] {
			continue
		}
		out = append(out, tf)
	}
	return out
}
