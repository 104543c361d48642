// Package yamlfile reads YAML catalogs whose values are ICU messages, such
// as Symfony's messages+intl-icu.<locale>.yaml.
//
// The expected file format is a nested YAML map with string leaf values:
//
//	greeting: Hello
//	inbox:
//	  count: '{count, plural, one {# message} other {# messages}}'
//
// Rails i18n style (locale as the top-level key) is also supported:
//
//	en:
//	  greeting: Hello
//
// Keys are dot-joined paths ("inbox.count"). Non-string leaves (numbers,
// booleans, null) and sequences are skipped.
package yamlfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/minios-linux/icucheck/resource"
)

// Entry is a single message.
type Entry struct {
	// Path is the dot-joined key path (e.g. "inbox.count").
	Path  string
	Value string
	// Line is the 1-based line of the key.
	Line int
}

// File is a parsed YAML catalog.
type File struct {
	entries []Entry
	index   map[string]int
	// rootLocaleKey is set when the file uses Rails i18n style (e.g. "en:").
	rootLocaleKey string
}

// ParseFile reads and parses a YAML catalog.
func ParseFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse parses YAML data into a File.
func Parse(data []byte) (*File, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}

	f := &File{index: make(map[string]int)}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return f, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("YAML root must be a mapping, got kind %d", root.Kind)
	}

	// Rails i18n style: single top-level key whose value is a mapping.
	if len(root.Content) == 2 {
		keyNode, valNode := root.Content[0], root.Content[1]
		if keyNode.Kind == yaml.ScalarNode && valNode.Kind == yaml.MappingNode && looksLikeLocale(keyNode.Value) {
			f.rootLocaleKey = keyNode.Value
			f.collect(valNode, "")
			return f, nil
		}
	}

	f.collect(root, "")
	return f, nil
}

func (f *File) collect(node *yaml.Node, prefix string) {
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valNode := node.Content[i], node.Content[i+1]

		path := keyNode.Value
		if prefix != "" {
			path = prefix + "." + path
		}

		switch valNode.Kind {
		case yaml.MappingNode:
			f.collect(valNode, path)
		case yaml.ScalarNode:
			switch valNode.Tag {
			case "!!bool", "!!int", "!!float", "!!null":
				continue
			}
			f.index[path] = len(f.entries)
			f.entries = append(f.entries, Entry{Path: path, Value: valNode.Value, Line: keyNode.Line})
		}
	}
}

// looksLikeLocale accepts "en", "pt-BR", "zh_Hant" but not message keys
// like "app" or "messages".
func looksLikeLocale(s string) bool {
	base, _, _ := strings.Cut(strings.ReplaceAll(s, "_", "-"), "-")
	if len(base) != 2 && len(base) != 3 {
		return false
	}
	for _, r := range base {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return len(base) == 2 || len(s) > 3
}

// Keys returns all entry paths in document order.
func (f *File) Keys() []string {
	keys := make([]string, len(f.entries))
	for i, e := range f.entries {
		keys[i] = e.Path
	}
	return keys
}

// Get returns the value for path.
func (f *File) Get(path string) (string, bool) {
	idx, ok := f.index[path]
	if !ok {
		return "", false
	}
	return f.entries[idx].Value, true
}

// Line returns the line path starts on, or 0 if path is unknown.
func (f *File) Line(path string) int {
	if idx, ok := f.index[path]; ok {
		return f.entries[idx].Line
	}
	return 0
}

// Locale returns the top-level locale key of a Rails-style file, or "".
func (f *File) Locale() string { return f.rootLocaleKey }

// Stats returns the number of entries and how many have a value.
func (f *File) Stats() (total, translated int) {
	for _, e := range f.entries {
		if e.Value != "" {
			translated++
		}
	}
	return len(f.entries), translated
}

// LocaleFromPath takes the locale from a catalog file name:
// "messages+intl-icu.pt_BR.yaml" gives "pt_BR", "ru.yml" gives "ru".
func LocaleFromPath(path string) string {
	_, locale := SplitName(filepath.Base(path))
	return locale
}

// SplitName splits a catalog file name into its domain prefix and locale.
// The prefix is "" for files named after the locale alone.
func SplitName(name string) (prefix, locale string) {
	stem := strings.TrimSuffix(strings.TrimSuffix(name, ".yaml"), ".yml")
	if i := strings.LastIndex(stem, "."); i >= 0 {
		return stem[:i], stem[i+1:]
	}
	return "", stem
}

// FileLocale prefers the Rails root key over the file name.
func FileLocale(f *File, path string) string {
	if f != nil && f.Locale() != "" {
		return f.Locale()
	}
	return LocaleFromPath(path)
}

// Resources pairs every source message with its translation in tgt; pass
// nil to check the source file alone. Line numbers come from the target
// when the key is translated there.
func Resources(src *File, srcLocale string, tgt *File, tgtLocale, path string) []*resource.Resource {
	out := make([]*resource.Resource, 0, len(src.entries))
	for _, e := range src.entries {
		r := &resource.Resource{
			Kind:         resource.KindString,
			Key:          e.Path,
			Path:         path,
			SourceLocale: srcLocale,
			TargetLocale: tgtLocale,
			LineNumber:   e.Line,
			Source:       e.Value,
		}
		if tgt != nil {
			if v, ok := tgt.Get(e.Path); ok && v != "" {
				r.Target, r.HasTarget = v, true
				r.LineNumber = tgt.Line(e.Path)
			}
		}
		out = append(out, r)
	}
	return out
}
