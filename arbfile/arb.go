// Package arbfile reads Flutter ARB (Application Resource Bundle) files and
// turns them into resources for the checker.
//
// ARB files are JSON files with a specific structure:
//
//   - "@@locale" holds the BCP-47 language code (e.g. "en", "ru").
//   - Keys starting with "@" (other than "@@locale") are metadata entries
//     (e.g. "@greeting"); their "description" is the comment for
//     translators.
//   - All other string values are ICU MessageFormat strings.
//
// File naming convention: app_LANG.arb (e.g. app_en.arb, app_ru.arb) stored
// in a single directory (e.g. lib/l10n/).
package arbfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/minios-linux/icucheck/resource"
)

// ---------------------------------------------------------------------------
// File model
// ---------------------------------------------------------------------------

// entry is a single translatable key in the ARB file.
type entry struct {
	key         string
	value       string
	description string
	line        int
}

// File represents a parsed ARB file.
type File struct {
	// locale is the value of @@locale.
	locale string
	// entries stores translatable keys in document order.
	entries []entry
	// index maps key → index in entries.
	index map[string]int
}

// metadata is the part of an "@key" object icucheck cares about.
type metadata struct {
	Description string `json:"description"`
}

// ---------------------------------------------------------------------------
// Parsing
// ---------------------------------------------------------------------------

// ParseFile reads and parses an ARB file from disk.
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

// Parse parses ARB content from a byte slice. Keys keep their document
// order and the line they start on.
func Parse(data []byte) (*File, error) {
	f := &File{index: make(map[string]int)}
	descriptions := make(map[string]string)

	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("parsing ARB: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("parsing ARB: expected '{', got %v", tok)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parsing ARB key: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("parsing ARB: expected string key, got %T", keyTok)
		}
		// The decoder has just consumed the key, so the offset is on its line.
		line := 1 + bytes.Count(data[:dec.InputOffset()], []byte("\n"))

		var rawVal json.RawMessage
		if err := dec.Decode(&rawVal); err != nil {
			return nil, fmt.Errorf("parsing ARB value for %q: %w", key, err)
		}

		switch {
		case key == "@@locale":
			_ = json.Unmarshal(rawVal, &f.locale)
		case strings.HasPrefix(key, "@@"):
			// Other global metadata such as @@last_modified.
		case strings.HasPrefix(key, "@"):
			var meta metadata
			if err := json.Unmarshal(rawVal, &meta); err == nil {
				descriptions[key[1:]] = meta.Description
			}
		default:
			var s string
			if err := json.Unmarshal(rawVal, &s); err != nil {
				return nil, fmt.Errorf("parsing ARB: value of %q is not a string", key)
			}
			f.index[key] = len(f.entries)
			f.entries = append(f.entries, entry{key: key, value: s, line: line})
		}
	}
	if tok, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("parsing ARB: %w", err)
	} else if delim, ok := tok.(json.Delim); !ok || delim != '}' {
		return nil, fmt.Errorf("parsing ARB: expected '}', got %v", tok)
	}

	// Metadata may precede or follow its key.
	for key, desc := range descriptions {
		if idx, ok := f.index[key]; ok {
			f.entries[idx].description = desc
		}
	}
	return f, nil
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

// Locale returns the @@locale value.
func (f *File) Locale() string { return f.locale }

// Keys returns all translatable keys in document order.
func (f *File) Keys() []string {
	keys := make([]string, 0, len(f.entries))
	for _, e := range f.entries {
		keys = append(keys, e.key)
	}
	return keys
}

// Get returns the string value for a translatable key.
func (f *File) Get(key string) (string, bool) {
	if idx, ok := f.index[key]; ok {
		return f.entries[idx].value, true
	}
	return "", false
}

// Line returns the 1-based line key starts on, or 0 if key is unknown.
func (f *File) Line(key string) int {
	if idx, ok := f.index[key]; ok {
		return f.entries[idx].line
	}
	return 0
}

// Stats returns (total, translated, percentTranslated).
func (f *File) Stats() (int, int, float64) {
	total, translated := len(f.entries), 0
	for _, e := range f.entries {
		if e.value != "" {
			translated++
		}
	}
	pct := 0.0
	if total > 0 {
		pct = float64(translated) / float64(total) * 100
	}
	return total, translated, pct
}

// ---------------------------------------------------------------------------
// Locale detection
// ---------------------------------------------------------------------------

// LocaleFromPath guesses a locale from an ARB file name: app_pt_BR.arb →
// pt_BR, intl_ru.arb → ru. It returns "" when the name has no suffix.
func LocaleFromPath(path string) string {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	prefix, rest, ok := strings.Cut(name, "_")
	if !ok || prefix == "" {
		return ""
	}
	return rest
}

// FileLocale returns the @@locale of f, falling back to the file name.
func FileLocale(f *File, path string) string {
	if f.locale != "" {
		return f.locale
	}
	return LocaleFromPath(path)
}

// ---------------------------------------------------------------------------
// Resources
// ---------------------------------------------------------------------------

// Resources pairs every key of src with its translation in tgt. tgt may be
// nil to check the source file alone. Descriptions and line numbers come
// from the source file; a target line number is used when the key exists
// there, since that is where a translator would fix it.
func Resources(src *File, srcLocale string, tgt *File, tgtLocale, path string) []*resource.Resource {
	out := make([]*resource.Resource, 0, len(src.entries))
	for _, e := range src.entries {
		r := &resource.Resource{
			Kind:         resource.KindString,
			Key:          e.key,
			Path:         path,
			Comment:      e.description,
			SourceLocale: srcLocale,
			TargetLocale: tgtLocale,
			LineNumber:   e.line,
			Source:       e.value,
		}
		if tgt != nil {
			if v, ok := tgt.Get(e.key); ok && v != "" {
				r.Target, r.HasTarget = v, true
				r.LineNumber = tgt.Line(e.key)
			}
		}
		out = append(out, r)
	}
	return out
}
