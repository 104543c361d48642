// Package pofile reads PO files following the GNU gettext format
// specification and turns their entries into resources for the checker.
package pofile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/minios-linux/icucheck/langmeta"
	"github.com/minios-linux/icucheck/msgformat"
	"github.com/minios-linux/icucheck/plurals"
	"github.com/minios-linux/icucheck/resource"
)

// Entry represents a single translatable message in a PO file.
type Entry struct {
	// TranslatorComments are lines starting with "# " (translator comments).
	TranslatorComments []string
	// ExtractedComments are lines starting with "#." (extracted/automatic comments).
	ExtractedComments []string
	// References are source code locations, lines starting with "#:".
	References []string
	// Flags are format flags, lines starting with "#,".
	Flags []string

	// MsgCtxt is the message context (msgctxt).
	MsgCtxt string
	// MsgID is the untranslated string.
	MsgID string
	// MsgIDPlural is the untranslated plural string.
	MsgIDPlural string
	// MsgStr is the translated string (singular or the only form).
	MsgStr string
	// MsgStrPlural maps plural form index to translated string.
	MsgStrPlural map[int]string

	// Obsolete marks entries prefixed with "#~".
	Obsolete bool
	// Line is the 1-based line of the msgid keyword.
	Line int
}

// IsFuzzy returns true if the entry is marked fuzzy.
func (e *Entry) IsFuzzy() bool {
	return e.HasFlag("fuzzy")
}

// HasFlag checks if a specific flag is present.
func (e *Entry) HasFlag(flag string) bool {
	for _, f := range e.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

// Key identifies the entry: the msgid, prefixed by "msgctxt|" when the
// entry has a context.
func (e *Entry) Key() string {
	if e.MsgCtxt != "" {
		return e.MsgCtxt + "|" + e.MsgID
	}
	return e.MsgID
}

// Comment joins the translator and extracted comments, which is where
// gettext tools put notes about parameters.
func (e *Entry) Comment() string {
	lines := make([]string, 0, len(e.TranslatorComments)+len(e.ExtractedComments))
	lines = append(lines, e.TranslatorComments...)
	lines = append(lines, e.ExtractedComments...)
	return strings.Join(lines, "\n")
}

// File represents a parsed PO/POT file.
type File struct {
	// Header is the metadata entry (msgid "").
	Header *Entry
	// Entries are the translatable message entries.
	Entries []*Entry
}

// HeaderField returns a header field value by name.
func (f *File) HeaderField(name string) string {
	if f.Header == nil {
		return ""
	}
	for _, line := range strings.Split(f.Header.MsgStr, "\n") {
		if idx := strings.Index(line, ":"); idx > 0 {
			key := strings.TrimSpace(line[:idx])
			if strings.EqualFold(key, name) {
				return strings.TrimSpace(line[idx+1:])
			}
		}
	}
	return ""
}

// Language returns the Language header, falling back to the file name
// (po/ru.po → ru, po/ru/messages.po → ru).
func Language(f *File, path string) string {
	if lang := f.HeaderField("Language"); lang != "" {
		return lang
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if _, err := langmeta.Parse(name); err != nil {
		return filepath.Base(filepath.Dir(path))
	}
	return name
}

// Stats returns translation statistics.
func (f *File) Stats() (total, translated, fuzzy, untranslated int) {
	for _, e := range f.Entries {
		if e.MsgID == "" || e.Obsolete {
			continue
		}
		total++
		switch {
		case e.IsFuzzy():
			fuzzy++
		case e.isTranslated():
			translated++
		default:
			untranslated++
		}
	}
	return
}

func (e *Entry) isTranslated() bool {
	if e.MsgIDPlural != "" {
		for _, v := range e.MsgStrPlural {
			if v == "" {
				return false
			}
		}
		return len(e.MsgStrPlural) > 0
	}
	return e.MsgStr != ""
}

// Parse reads a PO/POT file from a reader.
func Parse(r io.Reader) (*File, error) {
	f := &File{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)

	var current *Entry
	var lastField string // tracks the last msgid/msgstr/etc. field for multiline strings
	lineNum := 0

	flush := func() {
		if current == nil {
			return
		}
		if current.MsgID == "" && !current.Obsolete {
			f.Header = current
		} else {
			f.Entries = append(f.Entries, current)
		}
		current = nil
		lastField = ""
	}

	for scanner.Scan() {
		lineNum++
		line := scanner.Text()

		// Empty line separates entries
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}

		if current == nil {
			current = &Entry{
				MsgStrPlural: make(map[int]string),
			}
		}

		// Handle obsolete entries
		if strings.HasPrefix(line, "#~ ") {
			current.Obsolete = true
			line = line[3:]
		} else if strings.HasPrefix(line, "#~") {
			// "#~|" previous msgid of an obsolete entry.
			current.Obsolete = true
			continue
		}

		// Comment lines
		if strings.HasPrefix(line, "#") && !strings.HasPrefix(line, "#~") {
			switch {
			case strings.HasPrefix(line, "#:"):
				current.References = append(current.References, strings.TrimSpace(line[2:]))
			case strings.HasPrefix(line, "#,"):
				for _, flag := range strings.Split(line[2:], ",") {
					if flag = strings.TrimSpace(flag); flag != "" {
						current.Flags = append(current.Flags, flag)
					}
				}
			case strings.HasPrefix(line, "#."):
				current.ExtractedComments = append(current.ExtractedComments, strings.TrimSpace(line[2:]))
			case strings.HasPrefix(line, "#|"):
				// Previous msgid of a fuzzy entry; not needed for checking.
			default:
				current.TranslatorComments = append(current.TranslatorComments, strings.TrimPrefix(line[1:], " "))
			}
			continue
		}

		switch {
		case strings.HasPrefix(line, "msgctxt "):
			current.MsgCtxt = unquote(strings.TrimPrefix(line, "msgctxt "))
			lastField = "msgctxt"

		case strings.HasPrefix(line, "msgid_plural "):
			current.MsgIDPlural = unquote(strings.TrimPrefix(line, "msgid_plural "))
			lastField = "msgid_plural"

		case strings.HasPrefix(line, "msgid "):
			current.MsgID = unquote(strings.TrimPrefix(line, "msgid "))
			current.Line = lineNum
			lastField = "msgid"

		case strings.HasPrefix(line, "msgstr["):
			var idx int
			n, err := fmt.Sscanf(line, "msgstr[%d]", &idx)
			if err != nil || n != 1 {
				return nil, fmt.Errorf("line %d: invalid msgstr index: %s", lineNum, line)
			}
			bracketEnd := strings.Index(line, "] ")
			if bracketEnd < 0 {
				return nil, fmt.Errorf("line %d: invalid msgstr format: %s", lineNum, line)
			}
			current.MsgStrPlural[idx] = unquote(line[bracketEnd+2:])
			lastField = fmt.Sprintf("msgstr[%d]", idx)

		case strings.HasPrefix(line, "msgstr "):
			current.MsgStr = unquote(strings.TrimPrefix(line, "msgstr "))
			lastField = "msgstr"

		case strings.HasPrefix(line, "\""):
			// Continuation line
			val := unquote(line)
			switch {
			case lastField == "msgctxt":
				current.MsgCtxt += val
			case lastField == "msgid":
				current.MsgID += val
			case lastField == "msgid_plural":
				current.MsgIDPlural += val
			case lastField == "msgstr":
				current.MsgStr += val
			case strings.HasPrefix(lastField, "msgstr["):
				var idx int
				fmt.Sscanf(lastField, "msgstr[%d]", &idx)
				current.MsgStrPlural[idx] += val
			}
		}
	}

	flush()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading PO file: %w", err)
	}

	return f, nil
}

// ParseFile reads a PO/POT file from disk.
func ParseFile(path string) (*File, error) {
	in, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	defer in.Close()

	f, err := Parse(in)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// unquote removes PO-style quoting from a string.
func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return s
	}
	s = s[1 : len(s)-1]

	var result strings.Builder
	result.Grow(len(s))

	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			switch s[i+1] {
			case 'n':
				result.WriteByte('\n')
				i++
			case 't':
				result.WriteByte('\t')
				i++
			case '\\':
				result.WriteByte('\\')
				i++
			case '"':
				result.WriteByte('"')
				i++
			default:
				result.WriteByte(s[i])
			}
		} else {
			result.WriteByte(s[i])
		}
	}
	return result.String()
}

// ---------------------------------------------------------------------------
// Resources
// ---------------------------------------------------------------------------

// Resources turns the entries of a translated PO file into resources.
// Header, obsolete and fuzzy entries are skipped; a fuzzy translation is
// not yet a translation. msgstr[N] is mapped to the Nth CLDR cardinal
// category of the target locale, which is the order gettext uses for the
// languages icucheck knows.
func Resources(f *File, srcLocale, tgtLocale, path string) []*resource.Resource {
	cats := plurals.Required(tgtLocale, msgformat.KindPlural)

	var out []*resource.Resource
	for _, e := range f.Entries {
		if e.Obsolete || e.MsgID == "" || e.IsFuzzy() {
			continue
		}
		r := &resource.Resource{
			Key:          e.Key(),
			Path:         path,
			Comment:      e.Comment(),
			SourceLocale: srcLocale,
			TargetLocale: tgtLocale,
			LineNumber:   e.Line,
		}
		if e.MsgIDPlural == "" {
			r.Kind = resource.KindString
			r.Source = e.MsgID
			r.Target, r.HasTarget = e.MsgStr, e.MsgStr != ""
			out = append(out, r)
			continue
		}

		r.Kind = resource.KindPlural
		r.SourcePlural = map[string]string{
			plurals.One:   e.MsgID,
			plurals.Other: e.MsgIDPlural,
		}
		for idx, s := range e.MsgStrPlural {
			if s == "" || idx >= len(cats) {
				continue
			}
			if r.TargetPlural == nil {
				r.TargetPlural = make(map[string]string)
			}
			r.TargetPlural[cats[idx]] = s
		}
		out = append(out, r)
	}
	return out
}
