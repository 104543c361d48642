// Package resource models the translatable units handed to the checker.
//
// A Resource is what a file reader produces: a single string, an array of
// strings, or a set of plural forms. The checker only ever looks at one
// source/target string pair at a time; Pairs flattens a Resource into
// those pairs.
package resource

import (
	"fmt"
	"sort"

	"github.com/minios-linux/icucheck/plurals"
)

// Kind says how a Resource stores its strings.
type Kind int

const (
	KindString Kind = iota
	KindArray
	KindPlural
)

func (k Kind) String() string {
	switch k {
	case KindArray:
		return "array"
	case KindPlural:
		return "plural"
	default:
		return "string"
	}
}

// Pair is one source string and its translation.
type Pair struct {
	Key          string
	SourceLocale string
	TargetLocale string
	Source       string
	Target       string
	// HasTarget is false when no translation exists at all.
	HasTarget  bool
	Comment    string
	Path       string
	LineNumber int
}

// Resource is one translatable unit of a file.
type Resource struct {
	Kind         Kind
	Key          string
	Path         string
	Comment      string
	SourceLocale string
	TargetLocale string
	LineNumber   int

	// KindString
	Source    string
	Target    string
	HasTarget bool

	// KindArray
	SourceArray []string
	TargetArray []string

	// KindPlural: category → string
	SourcePlural map[string]string
	TargetPlural map[string]string
}

func (r *Resource) pair(key, src, tgt string, hasTarget bool) Pair {
	return Pair{
		Key:          key,
		SourceLocale: r.SourceLocale,
		TargetLocale: r.TargetLocale,
		Source:       src,
		Target:       tgt,
		HasTarget:    hasTarget,
		Comment:      r.Comment,
		Path:         r.Path,
		LineNumber:   r.LineNumber,
	}
}

// Pairs flattens the resource into source/target pairs.
//
// Array elements pair up by index. Plural forms pair up by category; a
// target category the source lacks is paired with the source's "other".
func (r *Resource) Pairs() []Pair {
	switch r.Kind {
	case KindArray:
		pairs := make([]Pair, 0, len(r.SourceArray))
		for i, src := range r.SourceArray {
			tgt, has := "", i < len(r.TargetArray)
			if has {
				tgt = r.TargetArray[i]
			}
			pairs = append(pairs, r.pair(fmt.Sprintf("%s[%d]", r.Key, i), src, tgt, has))
		}
		return pairs

	case KindPlural:
		if len(r.TargetPlural) == 0 {
			cats := sortedKeys(r.SourcePlural)
			pairs := make([]Pair, 0, len(cats))
			for _, cat := range cats {
				pairs = append(pairs, r.pair(r.Key+"["+cat+"]", r.SourcePlural[cat], "", false))
			}
			return pairs
		}
		cats := sortedKeys(r.TargetPlural)
		pairs := make([]Pair, 0, len(cats))
		for _, cat := range cats {
			src, ok := r.SourcePlural[cat]
			if !ok {
				src = r.SourcePlural[plurals.Other]
			}
			pairs = append(pairs, r.pair(r.Key+"["+cat+"]", src, r.TargetPlural[cat], true))
		}
		return pairs

	default:
		return []Pair{r.pair(r.Key, r.Source, r.Target, r.HasTarget)}
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	plurals.Sort(keys)
	return keys
}
