// Package plurals knows which plural categories a translation must carry
// for a given locale.
//
// The table covers the languages whose cardinal plural needs differ from
// English and falls back to {one, other}.
// Ordinal and select arguments only ever require "other".
package plurals

import (
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/minios-linux/icucheck/langmeta"
	"github.com/minios-linux/icucheck/msgformat"
)

// CLDR category names in canonical order.
const (
	Zero  = "zero"
	One   = "one"
	Two   = "two"
	Few   = "few"
	Many  = "many"
	Other = "other"
)

var cldrOrder = map[string]int{Zero: 0, One: 1, Two: 2, Few: 3, Many: 4, Other: 5}

var (
	otherOnly   = []string{Other}
	oneOther    = []string{One, Other}
	oneFewOther = []string{One, Few, Other}
)

// cardinal maps a language subtag to its required cardinal categories.
var cardinal = map[string][]string{
	"ja": otherOnly,
	"zh": otherOnly,
	"ko": otherOnly,
	"th": otherOnly,
	"vi": otherOnly,
	"id": otherOnly,
	"ms": otherOnly,
	"lo": otherOnly,
	"km": otherOnly,
	"my": otherOnly,

	"ru": oneFewOther,
	"uk": oneFewOther,
	"be": oneFewOther,
	"pl": oneFewOther,
	"cs": oneFewOther,
	"sk": oneFewOther,
	"hr": oneFewOther,
	"sr": oneFewOther,
	"bs": oneFewOther,

	"ar": {Zero, One, Two, Few, Many, Other},
	"ga": {One, Two, Other},
	"he": {One, Two, Other},
	"sl": {One, Two, Few, Other},
}

// Required returns the categories a message of the given kind must have in
// the given locale, in canonical order. The slice is freshly allocated.
func Required(locale string, kind msgformat.Kind) []string {
	if !kind.Cardinal() {
		return []string{Other}
	}
	cats, ok := cardinal[langmeta.Base(locale)]
	if !ok {
		cats = oneOther
	}
	return append([]string(nil), cats...)
}

// IsCLDRCategory reports whether cat is one of the six CLDR category names.
func IsCLDRCategory(cat string) bool {
	_, ok := cldrOrder[cat]
	return ok
}

// IsExtraPluralForm reports whether cat is a form that some languages need
// but English never does. A translation may add these on its own; their
// content is then compared against the source's "other".
func IsExtraPluralForm(cat string) bool {
	return cat == Two || cat == Few || cat == Many
}

// Less orders categories canonically: CLDR names first in CLDR order, then
// exact matches (=N) numerically, then everything else alphabetically.
func Less(a, b string) bool {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		return ra < rb
	}
	if ra == 1 {
		na, errA := strconv.ParseFloat(a[1:], 64)
		nb, errB := strconv.ParseFloat(b[1:], 64)
		if errA == nil && errB == nil && na != nb {
			return na < nb
		}
	}
	if ra == 0 {
		return cldrOrder[a] < cldrOrder[b]
	}
	return a < b
}

func rank(cat string) int {
	switch {
	case IsCLDRCategory(cat):
		return 0
	case strings.HasPrefix(cat, "="):
		return 1
	}
	return 2
}

// Sort sorts categories in place with Less.
func Sort(cats []string) {
	sort.SliceStable(cats, func(i, j int) bool { return Less(cats[i], cats[j]) })
}

// Contains reports whether cats holds cat.
func Contains(cats []string, cat string) bool {
	for _, c := range cats {
		if c == cat {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// Resolver
// ---------------------------------------------------------------------------

type memoKey struct {
	locale string
	kind   msgformat.Kind
}

// Resolver memoizes Required per (locale, kind). Entries are written once
// and never invalidated, so one Resolver can be shared freely.
type Resolver struct {
	mu   sync.Mutex
	memo map[memoKey][]string
}

// NewResolver returns an empty Resolver.
func NewResolver() *Resolver {
	return &Resolver{memo: make(map[memoKey][]string)}
}

// Required is the memoized form of the package-level Required. The caller
// owns the returned slice.
func (r *Resolver) Required(locale string, kind msgformat.Kind) []string {
	k := memoKey{locale: locale, kind: kind}

	r.mu.Lock()
	cats, ok := r.memo[k]
	if !ok {
		cats = Required(locale, kind)
		r.memo[k] = cats
	}
	r.mu.Unlock()

	return append([]string(nil), cats...)
}

// Len returns the number of memoized entries.
func (r *Resolver) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.memo)
}
