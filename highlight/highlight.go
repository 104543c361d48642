// Package highlight marks ranges of a string with numbered <eN>...</eN>
// markers so that a reporter can point at the problem.
package highlight

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/minios-linux/icucheck/msgformat"
)

var (
	markerRe = regexp.MustCompile(`</?e\d+>`)
	spanRe   = regexp.MustCompile(`(?s)<e(\d+)>(.*?)</e(\d+)>`)
)

func openMarker(n int) string { return fmt.Sprintf("<e%d>", n) }
func closeMarker(n int) string { return fmt.Sprintf("</e%d>", n) }

// clamp returns a location that can be safely sliced out of s. Anything
// out of range becomes the whole string; offsets inside a UTF-8 sequence
// are widened to the enclosing rune.
func clamp(s string, loc msgformat.Location) msgformat.Location {
	if !loc.Within(len(s)) {
		return msgformat.Location{Start: 0, End: len(s)}
	}
	for loc.Start > 0 && loc.Start < len(s) && !utf8.RuneStart(s[loc.Start]) {
		loc.Start--
	}
	for loc.End < len(s) && !utf8.RuneStart(s[loc.End]) {
		loc.End++
	}
	return loc
}

// Span wraps the given range of s in marker n.
func Span(s string, loc msgformat.Location, n int) string {
	loc = clamp(s, loc)
	return s[:loc.Start] + openMarker(n) + s[loc.Start:loc.End] + closeMarker(n) + s[loc.End:]
}

// Whole wraps all of s in marker n.
func Whole(s string, n int) string {
	return openMarker(n) + s + closeMarker(n)
}

// End appends an empty marker n, for problems that belong to the string as
// a whole rather than to one place in it.
func End(s string, n int) string {
	return s + openMarker(n) + closeMarker(n)
}

// Spans marks each range with its own marker, numbered from e0 in order of
// position. Ranges that overlap an earlier one are skipped.
func Spans(s string, locs ...msgformat.Location) string {
	if len(locs) == 0 {
		return s
	}
	sorted := make([]msgformat.Location, 0, len(locs))
	for _, l := range locs {
		sorted = append(sorted, clamp(s, l))
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	var b strings.Builder
	last, n := 0, 0
	for _, l := range sorted {
		if l.Start < last {
			continue
		}
		b.WriteString(s[last:l.Start])
		b.WriteString(openMarker(n))
		b.WriteString(s[l.Start:l.End])
		b.WriteString(closeMarker(n))
		last = l.End
		n++
	}
	b.WriteString(s[last:])
	return b.String()
}

// Strip removes all markers from s.
func Strip(s string) string {
	return markerRe.ReplaceAllString(s, "")
}

// Render replaces every marked range with mark(text) and drops the
// markers. An empty range, as produced by End, is passed as "".
func Render(s string, mark func(text string) string) string {
	out := spanRe.ReplaceAllStringFunc(s, func(m string) string {
		sub := spanRe.FindStringSubmatch(m)
		if sub[1] != sub[3] {
			return m
		}
		return mark(sub[2])
	})
	return Strip(out)
}
