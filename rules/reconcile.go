package rules

import (
	"strings"

	"github.com/minios-linux/icucheck/highlight"
	"github.com/minios-linux/icucheck/i18n"
	"github.com/minios-linux/icucheck/msgformat"
	"github.com/minios-linux/icucheck/msgindex"
	"github.com/minios-linux/icucheck/plurals"
	"github.com/minios-linux/icucheck/result"
)

// Reconcile compares the selects of a target tree with those of its source,
// one nesting level at a time, and reports categories the target lacks,
// categories it should not have, and pivots the source does not know.
func Reconcile(pc *Context, src, tgt []msgformat.Node) []result.Result {
	return reconcileLevel(pc, src, tgt, nil)
}

// reconcileLevel does the work of Reconcile. known holds every pivot of the
// whole source tree; it is computed once at the top.
func reconcileLevel(pc *Context, src, tgt []msgformat.Node, known map[string]bool) []result.Result {
	if known == nil {
		known = make(map[string]bool)
		for _, e := range msgindex.Deep(src).OrderedSelects() {
			known[e.Name] = true
		}
	}

	srcIdx, tgtIdx := msgindex.Level(src), msgindex.Level(tgt)
	var results []result.Result

	for _, te := range tgtIdx.OrderedSelects() {
		se := srcIdx.Select(te.Key)
		if se == nil {
			// A pivot that exists elsewhere in the source has only moved;
			// its content has nothing to line up with but is still searched.
			results = append(results, unknownPivots(pc, []msgformat.Node{te.Node}, known)...)
			continue
		}
		results = append(results, reconcileSelect(pc, se.Node, te.Node, known)...)
	}

	for _, tt := range tgtIdx.OrderedTags() {
		if st := srcIdx.Tag(tt.Key); st != nil {
			results = append(results, reconcileLevel(pc, st.Node.Children, tt.Node.Children, known)...)
		} else {
			results = append(results, unknownPivots(pc, tt.Node.Children, known)...)
		}
	}
	return results
}

// unknownPivots reports every select in nodes, at any depth, whose pivot
// the source never uses. Categories are visited in canonical order.
func unknownPivots(pc *Context, nodes []msgformat.Node, known map[string]bool) []result.Result {
	var results []result.Result
	for _, n := range nodes {
		switch v := n.(type) {
		case *msgformat.Select:
			if !known[v.Pivot] {
				results = append(results, mistranslatedPivot(pc, v))
			}
			for _, cat := range sortedCategories(v) {
				results = append(results, unknownPivots(pc, v.Option(cat).Value, known)...)
			}
		case *msgformat.Tag:
			results = append(results, unknownPivots(pc, v.Children, known)...)
		}
	}
	return results
}

func mistranslatedPivot(pc *Context, sel *msgformat.Select) result.Result {
	opening := msgformat.Location{Start: sel.Location.Start, End: sel.PivotLocation.End}
	return pc.targetResult(
		result.Error,
		TargetCategories,
		i18n.Tf("Select or plural with pivot variable '%s' does not exist in the source string. Possible mistranslated variable name?", sel.Pivot),
		highlight.Span(pc.pair.Target, opening, 0),
	)
}

func sortedCategories(sel *msgformat.Select) []string {
	cats := sel.Categories()
	plurals.Sort(cats)
	return cats
}

func reconcileSelect(pc *Context, src, tgt *msgformat.Select, known map[string]bool) []result.Result {
	target := pc.pair.Target
	srcReq := pc.resolver.Required(pc.pair.SourceLocale, src.Kind)
	tgtReq := pc.resolver.Required(pc.pair.TargetLocale, tgt.Kind)

	var results []result.Result

	// Required in the target language but absent. When the source is
	// missing the same required category, the source rule reports it.
	var missing []string
	for _, cat := range tgtReq {
		if tgt.Has(cat) {
			continue
		}
		if plurals.Contains(srcReq, cat) && !src.Has(cat) {
			continue
		}
		missing = append(missing, cat)
	}
	if len(missing) > 0 {
		results = append(results, pc.targetResult(
			result.Error,
			TargetCategories,
			i18n.Tf("Missing categories in target string: %s. Expecting these: %s",
				strings.Join(missing, ", "), strings.Join(tgtReq, ", ")),
			highlight.End(target, 0),
		))
	}

	tgtCats := sortedCategories(tgt)
	for _, cat := range tgtCats {
		to := tgt.Option(cat)
		if so := src.Option(cat); so != nil {
			results = append(results, reconcileLevel(pc, so.Value, to.Value, known)...)
			continue
		}
		if plurals.Contains(tgtReq, cat) && plurals.IsExtraPluralForm(cat) {
			if other := src.Option(plurals.Other); other != nil {
				results = append(results, reconcileLevel(pc, other.Value, to.Value, known)...)
				continue
			}
		}
		results = append(results, unknownPivots(pc, to.Value, known)...)
	}

	// Present in the source but not required there, and gone from the
	// target. Categories the target requires are reported as missing above.
	var dropped []string
	for _, cat := range sortedCategories(src) {
		if tgt.Has(cat) || plurals.Contains(srcReq, cat) || plurals.Contains(tgtReq, cat) {
			continue
		}
		dropped = append(dropped, cat)
	}
	if len(dropped) > 0 {
		results = append(results, pc.targetResult(
			result.Warning,
			TargetCategories,
			i18n.Tf("Missing categories in target string: %s. These categories are used in the source string.",
				strings.Join(dropped, ", ")),
			highlight.End(target, 0),
		))
	}

	var extra []string
	var labels []msgformat.Location
	for _, cat := range tgtCats {
		if src.Has(cat) || plurals.Contains(tgtReq, cat) {
			continue
		}
		extra = append(extra, cat)
		labels = append(labels, tgt.Option(cat).Label)
	}
	if len(extra) > 0 {
		results = append(results, pc.targetResult(
			result.Warning,
			TargetCategories,
			i18n.Tf("Extra categories in target string: %s. These categories are not in the source string and not required in %s.",
				strings.Join(extra, ", "), pc.pair.TargetLocale),
			highlight.Spans(target, labels...),
		))
	}

	return results
}
