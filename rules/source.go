package rules

import (
	"regexp"
	"strings"

	"github.com/minios-linux/icucheck/highlight"
	"github.com/minios-linux/icucheck/i18n"
	"github.com/minios-linux/icucheck/msgformat"
	"github.com/minios-linux/icucheck/msgindex"
	"github.com/minios-linux/icucheck/plurals"
	"github.com/minios-linux/icucheck/result"
)

func syntaxHighlight(s string, err *msgformat.SyntaxError) string {
	if err.HasLocation {
		return highlight.Span(s, err.Location, 0)
	}
	return highlight.Whole(s, 0)
}

func checkSourceSyntax(pc *Context, err *msgformat.SyntaxError) []result.Result {
	return []result.Result{pc.sourceResult(
		result.Error,
		SourceSyntax,
		i18n.Tf("Incorrect plural or select syntax in source string: %s", err.Error()),
		syntaxHighlight(pc.pair.Source, err),
	)}
}

func checkTargetSyntax(pc *Context, err *msgformat.SyntaxError) []result.Result {
	return []result.Result{pc.targetResult(
		result.Error,
		TargetSyntax,
		i18n.Tf("Incorrect plural or select syntax in target string: %s", err.Error()),
		syntaxHighlight(pc.pair.Target, err),
	)}
}

// checkSourceCategories reports selects anywhere in the source that lack
// "other", and cardinal plurals that lack "one" where the source language
// needs it. "=1" standing in for "one" gets its own message.
func checkSourceCategories(pc *Context, nodes []msgformat.Node) []result.Result {
	var results []result.Result
	src := pc.pair.Source

	for _, e := range msgindex.Deep(nodes).OrderedSelects() {
		sel := e.Node
		if !sel.Has(plurals.Other) {
			results = append(results, pc.sourceResult(
				result.Error,
				SourceCategories,
				i18n.Tf("Missing required %s category 'other'", sel.Kind),
				highlight.Span(src, sel.Location, 0),
			))
		}

		if !sel.Kind.Cardinal() || sel.Has(plurals.One) {
			continue
		}
		if !plurals.Contains(pc.resolver.Required(pc.pair.SourceLocale, sel.Kind), plurals.One) {
			continue
		}
		if exact := sel.Option("=1"); exact != nil {
			results = append(results, pc.sourceResult(
				result.Error,
				SourceCategories,
				i18n.T("Missing required plural category 'one'. The category '=1' is likely intended to be 'one'."),
				highlight.Span(src, exact.Location, 0),
			))
			continue
		}
		results = append(results, pc.sourceResult(
			result.Error,
			SourceCategories,
			i18n.T("Missing required plural category 'one'"),
			highlight.Span(src, sel.Location, 0),
		))
	}
	return results
}

// paramRef is a reference to a parameter: a named argument or #.
type paramRef struct {
	name  string
	pound bool
}

func (r paramRef) String() string {
	if r.pound {
		return "#"
	}
	return "{" + r.name + "}"
}

// directRefs lists the parameter references in nodes that are not inside a
// nested select. Tags are looked through.
func directRefs(nodes []msgformat.Node) []paramRef {
	var refs []paramRef
	for _, n := range nodes {
		switch v := n.(type) {
		case *msgformat.Pound:
			refs = append(refs, paramRef{pound: true})
		case *msgformat.Tag:
			refs = append(refs, directRefs(v.Children)...)
		default:
			if name, ok := msgformat.ArgumentName(n); ok {
				refs = append(refs, paramRef{name: name})
			}
		}
	}
	return refs
}

// checkSourceParams makes sure that when "other" uses a parameter, "one"
// uses the same one. "one {one file} other {# files}" is fine in English
// but leaves translators for languages where "one" covers 21, 31, ... with
// no number to show.
func checkSourceParams(pc *Context, nodes []msgformat.Node) []result.Result {
	var results []result.Result
	for _, e := range msgindex.Deep(nodes).OrderedSelects() {
		sel := e.Node
		one, other := sel.Option(plurals.One), sel.Option(plurals.Other)
		if one == nil || other == nil {
			continue
		}
		otherRefs := directRefs(other.Value)
		if len(otherRefs) == 0 {
			continue
		}
		want := otherRefs[0]
		found := false
		for _, ref := range directRefs(one.Value) {
			if ref == want {
				found = true
				break
			}
		}
		if found {
			continue
		}
		results = append(results, pc.sourceResult(
			result.Error,
			SourceParams,
			i18n.Tf("Plural category 'one' does not use the parameter %s that category 'other' uses", want),
			highlight.Span(pc.pair.Source, sel.Location, 0),
		))
	}
	return results
}

// scope links a node to its enclosing selects, innermost first.
type scope struct {
	sel    *msgformat.Select
	parent *scope
}

// numericPivot returns the pivot of the nearest enclosing plural or
// selectordinal, which is what # stands for.
func (s *scope) numericPivot() string {
	for ; s != nil; s = s.parent {
		if s.sel.Kind.Numeric() {
			return s.sel.Pivot
		}
	}
	return ""
}

type occurrence struct {
	name string
	loc  msgformat.Location
}

func collectParams(nodes []msgformat.Node, sc *scope, out []occurrence) []occurrence {
	for _, n := range nodes {
		switch v := n.(type) {
		case *msgformat.Pound:
			if name := sc.numericPivot(); name != "" {
				out = append(out, occurrence{name: name, loc: v.Location})
			}
		case *msgformat.Select:
			inner := &scope{sel: v, parent: sc}
			for i := range v.Options {
				out = collectParams(v.Options[i].Value, inner, out)
			}
		case *msgformat.Tag:
			out = collectParams(v.Children, sc, out)
		default:
			if name, ok := msgformat.ArgumentName(n); ok {
				out = append(out, occurrence{name: name, loc: n.Loc()})
			}
		}
	}
	return out
}

// wordPattern matches name as a whole word. Invalid UTF-8 in name is
// replaced first; regexp rejects it.
func wordPattern(name string) *regexp.Regexp {
	name = strings.ToValidUTF8(name, "\uFFFD")
	return regexp.MustCompile(`(?i)(?:^|[^\p{L}\p{N}_])` + regexp.QuoteMeta(name) + `(?:$|[^\p{L}\p{N}_])`)
}

// checkUnexplainedParams warns about every parameter occurrence whose name
// the comment for translators never mentions.
func checkUnexplainedParams(pc *Context, nodes []msgformat.Node) []result.Result {
	occurrences := collectParams(nodes, nil, nil)
	if len(occurrences) == 0 {
		return nil
	}

	explained := make(map[string]bool)
	var results []result.Result
	for _, occ := range occurrences {
		ok, seen := explained[occ.name]
		if !seen {
			ok = wordPattern(occ.name).MatchString(pc.pair.Comment)
			explained[occ.name] = ok
		}
		if ok {
			continue
		}
		results = append(results, pc.sourceResult(
			result.Warning,
			UnexplainedParams,
			i18n.Tf("The parameter '%s' is not explained in the comment for translators", occ.name),
			highlight.Span(pc.pair.Source, occ.loc, 0),
		))
	}
	return results
}
