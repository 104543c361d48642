// Package rules checks ICU plural, selectordinal and select arguments in
// source strings and their translations.
//
// Each check is a plain function over parsed trees. Checker strings them
// together for one source/target pair:
//
//	source syntax ─┬─ failed → one error, stop
//	               └─ ok → source categories, parameter parity,
//	                       unexplained parameters
//	target syntax ─┬─ failed → one error, stop
//	               └─ ok → category reconciliation, same-as-source
package rules

import (
	"sort"

	"github.com/minios-linux/icucheck/i18n"
	"github.com/minios-linux/icucheck/msgformat"
	"github.com/minios-linux/icucheck/plurals"
	"github.com/minios-linux/icucheck/resource"
	"github.com/minios-linux/icucheck/result"
)

// Rule IDs.
const (
	SourceSyntax       = "source-icu-plural-syntax"
	SourceCategories   = "source-icu-plural-categories"
	SourceParams       = "source-icu-plural-params"
	UnexplainedParams  = "source-icu-unexplained-params"
	TargetSyntax       = "resource-icu-plural-syntax"
	TargetCategories   = "resource-icu-plurals"
	TargetSameAsSource = "resource-icu-plurals-translated"
)

var descriptions = map[string]string{
	SourceSyntax:       "Ensure that plurals and selects in the source string have correct syntax",
	SourceCategories:   "Ensure that plurals in the source string have the categories English grammar needs",
	SourceParams:       "Ensure that the 'one' category of a plural uses the same parameter as 'other'",
	UnexplainedParams:  "Ensure that every replacement parameter is explained in the comment for translators",
	TargetSyntax:       "Ensure that plurals and selects in the target string have correct syntax",
	TargetCategories:   "Ensure that plurals and selects in the target string have the right categories",
	TargetSameAsSource: "Ensure that the categories of plurals and selects in the target string are translated",
}

// defaults is the severity of each rule's main finding. Category
// reconciliation also reports extra and dropped categories as warnings.
var defaults = map[string]result.Severity{
	SourceSyntax:       result.Error,
	SourceCategories:   result.Error,
	SourceParams:       result.Error,
	UnexplainedParams:  result.Warning,
	TargetSyntax:       result.Error,
	TargetCategories:   result.Error,
	TargetSameAsSource: result.Warning,
}

// DefaultSeverity returns the severity a rule reports with unless
// overridden.
func DefaultSeverity(id string) result.Severity { return defaults[id] }

// RuleIDs returns every rule ID in a stable order.
func RuleIDs() []string {
	ids := make([]string, 0, len(descriptions))
	for id := range descriptions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Describe returns the localized description of a rule.
func Describe(id string) string {
	if d, ok := descriptions[id]; ok {
		return i18n.T(d)
	}
	return ""
}

// Known reports whether id names a rule.
func Known(id string) bool {
	_, ok := descriptions[id]
	return ok
}

// ---------------------------------------------------------------------------
// Checker
// ---------------------------------------------------------------------------

// Checker runs the rules over source/target pairs. It holds no per-pair
// state; the only thing shared between calls is the resolver's memo table.
type Checker struct {
	resolver  *plurals.Resolver
	disabled  map[string]bool
	severity  map[string]result.Severity
	parseOpts []msgformat.ParseOption
}

// Option configures a Checker.
type Option func(*Checker)

// WithResolver shares a category resolver between checkers.
func WithResolver(r *plurals.Resolver) Option {
	return func(c *Checker) { c.resolver = r }
}

// WithDisabled turns rules off.
func WithDisabled(ids ...string) Option {
	return func(c *Checker) {
		for _, id := range ids {
			c.disabled[id] = true
		}
	}
}

// WithSeverity forces every finding of a rule to the given severity.
func WithSeverity(id string, sev result.Severity) Option {
	return func(c *Checker) { c.severity[id] = sev }
}

// WithoutTags treats '<' as plain text when parsing.
func WithoutTags() Option {
	return func(c *Checker) { c.parseOpts = append(c.parseOpts, msgformat.WithoutTags()) }
}

// New returns a Checker with every rule enabled.
func New(opts ...Option) *Checker {
	c := &Checker{
		disabled: make(map[string]bool),
		severity: make(map[string]result.Severity),
	}
	for _, o := range opts {
		o(c)
	}
	if c.resolver == nil {
		c.resolver = plurals.NewResolver()
	}
	return c
}

// Enabled reports whether a rule runs.
func (c *Checker) Enabled(id string) bool { return !c.disabled[id] }

// CheckResource checks every leaf pair of a resource.
func (c *Checker) CheckResource(r *resource.Resource) []result.Result {
	var results []result.Result
	for _, p := range r.Pairs() {
		results = append(results, c.CheckPair(p)...)
	}
	return results
}

// CheckPair checks one source string and its translation.
func (c *Checker) CheckPair(p resource.Pair) []result.Result {
	pc := &Context{pair: p, resolver: c.resolver}

	src := msgformat.Try(p.Source, c.parseOpts...)
	if !src.OK() {
		if !c.Enabled(SourceSyntax) {
			return nil
		}
		return c.finish(checkSourceSyntax(pc, src.Err))
	}

	var results []result.Result
	if c.Enabled(SourceCategories) {
		results = append(results, checkSourceCategories(pc, src.Nodes)...)
	}
	if c.Enabled(SourceParams) {
		results = append(results, checkSourceParams(pc, src.Nodes)...)
	}
	if c.Enabled(UnexplainedParams) {
		results = append(results, checkUnexplainedParams(pc, src.Nodes)...)
	}

	if !p.HasTarget {
		return c.finish(results)
	}

	tgt := msgformat.Try(p.Target, c.parseOpts...)
	if !tgt.OK() {
		if c.Enabled(TargetSyntax) {
			results = append(results, checkTargetSyntax(pc, tgt.Err)...)
		}
		return c.finish(results)
	}

	if c.Enabled(TargetCategories) {
		results = append(results, Reconcile(pc, src.Nodes, tgt.Nodes)...)
	}
	if c.Enabled(TargetSameAsSource) {
		results = append(results, SameAsSource(pc, src.Nodes, tgt.Nodes)...)
	}
	return c.finish(results)
}

func (c *Checker) finish(results []result.Result) []result.Result {
	if len(c.severity) == 0 {
		return results
	}
	for i := range results {
		if sev, ok := c.severity[results[i].ID]; ok {
			results[i].Severity = sev
		}
	}
	return results
}

// ---------------------------------------------------------------------------
// Per-pair context
// ---------------------------------------------------------------------------

// Context is what every check needs besides the trees themselves: the
// pair being checked and the category resolver.
type Context struct {
	pair     resource.Pair
	resolver *plurals.Resolver
}

// NewContext returns a Context for running single checks outside a Checker.
func NewContext(p resource.Pair, r *plurals.Resolver) *Context {
	if r == nil {
		r = plurals.NewResolver()
	}
	return &Context{pair: p, resolver: r}
}

func (pc *Context) sourceResult(sev result.Severity, id, desc, hl string) result.Result {
	return pc.newResult(sev, id, desc, hl, pc.pair.SourceLocale)
}

func (pc *Context) targetResult(sev result.Severity, id, desc, hl string) result.Result {
	return pc.newResult(sev, id, desc, hl, pc.pair.TargetLocale)
}

func (pc *Context) newResult(sev result.Severity, id, desc, hl, locale string) result.Result {
	return result.Result{
		Severity:    sev,
		Description: desc,
		Source:      pc.pair.Source,
		Highlight:   hl,
		ID:          id,
		PathName:    pc.pair.Path,
		Key:         pc.pair.Key,
		Locale:      locale,
		LineNumber:  pc.pair.LineNumber,
	}
}
