// Package msgformat parses ICU MessageFormat strings into a tree of nodes
// that remember where they came from in the original text.
//
// Supported syntax:
//
//   - plain text with ICU apostrophe quoting ('' and '{...}')
//   - simple arguments: {name}
//   - formatted arguments: {name, number}, {name, date, short}, {name, time}
//   - plural, selectordinal and select arguments with categories
//   - # inside plural and selectordinal content
//   - rich-text tags: <b>...</b> and <br/>
//
// Every node carries a Location: a half-open byte range into the string
// that was parsed.
package msgformat

import "fmt"

// Location is a half-open byte range [Start, End) into the parsed string.
type Location struct {
	Start int
	End   int
}

// Len returns the number of bytes covered.
func (l Location) Len() int { return l.End - l.Start }

// Within reports whether the location lies inside a string of length n.
func (l Location) Within(n int) bool {
	return l.Start >= 0 && l.End >= l.Start && l.End <= n
}

func (l Location) String() string { return fmt.Sprintf("%d-%d", l.Start, l.End) }

// Kind distinguishes the three select-like argument types.
type Kind int

const (
	// KindSelect is a free-form {x, select, ...}.
	KindSelect Kind = iota
	// KindPlural is a cardinal {x, plural, ...}.
	KindPlural
	// KindSelectOrdinal is an ordinal {x, selectordinal, ...}.
	KindSelectOrdinal
)

func (k Kind) String() string {
	switch k {
	case KindPlural:
		return "plural"
	case KindSelectOrdinal:
		return "selectordinal"
	default:
		return "select"
	}
}

// Cardinal reports whether the kind is a cardinal plural.
func (k Kind) Cardinal() bool { return k == KindPlural }

// Numeric reports whether # is meaningful inside content of this kind.
func (k Kind) Numeric() bool { return k == KindPlural || k == KindSelectOrdinal }

// Node is one element of a parsed message. The set of implementations is
// closed: *Literal, *Argument, *NumberFormat, *DateFormat, *TimeFormat,
// *Pound, *Tag and *Select.
type Node interface {
	Loc() Location
	node()
}

// Literal is a run of plain text with quoting already resolved.
type Literal struct {
	Text     string
	Location Location
}

// Argument is a simple {name} replacement.
type Argument struct {
	Name     string
	Location Location
}

// NumberFormat is {name, number} or {name, number, style}.
type NumberFormat struct {
	Name     string
	Style    string
	Location Location
}

// DateFormat is {name, date} or {name, date, style}.
type DateFormat struct {
	Name     string
	Style    string
	Location Location
}

// TimeFormat is {name, time} or {name, time, style}.
type TimeFormat struct {
	Name     string
	Style    string
	Location Location
}

// Pound is the # shorthand for the value of the enclosing plural.
type Pound struct {
	Location Location
}

// Tag is a rich-text element such as <b>...</b>. Self-closing tags have no
// children.
type Tag struct {
	Name     string
	Children []Node
	Location Location
}

// Option is one category of a Select.
type Option struct {
	// Category is the key: "one", "=1", "male", ...
	Category string
	Value    []Node
	// Label spans the category keyword.
	Label Location
	// Location spans the braces around the content.
	Location Location
}

// Span returns the range covering "category {content}".
func (o *Option) Span() Location {
	return Location{Start: o.Label.Start, End: o.Location.End}
}

// Select is a plural, selectordinal or select argument.
type Select struct {
	Pivot         string
	Kind          Kind
	Offset        int
	Options       []Option
	PivotLocation Location
	Location      Location
}

// Option returns the option with the given category, or nil.
func (s *Select) Option(category string) *Option {
	for i := range s.Options {
		if s.Options[i].Category == category {
			return &s.Options[i]
		}
	}
	return nil
}

// Has reports whether the select has the given category.
func (s *Select) Has(category string) bool { return s.Option(category) != nil }

// Categories returns the category keys in document order.
func (s *Select) Categories() []string {
	cats := make([]string, len(s.Options))
	for i, o := range s.Options {
		cats[i] = o.Category
	}
	return cats
}

func (n *Literal) Loc() Location { return n.Location }
func (n *Argument) Loc() Location { return n.Location }
func (n *NumberFormat) Loc() Location { return n.Location }
func (n *DateFormat) Loc() Location { return n.Location }
func (n *TimeFormat) Loc() Location { return n.Location }
func (n *Pound) Loc() Location { return n.Location }
func (n *Tag) Loc() Location { return n.Location }
func (n *Select) Loc() Location { return n.Location }

func (*Literal) node() {}
func (*Argument) node() {}
func (*NumberFormat) node() {}
func (*DateFormat) node() {}
func (*TimeFormat) node() {}
func (*Pound) node() {}
func (*Tag) node() {}
func (*Select) node() {}

// ArgumentName returns the parameter name referenced by n, if n is an
// argument of any flavour.
func ArgumentName(n Node) (string, bool) {
	switch v := n.(type) {
	case *Argument:
		return v.Name, true
	case *NumberFormat:
		return v.Name, true
	case *DateFormat:
		return v.Name, true
	case *TimeFormat:
		return v.Name, true
	}
	return "", false
}
