package msgformat

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// SyntaxError describes why a message could not be parsed.
type SyntaxError struct {
	Message string
	// Location is the offending range; only meaningful if HasLocation.
	Location    Location
	HasLocation bool
}

func (e *SyntaxError) Error() string {
	if e.HasLocation {
		return fmt.Sprintf("%s at offset %d", e.Message, e.Location.Start)
	}
	return e.Message
}

// ParseResult is the outcome of parsing one string.
type ParseResult struct {
	Text  string
	Nodes []Node
	Err   *SyntaxError
}

// OK reports whether parsing succeeded.
func (r ParseResult) OK() bool { return r.Err == nil }

// ParseOption configures the parser.
type ParseOption func(*parser)

// WithoutTags makes '<' ordinary text.
func WithoutTags() ParseOption {
	return func(p *parser) { p.tags = false }
}

// Parse parses text. On failure the error is a *SyntaxError.
func Parse(text string, opts ...ParseOption) ([]Node, error) {
	r := Try(text, opts...)
	if r.Err != nil {
		return nil, r.Err
	}
	return r.Nodes, nil
}

// Try parses text and returns the outcome as a value.
func Try(text string, opts ...ParseOption) ParseResult {
	p := &parser{src: text, tags: true}
	for _, o := range opts {
		o(p)
	}
	nodes, err := p.parseMessage(0, false, "")
	if err == nil && p.pos < len(p.src) {
		err = p.errorAt(p.pos, p.pos+1, "unexpected '%c'", p.src[p.pos])
	}
	if err != nil {
		return ParseResult{Text: text, Err: err}
	}
	return ParseResult{Text: text, Nodes: nodes}
}

type parser struct {
	src  string
	pos  int
	tags bool
}

func (p *parser) errorAt(start, end int, format string, args ...any) *SyntaxError {
	if end > len(p.src) {
		end = len(p.src)
	}
	if start > end {
		start = end
	}
	return &SyntaxError{
		Message:     fmt.Sprintf(format, args...),
		Location:    Location{Start: start, End: end},
		HasLocation: true,
	}
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) peekAt(i int) byte {
	if i >= len(p.src) {
		return 0
	}
	return p.src[i]
}

func (p *parser) skipSpace() {
	for !p.eof() {
		r, size := utf8.DecodeRuneInString(p.src[p.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		p.pos += size
	}
}

// syntaxAt reports whether a construct (not text) starts at i.
func (p *parser) syntaxAt(i int, numeric bool) bool {
	switch p.peekAt(i) {
	case '{', '}':
		return true
	case '#':
		return numeric
	case '<':
		if !p.tags {
			return false
		}
		next := p.peekAt(i + 1)
		return next == '/' || isTagStart(next)
	}
	return false
}

// parseMessage reads nodes until end of input, an unmatched '}' (when
// nested) or a closing tag (when closeTag is set).
func (p *parser) parseMessage(depth int, numeric bool, closeTag string) ([]Node, *SyntaxError) {
	var nodes []Node
	for !p.eof() {
		switch ch := p.peek(); {
		case ch == '}':
			if depth == 0 {
				return nil, p.errorAt(p.pos, p.pos+1, "unexpected '}'")
			}
			return nodes, nil
		case ch == '{':
			n, err := p.parseArgument(depth, numeric)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, n)
		case ch == '#' && numeric:
			nodes = append(nodes, &Pound{Location: Location{Start: p.pos, End: p.pos + 1}})
			p.pos++
		case ch == '<' && p.syntaxAt(p.pos, numeric):
			if p.peekAt(p.pos+1) == '/' {
				if closeTag == "" {
					end := strings.IndexByte(p.src[p.pos:], '>')
					if end < 0 {
						end = len(p.src) - p.pos - 1
					}
					return nil, p.errorAt(p.pos, p.pos+end+1, "unexpected closing tag")
				}
				return nodes, nil
			}
			n, err := p.parseTag(depth, numeric)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, n)
		default:
			nodes = append(nodes, p.parseLiteral(numeric))
		}
	}
	return nodes, nil
}

func (p *parser) parseLiteral(numeric bool) *Literal {
	start := p.pos
	var b strings.Builder
	for !p.eof() {
		if p.syntaxAt(p.pos, numeric) {
			break
		}
		ch := p.peek()
		if ch != '\'' {
			b.WriteByte(ch)
			p.pos++
			continue
		}
		next := p.peekAt(p.pos + 1)
		switch {
		case next == '\'':
			b.WriteByte('\'')
			p.pos += 2
		case next == '{' || next == '}' || next == '|' || (next == '#' && numeric) || (next == '<' && p.tags):
			// Quoted section runs to the next lone apostrophe.
			p.pos++
			for !p.eof() {
				c := p.peek()
				if c == '\'' {
					if p.peekAt(p.pos+1) == '\'' {
						b.WriteByte('\'')
						p.pos += 2
						continue
					}
					p.pos++
					break
				}
				b.WriteByte(c)
				p.pos++
			}
		default:
			b.WriteByte('\'')
			p.pos++
		}
	}
	return &Literal{Text: b.String(), Location: Location{Start: start, End: p.pos}}
}

func isTagStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isTagChar(c byte) bool {
	return isTagStart(c) || c >= '0' && c <= '9' || c == '-' || c == '_' || c == '.'
}

func (p *parser) parseTag(depth int, numeric bool) (Node, *SyntaxError) {
	start := p.pos
	p.pos++ // '<'
	nameStart := p.pos
	for !p.eof() && isTagChar(p.peek()) {
		p.pos++
	}
	name := p.src[nameStart:p.pos]
	p.skipSpace()

	if strings.HasPrefix(p.src[p.pos:], "/>") {
		p.pos += 2
		return &Tag{Name: name, Location: Location{Start: start, End: p.pos}}, nil
	}
	if p.peek() != '>' {
		return nil, p.errorAt(start, p.pos+1, "malformed opening tag <%s", name)
	}
	p.pos++

	children, err := p.parseMessage(depth, numeric, name)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(p.src[p.pos:], "</") {
		return nil, p.errorAt(start, p.pos, "unclosed tag <%s>", name)
	}
	closeStart := p.pos
	p.pos += 2
	closeNameStart := p.pos
	for !p.eof() && isTagChar(p.peek()) {
		p.pos++
	}
	closeName := p.src[closeNameStart:p.pos]
	p.skipSpace()
	if p.peek() != '>' {
		return nil, p.errorAt(closeStart, p.pos+1, "malformed closing tag </%s", closeName)
	}
	p.pos++
	if closeName != name {
		return nil, p.errorAt(closeStart, p.pos, "mismatched closing tag </%s> for <%s>", closeName, name)
	}
	return &Tag{Name: name, Children: children, Location: Location{Start: start, End: p.pos}}, nil
}

// readName reads an argument name or keyword: everything up to white space
// or a syntax character.
func (p *parser) readName() string {
	start := p.pos
	for !p.eof() {
		r, size := utf8.DecodeRuneInString(p.src[p.pos:])
		if unicode.IsSpace(r) || strings.ContainsRune("{},#<>'|", r) {
			break
		}
		p.pos += size
	}
	return p.src[start:p.pos]
}

func (p *parser) parseArgument(depth int, numeric bool) (Node, *SyntaxError) {
	start := p.pos
	p.pos++ // '{'
	p.skipSpace()
	nameStart := p.pos
	name := p.readName()
	if name == "" {
		return nil, p.errorAt(start, p.pos+1, "expected argument name")
	}
	pivotLoc := Location{Start: nameStart, End: p.pos}
	p.skipSpace()

	switch p.peek() {
	case '}':
		p.pos++
		return &Argument{Name: name, Location: Location{Start: start, End: p.pos}}, nil
	case ',':
		p.pos++
	case 0:
		return nil, p.errorAt(start, p.pos, "unclosed argument {%s", name)
	default:
		return nil, p.errorAt(p.pos, p.pos+1, "expected ',' or '}' after argument name %q", name)
	}

	p.skipSpace()
	typStart := p.pos
	typ := p.readName()
	p.skipSpace()

	switch typ {
	case "number", "date", "time":
		style, err := p.parseStyle(start)
		if err != nil {
			return nil, err
		}
		loc := Location{Start: start, End: p.pos}
		switch typ {
		case "number":
			return &NumberFormat{Name: name, Style: style, Location: loc}, nil
		case "date":
			return &DateFormat{Name: name, Style: style, Location: loc}, nil
		default:
			return &TimeFormat{Name: name, Style: style, Location: loc}, nil
		}
	case "plural", "selectordinal", "select":
		kind := KindSelect
		if typ == "plural" {
			kind = KindPlural
		} else if typ == "selectordinal" {
			kind = KindSelectOrdinal
		}
		if p.peek() != ',' {
			return nil, p.errorAt(p.pos, p.pos+1, "expected ',' after %s", typ)
		}
		p.pos++
		sel := &Select{Pivot: name, Kind: kind, PivotLocation: pivotLoc}
		if err := p.parseOptions(sel, start, depth, numeric || kind.Numeric()); err != nil {
			return nil, err
		}
		return sel, nil
	case "":
		return nil, p.errorAt(typStart, typStart+1, "expected argument type")
	default:
		return nil, p.errorAt(typStart, typStart+len(typ), "unknown argument type %q", typ)
	}
}

// parseStyle reads the optional ", style" part and the closing brace.
func (p *parser) parseStyle(start int) (string, *SyntaxError) {
	switch p.peek() {
	case '}':
		p.pos++
		return "", nil
	case ',':
		p.pos++
	default:
		return "", p.errorAt(start, p.pos+1, "expected ',' or '}' in argument")
	}
	styleStart := p.pos
	nest := 0
	for !p.eof() {
		switch p.peek() {
		case '{':
			nest++
		case '}':
			if nest == 0 {
				style := strings.TrimSpace(p.src[styleStart:p.pos])
				p.pos++
				if style == "" {
					return "", p.errorAt(styleStart, p.pos, "empty argument style")
				}
				return style, nil
			}
			nest--
		}
		p.pos++
	}
	return "", p.errorAt(start, p.pos, "unclosed argument")
}

func (p *parser) parseOptions(sel *Select, start, depth int, numeric bool) *SyntaxError {
	p.skipSpace()
	if sel.Kind.Numeric() && strings.HasPrefix(p.src[p.pos:], "offset:") {
		p.pos += len("offset:")
		p.skipSpace()
		offStart := p.pos
		for !p.eof() && p.peek() >= '0' && p.peek() <= '9' {
			sel.Offset = sel.Offset*10 + int(p.peek()-'0')
			p.pos++
		}
		if p.pos == offStart {
			return p.errorAt(offStart, offStart+1, "expected number after offset:")
		}
	}

	for {
		p.skipSpace()
		if p.eof() {
			return p.errorAt(start, p.pos, "unclosed %s argument {%s", sel.Kind, sel.Pivot)
		}
		if p.peek() == '}' {
			p.pos++
			break
		}

		labelStart := p.pos
		var category string
		if p.peek() == '=' {
			p.pos++
			for !p.eof() && (p.peek() >= '0' && p.peek() <= '9' || p.peek() == '.' || p.peek() == '-') {
				p.pos++
			}
			category = p.src[labelStart:p.pos]
			if len(category) == 1 {
				return p.errorAt(labelStart, p.pos+1, "expected number after '='")
			}
		} else {
			category = p.readName()
			if category == "" {
				return p.errorAt(p.pos, p.pos+1, "expected category in %s argument {%s", sel.Kind, sel.Pivot)
			}
		}
		label := Location{Start: labelStart, End: p.pos}
		if sel.Has(category) {
			return p.errorAt(label.Start, label.End, "duplicate category %q", category)
		}

		p.skipSpace()
		if p.peek() != '{' {
			return p.errorAt(p.pos, p.pos+1, "expected '{' after category %q", category)
		}
		contentStart := p.pos
		p.pos++
		value, err := p.parseMessage(depth+1, numeric, "")
		if err != nil {
			return err
		}
		if p.peek() != '}' {
			return p.errorAt(contentStart, p.pos, "unclosed category %q", category)
		}
		p.pos++
		sel.Options = append(sel.Options, Option{
			Category: category,
			Value:    value,
			Label:    label,
			Location: Location{Start: contentStart, End: p.pos},
		})
	}

	sel.Location = Location{Start: start, End: p.pos}
	if len(sel.Options) == 0 {
		return p.errorAt(start, p.pos, "%s argument {%s has no categories", sel.Kind, sel.Pivot)
	}
	if !sel.Has("other") {
		return p.errorAt(start, p.pos, "%s argument {%s is missing the 'other' category", sel.Kind, sel.Pivot)
	}
	return nil
}
