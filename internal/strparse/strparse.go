// Package strparse turns raw translatable text into a positioned tree of
// literal runs and string commands. Spans are byte offsets into the input,
// so diagnostics stay accurate even when earlier commands are malformed.
package strparse

import (
	"fmt"
	"regexp"
	"strings"

	"lngcheck/internal/catalog"
	"lngcheck/internal/diag"
)

// MaxDepth bounds selector nesting. Alternatives are parsed recursively;
// exceeding the bound is a fatal parse error and the parser stops.
const MaxDepth = 8

// MaxParamIndex bounds explicit parameter indices and selector
// back-references. Downstream checks iterate index ranges, so an
// unbounded index would make validation cost proportional to the index
// value instead of the input length.
const MaxParamIndex = 255

// Fragment is one segment of a parsed string.
type Fragment interface {
	Span() diag.Span
}

// Text is a literal run between commands.
type Text struct {
	Pos   diag.Span
	Value string
}

func (t *Text) Span() diag.Span { return t.Pos }

// Command is a single tag such as {NUM}, {0:STRING.gen} or {}. Spec is nil
// when the name is unknown or illegal for the dialect; such commands are
// opaque and skipped by the analyzers.
type Command struct {
	Pos   diag.Span
	Index *int
	Name  string
	Case  string
	Spec  *catalog.Spec
}

func (c *Command) Span() diag.Span { return c.Pos }

// GenderAssign is a {G=x} tag declaring the gender of the whole string.
type GenderAssign struct {
	Pos    diag.Span
	Gender string
}

func (g *GenderAssign) Span() diag.Span { return g.Pos }

// Selector is a {P ...} or {G ...} tag choosing between alternative
// sub-strings by plural rule or grammatical gender. Ref and SubRef are the
// optional parameter back-reference ("{P 1:2 ...}").
type Selector struct {
	Pos    diag.Span
	Name   string
	Spec   *catalog.Spec
	Ref    *int
	SubRef *int
	Alts   []ParsedString
}

func (s *Selector) Span() diag.Span { return s.Pos }

// ParsedString is the ordered fragment sequence of one input string.
type ParsedString struct {
	Fragments []Fragment
}

// ParamIndexCount returns the number of distinct parameter indices the
// string references, resolving unindexed commands by left-to-right order.
func (ps ParsedString) ParamIndexCount() int {
	seen := map[int]bool{}
	pos := 0
	for _, f := range ps.Fragments {
		cmd, ok := f.(*Command)
		if !ok || cmd.Spec == nil || !cmd.Spec.Parametric() {
			continue
		}
		if cmd.Index != nil {
			pos = *cmd.Index
		}
		seen[pos] = true
		pos++
	}
	return len(seen)
}

var (
	reCommand = regexp.MustCompile(`^(?:([0-9]+):)?([A-Z][A-Z0-9_]*)(?:\.([A-Za-z0-9_]+))?$`)
	reGender  = regexp.MustCompile(`^G\s*=\s*(\w+)$`)
)

// Parse scans text under the given dialect. Parse issues are appended to
// col in detection order; the returned tree covers everything parsed before
// a fatal error, if any.
func Parse(text string, dialect catalog.Dialect, col *diag.Collector) ParsedString {
	p := &parser{src: text, dialect: dialect, col: col}
	return p.parseRange(0, len(text), 0)
}

type parser struct {
	src     string
	dialect catalog.Dialect
	col     *diag.Collector
	halted  bool
}

func (p *parser) parseRange(start, end, depth int) ParsedString {
	var frags []Fragment
	textStart := start
	i := start

	flush := func(upto int) {
		if upto > textStart {
			frags = append(frags, &Text{
				Pos:   diag.Span{Start: textStart, End: upto},
				Value: p.src[textStart:upto],
			})
		}
	}

	for i < end {
		if p.src[i] != '{' {
			i++
			continue
		}
		flush(i)
		frag, next := p.parseBrace(i, end, depth)
		if frag != nil {
			frags = append(frags, frag)
		}
		if p.halted {
			return ParsedString{Fragments: frags}
		}
		i = next
		textStart = next
	}
	flush(end)
	return ParsedString{Fragments: frags}
}

// parseBrace consumes one {...} span starting at 'at' and returns the
// fragment (nil for malformed spans) and the offset to resume at.
func (p *parser) parseBrace(at, end, depth int) (Fragment, int) {
	closeAt := matchBrace(p.src, at, end)
	if closeAt < 0 {
		// Resynchronize at the next start marker, or give up at end of
		// input.
		resume := end
		if nk := strings.IndexByte(p.src[at+1:end], '{'); nk >= 0 {
			resume = at + 1 + nk
		}
		p.col.Error(&diag.Span{Start: at, End: resume},
			"Unterminated string command, '}' expected.", "")
		return nil, resume
	}

	inner := p.src[at+1 : closeAt]
	span := diag.Span{Start: at, End: closeAt + 1}

	// {} is the newline command, {{} the literal brace.
	if inner == "" || inner == "{" {
		spec, _ := catalog.Lookup(inner)
		return &Command{Pos: span, Name: inner, Spec: spec}, closeAt + 1
	}

	if m := reCommand.FindStringSubmatch(inner); m != nil {
		cmd := &Command{Pos: span, Name: m[2], Case: m[3]}
		if m[1] != "" {
			idx, ok := parseIndex(m[1])
			if !ok {
				p.col.Error(&span, fmt.Sprintf("Parameter index %s is out of range.", m[1]),
					fmt.Sprintf("Use indices up to %d.", MaxParamIndex))
				// Opaque: the analyzers skip it.
				return cmd, closeAt + 1
			}
			cmd.Index = &idx
		}
		spec, known, legal := catalog.LookupIn(cmd.Name, p.dialect)
		switch {
		case !known:
			p.col.Error(&span, fmt.Sprintf("Unknown string command '{%s}'.", cmd.Name), "")
		case !legal:
			p.col.Error(&span, fmt.Sprintf("String command '{%s}' is not available in the %s dialect.",
				cmd.Name, p.dialect), "")
		case spec.Selector():
			// A bare {P} or {G} is a selector with no alternatives; the
			// analyzer reports the arity.
			return &Selector{Pos: span, Name: cmd.Name, Spec: spec}, closeAt + 1
		default:
			cmd.Spec = spec
		}
		return cmd, closeAt + 1
	}

	if m := reGender.FindStringSubmatch(inner); m != nil {
		return &GenderAssign{Pos: span, Gender: m[1]}, closeAt + 1
	}

	if isSelectorStart(inner) {
		return p.parseSelector(at, closeAt, depth)
	}

	p.col.Error(&span, fmt.Sprintf("Invalid string command '%s'.", p.src[at:closeAt+1]), "")
	return nil, closeAt + 1
}

// parseSelector parses {NAME [ref[:sub]] alt alt ...} between at and closeAt.
func (p *parser) parseSelector(at, closeAt, depth int) (Fragment, int) {
	span := diag.Span{Start: at, End: closeAt + 1}
	if depth >= MaxDepth {
		p.col.Error(&span, "String commands are nested too deeply.", "")
		p.halted = true
		return nil, closeAt + 1
	}

	k := at + 1
	nameStart := k
	for k < closeAt && isUpper(p.src[k]) {
		k++
	}
	name := p.src[nameStart:k]

	sel := &Selector{Pos: span, Name: name}
	spec, known, legal := catalog.LookupIn(name, p.dialect)
	switch {
	case !known:
		p.col.Error(&span, fmt.Sprintf("Unknown string command '{%s}'.", name), "")
		return nil, closeAt + 1
	case !legal:
		p.col.Error(&span, fmt.Sprintf("String command '{%s}' is not available in the %s dialect.",
			name, p.dialect), "")
		return nil, closeAt + 1
	case !spec.Selector():
		p.col.Error(&span, fmt.Sprintf("Invalid string command '%s'.", p.src[at:closeAt+1]), "")
		return nil, closeAt + 1
	}
	sel.Spec = spec

	k = skipSpace(p.src, k, closeAt)

	// Optional parameter back-reference.
	if k < closeAt && isDigit(p.src[k]) {
		numStart := k
		for k < closeAt && isDigit(p.src[k]) {
			k++
		}
		ref, ok := parseIndex(p.src[numStart:k])
		if !ok {
			p.col.Error(&span, fmt.Sprintf("Parameter index %s is out of range.", p.src[numStart:k]),
				fmt.Sprintf("Use indices up to %d.", MaxParamIndex))
			return nil, closeAt + 1
		}
		sel.Ref = &ref
		if k < closeAt && p.src[k] == ':' {
			k++
			numStart = k
			for k < closeAt && isDigit(p.src[k]) {
				k++
			}
			if numStart == k {
				p.col.Error(&span, fmt.Sprintf("Invalid string command '%s'.", p.src[at:closeAt+1]), "")
				return nil, closeAt + 1
			}
			sub, ok := parseIndex(p.src[numStart:k])
			if !ok {
				p.col.Error(&span, fmt.Sprintf("Parameter index %s is out of range.", p.src[numStart:k]),
					fmt.Sprintf("Use indices up to %d.", MaxParamIndex))
				return nil, closeAt + 1
			}
			sel.SubRef = &sub
		}
		if k < closeAt && !isSpace(p.src[k]) {
			p.col.Error(&span, fmt.Sprintf("Invalid string command '%s'.", p.src[at:closeAt+1]), "")
			return nil, closeAt + 1
		}
	}

	// Alternatives: bare tokens or quoted strings, each recursively parsed.
	for {
		k = skipSpace(p.src, k, closeAt)
		if k >= closeAt {
			break
		}
		var altStart, altEnd int
		if p.src[k] == '"' {
			altStart = k + 1
			q := strings.IndexByte(p.src[altStart:closeAt], '"')
			if q < 0 {
				p.col.Error(&span, fmt.Sprintf("Invalid string command '%s'.", p.src[at:closeAt+1]), "")
				return nil, closeAt + 1
			}
			altEnd = altStart + q
			k = altEnd + 1
		} else {
			altStart = k
			d := 0
			for k < closeAt && (d > 0 || !isSpace(p.src[k])) {
				switch p.src[k] {
				case '{':
					if !(k > altStart && p.src[k-1] == '{') {
						d++
					}
				case '}':
					d--
				}
				k++
			}
			altEnd = k
		}
		alt := p.parseRange(altStart, altEnd, depth+1)
		if p.halted {
			return nil, closeAt + 1
		}
		sel.Alts = append(sel.Alts, alt)
	}

	return sel, closeAt + 1
}

// matchBrace returns the offset of the '}' closing the '{' at 'at',
// honoring nested braces, or -1 when the command is unterminated. A '{'
// directly after another '{' is the literal-brace name ({{}), not an
// opener.
func matchBrace(src string, at, end int) int {
	depth := 0
	for i := at; i < end; i++ {
		switch src[i] {
		case '{':
			if i > at && src[i-1] == '{' {
				continue
			}
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func isSelectorStart(inner string) bool {
	return len(inner) > 0 && isUpper(inner[0]) && strings.ContainsAny(inner, " \t\n\r")
}

func isUpper(b byte) bool { return b >= 'A' && b <= 'Z' }
func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isSpace(b byte) bool { return b == ' ' || b == '\t' || b == '\n' || b == '\r' }

func skipSpace(src string, i, end int) int {
	for i < end && isSpace(src[i]) {
		i++
	}
	return i
}

// parseIndex converts a digit run, rejecting values above MaxParamIndex
// before they can overflow.
func parseIndex(s string) (int, bool) {
	n := 0
	for i := 0; i < len(s); i++ {
		n = n*10 + int(s[i]-'0')
		if n > MaxParamIndex {
			return 0, false
		}
	}
	return n, true
}
