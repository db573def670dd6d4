package validate

import (
	"strconv"
	"strings"

	"lngcheck/internal/strparse"
)

// render rewrites a validated parse tree into canonical text: every
// parametric command gets its resolved explicit index and canonical name,
// cosmetic commands keep their canonical spelling, selector alternatives
// are rendered recursively. ASCII control bytes become blanks and trailing
// blanks are stripped at the end of every line; trimLeading additionally
// strips leading blanks (translation side). Rendering is idempotent:
// re-parsing the output and rendering again yields identical text.
func render(ps strparse.ParsedString, assign map[*strparse.Command]int, trimLeading bool) string {
	pieces := make([]string, len(ps.Fragments))
	isText := make([]bool, len(ps.Fragments))

	for i, f := range ps.Fragments {
		switch frag := f.(type) {
		case *strparse.Text:
			pieces[i] = sanitizeCtrl(frag.Value)
			isText[i] = true
		case *strparse.Command:
			pieces[i] = renderCommand(frag, assign)
		case *strparse.GenderAssign:
			pieces[i] = "{G=" + frag.Gender + "}"
		case *strparse.Selector:
			pieces[i] = renderSelector(frag, assign)
		}
	}

	// Trim blanks at the end of every line; {} is the newline command.
	eol := true
	for i := len(ps.Fragments) - 1; i >= 0; i-- {
		nl := false
		if isText[i] {
			if eol {
				pieces[i] = strings.TrimRight(pieces[i], " ")
			}
		} else if cmd, ok := ps.Fragments[i].(*strparse.Command); ok {
			nl = cmd.Name == ""
		}
		eol = nl
	}

	if trimLeading && len(pieces) > 0 && isText[0] {
		pieces[0] = strings.TrimLeft(pieces[0], " ")
	}

	return strings.Join(pieces, "")
}

func renderCommand(cmd *strparse.Command, assign map[*strparse.Command]int) string {
	var b strings.Builder
	b.WriteByte('{')
	if idx, ok := assign[cmd]; ok {
		b.WriteString(strconv.Itoa(idx))
		b.WriteByte(':')
	} else if cmd.Index != nil {
		b.WriteString(strconv.Itoa(*cmd.Index))
		b.WriteByte(':')
	}
	if cmd.Spec != nil {
		b.WriteString(cmd.Spec.NormName)
	} else {
		b.WriteString(cmd.Name)
	}
	if cmd.Case != "" {
		b.WriteByte('.')
		b.WriteString(cmd.Case)
	}
	b.WriteByte('}')
	return b.String()
}

func renderSelector(sel *strparse.Selector, assign map[*strparse.Command]int) string {
	var b strings.Builder
	b.WriteByte('{')
	b.WriteString(sel.Name)
	if sel.Ref != nil {
		b.WriteByte(' ')
		b.WriteString(strconv.Itoa(*sel.Ref))
		if sel.SubRef != nil {
			b.WriteByte(':')
			b.WriteString(strconv.Itoa(*sel.SubRef))
		}
	}
	for _, alt := range sel.Alts {
		b.WriteByte(' ')
		b.WriteString(quoteAlt(renderAlt(alt, assign)))
	}
	b.WriteByte('}')
	return b.String()
}

// renderAlt renders one selector alternative without line trimming; the
// alternative is a single token inside the selector.
func renderAlt(ps strparse.ParsedString, assign map[*strparse.Command]int) string {
	var b strings.Builder
	for _, f := range ps.Fragments {
		switch frag := f.(type) {
		case *strparse.Text:
			b.WriteString(sanitizeCtrl(frag.Value))
		case *strparse.Command:
			b.WriteString(renderCommand(frag, assign))
		case *strparse.GenderAssign:
			b.WriteString("{G=" + frag.Gender + "}")
		case *strparse.Selector:
			b.WriteString(renderSelector(frag, assign))
		}
	}
	return b.String()
}

// quoteAlt wraps an alternative in quotes when it is empty or contains
// whitespace, matching how the parser tokenizes selector bodies.
func quoteAlt(s string) string {
	if s == "" || strings.ContainsAny(s, " \t\n\r") {
		return `"` + s + `"`
	}
	return s
}

// sanitizeCtrl replaces every ASCII control byte with a blank.
func sanitizeCtrl(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return ' '
		}
		return r
	}, s)
}
