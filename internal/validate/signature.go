package validate

import (
	"fmt"
	"sort"

	"lngcheck/internal/catalog"
	"lngcheck/internal/diag"
	"lngcheck/internal/strparse"
)

// paramSlot is one entry of the canonical parameter list. name keeps the
// command as written in the base string so messages can quote it.
type paramSlot struct {
	spec *catalog.Spec
	name string
}

// nonPosCount tracks how often a cosmetic command occurs in the base.
type nonPosCount struct {
	spec  *catalog.Spec
	count int
}

// signature is the canonical shape of a base string: the ordered parameter
// list plus the occurrence counts of cosmetic commands and selectors.
type signature struct {
	params    map[int]paramSlot
	nonPos    map[string]*nonPosCount
	selectors map[string]int
}

// buildSignature assigns canonical parameter indices in left-to-right
// first-appearance order and validates the base string's internal
// consistency. The returned map records the resolved index of every
// parametric command, for the normalizer.
func buildSignature(ps strparse.ParsedString, cfg LanguageConfig, col *diag.Collector) (*signature, map[*strparse.Command]int) {
	sig := &signature{
		params:    map[int]paramSlot{},
		nonPos:    map[string]*nonPosCount{},
		selectors: map[string]int{},
	}
	assign := map[*strparse.Command]int{}

	pos := 0
	for _, f := range ps.Fragments {
		switch frag := f.(type) {
		case *strparse.Command:
			if frag.Spec == nil {
				continue // opaque; the parser already reported it
			}
			sp := frag.Span()
			checkCase(frag, cfg, col)
			if !frag.Spec.Parametric() {
				if frag.Index != nil {
					col.Error(&sp,
						fmt.Sprintf("Command '{%s}' cannot have a position reference.", frag.Name),
						fmt.Sprintf("Remove '%d:'.", *frag.Index))
				}
				bump(sig.nonPos, frag.Spec)
				continue
			}
			if frag.Index != nil {
				pos = *frag.Index
			}
			if existing, dup := sig.params[pos]; dup {
				if existing.spec.NormName != frag.Spec.NormName {
					col.Error(&sp,
						fmt.Sprintf("Type mismatch at index %d: command '{%s}' conflicts with '{%s}'.",
							pos, frag.Name, existing.name),
						"Assign unique position references.")
				}
			} else {
				sig.params[pos] = paramSlot{spec: frag.Spec, name: frag.Name}
			}
			assign[frag] = pos
			pos++

		case *strparse.Selector:
			sig.selectors[frag.Name]++
			checkSelectorArity(frag, cfg, col)

		case *strparse.GenderAssign:
			if !containsString(cfg.Genders, frag.Gender) {
				sp := frag.Span()
				col.Error(&sp, fmt.Sprintf("Unknown gender '%s'.", frag.Gender), "")
			}
		}
	}

	// The canonical list must be contiguous starting at 0. Walking the
	// defined indices keeps the cost proportional to the parameter count,
	// and parseIndex already caps how large an index can get.
	next := 0
	for _, idx := range sig.sortedIndices() {
		for ; next < idx; next++ {
			col.Error(nil, fmt.Sprintf("Parameter index %d is not used by any string command.", next), "")
		}
		next = idx + 1
	}

	return sig, assign
}

// checkSelectorArity requires a plural selector to carry PluralCount forms
// and a gender selector to carry one form per declared gender.
func checkSelectorArity(sel *strparse.Selector, cfg LanguageConfig, col *diag.Collector) {
	expected := cfg.PluralCount
	what := "Plural"
	if sel.Spec.Kind == catalog.KindGender {
		expected = len(cfg.Genders)
		what = "Gender"
	}
	if len(sel.Alts) != expected {
		sp := sel.Span()
		col.Error(&sp,
			fmt.Sprintf("%s selector has %d forms, expected %d.", what, len(sel.Alts), expected),
			fmt.Sprintf("Provide %d forms.", expected))
	}
}

// checkCase validates the optional .case suffix of a command.
func checkCase(cmd *strparse.Command, cfg LanguageConfig, col *diag.Collector) {
	if cmd.Case == "" {
		return
	}
	sp := cmd.Span()
	if IsGameScript(cfg) {
		col.Error(&sp, "Cases are not available in the game-script dialect.",
			fmt.Sprintf("Remove '.%s'.", cmd.Case))
		return
	}
	if !containsString(cfg.Cases, cmd.Case) {
		col.Error(&sp, fmt.Sprintf("Unknown case '%s'.", cmd.Case), "")
	}
}

func bump(counts map[string]*nonPosCount, spec *catalog.Spec) {
	if c, ok := counts[spec.NormName]; ok {
		c.count++
		return
	}
	counts[spec.NormName] = &nonPosCount{spec: spec, count: 1}
}

// sortedIndices returns the defined parameter indices in ascending order.
func (sig *signature) sortedIndices() []int {
	out := make([]int, 0, len(sig.params))
	for i := range sig.params {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// sortedNonPos returns the cosmetic command names in a stable order.
func (sig *signature) sortedNonPos() []string {
	out := make([]string, 0, len(sig.nonPos))
	for n := range sig.nonPos {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// sortedSelectors returns the selector names in a stable order.
func (sig *signature) sortedSelectors() []string {
	out := make([]string, 0, len(sig.selectors))
	for n := range sig.selectors {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
