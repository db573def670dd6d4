package validate

import (
	"fmt"

	"lngcheck/internal/catalog"
	"lngcheck/internal/diag"
	"lngcheck/internal/strparse"
)

// reconcile scans the translation's commands in order of appearance and
// matches them against the base signature: explicit indices must exist and
// agree in type, unindexed parametric commands match by ordinal position,
// and afterwards every canonical index must be covered. Cosmetic commands
// the base does not require are advisory only.
func reconcile(ps strparse.ParsedString, sig *signature, cfg LanguageConfig, col *diag.Collector) map[*strparse.Command]int {
	claimed := map[int]*strparse.Command{}
	assign := map[*strparse.Command]int{}
	nonPos := map[string]int{}
	selectors := map[string]int{}

	pos := 0
	for _, f := range ps.Fragments {
		switch frag := f.(type) {
		case *strparse.Command:
			if frag.Spec == nil {
				continue
			}
			sp := frag.Span()
			checkCase(frag, cfg, col)
			if !frag.Spec.Parametric() {
				if frag.Index != nil {
					col.Error(&sp,
						fmt.Sprintf("Command '{%s}' cannot have a position reference.", frag.Name),
						fmt.Sprintf("Remove '%d:'.", *frag.Index))
				}
				nonPos[frag.Spec.NormName]++
				if _, required := sig.nonPos[frag.Spec.NormName]; !required {
					col.Warning(&sp,
						fmt.Sprintf("String command '{%s}' is unexpected.", frag.Name),
						"Remove this command.")
				}
				continue
			}

			if frag.Index != nil {
				pos = *frag.Index
			}
			slot, defined := sig.params[pos]
			if !defined {
				col.Error(&sp,
					fmt.Sprintf("The base string has no parameter %d.", pos),
					"Remove this command.")
				pos++
				continue
			}
			if prev := claimed[pos]; prev != nil {
				col.Error(&sp,
					fmt.Sprintf("Duplicate parameter: position %d is already used by '{%s}'.", pos, prev.Name),
					"Assign unique position references.")
			} else {
				claimed[pos] = frag
			}
			if slot.spec.NormName != frag.Spec.NormName {
				col.Error(&sp,
					fmt.Sprintf("Expected '{%d:%s}', found '{%s}'.", pos, slot.name, frag.Name), "")
			}
			assign[frag] = pos
			pos++

		case *strparse.Selector:
			selectors[frag.Name]++
			checkSelectorArity(frag, cfg, col)

		case *strparse.GenderAssign:
			if !containsString(cfg.Genders, frag.Gender) {
				sp := frag.Span()
				col.Error(&sp, fmt.Sprintf("Unknown gender '%s'.", frag.Gender), "")
			}
		}
	}

	// Whole-string checks; the collector orders these after the positioned
	// issues of this pass.
	for _, idx := range sig.sortedIndices() {
		if claimed[idx] == nil {
			slot := sig.params[idx]
			col.Error(nil,
				fmt.Sprintf("String command '{%d:%s}' is missing.", idx, slot.name), "")
		}
	}

	for _, name := range sig.sortedNonPos() {
		required := sig.nonPos[name]
		got := nonPos[name]
		switch required.spec.Occurrence {
		case catalog.OccExact:
			if got != required.count {
				col.Error(nil,
					fmt.Sprintf("String command '{%s}' appears %d times, expected %d.",
						name, got, required.count), "")
			}
		case catalog.OccNonzero:
			if got == 0 {
				col.Warning(nil,
					fmt.Sprintf("String command '{%s}' is missing.", name), "")
			}
		}
	}

	// The translator must choose forms wherever the base requires them.
	for _, name := range sig.sortedSelectors() {
		if selectors[name] == 0 {
			col.Error(nil,
				fmt.Sprintf("String command '{%s}' is missing.", name), "")
		}
	}

	return assign
}
