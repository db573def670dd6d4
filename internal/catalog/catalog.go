// Package catalog holds the static registry of string commands: embedded
// tags such as {NUM}, {STRING} or {P ...} that the game renderer interprets
// at runtime. The registry is built once at startup and never mutated
// afterwards, so concurrent lookups need no locking.
package catalog

import "fmt"

// Dialect selects the command subset legal for a string: core game strings,
// NewGRF (mod) strings, or game-script strings.
type Dialect uint8

const (
	DialectOpenTTD Dialect = iota
	DialectNewGRF
	DialectGameScript
)

func (d Dialect) String() string {
	switch d {
	case DialectOpenTTD:
		return "openttd"
	case DialectNewGRF:
		return "newgrf"
	case DialectGameScript:
		return "game-script"
	}
	return "unknown"
}

// ParseDialect maps the wire names used by language configs to a Dialect.
func ParseDialect(s string) (Dialect, error) {
	switch s {
	case "openttd":
		return DialectOpenTTD, nil
	case "newgrf":
		return DialectNewGRF, nil
	case "game-script":
		return DialectGameScript, nil
	}
	return 0, fmt.Errorf("unknown dialect %q", s)
}

// Kind is the argument type of a command.
type Kind uint8

const (
	// KindCosmetic commands take no argument: colours, fonts, icons, the
	// newline command {} and the literal brace {{}.
	KindCosmetic Kind = iota
	// KindValue commands consume a typed value parameter (number, currency,
	// date, entity reference).
	KindValue
	// KindString commands consume a nested-string parameter.
	KindString
	// KindGender is the gender selector {G ...}.
	KindGender
	// KindPlural is the plural selector {P ...}.
	KindPlural
)

// Occurrence constrains how often a cosmetic command may appear in a
// translation relative to the base string.
type Occurrence uint8

const (
	// OccAny commands (NBSP, icons) are unconstrained.
	OccAny Occurrence = iota
	// OccNonzero commands (colours) should appear at least once when the
	// base string uses them.
	OccNonzero
	// OccExact commands (font switches) must appear exactly as often as in
	// the base string.
	OccExact
)

// DialectSet is a bitmask of dialects a command is legal in.
type DialectSet uint8

const (
	inOpenTTD    DialectSet = 1 << DialectOpenTTD
	inNewGRF     DialectSet = 1 << DialectNewGRF
	inGameScript DialectSet = 1 << DialectGameScript
	inAll                   = inOpenTTD | inNewGRF | inGameScript
)

func (s DialectSet) Contains(d Dialect) bool {
	return s&(1<<d) != 0
}

// Spec describes one string command. Name is the command as written in
// source strings; NormName is the canonical spelling used for matching and
// normalized output. The two differ only for numbered aliases whose suffix
// merely restates an argument count (STRING2 -> STRING); suffixes that
// denote a distinct value type (CURRENCY_LONG, DATE_SHORT) are part of the
// canonical name.
type Spec struct {
	Name       string
	NormName   string
	Kind       Kind
	Dialects   DialectSet
	Occurrence Occurrence
}

// Parametric reports whether the command consumes a parameter slot.
func (s *Spec) Parametric() bool {
	return s.Kind == KindValue || s.Kind == KindString
}

// Selector reports whether the command chooses between nested alternatives.
func (s *Spec) Selector() bool {
	return s.Kind == KindGender || s.Kind == KindPlural
}

var registry = map[string]*Spec{}

func add(name, norm string, kind Kind, dialects DialectSet, occ Occurrence) {
	if norm == "" {
		norm = name
	}
	registry[name] = &Spec{Name: name, NormName: norm, Kind: kind, Dialects: dialects, Occurrence: occ}
}

func init() {
	// Layout and newline.
	add("", "", KindCosmetic, inAll, OccExact) // {} is a forced newline
	add("{", "", KindCosmetic, inAll, OccAny)  // {{} is a literal brace
	add("NBSP", "", KindCosmetic, inAll, OccAny)
	add("COPYRIGHT", "", KindCosmetic, inAll, OccAny)
	add("TRADEMARK", "", KindCosmetic, inAll, OccAny)

	// Font switches must be mirrored exactly.
	for _, n := range []string{"TINY_FONT", "BIG_FONT", "MONO_FONT"} {
		add(n, "", KindCosmetic, inAll, OccExact)
	}

	// Colours.
	for _, n := range []string{
		"BLACK", "BLUE", "DKBLUE", "LTBLUE", "RED", "GREEN", "DKGREEN",
		"YELLOW", "ORANGE", "WHITE", "GRAY", "SILVER", "GOLD", "CREAM",
		"BROWN", "LTBROWN", "PURPLE", "PUSH_COLOUR", "POP_COLOUR",
	} {
		add(n, "", KindCosmetic, inAll, OccNonzero)
	}

	// Vehicle icons.
	for _, n := range []string{"TRAIN", "LORRY", "BUS", "PLANE", "SHIP"} {
		add(n, "", KindCosmetic, inAll, OccAny)
	}

	// Numeric and unit values.
	for _, n := range []string{
		"NUM", "COMMA", "DECIMAL", "ZEROFILL_NUM", "HEX", "BYTES",
		"CURRENCY_LONG", "CURRENCY_SHORT", "VELOCITY", "POWER",
		"POWER_TO_WEIGHT", "WEIGHT_LONG", "WEIGHT_SHORT", "VOLUME_LONG",
		"VOLUME_SHORT", "HEIGHT", "FORCE", "UNITS",
		"DATE_LONG", "DATE_SHORT", "DATE_TINY", "DATE_ISO",
	} {
		add(n, "", KindValue, inAll, OccAny)
	}

	// Game entity references are not available to NewGRF strings.
	for _, n := range []string{
		"STATION", "WAYPOINT", "DEPOT", "TOWN", "INDUSTRY", "CARGO_LONG",
		"CARGO_SHORT", "CARGO_TINY", "CARGO_LIST", "ENGINE", "VEHICLE",
		"COMPANY", "COMPANY_NUM", "GROUP", "SIGN", "PRESIDENT_NAME",
	} {
		add(n, "", KindValue, inOpenTTD|inGameScript, OccAny)
	}

	// Nested-string parameters. STRING1..STRING7 only restate how many
	// sub-parameters the referenced string consumes, so they all normalize
	// to STRING.
	add("STRING", "", KindString, inAll, OccAny)
	for i := 1; i <= 7; i++ {
		add(fmt.Sprintf("STRING%d", i), "STRING", KindString, inAll, OccAny)
	}
	add("RAW_STRING", "", KindString, inOpenTTD|inGameScript, OccAny)

	// Gender/plural selectors.
	add("P", "", KindPlural, inAll, OccAny)
	add("G", "", KindGender, inAll, OccAny)
}

// Lookup resolves a command name regardless of dialect. The second return
// is false for names the catalog does not know at all.
func Lookup(name string) (*Spec, bool) {
	s, ok := registry[name]
	return s, ok
}

// LookupIn resolves a command name for one dialect. legal is false when the
// name exists but is not available in that dialect; known is false when the
// name does not exist at all.
func LookupIn(name string, d Dialect) (spec *Spec, known, legal bool) {
	s, ok := registry[name]
	if !ok {
		return nil, false, false
	}
	return s, true, s.Dialects.Contains(d)
}
