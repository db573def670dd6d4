// Package validate implements the translation-string engine: it checks a
// base string for well-formedness, assigns canonical parameter indices,
// reconciles a translation against the base's canonical parameter list and
// rewrites validated strings into their normalized form.
//
// Every call is a pure function of its inputs. The only shared state is the
// command catalog, which is immutable after startup, so concurrent calls
// are safe without locking.
package validate

import (
	"fmt"

	"lngcheck/internal/catalog"
	"lngcheck/internal/diag"
	"lngcheck/internal/strparse"
)

// LanguageConfig describes the language a string belongs to. It is supplied
// fresh on every call and never retained.
type LanguageConfig struct {
	// Dialect is "openttd", "newgrf" or "game-script".
	Dialect string `json:"dialect"`
	// Cases lists the grammatical cases of the language (empty for the
	// base language).
	Cases []string `json:"cases"`
	// Genders lists the grammatical genders (empty for the base language).
	Genders []string `json:"genders"`
	// PluralCount is the number of plural forms (2 for the base language).
	PluralCount int `json:"plural_count"`
}

// Result is the outcome of one validation call. Errors holds all issues in
// detection order, warnings included. Normalized is present exactly when no
// Error-severity issue was raised; warnings do not suppress it.
type Result struct {
	Errors     []diag.Issue `json:"errors"`
	Normalized *string      `json:"normalized,omitempty"`
}

// HasErrors reports whether the result contains an Error-severity issue.
func (r Result) HasErrors() bool {
	for i := range r.Errors {
		if r.Errors[i].Severity >= diag.SevError {
			return true
		}
	}
	return false
}

// IsGameScript reports whether the config selects the game-script dialect,
// which has no grammatical cases. Callers use it to suppress case UI.
func IsGameScript(cfg LanguageConfig) bool {
	return cfg.Dialect == catalog.DialectGameScript.String()
}

// Base validates a base (source-language) string: parses it, assigns
// canonical parameter indices in left-to-right first-appearance order and
// checks internal consistency. The base language has no cases or genders
// and exactly two plural forms; a config that says otherwise is a
// configuration error, not a parse error.
func Base(cfg LanguageConfig, base string) Result {
	col := diag.NewCollector()

	dialect, ok := checkBaseConfig(cfg, col)
	if !ok {
		return finish(col, nil, nil, false)
	}

	parsed := strparse.Parse(base, dialect, col)
	col.EndPass()

	_, assign := buildSignature(parsed, cfg, col)
	col.EndPass()

	return finish(col, &parsed, assign, false)
}

// Translation validates a translator-supplied string against a base string.
// caseName is "default" or one of cfg.Cases. The base is analyzed
// internally; its own issues are not re-surfaced, but a base that fails to
// parse is a fatal precondition error.
func Translation(cfg LanguageConfig, base, caseName, translation string) Result {
	col := diag.NewCollector()

	dialect, ok := checkTranslationConfig(cfg, caseName, col)
	if !ok {
		return finish(col, nil, nil, false)
	}

	// Canonical parameter list of the base. Only a parse failure is fatal;
	// structural base issues leave a usable signature behind.
	baseCol := diag.NewCollector()
	baseParsed := strparse.Parse(base, dialect, baseCol)
	if baseCol.HasErrors() {
		col.Error(nil, "The base string is invalid.", "")
		return finish(col, nil, nil, false)
	}
	baseCfg := LanguageConfig{Dialect: cfg.Dialect, PluralCount: 2}
	sig, _ := buildSignature(baseParsed, baseCfg, baseCol)

	parsed := strparse.Parse(translation, dialect, col)
	col.EndPass()

	assign := reconcile(parsed, sig, cfg, col)
	col.EndPass()

	return finish(col, &parsed, assign, true)
}

func finish(col *diag.Collector, parsed *strparse.ParsedString, assign map[*strparse.Command]int, trimLeading bool) Result {
	res := Result{Errors: col.Issues()}
	if res.Errors == nil {
		res.Errors = []diag.Issue{}
	}
	if parsed != nil && !col.HasErrors() {
		norm := render(*parsed, assign, trimLeading)
		res.Normalized = &norm
	}
	return res
}

func checkBaseConfig(cfg LanguageConfig, col *diag.Collector) (catalog.Dialect, bool) {
	dialect, err := catalog.ParseDialect(cfg.Dialect)
	if err != nil {
		col.Error(nil, fmt.Sprintf("Unknown dialect '%s'.", cfg.Dialect), "")
		return 0, false
	}
	ok := true
	if len(cfg.Cases) > 0 {
		col.Error(nil, "The base language cannot have cases.", "")
		ok = false
	}
	if len(cfg.Genders) > 0 {
		col.Error(nil, "The base language cannot have genders.", "")
		ok = false
	}
	if cfg.PluralCount != 2 {
		col.Error(nil, "The base language must have 2 plural forms.", "")
		ok = false
	}
	return dialect, ok
}

func checkTranslationConfig(cfg LanguageConfig, caseName string, col *diag.Collector) (catalog.Dialect, bool) {
	dialect, err := catalog.ParseDialect(cfg.Dialect)
	if err != nil {
		col.Error(nil, fmt.Sprintf("Unknown dialect '%s'.", cfg.Dialect), "")
		return 0, false
	}
	ok := true
	if cfg.PluralCount < 1 {
		col.Error(nil, "The plural count must be at least 1.", "")
		ok = false
	}
	if caseName != "default" && !containsString(cfg.Cases, caseName) {
		col.Error(nil, fmt.Sprintf("Unknown case '%s'.", caseName), "")
		ok = false
	}
	if IsGameScript(cfg) && caseName != "default" {
		col.Error(nil, "The game-script dialect does not support cases.", "")
		ok = false
	}
	return dialect, ok
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
