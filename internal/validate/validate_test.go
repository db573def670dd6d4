package validate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lngcheck/internal/diag"
)

func baseConfig() LanguageConfig {
	return LanguageConfig{Dialect: "openttd", PluralCount: 2}
}

func TestBaseUnknownCommand(t *testing.T) {
	res := Base(baseConfig(),
		"{BLACK}Age: {LTBLUE}{STRING2}{BLACK}   Running Cost: {LTBLUE}{CURRENCY}/year")

	require.Len(t, res.Errors, 1)
	iss := res.Errors[0]
	assert.Equal(t, diag.SevError, iss.Severity)
	assert.Equal(t, "Unknown string command '{CURRENCY}'.", iss.Message)
	assert.Equal(t, &diag.Span{Start: 61, End: 71}, iss.Position)
	assert.Nil(t, res.Normalized)
	assert.True(t, res.HasErrors())
}

func TestBaseNormalizes(t *testing.T) {
	res := Base(baseConfig(),
		"{BLACK}Age: {LTBLUE}{STRING2}{BLACK}   Running Cost: {LTBLUE}{CURRENCY_LONG}/year")

	assert.Empty(t, res.Errors)
	assert.NotNil(t, res.Errors, "errors must encode as [] even when empty")
	require.NotNil(t, res.Normalized)
	assert.Equal(t,
		"{BLACK}Age: {LTBLUE}{0:STRING}{BLACK}   Running Cost: {LTBLUE}{1:CURRENCY_LONG}/year",
		*res.Normalized)
}

func TestBaseNormalizationIsIdempotent(t *testing.T) {
	res := Base(baseConfig(),
		"{BLACK}Age: {LTBLUE}{STRING2}{BLACK}   Running Cost: {LTBLUE}{CURRENCY_LONG}/year")
	require.NotNil(t, res.Normalized)

	again := Base(baseConfig(), *res.Normalized)
	assert.Empty(t, again.Errors)
	require.NotNil(t, again.Normalized)
	assert.Equal(t, *res.Normalized, *again.Normalized)
}

func TestBaseAssignsIndicesLeftToRight(t *testing.T) {
	res := Base(baseConfig(), "{NUM} of {COMMA} at {DATE_SHORT}")
	assert.Empty(t, res.Errors)
	require.NotNil(t, res.Normalized)
	assert.Equal(t, "{0:NUM} of {1:COMMA} at {2:DATE_SHORT}", *res.Normalized)
}

func TestBaseAllowsRepeatedIndexOfSameType(t *testing.T) {
	res := Base(baseConfig(), "{NUM}{0:NUM}")
	assert.Empty(t, res.Errors)
	require.NotNil(t, res.Normalized)
	assert.Equal(t, "{0:NUM}{0:NUM}", *res.Normalized)
}

func TestBaseTypeMismatchAtIndex(t *testing.T) {
	res := Base(baseConfig(), "{NUM}{0:COMMA}")
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "Type mismatch at index 0: command '{COMMA}' conflicts with '{NUM}'.",
		res.Errors[0].Message)
	assert.Equal(t, &diag.Span{Start: 5, End: 14}, res.Errors[0].Position)
	assert.Nil(t, res.Normalized)
}

func TestBaseIndexGap(t *testing.T) {
	res := Base(baseConfig(), "{1:NUM}")
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "Parameter index 0 is not used by any string command.", res.Errors[0].Message)
	assert.Nil(t, res.Errors[0].Position)
}

func TestBaseRejectsHugeIndex(t *testing.T) {
	// Validation cost must follow the input length, not the index value:
	// an oversized index is a single positioned parse error, never a
	// billion-entry gap walk or an integer wraparound.
	for _, text := range []string{
		"{2000000000:NUM}",
		"{99999999999999999999:NUM}",
		"{9223372036854775808:NUM}",
	} {
		done := make(chan Result, 1)
		go func() { done <- Base(baseConfig(), text) }()

		select {
		case res := <-done:
			require.Len(t, res.Errors, 1, text)
			assert.Contains(t, res.Errors[0].Message, "is out of range", text)
			require.NotNil(t, res.Errors[0].Position, text)
			assert.Nil(t, res.Normalized, text)
		case <-time.After(2 * time.Second):
			t.Fatalf("validation of %q did not terminate", text)
		}
	}
}

func TestBaseCosmeticRejectsPositionRef(t *testing.T) {
	res := Base(baseConfig(), "{1:RED}")
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "Command '{RED}' cannot have a position reference.", res.Errors[0].Message)
	assert.Equal(t, "Remove '1:'.", res.Errors[0].Suggestion)
}

func TestBasePluralArity(t *testing.T) {
	res := Base(baseConfig(), `{NUM} item{P "" s}`)
	assert.Empty(t, res.Errors)

	res = Base(baseConfig(), "{NUM} item{P a b c}")
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "Plural selector has 3 forms, expected 2.", res.Errors[0].Message)
	assert.Equal(t, "Provide 2 forms.", res.Errors[0].Suggestion)
}

func TestBaseHasNoGenders(t *testing.T) {
	res := Base(baseConfig(), "{G=m}word")
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "Unknown gender 'm'.", res.Errors[0].Message)
}

func TestBaseRejectsBadConfig(t *testing.T) {
	res := Base(LanguageConfig{Dialect: "openttd", Cases: []string{"gen"}, PluralCount: 2}, "x")
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "The base language cannot have cases.", res.Errors[0].Message)

	res = Base(LanguageConfig{Dialect: "openttd", PluralCount: 4}, "x")
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "The base language must have 2 plural forms.", res.Errors[0].Message)

	res = Base(LanguageConfig{Dialect: "klingon", PluralCount: 2}, "x")
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "Unknown dialect 'klingon'.", res.Errors[0].Message)
}

func TestBaseTrimsTrailingBlanks(t *testing.T) {
	res := Base(baseConfig(), " Hello  ")
	require.NotNil(t, res.Normalized)
	assert.Equal(t, " Hello", *res.Normalized, "base keeps leading blanks")

	// {} is a newline, so blanks before it are end-of-line blanks too.
	res = Base(baseConfig(), "a  {}b  ")
	require.NotNil(t, res.Normalized)
	assert.Equal(t, "a{}b", *res.Normalized)
}

func TestBaseSanitizesControlBytes(t *testing.T) {
	res := Base(baseConfig(), "a\tb\x01c")
	require.NotNil(t, res.Normalized)
	assert.Equal(t, "a b c", *res.Normalized)
}

const scenarioBase = "{BLACK}Age: {LTBLUE}{STRING2}{BLACK}   Running Cost: {LTBLUE}{CURRENCY_LONG}/year"

func TestTranslationReconciliationFailures(t *testing.T) {
	res := Translation(baseConfig(), scenarioBase, "default",
		"{BLUE}Alter: {LTBLUE}{STRING}{BLACK} Betriebskosten: {LTBLUE}{0:CURRENCY_LONG}/Jahr")

	require.Len(t, res.Errors, 4)

	warn := res.Errors[0]
	assert.Equal(t, diag.SevWarning, warn.Severity)
	assert.Equal(t, "String command '{BLUE}' is unexpected.", warn.Message)
	assert.Equal(t, "Remove this command.", warn.Suggestion)
	assert.Equal(t, &diag.Span{Start: 0, End: 6}, warn.Position)

	dup := res.Errors[1]
	assert.Equal(t, diag.SevError, dup.Severity)
	assert.Equal(t, "Duplicate parameter: position 0 is already used by '{STRING}'.", dup.Message)
	assert.Equal(t, &diag.Span{Start: 61, End: 78}, dup.Position)

	mismatch := res.Errors[2]
	assert.Equal(t, "Expected '{0:STRING2}', found '{CURRENCY_LONG}'.", mismatch.Message)
	assert.Equal(t, &diag.Span{Start: 61, End: 78}, mismatch.Position)

	missing := res.Errors[3]
	assert.Equal(t, diag.SevError, missing.Severity)
	assert.Equal(t, "String command '{1:CURRENCY_LONG}' is missing.", missing.Message)
	assert.Nil(t, missing.Position)

	assert.Nil(t, res.Normalized)
}

func TestTranslationNormalizes(t *testing.T) {
	res := Translation(baseConfig(), scenarioBase, "default",
		"{BLACK}Alter: {LTBLUE}{STRING}{BLACK} Betriebskosten: {LTBLUE}{CURRENCY_LONG}/Jahr")

	assert.Empty(t, res.Errors)
	require.NotNil(t, res.Normalized)
	assert.Equal(t,
		"{BLACK}Alter: {LTBLUE}{0:STRING}{BLACK} Betriebskosten: {LTBLUE}{1:CURRENCY_LONG}/Jahr",
		*res.Normalized)

	// Round trip: the normalized form validates to itself.
	again := Translation(baseConfig(), scenarioBase, "default", *res.Normalized)
	assert.Empty(t, again.Errors)
	require.NotNil(t, again.Normalized)
	assert.Equal(t, *res.Normalized, *again.Normalized)
}

func TestTranslationRequiresValidBase(t *testing.T) {
	res := Translation(baseConfig(), "{NOPE}", "default", "anything")
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "The base string is invalid.", res.Errors[0].Message)
	assert.Nil(t, res.Normalized)
}

func TestTranslationUnknownParameter(t *testing.T) {
	res := Translation(baseConfig(), "{NUM}", "default", "{5:NUM}")
	require.Len(t, res.Errors, 2)
	assert.Equal(t, "The base string has no parameter 5.", res.Errors[0].Message)
	assert.Equal(t, "String command '{0:NUM}' is missing.", res.Errors[1].Message)
}

func TestTranslationUnexpectedCosmeticIsWarningOnly(t *testing.T) {
	res := Translation(baseConfig(), "x{NUM}", "default", "{GOLD}x{NUM}")

	require.Len(t, res.Errors, 1)
	assert.Equal(t, diag.SevWarning, res.Errors[0].Severity)
	assert.Equal(t, "String command '{GOLD}' is unexpected.", res.Errors[0].Message)
	assert.False(t, res.HasErrors())

	// Warnings never block the normalized output.
	require.NotNil(t, res.Normalized)
	assert.Equal(t, "{GOLD}x{0:NUM}", *res.Normalized)
}

func TestTranslationExactOccurrence(t *testing.T) {
	res := Translation(baseConfig(), "{MONO_FONT}x", "default", "x")
	require.Len(t, res.Errors, 1)
	assert.Equal(t, diag.SevError, res.Errors[0].Severity)
	assert.Equal(t, "String command '{MONO_FONT}' appears 0 times, expected 1.", res.Errors[0].Message)

	res = Translation(baseConfig(), "{MONO_FONT}x", "default", "{MONO_FONT}{MONO_FONT}x")
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "String command '{MONO_FONT}' appears 2 times, expected 1.", res.Errors[0].Message)
}

func TestTranslationMissingColourIsWarning(t *testing.T) {
	res := Translation(baseConfig(), "{RED}x", "default", "x")
	require.Len(t, res.Errors, 1)
	assert.Equal(t, diag.SevWarning, res.Errors[0].Severity)
	assert.Equal(t, "String command '{RED}' is missing.", res.Errors[0].Message)
	require.NotNil(t, res.Normalized)
	assert.Equal(t, "x", *res.Normalized)
}

func TestTranslationSelectorRequired(t *testing.T) {
	res := Translation(baseConfig(), `item{P "" s}`, "default", "item")
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "String command '{P}' is missing.", res.Errors[0].Message)
}

func TestTranslationSelectorArity(t *testing.T) {
	cfg := LanguageConfig{Dialect: "openttd", PluralCount: 3}
	res := Translation(cfg, `{NUM} item{P "" s}`, "default", "{0:NUM} item{P a b}")
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "Plural selector has 2 forms, expected 3.", res.Errors[0].Message)
	assert.Equal(t, "Provide 3 forms.", res.Errors[0].Suggestion)
}

func TestTranslationGenders(t *testing.T) {
	cfg := LanguageConfig{Dialect: "openttd", Genders: []string{"m", "f"}, PluralCount: 2}

	// A translation may add gender machinery the base never had.
	res := Translation(cfg, "the {NUM}", "default", "{G=f}die {0:NUM}{G la le}")
	assert.Empty(t, res.Errors)
	require.NotNil(t, res.Normalized)
	assert.Equal(t, "{G=f}die {0:NUM}{G la le}", *res.Normalized)

	res = Translation(cfg, "the {NUM}", "default", "{G=x}die {0:NUM}")
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "Unknown gender 'x'.", res.Errors[0].Message)
}

func TestTranslationCases(t *testing.T) {
	cfg := LanguageConfig{Dialect: "openttd", Cases: []string{"gen"}, PluralCount: 2}

	res := Translation(cfg, "{STRING}", "gen", "{0:STRING.gen}")
	assert.Empty(t, res.Errors)
	require.NotNil(t, res.Normalized)
	assert.Equal(t, "{0:STRING.gen}", *res.Normalized)

	res = Translation(cfg, "{STRING}", "dat", "x")
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "Unknown case 'dat'.", res.Errors[0].Message)

	res = Translation(cfg, "{STRING}", "default", "{0:STRING.dat}")
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "Unknown case 'dat'.", res.Errors[0].Message)
	require.NotNil(t, res.Errors[0].Position)
}

func TestTranslationGameScriptHasNoCases(t *testing.T) {
	cfg := LanguageConfig{Dialect: "game-script", Cases: []string{"gen"}, PluralCount: 2}

	res := Translation(cfg, "{STRING}", "gen", "x")
	require.NotEmpty(t, res.Errors)
	assert.Equal(t, "The game-script dialect does not support cases.", res.Errors[0].Message)

	res = Translation(cfg, "{STRING}", "default", "{0:STRING.gen}")
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "Cases are not available in the game-script dialect.", res.Errors[0].Message)
	assert.Equal(t, "Remove '.gen'.", res.Errors[0].Suggestion)
}

func TestTranslationTrimsLeadingBlanks(t *testing.T) {
	res := Translation(baseConfig(), "x", "default", "  x  ")
	require.NotNil(t, res.Normalized)
	assert.Equal(t, "x", *res.Normalized)
}

func TestIsGameScript(t *testing.T) {
	assert.True(t, IsGameScript(LanguageConfig{Dialect: "game-script"}))
	assert.False(t, IsGameScript(LanguageConfig{Dialect: "openttd"}))
}
