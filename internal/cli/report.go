package cli

import (
	"fmt"
	"io"

	"lngcheck/internal/diag"
	"lngcheck/internal/textutil"
	"lngcheck/internal/validate"

	"github.com/fatih/color"
)

var (
	errColor  = color.New(color.FgRed, color.Bold)
	warnColor = color.New(color.FgYellow, color.Bold)
	okColor   = color.New(color.FgGreen)
)

// printResult writes a human-readable report for one validated string.
func printResult(w io.Writer, input string, result validate.Result) {
	for _, iss := range result.Errors {
		printIssue(w, input, iss)
	}
	if result.Normalized != nil {
		okColor.Fprint(w, "ok")
		fmt.Fprintf(w, "  %s\n", *result.Normalized)
	}
}

func printIssue(w io.Writer, input string, iss diag.Issue) {
	switch iss.Severity {
	case diag.SevError:
		errColor.Fprint(w, "error")
	case diag.SevWarning:
		warnColor.Fprint(w, "warning")
	}
	if iss.Position != nil {
		sp := *iss.Position
		fmt.Fprintf(w, " at %d..%d ('%s')", sp.Start, sp.End, snippet(input, sp))
	}
	fmt.Fprintf(w, ": %s", iss.Message)
	if iss.Suggestion != "" {
		fmt.Fprintf(w, " %s", iss.Suggestion)
	}
	fmt.Fprintln(w)
}

// snippet quotes the offending bytes, shortened for log-friendly output.
func snippet(input string, sp diag.Span) string {
	if sp.Start < 0 || sp.End > len(input) || sp.Start >= sp.End {
		return ""
	}
	return textutil.Truncate(input[sp.Start:sp.End], 40)
}
