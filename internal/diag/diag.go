package diag

import "fmt"

// Severity classifies how bad a validation issue is. Errors block a commit,
// warnings do not.
type Severity uint8

const (
	SevWarning Severity = iota + 1
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevWarning:
		return "warning"
	case SevError:
		return "error"
	}
	return "unknown"
}

func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Span is a half-open byte range [Start, End) into the string being checked.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

func (sp Span) String() string {
	return fmt.Sprintf("%d..%d", sp.Start, sp.End)
}

// Issue is a single validation finding. Position is nil for whole-string
// issues such as a missing command.
type Issue struct {
	Severity   Severity `json:"severity"`
	Position   *Span    `json:"position,omitempty"`
	Message    string   `json:"message"`
	Suggestion string   `json:"suggestion,omitempty"`
}

// Collector accumulates issues in detection order. Within one pass,
// positionless issues sort after all positioned issues of that pass; call
// EndPass at a pass boundary to flush them.
type Collector struct {
	issues   []Issue
	deferred []Issue
}

func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) Add(iss Issue) {
	if iss.Position == nil {
		c.deferred = append(c.deferred, iss)
		return
	}
	c.issues = append(c.issues, iss)
}

// Error records an Error-severity issue at the given span.
func (c *Collector) Error(sp *Span, message, suggestion string) {
	c.Add(Issue{Severity: SevError, Position: sp, Message: message, Suggestion: suggestion})
}

// Warning records a Warning-severity issue at the given span.
func (c *Collector) Warning(sp *Span, message, suggestion string) {
	c.Add(Issue{Severity: SevWarning, Position: sp, Message: message, Suggestion: suggestion})
}

// EndPass moves pending positionless issues behind the positioned issues
// collected so far.
func (c *Collector) EndPass() {
	c.issues = append(c.issues, c.deferred...)
	c.deferred = nil
}

// HasErrors reports whether any Error-severity issue was collected.
func (c *Collector) HasErrors() bool {
	for i := range c.issues {
		if c.issues[i].Severity >= SevError {
			return true
		}
	}
	for i := range c.deferred {
		if c.deferred[i].Severity >= SevError {
			return true
		}
	}
	return false
}

func (c *Collector) Len() int {
	return len(c.issues) + len(c.deferred)
}

// Issues flushes any pending pass and returns the collected issues.
// The returned slice points at the collector's internal storage.
func (c *Collector) Issues() []Issue {
	c.EndPass()
	return c.issues
}
