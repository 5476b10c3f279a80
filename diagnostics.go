package stdl

import "fmt"

// Severity grades a diagnostic.
type Severity int

const (
	// SeverityError marks input the pipeline cannot fully honor
	SeverityError Severity = iota
	// SeverityWarning marks suspicious but workable input
	SeverityWarning
	// SeverityInformation marks notable structural facts
	SeverityInformation
	// SeverityHint marks low-priority observations
	SeverityHint
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInformation:
		return "info"
	case SeverityHint:
		return "hint"
	}
	return "unknown"
}

// Diagnostic is a single finding against a document. Every stage degrades to
// diagnostics instead of failing so that one error never hides the rest.
type Diagnostic struct {
	Message  string   `json:"message" yaml:"message"`
	Range    Range    `json:"range" yaml:"range"`
	Severity Severity `json:"severity" yaml:"severity"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%d:%d %s: %s", d.Range.Start.Line+1, d.Range.Start.Column+1, d.Severity, d.Message)
}

// hasErrors reports whether any diagnostic carries error severity.
func hasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// clampRange forces a range into valid bounds for the given document lines.
// Malformed ranges collapse to a point instead of corrupting the diagnostics
// channel.
func clampRange(lines []string, r Range) Range {
	if len(lines) == 0 {
		return pointRange(0, 0)
	}
	r.Start = clampPosition(lines, r.Start)
	r.End = clampPosition(lines, r.End)
	if r.End.Before(r.Start) {
		r.End = r.Start
	}
	return r
}

func clampPosition(lines []string, p Position) Position {
	if p.Line < 0 {
		p.Line = 0
	}
	if p.Line >= len(lines) {
		p.Line = len(lines) - 1
	}
	if p.Column < 0 {
		p.Column = 0
	}
	if max := len(lines[p.Line]); p.Column > max {
		p.Column = max
	}
	return p
}
