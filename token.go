package stdl

// Position is a zero-based line/column location within a document.
type Position struct {
	Line   int `json:"line" yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

// Before reports whether p comes strictly before other in document order.
func (p Position) Before(other Position) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Column < other.Column
}

// Range spans the half-open interval [Start, End) within a document.
type Range struct {
	Start Position `json:"start" yaml:"start"`
	End   Position `json:"end" yaml:"end"`
}

// Contains reports whether the position lies within the half-open range.
func (r Range) Contains(pos Position) bool {
	return !pos.Before(r.Start) && pos.Before(r.End)
}

// pointRange returns a degenerate range collapsed onto a single position.
func pointRange(line, column int) Range {
	p := Position{Line: line, Column: column}
	return Range{Start: p, End: p}
}

func spanRange(line, startCol, endCol int) Range {
	return Range{
		Start: Position{Line: line, Column: startCol},
		End:   Position{Line: line, Column: endCol},
	}
}

// TokenKind classifies a lexical token.
type TokenKind int

const (
	// TokenUnrecognized marks line content the tokenizer could not classify
	TokenUnrecognized TokenKind = iota
	// TokenStateDeclaration is a line introducing a state by name
	TokenStateDeclaration
	// TokenEvent is an event handler line ("- name")
	TokenEvent
	// TokenAction is an action line ("/ text")
	TokenAction
	// TokenTransition is a transition line ("-> target")
	TokenTransition
	// TokenGuardStart is the opening bracket of a guard
	TokenGuardStart
	// TokenGuardContent is the text between guard brackets
	TokenGuardContent
	// TokenGuardEnd is the closing bracket of a guard
	TokenGuardEnd
	// TokenOnEntry is the OnEntry keyword
	TokenOnEntry
	// TokenOnExit is the OnExit keyword
	TokenOnExit
	// TokenInitial is the Initial keyword
	TokenInitial
	// TokenBlockStart marks an increase in indentation
	TokenBlockStart
	// TokenBlockEnd marks a decrease in indentation
	TokenBlockEnd
	// TokenNewLine is a line terminator
	TokenNewLine
	// TokenEndOfInput terminates every token stream
	TokenEndOfInput
)

var tokenKindNames = map[TokenKind]string{
	TokenUnrecognized:     "Unrecognized",
	TokenStateDeclaration: "StateDeclaration",
	TokenEvent:            "Event",
	TokenAction:           "Action",
	TokenTransition:       "Transition",
	TokenGuardStart:       "GuardStart",
	TokenGuardContent:     "GuardContent",
	TokenGuardEnd:         "GuardEnd",
	TokenOnEntry:          "OnEntry",
	TokenOnExit:           "OnExit",
	TokenInitial:          "Initial",
	TokenBlockStart:       "BlockStart",
	TokenBlockEnd:         "BlockEnd",
	TokenNewLine:          "NewLine",
	TokenEndOfInput:       "EndOfInput",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Token is a single lexical unit produced by the tokenizer. Tokens are
// produced in source order and consumed exactly once by the parser.
type Token struct {
	Kind   TokenKind
	Text   string
	Range  Range
	Indent int
}
