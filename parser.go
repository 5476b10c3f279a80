package stdl

import "fmt"

// ParseResult is the outcome of one full parse of a document. The tree is
// rebuilt from scratch on every parse; nothing is mutated incrementally.
type ParseResult struct {
	States      []*StateNode
	Diagnostics []Diagnostic

	// Tokens is the full token stream including line terminators, kept for
	// position-based lookups by editor-style consumers.
	Tokens []Token

	lines []string
}

// Parse tokenizes and parses a document. The parser never fails: malformed
// constructs degrade to diagnostics and parsing resynchronizes by skipping
// the offending token and continuing.
func Parse(text string) *ParseResult {
	tokens := Tokenize(text)
	lines := splitLines(text)

	filtered := make([]Token, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Kind != TokenNewLine {
			filtered = append(filtered, tok)
		}
	}

	p := &parser{tokens: filtered, lines: lines}
	states := p.parseDocument()

	return &ParseResult{
		States:      states,
		Diagnostics: p.diags,
		Tokens:      tokens,
		lines:       lines,
	}
}

type parser struct {
	tokens []Token
	pos    int
	lines  []string
	diags  []Diagnostic
}

func (p *parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return Token{Kind: TokenEndOfInput}
	}
	return p.tokens[p.pos]
}

func (p *parser) next() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *parser) report(severity Severity, r Range, format string, args ...any) {
	p.diags = append(p.diags, Diagnostic{
		Message:  fmt.Sprintf(format, args...),
		Range:    clampRange(p.lines, r),
		Severity: severity,
	})
}

func (p *parser) parseDocument() []*StateNode {
	var states []*StateNode
	for {
		tok := p.peek()
		switch tok.Kind {
		case TokenEndOfInput:
			return states
		case TokenStateDeclaration:
			p.next()
			states = append(states, p.parseState(tok, nil))
		case TokenUnrecognized:
			p.next()
			p.report(SeverityError, tok.Range, "unrecognized line: %q", tok.Text)
		default:
			// Resynchronize: skip one token and keep collecting.
			p.next()
			p.report(SeverityError, tok.Range, "unexpected %s at top level", tok.Kind)
		}
	}
}

// parseState is entered just after its StateDeclaration token was consumed.
// A state with no following block is a legal empty leaf.
func (p *parser) parseState(decl Token, parent *StateNode) *StateNode {
	node := &StateNode{
		Name:      decl.Text,
		Parent:    parent,
		Range:     decl.Range,
		FullRange: decl.Range,
	}

	if p.peek().Kind != TokenBlockStart {
		return node
	}
	p.next()

	for {
		tok := p.peek()
		switch tok.Kind {
		case TokenBlockEnd:
			p.next()
			node.FullRange.End = tok.Range.End
			return node
		case TokenEndOfInput:
			p.report(SeverityError, decl.Range, "state %q: block is not closed before end of input", node.Name)
			node.FullRange.End = tok.Range.End
			return node
		case TokenOnEntry:
			p.next()
			node.OnEntry = append(node.OnEntry, p.parseActionBlock(tok, "OnEntry")...)
		case TokenOnExit:
			p.next()
			node.OnExit = append(node.OnExit, p.parseActionBlock(tok, "OnExit")...)
		case TokenInitial:
			p.next()
			p.parseInitial(tok, node)
		case TokenEvent:
			node.Handlers = append(node.Handlers, p.parseEventHandler())
		case TokenStateDeclaration:
			p.next()
			child := p.parseState(tok, node)
			node.SubStates = append(node.SubStates, child)
			node.FullRange.End = child.FullRange.End
		case TokenUnrecognized:
			p.next()
			p.report(SeverityError, tok.Range, "unrecognized line: %q", tok.Text)
		case TokenAction:
			p.next()
			p.report(SeverityError, tok.Range, "action %q outside of an OnEntry, OnExit, or event block", tok.Text)
		case TokenTransition:
			p.next()
			p.report(SeverityError, tok.Range, "transition to %q outside of an Initial or event block", tok.Text)
		default:
			p.next()
			p.report(SeverityError, tok.Range, "unexpected %s in state %q", tok.Kind, node.Name)
		}
		if end := p.lastConsumedEnd(); node.FullRange.End.Before(end) {
			node.FullRange.End = end
		}
	}
}

func (p *parser) lastConsumedEnd() Position {
	if p.pos == 0 {
		return Position{}
	}
	return p.tokens[p.pos-1].Range.End
}

// parseActionBlock consumes the indented block after an OnEntry or OnExit
// keyword. Only Action tokens are legal inside; anything else is reported
// and skipped.
func (p *parser) parseActionBlock(kw Token, label string) []ActionRef {
	var actions []ActionRef
	if p.peek().Kind != TokenBlockStart {
		p.report(SeverityError, kw.Range, "%s expects an indented block of actions", label)
		return nil
	}
	p.next()
	for {
		tok := p.peek()
		switch tok.Kind {
		case TokenAction:
			p.next()
			actions = append(actions, ActionRef{Name: tok.Text, Range: tok.Range})
		case TokenBlockEnd:
			p.next()
			return actions
		case TokenEndOfInput:
			p.report(SeverityError, kw.Range, "%s block is not closed before end of input", label)
			return actions
		default:
			p.next()
			p.report(SeverityError, tok.Range, "only actions are allowed inside an %s block, found %s", label, tok.Kind)
		}
	}
}

// parseInitial consumes the block after an Initial keyword, which must hold
// exactly one transition naming the initial substate.
func (p *parser) parseInitial(kw Token, node *StateNode) {
	if node.HasInitial {
		p.report(SeverityError, kw.Range, "state %q declares more than one Initial pseudostate", node.Name)
	}
	if p.peek().Kind != TokenBlockStart {
		p.report(SeverityError, kw.Range, "Initial expects an indented block with one transition")
		return
	}
	p.next()

	seen := 0
	for {
		tok := p.peek()
		switch tok.Kind {
		case TokenTransition:
			p.next()
			seen++
			if seen == 1 && !node.HasInitial {
				node.HasInitial = true
				node.InitialTarget = tok.Text
				node.InitialRange = tok.Range
			} else if seen > 1 {
				p.report(SeverityError, tok.Range, "Initial allows exactly one transition, found another to %q", tok.Text)
			}
		case TokenBlockEnd:
			p.next()
			if seen == 0 {
				p.report(SeverityError, kw.Range, "Initial block must contain a transition")
			}
			return
		case TokenEndOfInput:
			p.report(SeverityError, kw.Range, "Initial block is not closed before end of input")
			return
		default:
			p.next()
			p.report(SeverityError, tok.Range, "only a transition is allowed inside an Initial block, found %s", tok.Kind)
		}
	}
}

// parseEventHandler consumes an Event token, an optional guard, and an
// optional block of actions with at most one transition.
func (p *parser) parseEventHandler() *EventHandler {
	evt := p.next()
	handler := &EventHandler{Event: evt.Text, Range: evt.Range}

	if p.peek().Kind == TokenGuardStart {
		open := p.next()
		handler.HasGuard = true
		handler.Range.End = open.Range.End
		if p.peek().Kind == TokenGuardContent {
			content := p.next()
			handler.Guard = content.Text
			handler.Range.End = content.Range.End
		}
		if p.peek().Kind == TokenGuardEnd {
			closing := p.next()
			handler.Range.End = closing.Range.End
		} else {
			p.report(SeverityError, Range{Start: open.Range.Start, End: handler.Range.End},
				"guard for event %q is not terminated", handler.Event)
		}
	}

	if p.peek().Kind != TokenBlockStart {
		return handler
	}
	p.next()

	for {
		tok := p.peek()
		switch tok.Kind {
		case TokenAction:
			p.next()
			handler.Actions = append(handler.Actions, ActionRef{Name: tok.Text, Range: tok.Range})
		case TokenTransition:
			p.next()
			if handler.Transition != nil {
				p.report(SeverityError, tok.Range, "event %q declares multiple transitions", handler.Event)
				continue
			}
			handler.Transition = &TransitionRef{Target: tok.Text, Range: tok.Range}
		case TokenBlockEnd:
			p.next()
			return handler
		case TokenEndOfInput:
			p.report(SeverityError, evt.Range, "event %q block is not closed before end of input", handler.Event)
			return handler
		default:
			p.next()
			p.report(SeverityError, tok.Range, "unexpected %s inside event %q block", tok.Kind, handler.Event)
		}
	}
}
