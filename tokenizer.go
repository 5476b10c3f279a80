package stdl

import (
	"strings"
	"unicode"
)

// Tokenize converts document text into a flat token sequence. Indentation is
// resolved into explicit BlockStart/BlockEnd tokens using a stack of open
// indentation widths. Tokenization never fails: lines that cannot be
// classified become Unrecognized tokens and surface later as diagnostics.
func Tokenize(text string) []Token {
	t := &tokenizer{stack: []int{0}}
	for i, line := range splitLines(text) {
		t.scanLine(i, line)
	}
	t.finish()
	return t.tokens
}

type tokenizer struct {
	tokens []Token
	stack  []int
}

func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

func (t *tokenizer) emit(tok Token) {
	tok.Indent = len(t.stack) - 1
	t.tokens = append(t.tokens, tok)
}

// emitNewLine appends a line terminator, suppressing consecutive duplicates.
func (t *tokenizer) emitNewLine(line int) {
	if n := len(t.tokens); n > 0 && t.tokens[n-1].Kind == TokenNewLine {
		return
	}
	t.emit(Token{Kind: TokenNewLine, Range: pointRange(line, 0)})
}

func (t *tokenizer) scanLine(lineNo int, raw string) {
	content := raw
	if idx := strings.Index(content, "//"); idx >= 0 {
		content = content[:idx]
	}
	if strings.TrimSpace(content) == "" {
		t.emitNewLine(lineNo)
		return
	}

	indent := leadingWhitespace(content)
	if !t.reconcileIndent(lineNo, indent) {
		// Indentation landed between two open levels. Report the whole
		// line and leave the stack at the reconciled depth.
		t.emit(Token{
			Kind:  TokenUnrecognized,
			Text:  strings.TrimSpace(content),
			Range: spanRange(lineNo, indent, len(content)),
		})
		t.emitNewLine(lineNo)
		return
	}

	t.classify(lineNo, content, indent)
	t.emitNewLine(lineNo)
}

func leadingWhitespace(line string) int {
	count := 0
	for _, r := range line {
		if r != ' ' && r != '\t' {
			break
		}
		count++
	}
	return count
}

// reconcileIndent adjusts the indentation stack for a content line at the
// given width, emitting BlockStart/BlockEnd tokens. It returns false when the
// width matches no open level.
func (t *tokenizer) reconcileIndent(lineNo, indent int) bool {
	top := t.stack[len(t.stack)-1]
	switch {
	case indent > top:
		t.emit(Token{Kind: TokenBlockStart, Range: pointRange(lineNo, indent)})
		t.stack = append(t.stack, indent)
		return true
	case indent == top:
		return true
	}
	for len(t.stack) > 1 && t.stack[len(t.stack)-1] > indent {
		t.stack = t.stack[:len(t.stack)-1]
		t.emit(Token{Kind: TokenBlockEnd, Range: pointRange(lineNo, indent)})
	}
	return t.stack[len(t.stack)-1] == indent
}

// classify identifies the content of a single reconciled line and emits its
// tokens. Priority order: OnEntry, OnExit, Initial, transition, event,
// action, state declaration.
func (t *tokenizer) classify(lineNo int, content string, indent int) {
	body := strings.TrimSpace(content)
	end := len(strings.TrimRight(content, " \t"))

	switch {
	case body == "OnEntry":
		t.emit(Token{Kind: TokenOnEntry, Text: body, Range: spanRange(lineNo, indent, end)})
	case body == "OnExit":
		t.emit(Token{Kind: TokenOnExit, Text: body, Range: spanRange(lineNo, indent, end)})
	case body == "Initial":
		t.emit(Token{Kind: TokenInitial, Text: body, Range: spanRange(lineNo, indent, end)})
	case strings.HasPrefix(body, "->"):
		target := strings.TrimSpace(body[2:])
		if target == "" {
			t.emit(Token{Kind: TokenUnrecognized, Text: body, Range: spanRange(lineNo, indent, end)})
			return
		}
		after := strings.Index(content, "->") + 2
		startCol := after + leadingWhitespace(content[after:])
		t.emit(Token{Kind: TokenTransition, Text: target, Range: spanRange(lineNo, startCol, startCol+len(target))})
	case strings.HasPrefix(body, "-"):
		t.scanEvent(lineNo, content, indent, end)
	case strings.HasPrefix(body, "/"):
		action := strings.TrimSpace(body[1:])
		if action == "" {
			t.emit(Token{Kind: TokenUnrecognized, Text: body, Range: spanRange(lineNo, indent, end)})
			return
		}
		t.emit(Token{Kind: TokenAction, Text: action, Range: spanRange(lineNo, indent, end)})
	case isWordStart(body):
		t.emit(Token{Kind: TokenStateDeclaration, Text: body, Range: spanRange(lineNo, indent, end)})
	default:
		t.emit(Token{Kind: TokenUnrecognized, Text: body, Range: spanRange(lineNo, indent, end)})
	}
}

func isWordStart(s string) bool {
	for _, r := range s {
		return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
	}
	return false
}

// scanEvent handles "- name [guard]" lines. Guards balance nested brackets;
// an unterminated guard emits GuardStart/GuardContent without a GuardEnd so
// the parser can report it.
func (t *tokenizer) scanEvent(lineNo int, content string, indent, end int) {
	body := strings.TrimSpace(content)
	rest := body[1:] // after "-"

	bracket := strings.Index(rest, "[")
	var name string
	if bracket >= 0 {
		name = strings.TrimSpace(rest[:bracket])
	} else {
		name = strings.TrimSpace(rest)
	}
	if name == "" {
		t.emit(Token{Kind: TokenUnrecognized, Text: body, Range: spanRange(lineNo, indent, end)})
		return
	}

	afterDash := strings.Index(content, "-") + 1
	nameCol := afterDash + leadingWhitespace(content[afterDash:])
	t.emit(Token{Kind: TokenEvent, Text: name, Range: spanRange(lineNo, nameCol, nameCol+len(name))})

	if bracket < 0 {
		return
	}

	openCol := strings.Index(content, "[")
	t.emit(Token{Kind: TokenGuardStart, Text: "[", Range: spanRange(lineNo, openCol, openCol+1)})

	inner, closeRel, terminated := scanBalancedGuard(content[openCol+1:])
	guard := strings.TrimSpace(inner)
	if guard != "" {
		t.emit(Token{Kind: TokenGuardContent, Text: guard, Range: spanRange(lineNo, openCol+1, openCol+1+len(inner))})
	}
	if terminated {
		closeCol := openCol + 1 + closeRel
		t.emit(Token{Kind: TokenGuardEnd, Text: "]", Range: spanRange(lineNo, closeCol, closeCol+1)})
	}
}

// scanBalancedGuard scans text following an opening bracket and returns the
// inner guard text, the offset of the matching close bracket, and whether a
// matching close bracket was found at all.
func scanBalancedGuard(s string) (inner string, closeIdx int, terminated bool) {
	depth := 1
	for i, r := range s {
		switch r {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return s[:i], i, true
			}
		}
	}
	return s, len(s), false
}

// finish flushes pending BlockEnd tokens and terminates the stream.
func (t *tokenizer) finish() {
	line := 0
	if n := len(t.tokens); n > 0 {
		line = t.tokens[n-1].Range.End.Line + 1
	}
	for len(t.stack) > 1 {
		t.stack = t.stack[:len(t.stack)-1]
		t.emit(Token{Kind: TokenBlockEnd, Range: pointRange(line, 0)})
	}
	t.emit(Token{Kind: TokenEndOfInput, Range: pointRange(line, 0)})
}
