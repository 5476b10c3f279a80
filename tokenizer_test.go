package stdl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(tokens []Token) []TokenKind {
	out := make([]TokenKind, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Kind
	}
	return out
}

func contentTokens(tokens []Token) []Token {
	var out []Token
	for _, tok := range tokens {
		switch tok.Kind {
		case TokenBlockStart, TokenBlockEnd, TokenNewLine, TokenEndOfInput:
			continue
		}
		out = append(out, tok)
	}
	return out
}

func TestTokenize_BlockBalance(t *testing.T) {
	tokens := Tokenize(mediaPlayerDoc)

	starts, ends := 0, 0
	for _, tok := range tokens {
		switch tok.Kind {
		case TokenBlockStart:
			starts++
		case TokenBlockEnd:
			ends++
		}
	}

	assert.Equal(t, starts, ends, "every BlockStart must be balanced by a BlockEnd")
	require.NotEmpty(t, tokens)
	assert.Equal(t, TokenEndOfInput, tokens[len(tokens)-1].Kind)
}

func TestTokenize_Classification(t *testing.T) {
	tests := []struct {
		line string
		kind TokenKind
		text string
	}{
		{"Idle", TokenStateDeclaration, "Idle"},
		{"media_player2", TokenStateDeclaration, "media_player2"},
		{"OnEntry", TokenOnEntry, "OnEntry"},
		{"OnExit", TokenOnExit, "OnExit"},
		{"Initial", TokenInitial, "Initial"},
		{"-> Busy", TokenTransition, "Busy"},
		{"- go", TokenEvent, "go"},
		{"/ startMotor", TokenAction, "startMotor"},
		{"->", TokenUnrecognized, "->"},
		{"-", TokenUnrecognized, "-"},
		{"/", TokenUnrecognized, "/"},
		{"@!?", TokenUnrecognized, "@!?"},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			tokens := Tokenize(tt.line + "\n")
			require.NotEmpty(t, tokens)
			assert.Equal(t, tt.kind, tokens[0].Kind)
			assert.Equal(t, tt.text, tokens[0].Text)
		})
	}
}

func TestTokenize_TransitionTargetRange(t *testing.T) {
	tokens := Tokenize("    -> Busy\n")

	require.Equal(t, TokenBlockStart, tokens[0].Kind)
	tok := tokens[1]
	assert.Equal(t, TokenTransition, tok.Kind)
	assert.Equal(t, "Busy", tok.Text)
	assert.Equal(t, Position{Line: 0, Column: 7}, tok.Range.Start)
	assert.Equal(t, Position{Line: 0, Column: 11}, tok.Range.End)
}

func TestTokenize_GuardTokens(t *testing.T) {
	tokens := contentTokens(Tokenize("- play [disc > 0]\n"))

	require.Len(t, tokens, 4)
	assert.Equal(t, []TokenKind{TokenEvent, TokenGuardStart, TokenGuardContent, TokenGuardEnd}, kinds(tokens))
	assert.Equal(t, "play", tokens[0].Text)
	assert.Equal(t, "disc > 0", tokens[2].Text)
}

func TestTokenize_NestedGuardBrackets(t *testing.T) {
	tokens := contentTokens(Tokenize("- e [items[0] == done]\n"))

	require.Len(t, tokens, 4)
	assert.Equal(t, TokenGuardContent, tokens[2].Kind)
	assert.Equal(t, "items[0] == done", tokens[2].Text)
	assert.Equal(t, TokenGuardEnd, tokens[3].Kind)
}

func TestTokenize_UnterminatedGuard(t *testing.T) {
	tokens := contentTokens(Tokenize("- e [pending\n"))

	require.Len(t, tokens, 3)
	assert.Equal(t, []TokenKind{TokenEvent, TokenGuardStart, TokenGuardContent}, kinds(tokens))
	assert.Equal(t, "pending", tokens[2].Text)
}

func TestTokenize_IndentationBetweenLevels(t *testing.T) {
	tokens := Tokenize("A\n    B\n  C\nD\n")

	var unrecognized []Token
	for _, tok := range tokens {
		if tok.Kind == TokenUnrecognized {
			unrecognized = append(unrecognized, tok)
		}
	}

	require.Len(t, unrecognized, 1, "a line between two open indentation levels is unrecognized")
	assert.Equal(t, "C", unrecognized[0].Text)
	assert.Equal(t, 2, unrecognized[0].Range.Start.Line)

	// The stack stays usable: the following top-level state is still seen.
	var decls []string
	for _, tok := range tokens {
		if tok.Kind == TokenStateDeclaration {
			decls = append(decls, tok.Text)
		}
	}
	assert.Equal(t, []string{"A", "B", "D"}, decls)
}

func TestTokenize_CommentsAndBlankLines(t *testing.T) {
	doc := "// header comment\nIdle // the resting state\n\n\n  - go // fires rarely\n    -> Busy\nBusy\n"
	tokens := contentTokens(Tokenize(doc))

	require.Len(t, tokens, 4)
	assert.Equal(t, []TokenKind{TokenStateDeclaration, TokenEvent, TokenTransition, TokenStateDeclaration}, kinds(tokens))
	assert.Equal(t, "go", tokens[1].Text)
}

func TestTokenize_ConsecutiveNewLinesCollapse(t *testing.T) {
	tokens := Tokenize("A\n\n\n\nB\n")

	for i := 1; i < len(tokens); i++ {
		if tokens[i].Kind == TokenNewLine && tokens[i-1].Kind == TokenNewLine {
			t.Fatalf("consecutive NewLine tokens at index %d", i)
		}
	}
}

func TestTokenize_CarriageReturns(t *testing.T) {
	tokens := contentTokens(Tokenize("Idle\r\n  - go\r\n    -> Busy\r\nBusy\r\n"))

	require.Len(t, tokens, 4)
	assert.Equal(t, "Idle", tokens[0].Text)
	assert.Equal(t, "Busy", tokens[2].Text)
}

func TestTokenize_EmptyInput(t *testing.T) {
	tokens := Tokenize("")

	require.NotEmpty(t, tokens)
	assert.Equal(t, TokenEndOfInput, tokens[len(tokens)-1].Kind)
	for _, tok := range tokens {
		assert.NotEqual(t, TokenBlockEnd, tok.Kind)
	}
}
