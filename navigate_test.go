package stdl

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// positionOf returns a position inside the nth occurrence of needle.
func positionOf(t *testing.T, doc, needle string, occurrence int) Position {
	t.Helper()
	lines := strings.Split(doc, "\n")
	seen := 0
	for lineNo, line := range lines {
		col := 0
		for {
			idx := strings.Index(line[col:], needle)
			if idx < 0 {
				break
			}
			col += idx
			if seen == occurrence {
				return Position{Line: lineNo, Column: col + 1}
			}
			seen++
			col += len(needle)
		}
	}
	t.Fatalf("needle %q occurrence %d not found", needle, occurrence)
	return Position{}
}

func TestTokenAt_ContentTokens(t *testing.T) {
	result := Parse(twoStateDoc)

	tok, ok := result.TokenAt(positionOf(t, twoStateDoc, "go", 0))
	require.True(t, ok)
	assert.Equal(t, TokenEvent, tok.Kind)
	assert.Equal(t, "go", tok.Text)

	tok, ok = result.TokenAt(positionOf(t, twoStateDoc, "Busy", 0))
	require.True(t, ok)
	assert.Equal(t, TokenTransition, tok.Kind)
}

func TestTokenAt_MissesStructuralPositions(t *testing.T) {
	result := Parse(twoStateDoc)

	_, ok := result.TokenAt(Position{Line: 0, Column: 40})
	assert.False(t, ok)
}

func TestDefinition_TransitionTarget(t *testing.T) {
	result := Parse(twoStateDoc)

	// From the "-> Busy" target to the Busy declaration on the last line.
	defRange, ok := result.Definition(positionOf(t, twoStateDoc, "Busy", 0))
	require.True(t, ok)
	assert.Equal(t, 3, defRange.Start.Line)
	assert.Equal(t, 0, defRange.Start.Column)
}

func TestDefinition_InitialTarget(t *testing.T) {
	result := Parse(mediaPlayerDoc)

	// The Initial block's "-> Idle" resolves to the On.Idle declaration,
	// not to any other state that happens to share the short name.
	pos := positionOf(t, mediaPlayerDoc, "-> Idle", 0)
	pos.Column += 4
	defRange, ok := result.Definition(pos)
	require.True(t, ok)

	on := result.States[1]
	idle := on.FindSubState("Idle")
	require.NotNil(t, idle)
	assert.Equal(t, idle.Range, defRange)
}

func TestDefinition_SiblingTarget(t *testing.T) {
	result := Parse(mediaPlayerDoc)

	// "-> Playing" inside On.Idle resolves to the sibling On.Playing.
	pos := positionOf(t, mediaPlayerDoc, "-> Playing", 0)
	pos.Column += 4
	defRange, ok := result.Definition(pos)
	require.True(t, ok)

	playing := result.States[1].FindSubState("Playing")
	require.NotNil(t, playing)
	assert.Equal(t, playing.Range, defRange)
}

func TestDefinition_OnStateDeclaration(t *testing.T) {
	result := Parse(twoStateDoc)

	defRange, ok := result.Definition(Position{Line: 0, Column: 1})
	require.True(t, ok)
	assert.Equal(t, 0, defRange.Start.Line)
}

func TestDefinition_NothingAtPosition(t *testing.T) {
	result := Parse(twoStateDoc)

	_, ok := result.Definition(Position{Line: 1, Column: 0})
	assert.False(t, ok)
}

func TestReferences_DeclarationAndTargets(t *testing.T) {
	result := Parse(mediaPlayerDoc)

	// On.Idle is referenced by its declaration, the Initial block, and the
	// "-> Idle" transition out of Playing.
	on := result.States[1]
	idle := on.FindSubState("Idle")
	require.NotNil(t, idle)

	refs := result.References(Position{Line: idle.Range.Start.Line, Column: idle.Range.Start.Column + 1})
	require.Len(t, refs, 3)
	assert.Equal(t, idle.Range, refs[0], "the declaration comes first")
}

func TestReferences_FromTransitionTarget(t *testing.T) {
	result := Parse(twoStateDoc)

	// Asking at the target position yields the same set as asking at the
	// declaration.
	atTarget := result.References(positionOf(t, twoStateDoc, "Busy", 0))
	atDecl := result.References(Position{Line: 3, Column: 1})

	assert.Equal(t, atDecl, atTarget)
	require.Len(t, atTarget, 2)
}

func TestReferences_NothingAtPosition(t *testing.T) {
	result := Parse(twoStateDoc)

	assert.Empty(t, result.References(Position{Line: 1, Column: 0}))
}
