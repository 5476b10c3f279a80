package stdl

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkspace_SetDocumentReturnsDiagnostics(t *testing.T) {
	ws := NewWorkspace()

	diags := ws.SetDocument("player.stdl", mediaPlayerDoc)
	assert.Empty(t, diags)

	diags = ws.SetDocument("broken.stdl", "S\n  - e\n    -> NoSuchState\n")
	require.Len(t, errorDiagnostics(diags), 1)
	assert.Contains(t, errorDiagnostics(diags)[0].Message, "NoSuchState")
}

func TestWorkspace_DiagnosticsAreReplacedOnUpdate(t *testing.T) {
	ws := NewWorkspace()

	ws.SetDocument("doc", "S\n  - e\n    -> NoSuchState\n")
	diags, err := ws.Diagnostics("doc")
	require.NoError(t, err)
	require.NotEmpty(t, errorDiagnostics(diags))

	// Fixing the document clears the old findings entirely.
	ws.SetDocument("doc", twoStateDoc)
	diags, err = ws.Diagnostics("doc")
	require.NoError(t, err)
	assert.Empty(t, errorDiagnostics(diags))
}

func TestWorkspace_UnknownDocument(t *testing.T) {
	ws := NewWorkspace()

	_, err := ws.Diagnostics("missing")
	require.Error(t, err)
	assert.True(t, IsDocumentError(err))
	assert.Equal(t, ErrCodeDocumentNotFound, ErrorCodeOf(err))

	_, err = ws.Model("missing")
	assert.True(t, IsDocumentError(err))
}

func TestWorkspace_RemoveDocument(t *testing.T) {
	ws := NewWorkspace()
	ws.SetDocument("doc", twoStateDoc)
	ws.RemoveDocument("doc")

	_, err := ws.Diagnostics("doc")
	assert.True(t, IsDocumentError(err))
}

func TestWorkspace_Model(t *testing.T) {
	ws := NewWorkspace()
	ws.SetDocument("player.stdl", mediaPlayerDoc)

	model, err := ws.Model("player.stdl")
	require.NoError(t, err)
	assert.Equal(t, "Off", model.InitialState)
	assert.Len(t, model.States, 4)
}

func TestWorkspace_ModelIsBestEffort(t *testing.T) {
	ws := NewWorkspace()
	ws.SetDocument("broken", "S\n  - e\n    -> NoSuchState\nT\n")

	// Error diagnostics do not block model derivation; the valid remainder
	// is served.
	model, err := ws.Model("broken")
	require.NoError(t, err)
	assert.Equal(t, []string{"S", "T"}, model.Order)
	assert.Empty(t, model.States["S"].Transitions["e"])
}

func TestWorkspace_ExecuteAction(t *testing.T) {
	ws := NewWorkspace()
	ws.SetDocument("doc", twoStateDoc)

	result := ws.ExecuteAction("doc", "Idle", "go")
	AssertStepKind(t, result, StepNewState)
	assert.Equal(t, "Busy", result.NewState)
}

func TestWorkspace_ExecuteActionGuardIsOptional(t *testing.T) {
	ws := NewWorkspace()
	ws.SetDocument("doc", twoStateDoc)

	// Omitting the guard and passing the empty string behave identically.
	omitted := ws.ExecuteAction("doc", "Idle", "go")
	explicit := ws.ExecuteAction("doc", "Idle", "go", "")

	assert.Equal(t, omitted, explicit)
}

func TestWorkspace_ExecuteActionWithGuard(t *testing.T) {
	ws := NewWorkspace()
	ws.SetDocument("doc", ambiguousDoc)

	result := ws.ExecuteAction("doc", "S", "e", "x")
	AssertStepKind(t, result, StepChoices)
	assert.Len(t, result.Choices, 2)
}

func TestWorkspace_ExecuteActionUnknownDocument(t *testing.T) {
	ws := NewWorkspace()

	result := ws.ExecuteAction("missing", "Idle", "go")
	AssertStepKind(t, result, StepError)
	assert.True(t, IsDocumentError(result.Err))
}

func TestWorkspace_ActionInfo(t *testing.T) {
	ws := NewWorkspace()
	ws.SetDocument("player.stdl", mediaPlayerDoc)

	actions, ok := ws.ActionInfo("player.stdl", "On.Idle", "play")
	require.True(t, ok)
	assert.Equal(t, []string{"spinUp"}, actions)

	_, ok = ws.ActionInfo("player.stdl", "On.Idle", "nope")
	assert.False(t, ok)

	_, ok = ws.ActionInfo("missing", "On.Idle", "play")
	assert.False(t, ok)
}

func TestWorkspace_NewSessionFor(t *testing.T) {
	ws := NewWorkspace()
	ws.SetDocument("player.stdl", mediaPlayerDoc)

	session, err := ws.NewSessionFor("player.stdl")
	require.NoError(t, err)
	AssertCurrentState(t, session, "Off")

	_, err = ws.NewSessionFor("missing")
	assert.True(t, IsDocumentError(err))
}

func TestWorkspace_DocumentsAreIndependent(t *testing.T) {
	ws := NewWorkspace()
	ws.SetDocument("a", twoStateDoc)
	ws.SetDocument("b", ambiguousDoc)

	a, err := ws.Model("a")
	require.NoError(t, err)
	b, err := ws.Model("b")
	require.NoError(t, err)

	assert.Equal(t, "Idle", a.InitialState)
	assert.Equal(t, "S", b.InitialState)
}

func TestWorkspace_ConcurrentAccess(t *testing.T) {
	ws := NewWorkspace()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("doc-%d", n)
			ws.SetDocument(id, twoStateDoc)
			if _, err := ws.Model(id); err != nil {
				t.Errorf("Model(%s): %v", id, err)
			}
			result := ws.ExecuteAction(id, "Idle", "go")
			if result.Kind != StepNewState {
				t.Errorf("ExecuteAction(%s): got %s", id, result.Kind)
			}
		}(i)
	}
	wg.Wait()
}
