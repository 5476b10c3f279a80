package stdl

import (
	"fmt"
	"sync"
	"testing"
)

// Fixture documents shared across the test suite.
const (
	// twoStateDoc is the smallest useful machine: one event, one transition.
	twoStateDoc = `Idle
  - go
    -> Busy
Busy
`

	// ambiguousDoc declares two guard-identical handlers for the same event.
	ambiguousDoc = `S
  - e [x]
    -> T
  - e [x]
    -> U
T
U
`

	// mediaPlayerDoc exercises composite states, Initial pseudostates,
	// entry/exit actions, and sibling resolution in one document.
	mediaPlayerDoc = `Off
  - power
    -> On
On
  OnEntry
    / enableDisplay
  OnExit
    / disableDisplay
  Initial
    -> Idle
  Idle
    OnEntry
      / showMenu
    - play
      / spinUp
      -> Playing
  Playing
    OnExit
      / spinDown
    - stop
      -> Idle
  - power
    -> Off
`
)

// RecordingObserver captures every observer notification for assertions.
type RecordingObserver struct {
	mutex       sync.RWMutex
	Transitions []TransitionRecord
	Enters      []string
	Exits       []string
	Actions     []ActionRecord
	Rejections  []RejectionRecord
	Errors      []error
}

type TransitionRecord struct {
	From  string
	To    string
	Event string
}

type ActionRecord struct {
	State  string
	Action string
}

type RejectionRecord struct {
	State  string
	Event  string
	Reason string
}

// NewRecordingObserver creates an empty recording observer.
func NewRecordingObserver() *RecordingObserver {
	return &RecordingObserver{}
}

func (o *RecordingObserver) OnTransition(from string, to string, event string) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Transitions = append(o.Transitions, TransitionRecord{From: from, To: to, Event: event})
}

func (o *RecordingObserver) OnStateEnter(state string) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Enters = append(o.Enters, state)
}

func (o *RecordingObserver) OnStateExit(state string) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Exits = append(o.Exits, state)
}

func (o *RecordingObserver) OnActionEmitted(state string, action string) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Actions = append(o.Actions, ActionRecord{State: state, Action: action})
}

func (o *RecordingObserver) OnStepRejected(state string, event string, reason string) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Rejections = append(o.Rejections, RejectionRecord{State: state, Event: event, Reason: reason})
}

func (o *RecordingObserver) OnError(err error) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Errors = append(o.Errors, err)
}

// Reset clears everything captured so far.
func (o *RecordingObserver) Reset() {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Transitions = nil
	o.Enters = nil
	o.Exits = nil
	o.Actions = nil
	o.Rejections = nil
	o.Errors = nil
}

func (o *RecordingObserver) TransitionCount() int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return len(o.Transitions)
}

func (o *RecordingObserver) LastTransition() *TransitionRecord {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	if len(o.Transitions) == 0 {
		return nil
	}
	return &o.Transitions[len(o.Transitions)-1]
}

// CompileForTest runs the full pipeline over a document and fails the test
// on any error-severity diagnostic.
func CompileForTest(t *testing.T, text string) *StateMachineModel {
	t.Helper()
	model, diagnostics, err := Compile(text)
	if err != nil {
		t.Fatalf("Expected document to compile, got: %v", err)
	}
	if hasErrors(diagnostics) {
		t.Fatalf("Expected no error diagnostics, got: %v", diagnostics)
	}
	return model
}

// AssertCurrentState checks the session's current state.
func AssertCurrentState(t *testing.T, session *Session, expected string) {
	t.Helper()
	if current := session.CurrentState(); current != expected {
		t.Errorf("Expected current state %s, got %s", expected, current)
	}
}

// AssertStepKind checks a step's outcome shape.
func AssertStepKind(t *testing.T, result *StepResult, expected StepResultKind) {
	t.Helper()
	if result.Kind != expected {
		t.Errorf("Expected step outcome %s, got %s", expected, result.Kind)
	}
}

// EffectTrace renders a step's effects as compact strings for ordering
// assertions.
func EffectTrace(result *StepResult) []string {
	trace := make([]string, 0, len(result.Effects))
	for _, e := range result.Effects {
		trace = append(trace, e.Kind.String()+" "+e.State+" "+e.Name)
	}
	return trace
}

// CreateDeepInitialChain builds a nesting whose Initial pseudostate chain
// exceeds the hop bound. Indented source this deep is not worth generating,
// so the tree is assembled directly.
func CreateDeepInitialChain() *StateNode {
	root := &StateNode{Name: "S0", HasInitial: true, InitialTarget: "S1"}
	current := root
	for i := 1; i <= maxInitialHops+1; i++ {
		child := &StateNode{Name: fmt.Sprintf("S%d", i), Parent: current}
		current.SubStates = []*StateNode{child}
		if i <= maxInitialHops {
			child.HasInitial = true
			child.InitialTarget = fmt.Sprintf("S%d", i+1)
		}
		current = child
	}
	return root
}

// errorDiagnostics filters a diagnostic set down to error severity.
func errorDiagnostics(diags []Diagnostic) []Diagnostic {
	var errs []Diagnostic
	for _, d := range diags {
		if d.Severity == SeverityError {
			errs = append(errs, d)
		}
	}
	return errs
}
