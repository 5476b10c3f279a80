package stdl

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
)

// StepResultKind tags the four mutually exclusive step outcomes.
type StepResultKind int

const (
	// StepNewState: exactly one transition matched and was taken
	StepNewState StepResultKind = iota
	// StepChoices: multiple guard-identical transitions matched; the caller
	// must disambiguate
	StepChoices
	// StepWarning: no transition matched; the session stays put
	StepWarning
	// StepError: the step failed (fatally for state-not-found)
	StepError
)

func (k StepResultKind) String() string {
	switch k {
	case StepNewState:
		return "new-state"
	case StepChoices:
		return "choices"
	case StepWarning:
		return "warning"
	case StepError:
		return "error"
	}
	return "unknown"
}

// StepChoice is one candidate of an ambiguous step, carrying enough range
// information for a UI to let a human pick.
type StepChoice struct {
	Target      string   `json:"target"`
	Guard       string   `json:"guard,omitempty"`
	ActionNames []string `json:"actionNames,omitempty"`
	Actions     string   `json:"actions,omitempty"`
	Range       Range    `json:"range"`
}

// EffectKind classifies one visible effect of a step.
type EffectKind int

const (
	// EffectAction is a transition-level action emission
	EffectAction EffectKind = iota
	// EffectExit is an OnExit action emission
	EffectExit
	// EffectEntry is an OnEntry action emission
	EffectEntry
	// EffectTransition is the state change itself
	EffectTransition
	// EffectInitialTransition is an automatic Initial-pseudostate hop
	EffectInitialTransition
)

func (k EffectKind) String() string {
	switch k {
	case EffectAction:
		return "action"
	case EffectExit:
		return "exit"
	case EffectEntry:
		return "entry"
	case EffectTransition:
		return "transition"
	case EffectInitialTransition:
		return "initial"
	}
	return "unknown"
}

// Effect is one entry of a step's ordered effect trace. For action effects
// Name is the action label; for transition effects Name is the target state.
type Effect struct {
	Kind  EffectKind `json:"kind"`
	State string     `json:"state"`
	Name  string     `json:"name"`
}

// StepResult is the tagged outcome of a single step. Exactly one of the
// shape fields is meaningful, selected by Kind.
type StepResult struct {
	Kind     StepResultKind
	NewState string
	Choices  []StepChoice
	Warning  string
	Err      error

	// Effects is the ordered trace of everything the step emitted.
	Effects []Effect
}

// Engine walks a flattened model in response to (event, guard) pairs. It
// holds no session state of its own: every Step is a pure function of the
// model and its arguments.
type Engine struct {
	model     *StateMachineModel
	observers *ObserverManager
}

// NewEngine creates an execution engine over a flattened model.
func NewEngine(model *StateMachineModel) *Engine {
	return &Engine{model: model, observers: NewObserverManager()}
}

// Model returns the engine's flattened model.
func (e *Engine) Model() *StateMachineModel {
	return e.model
}

// AddObserver registers an observer for step effects.
func (e *Engine) AddObserver(observer Observer) {
	e.observers.AddObserver(observer)
}

// RemoveObserver removes a registered observer.
func (e *Engine) RemoveObserver(observer Observer) {
	e.observers.RemoveObserver(observer)
}

// matchTransitions returns the entries for the event whose guard exactly
// equals the supplied guard. An absent guard is normalized to "" on both
// sides before this point; guards otherwise match only by exact string
// equality, whitespace included.
func matchTransitions(flat *FlatState, event, guard string) []FlatTransition {
	var matched []FlatTransition
	for _, entry := range flat.Transitions[event] {
		if entry.Guard == guard {
			matched = append(matched, entry)
		}
	}
	return matched
}

// Step determines the unique transition for (event, guard) from the current
// state and sequences the full exit/action/entry lifecycle. Outcomes:
//
//   - StepError with a StateError when currentState is not in the model
//     (fatal desync) or a matched target is missing (internal error);
//   - StepWarning when the event or guard matches nothing (session stays put);
//   - StepChoices when several guard-identical transitions match; the
//     engine never guesses among ambiguous candidates;
//   - StepNewState on unique success, with the ordered effect trace.
func (e *Engine) Step(currentState, event, guard string) *StepResult {
	flat, ok := e.model.States[currentState]
	if !ok {
		err := NewStateNotFoundError(currentState)
		e.observers.NotifyError(err)
		return &StepResult{Kind: StepError, Err: err}
	}

	entries := flat.Transitions[event]
	if len(entries) == 0 {
		reason := "no transition defined for event \"" + event + "\" in state \"" + currentState + "\""
		e.observers.NotifyStepRejected(currentState, event, reason)
		return &StepResult{Kind: StepWarning, Warning: reason}
	}

	matched := matchTransitions(flat, event, guard)
	switch {
	case len(matched) == 0:
		reason := "no transition matches event \"" + event + "\" with guard \"" + guard + "\" in state \"" + currentState + "\""
		e.observers.NotifyStepRejected(currentState, event, reason)
		return &StepResult{Kind: StepWarning, Warning: reason}
	case len(matched) > 1:
		// Observers hear about this like any other step that left the
		// session in place; the caller still gets the candidates.
		ambiguous := NewAmbiguousTransitionError(currentState, event, guard, len(matched))
		e.observers.NotifyStepRejected(currentState, event, ambiguous.Reason)

		choices := make([]StepChoice, len(matched))
		for i, entry := range matched {
			choices[i] = StepChoice{
				Target:      entry.Target,
				Guard:       entry.Guard,
				ActionNames: entry.ActionNames,
				Actions:     entry.Actions,
				Range:       entry.Range,
			}
		}
		return &StepResult{Kind: StepChoices, Choices: choices}
	}

	return e.take(currentState, event, matched[0])
}

// take sequences the effects of the unique matched transition in the exact
// visible order: transition actions, OnExit up to the common ancestor, the
// state change, OnEntry down to the target, then chained Initial entries.
func (e *Engine) take(currentState, event string, entry FlatTransition) *StepResult {
	target := entry.Target
	if _, ok := e.model.States[target]; !ok {
		err := NewTargetNotFoundError(target, currentState, event)
		e.observers.NotifyError(err)
		return &StepResult{Kind: StepError, Err: err}
	}

	result := &StepResult{Kind: StepNewState}

	for _, action := range entry.ActionNames {
		result.Effects = append(result.Effects, Effect{Kind: EffectAction, State: currentState, Name: action})
		e.observers.NotifyActionEmitted(currentState, action)
	}

	ancestor := commonAncestor(currentState, target)
	for _, state := range exitPath(currentState, ancestor) {
		e.observers.NotifyStateExit(state)
		for _, action := range e.model.States[state].OnExit {
			result.Effects = append(result.Effects, Effect{Kind: EffectExit, State: state, Name: action})
			e.observers.NotifyActionEmitted(state, action)
		}
	}

	result.Effects = append(result.Effects, Effect{Kind: EffectTransition, State: currentState, Name: target})
	e.observers.NotifyTransition(currentState, target, event)

	entered := make(map[string]bool)
	e.enterDown(ancestor, target, entered, result)

	// Cascade through Initial pseudostates to the true leaf, entering only
	// states not already entered above. A chain deeper than the hop bound is
	// a structural error, the same condition computeInitialState reports.
	current := target
	for hops := 0; ; hops++ {
		initial, ok := e.model.InitialEntry(current)
		if !ok {
			break
		}
		if hops >= maxInitialHops {
			err := NewInitialChainError(current, maxInitialHops)
			e.observers.NotifyError(err)
			return &StepResult{Kind: StepError, Err: err, Effects: result.Effects}
		}
		next := initial.Target
		if _, ok := e.model.States[next]; !ok {
			err := NewTargetNotFoundError(next, current, InitialTransitionEvent)
			e.observers.NotifyError(err)
			return &StepResult{Kind: StepError, Err: err, Effects: result.Effects}
		}
		result.Effects = append(result.Effects, Effect{Kind: EffectInitialTransition, State: current, Name: next})
		e.enterDown(current, next, entered, result)
		current = next
	}

	result.NewState = current
	return result
}

// enterDown emits OnEntry for every state on the path from the ancestor
// (exclusive) down to the target (inclusive), skipping states already
// entered during this step.
func (e *Engine) enterDown(ancestor, target string, entered map[string]bool, result *StepResult) {
	for _, state := range entryPath(ancestor, target) {
		if entered[state] {
			continue
		}
		entered[state] = true
		e.observers.NotifyStateEnter(state)
		flat, ok := e.model.States[state]
		if !ok {
			continue
		}
		for _, action := range flat.OnEntry {
			result.Effects = append(result.Effects, Effect{Kind: EffectEntry, State: state, Name: action})
			e.observers.NotifyActionEmitted(state, action)
		}
	}
}

// exitPath lists the states to exit, deepest first, from the source up to
// but not including the common ancestor.
func exitPath(from, ancestor string) []string {
	chain := ancestorChain(from)
	var path []string
	for i := len(chain) - 1; i >= 0; i-- {
		if chain[i] == ancestor {
			break
		}
		path = append(path, chain[i])
	}
	return path
}

// entryPath lists the states to enter, shallowest first, from just below
// the ancestor down to the target inclusive.
func entryPath(ancestor, target string) []string {
	chain := ancestorChain(target)
	start := 0
	if ancestor != "" {
		for i, state := range chain {
			if state == ancestor {
				start = i + 1
				break
			}
		}
	}
	return chain[start:]
}

// ActionInfo returns the action names that would fire for (state, event,
// guard) without mutating anything. The second result is false when no
// unique transition matches.
func (e *Engine) ActionInfo(state, event, guard string) ([]string, bool) {
	flat, ok := e.model.States[state]
	if !ok {
		return nil, false
	}
	matched := matchTransitions(flat, event, guard)
	if len(matched) != 1 {
		return nil, false
	}
	return matched[0].ActionNames, true
}

// Session is the only long-lived mutable state of the execution layer: the
// current state plus an append-only transcript. Its lifetime is one
// debugging run over one model.
type Session struct {
	id      string
	engine  *Engine
	current string
	log     []SessionEntry
	mutex   sync.RWMutex
}

// SessionEntry records one submitted step and its outcome.
type SessionEntry struct {
	Event  string
	Guard  string
	Result *StepResult
}

// NewSession starts a session positioned at the model's initial state.
func NewSession(model *StateMachineModel) *Session {
	return &Session{
		id:      uuid.NewString(),
		engine:  NewEngine(model),
		current: model.InitialState,
	}
}

// ID returns the session's unique identifier.
func (s *Session) ID() string {
	return s.id
}

// Engine exposes the underlying engine, e.g. to register observers.
func (s *Session) Engine() *Engine {
	return s.engine
}

// CurrentState returns the session's current qualified state name.
func (s *Session) CurrentState() string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.current
}

// Send submits one (event, guard) pair. The session advances only on a
// StepNewState outcome; warnings and choices leave it unchanged.
func (s *Session) Send(event, guard string) *StepResult {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	result := s.engine.Step(s.current, event, guard)
	if result.Kind == StepNewState {
		s.current = result.NewState
	}
	s.log = append(s.log, SessionEntry{Event: event, Guard: guard, Result: result})
	return result
}

// Choose resolves a previous StepChoices outcome by jumping to the chosen
// target directly.
func (s *Session) Choose(choice StepChoice) *StepResult {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	result := s.engine.take(s.current, "", FlatTransition{
		Target:      choice.Target,
		Guard:       choice.Guard,
		ActionNames: choice.ActionNames,
		Actions:     choice.Actions,
		Range:       choice.Range,
	})
	if result.Kind == StepNewState {
		s.current = result.NewState
	}
	s.log = append(s.log, SessionEntry{Guard: choice.Guard, Result: result})
	return result
}

// Reset returns the session to the model's initial state and clears the
// transcript.
func (s *Session) Reset() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.current = s.engine.model.InitialState
	s.log = nil
}

// Transcript returns a copy of the step log.
func (s *Session) Transcript() []SessionEntry {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	entries := make([]SessionEntry, len(s.log))
	copy(entries, s.log)
	return entries
}

// MarshalJSON serializes the session's identity and position.
func (s *Session) MarshalJSON() ([]byte, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return json.Marshal(map[string]any{
		"id":           s.id,
		"currentState": s.current,
		"steps":        len(s.log),
	})
}
