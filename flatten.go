package stdl

import "strings"

// InitialTransitionEvent is the reserved transition-table key carrying the
// automatic Initial-pseudostate hop of a composite state. The validator
// rejects user events with this name, so it can never collide with input.
const InitialTransitionEvent = "__initial__"

// maxInitialHops bounds the automatic Initial-transition chain that is
// followed when computing the machine's initial state. Exceeding the bound
// is a structural error, never a crash.
const maxInitialHops = 64

// actionJoiner glues a handler's action names into a single label.
const actionJoiner = ", "

// FlatTransition is one entry in a flattened state's transition table.
type FlatTransition struct {
	Target string `json:"target" yaml:"target"`
	Guard  string `json:"guard,omitempty" yaml:"guard,omitempty"`

	// ActionNames is the handler's ordered action list. Action text is
	// opaque and may itself contain the join separator, so execution always
	// works from this list; Actions is a joined label for rendering only.
	ActionNames []string `json:"actionNames,omitempty" yaml:"actionNames,omitempty"`
	Actions     string   `json:"actions,omitempty" yaml:"actions,omitempty"`

	// Range points back at the originating handler so callers can let a
	// human disambiguate between guard-identical candidates.
	Range Range `json:"range" yaml:"range"`
}

// FlatState is a state of the flattened machine, keyed by qualified name.
type FlatState struct {
	OnEntry     []string                    `json:"onEntry,omitempty" yaml:"onEntry,omitempty"`
	OnExit      []string                    `json:"onExit,omitempty" yaml:"onExit,omitempty"`
	Transitions map[string][]FlatTransition `json:"transitions,omitempty" yaml:"transitions,omitempty"`
}

// StateMachineModel is the boundary artifact exposed to external consumers:
// a qualified-name-keyed transition table plus the resolved initial state.
// It is derived fresh from a parse tree on each request and never mutated.
type StateMachineModel struct {
	InitialState string
	States       map[string]*FlatState

	// Order lists qualified names in document order so that rendering and
	// fallback decisions stay deterministic.
	Order []string

	// InitialChain records the automatic hops followed from the first
	// top-level state down to InitialState.
	InitialChain []string
}

// Flatten derives the executable model from a parsed forest. The input is
// assumed validated, but invalid trees must degrade (entries for
// unresolvable targets are dropped) rather than crash. An empty forest is an
// error: the transformer never fabricates a state.
func Flatten(states []*StateNode) (*StateMachineModel, error) {
	model := &StateMachineModel{States: make(map[string]*FlatState)}

	byName := make(map[string]*StateNode)
	walkStates(states, func(node *StateNode) {
		qname := node.QualifiedName()
		if _, exists := byName[qname]; exists {
			return // duplicate-filtered: first occurrence wins
		}
		byName[qname] = node
		model.Order = append(model.Order, qname)
	})

	for _, qname := range model.Order {
		model.States[qname] = flattenState(byName[qname], states, byName)
	}

	if len(model.Order) == 0 {
		return nil, NewEmptyModelError()
	}
	if err := computeInitialState(model, states); err != nil {
		return nil, err
	}
	return model, nil
}

func flattenState(node *StateNode, topLevel []*StateNode, byName map[string]*StateNode) *FlatState {
	qname := node.QualifiedName()
	flat := &FlatState{Transitions: make(map[string][]FlatTransition)}

	for _, a := range node.OnEntry {
		flat.OnEntry = append(flat.OnEntry, a.Name)
	}
	for _, a := range node.OnExit {
		flat.OnExit = append(flat.OnExit, a.Name)
	}

	for _, h := range node.Handlers {
		entry := FlatTransition{
			Guard:       h.Guard,
			ActionNames: actionList(h.Actions),
			Actions:     joinActions(h.Actions),
			Range:       h.Range,
		}
		switch {
		case h.Transition != nil:
			resolved, ok := resolveTarget(node, h.Transition.Target, topLevel, byName)
			if !ok {
				continue // validator already reported this target
			}
			entry.Target = resolved
			entry.Range = h.Transition.Range
		case len(h.Actions) > 0:
			// Internal handlers are represented uniformly as transitions
			// back to the same state.
			entry.Target = qname
		default:
			continue
		}
		flat.Transitions[h.Event] = append(flat.Transitions[h.Event], entry)
	}

	if node.HasInitial && len(node.SubStates) > 0 {
		if sub := node.FindSubState(node.InitialTarget); sub != nil {
			flat.Transitions[InitialTransitionEvent] = []FlatTransition{{
				Target: qname + QualifierSeparator + node.InitialTarget,
				Range:  node.InitialRange,
			}}
		}
	}

	return flat
}

func actionList(actions []ActionRef) []string {
	if len(actions) == 0 {
		return nil
	}
	names := make([]string, len(actions))
	for i, a := range actions {
		names[i] = a.Name
	}
	return names
}

func joinActions(actions []ActionRef) string {
	return strings.Join(actionList(actions), actionJoiner)
}

// computeInitialState starts at the first top-level state and follows the
// sentinel Initial entries down to the true initial leaf, recording each hop
// and guarding against unbounded chains.
func computeInitialState(model *StateMachineModel, states []*StateNode) error {
	current := states[0].QualifiedName()
	model.InitialChain = []string{current}

	for hops := 0; ; hops++ {
		if hops >= maxInitialHops {
			return NewInitialChainError(current, maxInitialHops)
		}
		flat, ok := model.States[current]
		if !ok {
			break
		}
		entries := flat.Transitions[InitialTransitionEvent]
		if len(entries) == 0 {
			break
		}
		current = entries[0].Target
		model.InitialChain = append(model.InitialChain, current)
	}

	if _, ok := model.States[current]; !ok {
		// Malformed input: fall back to the first state in document order.
		current = model.Order[0]
		model.InitialChain = []string{current}
	}
	model.InitialState = current
	return nil
}

// InitialEntry returns the automatic Initial transition declared by the
// given state, if any.
func (m *StateMachineModel) InitialEntry(qname string) (FlatTransition, bool) {
	flat, ok := m.States[qname]
	if !ok {
		return FlatTransition{}, false
	}
	entries := flat.Transitions[InitialTransitionEvent]
	if len(entries) == 0 {
		return FlatTransition{}, false
	}
	return entries[0], true
}

// ancestorChain splits a qualified name into its progressively longer
// prefixes, from top-level ancestor to the state itself.
func ancestorChain(qname string) []string {
	if qname == "" {
		return nil
	}
	segments := strings.Split(qname, QualifierSeparator)
	chain := make([]string, len(segments))
	for i := range segments {
		chain[i] = strings.Join(segments[:i+1], QualifierSeparator)
	}
	return chain
}

// commonAncestor returns the longest shared qualified-name prefix of two
// states, or "" when they share none.
func commonAncestor(a, b string) string {
	chainA := ancestorChain(a)
	chainB := ancestorChain(b)
	shared := ""
	for i := 0; i < len(chainA) && i < len(chainB); i++ {
		if chainA[i] != chainB[i] {
			break
		}
		shared = chainA[i]
	}
	return shared
}
