package stdl

import "fmt"

// transitionUse records one transition target to be resolved after the tree
// walk, together with the state it was written in.
type transitionUse struct {
	source *StateNode
	target string
	r      Range
}

// Validate walks a parsed forest and reports semantic findings: duplicate
// qualified names, unresolvable transition targets, Initial pseudostate
// misuse, reserved event names, and terminal-state hints. The walk never
// stops early; every independent problem is surfaced in one pass.
func Validate(states []*StateNode) []Diagnostic {
	v := &validator{byName: make(map[string]*StateNode), topLevel: states}
	v.walk(states)
	v.resolveAll()
	return v.diags
}

type validator struct {
	topLevel []*StateNode
	byName   map[string]*StateNode
	uses     []transitionUse
	diags    []Diagnostic
}

func (v *validator) report(severity Severity, r Range, format string, args ...any) {
	v.diags = append(v.diags, Diagnostic{
		Message:  fmt.Sprintf(format, args...),
		Range:    r,
		Severity: severity,
	})
}

// walk assigns qualified names depth-first, detecting duplicates eagerly. A
// duplicate does not stop descent into its substates.
func (v *validator) walk(states []*StateNode) {
	for _, state := range states {
		qname := state.QualifiedName()
		if _, exists := v.byName[qname]; exists {
			v.report(SeverityError, state.Range, "duplicate state name %q", qname)
		} else {
			v.byName[qname] = state
		}

		v.checkHandlers(state)
		v.checkInitial(state)
		v.checkTerminal(state)
		v.walk(state.SubStates)
	}
}

func (v *validator) checkHandlers(state *StateNode) {
	for _, h := range state.Handlers {
		if h.Event == InitialTransitionEvent {
			v.report(SeverityError, h.Range, "event name %q is reserved", InitialTransitionEvent)
		}
		if h.Transition != nil {
			v.uses = append(v.uses, transitionUse{source: state, target: h.Transition.Target, r: h.Transition.Range})
		}
	}
}

// checkInitial validates the Initial pseudostate inline: the target must be
// a direct substate, which needs no general scope resolution.
func (v *validator) checkInitial(state *StateNode) {
	if !state.HasInitial {
		return
	}
	if len(state.SubStates) == 0 {
		v.report(SeverityError, state.InitialRange,
			"state %q declares an Initial pseudostate but has no substates", state.QualifiedName())
		return
	}
	if state.FindSubState(state.InitialTarget) == nil {
		v.report(SeverityError, state.InitialRange,
			"Initial target %q is not a direct substate of %q", state.InitialTarget, state.QualifiedName())
	}
}

// checkTerminal emits the terminal-state hints. A leaf with no outgoing
// transitions is terminal; a composite with no Initial pseudostate and no
// direct outgoing transitions is implicitly terminal at its own level.
func (v *validator) checkTerminal(state *StateNode) {
	if state.hasOutgoingTransitions() {
		return
	}
	if !state.IsComposite() {
		v.report(SeverityInformation, state.Range, "state %q is terminal: no outgoing transitions and no substates", state.QualifiedName())
		return
	}
	if !state.HasInitial {
		v.report(SeverityHint, state.Range, "composite state %q has no Initial pseudostate and no outgoing transitions; it is implicitly terminal at this level", state.QualifiedName())
	}
}

// resolveAll resolves every collected transition target against the
// duplicate-filtered qualified-name table.
func (v *validator) resolveAll() {
	for _, use := range v.uses {
		if _, ok := resolveTarget(use.source, use.target, v.topLevel, v.byName); !ok {
			v.report(SeverityError, use.r,
				"cannot resolve transition target %q from state %q (tried substates, siblings, and top-level names)",
				use.target, use.source.QualifiedName())
		}
	}
}
