package stdl

import "strings"

// QualifierSeparator joins segments of a qualified state name.
const QualifierSeparator = "."

// ActionRef is an opaque action label. Actions carry no execution semantics;
// the pipeline only records, sequences, and reports them.
type ActionRef struct {
	Name  string
	Range Range
}

// TransitionRef names a transition target exactly as written in the source,
// before any scope resolution.
type TransitionRef struct {
	Target string
	Range  Range
}

// EventHandler is one "- event" block of a state. A handler with no
// transition is an internal handler: it may still carry actions and keeps the
// machine in the same state.
type EventHandler struct {
	Event      string
	Guard      string
	HasGuard   bool
	Actions    []ActionRef
	Transition *TransitionRef
	Range      Range
}

// StateNode is a state in the parse tree. A node owns its substates, action
// lists, and handlers; Parent is a non-owning back-reference used for lookup
// only.
type StateNode struct {
	Name      string
	OnEntry   []ActionRef
	OnExit    []ActionRef
	Handlers  []*EventHandler
	SubStates []*StateNode
	Parent    *StateNode

	// Initial pseudostate declaration, when present.
	HasInitial    bool
	InitialTarget string
	InitialRange  Range

	// Range covers the declaration line, FullRange the whole body.
	Range     Range
	FullRange Range
}

// QualifiedName returns the dot-joined chain of names from the node's
// top-level ancestor down to the node itself.
func (s *StateNode) QualifiedName() string {
	if s.Parent == nil {
		return s.Name
	}
	segments := []string{s.Name}
	for p := s.Parent; p != nil; p = p.Parent {
		segments = append([]string{p.Name}, segments...)
	}
	return strings.Join(segments, QualifierSeparator)
}

// FindSubState returns the direct substate with the given name, or nil.
func (s *StateNode) FindSubState(name string) *StateNode {
	for _, sub := range s.SubStates {
		if sub.Name == name {
			return sub
		}
	}
	return nil
}

// IsComposite reports whether the state contains nested substates.
func (s *StateNode) IsComposite() bool {
	return len(s.SubStates) > 0
}

// hasOutgoingTransitions reports whether any handler leaves the state.
func (s *StateNode) hasOutgoingTransitions() bool {
	for _, h := range s.Handlers {
		if h.Transition != nil {
			return true
		}
	}
	return false
}

// walkStates visits every node of the forest depth-first in document order.
func walkStates(states []*StateNode, visit func(*StateNode)) {
	for _, state := range states {
		visit(state)
		walkStates(state.SubStates, visit)
	}
}

// resolveTarget resolves a transition target written as unqualified text from
// the given source state. Resolution tries, in order: a direct substate of
// the source, a direct substate of the source's parent (a sibling), and a
// top-level qualified name. The first match wins.
func resolveTarget(source *StateNode, target string, topLevel []*StateNode, byName map[string]*StateNode) (string, bool) {
	if source != nil {
		if sub := source.FindSubState(target); sub != nil {
			return source.QualifiedName() + QualifierSeparator + target, true
		}
		if source.Parent != nil {
			if sib := source.Parent.FindSubState(target); sib != nil {
				return source.Parent.QualifiedName() + QualifierSeparator + target, true
			}
		} else {
			for _, top := range topLevel {
				if top.Name == target {
					return target, true
				}
			}
		}
	}
	if _, ok := byName[target]; ok {
		return target, true
	}
	return "", false
}
