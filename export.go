package stdl

import (
	"encoding/json"
	"sort"

	"gopkg.in/yaml.v3"
)

// exportDocument is the serialized shape of a flattened machine. States are
// a slice rather than a map so the document order survives encoding.
type exportDocument struct {
	InitialState string        `json:"initialState" yaml:"initialState"`
	States       []exportState `json:"states" yaml:"states"`
}

type exportState struct {
	Name        string            `json:"name" yaml:"name"`
	OnEntry     []string          `json:"onEntry,omitempty" yaml:"onEntry,omitempty"`
	OnExit      []string          `json:"onExit,omitempty" yaml:"onExit,omitempty"`
	Initial     string            `json:"initial,omitempty" yaml:"initial,omitempty"`
	Transitions []exportTransiton `json:"transitions,omitempty" yaml:"transitions,omitempty"`
}

type exportTransiton struct {
	Event   string `json:"event" yaml:"event"`
	Target  string `json:"target" yaml:"target"`
	Guard   string `json:"guard,omitempty" yaml:"guard,omitempty"`
	Actions string `json:"actions,omitempty" yaml:"actions,omitempty"`
}

func buildExport(m *StateMachineModel) exportDocument {
	doc := exportDocument{InitialState: m.InitialState}
	for _, qname := range m.Order {
		flat := m.States[qname]
		state := exportState{Name: qname, OnEntry: flat.OnEntry, OnExit: flat.OnExit}
		if initial, ok := m.InitialEntry(qname); ok {
			state.Initial = initial.Target
		}
		for _, event := range sortedEventKeys(flat) {
			if event == InitialTransitionEvent {
				continue
			}
			for _, entry := range flat.Transitions[event] {
				state.Transitions = append(state.Transitions, exportTransiton{
					Event:   event,
					Target:  entry.Target,
					Guard:   entry.Guard,
					Actions: entry.Actions,
				})
			}
		}
		doc.States = append(doc.States, state)
	}
	return doc
}

// ExportYAML encodes the flattened machine as YAML for external renderers.
func (m *StateMachineModel) ExportYAML() ([]byte, error) {
	return yaml.Marshal(buildExport(m))
}

// ExportJSON encodes the flattened machine as indented JSON.
func (m *StateMachineModel) ExportJSON() ([]byte, error) {
	return json.MarshalIndent(buildExport(m), "", "  ")
}

// sortedEventKeys keeps the export deterministic across runs.
func sortedEventKeys(flat *FlatState) []string {
	keys := make([]string, 0, len(flat.Transitions))
	for event := range flat.Transitions {
		keys = append(keys, event)
	}
	sort.Strings(keys)
	return keys
}
