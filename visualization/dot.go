// Package visualization renders flattened state machines to Graphviz DOT.
// It is a pure consumer of the model: no semantics flow back into the
// pipeline.
package visualization

import (
	"fmt"
	"os"
	"sort"
	"strings"

	stdl "github.com/jbaker8935/stdl"
)

// DOTGenerator generates Graphviz DOT representations of a flattened
// machine.
type DOTGenerator struct {
	model   *stdl.StateMachineModel
	options DOTOptions
}

// DOTOptions configures the DOT generation.
type DOTOptions struct {
	ShowGuards    bool
	ShowActions   bool
	RankDirection string // "TB", "LR", "BT", "RL"
	NodeShape     string
}

// DefaultDOTOptions returns sensible default options for DOT generation.
func DefaultDOTOptions() DOTOptions {
	return DOTOptions{
		ShowGuards:    true,
		ShowActions:   true,
		RankDirection: "TB",
		NodeShape:     "box",
	}
}

// NewDOTGenerator creates a DOT generator for the given model.
func NewDOTGenerator(model *stdl.StateMachineModel, options ...DOTOptions) *DOTGenerator {
	opts := DefaultDOTOptions()
	if len(options) > 0 {
		opts = options[0]
	}
	return &DOTGenerator{model: model, options: opts}
}

// Generate creates the DOT representation of the machine.
func (g *DOTGenerator) Generate() string {
	var dot strings.Builder

	dot.WriteString("digraph StateMachine {\n")
	dot.WriteString(fmt.Sprintf("  rankdir=%s;\n", g.options.RankDirection))
	dot.WriteString(fmt.Sprintf("  node [shape=%s];\n", g.options.NodeShape))
	dot.WriteString("  edge [fontsize=10];\n\n")

	g.generateStates(&dot)
	g.generateTransitions(&dot)

	dot.WriteString("}\n")
	return dot.String()
}

func (g *DOTGenerator) generateStates(dot *strings.Builder) {
	dot.WriteString("  // States\n")
	dot.WriteString("  \"__start\" [shape=point];\n")

	for _, name := range g.model.Order {
		fillColor := "lightblue"
		label := name
		if name == g.model.InitialState {
			fillColor = "lightgreen"
			label += "\\n(initial)"
		}
		if _, composite := g.model.InitialEntry(name); composite {
			fillColor = "lightcyan"
		}
		dot.WriteString(fmt.Sprintf("  %q [style=\"filled\" fillcolor=%s label=\"%s\"];\n",
			name, fillColor, label))
	}
	dot.WriteString("\n")
}

func (g *DOTGenerator) generateTransitions(dot *strings.Builder) {
	dot.WriteString("  // Transitions\n")
	dot.WriteString(fmt.Sprintf("  \"__start\" -> %q;\n", g.model.InitialState))

	for _, from := range g.model.Order {
		flat := g.model.States[from]
		events := make([]string, 0, len(flat.Transitions))
		for event := range flat.Transitions {
			events = append(events, event)
		}
		sort.Strings(events)
		for _, event := range events {
			for _, entry := range flat.Transitions[event] {
				if event == stdl.InitialTransitionEvent {
					dot.WriteString(fmt.Sprintf("  %q -> %q [style=dashed label=\"initial\"];\n",
						from, entry.Target))
					continue
				}
				dot.WriteString(fmt.Sprintf("  %q -> %q [label=%q];\n",
					from, entry.Target, g.edgeLabel(event, entry)))
			}
		}
	}
}

func (g *DOTGenerator) edgeLabel(event string, entry stdl.FlatTransition) string {
	label := event
	if g.options.ShowGuards && entry.Guard != "" {
		label += fmt.Sprintf(" [%s]", entry.Guard)
	}
	if g.options.ShowActions && entry.Actions != "" {
		label += fmt.Sprintf(" / %s", entry.Actions)
	}
	return label
}

// GenerateToFile writes the DOT representation to a file.
func (g *DOTGenerator) GenerateToFile(filename string) error {
	return os.WriteFile(filename, []byte(g.Generate()), 0644)
}
