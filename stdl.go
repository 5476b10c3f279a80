// Package stdl implements a textual language for hierarchical state
// machines: an indentation-sensitive tokenizer, a fault-tolerant recursive
// descent parser, a semantic validator, a transformer flattening the state
// tree into a qualified-name-keyed transition table, and an interactive
// execution engine that sequences entry/exit actions and automatic
// Initial-pseudostate transitions.
//
// The pipeline is strictly one-directional: text, tokens, parse tree,
// diagnostics, flattened model, execution steps. Every stage is a pure
// computation over immutable inputs; independent documents can be processed
// concurrently with no shared state.
package stdl

import "fmt"

// Version is the library version.
const Version = "0.3.0"

// Compile runs the full pipeline over a document: tokenize, parse, validate,
// flatten. The returned model is best-effort: it is produced even when the
// diagnostics contain errors, so consumers can work with the valid remainder
// of a broken document. The error is non-nil only when no model could be
// derived at all.
func Compile(text string) (*StateMachineModel, []Diagnostic, error) {
	result := Parse(text)
	diagnostics := append(result.Diagnostics, Validate(result.States)...)

	model, err := Flatten(result.States)
	if err != nil {
		return nil, diagnostics, err
	}
	return model, diagnostics, nil
}

// MustCompile is a convenience for fixtures and examples; it panics on
// documents that yield no model or carry error diagnostics.
func MustCompile(text string) *StateMachineModel {
	model, diagnostics, err := Compile(text)
	if err != nil {
		panic(err)
	}
	if hasErrors(diagnostics) {
		panic(fmt.Sprintf("document has errors: %v", diagnostics))
	}
	return model
}
