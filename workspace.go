package stdl

import "sync"

// Workspace tracks open documents and serves the model query interface:
// diagnostics, flattened models, and step execution, all keyed by document
// identifier. Every update re-derives the pipeline from scratch; there is no
// incremental reparse and no cross-document shared state.
type Workspace struct {
	mu   sync.RWMutex
	docs map[string]*document
}

type document struct {
	text        string
	result      *ParseResult
	diagnostics []Diagnostic
}

// NewWorkspace creates an empty workspace.
func NewWorkspace() *Workspace {
	return &Workspace{docs: make(map[string]*document)}
}

// SetDocument loads or replaces a document's text, reruns the parse and
// validation pipeline, and returns the full replacement diagnostic set.
func (w *Workspace) SetDocument(id, text string) []Diagnostic {
	result := Parse(text)
	diagnostics := append(result.Diagnostics, Validate(result.States)...)

	w.mu.Lock()
	w.docs[id] = &document{text: text, result: result, diagnostics: diagnostics}
	w.mu.Unlock()

	return diagnostics
}

// RemoveDocument drops a document and everything derived from it.
func (w *Workspace) RemoveDocument(id string) {
	w.mu.Lock()
	delete(w.docs, id)
	w.mu.Unlock()
}

// Diagnostics returns the current full diagnostic set for a document.
func (w *Workspace) Diagnostics(id string) ([]Diagnostic, error) {
	doc, err := w.lookup(id)
	if err != nil {
		return nil, err
	}
	return doc.diagnostics, nil
}

// ParseResultFor returns the document's parse tree for position-based
// consumers (definition and reference lookup).
func (w *Workspace) ParseResultFor(id string) (*ParseResult, error) {
	doc, err := w.lookup(id)
	if err != nil {
		return nil, err
	}
	return doc.result, nil
}

// Model flattens the document's parse tree. The model is derived fresh on
// every call; a best-effort model is returned even when the document carries
// error diagnostics, so consumers can render the valid remainder.
func (w *Workspace) Model(id string) (*StateMachineModel, error) {
	doc, err := w.lookup(id)
	if err != nil {
		return nil, err
	}
	return Flatten(doc.result.States)
}

// ExecuteAction performs one step against the document's model. The guard
// is optional; omitting it is identical to passing the empty string.
func (w *Workspace) ExecuteAction(id, currentState, event string, guard ...string) *StepResult {
	model, err := w.Model(id)
	if err != nil {
		return &StepResult{Kind: StepError, Err: err}
	}
	return NewEngine(model).Step(currentState, event, optionalGuard(guard))
}

// ActionInfo previews the action names that would fire for (state, event,
// guard) without mutating any session state.
func (w *Workspace) ActionInfo(id, state, event string, guard ...string) ([]string, bool) {
	model, err := w.Model(id)
	if err != nil {
		return nil, false
	}
	return NewEngine(model).ActionInfo(state, event, optionalGuard(guard))
}

// NewSessionFor starts an execution session over the document's model.
func (w *Workspace) NewSessionFor(id string) (*Session, error) {
	model, err := w.Model(id)
	if err != nil {
		return nil, err
	}
	return NewSession(model), nil
}

func (w *Workspace) lookup(id string) (*document, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	doc, ok := w.docs[id]
	if !ok {
		return nil, NewDocumentNotFoundError(id)
	}
	return doc, nil
}

func optionalGuard(guard []string) string {
	if len(guard) == 0 {
		return ""
	}
	return guard[0]
}
