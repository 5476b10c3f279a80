package stdl

import "fmt"

// ErrorCode represents specific failure conditions across the pipeline.
type ErrorCode int

const (
	// No error occurred
	ErrCodeNone ErrorCode = iota
	// Current state is absent from the model (session/model desync)
	ErrCodeStateNotFound
	// A transition target is missing from the flattened table
	ErrCodeTargetNotFound
	// More than one transition matched an event and guard
	ErrCodeAmbiguousTransition
	// The parsed document produced no states
	ErrCodeEmptyModel
	// The Initial-pseudostate chain exceeded the hop bound
	ErrCodeInitialChainTooLong
	// The requested document is not loaded in the workspace
	ErrCodeDocumentNotFound
)

// StateError represents state-lookup errors during execution.
type StateError struct {
	Code    ErrorCode
	StateID string
	Message string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("state error [%s]: %s", e.StateID, e.Message)
}

// NewStateNotFoundError signals that the session's current state is missing
// from the model. This is fatal: the session is desynchronized and should be
// restarted.
func NewStateNotFoundError(stateID string) *StateError {
	return &StateError{
		Code:    ErrCodeStateNotFound,
		StateID: stateID,
		Message: fmt.Sprintf("current state %q not found in model", stateID),
	}
}

// NewTargetNotFoundError signals that a matched transition names a target
// absent from the table. It should not happen for validated input.
func NewTargetNotFoundError(target, from, event string) *StateError {
	return &StateError{
		Code:    ErrCodeTargetNotFound,
		StateID: target,
		Message: fmt.Sprintf("transition target %q from %q on %q does not exist in model", target, from, event),
	}
}

// TransitionError represents transition-selection errors.
type TransitionError struct {
	Code   ErrorCode
	From   string
	Event  string
	Guard  string
	Reason string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("transition error [%s on %s]: %s", e.From, e.Event, e.Reason)
}

// NewAmbiguousTransitionError reports multiple guard-identical candidates.
func NewAmbiguousTransitionError(from, event, guard string, count int) *TransitionError {
	return &TransitionError{
		Code:   ErrCodeAmbiguousTransition,
		From:   from,
		Event:  event,
		Guard:  guard,
		Reason: fmt.Sprintf("%d transitions match event %q with guard %q", count, event, guard),
	}
}

// ModelError represents transformation failures: the flattener reports these
// instead of fabricating a machine.
type ModelError struct {
	Code    ErrorCode
	Message string
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("model error: %s", e.Message)
}

// NewEmptyModelError reports a document with no states to execute.
func NewEmptyModelError() *ModelError {
	return &ModelError{Code: ErrCodeEmptyModel, Message: "document contains no states"}
}

// NewInitialChainError reports an Initial-transition chain that exceeded the
// safety bound.
func NewInitialChainError(state string, bound int) *ModelError {
	return &ModelError{
		Code:    ErrCodeInitialChainTooLong,
		Message: fmt.Sprintf("initial transition chain through %q exceeds %d hops", state, bound),
	}
}

// DocumentError represents workspace-level lookup failures.
type DocumentError struct {
	Code       ErrorCode
	DocumentID string
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("document %q is not loaded", e.DocumentID)
}

// NewDocumentNotFoundError reports an unknown document identifier.
func NewDocumentNotFoundError(id string) *DocumentError {
	return &DocumentError{Code: ErrCodeDocumentNotFound, DocumentID: id}
}

// IsStateError checks if an error is a StateError
func IsStateError(err error) bool {
	_, ok := err.(*StateError)
	return ok
}

// IsTransitionError checks if an error is a TransitionError
func IsTransitionError(err error) bool {
	_, ok := err.(*TransitionError)
	return ok
}

// IsModelError checks if an error is a ModelError
func IsModelError(err error) bool {
	_, ok := err.(*ModelError)
	return ok
}

// IsDocumentError checks if an error is a DocumentError
func IsDocumentError(err error) bool {
	_, ok := err.(*DocumentError)
	return ok
}

// ErrorCodeOf returns the error code for known error types.
func ErrorCodeOf(err error) ErrorCode {
	switch e := err.(type) {
	case *StateError:
		return e.Code
	case *TransitionError:
		return e.Code
	case *ModelError:
		return e.Code
	case *DocumentError:
		return e.Code
	default:
		return ErrCodeNone
	}
}
