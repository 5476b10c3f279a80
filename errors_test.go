package stdl

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorConstructors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code ErrorCode
	}{
		{"state not found", NewStateNotFoundError("Ghost"), ErrCodeStateNotFound},
		{"target not found", NewTargetNotFoundError("T", "S", "e"), ErrCodeTargetNotFound},
		{"ambiguous transition", NewAmbiguousTransitionError("S", "e", "x", 2), ErrCodeAmbiguousTransition},
		{"empty model", NewEmptyModelError(), ErrCodeEmptyModel},
		{"initial chain", NewInitialChainError("S", maxInitialHops), ErrCodeInitialChainTooLong},
		{"document not found", NewDocumentNotFoundError("doc"), ErrCodeDocumentNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, ErrorCodeOf(tt.err))
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrorTypeChecks(t *testing.T) {
	assert.True(t, IsStateError(NewStateNotFoundError("S")))
	assert.True(t, IsStateError(NewTargetNotFoundError("T", "S", "e")))
	assert.True(t, IsTransitionError(NewAmbiguousTransitionError("S", "e", "", 2)))
	assert.True(t, IsModelError(NewEmptyModelError()))
	assert.True(t, IsDocumentError(NewDocumentNotFoundError("doc")))

	plain := errors.New("plain")
	assert.False(t, IsStateError(plain))
	assert.False(t, IsTransitionError(plain))
	assert.False(t, IsModelError(plain))
	assert.False(t, IsDocumentError(plain))
	assert.Equal(t, ErrCodeNone, ErrorCodeOf(plain))
}

func TestErrorMessagesNameTheSubject(t *testing.T) {
	assert.Contains(t, NewStateNotFoundError("Ghost").Error(), "Ghost")
	assert.Contains(t, NewTargetNotFoundError("T", "S", "e").Error(), "T")
	assert.Contains(t, NewDocumentNotFoundError("player.stdl").Error(), "player.stdl")
	assert.Contains(t, NewInitialChainError("S", 64).Error(), "64")
}
