package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCloneKeepsIdentity(t *testing.T) {
	err := Clone(ErrDuplicateSkill, "skill a1 already selected")

	assert.True(t, errors.Is(err, ErrDuplicateSkill))
	assert.False(t, errors.Is(err, ErrDuplicateLanguage))
	assert.Equal(t, http.StatusConflict, err.Status)
	assert.Equal(t, "skill a1 already selected", err.Message)
}

func TestFromErrorWrapsUnknown(t *testing.T) {
	appErr := FromError(fmt.Errorf("boom"))

	assert.Equal(t, ErrInternal.Code, appErr.Code)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
	assert.EqualError(t, appErr, "internal server error: boom")
}

func TestFromErrorUnwrapsChain(t *testing.T) {
	wrapped := fmt.Errorf("load gig: %w", ErrNotFound)

	assert.Same(t, ErrNotFound, FromError(wrapped))
	assert.Nil(t, FromError(nil))
}
