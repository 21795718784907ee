package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationErrorMessage(t *testing.T) {
	err := Validation("please fill all the fields", "bio", "location")
	assert.Equal(t, "please fill all the fields: bio, location", err.Error())
	assert.Equal(t, "cannot friend self", Validation("cannot friend self").Error())
}

func TestHelpersMatchWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("store: %w", NotFound("user not found"))
	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsConflict(wrapped))
	assert.True(t, IsConflict(fmt.Errorf("x: %w", Conflict("already friends"))))
}

func TestForbiddenCarriesFlag(t *testing.T) {
	var ae *AuthError
	assert.True(t, errors.As(Forbidden("not authorized"), &ae))
	assert.True(t, ae.Forbidden)
	assert.True(t, errors.As(Unauthorized("missing token"), &ae))
	assert.False(t, ae.Forbidden)
}

func TestDependencyUnwraps(t *testing.T) {
	cause := errors.New("timeout")
	err := Dependency("chat", cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "chat: timeout", err.Error())
}
