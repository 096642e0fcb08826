package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIErrorMessageFallsBackToStatus(t *testing.T) {
	err := &APIError{Status: 500}
	assert.Equal(t, "API Error: 500", err.Error())

	err = &APIError{Status: 422, Message: "title too long"}
	assert.Equal(t, "title too long", err.Error())
}

func TestAPIErrorIsAuth(t *testing.T) {
	assert.True(t, (&APIError{Status: 401}).IsAuth())
	assert.False(t, (&APIError{Status: 403}).IsAuth())
	assert.False(t, (&APIError{Status: 500}).IsAuth())
}

func TestErrorKindHelpersClassifyWrappedErrors(t *testing.T) {
	netErr := fmt.Errorf("load tasks: %w", &NetworkError{Err: errors.New("dial tcp: refused")})
	assert.True(t, IsNetwork(netErr))
	assert.False(t, IsValidation(netErr))

	valErr := fmt.Errorf("create task: %w", &ValidationError{Field: "title", Reason: "must not be empty"})
	assert.True(t, IsValidation(valErr))
	assert.False(t, IsNetwork(valErr))

	apiErr := fmt.Errorf("delete task: %w", &APIError{Status: 404, Message: "Task not found"})
	got, ok := AsAPIError(apiErr)
	require.True(t, ok)
	assert.Equal(t, 404, got.Status)

	_, ok = AsAPIError(netErr)
	assert.False(t, ok)
}

func TestNetworkErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := &NetworkError{Err: cause}
	assert.ErrorIs(t, err, cause)
}

func TestSessionValid(t *testing.T) {
	assert.False(t, Session{}.Valid())
	assert.False(t, Session{UserID: "u-1"}.Valid())
	assert.False(t, Session{Token: "tok"}.Valid())
	assert.True(t, Session{UserID: "u-1", Token: "tok"}.Valid())
}

func TestTaskPatchEmpty(t *testing.T) {
	assert.True(t, TaskPatch{}.Empty())
	title := "new title"
	assert.False(t, TaskPatch{Title: &title}.Empty())
}
