package application

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taskdeck/taskdeck-cli/internal/domain"
)

func TestDescribeKeysPhrasingOffOperationAndKind(t *testing.T) {
	netErr := &domain.NetworkError{Err: errors.New("refused")}
	apiErr := &domain.APIError{Status: 500}
	valErr := &domain.ValidationError{Field: "title", Reason: "must not be empty"}

	assert.Equal(t, "Could not load tasks: unable to reach the task service, you appear to be offline", Describe(OpLoad, netErr))
	assert.Equal(t, "Could not create task: invalid title: must not be empty", Describe(OpCreate, valErr))
	assert.Equal(t, "Could not update task: API Error: 500", Describe(OpUpdate, apiErr))
	assert.Equal(t, "Could not delete task: API Error: 500", Describe(OpDelete, apiErr))
	assert.Equal(t, "Could not update task status: API Error: 500", Describe(OpToggle, apiErr))
	assert.Equal(t, "Could not send message: API Error: 500", Describe(OpSend, apiErr))
}

func TestDescribeSuccessNotices(t *testing.T) {
	assert.Equal(t, "Task created successfully", Describe(OpCreate, nil))
	assert.Equal(t, "Task updated successfully", Describe(OpUpdate, nil))
	assert.Equal(t, "Task deleted successfully", Describe(OpDelete, nil))
	assert.Equal(t, "Task status updated", Describe(OpToggle, nil))
}
