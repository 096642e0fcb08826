package application

import (
	"fmt"

	"github.com/taskdeck/taskdeck-cli/internal/domain"
)

// Op names a user-facing operation for notification phrasing.
type Op string

const (
	OpLoad   Op = "load"
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
	OpToggle Op = "toggle"
	OpSend   Op = "send"
)

func (o Op) verb() string {
	switch o {
	case OpLoad:
		return "load tasks"
	case OpCreate:
		return "create task"
	case OpUpdate:
		return "update task"
	case OpDelete:
		return "delete task"
	case OpToggle:
		return "update task status"
	case OpSend:
		return "send message"
	default:
		return string(o)
	}
}

func (o Op) successNotice() string {
	switch o {
	case OpCreate:
		return "Task created successfully"
	case OpUpdate:
		return "Task updated successfully"
	case OpDelete:
		return "Task deleted successfully"
	case OpToggle:
		return "Task status updated"
	default:
		return ""
	}
}

// Describe renders the transient notice for a failed operation, keyed
// off the error taxonomy rather than the raw message alone.
func Describe(op Op, err error) string {
	switch {
	case err == nil:
		return op.successNotice()
	case domain.IsValidation(err), domain.IsNetwork(err):
		return fmt.Sprintf("Could not %s: %s", op.verb(), err)
	default:
		if apiErr, ok := domain.AsAPIError(err); ok {
			return fmt.Sprintf("Could not %s: %s", op.verb(), apiErr)
		}
		return fmt.Sprintf("Could not %s: %s", op.verb(), err)
	}
}
