package domain

import "time"

type TaskID string

// Task is one user-owned unit of work, as served by the remote API.
// The server assigns ID and CreatedAt; the client never invents them.
type Task struct {
	ID          TaskID    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
}

// TaskDraft carries the fields a caller provides when creating a task.
type TaskDraft struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
}

// TaskPatch carries partial updates. Nil fields are left untouched by
// the server.
type TaskPatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (p TaskPatch) Empty() bool {
	return p.Title == nil && p.Description == nil
}
