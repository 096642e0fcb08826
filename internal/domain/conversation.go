package domain

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
)

// Turn is one message in a chat conversation. Turns are append-only:
// once in a transcript they are never mutated or removed.
type Turn struct {
	ID        string
	Text      string
	Role      Role
	CreatedAt time.Time
}
