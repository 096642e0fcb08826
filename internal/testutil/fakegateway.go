// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/taskdeck/taskdeck-cli/internal/domain"
	"github.com/taskdeck/taskdeck-cli/internal/ports"
)

// RecordedRequest captures one call that reached the fake gateway.
type RecordedRequest struct {
	Method   string
	Endpoint string
	Body     json.RawMessage
}

// FakeGateway is an in-memory stand-in for the remote task service.
// It implements the server's documented semantics closely enough for
// coordinator tests: server-assigned ids and timestamps, toggle via the
// dedicated endpoint, and a chat endpoint that issues a session id on
// the first exchange.
type FakeGateway struct {
	mu       sync.Mutex
	tasks    []domain.Task
	nextID   int
	requests []RecordedRequest

	// Error injection. ListFailures fails that many list calls with a
	// NetworkError before succeeding; the *Err fields fail every call.
	ListFailures int
	ListErr      error
	CreateErr    error
	UpdateErr    error
	DeleteErr    error
	ToggleErr    error
	ChatErr      error

	// ChatSessionID is issued with every chat reply.
	ChatSessionID string
	// ChatReply builds the assistant text; defaults to echoing.
	ChatReply func(message, sessionID string) string
}

var _ ports.Gateway = (*FakeGateway)(nil)

func NewFakeGateway() *FakeGateway {
	return &FakeGateway{ChatSessionID: "sess-1"}
}

func (f *FakeGateway) Request(ctx context.Context, method, endpoint string, body any) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	encoded, err := encodeBody(body)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests = append(f.requests, RecordedRequest{Method: method, Endpoint: endpoint, Body: encoded})

	switch {
	case method == http.MethodGet && endpoint == "/tasks":
		return f.list()
	case method == http.MethodPost && endpoint == "/tasks":
		return f.create(encoded)
	case method == http.MethodPost && endpoint == "/chat":
		return f.chat(encoded)
	case method == http.MethodPatch && strings.HasSuffix(endpoint, "/complete"):
		return f.toggle(taskIDFromEndpoint(endpoint))
	case method == http.MethodPut && strings.HasPrefix(endpoint, "/tasks/"):
		return f.update(taskIDFromEndpoint(endpoint), encoded)
	case method == http.MethodDelete && strings.HasPrefix(endpoint, "/tasks/"):
		return f.delete(taskIDFromEndpoint(endpoint))
	default:
		return nil, &domain.APIError{Status: http.StatusNotFound, Message: "Not Found"}
	}
}

// Requests returns every call recorded so far.
func (f *FakeGateway) Requests() []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()

	requests := make([]RecordedRequest, len(f.requests))
	copy(requests, f.requests)
	return requests
}

// RequestCount counts recorded calls matching method and endpoint
// prefix.
func (f *FakeGateway) RequestCount(method, endpointPrefix string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	count := 0
	for _, r := range f.requests {
		if r.Method == method && strings.HasPrefix(r.Endpoint, endpointPrefix) {
			count++
		}
	}
	return count
}

// SeedTask inserts a task directly, bypassing the API surface.
func (f *FakeGateway) SeedTask(task domain.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, task)
}

// TaskSnapshot returns the fake's server-side state.
func (f *FakeGateway) TaskSnapshot() []domain.Task {
	f.mu.Lock()
	defer f.mu.Unlock()

	tasks := make([]domain.Task, len(f.tasks))
	copy(tasks, f.tasks)
	return tasks
}

func (f *FakeGateway) list() (json.RawMessage, error) {
	if f.ListFailures > 0 {
		f.ListFailures--
		return nil, &domain.NetworkError{Err: fmt.Errorf("injected transport failure")}
	}
	if f.ListErr != nil {
		return nil, f.ListErr
	}

	return marshal(f.tasks)
}

func (f *FakeGateway) create(body json.RawMessage) (json.RawMessage, error) {
	if f.CreateErr != nil {
		return nil, f.CreateErr
	}

	var draft domain.TaskDraft
	if err := json.Unmarshal(body, &draft); err != nil {
		return nil, &domain.APIError{Status: http.StatusUnprocessableEntity, Message: "invalid body"}
	}
	if strings.TrimSpace(draft.Title) == "" {
		return nil, &domain.APIError{Status: http.StatusUnprocessableEntity, Message: "title must not be empty"}
	}

	f.nextID++
	task := domain.Task{
		ID:          domain.TaskID(fmt.Sprintf("task-%d", f.nextID)),
		UserID:      "user-1",
		Title:       draft.Title,
		Description: draft.Description,
		Completed:   false,
		CreatedAt:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(f.nextID) * time.Minute),
	}
	f.tasks = append(f.tasks, task)

	return marshal(task)
}

func (f *FakeGateway) update(id string, body json.RawMessage) (json.RawMessage, error) {
	if f.UpdateErr != nil {
		return nil, f.UpdateErr
	}

	var patch domain.TaskPatch
	if err := json.Unmarshal(body, &patch); err != nil {
		return nil, &domain.APIError{Status: http.StatusUnprocessableEntity, Message: "invalid body"}
	}

	for i := range f.tasks {
		if string(f.tasks[i].ID) != id {
			continue
		}
		if patch.Title != nil {
			f.tasks[i].Title = *patch.Title
		}
		if patch.Description != nil {
			f.tasks[i].Description = patch.Description
		}
		return marshal(f.tasks[i])
	}

	return nil, &domain.APIError{Status: http.StatusNotFound, Message: "Task not found"}
}

func (f *FakeGateway) delete(id string) (json.RawMessage, error) {
	if f.DeleteErr != nil {
		return nil, f.DeleteErr
	}

	for i := range f.tasks {
		if string(f.tasks[i].ID) == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil, nil // 204
		}
	}

	return nil, &domain.APIError{Status: http.StatusNotFound, Message: "Task not found"}
}

func (f *FakeGateway) toggle(id string) (json.RawMessage, error) {
	if f.ToggleErr != nil {
		return nil, f.ToggleErr
	}

	for i := range f.tasks {
		if string(f.tasks[i].ID) == id {
			f.tasks[i].Completed = !f.tasks[i].Completed
			return marshal(f.tasks[i])
		}
	}

	return nil, &domain.APIError{Status: http.StatusNotFound, Message: "Task not found"}
}

func (f *FakeGateway) chat(body json.RawMessage) (json.RawMessage, error) {
	if f.ChatErr != nil {
		return nil, f.ChatErr
	}

	var request struct {
		Message   string `json:"message"`
		SessionID string `json:"session_id"`
	}
	if err := json.Unmarshal(body, &request); err != nil {
		return nil, &domain.APIError{Status: http.StatusUnprocessableEntity, Message: "invalid body"}
	}

	reply := f.ChatReply
	if reply == nil {
		reply = func(message, _ string) string { return "You said: " + message }
	}

	sessionID := request.SessionID
	if sessionID == "" {
		sessionID = f.ChatSessionID
	}

	return marshal(map[string]string{
		"message_text": reply(request.Message, request.SessionID),
		"session_id":   sessionID,
	})
}

func taskIDFromEndpoint(endpoint string) string {
	trimmed := strings.TrimPrefix(endpoint, "/tasks/")
	trimmed = strings.TrimSuffix(trimmed, "/complete")
	return trimmed
}

func encodeBody(body any) (json.RawMessage, error) {
	if body == nil {
		return nil, nil
	}
	if raw, ok := body.([]byte); ok {
		return json.RawMessage(raw), nil
	}

	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode fake request body: %w", err)
	}
	return json.RawMessage(encoded), nil
}

func marshal(v any) (json.RawMessage, error) {
	encoded, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode fake response: %w", err)
	}
	return json.RawMessage(encoded), nil
}
