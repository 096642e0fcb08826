package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/taskdeck/taskdeck-cli/internal/domain"
	"github.com/taskdeck/taskdeck-cli/internal/ports"
)

// ChatService owns one conversation with the remote assistant. The
// transcript is append-only: a user turn is recorded at send time and
// survives a failed call, because it was genuinely sent. The server
// issues a session id on the first exchange; once bound it accompanies
// every later send so the assistant keeps multi-turn context.
type ChatService struct {
	gateway  ports.Gateway
	clock    ports.Clock
	notifier ports.Notifier
	newID    func() string

	mu        sync.Mutex
	turns     []domain.Turn
	sessionID string
	lastErr   error
}

func NewChatService(gateway ports.Gateway, clock ports.Clock, notifier ports.Notifier) *ChatService {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if notifier == nil {
		notifier = ports.NopNotifier{}
	}

	return &ChatService{
		gateway:  gateway,
		clock:    clock,
		notifier: notifier,
		newID:    uuid.NewString,
	}
}

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

type chatReply struct {
	MessageText string `json:"message_text"`
	SessionID   string `json:"session_id"`
}

// Send forwards text to the assistant and returns the agent turn.
// Callers validate that text is non-empty; it is not re-checked here.
func (s *ChatService) Send(ctx context.Context, text string) (domain.Turn, error) {
	s.mu.Lock()
	s.turns = append(s.turns, domain.Turn{
		ID:        s.newID(),
		Text:      text,
		Role:      domain.RoleUser,
		CreatedAt: s.clock.Now(),
	})
	request := chatRequest{Message: text, SessionID: s.sessionID}
	s.mu.Unlock()

	raw, err := s.gateway.Request(ctx, http.MethodPost, "/chat", request)
	if err != nil {
		return domain.Turn{}, s.fail(err)
	}
	if raw == nil {
		return domain.Turn{}, s.fail(errors.New("empty reply from assistant"))
	}

	var reply chatReply
	if err := json.Unmarshal(raw, &reply); err != nil {
		return domain.Turn{}, s.fail(fmt.Errorf("decode reply: %w", err))
	}

	// Append order follows resolution order; the server is the
	// ordering authority for conversation context.
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sessionID == "" && reply.SessionID != "" {
		s.sessionID = reply.SessionID
	}

	agent := domain.Turn{
		ID:        s.newID(),
		Text:      reply.MessageText,
		Role:      domain.RoleAgent,
		CreatedAt: s.clock.Now(),
	}
	s.turns = append(s.turns, agent)
	s.lastErr = nil

	return agent, nil
}

// Transcript returns a copy of the conversation so far.
func (s *ChatService) Transcript() []domain.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	transcript := make([]domain.Turn, len(s.turns))
	copy(transcript, s.turns)
	return transcript
}

// SessionID returns the bound conversation id, empty before the first
// successful exchange.
func (s *ChatService) SessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionID
}

// Active reports whether a server session has been bound.
func (s *ChatService) Active() bool { return s.SessionID() != "" }

// Err returns the error slot for this conversation.
func (s *ChatService) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// ClearErr empties the error slot without touching the transcript; the
// caller may clear independently of retrying.
func (s *ChatService) ClearErr() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = nil
}

// fail fills the error slot and raises the transient send notice,
// unless the gateway's forced sign-out already spoke for this error.
func (s *ChatService) fail(err error) error {
	wrapped := fmt.Errorf("send message: %w", err)

	s.mu.Lock()
	s.lastErr = wrapped
	s.mu.Unlock()

	if apiErr, ok := domain.AsAPIError(err); !ok || !apiErr.IsAuth() {
		s.notifier.Notify(ports.NoticeError, Describe(OpSend, err))
	}

	return wrapped
}
