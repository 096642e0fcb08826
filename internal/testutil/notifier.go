package testutil

import (
	"sync"

	"github.com/taskdeck/taskdeck-cli/internal/ports"
)

// Notice is one captured notification.
type Notice struct {
	Level   ports.NoticeLevel
	Message string
}

// RecordingNotifier captures notices for assertions.
type RecordingNotifier struct {
	mu      sync.Mutex
	notices []Notice
}

var _ ports.Notifier = (*RecordingNotifier)(nil)

func (r *RecordingNotifier) Notify(level ports.NoticeLevel, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, Notice{Level: level, Message: message})
}

func (r *RecordingNotifier) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()

	notices := make([]Notice, len(r.notices))
	copy(notices, r.notices)
	return notices
}

// Messages returns just the notice texts, in order.
func (r *RecordingNotifier) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	messages := make([]string, 0, len(r.notices))
	for _, n := range r.notices {
		messages = append(messages, n.Message)
	}
	return messages
}
