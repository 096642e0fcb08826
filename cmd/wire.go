package cmd

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/taskdeck/taskdeck-cli/internal/adapters/api"
	"github.com/taskdeck/taskdeck-cli/internal/adapters/session/tomlstore"
	"github.com/taskdeck/taskdeck-cli/internal/application"
	"github.com/taskdeck/taskdeck-cli/internal/ports"
)

const (
	defaultBaseURL     = "http://localhost:8000"
	defaultChatTimeout = 30 * time.Second
)

type app struct {
	sessions    ports.SessionStore
	tasks       *application.TaskService
	chat        *application.ChatService
	notices     *noticePrinter
	chatTimeout time.Duration
	now         func() time.Time
}

func wireApp() (*app, error) {
	sessions, err := tomlstore.NewStore(viper.New())
	if err != nil {
		return nil, fmt.Errorf("wire session store: %w", err)
	}

	notices := &noticePrinter{out: os.Stderr}

	gateway := api.NewClient(envOrDefault("TASKDECK_BASE_URL", defaultBaseURL), sessions, api.Options{
		Timeout: envDuration("TASKDECK_TIMEOUT", api.DefaultTimeout),
		OnAuthReject: func(notice string) {
			notices.Notify(ports.NoticeError, notice)
		},
	})

	return &app{
		sessions:    sessions,
		tasks:       application.NewTaskService(gateway, notices),
		chat:        application.NewChatService(gateway, ports.SystemClock{}, notices),
		notices:     notices,
		chatTimeout: envDuration("TASKDECK_CHAT_TIMEOUT", defaultChatTimeout),
		now:         time.Now,
	}, nil
}

// bind points transient notices at the running command's stderr.
func (a *app) bind(cmd *cobra.Command) {
	a.notices.setOutput(cmd.ErrOrStderr())
}

type noticePrinter struct {
	mu  sync.Mutex
	out io.Writer
}

var _ ports.Notifier = (*noticePrinter)(nil)

func (n *noticePrinter) Notify(level ports.NoticeLevel, message string) {
	if message == "" {
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if level == ports.NoticeError {
		fmt.Fprintln(n.out, "!", message)
		return
	}
	fmt.Fprintln(n.out, message)
}

func (n *noticePrinter) setOutput(out io.Writer) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.out = out
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	parsed, err := time.ParseDuration(value)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}
