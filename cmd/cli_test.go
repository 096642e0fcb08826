package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck-cli/internal/domain"
)

func TestVersionCommand(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "taskdeck")
}

func TestLoginWhoamiLogout(t *testing.T) {
	home := t.TempDir()

	stdout, _, err := executeCLI(t, home, "login", "--user-id", "user-1", "--token", "tok-abc", "--email", "user@example.com")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Signed in as user-1.")

	stdout, _, err = executeCLI(t, home, "whoami")
	require.NoError(t, err)
	assert.Contains(t, stdout, "user-1 (user@example.com)")

	stdout, _, err = executeCLI(t, home, "logout")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Signed out.")

	_, _, err = executeCLI(t, home, "whoami")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not signed in")
}

func TestLoginRequiresToken(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "login", "--user-id", "user-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token is required")
}

func TestTaskAddAndList(t *testing.T) {
	fixture := newTaskAPIFixture(t)
	home := t.TempDir()
	signIn(t, home)

	_, stderr, err := executeCLI(t, home, "task", "add", "Buy milk", "--description", "semi-skimmed")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Task created successfully")

	stdout, _, err := executeCLI(t, home, "task", "list", "--json")
	require.NoError(t, err)

	var tasks []domain.Task
	require.NoError(t, json.Unmarshal([]byte(stdout), &tasks))
	require.Len(t, tasks, 1)
	assert.Equal(t, "Buy milk", tasks[0].Title)
	require.NotNil(t, tasks[0].Description)
	assert.Equal(t, "semi-skimmed", *tasks[0].Description)
	assert.False(t, tasks[0].Completed)

	assert.Equal(t, "Bearer tok-abc", fixture.lastAuth())
	assert.True(t, strings.HasPrefix(fixture.lastPath(), "/api/user-1/tasks"))
}

func TestTaskListRendersView(t *testing.T) {
	fixture := newTaskAPIFixture(t)
	fixture.seed(domain.Task{ID: "task-1", UserID: "user-1", Title: "Walk the dog"})
	home := t.TempDir()
	signIn(t, home)

	stdout, _, err := executeCLI(t, home, "task", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "tasks: 1 (1 open)")
	assert.Contains(t, stdout, "Walk the dog")
}

func TestTaskDoneThenRemove(t *testing.T) {
	newTaskAPIFixture(t)
	home := t.TempDir()
	signIn(t, home)

	_, _, err := executeCLI(t, home, "task", "add", "A")
	require.NoError(t, err)

	stdout, _, err := executeCLI(t, home, "task", "list", "--json")
	require.NoError(t, err)
	var tasks []domain.Task
	require.NoError(t, json.Unmarshal([]byte(stdout), &tasks))
	require.Len(t, tasks, 1)
	id := string(tasks[0].ID)

	_, stderr, err := executeCLI(t, home, "task", "done", id)
	require.NoError(t, err)
	assert.Contains(t, stderr, "Task status updated")

	stdout, _, err = executeCLI(t, home, "task", "list", "--json")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(stdout), &tasks))
	require.Len(t, tasks, 1)
	assert.True(t, tasks[0].Completed)

	_, stderr, err = executeCLI(t, home, "task", "rm", id)
	require.NoError(t, err)
	assert.Contains(t, stderr, "Task deleted successfully")

	stdout, _, err = executeCLI(t, home, "task", "list", "--json")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(stdout), &tasks))
	assert.Empty(t, tasks)
}

func TestBlankTitleNeverReachesTheServer(t *testing.T) {
	fixture := newTaskAPIFixture(t)
	home := t.TempDir()
	signIn(t, home)

	_, stderr, err := executeCLI(t, home, "task", "add", "   ")
	require.Error(t, err)
	assert.Contains(t, stderr, "Could not create task")
	assert.Zero(t, fixture.requestCount())
}

func TestUnauthorizedClearsStoredSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = fmt.Fprint(w, `{"detail":"Could not validate credentials"}`)
	}))
	defer server.Close()
	t.Setenv("TASKDECK_BASE_URL", server.URL)

	home := t.TempDir()
	signIn(t, home)

	_, stderr, err := executeCLI(t, home, "task", "list")
	require.Error(t, err)
	assert.Contains(t, stderr, "Session expired")

	_, _, err = executeCLI(t, home, "whoami")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not signed in")
}

func TestChatOneShotPrintsReply(t *testing.T) {
	var gotBody struct {
		Message   string  `json:"message"`
		SessionID *string `json:"session_id"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = fmt.Fprint(w, `{"message_text":"Created task 'Buy milk' for you.","session_id":"sess-9"}`)
	}))
	defer server.Close()
	t.Setenv("TASKDECK_BASE_URL", server.URL)

	home := t.TempDir()
	signIn(t, home)

	stdout, _, err := executeCLI(t, home, "chat", "add a task to buy milk")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Created task 'Buy milk' for you.")
	assert.Equal(t, "add a task to buy milk", gotBody.Message)
	assert.Nil(t, gotBody.SessionID, "a fresh conversation carries no session id")
}

func TestChatRejectsBlankMessage(t *testing.T) {
	fixture := newTaskAPIFixture(t)
	home := t.TempDir()
	signIn(t, home)

	_, _, err := executeCLI(t, home, "chat", "   ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid message")
	assert.Zero(t, fixture.requestCount())
}

func executeCLI(t *testing.T, home string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", home)

	root := newRootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func signIn(t *testing.T, home string) {
	t.Helper()
	_, _, err := executeCLI(t, home, "login", "--user-id", "user-1", "--token", "tok-abc")
	require.NoError(t, err)
}

// taskAPIFixture is a minimal in-memory rendition of the remote task
// service contract.
type taskAPIFixture struct {
	mu     sync.Mutex
	tasks  []domain.Task
	nextID int
	count  int
	auth   string
	path   string
}

func newTaskAPIFixture(t *testing.T) *taskAPIFixture {
	t.Helper()

	fixture := &taskAPIFixture{}
	server := httptest.NewServer(http.HandlerFunc(fixture.handle))
	t.Cleanup(server.Close)
	t.Setenv("TASKDECK_BASE_URL", server.URL)

	return fixture
}

func (f *taskAPIFixture) handle(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.count++
	f.auth = r.Header.Get("Authorization")
	f.path = r.URL.Path

	rest, ok := strings.CutPrefix(r.URL.Path, "/api/user-1/tasks")
	if !ok {
		http.NotFound(w, r)
		return
	}

	switch {
	case rest == "" && r.Method == http.MethodGet:
		writeJSON(w, http.StatusOK, f.tasks)
	case rest == "" && r.Method == http.MethodPost:
		var draft domain.TaskDraft
		_ = json.NewDecoder(r.Body).Decode(&draft)
		f.nextID++
		task := domain.Task{
			ID:          domain.TaskID(fmt.Sprintf("task-%d", f.nextID)),
			UserID:      "user-1",
			Title:       draft.Title,
			Description: draft.Description,
		}
		f.tasks = append(f.tasks, task)
		writeJSON(w, http.StatusCreated, task)
	case strings.HasSuffix(rest, "/complete") && r.Method == http.MethodPatch:
		id := strings.TrimSuffix(strings.TrimPrefix(rest, "/"), "/complete")
		for i := range f.tasks {
			if string(f.tasks[i].ID) == id {
				f.tasks[i].Completed = !f.tasks[i].Completed
				writeJSON(w, http.StatusOK, f.tasks[i])
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Task not found"})
	case r.Method == http.MethodDelete:
		id := strings.TrimPrefix(rest, "/")
		for i := range f.tasks {
			if string(f.tasks[i].ID) == id {
				f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Task not found"})
	case r.Method == http.MethodPut:
		id := strings.TrimPrefix(rest, "/")
		var patch domain.TaskPatch
		_ = json.NewDecoder(r.Body).Decode(&patch)
		for i := range f.tasks {
			if string(f.tasks[i].ID) == id {
				if patch.Title != nil {
					f.tasks[i].Title = *patch.Title
				}
				if patch.Description != nil {
					f.tasks[i].Description = patch.Description
				}
				writeJSON(w, http.StatusOK, f.tasks[i])
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Task not found"})
	default:
		http.NotFound(w, r)
	}
}

func (f *taskAPIFixture) seed(task domain.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, task)
}

func (f *taskAPIFixture) requestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.count
}

func (f *taskAPIFixture) lastAuth() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.auth
}

func (f *taskAPIFixture) lastPath() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.path
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
