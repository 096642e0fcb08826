package tasks

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck-cli/internal/domain"
)

func TestRenderTaskList(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	desc := "semi-skimmed"

	output, err := Render([]domain.Task{
		{
			ID:          "task-1",
			Title:       "Buy milk",
			Description: &desc,
			Completed:   false,
			CreatedAt:   now.Add(-30 * time.Minute),
		},
		{
			ID:        "task-2",
			Title:     "Walk the dog",
			Completed: true,
			CreatedAt: now.Add(-3 * 24 * time.Hour),
		},
	}, RenderOptions{Now: now, ShowIDs: true})

	require.NoError(t, err)
	assert.Contains(t, output, "Tasks")
	assert.Contains(t, output, "tasks: 2 (1 open)")
	assert.Contains(t, output, "[ ] Buy milk")
	assert.Contains(t, output, "[x] Walk the dog")
	assert.Contains(t, output, "semi-skimmed")
	assert.Contains(t, output, "(task-1)")
	assert.Contains(t, output, "added 30 minutes ago")
	assert.Contains(t, output, "added 2026-02-26")
}

func TestRenderEmptyList(t *testing.T) {
	output, err := Render(nil, RenderOptions{Now: time.Now()})

	require.NoError(t, err)
	assert.Contains(t, output, "tasks: 0 (0 open)")
	assert.Contains(t, output, "No tasks yet")
}

func TestRenderHidesIDsByDefault(t *testing.T) {
	output, err := Render([]domain.Task{
		{ID: "task-1", Title: "Buy milk"},
	}, RenderOptions{Now: time.Now()})

	require.NoError(t, err)
	assert.NotContains(t, output, "task-1")
}
