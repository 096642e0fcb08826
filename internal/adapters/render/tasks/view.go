package tasks

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/taskdeck/taskdeck-cli/internal/domain"
)

type RenderOptions struct {
	Now time.Time
	// ShowIDs prints server identifiers next to each task.
	ShowIDs bool
}

func renderView(tasks []domain.Task, opts RenderOptions, s styles) string {
	open := 0
	for _, task := range tasks {
		if !task.Completed {
			open++
		}
	}

	lines := []string{
		s.title.Render("Tasks"),
		s.header.Render(fmt.Sprintf("tasks: %d (%d open)", len(tasks), open)),
	}

	if len(tasks) == 0 {
		lines = append(lines, s.empty.Render("No tasks yet. Add one with `taskdeck task add`."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, task := range tasks {
		lines = append(lines, s.row.Render(renderTask(task, opts, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderTask(task domain.Task, opts RenderOptions, s styles) string {
	marker := s.marker.Render("[ ]")
	title := s.taskTitle.Render(task.Title)
	if task.Completed {
		marker = s.doneMarker.Render("[x]")
		title = s.doneTitle.Render(task.Title)
	}

	line := marker + " " + title
	if opts.ShowIDs {
		line += " " + s.meta.Render(fmt.Sprintf("(%s)", task.ID))
	}

	parts := []string{line}
	if task.Description != nil && strings.TrimSpace(*task.Description) != "" {
		parts = append(parts, "    "+s.description.Render(*task.Description))
	}
	if age := taskAge(task.CreatedAt, opts.Now); age != "" {
		parts = append(parts, "    "+s.meta.Render(age))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func taskAge(createdAt, now time.Time) string {
	if createdAt.IsZero() || now.IsZero() || now.Before(createdAt) {
		return ""
	}

	age := now.Sub(createdAt)
	switch {
	case age < time.Minute:
		return "added just now"
	case age < time.Hour:
		return fmt.Sprintf("added %d minutes ago", int(age.Minutes()))
	case age < 24*time.Hour:
		return fmt.Sprintf("added %d hours ago", int(age.Hours()))
	default:
		return "added " + createdAt.Format("2006-01-02")
	}
}
