package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck-cli/internal/domain"
)

type chatStyles struct {
	title     lipgloss.Style
	userTag   lipgloss.Style
	agentTag  lipgloss.Style
	turnText  lipgloss.Style
	errBanner lipgloss.Style
	hint      lipgloss.Style
}

func newChatStyles() chatStyles {
	return chatStyles{
		title:     lipgloss.NewStyle().Bold(true),
		userTag:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		agentTag:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("135")),
		turnText:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		errBanner: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		hint:      lipgloss.NewStyle().Faint(true),
	}
}

type chatReplyMsg struct {
	err error
}

type chatModel struct {
	app     *app
	baseCtx context.Context
	input   textinput.Model
	spinner spinner.Model
	styles  chatStyles
	// pending counts in-flight sends; the spinner runs while any remain.
	pending int
	quitErr error
}

func newChatModel(baseCtx context.Context, app *app) chatModel {
	input := textinput.New()
	input.Placeholder = "Ask the assistant..."
	input.Prompt = "> "
	input.CharLimit = 500
	input.Focus()

	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)

	return chatModel{
		app:     app,
		baseCtx: baseCtx,
		input:   input,
		spinner: s,
		styles:  newChatStyles(),
	}
}

func (m chatModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			return m.submit()
		}
	case spinner.TickMsg:
		if m.pending == 0 {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case chatReplyMsg:
		m.pending--
		// A rejected credential ends the whole session, not just this send.
		if apiErr, ok := domain.AsAPIError(msg.err); ok && apiErr.IsAuth() {
			m.quitErr = msg.err
			return m, tea.Quit
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit sends the typed text. Sends do not block input: the transcript
// appends in the order responses resolve.
func (m chatModel) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}
	m.input.Reset()
	m.app.chat.ClearErr()
	m.pending++

	send := func() tea.Msg {
		ctx, cancel := context.WithTimeout(m.baseCtx, m.app.chatTimeout)
		defer cancel()

		_, err := m.app.chat.Send(ctx, text)
		return chatReplyMsg{err: err}
	}

	return m, tea.Batch(m.spinner.Tick, send)
}

func (m chatModel) View() string {
	lines := []string{
		m.styles.title.Render("Task Assistant"),
		"",
	}

	for _, turn := range m.app.chat.Transcript() {
		lines = append(lines, m.renderTurn(turn))
	}

	if m.pending > 0 {
		lines = append(lines, fmt.Sprintf("%s %s", m.spinner.View(), m.styles.hint.Render("thinking...")))
	}

	if err := m.app.chat.Err(); err != nil {
		lines = append(lines, m.styles.errBanner.Render("! "+err.Error()))
	}

	lines = append(lines, "", m.input.View(), m.styles.hint.Render("enter to send, esc to leave"))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m chatModel) renderTurn(turn domain.Turn) string {
	tag := m.styles.userTag.Render("you")
	if turn.Role == domain.RoleAgent {
		tag = m.styles.agentTag.Render("assistant")
	}

	return fmt.Sprintf("%s %s", tag, m.styles.turnText.Render(turn.Text))
}

func runChatTUI(cmd *cobra.Command, app *app) (chatModel, error) {
	p := tea.NewProgram(
		newChatModel(cmd.Context(), app),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)

	finalModel, err := p.Run()
	if err != nil {
		return chatModel{}, err
	}

	model, ok := finalModel.(chatModel)
	if !ok {
		return chatModel{}, fmt.Errorf("unexpected final chat model type %T", finalModel)
	}

	return model, nil
}
