package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck-cli/internal/domain"
)

func newChatCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat [message]",
		Short: "Talk to the task assistant",
		Long:  "chat sends one message to the assistant when given an argument, or starts an interactive conversation when run without one. The assistant can create and modify tasks; run `taskdeck task list` afterwards to see its changes.",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.bind(cmd)

			if len(args) > 0 {
				return runChatOnce(cmd, app, strings.Join(args, " "))
			}
			return runChatSession(cmd, app)
		},
	}

	return cmd
}

func runChatOnce(cmd *cobra.Command, app *app, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return &domain.ValidationError{Field: "message", Reason: "must not be empty"}
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), app.chatTimeout)
	defer cancel()

	var reply domain.Turn
	err := runSendSpinner(ctx, cmd.ErrOrStderr(), func(ctx context.Context) error {
		var sendErr error
		reply, sendErr = app.chat.Send(ctx, text)
		return sendErr
	})
	if err != nil {
		return err
	}

	// The assistant may have changed tasks as a side effect.
	app.tasks.Invalidate()

	_, err = fmt.Fprintln(cmd.OutOrStdout(), reply.Text)
	return err
}

func runChatSession(cmd *cobra.Command, app *app) error {
	model, err := runChatTUI(cmd, app)
	if err != nil {
		return err
	}

	app.tasks.Invalidate()

	if model.quitErr != nil {
		return model.quitErr
	}
	return nil
}
