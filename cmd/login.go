package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck-cli/internal/domain"
)

// Credential issuance is the auth provider's job; login only stores
// what it handed out.
func newLoginCmd(app *app) *cobra.Command {
	var userID, token, email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store an issued API credential",
		Long:  "login saves the bearer token and user id issued by the authentication provider. The token can also be supplied through the TASKDECK_TOKEN environment variable.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app.bind(cmd)

			if token == "" {
				token = os.Getenv("TASKDECK_TOKEN")
			}
			token = strings.TrimSpace(token)
			if token == "" {
				return errors.New("a token is required (use --token or TASKDECK_TOKEN)")
			}

			session := domain.Session{
				UserID:  strings.TrimSpace(userID),
				Token:   token,
				Email:   strings.TrimSpace(email),
				SavedAt: app.now(),
			}
			if err := app.sessions.Save(cmd.Context(), session); err != nil {
				return fmt.Errorf("save session: %w", err)
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s.\n", session.UserID)
			return err
		},
	}

	cmd.Flags().StringVar(&userID, "user-id", "", "User identifier issued with the credential")
	cmd.Flags().StringVar(&token, "token", "", "Bearer token (defaults to TASKDECK_TOKEN)")
	cmd.Flags().StringVar(&email, "email", "", "Account email, shown by whoami")
	_ = cmd.MarkFlagRequired("user-id")

	return cmd
}

func newLogoutCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored credential",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app.bind(cmd)

			if err := app.sessions.Clear(cmd.Context()); err != nil {
				return fmt.Errorf("clear session: %w", err)
			}

			_, err := fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return err
		},
	}
}

func newWhoamiCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in identity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app.bind(cmd)

			session, err := app.sessions.Current(cmd.Context())
			if err != nil {
				if errors.Is(err, domain.ErrNoSession) {
					return errors.New("not signed in. Run `taskdeck login` first")
				}
				return fmt.Errorf("read session: %w", err)
			}

			if session.Email != "" {
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", session.UserID, session.Email)
			} else {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), session.UserID)
			}
			return err
		},
	}
}
