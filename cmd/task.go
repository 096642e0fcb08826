package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	renderadapter "github.com/taskdeck/taskdeck-cli/internal/adapters/render/tasks"
	"github.com/taskdeck/taskdeck-cli/internal/domain"
)

func newTaskCmd(app *app) *cobra.Command {
	taskCmd := &cobra.Command{
		Use:   "task",
		Short: "Manage your tasks",
	}

	taskCmd.AddCommand(
		newTaskListCmd(app),
		newTaskAddCmd(app),
		newTaskEditCmd(app),
		newTaskDoneCmd(app),
		newTaskRemoveCmd(app),
	)

	return taskCmd
}

func newTaskListCmd(app *app) *cobra.Command {
	var asJSON bool
	var showIDs bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app.bind(cmd)

			tasks, err := app.tasks.Tasks(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(tasks)
			}

			rendered, err := renderadapter.Render(tasks, renderadapter.RenderOptions{
				Now:     app.now(),
				ShowIDs: showIDs,
			})
			if err != nil {
				return fmt.Errorf("render tasks: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")
	cmd.Flags().BoolVar(&showIDs, "ids", false, "Show task identifiers")

	return cmd
}

func newTaskAddCmd(app *app) *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a new task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app.bind(cmd)

			title := strings.Join(args, " ")
			var desc *string
			if cmd.Flags().Changed("description") {
				desc = &description
			}

			return app.tasks.Create(cmd.Context(), title, desc)
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Task description")

	return cmd
}

func newTaskEditCmd(app *app) *cobra.Command {
	var title, description string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Update a task's title or description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app.bind(cmd)

			var patch domain.TaskPatch
			if cmd.Flags().Changed("title") {
				patch.Title = &title
			}
			if cmd.Flags().Changed("description") {
				patch.Description = &description
			}

			return app.tasks.Update(cmd.Context(), domain.TaskID(args[0]), patch)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "New description")

	return cmd
}

func newTaskDoneCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Toggle a task's completed state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app.bind(cmd)
			return app.tasks.ToggleCompletion(cmd.Context(), domain.TaskID(args[0]))
		},
	}
}

func newTaskRemoveCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove", "delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app.bind(cmd)
			return app.tasks.Delete(cmd.Context(), domain.TaskID(args[0]))
		},
	}
}
