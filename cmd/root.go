package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "taskdeck",
		Short:         "taskdeck: manage your tasks and chat with the assistant from the terminal",
		Long:          "taskdeck is a terminal client for the Task Management API. It keeps a local view of your tasks in sync with the server, and embeds the natural-language assistant that can create and modify tasks for you.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newLoginCmd(app),
		newLogoutCmd(app),
		newWhoamiCmd(app),
		newTaskCmd(app),
		newChatCmd(app),
	)

	return rootCmd
}
