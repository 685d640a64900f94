package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand builds the corpctl command tree. The app is wired
// lazily so commands like help and completion work without a backend.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "corpctl",
		Short:         "Command line client for the CorpSuite backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newLoginCommand(),
		newRegisterCommand(),
		newLogoutCommand(),
		newWhoamiCommand(),
		newVerifyCommand(),
		newProfileCommand(),
		newToolsCommand(),
		newChatCommand(),
		newAdminCommand(),
	)

	return root
}

// withApp wires the app for a command run and tears it down after.
func withApp(run func(cmd *cobra.Command, args []string, app *App) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		app, err := NewApp()
		if err != nil {
			return err
		}
		defer app.Close()
		return run(cmd, args, app)
	}
}
