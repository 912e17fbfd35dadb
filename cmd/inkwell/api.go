package main

import (
	"github.com/spf13/cobra"

	"github.com/inkwell-app/inkwell/internal/server/endpoints"
)

var serverURL string

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Commands that call the running server",
	Long: `API commands call the running Inkwell server via HTTP.

These commands require a running server (inkwell serve).
Use --server to specify a custom server URL.

Examples:
  inkwell api health                                # Check server health
  inkwell api tasks list                            # List task entries
  inkwell api tasks enqueue <book_id> --track translation
  inkwell api tasks pause <book_id> --track illustration
  inkwell api tasks resume-all                      # Resume everything paused`,
}

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Task lifecycle commands",
}

var booksCmd = &cobra.Command{
	Use:   "books",
	Short: "Book library commands",
}

// getServerURL returns the server URL at runtime (after flag parsing).
func getServerURL() string {
	return serverURL
}

func init() {
	// Add --server flag to api command (persistent so all subcommands inherit it)
	apiCmd.PersistentFlags().StringVar(
		&serverURL, "server", "http://localhost:8080", "Server URL",
	)

	// Health at top level of api
	apiCmd.AddCommand((&endpoints.HealthEndpoint{}).Command(getServerURL))

	// Tasks as subcommand group
	tasksCmd.AddCommand((&endpoints.ListTasksEndpoint{}).Command(getServerURL))
	tasksCmd.AddCommand((&endpoints.GetTaskEndpoint{}).Command(getServerURL))
	tasksCmd.AddCommand((&endpoints.EnqueueEndpoint{}).Command(getServerURL))
	tasksCmd.AddCommand((&endpoints.PauseEndpoint{}).Command(getServerURL))
	tasksCmd.AddCommand((&endpoints.ResumeEndpoint{}).Command(getServerURL))
	tasksCmd.AddCommand((&endpoints.ResumeAllEndpoint{}).Command(getServerURL))
	tasksCmd.AddCommand((&endpoints.CancelEndpoint{}).Command(getServerURL))
	tasksCmd.AddCommand((&endpoints.RetryEndpoint{}).Command(getServerURL))
	tasksCmd.AddCommand((&endpoints.DeleteEndpoint{}).Command(getServerURL))
	tasksCmd.AddCommand((&endpoints.ClearCompletedEndpoint{}).Command(getServerURL))

	// Books as subcommand group
	booksCmd.AddCommand((&endpoints.ImportBookEndpoint{}).Command(getServerURL))
	booksCmd.AddCommand((&endpoints.ListBooksEndpoint{}).Command(getServerURL))
	booksCmd.AddCommand((&endpoints.GetBookEndpoint{}).Command(getServerURL))
	booksCmd.AddCommand((&endpoints.DeleteBookEndpoint{}).Command(getServerURL))

	apiCmd.AddCommand(tasksCmd)
	apiCmd.AddCommand(booksCmd)
	rootCmd.AddCommand(apiCmd)
}
