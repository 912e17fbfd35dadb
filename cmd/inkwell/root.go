package main

import (
	"github.com/spf13/cobra"

	"github.com/inkwell-app/inkwell/internal/api"
	"github.com/inkwell-app/inkwell/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "inkwell",
	Short: "Task scheduler for illustrated, translated, and animated novels",
	Long: `Inkwell turns imported novels into illustrated, translated, and
animated reading content.

Each book carries three generation tracks:
  - illustration    - scene images rendered per chunk of chapter lines
  - translation     - line-by-line translation into the target language
  - videoGeneration - short clips animated from finished illustrations

Tracks are queued per book, run one at a time by default, and survive
restarts: interrupted work comes back paused with its chunk progress
intact.`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.inkwell/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "inkwell home directory (default: ~/.inkwell)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		api.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
}
