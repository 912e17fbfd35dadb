package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inkwell-app/inkwell/internal/config"
	"github.com/inkwell-app/inkwell/internal/home"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage inkwell configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file to the inkwell home directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := home.New(homeDir)
		if err != nil {
			return err
		}
		if err := dir.EnsureExists(); err != nil {
			return err
		}

		force, _ := cmd.Flags().GetBool("force")
		if dir.ConfigExists() && !force {
			return fmt.Errorf("config file already exists at %s (use --force to overwrite)", dir.ConfigPath())
		}

		if err := config.WriteDefault(dir.ConfigPath()); err != nil {
			return err
		}

		fmt.Printf("Wrote default config to %s\n", dir.ConfigPath())
		return nil
	},
}

func init() {
	configInitCmd.Flags().Bool("force", false, "overwrite an existing config file")
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
