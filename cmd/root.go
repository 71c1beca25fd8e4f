// Copyright (c) 2025 Forcedlogin
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for forcedlogin.
// It signs the user in to Microsoft Entra ID, keeps the session fresh and shows
// the signed-in profile and related people from Microsoft Graph, using the
// Cobra CLI framework with pterm for terminal output.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"forcedlogin/cli/internal/config"
	"forcedlogin/cli/internal/logging"
)

var (
	showVersion bool

	// cfg is loaded once per invocation before any subcommand runs.
	cfg config.Config
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:           "forcedlogin",
	Short:         "Sign in to Microsoft Entra ID and inspect your profile",
	Long:          `forcedlogin signs you in to Microsoft Entra ID, keeps the session fresh and shows your Microsoft Graph profile.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = c
		logging.Setup(cfg.LogLevel, nil)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			fmt.Printf("forcedlogin %s\n", Version)
			return nil
		}
		return cmd.Help()
	},
}

// Execute runs the CLI application.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, logging.Mask(err.Error()))
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show CLI version information")
}
