// Copyright (c) 2025 Forcedlogin
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// logoutCmd forgets the account at the provider and clears every local trace of it.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and remove the cached account and profile",
	Long: `The logout command signs you out. It asks the identity provider library to forget
the cached account (best-effort), clears the session, removes the cached profile and
deletes the token cache from the OS keychain.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApplication(cfg)
		if err != nil {
			return err
		}
		defer app.Close()

		app.sessions.Logout(cmd.Context())

		// Always clear local credentials regardless of the provider's response
		if app.keys != nil {
			if err := app.keys.ClearAuth(); err != nil {
				logrus.WithError(err).Warn("clearing keychain")
			}
		}

		fmt.Println("✅ Signed out. Cached account and profile have been removed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
