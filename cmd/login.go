// Copyright (c) 2025 Forcedlogin
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"forcedlogin/cli/internal/logging"
	"forcedlogin/cli/internal/session"
)

// loginCmd signs the user in through the system browser.
var loginCmd = &cobra.Command{
	Use:     "login",
	Aliases: []string{"auth"},
	Short:   "Sign in to Microsoft Entra ID via your browser",
	Long: `The login command signs you in to Microsoft Entra ID. If a previous sign-in can be
restored silently (or integrated authentication is enabled and the environment already
holds a credential) no browser is opened. Otherwise the sign-in page opens in your
default browser and the command waits until you finish or cancel.

The provider's token cache is stored in the OS keychain so later commands can
refresh the session without prompting.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
		defer cancel()

		app, err := newApplication(cfg)
		if err != nil {
			return err
		}
		defer app.Close()

		// If a silent sign-in works, short-circuit
		if app.restore(ctx) {
			fmt.Printf("Already logged in as %s\n", app.sessions.AccountDisplayName())
			return nil
		}

		outcome := app.sessions.Login(ctx)
		app.prompt.done(outcome.Result == session.LoginSucceeded)

		if outcome.Result != session.LoginSucceeded {
			fmt.Println()
			fmt.Println(logging.FormatLoginOutcome(outcome.Result))
			fmt.Println()
			return errors.New("login " + outcome.Result.String())
		}

		// Warm the cache for offline 'me' support
		if _, err := app.profiles.GetProfileFromRemote(ctx); err != nil {
			logrus.WithError(err).Debug("warming profile cache")
		}
		fmt.Println(getRandomLoginGreeting(outcome.Session.Username))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
}

// getRandomLoginGreeting returns a random greeting phrase with the user's identifier
func getRandomLoginGreeting(identifier string) string {
	if identifier == "" {
		return "✅ Login successful!"
	}
	greetings := []string{
		"🎉 Welcome back, %s!",
		"✨ Great to see you, %s!",
		"🚀 You're all set, %s!",
		"💫 Successfully authenticated as %s",
		"🌟 Welcome aboard, %s!",
		"✅ Authentication complete! Hi %s!",
		"🎯 You're in, %s!",
		"🔓 Access granted! Welcome %s!",
	}
	return fmt.Sprintf(greetings[rand.IntN(len(greetings))], identifier)
}
