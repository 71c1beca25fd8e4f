// Copyright (c) 2025 Forcedlogin
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"github.com/pterm/pterm"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"forcedlogin/cli/internal/profile"
)

var (
	offlineMe bool
)

// meCmd shows the signed-in user's Graph profile.
var meCmd = &cobra.Command{
	Use:   "me",
	Short: "Show your Microsoft Graph profile",
	Long: `The me command shows your profile from Microsoft Graph and refreshes the local
profile cache. When Graph cannot be reached or the session cannot be restored it
falls back to the cached profile, and finally to a placeholder built from the
account name.

Use --offline to read the cached profile without any network access.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		app, err := newApplication(cfg)
		if err != nil {
			return err
		}
		defer app.Close()

		var p *profile.UserProfile
		source := "graph"
		if !offlineMe && app.restore(ctx) {
			if p, err = app.profiles.GetProfileFromRemote(ctx); err != nil {
				logrus.WithError(err).Warn("fetching profile from graph")
			}
		}
		if p == nil {
			source = "cache"
			if p, err = app.profiles.GetCachedProfile(ctx); err != nil {
				logrus.WithError(err).Warn("reading cached profile")
			}
		}
		if p == nil {
			source = "default"
			d := app.profiles.GetDefaultProfile()
			p = &d
		}

		renderProfile(*p, source)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(meCmd)
	meCmd.Flags().BoolVar(&offlineMe, "offline", false, "Only read the cached profile")
}

func renderProfile(p profile.UserProfile, source string) {
	name := p.DisplayName
	if name == "" {
		name = "(unknown)"
	}
	pterm.Println()
	pterm.Println(pterm.NewStyle(pterm.FgLightCyan).Sprint("→ Name:      ") + pterm.NewStyle(pterm.FgCyan, pterm.Bold).Sprint(name))
	if p.PrincipalName != "" {
		pterm.Println(pterm.NewStyle(pterm.FgLightCyan).Sprint("→ Principal: ") + p.PrincipalName)
	}
	pterm.Println(pterm.NewStyle(pterm.FgLightCyan).Sprint("→ Photo:     ") + p.Photo.Describe())
	pterm.Println(pterm.NewStyle(pterm.FgGray).Sprint("  source: " + source))
	pterm.Println()
}
