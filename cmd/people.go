package cmd

import (
	"errors"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"forcedlogin/cli/internal/logging"
)

// peopleCmd lists the people most relevant to the signed-in user.
var peopleCmd = &cobra.Command{
	Use:   "people",
	Short: "List people related to you in Microsoft Graph",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		app, err := newApplication(cfg)
		if err != nil {
			return err
		}
		defer app.Close()

		if !app.restore(ctx) {
			printNotLoggedIn()
			return nil
		}
		people, err := app.profiles.GetRelatedPeople(ctx)
		if err != nil {
			return errors.New(logging.PresentError("fetching related people", err))
		}
		if people == nil {
			printNotLoggedIn()
			return nil
		}
		if len(people) == 0 {
			pterm.Info.Println("No related people found.")
			return nil
		}

		rows := pterm.TableData{{"Name", "Principal", "Photo"}}
		for _, p := range people {
			rows = append(rows, []string{p.DisplayName, p.PrincipalName, p.Photo.Describe()})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
	},
}

func init() {
	rootCmd.AddCommand(peopleCmd)
}
