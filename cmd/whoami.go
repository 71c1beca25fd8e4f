package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// whoamiCmd prints the signed-in account without calling Graph.
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	Long: `The whoami command restores the session silently and prints the signed-in account.
If the session cannot be restored without interaction, it reports that you are not
logged in.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApplication(cfg)
		if err != nil {
			return err
		}
		defer app.Close()

		if !app.restore(cmd.Context()) || !app.sessions.IsLoggedIn() {
			printNotLoggedIn()
			return nil
		}
		fmt.Println(getWhoAmIPhrase(app.sessions.AccountDisplayName()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

// getWhoAmIPhrase returns a friendly phrase with the user's identifier
func getWhoAmIPhrase(identifier string) string {
	return fmt.Sprintf("👤 Current user: %s", identifier)
}
