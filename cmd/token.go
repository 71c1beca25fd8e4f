package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"forcedlogin/cli/internal/logging"
)

var (
	rawToken bool
)

// tokenCmd prints a usable access token, refreshing it silently if needed.
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print an access token for Microsoft Graph",
	Long: `The token command prints a valid access token for the signed-in account, refreshing
it silently when it has expired. The token is masked unless --raw is given.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		app, err := newApplication(cfg)
		if err != nil {
			return err
		}
		defer app.Close()

		var token string
		if app.restore(ctx) {
			token = app.sessions.GetAccessToken(ctx)
		}
		if token == "" {
			printNotLoggedIn()
			return errors.New("no access token")
		}
		if rawToken {
			fmt.Println(token)
			return nil
		}
		fmt.Println(logging.MaskToken(token))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.Flags().BoolVar(&rawToken, "raw", false, "Print the token unmasked")
}
