package cmd

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"forcedlogin/cli/internal/config"
	"forcedlogin/cli/internal/session"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change CLI settings",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.Path()
		if err != nil {
			return err
		}
		rows := pterm.TableData{
			{"Key", "Value"},
			{"client_id", cfg.ClientID},
			{"authority", cfg.Authority},
			{"tenant", cfg.Tenant},
			{"integrated_auth", strconv.FormatBool(cfg.IntegratedAuth)},
			{"redirect_uri", cfg.RedirectURI},
			{"log_level", cfg.LogLevel},
		}
		if err := pterm.DefaultTable.WithHasHeader().WithData(rows).Render(); err != nil {
			return err
		}
		pterm.Println(pterm.NewStyle(pterm.FgGray).Sprint("file: " + path))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration key",
	Long: `Set a configuration key in the config file. To sign in against a single tenant,
set the tenant first and then the authority:

  forcedlogin config set tenant contoso.onmicrosoft.com
  forcedlogin config set authority single_org`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		next, err := config.LoadFile()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if err := next.Set(args[0], args[1]); err != nil {
			return err
		}
		// The tenant is checked together with the authority it belongs to.
		if args[0] == "authority" {
			if next.Authority != config.AuthoritySingleOrg {
				next.Tenant = ""
			}
			if _, err := session.ParseAuthority(next.Authority, next.Tenant); err != nil {
				return err
			}
		}
		if err := config.Save(next); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Printf("✅ %s updated\n", args[0])
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}
