package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aufaim/portfoliochat/internal/config"
)

// NewConfigCmd creates a new config command
func NewConfigCmd(deps *Dependencies, flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change settings",
		Long: `Show or change the settings stored in ~/.portfoliochat/config.json.

Environment variables (PORTFOLIOCHAT_CHAT_ENDPOINT, AUTH0_DOMAIN, ...) and
.env files override the file; 'config show' prints the effective values.`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := deps.withDefaults().LoadConfig()
				if err != nil {
					return fmt.Errorf("failed to load config: %w", err)
				}
				if flags != nil && flags.endpoint != "" {
					cfg.ChatEndpoint = flags.endpoint
				}

				out := cmd.OutOrStdout()
				for _, key := range config.Keys() {
					value, _ := cfg.Get(key)
					fmt.Fprintf(out, "%-28s %s\n", key, value)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the config file location",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				path, err := config.GetConfigPath()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			},
		},
		&cobra.Command{
			Use:       "set <key> <value>",
			Short:     "Change a setting",
			Args:      cobra.ExactArgs(2),
			ValidArgs: config.Keys(),
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := config.LoadFile()
				if err != nil {
					return fmt.Errorf("failed to load config: %w", err)
				}
				if err := cfg.Set(args[0], args[1]); err != nil {
					return err
				}
				if err := config.SaveConfig(cfg); err != nil {
					return err
				}

				value, _ := cfg.Get(args[0])
				fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], value)
				return nil
			},
		},
	)
	return cmd
}
