package cli

import (
	"io"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/dao-cli/internal/cli/render"
	"github.com/trebuchet-org/dao-cli/internal/usecase"
)

// NewConfigCmd creates the config command
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the session context",
		Long: `Manage the session context stored in .dao/config.local.json

The context defines default values for network, dao and sender that are
used when these flags are not explicitly provided.

Available subcommands:
  config           Show current config
  config set       Set a config value
  config remove    Remove a config value

When run without subcommands, displays the current config.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ShowConfig.Run(cmd.Context())
			if err != nil {
				return err
			}
			return output(cmd, app, result, func(out io.Writer) error {
				return render.NewConfigRenderer(out).RenderConfig(result)
			})
		},
	}

	cmd.AddCommand(NewConfigSetCmd())
	cmd.AddCommand(NewConfigRemoveCmd())

	return cmd
}

// NewConfigSetCmd creates the config set subcommand
func NewConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a config value",
		Long: `Set a config value in .dao/config.local.json.
Available keys: network, dao, sender

Examples:
  dao config set network sepolia
  dao config set dao Acme
  dao config set sender ledger`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.SetConfig.Run(cmd.Context(), usecase.SetConfigParams{
				Key:   args[0],
				Value: args[1],
			})
			if err != nil {
				return err
			}
			return output(cmd, app, result, func(out io.Writer) error {
				return render.NewConfigRenderer(out).RenderSet(result)
			})
		},
	}
}

// NewConfigRemoveCmd creates the config remove subcommand
func NewConfigRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <key>",
		Short: "Remove a config value",
		Long: `Remove a config value from .dao/config.local.json.
Available keys: network, dao, sender

Examples:
  dao config remove dao`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.RemoveConfig.Run(cmd.Context(), usecase.RemoveConfigParams{Key: args[0]})
			if err != nil {
				return err
			}
			return output(cmd, app, result, func(out io.Writer) error {
				return render.NewConfigRenderer(out).RenderRemove(result)
			})
		},
	}
}
