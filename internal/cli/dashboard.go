package cli

import (
	"io"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/dao-cli/internal/cli/render"
	"github.com/trebuchet-org/dao-cli/internal/usecase"
)

// NewMembersCmd creates the members command
func NewMembersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "members [dao]",
		Short: "List the token holders of a DAO",
		Long: `List every account holding the voting token with its balance, voting power
and delegate. Holders are discovered from the token's Transfer logs.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			dao, err := daoArg(cmd, app, args)
			if err != nil {
				return err
			}
			members, err := app.ListMembers.Run(cmd.Context(), dao)
			if err != nil {
				return err
			}
			return output(cmd, app, members, func(out io.Writer) error {
				return render.NewMembersRenderer(out).Render(members)
			})
		},
	}
}

// NewTokenCmd creates the token command
func NewTokenCmd() *cobra.Command {
	var params usecase.ShowTokenParams

	cmd := &cobra.Command{
		Use:   "token [dao]",
		Short: "Show the voting token and your voting power",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			dao, err := daoArg(cmd, app, args)
			if err != nil {
				return err
			}
			overview, err := app.ShowToken.Run(cmd.Context(), dao, params)
			if err != nil {
				return err
			}
			return output(cmd, app, overview, func(out io.Writer) error {
				return render.NewTokenRenderer(out, app.ExplorerURL()).Render(overview)
			})
		},
	}

	cmd.Flags().StringVar(&params.Account, "account", "", "Show the voting power of this address instead of the sender")
	cmd.Flags().BoolVar(&params.CountHolders, "holders", false, "Count holders from Transfer logs")

	return cmd
}

// NewDelegateCmd creates the delegate command
func NewDelegateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delegate [address|self]",
		Short: "Delegate your voting power",
		Long: `Delegate the sender's voting power. Tokens only count as votes once
delegated; delegate to "self" (the default) to vote with your own balance.`,
		Example: `  dao delegate
  dao delegate 0x1234...`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			delegatee := "self"
			if len(args) > 0 {
				delegatee = args[0]
			}

			dao, err := daoArg(cmd, app, nil)
			if err != nil {
				return err
			}
			result, err := app.DelegateVotes.Run(cmd.Context(), dao, delegatee)
			if err != nil {
				return err
			}
			return output(cmd, app, result, func(out io.Writer) error {
				return render.NewTokenRenderer(out, app.ExplorerURL()).RenderDelegate(result)
			})
		},
	}
}

// NewSettingsCmd creates the settings command
func NewSettingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "settings [dao]",
		Short: "Show the governor and timelock parameters of a DAO",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			dao, err := daoArg(cmd, app, args)
			if err != nil {
				return err
			}
			settings, err := app.ShowSettings.Run(cmd.Context(), dao)
			if err != nil {
				return err
			}
			return output(cmd, app, settings, func(out io.Writer) error {
				return render.NewSettingsRenderer(out).Render(settings)
			})
		},
	}
}
