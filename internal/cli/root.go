package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/dao-cli/internal/app"
	"github.com/trebuchet-org/dao-cli/internal/config"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"

	// longRunning marks commands that run until interrupted and ignore --timeout
	longRunning = "long-running"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	var appInstance *app.App

	rootCmd := &cobra.Command{
		Use:   "dao",
		Short: "Create, explore and govern on-chain DAOs",
		Long: `dao is a client for Governor/Timelock DAOs deployed through a DAO factory.

It creates DAOs with a guided wizard, lists proposals and their tallies,
casts votes, queues and executes proposals, and shows the treasury,
members, token and settings of a DAO. "dao serve" exposes the same
views over HTTP and WebSocket for a browser front-end.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip for help/version commands
			if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			projectRoot, err := config.FindProjectRoot()
			if err != nil {
				return err
			}

			v := config.SetupViper(projectRoot)
			bindGlobalFlags(v, cmd)

			appInstance, err = app.InitApp(v)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			ctx := context.WithValue(cmd.Context(), appKey, appInstance)

			if appInstance.Config.Timeout > 0 && cmd.Annotations[longRunning] == "" {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
				cmd.PostRun = func(cmd *cobra.Command, args []string) {
					cancel()
				}
			}

			cmd.SetContext(ctx)
			return nil
		},
	}

	// The spinner must not outlive the command, whether it failed or not
	cobra.OnFinalize(func() {
		if appInstance != nil {
			appInstance.Progress.Stop()
		}
	})

	rootCmd.PersistentFlags().StringP("network", "n", "", "Network to use (e.g., mainnet, sepolia, anvil)")
	rootCmd.PersistentFlags().StringP("dao", "d", "", "DAO to operate on (registered name or governor address)")
	rootCmd.PersistentFlags().String("sender", "", "Sender from [senders] in dao.toml")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable interactive prompts")
	rootCmd.PersistentFlags().Bool("json", false, "Output results as JSON")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "dao",
		Title: "DAO Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "governance",
		Title: "Governance Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "dashboard",
		Title: "Dashboard Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands",
	})

	addToGroup(rootCmd, "dao",
		NewCreateCmd(),
		NewDraftsCmd(),
		NewListCmd(),
		NewImportCmd(),
		NewRemoveCmd(),
		NewShowCmd(),
	)
	addToGroup(rootCmd, "governance",
		NewProposalsCmd(),
		NewProposalCmd(),
		NewVoteCmd(),
		NewDelegateCmd(),
	)
	addToGroup(rootCmd, "dashboard",
		NewTreasuryCmd(),
		NewMembersCmd(),
		NewTokenCmd(),
		NewSettingsCmd(),
		NewWatchCmd(),
	)
	addToGroup(rootCmd, "management",
		NewServeCmd(),
		NewNetworksCmd(),
		NewConfigCmd(),
	)

	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

func addToGroup(root *cobra.Command, group string, cmds ...*cobra.Command) {
	for _, c := range cmds {
		c.GroupID = group
		root.AddCommand(c)
	}
}

// bindGlobalFlags binds command flags to viper
func bindGlobalFlags(v *viper.Viper, cmd *cobra.Command) {
	// Only bind flags that exist and have been changed
	for flag, key := range map[string]string{
		"debug":           "debug",
		"non-interactive": "non_interactive",
		"json":            "json",
		"network":         "network",
		"dao":             "dao",
		"sender":          "sender",
	} {
		if f := cmd.Flag(flag); f != nil && f.Changed {
			v.Set(key, f.Value.String())
		}
	}
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	app, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return app, nil
}
