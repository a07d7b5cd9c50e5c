package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/dao-cli/internal/app"
	"github.com/trebuchet-org/dao-cli/internal/cli/render"
	"github.com/trebuchet-org/dao-cli/internal/domain/models"
	"github.com/trebuchet-org/dao-cli/internal/usecase"
	"gopkg.in/yaml.v3"
)

// NewProposalsCmd creates the proposals command
func NewProposalsCmd() *cobra.Command {
	var (
		statuses []string
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "proposals [dao]",
		Short: "List the proposals of a DAO",
		Long: `List proposals newest first with their status, tallies and quorum progress.

Valid statuses: pending, active, canceled, defeated, succeeded, queued, expired, executed.`,
		Example: `  # Proposals that can be voted on
  dao proposals Acme --status active

  # Last five proposals of the current DAO
  dao proposals --limit 5`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params := usecase.ListProposalsParams{Limit: limit}
			for _, s := range statuses {
				status, err := models.ParseProposalStatus(s)
				if err != nil {
					return err
				}
				params.Status = append(params.Status, status)
			}

			dao, err := daoArg(cmd, app, args)
			if err != nil {
				return err
			}
			result, err := app.ListProposals.Run(cmd.Context(), dao, params)
			if err != nil {
				return err
			}
			return output(cmd, app, result, func(out io.Writer) error {
				return render.NewProposalsRenderer(out, dao).RenderList(result)
			})
		},
	}

	cmd.Flags().StringSliceVar(&statuses, "status", nil, "Filter by status (repeatable or comma separated)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of proposals to show")

	return cmd
}

// NewProposalCmd creates the proposal command group
func NewProposalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "proposal",
		Short: "Show, create and advance proposals",
		Long: `Commands acting on a single proposal of the DAO selected with --dao
or "dao config set dao".`,
	}

	cmd.AddCommand(newProposalShowCmd())
	cmd.AddCommand(newProposalCreateCmd())
	cmd.AddCommand(newProposalQueueCmd())
	cmd.AddCommand(newProposalExecuteCmd())
	cmd.AddCommand(newProposalCancelCmd())

	return cmd
}

func newProposalShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a proposal with its actions, votes and timelock state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			dao, err := daoArg(cmd, app, nil)
			if err != nil {
				return err
			}
			detail, err := app.ShowProposal.Run(cmd.Context(), dao, args[0])
			if err != nil {
				return err
			}
			return output(cmd, app, detail, func(out io.Writer) error {
				return render.NewProposalsRenderer(out, dao).WithExplorer(app.ExplorerURL()).RenderDetail(detail)
			})
		},
	}
}

func newProposalCreateCmd() *cobra.Command {
	var (
		description string
		file        string
		action      usecase.ProposalActionInput
		skipCheck   bool
		unsigned    bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Submit a proposal",
		Long: `Submit a proposal to the governor.

A single action is given with flags; several actions are read from a YAML
file of the form:

  description: |
    # Fund the grants program
    Moves 10 ETH to the grants multisig.
  actions:
    - target: 0x...
      value: 10 ether
    - target: 0x...
      signature: transfer(address,uint256)
      args: ["0x...", "1000000"]

The first line of the description is the proposal title.`,
		Example: `  # Call a contract
  dao proposal create -m "Pause the vault" --target 0x... --signature "pause()"

  # Actions from a file
  dao proposal create --file grants.yaml

  # Print the transaction for an external wallet instead of sending it
  dao proposal create --file grants.yaml --unsigned`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			var inputs []usecase.ProposalActionInput
			if file != "" {
				pf, err := loadProposalFile(file)
				if err != nil {
					return err
				}
				inputs = pf.Actions
				if description == "" {
					description = pf.Description
				}
			}
			if action.Target != "" {
				inputs = append(inputs, action)
			}

			dao, err := daoArg(cmd, app, nil)
			if err != nil {
				return err
			}

			if unsigned {
				return buildUnsignedProposal(cmd, app, dao, inputs, description)
			}

			result, err := app.CreateProposal.Run(cmd.Context(), dao, usecase.CreateProposalParams{
				Inputs:             inputs,
				Description:        description,
				SkipThresholdCheck: skipCheck,
			})
			if err != nil {
				return err
			}
			return output(cmd, app, result, func(out io.Writer) error {
				return render.NewProposalsRenderer(out, dao).WithExplorer(app.ExplorerURL()).RenderCreated(result)
			})
		},
	}

	cmd.Flags().StringVarP(&description, "description", "m", "", "Proposal description; the first line is the title")
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML file with the description and actions")
	cmd.Flags().StringVar(&action.Target, "target", "", "Target contract of a single action")
	cmd.Flags().StringVar(&action.Value, "value", "", "ETH sent with the action (e.g. 0.5 ether or a wei amount)")
	cmd.Flags().StringVar(&action.Calldata, "calldata", "", "Raw calldata of the action")
	cmd.Flags().StringVar(&action.Signature, "signature", "", "Function signature, e.g. transfer(address,uint256)")
	cmd.Flags().StringArrayVar(&action.Args, "arg", nil, "Argument for --signature (repeatable, in order)")
	cmd.Flags().BoolVar(&skipCheck, "skip-threshold-check", false, "Send even if the proposer is below the proposal threshold")
	cmd.Flags().BoolVar(&unsigned, "unsigned", false, "Print the unsigned transaction instead of sending it")
	cmd.MarkFlagsMutuallyExclusive("calldata", "signature")

	return cmd
}

func buildUnsignedProposal(cmd *cobra.Command, app *app.App, dao *models.DAO, inputs []usecase.ProposalActionInput, description string) error {
	result, err := app.BuildProposalTx.Run(cmd.Context(), dao, usecase.BuildProposalTxParams{
		Actions:     inputs,
		Description: description,
	})
	if err != nil {
		return err
	}
	return output(cmd, app, result, func(out io.Writer) error {
		return render.NewProposalsRenderer(out, dao).RenderBuilt(result)
	})
}

func loadProposalFile(path string) (*usecase.ProposalFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var pf usecase.ProposalFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &pf, nil
}

func newProposalQueueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "queue <id>",
		Short: "Queue a succeeded proposal on the timelock",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLifecycle(cmd, "queued", func(app *app.App, dao *models.DAO) (*usecase.LifecycleResult, error) {
				return app.QueueProposal.Run(cmd.Context(), dao, args[0])
			})
		},
	}
}

func newProposalExecuteCmd() *cobra.Command {
	var selectReady bool

	cmd := &cobra.Command{
		Use:   "execute [id]",
		Short: "Execute a queued proposal",
		Long: `Execute a proposal once its timelock ETA has passed, or a succeeded
proposal of a governor without timelock.

With --select the ready proposals are listed and several can be executed
in one go.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if selectReady {
				return runExecuteSelect(cmd)
			}
			if len(args) == 0 {
				return fmt.Errorf("requires a proposal id or --select")
			}
			return runLifecycle(cmd, "executed", func(app *app.App, dao *models.DAO) (*usecase.LifecycleResult, error) {
				return app.ExecuteProposal.Run(cmd.Context(), dao, args[0])
			})
		},
	}

	cmd.Flags().BoolVar(&selectReady, "select", false, "Pick ready proposals interactively")

	return cmd
}

func newProposalCancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <id>",
		Short: "Cancel a pending proposal you proposed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLifecycle(cmd, "canceled", func(app *app.App, dao *models.DAO) (*usecase.LifecycleResult, error) {
				return app.CancelProposal.Run(cmd.Context(), dao, args[0])
			})
		},
	}
}

func runLifecycle(cmd *cobra.Command, action string, run func(*app.App, *models.DAO) (*usecase.LifecycleResult, error)) error {
	app, err := getApp(cmd)
	if err != nil {
		return err
	}

	dao, err := daoArg(cmd, app, nil)
	if err != nil {
		return err
	}
	result, err := run(app, dao)
	if err != nil {
		return err
	}
	return output(cmd, app, result, func(out io.Writer) error {
		return render.NewProposalsRenderer(out, dao).WithExplorer(app.ExplorerURL()).RenderLifecycle(action, []*usecase.LifecycleResult{result})
	})
}

func runExecuteSelect(cmd *cobra.Command) error {
	app, err := getApp(cmd)
	if err != nil {
		return err
	}

	dao, err := daoArg(cmd, app, nil)
	if err != nil {
		return err
	}
	results, err := app.ExecuteProposal.RunSelect(cmd.Context(), dao)
	if err == nil && len(results) == 0 {
		app.Progress.Stop()
		fmt.Fprintln(cmd.OutOrStdout(), "No proposals are ready to execute")
		return nil
	}
	if len(results) > 0 {
		if renderErr := output(cmd, app, results, func(out io.Writer) error {
			return render.NewProposalsRenderer(out, dao).WithExplorer(app.ExplorerURL()).RenderLifecycle("executed", results)
		}); renderErr != nil && err == nil {
			err = renderErr
		}
	}
	return err
}

// NewVoteCmd creates the vote command
func NewVoteCmd() *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "vote <id> <for|against|abstain>",
		Short: "Vote on an active proposal",
		Long: `Cast a vote with the sender's voting power at the proposal snapshot.
A reason is recorded on chain with castVoteWithReason.`,
		Example: `  dao vote 4242 for
  dao vote 4242 against --reason "Budget is too high"`,
		Args: cobra.ExactArgs(2),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 1 {
				return []string{"for", "against", "abstain"}, cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			dao, err := daoArg(cmd, app, nil)
			if err != nil {
				return err
			}
			result, err := app.CastVote.Run(cmd.Context(), dao, usecase.CastVoteParams{
				ProposalID: args[0],
				Support:    strings.ToLower(args[1]),
				Reason:     reason,
			})
			if err != nil {
				return err
			}
			return output(cmd, app, result, func(out io.Writer) error {
				return render.NewProposalsRenderer(out, dao).WithExplorer(app.ExplorerURL()).RenderVote(result)
			})
		},
	}

	cmd.Flags().StringVarP(&reason, "reason", "r", "", "Reason recorded with the vote")

	return cmd
}
