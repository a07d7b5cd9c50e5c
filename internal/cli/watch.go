package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/dao-cli/internal/cli/render"
	"github.com/trebuchet-org/dao-cli/internal/domain/models"
	"github.com/trebuchet-org/dao-cli/internal/usecase"
)

// NewWatchCmd creates the watch command
func NewWatchCmd() *cobra.Command {
	var (
		fromBlock uint64
		kinds     []string
	)

	cmd := &cobra.Command{
		Use:   "watch [dao]",
		Short: "Stream the contract events of a DAO",
		Long: `Print governor, timelock, treasury and token events as they are mined.
Runs until interrupted. With --json every event is printed as one JSON line.`,
		Example: `  # Follow votes and new proposals
  dao watch Acme --kind ProposalCreated --kind VoteCast

  # Replay from a block
  dao watch --from 19000000`,
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{longRunning: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			dao, err := daoArg(cmd, app, args)
			if err != nil {
				return err
			}

			params := usecase.WatchEventsParams{FromBlock: fromBlock}
			for _, k := range kinds {
				params.Kinds = append(params.Kinds, models.EventKind(k))
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app.Progress.Stop()
			fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s on chain %d (Ctrl+C to stop)\n", dao.DisplayName(), dao.ChainID)

			renderer := render.NewEventRenderer(cmd.OutOrStdout())
			err = app.WatchEvents.Run(ctx, dao, params, func(ev *models.DAOEvent) error {
				if app.Config.JSON {
					return render.JSONLine(cmd.OutOrStdout(), ev)
				}
				return renderer.Render(ev)
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().Uint64Var(&fromBlock, "from", 0, "Replay events from this block (default: new blocks only)")
	cmd.Flags().StringArrayVar(&kinds, "kind", nil, "Only show this event kind (repeatable)")

	return cmd
}
