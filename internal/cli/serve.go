package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/dao-cli/internal/api"
	"github.com/trebuchet-org/dao-cli/internal/app"
)

// NewServeCmd creates the serve command
func NewServeCmd() *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the DAO views over HTTP and WebSocket",
		Long: `Start the read API a browser front-end uses:

  GET  /api/health
  GET  /api/networks
  GET  /api/daos
  GET  /api/daos/:dao[/proposals[/:id]|/treasury|/members|/token|/settings]
  POST /api/daos/:dao/proposals/calldata
  POST /api/daos/:dao/votes/calldata
  GET  /api/daos/:dao/events (WebSocket)

The server never signs: the calldata endpoints return unsigned transactions
for the visitor's wallet. Settings come from the [server] section of dao.toml.`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{longRunning: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			if listen != "" {
				app.Config.DAOFile.Server.Listen = listen
			}
			server := newServer(app)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(cmd.ErrOrStderr(), "Serving on http://%s (Ctrl+C to stop)\n", server.Addr())
			if err := server.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "Listen address, overrides [server] listen")

	return cmd
}

func newServer(a *app.App) *api.Server {
	return api.NewServer(a.Config, api.Services{
		ResolveDAO:      a.ResolveDAO,
		ListDAOs:        a.ListDAOs,
		ListNetworks:    a.ListNetworks,
		ListProposals:   a.ListProposals,
		ShowProposal:    a.ShowProposal,
		ShowToken:       a.ShowToken,
		BuildProposalTx: a.BuildProposalTx,
		BuildVoteTx:     a.BuildVoteTx,
		WatchEvents:     a.WatchEvents,
		ShowDAO:         a.ShowDAO,
		ShowTreasury:    a.ShowTreasury,
		ListMembers:     a.ListMembers,
		ShowSettings:    a.ShowSettings,
	}, a.Cache, a.Logger)
}
