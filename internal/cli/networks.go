package cli

import (
	"io"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/dao-cli/internal/cli/render"
)

// NewNetworksCmd creates the networks command
func NewNetworksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "networks",
		Short: "List available networks from dao.toml",
		Long: `List all networks configured in the [networks] section of dao.toml
plus the built-in "anvil" network.

Each network is queried for its chain ID (cached in .dao/cache/chainIds.json).
The table also shows the DAO factory known for the chain and how many
registered DAOs live on it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ListNetworks.Run(cmd.Context())
			if err != nil {
				return err
			}
			return output(cmd, app, result, func(out io.Writer) error {
				return render.NewNetworksRenderer(out).Render(result)
			})
		},
	}
}
