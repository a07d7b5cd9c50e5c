package cli

import (
	"io"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/dao-cli/internal/app"
	"github.com/trebuchet-org/dao-cli/internal/cli/render"
	"github.com/trebuchet-org/dao-cli/internal/domain/models"
)

// daoArg resolves the optional [dao] positional argument, falling back to --dao
// and the session context
func daoArg(cmd *cobra.Command, a *app.App, args []string) (*models.DAO, error) {
	ref := ""
	if len(args) > 0 {
		ref = args[0]
	}
	return a.ResolveDAO.Run(cmd.Context(), ref)
}

// output writes v as JSON under --json, otherwise through the human renderer
func output(cmd *cobra.Command, a *app.App, v any, human func(out io.Writer) error) error {
	// Spinner output must be gone before the result is printed
	a.Progress.Stop()
	if a.Config.JSON {
		return render.JSON(cmd.OutOrStdout(), v)
	}
	return human(cmd.OutOrStdout())
}
