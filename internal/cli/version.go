package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/dao-cli/internal/cli/render"
)

// Build metadata, set with -ldflags "-X"
var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)

type versionInfo struct {
	Version string `json:"version"`
	Commit  string `json:"commit,omitempty"`
	Date    string `json:"date,omitempty"`
}

// NewVersionCmd creates the version command; it runs without loading dao.toml
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of dao",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := versionInfo{Version: Version, Commit: Commit, Date: Date}
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return render.JSON(cmd.OutOrStdout(), info)
			}

			line := "dao version " + info.Version
			if info.Commit != "" {
				line += fmt.Sprintf(" (%s", info.Commit)
				if info.Date != "" {
					line += ", built " + info.Date
				}
				line += ")"
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), line)
			return err
		},
	}
}
