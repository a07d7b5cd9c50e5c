package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/dao-cli/internal/cli/render"
	"github.com/trebuchet-org/dao-cli/internal/domain/models"
	"github.com/trebuchet-org/dao-cli/internal/usecase"
	"gopkg.in/yaml.v3"
)

// daoParamsFile is the YAML form of the wizard answers accepted by `dao create --file`
type daoParamsFile struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Category    string `yaml:"category"`
	Token       struct {
		Type   string `yaml:"type"`
		Name   string `yaml:"name"`
		Symbol string `yaml:"symbol"`
	} `yaml:"token"`
	Holders []struct {
		Address string `yaml:"address"`
		Amount  string `yaml:"amount"`
	} `yaml:"holders"`
	Governance struct {
		VotingDelay       uint64 `yaml:"voting_delay"`
		VotingPeriod      uint64 `yaml:"voting_period"`
		ProposalThreshold string `yaml:"proposal_threshold"`
		QuorumPercent     uint64 `yaml:"quorum_percent"`
	} `yaml:"governance"`
	TimelockDelay uint64 `yaml:"timelock_delay"`
}

// params converts token-unit amounts into base units
func (f *daoParamsFile) params() (*models.DAOCreationParams, error) {
	tokenType, err := models.ParseTokenType(f.Token.Type)
	if err != nil {
		return nil, err
	}
	decimals := tokenType.Decimals()

	p := &models.DAOCreationParams{
		Name:          f.Name,
		Description:   f.Description,
		Category:      f.Category,
		TokenType:     tokenType,
		TokenName:     f.Token.Name,
		TokenSymbol:   f.Token.Symbol,
		VotingDelay:   f.Governance.VotingDelay,
		VotingPeriod:  f.Governance.VotingPeriod,
		QuorumPercent: f.Governance.QuorumPercent,
		TimelockDelay: f.TimelockDelay,
	}
	for i, h := range f.Holders {
		if !common.IsHexAddress(h.Address) {
			return nil, fmt.Errorf("holders[%d]: invalid address %q", i, h.Address)
		}
		amount, err := models.ParseUnits(h.Amount, decimals)
		if err != nil {
			return nil, fmt.Errorf("holders[%d]: %w", i, err)
		}
		p.Holders = append(p.Holders, models.Holder{Address: common.HexToAddress(h.Address), Amount: amount})
	}
	if f.Governance.ProposalThreshold != "" {
		threshold, err := models.ParseUnits(f.Governance.ProposalThreshold, decimals)
		if err != nil {
			return nil, fmt.Errorf("proposal_threshold: %w", err)
		}
		p.ProposalThreshold = threshold
	}
	return p, nil
}

func loadDAOParamsFile(path string) (*models.DAOCreationParams, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f daoParamsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return f.params()
}

// NewCreateCmd creates the create command
func NewCreateCmd() *cobra.Command {
	var (
		resume string
		yes    bool
		file   string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a DAO through the factory with a guided wizard",
		Long: `Create a DAO step by step: basics, token, distribution, governance,
timelock and review. Every step is saved as a draft under .dao/drafts, so an
interrupted session can be continued with --resume.

With --file the answers are read from YAML and only missing values are
prompted for. In --non-interactive mode the file must be complete.`,
		Example: `  # Start the wizard
  dao create --network sepolia

  # Continue a saved draft
  dao create --resume 3f1c...

  # Deploy from a file without prompts
  dao create --file acme.yaml --yes --non-interactive`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params := usecase.CreateDAOParams{ResumeID: resume, Yes: yes}
			if file != "" {
				if params.Params, err = loadDAOParamsFile(file); err != nil {
					return err
				}
			}

			result, err := app.CreateDAO.Run(cmd.Context(), params)
			if err != nil {
				if result != nil && result.DraftID != "" {
					app.Progress.Stop()
					fmt.Fprintln(cmd.ErrOrStderr(), render.FormatWarning(fmt.Sprintf("Draft %s saved; resume with `dao create --resume %s`", result.DraftID, result.DraftID)))
				}
				return err
			}
			return output(cmd, app, result, func(out io.Writer) error {
				return render.NewDAORenderer(out).RenderCreate(result, app.ExplorerURL())
			})
		},
	}

	cmd.Flags().StringVar(&resume, "resume", "", "Resume a saved wizard draft by id")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the review confirmation")
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML file with the DAO parameters")

	return cmd
}

// NewDraftsCmd creates the drafts command
func NewDraftsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drafts",
		Short: "List saved DAO creation drafts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			drafts, err := app.ListDrafts.Run(cmd.Context())
			if err != nil {
				return err
			}
			return output(cmd, app, drafts, func(out io.Writer) error {
				return render.NewDAORenderer(out).RenderDrafts(drafts)
			})
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "discard <id>",
		Short: "Delete a saved draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			if err := app.DiscardDraft.Run(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), render.FormatSuccess(fmt.Sprintf("Discarded draft %s", args[0])))
			return nil
		},
	})

	return cmd
}

// NewListCmd creates the list command
func NewListCmd() *cobra.Command {
	var params usecase.ListDAOsParams

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List DAOs",
		Long: `List the DAOs in the local registry of the current network.

With --onchain the DAOs are read from the factory instead.`,
		Example: `  # List registered DAOs
  dao list

  # Search the factory on sepolia
  dao list --onchain --network sepolia --search acme`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ListDAOs.Run(cmd.Context(), params)
			if err != nil {
				return err
			}
			return output(cmd, app, result, func(out io.Writer) error {
				return render.NewDAORenderer(out).RenderList(result)
			})
		},
	}

	cmd.Flags().BoolVar(&params.OnChain, "onchain", false, "List DAOs from the factory instead of the registry")
	cmd.Flags().StringVar(&params.Category, "category", "", "Filter by category")
	cmd.Flags().StringVar(&params.Tag, "tag", "", "Filter by tag")
	cmd.Flags().StringVar(&params.Search, "search", "", "Case-insensitive search in name and description")
	cmd.Flags().IntVar(&params.Limit, "limit", 0, "Maximum number of DAOs to show")

	return cmd
}

// NewImportCmd creates the import command
func NewImportCmd() *cobra.Command {
	var params usecase.ImportDAOParams

	cmd := &cobra.Command{
		Use:   "import <governor>",
		Short: "Add an existing DAO to the registry",
		Long: `Import a DAO by its governor address. The timelock and token are read from
the governor; the treasury comes from the factory when it created the DAO.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params.Governor = args[0]
			result, err := app.ImportDAO.Run(cmd.Context(), params)
			if err != nil {
				return err
			}
			return output(cmd, app, result, func(out io.Writer) error {
				return render.NewDAORenderer(out).RenderImport(result)
			})
		},
	}

	cmd.Flags().StringVar(&params.Name, "name", "", "Name to register the DAO under")
	cmd.Flags().StringVar(&params.Description, "description", "", "Description")
	cmd.Flags().StringVar(&params.Category, "category", "", "Category")
	cmd.Flags().StringSliceVar(&params.Tags, "tag", nil, "Tags (repeatable)")
	cmd.Flags().BoolVar(&params.Overwrite, "overwrite", false, "Replace an existing registry entry")
	cmd.Flags().BoolVar(&params.DryRun, "dry-run", false, "Discover the contracts without registering")

	return cmd
}

// NewRemoveCmd creates the remove command
func NewRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <dao>",
		Aliases: []string{"rm"},
		Short:   "Remove a DAO from the local registry",
		Long:    "Remove a DAO from the local registry. Nothing on chain is touched.",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			dao, err := app.RemoveDAO.Run(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return output(cmd, app, dao, func(out io.Writer) error {
				return render.NewDAORenderer(out).RenderRemoved(dao)
			})
		},
	}
}

// NewShowCmd creates the show command
func NewShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [dao]",
		Short: "Show the overview of a DAO",
		Long: `Show the overview of a DAO: status, member and proposal counts, treasury
balance, token supply and the latest proposals.

You can specify the DAO using:
- Registered name: "Acme"
- Governor address: "0x1234..."
- Nothing: the DAO from --dao or "dao config set dao"`,
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
			overview, err := app.ShowDAO.Run(cmd.Context(), dao)
			if err != nil {
				return err
			}
			return output(cmd, app, overview, func(out io.Writer) error {
				return render.NewDAORenderer(out).RenderOverview(overview)
			})
		},
	}
}
