package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/dao-cli/internal/cli/render"
	"github.com/trebuchet-org/dao-cli/internal/usecase"
)

// NewTreasuryCmd creates the treasury command
func NewTreasuryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "treasury [dao]",
		Short: "Show the treasury balances of a DAO",
		Long: `Show the ETH balance of the treasury and the balances of the ERC-20 tokens
listed under [contracts.<chainId>] tokens in dao.toml.`,
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
			balance, err := app.ShowTreasury.Run(cmd.Context(), dao)
			if err != nil {
				return err
			}
			return output(cmd, app, balance, func(out io.Writer) error {
				return render.NewTreasuryRenderer(out).Render(balance)
			})
		},
	}

	cmd.AddCommand(newTreasuryDepositCmd())
	cmd.AddCommand(newTreasuryProposeTransferCmd())

	return cmd
}

func newTreasuryDepositCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "deposit <amount>",
		Short:   "Send ETH from the sender to the treasury",
		Example: `  dao treasury deposit 1.5 --dao Acme`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			dao, err := daoArg(cmd, app, nil)
			if err != nil {
				return err
			}
			tx, err := app.DepositTreasury.Run(cmd.Context(), dao, args[0])
			if err != nil {
				return err
			}
			return output(cmd, app, tx, func(out io.Writer) error {
				return render.NewTxRenderer(out, app.ExplorerURL()).RenderSent(fmt.Sprintf("Deposited %s ETH into the %s treasury", args[0], dao.DisplayName()), tx)
			})
		},
	}
}

func newTreasuryProposeTransferCmd() *cobra.Command {
	var params usecase.ProposeTreasuryTransferParams

	cmd := &cobra.Command{
		Use:   "propose-transfer",
		Short: "Propose a payment out of the treasury",
		Long: `Create a governance proposal that transfers ETH or an ERC-20 token out of
the treasury. The treasury only pays out through the timelock, so the
transfer happens when the proposal is executed.`,
		Example: `  # 10 ETH to the grants multisig
  dao treasury propose-transfer --to 0x... --amount 10 -m "Fund grants"

  # 5000 USDC
  dao treasury propose-transfer --to 0x... --amount 5000 --token 0xA0b8...`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			dao, err := daoArg(cmd, app, nil)
			if err != nil {
				return err
			}
			result, err := app.ProposeTreasuryTransfer.Run(cmd.Context(), dao, params)
			if err != nil {
				return err
			}
			return output(cmd, app, result, func(out io.Writer) error {
				return render.NewProposalsRenderer(out, dao).WithExplorer(app.ExplorerURL()).RenderCreated(result)
			})
		},
	}

	cmd.Flags().StringVar(&params.To, "to", "", "Recipient address")
	cmd.Flags().StringVar(&params.Amount, "amount", "", "Amount in token units")
	cmd.Flags().StringVar(&params.Token, "token", "", "ERC-20 token address; ETH when omitted")
	cmd.Flags().StringVarP(&params.Description, "description", "m", "", "Proposal description")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}
