package usecase

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/dao-cli/internal/domain"
	"github.com/trebuchet-org/dao-cli/internal/domain/models"
)

// ShowTreasury reads the treasury's ETH and configured ERC-20 balances
type ShowTreasury struct {
	treasury TreasuryClient
	factory  FactoryClient
}

// NewShowTreasury creates a new ShowTreasury use case
func NewShowTreasury(treasury TreasuryClient, factory FactoryClient) *ShowTreasury {
	return &ShowTreasury{treasury: treasury, factory: factory}
}

// Run executes the use case
func (uc *ShowTreasury) Run(ctx context.Context, dao *models.DAO) (*models.TreasuryBalance, error) {
	if err := requireTreasury(dao); err != nil {
		return nil, err
	}
	balance, err := uc.treasury.Balance(ctx, dao, uc.factory.Tokens(dao.ChainID))
	if err != nil {
		return nil, fmt.Errorf("failed to read treasury balance: %w", err)
	}
	return balance, nil
}

// DepositTreasury sends ETH from the connected wallet to the treasury
type DepositTreasury struct {
	treasury TreasuryClient
	wallet   Wallet
	progress ProgressSink
}

// NewDepositTreasury creates a new DepositTreasury use case
func NewDepositTreasury(treasury TreasuryClient, wallet Wallet, progress ProgressSink) *DepositTreasury {
	return &DepositTreasury{treasury: treasury, wallet: wallet, progress: progress}
}

// Run deposits amount, given in ether
func (uc *DepositTreasury) Run(ctx context.Context, dao *models.DAO, amount string) (*models.TxResult, error) {
	if err := requireTreasury(dao); err != nil {
		return nil, err
	}
	wei, err := models.ParseUnits(amount, 18)
	if err != nil {
		return nil, domain.ValidationError{Field: "amount", Reason: err.Error()}
	}
	if wei.Sign() <= 0 {
		return nil, domain.ValidationError{Field: "amount", Reason: "must be greater than zero"}
	}
	if _, err := uc.wallet.Account(ctx); err != nil {
		return nil, err
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   "deposit",
		Message: fmt.Sprintf("Depositing %s ETH into %s", amount, dao.Config.Treasury.Hex()),
		Spinner: true,
	})
	tx, err := uc.treasury.Deposit(ctx, dao, wei)
	if err != nil {
		return nil, fmt.Errorf("deposit failed: %w", err)
	}
	return tx, nil
}

// ProposeTreasuryTransferParams describes an outgoing treasury payment
type ProposeTreasuryTransferParams struct {
	To     string
	Amount string
	// Token is an ERC-20 address; empty or "eth" transfers native ETH
	Token       string
	Description string
}

// ProposeTreasuryTransfer creates a governance proposal that pays out of the treasury
type ProposeTreasuryTransfer struct {
	encoder  CallEncoder
	treasury TreasuryClient
	propose  *CreateProposal
}

// NewProposeTreasuryTransfer creates a new ProposeTreasuryTransfer use case
func NewProposeTreasuryTransfer(encoder CallEncoder, treasury TreasuryClient, propose *CreateProposal) *ProposeTreasuryTransfer {
	return &ProposeTreasuryTransfer{encoder: encoder, treasury: treasury, propose: propose}
}

// Run executes the use case
func (uc *ProposeTreasuryTransfer) Run(ctx context.Context, dao *models.DAO, params ProposeTreasuryTransferParams) (*CreateProposalResult, error) {
	if err := requireTreasury(dao); err != nil {
		return nil, err
	}

	to, err := parseAddress("recipient", params.To)
	if err != nil {
		return nil, err
	}
	if to == (common.Address{}) {
		return nil, domain.ValidationError{Field: "recipient", Reason: "must not be the zero address"}
	}

	var token common.Address
	decimals := uint8(18)
	symbol := "ETH"
	if t := strings.TrimSpace(params.Token); t != "" && !strings.EqualFold(t, "eth") {
		if token, err = parseAddress("token", t); err != nil {
			return nil, err
		}
		if decimals, symbol, err = uc.tokenUnits(ctx, dao, token); err != nil {
			return nil, err
		}
	}

	amount, err := models.ParseUnits(params.Amount, decimals)
	if err != nil {
		return nil, domain.ValidationError{Field: "amount", Reason: err.Error()}
	}
	if amount.Sign() <= 0 {
		return nil, domain.ValidationError{Field: "amount", Reason: "must be greater than zero"}
	}

	calldata, err := uc.encoder.TreasuryTransfer(token, to, amount)
	if err != nil {
		return nil, err
	}

	description := params.Description
	if strings.TrimSpace(description) == "" {
		description = fmt.Sprintf("# Transfer %s %s to %s", params.Amount, symbol, to.Hex())
	}

	return uc.propose.Run(ctx, dao, CreateProposalParams{
		Actions: []models.ProposalAction{{
			Target:   dao.Config.Treasury,
			Value:    new(big.Int),
			Calldata: calldata,
		}},
		Description: description,
	})
}

// tokenUnits reads decimals and symbol of token; amounts are never scaled by a guess
func (uc *ProposeTreasuryTransfer) tokenUnits(ctx context.Context, dao *models.DAO, token common.Address) (uint8, string, error) {
	balance, err := uc.treasury.Balance(ctx, dao, []common.Address{token})
	if err != nil {
		return 0, "", fmt.Errorf("failed to read decimals of token %s: %w", token.Hex(), err)
	}
	for _, tb := range balance.Tokens {
		if tb == nil || tb.Token != token {
			continue
		}
		if tb.DecimalsUnknown {
			return 0, "", domain.ValidationError{
				Field:  "token",
				Reason: fmt.Sprintf("%s does not report decimals(), encode the transfer with proposal create instead", token.Hex()),
			}
		}
		return tb.Decimals, tb.Symbol, nil
	}
	return 0, "", fmt.Errorf("%w: no balance reported for token %s", domain.ErrNotFound, token.Hex())
}

func requireTreasury(dao *models.DAO) error {
	if !dao.Config.HasTreasury() {
		return fmt.Errorf("DAO %s has no known treasury: %w", dao.DisplayName(), domain.ErrNotFound)
	}
	return nil
}
