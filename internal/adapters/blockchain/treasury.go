package blockchain

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/dao-cli/internal/adapters/abi/bindings"
	"github.com/trebuchet-org/dao-cli/internal/domain"
	"github.com/trebuchet-org/dao-cli/internal/domain/models"
	"github.com/trebuchet-org/dao-cli/internal/usecase"
	"golang.org/x/sync/errgroup"
)

// TreasuryAdapter implements usecase.TreasuryClient
type TreasuryAdapter struct {
	chain
}

// NewTreasuryAdapter creates a new treasury adapter
func NewTreasuryAdapter(pool *ClientPool, signer *Signer, log *slog.Logger) *TreasuryAdapter {
	return &TreasuryAdapter{chain{pool: pool, signer: signer, log: log.With("component", "TreasuryAdapter")}}
}

func (t *TreasuryAdapter) treasury(ctx context.Context, dao *models.DAO) (*contract, error) {
	if !dao.Config.HasTreasury() {
		return nil, fmt.Errorf("%s has no treasury: %w", dao.DisplayName(), domain.ErrNotFound)
	}
	return t.bindContract(ctx, dao.ChainID, &bindings.TreasuryMetaData, dao.Config.Treasury)
}

// Balance reads the native balance and the balance of each listed ERC-20
func (t *TreasuryAdapter) Balance(ctx context.Context, dao *models.DAO, tokens []common.Address) (*models.TreasuryBalance, error) {
	ct, err := t.treasury(ctx, dao)
	if err != nil {
		return nil, err
	}

	native, err := ct.backend.BalanceAt(ctx, dao.Config.Treasury, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to read treasury balance: %w", err)
	}

	balance := &models.TreasuryBalance{
		Address: dao.Config.Treasury,
		Native:  native,
		Tokens:  make([]*models.TokenBalance, len(tokens)),
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(hydrateConcurrency)
	for i, token := range tokens {
		eg.Go(func() error {
			tb, err := t.tokenBalance(egCtx, dao.ChainID, token, dao.Config.Treasury)
			if err != nil {
				return err
			}
			balance.Tokens[i] = tb
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return balance, nil
}

func (t *TreasuryAdapter) tokenBalance(ctx context.Context, chainID uint64, token, holder common.Address) (*models.TokenBalance, error) {
	erc20, err := t.bindContract(ctx, chainID, &bindings.VotesTokenMetaData, token)
	if err != nil {
		return nil, err
	}

	tb := &models.TokenBalance{Token: token}
	if tb.Balance, err = erc20.callBig(ctx, "balanceOf", holder); err != nil {
		return nil, fmt.Errorf("token %s: %w", token.Hex(), err)
	}

	symbol, err := erc20.callString(ctx, "symbol")
	if err != nil {
		t.log.Debug("Token has no symbol", "token", token, "error", err)
		symbol = models.ShortAddress(token)
	}
	tb.Symbol = symbol

	decimals, err := erc20.callUint64(ctx, "decimals")
	switch {
	case isMissingMethod(err):
		t.log.Debug("Token has no decimals, displaying with 18", "token", token, "error", err)
		decimals = 18
		tb.DecimalsUnknown = true
	case err != nil:
		return nil, fmt.Errorf("token %s decimals: %w", token.Hex(), err)
	}
	tb.Decimals = uint8(decimals)
	return tb, nil
}

// Deposit sends ETH to the treasury's receive function
func (t *TreasuryAdapter) Deposit(ctx context.Context, dao *models.DAO, amount *big.Int) (*models.TxResult, error) {
	ct, err := t.treasury(ctx, dao)
	if err != nil {
		return nil, err
	}
	result, _, err := t.send(ctx, ct, amount, "")
	return result, err
}

var _ usecase.TreasuryClient = (*TreasuryAdapter)(nil)
