package blockchain

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/trebuchet-org/dao-cli/internal/adapters/abi/bindings"
	"github.com/trebuchet-org/dao-cli/internal/domain/models"
	"github.com/trebuchet-org/dao-cli/internal/usecase"
	"golang.org/x/sync/errgroup"
)

// TokenAdapter implements usecase.TokenClient for ERC20Votes and ERC721Votes tokens
type TokenAdapter struct {
	chain
}

// NewTokenAdapter creates a new token adapter
func NewTokenAdapter(pool *ClientPool, signer *Signer, log *slog.Logger) *TokenAdapter {
	return &TokenAdapter{chain{pool: pool, signer: signer, log: log.With("component", "TokenAdapter")}}
}

func (t *TokenAdapter) token(ctx context.Context, dao *models.DAO) (*contract, error) {
	return t.bindContract(ctx, dao.ChainID, &bindings.VotesTokenMetaData, dao.Config.Token)
}

// Info reads name, symbol, decimals and total supply
func (t *TokenAdapter) Info(ctx context.Context, dao *models.DAO) (*models.TokenInfo, error) {
	ct, err := t.token(ctx, dao)
	if err != nil {
		return nil, err
	}

	info := &models.TokenInfo{Address: dao.Config.Token, Type: dao.Config.TokenType}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() (err error) {
		info.Name, err = ct.callString(egCtx, "name")
		return err
	})
	eg.Go(func() (err error) {
		info.Symbol, err = ct.callString(egCtx, "symbol")
		return err
	})
	eg.Go(func() error {
		if dao.Config.TokenType == models.TokenTypeERC721Votes {
			return nil
		}
		decimals, err := ct.callUint64(egCtx, "decimals")
		if err != nil {
			return err
		}
		info.Decimals = uint8(decimals)
		return nil
	})
	eg.Go(func() error {
		supply, err := ct.callBig(egCtx, "totalSupply")
		if err != nil {
			if isMissingMethod(err) {
				t.log.Debug("Token has no totalSupply", "token", dao.Config.Token)
				return nil
			}
			return err
		}
		info.TotalSupply = supply
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("failed to read token info: %w", err)
	}
	return info, nil
}

// VotingPower reads balance, current votes and delegate of an account
func (t *TokenAdapter) VotingPower(ctx context.Context, dao *models.DAO, account common.Address) (*models.VotingPower, error) {
	ct, err := t.token(ctx, dao)
	if err != nil {
		return nil, err
	}

	vp := &models.VotingPower{Account: account}
	if vp.Balance, err = ct.callBig(ctx, "balanceOf", account); err != nil {
		return nil, err
	}
	if vp.Votes, err = ct.callBig(ctx, "getVotes", account); err != nil {
		return nil, err
	}
	if vp.Delegate, err = ct.callAddress(ctx, "delegates", account); err != nil {
		return nil, err
	}
	return vp, nil
}

// Holders returns every recipient of a Transfer log, in order of first receipt
func (t *TokenAdapter) Holders(ctx context.Context, dao *models.DAO) ([]common.Address, error) {
	ct, err := t.token(ctx, dao)
	if err != nil {
		return nil, err
	}
	transfer := ct.abi.Events["Transfer"]

	logs, err := t.scanLogs(ctx, dao.ChainID, []common.Address{dao.Config.Token}, [][]common.Hash{{transfer.ID}}, dao.StartBlock)
	if err != nil {
		return nil, fmt.Errorf("failed to read transfers: %w", err)
	}
	return recipients(logs), nil
}

// recipients collects the non-zero "to" topic of Transfer logs without duplicates
func recipients(logs []types.Log) []common.Address {
	seen := make(map[common.Address]struct{})
	var holders []common.Address
	for _, lg := range logs {
		if len(lg.Topics) < 3 {
			continue
		}
		to := common.BytesToAddress(lg.Topics[2].Bytes())
		if to == (common.Address{}) {
			continue
		}
		if _, ok := seen[to]; ok {
			continue
		}
		seen[to] = struct{}{}
		holders = append(holders, to)
	}
	return holders
}

// Delegate delegates the sender's voting power
func (t *TokenAdapter) Delegate(ctx context.Context, dao *models.DAO, delegatee common.Address) (*models.TxResult, error) {
	ct, err := t.token(ctx, dao)
	if err != nil {
		return nil, err
	}
	result, _, err := t.send(ctx, ct, nil, "delegate", delegatee)
	return result, err
}

var _ usecase.TokenClient = (*TokenAdapter)(nil)
