package blockchain

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/trebuchet-org/dao-cli/internal/adapters/abi/bindings"
	"github.com/trebuchet-org/dao-cli/internal/domain"
	"github.com/trebuchet-org/dao-cli/internal/domain/models"
	"github.com/trebuchet-org/dao-cli/internal/usecase"
)

// FactoryAdapter implements usecase.FactoryClient
type FactoryAdapter struct {
	chain
	book *bindings.AddressBook
}

// NewFactoryAdapter creates a new factory adapter
func NewFactoryAdapter(pool *ClientPool, signer *Signer, book *bindings.AddressBook, log *slog.Logger) *FactoryAdapter {
	return &FactoryAdapter{
		chain: chain{pool: pool, signer: signer, log: log.With("component", "FactoryAdapter")},
		book:  book,
	}
}

// Address returns the factory deployed on chainID
func (f *FactoryAdapter) Address(chainID uint64) (common.Address, error) {
	addr, ok := f.book.Factory(chainID)
	if !ok {
		return common.Address{}, fmt.Errorf("chain %d (set [contracts.%d] factory in dao.toml): %w", chainID, chainID, domain.ErrNoFactory)
	}
	return addr, nil
}

// StartBlock is the first block worth scanning for DAO logs on chainID
func (f *FactoryAdapter) StartBlock(chainID uint64) uint64 {
	c, _ := f.book.Lookup(chainID)
	return c.StartBlock
}

// Tokens lists the ERC-20s displayed in treasury balances on chainID
func (f *FactoryAdapter) Tokens(chainID uint64) []common.Address {
	c, _ := f.book.Lookup(chainID)
	return c.Tokens
}

func (f *FactoryAdapter) factory(ctx context.Context, chainID uint64) (*contract, error) {
	addr, err := f.Address(chainID)
	if err != nil {
		return nil, err
	}
	return f.bindContract(ctx, chainID, &bindings.FactoryMetaData, addr)
}

// CreateDAO deploys a DAO and reads back the contracts the factory created
func (f *FactoryAdapter) CreateDAO(ctx context.Context, chainID uint64, params *models.DAOCreationParams) (*usecase.CreatedDAO, error) {
	ct, err := f.factory(ctx, chainID)
	if err != nil {
		return nil, err
	}

	tx, receipt, err := f.send(ctx, ct, nil, "createDAO", FactoryParams(params))
	if err != nil {
		return nil, err
	}

	id, err := createdID(ct, receipt.Logs)
	if err != nil {
		return nil, err
	}

	cfg, err := f.getDAO(ctx, ct, id)
	if err != nil {
		return nil, err
	}

	f.log.Info("DAO created", "id", id, "governor", cfg.Governor, "tx", tx.Hash)
	return &usecase.CreatedDAO{ID: id, Config: *cfg, Block: tx.BlockNumber, Tx: tx}, nil
}

// FactoryParams maps wizard parameters onto the createDAO tuple
func FactoryParams(p *models.DAOCreationParams) bindings.FactoryDAOParams {
	holders := make([]common.Address, len(p.Holders))
	balances := make([]*big.Int, len(p.Holders))
	for i, h := range p.Holders {
		holders[i] = h.Address
		balances[i] = h.Amount
		if balances[i] == nil {
			balances[i] = new(big.Int)
		}
	}

	threshold := p.ProposalThreshold
	if threshold == nil {
		threshold = new(big.Int)
	}

	return bindings.FactoryDAOParams{
		Name:              p.Name,
		Description:       p.Description,
		TokenType:         uint8(p.TokenType),
		TokenName:         p.TokenName,
		TokenSymbol:       p.TokenSymbol,
		InitialHolders:    holders,
		InitialBalances:   balances,
		VotingDelay:       new(big.Int).SetUint64(p.VotingDelay),
		VotingPeriod:      uint32(p.VotingPeriod),
		ProposalThreshold: threshold,
		QuorumNumerator:   new(big.Int).SetUint64(p.QuorumPercent),
		TimelockDelay:     new(big.Int).SetUint64(p.TimelockDelay),
	}
}

// createdID finds the DAOCreated log of the factory in a receipt
func createdID(ct *contract, logs []*types.Log) (*big.Int, error) {
	event := ct.abi.Events["DAOCreated"]
	for _, lg := range logs {
		if lg.Address != ct.address || len(lg.Topics) < 2 || lg.Topics[0] != event.ID {
			continue
		}
		return new(big.Int).SetBytes(lg.Topics[1].Bytes()), nil
	}
	return nil, fmt.Errorf("createDAO receipt has no DAOCreated log")
}

// Count returns the number of DAOs the factory created
func (f *FactoryAdapter) Count(ctx context.Context, chainID uint64) (uint64, error) {
	ct, err := f.factory(ctx, chainID)
	if err != nil {
		return 0, err
	}
	return ct.callUint64(ctx, "getDAOCount")
}

// GetDAO reads the contracts of one factory DAO
func (f *FactoryAdapter) GetDAO(ctx context.Context, chainID uint64, id *big.Int) (*models.DAOConfig, error) {
	ct, err := f.factory(ctx, chainID)
	if err != nil {
		return nil, err
	}
	return f.getDAO(ctx, ct, id)
}

func (f *FactoryAdapter) getDAO(ctx context.Context, ct *contract, id *big.Int) (*models.DAOConfig, error) {
	out, err := ct.call(ctx, "getDAO", id)
	if err != nil {
		return nil, err
	}
	raw, ok := abi.ConvertType(out[0], new(bindings.FactoryDAOConfig)).(*bindings.FactoryDAOConfig)
	if !ok {
		return nil, fmt.Errorf("getDAO(%s): unexpected result type %T", id, out[0])
	}
	if raw.Governor == (common.Address{}) {
		return nil, fmt.Errorf("factory DAO %s: %w", id, domain.ErrNotFound)
	}

	cfg := &models.DAOConfig{
		Governor:  raw.Governor,
		Timelock:  raw.Timelock,
		Treasury:  raw.Treasury,
		Token:     raw.Token,
		TokenType: models.TokenType(raw.TokenType),
	}
	if raw.CreatedAt != nil && raw.CreatedAt.IsInt64() {
		cfg.CreatedAt = time.Unix(raw.CreatedAt.Int64(), 0).UTC()
	}
	return cfg, nil
}

// ListByCreator returns the ids of DAOs created by an account
func (f *FactoryAdapter) ListByCreator(ctx context.Context, chainID uint64, creator common.Address) ([]*big.Int, error) {
	ct, err := f.factory(ctx, chainID)
	if err != nil {
		return nil, err
	}
	out, err := ct.call(ctx, "getDAOsByCreator", creator)
	if err != nil {
		return nil, err
	}
	ids, ok := out[0].([]*big.Int)
	if !ok {
		return nil, fmt.Errorf("getDAOsByCreator: unexpected result type %T", out[0])
	}
	return ids, nil
}

var _ usecase.FactoryClient = (*FactoryAdapter)(nil)
