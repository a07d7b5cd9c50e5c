package usecase

import (
	"context"
	"fmt"
	"math/big"
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/trebuchet-org/dao-cli/internal/domain/config"
	"github.com/trebuchet-org/dao-cli/internal/domain/models"
)

// ListDAOsParams contains parameters for listing DAOs
type ListDAOsParams struct {
	// OnChain lists every DAO the factory of the current network has created
	OnChain  bool
	Category string
	Tag      string
	Search   string
	// Limit caps the number of factory entries read when OnChain is set
	Limit int
}

// ListDAOsResult contains the listed DAOs
type ListDAOsResult struct {
	DAOs    []*models.DAO
	Source  string
	Total   uint64
	Network string
}

// ListDAOs lists bookmarked DAOs or the DAOs a factory created
type ListDAOs struct {
	cfg      *config.RuntimeConfig
	registry DAORegistry
	factory  FactoryClient
}

// NewListDAOs creates a new ListDAOs use case
func NewListDAOs(cfg *config.RuntimeConfig, registry DAORegistry, factory FactoryClient) *ListDAOs {
	return &ListDAOs{
		cfg:      cfg,
		registry: registry,
		factory:  factory,
	}
}

// Run executes the use case
func (uc *ListDAOs) Run(ctx context.Context, params ListDAOsParams) (*ListDAOsResult, error) {
	if params.OnChain {
		return uc.fromFactory(ctx, params)
	}

	daos, err := uc.registry.List(ctx)
	if err != nil {
		return nil, err
	}

	result := &ListDAOsResult{Source: "registry"}
	if uc.cfg.Network != nil {
		daos = onChain(daos, uc.cfg.Network.ChainID)
		result.Network = uc.cfg.Network.Name
	}

	daos = lo.Filter(daos, func(d *models.DAO, _ int) bool {
		return matchesDAOFilter(d, params)
	})
	sort.SliceStable(daos, func(i, j int) bool {
		if daos[i].ChainID != daos[j].ChainID {
			return daos[i].ChainID < daos[j].ChainID
		}
		return strings.ToLower(daos[i].DisplayName()) < strings.ToLower(daos[j].DisplayName())
	})

	result.DAOs = daos
	result.Total = uint64(len(daos))
	return result, nil
}

func (uc *ListDAOs) fromFactory(ctx context.Context, params ListDAOsParams) (*ListDAOsResult, error) {
	chainID, err := requireChain(uc.cfg)
	if err != nil {
		return nil, err
	}

	count, err := uc.factory.Count(ctx, chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to read factory: %w", err)
	}

	limit := uint64(params.Limit)
	if limit == 0 || limit > count {
		limit = count
	}

	result := &ListDAOsResult{
		Source:  "factory",
		Total:   count,
		Network: uc.cfg.Network.Name,
		DAOs:    make([]*models.DAO, 0, limit),
	}

	// Newest first
	for i := uint64(0); i < limit; i++ {
		id := new(big.Int).SetUint64(count - 1 - i)
		daoCfg, err := uc.factory.GetDAO(ctx, chainID, id)
		if err != nil {
			return nil, fmt.Errorf("failed to read DAO %s from factory: %w", id, err)
		}

		dao := &models.DAO{
			ChainID:    chainID,
			Config:     *daoCfg,
			FactoryID:  id,
			StartBlock: uc.factory.StartBlock(chainID),
		}
		if known, err := uc.registry.Get(ctx, chainID, daoCfg.Governor); err == nil {
			dao.Name = known.Name
			dao.Description = known.Description
			dao.Category = known.Category
			dao.Tags = known.Tags
		}
		if matchesDAOFilter(dao, params) {
			result.DAOs = append(result.DAOs, dao)
		}
	}

	return result, nil
}

func matchesDAOFilter(d *models.DAO, params ListDAOsParams) bool {
	if params.Category != "" && !strings.EqualFold(d.Category, params.Category) {
		return false
	}
	if params.Tag != "" && !lo.Contains(d.Tags, strings.ToLower(params.Tag)) {
		return false
	}
	if params.Search != "" {
		q := strings.ToLower(params.Search)
		haystack := strings.ToLower(d.Name + " " + d.Description + " " + d.Config.Governor.Hex())
		if !strings.Contains(haystack, q) {
			return false
		}
	}
	return true
}
