package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/dao-cli/internal/domain"
	"github.com/trebuchet-org/dao-cli/internal/domain/config"
	"github.com/trebuchet-org/dao-cli/internal/domain/models"
)

// factoryScanLimit bounds how many factory entries are searched for a governor
const factoryScanLimit = 500

// ImportDAOParams contains parameters for importing a DAO
type ImportDAOParams struct {
	Governor    string
	Name        string
	Description string
	Category    string
	Tags        []string
	Overwrite   bool
	// DryRun discovers the DAO without saving it to the registry
	DryRun bool
}

// ImportDAOResult contains the discovered DAO
type ImportDAOResult struct {
	DAO          *models.DAO
	FromFactory  bool
	AlreadyKnown bool
}

// ImportDAO discovers a DAO's contracts from its governor and registers it
type ImportDAO struct {
	cfg      *config.RuntimeConfig
	registry DAORegistry
	governor GovernorClient
	factory  FactoryClient
	log      *slog.Logger
}

// NewImportDAO creates a new ImportDAO use case
func NewImportDAO(cfg *config.RuntimeConfig, registry DAORegistry, governor GovernorClient, factory FactoryClient, log *slog.Logger) *ImportDAO {
	return &ImportDAO{
		cfg:      cfg,
		registry: registry,
		governor: governor,
		factory:  factory,
		log:      log,
	}
}

// Run executes the use case
func (uc *ImportDAO) Run(ctx context.Context, params ImportDAOParams) (*ImportDAOResult, error) {
	chainID, err := requireChain(uc.cfg)
	if err != nil {
		return nil, err
	}

	governor, err := parseAddress("governor", params.Governor)
	if err != nil {
		return nil, err
	}

	if !params.DryRun && !params.Overwrite {
		existing, err := uc.registry.Get(ctx, chainID, governor)
		if err == nil {
			return &ImportDAOResult{DAO: existing, AlreadyKnown: true}, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}

	token, timelock, err := uc.governor.Discover(ctx, chainID, governor)
	if err != nil {
		return nil, fmt.Errorf("failed to read governor %s: %w", governor.Hex(), err)
	}

	dao := &models.DAO{
		ChainID:     chainID,
		Name:        params.Name,
		Description: params.Description,
		Category:    params.Category,
		Tags:        normalizeTags(params.Tags),
		Config: models.DAOConfig{
			Governor:  governor,
			Timelock:  timelock,
			Token:     token,
			TokenType: models.TokenTypeERC20Votes,
		},
		StartBlock: uc.factory.StartBlock(chainID),
		AddedAt:    time.Now().UTC(),
	}

	result := &ImportDAOResult{DAO: dao}

	id, factoryConfig, err := uc.findInFactory(ctx, chainID, governor)
	if err != nil {
		uc.log.Debug("factory lookup failed", "governor", governor.Hex(), "error", err)
	}
	if factoryConfig != nil {
		dao.Config = *factoryConfig
		dao.FactoryID = id
		result.FromFactory = true
	}

	if dao.Name == "" {
		settings, err := uc.governor.Settings(ctx, dao)
		if err != nil {
			return nil, fmt.Errorf("failed to read governor settings: %w", err)
		}
		dao.Name = settings.Name
	}

	if params.DryRun {
		return result, nil
	}

	if err := uc.registry.Save(ctx, dao); err != nil {
		return nil, fmt.Errorf("failed to save DAO: %w", err)
	}
	return result, nil
}

// findInFactory walks the factory from the newest entry looking for governor
func (uc *ImportDAO) findInFactory(ctx context.Context, chainID uint64, governor common.Address) (*big.Int, *models.DAOConfig, error) {
	if _, err := uc.factory.Address(chainID); err != nil {
		return nil, nil, nil
	}

	count, err := uc.factory.Count(ctx, chainID)
	if err != nil {
		return nil, nil, err
	}

	for i, scanned := count, 0; i > 0 && scanned < factoryScanLimit; i, scanned = i-1, scanned+1 {
		id := new(big.Int).SetUint64(i - 1)
		cfg, err := uc.factory.GetDAO(ctx, chainID, id)
		if err != nil {
			return nil, nil, err
		}
		if cfg.Governor == governor {
			return id, cfg, nil
		}
	}
	return nil, nil, nil
}

// normalizeTags lower-cases, trims and drops empty tags
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
