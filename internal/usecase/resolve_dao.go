package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/dao-cli/internal/domain"
	"github.com/trebuchet-org/dao-cli/internal/domain/config"
	"github.com/trebuchet-org/dao-cli/internal/domain/models"
)

// ResolveDAO turns a user supplied reference into a DAO.
// A reference is a registered name, a governor address or empty for the current context.
type ResolveDAO struct {
	cfg      *config.RuntimeConfig
	registry DAORegistry
	importer *ImportDAO
	selector DAOSelector
}

// NewResolveDAO creates a new ResolveDAO use case
func NewResolveDAO(cfg *config.RuntimeConfig, registry DAORegistry, importer *ImportDAO, selector DAOSelector) *ResolveDAO {
	return &ResolveDAO{
		cfg:      cfg,
		registry: registry,
		importer: importer,
		selector: selector,
	}
}

// Run resolves ref
func (uc *ResolveDAO) Run(ctx context.Context, ref string) (*models.DAO, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		ref = uc.cfg.DAO
	}
	if ref == "" {
		return uc.pick(ctx)
	}

	if common.IsHexAddress(ref) {
		return uc.byAddress(ctx, common.HexToAddress(ref))
	}

	matches, err := uc.registry.FindByName(ctx, ref)
	if err != nil {
		return nil, err
	}
	if uc.cfg.Network != nil {
		matches = onChain(matches, uc.cfg.Network.ChainID)
	}

	switch len(matches) {
	case 0:
		return nil, domain.DAONotFoundErr{Ref: ref}
	case 1:
		return matches[0], nil
	default:
		ids := make([]string, len(matches))
		for i, m := range matches {
			ids[i] = m.ID()
		}
		return nil, domain.AmbiguousDAOErr{Ref: ref, Matches: ids}
	}
}

func (uc *ResolveDAO) byAddress(ctx context.Context, governor common.Address) (*models.DAO, error) {
	chainID, err := requireChain(uc.cfg)
	if err != nil {
		return nil, err
	}

	dao, err := uc.registry.Get(ctx, chainID, governor)
	if err == nil {
		return dao, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	// Unregistered governors are discovered from chain without being bookmarked
	result, err := uc.importer.Run(ctx, ImportDAOParams{Governor: governor.Hex(), DryRun: true})
	if err != nil {
		return nil, err
	}
	return result.DAO, nil
}

func (uc *ResolveDAO) pick(ctx context.Context) (*models.DAO, error) {
	daos, err := uc.registry.List(ctx)
	if err != nil {
		return nil, err
	}
	if uc.cfg.Network != nil {
		daos = onChain(daos, uc.cfg.Network.ChainID)
	}

	switch {
	case len(daos) == 1:
		return daos[0], nil
	case len(daos) > 1 && !uc.cfg.NonInteractive:
		return uc.selector.SelectDAO(ctx, daos, "Select a DAO")
	}
	return nil, fmt.Errorf("no DAO selected: pass a name or governor address, use --dao, or run `dao config set dao <name>`")
}

func onChain(daos []*models.DAO, chainID uint64) []*models.DAO {
	filtered := make([]*models.DAO, 0, len(daos))
	for _, d := range daos {
		if d.ChainID == chainID {
			filtered = append(filtered, d)
		}
	}
	return filtered
}
