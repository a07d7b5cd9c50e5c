package usecase

import (
	"context"

	"github.com/trebuchet-org/dao-cli/internal/domain/models"
)

// RemoveDAO drops a DAO from the local registry. The contracts are untouched.
type RemoveDAO struct {
	registry DAORegistry
	resolver *ResolveDAO
}

// NewRemoveDAO creates a new RemoveDAO use case
func NewRemoveDAO(registry DAORegistry, resolver *ResolveDAO) *RemoveDAO {
	return &RemoveDAO{registry: registry, resolver: resolver}
}

// Run executes the use case
func (uc *RemoveDAO) Run(ctx context.Context, ref string) (*models.DAO, error) {
	dao, err := uc.resolver.Run(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := uc.registry.Remove(ctx, dao.ChainID, dao.Config.Governor); err != nil {
		return nil, err
	}
	return dao, nil
}
