package usecase

import (
	"context"
	"fmt"

	"github.com/trebuchet-org/dao-cli/internal/domain/models"
)

// ShowSettings reads governor and timelock parameters
type ShowSettings struct {
	governor GovernorClient
	timelock TimelockClient
}

// NewShowSettings creates a new ShowSettings use case
func NewShowSettings(governor GovernorClient, timelock TimelockClient) *ShowSettings {
	return &ShowSettings{governor: governor, timelock: timelock}
}

// Run executes the use case
func (uc *ShowSettings) Run(ctx context.Context, dao *models.DAO) (*models.DAOSettings, error) {
	gov, err := uc.governor.Settings(ctx, dao)
	if err != nil {
		return nil, fmt.Errorf("failed to read governor settings: %w", err)
	}

	settings := &models.DAOSettings{DAO: dao, Governor: gov}
	if dao.Config.HasTimelock() {
		tl, err := uc.timelock.Settings(ctx, dao)
		if err != nil {
			return nil, fmt.Errorf("failed to read timelock settings: %w", err)
		}
		settings.Timelock = tl
	}
	return settings, nil
}
