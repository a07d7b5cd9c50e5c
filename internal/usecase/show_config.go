package usecase

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/dao-cli/internal/domain"
	"github.com/trebuchet-org/dao-cli/internal/domain/config"
)

// ShowConfigResult contains the result of showing configuration
type ShowConfigResult struct {
	Config       *config.LocalConfig
	ConfigPath   string
	Exists       bool
	ConfigSource string
	Account      *common.Address
}

// ShowConfig is a use case for showing configuration
type ShowConfig struct {
	cfg    *config.RuntimeConfig
	store  LocalConfigRepository
	wallet Wallet
}

// NewShowConfig creates a new ShowConfig use case
func NewShowConfig(cfg *config.RuntimeConfig, store LocalConfigRepository, wallet Wallet) *ShowConfig {
	return &ShowConfig{
		cfg:    cfg,
		store:  store,
		wallet: wallet,
	}
}

// Run executes the show config use case
func (uc *ShowConfig) Run(ctx context.Context) (*ShowConfigResult, error) {
	exists := uc.store.Exists()

	local, err := uc.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	result := &ShowConfigResult{
		Config:       local,
		ConfigPath:   uc.store.GetPath(),
		Exists:       exists,
		ConfigSource: uc.cfg.ConfigSource,
	}

	account, err := uc.wallet.Account(ctx)
	switch {
	case err == nil:
		result.Account = &account
	case !errors.Is(err, domain.ErrNoSigner):
		return nil, err
	}

	return result, nil
}
