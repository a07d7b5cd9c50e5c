package usecase_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/dao-cli/internal/domain"
	"github.com/trebuchet-org/dao-cli/internal/domain/config"
	"github.com/trebuchet-org/dao-cli/internal/domain/models"
	"github.com/trebuchet-org/dao-cli/internal/usecase"
)

func anvilConfig() *config.RuntimeConfig {
	return &config.RuntimeConfig{
		Network: &config.Network{Name: "anvil", ChainID: 31337, RPCURL: "http://127.0.0.1:8545"},
	}
}

func newResolver(cfg *config.RuntimeConfig, registry *MockRegistry, gov *MockGovernor, factory *MockFactory, selector *MockSelector) *usecase.ResolveDAO {
	importer := usecase.NewImportDAO(cfg, registry, gov, factory, slog.New(slog.DiscardHandler))
	return usecase.NewResolveDAO(cfg, registry, importer, selector)
}

func TestResolveDAO(t *testing.T) {
	ctx := context.Background()

	t.Run("by name", func(t *testing.T) {
		registry := &MockRegistry{}
		dao := testDAO()
		registry.On("FindByName", ctx, "acme").Return([]*models.DAO{dao}, nil)

		got, err := newResolver(anvilConfig(), registry, &MockGovernor{}, &MockFactory{}, &MockSelector{}).Run(ctx, "acme")
		require.NoError(t, err)
		assert.Equal(t, dao, got)
	})

	t.Run("name on another chain is not found", func(t *testing.T) {
		registry := &MockRegistry{}
		dao := testDAO()
		dao.ChainID = 1
		registry.On("FindByName", ctx, "acme").Return([]*models.DAO{dao}, nil)

		_, err := newResolver(anvilConfig(), registry, &MockGovernor{}, &MockFactory{}, &MockSelector{}).Run(ctx, "acme")
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})

	t.Run("ambiguous name", func(t *testing.T) {
		registry := &MockRegistry{}
		other := testDAO()
		other.Config.Governor = common.HexToAddress("0x2000000000000000000000000000000000000001")
		registry.On("FindByName", ctx, "acme").Return([]*models.DAO{testDAO(), other}, nil)

		_, err := newResolver(anvilConfig(), registry, &MockGovernor{}, &MockFactory{}, &MockSelector{}).Run(ctx, "acme")
		var ambiguous domain.AmbiguousDAOErr
		require.True(t, errors.As(err, &ambiguous))
		assert.Len(t, ambiguous.Matches, 2)
	})

	t.Run("registered address", func(t *testing.T) {
		registry := &MockRegistry{}
		dao := testDAO()
		registry.On("Get", ctx, uint64(31337), governorAddr).Return(dao, nil)

		got, err := newResolver(anvilConfig(), registry, &MockGovernor{}, &MockFactory{}, &MockSelector{}).Run(ctx, governorAddr.Hex())
		require.NoError(t, err)
		assert.Equal(t, dao, got)
	})

	t.Run("unknown address is discovered without saving", func(t *testing.T) {
		registry := &MockRegistry{}
		gov := &MockGovernor{}
		factory := &MockFactory{}
		registry.On("Get", ctx, uint64(31337), governorAddr).Return(nil, domain.ErrNotFound)
		gov.On("Discover", ctx, uint64(31337), governorAddr).Return(tokenAddr, timelockAddr, nil)
		gov.On("Settings", ctx, mock.Anything).Return(&models.GovernorSettings{Name: "Acme Governor"}, nil)
		factory.On("StartBlock", uint64(31337)).Return(uint64(0))
		factory.On("Address", uint64(31337)).Return(common.Address{}, domain.ErrNoFactory)

		got, err := newResolver(anvilConfig(), registry, gov, factory, &MockSelector{}).Run(ctx, governorAddr.Hex())
		require.NoError(t, err)
		assert.Equal(t, "Acme Governor", got.Name)
		assert.Equal(t, tokenAddr, got.Config.Token)
		assert.Equal(t, timelockAddr, got.Config.Timelock)
		assert.False(t, got.Config.HasTreasury())
		registry.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("address requires a network", func(t *testing.T) {
		_, err := newResolver(&config.RuntimeConfig{}, &MockRegistry{}, &MockGovernor{}, &MockFactory{}, &MockSelector{}).Run(ctx, governorAddr.Hex())
		assert.True(t, errors.Is(err, domain.ErrNoNetwork))
	})

	t.Run("empty ref uses configured dao", func(t *testing.T) {
		cfg := anvilConfig()
		cfg.DAO = "acme"
		registry := &MockRegistry{}
		registry.On("FindByName", ctx, "acme").Return([]*models.DAO{testDAO()}, nil)

		got, err := newResolver(cfg, registry, &MockGovernor{}, &MockFactory{}, &MockSelector{}).Run(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, "Acme", got.Name)
	})

	t.Run("empty ref with many daos prompts", func(t *testing.T) {
		registry := &MockRegistry{}
		selector := &MockSelector{}
		other := testDAO()
		other.Name = "Other"
		daos := []*models.DAO{testDAO(), other}
		registry.On("List", ctx).Return(daos, nil)
		selector.On("SelectDAO", ctx, daos, "Select a DAO").Return(other, nil)

		got, err := newResolver(anvilConfig(), registry, &MockGovernor{}, &MockFactory{}, selector).Run(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, "Other", got.Name)
	})

	t.Run("empty ref non-interactive fails", func(t *testing.T) {
		cfg := anvilConfig()
		cfg.NonInteractive = true
		registry := &MockRegistry{}
		registry.On("List", ctx).Return([]*models.DAO{testDAO(), testDAO()}, nil)

		_, err := newResolver(cfg, registry, &MockGovernor{}, &MockFactory{}, &MockSelector{}).Run(ctx, "")
		assert.ErrorContains(t, err, "no DAO selected")
	})
}
