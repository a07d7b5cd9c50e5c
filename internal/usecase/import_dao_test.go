package usecase_test

import (
	"context"
	"log/slog"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/dao-cli/internal/domain"
	"github.com/trebuchet-org/dao-cli/internal/domain/models"
	"github.com/trebuchet-org/dao-cli/internal/usecase"
)

func TestImportDAO(t *testing.T) {
	ctx := context.Background()
	factoryAddr := common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")

	t.Run("takes treasury from factory", func(t *testing.T) {
		registry := &MockRegistry{}
		gov := &MockGovernor{}
		factory := &MockFactory{}

		registry.On("Get", ctx, uint64(31337), governorAddr).Return(nil, domain.ErrNotFound)
		gov.On("Discover", ctx, uint64(31337), governorAddr).Return(tokenAddr, timelockAddr, nil)
		factory.On("StartBlock", uint64(31337)).Return(uint64(5))
		factory.On("Address", uint64(31337)).Return(factoryAddr, nil)
		factory.On("Count", ctx, uint64(31337)).Return(uint64(2), nil)
		factory.On("GetDAO", ctx, uint64(31337), big.NewInt(1)).Return(&models.DAOConfig{
			Governor: common.HexToAddress("0x9999999999999999999999999999999999999999"),
		}, nil)
		factory.On("GetDAO", ctx, uint64(31337), big.NewInt(0)).Return(&models.DAOConfig{
			Governor: governorAddr,
			Timelock: timelockAddr,
			Treasury: treasuryAddr,
			Token:    tokenAddr,
		}, nil)
		registry.On("Save", ctx, mock.AnythingOfType("*models.DAO")).Return(nil)

		uc := usecase.NewImportDAO(anvilConfig(), registry, gov, factory, slog.New(slog.DiscardHandler))
		result, err := uc.Run(ctx, usecase.ImportDAOParams{
			Governor: governorAddr.Hex(),
			Name:     "Acme",
			Tags:     []string{" Grants ", ""},
		})
		require.NoError(t, err)

		assert.True(t, result.FromFactory)
		assert.Equal(t, treasuryAddr, result.DAO.Config.Treasury)
		assert.Equal(t, big.NewInt(0), result.DAO.FactoryID)
		assert.Equal(t, uint64(5), result.DAO.StartBlock)
		assert.Equal(t, []string{"grants"}, result.DAO.Tags)
		gov.AssertNotCalled(t, "Settings", mock.Anything, mock.Anything)
		registry.AssertExpectations(t)
	})

	t.Run("already registered", func(t *testing.T) {
		registry := &MockRegistry{}
		registry.On("Get", ctx, uint64(31337), governorAddr).Return(testDAO(), nil)

		uc := usecase.NewImportDAO(anvilConfig(), registry, &MockGovernor{}, &MockFactory{}, slog.New(slog.DiscardHandler))
		result, err := uc.Run(ctx, usecase.ImportDAOParams{Governor: governorAddr.Hex()})
		require.NoError(t, err)
		assert.True(t, result.AlreadyKnown)
		registry.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("invalid address", func(t *testing.T) {
		uc := usecase.NewImportDAO(anvilConfig(), &MockRegistry{}, &MockGovernor{}, &MockFactory{}, slog.New(slog.DiscardHandler))
		_, err := uc.Run(ctx, usecase.ImportDAOParams{Governor: "0x1234"})
		assert.ErrorIs(t, err, domain.ErrInvalidAddress)
	})
}
