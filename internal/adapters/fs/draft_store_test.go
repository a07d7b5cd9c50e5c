package fs

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/dao-cli/internal/domain"
	"github.com/trebuchet-org/dao-cli/internal/domain/config"
	"github.com/trebuchet-org/dao-cli/internal/domain/models"
)

func TestDraftStore(t *testing.T) {
	store := NewDraftStoreAdapter(&config.RuntimeConfig{DataDir: t.TempDir()})
	ctx := context.Background()

	drafts, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, drafts)

	now := time.Now().UTC().Truncate(time.Second)
	draft := &models.WizardDraft{
		ID:      uuid.NewString(),
		ChainID: 31337,
		Step:    models.StepGovernance,
		Params: models.DAOCreationParams{
			Name:        "Acme",
			TokenSymbol: "ACME",
			Holders: []models.Holder{{
				Address: common.HexToAddress("0xA11CE00000000000000000000000000000000001"),
				Amount:  big.NewInt(1000),
			}},
			QuorumPercent: 4,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, store.Save(ctx, draft))

	got, err := store.Get(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StepGovernance, got.Step)
	assert.Equal(t, "Acme", got.Params.Name)
	require.Len(t, got.Params.Holders, 1)
	assert.Equal(t, 0, got.Params.Holders[0].Amount.Cmp(big.NewInt(1000)))
	assert.True(t, now.Equal(got.CreatedAt))

	drafts, err = store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, drafts, 1)

	require.NoError(t, store.Delete(ctx, draft.ID))
	_, err = store.Get(ctx, draft.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, draft.ID), domain.ErrNotFound)
}

func TestDraftStore_RejectsPathLikeIDs(t *testing.T) {
	store := NewDraftStoreAdapter(&config.RuntimeConfig{DataDir: t.TempDir()})

	_, err := store.Get(context.Background(), "../daos")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
