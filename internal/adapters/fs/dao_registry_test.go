package fs

import (
	"context"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/dao-cli/internal/domain"
	"github.com/trebuchet-org/dao-cli/internal/domain/config"
	"github.com/trebuchet-org/dao-cli/internal/domain/models"
)

func newTestRegistry(t *testing.T) (*DAORegistryAdapter, string) {
	t.Helper()
	tmpDir := t.TempDir()
	return NewDAORegistryAdapter(&config.RuntimeConfig{DataDir: tmpDir}), tmpDir
}

func sampleDAO(chainID uint64, governor, name string) *models.DAO {
	return &models.DAO{
		ChainID:  chainID,
		Name:     name,
		Category: "grants",
		Tags:     []string{"defi"},
		Config: models.DAOConfig{
			Governor:  common.HexToAddress(governor),
			Timelock:  common.HexToAddress("0x2000000000000000000000000000000000000002"),
			Treasury:  common.HexToAddress("0x2000000000000000000000000000000000000003"),
			Token:     common.HexToAddress("0x2000000000000000000000000000000000000004"),
			TokenType: models.TokenTypeERC721Votes,
			CreatedAt: time.Unix(1700000000, 0).UTC(),
		},
		FactoryID:  big.NewInt(3),
		StartBlock: 42,
		AddedAt:    time.Now().UTC().Truncate(time.Second),
	}
}

func TestDAORegistry_Empty(t *testing.T) {
	registry, _ := newTestRegistry(t)
	ctx := context.Background()

	daos, err := registry.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, daos)

	_, err = registry.Get(ctx, 1, common.HexToAddress("0x01"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDAORegistry_SaveAndGet(t *testing.T) {
	registry, dir := newTestRegistry(t)
	ctx := context.Background()

	dao := sampleDAO(31337, "0x1000000000000000000000000000000000000001", "Acme")
	require.NoError(t, registry.Save(ctx, dao))

	_, err := os.Stat(filepath.Join(dir, "daos.json"))
	require.NoError(t, err)

	got, err := registry.Get(ctx, 31337, dao.Config.Governor)
	require.NoError(t, err)
	assert.Equal(t, dao.Name, got.Name)
	assert.Equal(t, dao.Config.Treasury, got.Config.Treasury)
	assert.True(t, dao.Config.CreatedAt.Equal(got.Config.CreatedAt))
	assert.Equal(t, 0, dao.FactoryID.Cmp(got.FactoryID))
	assert.Equal(t, models.TokenTypeERC721Votes, got.Config.TokenType)

	// same governor on another chain is a different DAO
	_, err = registry.Get(ctx, 1, dao.Config.Governor)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDAORegistry_FindByName(t *testing.T) {
	registry, _ := newTestRegistry(t)
	ctx := context.Background()

	require.NoError(t, registry.Save(ctx, sampleDAO(1, "0x1000000000000000000000000000000000000001", "Acme")))
	require.NoError(t, registry.Save(ctx, sampleDAO(10, "0x1000000000000000000000000000000000000002", "acme")))
	require.NoError(t, registry.Save(ctx, sampleDAO(1, "0x1000000000000000000000000000000000000003", "Other")))

	matches, err := registry.FindByName(ctx, "ACME")
	require.NoError(t, err)
	assert.Len(t, matches, 2)

	all, err := registry.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestDAORegistry_Remove(t *testing.T) {
	registry, _ := newTestRegistry(t)
	ctx := context.Background()

	dao := sampleDAO(1, "0x1000000000000000000000000000000000000001", "Acme")
	require.NoError(t, registry.Save(ctx, dao))
	require.NoError(t, registry.Remove(ctx, 1, dao.Config.Governor))

	_, err := registry.Get(ctx, 1, dao.Config.Governor)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, registry.Remove(ctx, 1, dao.Config.Governor), domain.ErrNotFound)
}

func TestDAORegistry_CorruptFile(t *testing.T) {
	registry, dir := newTestRegistry(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "daos.json"), []byte("{not json"), 0644))

	_, err := registry.List(context.Background())
	assert.ErrorContains(t, err, "DAO registry: failed to parse")
}
