package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/dao-cli/internal/domain/config"
)

func TestLocalConfigStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".dao")
	store := NewLocalConfigStoreAdapter(&config.RuntimeConfig{DataDir: dir})
	ctx := context.Background()

	assert.False(t, store.Exists())
	local, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultLocalConfig(), local)

	local.Network = " sepolia "
	local.DAO = "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"
	local.Sender = "deployer"
	require.NoError(t, store.Save(ctx, local))
	assert.True(t, store.Exists())

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "sepolia", loaded.Network)
	assert.Equal(t, "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", loaded.DAO)
	assert.Equal(t, "deployer", loaded.Sender)
}

func TestLocalConfigStoreKeepsDAONames(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.local.json"), []byte(`{"network":"anvil","dao":"Acme"}`), 0644))
	store := NewLocalConfigStoreAdapter(&config.RuntimeConfig{DataDir: dir})

	local, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Acme", local.DAO)
}

func TestLocalConfigStoreCorrupt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.local.json"), []byte("{"), 0644))
	store := NewLocalConfigStoreAdapter(&config.RuntimeConfig{DataDir: dir})

	_, err := store.Load(context.Background())
	assert.ErrorContains(t, err, "failed to parse")
}
