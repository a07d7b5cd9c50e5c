package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/dao-cli/internal/domain/config"
)

func writeDAOFile(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DAOFileName), []byte(content), 0644))
}

func TestLoadDAOFile(t *testing.T) {
	t.Run("missing file returns nil", func(t *testing.T) {
		cfg, err := LoadDAOFile(t.TempDir())
		require.NoError(t, err)
		assert.Nil(t, cfg)
	})

	t.Run("full file with env expansion", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv("DAO_TEST_KEY", "0xabc123")
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DAO_TEST_RPC=http://localhost:8545\n"), 0644))
		t.Cleanup(func() { os.Unsetenv("DAO_TEST_RPC") })

		writeDAOFile(t, dir, `
[networks.anvil]
rpc_url = "${DAO_TEST_RPC}"
chain_id = 31337
max_log_range = 500
poll_interval = "1s"

[contracts.31337]
factory = "0x5FbDB2315678afecb367f032d93F642f64180aa3"
start_block = 1
tokens = ["0x0000000000000000000000000000000000000001"]

[senders.default]
type = "private_key"
private_key = "${DAO_TEST_KEY}"

[server]
listen = ":9000"
cors_origins = ["http://localhost:3000"]
cache_ttl = "30s"
`)

		cfg, err := LoadDAOFile(dir)
		require.NoError(t, err)
		require.NotNil(t, cfg)

		anvil := cfg.Networks["anvil"]
		assert.Equal(t, "http://localhost:8545", anvil.RPCURL)
		assert.Equal(t, uint64(31337), anvil.ChainID)
		assert.Equal(t, uint64(500), anvil.MaxLogRange)

		assert.Equal(t, uint64(1), cfg.Contracts["31337"].StartBlock)
		assert.Len(t, cfg.Contracts["31337"].Tokens, 1)

		assert.Equal(t, config.SenderTypePrivateKey, cfg.Senders["default"].Type)
		assert.Equal(t, "0xabc123", cfg.Senders["default"].PrivateKey)

		assert.Equal(t, ":9000", cfg.Server.ListenAddr())
		assert.Equal(t, "30s", cfg.Server.CacheTTLDuration().String())
	})

	t.Run("network without rpc_url is rejected", func(t *testing.T) {
		dir := t.TempDir()
		writeDAOFile(t, dir, `
[networks.broken]
chain_id = 1
`)
		_, err := LoadDAOFile(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "rpc_url is required")
	})

	t.Run("unknown sender type is rejected", func(t *testing.T) {
		dir := t.TempDir()
		writeDAOFile(t, dir, `
[senders.hw]
type = "ledger"
`)
		_, err := LoadDAOFile(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown type "ledger"`)
	})

	t.Run("invalid toml", func(t *testing.T) {
		dir := t.TempDir()
		writeDAOFile(t, dir, "[networks\n")
		_, err := LoadDAOFile(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse dao.toml")
	})
}

func TestServerConfigDefaults(t *testing.T) {
	var s config.ServerConfig
	assert.Equal(t, config.DefaultListen, s.ListenAddr())
	assert.Equal(t, config.DefaultCacheTTL, s.CacheTTLDuration())

	s.CacheTTL = "garbage"
	assert.Equal(t, config.DefaultCacheTTL, s.CacheTTLDuration())
}
