package fs

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/dao-cli/internal/domain/config"
	"github.com/trebuchet-org/dao-cli/internal/usecase"
)

// LocalConfigStoreAdapter keeps the session context in .dao/config.local.json
type LocalConfigStoreAdapter struct {
	path string
}

// NewLocalConfigStoreAdapter creates a new LocalConfigStoreAdapter
func NewLocalConfigStoreAdapter(cfg *config.RuntimeConfig) *LocalConfigStoreAdapter {
	return &LocalConfigStoreAdapter{path: filepath.Join(cfg.DataDir, "config.local.json")}
}

// Exists reports whether a session context was ever saved
func (s *LocalConfigStoreAdapter) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load returns the stored context, or an empty one when nothing is stored
func (s *LocalConfigStoreAdapter) Load(_ context.Context) (*config.LocalConfig, error) {
	local := config.DefaultLocalConfig()
	if _, err := readJSON(s.path, local); err != nil {
		return nil, err
	}
	normalize(local)
	return local, nil
}

// Save writes the context
func (s *LocalConfigStoreAdapter) Save(_ context.Context, local *config.LocalConfig) error {
	normalize(local)
	return writeJSON(s.path, local)
}

// GetPath returns the path to the config file
func (s *LocalConfigStoreAdapter) GetPath() string {
	return s.path
}

// normalize trims values and checksums a DAO stored as an address
func normalize(local *config.LocalConfig) {
	local.Network = strings.TrimSpace(local.Network)
	local.Sender = strings.TrimSpace(local.Sender)
	local.DAO = strings.TrimSpace(local.DAO)
	if common.IsHexAddress(local.DAO) {
		local.DAO = common.HexToAddress(local.DAO).Hex()
	}
}

var _ usecase.LocalConfigRepository = (*LocalConfigStoreAdapter)(nil)
