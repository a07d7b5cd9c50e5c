package fs

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/dao-cli/internal/domain"
	"github.com/trebuchet-org/dao-cli/internal/domain/config"
	"github.com/trebuchet-org/dao-cli/internal/domain/models"
	"github.com/trebuchet-org/dao-cli/internal/usecase"
)

const registryVersion = 1

// registryFile is the on-disk layout of daos.json
type registryFile struct {
	Version int                    `json:"version"`
	DAOs    map[string]*models.DAO `json:"daos"`
}

// DAORegistryAdapter implements DAORegistry on .dao/daos.json
type DAORegistryAdapter struct {
	path string
	mu   sync.Mutex
}

// NewDAORegistryAdapter creates a new DAORegistryAdapter
func NewDAORegistryAdapter(cfg *config.RuntimeConfig) *DAORegistryAdapter {
	return &DAORegistryAdapter{
		path: filepath.Join(cfg.DataDir, "daos.json"),
	}
}

func (r *DAORegistryAdapter) load() (*registryFile, error) {
	file := registryFile{Version: registryVersion}
	if _, err := readJSON(r.path, &file); err != nil {
		return nil, fmt.Errorf("DAO registry: %w", err)
	}
	if file.DAOs == nil {
		file.DAOs = map[string]*models.DAO{}
	}
	return &file, nil
}

// List returns every registered DAO
func (r *DAORegistryAdapter) List(_ context.Context) ([]*models.DAO, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.load()
	if err != nil {
		return nil, err
	}

	daos := make([]*models.DAO, 0, len(file.DAOs))
	for _, dao := range file.DAOs {
		daos = append(daos, dao)
	}
	return daos, nil
}

// Get returns the DAO with the given governor on a chain
func (r *DAORegistryAdapter) Get(_ context.Context, chainID uint64, governor common.Address) (*models.DAO, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.load()
	if err != nil {
		return nil, err
	}

	dao, ok := file.DAOs[registryKey(chainID, governor)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return dao, nil
}

// FindByName returns DAOs whose name matches case-insensitively
func (r *DAORegistryAdapter) FindByName(_ context.Context, name string) ([]*models.DAO, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.load()
	if err != nil {
		return nil, err
	}

	var matches []*models.DAO
	for _, dao := range file.DAOs {
		if strings.EqualFold(dao.Name, name) {
			matches = append(matches, dao)
		}
	}
	return matches, nil
}

// Save inserts or replaces a DAO
func (r *DAORegistryAdapter) Save(_ context.Context, dao *models.DAO) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.load()
	if err != nil {
		return err
	}

	file.DAOs[registryKey(dao.ChainID, dao.Config.Governor)] = dao
	return writeJSON(r.path, file)
}

// Remove deletes a DAO from the registry
func (r *DAORegistryAdapter) Remove(_ context.Context, chainID uint64, governor common.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.load()
	if err != nil {
		return err
	}

	key := registryKey(chainID, governor)
	if _, ok := file.DAOs[key]; !ok {
		return domain.ErrNotFound
	}
	delete(file.DAOs, key)
	return writeJSON(r.path, file)
}

func registryKey(chainID uint64, governor common.Address) string {
	return fmt.Sprintf("%d/%s", chainID, governor.Hex())
}

// Ensure DAORegistryAdapter implements DAORegistry
var _ usecase.DAORegistry = (*DAORegistryAdapter)(nil)
