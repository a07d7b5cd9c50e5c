package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/trebuchet-org/dao-cli/internal/domain"
	"github.com/trebuchet-org/dao-cli/internal/domain/config"
	"github.com/trebuchet-org/dao-cli/internal/domain/models"
	"github.com/trebuchet-org/dao-cli/internal/usecase"
)

// DraftStoreAdapter implements DraftStore with one JSON file per draft
type DraftStoreAdapter struct {
	dir string
}

// NewDraftStoreAdapter creates a new DraftStoreAdapter
func NewDraftStoreAdapter(cfg *config.RuntimeConfig) *DraftStoreAdapter {
	return &DraftStoreAdapter{dir: filepath.Join(cfg.DataDir, "drafts")}
}

func (s *DraftStoreAdapter) path(id string) (string, error) {
	if _, err := uuid.Parse(id); err != nil {
		return "", fmt.Errorf("draft id %q: %w", id, domain.ErrNotFound)
	}
	return filepath.Join(s.dir, id+".json"), nil
}

// Get loads a draft by id
func (s *DraftStoreAdapter) Get(_ context.Context, id string) (*models.WizardDraft, error) {
	path, err := s.path(id)
	if err != nil {
		return nil, err
	}
	return readDraft(path)
}

// List loads every saved draft
func (s *DraftStoreAdapter) List(_ context.Context) ([]*models.WizardDraft, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read drafts directory: %w", err)
	}

	drafts := make([]*models.WizardDraft, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		draft, err := readDraft(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		drafts = append(drafts, draft)
	}
	return drafts, nil
}

// Save writes a draft
func (s *DraftStoreAdapter) Save(_ context.Context, draft *models.WizardDraft) error {
	path, err := s.path(draft.ID)
	if err != nil {
		return err
	}
	return writeJSON(path, draft)
}

// Delete removes a draft
func (s *DraftStoreAdapter) Delete(_ context.Context, id string) error {
	path, err := s.path(id)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	return nil
}

func readDraft(path string) (*models.WizardDraft, error) {
	var draft models.WizardDraft
	found, err := readJSON(path, &draft)
	if err != nil {
		return nil, fmt.Errorf("draft: %w", err)
	}
	if !found {
		return nil, domain.ErrNotFound
	}
	return &draft, nil
}

// Ensure DraftStoreAdapter implements DraftStore
var _ usecase.DraftStore = (*DraftStoreAdapter)(nil)
