package usecase

import (
	"context"
	"sort"

	"github.com/trebuchet-org/dao-cli/internal/domain/models"
)

// ListDrafts lists saved wizard sessions, most recently updated first
type ListDrafts struct {
	drafts DraftStore
}

// NewListDrafts creates a new ListDrafts use case
func NewListDrafts(drafts DraftStore) *ListDrafts {
	return &ListDrafts{drafts: drafts}
}

// Run executes the use case
func (uc *ListDrafts) Run(ctx context.Context) ([]*models.WizardDraft, error) {
	drafts, err := uc.drafts.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(drafts, func(i, j int) bool {
		return drafts[i].UpdatedAt.After(drafts[j].UpdatedAt)
	})
	return drafts, nil
}

// DiscardDraft deletes a saved wizard session
type DiscardDraft struct {
	drafts DraftStore
}

// NewDiscardDraft creates a new DiscardDraft use case
func NewDiscardDraft(drafts DraftStore) *DiscardDraft {
	return &DiscardDraft{drafts: drafts}
}

// Run executes the use case
func (uc *DiscardDraft) Run(ctx context.Context, id string) error {
	return uc.drafts.Delete(ctx, id)
}
