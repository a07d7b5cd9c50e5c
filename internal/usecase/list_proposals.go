package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/samber/lo"
	"github.com/trebuchet-org/dao-cli/internal/domain/models"
)

// ListProposalsParams contains filters for listing proposals
type ListProposalsParams struct {
	Status []models.ProposalStatus
	// Limit keeps only the newest proposals; zero keeps all
	Limit int
}

// ListProposalsResult contains the proposals of a DAO, newest first
type ListProposalsResult struct {
	DAO       *models.DAO
	Proposals []*models.Proposal
	Total     int
}

// ListProposals lists the proposals of a DAO
type ListProposals struct {
	governor GovernorClient
}

// NewListProposals creates a new ListProposals use case
func NewListProposals(governor GovernorClient) *ListProposals {
	return &ListProposals{governor: governor}
}

// Run executes the use case
func (uc *ListProposals) Run(ctx context.Context, dao *models.DAO, params ListProposalsParams) (*ListProposalsResult, error) {
	proposals, err := uc.governor.ListProposals(ctx, dao)
	if err != nil {
		return nil, fmt.Errorf("failed to list proposals: %w", err)
	}

	result := &ListProposalsResult{DAO: dao, Total: len(proposals)}

	if len(params.Status) > 0 {
		proposals = lo.Filter(proposals, func(p *models.Proposal, _ int) bool {
			return lo.Contains(params.Status, p.Status)
		})
	}

	sortNewestFirst(proposals)

	if params.Limit > 0 && len(proposals) > params.Limit {
		proposals = proposals[:params.Limit]
	}
	result.Proposals = proposals
	return result, nil
}

func sortNewestFirst(proposals []*models.Proposal) {
	sort.SliceStable(proposals, func(i, j int) bool {
		if proposals[i].CreatedBlock != proposals[j].CreatedBlock {
			return proposals[i].CreatedBlock > proposals[j].CreatedBlock
		}
		return proposals[i].ID.Cmp(proposals[j].ID) > 0
	})
}
