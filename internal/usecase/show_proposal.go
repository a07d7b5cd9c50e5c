package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/trebuchet-org/dao-cli/internal/domain"
	"github.com/trebuchet-org/dao-cli/internal/domain/models"
	"golang.org/x/sync/errgroup"
)

// ShowProposal builds the detail view of one proposal
type ShowProposal struct {
	governor GovernorClient
	timelock TimelockClient
	wallet   Wallet
}

// NewShowProposal creates a new ShowProposal use case
func NewShowProposal(governor GovernorClient, timelock TimelockClient, wallet Wallet) *ShowProposal {
	return &ShowProposal{governor: governor, timelock: timelock, wallet: wallet}
}

// Run executes the use case; id is decimal or 0x-prefixed hex
func (uc *ShowProposal) Run(ctx context.Context, dao *models.DAO, id string) (*models.ProposalDetail, error) {
	proposalID, err := ParseProposalID(id)
	if err != nil {
		return nil, err
	}

	proposal, err := uc.governor.GetProposal(ctx, dao, proposalID)
	if err != nil {
		return nil, err
	}
	detail := &models.ProposalDetail{Proposal: proposal}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		votes, err := uc.governor.VoteLog(gctx, dao, proposalID)
		if err != nil {
			return fmt.Errorf("failed to read votes: %w", err)
		}
		detail.VoteLog = votes
		return nil
	})
	g.Go(func() error {
		now, err := uc.governor.Clock(gctx, dao)
		if err != nil {
			return fmt.Errorf("failed to read clock: %w", err)
		}
		detail.CurrentTimepoint = now
		return nil
	})
	g.Go(func() error {
		account, err := uc.wallet.Account(gctx)
		if errors.Is(err, domain.ErrNoSigner) {
			return nil
		}
		if err != nil {
			return err
		}
		voted, err := uc.governor.HasVoted(gctx, dao, proposalID, account)
		if err != nil {
			return fmt.Errorf("failed to read vote receipt: %w", err)
		}
		detail.HasVoted = &voted
		return nil
	})
	if dao.Config.HasTimelock() && (proposal.Status == models.ProposalStatusQueued || proposal.Status == models.ProposalStatusExecuted) {
		g.Go(func() error {
			op, err := uc.timelock.ProposalOperation(gctx, dao, proposal)
			if err != nil {
				return fmt.Errorf("failed to read timelock operation: %w", err)
			}
			detail.TimelockOp = op
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return detail, nil
}
