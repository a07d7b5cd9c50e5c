package usecase

import (
	"context"
	"fmt"
	"math/big"

	"github.com/trebuchet-org/dao-cli/internal/domain"
	"github.com/trebuchet-org/dao-cli/internal/domain/models"
)

// CastVoteParams contains parameters for voting
type CastVoteParams struct {
	ProposalID string
	Support    string
	Reason     string
}

// CastVoteResult contains the outcome of a vote
type CastVoteResult struct {
	Proposal *models.Proposal
	Support  models.VoteSupport
	Weight   *big.Int
	Tx       *models.TxResult
}

// CastVote votes on an active proposal
type CastVote struct {
	governor GovernorClient
	wallet   Wallet
	progress ProgressSink
}

// NewCastVote creates a new CastVote use case
func NewCastVote(governor GovernorClient, wallet Wallet, progress ProgressSink) *CastVote {
	return &CastVote{governor: governor, wallet: wallet, progress: progress}
}

// Run executes the use case
func (uc *CastVote) Run(ctx context.Context, dao *models.DAO, params CastVoteParams) (*CastVoteResult, error) {
	id, err := ParseProposalID(params.ProposalID)
	if err != nil {
		return nil, err
	}
	support, err := models.ParseVoteSupport(params.Support)
	if err != nil {
		return nil, domain.ValidationError{Field: "support", Reason: err.Error()}
	}

	voter, err := uc.wallet.Account(ctx)
	if err != nil {
		return nil, err
	}

	proposal, err := uc.governor.GetProposal(ctx, dao, id)
	if err != nil {
		return nil, err
	}
	if proposal.Status != models.ProposalStatusActive {
		return nil, domain.InvalidStateErr{
			ProposalID: id.String(),
			Action:     "vote on",
			Have:       proposal.Status.String(),
			Want:       []string{models.ProposalStatusActive.String()},
		}
	}

	voted, err := uc.governor.HasVoted(ctx, dao, id, voter)
	if err != nil {
		return nil, fmt.Errorf("failed to read vote receipt: %w", err)
	}
	if voted {
		return nil, fmt.Errorf("%s already voted on this proposal: %w", voter.Hex(), domain.ErrAlreadyExists)
	}

	weight, err := uc.governor.GetVotes(ctx, dao, voter, proposal.Snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to read voting weight: %w", err)
	}
	if weight.Sign() == 0 {
		uc.progress.Info("Your voting weight at the proposal snapshot is 0; the vote will be recorded without weight")
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   "vote",
		Message: fmt.Sprintf("Voting %s", support),
		Spinner: true,
	})
	tx, err := uc.governor.CastVote(ctx, dao, id, support, params.Reason)
	if err != nil {
		return nil, fmt.Errorf("vote failed: %w", err)
	}

	return &CastVoteResult{Proposal: proposal, Support: support, Weight: weight, Tx: tx}, nil
}
