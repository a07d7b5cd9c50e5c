package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/trebuchet-org/dao-cli/internal/domain"
	"github.com/trebuchet-org/dao-cli/internal/domain/models"
)

// LifecycleResult contains the outcome of a queue, execute or cancel
type LifecycleResult struct {
	Proposal *models.Proposal
	Tx       *models.TxResult
}

// lifecycleBase loads proposals and checks their state before a lifecycle write
type lifecycleBase struct {
	governor GovernorClient
	progress ProgressSink
}

func (b *lifecycleBase) load(ctx context.Context, dao *models.DAO, id string) (*models.Proposal, error) {
	proposalID, err := ParseProposalID(id)
	if err != nil {
		return nil, err
	}
	proposal, err := b.governor.GetProposal(ctx, dao, proposalID)
	if err != nil {
		return nil, err
	}
	if len(proposal.Actions) == 0 {
		return nil, fmt.Errorf("proposal %s: actions could not be recovered from its ProposalCreated log", proposalID)
	}
	return proposal, nil
}

func requireStatus(p *models.Proposal, action string, want ...models.ProposalStatus) error {
	if lo.Contains(want, p.Status) {
		return nil
	}
	return domain.InvalidStateErr{
		ProposalID: p.ID.String(),
		Action:     action,
		Have:       p.Status.String(),
		Want:       lo.Map(want, func(s models.ProposalStatus, _ int) string { return s.String() }),
	}
}

// QueueProposal schedules a succeeded proposal on the timelock
type QueueProposal struct {
	lifecycleBase
}

// NewQueueProposal creates a new QueueProposal use case
func NewQueueProposal(governor GovernorClient, progress ProgressSink) *QueueProposal {
	return &QueueProposal{lifecycleBase{governor: governor, progress: progress}}
}

// Run executes the use case
func (uc *QueueProposal) Run(ctx context.Context, dao *models.DAO, id string) (*LifecycleResult, error) {
	if !dao.Config.HasTimelock() {
		return nil, fmt.Errorf("DAO %s has no timelock: succeeded proposals are executed directly", dao.DisplayName())
	}
	proposal, err := uc.load(ctx, dao, id)
	if err != nil {
		return nil, err
	}
	if err := requireStatus(proposal, "queue", models.ProposalStatusSucceeded); err != nil {
		return nil, err
	}

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: "queue", Message: "Queueing proposal", Spinner: true})
	tx, err := uc.governor.Queue(ctx, dao, proposal)
	if err != nil {
		return nil, fmt.Errorf("queue failed: %w", err)
	}
	return &LifecycleResult{Proposal: proposal, Tx: tx}, nil
}

// ExecuteProposal executes a proposal once it is ready
type ExecuteProposal struct {
	lifecycleBase
	timelock TimelockClient
	selector ProposalSelector
}

// NewExecuteProposal creates a new ExecuteProposal use case
func NewExecuteProposal(governor GovernorClient, timelock TimelockClient, selector ProposalSelector, progress ProgressSink) *ExecuteProposal {
	return &ExecuteProposal{
		lifecycleBase: lifecycleBase{governor: governor, progress: progress},
		timelock:      timelock,
		selector:      selector,
	}
}

// Run executes the proposal with the given id
func (uc *ExecuteProposal) Run(ctx context.Context, dao *models.DAO, id string) (*LifecycleResult, error) {
	proposal, err := uc.load(ctx, dao, id)
	if err != nil {
		return nil, err
	}
	if err := uc.checkExecutable(ctx, dao, proposal); err != nil {
		return nil, err
	}
	return uc.execute(ctx, dao, proposal)
}

// Executable lists the proposals that can be executed right now
func (uc *ExecuteProposal) Executable(ctx context.Context, dao *models.DAO) ([]*models.Proposal, error) {
	proposals, err := uc.governor.ListProposals(ctx, dao)
	if err != nil {
		return nil, fmt.Errorf("failed to list proposals: %w", err)
	}

	ready := make([]*models.Proposal, 0)
	for _, p := range proposals {
		if p.Status != models.ProposalStatusQueued && p.Status != models.ProposalStatusSucceeded {
			continue
		}
		if uc.checkExecutable(ctx, dao, p) == nil {
			ready = append(ready, p)
		}
	}
	sortNewestFirst(ready)
	return ready, nil
}

// RunSelect lets the user pick from the executable proposals and executes each in turn
func (uc *ExecuteProposal) RunSelect(ctx context.Context, dao *models.DAO) ([]*LifecycleResult, error) {
	ready, err := uc.Executable(ctx, dao)
	if err != nil {
		return nil, err
	}
	if len(ready) == 0 {
		return nil, nil
	}

	selected, err := uc.selector.SelectProposals(ctx, ready, "Select proposals to execute")
	if err != nil {
		return nil, err
	}

	results := make([]*LifecycleResult, 0, len(selected))
	for _, p := range selected {
		if len(p.Actions) == 0 {
			return results, fmt.Errorf("proposal %s: actions could not be recovered from its ProposalCreated log", p.ID)
		}
		res, err := uc.execute(ctx, dao, p)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

func (uc *ExecuteProposal) checkExecutable(ctx context.Context, dao *models.DAO, p *models.Proposal) error {
	if !dao.Config.HasTimelock() {
		return requireStatus(p, "execute", models.ProposalStatusSucceeded)
	}
	if err := requireStatus(p, "execute", models.ProposalStatusQueued); err != nil {
		return err
	}

	op, err := uc.timelock.ProposalOperation(ctx, dao, p)
	if err != nil {
		return fmt.Errorf("failed to read timelock operation: %w", err)
	}
	if op.State != models.TimelockOpReady {
		msg := fmt.Sprintf("timelock operation is %s", op.State)
		if op.State == models.TimelockOpWaiting && !op.ReadyAt.IsZero() {
			msg += fmt.Sprintf(", ready at %s (in %s)", op.ReadyAt.Format(time.RFC3339), time.Until(op.ReadyAt).Round(time.Second))
		}
		return fmt.Errorf("cannot execute proposal %s: %s: %w", p.ID, msg, domain.ErrInvalidState)
	}
	return nil
}

func (uc *ExecuteProposal) execute(ctx context.Context, dao *models.DAO, p *models.Proposal) (*LifecycleResult, error) {
	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   "execute",
		Message: fmt.Sprintf("Executing %s", p.Title),
		Spinner: true,
	})
	tx, err := uc.governor.Execute(ctx, dao, p)
	if err != nil {
		return nil, fmt.Errorf("execute failed: %w", err)
	}
	return &LifecycleResult{Proposal: p, Tx: tx}, nil
}

// CancelProposal cancels a pending proposal; only its proposer may do so
type CancelProposal struct {
	lifecycleBase
	wallet Wallet
}

// NewCancelProposal creates a new CancelProposal use case
func NewCancelProposal(governor GovernorClient, wallet Wallet, progress ProgressSink) *CancelProposal {
	return &CancelProposal{lifecycleBase: lifecycleBase{governor: governor, progress: progress}, wallet: wallet}
}

// Run executes the use case
func (uc *CancelProposal) Run(ctx context.Context, dao *models.DAO, id string) (*LifecycleResult, error) {
	caller, err := uc.wallet.Account(ctx)
	if err != nil {
		return nil, err
	}
	proposal, err := uc.load(ctx, dao, id)
	if err != nil {
		return nil, err
	}
	if err := requireStatus(proposal, "cancel", models.ProposalStatusPending); err != nil {
		return nil, err
	}
	if proposal.Proposer != caller {
		return nil, fmt.Errorf("only the proposer %s can cancel proposal %s: %w", proposal.Proposer.Hex(), proposal.ID, domain.ErrValidation)
	}

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: "cancel", Message: "Cancelling proposal", Spinner: true})
	tx, err := uc.governor.Cancel(ctx, dao, proposal)
	if err != nil {
		return nil, fmt.Errorf("cancel failed: %w", err)
	}
	return &LifecycleResult{Proposal: proposal, Tx: tx}, nil
}
