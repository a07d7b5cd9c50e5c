package blockchain

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/dao-cli/internal/adapters/abi/bindings"
	"github.com/trebuchet-org/dao-cli/internal/domain"
	"github.com/trebuchet-org/dao-cli/internal/domain/models"
	"github.com/trebuchet-org/dao-cli/internal/usecase"
	"golang.org/x/sync/errgroup"
)

// TimelockAdapter implements usecase.TimelockClient against a TimelockController
type TimelockAdapter struct {
	chain
}

// NewTimelockAdapter creates a new timelock adapter
func NewTimelockAdapter(pool *ClientPool, log *slog.Logger) *TimelockAdapter {
	return &TimelockAdapter{chain{pool: pool, log: log.With("component", "TimelockAdapter")}}
}

func (t *TimelockAdapter) timelock(ctx context.Context, dao *models.DAO) (*contract, error) {
	if !dao.Config.HasTimelock() {
		return nil, fmt.Errorf("%s has no timelock: %w", dao.DisplayName(), domain.ErrNotFound)
	}
	return t.bindContract(ctx, dao.ChainID, &bindings.TimelockMetaData, dao.Config.Timelock)
}

// Settings reads the minimum delay and the governor's roles
func (t *TimelockAdapter) Settings(ctx context.Context, dao *models.DAO) (*models.TimelockSettings, error) {
	ct, err := t.timelock(ctx, dao)
	if err != nil {
		return nil, err
	}

	s := &models.TimelockSettings{Address: dao.Config.Timelock}
	governor := dao.Config.Governor

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		delay, err := ct.callUint64(egCtx, "getMinDelay")
		if err != nil {
			return err
		}
		s.MinDelay = time.Duration(delay) * time.Second
		return nil
	})
	eg.Go(func() (err error) {
		s.GovernorIsProposer, err = ct.callBool(egCtx, "hasRole", [32]byte(bindings.ProposerRole), governor)
		return err
	})
	eg.Go(func() (err error) {
		s.GovernorIsExecutor, err = ct.callBool(egCtx, "hasRole", [32]byte(bindings.ExecutorRole), governor)
		return err
	})
	eg.Go(func() (err error) {
		s.GovernorIsCanceller, err = ct.callBool(egCtx, "hasRole", [32]byte(bindings.CancellerRole), governor)
		return err
	})
	eg.Go(func() (err error) {
		s.OpenExecutor, err = ct.callBool(egCtx, "hasRole", [32]byte(bindings.ExecutorRole), common.Address{})
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("failed to read timelock settings: %w", err)
	}
	return s, nil
}

// ProposalOperation looks up the batch operation a proposal was scheduled as
func (t *TimelockAdapter) ProposalOperation(ctx context.Context, dao *models.DAO, proposal *models.Proposal) (*models.TimelockOperation, error) {
	ct, err := t.timelock(ctx, dao)
	if err != nil {
		return nil, err
	}

	id, err := bindings.TimelockOperationID(dao.Config.Governor,
		proposal.Targets(), proposal.Values(), proposal.Calldatas(), bindings.DescriptionHash(proposal.Description))
	if err != nil {
		return nil, fmt.Errorf("failed to hash operation: %w", err)
	}

	var (
		exists, pending, ready, done bool
		ts                           uint64
	)
	key := [32]byte(id)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() (err error) {
		exists, err = ct.callBool(egCtx, "isOperation", key)
		return err
	})
	eg.Go(func() (err error) {
		pending, err = ct.callBool(egCtx, "isOperationPending", key)
		return err
	})
	eg.Go(func() (err error) {
		ready, err = ct.callBool(egCtx, "isOperationReady", key)
		return err
	})
	eg.Go(func() (err error) {
		done, err = ct.callBool(egCtx, "isOperationDone", key)
		return err
	})
	eg.Go(func() (err error) {
		ts, err = ct.callUint64(egCtx, "getTimestamp", key)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("failed to read timelock operation: %w", err)
	}

	op := &models.TimelockOperation{ID: id}
	switch {
	case !exists:
		op.State = models.TimelockOpUnset
	case done:
		op.State = models.TimelockOpDone
	case pending && ready:
		op.State = models.TimelockOpReady
	case pending:
		op.State = models.TimelockOpWaiting
	default:
		return nil, fmt.Errorf("timelock operation %s is neither pending nor done", id.Hex())
	}
	if op.State == models.TimelockOpReady || op.State == models.TimelockOpWaiting {
		op.ReadyAt = time.Unix(int64(ts), 0).UTC()
	}
	return op, nil
}

var _ usecase.TimelockClient = (*TimelockAdapter)(nil)
