package blockchain

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/trebuchet-org/dao-cli/internal/adapters/abi/bindings"
	"github.com/trebuchet-org/dao-cli/internal/domain"
	"github.com/trebuchet-org/dao-cli/internal/domain/models"
	"github.com/trebuchet-org/dao-cli/internal/usecase"
	"golang.org/x/sync/errgroup"
)

const hydrateConcurrency = 8

// GovernorAdapter implements usecase.GovernorClient against an OpenZeppelin governor
type GovernorAdapter struct {
	chain
}

// NewGovernorAdapter creates a new governor adapter
func NewGovernorAdapter(pool *ClientPool, signer *Signer, log *slog.Logger) *GovernorAdapter {
	return &GovernorAdapter{chain{pool: pool, signer: signer, log: log.With("component", "GovernorAdapter")}}
}

func (g *GovernorAdapter) governor(ctx context.Context, dao *models.DAO) (*contract, error) {
	return g.bindContract(ctx, dao.ChainID, &bindings.GovernorMetaData, dao.Config.Governor)
}

// Discover reads token() and timelock(). A governor without timelock control yields a zero timelock.
func (g *GovernorAdapter) Discover(ctx context.Context, chainID uint64, governor common.Address) (common.Address, common.Address, error) {
	ct, err := g.bindContract(ctx, chainID, &bindings.GovernorMetaData, governor)
	if err != nil {
		return common.Address{}, common.Address{}, err
	}

	code, err := ct.backend.CodeAt(ctx, governor, nil)
	if err != nil {
		return common.Address{}, common.Address{}, fmt.Errorf("failed to check code: %w", err)
	}
	if len(code) == 0 {
		return common.Address{}, common.Address{}, fmt.Errorf("no contract at %s: %w", governor.Hex(), domain.ErrNotFound)
	}

	token, err := ct.callAddress(ctx, "token")
	if err != nil {
		return common.Address{}, common.Address{}, fmt.Errorf("%s does not look like a governor: %w", governor.Hex(), err)
	}

	timelock, err := ct.callAddress(ctx, "timelock")
	if err != nil {
		if !isMissingMethod(err) {
			return common.Address{}, common.Address{}, err
		}
		timelock = common.Address{}
	}
	return token, timelock, nil
}

// Settings reads the governor parameters shown in the settings tab
func (g *GovernorAdapter) Settings(ctx context.Context, dao *models.DAO) (*models.GovernorSettings, error) {
	ct, err := g.governor(ctx, dao)
	if err != nil {
		return nil, err
	}

	s := &models.GovernorSettings{
		Token:     dao.Config.Token,
		Timelock:  dao.Config.Timelock,
		ClockMode: models.ClockModeBlockNumber,
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() (err error) {
		s.Name, err = ct.callString(egCtx, "name")
		return err
	})
	eg.Go(func() error {
		version, err := ct.callString(egCtx, "version")
		if err != nil && !isMissingMethod(err) {
			return err
		}
		s.Version = version
		return nil
	})
	eg.Go(func() error {
		mode, err := ct.callString(egCtx, "CLOCK_MODE")
		if err != nil {
			if isMissingMethod(err) {
				return nil
			}
			return err
		}
		s.ClockMode = ParseClockMode(mode)
		return nil
	})
	eg.Go(func() (err error) {
		s.VotingDelay, err = ct.callUint64(egCtx, "votingDelay")
		return err
	})
	eg.Go(func() (err error) {
		s.VotingPeriod, err = ct.callUint64(egCtx, "votingPeriod")
		return err
	})
	eg.Go(func() (err error) {
		s.ProposalThreshold, err = ct.callBig(egCtx, "proposalThreshold")
		return err
	})
	eg.Go(func() (err error) {
		s.QuorumNumerator, err = ct.callBig(egCtx, "quorumNumerator")
		return err
	})
	eg.Go(func() (err error) {
		s.QuorumDenominator, err = ct.callBig(egCtx, "quorumDenominator")
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("failed to read governor settings: %w", err)
	}
	return s, nil
}

// ParseClockMode reads an ERC-6372 clock mode string
func ParseClockMode(mode string) models.ClockMode {
	for _, part := range strings.Split(mode, "&") {
		if strings.TrimSpace(part) == "mode=timestamp" {
			return models.ClockModeTimestamp
		}
	}
	return models.ClockModeBlockNumber
}

// Clock returns the governor's current timepoint, falling back to the block number
func (g *GovernorAdapter) Clock(ctx context.Context, dao *models.DAO) (uint64, error) {
	ct, err := g.governor(ctx, dao)
	if err != nil {
		return 0, err
	}
	clock, err := ct.callUint64(ctx, "clock")
	if err == nil {
		return clock, nil
	}
	if !isMissingMethod(err) {
		return 0, err
	}
	return ct.backend.BlockNumber(ctx)
}

// ListProposals scans ProposalCreated logs and hydrates each proposal
func (g *GovernorAdapter) ListProposals(ctx context.Context, dao *models.DAO) ([]*models.Proposal, error) {
	proposals, err := g.created(ctx, dao)
	if err != nil {
		return nil, err
	}
	if len(proposals) == 0 {
		return proposals, nil
	}

	ct, err := g.governor(ctx, dao)
	if err != nil {
		return nil, err
	}
	clock, err := g.Clock(ctx, dao)
	if err != nil {
		return nil, err
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(hydrateConcurrency)
	for _, p := range proposals {
		eg.Go(func() error {
			return hydrate(egCtx, ct, p, clock)
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return proposals, nil
}

// GetProposal returns one proposal with its current state
func (g *GovernorAdapter) GetProposal(ctx context.Context, dao *models.DAO, id *big.Int) (*models.Proposal, error) {
	proposals, err := g.created(ctx, dao)
	if err != nil {
		return nil, err
	}

	var found *models.Proposal
	for _, p := range proposals {
		if p.ID.Cmp(id) == 0 {
			found = p
			break
		}
	}
	if found == nil {
		return nil, fmt.Errorf("proposal %s: %w", id, domain.ErrNotFound)
	}

	ct, err := g.governor(ctx, dao)
	if err != nil {
		return nil, err
	}
	clock, err := g.Clock(ctx, dao)
	if err != nil {
		return nil, err
	}
	if err := hydrate(ctx, ct, found, clock); err != nil {
		return nil, err
	}
	return found, nil
}

// created decodes every ProposalCreated log of the governor
func (g *GovernorAdapter) created(ctx context.Context, dao *models.DAO) ([]*models.Proposal, error) {
	ct, err := g.governor(ctx, dao)
	if err != nil {
		return nil, err
	}
	event := ct.abi.Events["ProposalCreated"]

	logs, err := g.scanLogs(ctx, dao.ChainID, []common.Address{dao.Config.Governor}, [][]common.Hash{{event.ID}}, dao.StartBlock)
	if err != nil {
		return nil, fmt.Errorf("failed to list proposals: %w", err)
	}

	proposals := make([]*models.Proposal, 0, len(logs))
	for _, lg := range logs {
		p, err := decodeProposalCreated(ct, lg)
		if err != nil {
			g.log.Warn("Skipping undecodable ProposalCreated log", "tx", lg.TxHash, "error", err)
			continue
		}
		proposals = append(proposals, p)
	}
	return proposals, nil
}

func decodeProposalCreated(ct *contract, lg types.Log) (*models.Proposal, error) {
	fields := make(map[string]interface{})
	if err := ct.abi.UnpackIntoMap(fields, "ProposalCreated", lg.Data); err != nil {
		return nil, err
	}

	id, _ := fields["proposalId"].(*big.Int)
	proposer, _ := fields["proposer"].(common.Address)
	targets, _ := fields["targets"].([]common.Address)
	values, _ := fields["values"].([]*big.Int)
	signatures, _ := fields["signatures"].([]string)
	calldatas, _ := fields["calldatas"].([][]byte)
	description, _ := fields["description"].(string)
	voteStart, _ := fields["voteStart"].(*big.Int)
	voteEnd, _ := fields["voteEnd"].(*big.Int)

	if id == nil {
		return nil, fmt.Errorf("missing proposalId")
	}
	if len(values) != len(targets) || len(calldatas) != len(targets) {
		return nil, fmt.Errorf("proposal %s: action arrays differ in length", id)
	}

	p := &models.Proposal{
		ID:           id,
		Proposer:     proposer,
		Title:        models.TitleFromDescription(description),
		Description:  description,
		Votes:        models.NewVoteTally(),
		Actions:      make([]models.ProposalAction, len(targets)),
		CreatedBlock: lg.BlockNumber,
		CreatedTx:    lg.TxHash,
	}
	if voteStart != nil {
		p.Snapshot = voteStart.Uint64()
	}
	if voteEnd != nil {
		p.Deadline = voteEnd.Uint64()
	}
	for i := range targets {
		p.Actions[i] = models.ProposalAction{
			Target:   targets[i],
			Value:    values[i],
			Calldata: calldatas[i],
		}
		if i < len(signatures) {
			p.Actions[i].Signature = signatures[i]
		}
	}
	return p, nil
}

// hydrate reads state, votes, timepoints, quorum and eta for a proposal
func hydrate(ctx context.Context, ct *contract, p *models.Proposal, clock uint64) error {
	state, err := ct.callUint64(ctx, "state", p.ID)
	if err != nil {
		return err
	}
	p.Status = models.ProposalStatus(state)

	out, err := ct.call(ctx, "proposalVotes", p.ID)
	if err != nil {
		return err
	}
	if len(out) == 3 {
		against, _ := out[0].(*big.Int)
		forVotes, _ := out[1].(*big.Int)
		abstain, _ := out[2].(*big.Int)
		p.Votes = models.VoteTally{For: forVotes, Against: against, Abstain: abstain}
	}

	if p.Snapshot, err = ct.callUint64(ctx, "proposalSnapshot", p.ID); err != nil {
		return err
	}
	if p.Deadline, err = ct.callUint64(ctx, "proposalDeadline", p.ID); err != nil {
		return err
	}

	if p.Quorum, err = ct.callBig(ctx, "quorum", new(big.Int).SetUint64(QuorumTimepoint(p.Snapshot, clock))); err != nil {
		return err
	}

	if p.Status == models.ProposalStatusQueued || p.Status == models.ProposalStatusExecuted {
		eta, err := ct.callUint64(ctx, "proposalEta", p.ID)
		if err != nil && !isMissingMethod(err) {
			return err
		}
		p.ETA = eta
	}
	return nil
}

// QuorumTimepoint is the timepoint quorum is read at. A pending proposal's
// snapshot lies in the future, which quorum() rejects, so the last past
// timepoint is used until the snapshot is reached.
func QuorumTimepoint(snapshot, clock uint64) uint64 {
	if clock == 0 {
		return snapshot
	}
	if snapshot < clock {
		return snapshot
	}
	return clock - 1
}

// VoteLog returns every vote cast on a proposal in block order
func (g *GovernorAdapter) VoteLog(ctx context.Context, dao *models.DAO, id *big.Int) ([]*models.Vote, error) {
	ct, err := g.governor(ctx, dao)
	if err != nil {
		return nil, err
	}
	voteCast := ct.abi.Events["VoteCast"]
	withParams := ct.abi.Events["VoteCastWithParams"]

	logs, err := g.scanLogs(ctx, dao.ChainID, []common.Address{dao.Config.Governor},
		[][]common.Hash{{voteCast.ID, withParams.ID}}, dao.StartBlock)
	if err != nil {
		return nil, fmt.Errorf("failed to read votes: %w", err)
	}

	var votes []*models.Vote
	for _, lg := range logs {
		name := voteCast.Name
		if lg.Topics[0] == withParams.ID {
			name = withParams.Name
		}
		fields := make(map[string]interface{})
		if err := ct.abi.UnpackIntoMap(fields, name, lg.Data); err != nil {
			g.log.Warn("Skipping undecodable vote log", "tx", lg.TxHash, "error", err)
			continue
		}
		proposalID, _ := fields["proposalId"].(*big.Int)
		if proposalID == nil || proposalID.Cmp(id) != 0 {
			continue
		}
		support, _ := fields["support"].(uint8)
		weight, _ := fields["weight"].(*big.Int)
		reason, _ := fields["reason"].(string)

		vote := &models.Vote{
			ProposalID: proposalID,
			Support:    models.VoteSupport(support),
			Weight:     weight,
			Reason:     reason,
			Block:      lg.BlockNumber,
			TxHash:     lg.TxHash,
		}
		if len(lg.Topics) > 1 {
			vote.Voter = common.BytesToAddress(lg.Topics[1].Bytes())
		}
		votes = append(votes, vote)
	}
	return votes, nil
}

func (g *GovernorAdapter) HasVoted(ctx context.Context, dao *models.DAO, id *big.Int, account common.Address) (bool, error) {
	ct, err := g.governor(ctx, dao)
	if err != nil {
		return false, err
	}
	return ct.callBool(ctx, "hasVoted", id, account)
}

func (g *GovernorAdapter) GetVotes(ctx context.Context, dao *models.DAO, account common.Address, timepoint uint64) (*big.Int, error) {
	ct, err := g.governor(ctx, dao)
	if err != nil {
		return nil, err
	}
	return ct.callBig(ctx, "getVotes", account, new(big.Int).SetUint64(timepoint))
}

// Propose submits a new proposal
func (g *GovernorAdapter) Propose(ctx context.Context, dao *models.DAO, actions []models.ProposalAction, description string) (*models.TxResult, error) {
	ct, err := g.governor(ctx, dao)
	if err != nil {
		return nil, err
	}
	p := &models.Proposal{Actions: actions}
	result, _, err := g.send(ctx, ct, nil, "propose", p.Targets(), p.Values(), p.Calldatas(), description)
	return result, err
}

// CastVote votes with or without a reason
func (g *GovernorAdapter) CastVote(ctx context.Context, dao *models.DAO, id *big.Int, support models.VoteSupport, reason string) (*models.TxResult, error) {
	ct, err := g.governor(ctx, dao)
	if err != nil {
		return nil, err
	}
	var result *models.TxResult
	if reason == "" {
		result, _, err = g.send(ctx, ct, nil, "castVote", id, uint8(support))
	} else {
		result, _, err = g.send(ctx, ct, nil, "castVoteWithReason", id, uint8(support), reason)
	}
	return result, err
}

func (g *GovernorAdapter) Queue(ctx context.Context, dao *models.DAO, proposal *models.Proposal) (*models.TxResult, error) {
	return g.lifecycle(ctx, dao, proposal, "queue")
}

func (g *GovernorAdapter) Execute(ctx context.Context, dao *models.DAO, proposal *models.Proposal) (*models.TxResult, error) {
	return g.lifecycle(ctx, dao, proposal, "execute")
}

func (g *GovernorAdapter) Cancel(ctx context.Context, dao *models.DAO, proposal *models.Proposal) (*models.TxResult, error) {
	return g.lifecycle(ctx, dao, proposal, "cancel")
}

// lifecycle calls queue/execute/cancel, which all take the proposal arrays and description hash
func (g *GovernorAdapter) lifecycle(ctx context.Context, dao *models.DAO, proposal *models.Proposal, method string) (*models.TxResult, error) {
	ct, err := g.governor(ctx, dao)
	if err != nil {
		return nil, err
	}
	g.log.Debug("Proposal lifecycle", "method", method, "proposal", proposal.ID)
	result, _, err := g.send(ctx, ct, nil, method,
		proposal.Targets(), proposal.Values(), proposal.Calldatas(), [32]byte(bindings.DescriptionHash(proposal.Description)))
	return result, err
}

var _ usecase.GovernorClient = (*GovernorAdapter)(nil)
