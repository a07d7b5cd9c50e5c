package usecase

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/dao-cli/internal/domain/config"
	"github.com/trebuchet-org/dao-cli/internal/domain/models"
)

// DAORegistry persists locally bookmarked DAOs
type DAORegistry interface {
	List(ctx context.Context) ([]*models.DAO, error)
	Get(ctx context.Context, chainID uint64, governor common.Address) (*models.DAO, error)
	FindByName(ctx context.Context, name string) ([]*models.DAO, error)
	Save(ctx context.Context, dao *models.DAO) error
	Remove(ctx context.Context, chainID uint64, governor common.Address) error
}

// DraftStore persists partially completed creation wizards
type DraftStore interface {
	Get(ctx context.Context, id string) (*models.WizardDraft, error)
	List(ctx context.Context) ([]*models.WizardDraft, error)
	Save(ctx context.Context, draft *models.WizardDraft) error
	Delete(ctx context.Context, id string) error
}

// LocalConfigRepository handles local config persistence
type LocalConfigRepository interface {
	Load(ctx context.Context) (*config.LocalConfig, error)
	Save(ctx context.Context, config *config.LocalConfig) error
	Exists() bool
	GetPath() string
}

// NetworkResolver resolves configured networks
type NetworkResolver interface {
	Names() []string
	Resolve(ctx context.Context, name string) (*config.Network, error)
}

// ReadCache stores JSON encodable read results for a limited time
type ReadCache interface {
	// Get decodes the cached value into dest and reports whether it was found
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Wallet is the connected account that signs writes
type Wallet interface {
	// Account returns the sender address or domain.ErrNoSigner
	Account(ctx context.Context) (common.Address, error)
}

// GovernorClient wraps the governor contract
type GovernorClient interface {
	// Discover reads token() and timelock() from an arbitrary governor
	Discover(ctx context.Context, chainID uint64, governor common.Address) (token, timelock common.Address, err error)
	Settings(ctx context.Context, dao *models.DAO) (*models.GovernorSettings, error)
	Clock(ctx context.Context, dao *models.DAO) (uint64, error)
	// ListProposals scans ProposalCreated logs and hydrates each proposal with its current state
	ListProposals(ctx context.Context, dao *models.DAO) ([]*models.Proposal, error)
	GetProposal(ctx context.Context, dao *models.DAO, id *big.Int) (*models.Proposal, error)
	VoteLog(ctx context.Context, dao *models.DAO, id *big.Int) ([]*models.Vote, error)
	HasVoted(ctx context.Context, dao *models.DAO, id *big.Int, account common.Address) (bool, error)
	GetVotes(ctx context.Context, dao *models.DAO, account common.Address, timepoint uint64) (*big.Int, error)

	Propose(ctx context.Context, dao *models.DAO, actions []models.ProposalAction, description string) (*models.TxResult, error)
	CastVote(ctx context.Context, dao *models.DAO, id *big.Int, support models.VoteSupport, reason string) (*models.TxResult, error)
	Queue(ctx context.Context, dao *models.DAO, proposal *models.Proposal) (*models.TxResult, error)
	Execute(ctx context.Context, dao *models.DAO, proposal *models.Proposal) (*models.TxResult, error)
	Cancel(ctx context.Context, dao *models.DAO, proposal *models.Proposal) (*models.TxResult, error)
}

// TimelockClient wraps the timelock controller
type TimelockClient interface {
	Settings(ctx context.Context, dao *models.DAO) (*models.TimelockSettings, error)
	// ProposalOperation looks up the batch operation a queued proposal was scheduled as
	ProposalOperation(ctx context.Context, dao *models.DAO, proposal *models.Proposal) (*models.TimelockOperation, error)
}

// TreasuryClient wraps the treasury contract
type TreasuryClient interface {
	Balance(ctx context.Context, dao *models.DAO, tokens []common.Address) (*models.TreasuryBalance, error)
	Deposit(ctx context.Context, dao *models.DAO, amount *big.Int) (*models.TxResult, error)
}

// TokenClient wraps the voting token
type TokenClient interface {
	Info(ctx context.Context, dao *models.DAO) (*models.TokenInfo, error)
	VotingPower(ctx context.Context, dao *models.DAO, account common.Address) (*models.VotingPower, error)
	// Holders returns every address that appeared in a Transfer log
	Holders(ctx context.Context, dao *models.DAO) ([]common.Address, error)
	Delegate(ctx context.Context, dao *models.DAO, delegatee common.Address) (*models.TxResult, error)
}

// CreatedDAO is what the factory reports after createDAO
type CreatedDAO struct {
	ID     *big.Int
	Config models.DAOConfig
	Block  uint64
	Tx     *models.TxResult
}

// FactoryClient wraps the DAO factory of a chain
type FactoryClient interface {
	Address(chainID uint64) (common.Address, error)
	StartBlock(chainID uint64) uint64
	Tokens(chainID uint64) []common.Address
	CreateDAO(ctx context.Context, chainID uint64, params *models.DAOCreationParams) (*CreatedDAO, error)
	Count(ctx context.Context, chainID uint64) (uint64, error)
	GetDAO(ctx context.Context, chainID uint64, id *big.Int) (*models.DAOConfig, error)
	ListByCreator(ctx context.Context, chainID uint64, creator common.Address) ([]*big.Int, error)
}

// CallEncoder builds calldata for the transactions users sign
type CallEncoder interface {
	// EncodeSignature encodes a call from "name(type,...)" and string arguments
	EncodeSignature(signature string, args []string) ([]byte, error)
	// TreasuryTransfer encodes a treasury payout; a zero token means native ETH
	TreasuryTransfer(token, to common.Address, amount *big.Int) ([]byte, error)
	Propose(actions []models.ProposalAction, description string) ([]byte, error)
	CastVote(id *big.Int, support models.VoteSupport, reason string) ([]byte, error)
	Delegate(delegatee common.Address) ([]byte, error)
	ProposalID(actions []models.ProposalAction, description string) (*big.Int, error)
}

// EventWatcher streams decoded logs of a DAO's contracts
type EventWatcher interface {
	// Watch blocks until ctx is cancelled or the connection fails
	Watch(ctx context.Context, dao *models.DAO, fromBlock uint64, out chan<- *models.DAOEvent) error
}

// DAOWizard collects creation parameters one step at a time
type DAOWizard interface {
	PromptStep(ctx context.Context, step models.WizardStep, params *models.DAOCreationParams) error
	Confirm(ctx context.Context, params *models.DAOCreationParams) (bool, error)
}

// DAOSelector picks one DAO from many
type DAOSelector interface {
	SelectDAO(ctx context.Context, daos []*models.DAO, prompt string) (*models.DAO, error)
}

// ProposalSelector picks proposals from a list
type ProposalSelector interface {
	SelectProposals(ctx context.Context, proposals []*models.Proposal, prompt string) ([]*models.Proposal, error)
}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage    string
	Current  int
	Total    int
	Message  string
	Spinner  bool
	Metadata interface{}
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}
