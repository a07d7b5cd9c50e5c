package usecase_test

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/mock"
	"github.com/trebuchet-org/dao-cli/internal/domain"
	"github.com/trebuchet-org/dao-cli/internal/domain/models"
	"github.com/trebuchet-org/dao-cli/internal/usecase"
)

// MockRegistry is a mock implementation of DAORegistry
type MockRegistry struct {
	mock.Mock
}

func (m *MockRegistry) List(ctx context.Context) ([]*models.DAO, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.DAO), args.Error(1)
}

func (m *MockRegistry) Get(ctx context.Context, chainID uint64, governor common.Address) (*models.DAO, error) {
	args := m.Called(ctx, chainID, governor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DAO), args.Error(1)
}

func (m *MockRegistry) FindByName(ctx context.Context, name string) ([]*models.DAO, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.DAO), args.Error(1)
}

func (m *MockRegistry) Save(ctx context.Context, dao *models.DAO) error {
	return m.Called(ctx, dao).Error(0)
}

func (m *MockRegistry) Remove(ctx context.Context, chainID uint64, governor common.Address) error {
	return m.Called(ctx, chainID, governor).Error(0)
}

// MockDrafts is a mock implementation of DraftStore
type MockDrafts struct {
	mock.Mock
}

func (m *MockDrafts) Get(ctx context.Context, id string) (*models.WizardDraft, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WizardDraft), args.Error(1)
}

func (m *MockDrafts) List(ctx context.Context) ([]*models.WizardDraft, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.WizardDraft), args.Error(1)
}

func (m *MockDrafts) Save(ctx context.Context, draft *models.WizardDraft) error {
	return m.Called(ctx, draft).Error(0)
}

func (m *MockDrafts) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// MockWallet is a mock implementation of Wallet
type MockWallet struct {
	mock.Mock
}

func (m *MockWallet) Account(ctx context.Context) (common.Address, error) {
	args := m.Called(ctx)
	return args.Get(0).(common.Address), args.Error(1)
}

// noWallet returns a wallet without a configured sender
func noWallet() *MockWallet {
	w := &MockWallet{}
	w.On("Account", mock.Anything).Return(common.Address{}, domain.ErrNoSigner)
	return w
}

// walletFor returns a wallet connected as account
func walletFor(account common.Address) *MockWallet {
	w := &MockWallet{}
	w.On("Account", mock.Anything).Return(account, nil)
	return w
}

// MockGovernor is a mock implementation of GovernorClient
type MockGovernor struct {
	mock.Mock
}

func (m *MockGovernor) Discover(ctx context.Context, chainID uint64, governor common.Address) (common.Address, common.Address, error) {
	args := m.Called(ctx, chainID, governor)
	return args.Get(0).(common.Address), args.Get(1).(common.Address), args.Error(2)
}

func (m *MockGovernor) Settings(ctx context.Context, dao *models.DAO) (*models.GovernorSettings, error) {
	args := m.Called(ctx, dao)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GovernorSettings), args.Error(1)
}

func (m *MockGovernor) Clock(ctx context.Context, dao *models.DAO) (uint64, error) {
	args := m.Called(ctx, dao)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *MockGovernor) ListProposals(ctx context.Context, dao *models.DAO) ([]*models.Proposal, error) {
	args := m.Called(ctx, dao)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Proposal), args.Error(1)
}

func (m *MockGovernor) GetProposal(ctx context.Context, dao *models.DAO, id *big.Int) (*models.Proposal, error) {
	args := m.Called(ctx, dao, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Proposal), args.Error(1)
}

func (m *MockGovernor) VoteLog(ctx context.Context, dao *models.DAO, id *big.Int) ([]*models.Vote, error) {
	args := m.Called(ctx, dao, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Vote), args.Error(1)
}

func (m *MockGovernor) HasVoted(ctx context.Context, dao *models.DAO, id *big.Int, account common.Address) (bool, error) {
	args := m.Called(ctx, dao, id, account)
	return args.Bool(0), args.Error(1)
}

func (m *MockGovernor) GetVotes(ctx context.Context, dao *models.DAO, account common.Address, timepoint uint64) (*big.Int, error) {
	args := m.Called(ctx, dao, account, timepoint)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*big.Int), args.Error(1)
}

func (m *MockGovernor) Propose(ctx context.Context, dao *models.DAO, actions []models.ProposalAction, description string) (*models.TxResult, error) {
	args := m.Called(ctx, dao, actions, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TxResult), args.Error(1)
}

func (m *MockGovernor) CastVote(ctx context.Context, dao *models.DAO, id *big.Int, support models.VoteSupport, reason string) (*models.TxResult, error) {
	args := m.Called(ctx, dao, id, support, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TxResult), args.Error(1)
}

func (m *MockGovernor) Queue(ctx context.Context, dao *models.DAO, proposal *models.Proposal) (*models.TxResult, error) {
	args := m.Called(ctx, dao, proposal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TxResult), args.Error(1)
}

func (m *MockGovernor) Execute(ctx context.Context, dao *models.DAO, proposal *models.Proposal) (*models.TxResult, error) {
	args := m.Called(ctx, dao, proposal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TxResult), args.Error(1)
}

func (m *MockGovernor) Cancel(ctx context.Context, dao *models.DAO, proposal *models.Proposal) (*models.TxResult, error) {
	args := m.Called(ctx, dao, proposal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TxResult), args.Error(1)
}

// MockTimelock is a mock implementation of TimelockClient
type MockTimelock struct {
	mock.Mock
}

func (m *MockTimelock) Settings(ctx context.Context, dao *models.DAO) (*models.TimelockSettings, error) {
	args := m.Called(ctx, dao)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TimelockSettings), args.Error(1)
}

func (m *MockTimelock) ProposalOperation(ctx context.Context, dao *models.DAO, proposal *models.Proposal) (*models.TimelockOperation, error) {
	args := m.Called(ctx, dao, proposal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TimelockOperation), args.Error(1)
}

// MockToken is a mock implementation of TokenClient
type MockToken struct {
	mock.Mock
}

func (m *MockToken) Info(ctx context.Context, dao *models.DAO) (*models.TokenInfo, error) {
	args := m.Called(ctx, dao)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TokenInfo), args.Error(1)
}

func (m *MockToken) VotingPower(ctx context.Context, dao *models.DAO, account common.Address) (*models.VotingPower, error) {
	args := m.Called(ctx, dao, account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VotingPower), args.Error(1)
}

func (m *MockToken) Holders(ctx context.Context, dao *models.DAO) ([]common.Address, error) {
	args := m.Called(ctx, dao)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]common.Address), args.Error(1)
}

func (m *MockToken) Delegate(ctx context.Context, dao *models.DAO, delegatee common.Address) (*models.TxResult, error) {
	args := m.Called(ctx, dao, delegatee)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TxResult), args.Error(1)
}

// MockTreasury is a mock implementation of TreasuryClient
type MockTreasury struct {
	mock.Mock
}

func (m *MockTreasury) Balance(ctx context.Context, dao *models.DAO, tokens []common.Address) (*models.TreasuryBalance, error) {
	args := m.Called(ctx, dao, tokens)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TreasuryBalance), args.Error(1)
}

func (m *MockTreasury) Deposit(ctx context.Context, dao *models.DAO, amount *big.Int) (*models.TxResult, error) {
	args := m.Called(ctx, dao, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TxResult), args.Error(1)
}

// MockFactory is a mock implementation of FactoryClient
type MockFactory struct {
	mock.Mock
}

func (m *MockFactory) Address(chainID uint64) (common.Address, error) {
	args := m.Called(chainID)
	return args.Get(0).(common.Address), args.Error(1)
}

func (m *MockFactory) StartBlock(chainID uint64) uint64 {
	return m.Called(chainID).Get(0).(uint64)
}

func (m *MockFactory) Tokens(chainID uint64) []common.Address {
	args := m.Called(chainID)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]common.Address)
}

func (m *MockFactory) CreateDAO(ctx context.Context, chainID uint64, params *models.DAOCreationParams) (*usecase.CreatedDAO, error) {
	args := m.Called(ctx, chainID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.CreatedDAO), args.Error(1)
}

func (m *MockFactory) Count(ctx context.Context, chainID uint64) (uint64, error) {
	args := m.Called(ctx, chainID)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *MockFactory) GetDAO(ctx context.Context, chainID uint64, id *big.Int) (*models.DAOConfig, error) {
	args := m.Called(ctx, chainID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DAOConfig), args.Error(1)
}

func (m *MockFactory) ListByCreator(ctx context.Context, chainID uint64, creator common.Address) ([]*big.Int, error) {
	args := m.Called(ctx, chainID, creator)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*big.Int), args.Error(1)
}

// stubEncoder returns recognisable bytes instead of real ABI encoding
type stubEncoder struct{}

func (stubEncoder) EncodeSignature(signature string, args []string) ([]byte, error) {
	return []byte(signature), nil
}

func (stubEncoder) TreasuryTransfer(token, to common.Address, amount *big.Int) ([]byte, error) {
	if token == (common.Address{}) {
		return []byte("transferETH"), nil
	}
	return []byte("transferToken"), nil
}

func (stubEncoder) Propose(actions []models.ProposalAction, description string) ([]byte, error) {
	return []byte("propose"), nil
}

func (stubEncoder) CastVote(id *big.Int, support models.VoteSupport, reason string) ([]byte, error) {
	return []byte{byte(support)}, nil
}

func (stubEncoder) Delegate(delegatee common.Address) ([]byte, error) {
	return delegatee.Bytes(), nil
}

func (stubEncoder) ProposalID(actions []models.ProposalAction, description string) (*big.Int, error) {
	return big.NewInt(int64(len(actions)*1000 + len(description))), nil
}

// MockSelector implements DAOSelector and ProposalSelector
type MockSelector struct {
	mock.Mock
}

func (m *MockSelector) SelectDAO(ctx context.Context, daos []*models.DAO, prompt string) (*models.DAO, error) {
	args := m.Called(ctx, daos, prompt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DAO), args.Error(1)
}

func (m *MockSelector) SelectProposals(ctx context.Context, proposals []*models.Proposal, prompt string) ([]*models.Proposal, error) {
	args := m.Called(ctx, proposals, prompt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Proposal), args.Error(1)
}

// MockProgressSink records progress events
type MockProgressSink struct {
	events []usecase.ProgressEvent
	infos  []string
	errors []string
}

func (m *MockProgressSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	m.events = append(m.events, event)
}

func (m *MockProgressSink) Info(message string)  { m.infos = append(m.infos, message) }
func (m *MockProgressSink) Error(message string) { m.errors = append(m.errors, message) }

var (
	governorAddr = common.HexToAddress("0x1000000000000000000000000000000000000001")
	timelockAddr = common.HexToAddress("0x1000000000000000000000000000000000000002")
	treasuryAddr = common.HexToAddress("0x1000000000000000000000000000000000000003")
	tokenAddr    = common.HexToAddress("0x1000000000000000000000000000000000000004")
	alice        = common.HexToAddress("0xA11CE00000000000000000000000000000000001")
	bob          = common.HexToAddress("0xB0B0000000000000000000000000000000000002")
)

func testDAO() *models.DAO {
	return &models.DAO{
		ChainID: 31337,
		Name:    "Acme",
		Config: models.DAOConfig{
			Governor:  governorAddr,
			Timelock:  timelockAddr,
			Treasury:  treasuryAddr,
			Token:     tokenAddr,
			CreatedAt: time.Unix(1700000000, 0).UTC(),
		},
	}
}

func testProposal(id int64, status models.ProposalStatus) *models.Proposal {
	return &models.Proposal{
		ID:       big.NewInt(id),
		Proposer: alice,
		Title:    "Fund the grants program",
		Status:   status,
		Votes:    models.NewVoteTally(),
		Snapshot: 100,
		Deadline: 200,
		Quorum:   big.NewInt(40),
		Actions: []models.ProposalAction{{
			Target:   treasuryAddr,
			Value:    new(big.Int),
			Calldata: []byte{0x01},
		}},
		CreatedBlock: uint64(id),
	}
}
