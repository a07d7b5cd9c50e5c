package usecase_test

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/dao-cli/internal/domain"
	"github.com/trebuchet-org/dao-cli/internal/domain/models"
	"github.com/trebuchet-org/dao-cli/internal/usecase"
)

func TestDepositTreasury(t *testing.T) {
	ctx := context.Background()
	dao := testDAO()

	treasury := &MockTreasury{}
	wei, _ := new(big.Int).SetString("1500000000000000000", 10)
	treasury.On("Deposit", ctx, dao, wei).Return(&models.TxResult{Success: true}, nil)

	_, err := usecase.NewDepositTreasury(treasury, walletFor(alice), &MockProgressSink{}).Run(ctx, dao, "1.5")
	require.NoError(t, err)
	treasury.AssertExpectations(t)

	_, err = usecase.NewDepositTreasury(treasury, walletFor(alice), &MockProgressSink{}).Run(ctx, dao, "0")
	assert.ErrorIs(t, err, domain.ErrValidation)

	noTreasury := testDAO()
	noTreasury.Config.Treasury = common.Address{}
	_, err = usecase.NewDepositTreasury(treasury, walletFor(alice), &MockProgressSink{}).Run(ctx, noTreasury, "1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProposeTreasuryTransfer(t *testing.T) {
	ctx := context.Background()
	dao := testDAO()

	gov := &MockGovernor{}
	gov.On("Settings", ctx, dao).Return(&models.GovernorSettings{ProposalThreshold: big.NewInt(0)}, nil)
	gov.On("Propose", ctx, dao, mock.Anything, mock.Anything).Return(&models.TxResult{Success: true}, nil)

	propose := usecase.NewCreateProposal(gov, stubEncoder{}, walletFor(alice), &MockProgressSink{})
	uc := usecase.NewProposeTreasuryTransfer(stubEncoder{}, &MockTreasury{}, propose)

	result, err := uc.Run(ctx, dao, usecase.ProposeTreasuryTransferParams{To: bob.Hex(), Amount: "2"})
	require.NoError(t, err)

	require.Len(t, result.Actions, 1)
	assert.Equal(t, treasuryAddr, result.Actions[0].Target)
	assert.Equal(t, []byte("transferETH"), []byte(result.Actions[0].Calldata))
	assert.Equal(t, "# Transfer 2 ETH to "+bob.Hex(), result.Description)

	_, err = uc.Run(ctx, dao, usecase.ProposeTreasuryTransferParams{To: common.Address{}.Hex(), Amount: "2"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

// amountEncoder records the amount of the last treasury transfer it encoded
type amountEncoder struct {
	stubEncoder
	amount *big.Int
}

func (e *amountEncoder) TreasuryTransfer(token, to common.Address, amount *big.Int) ([]byte, error) {
	e.amount = amount
	return e.stubEncoder.TreasuryTransfer(token, to, amount)
}

func TestProposeTreasuryTransferTokenUnits(t *testing.T) {
	ctx := context.Background()
	dao := testDAO()
	usdc := common.HexToAddress("0x2000000000000000000000000000000000000006")
	params := usecase.ProposeTreasuryTransferParams{To: bob.Hex(), Amount: "100", Token: usdc.Hex()}

	setup := func(balance *models.TreasuryBalance, balanceErr error) (*usecase.ProposeTreasuryTransfer, *MockGovernor, *amountEncoder) {
		gov := &MockGovernor{}
		gov.On("Settings", ctx, dao).Return(&models.GovernorSettings{ProposalThreshold: big.NewInt(0)}, nil)
		gov.On("Propose", ctx, dao, mock.Anything, mock.Anything).Return(&models.TxResult{Success: true}, nil)

		treasury := &MockTreasury{}
		if balance != nil {
			treasury.On("Balance", ctx, dao, []common.Address{usdc}).Return(balance, nil)
		} else {
			treasury.On("Balance", ctx, dao, []common.Address{usdc}).Return(nil, balanceErr)
		}

		enc := &amountEncoder{}
		propose := usecase.NewCreateProposal(gov, stubEncoder{}, walletFor(alice), &MockProgressSink{})
		return usecase.NewProposeTreasuryTransfer(enc, treasury, propose), gov, enc
	}

	t.Run("scales by the token's decimals", func(t *testing.T) {
		uc, gov, enc := setup(&models.TreasuryBalance{Tokens: []*models.TokenBalance{
			{Token: usdc, Symbol: "USDC", Decimals: 6, Balance: big.NewInt(0)},
		}}, nil)

		result, err := uc.Run(ctx, dao, params)
		require.NoError(t, err)
		assert.Equal(t, "100000000", enc.amount.String())
		assert.Equal(t, "# Transfer 100 USDC to "+bob.Hex(), result.Description)
		gov.AssertCalled(t, "Propose", ctx, dao, mock.Anything, mock.Anything)
	})

	t.Run("fails when decimals cannot be read", func(t *testing.T) {
		uc, gov, enc := setup(nil, errors.New("rpc timeout"))

		_, err := uc.Run(ctx, dao, params)
		assert.ErrorContains(t, err, "rpc timeout")
		assert.Nil(t, enc.amount)
		gov.AssertNotCalled(t, "Propose", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects tokens without decimals", func(t *testing.T) {
		uc, gov, _ := setup(&models.TreasuryBalance{Tokens: []*models.TokenBalance{
			{Token: usdc, Symbol: "ODD", Decimals: 18, DecimalsUnknown: true, Balance: big.NewInt(0)},
		}}, nil)

		_, err := uc.Run(ctx, dao, params)
		assert.ErrorIs(t, err, domain.ErrValidation)
		gov.AssertNotCalled(t, "Propose", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("token missing from the balance view", func(t *testing.T) {
		uc, _, _ := setup(&models.TreasuryBalance{}, nil)

		_, err := uc.Run(ctx, dao, params)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestBuildVoteTx(t *testing.T) {
	ctx := context.Background()
	dao := testDAO()

	gov := &MockGovernor{}
	gov.On("GetProposal", ctx, dao, big.NewInt(9)).Return(testProposal(9, models.ProposalStatusActive), nil)

	tx, err := usecase.NewBuildVoteTx(gov, stubEncoder{}).Run(ctx, dao, usecase.BuildVoteTxParams{ProposalID: "9", Support: "for"})
	require.NoError(t, err)
	assert.Equal(t, governorAddr, tx.To)
	assert.Equal(t, uint64(31337), tx.ChainID)
	assert.Equal(t, []byte{1}, []byte(tx.Data))
}

func TestBuildProposalTx(t *testing.T) {
	result, err := usecase.NewBuildProposalTx(stubEncoder{}).Run(context.Background(), testDAO(), usecase.BuildProposalTxParams{
		Actions:     []usecase.ProposalActionInput{{Target: bob.Hex(), Value: "1"}},
		Description: "send 1 wei",
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("propose"), []byte(result.Tx.Data))
	assert.Equal(t, big.NewInt(1010), result.ProposalID)
}
