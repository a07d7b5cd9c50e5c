package bindings

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/dao-cli/internal/domain/config"
)

func TestABIsParse(t *testing.T) {
	for _, md := range All() {
		t.Run(md.ID, func(t *testing.T) {
			parsed, err := md.ParseABI()
			require.NoError(t, err)
			assert.NotEmpty(t, parsed.Methods)
			assert.NotEmpty(t, parsed.Events)
		})
	}
}

func TestDescriptionHash(t *testing.T) {
	assert.Equal(t,
		common.HexToHash("0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470"),
		DescriptionHash(""),
	)
}

func TestHashProposal(t *testing.T) {
	targets := []common.Address{common.HexToAddress("0x00000000000000000000000000000000000000aa")}
	values := []*big.Int{big.NewInt(0)}
	calldatas := [][]byte{{0xde, 0xad, 0xbe, 0xef}}
	descHash := DescriptionHash("# Fund the grants program")

	id, err := HashProposal(targets, values, calldatas, descHash)
	require.NoError(t, err)

	// same encoding as the governor's own hashProposal inputs
	encoded, err := GovernorMetaData.MustABI().Methods["hashProposal"].Inputs.Pack(targets, values, calldatas, [32]byte(descHash))
	require.NoError(t, err)
	assert.Equal(t, new(big.Int).SetBytes(crypto.Keccak256(encoded)), id)

	t.Run("length mismatch", func(t *testing.T) {
		_, err := HashProposal(targets, nil, calldatas, descHash)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "length mismatch")
	})
}

func TestTimelockSalt(t *testing.T) {
	governor := common.HexToAddress("0x1111111111111111111111111111111111111111")
	salt := TimelockSalt(governor, common.Hash{})

	for i := 0; i < 20; i++ {
		assert.Equal(t, byte(0x11), salt[i])
	}
	for i := 20; i < 32; i++ {
		assert.Equal(t, byte(0), salt[i])
	}

	// xor is its own inverse
	descHash := DescriptionHash("proposal")
	assert.Equal(t, descHash, TimelockSalt(governor, TimelockSalt(governor, descHash)))
}

func TestTimelockOperationID(t *testing.T) {
	governor := common.HexToAddress("0x2222222222222222222222222222222222222222")
	targets := []common.Address{common.HexToAddress("0x00000000000000000000000000000000000000bb")}
	values := []*big.Int{big.NewInt(5)}
	calldatas := [][]byte{{}}
	descHash := DescriptionHash("pay")

	id, err := TimelockOperationID(governor, targets, values, calldatas, descHash)
	require.NoError(t, err)

	encoded, err := TimelockMetaData.MustABI().Methods["hashOperationBatch"].Inputs.Pack(
		targets, values, calldatas, [32]byte{}, [32]byte(TimelockSalt(governor, descHash)))
	require.NoError(t, err)
	assert.Equal(t, crypto.Keccak256Hash(encoded), id)
}

func TestEncodeSignatureCall(t *testing.T) {
	to := common.HexToAddress("0x00000000000000000000000000000000000000cc")

	t.Run("matches typed packer", func(t *testing.T) {
		got, err := EncodeSignatureCall("transfer(address, uint)", []string{to.Hex(), "1_000"})
		require.NoError(t, err)

		want, err := PackERC20Transfer(to, big.NewInt(1000))
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.Equal(t, []byte{0xa9, 0x05, 0x9c, 0xbb}, got[:4])
	})

	t.Run("small integer and fixed bytes types", func(t *testing.T) {
		got, err := EncodeSignatureCall("setParams(uint8,bool,bytes4,int64)", []string{"7", "true", "0x01020304", "-3"})
		require.NoError(t, err)
		assert.Len(t, got, 4+4*32)
		assert.Equal(t, byte(7), got[4+31])
		assert.Equal(t, byte(1), got[4+32+31])
		assert.Equal(t, []byte{1, 2, 3, 4}, got[4+64:4+68])
	})

	t.Run("no arguments", func(t *testing.T) {
		got, err := EncodeSignatureCall("pause()", nil)
		require.NoError(t, err)
		assert.Equal(t, crypto.Keccak256([]byte("pause()"))[:4], got)
	})

	tests := []struct {
		name      string
		signature string
		args      []string
		errSubstr string
	}{
		{"argument count", "transfer(address,uint256)", []string{to.Hex()}, "expects 2 arguments"},
		{"bad address", "transfer(address,uint256)", []string{"0x123", "1"}, "invalid address"},
		{"bad integer", "transfer(address,uint256)", []string{to.Hex(), "ten"}, "invalid integer"},
		{"overflow", "set(uint8)", []string{"256"}, "overflows uint8"},
		{"negative unsigned", "set(uint256)", []string{"-1"}, "negative value"},
		{"arrays", "batch(address[])", []string{"[]"}, "not supported"},
		{"malformed", "transfer", nil, "invalid function signature"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := EncodeSignatureCall(tt.signature, tt.args)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestPackCastVote(t *testing.T) {
	parsed := GovernorMetaData.MustABI()
	id := big.NewInt(42)

	plain, err := PackCastVote(id, 1, "")
	require.NoError(t, err)
	assert.Equal(t, parsed.Methods["castVote"].ID, plain[:4])

	withReason, err := PackCastVote(id, 0, "too expensive")
	require.NoError(t, err)
	assert.Equal(t, parsed.Methods["castVoteWithReason"].ID, withReason[:4])
}

func TestPackLifecycle(t *testing.T) {
	_, err := PackLifecycle("destroy", nil, nil, nil, common.Hash{})
	require.Error(t, err)

	data, err := PackLifecycle("queue", []common.Address{{}}, []*big.Int{big.NewInt(0)}, [][]byte{{}}, common.Hash{})
	require.NoError(t, err)
	assert.Equal(t, GovernorMetaData.MustABI().Methods["queue"].ID, data[:4])
}

func TestFactoryCreateDAOPacks(t *testing.T) {
	params := FactoryDAOParams{
		Name:              "Acme",
		TokenType:         0,
		TokenName:         "Acme Token",
		TokenSymbol:       "ACME",
		InitialHolders:    []common.Address{common.HexToAddress("0x00000000000000000000000000000000000000dd")},
		InitialBalances:   []*big.Int{big.NewInt(1000)},
		VotingDelay:       big.NewInt(1),
		VotingPeriod:      50400,
		ProposalThreshold: big.NewInt(0),
		QuorumNumerator:   big.NewInt(4),
		TimelockDelay:     big.NewInt(3600),
	}
	data, err := FactoryMetaData.MustABI().Pack("createDAO", params)
	require.NoError(t, err)
	assert.Equal(t, FactoryMetaData.MustABI().Methods["createDAO"].ID, data[:4])
}

func TestAddressBook(t *testing.T) {
	t.Run("built-in local factory", func(t *testing.T) {
		book, err := NewAddressBook(nil)
		require.NoError(t, err)
		factory, ok := book.Factory(31337)
		require.True(t, ok)
		assert.Equal(t, LocalFactory, factory)

		_, ok = book.Factory(1)
		assert.False(t, ok)
	})

	t.Run("dao.toml overrides and extends", func(t *testing.T) {
		book, err := NewAddressBook(map[string]config.ContractsConfig{
			"31337": {StartBlock: 12},
			"11155111": {
				Factory: "0x00000000000000000000000000000000000000ee",
				Tokens:  []string{"0x00000000000000000000000000000000000000ff"},
			},
		})
		require.NoError(t, err)

		local, ok := book.Lookup(31337)
		require.True(t, ok)
		assert.Equal(t, LocalFactory, local.Factory)
		assert.Equal(t, uint64(12), local.StartBlock)

		sepolia, ok := book.Lookup(11155111)
		require.True(t, ok)
		assert.Equal(t, common.HexToAddress("0xee"), sepolia.Factory)
		assert.Len(t, sepolia.Tokens, 1)
	})

	t.Run("invalid entries", func(t *testing.T) {
		_, err := NewAddressBook(map[string]config.ContractsConfig{"mainnet": {}})
		assert.Error(t, err)

		_, err = NewAddressBook(map[string]config.ContractsConfig{"1": {Factory: "nope"}})
		assert.Error(t, err)
	})
}
