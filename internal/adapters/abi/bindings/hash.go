package bindings

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

var (
	addressArrayTy, _ = abi.NewType("address[]", "", nil)
	uintArrayTy, _    = abi.NewType("uint256[]", "", nil)
	bytesArrayTy, _   = abi.NewType("bytes[]", "", nil)
	bytes32Ty, _      = abi.NewType("bytes32", "", nil)

	proposalArgs = abi.Arguments{
		{Type: addressArrayTy},
		{Type: uintArrayTy},
		{Type: bytesArrayTy},
		{Type: bytes32Ty},
	}

	operationBatchArgs = abi.Arguments{
		{Type: addressArrayTy},
		{Type: uintArrayTy},
		{Type: bytesArrayTy},
		{Type: bytes32Ty},
		{Type: bytes32Ty},
	}
)

func keccakString(s string) common.Hash {
	return crypto.Keccak256Hash([]byte(s))
}

// DescriptionHash is keccak256 of the proposal description bytes
func DescriptionHash(description string) common.Hash {
	return keccakString(description)
}

// HashProposal computes the governor proposal id:
// uint256(keccak256(abi.encode(targets, values, calldatas, descriptionHash)))
func HashProposal(targets []common.Address, values []*big.Int, calldatas [][]byte, descriptionHash common.Hash) (*big.Int, error) {
	if len(targets) != len(values) || len(targets) != len(calldatas) {
		return nil, fmt.Errorf("proposal length mismatch: %d targets, %d values, %d calldatas", len(targets), len(values), len(calldatas))
	}
	encoded, err := proposalArgs.Pack(targets, values, calldatas, [32]byte(descriptionHash))
	if err != nil {
		return nil, fmt.Errorf("failed to encode proposal: %w", err)
	}
	return new(big.Int).SetBytes(crypto.Keccak256(encoded)), nil
}

// TimelockSalt is the salt GovernorTimelockControl uses when scheduling:
// bytes20(governor) ^ descriptionHash
func TimelockSalt(governor common.Address, descriptionHash common.Hash) common.Hash {
	salt := descriptionHash
	for i := 0; i < common.AddressLength; i++ {
		salt[i] ^= governor[i]
	}
	return salt
}

// HashOperationBatch computes the TimelockController operation id
func HashOperationBatch(targets []common.Address, values []*big.Int, payloads [][]byte, predecessor, salt common.Hash) (common.Hash, error) {
	encoded, err := operationBatchArgs.Pack(targets, values, payloads, [32]byte(predecessor), [32]byte(salt))
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to encode operation: %w", err)
	}
	return crypto.Keccak256Hash(encoded), nil
}

// TimelockOperationID is the id the timelock assigns to a queued governor proposal
func TimelockOperationID(governor common.Address, targets []common.Address, values []*big.Int, calldatas [][]byte, descriptionHash common.Hash) (common.Hash, error) {
	return HashOperationBatch(targets, values, calldatas, common.Hash{}, TimelockSalt(governor, descriptionHash))
}
