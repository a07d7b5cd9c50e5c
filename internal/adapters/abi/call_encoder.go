package abi

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/dao-cli/internal/adapters/abi/bindings"
	"github.com/trebuchet-org/dao-cli/internal/domain/models"
	"github.com/trebuchet-org/dao-cli/internal/usecase"
)

// CallEncoder builds calldata from the static DAO bindings
type CallEncoder struct{}

// NewCallEncoder creates a new call encoder
func NewCallEncoder() *CallEncoder {
	return &CallEncoder{}
}

func (CallEncoder) EncodeSignature(signature string, args []string) ([]byte, error) {
	return bindings.EncodeSignatureCall(signature, args)
}

// TreasuryTransfer encodes transferETH for the zero token and transferToken otherwise
func (CallEncoder) TreasuryTransfer(token, to common.Address, amount *big.Int) ([]byte, error) {
	if token == (common.Address{}) {
		return bindings.PackTreasuryTransferETH(to, amount)
	}
	return bindings.PackTreasuryTransferToken(token, to, amount)
}

func (CallEncoder) Propose(actions []models.ProposalAction, description string) ([]byte, error) {
	p := &models.Proposal{Actions: actions}
	return bindings.PackPropose(p.Targets(), p.Values(), p.Calldatas(), description)
}

func (CallEncoder) CastVote(id *big.Int, support models.VoteSupport, reason string) ([]byte, error) {
	return bindings.PackCastVote(id, uint8(support), reason)
}

func (CallEncoder) Delegate(delegatee common.Address) ([]byte, error) {
	return bindings.PackDelegate(delegatee)
}

// ProposalID computes the id the governor will assign to a proposal
func (CallEncoder) ProposalID(actions []models.ProposalAction, description string) (*big.Int, error) {
	p := &models.Proposal{Actions: actions}
	return bindings.HashProposal(p.Targets(), p.Values(), p.Calldatas(), bindings.DescriptionHash(description))
}

var _ usecase.CallEncoder = CallEncoder{}
