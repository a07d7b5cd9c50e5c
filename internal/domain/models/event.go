package models

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// EventKind names a decoded contract log
type EventKind string

const (
	EventProposalCreated      EventKind = "ProposalCreated"
	EventVoteCast             EventKind = "VoteCast"
	EventProposalQueued       EventKind = "ProposalQueued"
	EventProposalExecuted     EventKind = "ProposalExecuted"
	EventProposalCanceled     EventKind = "ProposalCanceled"
	EventCallScheduled        EventKind = "CallScheduled"
	EventCallExecuted         EventKind = "CallExecuted"
	EventTimelockCancelled    EventKind = "Cancelled"
	EventETHReceived          EventKind = "ETHReceived"
	EventETHTransferred       EventKind = "ETHTransferred"
	EventTokenTransferred     EventKind = "TokenTransferred"
	EventTransfer             EventKind = "Transfer"
	EventDelegateChanged      EventKind = "DelegateChanged"
	EventDelegateVotesChanged EventKind = "DelegateVotesChanged"
	EventDAOCreated           EventKind = "DAOCreated"
)

// DAOEvent is a decoded log emitted by one of a DAO's contracts
type DAOEvent struct {
	Kind       EventKind      `json:"kind"`
	Contract   common.Address `json:"contract"`
	Block      uint64         `json:"block"`
	TxHash     common.Hash    `json:"txHash"`
	LogIndex   uint           `json:"logIndex"`
	ProposalID *big.Int       `json:"proposalId,omitempty"`
	Account    common.Address `json:"account,omitempty"`
	Amount     *big.Int       `json:"amount,omitempty"`
	Fields     map[string]any `json:"fields,omitempty"`
}
