package models

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// ClockMode describes how the governor measures timepoints (ERC-6372)
type ClockMode string

const (
	ClockModeBlockNumber ClockMode = "blocknumber"
	ClockModeTimestamp   ClockMode = "timestamp"
)

// GovernorSettings is the data behind the settings tab
type GovernorSettings struct {
	Name              string         `json:"name"`
	Version           string         `json:"version"`
	ClockMode         ClockMode      `json:"clockMode"`
	VotingDelay       uint64         `json:"votingDelay"`
	VotingPeriod      uint64         `json:"votingPeriod"`
	ProposalThreshold *big.Int       `json:"proposalThreshold"`
	QuorumNumerator   *big.Int       `json:"quorumNumerator"`
	QuorumDenominator *big.Int       `json:"quorumDenominator"`
	Token             common.Address `json:"token"`
	Timelock          common.Address `json:"timelock"`
}

// QuorumPercent returns numerator/denominator as a percentage
func (s *GovernorSettings) QuorumPercent() float64 {
	if s.QuorumNumerator == nil || s.QuorumDenominator == nil || s.QuorumDenominator.Sign() == 0 {
		return 0
	}
	f, _ := new(big.Rat).SetFrac(new(big.Int).Mul(s.QuorumNumerator, big.NewInt(100)), s.QuorumDenominator).Float64()
	return f
}

// TimelockSettings describes the timelock a governor executes through
type TimelockSettings struct {
	Address             common.Address `json:"address"`
	MinDelay            time.Duration  `json:"minDelay"`
	GovernorIsProposer  bool           `json:"governorIsProposer"`
	GovernorIsExecutor  bool           `json:"governorIsExecutor"`
	GovernorIsCanceller bool           `json:"governorIsCanceller"`
	OpenExecutor        bool           `json:"openExecutor"`
}

// DAOSettings groups governor and timelock parameters
type DAOSettings struct {
	DAO      *DAO              `json:"dao"`
	Governor *GovernorSettings `json:"governor"`
	Timelock *TimelockSettings `json:"timelock,omitempty"`
}

// TimelockOperationState mirrors the timelock's operation state
type TimelockOperationState string

const (
	TimelockOpUnset   TimelockOperationState = "unset"
	TimelockOpWaiting TimelockOperationState = "waiting"
	TimelockOpReady   TimelockOperationState = "ready"
	TimelockOpDone    TimelockOperationState = "done"
)

// TimelockOperation is the timelock view of a queued proposal
type TimelockOperation struct {
	ID      common.Hash            `json:"id"`
	State   TimelockOperationState `json:"state"`
	ReadyAt time.Time              `json:"readyAt,omitempty"`
}
