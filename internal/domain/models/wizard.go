package models

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// WizardStep is one page of the DAO creation wizard
type WizardStep string

const (
	StepBasics       WizardStep = "basics"
	StepToken        WizardStep = "token"
	StepDistribution WizardStep = "distribution"
	StepGovernance   WizardStep = "governance"
	StepTimelock     WizardStep = "timelock"
	StepReview       WizardStep = "review"
)

// WizardSteps lists the steps in the order they are presented
var WizardSteps = []WizardStep{StepBasics, StepToken, StepDistribution, StepGovernance, StepTimelock, StepReview}

// Next returns the step after s, or s itself for the last step
func (s WizardStep) Next() WizardStep {
	for i, step := range WizardSteps {
		if step == s && i+1 < len(WizardSteps) {
			return WizardSteps[i+1]
		}
	}
	return s
}

// Prev returns the step before s, or s itself for the first step
func (s WizardStep) Prev() WizardStep {
	for i, step := range WizardSteps {
		if step == s && i > 0 {
			return WizardSteps[i-1]
		}
	}
	return s
}

// Holder is an initial token allocation
type Holder struct {
	Address common.Address `json:"address"`
	Amount  *big.Int       `json:"amount"`
}

// DAOCreationParams is everything the factory needs to deploy a DAO
type DAOCreationParams struct {
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	Category          string    `json:"category"`
	TokenType         TokenType `json:"tokenType"`
	TokenName         string    `json:"tokenName"`
	TokenSymbol       string    `json:"tokenSymbol"`
	Holders           []Holder  `json:"holders"`
	VotingDelay       uint64    `json:"votingDelay"`
	VotingPeriod      uint64    `json:"votingPeriod"`
	ProposalThreshold *big.Int  `json:"proposalThreshold"`
	QuorumPercent     uint64    `json:"quorumPercent"`
	TimelockDelay     uint64    `json:"timelockDelay"`
}

// TotalAllocation sums the initial holder amounts
func (p *DAOCreationParams) TotalAllocation() *big.Int {
	total := new(big.Int)
	for _, h := range p.Holders {
		if h.Amount != nil {
			total.Add(total, h.Amount)
		}
	}
	return total
}

// WizardDraft is a saved, possibly incomplete wizard session
type WizardDraft struct {
	ID        string            `json:"id"`
	ChainID   uint64            `json:"chainId"`
	Step      WizardStep        `json:"step"`
	Params    DAOCreationParams `json:"params"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}
