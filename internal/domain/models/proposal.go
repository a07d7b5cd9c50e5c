package models

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ProposalStatus is the lifecycle state reported by the governor's state(id).
// The numeric values match the on-chain enum.
type ProposalStatus uint8

const (
	ProposalStatusPending ProposalStatus = iota
	ProposalStatusActive
	ProposalStatusCanceled
	ProposalStatusDefeated
	ProposalStatusSucceeded
	ProposalStatusQueued
	ProposalStatusExpired
	ProposalStatusExecuted
)

var proposalStatusNames = [...]string{
	"pending",
	"active",
	"canceled",
	"defeated",
	"succeeded",
	"queued",
	"expired",
	"executed",
}

func (s ProposalStatus) String() string {
	if int(s) < len(proposalStatusNames) {
		return proposalStatusNames[s]
	}
	return fmt.Sprintf("unknown(%d)", uint8(s))
}

func (s ProposalStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *ProposalStatus) UnmarshalText(b []byte) error {
	parsed, err := ParseProposalStatus(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// IsFinal reports whether no further transition is possible
func (s ProposalStatus) IsFinal() bool {
	switch s {
	case ProposalStatusCanceled, ProposalStatusDefeated, ProposalStatusExpired, ProposalStatusExecuted:
		return true
	}
	return false
}

// ParseProposalStatus parses a status name
func ParseProposalStatus(s string) (ProposalStatus, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "cancelled" {
		s = "canceled"
	}
	for i, name := range proposalStatusNames {
		if name == s {
			return ProposalStatus(i), nil
		}
	}
	return 0, fmt.Errorf("unknown proposal status %q (valid: %s)", s, strings.Join(proposalStatusNames[:], ", "))
}

// VoteSupport is the vote type accepted by castVote
type VoteSupport uint8

const (
	VoteAgainst VoteSupport = 0
	VoteFor     VoteSupport = 1
	VoteAbstain VoteSupport = 2
)

func (v VoteSupport) String() string {
	switch v {
	case VoteAgainst:
		return "against"
	case VoteFor:
		return "for"
	case VoteAbstain:
		return "abstain"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(v))
	}
}

func (v VoteSupport) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// ParseVoteSupport parses for/against/abstain and their common aliases
func ParseVoteSupport(s string) (VoteSupport, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "for", "yes", "y", "1":
		return VoteFor, nil
	case "against", "no", "n", "0":
		return VoteAgainst, nil
	case "abstain", "a", "2":
		return VoteAbstain, nil
	default:
		return 0, fmt.Errorf("unknown vote %q (valid: for, against, abstain)", s)
	}
}

// ProposalAction is one call a proposal will make when executed
type ProposalAction struct {
	Target    common.Address `json:"target"`
	Value     *big.Int       `json:"value"`
	Calldata  hexutil.Bytes  `json:"calldata"`
	Signature string         `json:"signature,omitempty"`
}

// VoteTally holds the counting-simple totals
type VoteTally struct {
	For     *big.Int `json:"for"`
	Against *big.Int `json:"against"`
	Abstain *big.Int `json:"abstain"`
}

// NewVoteTally returns a tally with all counts at zero
func NewVoteTally() VoteTally {
	return VoteTally{For: new(big.Int), Against: new(big.Int), Abstain: new(big.Int)}
}

// Total is the sum of all three counts
func (t VoteTally) Total() *big.Int {
	total := new(big.Int)
	for _, v := range []*big.Int{t.For, t.Against, t.Abstain} {
		if v != nil {
			total.Add(total, v)
		}
	}
	return total
}

// QuorumVotes is the count that is measured against quorum: for + abstain
func (t VoteTally) QuorumVotes() *big.Int {
	sum := new(big.Int)
	if t.For != nil {
		sum.Add(sum, t.For)
	}
	if t.Abstain != nil {
		sum.Add(sum, t.Abstain)
	}
	return sum
}

// Percent returns the share of part in the total as a percentage with one decimal
func (t VoteTally) Percent(part *big.Int) float64 {
	total := t.Total()
	if part == nil || total.Sign() == 0 {
		return 0
	}
	ratio := new(big.Rat).SetFrac(new(big.Int).Mul(part, big.NewInt(1000)), total)
	f, _ := ratio.Float64()
	return float64(int64(f+0.5)) / 10
}

// Proposal is the read model of a governor proposal
type Proposal struct {
	ID           *big.Int         `json:"id"`
	Proposer     common.Address   `json:"proposer"`
	Title        string           `json:"title"`
	Description  string           `json:"description"`
	Status       ProposalStatus   `json:"status"`
	Votes        VoteTally        `json:"votes"`
	Snapshot     uint64           `json:"snapshot"`
	Deadline     uint64           `json:"deadline"`
	Quorum       *big.Int         `json:"quorum"`
	ETA          uint64           `json:"eta,omitempty"`
	Actions      []ProposalAction `json:"actions"`
	CreatedBlock uint64           `json:"createdBlock"`
	CreatedTx    common.Hash      `json:"createdTx"`
}

// QuorumReached mirrors counting-simple: quorum <= for + abstain
func (p *Proposal) QuorumReached() bool {
	if p.Quorum == nil {
		return false
	}
	return p.Votes.QuorumVotes().Cmp(p.Quorum) >= 0
}

// VoteSucceeded mirrors counting-simple: for > against
func (p *Proposal) VoteSucceeded() bool {
	if p.Votes.For == nil {
		return false
	}
	against := p.Votes.Against
	if against == nil {
		against = new(big.Int)
	}
	return p.Votes.For.Cmp(against) > 0
}

// QuorumProgress returns for+abstain as a percentage of quorum, capped at 100
func (p *Proposal) QuorumProgress() float64 {
	if p.Quorum == nil || p.Quorum.Sign() == 0 {
		return 100
	}
	ratio := new(big.Rat).SetFrac(new(big.Int).Mul(p.Votes.QuorumVotes(), big.NewInt(100)), p.Quorum)
	f, _ := ratio.Float64()
	if f > 100 {
		return 100
	}
	return f
}

// Targets, Values and Calldatas split actions into the governor's parallel arrays
func (p *Proposal) Targets() []common.Address {
	out := make([]common.Address, len(p.Actions))
	for i, a := range p.Actions {
		out[i] = a.Target
	}
	return out
}

func (p *Proposal) Values() []*big.Int {
	out := make([]*big.Int, len(p.Actions))
	for i, a := range p.Actions {
		if a.Value == nil {
			out[i] = new(big.Int)
		} else {
			out[i] = a.Value
		}
	}
	return out
}

func (p *Proposal) Calldatas() [][]byte {
	out := make([][]byte, len(p.Actions))
	for i, a := range p.Actions {
		out[i] = a.Calldata
	}
	return out
}

// TitleFromDescription takes the first non-empty line of a description and
// strips markdown heading marks.
func TitleFromDescription(description string) string {
	for _, line := range strings.Split(description, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimSpace(strings.TrimLeft(line, "#"))
		if line != "" {
			return line
		}
	}
	return "(untitled)"
}

// Vote is a single VoteCast log
type Vote struct {
	ProposalID *big.Int       `json:"proposalId"`
	Voter      common.Address `json:"voter"`
	Support    VoteSupport    `json:"support"`
	Weight     *big.Int       `json:"weight"`
	Reason     string         `json:"reason,omitempty"`
	Block      uint64         `json:"block"`
	TxHash     common.Hash    `json:"txHash"`
}

// ProposalDetail extends a proposal with data only the detail page shows
type ProposalDetail struct {
	*Proposal
	VoteLog          []*Vote            `json:"voteLog"`
	HasVoted         *bool              `json:"hasVoted,omitempty"`
	TimelockOp       *TimelockOperation `json:"timelockOperation,omitempty"`
	CurrentTimepoint uint64             `json:"currentTimepoint"`
}
