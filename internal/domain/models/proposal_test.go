package models

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProposalStatus(t *testing.T) {
	tests := []struct {
		input   string
		want    ProposalStatus
		wantErr bool
	}{
		{input: "pending", want: ProposalStatusPending},
		{input: "Active", want: ProposalStatusActive},
		{input: "cancelled", want: ProposalStatusCanceled},
		{input: " executed ", want: ProposalStatusExecuted},
		{input: "queued", want: ProposalStatusQueued},
		{input: "open", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseProposalStatus(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Equal(t, uint8(7), uint8(ProposalStatusExecuted))
	assert.Equal(t, "unknown(9)", ProposalStatus(9).String())
	assert.True(t, ProposalStatusDefeated.IsFinal())
	assert.False(t, ProposalStatusQueued.IsFinal())
}

func TestProposalStatusJSONMapKey(t *testing.T) {
	data, err := json.Marshal(map[ProposalStatus]int{ProposalStatusActive: 2})
	require.NoError(t, err)
	assert.JSONEq(t, `{"active":2}`, string(data))
}

func TestParseVoteSupport(t *testing.T) {
	for input, want := range map[string]VoteSupport{
		"for":     VoteFor,
		"YES":     VoteFor,
		"against": VoteAgainst,
		"0":       VoteAgainst,
		"abstain": VoteAbstain,
	} {
		got, err := ParseVoteSupport(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	_, err := ParseVoteSupport("maybe")
	assert.Error(t, err)
}

func TestQuorumAndOutcome(t *testing.T) {
	p := &Proposal{
		Votes: VoteTally{
			For:     big.NewInt(40),
			Against: big.NewInt(50),
			Abstain: big.NewInt(10),
		},
		Quorum: big.NewInt(50),
	}

	assert.True(t, p.QuorumReached(), "for + abstain counts toward quorum")
	assert.False(t, p.VoteSucceeded())
	assert.Equal(t, 100.0, p.QuorumProgress())
	assert.Equal(t, 40.0, p.Votes.Percent(p.Votes.For))
	assert.Equal(t, 10.0, p.Votes.Percent(p.Votes.Abstain))

	p.Votes.For = big.NewInt(51)
	assert.True(t, p.VoteSucceeded())

	p.Quorum = big.NewInt(200)
	assert.False(t, p.QuorumReached())
	assert.InDelta(t, 30.5, p.QuorumProgress(), 0.001)
}

func TestEmptyTally(t *testing.T) {
	p := &Proposal{Votes: NewVoteTally()}
	assert.Equal(t, 0.0, p.Votes.Percent(p.Votes.For))
	assert.False(t, p.QuorumReached())
	assert.False(t, p.VoteSucceeded())
}

func TestTitleFromDescription(t *testing.T) {
	assert.Equal(t, "Fund the grants program", TitleFromDescription("\n# Fund the grants program\n\nDetails follow"))
	assert.Equal(t, "Plain title", TitleFromDescription("Plain title"))
	assert.Equal(t, "(untitled)", TitleFromDescription("  \n\n"))
}

func TestProposalArrays(t *testing.T) {
	p := &Proposal{Actions: []ProposalAction{
		{Calldata: []byte{0x01}},
		{Value: big.NewInt(5), Calldata: []byte{0x02}},
	}}

	values := p.Values()
	require.Len(t, values, 2)
	assert.Equal(t, int64(0), values[0].Int64())
	assert.Equal(t, int64(5), values[1].Int64())
	assert.Equal(t, [][]byte{{0x01}, {0x02}}, p.Calldatas())
	assert.Len(t, p.Targets(), 2)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, DAOStatusNew, StatusFor(nil))
	assert.Equal(t, DAOStatusIdle, StatusFor([]*Proposal{{Status: ProposalStatusExecuted}}))
	assert.Equal(t, DAOStatusActive, StatusFor([]*Proposal{
		{Status: ProposalStatusDefeated},
		{Status: ProposalStatusPending},
	}))
}
