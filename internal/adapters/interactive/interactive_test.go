package interactive

import (
	"bytes"
	"context"
	"errors"
	"math/big"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/dao-cli/internal/domain"
	"github.com/trebuchet-org/dao-cli/internal/domain/config"
	"github.com/trebuchet-org/dao-cli/internal/domain/models"
)

// scriptedWizard answers prompts in order
func scriptedWizard(t *testing.T, answers []string, choices []int, confirms []bool) (*WizardAdapter, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	w := &WizardAdapter{out: out}
	w.ask = func(label, def string) (string, error) {
		require.NotEmpty(t, answers, "unexpected prompt %q", label)
		a := answers[0]
		answers = answers[1:]
		if a == "<default>" {
			return def, nil
		}
		return a, nil
	}
	w.choose = func(label string, items []string, cursor int) (int, error) {
		require.NotEmpty(t, choices, "unexpected select %q", label)
		c := choices[0]
		choices = choices[1:]
		return c, nil
	}
	w.confirm = func(label string) (bool, error) {
		require.NotEmpty(t, confirms, "unexpected confirm %q", label)
		c := confirms[0]
		confirms = confirms[1:]
		return c, nil
	}
	t.Cleanup(func() {
		assert.Empty(t, answers, "unused answers")
	})
	return w, out
}

func TestWizardBasicsAndToken(t *testing.T) {
	w, out := scriptedWizard(t, []string{"Acme", "Builds rockets", "", "<default>", "acme"}, []int{1}, nil)
	p := &models.DAOCreationParams{}

	require.NoError(t, w.PromptStep(context.Background(), models.StepBasics, p))
	require.NoError(t, w.PromptStep(context.Background(), models.StepToken, p))

	assert.Equal(t, "Acme", p.Name)
	assert.Equal(t, "Builds rockets", p.Description)
	assert.Equal(t, models.TokenTypeERC721Votes, p.TokenType)
	assert.Equal(t, "Acme Token", p.TokenName)
	assert.Equal(t, "ACME", p.TokenSymbol)
	assert.Contains(t, out.String(), "Step 1/6: basics")
	assert.Contains(t, out.String(), "Step 2/6: token")
}

func TestWizardDistribution(t *testing.T) {
	alice := "0xA11CE00000000000000000000000000000000001"

	t.Run("collects holders in token units", func(t *testing.T) {
		w, _ := scriptedWizard(t, []string{alice, "1.5", "not-an-address", "2", ""}, nil, nil)
		p := &models.DAOCreationParams{TokenType: models.TokenTypeERC20Votes}

		require.NoError(t, w.PromptStep(context.Background(), models.StepDistribution, p))
		require.Len(t, p.Holders, 2)
		assert.Equal(t, common.HexToAddress(alice), p.Holders[0].Address)
		assert.Equal(t, "1500000000000000000", p.Holders[0].Amount.String())
		assert.Equal(t, common.Address{}, p.Holders[1].Address, "invalid addresses are left for validation")
	})

	t.Run("re-prompts on a bad amount", func(t *testing.T) {
		w, out := scriptedWizard(t, []string{alice, "abc", alice, "3", ""}, nil, nil)
		p := &models.DAOCreationParams{TokenType: models.TokenTypeERC721Votes}

		require.NoError(t, w.PromptStep(context.Background(), models.StepDistribution, p))
		require.Len(t, p.Holders, 1)
		assert.Equal(t, "3", p.Holders[0].Amount.String())
		assert.Contains(t, out.String(), "invalid amount")
	})

	t.Run("keeps resumed holders", func(t *testing.T) {
		w, _ := scriptedWizard(t, nil, nil, []bool{true})
		p := &models.DAOCreationParams{Holders: []models.Holder{{Address: common.HexToAddress(alice), Amount: big.NewInt(1)}}}

		require.NoError(t, w.PromptStep(context.Background(), models.StepDistribution, p))
		assert.Len(t, p.Holders, 1)
	})
}

func TestWizardGovernanceDefaults(t *testing.T) {
	w, _ := scriptedWizard(t, []string{"<default>", "<default>", "x", "10", "<default>", "<default>"}, nil, nil)
	p := &models.DAOCreationParams{}

	require.NoError(t, w.PromptStep(context.Background(), models.StepGovernance, p))
	require.NoError(t, w.PromptStep(context.Background(), models.StepTimelock, p))

	assert.Equal(t, uint64(defaultVotingDelay), p.VotingDelay)
	assert.Equal(t, uint64(defaultVotingPeriod), p.VotingPeriod)
	assert.Equal(t, "10000000000000000000", p.ProposalThreshold.String())
	assert.Equal(t, uint64(defaultQuorumPercent), p.QuorumPercent)
	assert.Equal(t, uint64(defaultTimelockDelay), p.TimelockDelay)
}

func TestWizardConfirm(t *testing.T) {
	w, out := scriptedWizard(t, nil, nil, []bool{false})
	p := &models.DAOCreationParams{Name: "Acme", TokenName: "Acme", TokenSymbol: "ACME", QuorumPercent: 4}

	ok, err := w.Confirm(context.Background(), p)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Contains(t, out.String(), "Quorum:             4%")
}

func TestWizardCancelPropagates(t *testing.T) {
	w := &WizardAdapter{out: &bytes.Buffer{}}
	w.ask = func(label, def string) (string, error) { return "", domain.ErrCancelled }

	err := w.PromptStep(context.Background(), models.StepBasics, &models.DAOCreationParams{})
	assert.True(t, errors.Is(err, domain.ErrCancelled))
}

func TestFuzzySearch(t *testing.T) {
	items := []string{"Acme DAO (0x1000…0001)", "Rocket Club (0x1000…0002)"}
	search := createFuzzySearchFunc(items)

	assert.True(t, search("", 0))
	assert.True(t, search("acme", 0))
	assert.False(t, search("acme", 1))
	assert.True(t, search("rktclb", 1))
}

func TestSelectDAO(t *testing.T) {
	one := []*models.DAO{{Name: "Acme"}}
	two := []*models.DAO{{Name: "Acme", ChainID: 1}, {Name: "Acme", ChainID: 31337}}

	s := NewSelectorAdapter(&config.RuntimeConfig{NonInteractive: true})
	dao, err := s.SelectDAO(context.Background(), one, "Pick")
	require.NoError(t, err)
	assert.Same(t, one[0], dao)

	_, err = s.SelectDAO(context.Background(), two, "Pick")
	assert.ErrorContains(t, err, "2 DAOs match")

	_, err = s.SelectDAO(context.Background(), nil, "Pick")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestDAOLabels(t *testing.T) {
	gov := common.HexToAddress("0x1000000000000000000000000000000000000001")

	_, plain := daoLabels([]*models.DAO{
		{Name: "Acme", Category: "grants", ChainID: 1, Config: models.DAOConfig{Governor: gov}},
		{Name: "Rocket", ChainID: 1, Config: models.DAOConfig{Governor: gov}},
	})
	assert.Equal(t, "Acme [grants] ("+models.ShortAddress(gov)+")", plain[0])
	assert.Equal(t, "Rocket ("+models.ShortAddress(gov)+")", plain[1])

	_, plain = daoLabels([]*models.DAO{
		{Name: "Acme", ChainID: 1, Config: models.DAOConfig{Governor: gov}},
		{Name: "Acme", ChainID: 31337, Config: models.DAOConfig{Governor: gov}},
	})
	assert.Equal(t, "Acme ("+models.ShortAddress(gov)+") chain 31337", plain[1])
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestSelectProposals(t *testing.T) {
	proposals := []*models.Proposal{
		{ID: big.NewInt(1), Title: "One", Status: models.ProposalStatusQueued},
		{ID: big.NewInt(2), Title: "Two", Status: models.ProposalStatusQueued},
		{ID: big.NewInt(3), Title: "Three", Status: models.ProposalStatusSucceeded},
	}

	drive := func(keys ...string) func(tea.Model) (tea.Model, error) {
		return func(m tea.Model) (tea.Model, error) {
			for _, k := range keys {
				m, _ = m.Update(key(k))
			}
			return m, nil
		}
	}

	s := NewProposalSelectorAdapter(&config.RuntimeConfig{})

	t.Run("toggles and confirms", func(t *testing.T) {
		s.run = drive("enter", "down", " ", "down", " ", "enter")
		picked, err := s.SelectProposals(context.Background(), proposals, "Execute which?")
		require.NoError(t, err)
		require.Len(t, picked, 2)
		assert.Equal(t, "Two", picked[0].Title)
		assert.Equal(t, "Three", picked[1].Title)
	})

	t.Run("select all", func(t *testing.T) {
		s.run = drive("a", "enter")
		picked, err := s.SelectProposals(context.Background(), proposals, "Execute which?")
		require.NoError(t, err)
		assert.Len(t, picked, 3)
	})

	t.Run("quit cancels", func(t *testing.T) {
		s.run = drive(" ", "q")
		_, err := s.SelectProposals(context.Background(), proposals, "Execute which?")
		assert.True(t, errors.Is(err, domain.ErrCancelled))
	})
}
