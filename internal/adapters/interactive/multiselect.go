package interactive

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/trebuchet-org/dao-cli/internal/domain"
	"github.com/trebuchet-org/dao-cli/internal/domain/config"
	"github.com/trebuchet-org/dao-cli/internal/domain/models"
	"github.com/trebuchet-org/dao-cli/internal/usecase"
)

// multiSelectModel is the bubbletea model for picking proposals
type multiSelectModel struct {
	proposals []*models.Proposal
	cursor    int
	selected  map[int]bool
	title     string
	done      bool
	cancelled bool
}

func newMultiSelectModel(proposals []*models.Proposal, title string) multiSelectModel {
	return multiSelectModel{
		proposals: proposals,
		selected:  make(map[int]bool),
		title:     title,
	}
}

// Init is the initial command for bubbletea
func (m multiSelectModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model
func (m multiSelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.cancelled = true
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.proposals)-1 {
				m.cursor++
			}
		case " ":
			m.selected[m.cursor] = !m.selected[m.cursor]
		case "a":
			all := len(m.indices()) < len(m.proposals)
			for i := range m.proposals {
				m.selected[i] = all
			}
		case "enter":
			if len(m.indices()) > 0 {
				m.done = true
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

// indices returns the selected positions in list order
func (m multiSelectModel) indices() []int {
	var out []int
	for i := range m.proposals {
		if m.selected[i] {
			out = append(out, i)
		}
	}
	return out
}

// View renders the UI
func (m multiSelectModel) View() string {
	if m.done || m.cancelled {
		return ""
	}

	var b strings.Builder
	b.WriteString(color.New(color.FgCyan, color.Bold).Sprintf("%s\n\n", m.title))

	for i, p := range m.proposals {
		cursor := " "
		if m.cursor == i {
			cursor = color.New(color.FgCyan).Sprint("▸")
		}

		checkbox := color.New(color.FgWhite).Sprint("○")
		if m.selected[i] {
			checkbox = color.New(color.FgGreen).Sprint("✓")
		}

		title := color.New(color.FgWhite).Sprint(p.Title)
		status := color.New(color.FgYellow).Sprintf("(%s)", p.Status)

		b.WriteString(fmt.Sprintf("%s %s %s %s\n", cursor, checkbox, title, status))
	}

	b.WriteString("\n")
	b.WriteString(color.New(color.FgYellow).Sprint("↑/↓: move  Space: toggle  a: all  Enter: confirm  q: quit\n"))

	return b.String()
}

// ProposalSelectorAdapter picks proposals with a terminal multi-select
type ProposalSelectorAdapter struct {
	config *config.RuntimeConfig
	run    func(tea.Model) (tea.Model, error)
}

// NewProposalSelectorAdapter creates a new proposal selector
func NewProposalSelectorAdapter(cfg *config.RuntimeConfig) *ProposalSelectorAdapter {
	return &ProposalSelectorAdapter{
		config: cfg,
		run: func(m tea.Model) (tea.Model, error) {
			return tea.NewProgram(m).Run()
		},
	}
}

// SelectProposals shows a multi-select interface and returns the chosen proposals
func (s *ProposalSelectorAdapter) SelectProposals(ctx context.Context, proposals []*models.Proposal, prompt string) ([]*models.Proposal, error) {
	if s.config.NonInteractive {
		return nil, fmt.Errorf("interactive selection not available in non-interactive mode")
	}
	if len(proposals) == 0 {
		return nil, fmt.Errorf("no proposals to select")
	}

	finalModel, err := s.run(newMultiSelectModel(proposals, prompt))
	if err != nil {
		return nil, fmt.Errorf("multi-select failed: %w", err)
	}

	m := finalModel.(multiSelectModel)
	if m.cancelled || !m.done {
		return nil, domain.ErrCancelled
	}

	var picked []*models.Proposal
	for _, i := range m.indices() {
		picked = append(picked, proposals[i])
	}
	return picked, nil
}

var _ usecase.ProposalSelector = (*ProposalSelectorAdapter)(nil)
