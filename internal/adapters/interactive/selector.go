package interactive

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"
	"github.com/trebuchet-org/dao-cli/internal/domain"
	"github.com/trebuchet-org/dao-cli/internal/domain/config"
	"github.com/trebuchet-org/dao-cli/internal/domain/models"
	"github.com/trebuchet-org/dao-cli/internal/usecase"
)

// SelectorAdapter handles interactive selection
type SelectorAdapter struct {
	config *config.RuntimeConfig
}

// NewSelectorAdapter creates a new selector adapter
func NewSelectorAdapter(cfg *config.RuntimeConfig) *SelectorAdapter {
	return &SelectorAdapter{config: cfg}
}

// SelectDAO asks the user to pick one of several DAOs matching a reference
func (s *SelectorAdapter) SelectDAO(ctx context.Context, daos []*models.DAO, prompt string) (*models.DAO, error) {
	switch {
	case len(daos) == 0:
		return nil, fmt.Errorf("%w: no DAOs to choose from", domain.ErrNotFound)
	case len(daos) == 1:
		return daos[0], nil
	case s.config.NonInteractive:
		return nil, fmt.Errorf("%d DAOs match, pass a governor address instead (non-interactive mode)", len(daos))
	}

	labels, plain := daoLabels(daos)
	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "▸ {{ . }}",
		Inactive: "  {{ . }}",
		Selected: "✓ {{ . }}",
		Help:     color.New(color.FgYellow).Sprint("Type to filter, arrow keys to move, Enter to select"),
	}

	sel := promptui.Select{
		Label:             prompt,
		Items:             labels,
		Templates:         templates,
		Size:              10,
		StartInSearchMode: true,
		Searcher:          createFuzzySearchFunc(plain),
	}

	index, _, err := sel.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return nil, domain.ErrCancelled
		}
		return nil, fmt.Errorf("selection failed: %w", err)
	}
	return daos[index], nil
}

// daoLabels returns coloured labels for display and plain ones for search.
// The chain id is shown only when the DAOs span several chains.
func daoLabels(daos []*models.DAO) (labels, plain []string) {
	multiChain := len(lo.UniqBy(daos, func(d *models.DAO) uint64 { return d.ChainID })) > 1

	nameStyle := color.New(color.FgWhite, color.Bold)
	addrStyle := color.New(color.FgBlue)
	catStyle := color.New(color.FgYellow)
	chainStyle := color.New(color.Faint)

	labels = make([]string, len(daos))
	plain = make([]string, len(daos))
	for i, dao := range daos {
		short := models.ShortAddress(dao.Config.Governor)
		label := nameStyle.Sprint(dao.DisplayName())
		text := dao.DisplayName()
		if dao.Category != "" {
			label += " " + catStyle.Sprintf("[%s]", dao.Category)
			text += fmt.Sprintf(" [%s]", dao.Category)
		}
		label += fmt.Sprintf(" (%s)", addrStyle.Sprint(short))
		text += fmt.Sprintf(" (%s)", short)
		if multiChain {
			label += " " + chainStyle.Sprintf("chain %d", dao.ChainID)
			text += fmt.Sprintf(" chain %d", dao.ChainID)
		}
		labels[i] = label
		plain[i] = text
	}
	return labels, plain
}

// createFuzzySearchFunc creates a fuzzy search function for promptui
func createFuzzySearchFunc(items []string) func(input string, index int) bool {
	return func(input string, index int) bool {
		if input == "" {
			return true
		}

		input = strings.ToLower(input)
		item := strings.ToLower(items[index])

		if strings.Contains(item, input) {
			return true
		}

		pattern := fuzzy.Find(input, []string{item})
		return len(pattern) > 0
	}
}

// Ensure the adapter implements the interface
var _ usecase.DAOSelector = (*SelectorAdapter)(nil)
