package interactive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/trebuchet-org/dao-cli/internal/domain"
	"github.com/trebuchet-org/dao-cli/internal/domain/models"
	"github.com/trebuchet-org/dao-cli/internal/usecase"
)

// Default governance values offered by the wizard
const (
	defaultVotingDelay   = 1
	defaultVotingPeriod  = 50400
	defaultQuorumPercent = 4
	defaultTimelockDelay = 3600
)

// WizardAdapter asks for DAO creation parameters with promptui
type WizardAdapter struct {
	out     io.Writer
	ask     func(label, def string) (string, error)
	choose  func(label string, items []string, cursor int) (int, error)
	confirm func(label string) (bool, error)
}

// NewWizardAdapter creates a terminal wizard
func NewWizardAdapter() *WizardAdapter {
	return &WizardAdapter{
		out:     os.Stdout,
		ask:     promptLine,
		choose:  promptSelect,
		confirm: promptConfirm,
	}
}

func promptLine(label, def string) (string, error) {
	prompt := promptui.Prompt{
		Label:     label,
		Default:   def,
		AllowEdit: true,
	}
	result, err := prompt.Run()
	if err != nil {
		return "", cancelled(err)
	}
	return strings.TrimSpace(result), nil
}

func promptSelect(label string, items []string, cursor int) (int, error) {
	sel := promptui.Select{
		Label:     label,
		Items:     items,
		CursorPos: cursor,
		Templates: &promptui.SelectTemplates{
			Label:    "{{ . }}",
			Active:   "▸ {{ . | cyan }}",
			Inactive: "  {{ . | faint }}",
			Selected: "✓ {{ . | green }}",
		},
	}
	index, _, err := sel.Run()
	if err != nil {
		return 0, cancelled(err)
	}
	return index, nil
}

func promptConfirm(label string) (bool, error) {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}
	_, err := prompt.Run()
	if errors.Is(err, promptui.ErrAbort) {
		return false, nil
	}
	if err != nil {
		return false, cancelled(err)
	}
	return true, nil
}

func cancelled(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
		return domain.ErrCancelled
	}
	return fmt.Errorf("input failed: %w", err)
}

// PromptStep asks for the fields of one wizard step, pre-filled with params
func (w *WizardAdapter) PromptStep(ctx context.Context, step models.WizardStep, p *models.DAOCreationParams) error {
	header := color.New(color.FgCyan, color.Bold)
	index := 0
	for i, s := range models.WizardSteps {
		if s == step {
			index = i + 1
		}
	}
	header.Fprintf(w.out, "\nStep %d/%d: %s\n", index, len(models.WizardSteps), step)

	switch step {
	case models.StepBasics:
		return w.basics(p)
	case models.StepToken:
		return w.token(p)
	case models.StepDistribution:
		return w.distribution(p)
	case models.StepGovernance:
		return w.governance(p)
	case models.StepTimelock:
		return w.timelock(p)
	case models.StepReview:
		return nil
	default:
		return fmt.Errorf("unknown wizard step %q", step)
	}
}

func (w *WizardAdapter) basics(p *models.DAOCreationParams) (err error) {
	if p.Name, err = w.ask("DAO name", p.Name); err != nil {
		return err
	}
	if p.Description, err = w.ask("Description", p.Description); err != nil {
		return err
	}
	p.Category, err = w.ask("Category (optional)", p.Category)
	return err
}

func (w *WizardAdapter) token(p *models.DAOCreationParams) (err error) {
	types := []string{"ERC20Votes (fungible token)", "ERC721Votes (membership NFT)"}
	index, err := w.choose("Voting token", types, int(p.TokenType))
	if err != nil {
		return err
	}
	p.TokenType = models.TokenType(index)

	def := p.TokenName
	if def == "" && p.Name != "" {
		def = p.Name + " Token"
	}
	if p.TokenName, err = w.ask("Token name", def); err != nil {
		return err
	}
	symbol, err := w.ask("Token symbol", p.TokenSymbol)
	if err != nil {
		return err
	}
	p.TokenSymbol = strings.ToUpper(symbol)
	return nil
}

func (w *WizardAdapter) distribution(p *models.DAOCreationParams) error {
	decimals := p.TokenType.Decimals()

	if len(p.Holders) > 0 {
		for _, h := range p.Holders {
			fmt.Fprintf(w.out, "  %s  %s\n", h.Address.Hex(), models.FormatUnits(h.Amount, decimals))
		}
		keep, err := w.confirm(fmt.Sprintf("Keep these %d holders", len(p.Holders)))
		if err != nil {
			return err
		}
		if keep {
			return nil
		}
		p.Holders = nil
	}

	for {
		addr, err := w.ask(fmt.Sprintf("Holder %d address (empty to finish)", len(p.Holders)+1), "")
		if err != nil {
			return err
		}
		if addr == "" {
			return nil
		}

		amount, err := w.ask("Amount", "")
		if err != nil {
			return err
		}

		// an unparseable address stays zero and fails step validation
		var holder models.Holder
		if common.IsHexAddress(addr) {
			holder.Address = common.HexToAddress(addr)
		}
		if holder.Amount, err = models.ParseUnits(amount, decimals); err != nil {
			fmt.Fprintf(w.out, "  %s\n", color.RedString("invalid amount: %v", err))
			continue
		}
		p.Holders = append(p.Holders, holder)
	}
}

func (w *WizardAdapter) governance(p *models.DAOCreationParams) error {
	if p.VotingPeriod == 0 {
		p.VotingDelay = defaultVotingDelay
		p.VotingPeriod = defaultVotingPeriod
	}
	if p.QuorumPercent == 0 {
		p.QuorumPercent = defaultQuorumPercent
	}
	decimals := p.TokenType.Decimals()

	var err error
	if p.VotingDelay, err = w.askUint("Voting delay (blocks)", p.VotingDelay); err != nil {
		return err
	}
	if p.VotingPeriod, err = w.askUint("Voting period (blocks)", p.VotingPeriod); err != nil {
		return err
	}

	for {
		raw, err := w.ask("Proposal threshold (tokens)", models.FormatUnits(p.ProposalThreshold, decimals))
		if err != nil {
			return err
		}
		threshold, err := models.ParseUnits(raw, decimals)
		if err == nil {
			p.ProposalThreshold = threshold
			break
		}
		fmt.Fprintf(w.out, "  %s\n", color.RedString("invalid amount: %v", err))
	}

	p.QuorumPercent, err = w.askUint("Quorum (% of supply)", p.QuorumPercent)
	return err
}

func (w *WizardAdapter) timelock(p *models.DAOCreationParams) error {
	if p.TimelockDelay == 0 {
		p.TimelockDelay = defaultTimelockDelay
	}
	var err error
	p.TimelockDelay, err = w.askUint("Timelock delay (seconds)", p.TimelockDelay)
	return err
}

func (w *WizardAdapter) askUint(label string, def uint64) (uint64, error) {
	for {
		raw, err := w.ask(label, strconv.FormatUint(def, 10))
		if err != nil {
			return 0, err
		}
		n, err := strconv.ParseUint(raw, 10, 64)
		if err == nil {
			return n, nil
		}
		fmt.Fprintf(w.out, "  %s\n", color.RedString("%q is not a whole number", raw))
	}
}

// Confirm prints the review summary and asks whether to deploy
func (w *WizardAdapter) Confirm(ctx context.Context, p *models.DAOCreationParams) (bool, error) {
	decimals := p.TokenType.Decimals()
	bold := color.New(color.Bold)

	bold.Fprintln(w.out, "\nReview")
	fmt.Fprintf(w.out, "  Name:               %s\n", p.Name)
	if p.Category != "" {
		fmt.Fprintf(w.out, "  Category:           %s\n", p.Category)
	}
	fmt.Fprintf(w.out, "  Token:              %s (%s, %s)\n", p.TokenName, p.TokenSymbol, p.TokenType)
	fmt.Fprintf(w.out, "  Holders:            %d (total %s)\n", len(p.Holders), models.FormatUnits(p.TotalAllocation(), decimals))
	fmt.Fprintf(w.out, "  Voting delay:       %d\n", p.VotingDelay)
	fmt.Fprintf(w.out, "  Voting period:      %d\n", p.VotingPeriod)
	fmt.Fprintf(w.out, "  Proposal threshold: %s\n", models.FormatUnits(p.ProposalThreshold, decimals))
	fmt.Fprintf(w.out, "  Quorum:             %d%%\n", p.QuorumPercent)
	fmt.Fprintf(w.out, "  Timelock delay:     %ds\n", p.TimelockDelay)

	return w.confirm("Deploy this DAO")
}

var _ usecase.DAOWizard = (*WizardAdapter)(nil)
