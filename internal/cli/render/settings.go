package render

import (
	"fmt"
	"io"

	"github.com/trebuchet-org/dao-cli/internal/domain/models"
)

// SettingsRenderer renders the settings tab
type SettingsRenderer struct {
	out io.Writer
}

// NewSettingsRenderer creates a new settings renderer
func NewSettingsRenderer(out io.Writer) *SettingsRenderer {
	return &SettingsRenderer{out: out}
}

// Render renders governor and timelock parameters
func (r *SettingsRenderer) Render(s *models.DAOSettings) error {
	g := s.Governor
	decimals := TokenDecimals(s.DAO)
	unit := "blocks"
	if g.ClockMode == models.ClockModeTimestamp {
		unit = "seconds"
	}

	fmt.Fprintf(r.out, "%s\n", headerStyle.Sprint("Governor"))
	kv(r.out, "Name", g.Name)
	if g.Version != "" {
		kv(r.out, "Version", g.Version)
	}
	kv(r.out, "Clock", g.ClockMode)
	kv(r.out, "Voting delay", fmt.Sprintf("%s %s", Count(g.VotingDelay), unit))
	kv(r.out, "Voting period", fmt.Sprintf("%s %s", Count(g.VotingPeriod), unit))
	kv(r.out, "Proposal threshold", Amount(g.ProposalThreshold, decimals))
	kv(r.out, "Quorum", Percent(g.QuorumPercent()))
	kv(r.out, "Token", Address(g.Token))

	if t := s.Timelock; t != nil {
		fmt.Fprintf(r.out, "\n%s\n", headerStyle.Sprint("Timelock"))
		kv(r.out, "Address", Address(t.Address))
		kv(r.out, "Min delay", Duration(t.MinDelay))
		kv(r.out, "Governor proposer", Bool(t.GovernorIsProposer))
		kv(r.out, "Governor executor", Bool(t.GovernorIsExecutor || t.OpenExecutor))
		kv(r.out, "Governor canceller", Bool(t.GovernorIsCanceller))
		kv(r.out, "Open executor", Bool(t.OpenExecutor))
	} else {
		fmt.Fprintf(r.out, "\n%s\n", mutedStyle.Sprint("No timelock: proposals execute directly through the governor"))
	}
	return nil
}

var _ Renderer[*models.DAOSettings] = (*SettingsRenderer)(nil)
