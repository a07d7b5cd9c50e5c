package render

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/trebuchet-org/dao-cli/internal/domain/models"
)

// EventRenderer prints decoded contract events as they arrive
type EventRenderer struct {
	out io.Writer
}

// NewEventRenderer creates a new event renderer
func NewEventRenderer(out io.Writer) *EventRenderer {
	return &EventRenderer{out: out}
}

// Render prints one event per line
func (r *EventRenderer) Render(ev *models.DAOEvent) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", mutedStyle.Sprintf("#%-9d", ev.Block), eventStyle(ev.Kind).Sprintf("%-22s", ev.Kind))
	if ev.ProposalID != nil {
		fmt.Fprintf(&b, " proposal=%s", ev.ProposalID)
	}
	if ev.Account != (common.Address{}) {
		fmt.Fprintf(&b, " account=%s", ev.Account.Hex())
	}
	if ev.Amount != nil {
		fmt.Fprintf(&b, " amount=%s", ev.Amount)
	}

	keys := make([]string, 0, len(ev.Fields))
	for k := range ev.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, ev.Fields[k])
	}

	fmt.Fprintf(&b, " %s", mutedStyle.Sprint(ev.TxHash.Hex()))
	fmt.Fprintln(r.out, b.String())
	return nil
}

func eventStyle(kind models.EventKind) *color.Color {
	switch kind {
	case models.EventProposalCreated, models.EventDAOCreated:
		return color.New(color.FgCyan, color.Bold)
	case models.EventVoteCast:
		return color.New(color.FgYellow)
	case models.EventProposalExecuted, models.EventCallExecuted:
		return color.New(color.FgGreen)
	case models.EventProposalCanceled, models.EventTimelockCancelled:
		return color.New(color.FgRed)
	default:
		return color.New(color.FgWhite)
	}
}

var _ Renderer[*models.DAOEvent] = (*EventRenderer)(nil)
