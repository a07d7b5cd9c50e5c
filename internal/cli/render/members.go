package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/trebuchet-org/dao-cli/internal/domain/models"
)

// MembersRenderer renders the members tab
type MembersRenderer struct {
	out io.Writer
}

// NewMembersRenderer creates a new members renderer
func NewMembersRenderer(out io.Writer) *MembersRenderer {
	return &MembersRenderer{out: out}
}

// Render renders token holders with their voting power
func (r *MembersRenderer) Render(list *models.MemberList) error {
	if len(list.Members) == 0 {
		fmt.Fprintln(r.out, "No token holders found")
		return nil
	}

	decimals := uint8(0)
	symbol := ""
	if list.Token != nil {
		decimals = list.Token.Decimals
		symbol = list.Token.Symbol
	}

	t := newTable(r.out)
	t.AppendHeader(table.Row{"MEMBER", "BALANCE", "VOTES", "SHARE", "DELEGATE"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})
	for _, m := range list.Members {
		delegate := Address(m.Delegate)
		if m.SelfDelegated() {
			delegate = mutedStyle.Sprint("self")
		}
		t.AppendRow(table.Row{
			Address(m.Account),
			Amount(m.Balance, decimals),
			Amount(m.Votes, decimals),
			Percent(m.Share),
			delegate,
		})
	}
	t.Render()
	fmt.Fprintf(r.out, "\n%s\n", mutedStyle.Sprintf("%d members holding %s", len(list.Members), symbol))
	return nil
}

var _ Renderer[*models.MemberList] = (*MembersRenderer)(nil)
