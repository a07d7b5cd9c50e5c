package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/trebuchet-org/dao-cli/internal/domain/models"
)

// TreasuryRenderer renders the treasury tab
type TreasuryRenderer struct {
	out io.Writer
}

// NewTreasuryRenderer creates a new treasury renderer
func NewTreasuryRenderer(out io.Writer) *TreasuryRenderer {
	return &TreasuryRenderer{out: out}
}

// Render renders ETH and token balances
func (r *TreasuryRenderer) Render(b *models.TreasuryBalance) error {
	fmt.Fprintf(r.out, "%s %s\n\n", headerStyle.Sprint("Treasury"), Address(b.Address))

	t := newTable(r.out)
	t.AppendHeader(table.Row{"ASSET", "BALANCE", "TOKEN"})
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})
	t.AppendRow(table.Row{"ETH", amountStyle.Sprint(Amount(b.Native, 18)), mutedStyle.Sprint("native")})
	for _, tb := range b.Tokens {
		t.AppendRow(table.Row{tb.Symbol, amountStyle.Sprint(Amount(tb.Balance, tb.Decimals)), Address(tb.Token)})
	}
	t.Render()
	return nil
}

var _ Renderer[*models.TreasuryBalance] = (*TreasuryRenderer)(nil)
