package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/dao-cli/internal/usecase"
)

// NetworksRenderer renders network lists
type NetworksRenderer struct {
	out io.Writer
}

// NewNetworksRenderer creates a new networks renderer
func NewNetworksRenderer(out io.Writer) *NetworksRenderer {
	return &NetworksRenderer{out: out}
}

// Render prints one row per network; the current one is marked
func (r *NetworksRenderer) Render(result *usecase.ListNetworksResult) error {
	if len(result.Networks) == 0 {
		fmt.Fprintln(r.out, "No networks configured in dao.toml [networks]")
		return nil
	}

	t := newTable(r.out)
	t.AppendHeader(table.Row{"", "Network", "Chain ID", "Factory", "DAOs"})
	for _, n := range result.Networks {
		marker := ""
		if n.Name == result.Current {
			marker = okStyle.Sprint("▸")
		}
		if n.Error != nil {
			t.AppendRow(table.Row{marker, n.Name, badStyle.Sprint("unreachable"), mutedStyle.Sprint(n.Error.Error()), ""})
			continue
		}
		factory := mutedStyle.Sprint("none")
		if n.Factory != "" {
			factory = n.Factory
		}
		t.AppendRow(table.Row{marker, n.Name, n.ChainID, factory, Count(n.DAOs)})
	}
	t.Render()
	return nil
}

var _ Renderer[*usecase.ListNetworksResult] = (*NetworksRenderer)(nil)
