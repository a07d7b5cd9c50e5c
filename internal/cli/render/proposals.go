package render

import (
	"fmt"
	"io"
	"math/big"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/trebuchet-org/dao-cli/internal/domain/models"
	"github.com/trebuchet-org/dao-cli/internal/usecase"
)

const maxTitleWidth = 48

// ProposalsRenderer renders proposal lists, details and lifecycle results
type ProposalsRenderer struct {
	out      io.Writer
	dao      *models.DAO
	decimals uint8
	explorer string
}

// NewProposalsRenderer creates a new proposals renderer for one DAO
func NewProposalsRenderer(out io.Writer, dao *models.DAO) *ProposalsRenderer {
	return &ProposalsRenderer{out: out, dao: dao, decimals: TokenDecimals(dao)}
}

// WithExplorer links transactions to a block explorer
func (r *ProposalsRenderer) WithExplorer(url string) *ProposalsRenderer {
	r.explorer = url
	return r
}

// RenderList renders the proposals tab
func (r *ProposalsRenderer) RenderList(result *usecase.ListProposalsResult) error {
	if len(result.Proposals) == 0 {
		fmt.Fprintf(r.out, "No proposals for %s\n", r.dao.DisplayName())
		return nil
	}
	r.table(result.Proposals)
	if result.Total > len(result.Proposals) {
		fmt.Fprintf(r.out, "\n%s\n", mutedStyle.Sprintf("showing %d of %d proposals", len(result.Proposals), result.Total))
	}
	return nil
}

func (r *ProposalsRenderer) table(proposals []*models.Proposal) {
	t := newTable(r.out)
	t.AppendHeader(table.Row{"ID", "TITLE", "STATUS", "FOR", "AGAINST", "ABSTAIN", "QUORUM"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
		{Number: 7, Align: text.AlignRight},
	})
	for _, p := range proposals {
		t.AppendRow(table.Row{
			shortID(p),
			truncate(p.Title, maxTitleWidth),
			Status(p.Status),
			Amount(p.Votes.For, r.decimals),
			Amount(p.Votes.Against, r.decimals),
			Amount(p.Votes.Abstain, r.decimals),
			quorum(p),
		})
	}
	t.Render()
}

// RenderDetail renders the proposal page
func (r *ProposalsRenderer) RenderDetail(d *models.ProposalDetail) error {
	p := d.Proposal
	fmt.Fprintf(r.out, "%s  %s\n", headerStyle.Sprint(p.Title), Status(p.Status))
	fmt.Fprintln(r.out)

	kv(r.out, "Proposal id", p.ID)
	kv(r.out, "Proposer", Address(p.Proposer))
	kv(r.out, "Snapshot", Count(p.Snapshot))
	kv(r.out, "Deadline", Count(p.Deadline))
	kv(r.out, "Now", Count(d.CurrentTimepoint))
	if p.ETA > 0 {
		kv(r.out, "ETA", time.Unix(int64(p.ETA), 0).Local().Format(time.RFC1123))
	}
	if d.TimelockOp != nil {
		state := string(d.TimelockOp.State)
		if d.TimelockOp.State == models.TimelockOpWaiting && !d.TimelockOp.ReadyAt.IsZero() {
			state += fmt.Sprintf(" (ready %s)", d.TimelockOp.ReadyAt.Local().Format(time.RFC1123))
		}
		kv(r.out, "Timelock", state)
	}
	if d.HasVoted != nil {
		kv(r.out, "You voted", Bool(*d.HasVoted))
	}

	fmt.Fprintf(r.out, "\n%s\n", headerStyle.Sprint("Votes"))
	for _, row := range []struct {
		label string
		style func(a ...any) string
		votes *big.Int
	}{
		{"For", okStyle.Sprint, p.Votes.For},
		{"Against", badStyle.Sprint, p.Votes.Against},
		{"Abstain", mutedStyle.Sprint, p.Votes.Abstain},
	} {
		pct := Percent(p.Votes.Percent(row.votes))
		kv(r.out, row.label, fmt.Sprintf("%s  %s", row.style(Amount(row.votes, r.decimals)), mutedStyle.Sprint(pct)))
	}
	kv(r.out, "Quorum", quorum(p))

	if len(p.Actions) > 0 {
		fmt.Fprintf(r.out, "\n%s\n", headerStyle.Sprint("Actions"))
		for i, a := range p.Actions {
			call := a.Signature
			if call == "" {
				call = truncate(a.Calldata.String(), 66)
			}
			fmt.Fprintf(r.out, "  %d. %s  %s", i+1, Address(a.Target), call)
			if a.Value != nil && a.Value.Sign() > 0 {
				fmt.Fprintf(r.out, "  value %s ETH", Amount(a.Value, 18))
			}
			fmt.Fprintln(r.out)
		}
	}

	if body := strings.TrimSpace(p.Description); body != "" {
		fmt.Fprintf(r.out, "\n%s\n%s\n", headerStyle.Sprint("Description"), body)
	}

	if len(d.VoteLog) > 0 {
		fmt.Fprintf(r.out, "\n%s\n", headerStyle.Sprint("Voters"))
		t := newTable(r.out)
		t.AppendHeader(table.Row{"VOTER", "SUPPORT", "WEIGHT", "REASON"})
		t.SetColumnConfigs([]table.ColumnConfig{{Number: 3, Align: text.AlignRight}})
		for _, v := range d.VoteLog {
			t.AppendRow(table.Row{Address(v.Voter), Title(v.Support.String()), Amount(v.Weight, r.decimals), truncate(v.Reason, 40)})
		}
		t.Render()
	}
	return nil
}

// RenderCreated renders the result of `dao proposal create`
func (r *ProposalsRenderer) RenderCreated(result *usecase.CreateProposalResult) error {
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Proposed %q", models.TitleFromDescription(result.Description))))
	kv(r.out, "Proposal id", result.ProposalID)
	kv(r.out, "Actions", len(result.Actions))
	renderTx(r.out, result.Tx, r.explorer)
	return nil
}

// RenderVote renders the result of `dao vote`
func (r *ProposalsRenderer) RenderVote(result *usecase.CastVoteResult) error {
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Voted %s on %q", result.Support, result.Proposal.Title)))
	if result.Weight != nil {
		kv(r.out, "Weight", Amount(result.Weight, r.decimals))
	}
	renderTx(r.out, result.Tx, r.explorer)
	return nil
}

// RenderLifecycle renders queue, execute and cancel results
func (r *ProposalsRenderer) RenderLifecycle(action string, results []*usecase.LifecycleResult) error {
	for _, res := range results {
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("%s %q", Title(action), res.Proposal.Title)))
		renderTx(r.out, res.Tx, r.explorer)
	}
	return nil
}

// RenderBuilt renders an unsigned proposal transaction
func (r *ProposalsRenderer) RenderBuilt(result *usecase.BuildProposalTxResult) error {
	kv(r.out, "Proposal id", result.ProposalID)
	return NewTxRenderer(r.out, r.explorer).RenderRequest(result.Tx)
}

func quorum(p *models.Proposal) string {
	if p.Quorum == nil || p.Quorum.Sign() == 0 {
		return mutedStyle.Sprint("-")
	}
	pct := Percent(p.QuorumProgress())
	if p.QuorumReached() {
		return okStyle.Sprint(pct)
	}
	return pct
}

func shortID(p *models.Proposal) string {
	id := p.ID.String()
	if len(id) > 12 {
		return id[:5] + "…" + id[len(id)-5:]
	}
	return id
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
