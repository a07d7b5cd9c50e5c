package render

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/dao-cli/internal/domain/models"
	"github.com/trebuchet-org/dao-cli/internal/usecase"
)

// DAORenderer renders registry and overview output
type DAORenderer struct {
	out io.Writer
}

// NewDAORenderer creates a new DAO renderer
func NewDAORenderer(out io.Writer) *DAORenderer {
	return &DAORenderer{out: out}
}

// RenderList renders registered or factory DAOs as a table
func (r *DAORenderer) RenderList(result *usecase.ListDAOsResult) error {
	if len(result.DAOs) == 0 {
		if result.Source == "factory" {
			fmt.Fprintf(r.out, "No DAOs created by the factory on %s\n", result.Network)
		} else {
			fmt.Fprintln(r.out, "No DAOs registered. Create one with `dao create` or add one with `dao import <governor>`")
		}
		return nil
	}

	t := newTable(r.out)
	t.AppendHeader(table.Row{"NAME", "CHAIN", "GOVERNOR", "TOKEN", "CATEGORY", "TAGS"})
	for _, d := range result.DAOs {
		t.AppendRow(table.Row{
			headerStyle.Sprint(d.DisplayName()),
			d.ChainID,
			Address(d.Config.Governor),
			d.Config.TokenType,
			d.Category,
			strings.Join(d.Tags, ","),
		})
	}
	t.Render()

	if result.Source == "factory" && result.Total > uint64(len(result.DAOs)) {
		fmt.Fprintf(r.out, "\n%s\n", mutedStyle.Sprintf("showing %d of %s factory DAOs", len(result.DAOs), Count(result.Total)))
	}
	return nil
}

// RenderOverview renders the overview tab
func (r *DAORenderer) RenderOverview(o *models.DAOOverview) error {
	d := o.DAO
	fmt.Fprintf(r.out, "%s  %s\n", headerStyle.Sprint(d.DisplayName()), daoStatus(o.Status))
	if d.Description != "" {
		fmt.Fprintf(r.out, "%s\n", mutedStyle.Sprint(d.Description))
	}
	fmt.Fprintln(r.out)

	kv(r.out, "Chain", d.ChainID)
	kv(r.out, "Governor", Address(d.Config.Governor))
	kv(r.out, "Timelock", Address(d.Config.Timelock))
	kv(r.out, "Treasury", Address(d.Config.Treasury))
	kv(r.out, "Token", Address(d.Config.Token))
	if d.Category != "" {
		kv(r.out, "Category", d.Category)
	}
	if o.Token != nil {
		supply := "-"
		if o.Token.TotalSupply != nil {
			supply = Amount(o.Token.TotalSupply, o.Token.Decimals)
		}
		kv(r.out, "Voting token", fmt.Sprintf("%s (%s), supply %s", o.Token.Name, o.Token.Symbol, supply))
	}
	kv(r.out, "Members", Count(o.MemberCount))
	if o.TreasuryBalance != nil {
		kv(r.out, "Treasury balance", Amount(o.TreasuryBalance, 18)+" ETH")
	}
	if o.Settings != nil {
		kv(r.out, "Quorum", Percent(o.Settings.QuorumPercent()))
	}

	kv(r.out, "Proposals", Count(o.ProposalCount))
	if len(o.ProposalsBy) > 0 {
		statuses := make([]models.ProposalStatus, 0, len(o.ProposalsBy))
		for s := range o.ProposalsBy {
			statuses = append(statuses, s)
		}
		sort.Slice(statuses, func(i, j int) bool { return statuses[i] < statuses[j] })
		parts := make([]string, len(statuses))
		for i, s := range statuses {
			parts[i] = fmt.Sprintf("%s %d", Status(s), o.ProposalsBy[s])
		}
		kv(r.out, "", strings.Join(parts, "  "))
	}

	if len(o.LatestProposals) > 0 {
		fmt.Fprintf(r.out, "\n%s\n", headerStyle.Sprint("Latest proposals"))
		NewProposalsRenderer(r.out, d).table(o.LatestProposals)
	}
	return nil
}

// RenderImport renders the result of `dao import`
func (r *DAORenderer) RenderImport(result *usecase.ImportDAOResult) error {
	d := result.DAO
	switch {
	case result.AlreadyKnown:
		fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("%s is already registered", d.DisplayName())))
	default:
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Imported %s", d.DisplayName())))
	}
	kv(r.out, "Governor", Address(d.Config.Governor))
	kv(r.out, "Timelock", Address(d.Config.Timelock))
	kv(r.out, "Treasury", Address(d.Config.Treasury))
	kv(r.out, "Token", fmt.Sprintf("%s (%s)", Address(d.Config.Token), d.Config.TokenType))
	if result.FromFactory {
		kv(r.out, "Source", "factory record")
	}
	return nil
}

// RenderCreate renders the result of the creation wizard
func (r *DAORenderer) RenderCreate(result *usecase.CreateDAOResult, explorer string) error {
	if result.Cancelled {
		fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("Deployment cancelled; resume with `dao create --resume %s`", result.DraftID)))
		return nil
	}
	d := result.DAO
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Created %s", d.DisplayName())))
	if d.FactoryID != nil {
		kv(r.out, "Factory id", d.FactoryID)
	}
	kv(r.out, "Governor", Address(d.Config.Governor))
	kv(r.out, "Timelock", Address(d.Config.Timelock))
	kv(r.out, "Treasury", Address(d.Config.Treasury))
	kv(r.out, "Token", Address(d.Config.Token))
	renderTx(r.out, result.Tx, explorer)
	return nil
}

// RenderRemoved renders the result of `dao remove`
func (r *DAORenderer) RenderRemoved(d *models.DAO) error {
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Removed %s (%s) from the registry", d.DisplayName(), d.ID())))
	return nil
}

// RenderDrafts renders saved wizard drafts
func (r *DAORenderer) RenderDrafts(drafts []*models.WizardDraft) error {
	if len(drafts) == 0 {
		fmt.Fprintln(r.out, "No saved drafts")
		return nil
	}
	t := newTable(r.out)
	t.AppendHeader(table.Row{"ID", "NAME", "CHAIN", "STEP", "UPDATED"})
	for _, d := range drafts {
		name := d.Params.Name
		if name == "" {
			name = mutedStyle.Sprint("(unnamed)")
		}
		t.AppendRow(table.Row{d.ID, name, d.ChainID, d.Step, d.UpdatedAt.Local().Format("2006-01-02 15:04")})
	}
	t.Render()
	return nil
}

func daoStatus(s models.DAOStatus) string {
	switch s {
	case models.DAOStatusActive:
		return color.New(color.BgCyan, color.FgBlack).Sprintf(" %s ", strings.ToUpper(string(s)))
	case models.DAOStatusNew:
		return color.New(color.BgGreen, color.FgBlack).Sprintf(" %s ", strings.ToUpper(string(s)))
	default:
		return color.New(color.BgWhite, color.FgBlack).Sprintf(" %s ", strings.ToUpper(string(s)))
	}
}
