package render

import (
	"fmt"
	"io"

	"github.com/trebuchet-org/dao-cli/internal/domain/models"
	"github.com/trebuchet-org/dao-cli/internal/usecase"
)

// TokenRenderer renders the token tab and delegation results
type TokenRenderer struct {
	out      io.Writer
	explorer string
}

// NewTokenRenderer creates a new token renderer
func NewTokenRenderer(out io.Writer, explorer string) *TokenRenderer {
	return &TokenRenderer{out: out, explorer: explorer}
}

// Render renders token metadata and the account's voting power
func (r *TokenRenderer) Render(o *models.TokenOverview) error {
	tok := o.Token
	fmt.Fprintf(r.out, "%s (%s)\n\n", headerStyle.Sprint(tok.Name), tok.Symbol)
	kv(r.out, "Address", Address(tok.Address))
	kv(r.out, "Standard", tok.Type)
	if tok.Type == models.TokenTypeERC20Votes {
		kv(r.out, "Decimals", tok.Decimals)
	}
	if tok.TotalSupply != nil {
		kv(r.out, "Total supply", Amount(tok.TotalSupply, tok.Decimals))
	}
	if o.Holders > 0 {
		kv(r.out, "Holders", Count(o.Holders))
	}

	if a := o.Account; a != nil {
		fmt.Fprintf(r.out, "\n%s %s\n", headerStyle.Sprint("Voting power of"), Address(a.Account))
		kv(r.out, "Balance", Amount(a.Balance, tok.Decimals))
		kv(r.out, "Votes", Amount(a.Votes, tok.Decimals))
		switch {
		case !a.IsDelegated():
			kv(r.out, "Delegate", FormatWarning("not delegated; run `dao delegate self` to activate your votes"))
		case a.SelfDelegated():
			kv(r.out, "Delegate", "self")
		default:
			kv(r.out, "Delegate", Address(a.Delegate))
		}
	}
	return nil
}

// RenderDelegate renders the result of `dao delegate`
func (r *TokenRenderer) RenderDelegate(result *usecase.DelegateVotesResult) error {
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Delegated votes to %s", result.Delegatee.Hex())))
	if result.Before != nil && result.Before.IsDelegated() {
		kv(r.out, "Previous delegate", Address(result.Before.Delegate))
	}
	renderTx(r.out, result.Tx, r.explorer)
	return nil
}

var _ Renderer[*models.TokenOverview] = (*TokenRenderer)(nil)
