package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/dao-cli/internal/domain"
	"github.com/trebuchet-org/dao-cli/internal/domain/models"
)

// ShowToken returns token metadata and, when a sender is configured, its voting power
type ShowToken struct {
	token  TokenClient
	wallet Wallet
}

// NewShowToken creates a new ShowToken use case
func NewShowToken(token TokenClient, wallet Wallet) *ShowToken {
	return &ShowToken{token: token, wallet: wallet}
}

// ShowTokenParams contains parameters for showing a token
type ShowTokenParams struct {
	// Account overrides the connected wallet
	Account string
	// CountHolders scans Transfer logs for the number of holders
	CountHolders bool
}

// Run executes the use case
func (uc *ShowToken) Run(ctx context.Context, dao *models.DAO, params ShowTokenParams) (*models.TokenOverview, error) {
	info, err := uc.token.Info(ctx, dao)
	if err != nil {
		return nil, fmt.Errorf("failed to read token: %w", err)
	}
	overview := &models.TokenOverview{Token: info}

	account, ok, err := uc.account(ctx, params.Account)
	if err != nil {
		return nil, err
	}
	if ok {
		vp, err := uc.token.VotingPower(ctx, dao, account)
		if err != nil {
			return nil, fmt.Errorf("failed to read voting power: %w", err)
		}
		overview.Account = vp
	}

	if params.CountHolders {
		holders, err := uc.token.Holders(ctx, dao)
		if err != nil {
			return nil, fmt.Errorf("failed to scan token holders: %w", err)
		}
		overview.Holders = len(holders)
	}

	return overview, nil
}

func (uc *ShowToken) account(ctx context.Context, override string) (common.Address, bool, error) {
	if override != "" {
		addr, err := parseAddress("account", override)
		return addr, err == nil, err
	}
	addr, err := uc.wallet.Account(ctx)
	if errors.Is(err, domain.ErrNoSigner) {
		return common.Address{}, false, nil
	}
	if err != nil {
		return common.Address{}, false, err
	}
	return addr, true, nil
}

// DelegateVotesResult contains the outcome of a delegation
type DelegateVotesResult struct {
	Delegatee common.Address
	Tx        *models.TxResult
	Before    *models.VotingPower
}

// DelegateVotes activates voting power by delegating to an address
type DelegateVotes struct {
	token    TokenClient
	wallet   Wallet
	progress ProgressSink
}

// NewDelegateVotes creates a new DelegateVotes use case
func NewDelegateVotes(token TokenClient, wallet Wallet, progress ProgressSink) *DelegateVotes {
	return &DelegateVotes{token: token, wallet: wallet, progress: progress}
}

// Run delegates to delegatee, or to the sender itself when delegatee is "self" or empty
func (uc *DelegateVotes) Run(ctx context.Context, dao *models.DAO, delegatee string) (*DelegateVotesResult, error) {
	account, err := uc.wallet.Account(ctx)
	if err != nil {
		return nil, err
	}

	target := account
	if delegatee != "" && delegatee != "self" {
		if target, err = parseAddress("delegatee", delegatee); err != nil {
			return nil, err
		}
	}

	before, err := uc.token.VotingPower(ctx, dao, account)
	if err != nil {
		return nil, fmt.Errorf("failed to read voting power: %w", err)
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   "delegate",
		Message: fmt.Sprintf("Delegating to %s", target.Hex()),
		Spinner: true,
	})
	tx, err := uc.token.Delegate(ctx, dao, target)
	if err != nil {
		return nil, fmt.Errorf("delegate failed: %w", err)
	}

	return &DelegateVotesResult{Delegatee: target, Tx: tx, Before: before}, nil
}
