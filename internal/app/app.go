package app

import (
	"log/slog"

	"github.com/trebuchet-org/dao-cli/internal/adapters/progress"
	"github.com/trebuchet-org/dao-cli/internal/domain/config"
	"github.com/trebuchet-org/dao-cli/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig
	Logger *slog.Logger

	// Shared dependencies
	Progress progress.Sink
	Cache    usecase.ReadCache

	// Registry and creation
	ResolveDAO   *usecase.ResolveDAO
	ImportDAO    *usecase.ImportDAO
	ListDAOs     *usecase.ListDAOs
	RemoveDAO    *usecase.RemoveDAO
	ShowDAO      *usecase.ShowDAO
	CreateDAO    *usecase.CreateDAO
	ListDrafts   *usecase.ListDrafts
	DiscardDraft *usecase.DiscardDraft

	// Proposals and voting
	ListProposals   *usecase.ListProposals
	ShowProposal    *usecase.ShowProposal
	CreateProposal  *usecase.CreateProposal
	CastVote        *usecase.CastVote
	QueueProposal   *usecase.QueueProposal
	ExecuteProposal *usecase.ExecuteProposal
	CancelProposal  *usecase.CancelProposal
	BuildProposalTx *usecase.BuildProposalTx
	BuildVoteTx     *usecase.BuildVoteTx

	// Dashboard tabs
	ShowTreasury            *usecase.ShowTreasury
	DepositTreasury         *usecase.DepositTreasury
	ProposeTreasuryTransfer *usecase.ProposeTreasuryTransfer
	ListMembers             *usecase.ListMembers
	ShowToken               *usecase.ShowToken
	DelegateVotes           *usecase.DelegateVotes
	ShowSettings            *usecase.ShowSettings
	WatchEvents             *usecase.WatchEvents

	// Session context
	ListNetworks *usecase.ListNetworks
	ShowConfig   *usecase.ShowConfig
	SetConfig    *usecase.SetConfig
	RemoveConfig *usecase.RemoveConfig
}

// ExplorerURL returns the block explorer of the selected network, if any
func (a *App) ExplorerURL() string {
	if a.Config.Network == nil {
		return ""
	}
	return a.Config.Network.ExplorerURL
}
