//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/dao-cli/internal/adapters"
	"github.com/trebuchet-org/dao-cli/internal/config"
	"github.com/trebuchet-org/dao-cli/internal/logging"
	"github.com/trebuchet-org/dao-cli/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper) (*App, error) {
	wire.Build(
		// Configuration
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Registry and creation
		usecase.NewResolveDAO,
		usecase.NewImportDAO,
		usecase.NewListDAOs,
		usecase.NewRemoveDAO,
		usecase.NewShowDAO,
		usecase.NewCreateDAO,
		usecase.NewListDrafts,
		usecase.NewDiscardDraft,

		// Proposals and voting
		usecase.NewListProposals,
		usecase.NewShowProposal,
		usecase.NewCreateProposal,
		usecase.NewCastVote,
		usecase.NewQueueProposal,
		usecase.NewExecuteProposal,
		usecase.NewCancelProposal,
		usecase.NewBuildProposalTx,
		usecase.NewBuildVoteTx,

		// Dashboard tabs
		usecase.NewShowTreasury,
		usecase.NewDepositTreasury,
		usecase.NewProposeTreasuryTransfer,
		usecase.NewListMembers,
		usecase.NewShowToken,
		usecase.NewDelegateVotes,
		usecase.NewShowSettings,
		usecase.NewWatchEvents,

		// Session context
		usecase.NewListNetworks,
		usecase.NewShowConfig,
		usecase.NewSetConfig,
		usecase.NewRemoveConfig,

		// App
		wire.Struct(new(App), "*"),
	)
	return nil, nil
}
