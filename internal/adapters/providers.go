package adapters

import (
	"github.com/google/wire"
	"github.com/trebuchet-org/dao-cli/internal/adapters/abi"
	"github.com/trebuchet-org/dao-cli/internal/adapters/abi/bindings"
	"github.com/trebuchet-org/dao-cli/internal/adapters/blockchain"
	"github.com/trebuchet-org/dao-cli/internal/adapters/cache"
	"github.com/trebuchet-org/dao-cli/internal/adapters/fs"
	"github.com/trebuchet-org/dao-cli/internal/adapters/interactive"
	"github.com/trebuchet-org/dao-cli/internal/adapters/progress"
	"github.com/trebuchet-org/dao-cli/internal/config"
	domainconfig "github.com/trebuchet-org/dao-cli/internal/domain/config"
	"github.com/trebuchet-org/dao-cli/internal/usecase"
)

// ProvideAddressBook builds the per-chain address map from dao.toml
func ProvideAddressBook(cfg *domainconfig.RuntimeConfig) (*bindings.AddressBook, error) {
	if cfg.DAOFile == nil {
		return bindings.NewAddressBook(nil)
	}
	return bindings.NewAddressBook(cfg.DAOFile.Contracts)
}

// FSSet provides filesystem-based implementations
var FSSet = wire.NewSet(
	fs.NewDAORegistryAdapter,
	wire.Bind(new(usecase.DAORegistry), new(*fs.DAORegistryAdapter)),

	fs.NewDraftStoreAdapter,
	wire.Bind(new(usecase.DraftStore), new(*fs.DraftStoreAdapter)),

	fs.NewLocalConfigStoreAdapter,
	wire.Bind(new(usecase.LocalConfigRepository), new(*fs.LocalConfigStoreAdapter)),
)

// CacheSet provides the read cache used by the API server
var CacheSet = wire.NewSet(
	cache.ProvideReadCache,
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewSelectorAdapter,
	wire.Bind(new(usecase.DAOSelector), new(*interactive.SelectorAdapter)),

	interactive.NewProposalSelectorAdapter,
	wire.Bind(new(usecase.ProposalSelector), new(*interactive.ProposalSelectorAdapter)),

	interactive.NewWizardAdapter,
	wire.Bind(new(usecase.DAOWizard), new(*interactive.WizardAdapter)),
)

// ProgressSet provides the progress sink
var ProgressSet = wire.NewSet(
	progress.ProvideProgressSink,
	wire.Bind(new(usecase.ProgressSink), new(progress.Sink)),
)

// ConfigSet provides configuration-based implementations
var ConfigSet = wire.NewSet(
	config.ProvideNetworkResolver,
	wire.Bind(new(usecase.NetworkResolver), new(*config.NetworkResolver)),
	wire.Bind(new(blockchain.ChainResolver), new(*config.NetworkResolver)),
)

// ABISet provides calldata encoding and log decoding
var ABISet = wire.NewSet(
	abi.NewCallEncoder,
	wire.Bind(new(usecase.CallEncoder), new(*abi.CallEncoder)),

	abi.NewLogDecoder,
	ProvideAddressBook,
)

// BlockchainSet provides go-ethereum backed contract clients
var BlockchainSet = wire.NewSet(
	blockchain.NewClientPool,
	blockchain.NewSigner,
	wire.Bind(new(usecase.Wallet), new(*blockchain.Signer)),

	blockchain.NewGovernorAdapter,
	wire.Bind(new(usecase.GovernorClient), new(*blockchain.GovernorAdapter)),

	blockchain.NewTimelockAdapter,
	wire.Bind(new(usecase.TimelockClient), new(*blockchain.TimelockAdapter)),

	blockchain.NewTreasuryAdapter,
	wire.Bind(new(usecase.TreasuryClient), new(*blockchain.TreasuryAdapter)),

	blockchain.NewTokenAdapter,
	wire.Bind(new(usecase.TokenClient), new(*blockchain.TokenAdapter)),

	blockchain.NewFactoryAdapter,
	wire.Bind(new(usecase.FactoryClient), new(*blockchain.FactoryAdapter)),

	blockchain.NewWatcherAdapter,
	wire.Bind(new(usecase.EventWatcher), new(*blockchain.WatcherAdapter)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	FSSet,
	CacheSet,
	InteractiveSet,
	ProgressSet,
	ConfigSet,
	ABISet,
	BlockchainSet,
)
