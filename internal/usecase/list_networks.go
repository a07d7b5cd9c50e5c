package usecase

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"github.com/trebuchet-org/dao-cli/internal/domain/config"
	"github.com/trebuchet-org/dao-cli/internal/domain/models"
	"golang.org/x/sync/errgroup"
)

// lookupConcurrency bounds parallel chain id lookups
const lookupConcurrency = 4

// ListNetworksResult contains the result of listing networks
type ListNetworksResult struct {
	Networks []NetworkStatus
	Current  string
}

// NetworkStatus is one configured network as seen from this machine
type NetworkStatus struct {
	Name    string
	ChainID uint64
	RPCURL  string
	Factory string
	// DAOs counts registry bookmarks on this chain
	DAOs  int
	Error error
}

// ListNetworks queries every configured network for its chain id
type ListNetworks struct {
	cfg      *config.RuntimeConfig
	resolver NetworkResolver
	factory  FactoryClient
	registry DAORegistry
}

// NewListNetworks creates a new ListNetworks use case
func NewListNetworks(cfg *config.RuntimeConfig, resolver NetworkResolver, factory FactoryClient, registry DAORegistry) *ListNetworks {
	return &ListNetworks{
		cfg:      cfg,
		resolver: resolver,
		factory:  factory,
		registry: registry,
	}
}

// Run resolves all networks; a failing network is reported in its status, not as an error
func (uc *ListNetworks) Run(ctx context.Context) (*ListNetworksResult, error) {
	daos, err := uc.registry.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read DAO registry: %w", err)
	}
	perChain := lo.CountValuesBy(daos, func(d *models.DAO) uint64 { return d.ChainID })

	names := uc.resolver.Names()
	networks := make([]NetworkStatus, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(lookupConcurrency)
	for i, name := range names {
		g.Go(func() error {
			status := NetworkStatus{Name: name}
			info, err := uc.resolver.Resolve(gctx, name)
			if err != nil {
				status.Error = err
			} else {
				status.ChainID = info.ChainID
				status.RPCURL = info.RPCURL
				status.DAOs = perChain[info.ChainID]
				if addr, err := uc.factory.Address(info.ChainID); err == nil {
					status.Factory = addr.Hex()
				}
			}
			networks[i] = status
			return nil
		})
	}
	_ = g.Wait()

	result := &ListNetworksResult{Networks: networks}
	if uc.cfg.Network != nil {
		result.Current = uc.cfg.Network.Name
	}
	return result, nil
}
