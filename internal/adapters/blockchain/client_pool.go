package blockchain

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/trebuchet-org/dao-cli/internal/domain"
	"github.com/trebuchet-org/dao-cli/internal/domain/config"
)

// Backend is the subset of ethclient.Client the contract clients use
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	BlockNumber(ctx context.Context) (uint64, error)
	ChainID(ctx context.Context) (*big.Int, error)
}

// ChainResolver maps a chain id to a configured network
type ChainResolver interface {
	ResolveChainID(ctx context.Context, chainID uint64) (*config.Network, error)
}

// Dialer opens a backend for an RPC URL
type Dialer func(ctx context.Context, rpcURL string) (Backend, error)

// ClientPool keeps one connection per chain
type ClientPool struct {
	cfg      *config.RuntimeConfig
	resolver ChainResolver
	dial     Dialer
	log      *slog.Logger

	mu       sync.Mutex
	clients  map[uint64]Backend
	networks map[uint64]*config.Network
}

// NewClientPool creates a pool that dials lazily
func NewClientPool(cfg *config.RuntimeConfig, resolver ChainResolver, log *slog.Logger) *ClientPool {
	return &ClientPool{
		cfg:      cfg,
		resolver: resolver,
		dial:     dialEthclient,
		log:      log.With("component", "ClientPool"),
		clients:  make(map[uint64]Backend),
		networks: make(map[uint64]*config.Network),
	}
}

// WithBackend registers a ready backend for a chain, used by tests and simulated chains
func (p *ClientPool) WithBackend(network *config.Network, backend Backend) *ClientPool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clients[network.ChainID] = backend
	p.networks[network.ChainID] = network
	return p
}

// Network returns the network serving chainID. The selected network wins
// when it matches; otherwise dao.toml is searched.
func (p *ClientPool) Network(ctx context.Context, chainID uint64) (*config.Network, error) {
	p.mu.Lock()
	n, ok := p.networks[chainID]
	p.mu.Unlock()
	if ok {
		return n, nil
	}

	if p.cfg.Network != nil && p.cfg.Network.ChainID == chainID {
		n = p.cfg.Network
	} else {
		if p.resolver == nil {
			return nil, fmt.Errorf("chain %d: %w", chainID, domain.ErrNoNetwork)
		}
		resolved, err := p.resolver.ResolveChainID(ctx, chainID)
		if err != nil {
			return nil, err
		}
		n = resolved
	}

	p.mu.Lock()
	p.networks[chainID] = n
	p.mu.Unlock()
	return n, nil
}

// Client returns a connected backend for chainID
func (p *ClientPool) Client(ctx context.Context, chainID uint64) (Backend, error) {
	p.mu.Lock()
	client, ok := p.clients[chainID]
	p.mu.Unlock()
	if ok {
		return client, nil
	}

	network, err := p.Network(ctx, chainID)
	if err != nil {
		return nil, err
	}

	client, err = p.dial(ctx, network.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", network.Name, err)
	}

	// Verify chain ID matches
	remote, err := client.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}
	if remote.Uint64() != chainID {
		return nil, fmt.Errorf("chain ID mismatch on %s: expected %d, got %d: %w",
			network.Name, chainID, remote.Uint64(), domain.ErrNetworkMismatch)
	}

	p.log.Debug("Connected", "network", network.Name, "chainId", chainID)

	p.mu.Lock()
	defer p.mu.Unlock()
	if existing, ok := p.clients[chainID]; ok {
		if c, isEth := client.(*ethclient.Client); isEth {
			c.Close()
		}
		return existing, nil
	}
	p.clients[chainID] = client
	return client, nil
}

// Close closes every dialed connection
func (p *ClientPool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for id, client := range p.clients {
		if c, ok := client.(*ethclient.Client); ok {
			c.Close()
		}
		delete(p.clients, id)
	}
}

func dialEthclient(ctx context.Context, rpcURL string) (Backend, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, err
	}
	return client, nil
}
