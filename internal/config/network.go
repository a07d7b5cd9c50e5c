package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/trebuchet-org/dao-cli/internal/domain"
	"github.com/trebuchet-org/dao-cli/internal/domain/config"
)

// LocalNetworkName is available even without a dao.toml and points at a local dev node
const LocalNetworkName = "anvil"

var localNetwork = config.NetworkConfig{
	RPCURL:  "http://127.0.0.1:8545",
	ChainID: 31337,
}

// ChainIDFetcher asks an RPC endpoint for its chain id
type ChainIDFetcher func(ctx context.Context, rpcURL string) (uint64, error)

// NetworkResolver resolves network names to configurations with caching
type NetworkResolver struct {
	dataDir  string
	networks map[string]config.NetworkConfig
	fetch    ChainIDFetcher
	cache    *NetworkCache
	mu       sync.RWMutex
}

// NetworkCache caches chain ID lookups
type NetworkCache struct {
	Networks   map[string]uint64   `json:"networks"`   // name -> chainID
	RPCs       map[string]uint64   `json:"rpcs"`       // rpcURL -> chainID
	ChainNames map[uint64][]string `json:"chainNames"` // chainID -> names
	UpdatedAt  time.Time           `json:"updatedAt"`
}

// NewNetworkResolver creates a new network resolver
func NewNetworkResolver(dataDir string, daoFile *config.DAOFileConfig) *NetworkResolver {
	networks := map[string]config.NetworkConfig{LocalNetworkName: localNetwork}
	if daoFile != nil {
		for name, n := range daoFile.Networks {
			networks[name] = n
		}
	}

	r := &NetworkResolver{
		dataDir:  dataDir,
		networks: networks,
		fetch:    fetchChainID,
	}
	r.loadCache()

	return r
}

// WithFetcher replaces the chain id lookup, used by tests
func (r *NetworkResolver) WithFetcher(fetch ChainIDFetcher) *NetworkResolver {
	r.fetch = fetch
	return r
}

// Names returns the configured network names in sorted order
func (r *NetworkResolver) Names() []string {
	names := make([]string, 0, len(r.networks))
	for name := range r.networks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve resolves a network name to its configuration
func (r *NetworkResolver) Resolve(ctx context.Context, networkName string) (*config.Network, error) {
	nc, exists := r.networks[networkName]
	if !exists {
		return nil, fmt.Errorf("network '%s' not found in dao.toml [networks]: %w", networkName, domain.ErrNotFound)
	}

	chainID := nc.ChainID
	if chainID == 0 {
		r.mu.RLock()
		cached, ok := r.cache.Networks[networkName]
		r.mu.RUnlock()

		if ok {
			chainID = cached
		} else {
			fetched, err := r.chainIDFor(ctx, nc.RPCURL)
			if err != nil {
				return nil, fmt.Errorf("failed to fetch chain ID for network %s: %w", networkName, err)
			}
			chainID = fetched
			r.updateCache(networkName, nc.RPCURL, chainID)
		}
	}

	network := &config.Network{
		Name:         networkName,
		ChainID:      chainID,
		RPCURL:       nc.RPCURL,
		ExplorerURL:  nc.ExplorerURL,
		MaxLogRange:  nc.MaxLogRange,
		PollInterval: config.DefaultPollInterval,
	}
	if network.ExplorerURL == "" {
		network.ExplorerURL = defaultExplorerURL(chainID)
	}
	if network.MaxLogRange == 0 {
		network.MaxLogRange = config.DefaultMaxLogRange
	}
	if nc.PollInterval != "" {
		d, err := time.ParseDuration(nc.PollInterval)
		if err != nil {
			return nil, fmt.Errorf("network %s: invalid poll_interval %q: %w", networkName, nc.PollInterval, err)
		}
		network.PollInterval = d
	}

	return network, nil
}

// ResolveChainID returns the first configured network (in name order) serving chainID
func (r *NetworkResolver) ResolveChainID(ctx context.Context, chainID uint64) (*config.Network, error) {
	for _, name := range r.Names() {
		n, err := r.Resolve(ctx, name)
		if err != nil {
			continue
		}
		if n.ChainID == chainID {
			return n, nil
		}
	}
	return nil, fmt.Errorf("no network configured for chain %d: %w", chainID, domain.ErrInvalidChainID)
}

// chainIDFor fetches the chain ID from an RPC endpoint, consulting the RPC cache first
func (r *NetworkResolver) chainIDFor(ctx context.Context, rpcURL string) (uint64, error) {
	r.mu.RLock()
	if chainID, exists := r.cache.RPCs[rpcURL]; exists {
		r.mu.RUnlock()
		return chainID, nil
	}
	r.mu.RUnlock()

	return r.fetch(ctx, rpcURL)
}

func fetchChainID(ctx context.Context, rpcURL string) (uint64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return 0, fmt.Errorf("failed to connect to RPC: %w", err)
	}
	defer client.Close()

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get chain ID: %w", err)
	}
	return chainID.Uint64(), nil
}

// defaultExplorerURL returns a block explorer for well-known chains
func defaultExplorerURL(chainID uint64) string {
	switch chainID {
	case 1:
		return "https://etherscan.io"
	case 11155111:
		return "https://sepolia.etherscan.io"
	case 10:
		return "https://optimistic.etherscan.io"
	case 137:
		return "https://polygonscan.com"
	case 8453:
		return "https://basescan.org"
	case 84532:
		return "https://sepolia.basescan.org"
	case 42161:
		return "https://arbiscan.io"
	case 42220:
		return "https://celoscan.io"
	default:
		return ""
	}
}

func (r *NetworkResolver) cachePath() string {
	return filepath.Join(r.dataDir, "cache", "chainIds.json")
}

// loadCache loads the chain ID cache from disk
func (r *NetworkResolver) loadCache() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cache = newNetworkCache()

	data, err := os.ReadFile(r.cachePath())
	if err != nil {
		return
	}

	if err := json.Unmarshal(data, r.cache); err != nil {
		r.cache = newNetworkCache()
	}
}

func newNetworkCache() *NetworkCache {
	return &NetworkCache{
		Networks:   make(map[string]uint64),
		RPCs:       make(map[string]uint64),
		ChainNames: make(map[uint64][]string),
		UpdatedAt:  time.Now(),
	}
}

// updateCache updates the cache with new chain ID information
func (r *NetworkResolver) updateCache(networkName, rpcURL string, chainID uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cache.Networks[networkName] = chainID
	r.cache.RPCs[rpcURL] = chainID

	found := false
	for _, name := range r.cache.ChainNames[chainID] {
		if name == networkName {
			found = true
			break
		}
	}
	if !found {
		r.cache.ChainNames[chainID] = append(r.cache.ChainNames[chainID], networkName)
	}

	r.cache.UpdatedAt = time.Now()

	// Cache is only for performance
	_ = r.saveCache()
}

func (r *NetworkResolver) saveCache() error {
	if err := os.MkdirAll(filepath.Dir(r.cachePath()), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(r.cache, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(r.cachePath(), data, 0644)
}
