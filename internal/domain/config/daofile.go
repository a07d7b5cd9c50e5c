package config

import "time"

// DAOFileConfig represents the full dao.toml configuration file
type DAOFileConfig struct {
	Networks  map[string]NetworkConfig   `toml:"networks"`
	Contracts map[string]ContractsConfig `toml:"contracts"` // keyed by chain id
	Senders   map[string]SenderConfig    `toml:"senders"`
	Server    ServerConfig               `toml:"server"`
}

// NetworkConfig represents a [networks.<name>] section in dao.toml
type NetworkConfig struct {
	RPCURL       string `toml:"rpc_url"`
	ChainID      uint64 `toml:"chain_id,omitempty"`
	ExplorerURL  string `toml:"explorer_url,omitempty"`
	MaxLogRange  uint64 `toml:"max_log_range,omitempty"`
	PollInterval string `toml:"poll_interval,omitempty"`
}

// ContractsConfig represents a [contracts.<chainId>] section in dao.toml
type ContractsConfig struct {
	Factory    string   `toml:"factory,omitempty"`
	StartBlock uint64   `toml:"start_block,omitempty"`
	Tokens     []string `toml:"tokens,omitempty"` // ERC-20s shown in the treasury tab
}

// SenderType identifies how a sender signs transactions
type SenderType string

const (
	SenderTypePrivateKey SenderType = "private_key"
	SenderTypeKeystore   SenderType = "keystore"
)

// SenderConfig represents a [senders.<name>] section in dao.toml
type SenderConfig struct {
	Type        SenderType `toml:"type"`
	PrivateKey  string     `toml:"private_key,omitempty"`
	Keystore    string     `toml:"keystore,omitempty"`
	Account     string     `toml:"account,omitempty"`
	PasswordEnv string     `toml:"password_env,omitempty"`
}

// ServerConfig represents the [server] section in dao.toml
type ServerConfig struct {
	Listen      string   `toml:"listen,omitempty"`
	CORSOrigins []string `toml:"cors_origins,omitempty"`
	RedisURL    string   `toml:"redis_url,omitempty"`
	CacheTTL    string   `toml:"cache_ttl,omitempty"`
}

// Defaults applied when dao.toml leaves a value unset
const (
	DefaultMaxLogRange  uint64 = 10_000
	DefaultPollInterval        = 4 * time.Second
	DefaultListen              = ":8080"
	DefaultCacheTTL            = 15 * time.Second
)

// CacheTTLDuration parses cache_ttl, falling back to DefaultCacheTTL
func (s ServerConfig) CacheTTLDuration() time.Duration {
	if s.CacheTTL == "" {
		return DefaultCacheTTL
	}
	d, err := time.ParseDuration(s.CacheTTL)
	if err != nil || d <= 0 {
		return DefaultCacheTTL
	}
	return d
}

// ListenAddr returns listen or DefaultListen
func (s ServerConfig) ListenAddr() string {
	if s.Listen == "" {
		return DefaultListen
	}
	return s.Listen
}
