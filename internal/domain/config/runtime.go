package config

import (
	"time"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot string
	DataDir     string

	// Context settings
	Network *Network // nil if not specified
	DAO     string   // registry name or governor address, empty if not specified
	Sender  string   // sender name from dao.toml

	// Execution settings
	Debug          bool
	NonInteractive bool
	JSON           bool // Output in JSON format
	Timeout        time.Duration

	// Resolved configurations
	ConfigSource string // path of dao.toml, empty when running on defaults
	DAOFile      *DAOFileConfig
}

// Network represents network configuration
type Network struct {
	Name         string        `json:"name"`
	ChainID      uint64        `json:"chainId"`
	RPCURL       string        `json:"rpcUrl"`
	ExplorerURL  string        `json:"explorerUrl,omitempty"`
	MaxLogRange  uint64        `json:"maxLogRange"`
	PollInterval time.Duration `json:"pollInterval"`
}

// IsWebsocket reports whether the RPC endpoint supports subscriptions
func (n *Network) IsWebsocket() bool {
	return len(n.RPCURL) > 5 && (n.RPCURL[:5] == "ws://" || (len(n.RPCURL) > 6 && n.RPCURL[:6] == "wss://"))
}

// SenderFor returns the configured sender, falling back to "default"
func (c *RuntimeConfig) SenderFor() (string, *SenderConfig, bool) {
	if c.DAOFile == nil {
		return "", nil, false
	}
	name := c.Sender
	if name == "" {
		name = "default"
	}
	sender, ok := c.DAOFile.Senders[name]
	if !ok {
		return name, nil, false
	}
	return name, &sender, true
}
