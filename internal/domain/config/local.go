package config

// LocalConfig represents the session context kept in .dao/config.local.json
type LocalConfig struct {
	Network string `json:"network"`
	DAO     string `json:"dao,omitempty"`
	Sender  string `json:"sender,omitempty"`
}

// ConfigKey represents a configuration key
type ConfigKey string

const (
	ConfigKeyNetwork ConfigKey = "network"
	ConfigKeyDAO     ConfigKey = "dao"
	ConfigKeySender  ConfigKey = "sender"
)

// DefaultLocalConfig returns the default local configuration
func DefaultLocalConfig() *LocalConfig {
	return &LocalConfig{}
}

// ValidConfigKeys returns all valid configuration keys
func ValidConfigKeys() []ConfigKey {
	return []ConfigKey{
		ConfigKeyNetwork,
		ConfigKeyDAO,
		ConfigKeySender,
	}
}

// IsValidConfigKey checks if a key is valid
func IsValidConfigKey(key string) bool {
	for _, validKey := range ValidConfigKeys() {
		if string(validKey) == key || (key == "net" && validKey == ConfigKeyNetwork) {
			return true
		}
	}
	return false
}

// NormalizeConfigKey normalizes a config key (e.g., "net" -> "network")
func NormalizeConfigKey(key string) ConfigKey {
	if key == "net" {
		return ConfigKeyNetwork
	}
	return ConfigKey(key)
}

// Get returns the value stored under key
func (c *LocalConfig) Get(key ConfigKey) string {
	switch key {
	case ConfigKeyNetwork:
		return c.Network
	case ConfigKeyDAO:
		return c.DAO
	case ConfigKeySender:
		return c.Sender
	}
	return ""
}

// Set stores value under key
func (c *LocalConfig) Set(key ConfigKey, value string) {
	switch key {
	case ConfigKeyNetwork:
		c.Network = value
	case ConfigKeyDAO:
		c.DAO = value
	case ConfigKeySender:
		c.Sender = value
	}
}
