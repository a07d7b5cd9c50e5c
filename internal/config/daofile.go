package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/trebuchet-org/dao-cli/internal/domain/config"
)

// DAOFileName is the project configuration file looked up from the working directory
const DAOFileName = "dao.toml"

// loadEnvFiles loads .env and .env.local from the project root without
// overriding variables already present in the environment
func loadEnvFiles(projectRoot string) {
	envFiles := []string{
		filepath.Join(projectRoot, ".env"),
		filepath.Join(projectRoot, ".env.local"),
	}

	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", envFile, err)
			}
		}
	}
}

// LoadDAOFile loads dao.toml from projectRoot.
// Returns (nil, nil) if the file does not exist.
func LoadDAOFile(projectRoot string) (*config.DAOFileConfig, error) {
	path := filepath.Join(projectRoot, DAOFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	loadEnvFiles(projectRoot)

	var cfg config.DAOFileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", DAOFileName, err)
	}

	expandDAOFile(&cfg)

	if err := validateDAOFile(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// expandDAOFile substitutes ${VAR} references in every string value that can
// carry a secret or an endpoint
func expandDAOFile(cfg *config.DAOFileConfig) {
	for name, n := range cfg.Networks {
		n.RPCURL = os.ExpandEnv(n.RPCURL)
		n.ExplorerURL = os.ExpandEnv(n.ExplorerURL)
		cfg.Networks[name] = n
	}
	for chain, c := range cfg.Contracts {
		c.Factory = os.ExpandEnv(c.Factory)
		for i, token := range c.Tokens {
			c.Tokens[i] = os.ExpandEnv(token)
		}
		cfg.Contracts[chain] = c
	}
	for name, s := range cfg.Senders {
		s.PrivateKey = os.ExpandEnv(s.PrivateKey)
		s.Keystore = os.ExpandEnv(s.Keystore)
		s.Account = os.ExpandEnv(s.Account)
		cfg.Senders[name] = s
	}
	cfg.Server.Listen = os.ExpandEnv(cfg.Server.Listen)
	cfg.Server.RedisURL = os.ExpandEnv(cfg.Server.RedisURL)
}

func validateDAOFile(cfg *config.DAOFileConfig) error {
	for name, n := range cfg.Networks {
		if strings.TrimSpace(n.RPCURL) == "" {
			return fmt.Errorf("network %q: rpc_url is required", name)
		}
	}
	for name, s := range cfg.Senders {
		switch s.Type {
		case config.SenderTypePrivateKey:
			if s.PrivateKey == "" {
				return fmt.Errorf("sender %q: private_key is required for type %s", name, s.Type)
			}
		case config.SenderTypeKeystore:
			if s.Keystore == "" {
				return fmt.Errorf("sender %q: keystore is required for type %s", name, s.Type)
			}
		default:
			return fmt.Errorf("sender %q: unknown type %q (valid: private_key, keystore)", name, s.Type)
		}
	}
	return nil
}
