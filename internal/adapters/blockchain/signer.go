package blockchain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/trebuchet-org/dao-cli/internal/domain"
	"github.com/trebuchet-org/dao-cli/internal/domain/config"
	"github.com/trebuchet-org/dao-cli/internal/usecase"
)

// DefaultPasswordEnv holds the keystore password when a sender names no password_env
const DefaultPasswordEnv = "DAO_KEYSTORE_PASSWORD"

// Signer loads the configured sender key and signs transactions with it
type Signer struct {
	cfg *config.RuntimeConfig

	once sync.Once
	key  *ecdsa.PrivateKey
	err  error
}

// NewSigner creates a signer for the sender selected in the runtime config
func NewSigner(cfg *config.RuntimeConfig) *Signer {
	return &Signer{cfg: cfg}
}

// NewSignerFromKey creates a signer around an already loaded key
func NewSignerFromKey(key *ecdsa.PrivateKey) *Signer {
	s := &Signer{key: key}
	s.once.Do(func() {})
	return s
}

// Account returns the sender address
func (s *Signer) Account(ctx context.Context) (common.Address, error) {
	key, err := s.privateKey()
	if err != nil {
		return common.Address{}, err
	}
	return crypto.PubkeyToAddress(key.PublicKey), nil
}

// TransactOpts returns keyed transact options for chainID
func (s *Signer) TransactOpts(ctx context.Context, chainID uint64) (*bind.TransactOpts, error) {
	key, err := s.privateKey()
	if err != nil {
		return nil, err
	}
	opts, err := bind.NewKeyedTransactorWithChainID(key, new(big.Int).SetUint64(chainID))
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor: %w", err)
	}
	opts.Context = ctx
	return opts, nil
}

func (s *Signer) privateKey() (*ecdsa.PrivateKey, error) {
	s.once.Do(func() {
		s.key, s.err = s.load()
	})
	return s.key, s.err
}

func (s *Signer) load() (*ecdsa.PrivateKey, error) {
	name, sender, ok := s.cfg.SenderFor()
	if !ok {
		if name == "" {
			return nil, domain.ErrNoSigner
		}
		return nil, fmt.Errorf("sender %q not found in dao.toml [senders]: %w", name, domain.ErrNoSigner)
	}

	switch sender.Type {
	case config.SenderTypePrivateKey, "":
		if sender.PrivateKey == "" {
			return nil, fmt.Errorf("sender %q: private_key is required: %w", name, domain.ErrNoSigner)
		}
		key, err := ParsePrivateKey(sender.PrivateKey)
		if err != nil {
			return nil, fmt.Errorf("sender %q: %w", name, err)
		}
		return key, nil

	case config.SenderTypeKeystore:
		return s.loadKeystore(name, sender)

	default:
		return nil, fmt.Errorf("sender %q: unsupported type %q (valid: private_key, keystore)", name, sender.Type)
	}
}

func (s *Signer) loadKeystore(name string, sender *config.SenderConfig) (*ecdsa.PrivateKey, error) {
	if sender.Keystore == "" {
		return nil, fmt.Errorf("sender %q: keystore is required: %w", name, domain.ErrNoSigner)
	}

	path := sender.Keystore
	if !filepath.IsAbs(path) && s.cfg.ProjectRoot != "" {
		path = filepath.Join(s.cfg.ProjectRoot, path)
	}
	keyJSON, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sender %q: failed to read keystore: %w", name, err)
	}

	passwordEnv := sender.PasswordEnv
	if passwordEnv == "" {
		passwordEnv = DefaultPasswordEnv
	}
	password, ok := os.LookupEnv(passwordEnv)
	if !ok {
		return nil, fmt.Errorf("sender %q: keystore password not set (export %s)", name, passwordEnv)
	}

	key, err := keystore.DecryptKey(keyJSON, password)
	if err != nil {
		return nil, fmt.Errorf("sender %q: failed to decrypt keystore: %w", name, err)
	}

	if sender.Account != "" && common.IsHexAddress(sender.Account) &&
		common.HexToAddress(sender.Account) != key.Address {
		return nil, fmt.Errorf("sender %q: keystore holds %s, expected %s", name, key.Address.Hex(), sender.Account)
	}
	return key.PrivateKey, nil
}

// ParsePrivateKey parses a hex private key with or without 0x
func ParsePrivateKey(hexKey string) (*ecdsa.PrivateKey, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return key, nil
}

var _ usecase.Wallet = (*Signer)(nil)
