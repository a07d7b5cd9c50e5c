package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"
	"github.com/trebuchet-org/dao-cli/internal/domain"
	"github.com/trebuchet-org/dao-cli/internal/domain/config"
)

// SetConfigParams contains parameters for setting configuration
type SetConfigParams struct {
	Key   string
	Value string
}

// SetConfigResult contains the result of setting configuration
type SetConfigResult struct {
	UpdatedConfig *config.LocalConfig
	ConfigPath    string
	Key           config.ConfigKey
	Value         string
	// Cleared lists keys reset because they no longer apply
	Cleared []config.ConfigKey
}

// SetConfig updates the session context after checking the value resolves
type SetConfig struct {
	cfg      *config.RuntimeConfig
	store    LocalConfigRepository
	resolver NetworkResolver
	registry DAORegistry
}

// NewSetConfig creates a new SetConfig use case
func NewSetConfig(cfg *config.RuntimeConfig, store LocalConfigRepository, resolver NetworkResolver, registry DAORegistry) *SetConfig {
	return &SetConfig{
		cfg:      cfg,
		store:    store,
		resolver: resolver,
		registry: registry,
	}
}

// Run executes the set config use case
func (uc *SetConfig) Run(ctx context.Context, params SetConfigParams) (*SetConfigResult, error) {
	key, err := parseSessionKey(params.Key)
	if err != nil {
		return nil, err
	}
	value := strings.TrimSpace(params.Value)
	if value == "" {
		return nil, domain.ValidationError{Field: string(key), Reason: "value is empty, use config remove instead"}
	}

	local, err := uc.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	result := &SetConfigResult{Key: key}

	switch key {
	case config.ConfigKeyNetwork:
		if _, err := uc.resolver.Resolve(ctx, value); err != nil {
			return nil, fmt.Errorf("cannot select network: %w", err)
		}
		// DAO references are chain bound
		if local.Network != value && local.DAO != "" {
			local.Set(config.ConfigKeyDAO, "")
			result.Cleared = append(result.Cleared, config.ConfigKeyDAO)
		}
	case config.ConfigKeyDAO:
		if value, err = uc.checkDAO(ctx, value); err != nil {
			return nil, err
		}
	case config.ConfigKeySender:
		if err := uc.checkSender(value); err != nil {
			return nil, err
		}
	}

	local.Set(key, value)
	if err := uc.store.Save(ctx, local); err != nil {
		return nil, fmt.Errorf("failed to save config: %w", err)
	}

	result.UpdatedConfig = local
	result.ConfigPath = uc.store.GetPath()
	result.Value = value
	return result, nil
}

// checkDAO accepts a governor address or the name of a registered DAO
func (uc *SetConfig) checkDAO(ctx context.Context, ref string) (string, error) {
	if common.IsHexAddress(ref) {
		return common.HexToAddress(ref).Hex(), nil
	}
	if strings.HasPrefix(ref, "0x") {
		return "", fmt.Errorf("%w: %s", domain.ErrInvalidAddress, ref)
	}

	matches, err := uc.registry.FindByName(ctx, ref)
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("%w: no registered DAO named %q (see dao list)", domain.ErrNotFound, ref)
	}
	return ref, nil
}

func (uc *SetConfig) checkSender(name string) error {
	var senders []string
	if uc.cfg.DAOFile != nil {
		senders = lo.Keys(uc.cfg.DAOFile.Senders)
	}
	if lo.Contains(senders, name) {
		return nil
	}
	return fmt.Errorf("%w: sender %q is not defined in dao.toml [senders]", domain.ErrNotFound, name)
}

// RemoveConfigParams contains parameters for removing configuration
type RemoveConfigParams struct {
	Key string
}

// RemoveConfigResult contains the result of removing configuration
type RemoveConfigResult struct {
	UpdatedConfig *config.LocalConfig
	ConfigPath    string
	Key           config.ConfigKey
	RemovedValue  string
	Cleared       []config.ConfigKey
}

// RemoveConfig clears a session context value
type RemoveConfig struct {
	store LocalConfigRepository
}

// NewRemoveConfig creates a new RemoveConfig use case
func NewRemoveConfig(store LocalConfigRepository) *RemoveConfig {
	return &RemoveConfig{store: store}
}

// Run executes the remove config use case
func (uc *RemoveConfig) Run(ctx context.Context, params RemoveConfigParams) (*RemoveConfigResult, error) {
	key, err := parseSessionKey(params.Key)
	if err != nil {
		return nil, err
	}
	if !uc.store.Exists() {
		return nil, fmt.Errorf("%w: no session context at %s", domain.ErrNotFound, uc.store.GetPath())
	}

	local, err := uc.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	result := &RemoveConfigResult{Key: key, RemovedValue: local.Get(key)}
	local.Set(key, "")
	if key == config.ConfigKeyNetwork && local.DAO != "" {
		local.Set(config.ConfigKeyDAO, "")
		result.Cleared = append(result.Cleared, config.ConfigKeyDAO)
	}

	if err := uc.store.Save(ctx, local); err != nil {
		return nil, fmt.Errorf("failed to save config: %w", err)
	}

	result.UpdatedConfig = local
	result.ConfigPath = uc.store.GetPath()
	return result, nil
}

func parseSessionKey(raw string) (config.ConfigKey, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if !config.IsValidConfigKey(key) {
		valid := lo.Map(config.ValidConfigKeys(), func(k config.ConfigKey, _ int) string { return string(k) })
		return "", domain.ValidationError{
			Field:  "key",
			Reason: fmt.Sprintf("unknown config key %q, expected one of %s", raw, strings.Join(valid, ", ")),
		}
	}
	return config.NormalizeConfigKey(key), nil
}
