package usecase

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/dao-cli/internal/domain"
	"github.com/trebuchet-org/dao-cli/internal/domain/config"
)

// requireChain returns the chain id of the selected network
func requireChain(cfg *config.RuntimeConfig) (uint64, error) {
	if cfg.Network == nil {
		return 0, fmt.Errorf("%w: use --network or `dao config set network <name>`", domain.ErrNoNetwork)
	}
	return cfg.Network.ChainID, nil
}

// parseAddress validates a hex address
func parseAddress(field, value string) (common.Address, error) {
	value = strings.TrimSpace(value)
	if !common.IsHexAddress(value) {
		return common.Address{}, fmt.Errorf("%s %q: %w", field, value, domain.ErrInvalidAddress)
	}
	return common.HexToAddress(value), nil
}

// ParseProposalID accepts a decimal or 0x-prefixed hex proposal id
func ParseProposalID(value string) (*big.Int, error) {
	value = strings.TrimSpace(value)
	id, ok := new(big.Int).SetString(value, 0)
	if !ok || id.Sign() < 0 {
		return nil, domain.ValidationError{Field: "proposal id", Reason: fmt.Sprintf("%q is not a number", value)}
	}
	return id, nil
}
