package bindings

import (
	"fmt"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/dao-cli/internal/domain/config"
)

// ContractAddresses are the per-chain deployments the client needs to know up front
type ContractAddresses struct {
	Factory    common.Address
	StartBlock uint64
	Tokens     []common.Address
}

// LocalFactory is the first contract deployed by the default anvil account
var LocalFactory = common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")

var builtinAddresses = map[uint64]ContractAddresses{
	31337: {Factory: LocalFactory},
}

// AddressBook resolves contract addresses per chain
type AddressBook struct {
	chains map[uint64]ContractAddresses
}

// NewAddressBook merges the built-in entries with dao.toml [contracts.<chainId>]
func NewAddressBook(contracts map[string]config.ContractsConfig) (*AddressBook, error) {
	chains := make(map[uint64]ContractAddresses, len(builtinAddresses)+len(contracts))
	for id, c := range builtinAddresses {
		chains[id] = c
	}

	for key, c := range contracts {
		chainID, err := strconv.ParseUint(key, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("contracts.%s: chain id must be numeric", key)
		}

		entry := chains[chainID]
		if c.Factory != "" {
			if !common.IsHexAddress(c.Factory) {
				return nil, fmt.Errorf("contracts.%s: invalid factory address %q", key, c.Factory)
			}
			entry.Factory = common.HexToAddress(c.Factory)
		}
		if c.StartBlock != 0 {
			entry.StartBlock = c.StartBlock
		}
		for _, token := range c.Tokens {
			if !common.IsHexAddress(token) {
				return nil, fmt.Errorf("contracts.%s: invalid token address %q", key, token)
			}
			entry.Tokens = append(entry.Tokens, common.HexToAddress(token))
		}
		chains[chainID] = entry
	}

	return &AddressBook{chains: chains}, nil
}

// Lookup returns the addresses known for a chain
func (b *AddressBook) Lookup(chainID uint64) (ContractAddresses, bool) {
	c, ok := b.chains[chainID]
	return c, ok
}

// Factory returns the factory for a chain, if any
func (b *AddressBook) Factory(chainID uint64) (common.Address, bool) {
	c, ok := b.chains[chainID]
	if !ok || c.Factory == (common.Address{}) {
		return common.Address{}, false
	}
	return c.Factory, true
}
