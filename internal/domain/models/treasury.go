package models

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// TokenBalance is the treasury's balance of one ERC-20.
// DecimalsUnknown marks a token without decimals(); Decimals is then 18 for display only.
type TokenBalance struct {
	Token           common.Address `json:"token"`
	Symbol          string         `json:"symbol"`
	Decimals        uint8          `json:"decimals"`
	DecimalsUnknown bool           `json:"decimalsUnknown,omitempty"`
	Balance         *big.Int       `json:"balance"`
}

// TreasuryBalance is the data behind the treasury tab
type TreasuryBalance struct {
	Address common.Address  `json:"address"`
	Native  *big.Int        `json:"native"`
	Tokens  []*TokenBalance `json:"tokens"`
}
