package models

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// TxResult is the outcome of a mined transaction
type TxResult struct {
	Hash        common.Hash    `json:"hash"`
	From        common.Address `json:"from"`
	To          common.Address `json:"to"`
	BlockNumber uint64         `json:"blockNumber"`
	GasUsed     uint64         `json:"gasUsed"`
	Success     bool           `json:"success"`
}

// TxRequest is an unsigned transaction a wallet can sign and send
type TxRequest struct {
	ChainID uint64         `json:"chainId"`
	To      common.Address `json:"to"`
	Data    hexutil.Bytes  `json:"data"`
	Value   *big.Int       `json:"value"`
}
