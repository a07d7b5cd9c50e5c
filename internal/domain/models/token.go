package models

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// TokenInfo describes the DAO's voting token
type TokenInfo struct {
	Address     common.Address `json:"address"`
	Type        TokenType      `json:"type"`
	Name        string         `json:"name"`
	Symbol      string         `json:"symbol"`
	Decimals    uint8          `json:"decimals"`
	TotalSupply *big.Int       `json:"totalSupply"`
}

// VotingPower is an account's position in the voting token
type VotingPower struct {
	Account  common.Address `json:"account"`
	Balance  *big.Int       `json:"balance"`
	Votes    *big.Int       `json:"votes"`
	Delegate common.Address `json:"delegate"`
}

// IsDelegated reports whether the account has activated its voting power
func (v *VotingPower) IsDelegated() bool {
	return v.Delegate != (common.Address{})
}

// SelfDelegated reports whether the account delegates to itself
func (v *VotingPower) SelfDelegated() bool {
	return v.Delegate == v.Account
}

// TokenOverview is the data behind the token tab
type TokenOverview struct {
	Token   *TokenInfo   `json:"token"`
	Account *VotingPower `json:"account,omitempty"`
	Holders int          `json:"holders"`
}

// Member is a token holder of a DAO
type Member struct {
	VotingPower
	Share float64 `json:"share"`
}

// MemberList is the data behind the members tab
type MemberList struct {
	Token   *TokenInfo `json:"token"`
	Members []*Member  `json:"members"`
}
