package models

import (
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// TokenType identifies the voting token standard a DAO was created with
type TokenType uint8

const (
	TokenTypeERC20Votes  TokenType = 0
	TokenTypeERC721Votes TokenType = 1
)

func (t TokenType) String() string {
	switch t {
	case TokenTypeERC20Votes:
		return "erc20"
	case TokenTypeERC721Votes:
		return "erc721"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(t))
	}
}

func (t TokenType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *TokenType) UnmarshalText(b []byte) error {
	parsed, err := ParseTokenType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Decimals is the unit amounts of this token type are denominated in
func (t TokenType) Decimals() uint8 {
	if t == TokenTypeERC721Votes {
		return 0
	}
	return 18
}

// ParseTokenType parses a user supplied token type
func ParseTokenType(s string) (TokenType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "erc20", "erc20votes", "token", "":
		return TokenTypeERC20Votes, nil
	case "erc721", "erc721votes", "nft":
		return TokenTypeERC721Votes, nil
	default:
		return 0, fmt.Errorf("unknown token type %q (valid: erc20, erc721)", s)
	}
}

// DAOConfig is the set of contracts a factory deployed for one DAO.
// Values are taken verbatim from the factory.
type DAOConfig struct {
	Governor  common.Address `json:"governor"`
	Timelock  common.Address `json:"timelock"`
	Treasury  common.Address `json:"treasury"`
	Token     common.Address `json:"token"`
	TokenType TokenType      `json:"tokenType"`
	CreatedAt time.Time      `json:"createdAt"`
}

// HasTimelock reports whether proposals go through a timelock before execution
func (c DAOConfig) HasTimelock() bool {
	return c.Timelock != (common.Address{})
}

// HasTreasury reports whether a treasury contract is known for the DAO
func (c DAOConfig) HasTreasury() bool {
	return c.Treasury != (common.Address{})
}

// DAO is a locally registered DAO. Name, description, category and tags are
// display-only metadata; the addresses are what the contracts reported.
type DAO struct {
	ChainID     uint64    `json:"chainId"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	Config      DAOConfig `json:"config"`
	FactoryID   *big.Int  `json:"factoryId,omitempty"`
	StartBlock  uint64    `json:"startBlock"`
	AddedAt     time.Time `json:"addedAt"`
}

// ID returns the identifier of a DAO, which is its chain and governor address
func (d *DAO) ID() string {
	return fmt.Sprintf("%d/%s", d.ChainID, d.Config.Governor.Hex())
}

// DisplayName returns the name or a shortened governor address when unnamed
func (d *DAO) DisplayName() string {
	if d.Name != "" {
		return d.Name
	}
	return ShortAddress(d.Config.Governor)
}

// DAOStatus is the tag shown next to a DAO in lists
type DAOStatus string

const (
	// DAOStatusNew means no proposal has been created yet
	DAOStatusNew DAOStatus = "new"
	// DAOStatusActive means at least one proposal is pending or open for voting
	DAOStatusActive DAOStatus = "active"
	// DAOStatusIdle means proposals exist but none is pending or active
	DAOStatusIdle DAOStatus = "idle"
)

// StatusFor derives the DAO tag from its proposals
func StatusFor(proposals []*Proposal) DAOStatus {
	if len(proposals) == 0 {
		return DAOStatusNew
	}
	for _, p := range proposals {
		if p.Status == ProposalStatusPending || p.Status == ProposalStatusActive {
			return DAOStatusActive
		}
	}
	return DAOStatusIdle
}

// DAOOverview is the data behind the overview tab
type DAOOverview struct {
	DAO             *DAO                   `json:"dao"`
	Status          DAOStatus              `json:"status"`
	MemberCount     int                    `json:"memberCount"`
	ProposalCount   int                    `json:"proposalCount"`
	ProposalsBy     map[ProposalStatus]int `json:"proposalsByStatus"`
	TreasuryBalance *big.Int               `json:"treasuryBalance,omitempty"`
	Token           *TokenInfo             `json:"token,omitempty"`
	Settings        *GovernorSettings      `json:"settings,omitempty"`
	LatestProposals []*Proposal            `json:"latestProposals"`
}

// ShortAddress renders 0x1234…abcd
func ShortAddress(addr common.Address) string {
	hex := addr.Hex()
	return hex[:6] + "…" + hex[len(hex)-4:]
}
