package bindings

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// FactoryMetaData covers the DAO factory
var FactoryMetaData = MetaData{
	ID: "DAOFactory",
	ABI: `[
  {"type":"function","name":"createDAO","inputs":[{"name":"params","type":"tuple","components":[
    {"name":"name","type":"string"},
    {"name":"description","type":"string"},
    {"name":"tokenType","type":"uint8"},
    {"name":"tokenName","type":"string"},
    {"name":"tokenSymbol","type":"string"},
    {"name":"initialHolders","type":"address[]"},
    {"name":"initialBalances","type":"uint256[]"},
    {"name":"votingDelay","type":"uint48"},
    {"name":"votingPeriod","type":"uint32"},
    {"name":"proposalThreshold","type":"uint256"},
    {"name":"quorumNumerator","type":"uint256"},
    {"name":"timelockDelay","type":"uint256"}]}],
   "outputs":[{"name":"daoId","type":"uint256"}],"stateMutability":"nonpayable"},
  {"type":"function","name":"getDAO","inputs":[{"name":"daoId","type":"uint256"}],"outputs":[{"name":"","type":"tuple","components":[
    {"name":"governor","type":"address"},
    {"name":"timelock","type":"address"},
    {"name":"treasury","type":"address"},
    {"name":"token","type":"address"},
    {"name":"tokenType","type":"uint8"},
    {"name":"createdAt","type":"uint256"}]}],"stateMutability":"view"},
  {"type":"function","name":"getDAOCount","inputs":[],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"},
  {"type":"function","name":"getDAOsByCreator","inputs":[{"name":"creator","type":"address"}],"outputs":[{"name":"","type":"uint256[]"}],"stateMutability":"view"},
  {"type":"event","name":"DAOCreated","inputs":[{"name":"daoId","type":"uint256","indexed":true},{"name":"creator","type":"address","indexed":true},{"name":"governor","type":"address","indexed":false},{"name":"timelock","type":"address","indexed":false},{"name":"treasury","type":"address","indexed":false},{"name":"token","type":"address","indexed":false}],"anonymous":false}
]`,
}

// FactoryDAOParams mirrors the createDAO params tuple
type FactoryDAOParams struct {
	Name              string
	Description       string
	TokenType         uint8
	TokenName         string
	TokenSymbol       string
	InitialHolders    []common.Address
	InitialBalances   []*big.Int
	VotingDelay       *big.Int
	VotingPeriod      uint32
	ProposalThreshold *big.Int
	QuorumNumerator   *big.Int
	TimelockDelay     *big.Int
}

// FactoryDAOConfig mirrors the getDAO return tuple
type FactoryDAOConfig struct {
	Governor  common.Address
	Timelock  common.Address
	Treasury  common.Address
	Token     common.Address
	TokenType uint8
	CreatedAt *big.Int
}
