package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/dao-cli/internal/domain/models"
)

func TestRootCommandTree(t *testing.T) {
	root := NewRootCmd()

	for _, path := range [][]string{
		{"create"},
		{"drafts", "discard"},
		{"list"},
		{"import"},
		{"remove"},
		{"show"},
		{"proposals"},
		{"proposal", "show"},
		{"proposal", "create"},
		{"proposal", "queue"},
		{"proposal", "execute"},
		{"proposal", "cancel"},
		{"vote"},
		{"delegate"},
		{"treasury", "deposit"},
		{"treasury", "propose-transfer"},
		{"members"},
		{"token"},
		{"settings"},
		{"watch"},
		{"serve"},
		{"networks"},
		{"config", "set"},
		{"config", "remove"},
		{"version"},
	} {
		cmd, rest, err := root.Find(path)
		require.NoError(t, err, path)
		assert.Empty(t, rest, path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}

	for _, name := range []string{"watch", "serve"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, "true", cmd.Annotations[longRunning], name)
	}
}

func TestBindGlobalFlags(t *testing.T) {
	root := NewRootCmd()
	require.NoError(t, root.ParseFlags([]string{"--network", "sepolia", "-d", "Acme", "--json", "--non-interactive"}))

	v := viper.New()
	bindGlobalFlags(v, root)

	assert.Equal(t, "sepolia", v.GetString("network"))
	assert.Equal(t, "Acme", v.GetString("dao"))
	assert.True(t, v.GetBool("json"))
	assert.True(t, v.GetBool("non_interactive"))
	assert.False(t, v.IsSet("sender"), "unchanged flags are not bound")
	assert.False(t, v.IsSet("debug"))
}

func TestVersionSkipsAppInit(t *testing.T) {
	root := NewRootCmd()
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetArgs([]string{"version"})

	require.NoError(t, root.Execute())
	assert.Equal(t, "dao version dev\n", out.String())
}

func TestLoadDAOParamsFile(t *testing.T) {
	alice := "0xA11CE00000000000000000000000000000000001"

	t.Run("erc20 amounts are in token units", func(t *testing.T) {
		path := writeFile(t, "acme.yaml", `
name: Acme
description: Builds rockets
token:
  type: erc20
  name: Acme Token
  symbol: ACME
holders:
  - address: `+alice+`
    amount: "1000.5"
governance:
  voting_delay: 1
  voting_period: 50400
  proposal_threshold: "10"
  quorum_percent: 4
timelock_delay: 3600
`)
		p, err := loadDAOParamsFile(path)
		require.NoError(t, err)
		assert.Equal(t, "Acme", p.Name)
		assert.Equal(t, models.TokenTypeERC20Votes, p.TokenType)
		require.Len(t, p.Holders, 1)
		assert.Equal(t, common.HexToAddress(alice), p.Holders[0].Address)
		assert.Equal(t, "1000500000000000000000", p.Holders[0].Amount.String())
		assert.Equal(t, "10000000000000000000", p.ProposalThreshold.String())
		assert.Equal(t, uint64(50400), p.VotingPeriod)
		assert.Equal(t, uint64(4), p.QuorumPercent)
		assert.Equal(t, uint64(3600), p.TimelockDelay)
	})

	t.Run("erc721 amounts are whole tokens", func(t *testing.T) {
		path := writeFile(t, "nft.yaml", `
name: Club
token: {type: erc721, name: Club, symbol: CLUB}
holders:
  - {address: `+alice+`, amount: "3"}
`)
		p, err := loadDAOParamsFile(path)
		require.NoError(t, err)
		assert.Equal(t, models.TokenTypeERC721Votes, p.TokenType)
		assert.Equal(t, "3", p.Holders[0].Amount.String())
		assert.Nil(t, p.ProposalThreshold)
	})

	t.Run("rejects fractional nft amounts", func(t *testing.T) {
		path := writeFile(t, "bad.yaml", `
token: {type: erc721}
holders:
  - {address: `+alice+`, amount: "1.5"}
`)
		_, err := loadDAOParamsFile(path)
		assert.ErrorContains(t, err, "holders[0]")
	})

	t.Run("rejects bad addresses", func(t *testing.T) {
		path := writeFile(t, "bad.yaml", `
holders:
  - {address: nope, amount: "1"}
`)
		_, err := loadDAOParamsFile(path)
		assert.ErrorContains(t, err, "invalid address")
	})
}

func TestLoadProposalFile(t *testing.T) {
	path := writeFile(t, "grants.yaml", `
description: |
  # Fund grants
  Ten ether to the grants multisig.
actions:
  - target: 0x00000000000000000000000000000000000000aa
    value: 10 ether
  - target: 0x00000000000000000000000000000000000000bb
    signature: transfer(address,uint256)
    args: ["0x00000000000000000000000000000000000000cc", "1000"]
`)
	pf, err := loadProposalFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Fund grants", models.TitleFromDescription(pf.Description))
	require.Len(t, pf.Actions, 2)
	assert.Equal(t, "10 ether", pf.Actions[0].Value)
	assert.Equal(t, "transfer(address,uint256)", pf.Actions[1].Signature)
	assert.Equal(t, []string{"0x00000000000000000000000000000000000000cc", "1000"}, pf.Actions[1].Args)
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
