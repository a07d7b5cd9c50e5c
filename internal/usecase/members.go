package usecase

import (
	"context"
	"fmt"
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/dao-cli/internal/domain/models"
	"golang.org/x/sync/errgroup"
)

// readConcurrency bounds parallel contract reads per use case
const readConcurrency = 8

// ListMembers lists the token holders of a DAO
type ListMembers struct {
	token TokenClient
}

// NewListMembers creates a new ListMembers use case
func NewListMembers(token TokenClient) *ListMembers {
	return &ListMembers{token: token}
}

// Run executes the use case
func (uc *ListMembers) Run(ctx context.Context, dao *models.DAO) (*models.MemberList, error) {
	info, err := uc.token.Info(ctx, dao)
	if err != nil {
		return nil, fmt.Errorf("failed to read token: %w", err)
	}

	holders, err := uc.token.Holders(ctx, dao)
	if err != nil {
		return nil, fmt.Errorf("failed to scan token holders: %w", err)
	}

	powers, err := uc.votingPowers(ctx, dao, holders)
	if err != nil {
		return nil, err
	}

	members := make([]*models.Member, 0, len(powers))
	for _, vp := range powers {
		if vp.Balance == nil || vp.Balance.Sign() == 0 {
			continue
		}
		members = append(members, &models.Member{
			VotingPower: *vp,
			Share:       share(vp.Balance, info.TotalSupply),
		})
	}

	sort.SliceStable(members, func(i, j int) bool {
		if c := members[i].Votes.Cmp(members[j].Votes); c != 0 {
			return c > 0
		}
		if c := members[i].Balance.Cmp(members[j].Balance); c != 0 {
			return c > 0
		}
		return members[i].Account.Hex() < members[j].Account.Hex()
	})

	return &models.MemberList{Token: info, Members: members}, nil
}

func (uc *ListMembers) votingPowers(ctx context.Context, dao *models.DAO, accounts []common.Address) ([]*models.VotingPower, error) {
	powers := make([]*models.VotingPower, len(accounts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(readConcurrency)
	for i, account := range accounts {
		g.Go(func() error {
			vp, err := uc.token.VotingPower(gctx, dao, account)
			if err != nil {
				return fmt.Errorf("failed to read voting power of %s: %w", account.Hex(), err)
			}
			if vp.Votes == nil {
				vp.Votes = new(big.Int)
			}
			powers[i] = vp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return powers, nil
}

// share returns part/total as a percentage with two decimals
func share(part, total *big.Int) float64 {
	if total == nil || total.Sign() == 0 || part == nil {
		return 0
	}
	bp := new(big.Int).Div(new(big.Int).Mul(part, big.NewInt(10000)), total)
	return float64(bp.Int64()) / 100
}
