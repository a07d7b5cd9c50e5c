package usecase

import (
	"context"
	"fmt"

	"github.com/trebuchet-org/dao-cli/internal/domain/models"
	"golang.org/x/sync/errgroup"
)

// latestProposalCount is how many proposals the overview shows
const latestProposalCount = 5

// ShowDAO builds the overview of a DAO
type ShowDAO struct {
	governor GovernorClient
	treasury TreasuryClient
	members  *ListMembers
}

// NewShowDAO creates a new ShowDAO use case
func NewShowDAO(governor GovernorClient, treasury TreasuryClient, members *ListMembers) *ShowDAO {
	return &ShowDAO{
		governor: governor,
		treasury: treasury,
		members:  members,
	}
}

// Run executes the use case
func (uc *ShowDAO) Run(ctx context.Context, dao *models.DAO) (*models.DAOOverview, error) {
	overview := &models.DAOOverview{
		DAO:         dao,
		ProposalsBy: make(map[models.ProposalStatus]int),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		proposals, err := uc.governor.ListProposals(gctx, dao)
		if err != nil {
			return fmt.Errorf("failed to list proposals: %w", err)
		}
		overview.ProposalCount = len(proposals)
		overview.Status = models.StatusFor(proposals)
		for _, p := range proposals {
			overview.ProposalsBy[p.Status]++
		}
		sortNewestFirst(proposals)
		if len(proposals) > latestProposalCount {
			proposals = proposals[:latestProposalCount]
		}
		overview.LatestProposals = proposals
		return nil
	})
	g.Go(func() error {
		settings, err := uc.governor.Settings(gctx, dao)
		if err != nil {
			return fmt.Errorf("failed to read governor settings: %w", err)
		}
		overview.Settings = settings
		return nil
	})
	g.Go(func() error {
		members, err := uc.members.Run(gctx, dao)
		if err != nil {
			return err
		}
		overview.MemberCount = len(members.Members)
		overview.Token = members.Token
		return nil
	})
	if dao.Config.HasTreasury() {
		g.Go(func() error {
			balance, err := uc.treasury.Balance(gctx, dao, nil)
			if err != nil {
				return fmt.Errorf("failed to read treasury balance: %w", err)
			}
			overview.TreasuryBalance = balance.Native
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return overview, nil
}
