package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/trebuchet-org/dao-cli/internal/domain"
	"github.com/trebuchet-org/dao-cli/internal/domain/config"
	"github.com/trebuchet-org/dao-cli/internal/domain/models"
)

const maxSymbolLength = 11

// CreateDAOParams contains parameters for the creation wizard
type CreateDAOParams struct {
	// ResumeID continues a saved draft
	ResumeID string
	// Params pre-fills the wizard; in non-interactive mode they must be complete
	Params *models.DAOCreationParams
	// Yes skips the final confirmation
	Yes bool
}

// CreateDAOResult contains the outcome of the wizard
type CreateDAOResult struct {
	DAO     *models.DAO
	Tx      *models.TxResult
	DraftID string
	// Cancelled is set when the user declined at review; the draft is kept
	Cancelled bool
}

// CreateDAO runs the DAO creation wizard and deploys through the factory
type CreateDAO struct {
	cfg      *config.RuntimeConfig
	factory  FactoryClient
	registry DAORegistry
	drafts   DraftStore
	wizard   DAOWizard
	progress ProgressSink
}

// NewCreateDAO creates a new CreateDAO use case
func NewCreateDAO(
	cfg *config.RuntimeConfig,
	factory FactoryClient,
	registry DAORegistry,
	drafts DraftStore,
	wizard DAOWizard,
	progress ProgressSink,
) *CreateDAO {
	return &CreateDAO{
		cfg:      cfg,
		factory:  factory,
		registry: registry,
		drafts:   drafts,
		wizard:   wizard,
		progress: progress,
	}
}

// Run executes the use case
func (uc *CreateDAO) Run(ctx context.Context, params CreateDAOParams) (*CreateDAOResult, error) {
	chainID, err := requireChain(uc.cfg)
	if err != nil {
		return nil, err
	}
	if _, err := uc.factory.Address(chainID); err != nil {
		return nil, err
	}

	draft, err := uc.loadDraft(ctx, chainID, params)
	if err != nil {
		return nil, err
	}
	result := &CreateDAOResult{DraftID: draft.ID}

	for draft.Step != models.StepReview {
		if err := uc.runStep(ctx, draft); err != nil {
			return result, err
		}
	}

	if errs := ValidateCreation(&draft.Params); len(errs) > 0 {
		return result, errs
	}

	if !params.Yes && !uc.cfg.NonInteractive {
		ok, err := uc.wizard.Confirm(ctx, &draft.Params)
		if err != nil {
			return result, err
		}
		if !ok {
			result.Cancelled = true
			return result, nil
		}
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   "create",
		Message: fmt.Sprintf("Deploying %s through the factory", draft.Params.Name),
		Spinner: true,
	})
	created, err := uc.factory.CreateDAO(ctx, chainID, &draft.Params)
	if err != nil {
		return result, fmt.Errorf("createDAO failed (draft %s kept, resume with --resume): %w", draft.ID, err)
	}

	dao := &models.DAO{
		ChainID:     chainID,
		Name:        draft.Params.Name,
		Description: draft.Params.Description,
		Category:    draft.Params.Category,
		Config:      created.Config,
		FactoryID:   created.ID,
		StartBlock:  created.Block,
		AddedAt:     time.Now().UTC(),
	}
	result.DAO = dao
	result.Tx = created.Tx

	if err := uc.registry.Save(ctx, dao); err != nil {
		return result, fmt.Errorf("DAO deployed but could not be registered: %w", err)
	}
	if err := uc.drafts.Delete(ctx, draft.ID); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return result, fmt.Errorf("failed to delete draft: %w", err)
	}
	return result, nil
}

// runStep prompts for the current step until it validates, then advances and saves
func (uc *CreateDAO) runStep(ctx context.Context, draft *models.WizardDraft) error {
	for {
		if !uc.cfg.NonInteractive {
			if err := uc.wizard.PromptStep(ctx, draft.Step, &draft.Params); err != nil {
				if errors.Is(err, domain.ErrCancelled) {
					_ = uc.saveDraft(ctx, draft)
				}
				return err
			}
		}

		errs := ValidateStep(draft.Step, &draft.Params)
		if len(errs) == 0 {
			break
		}
		if uc.cfg.NonInteractive {
			return fmt.Errorf("%s step: %w", draft.Step, errs)
		}
		for _, e := range errs {
			uc.progress.Error(e.Error())
		}
	}

	draft.Step = draft.Step.Next()
	return uc.saveDraft(ctx, draft)
}

func (uc *CreateDAO) saveDraft(ctx context.Context, draft *models.WizardDraft) error {
	draft.UpdatedAt = time.Now().UTC()
	if err := uc.drafts.Save(ctx, draft); err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return nil
}

func (uc *CreateDAO) loadDraft(ctx context.Context, chainID uint64, params CreateDAOParams) (*models.WizardDraft, error) {
	if params.ResumeID != "" {
		draft, err := uc.drafts.Get(ctx, params.ResumeID)
		if err != nil {
			return nil, fmt.Errorf("draft %s: %w", params.ResumeID, err)
		}
		if draft.ChainID != chainID {
			return nil, fmt.Errorf("draft %s targets chain %d but network %s is chain %d: %w",
				draft.ID, draft.ChainID, uc.cfg.Network.Name, chainID, domain.ErrNetworkMismatch)
		}
		return draft, nil
	}

	now := time.Now().UTC()
	draft := &models.WizardDraft{
		ID:        uuid.NewString(),
		ChainID:   chainID,
		Step:      models.StepBasics,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if params.Params != nil {
		draft.Params = *params.Params
	}
	return draft, nil
}

// ValidateStep checks the fields a wizard step collects
func ValidateStep(step models.WizardStep, p *models.DAOCreationParams) domain.ValidationErrors {
	var errs domain.ValidationErrors
	add := func(field, reason string) {
		errs = append(errs, domain.ValidationError{Field: field, Reason: reason})
	}

	switch step {
	case models.StepBasics:
		if strings.TrimSpace(p.Name) == "" {
			add("name", "is required")
		}

	case models.StepToken:
		if p.TokenType != models.TokenTypeERC20Votes && p.TokenType != models.TokenTypeERC721Votes {
			add("token type", "must be erc20 or erc721")
		}
		if strings.TrimSpace(p.TokenName) == "" {
			add("token name", "is required")
		}
		if n := utf8.RuneCountInString(strings.TrimSpace(p.TokenSymbol)); n < 1 || n > maxSymbolLength {
			add("token symbol", fmt.Sprintf("must be 1 to %d characters", maxSymbolLength))
		}

	case models.StepDistribution:
		if len(p.Holders) == 0 {
			add("holders", "at least one initial holder is required")
		}
		seen := make(map[common.Address]bool, len(p.Holders))
		for i, h := range p.Holders {
			field := fmt.Sprintf("holders[%d]", i)
			if h.Address == (common.Address{}) {
				add(field, "address must not be zero")
			} else if seen[h.Address] {
				add(field, fmt.Sprintf("%s is listed twice", h.Address.Hex()))
			}
			seen[h.Address] = true
			if h.Amount == nil || h.Amount.Sign() <= 0 {
				add(field, "amount must be positive")
			}
		}

	case models.StepGovernance:
		if p.VotingPeriod == 0 {
			add("voting period", "must be greater than zero")
		}
		if p.VotingPeriod > math.MaxUint32 {
			add("voting period", "must fit in 32 bits")
		}
		if p.QuorumPercent < 1 || p.QuorumPercent > 100 {
			add("quorum", "must be between 1 and 100 percent")
		}
		if p.ProposalThreshold != nil {
			if p.ProposalThreshold.Sign() < 0 {
				add("proposal threshold", "must not be negative")
			} else if total := p.TotalAllocation(); total.Sign() > 0 && p.ProposalThreshold.Cmp(total) > 0 {
				add("proposal threshold", "exceeds the initial supply, nobody could propose")
			}
		}

	case models.StepTimelock:
		// any delay including zero is accepted
	}

	return errs
}

// ValidateCreation checks every step
func ValidateCreation(p *models.DAOCreationParams) domain.ValidationErrors {
	var errs domain.ValidationErrors
	for _, step := range models.WizardSteps {
		errs = append(errs, ValidateStep(step, p)...)
	}
	return errs
}
