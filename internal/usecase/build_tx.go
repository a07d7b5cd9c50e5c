package usecase

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/trebuchet-org/dao-cli/internal/domain"
	"github.com/trebuchet-org/dao-cli/internal/domain/models"
)

// BuildProposalTxParams describes a proposal to be signed by an external wallet
type BuildProposalTxParams struct {
	Actions     []ProposalActionInput `json:"actions"`
	Description string                `json:"description"`
}

// BuildProposalTxResult is an unsigned propose transaction and the id it will create
type BuildProposalTxResult struct {
	Tx         *models.TxRequest `json:"tx"`
	ProposalID *big.Int          `json:"proposalId"`
}

// BuildProposalTx encodes a propose call without sending it
type BuildProposalTx struct {
	encoder CallEncoder
}

// NewBuildProposalTx creates a new BuildProposalTx use case
func NewBuildProposalTx(encoder CallEncoder) *BuildProposalTx {
	return &BuildProposalTx{encoder: encoder}
}

// Run executes the use case
func (uc *BuildProposalTx) Run(_ context.Context, dao *models.DAO, params BuildProposalTxParams) (*BuildProposalTxResult, error) {
	actions, err := BuildActions(uc.encoder, nil, params.Actions)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(params.Description) == "" {
		return nil, domain.ValidationError{Field: "description", Reason: "is required"}
	}

	data, err := uc.encoder.Propose(actions, params.Description)
	if err != nil {
		return nil, err
	}
	id, err := uc.encoder.ProposalID(actions, params.Description)
	if err != nil {
		return nil, err
	}

	return &BuildProposalTxResult{
		Tx: &models.TxRequest{
			ChainID: dao.ChainID,
			To:      dao.Config.Governor,
			Data:    data,
			Value:   new(big.Int),
		},
		ProposalID: id,
	}, nil
}

// BuildVoteTxParams describes a vote to be signed by an external wallet
type BuildVoteTxParams struct {
	ProposalID string `json:"proposalId"`
	Support    string `json:"support"`
	Reason     string `json:"reason,omitempty"`
}

// BuildVoteTx encodes a castVote call after checking the proposal is active
type BuildVoteTx struct {
	governor GovernorClient
	encoder  CallEncoder
}

// NewBuildVoteTx creates a new BuildVoteTx use case
func NewBuildVoteTx(governor GovernorClient, encoder CallEncoder) *BuildVoteTx {
	return &BuildVoteTx{governor: governor, encoder: encoder}
}

// Run executes the use case
func (uc *BuildVoteTx) Run(ctx context.Context, dao *models.DAO, params BuildVoteTxParams) (*models.TxRequest, error) {
	id, err := ParseProposalID(params.ProposalID)
	if err != nil {
		return nil, err
	}
	support, err := models.ParseVoteSupport(params.Support)
	if err != nil {
		return nil, domain.ValidationError{Field: "support", Reason: err.Error()}
	}

	proposal, err := uc.governor.GetProposal(ctx, dao, id)
	if err != nil {
		return nil, err
	}
	if err := requireStatus(proposal, "vote on", models.ProposalStatusActive); err != nil {
		return nil, err
	}

	data, err := uc.encoder.CastVote(id, support, params.Reason)
	if err != nil {
		return nil, fmt.Errorf("failed to encode vote: %w", err)
	}

	return &models.TxRequest{
		ChainID: dao.ChainID,
		To:      dao.Config.Governor,
		Data:    data,
		Value:   new(big.Int),
	}, nil
}
