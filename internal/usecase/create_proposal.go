package usecase

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/trebuchet-org/dao-cli/internal/domain"
	"github.com/trebuchet-org/dao-cli/internal/domain/models"
)

// ProposalActionInput is a proposal action as a user writes it.
// Either Calldata or Signature (with Args) may be set, not both.
type ProposalActionInput struct {
	Target    string   `yaml:"target" json:"target"`
	Value     string   `yaml:"value,omitempty" json:"value,omitempty"`
	Calldata  string   `yaml:"calldata,omitempty" json:"calldata,omitempty"`
	Signature string   `yaml:"signature,omitempty" json:"signature,omitempty"`
	Args      []string `yaml:"args,omitempty" json:"args,omitempty"`
}

// ProposalFile is the YAML document accepted by `proposal create --file`
type ProposalFile struct {
	Description string                `yaml:"description"`
	Actions     []ProposalActionInput `yaml:"actions"`
}

// CreateProposalParams contains parameters for creating a proposal
type CreateProposalParams struct {
	// Actions are used as-is; Inputs are encoded and appended after them
	Actions     []models.ProposalAction
	Inputs      []ProposalActionInput
	Description string
	// SkipThresholdCheck sends the transaction even if the proposer lacks votes
	SkipThresholdCheck bool
}

// CreateProposalResult contains the submitted proposal
type CreateProposalResult struct {
	ProposalID  *big.Int
	Actions     []models.ProposalAction
	Description string
	Tx          *models.TxResult
}

// CreateProposal submits a governance proposal
type CreateProposal struct {
	governor GovernorClient
	encoder  CallEncoder
	wallet   Wallet
	progress ProgressSink
}

// NewCreateProposal creates a new CreateProposal use case
func NewCreateProposal(governor GovernorClient, encoder CallEncoder, wallet Wallet, progress ProgressSink) *CreateProposal {
	return &CreateProposal{governor: governor, encoder: encoder, wallet: wallet, progress: progress}
}

// Run executes the use case
func (uc *CreateProposal) Run(ctx context.Context, dao *models.DAO, params CreateProposalParams) (*CreateProposalResult, error) {
	actions, err := BuildActions(uc.encoder, params.Actions, params.Inputs)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(params.Description) == "" {
		return nil, domain.ValidationError{Field: "description", Reason: "is required"}
	}

	proposer, err := uc.wallet.Account(ctx)
	if err != nil {
		return nil, err
	}

	if !params.SkipThresholdCheck {
		if err := uc.checkThreshold(ctx, dao, proposer); err != nil {
			return nil, err
		}
	}

	id, err := uc.encoder.ProposalID(actions, params.Description)
	if err != nil {
		return nil, err
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   "propose",
		Message: fmt.Sprintf("Submitting proposal with %d action(s)", len(actions)),
		Spinner: true,
	})
	tx, err := uc.governor.Propose(ctx, dao, actions, params.Description)
	if err != nil {
		return nil, fmt.Errorf("propose failed: %w", err)
	}

	return &CreateProposalResult{
		ProposalID:  id,
		Actions:     actions,
		Description: params.Description,
		Tx:          tx,
	}, nil
}

// checkThreshold compares the proposer's votes one timepoint back with the proposal threshold
func (uc *CreateProposal) checkThreshold(ctx context.Context, dao *models.DAO, proposer common.Address) error {
	settings, err := uc.governor.Settings(ctx, dao)
	if err != nil {
		return fmt.Errorf("failed to read proposal threshold: %w", err)
	}
	if settings.ProposalThreshold == nil || settings.ProposalThreshold.Sign() == 0 {
		return nil
	}

	now, err := uc.governor.Clock(ctx, dao)
	if err != nil {
		return fmt.Errorf("failed to read clock: %w", err)
	}
	timepoint := now
	if timepoint > 0 {
		timepoint--
	}

	votes, err := uc.governor.GetVotes(ctx, dao, proposer, timepoint)
	if err != nil {
		return fmt.Errorf("failed to read proposer votes: %w", err)
	}
	if votes.Cmp(settings.ProposalThreshold) < 0 {
		return domain.ValidationError{
			Field: "proposer",
			Reason: fmt.Sprintf("%s has %s votes but the proposal threshold is %s (delegate to yourself first)",
				proposer.Hex(), votes, settings.ProposalThreshold),
		}
	}
	return nil
}

// BuildActions encodes inputs and appends them to actions
func BuildActions(encoder CallEncoder, actions []models.ProposalAction, inputs []ProposalActionInput) ([]models.ProposalAction, error) {
	out := make([]models.ProposalAction, 0, len(actions)+len(inputs))
	out = append(out, actions...)

	for i, in := range inputs {
		action, err := buildAction(encoder, in)
		if err != nil {
			return nil, fmt.Errorf("action %d: %w", i+1, err)
		}
		out = append(out, action)
	}

	if len(out) == 0 {
		return nil, domain.ValidationError{Field: "actions", Reason: "a proposal needs at least one action"}
	}
	for i := range out {
		if out[i].Value == nil {
			out[i].Value = new(big.Int)
		}
	}
	return out, nil
}

func buildAction(encoder CallEncoder, in ProposalActionInput) (models.ProposalAction, error) {
	target, err := parseAddress("target", in.Target)
	if err != nil {
		return models.ProposalAction{}, err
	}

	value, err := parseValue(in.Value)
	if err != nil {
		return models.ProposalAction{}, err
	}

	action := models.ProposalAction{Target: target, Value: value, Signature: in.Signature}
	switch {
	case in.Calldata != "" && in.Signature != "":
		return action, domain.ValidationError{Field: "calldata", Reason: "use either calldata or signature, not both"}
	case in.Calldata != "":
		data, err := hexutil.Decode(in.Calldata)
		if err != nil {
			return action, domain.ValidationError{Field: "calldata", Reason: err.Error()}
		}
		action.Calldata = data
	case in.Signature != "":
		data, err := encoder.EncodeSignature(in.Signature, in.Args)
		if err != nil {
			return action, err
		}
		action.Calldata = data
	default:
		if len(in.Args) > 0 {
			return action, domain.ValidationError{Field: "args", Reason: "args require a signature"}
		}
		action.Calldata = []byte{}
	}
	return action, nil
}

// parseValue accepts wei ("1000") or ether with a unit suffix ("1.5 eth", "0.1ether")
func parseValue(value string) (*big.Int, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return new(big.Int), nil
	}
	for _, unit := range []string{"ether", "eth"} {
		if strings.HasSuffix(value, unit) {
			wei, err := models.ParseUnits(strings.TrimSpace(strings.TrimSuffix(value, unit)), 18)
			if err != nil {
				return nil, domain.ValidationError{Field: "value", Reason: err.Error()}
			}
			return wei, nil
		}
	}
	wei, ok := new(big.Int).SetString(value, 10)
	if !ok || wei.Sign() < 0 {
		return nil, domain.ValidationError{Field: "value", Reason: fmt.Sprintf("%q is not a wei amount", value)}
	}
	return wei, nil
}

// ActionsFromArrays zips the governor's parallel arrays into actions
func ActionsFromArrays(targets []common.Address, values []*big.Int, calldatas [][]byte) ([]models.ProposalAction, error) {
	if len(targets) != len(values) || len(targets) != len(calldatas) {
		return nil, domain.ValidationError{
			Field:  "actions",
			Reason: fmt.Sprintf("targets, values and calldatas lengths differ (%d, %d, %d)", len(targets), len(values), len(calldatas)),
		}
	}
	actions := make([]models.ProposalAction, len(targets))
	for i := range targets {
		actions[i] = models.ProposalAction{Target: targets[i], Value: values[i], Calldata: calldatas[i]}
	}
	return actions, nil
}
