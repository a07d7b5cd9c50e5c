package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound is returned when a requested resource doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned when trying to create a resource that already exists
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidAddress is returned when an Ethereum address is invalid
	ErrInvalidAddress = errors.New("invalid address")

	// ErrInvalidChainID is returned when a chain ID is invalid
	ErrInvalidChainID = errors.New("invalid chain ID")

	// ErrNetworkMismatch is returned when network configurations don't match
	ErrNetworkMismatch = errors.New("network mismatch")

	// ErrNoNetwork is returned when an operation needs a network and none is selected
	ErrNoNetwork = errors.New("no network selected")

	// ErrNoSigner is returned when a write is attempted without a configured sender
	ErrNoSigner = errors.New("no sender configured")

	// ErrTransactionReverted is returned when a mined transaction has a failed status
	ErrTransactionReverted = errors.New("transaction reverted")

	// ErrInvalidState is returned when a proposal is not in the state an action requires
	ErrInvalidState = errors.New("invalid proposal state")

	// ErrValidation is the root of all input validation failures
	ErrValidation = errors.New("validation failed")

	// ErrNoFactory is returned when no DAO factory is known for a chain
	ErrNoFactory = errors.New("no DAO factory configured")

	// ErrCancelled is returned when the user aborts an interactive flow
	ErrCancelled = errors.New("cancelled")
)

// ValidationError describes a single invalid input field
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e ValidationError) Unwrap() error {
	return ErrValidation
}

// ValidationErrors collects every failing field of a form step
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, v := range e {
		msgs[i] = v.Error()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func (e ValidationErrors) Unwrap() error {
	return ErrValidation
}

// InvalidStateErr is returned when a proposal action is attempted in the wrong lifecycle state
type InvalidStateErr struct {
	ProposalID string
	Action     string
	Have       string
	Want       []string
}

func (e InvalidStateErr) Error() string {
	return fmt.Sprintf("cannot %s proposal %s: state is %s (requires %s)",
		e.Action, shortID(e.ProposalID), e.Have, strings.Join(e.Want, " or "))
}

func (e InvalidStateErr) Unwrap() error {
	return ErrInvalidState
}

// DAONotFoundErr is returned when a DAO reference matches nothing in the registry
type DAONotFoundErr struct {
	Ref string
}

func (e DAONotFoundErr) Error() string {
	return fmt.Sprintf("no DAO matches %q (use a registered name or a governor address)", e.Ref)
}

func (e DAONotFoundErr) Unwrap() error {
	return ErrNotFound
}

// AmbiguousDAOErr is returned when a reference matches more than one registered DAO
type AmbiguousDAOErr struct {
	Ref     string
	Matches []string
}

func (e AmbiguousDAOErr) Error() string {
	return fmt.Sprintf("multiple DAOs match %q - use the governor address to disambiguate:\n  - %s",
		e.Ref, strings.Join(e.Matches, "\n  - "))
}

func shortID(id string) string {
	if len(id) <= 16 {
		return id
	}
	return id[:8] + "…" + id[len(id)-6:]
}
