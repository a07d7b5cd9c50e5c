package abi

import (
	"fmt"
	"log/slog"
	"math/big"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/trebuchet-org/dao-cli/internal/adapters/abi/bindings"
	"github.com/trebuchet-org/dao-cli/internal/domain/models"
)

// LogDecoder decodes raw logs emitted by DAO contracts into DAOEvents
type LogDecoder struct {
	events map[common.Hash]ethabi.Event
	log    *slog.Logger
}

// NewLogDecoder indexes the events of every DAO contract ABI by topic
func NewLogDecoder(log *slog.Logger) *LogDecoder {
	events := make(map[common.Hash]ethabi.Event)
	for _, md := range bindings.All() {
		for _, event := range md.MustABI().Events {
			events[event.ID] = event
		}
	}
	return &LogDecoder{
		events: events,
		log:    log.With("component", "LogDecoder"),
	}
}

// Topics returns the event signatures the decoder understands, for log filters
func (d *LogDecoder) Topics() []common.Hash {
	topics := make([]common.Hash, 0, len(d.events))
	for id := range d.events {
		topics = append(topics, id)
	}
	return topics
}

// Decode turns a log into a DAOEvent. Unknown topics yield (nil, nil).
func (d *LogDecoder) Decode(lg types.Log) (*models.DAOEvent, error) {
	if len(lg.Topics) == 0 {
		return nil, nil
	}

	event, ok := d.events[lg.Topics[0]]
	if !ok {
		d.log.Debug("Skipping unknown log", "address", lg.Address, "topic", lg.Topics[0])
		return nil, nil
	}

	fields, err := DecodeFields(event, lg)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", event.Name, err)
	}

	ev := &models.DAOEvent{
		Kind:     models.EventKind(event.Name),
		Contract: lg.Address,
		Block:    lg.BlockNumber,
		TxHash:   lg.TxHash,
		LogIndex: lg.Index,
		Fields:   jsonFields(fields),
	}
	if event.Name == "VoteCastWithParams" {
		ev.Kind = models.EventVoteCast
	}

	ev.ProposalID = bigField(fields, "proposalId")
	switch ev.Kind {
	case models.EventVoteCast:
		ev.Account = addressField(fields, "voter")
		ev.Amount = bigField(fields, "weight")
	case models.EventProposalCreated:
		ev.Account = addressField(fields, "proposer")
	case models.EventETHReceived:
		ev.Account = addressField(fields, "from")
		ev.Amount = bigField(fields, "amount")
	case models.EventETHTransferred, models.EventTokenTransferred:
		ev.Account = addressField(fields, "to")
		ev.Amount = bigField(fields, "amount")
	case models.EventTransfer:
		ev.Account = addressField(fields, "to")
		ev.Amount = bigField(fields, "value")
	case models.EventDelegateChanged:
		ev.Account = addressField(fields, "delegator")
	case models.EventDelegateVotesChanged:
		ev.Account = addressField(fields, "delegate")
		ev.Amount = bigField(fields, "newVotes")
	case models.EventCallScheduled, models.EventCallExecuted:
		ev.Account = addressField(fields, "target")
		ev.Amount = bigField(fields, "value")
	case models.EventDAOCreated:
		ev.Account = addressField(fields, "creator")
	}

	return ev, nil
}

// DecodeFields decodes indexed and non-indexed arguments into one map keyed by argument name.
// ERC-721 Transfer logs carry the token id as a third topic; it is reported as
// "tokenId" with a value of one token.
func DecodeFields(event ethabi.Event, lg types.Log) (map[string]any, error) {
	fields := make(map[string]any)

	var indexed, nonIndexed ethabi.Arguments
	for _, input := range event.Inputs {
		if input.Indexed {
			indexed = append(indexed, input)
		} else {
			nonIndexed = append(nonIndexed, input)
		}
	}

	topics := lg.Topics[1:]
	if event.Name == "Transfer" && len(topics) == 3 && len(lg.Data) == 0 {
		fields["from"] = common.BytesToAddress(topics[0].Bytes())
		fields["to"] = common.BytesToAddress(topics[1].Bytes())
		fields["tokenId"] = new(big.Int).SetBytes(topics[2].Bytes())
		fields["value"] = big.NewInt(1)
		return fields, nil
	}

	if len(topics) != len(indexed) {
		return nil, fmt.Errorf("expected %d indexed topics, got %d", len(indexed), len(topics))
	}
	if len(indexed) > 0 {
		if err := ethabi.ParseTopicsIntoMap(fields, indexed, topics); err != nil {
			return nil, fmt.Errorf("failed to parse topics: %w", err)
		}
	}

	if len(nonIndexed) > 0 {
		if err := nonIndexed.UnpackIntoMap(fields, lg.Data); err != nil {
			return nil, fmt.Errorf("failed to unpack event data: %w", err)
		}
	}

	return fields, nil
}

// jsonFields copies fields replacing raw byte values with hex encodable types
func jsonFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		switch val := v.(type) {
		case [32]byte:
			out[k] = common.Hash(val)
		case []byte:
			out[k] = hexutil.Bytes(val)
		case [][]byte:
			hx := make([]hexutil.Bytes, len(val))
			for i, b := range val {
				hx[i] = b
			}
			out[k] = hx
		default:
			out[k] = v
		}
	}
	return out
}

func bigField(fields map[string]any, name string) *big.Int {
	if v, ok := fields[name].(*big.Int); ok {
		return v
	}
	return nil
}

func addressField(fields map[string]any, name string) common.Address {
	if v, ok := fields[name].(common.Address); ok {
		return v
	}
	return common.Address{}
}
