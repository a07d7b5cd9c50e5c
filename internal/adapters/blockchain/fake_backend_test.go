package blockchain

import (
	"context"
	"errors"
	"log/slog"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/event"
	"github.com/trebuchet-org/dao-cli/internal/adapters/abi/bindings"
	"github.com/trebuchet-org/dao-cli/internal/domain/config"
)

// fakeBackend answers contract calls from canned outputs keyed by method name.
// Methods it does not override panic through the nil embedded Backend.
type fakeBackend struct {
	Backend

	mu      sync.Mutex
	chainID uint64
	head    uint64
	abis    map[common.Address]*ethabi.ABI
	outputs map[common.Address]map[string][]interface{}
	logs    []types.Log
	queries []ethereum.FilterQuery

	// subscribed receives the sink of each log subscription; onSubscribe runs
	// before it is handed out
	subscribed  chan chan<- types.Log
	onSubscribe func()
}

func newFakeBackend(head uint64) *fakeBackend {
	return &fakeBackend{
		chainID: 31337,
		head:    head,
		abis:    make(map[common.Address]*ethabi.ABI),
		outputs: make(map[common.Address]map[string][]interface{}),
	}
}

// deploy registers a contract; calls to methods without outputs revert
func (f *fakeBackend) deploy(addr common.Address, md *bindings.MetaData) {
	f.abis[addr] = md.MustABI()
	f.outputs[addr] = make(map[string][]interface{})
}

func (f *fakeBackend) returns(addr common.Address, method string, outputs ...interface{}) {
	f.outputs[addr][method] = outputs
}

func (f *fakeBackend) CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error) {
	if _, ok := f.abis[account]; ok {
		return []byte{0x60, 0x80}, nil
	}
	return nil, nil
}

func (f *fakeBackend) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	parsed, ok := f.abis[*msg.To]
	if !ok {
		return nil, nil
	}
	method, err := parsed.MethodById(msg.Data[:4])
	if err != nil {
		return nil, err
	}
	outputs, ok := f.outputs[*msg.To][method.Name]
	if !ok {
		return nil, errors.New("execution reverted")
	}
	return method.Outputs.Pack(outputs...)
}

func (f *fakeBackend) BlockNumber(ctx context.Context) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.head, nil
}

// mine advances the head and records the logs of the new blocks atomically
func (f *fakeBackend) mine(head uint64, logs ...types.Log) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.head = head
	f.logs = append(f.logs, logs...)
}

func (f *fakeBackend) filterQueries() []ethereum.FilterQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ethereum.FilterQuery(nil), f.queries...)
}

func (f *fakeBackend) SubscribeFilterLogs(ctx context.Context, q ethereum.FilterQuery, ch chan<- types.Log) (ethereum.Subscription, error) {
	if f.onSubscribe != nil {
		f.onSubscribe()
	}
	if f.subscribed != nil {
		f.subscribed <- ch
	}
	return event.NewSubscription(func(quit <-chan struct{}) error {
		<-quit
		return nil
	}), nil
}

func (f *fakeBackend) ChainID(ctx context.Context) (*big.Int, error) {
	return new(big.Int).SetUint64(f.chainID), nil
}

func (f *fakeBackend) FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)

	var out []types.Log
	for _, lg := range f.logs {
		if q.FromBlock != nil && lg.BlockNumber < q.FromBlock.Uint64() {
			continue
		}
		if q.ToBlock != nil && lg.BlockNumber > q.ToBlock.Uint64() {
			continue
		}
		if len(q.Addresses) > 0 && !containsAddress(q.Addresses, lg.Address) {
			continue
		}
		if len(q.Topics) > 0 && len(q.Topics[0]) > 0 && !containsHash(q.Topics[0], lg.Topics[0]) {
			continue
		}
		out = append(out, lg)
	}
	return out, nil
}

func containsAddress(list []common.Address, a common.Address) bool {
	for _, x := range list {
		if x == a {
			return true
		}
	}
	return false
}

func containsHash(list []common.Hash, h common.Hash) bool {
	for _, x := range list {
		if x == h {
			return true
		}
	}
	return false
}

// eventLog packs the non-indexed fields of an event into a log
func eventLog(md *bindings.MetaData, name string, addr common.Address, block uint64, topics []common.Hash, fields ...interface{}) types.Log {
	event := md.MustABI().Events[name]
	data, err := event.Inputs.NonIndexed().Pack(fields...)
	if err != nil {
		panic(err)
	}
	return types.Log{
		Address:     addr,
		Topics:      append([]common.Hash{event.ID}, topics...),
		Data:        data,
		BlockNumber: block,
		TxHash:      common.BigToHash(new(big.Int).SetUint64(block)),
	}
}

func testPool(backend *fakeBackend, maxRange uint64) *ClientPool {
	network := &config.Network{Name: "anvil", ChainID: backend.chainID, MaxLogRange: maxRange}
	return NewClientPool(&config.RuntimeConfig{Network: network}, nil, testLogger()).WithBackend(network, backend)
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
