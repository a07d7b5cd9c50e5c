package blockchain

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/trebuchet-org/dao-cli/internal/adapters/abi"
	"github.com/trebuchet-org/dao-cli/internal/domain/config"
	"github.com/trebuchet-org/dao-cli/internal/domain/models"
	"github.com/trebuchet-org/dao-cli/internal/usecase"
)

// WatcherAdapter streams decoded logs of a DAO's contracts
type WatcherAdapter struct {
	chain
	decoder *abi.LogDecoder
}

// NewWatcherAdapter creates a new event watcher
func NewWatcherAdapter(pool *ClientPool, decoder *abi.LogDecoder, log *slog.Logger) *WatcherAdapter {
	return &WatcherAdapter{
		chain:   chain{pool: pool, log: log.With("component", "WatcherAdapter")},
		decoder: decoder,
	}
}

// Watch subscribes on websocket endpoints and polls otherwise
func (w *WatcherAdapter) Watch(ctx context.Context, dao *models.DAO, fromBlock uint64, out chan<- *models.DAOEvent) error {
	network, err := w.pool.Network(ctx, dao.ChainID)
	if err != nil {
		return err
	}
	backend, err := w.pool.Client(ctx, dao.ChainID)
	if err != nil {
		return err
	}

	addresses := daoAddresses(dao)
	topics := [][]common.Hash{w.decoder.Topics()}

	head, err := backend.BlockNumber(ctx)
	if err != nil {
		return fmt.Errorf("failed to get block number: %w", err)
	}

	cursor := head + 1
	if fromBlock > 0 && fromBlock <= head {
		logs, err := w.scanLogs(ctx, dao.ChainID, addresses, topics, fromBlock)
		if err != nil {
			return err
		}
		for _, lg := range logs {
			if lg.BlockNumber > head {
				continue
			}
			if err := w.emit(ctx, lg, out); err != nil {
				return err
			}
		}
	}

	if network.IsWebsocket() {
		return w.subscribe(ctx, backend, network.MaxLogRange, addresses, topics, cursor, out)
	}
	return w.poll(ctx, backend, network.PollInterval, network.MaxLogRange, addresses, topics, cursor, out)
}

// subscribe streams logs from a subscription. Blocks mined between the head
// read and the subscription are fetched once after subscribing; streamed logs
// at or below that catch-up head were already emitted and are skipped.
func (w *WatcherAdapter) subscribe(ctx context.Context, backend Backend, maxRange uint64, addresses []common.Address, topics [][]common.Hash, from uint64, out chan<- *models.DAOEvent) error {
	logs := make(chan types.Log, 64)
	sub, err := backend.SubscribeFilterLogs(ctx, ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(from),
		Addresses: addresses,
		Topics:    topics,
	}, logs)
	if err != nil {
		return fmt.Errorf("failed to subscribe to logs: %w", err)
	}
	defer sub.Unsubscribe()

	head, err := backend.BlockNumber(ctx)
	if err != nil {
		return fmt.Errorf("failed to get block number: %w", err)
	}
	caughtUp := from - 1
	if head >= from {
		if err := w.fetchRange(ctx, backend, from, head, maxRange, addresses, topics, out); err != nil {
			return err
		}
		caughtUp = head
	}

	w.log.Debug("Subscribed to logs", "from", from, "caughtUp", caughtUp, "contracts", len(addresses))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-sub.Err():
			return fmt.Errorf("log subscription failed: %w", err)
		case lg := <-logs:
			if lg.BlockNumber <= caughtUp {
				continue
			}
			if err := w.emit(ctx, lg, out); err != nil {
				return err
			}
		}
	}
}

func (w *WatcherAdapter) poll(ctx context.Context, backend Backend, interval time.Duration, maxRange uint64, addresses []common.Address, topics [][]common.Hash, cursor uint64, out chan<- *models.DAOEvent) error {
	if interval <= 0 {
		interval = config.DefaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	w.log.Debug("Polling logs", "from", cursor, "interval", interval)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		head, err := backend.BlockNumber(ctx)
		if err != nil {
			return fmt.Errorf("failed to get block number: %w", err)
		}
		if head < cursor {
			continue
		}

		if err := w.fetchRange(ctx, backend, cursor, head, maxRange, addresses, topics, out); err != nil {
			return err
		}
		cursor = head + 1
	}
}

// fetchRange emits the logs of [from, to] in chunks of at most maxRange blocks
func (w *WatcherAdapter) fetchRange(ctx context.Context, backend Backend, from, to, maxRange uint64, addresses []common.Address, topics [][]common.Hash, out chan<- *models.DAOEvent) error {
	for _, r := range chunkRange(from, to, maxRange) {
		logs, err := backend.FilterLogs(ctx, ethereum.FilterQuery{
			FromBlock: new(big.Int).SetUint64(r.From),
			ToBlock:   new(big.Int).SetUint64(r.To),
			Addresses: addresses,
			Topics:    topics,
		})
		if err != nil {
			return fmt.Errorf("failed to fetch logs %d-%d: %w", r.From, r.To, err)
		}
		for _, lg := range logs {
			if err := w.emit(ctx, lg, out); err != nil {
				return err
			}
		}
	}
	return nil
}

// emit decodes a log and blocks until it is delivered or ctx ends
func (w *WatcherAdapter) emit(ctx context.Context, lg types.Log, out chan<- *models.DAOEvent) error {
	if lg.Removed {
		return nil
	}
	ev, err := w.decoder.Decode(lg)
	if err != nil {
		w.log.Warn("Failed to decode log", "tx", lg.TxHash, "error", err)
		return nil
	}
	if ev == nil {
		return nil
	}
	select {
	case out <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// daoAddresses lists the non-zero contract addresses of a DAO
func daoAddresses(dao *models.DAO) []common.Address {
	var addrs []common.Address
	for _, a := range []common.Address{dao.Config.Governor, dao.Config.Timelock, dao.Config.Treasury, dao.Config.Token} {
		if a != (common.Address{}) {
			addrs = append(addrs, a)
		}
	}
	return addrs
}

var _ usecase.EventWatcher = (*WatcherAdapter)(nil)
