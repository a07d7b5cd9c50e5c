package blockchain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// blockRange is an inclusive range of block numbers
type blockRange struct {
	From uint64
	To   uint64
}

// chunkRange splits [from, to] into ranges of at most size blocks
func chunkRange(from, to, size uint64) []blockRange {
	if from > to {
		return nil
	}
	if size == 0 {
		return []blockRange{{From: from, To: to}}
	}

	var ranges []blockRange
	for start := from; start <= to; {
		end := start + size - 1
		if end > to || end < start {
			end = to
		}
		ranges = append(ranges, blockRange{From: start, To: end})
		if end == to {
			break
		}
		start = end + 1
	}
	return ranges
}

// scanLogs fetches logs in chunks so providers with a max block range accept the query
func (c *chain) scanLogs(ctx context.Context, chainID uint64, addresses []common.Address, topics [][]common.Hash, from uint64) ([]types.Log, error) {
	backend, err := c.pool.Client(ctx, chainID)
	if err != nil {
		return nil, err
	}
	network, err := c.pool.Network(ctx, chainID)
	if err != nil {
		return nil, err
	}

	head, err := backend.BlockNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get block number: %w", err)
	}

	var logs []types.Log
	for _, r := range chunkRange(from, head, network.MaxLogRange) {
		query := ethereum.FilterQuery{
			FromBlock: new(big.Int).SetUint64(r.From),
			ToBlock:   new(big.Int).SetUint64(r.To),
			Addresses: addresses,
			Topics:    topics,
		}
		chunk, err := backend.FilterLogs(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch logs %d-%d: %w", r.From, r.To, err)
		}
		for _, lg := range chunk {
			if !lg.Removed {
				logs = append(logs, lg)
			}
		}
	}

	c.log.Debug("Scanned logs", "chainId", chainID, "from", from, "to", head, "count", len(logs))
	return logs, nil
}
