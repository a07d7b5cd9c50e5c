package usecase

import (
	"context"
	"fmt"

	"github.com/trebuchet-org/dao-cli/internal/domain/models"
)

// WatchEventsParams contains parameters for streaming events
type WatchEventsParams struct {
	// FromBlock replays history from this block; zero starts at the head
	FromBlock uint64
	// Kinds keeps only these event kinds; empty keeps all
	Kinds []models.EventKind
}

// WatchEvents streams decoded contract events of a DAO
type WatchEvents struct {
	watcher EventWatcher
}

// NewWatchEvents creates a new WatchEvents use case
func NewWatchEvents(watcher EventWatcher) *WatchEvents {
	return &WatchEvents{watcher: watcher}
}

// Run calls handle for each event until ctx is cancelled, the watcher fails or handle returns an error
func (uc *WatchEvents) Run(ctx context.Context, dao *models.DAO, params WatchEventsParams, handle func(*models.DAOEvent) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	keep := make(map[models.EventKind]bool, len(params.Kinds))
	for _, k := range params.Kinds {
		keep[k] = true
	}

	events := make(chan *models.DAOEvent, 64)
	done := make(chan error, 1)
	go func() {
		done <- uc.watcher.Watch(ctx, dao, params.FromBlock, events)
	}()

	for {
		select {
		case err := <-done:
			if err != nil && ctx.Err() == nil {
				return fmt.Errorf("event watcher stopped: %w", err)
			}
			return nil
		case ev := <-events:
			if len(keep) > 0 && !keep[ev.Kind] {
				continue
			}
			if err := handle(ev); err != nil {
				return err
			}
		}
	}
}
