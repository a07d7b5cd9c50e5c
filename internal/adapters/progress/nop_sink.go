package progress

import (
	"context"
	"os"

	"github.com/trebuchet-org/dao-cli/internal/domain/config"
	"github.com/trebuchet-org/dao-cli/internal/usecase"
)

// NopSink is a no-op implementation of ProgressSink
type NopSink struct{}

// NewNopSink creates a new no-op progress sink
func NewNopSink() *NopSink {
	return &NopSink{}
}

// OnProgress does nothing with progress events
func (n *NopSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {}

// Info does nothing with info messages
func (n *NopSink) Info(message string) {}

// Error does nothing with error messages
func (n *NopSink) Error(message string) {}

// Stop does nothing
func (n *NopSink) Stop() {}

// Sink is a ProgressSink the CLI can stop once a command finishes
type Sink interface {
	usecase.ProgressSink
	Stop()
}

// ProvideProgressSink picks the spinner for terminals and the no-op sink for JSON or non-interactive runs
func ProvideProgressSink(cfg *config.RuntimeConfig) Sink {
	if cfg.NonInteractive || cfg.JSON {
		return NewNopSink()
	}
	return NewSpinnerSink(os.Stdout)
}

var _ usecase.ProgressSink = (*NopSink)(nil)
