package progress

import (
	"bytes"
	"context"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/trebuchet-org/dao-cli/internal/domain/config"
	"github.com/trebuchet-org/dao-cli/internal/usecase"
)

func TestSpinnerSinkStages(t *testing.T) {
	color.NoColor = true
	out := &bytes.Buffer{}
	sink := NewSpinnerSink(out)
	ctx := context.Background()

	sink.OnProgress(ctx, usecase.ProgressEvent{Stage: "propose", Message: "Submitting", Spinner: true})
	sink.OnProgress(ctx, usecase.ProgressEvent{Stage: "propose", Message: "Waiting", Spinner: true})
	sink.OnProgress(ctx, usecase.ProgressEvent{Stage: "vote", Message: "Voting", Spinner: true})

	trail := sink.Stages()
	assert.Contains(t, trail, "✓ propose (")
	assert.Contains(t, trail, "→ ● vote")

	sink.Stop()
	assert.NotContains(t, sink.Stages(), "●")
}

func TestSpinnerSinkBatchSuffix(t *testing.T) {
	color.NoColor = true
	sink := NewSpinnerSink(&bytes.Buffer{})
	sink.OnProgress(context.Background(), usecase.ProgressEvent{Stage: "execute", Message: "Executing", Current: 2, Total: 3, Spinner: true})

	assert.Equal(t, " [2/3] Executing", sink.spinner.Suffix)
}

func TestSpinnerSinkMessages(t *testing.T) {
	color.NoColor = true
	out := &bytes.Buffer{}
	sink := NewSpinnerSink(out)

	sink.Info("hello")
	sink.Error("boom")
	assert.Equal(t, "hello\nboom\n", out.String())
}

func TestProvideProgressSink(t *testing.T) {
	assert.IsType(t, &NopSink{}, ProvideProgressSink(&config.RuntimeConfig{JSON: true}))
	assert.IsType(t, &NopSink{}, ProvideProgressSink(&config.RuntimeConfig{NonInteractive: true}))
	assert.IsType(t, &SpinnerSink{}, ProvideProgressSink(&config.RuntimeConfig{}))
}
