package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/trebuchet-org/dao-cli/internal/usecase"
)

// SpinnerSink shows transaction stages behind a terminal spinner
type SpinnerSink struct {
	mu      sync.Mutex
	spinner *spinner.Spinner
	out     io.Writer
	stages  []stageInfo
}

type stageInfo struct {
	Stage     string
	StartTime time.Time
	EndTime   time.Time
}

// NewSpinnerSink creates a sink that animates on stderr and prints messages to out
func NewSpinnerSink(out io.Writer) *SpinnerSink {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.HideCursor = false

	return &SpinnerSink{
		spinner: s,
		out:     out,
	}
}

// OnProgress starts or stops the spinner and records the stage
func (r *SpinnerSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if event.Stage != "" && (len(r.stages) == 0 || r.stages[len(r.stages)-1].Stage != event.Stage) {
		r.completeCurrentStage()
		r.stages = append(r.stages, stageInfo{Stage: event.Stage, StartTime: time.Now()})
	}

	if !event.Spinner {
		r.spinner.Stop()
		return
	}

	r.spinner.Suffix = " " + r.suffix(event)
	if !r.spinner.Active() {
		r.spinner.Start()
	}
}

// Info prints an info message
func (r *SpinnerSink) Info(message string) {
	r.pause(func() {
		color.New(color.FgCyan).Fprintln(r.out, message)
	})
}

// Error prints an error message
func (r *SpinnerSink) Error(message string) {
	r.pause(func() {
		color.New(color.FgRed).Fprintln(r.out, message)
	})
}

// Stop halts the spinner and closes the current stage
func (r *SpinnerSink) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.spinner.Stop()
	r.completeCurrentStage()
}

// Stages renders the stage trail, e.g. "✓ propose (1.2s) → ● vote"
func (r *SpinnerSink) Stages() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.trail()
}

func (r *SpinnerSink) pause(print func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	wasActive := r.spinner.Active()
	if wasActive {
		r.spinner.Stop()
	}
	print()
	if wasActive {
		r.spinner.Start()
	}
}

func (r *SpinnerSink) completeCurrentStage() {
	if len(r.stages) > 0 {
		idx := len(r.stages) - 1
		if r.stages[idx].EndTime.IsZero() {
			r.stages[idx].EndTime = time.Now()
		}
	}
}

func (r *SpinnerSink) suffix(event usecase.ProgressEvent) string {
	msg := event.Message
	if event.Total > 1 {
		msg = fmt.Sprintf("[%d/%d] %s", event.Current, event.Total, msg)
	}
	if len(r.stages) > 1 {
		return r.trail() + "  " + msg
	}
	return msg
}

func (r *SpinnerSink) trail() string {
	parts := make([]string, 0, len(r.stages))
	for _, stage := range r.stages {
		if stage.EndTime.IsZero() {
			parts = append(parts, fmt.Sprintf("● %s", color.New(color.FgYellow).Sprint(stage.Stage)))
			continue
		}
		duration := stage.EndTime.Sub(stage.StartTime).Round(100 * time.Millisecond)
		parts = append(parts, fmt.Sprintf("✓ %s (%s)", color.New(color.FgGreen).Sprint(stage.Stage), duration))
	}
	return strings.Join(parts, " → ")
}

var _ usecase.ProgressSink = (*SpinnerSink)(nil)
