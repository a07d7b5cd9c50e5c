package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/dao-cli/internal/domain/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"loud", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.in))
		})
	}
}

func TestNewLogger(t *testing.T) {
	t.Run("text without time", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := newLogger(buf, &config.RuntimeConfig{}, "")
		log.Debug("hidden")
		log.Info("dialing rpc", "network", "sepolia")

		assert.Equal(t, "level=INFO msg=\"dialing rpc\" network=sepolia\n", buf.String())
	})

	t.Run("debug flag wins over env level", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := newLogger(buf, &config.RuntimeConfig{Debug: true}, "error")
		log.Debug("scan chunk")

		assert.Contains(t, buf.String(), "msg=\"scan chunk\"")
		assert.Contains(t, buf.String(), "source=logging/logger_test.go:")
	})

	t.Run("json output", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := newLogger(buf, &config.RuntimeConfig{JSON: true}, "")
		log.Warn("slow rpc", "ms", 1200)

		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		assert.Equal(t, "WARN", line["level"])
		assert.Equal(t, "slow rpc", line["msg"])
		assert.NotContains(t, line, "time")
	})
}

func TestShortPath(t *testing.T) {
	assert.Equal(t, "internal/usecase/cast_vote.go", shortPath("/home/me/src/dao-cli/internal/usecase/cast_vote.go"))
	assert.Equal(t, "bind/base.go", shortPath("/go/pkg/mod/github.com/ethereum/go-ethereum@v1.15.11/accounts/abi/bind/base.go"))
}
