package render

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"github.com/trebuchet-org/dao-cli/internal/domain/config"
	"github.com/trebuchet-org/dao-cli/internal/usecase"
)

// ConfigRenderer renders the session context
type ConfigRenderer struct {
	out io.Writer
}

// NewConfigRenderer creates a new config renderer
func NewConfigRenderer(out io.Writer) *ConfigRenderer {
	return &ConfigRenderer{out: out}
}

var configLabels = map[config.ConfigKey]string{
	config.ConfigKeyNetwork: "Network",
	config.ConfigKeyDAO:     "DAO",
	config.ConfigKeySender:  "Sender",
}

// relPath shortens path relative to the working directory when possible
func relPath(path string) string {
	cwd, err := os.Getwd()
	if err != nil {
		return path
	}
	if rel, err := filepath.Rel(cwd, path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}

// RenderConfig prints the stored context and the wallet it resolves to
func (r *ConfigRenderer) RenderConfig(result *usecase.ShowConfigResult) error {
	fmt.Fprintln(r.out, headerStyle.Sprint("Session context"))
	if !result.Exists {
		fmt.Fprintln(r.out, FormatWarning("nothing stored yet, pass --network and --dao or run dao config set"))
	}

	local := result.Config
	if local == nil {
		local = config.DefaultLocalConfig()
	}
	for _, key := range config.ValidConfigKeys() {
		value := local.Get(key)
		if value == "" {
			value = mutedStyle.Sprint("(not set)")
		}
		kv(r.out, configLabels[key], value)
	}

	if result.Account != nil {
		kv(r.out, "Account", addressStyle.Sprint(result.Account.Hex()))
	} else {
		kv(r.out, "Account", mutedStyle.Sprint("read-only (no sender)"))
	}

	fmt.Fprintln(r.out)
	if result.ConfigSource != "" {
		kv(r.out, "dao.toml", relPath(result.ConfigSource))
	}
	if result.Exists {
		kv(r.out, "Stored in", relPath(result.ConfigPath))
	}
	return nil
}

// RenderSet confirms the new value
func (r *ConfigRenderer) RenderSet(result *usecase.SetConfigResult) error {
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("%s set to %s", result.Key, result.Value)))
	r.renderCleared(result.Cleared)
	fmt.Fprintln(r.out, mutedStyle.Sprintf("saved to %s", relPath(result.ConfigPath)))
	return nil
}

// RenderRemove confirms the removal
func (r *ConfigRenderer) RenderRemove(result *usecase.RemoveConfigResult) error {
	if result.RemovedValue == "" {
		fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("%s was not set", result.Key)))
	} else {
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("removed %s (was %s)", result.Key, result.RemovedValue)))
	}
	r.renderCleared(result.Cleared)
	fmt.Fprintln(r.out, mutedStyle.Sprintf("saved to %s", relPath(result.ConfigPath)))
	return nil
}

func (r *ConfigRenderer) renderCleared(keys []config.ConfigKey) {
	if len(keys) == 0 {
		return
	}
	names := lo.Map(keys, func(k config.ConfigKey, _ int) string { return string(k) })
	fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("also cleared %s, it belonged to the previous network", strings.Join(names, ", "))))
}
