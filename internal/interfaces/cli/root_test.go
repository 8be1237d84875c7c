package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellside-labs/acquisition-engine/internal/config"
)

// executeCommand runs the root command with args and captures stdout.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	cmd.SetContext(context.Background())

	err := cmd.Execute()
	return out.String(), err
}

// writeTempJSON marshals v into a temp file and returns its path.
func writeTempJSON(t *testing.T, name string, v interface{}) string {
	t.Helper()

	data, err := json.Marshal(v)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestRootCommand_Help(t *testing.T) {
	out, err := executeCommand(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "evaluate")
	assert.Contains(t, out, "pipeline")
	assert.Contains(t, out, "quality")
	assert.Contains(t, out, "migrate")
}

func TestRootCommand_UnknownSubcommand(t *testing.T) {
	_, err := executeCommand(t, "no-such-command")
	assert.Error(t, err)
}

func TestGetCLIContext_Missing(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetContext(context.Background())

	_, err := GetCLIContext(cmd)
	assert.Error(t, err)
}

func TestInitLoggerConsumesLogConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cli.log")
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	cfg.Log.Level = "warn"
	cfg.Log.Format = "text"
	cfg.Log.Output = path

	log, err := initLogger(cfg, &RootOptions{LogLevel: "info"}, false)
	require.NoError(t, err)
	log.Info("routine")
	log.Warn("notable")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "routine")
	assert.Contains(t, string(data), "notable")
}

func TestInitLoggerFlagOverridesFileLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cli.log")
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	cfg.Log.Level = "warn"
	cfg.Log.Output = path

	log, err := initLogger(cfg, &RootOptions{LogLevel: "debug"}, true)
	require.NoError(t, err)
	log.Debug("flagged")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "flagged")
}

func TestFormatTable_Alignment(t *testing.T) {
	out := FormatTable(
		[]string{"NAME", "VALUE"},
		[][]string{
			{"fit_score", "82"},
			{"x", "1"},
		},
	)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "NAME       VALUE", lines[0])
	assert.Equal(t, "---------  -----", lines[1])
	assert.Equal(t, "fit_score  82", strings.TrimRight(lines[2], " "))
}

func TestFormatTable_Empty(t *testing.T) {
	assert.Empty(t, FormatTable(nil, nil))
}

func TestPadRight(t *testing.T) {
	assert.Equal(t, "ab   ", padRight("ab", 5))
	assert.Equal(t, "abcdef", padRight("abcdef", 3))
}
