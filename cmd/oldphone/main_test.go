package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oldphonepad/internal/config"
	"oldphonepad/internal/console"
	"oldphonepad/internal/logging"
)

func newTestApp(t *testing.T, stdin string, tty bool) (*app, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	t.Setenv("OLDPHONEPAD_DIR", t.TempDir())

	var stdout, stderr bytes.Buffer
	return &app{
		stdin:      strings.NewReader(stdin),
		stdout:     &stdout,
		stderr:     &stderr,
		isTerminal: func() bool { return tty },
	}, &stdout, &stderr
}

func TestRunDecode(t *testing.T) {
	a, stdout, _ := newTestApp(t, "", false)

	code := a.run(context.Background(), []string{"decode", "4433555 555666#", "8 88777444666*664#", "*"})
	require.Equal(t, 0, code)
	assert.Equal(t, "HELLO\nTURING\n\n", stdout.String())
}

func TestRunDecodeRequiresArgs(t *testing.T) {
	a, _, stderr := newTestApp(t, "", false)

	assert.Equal(t, 1, a.run(context.Background(), []string{"decode"}))
	assert.Contains(t, stderr.String(), "Usage: oldphone decode")
}

func TestRunUsage(t *testing.T) {
	a, _, stderr := newTestApp(t, "", false)

	assert.Equal(t, 1, a.run(context.Background(), nil))
	assert.Contains(t, stderr.String(), "Commands:")

	stderr.Reset()
	assert.Equal(t, 0, a.run(context.Background(), []string{"help"}))
	assert.Contains(t, stderr.String(), "oldphone - multi-tap keypad decoder")
}

func TestRunUnknownCommand(t *testing.T) {
	a, _, stderr := newTestApp(t, "", false)

	assert.Equal(t, 1, a.run(context.Background(), []string{"dial"}))
	assert.Contains(t, stderr.String(), "Unknown command: dial")
}

func TestRunConsoleNonInteractive(t *testing.T) {
	a, stdout, _ := newTestApp(t, "44*4\n999#222\n\n2\n", false)

	code := a.run(context.Background(), []string{"console"})
	require.Equal(t, 0, code)
	assert.Equal(t, "Output: G\n\nOutput: Y\n\n\nDone.\n", stdout.String())
}

func TestRunConsoleInteractive(t *testing.T) {
	a, stdout, _ := newTestApp(t, "77777\n", true)

	code := a.run(context.Background(), []string{"console"})
	require.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "=== OldPhonePad Decoder ===")
	assert.Contains(t, stdout.String(), "Input: Output: P")
}

func TestRunBatchFile(t *testing.T) {
	a, stdout, _ := newTestApp(t, "", false)

	path := filepath.Join(t.TempDir(), "seqs.txt")
	require.NoError(t, os.WriteFile(path, []byte("4a!4\n4 a 4\n"), 0600))

	code := a.run(context.Background(), []string{"batch", path})
	require.Equal(t, 0, code)
	assert.Equal(t, "H\nGG\n", stdout.String())
}

func TestRunBatchJSONStdin(t *testing.T) {
	a, stdout, _ := newTestApp(t, "22\n", false)

	code := a.run(context.Background(), []string{"batch", "-format", "json"})
	require.Equal(t, 0, code)
	assert.JSONEq(t, `{"line":1,"input":"22","output":"B"}`, strings.TrimSpace(stdout.String()))
}

func TestRunBatchBadFormat(t *testing.T) {
	a, _, stderr := newTestApp(t, "", false)

	assert.Equal(t, 1, a.run(context.Background(), []string{"batch", "-format", "xml"}))
	assert.Contains(t, stderr.String(), "unknown batch format")
}

func TestRunConfigFile(t *testing.T) {
	a, stdout, _ := newTestApp(t, "2\n", true)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("console:\n  prompt: \"keys> \"\n  banner: false\n"), 0600))

	code := a.run(context.Background(), []string{"-config", path, "console"})
	require.Equal(t, 0, code)
	assert.True(t, strings.HasPrefix(stdout.String(), "keys> Output: A"))
}

func TestRunInvalidConfig(t *testing.T) {
	a, _, stderr := newTestApp(t, "", false)

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[logging]\nlevel = \"chatty\"\n"), 0600))

	assert.Equal(t, 1, a.run(context.Background(), []string{"-config", path, "decode", "2"}))
	assert.Contains(t, stderr.String(), "Error loading config")
}

func TestRunBadLogLevelFlag(t *testing.T) {
	a, _, stderr := newTestApp(t, "", false)

	assert.Equal(t, 1, a.run(context.Background(), []string{"-log-level", "chatty", "decode", "2"}))
	assert.Contains(t, stderr.String(), "Error configuring logging")
}

func TestApplyReloadKeepsLevelOverride(t *testing.T) {
	logger := logging.NewWithWriter(io.Discard, logging.DefaultConfig())
	session := console.NewSession(console.Options{Prompt: "a> ", Logger: logger})

	reloaded := config.DefaultConfig()
	reloaded.Logging.Level = "error"
	reloaded.Console.Prompt = "b> "

	applyReload(session, logger, "config.toml", "debug")(reloaded)
	assert.Equal(t, logging.LevelDebug, logger.Level())

	var out bytes.Buffer
	_, err := session.Run(context.Background(), strings.NewReader("2\n"), &out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out.String(), "b> "))
}

func TestApplyReloadUsesFileLevelWithoutOverride(t *testing.T) {
	logger := logging.NewWithWriter(io.Discard, logging.DefaultConfig())
	session := console.NewSession(console.Options{Logger: logger})

	reloaded := config.DefaultConfig()
	reloaded.Logging.Level = "error"

	applyReload(session, logger, "config.toml", "")(reloaded)
	assert.Equal(t, logging.LevelError, logger.Level())
}
