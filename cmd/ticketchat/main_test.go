package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/ticketchat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "ticketchat version "+strings.TrimSpace(ticketchat.Version)+"\n", out)
}

func TestGraphCommand(t *testing.T) {
	out, err := execute(t, "graph")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "graph TD\n"))
}

func TestClassifyCommand(t *testing.T) {
	t.Setenv("JIRA_PAT", "")
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("TICKETCHAT_REDIS_URL", "")
	t.Chdir(t.TempDir())

	fixtures := filepath.Join(t.TempDir(), "tickets.yaml")
	require.NoError(t, os.WriteFile(fixtures, []byte("statuses: [Blocked]\ntickets: []\n"), 0644))

	out, err := execute(t, "classify", "--fixtures", fixtures, "anything", "blocked?")
	require.NoError(t, err)
	assert.Equal(t, "LIST_BY_STATUS(blocked)\n", out)
}

func TestMCPCommand_UnknownTransport(t *testing.T) {
	_, err := execute(t, "mcp", "--transport", "carrier-pigeon")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown transport")
}

func TestSessionCommands(t *testing.T) {
	t.Setenv("TICKETCHAT_REDIS_URL", "")
	t.Setenv("TICKETCHAT_SESSION_BACKEND", "file")
	t.Setenv("TICKETCHAT_SESSION_KEY", "")
	dir := t.TempDir()
	t.Setenv("TICKETCHAT_SESSION_DIR", dir)
	t.Chdir(t.TempDir())

	out, err := execute(t, "session", "ls")
	require.NoError(t, err)
	assert.Equal(t, "No sessions found.\n", out)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "standup.json"), []byte(`{"history":[{"role":"human","content":"hi"}]}`), 0644))

	out, err = execute(t, "session", "ls")
	require.NoError(t, err)
	assert.Equal(t, "Sessions:\n- standup\n", out)

	out, err = execute(t, "session", "inspect", "standup")
	require.NoError(t, err)
	assert.Contains(t, out, `"content": "hi"`)

	out, err = execute(t, "session", "rm", "standup")
	require.NoError(t, err)
	assert.Equal(t, "Removed session 'standup'\n", out)
	assert.NoFileExists(t, filepath.Join(dir, "standup.json"))
}
