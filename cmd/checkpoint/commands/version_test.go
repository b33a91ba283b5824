package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/checkpoint/cmd"
)

func TestVersionOutput(t *testing.T) {
	origVersion, origCommit, origDate := cmd.Version, cmd.Commit, cmd.Date
	t.Cleanup(func() { cmd.Version, cmd.Commit, cmd.Date = origVersion, origCommit, origDate })

	cmd.Version, cmd.Commit, cmd.Date = "1.2.3", "abc1234", "2024-03-01"

	var buf bytes.Buffer
	require.NoError(t, runVersionWithWriter(&buf))
	assert.Equal(t, "checkpoint version 1.2.3\n  commit: abc1234\n  built:  2024-03-01\n", buf.String())
}

func TestVersionCommandRegistered(t *testing.T) {
	found, _, err := rootCmd.Find([]string{"version"})
	require.NoError(t, err)
	assert.Equal(t, "version", found.Name())
}
