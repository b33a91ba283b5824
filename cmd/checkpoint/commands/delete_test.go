package commands

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/checkpoint/internal/cli/prompt"
	"github.com/thoreinstein/checkpoint/internal/errors"
	"github.com/thoreinstein/checkpoint/internal/snapshot"
)

func removeAll(p string) error { return os.RemoveAll(p) }

func TestDelete_Confirmed(t *testing.T) {
	env := setupCLI(t)
	env.write(t, "a.txt", "a")
	res := env.checkpointAt(t, "wip", day1)

	var buf bytes.Buffer
	p := prompt.NewWithIO(strings.NewReader("yes\n"), &buf)
	require.NoError(t, runDeleteWithIO(context.Background(), &buf, p, []string{res.Folder}))

	assert.NoDirExists(t, res.Path)
	assert.Contains(t, buf.String(), `Delete checkpoint "wip" (wip_20240301_142205)? [y/N]: `)
	assert.Contains(t, buf.String(), "Deleted checkpoint wip_20240301_142205")
}

func TestDelete_Declined(t *testing.T) {
	env := setupCLI(t)
	env.write(t, "a.txt", "a")
	res := env.checkpointAt(t, "wip", day1)

	var buf bytes.Buffer
	p := prompt.NewWithIO(strings.NewReader("\n"), &buf)
	require.NoError(t, runDeleteWithIO(context.Background(), &buf, p, []string{res.Folder}))

	assert.DirExists(t, res.Path)
	assert.Contains(t, buf.String(), "Delete cancelled")
}

func TestDelete_YesWithoutArgTakesLatest(t *testing.T) {
	env := setupCLI(t)
	env.write(t, "a.txt", "a")
	older := env.checkpointAt(t, "older", day1)
	newer := env.checkpointAt(t, "newer", day2)
	deleteYes = true

	var buf bytes.Buffer
	p := prompt.NewWithIO(strings.NewReader(""), &buf)
	require.NoError(t, runDeleteWithIO(context.Background(), &buf, p, nil))

	assert.NoDirExists(t, newer.Path)
	assert.DirExists(t, older.Path)
}

func TestDelete_NotFound(t *testing.T) {
	setupCLI(t)
	deleteYes = true

	var buf bytes.Buffer
	p := prompt.NewWithIO(strings.NewReader(""), &buf)
	err := runDeleteWithIO(context.Background(), &buf, p, []string{"missing"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, snapshot.ErrNotFound))
	assert.Equal(t, errors.ExitUser, errors.ExitCode(err))
}
