package snapshot

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/checkpoint/internal/errors"
)

func TestPrune(t *testing.T) {
	clock := &stepClock{t: testTime, step: time.Minute}
	f := newFixture(t, WithClock(clock.Now))
	writeFile(t, f.project, "a.txt", "a")

	var created []string
	for i := range 4 {
		res, err := f.mgr.Create(CreateRequest{ProjectRoot: f.project, Name: fmt.Sprintf("n%d", i)}, nil)
		require.NoError(t, err)
		created = append(created, res.Folder)
	}

	removed, err := f.mgr.Prune(2)
	require.NoError(t, err)
	require.Len(t, removed, 2)
	assert.Equal(t, created[1], removed[0].Folder)
	assert.Equal(t, created[0], removed[1].Folder)

	snaps, err := f.mgr.List()
	require.NoError(t, err)
	require.Len(t, snaps, 2)
	assert.Equal(t, created[3], snaps[0].Folder)
	assert.Equal(t, created[2], snaps[1].Folder)
}

func TestPrune_NothingToDo(t *testing.T) {
	f := newFixture(t)
	fakeCheckpoint(t, f.backups, "only_20240101_000000", "")

	removed, err := f.mgr.Prune(5)
	require.NoError(t, err)
	assert.Empty(t, removed)

	_, err = f.mgr.Prune(-1)
	assert.True(t, errors.Is(err, ErrInvalidRequest))
}

func TestPrune_StopsOnFailure(t *testing.T) {
	f := newFixture(t)
	fakeCheckpoint(t, f.backups, "a_20240101_000000", "")
	fakeCheckpoint(t, f.backups, "b_20240102_000000", "")
	f.mgr.removeAll = func(string) error { return nil }

	removed, err := f.mgr.Prune(0)
	require.Error(t, err)
	assert.Empty(t, removed)
	assert.True(t, errors.Is(err, ErrDeleteIncomplete))
}
