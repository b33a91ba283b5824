package snapshot

import (
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/checkpoint/internal/logging"
)

var testTime = time.Date(2024, 3, 1, 14, 22, 5, 0, time.Local)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// stepClock advances by step on every call.
type stepClock struct {
	mu   sync.Mutex
	t    time.Time
	step time.Duration
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.t
	c.t = c.t.Add(c.step)
	return now
}

type fixture struct {
	mgr     *Manager
	project string
	backups string
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	root := t.TempDir()
	f := &fixture{
		project: filepath.Join(root, "app"),
		backups: filepath.Join(root, "Backups"),
	}
	require.NoError(t, os.MkdirAll(f.project, 0o755))
	opts = append([]Option{
		WithBackupDir(f.backups),
		WithLogger(logging.ForTest(t)),
		WithClock(fixedClock(testTime)),
	}, opts...)
	f.mgr = NewManager(opts...)
	return f
}

func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func readFile(t *testing.T, root, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

// tree lists every regular file under root as sorted forward-slash paths.
func tree(t *testing.T, root string) []string {
	t.Helper()
	var files []string
	err := filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			rel, _ := filepath.Rel(root, p)
			files = append(files, filepath.ToSlash(rel))
		}
		return nil
	})
	require.NoError(t, err)
	sort.Strings(files)
	return files
}

// fakeCheckpoint creates a checkpoint folder by hand with the given record.
func fakeCheckpoint(t *testing.T, backups, folder, record string) string {
	t.Helper()
	dir := filepath.Join(backups, folder)
	writeFile(t, dir, MetadataFileName, record)
	writeFile(t, dir, "file.txt", folder)
	return dir
}
