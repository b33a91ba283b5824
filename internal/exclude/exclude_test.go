package exclude

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatch_WildcardSuffix(t *testing.T) {
	m := New([]string{"*.log"})

	tests := []struct {
		rel  string
		kind Kind
		want bool
	}{
		{"build.log", KindFile, true},
		{"BUILD.LOG", KindFile, true},
		{"deep/nested/dir/app.Log", KindFile, true},
		{"logs", KindDir, false},
		{"app.log.txt", KindFile, false},
		{"catalog", KindFile, false},
		// the final component decides, even for directories
		{"weird.log", KindDir, true},
		{"weird.log/inner.txt", KindFile, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, m.Match(tt.rel, tt.kind), "%s (%s)", tt.rel, tt.kind)
	}
}

func TestMatch_ExactComponent(t *testing.T) {
	m := New([]string{"node"})

	tests := []struct {
		name string
		rel  string
		kind Kind
		want bool
	}{
		{"top-level dir", "node", KindDir, true},
		{"file with the name", "src/node", KindFile, true},
		{"ancestor component", "node/lib/index.js", KindFile, true},
		{"nested ancestor", "a/node/b", KindOther, true},
		{"suffix never matches", "node_helper", KindDir, false},
		{"suffix in path", "node_helper/index.js", KindFile, false},
		{"prefix never matches", "xnode/a", KindFile, false},
		{"missing entry as last component", "src/node", KindOther, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Match(tt.rel, tt.kind))
		})
	}
}

func TestMatch_PathPrefix(t *testing.T) {
	m := New([]string{"a/b"})

	assert.True(t, m.Match("a/b", KindDir))
	assert.True(t, m.Match("a/b", KindOther))
	assert.True(t, m.Match("a/b/c", KindFile))
	assert.True(t, m.Match("a/b/c/d.txt", KindFile))
	assert.False(t, m.Match("a/bc", KindDir))
	assert.False(t, m.Match("x/a/b", KindDir), "prefix rules anchor at the root")
	assert.False(t, m.Match("a", KindDir))
}

func TestMatch_TrailingSlashIsPrefix(t *testing.T) {
	m := New([]string{"build/"})

	assert.True(t, m.Match("build", KindDir))
	assert.True(t, m.Match("build/x.o", KindFile))
	assert.False(t, m.Match("src/build", KindDir))
}

func TestMatch_FirstRuleWins(t *testing.T) {
	// a suffix rule matches before the component rule is consulted
	m := New([]string{"*.js", "src"})
	assert.True(t, m.Match("lib/index.js", KindFile))
	assert.True(t, m.Match("src/x.txt", KindFile))
	assert.False(t, m.Match("lib/x.txt", KindFile))
}

func TestMatch_RootAndEmpty(t *testing.T) {
	m := New(DefaultPatterns())
	assert.False(t, m.Match("", KindDir))
	assert.False(t, m.Match(".", KindDir))
}

func TestNew_NormalizesPatterns(t *testing.T) {
	m := New([]string{"  dist ", "", "   ", "*.tmp"})
	assert.Equal(t, []string{"dist", "*.tmp"}, m.Patterns())
	assert.Equal(t, 2, m.Len())
	assert.True(t, m.Match("dist", KindDir))

	// Patterns returns a copy
	p := m.Patterns()
	p[0] = "changed"
	assert.Equal(t, "dist", m.Patterns()[0])
}

func TestWith(t *testing.T) {
	base := New([]string{"dist"})
	ext := base.With("checkpoint_info.txt")

	assert.Equal(t, 1, base.Len())
	assert.Equal(t, 2, ext.Len())
	assert.True(t, ext.Match("sub/checkpoint_info.txt", KindFile))
	assert.False(t, base.Match("sub/checkpoint_info.txt", KindFile))
}

func TestDefaultPatterns(t *testing.T) {
	m := New(DefaultPatterns())

	excluded := []struct {
		rel  string
		kind Kind
	}{
		{"node_modules", KindDir},
		{".git", KindDir},
		{"web/dist", KindDir},
		{"pkg/__pycache__/mod.pyc", KindFile},
		{"yarn.lock", KindFile},
		{"bundle.tar.gz", KindFile},
		{"checkpoint_info.txt", KindFile},
	}
	for _, e := range excluded {
		assert.True(t, m.Match(e.rel, e.kind), e.rel)
	}
	assert.False(t, m.Match("src/output.go", KindFile))
	assert.False(t, m.Match("distribution", KindDir))
}

func TestIsExcluded(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(base, "node_modules", "pkg"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(base, "src"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(base, "src", "main.py"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(base, "src", "node_modules"), []byte("x"), 0o644))

	m := New([]string{"node_modules", "*.log"})

	assert.True(t, m.IsExcluded(filepath.Join(base, "node_modules"), base))
	assert.True(t, m.IsExcluded(filepath.Join(base, "node_modules", "pkg"), base))
	assert.True(t, m.IsExcluded(filepath.Join(base, "src", "node_modules"), base), "file named like the pattern")
	assert.False(t, m.IsExcluded(filepath.Join(base, "src", "main.py"), base))
	assert.False(t, m.IsExcluded(base, base))
	// the name alone decides for a missing leaf
	assert.False(t, m.IsExcluded(filepath.Join(base, "lib", "node_modules"), base))
}

func TestIsExcluded_OutsideBase(t *testing.T) {
	root := t.TempDir()
	base := filepath.Join(root, "project")
	other := filepath.Join(root, "elsewhere", "node_modules")
	require.NoError(t, os.MkdirAll(base, 0o755))
	require.NoError(t, os.MkdirAll(other, 0o755))

	m := New([]string{"node_modules", "elsewhere", "*.LOG"})

	assert.True(t, m.IsExcluded(other, base), "basename matches")
	assert.True(t, m.IsExcluded(filepath.Join(root, "x", "trace.log"), base))
	// only the final component is consulted outside the base
	assert.False(t, m.IsExcluded(filepath.Join(root, "elsewhere", "file.txt"), base))
}

func TestKindOf(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "f")
	require.NoError(t, os.WriteFile(f, nil, 0o644))

	di, err := os.Stat(dir)
	require.NoError(t, err)
	fi, err := os.Stat(f)
	require.NoError(t, err)

	assert.Equal(t, KindDir, KindOf(di.Mode()))
	assert.Equal(t, KindFile, KindOf(fi.Mode()))
	assert.Equal(t, KindOther, KindOf(os.ModeNamedPipe))
	assert.Equal(t, "dir", KindDir.String())
}
