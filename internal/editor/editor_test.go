package editor

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/checkpoint/internal/errors"
)

func env(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func lookFor(available ...string) func(string) (string, error) {
	return func(name string) (string, error) {
		for _, a := range available {
			if a == name {
				return "/usr/bin/" + name, nil
			}
		}
		return "", errors.New("not found")
	}
}

func TestDetectCommand(t *testing.T) {
	tests := []struct {
		name      string
		vars      map[string]string
		available []string
		want      string
	}{
		{"editor wins", map[string]string{"EDITOR": "nvim", "VISUAL": "code"}, nil, "nvim"},
		{"visual when editor empty", map[string]string{"EDITOR": "  ", "VISUAL": "code --wait"}, nil, "code --wait"},
		{"nano fallback", nil, []string{"nano", "vi"}, "nano"},
		{"vi fallback", nil, []string{"vi"}, "vi"},
		{"nothing", nil, nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, detectCommand(env(tt.vars), lookFor(tt.available...)))
		})
	}
}

func TestDetect_SplitsArguments(t *testing.T) {
	t.Setenv("EDITOR", "code --wait")

	ed, err := Detect()
	require.NoError(t, err)
	assert.Equal(t, []string{"code", "--wait"}, ed.Args)
}

func TestOpen_RunsCommandWithPath(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a shell script")
	}
	dir := t.TempDir()
	script := filepath.Join(dir, "fake-editor")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\necho \"$1 $2\" > \"$2\"\n"), 0o755))
	target := filepath.Join(dir, "checkpoint.yaml")

	ed := &Editor{Args: []string{script, "--flag"}}
	require.NoError(t, ed.Open(target))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "--flag "+target+"\n", string(data))
}

func TestOpen_Errors(t *testing.T) {
	assert.ErrorIs(t, (&Editor{}).Open("x"), ErrNoEditor)

	ed := &Editor{Args: []string{filepath.Join(t.TempDir(), "missing-editor")}}
	err := ed.Open("x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "running editor")
}
