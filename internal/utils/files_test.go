package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeWriteFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	require.NoError(t, EnsureDir(dir))
	p := filepath.Join(dir, "out.json")
	data, err := PrettyJSON(map[string]int{"rows": 2})
	require.NoError(t, err)
	require.NoError(t, SafeWriteFile(p, data))

	got, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"rows":2}`, string(got))
	_, err = os.Stat(p + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	got, err := ExpandHome("~/.staffscope/snapshots")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".staffscope", "snapshots"), got)

	got, err = ExpandHome("/tmp/x")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/x", got)
}
