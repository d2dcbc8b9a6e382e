package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_EmptyDirStartsWithDefaults(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 300, store.GetInt("index.staleness_seconds"))
	assert.Equal(t, 20, store.GetInt("limits.max_results"))
	assert.Equal(t, "", store.GetString("semantic.endpoint"))
}

func TestSetPersistsAndReloads(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir)
	require.NoError(t, err)

	require.NoError(t, store.Set("documents.root", "/srv/docs"))
	require.NoError(t, store.Set("semantic.timeout_seconds", int64(10)))

	reloaded, err := New(dir)
	require.NoError(t, err)
	assert.Equal(t, "/srv/docs", reloaded.GetString("documents.root"))
	assert.Equal(t, 10, reloaded.GetInt("semantic.timeout_seconds"))
}

func TestLoad_NestedTablesFlatten(t *testing.T) {
	dir := t.TempDir()
	content := "[semantic]\nendpoint = \"https://ai.example.com\"\nrate_per_minute = 5\n\n[memory]\ndir = \"/srv/memory\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	store, err := New(dir)
	require.NoError(t, err)
	assert.Equal(t, "https://ai.example.com", store.GetString("semantic.endpoint"))
	assert.Equal(t, 5, store.GetInt("semantic.rate_per_minute"))
	assert.Equal(t, "/srv/memory", store.GetString("memory.dir"))
}

func TestSave_WritesNestedTables(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir)
	require.NoError(t, err)

	require.NoError(t, store.Set("semantic.endpoint", "https://ai.example.com"))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "[semantic]")
	assert.Contains(t, string(data), "endpoint = ")
}

func TestGetWrongTypeIsZero(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("documents.root", "/srv/docs"))
	assert.Equal(t, 0, store.GetInt("documents.root"))
	assert.False(t, store.GetBool("documents.root"))
}
