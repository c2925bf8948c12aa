package storage

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_SaveAndOpen(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	storedName, size, err := store.Save("photo.PNG", strings.NewReader("image bytes"))
	require.NoError(t, err)
	assert.Equal(t, int64(len("image bytes")), size)
	assert.True(t, strings.HasSuffix(storedName, ".png"), "stored name keeps a lowercase extension: %s", storedName)
	assert.NotContains(t, storedName, "photo", "stored name must not leak the original name")

	f, err := store.Open(storedName)
	require.NoError(t, err)
	defer f.Close()

	content, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "image bytes", string(content))
}

func TestLocalStorage_SaveGeneratesUniqueNames(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	first, _, err := store.Save("a.png", strings.NewReader("one"))
	require.NoError(t, err)
	second, _, err := store.Save("a.png", strings.NewReader("two"))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestLocalStorage_Remove(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)

	storedName, _, err := store.Save("a.png", strings.NewReader("bytes"))
	require.NoError(t, err)

	require.NoError(t, store.Remove(storedName))
	_, err = os.Stat(filepath.Join(dir, storedName))
	assert.True(t, os.IsNotExist(err))

	// Removing again is not an error
	assert.NoError(t, store.Remove(storedName))
}

func TestLocalStorage_OpenSanitizesPath(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(filepath.Join(dir, "uploads"))
	require.NoError(t, err)

	secret := filepath.Join(dir, "secret.txt")
	require.NoError(t, os.WriteFile(secret, []byte("hidden"), 0o600))

	_, err = store.Open("../secret.txt")
	assert.Error(t, err)
}

func TestNewLocalStorage_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")

	_, err := NewLocalStorage(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
