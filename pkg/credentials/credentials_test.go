package credentials_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"contactmanager/client"
	"contactmanager/pkg/credentials"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_LoadMissing(t *testing.T) {
	store := credentials.NewFileStore(filepath.Join(t.TempDir(), "nope", "credentials.json"))

	s, err := store.Load()

	require.NoError(t, err)
	assert.True(t, s.Empty())
}

func TestFileStore_SaveLoadClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".contactmanager", "credentials.json")
	store := credentials.NewFileStore(path)

	require.NoError(t, store.Save(client.Session{Token: "tok-1"}))

	s, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok-1", s.Token)

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	}

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())
	s, err = store.Load()
	require.NoError(t, err)
	assert.True(t, s.Empty())
}

func TestFileStore_LoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := credentials.NewFileStore(path).Load()

	assert.Error(t, err)
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	p, err := credentials.DefaultPath()

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(".contactmanager", "credentials.json"), filepath.Join(filepath.Base(filepath.Dir(p)), filepath.Base(p)))
}
