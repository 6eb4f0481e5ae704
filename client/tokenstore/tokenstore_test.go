package tokenstore_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jrsteele09/go-hms/client/tokenstore"
	"github.com/stretchr/testify/require"
)

func stores(t *testing.T) map[string]tokenstore.Store {
	t.Helper()
	return map[string]tokenstore.Store{
		"file":   tokenstore.NewFileStore(t.TempDir()),
		"memory": tokenstore.NewMemStore(),
	}
}

func TestSetGetClear(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := store.Get()
			require.NoError(t, err)
			require.False(t, ok)

			require.NoError(t, store.Set(tokenstore.Credentials{AccessToken: "T1", RefreshToken: "R1"}))

			creds, ok, err := store.Get()
			require.NoError(t, err)
			require.True(t, ok)
			require.Equal(t, "T1", creds.AccessToken)
			require.Equal(t, "R1", creds.RefreshToken)

			require.NoError(t, store.Clear())
			_, ok, err = store.Get()
			require.NoError(t, err)
			require.False(t, ok)
		})
	}
}

func TestClearIsIdempotent(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Clear())
			require.NoError(t, store.Clear())
		})
	}
}

func TestHalfPresentPairIsAbsentAndCleared(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Set(tokenstore.Credentials{AccessToken: "T1"}))

			_, ok, err := store.Get()
			require.NoError(t, err)
			require.False(t, ok)

			// The inconsistent pair was discarded entirely
			require.NoError(t, store.Set(tokenstore.Credentials{RefreshToken: "R1"}))
			_, ok, err = store.Get()
			require.NoError(t, err)
			require.False(t, ok)
		})
	}
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	first := tokenstore.NewFileStore(dir)
	require.NoError(t, first.Set(tokenstore.Credentials{AccessToken: "T1", RefreshToken: "R1"}))

	second := tokenstore.NewFileStore(dir)
	creds, ok, err := second.Get()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "T1", creds.AccessToken)
}

func TestFileStoreDiscardsCorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "credentials.json"), []byte("not json"), 0o600))

	store := tokenstore.NewFileStore(dir)
	_, ok, err := store.Get()
	require.NoError(t, err)
	require.False(t, ok)
}
