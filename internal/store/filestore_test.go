package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	in := map[string]int{"a": 1, "b": 2}
	require.NoError(t, fs.Save(ctx, KeyProducts, in))

	var out map[string]int
	found, err := fs.Load(ctx, KeyProducts, &out)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, in, out)
}

func TestFileStoreMissingKey(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	var out []string
	found, err := fs.Load(context.Background(), KeySales, &out)
	require.NoError(t, err)
	require.False(t, found)
	require.Nil(t, out)
}

func TestFileStoreCorruptDocument(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, KeyCart+".json"), []byte("{not json"), 0o644))

	var out []string
	found, err := fs.Load(context.Background(), KeyCart, &out)
	require.Error(t, err)
	require.False(t, found)
}
