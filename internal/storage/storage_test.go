package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorage(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStorage()

	require.NoError(t, store.Put(ctx, "user-files/1/a.pdf", strings.NewReader("hello"), "application/pdf"))
	assert.Equal(t, 1, store.Len())

	exists, err := store.Exists(ctx, "user-files/1/a.pdf")
	require.NoError(t, err)
	assert.True(t, exists)

	reader, err := store.Get(ctx, "user-files/1/a.pdf")
	require.NoError(t, err)
	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	require.NoError(t, reader.Close())
	assert.Equal(t, "hello", string(data))

	_, err = store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotExist)

	require.NoError(t, store.Delete(ctx, "user-files/1/a.pdf"))
	assert.Equal(t, 0, store.Len())
	assert.ErrorIs(t, store.Delete(ctx, "user-files/1/a.pdf"), ErrNotExist)
}

func TestLocalStorage(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Put(ctx, "user-files/7/doc.pdf", strings.NewReader("content"), "application/pdf"))

	exists, err := store.Exists(ctx, "user-files/7/doc.pdf")
	require.NoError(t, err)
	assert.True(t, exists)

	reader, err := store.Get(ctx, "user-files/7/doc.pdf")
	require.NoError(t, err)
	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	require.NoError(t, reader.Close())
	assert.Equal(t, "content", string(data))

	require.NoError(t, store.Delete(ctx, "user-files/7/doc.pdf"))
	exists, err = store.Exists(ctx, "user-files/7/doc.pdf")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.ErrorIs(t, store.Delete(ctx, "user-files/7/doc.pdf"), ErrNotExist)
}

func TestLocalStorageRejectsTraversal(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	err = store.Put(ctx, "../outside.txt", strings.NewReader("x"), "text/plain")
	assert.Error(t, err)

	_, err = store.Get(ctx, "a/../../outside.txt")
	assert.Error(t, err)
}

func TestIsValidContentType(t *testing.T) {
	assert.True(t, IsValidContentType("application/pdf"))
	assert.True(t, IsValidContentType("image/png"))
	assert.False(t, IsValidContentType("application/x-sh"))
	assert.False(t, IsValidContentType(""))
}
