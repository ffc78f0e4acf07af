package keeper

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"lotteryd/internal/lottery/types"
	"lotteryd/internal/store"
)

func TestRecentHashes_EmptyIsStorageError(t *testing.T) {
	rh := NewRecentHashes(store.NewService(store.NewMemStore()), 3)
	_, err := rh.RecentDigest(context.Background())
	require.ErrorIs(t, err, types.ErrStorage)
}

func TestRecentHashes_NewestFirstWithEviction(t *testing.T) {
	root := store.NewMemStore()
	ctx := store.WithKVStore(context.Background(), root.NewCache())
	rh := NewRecentHashes(store.NewService(root), 3)

	for _, h := range []string{"h1", "h2", "h3", "h4"} {
		require.NoError(t, rh.Push(ctx, []byte(h)))
	}

	d, err := rh.RecentDigest(ctx)
	require.NoError(t, err)
	require.Equal(t, []byte("h4"), d)

	list, err := rh.List(ctx)
	require.NoError(t, err)
	require.Equal(t, [][]byte{[]byte("h4"), []byte("h3"), []byte("h2")}, list)
}

func TestRecentHashes_RejectsEmptyHash(t *testing.T) {
	rh := NewRecentHashes(store.NewService(store.NewMemStore()), 0)
	require.Error(t, rh.Push(context.Background(), nil))
}
