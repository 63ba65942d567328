package docstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "lab-courier/pkg/errors"
)

func TestMemoryStoreSetGetDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.Get(ctx, "orders/o1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	require.NoError(t, store.Set(ctx, "orders/o1", map[string]interface{}{"order_number": "A"}))

	data, err := store.Get(ctx, "orders/o1")
	require.NoError(t, err)
	assert.Equal(t, "A", data["order_number"])

	require.NoError(t, store.Delete(ctx, "orders/o1"))
	_, err = store.Get(ctx, "orders/o1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	// Deleting a missing path is not an error.
	assert.NoError(t, store.Delete(ctx, "orders/o1"))
}

func TestMemoryStoreListSortedByPath(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Set(ctx, "rules/b", map[string]interface{}{"n": float64(2)}))
	require.NoError(t, store.Set(ctx, "rules/a", map[string]interface{}{"n": float64(1)}))
	require.NoError(t, store.Set(ctx, "orders/x", map[string]interface{}{"n": float64(9)}))

	docs, err := store.List(ctx, "rules")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "rules/a", docs[0].Path)
	assert.Equal(t, "rules/b", docs[1].Path)
	assert.Equal(t, "a", docs[0].ID())
}

func TestMemoryStoreGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Set(ctx, "orders/o1", map[string]interface{}{"order_number": "A"}))

	first, err := store.Get(ctx, "orders/o1")
	require.NoError(t, err)
	first["order_number"] = "MUTATED"

	second, err := store.Get(ctx, "orders/o1")
	require.NoError(t, err)
	assert.Equal(t, "A", second["order_number"])
}

func TestMemoryStoreSubscribeNotifiesOnRootChanges(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	store := NewMemoryStore()

	events, err := store.Subscribe(ctx, "orders")
	require.NoError(t, err)

	require.NoError(t, store.Set(ctx, "orders/o1", map[string]interface{}{"order_number": "A"}))

	select {
	case ev := <-events:
		assert.Equal(t, "orders", ev.Root)
	case <-time.After(time.Second):
		t.Fatal("no event after write")
	}

	// A change in another collection stays silent.
	require.NoError(t, store.Set(ctx, "rules/r1", map[string]interface{}{"isActive": true}))
	select {
	case <-events:
		t.Fatal("unexpected event for foreign root")
	case <-time.After(50 * time.Millisecond):
	}

	cancel()
	select {
	case _, open := <-events:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("channel not closed after cancel")
	}
}
