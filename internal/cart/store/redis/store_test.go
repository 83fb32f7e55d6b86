package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Viniciusdacostasilva/Loja-de-roupas/internal/domain"
	"github.com/Viniciusdacostasilva/Loja-de-roupas/pkg/logger"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewStore(client, time.Hour, logger.New("cart-store-test", "error")), mr
}

func testCart() domain.Cart {
	var c domain.Cart
	c.Add(domain.ProductSnapshot{ProductID: "p1", Name: "Tee", UnitPrice: 1500, ImageURL: "https://cdn.example/p1.jpg"}, domain.SizeM)
	c.Add(domain.ProductSnapshot{ProductID: "p2", Name: "Hoodie", UnitPrice: 8000, ImageURL: "https://cdn.example/p2.jpg"}, domain.SizeL)
	return c
}

func TestStoreSaveLoadRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	want := testCart()
	require.NoError(t, store.Save(ctx, "anon:s1", want))

	got, ok, err := store.Load(ctx, "anon:s1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want.Items, got.Items)
	assert.Equal(t, want.Total(), got.Total())
}

func TestStoreLoadMissingKey(t *testing.T) {
	store, _ := newTestStore(t)

	_, ok, err := store.Load(context.Background(), "anon:unknown")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStoreLoadCorruptSnapshot(t *testing.T) {
	store, mr := newTestStore(t)
	mr.Set("cart:anon:s1", "{not json")

	_, ok, err := store.Load(context.Background(), "anon:s1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStoreScopesAreIsolated(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "anon:s1", testCart()))

	_, ok, err := store.Load(ctx, "user:u1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStoreDelete(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "anon:s1", testCart()))
	require.NoError(t, store.Delete(ctx, "anon:s1"))

	_, ok, err := store.Load(ctx, "anon:s1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Delete(ctx, "anon:s1"))
}

func TestStoreSaveSetsTTL(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "anon:s1", testCart()))
	assert.Greater(t, mr.TTL("cart:anon:s1"), time.Duration(0))

	mr.FastForward(2 * time.Hour)
	_, ok, err := store.Load(ctx, "anon:s1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStoreLoadFailsWhenRedisDown(t *testing.T) {
	store, mr := newTestStore(t)
	mr.Close()

	_, _, err := store.Load(context.Background(), "anon:s1")
	assert.Error(t, err)
}
