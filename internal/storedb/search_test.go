package storedb

import (
	"context"
	"testing"

	"github.com/huangsam/shopcache/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeQuery(t *testing.T) {
	assert.Equal(t, "wireless mouse", NormalizeQuery("  Wireless Mouse "))
	assert.Equal(t, "usb-c hub", NormalizeQuery("USB-C Hub"))
	assert.Equal(t, "", NormalizeQuery("   "))
}

func TestSearchEntry_UpsertAndGet(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	entry := schema.SearchCacheEntry{
		Query:      "Wireless Mouse",
		ProductIDs: []string{"p1", "p2"},
		Filters:    `{"in_stock":true}`,
	}
	require.NoError(t, store.PutSearchEntry(ctx, entry))

	// Lookups normalize the same way writes do
	got, err := store.GetSearchEntry(ctx, "  wireless MOUSE ")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "wireless mouse", got.Query)
	assert.Equal(t, []string{"p1", "p2"}, got.ProductIDs)
	assert.Equal(t, `{"in_stock":true}`, got.Filters)
	assert.False(t, got.Timestamp.IsZero(), "store must stamp Timestamp on write")

	// Re-writing the same query replaces the entry
	entry.ProductIDs = []string{"p3"}
	require.NoError(t, store.PutSearchEntry(ctx, entry))

	got, err = store.GetSearchEntry(ctx, "wireless mouse")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, []string{"p3"}, got.ProductIDs)
}

func TestSearchEntry_Missing(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	got, err := store.GetSearchEntry(ctx, "never searched")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestImages_PutAndGet(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	data := []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10}
	img := schema.CachedImage{
		URL:        "https://img.example.com/p1.jpg",
		Data:       data,
		Compressed: true,
	}
	require.NoError(t, store.PutImage(ctx, img))

	got, err := store.GetImage(ctx, "https://img.example.com/p1.jpg")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, data, got.Data)
	assert.True(t, got.Compressed)
	assert.Equal(t, int64(len(data)), got.Size, "size is recorded at write time")
	assert.False(t, got.Timestamp.IsZero())

	missing, err := store.GetImage(ctx, "https://img.example.com/nope.jpg")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}
