// Package contract provides interfaces and shared utilities for the
// shopcache internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/shopcache/schema"
)

// Store is the persistent store manager: the single point of schema setup
// and CRUD access to the five collections. Every method opens its own
// transaction; bulk writes commit atomically per call, but there is no
// cross-collection atomicity. Implementations wrap storage failures so that
// errors.Is(err, ErrStorageUnavailable) holds and callers can fall through
// to the network.
type Store interface {
	// Products
	PutProducts(ctx context.Context, products []schema.CachedProduct) error
	GetProduct(ctx context.Context, id string) (*schema.CachedProduct, error)
	AllProducts(ctx context.Context) ([]schema.CachedProduct, error)
	ProductsByCategory(ctx context.Context, category string) ([]schema.CachedProduct, error)
	DeleteProducts(ctx context.Context, ids []string) error

	// Categories
	PutCategories(ctx context.Context, categories []schema.CachedCategory) error
	GetCategory(ctx context.Context, id string) (*schema.CachedCategory, error)
	AllCategories(ctx context.Context) ([]schema.CachedCategory, error)

	// Search cache
	PutSearchEntry(ctx context.Context, entry schema.SearchCacheEntry) error
	GetSearchEntry(ctx context.Context, query string) (*schema.SearchCacheEntry, error)

	// Image cache
	PutImage(ctx context.Context, img schema.CachedImage) error
	GetImage(ctx context.Context, url string) (*schema.CachedImage, error)

	// Pending actions
	RecordAction(ctx context.Context, action schema.PendingAction) error
	UnsyncedActions(ctx context.Context) ([]schema.PendingAction, error)
	ActionsByType(ctx context.Context, t schema.ActionType) ([]schema.PendingAction, error)
	MarkActionSynced(ctx context.Context, id string) error
	DeleteActions(ctx context.Context, ids []string) error
	DeleteSyncedActions(ctx context.Context, olderThan time.Time) (int64, error)

	// Eviction and introspection
	ClearExpired(ctx context.Context, maxAge time.Duration) (schema.EvictionResult, error)
	ClearAll(ctx context.Context) error
	Usage(ctx context.Context) (schema.StorageUsage, error)
	Status(ctx context.Context) (schema.StoreStatus, error)

	Close() error
}

// FetchProductFunc fetches a single product from the network. The cache
// layer has no knowledge of the transport behind it.
type FetchProductFunc func(ctx context.Context, id string) (*schema.CachedProduct, error)

// FetchCategoryFunc fetches a single category from the network.
type FetchCategoryFunc func(ctx context.Context, id string) (*schema.CachedCategory, error)

// FetchProductsFunc fetches a batch of products for a category or query.
type FetchProductsFunc func(ctx context.Context, key string) ([]schema.CachedProduct, error)

// FetchImageFunc fetches raw image bytes from the network.
type FetchImageFunc func(ctx context.Context, url string) ([]byte, error)

// OnlineFunc reports whether the device currently has connectivity. It only
// gates network-fetch attempts; cache reads never block on it.
type OnlineFunc func() bool
