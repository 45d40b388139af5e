package core

import (
	"context"
	"fmt"
	"time"

	"github.com/huangsam/shopcache/internal/contract"
	"github.com/huangsam/shopcache/internal/storedb"
	"github.com/huangsam/shopcache/schema"
)

// Reader serves reads cache-first. Direct entity lookups return any cached
// record regardless of age (eviction is the sole staleness enforcement);
// search results are honored only within the search TTL. When the device is
// offline the network callback is skipped entirely rather than attempted
// and failed, matching the storefront's observed behavior.
type Reader struct {
	store  contract.Store
	online contract.OnlineFunc

	// now is swappable for TTL tests.
	now func() time.Time
}

// NewReader returns a Reader over the given store. A nil online signal
// means always online.
func NewReader(store contract.Store, online contract.OnlineFunc) *Reader {
	if online == nil {
		online = AlwaysOnline
	}
	return &Reader{store: store, online: online, now: time.Now}
}

// GetProduct returns the product for id, cache-first. On a cache miss the
// fetch callback runs (unless offline) and its result is written back so
// the next read hits. A fetch failure with a cached fallback available
// returns the cached record; with none it propagates wrapped in
// contract.ErrNetworkFetch.
func (r *Reader) GetProduct(ctx context.Context, id string, fetch contract.FetchProductFunc) (*schema.CachedProduct, error) {
	// Storage errors on the read path are misses, not failures.
	cached, err := r.store.GetProduct(ctx, id)
	if err != nil {
		cached = nil
	}
	if cached != nil {
		return cached, nil
	}

	if fetch == nil || !r.online() {
		return nil, nil
	}

	fetched, err := fetch(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("product %s: %w: %w", id, contract.ErrNetworkFetch, err)
	}
	if fetched == nil {
		return nil, nil
	}

	// Write-back failures are benign: the caller still gets the result.
	_ = r.store.PutProducts(ctx, []schema.CachedProduct{*fetched})
	return fetched, nil
}

// GetCategory returns the category for id, cache-first.
func (r *Reader) GetCategory(ctx context.Context, id string, fetch contract.FetchCategoryFunc) (*schema.CachedCategory, error) {
	cached, err := r.store.GetCategory(ctx, id)
	if err != nil {
		cached = nil
	}
	if cached != nil {
		return cached, nil
	}

	if fetch == nil || !r.online() {
		return nil, nil
	}

	fetched, err := fetch(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("category %s: %w: %w", id, contract.ErrNetworkFetch, err)
	}
	if fetched == nil {
		return nil, nil
	}

	_ = r.store.PutCategories(ctx, []schema.CachedCategory{*fetched})
	return fetched, nil
}

// GetProductsByCategory returns the cached products of a category; an empty
// cache triggers the fetch callback and a bulk write-back. Any cached hits
// satisfy the read without a network call, so a fetch can only fail when
// there was nothing cached to fall back on.
func (r *Reader) GetProductsByCategory(ctx context.Context, category string, fetch contract.FetchProductsFunc) ([]schema.CachedProduct, error) {
	cached, err := r.store.ProductsByCategory(ctx, category)
	if err != nil {
		cached = nil
	}
	if len(cached) > 0 {
		return cached, nil
	}

	if fetch == nil || !r.online() {
		return cached, nil
	}

	fetched, err := fetch(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("category %s products: %w: %w", category, contract.ErrNetworkFetch, err)
	}

	_ = r.store.PutProducts(ctx, fetched)
	return fetched, nil
}

// Search returns products matching the query. The query is normalized to
// lowercase; a cached entry is honored only within schema.SearchTTL, and an
// expired entry re-executes the fetch. Entry product IDs are resolved
// against the product store; a referenced product that was evicted is
// skipped, not an error. Fresh results write back both the products and the
// search entry.
func (r *Reader) Search(ctx context.Context, query string, fetch contract.FetchProductsFunc) ([]schema.CachedProduct, error) {
	normalized := storedb.NormalizeQuery(query)

	entry, err := r.store.GetSearchEntry(ctx, normalized)
	if err != nil {
		entry = nil
	}
	var stale []schema.CachedProduct
	if entry != nil {
		resolved := r.resolveProducts(ctx, entry.ProductIDs)
		if entry.Fresh(r.now()) {
			return resolved, nil
		}
		stale = resolved // fallback if the refetch fails
	}

	if fetch == nil || !r.online() {
		return stale, nil
	}

	fetched, err := fetch(ctx, normalized)
	if err != nil {
		if stale != nil {
			return stale, nil
		}
		return nil, fmt.Errorf("search %q: %w: %w", normalized, contract.ErrNetworkFetch, err)
	}

	ids := make([]string, len(fetched))
	for i, p := range fetched {
		ids[i] = p.ID
	}
	_ = r.store.PutProducts(ctx, fetched)
	_ = r.store.PutSearchEntry(ctx, schema.SearchCacheEntry{Query: normalized, ProductIDs: ids})
	return fetched, nil
}

// GetImage returns the image blob for a source URL, cache-first.
func (r *Reader) GetImage(ctx context.Context, url string, fetch contract.FetchImageFunc) (*schema.CachedImage, error) {
	cached, err := r.store.GetImage(ctx, url)
	if err != nil {
		cached = nil
	}
	if cached != nil {
		return cached, nil
	}

	if fetch == nil || !r.online() {
		return nil, nil
	}

	data, err := fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("image %s: %w: %w", url, contract.ErrNetworkFetch, err)
	}
	if data == nil {
		return nil, nil
	}

	img := schema.CachedImage{URL: url, Data: data, Size: int64(len(data))}
	_ = r.store.PutImage(ctx, img)
	return &img, nil
}

// resolveProducts maps search entry IDs to cached products, dropping
// references whose product has been evicted.
func (r *Reader) resolveProducts(ctx context.Context, ids []string) []schema.CachedProduct {
	results := make([]schema.CachedProduct, 0, len(ids))
	for _, id := range ids {
		p, err := r.store.GetProduct(ctx, id)
		if err != nil || p == nil {
			continue
		}
		results = append(results, *p)
	}
	return results
}
