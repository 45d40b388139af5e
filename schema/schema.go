// Package schema defines the data model shared across shopcache packages.
package schema

import (
	"encoding/json"
	"time"
)

// CachedProduct is a locally cached catalog product.
// Products are unique by ID; LastUpdated is stamped by the store on every
// upsert, so a cached record's recency always reflects local write time.
type CachedProduct struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Images      []string `json:"images"`
	Category    string   `json:"category"`
	InStock     bool     `json:"in_stock"`
	Rating      float64  `json:"rating"`
	ReviewCount int      `json:"review_count"`

	// LastUpdated is the local write time, not the server's.
	LastUpdated time.Time `json:"last_updated"`

	// Compressed indicates the image payload is a reduced-size variant.
	Compressed bool `json:"compressed"`
}

// CachedCategory is a locally cached catalog category.
type CachedCategory struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Image        string    `json:"image"`
	ProductCount int       `json:"product_count"`
	LastUpdated  time.Time `json:"last_updated"`
}

// PendingAction is a user mutation recorded locally until the server
// confirms it. Once Synced is true the action is eligible for deletion and
// must never be re-sent.
type PendingAction struct {
	ID        string          `json:"id"`
	Type      ActionType      `json:"type"`
	ProductID string          `json:"product_id"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	Synced    bool            `json:"synced"`
}

// SearchCacheEntry caches the result of a catalog search. It holds product
// IDs rather than full records; a referenced product may have been evicted,
// in which case readers treat the reference as a miss.
type SearchCacheEntry struct {
	Query      string    `json:"query"` // normalized lowercase
	ProductIDs []string  `json:"product_ids"`
	Timestamp  time.Time `json:"timestamp"`
	Filters    string    `json:"filters,omitempty"`
}

// Fresh reports whether the entry is still within the search TTL at the
// given instant.
func (e *SearchCacheEntry) Fresh(now time.Time) bool {
	return now.Sub(e.Timestamp) <= SearchTTL
}

// CachedImage is a locally cached image blob, keyed by source URL.
type CachedImage struct {
	URL        string    `json:"url"`
	Data       []byte    `json:"data"`
	Compressed bool      `json:"compressed"`
	Size       int64     `json:"size"`
	Timestamp  time.Time `json:"timestamp"`
}

// Snapshot is a portable export of the product and category collections.
// Importing a snapshot goes through the same upsert path as a bulk network
// refresh, so search cache, image cache and pending actions are excluded.
type Snapshot struct {
	ExportedAt time.Time        `json:"exported_at"`
	Products   []CachedProduct  `json:"products"`
	Categories []CachedCategory `json:"categories"`
}
