package schema

import "time"

// DatabaseBackend identifies the storage backend for the local store.
type DatabaseBackend string

// Supported database backends.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none" // degraded: every read misses, every write is a no-op
)

// Collection identifies one of the five persistent collections. Using a
// closed enum instead of free-form store names keeps collection access
// type-checked at compile time.
type Collection string

// The five persistent collections.
const (
	Products       Collection = "products"
	Categories     Collection = "categories"
	PendingActions Collection = "pending_actions"
	SearchCache    Collection = "search_cache"
	ImageCache     Collection = "image_cache"
)

// AllCollections lists every collection in a stable order for status output.
var AllCollections = []Collection{Products, Categories, PendingActions, SearchCache, ImageCache}

// ActionType discriminates pending user actions.
type ActionType string

// Recordable user actions.
const (
	AddToCart          ActionType = "add_to_cart"
	RemoveFromCart     ActionType = "remove_from_cart"
	AddToWishlist      ActionType = "add_to_wishlist"
	RemoveFromWishlist ActionType = "remove_from_wishlist"
	ViewProduct        ActionType = "view_product"
)

// ValidActionType reports whether t is a recognized action type.
func ValidActionType(t ActionType) bool {
	switch t {
	case AddToCart, RemoveFromCart, AddToWishlist, RemoveFromWishlist, ViewProduct:
		return true
	}
	return false
}

// Cache policy defaults.
const (
	// SearchTTL bounds how long a search cache entry is honored on lookup.
	// Older entries are treated as misses but stay on disk until evicted.
	SearchTTL = 5 * time.Minute

	// DefaultMaxAge is the eviction cutoff for products, search entries and
	// images. Pending actions are never evicted by age.
	DefaultMaxAge = 7 * 24 * time.Hour
)
