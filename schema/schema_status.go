package schema

import "time"

// StorageUsage reports bytes used against the configured quota. When the
// backend cannot estimate its size, every field degrades to zero.
type StorageUsage struct {
	UsedBytes      int64 `json:"used_bytes"`
	QuotaBytes     int64 `json:"quota_bytes"`
	AvailableBytes int64 `json:"available_bytes"`
}

// CollectionStatus holds per-collection statistics for status output.
type CollectionStatus struct {
	Entries     int64     `json:"entries"`
	NewestEntry time.Time `json:"newest_entry,omitzero"`
	OldestEntry time.Time `json:"oldest_entry,omitzero"`
}

// StoreStatus describes the state of the local store.
type StoreStatus struct {
	Backend     string                          `json:"backend"`
	Connected   bool                            `json:"connected"`
	Collections map[Collection]CollectionStatus `json:"collections,omitempty"`
	Unsynced    int64                           `json:"unsynced_actions"`
	Usage       StorageUsage                    `json:"usage"`
}

// EvictionResult reports how many entries an eviction pass removed from
// each collection.
type EvictionResult struct {
	Products      int64 `json:"products"`
	SearchEntries int64 `json:"search_entries"`
	Images        int64 `json:"images"`
	SyncedActions int64 `json:"synced_actions"`
}

// Total returns the total number of evicted entries.
func (r EvictionResult) Total() int64 {
	return r.Products + r.SearchEntries + r.Images + r.SyncedActions
}

// DrainResult reports the outcome of a mutation queue sync pass.
type DrainResult struct {
	Applied int `json:"applied"`
	Deleted int `json:"deleted"`
	Failed  int `json:"failed"` // 0 or 1: the pass stops at the first failure
}
