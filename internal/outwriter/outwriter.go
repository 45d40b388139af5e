// Package outwriter has output and writer logic for the shopcache CLI.
package outwriter

import (
	"fmt"
	"io"
	"time"

	"github.com/huangsam/shopcache/internal/contract"
	"github.com/huangsam/shopcache/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteStoreStatus renders the store status as a human-readable table: one
// row per collection with entry counts, timestamps and a staleness label.
func WriteStoreStatus(status schema.StoreStatus, cfg *contract.Config, w io.Writer) error {
	if _, err := fmt.Fprintf(w, "Cache Backend: %s\n", status.Backend); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Connected: %t\n", status.Connected); err != nil {
		return err
	}
	if !status.Connected {
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Collection", "Entries", "Newest", "Oldest", "Label"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	now := time.Now()
	maxWidth := GetMaxValueWidth(0)
	var data [][]string
	for _, collection := range schema.AllCollections {
		cs := status.Collections[collection]
		row := []string{
			TruncateValue(string(collection), maxWidth),
			fmt.Sprintf("%d", cs.Entries),
			formatEntryTime(cs.NewestEntry),
			formatEntryTime(cs.OldestEntry),
			collectionLabel(collection, cs, now, cfg),
		}
		data = append(data, row)
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "Unsynced actions: %d\n", status.Unsynced); err != nil {
		return err
	}
	return writeUsage(status.Usage, w)
}

// WriteEvictionResult reports what an eviction pass removed.
func WriteEvictionResult(result schema.EvictionResult, w io.Writer) error {
	_, err := fmt.Fprintf(w, "Evicted %d entries (products: %d, search: %d, images: %d, synced actions: %d)\n",
		result.Total(), result.Products, result.SearchEntries, result.Images, result.SyncedActions)
	return err
}

// writeUsage prints used/quota/available storage bytes.
func writeUsage(usage schema.StorageUsage, w io.Writer) error {
	_, err := fmt.Fprintf(w, "Storage: %d bytes used / %d quota (%d available)\n",
		usage.UsedBytes, usage.QuotaBytes, usage.AvailableBytes)
	return err
}

// collectionLabel grades a collection's oldest entry against its eviction
// window. Pending actions are never age-evicted, so they are not graded.
func collectionLabel(collection schema.Collection, cs schema.CollectionStatus, now time.Time, cfg *contract.Config) string {
	if collection == schema.PendingActions || cs.Entries == 0 {
		return "-"
	}

	window := cfg.MaxAge
	if collection == schema.SearchCache {
		window = schema.SearchTTL
	}
	if window <= 0 {
		return "-"
	}

	fraction := float64(now.Sub(cs.OldestEntry)) / float64(window)
	if cfg.UseColors {
		return contract.GetColorLabel(fraction)
	}
	return contract.GetPlainLabel(fraction)
}

// formatEntryTime renders an entry timestamp, or a dash for empty
// collections.
func formatEntryTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04:05")
}
