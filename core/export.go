package core

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/huangsam/shopcache/internal/contract"
	"github.com/huangsam/shopcache/internal/parquet"
	"github.com/huangsam/shopcache/schema"
)

// Export serializes the product and category collections to a JSON snapshot
// with a capture timestamp. Search cache, image cache and pending actions
// are excluded: the snapshot is a catalog backup, not a device clone.
func Export(ctx context.Context, store contract.Store, w io.Writer) (*schema.Snapshot, error) {
	products, err := store.AllProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read products for export: %w", err)
	}
	categories, err := store.AllCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read categories for export: %w", err)
	}

	snapshot := &schema.Snapshot{
		ExportedAt: time.Now(),
		Products:   products,
		Categories: categories,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snapshot); err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return snapshot, nil
}

// Import restores a snapshot by delegating to the same upsert path used by
// normal caching, so importing is exactly equivalent to a bulk network
// refresh (timestamps are re-stamped at import time).
func Import(ctx context.Context, store contract.Store, r io.Reader) (*schema.Snapshot, error) {
	var snapshot schema.Snapshot
	if err := json.NewDecoder(r).Decode(&snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	if err := store.PutProducts(ctx, snapshot.Products); err != nil {
		return nil, fmt.Errorf("failed to import products: %w", err)
	}
	if err := store.PutCategories(ctx, snapshot.Categories); err != nil {
		return nil, fmt.Errorf("failed to import categories: %w", err)
	}
	return &snapshot, nil
}

// ExportParquet writes the product and category collections to
// <prefix>.products.parquet and <prefix>.categories.parquet for analytics
// tooling (Spark, DuckDB, pandas).
func ExportParquet(ctx context.Context, store contract.Store, prefix string) error {
	if prefix == "" {
		return fmt.Errorf("output file prefix is required for parquet export")
	}

	products, err := store.AllProducts(ctx)
	if err != nil {
		return fmt.Errorf("failed to read products for export: %w", err)
	}
	categories, err := store.AllCategories(ctx)
	if err != nil {
		return fmt.Errorf("failed to read categories for export: %w", err)
	}

	productsFile := prefix + ".products.parquet"
	if err := parquet.WriteProductsParquet(parquet.ConvertProducts(products), productsFile); err != nil {
		return fmt.Errorf("failed to write products parquet: %w", err)
	}

	categoriesFile := prefix + ".categories.parquet"
	if err := parquet.WriteCategoriesParquet(parquet.ConvertCategories(categories), categoriesFile); err != nil {
		return fmt.Errorf("failed to write categories parquet: %w", err)
	}

	fmt.Printf("Exported %d products to: %s\n", len(products), productsFile)
	fmt.Printf("Exported %d categories to: %s\n", len(categories), categoriesFile)
	return nil
}
