// Package parquet provides data structures and functions for exporting the
// shopcache catalog collections to Parquet files using
// github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/huangsam/shopcache/schema"
	"github.com/parquet-go/parquet-go"
)

// Product represents one cached product row for analytics export.
// This struct maps to the products collection.
type Product struct {
	// ID is the product identity
	ID string `parquet:"id,snappy"`

	// Name is the display name
	Name string `parquet:"name,snappy"`

	// Description is the display description
	Description string `parquet:"description,snappy"`

	// Price is the listed price
	Price float64 `parquet:"price,snappy"`

	// Images holds the image URLs joined by newline (Parquet-friendly scalar)
	Images string `parquet:"images,snappy"`

	// Category is the owning category ID
	Category string `parquet:"category,snappy"`

	// InStock reports availability at cache time
	InStock bool `parquet:"in_stock,snappy"`

	// Rating is the average review rating
	Rating float64 `parquet:"rating,snappy"`

	// ReviewCount is the number of reviews
	ReviewCount int32 `parquet:"review_count,snappy"`

	// LastUpdated is the local write time
	LastUpdated time.Time `parquet:"last_updated,snappy"`

	// Compressed indicates a reduced-size image payload
	Compressed bool `parquet:"compressed,snappy"`
}

// Category represents one cached category row for analytics export.
type Category struct {
	// ID is the category identity
	ID string `parquet:"id,snappy"`

	// Name is the display name
	Name string `parquet:"name,snappy"`

	// Description is the display description
	Description string `parquet:"description,snappy"`

	// Image is the category image URL
	Image string `parquet:"image,snappy"`

	// ProductCount is the product count at cache time
	ProductCount int32 `parquet:"product_count,snappy"`

	// LastUpdated is the local write time
	LastUpdated time.Time `parquet:"last_updated,snappy"`
}

// ConvertProducts maps cached products to their Parquet representation.
func ConvertProducts(products []schema.CachedProduct) []Product {
	out := make([]Product, len(products))
	for i, p := range products {
		out[i] = Product{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Price:       p.Price,
			Images:      strings.Join(p.Images, "\n"),
			Category:    p.Category,
			InStock:     p.InStock,
			Rating:      p.Rating,
			ReviewCount: int32(p.ReviewCount),
			LastUpdated: p.LastUpdated,
			Compressed:  p.Compressed,
		}
	}
	return out
}

// ConvertCategories maps cached categories to their Parquet representation.
func ConvertCategories(categories []schema.CachedCategory) []Category {
	out := make([]Category, len(categories))
	for i, c := range categories {
		out[i] = Category{
			ID:           c.ID,
			Name:         c.Name,
			Description:  c.Description,
			Image:        c.Image,
			ProductCount: int32(c.ProductCount),
			LastUpdated:  c.LastUpdated,
		}
	}
	return out
}

// WriteProductsParquet writes a slice of Product structs to a Parquet file.
func WriteProductsParquet(data []Product, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Schema is inferred from the Product struct tags
	writer := parquet.NewGenericWriter[Product](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	return nil
}

// WriteCategoriesParquet writes a slice of Category structs to a Parquet file.
func WriteCategoriesParquet(data []Category, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Schema is inferred from the Category struct tags
	writer := parquet.NewGenericWriter[Category](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	return nil
}
