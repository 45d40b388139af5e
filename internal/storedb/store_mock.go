package storedb

import (
	"context"
	"time"

	"github.com/huangsam/shopcache/internal/contract"
	"github.com/huangsam/shopcache/schema"
	"github.com/stretchr/testify/mock"
)

// MockStore is a mock implementation of contract.Store for testing.
type MockStore struct {
	mock.Mock
}

var _ contract.Store = &MockStore{} // Compile-time check

// PutProducts implements the Store interface.
func (m *MockStore) PutProducts(ctx context.Context, products []schema.CachedProduct) error {
	args := m.Called(ctx, products)
	return args.Error(0)
}

// GetProduct implements the Store interface.
func (m *MockStore) GetProduct(ctx context.Context, id string) (*schema.CachedProduct, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*schema.CachedProduct)
	return p, args.Error(1)
}

// ProductsByCategory implements the Store interface.
func (m *MockStore) ProductsByCategory(ctx context.Context, category string) ([]schema.CachedProduct, error) {
	args := m.Called(ctx, category)
	p, _ := args.Get(0).([]schema.CachedProduct)
	return p, args.Error(1)
}

// AllProducts implements the Store interface.
func (m *MockStore) AllProducts(ctx context.Context) ([]schema.CachedProduct, error) {
	args := m.Called(ctx)
	p, _ := args.Get(0).([]schema.CachedProduct)
	return p, args.Error(1)
}

// DeleteProducts implements the Store interface.
func (m *MockStore) DeleteProducts(ctx context.Context, ids []string) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

// PutCategories implements the Store interface.
func (m *MockStore) PutCategories(ctx context.Context, categories []schema.CachedCategory) error {
	args := m.Called(ctx, categories)
	return args.Error(0)
}

// GetCategory implements the Store interface.
func (m *MockStore) GetCategory(ctx context.Context, id string) (*schema.CachedCategory, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*schema.CachedCategory)
	return c, args.Error(1)
}

// AllCategories implements the Store interface.
func (m *MockStore) AllCategories(ctx context.Context) ([]schema.CachedCategory, error) {
	args := m.Called(ctx)
	c, _ := args.Get(0).([]schema.CachedCategory)
	return c, args.Error(1)
}

// PutSearchEntry implements the Store interface.
func (m *MockStore) PutSearchEntry(ctx context.Context, entry schema.SearchCacheEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// GetSearchEntry implements the Store interface.
func (m *MockStore) GetSearchEntry(ctx context.Context, query string) (*schema.SearchCacheEntry, error) {
	args := m.Called(ctx, query)
	e, _ := args.Get(0).(*schema.SearchCacheEntry)
	return e, args.Error(1)
}

// PutImage implements the Store interface.
func (m *MockStore) PutImage(ctx context.Context, img schema.CachedImage) error {
	args := m.Called(ctx, img)
	return args.Error(0)
}

// GetImage implements the Store interface.
func (m *MockStore) GetImage(ctx context.Context, url string) (*schema.CachedImage, error) {
	args := m.Called(ctx, url)
	img, _ := args.Get(0).(*schema.CachedImage)
	return img, args.Error(1)
}

// RecordAction implements the Store interface.
func (m *MockStore) RecordAction(ctx context.Context, action schema.PendingAction) error {
	args := m.Called(ctx, action)
	return args.Error(0)
}

// UnsyncedActions implements the Store interface.
func (m *MockStore) UnsyncedActions(ctx context.Context) ([]schema.PendingAction, error) {
	args := m.Called(ctx)
	a, _ := args.Get(0).([]schema.PendingAction)
	return a, args.Error(1)
}

// ActionsByType implements the Store interface.
func (m *MockStore) ActionsByType(ctx context.Context, t schema.ActionType) ([]schema.PendingAction, error) {
	args := m.Called(ctx, t)
	a, _ := args.Get(0).([]schema.PendingAction)
	return a, args.Error(1)
}

// MarkActionSynced implements the Store interface.
func (m *MockStore) MarkActionSynced(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// DeleteActions implements the Store interface.
func (m *MockStore) DeleteActions(ctx context.Context, ids []string) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

// DeleteSyncedActions implements the Store interface.
func (m *MockStore) DeleteSyncedActions(ctx context.Context, olderThan time.Time) (int64, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).(int64), args.Error(1)
}

// ClearExpired implements the Store interface.
func (m *MockStore) ClearExpired(ctx context.Context, maxAge time.Duration) (schema.EvictionResult, error) {
	args := m.Called(ctx, maxAge)
	return args.Get(0).(schema.EvictionResult), args.Error(1)
}

// ClearAll implements the Store interface.
func (m *MockStore) ClearAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Usage implements the Store interface.
func (m *MockStore) Usage(ctx context.Context) (schema.StorageUsage, error) {
	args := m.Called(ctx)
	return args.Get(0).(schema.StorageUsage), args.Error(1)
}

// Status implements the Store interface.
func (m *MockStore) Status(ctx context.Context) (schema.StoreStatus, error) {
	args := m.Called(ctx)
	return args.Get(0).(schema.StoreStatus), args.Error(1)
}

// Close implements the Store interface.
func (m *MockStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
