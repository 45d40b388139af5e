package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/shopcache/internal/contract"
	"github.com/huangsam/shopcache/internal/storedb"
	"github.com/huangsam/shopcache/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds the dependencies for MCP tool handlers.
type toolHandler struct {
	store contract.Store
}

// handleGetProduct serves a single product from the local store.
func (h *toolHandler) handleGetProduct(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := request.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("id is required"), nil
	}

	product, err := h.store.GetProduct(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to read product: %v", err)), nil
	}
	if product == nil {
		return mcp.NewToolResultError(fmt.Sprintf("Product %q is not cached", id)), nil
	}

	data, err := json.MarshalIndent(product, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to serialize product: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// handleSearchProducts resolves a cached search query. A stale or missing
// entry is reported as a miss rather than triggering a fetch.
func (h *toolHandler) handleSearchProducts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := request.GetString("query", "")
	if query == "" {
		return mcp.NewToolResultError("query is required"), nil
	}

	normalized := storedb.NormalizeQuery(query)
	entry, err := h.store.GetSearchEntry(ctx, normalized)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to read search cache: %v", err)), nil
	}
	if entry == nil || !entry.Fresh(time.Now()) {
		return mcp.NewToolResultError(fmt.Sprintf("No fresh cached results for %q", normalized)), nil
	}

	products := make([]*schema.CachedProduct, 0, len(entry.ProductIDs))
	for _, id := range entry.ProductIDs {
		product, err := h.store.GetProduct(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to read product: %v", err)), nil
		}
		if product == nil {
			continue // evicted referent
		}
		products = append(products, product)
	}

	data, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to serialize results: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// handleGetCacheStatus reports collection counts and storage usage.
func (h *toolHandler) handleGetCacheStatus(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status, err := h.store.Status(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to read store status: %v", err)), nil
	}

	data, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to serialize status: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// handleListPendingActions lists unsynced actions in replay order, or all
// actions of one type when a filter is supplied.
func (h *toolHandler) handleListPendingActions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var actions []schema.PendingAction
	var err error
	if filter := request.GetString("type", ""); filter != "" {
		t := schema.ActionType(filter)
		if !schema.ValidActionType(t) {
			return mcp.NewToolResultError(fmt.Sprintf("Unknown action type %q", filter)), nil
		}
		actions, err = h.store.ActionsByType(ctx, t)
	} else {
		actions, err = h.store.UnsyncedActions(ctx)
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to read pending actions: %v", err)), nil
	}

	data, err := json.MarshalIndent(actions, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to serialize actions: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
