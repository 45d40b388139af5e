// Package mcp provides the Model Context Protocol (MCP) server
// implementation for shopcache.
package mcp

import (
	"context"

	"github.com/huangsam/shopcache/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the shopcache MCP server without
// starting it. This is exposed for unit testing.
func NewMCPServer(store contract.Store) *server.MCPServer {
	s := server.NewMCPServer(
		"Shopcache Store Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{store: store}

	// --- 1. Tool: get_product ---
	s.AddTool(mcp.NewTool("get_product",
		mcp.WithDescription("Look up a cached product by ID. Serves from the local store only; no network fetch."),
		mcp.WithString("id", mcp.Description("Product ID to look up."), mcp.Required()),
	), h.handleGetProduct)

	// --- 2. Tool: search_products ---
	s.AddTool(mcp.NewTool("search_products",
		mcp.WithDescription("Resolve a cached search query to its cached products. Stale entries are reported as misses."),
		mcp.WithString("query", mcp.Description("Search query (normalized to lowercase)."), mcp.Required()),
	), h.handleSearchProducts)

	// --- 3. Tool: get_cache_status ---
	s.AddTool(mcp.NewTool("get_cache_status",
		mcp.WithDescription("Report per-collection entry counts, storage usage and quota for the local store."),
	), h.handleGetCacheStatus)

	// --- 4. Tool: list_pending_actions ---
	s.AddTool(mcp.NewTool("list_pending_actions",
		mcp.WithDescription("List unsynced user actions in the order the sync pass will replay them. "+
			"With a type filter, lists all actions of that type, synced included."),
		mcp.WithString("type", mcp.Description("Optional action type filter, e.g. add_to_cart.")),
	), h.handleListPendingActions)

	return s
}

// StartMCPServer starts the shopcache MCP server on stdio.
func StartMCPServer(_ context.Context, store contract.Store) error {
	s := NewMCPServer(store)
	return server.ServeStdio(s)
}
