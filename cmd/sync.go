package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/huangsam/shopcache/core"
	"github.com/huangsam/shopcache/internal/contract"
	"github.com/huangsam/shopcache/schema"
	"github.com/spf13/cobra"
)

// syncCmd drains the pending action queue against a server endpoint.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Replay pending cart and wishlist actions against the server",
	Long: `Post queued actions to the server in the order they were recorded.

Each action is sent as a JSON document to --sync-endpoint. A 2xx response
marks the action synced; the first failure stops the pass and leaves the
remaining actions queued for the next run. The endpoint must treat repeated
deliveries of the same action ID as idempotent.

Examples:
  # Replay the queue
  shopcache sync --sync-endpoint https://api.example.com/v1/actions

  # Inspect first, then sync
  shopcache cache status
  shopcache sync --sync-endpoint https://api.example.com/v1/actions`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if cfg.Offline {
			contract.LogFatal("Cannot sync", fmt.Errorf("the connectivity signal is forced offline"))
		}
		if cfg.SyncEndpoint == "" {
			contract.LogFatal("Cannot sync", fmt.Errorf("--sync-endpoint is required"))
		}

		queue := core.NewQueue(store)
		result, err := queue.Drain(rootCtx, postAction(cfg.SyncEndpoint))
		if err != nil {
			fmt.Printf("Sync stopped after %d applied action(s).\n", result.Applied)
			contract.LogFatal("Failed to drain action queue", err)
		}
		fmt.Printf("Sync complete: %d applied, %d removed from queue.\n", result.Applied, result.Deleted)
	},
}

// postAction returns an apply function that posts one action to the
// endpoint. Any non-2xx status counts as a failed delivery.
func postAction(endpoint string) core.ApplyFunc {
	return func(ctx context.Context, action schema.PendingAction) error {
		body, err := json.Marshal(action)
		if err != nil {
			return fmt.Errorf("failed to encode action %s: %w", action.ID, err)
		}

		ctx, cancel := context.WithTimeout(ctx, contract.DefaultSyncTimeout)
		defer cancel()

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("failed to build request for action %s: %w", action.ID, err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return fmt.Errorf("failed to deliver action %s: %w", action.ID, err)
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return fmt.Errorf("server rejected action %s with status %s", action.ID, resp.Status)
		}
		return nil
	}
}
