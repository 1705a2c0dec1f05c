package modelsapi

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/sync/errgroup"
)

// statsBatchLimit bounds concurrent stats requests in GetModelStatsBatch
const statsBatchLimit = 10

// GetTradeHistory lists trade history matching the filter. Results come
// back in a pagination envelope; traversing further pages is the caller's
// responsibility via the filter's Limit and Offset.
func (c *Client) GetTradeHistory(ctx context.Context, filter TradeHistoryFilter) (*TradeHistoryResponse, error) {
	var out TradeHistoryResponse
	if err := c.do(ctx, http.MethodGet, "/trade-history", filter.Values(), nil, &out); err != nil {
		return nil, err
	}
	c.logger.Debug().
		Int("count", out.Count).
		Int("returned", len(out.Trades)).
		Msg("Retrieved trade history")
	return &out, nil
}

// GetModelStats fetches server-computed aggregates for one model's trades
func (c *Client) GetModelStats(ctx context.Context, modelID int) (*ModelStats, error) {
	var out ModelStats
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/trade-history/stats/%d", modelID), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetModelStatsBatch fetches stats for several models with bounded
// concurrency. Models whose stats request fails are logged and left out of
// the result rather than failing the whole batch.
func (c *Client) GetModelStatsBatch(ctx context.Context, modelIDs []int) map[int]*ModelStats {
	stats := make(map[int]*ModelStats, len(modelIDs))
	if len(modelIDs) == 0 {
		return stats
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(statsBatchLimit)

	var mu sync.Mutex
	for _, modelID := range modelIDs {
		g.Go(func() error {
			s, err := c.GetModelStats(ctx, modelID)
			if err != nil {
				c.logger.Warn().
					Err(err).
					Int("model_id", modelID).
					Msg("Failed to get model stats")
				return nil
			}

			mu.Lock()
			stats[modelID] = s
			mu.Unlock()
			return nil
		})
	}

	g.Wait()
	return stats
}
