package modelsapi

import (
	"context"
	"fmt"
	"net/http"
)

type modelsResponse struct {
	Models []Model `json:"models"`
}

type granularitiesResponse struct {
	EntryGranularities []string `json:"entry_granularities"`
	ExitGranularities  []string `json:"exit_granularities"`
}

// GetModels lists models matching the filter. A zero-valued filter lists
// everything; the listing is not paginated.
func (c *Client) GetModels(ctx context.Context, filter ModelFilter) ([]Model, error) {
	var out modelsResponse
	if err := c.do(ctx, http.MethodGet, "/models", filter.Values(), nil, &out); err != nil {
		return nil, err
	}
	c.logger.Debug().Int("count", len(out.Models)).Msg("Retrieved models")
	return out.Models, nil
}

// CreateModel creates a new model and returns it with its server-assigned ID
func (c *Client) CreateModel(ctx context.Context, req ModelCreateRequest) (*Model, error) {
	var out Model
	if err := c.do(ctx, http.MethodPost, "/models", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetModelByUUID fetches a single model by its UUID
func (c *Client) GetModelByUUID(ctx context.Context, uuid string) (*Model, error) {
	var out Model
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/models/%s", uuid), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateModel applies a partial update to a model by ID and returns the
// updated model
func (c *Client) UpdateModel(ctx context.Context, modelID int, req ModelUpdateRequest) (*Model, error) {
	var out Model
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/models/%d", modelID), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteModel deletes a model by ID
func (c *Client) DeleteModel(ctx context.Context, modelID int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/models/%d", modelID), nil, nil, nil)
}

// GetActiveStats fetches counts of active models by instrument and
// entry/exit granularity
func (c *Client) GetActiveStats(ctx context.Context) (*ActiveStats, error) {
	var out ActiveStats
	if err := c.do(ctx, http.MethodGet, "/models/active_stats", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetEntryGranularities lists the distinct entry granularities in use
func (c *Client) GetEntryGranularities(ctx context.Context) ([]string, error) {
	var out granularitiesResponse
	if err := c.do(ctx, http.MethodGet, "/models/entry_granularities", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.EntryGranularities, nil
}

// GetExitGranularities lists the distinct exit granularities in use
func (c *Client) GetExitGranularities(ctx context.Context) ([]string, error) {
	var out granularitiesResponse
	if err := c.do(ctx, http.MethodGet, "/models/exit_granularities", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.ExitGranularities, nil
}
