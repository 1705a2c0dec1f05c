package modelsapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

type observationsResponse struct {
	Observations []Observation `json:"observations"`
}

// GetObservations lists observations, optionally restricted to one model
func (c *Client) GetObservations(ctx context.Context, modelID *int) ([]Observation, error) {
	params := url.Values{}
	if modelID != nil {
		params.Set("model_id", strconv.Itoa(*modelID))
	}

	var out observationsResponse
	if err := c.do(ctx, http.MethodGet, "/observations", params, nil, &out); err != nil {
		return nil, err
	}
	return out.Observations, nil
}

// CreateObservation creates a new observation and returns it
func (c *Client) CreateObservation(ctx context.Context, req ObservationCreateRequest) (*Observation, error) {
	var out Observation
	if err := c.do(ctx, http.MethodPost, "/observations", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetObservation fetches a single observation by ID
func (c *Client) GetObservation(ctx context.Context, observationID int) (*Observation, error) {
	var out Observation
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/observations/%d", observationID), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateObservation applies a partial update to an observation
func (c *Client) UpdateObservation(ctx context.Context, observationID int, req ObservationUpdateRequest) (*Observation, error) {
	var out Observation
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/observations/%d", observationID), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteObservation deletes an observation by ID
func (c *Client) DeleteObservation(ctx context.Context, observationID int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/observations/%d", observationID), nil, nil, nil)
}
