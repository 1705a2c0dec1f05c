package modelsapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

type propertiesResponse struct {
	Properties []Property `json:"properties"`
}

type propertyTypesResponse struct {
	PropertyTypes []PropertyType `json:"property_types"`
}

// GetProperties lists properties, optionally restricted to one model
func (c *Client) GetProperties(ctx context.Context, modelID *int) ([]Property, error) {
	params := url.Values{}
	if modelID != nil {
		params.Set("model_id", strconv.Itoa(*modelID))
	}

	var out propertiesResponse
	if err := c.do(ctx, http.MethodGet, "/properties", params, nil, &out); err != nil {
		return nil, err
	}
	return out.Properties, nil
}

// CreateProperty creates a new property and returns it
func (c *Client) CreateProperty(ctx context.Context, req PropertyCreateRequest) (*Property, error) {
	var out Property
	if err := c.do(ctx, http.MethodPost, "/properties", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetProperty fetches a single property by ID
func (c *Client) GetProperty(ctx context.Context, propertyID int) (*Property, error) {
	var out Property
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/properties/%d", propertyID), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProperty applies a partial update to a property
func (c *Client) UpdateProperty(ctx context.Context, propertyID int, req PropertyUpdateRequest) (*Property, error) {
	var out Property
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/properties/%d", propertyID), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteProperty deletes a property by ID
func (c *Client) DeleteProperty(ctx context.Context, propertyID int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/properties/%d", propertyID), nil, nil, nil)
}

// GetPropertyTypes lists all property type definitions. Property types are
// read-only through the API.
func (c *Client) GetPropertyTypes(ctx context.Context) ([]PropertyType, error) {
	var out propertyTypesResponse
	if err := c.do(ctx, http.MethodGet, "/property_types", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.PropertyTypes, nil
}

// GetPropertyType fetches a single property type by ID
func (c *Client) GetPropertyType(ctx context.Context, propertyTypeID int) (*PropertyType, error) {
	var out PropertyType
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/property_types/%d", propertyTypeID), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
