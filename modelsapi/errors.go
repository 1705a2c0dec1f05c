package modelsapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// APIError is the generic failure returned for any request that did not
// complete with a 2xx status. More specific error types embed it.
type APIError struct {
	StatusCode int
	Message    string
	Body       string
	Err        error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("models API error: status %d: %s", e.StatusCode, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("models API error: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("models API error: %s", e.Message)
}

// Unwrap returns the underlying cause, if any
func (e *APIError) Unwrap() error {
	return e.Err
}

// AuthenticationError is returned for every 401 response, regardless of body.
type AuthenticationError struct {
	APIError
}

// NotFoundError is returned for 404 responses.
type NotFoundError struct {
	APIError
}

// RateLimitError is returned for 429 responses. RetryAfter is zero when the
// server did not send a Retry-After header.
type RateLimitError struct {
	APIError
	RetryAfter time.Duration
}

// ValidationError is returned for 400 and 422 responses. Fields maps field
// names from the response body to their error messages.
type ValidationError struct {
	APIError
	Fields map[string][]string
}

// Error includes the per-field details when present
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.APIError.Error()
	}
	return fmt.Sprintf("%s (fields: %v)", e.APIError.Error(), e.Fields)
}

// IsAuthentication reports whether err is an AuthenticationError
func IsAuthentication(err error) bool {
	var ae *AuthenticationError
	return errors.As(err, &ae)
}

// IsNotFound reports whether err is a NotFoundError
func IsNotFound(err error) bool {
	var ne *NotFoundError
	return errors.As(err, &ne)
}

// IsValidation reports whether err is a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsRateLimit reports whether err is a RateLimitError
func IsRateLimit(err error) bool {
	var re *RateLimitError
	return errors.As(err, &re)
}

// statusError maps a non-2xx response to the matching error type.
func statusError(statusCode int, body []byte, retryAfter string) error {
	base := APIError{
		StatusCode: statusCode,
		Message:    http.StatusText(statusCode),
		Body:       string(body),
	}
	if msg := parseErrorMessage(body); msg != "" {
		base.Message = msg
	}

	switch statusCode {
	case http.StatusUnauthorized:
		return &AuthenticationError{APIError: base}
	case http.StatusNotFound:
		return &NotFoundError{APIError: base}
	case http.StatusTooManyRequests:
		re := &RateLimitError{APIError: base}
		if seconds, err := strconv.Atoi(retryAfter); err == nil {
			re.RetryAfter = time.Duration(seconds) * time.Second
		}
		return re
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return &ValidationError{
			APIError: base,
			Fields:   parseFieldErrors(body),
		}
	}
	return &base
}

// parseErrorMessage pulls a human-readable message out of an error body
func parseErrorMessage(body []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Error != "" {
		return payload.Error
	}
	return payload.Message
}

// parseFieldErrors decodes the {"errors": {...}} shape of validation
// responses. Values may be a single string or a list of strings.
func parseFieldErrors(body []byte) map[string][]string {
	var payload struct {
		Errors map[string]any `json:"errors"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Errors) == 0 {
		return nil
	}

	fields := make(map[string][]string, len(payload.Errors))
	for name, raw := range payload.Errors {
		switch v := raw.(type) {
		case string:
			fields[name] = []string{v}
		case []any:
			for _, item := range v {
				if s, ok := item.(string); ok {
					fields[name] = append(fields[name], s)
				}
			}
		}
	}
	return fields
}
