package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// APIError represents a non-success response of the inventory API.
type APIError struct {
	StatusCode int
	// Message is the server's "error" field, or the raw body when it is not JSON.
	Message string
}

func (e *APIError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("api error: status=%d message=%s", e.StatusCode, e.Message)
}

// IsStatus reports whether err is an APIError with the given status code.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

func newAPIError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}

	var payload struct {
		Error            string            `json:"error"`
		ValidationErrors map[string]string `json:"validation_errors"`
	}
	switch {
	case json.Unmarshal(body, &payload) != nil:
		if len(body) > 0 {
			apiErr.Message = string(body)
		}
	case payload.Error != "":
		apiErr.Message = payload.Error
	case len(payload.ValidationErrors) > 0:
		apiErr.Message = fmt.Sprintf("validation failed: %v", payload.ValidationErrors)
	}
	return apiErr
}
