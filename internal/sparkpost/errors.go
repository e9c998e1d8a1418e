package sparkpost

import (
	"encoding/json"
	"fmt"
	"strings"
)

type ErrorDetail struct {
	Message     string `json:"message"`
	Description string `json:"description,omitempty"`
	Code        string `json:"code,omitempty"`
}

// APIError is returned for any non 2xx answer of the API.
type APIError struct {
	StatusCode int
	Errors     []ErrorDetail
	Body       string
}

func newAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode, Body: string(body)}

	var decoded struct {
		Errors []ErrorDetail `json:"errors"`
	}
	if json.Unmarshal(body, &decoded) == nil {
		apiErr.Errors = decoded.Errors
	}

	return apiErr
}

func (e *APIError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("sparkpost: status %d: %s", e.StatusCode, strings.TrimSpace(e.Body))
	}

	messages := make([]string, len(e.Errors))
	for i, detail := range e.Errors {
		messages[i] = detail.Message
		if detail.Description != "" {
			messages[i] += ": " + detail.Description
		}
	}

	return fmt.Sprintf("sparkpost: status %d: %s", e.StatusCode, strings.Join(messages, "; "))
}
