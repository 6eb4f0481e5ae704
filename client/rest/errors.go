package rest

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// GenericFailureMessage is reported when the server gave no usable detail.
const GenericFailureMessage = "request failed"

// APIError is a non-2xx response decoded into the service's error shape:
// either a top-level "detail" message or field-keyed validation errors.
type APIError struct {
	StatusCode int
	Detail     string
	Fields     map[string][]string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	if len(e.Fields) > 0 {
		for field, messages := range e.Fields {
			if len(messages) > 0 {
				return fmt.Sprintf("%s: %s", field, messages[0])
			}
		}
	}
	return GenericFailureMessage
}

// IsUnauthorized reports whether the server rejected the credential.
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

func decodeAPIError(status int, raw []byte) *APIError {
	apiErr := &APIError{StatusCode: status}
	if len(raw) == 0 {
		return apiErr
	}

	var withDetail struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(raw, &withDetail); err == nil && withDetail.Detail != "" {
		apiErr.Detail = withDetail.Detail
		return apiErr
	}

	// Field-keyed validation errors: {"field": ["msg", ...], ...}
	var fields map[string][]string
	if err := json.Unmarshal(raw, &fields); err == nil && len(fields) > 0 {
		apiErr.Fields = fields
	}
	return apiErr
}
