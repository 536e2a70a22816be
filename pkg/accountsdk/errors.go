package accountsdk

import (
	"encoding/json"
	"fmt"
	"maps"
	"net/http"
	"slices"
	"strings"
)

// APIError is an unsuccessful response from the accounts service.
type APIError struct {
	StatusCode int

	// Message is the top level message, e.g. "Validation failed".
	Message string

	// Errors holds per-field messages keyed by request field name.
	Errors map[string]string
}

func (e *APIError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("accounts: %d %s", e.StatusCode, e.Message)
	}

	keys := slices.Sorted(maps.Keys(e.Errors))
	fields := make([]string, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, k+"="+e.Errors[k])
	}
	return fmt.Sprintf("accounts: %d %s (%s)", e.StatusCode, e.Message, strings.Join(fields, ", "))
}

// Field returns the message for a single request field, or "".
func (e *APIError) Field(name string) string {
	return e.Errors[name]
}

// IsUnauthorized reports whether the session token was rejected or the
// credentials were wrong.
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// parseErrorResponse turns a non-success response into an *APIError. Bodies
// that are not the usual envelope still produce an error carrying the status
// text.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Message != "" {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    errResp.Message,
			Errors:     errResp.Errors,
		}
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    http.StatusText(resp.StatusCode),
	}
}
