package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/accounts/internal/accounts/service"
	"github.com/aussiebroadwan/accounts/pkg/accountsdk"
	"github.com/aussiebroadwan/accounts/pkg/httpx"
	"github.com/aussiebroadwan/accounts/pkg/slogx"
)

const (
	msgInvalidRequest   = "Invalid request data"
	msgInvalidAction    = "Invalid action"
	msgValidationFailed = "Validation failed"
	msgNoToken          = "No token provided"
	msgInvalidSession   = "Invalid or expired session"
)

// decodeRequest decodes the JSON body into v. On failure it writes the 400
// response and returns false.
func decodeRequest(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := httpx.DecodeJSON(w, r, v); err != nil {
		slogx.FromContext(r.Context()).Debug("rejected request body", "err", err)
		writeFailure(w, http.StatusBadRequest, msgInvalidRequest)
		return false
	}
	return true
}

func writeFailure(w http.ResponseWriter, code int, message string) {
	httpx.WriteJSON(w, code, accountsdk.ErrorResponse{Message: message})
}

// writeValidation writes err's field messages with a 400. It reports false
// when err is not a validation error.
func writeValidation(w http.ResponseWriter, err error, message string) bool {
	var verr *service.ValidationError
	if !errors.As(err, &verr) {
		return false
	}
	httpx.WriteJSON(w, http.StatusBadRequest, accountsdk.ErrorResponse{
		Message: message,
		Errors:  verr.Fields,
	})
	return true
}

// writeUnauthorized answers a protected call whose token was missing or
// rejected. withValid adds "valid": false, which validate_session responses
// carry.
func writeUnauthorized(w http.ResponseWriter, token string, withValid bool) {
	resp := accountsdk.ErrorResponse{Message: msgInvalidSession}
	if strings.TrimSpace(token) == "" {
		resp.Message = msgNoToken
	}
	if withValid {
		valid := false
		resp.Valid = &valid
	}
	httpx.WriteJSON(w, http.StatusUnauthorized, resp)
}
