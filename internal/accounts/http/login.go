package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/accounts/internal/accounts/service"
	"github.com/aussiebroadwan/accounts/pkg/accountsdk"
	"github.com/aussiebroadwan/accounts/pkg/httpx"
	"github.com/aussiebroadwan/accounts/pkg/slogx"
)

// LoginHandler serves login, validate_session and logout, selected by the
// action field. A missing action means login.
//
// Password attempts and session actions are rate limited separately, so a
// client that has used up its login attempts can still validate or log out.
type LoginHandler struct {
	AuthService *service.AuthService

	PasswordLimit httpx.Middleware // applied to action=login
	SessionLimit  httpx.Middleware // applied to validate_session and logout
}

// ServeHTTP godoc
//
//	@Summary		Login Endpoint
//	@Description	action=login (default) exchanges username or email and password for a session token.
//	@Description	action=validate_session checks a token; action=logout revokes it.
//	@Tags			Sessions
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accountsdk.LoginRequest		true	"action, username, password, token"
//	@Success		200		{object}	accountsdk.LoginResponse	"login: token and account summary"
//	@Success		200		{object}	accountsdk.SessionResponse	"validate_session: userId, username"
//	@Success		200		{object}	accountsdk.MessageResponse	"logout"
//	@Failure		400		{object}	accountsdk.ErrorResponse	"success, message, errors"
//	@Failure		401		{object}	accountsdk.ErrorResponse	"success, message"
//	@Failure		429		{object}	accountsdk.ErrorResponse	"success, message"
//	@Failure		500		{object}	accountsdk.ErrorResponse	"success, message"
//	@Router			/v1/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req accountsdk.LoginRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	switch req.Action {
	case "", accountsdk.ActionLogin:
		limited(h.PasswordLimit, w, r, func(w http.ResponseWriter, r *http.Request) {
			h.login(w, r, req)
		})
	case accountsdk.ActionValidateSession:
		limited(h.SessionLimit, w, r, func(w http.ResponseWriter, r *http.Request) {
			validateSession(w, r, h.AuthService, req.Token)
		})
	case accountsdk.ActionLogout:
		limited(h.SessionLimit, w, r, func(w http.ResponseWriter, r *http.Request) {
			h.AuthService.Logout(r.Context(), req.Token)
			httpx.WriteJSON(w, http.StatusOK, accountsdk.MessageResponse{
				Success: true,
				Message: "Logged out successfully",
			})
		})
	default:
		writeFailure(w, http.StatusBadRequest, msgInvalidAction)
	}
}

// limited runs fn behind the rate limit middleware m. A nil m means no limit.
func limited(m httpx.Middleware, w http.ResponseWriter, r *http.Request, fn http.HandlerFunc) {
	if m == nil {
		fn(w, r)
		return
	}
	m(fn).ServeHTTP(w, r)
}

func (h *LoginHandler) login(w http.ResponseWriter, r *http.Request, req accountsdk.LoginRequest) {
	ctx := r.Context()

	res, err := h.AuthService.Login(ctx, service.LoginInput{
		Identifier:    req.Username,
		Password:      req.Password,
		SourceAddress: httpx.IPKeyExtractor(r),
	})
	if err != nil {
		switch {
		case writeValidation(w, err, msgValidationFailed):
		case errors.Is(err, service.ErrInvalidCredentials):
			writeFailure(w, http.StatusUnauthorized, "Invalid username or password")
		default:
			slogx.FromContext(ctx).Error("login failed", "err", err)
			writeFailure(w, http.StatusInternalServerError, "Login failed. Please try again.")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, accountsdk.LoginResponse{
		Success:   true,
		Message:   "Login successful",
		Token:     res.Token,
		UserID:    res.Session.UserID,
		Username:  res.Session.Username,
		Email:     res.Session.Email,
		FirstName: res.Session.FirstName,
		LastName:  res.Session.LastName,
	})
}

// validateSession answers the validate_session action of both endpoints.
func validateSession(w http.ResponseWriter, r *http.Request, auth *service.AuthService, token string) {
	sess, err := auth.ValidateSession(r.Context(), token)
	if err != nil {
		writeUnauthorized(w, token, true)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, accountsdk.SessionResponse{
		Success:  true,
		Valid:    true,
		UserID:   sess.UserID,
		Username: sess.Username,
	})
}
