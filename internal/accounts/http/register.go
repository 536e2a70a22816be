package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/accounts/internal/accounts/service"
	"github.com/aussiebroadwan/accounts/pkg/accountsdk"
	"github.com/aussiebroadwan/accounts/pkg/httpx"
	"github.com/aussiebroadwan/accounts/pkg/slogx"
)

type RegisterHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP godoc
//
//	@Summary		Register Endpoint
//	@Description	Create a new account. Email and username must be unused.
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accountsdk.RegisterRequest	true	"firstName, lastName, email, username, password"
//	@Success		201		{object}	accountsdk.RegisterResponse	"success, message, userId"
//	@Failure		400		{object}	accountsdk.ErrorResponse	"success, message, errors"
//	@Failure		405		{object}	accountsdk.ErrorResponse	"success, message"
//	@Failure		500		{object}	accountsdk.ErrorResponse	"success, message"
//	@Router			/v1/register [post].
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req accountsdk.RegisterRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	res, err := h.AuthService.Register(ctx, service.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Username:  req.Username,
		Password:  req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDuplicateEmail):
			writeValidation(w, err, "Email already registered")
		case errors.Is(err, service.ErrDuplicateUsername):
			writeValidation(w, err, "Username already taken")
		case writeValidation(w, err, msgValidationFailed):
		case errors.Is(err, service.ErrStorageUnavailable):
			log.Error("registration failed", "err", err)
			writeFailure(w, http.StatusInternalServerError, "Database connection failed")
		default:
			log.Error("registration failed", "err", err)
			writeFailure(w, http.StatusInternalServerError, "Registration failed. Please try again.")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, accountsdk.RegisterResponse{
		Success: true,
		Message: "Registration successful! Please login to continue.",
		UserID:  res.UserID,
	})
}
