package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/accounts/internal/accounts/service"
	"github.com/aussiebroadwan/accounts/pkg/accountsdk"
	"github.com/aussiebroadwan/accounts/pkg/httpx"
	"github.com/aussiebroadwan/accounts/pkg/slogx"
)

// ProfileHandler serves validate_session, get_profile and update_profile.
// Unlike the login endpoint there is no default action.
type ProfileHandler struct {
	AuthService    *service.AuthService
	ProfileService *service.ProfileService
}

// ServeHTTP godoc
//
//	@Summary		Profile Endpoint
//	@Description	action=get_profile returns the merged profile of the session's user.
//	@Description	action=update_profile replaces the editable fields; action=validate_session checks the token.
//	@Tags			Profiles
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accountsdk.ProfileRequest	true	"action, token and, for update_profile, the profile fields"
//	@Success		200		{object}	accountsdk.ProfileResponse	"get_profile"
//	@Success		200		{object}	accountsdk.MessageResponse	"update_profile"
//	@Failure		400		{object}	accountsdk.ErrorResponse	"success, message, errors"
//	@Failure		401		{object}	accountsdk.ErrorResponse	"success, message"
//	@Router			/v1/profile [post].
func (h *ProfileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req accountsdk.ProfileRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	switch req.Action {
	case accountsdk.ActionValidateSession:
		validateSession(w, r, h.AuthService, req.Token)
	case accountsdk.ActionGetProfile:
		h.get(w, r, req.Token)
	case accountsdk.ActionUpdateProfile:
		h.update(w, r, req)
	default:
		writeFailure(w, http.StatusBadRequest, msgInvalidAction)
	}
}

func (h *ProfileHandler) get(w http.ResponseWriter, r *http.Request, token string) {
	view, err := h.ProfileService.Get(r.Context(), token)
	if err != nil {
		writeUnauthorized(w, token, false)
		return
	}

	slogx.FromContext(r.Context()).Debug("profile served", "user_id", view.UserID, "source", view.Source)
	httpx.WriteJSON(w, http.StatusOK, accountsdk.ProfileResponse{
		Success: true,
		Data: accountsdk.Profile{
			UserID:    view.UserID,
			Username:  view.Username,
			Email:     view.Email,
			FirstName: view.FirstName,
			LastName:  view.LastName,
			Age:       view.Age,
			DOB:       view.DOB,
			Contact:   view.Contact,
			Address:   view.Address,
			City:      view.City,
			Country:   view.Country,
			Bio:       view.Bio,
			CreatedAt: view.CreatedAt,
			UpdatedAt: view.UpdatedAt,
		},
	})
}

func (h *ProfileHandler) update(w http.ResponseWriter, r *http.Request, req accountsdk.ProfileRequest) {
	res, err := h.ProfileService.Update(r.Context(), req.Token, service.ProfileInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Age:       string(req.Age),
		DOB:       req.DOB,
		Contact:   req.Contact,
		Address:   req.Address,
		City:      req.City,
		Country:   req.Country,
		Bio:       req.Bio,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnauthorized):
			writeUnauthorized(w, req.Token, false)
		case writeValidation(w, err, msgValidationFailed):
		default:
			slogx.FromContext(r.Context()).Error("profile update failed", "err", err)
			writeFailure(w, http.StatusInternalServerError, "Profile update failed. Please try again.")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, accountsdk.MessageResponse{
		Success: true,
		Message: res.Message(),
	})
}
