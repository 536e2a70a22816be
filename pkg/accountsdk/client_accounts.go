package accountsdk

import (
	"context"
	"net/http"
)

const (
	registerPath = "/v1/register"
	loginPath    = "/v1/login"
	profilePath  = "/v1/profile"
)

// Register creates a new account. Field problems, including a taken email or
// username, come back as an *APIError with Errors populated.
func (c *SDKClient) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	var out RegisterResponse
	if err := c.postJSON(ctx, registerPath, req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login exchanges a username or email and a password for a session token.
func (c *SDKClient) Login(ctx context.Context, identifier, password string) (*LoginResponse, error) {
	var out LoginResponse
	req := LoginRequest{Action: ActionLogin, Username: identifier, Password: password}
	if err := c.postJSON(ctx, loginPath, req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ValidateSession asks the login endpoint whether token is live.
func (c *SDKClient) ValidateSession(ctx context.Context, token string) (*SessionResponse, error) {
	var out SessionResponse
	req := LoginRequest{Action: ActionValidateSession, Token: token}
	if err := c.postJSON(ctx, loginPath, req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout revokes token. The service reports success even for unknown
// tokens.
func (c *SDKClient) Logout(ctx context.Context, token string) (*MessageResponse, error) {
	var out MessageResponse
	req := LoginRequest{Action: ActionLogout, Token: token}
	if err := c.postJSON(ctx, loginPath, req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetProfile returns the profile of the user owning token.
func (c *SDKClient) GetProfile(ctx context.Context, token string) (*ProfileResponse, error) {
	var out ProfileResponse
	req := ProfileRequest{Action: ActionGetProfile, Token: token}
	if err := c.postJSON(ctx, profilePath, req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile replaces the editable profile fields. Action and Token on
// req are overwritten.
func (c *SDKClient) UpdateProfile(ctx context.Context, token string, req ProfileRequest) (*MessageResponse, error) {
	var out MessageResponse
	req.Action = ActionUpdateProfile
	req.Token = token
	if err := c.postJSON(ctx, profilePath, req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
