package accountsdk

import "context"

// Session is a logged-in user. It carries the opaque token returned by
// login and passes it on every protected call.
type Session struct {
	client *SDKClient
	token  string
	login  *LoginResponse
}

// Token returns the session token.
func (s *Session) Token() string { return s.token }

// Login returns the login response the session was created from, or nil
// when it was built with NewSessionFromToken.
func (s *Session) Login() *LoginResponse { return s.login }

func (s *Session) Validate(ctx context.Context) (*SessionResponse, error) {
	return s.client.ValidateSession(ctx, s.token)
}

func (s *Session) GetProfile(ctx context.Context) (*Profile, error) {
	resp, err := s.client.GetProfile(ctx, s.token)
	if err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (s *Session) UpdateProfile(ctx context.Context, req ProfileRequest) (*MessageResponse, error) {
	return s.client.UpdateProfile(ctx, s.token, req)
}

// Logout revokes the token. The Session must not be used afterwards.
func (s *Session) Logout(ctx context.Context) error {
	_, err := s.client.Logout(ctx, s.token)
	return err
}
