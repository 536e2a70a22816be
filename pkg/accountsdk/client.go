package accountsdk

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// SDKClient is a client for the accounts service. It covers the
// unauthenticated operations and creates Sessions for the rest.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewSDKClient creates a new accounts service client.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Authenticate logs in with a username or email and returns a Session
// bound to the issued token.
func (c *SDKClient) Authenticate(ctx context.Context, identifier, password string) (*Session, error) {
	resp, err := c.Login(ctx, identifier, password)
	if err != nil {
		return nil, err
	}
	return &Session{client: c, token: resp.Token, login: resp}, nil
}

// NewSessionFromToken wraps a token obtained elsewhere, e.g. one kept by a
// browser between requests.
func (c *SDKClient) NewSessionFromToken(token string) *Session {
	return &Session{client: c, token: token}
}
