package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/accounts/internal/accounts/domain"
	"github.com/aussiebroadwan/accounts/internal/accounts/store"
	"github.com/aussiebroadwan/accounts/pkg/cryptox"
	"github.com/aussiebroadwan/accounts/pkg/slogx"
)

const (
	DefaultSessionPrefix = "accounts_session:"
	DefaultSessionTTL    = 24 * time.Hour
)

// SessionManager issues opaque session tokens and keeps the matching session
// records in the session store under Prefix+token.
type SessionManager struct {
	Store  store.Sessions
	Prefix string
	TTL    time.Duration
}

func (m *SessionManager) key(token string) string {
	prefix := m.Prefix
	if prefix == "" {
		prefix = DefaultSessionPrefix
	}
	return prefix + token
}

func (m *SessionManager) ttl() time.Duration {
	if m.TTL <= 0 {
		return DefaultSessionTTL
	}
	return m.TTL
}

// Issue generates a 256-bit token and stores s against it. When the write
// fails the token is still returned, together with an error wrapping
// ErrStorageUnavailable, so the caller can decide whether that is fatal.
func (m *SessionManager) Issue(ctx context.Context, s domain.Session) (string, error) {
	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return "", err
	}

	if err := m.Store.PutSession(ctx, m.key(token), s, m.ttl()); err != nil {
		return token, fmt.Errorf("%w: store session: %w", ErrStorageUnavailable, err)
	}
	return token, nil
}

// Validate returns the session for token. A blank token, a missing or
// expired session, and a session store failure all yield ErrUnauthorized;
// a blank token never reaches the store.
func (m *SessionManager) Validate(ctx context.Context, token string) (domain.Session, error) {
	if strings.TrimSpace(token) == "" {
		return domain.Session{}, ErrUnauthorized
	}

	s, err := m.Store.GetSession(ctx, m.key(token))
	switch {
	case err == nil:
		return s, nil
	case errors.Is(err, store.ErrNotFound):
		return domain.Session{}, ErrUnauthorized
	default:
		slogx.FromContext(ctx).Warn("session lookup failed",
			"token_fp", cryptox.FingerprintToken(token),
			"err", err,
		)
		return domain.Session{}, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
}

// Revoke deletes the session for token. Revoking a blank or unknown token is
// a successful no-op.
func (m *SessionManager) Revoke(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return nil
	}

	if err := m.Store.DeleteSession(ctx, m.key(token)); err != nil {
		return fmt.Errorf("%w: delete session: %w", ErrStorageUnavailable, err)
	}
	return nil
}
