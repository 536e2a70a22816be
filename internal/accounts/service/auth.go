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
	"github.com/aussiebroadwan/accounts/pkg/idx"
	"github.com/aussiebroadwan/accounts/pkg/slogx"
)

// AuthService owns account registration and the session lifecycle.
type AuthService struct {
	// Store is the credential store and the source of truth for accounts.
	Store store.Store

	// Profiles receives the initial profile document on registration.
	// Failures there never fail a registration.
	Profiles store.Profiles

	Sessions *SessionManager

	// PasswordCost is the bcrypt cost. Zero means cryptox.DefaultPasswordCost.
	PasswordCost int

	// Now defaults to time.Now.
	Now func() time.Time
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// RegisterResult reports the new account id. Outcome.Primary is the
// credential row and Outcome.Secondary the profile document.
type RegisterResult struct {
	UserID  string
	Outcome Outcome
}

// Register validates in, creates the account and then seeds a profile
// document for it.
//
// The credential row is authoritative: once it is written the registration
// has succeeded, even when the profile write fails. Duplicate email and
// username are checked up front for a friendly message; the UNIQUE
// constraints on the credential store catch anything that races past the
// check.
//
// Returns:
//   - *ValidationError when a field is invalid, or wrapping ErrDuplicateEmail
//     / ErrDuplicateUsername
//   - an error wrapping ErrStorageUnavailable when the credential store fails
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (RegisterResult, error) {
	log := slogx.FromContext(ctx)

	in = in.normalize()
	if err := in.validate(); err != nil {
		return RegisterResult{}, err
	}

	accounts := s.Store.Accounts()

	if _, err := accounts.GetAccountByEmail(ctx, in.Email); err == nil {
		return RegisterResult{}, duplicate(store.ErrDuplicateEmail)
	} else if !errors.Is(err, store.ErrNotFound) {
		return RegisterResult{}, fmt.Errorf("%w: lookup email: %w", ErrStorageUnavailable, err)
	}

	if _, err := accounts.GetAccountByUsername(ctx, in.Username); err == nil {
		return RegisterResult{}, duplicate(store.ErrDuplicateUsername)
	} else if !errors.Is(err, store.ErrNotFound) {
		return RegisterResult{}, fmt.Errorf("%w: lookup username: %w", ErrStorageUnavailable, err)
	}

	hash, err := cryptox.HashPassword(in.Password, s.PasswordCost)
	if err != nil {
		return RegisterResult{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	acct := domain.Account{
		ID:           idx.NewAt(now).String(),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		Username:     in.Username,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := accounts.CreateAccount(ctx, acct); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) || errors.Is(err, store.ErrDuplicateUsername) {
			return RegisterResult{}, duplicate(err)
		}
		return RegisterResult{}, fmt.Errorf("%w: create account: %w", ErrStorageUnavailable, err)
	}

	res := RegisterResult{UserID: acct.ID, Outcome: Outcome{Primary: true}}

	if s.Profiles != nil {
		err := s.Profiles.CreateProfile(ctx, domain.Profile{
			UserID:    acct.ID,
			Username:  acct.Username,
			Email:     acct.Email,
			FirstName: acct.FirstName,
			LastName:  acct.LastName,
			CreatedAt: &now,
			UpdatedAt: &now,
		})
		if err != nil {
			log.Warn("profile document not created", "user_id", acct.ID, "err", err)
		} else {
			res.Outcome.Secondary = true
		}
	}

	log.Info("account registered", "user_id", acct.ID, "profile_created", res.Outcome.Secondary)
	return res, nil
}

func duplicate(err error) error {
	if errors.Is(err, store.ErrDuplicateUsername) {
		return &ValidationError{
			Fields: map[string]string{"username": "This username is already taken"},
			Cause:  ErrDuplicateUsername,
		}
	}
	return &ValidationError{
		Fields: map[string]string{"email": "This email is already registered"},
		Cause:  ErrDuplicateEmail,
	}
}

// LoginResult is the issued token and the identity it belongs to.
// SessionStored is false when the session store rejected the write; the
// token is still returned but will not validate.
type LoginResult struct {
	Token         string
	Session       domain.Session
	SessionStored bool
}

// Login checks the password for the account matching in.Identifier
// (username or email) and issues a session token.
//
// An unknown identifier and a wrong password both return
// ErrInvalidCredentials, and both pay for a bcrypt comparison.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (LoginResult, error) {
	log := slogx.FromContext(ctx)

	if err := in.validate(); err != nil {
		return LoginResult{}, err
	}

	identifier := strings.TrimSpace(in.Identifier)
	acct, err := s.Store.Accounts().GetAccountByLogin(ctx, identifier)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			cryptox.BurnPasswordCheck(in.Password, s.PasswordCost)
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, fmt.Errorf("%w: lookup account: %w", ErrStorageUnavailable, err)
	}

	if err := cryptox.VerifyPassword(in.Password, acct.PasswordHash); err != nil {
		if !errors.Is(err, cryptox.ErrPasswordMismatch) {
			log.Error("stored password hash unusable", "user_id", acct.ID, "err", err)
		}
		return LoginResult{}, ErrInvalidCredentials
	}

	now := s.now()
	sess := domain.Session{
		UserID:        acct.ID,
		Username:      acct.Username,
		Email:         acct.Email,
		FirstName:     acct.FirstName,
		LastName:      acct.LastName,
		LoginTime:     now,
		SourceAddress: in.SourceAddress,
	}

	token, err := s.Sessions.Issue(ctx, sess)
	if token == "" {
		return LoginResult{}, fmt.Errorf("issue session: %w", err)
	}
	res := LoginResult{Token: token, Session: sess, SessionStored: err == nil}
	if err != nil {
		log.Warn("session not stored", "user_id", acct.ID, "token_fp", cryptox.FingerprintToken(token), "err", err)
	}

	if err := s.Store.Accounts().TouchLastLogin(ctx, acct.ID, now); err != nil {
		log.Warn("last login not recorded", "user_id", acct.ID, "err", err)
	}

	log.Info("login succeeded", "user_id", acct.ID, "token_fp", cryptox.FingerprintToken(token))
	return res, nil
}

// ValidateSession returns the live session for token or ErrUnauthorized.
func (s *AuthService) ValidateSession(ctx context.Context, token string) (domain.Session, error) {
	return s.Sessions.Validate(ctx, token)
}

// Logout revokes token. It always succeeds from the caller's point of view;
// a session store failure is only logged.
func (s *AuthService) Logout(ctx context.Context, token string) {
	if err := s.Sessions.Revoke(ctx, token); err != nil {
		slogx.FromContext(ctx).Warn("session not revoked",
			"token_fp", cryptox.FingerprintToken(token),
			"err", err,
		)
	}
}
