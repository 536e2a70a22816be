package service

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/accounts/internal/accounts/domain"
	"github.com/aussiebroadwan/accounts/internal/accounts/store"
	"github.com/aussiebroadwan/accounts/pkg/slogx"
)

// ProfileSource names the store a ProfileView was assembled from.
type ProfileSource string

const (
	SourceProfile ProfileSource = "profile"
	SourceAccount ProfileSource = "account"
	SourceSession ProfileSource = "session"
)

// ProfileService reads and writes the profile of the session's user. The
// profile document store is optional at read time: when it has nothing the
// view degrades to the account row, and then to the session itself.
type ProfileService struct {
	Sessions *SessionManager
	Store    store.Store
	Profiles store.Profiles

	// Now defaults to time.Now.
	Now func() time.Time
}

func (s *ProfileService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// ProfileView is the merged profile returned to callers. Optional fields are
// nil when unknown.
type ProfileView struct {
	domain.Profile
	Source ProfileSource
}

// Get returns the profile for the session behind token. It only fails with
// ErrUnauthorized; store failures fall through to the next source.
func (s *ProfileService) Get(ctx context.Context, token string) (ProfileView, error) {
	log := slogx.FromContext(ctx)

	sess, err := s.Sessions.Validate(ctx, token)
	if err != nil {
		return ProfileView{}, err
	}

	if s.Profiles != nil {
		doc, err := s.Profiles.GetProfile(ctx, sess.UserID)
		if err == nil {
			fillIdentity(&doc, sess)
			return ProfileView{Profile: doc, Source: SourceProfile}, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			log.Warn("profile store read failed", "user_id", sess.UserID, "err", err)
		}
	}

	acct, err := s.Store.Accounts().GetAccountByID(ctx, sess.UserID)
	if err == nil {
		createdAt, updatedAt := acct.CreatedAt, acct.UpdatedAt
		return ProfileView{
			Profile: domain.Profile{
				UserID:    acct.ID,
				Username:  acct.Username,
				Email:     acct.Email,
				FirstName: acct.FirstName,
				LastName:  acct.LastName,
				CreatedAt: &createdAt,
				UpdatedAt: &updatedAt,
			},
			Source: SourceAccount,
		}, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		log.Warn("credential store read failed", "user_id", sess.UserID, "err", err)
	}

	loginTime := sess.LoginTime
	return ProfileView{
		Profile: domain.Profile{
			UserID:    sess.UserID,
			Username:  sess.Username,
			Email:     sess.Email,
			FirstName: sess.FirstName,
			LastName:  sess.LastName,
			CreatedAt: &loginTime,
		},
		Source: SourceSession,
	}, nil
}

// fillIdentity backfills identity fields a profile document may lack.
func fillIdentity(p *domain.Profile, sess domain.Session) {
	if p.Username == "" {
		p.Username = sess.Username
	}
	if p.Email == "" {
		p.Email = sess.Email
	}
	if p.FirstName == "" {
		p.FirstName = sess.FirstName
	}
	if p.LastName == "" {
		p.LastName = sess.LastName
	}
}

// UpdateResult reports which writes landed. Outcome.Primary is the profile
// document and Outcome.Secondary the names on the account row.
type UpdateResult struct {
	Outcome Outcome
}

// Message is the user facing summary of the update.
func (r UpdateResult) Message() string {
	if r.Outcome.Any() {
		return "Profile updated successfully"
	}
	return "Profile saved"
}

// Update validates in and writes it to the profile document (upserting it)
// and the first/last name to the account row. The two writes are
// independent; neither failing makes the update fail.
//
// Returns ErrUnauthorized for a bad token and *ValidationError for bad
// input, in that order. Nothing is written when either is returned.
func (s *ProfileService) Update(ctx context.Context, token string, in ProfileInput) (UpdateResult, error) {
	log := slogx.FromContext(ctx)

	sess, err := s.Sessions.Validate(ctx, token)
	if err != nil {
		return UpdateResult{}, err
	}

	fields, err := in.fields()
	if err != nil {
		return UpdateResult{}, err
	}

	var res UpdateResult

	if s.Profiles != nil {
		seed := domain.Profile{UserID: sess.UserID, Username: sess.Username, Email: sess.Email}
		if err := s.Profiles.UpsertProfile(ctx, seed, fields, s.now()); err != nil {
			log.Warn("profile document not updated", "user_id", sess.UserID, "err", err)
		} else {
			res.Outcome.Primary = true
		}
	}

	if err := s.Store.Accounts().UpdateNames(ctx, sess.UserID, fields.FirstName, fields.LastName); err != nil {
		log.Warn("account names not updated", "user_id", sess.UserID, "err", err)
	} else {
		res.Outcome.Secondary = true
	}

	log.Info("profile updated", "user_id", sess.UserID,
		"profile_written", res.Outcome.Primary,
		"account_written", res.Outcome.Secondary,
	)
	return res, nil
}
