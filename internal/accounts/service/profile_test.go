package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestProfileGet(t *testing.T) {
	ctx := context.Background()

	t.Run("unauthorized", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.profile.Get(ctx, "")
		require.ErrorIs(t, err, ErrUnauthorized)
		_, err = f.profile.Get(ctx, "unknown")
		require.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("from profile document", func(t *testing.T) {
		f := newFixture(t)
		userID, token := f.login(t)

		view, err := f.profile.Get(ctx, token)
		require.NoError(t, err)
		require.Equal(t, SourceProfile, view.Source)
		require.Equal(t, userID, view.UserID)
		require.Equal(t, "ada@example.com", view.Email)
		require.Equal(t, "Ada", view.FirstName)
	})

	t.Run("falls back to account row", func(t *testing.T) {
		f := newFixture(t)
		userID, token := f.login(t)
		f.profiles.Break()

		view, err := f.profile.Get(ctx, token)
		require.NoError(t, err)
		require.Equal(t, SourceAccount, view.Source)
		require.Equal(t, userID, view.UserID)
		require.Equal(t, "Lovelace", view.LastName)
		require.Nil(t, view.Age)
		require.Nil(t, view.Bio)
		require.True(t, testClock.Equal(*view.CreatedAt))
		require.NotNil(t, view.UpdatedAt)
	})

	t.Run("falls back to account row when document missing", func(t *testing.T) {
		f := newFixture(t)
		f.profiles.Break()
		userID := f.register(t)
		f.profiles.Restore()

		res, err := f.auth.Login(ctx, LoginInput{Identifier: "ada", Password: "analytical-engine"})
		require.NoError(t, err)

		view, err := f.profile.Get(ctx, res.Token)
		require.NoError(t, err)
		require.Equal(t, SourceAccount, view.Source)
		require.Equal(t, userID, view.UserID)
	})

	t.Run("falls back to session", func(t *testing.T) {
		f := newFixture(t)
		userID, token := f.login(t)
		f.profiles.Break()
		require.NoError(t, f.store.Close())

		view, err := f.profile.Get(ctx, token)
		require.NoError(t, err)
		require.Equal(t, SourceSession, view.Source)
		require.Equal(t, userID, view.UserID)
		require.Equal(t, "ada", view.Username)
		require.Equal(t, "Ada", view.FirstName)
		require.Equal(t, testClock, *view.CreatedAt)
		require.Nil(t, view.UpdatedAt)
		require.Nil(t, view.City)
	})
}

func TestProfileUpdate(t *testing.T) {
	ctx := context.Background()

	full := ProfileInput{
		FirstName: "Augusta",
		LastName:  "King",
		Age:       "36",
		DOB:       "1815-12-10",
		Contact:   "555-123-4567",
		Address:   "12 St James's Square",
		City:      "London",
		Country:   "United Kingdom",
		Bio:       "Wrote the first published algorithm.",
	}

	t.Run("writes both stores", func(t *testing.T) {
		f := newFixture(t)
		userID, token := f.login(t)

		res, err := f.profile.Update(ctx, token, full)
		require.NoError(t, err)
		require.Equal(t, Outcome{Primary: true, Secondary: true}, res.Outcome)
		require.Equal(t, "Profile updated successfully", res.Message())

		acct, err := f.store.Accounts().GetAccountByID(ctx, userID)
		require.NoError(t, err)
		require.Equal(t, "Augusta", acct.FirstName)
		require.Equal(t, "King", acct.LastName)
		require.Equal(t, "ada@example.com", acct.Email)

		view, err := f.profile.Get(ctx, token)
		require.NoError(t, err)
		require.Equal(t, SourceProfile, view.Source)
		require.Equal(t, 36, *view.Age)
		require.Equal(t, "London", *view.City)
		require.Equal(t, "555-123-4567", *view.Contact)
		require.Equal(t, testClock, *view.CreatedAt)
		require.Equal(t, testClock.Add(time.Hour), *view.UpdatedAt)
	})

	t.Run("clearing an optional stores nil", func(t *testing.T) {
		f := newFixture(t)
		_, token := f.login(t)

		_, err := f.profile.Update(ctx, token, full)
		require.NoError(t, err)

		cleared := full
		cleared.City = ""
		cleared.Age = ""
		_, err = f.profile.Update(ctx, token, cleared)
		require.NoError(t, err)

		view, err := f.profile.Get(ctx, token)
		require.NoError(t, err)
		require.Nil(t, view.City)
		require.Nil(t, view.Age)
		require.Equal(t, "United Kingdom", *view.Country)
	})

	t.Run("creates the document when missing", func(t *testing.T) {
		f := newFixture(t)
		f.profiles.Break()
		userID := f.register(t)
		f.profiles.Restore()

		res, err := f.auth.Login(ctx, LoginInput{Identifier: "ada", Password: "analytical-engine"})
		require.NoError(t, err)

		_, err = f.profile.Update(ctx, res.Token, full)
		require.NoError(t, err)

		doc, err := f.profiles.GetProfile(ctx, userID)
		require.NoError(t, err)
		require.Equal(t, "ada", doc.Username)
		require.Equal(t, "ada@example.com", doc.Email)
		require.Equal(t, "Augusta", doc.FirstName)
		require.Equal(t, testClock.Add(time.Hour), *doc.CreatedAt)
	})

	t.Run("invalid input writes nothing", func(t *testing.T) {
		f := newFixture(t)
		userID, token := f.login(t)

		bad := full
		bad.FirstName = "A"
		_, err := f.profile.Update(ctx, token, bad)
		require.Equal(t, "First name must be at least 2 characters", validationFields(t, err)["firstName"])

		acct, err := f.store.Accounts().GetAccountByID(ctx, userID)
		require.NoError(t, err)
		require.Equal(t, "Ada", acct.FirstName)

		doc, err := f.profiles.GetProfile(ctx, userID)
		require.NoError(t, err)
		require.Equal(t, "Ada", doc.FirstName)
		require.Equal(t, testClock, *doc.UpdatedAt)
	})

	t.Run("unauthorized before validation", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.profile.Update(ctx, "nope", ProfileInput{})
		require.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("profile store outage", func(t *testing.T) {
		f := newFixture(t)
		userID, token := f.login(t)
		f.profiles.Break()

		res, err := f.profile.Update(ctx, token, full)
		require.NoError(t, err)
		require.Equal(t, Outcome{Secondary: true}, res.Outcome)
		require.Equal(t, "Profile updated successfully", res.Message())

		acct, err := f.store.Accounts().GetAccountByID(ctx, userID)
		require.NoError(t, err)
		require.Equal(t, "Augusta", acct.FirstName)
	})

	t.Run("both stores down", func(t *testing.T) {
		f := newFixture(t)
		_, token := f.login(t)
		f.profiles.Break()
		require.NoError(t, f.store.Close())

		res, err := f.profile.Update(ctx, token, full)
		require.NoError(t, err)
		require.False(t, res.Outcome.Any())
		require.Equal(t, "Profile saved", res.Message())
	})
}
