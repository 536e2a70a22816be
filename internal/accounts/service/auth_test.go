package service

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/accounts/internal/accounts/store"
	"github.com/aussiebroadwan/accounts/pkg/cryptox"
	"github.com/aussiebroadwan/accounts/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates account and profile", func(t *testing.T) {
		f := newFixture(t)

		res, err := f.auth.Register(ctx, adaInput())
		require.NoError(t, err)
		require.Equal(t, Outcome{Primary: true, Secondary: true}, res.Outcome)

		id, err := idx.Parse(res.UserID)
		require.NoError(t, err)
		require.True(t, testClock.Equal(id.Time()))

		acct, err := f.store.Accounts().GetAccountByID(ctx, res.UserID)
		require.NoError(t, err)
		require.Equal(t, "ada", acct.Username)
		require.Equal(t, "ada@example.com", acct.Email)
		require.NotEqual(t, "analytical-engine", acct.PasswordHash)
		require.NoError(t, cryptox.VerifyPassword("analytical-engine", acct.PasswordHash))

		doc, err := f.profiles.GetProfile(ctx, res.UserID)
		require.NoError(t, err)
		require.Equal(t, "Ada", doc.FirstName)
		require.Equal(t, "Lovelace", doc.LastName)
		require.Nil(t, doc.Age)
		require.Equal(t, testClock, *doc.CreatedAt)
	})

	t.Run("profile store outage does not fail registration", func(t *testing.T) {
		f := newFixture(t)
		f.profiles.Break()

		res, err := f.auth.Register(ctx, adaInput())
		require.NoError(t, err)
		require.Equal(t, Outcome{Primary: true}, res.Outcome)

		_, err = f.store.Accounts().GetAccountByID(ctx, res.UserID)
		require.NoError(t, err)
	})

	t.Run("duplicate email", func(t *testing.T) {
		f := newFixture(t)
		f.register(t)

		in := adaInput()
		in.Username = "countess"
		in.Email = " ADA@Example.com"
		_, err := f.auth.Register(ctx, in)
		require.ErrorIs(t, err, ErrDuplicateEmail)
		require.Equal(t, map[string]string{"email": "This email is already registered"}, validationFields(t, err))
	})

	t.Run("duplicate username", func(t *testing.T) {
		f := newFixture(t)
		f.register(t)

		in := adaInput()
		in.Username = "ADA"
		in.Email = "countess@example.com"
		_, err := f.auth.Register(ctx, in)
		require.ErrorIs(t, err, ErrDuplicateUsername)
		require.Equal(t, map[string]string{"username": "This username is already taken"}, validationFields(t, err))
	})

	t.Run("duplicate caught by constraint", func(t *testing.T) {
		require.ErrorIs(t, duplicate(store.ErrDuplicateUsername), ErrDuplicateUsername)
		require.ErrorIs(t, duplicate(store.ErrDuplicateEmail), ErrDuplicateEmail)
	})

	t.Run("invalid input writes nothing", func(t *testing.T) {
		f := newFixture(t)

		in := adaInput()
		in.FirstName = "A"
		_, err := f.auth.Register(ctx, in)
		require.Contains(t, validationFields(t, err), "firstName")

		_, err = f.store.Accounts().GetAccountByUsername(ctx, "ada")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("credential store outage", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.store.Close())

		_, err := f.auth.Register(ctx, adaInput())
		require.ErrorIs(t, err, ErrStorageUnavailable)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("by username or email", func(t *testing.T) {
		f := newFixture(t)
		userID := f.register(t)

		for _, identifier := range []string{"ada", "ADA", "ada@example.com", " Ada@Example.com "} {
			res, err := f.auth.Login(ctx, LoginInput{Identifier: identifier, Password: "analytical-engine", SourceAddress: "203.0.113.9"})
			require.NoError(t, err, identifier)
			require.True(t, res.SessionStored)
			require.Equal(t, userID, res.Session.UserID)
			require.Equal(t, "ada", res.Session.Username)
			require.Equal(t, testClock, res.Session.LoginTime)

			sess, err := f.auth.ValidateSession(ctx, res.Token)
			require.NoError(t, err)
			require.Equal(t, "203.0.113.9", sess.SourceAddress)
		}

		acct, err := f.store.Accounts().GetAccountByID(ctx, userID)
		require.NoError(t, err)
		require.NotNil(t, acct.LastLoginAt)
		require.True(t, testClock.Equal(*acct.LastLoginAt))
	})

	t.Run("failures are indistinguishable", func(t *testing.T) {
		f := newFixture(t)
		f.register(t)

		_, wrongPassword := f.auth.Login(ctx, LoginInput{Identifier: "ada", Password: "difference-engine"})
		_, unknownUser := f.auth.Login(ctx, LoginInput{Identifier: "babbage", Password: "analytical-engine"})

		require.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
		require.ErrorIs(t, unknownUser, ErrInvalidCredentials)
		require.Equal(t, wrongPassword.Error(), unknownUser.Error())
		require.Zero(t, f.sessions.Len())
	})

	t.Run("missing fields", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.auth.Login(ctx, LoginInput{})
		require.Len(t, validationFields(t, err), 2)
	})

	t.Run("session store outage still returns a token", func(t *testing.T) {
		f := newFixture(t)
		f.register(t)
		f.sessions.Break()

		res, err := f.auth.Login(ctx, LoginInput{Identifier: "ada", Password: "analytical-engine"})
		require.NoError(t, err)
		require.NotEmpty(t, res.Token)
		require.False(t, res.SessionStored)

		f.sessions.Restore()
		_, err = f.auth.ValidateSession(ctx, res.Token)
		require.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("credential store outage", func(t *testing.T) {
		f := newFixture(t)
		f.register(t)
		require.NoError(t, f.store.Close())

		_, err := f.auth.Login(ctx, LoginInput{Identifier: "ada", Password: "analytical-engine"})
		require.ErrorIs(t, err, ErrStorageUnavailable)
	})
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, token := f.login(t)

	f.auth.Logout(ctx, token)
	_, err := f.auth.ValidateSession(ctx, token)
	require.ErrorIs(t, err, ErrUnauthorized)

	// Repeated, blank and unknown tokens are all fine.
	f.auth.Logout(ctx, token)
	f.auth.Logout(ctx, "")
	f.auth.Logout(ctx, "not-a-token")

	f.sessions.Break()
	f.auth.Logout(ctx, token)
}
