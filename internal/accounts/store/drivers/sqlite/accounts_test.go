package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/accounts/internal/accounts/domain"
	"github.com/aussiebroadwan/accounts/internal/accounts/store"
	"github.com/aussiebroadwan/accounts/internal/accounts/store/drivers/sqlite"
	"github.com/aussiebroadwan/accounts/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	return st
}

func newAccount(username, email string) domain.Account {
	now := time.Now().UTC().Truncate(time.Second)
	return domain.Account{
		ID:           idx.New().String(),
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Email:        email,
		Username:     username,
		PasswordHash: "$2a$04$notarealhash",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestMigrationsAreIdempotent(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.ApplyMigrations())
	require.NoError(t, st.Ping(context.Background()))
}

func TestAccountsRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newTestStore(t).Accounts()

	acc := newAccount("ada", "ada@example.com")
	require.NoError(t, repo.CreateAccount(ctx, acc))

	t.Run("by id", func(t *testing.T) {
		got, err := repo.GetAccountByID(ctx, acc.ID)
		require.NoError(t, err)
		require.Equal(t, acc.Username, got.Username)
		require.Equal(t, acc.PasswordHash, got.PasswordHash)
		require.WithinDuration(t, acc.CreatedAt, got.CreatedAt, time.Second)
		require.Nil(t, got.LastLoginAt)
	})

	t.Run("by email ignores case", func(t *testing.T) {
		got, err := repo.GetAccountByEmail(ctx, "ADA@example.com")
		require.NoError(t, err)
		require.Equal(t, acc.ID, got.ID)
	})

	t.Run("by username", func(t *testing.T) {
		got, err := repo.GetAccountByUsername(ctx, "ada")
		require.NoError(t, err)
		require.Equal(t, acc.ID, got.ID)
	})

	t.Run("by login matches username or email", func(t *testing.T) {
		for _, ident := range []string{"ada", "ada@example.com"} {
			got, err := repo.GetAccountByLogin(ctx, ident)
			require.NoError(t, err, ident)
			require.Equal(t, acc.ID, got.ID)
		}
	})

	t.Run("missing", func(t *testing.T) {
		_, err := repo.GetAccountByLogin(ctx, "nobody")
		require.ErrorIs(t, err, store.ErrNotFound)

		_, err = repo.GetAccountByID(ctx, idx.New().String())
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestCreateAccountUniqueness(t *testing.T) {
	ctx := context.Background()
	repo := newTestStore(t).Accounts()

	require.NoError(t, repo.CreateAccount(ctx, newAccount("ada", "ada@example.com")))

	err := repo.CreateAccount(ctx, newAccount("grace", "ada@example.com"))
	require.ErrorIs(t, err, store.ErrDuplicateEmail)

	err = repo.CreateAccount(ctx, newAccount("ADA", "other@example.com"))
	require.ErrorIs(t, err, store.ErrDuplicateUsername)
}

func TestUpdateNamesAndLastLogin(t *testing.T) {
	ctx := context.Background()
	repo := newTestStore(t).Accounts()

	acc := newAccount("ada", "ada@example.com")
	require.NoError(t, repo.CreateAccount(ctx, acc))

	require.NoError(t, repo.UpdateNames(ctx, acc.ID, "Augusta", "King"))
	require.ErrorIs(t, repo.UpdateNames(ctx, idx.New().String(), "No", "One"), store.ErrNotFound)

	at := time.Now().UTC()
	require.NoError(t, repo.TouchLastLogin(ctx, acc.ID, at))

	got, err := repo.GetAccountByID(ctx, acc.ID)
	require.NoError(t, err)
	require.Equal(t, "Augusta", got.FirstName)
	require.Equal(t, "King", got.LastName)
	require.NotNil(t, got.LastLoginAt)
	require.WithinDuration(t, at, *got.LastLoginAt, time.Second)
}
