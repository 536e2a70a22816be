package service

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/accounts/internal/accounts/domain"
	"github.com/aussiebroadwan/accounts/internal/accounts/store"
	"github.com/aussiebroadwan/accounts/internal/accounts/store/drivers/memory"
	"github.com/aussiebroadwan/accounts/internal/accounts/store/drivers/sqlite"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testClock = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

type fixture struct {
	store    *sqlite.Store
	profiles *memory.Profiles
	sessions *countingSessions

	sessionMgr *SessionManager
	auth       *AuthService
	profile    *ProfileService
}

// countingSessions records how often the session store is read.
type countingSessions struct {
	*memory.Sessions
	gets int
}

func (c *countingSessions) GetSession(ctx context.Context, key string) (domain.Session, error) {
	c.gets++
	return c.Sessions.GetSession(ctx, key)
}

var _ store.Sessions = (*countingSessions)(nil)

func newFixture(t testing.TB) *fixture {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	f := &fixture{
		store:    st,
		profiles: memory.NewProfiles(),
		sessions: &countingSessions{Sessions: memory.NewSessions()},
	}

	f.sessionMgr = &SessionManager{Store: f.sessions, Prefix: "test_session:", TTL: time.Hour}
	f.auth = &AuthService{
		Store:        st,
		Profiles:     f.profiles,
		Sessions:     f.sessionMgr,
		PasswordCost: bcrypt.MinCost,
		Now:          func() time.Time { return testClock },
	}
	f.profile = &ProfileService{
		Sessions: f.sessionMgr,
		Store:    st,
		Profiles: f.profiles,
		Now:      func() time.Time { return testClock.Add(time.Hour) },
	}
	return f
}

func adaInput() RegisterInput {
	return RegisterInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Username:  "ada",
		Password:  "analytical-engine",
	}
}

// register creates the ada account and returns its id.
func (f *fixture) register(t testing.TB) string {
	t.Helper()

	res, err := f.auth.Register(context.Background(), adaInput())
	require.NoError(t, err)
	return res.UserID
}

// login registers ada and returns a live token.
func (f *fixture) login(t testing.TB) (userID, token string) {
	t.Helper()

	userID = f.register(t)
	res, err := f.auth.Login(context.Background(), LoginInput{
		Identifier: "ada",
		Password:   "analytical-engine",
	})
	require.NoError(t, err)
	require.True(t, res.SessionStored)
	return userID, res.Token
}

func validationFields(t testing.TB, err error) map[string]string {
	t.Helper()

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	return verr.Fields
}
