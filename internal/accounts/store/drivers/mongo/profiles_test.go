package mongo_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aussiebroadwan/accounts/internal/accounts/domain"
	"github.com/aussiebroadwan/accounts/internal/accounts/store"
	"github.com/aussiebroadwan/accounts/internal/accounts/store/drivers/mongo"
	"github.com/aussiebroadwan/accounts/pkg/idx"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupMongo(t *testing.T) *mongo.Store {
	t.Helper()
	if testing.Short() {
		t.Skip("mongo container tests skipped in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mongo:7",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor: wait.ForLog("Waiting for connections").
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "27017/tcp")
	require.NoError(t, err)

	st, err := mongo.NewStore(ctx, mongo.Config{
		URI:      fmt.Sprintf("mongodb://%s:%s", host, port.Port()),
		Database: "accounts_test",
		Timeout:  10 * time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close(context.Background()) })
	require.NoError(t, st.EnsureIndexes(ctx))

	return st
}

func ptr[T any](v T) *T { return &v }

func TestMongoProfiles(t *testing.T) {
	st := setupMongo(t)
	ctx := context.Background()

	t.Run("missing profile", func(t *testing.T) {
		_, err := st.GetProfile(ctx, idx.New().String())
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("create then read", func(t *testing.T) {
		now := time.Now().UTC().Truncate(time.Millisecond)
		p := domain.Profile{
			UserID:    idx.New().String(),
			Username:  "ada",
			Email:     "ada@example.com",
			FirstName: "Ada",
			LastName:  "Lovelace",
			CreatedAt: &now,
			UpdatedAt: &now,
		}
		require.NoError(t, st.CreateProfile(ctx, p))

		got, err := st.GetProfile(ctx, p.UserID)
		require.NoError(t, err)
		require.Equal(t, "ada", got.Username)
		require.Nil(t, got.Age)
		require.Nil(t, got.Bio)
		require.NotNil(t, got.CreatedAt)
		require.True(t, now.Equal(*got.CreatedAt))

		// user_id is unique
		require.Error(t, st.CreateProfile(ctx, p))
	})

	t.Run("upsert creates and then updates", func(t *testing.T) {
		seed := domain.Profile{UserID: idx.New().String(), Username: "grace", Email: "grace@example.com"}

		first := time.Now().UTC()
		require.NoError(t, st.UpsertProfile(ctx, seed, domain.ProfileFields{
			FirstName: "Grace",
			LastName:  "Hopper",
			Age:       ptr(85),
			Contact:   ptr("555-123-4567"),
		}, first))

		got, err := st.GetProfile(ctx, seed.UserID)
		require.NoError(t, err)
		require.Equal(t, "grace", got.Username)
		require.Equal(t, 85, *got.Age)
		require.Equal(t, "555-123-4567", *got.Contact)
		require.NotNil(t, got.CreatedAt)
		createdAt := *got.CreatedAt

		require.NoError(t, st.UpsertProfile(ctx, seed, domain.ProfileFields{
			FirstName: "Grace",
			LastName:  "Hopper",
			City:      ptr("Arlington"),
		}, first.Add(time.Minute)))

		got, err = st.GetProfile(ctx, seed.UserID)
		require.NoError(t, err)
		require.Nil(t, got.Age, "absent fields are stored as null")
		require.Equal(t, "Arlington", *got.City)
		require.True(t, createdAt.Equal(*got.CreatedAt), "createdAt is only set on insert")
		require.True(t, got.UpdatedAt.After(createdAt))
	})

	t.Run("ping", func(t *testing.T) {
		require.NoError(t, st.Ping(ctx))
	})

	t.Run("ensure indexes is idempotent", func(t *testing.T) {
		require.NoError(t, st.EnsureIndexes(ctx))
		require.NoError(t, st.EnsureIndexes(ctx))
	})
}

func TestMongoUnreachableAtStartup(t *testing.T) {
	ctx := context.Background()

	// Nothing listens on port 1; the client is built without dialling.
	st, err := mongo.NewStore(ctx, mongo.Config{
		URI:      "mongodb://127.0.0.1:1",
		Database: "accounts_test",
		Timeout:  200 * time.Millisecond,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close(context.Background()) })

	require.Error(t, st.Ping(ctx))
	require.Error(t, st.EnsureIndexes(ctx))

	_, err = st.GetProfile(ctx, idx.New().String())
	require.Error(t, err)
	require.NotErrorIs(t, err, store.ErrNotFound)

	require.Error(t, st.CreateProfile(ctx, domain.Profile{UserID: idx.New().String()}))
}

func TestMongoMalformedURI(t *testing.T) {
	_, err := mongo.NewStore(context.Background(), mongo.Config{URI: "not-a-uri"})
	require.Error(t, err)
}
