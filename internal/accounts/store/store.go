package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/accounts/internal/accounts/domain"
)

var (
	ErrNotFound = errors.New("store: not found")

	// ErrDuplicateEmail and ErrDuplicateUsername are returned by CreateAccount
	// when the corresponding UNIQUE constraint rejects the row.
	ErrDuplicateEmail    = errors.New("store: duplicate email")
	ErrDuplicateUsername = errors.New("store: duplicate username")
)

// Store is the credential store. Concrete drivers (sqlite, postgres)
// implement this. It exposes the accounts repository as a method so the
// driver keeps control of how queries are bound to the connection.
type Store interface {
	Accounts() Accounts

	// ApplyMigrations brings the schema up to date using the embedded
	// migrations for the driver.
	ApplyMigrations() error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

type Accounts interface {
	// CreateAccount inserts a new account (id is provided by the app via ULID).
	// Uniqueness violations map to ErrDuplicateEmail / ErrDuplicateUsername.
	CreateAccount(ctx context.Context, a domain.Account) error

	GetAccountByID(ctx context.Context, id string) (domain.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (domain.Account, error)
	GetAccountByUsername(ctx context.Context, username string) (domain.Account, error)

	// GetAccountByLogin matches identifier against username OR email in a
	// single lookup.
	GetAccountByLogin(ctx context.Context, identifier string) (domain.Account, error)

	// UpdateNames sets first/last name and bumps updated_at. Returns
	// ErrNotFound when no row was changed.
	UpdateNames(ctx context.Context, id, firstName, lastName string) error

	// TouchLastLogin records a successful login.
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
}

// Profiles is the document store of extended profile attributes keyed by
// user id.
type Profiles interface {
	// GetProfile returns ErrNotFound when no document exists.
	GetProfile(ctx context.Context, userID string) (domain.Profile, error)

	// CreateProfile inserts the initial document written at registration.
	CreateProfile(ctx context.Context, p domain.Profile) error

	// UpsertProfile overwrites the mutable fields and sets updatedAt to now.
	// When no document exists one is created using seed for the identity
	// fields and createdAt.
	UpsertProfile(ctx context.Context, seed domain.Profile, fields domain.ProfileFields, now time.Time) error

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Sessions is the key-value store of live sessions. Keys are opaque to the
// store; expiry is enforced by the store.
type Sessions interface {
	PutSession(ctx context.Context, key string, s domain.Session, ttl time.Duration) error

	// GetSession returns ErrNotFound for missing or expired keys.
	GetSession(ctx context.Context, key string) (domain.Session, error)

	// DeleteSession removes key. Deleting a missing key is not an error.
	DeleteSession(ctx context.Context, key string) error

	Ping(ctx context.Context) error
	Close() error
}
