// Package redis keeps sessions as JSON values under expiring keys.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/accounts/internal/accounts/domain"
	"github.com/aussiebroadwan/accounts/internal/accounts/store"
	goredis "github.com/redis/go-redis/v9"
)

type Config struct {
	Addr     string
	Password string
	DB       int
	Timeout  time.Duration // dial, read and write timeout
}

// Store wraps a pooled go-redis client. Each command checks a connection out
// of the pool for its own duration only.
type Store struct {
	client *goredis.Client
}

var _ store.Sessions = (*Store)(nil)

// NewStore builds a client. Connections are dialled on demand, so an
// unreachable server shows up as command errors and in Ping.
func NewStore(cfg Config) *Store {
	opts := &goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	if cfg.Timeout > 0 {
		opts.DialTimeout = cfg.Timeout
		opts.ReadTimeout = cfg.Timeout
		opts.WriteTimeout = cfg.Timeout
	}

	return &Store{client: goredis.NewClient(opts)}
}

func (s *Store) PutSession(ctx context.Context, key string, sess domain.Session, ttl time.Duration) error {
	value, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return s.client.Set(ctx, key, value, ttl).Err()
}

func (s *Store) GetSession(ctx context.Context, key string) (domain.Session, error) {
	value, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return domain.Session{}, store.ErrNotFound
	}
	if err != nil {
		return domain.Session{}, err
	}

	var sess domain.Session
	if err := json.Unmarshal(value, &sess); err != nil {
		return domain.Session{}, fmt.Errorf("decode session: %w", err)
	}
	return sess, nil
}

func (s *Store) DeleteSession(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) Close() error {
	return s.client.Close()
}
