// Package memory provides process-local profile and session stores. They back
// the service in development when MongoDB or Redis are not configured, and
// serve as controllable doubles in tests.
package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/aussiebroadwan/accounts/internal/accounts/domain"
	"github.com/aussiebroadwan/accounts/internal/accounts/store"
)

// ErrUnavailable is what a store returns once Break has been called.
var ErrUnavailable = errors.New("memory: store unavailable")

// outage lets tests simulate a store that is down.
type outage struct {
	mu  sync.RWMutex
	err error
}

// Break makes every subsequent call fail with ErrUnavailable.
func (o *outage) Break() { o.set(ErrUnavailable) }

// Restore undoes Break.
func (o *outage) Restore() { o.set(nil) }

func (o *outage) set(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.err = err
}

func (o *outage) check() error {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.err
}

type Profiles struct {
	outage

	mu   sync.RWMutex
	docs map[string]domain.Profile
}

var _ store.Profiles = (*Profiles)(nil)

func NewProfiles() *Profiles {
	return &Profiles{docs: make(map[string]domain.Profile)}
}

func (p *Profiles) GetProfile(_ context.Context, userID string) (domain.Profile, error) {
	if err := p.check(); err != nil {
		return domain.Profile{}, err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	doc, ok := p.docs[userID]
	if !ok {
		return domain.Profile{}, store.ErrNotFound
	}
	return doc, nil
}

func (p *Profiles) CreateProfile(_ context.Context, doc domain.Profile) error {
	if err := p.check(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.docs[doc.UserID]; ok {
		return errors.New("memory: profile already exists")
	}
	p.docs[doc.UserID] = doc
	return nil
}

func (p *Profiles) UpsertProfile(_ context.Context, seed domain.Profile, f domain.ProfileFields, now time.Time) error {
	if err := p.check(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	doc, ok := p.docs[seed.UserID]
	if !ok {
		created := now
		doc = domain.Profile{
			UserID:    seed.UserID,
			Username:  seed.Username,
			Email:     seed.Email,
			CreatedAt: &created,
		}
	}

	doc.FirstName = f.FirstName
	doc.LastName = f.LastName
	doc.Age = f.Age
	doc.DOB = f.DOB
	doc.Contact = f.Contact
	doc.Address = f.Address
	doc.City = f.City
	doc.Country = f.Country
	doc.Bio = f.Bio
	doc.UpdatedAt = &now

	p.docs[seed.UserID] = doc
	return nil
}

func (p *Profiles) Ping(context.Context) error  { return p.check() }
func (p *Profiles) Close(context.Context) error { return nil }

type sessionEntry struct {
	session   domain.Session
	expiresAt time.Time
}

type Sessions struct {
	outage

	// Now is the clock used for expiry. Defaults to time.Now.
	Now func() time.Time

	mu      sync.Mutex
	entries map[string]sessionEntry
}

var _ store.Sessions = (*Sessions)(nil)

func NewSessions() *Sessions {
	return &Sessions{Now: time.Now, entries: make(map[string]sessionEntry)}
}

func (s *Sessions) PutSession(_ context.Context, key string, sess domain.Session, ttl time.Duration) error {
	if err := s.check(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = sessionEntry{session: sess, expiresAt: s.Now().Add(ttl)}
	return nil
}

func (s *Sessions) GetSession(_ context.Context, key string) (domain.Session, error) {
	if err := s.check(); err != nil {
		return domain.Session{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return domain.Session{}, store.ErrNotFound
	}
	if !s.Now().Before(e.expiresAt) {
		delete(s.entries, key)
		return domain.Session{}, store.ErrNotFound
	}
	return e.session, nil
}

func (s *Sessions) DeleteSession(_ context.Context, key string) error {
	if err := s.check(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	return nil
}

// Len reports how many keys are held, expired or not.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Sessions) Ping(context.Context) error { return s.check() }
func (s *Sessions) Close() error               { return nil }
