// Package session owns the client's authenticated identity: the bearer token
// and the user record, mirrored to durable storage on every change.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/budgetup/budgetup/internal/client/models"
	"github.com/budgetup/budgetup/internal/logging"
)

// ErrInvalidSession is returned by Login when the token or user is unusable.
var ErrInvalidSession = errors.New("session requires a token and a user with an id")

// State is a read-only view of the store. Token and User are set together
// or not at all.
type State struct {
	IsLoggedIn bool
	Loading    bool
	Token      string
	User       *models.User
}

// Store holds the current session. All mutations go through Login, Logout
// and UpdateUser; each one is persisted before memory changes, so a failed
// write leaves the previous session in place.
type Store struct {
	mu sync.Mutex
	// notifyMu keeps subscriber deliveries in mutation order.
	notifyMu sync.Mutex
	storage  Storage
	logger   logging.Logger

	token   string
	user    *models.User
	loading bool

	nextSubID   int
	subscribers map[int]func(State)
}

// NewStore returns a store in the loading state; call Restore once at start.
func NewStore(storage Storage, logger logging.Logger) *Store {
	return &Store{
		storage:     storage,
		logger:      logger.With("component", "session"),
		loading:     true,
		subscribers: make(map[int]func(State)),
	}
}

// State returns a snapshot of the session.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Store) stateLocked() State {
	return State{
		IsLoggedIn: s.token != "",
		Loading:    s.loading,
		Token:      s.token,
		User:       s.user.Clone(),
	}
}

// Subscribe registers fn to be called with the new state after every change.
// Callbacks run in mutation order on the mutating goroutine. They may call
// State but must not mutate the store.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// Restore loads the persisted session. A well-formed pair becomes the
// current session. Anything else (one entry missing, an undecodable or
// id-less user) is purged and the store starts logged out. Only a storage
// read failure is returned, and even then the store leaves the loading state
// logged out.
func (s *Store) Restore(ctx context.Context) error {
	s.mu.Lock()
	rec, loadErr := s.storage.Load(ctx)

	s.token, s.user, s.loading = "", nil, false
	switch {
	case loadErr != nil:
		s.logger.Error(ctx, "session restore failed", "error", loadErr)
	case rec.Empty():
	default:
		user, ok := decodeUser(rec)
		if ok {
			s.token, s.user = rec.Token, user
			s.logger.Debug(ctx, "session restored", "user_id", user.ID)
			break
		}
		s.logger.Warn(ctx, "discarding corrupt persisted session")
		if err := s.storage.Clear(ctx); err != nil {
			s.logger.Error(ctx, "purge corrupt session", "error", err)
		}
	}
	st := s.stateLocked()
	subs := s.releaseForNotify()

	s.notify(subs, st)
	if loadErr != nil {
		return fmt.Errorf("restore session: %w", loadErr)
	}
	return nil
}

func decodeUser(rec Record) (*models.User, bool) {
	if rec.Partial() {
		return nil, false
	}
	var u *models.User
	if err := json.Unmarshal([]byte(rec.User), &u); err != nil {
		return nil, false
	}
	return u, u.Valid()
}

// Login replaces whatever session is current with (token, user).
func (s *Store) Login(ctx context.Context, token string, user models.User) error {
	if token == "" || !user.Valid() {
		return ErrInvalidSession
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	s.mu.Lock()
	if err := s.storage.Save(ctx, Record{Token: token, User: string(raw)}); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("persist session: %w", err)
	}
	s.token, s.user, s.loading = token, user.Clone(), false
	st := s.stateLocked()
	subs := s.releaseForNotify()

	s.logger.Info(ctx, "logged in", "user_id", user.ID)
	s.notify(subs, st)
	return nil
}

// Logout drops the session from memory and storage.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	if err := s.storage.Clear(ctx); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("clear session: %w", err)
	}
	s.token, s.user = "", nil
	st := s.stateLocked()
	subs := s.releaseForNotify()

	s.logger.Info(ctx, "logged out")
	s.notify(subs, st)
	return nil
}

// UpdateUser merges patch into the current user. It does nothing when no
// one is logged in.
func (s *Store) UpdateUser(ctx context.Context, patch models.UserPatch) error {
	s.mu.Lock()
	if s.token == "" {
		s.mu.Unlock()
		return nil
	}
	updated := s.user.Apply(patch)
	raw, err := json.Marshal(updated)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("encode user: %w", err)
	}
	if err := s.storage.Save(ctx, Record{Token: s.token, User: string(raw)}); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("persist user: %w", err)
	}
	s.user = &updated
	st := s.stateLocked()
	subs := s.releaseForNotify()

	s.notify(subs, st)
	return nil
}

// releaseForNotify hands the store lock over to the notification lock and
// returns the subscribers to call.
func (s *Store) releaseForNotify() []func(State) {
	out := make([]func(State), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		out = append(out, fn)
	}
	s.notifyMu.Lock()
	s.mu.Unlock()
	return out
}

func (s *Store) notify(subs []func(State), st State) {
	defer s.notifyMu.Unlock()
	for _, fn := range subs {
		fn(st)
	}
}
