package users

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"sync"
	"time"
)

type Purpose string

const (
	PurposeLogin  Purpose = "login"
	PurposeSignup Purpose = "signup"
)

// maxCodeAttempts wrong guesses burn a code.
const maxCodeAttempts = 5

type pendingCode struct {
	code        string
	displayName string
	expires     time.Time
	attempts    int
}

type codeKey struct {
	purpose Purpose
	email   string
}

// CodeStore holds the one-time codes sent by email, plus the short-lived
// grants that let a freshly verified address choose a password.
type CodeStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	pending map[codeKey]*pendingCode
	grants  map[string]time.Time
}

func NewCodeStore(ttl time.Duration) *CodeStore {
	return &CodeStore{
		ttl:     ttl,
		now:     time.Now,
		pending: make(map[codeKey]*pendingCode),
		grants:  make(map[string]time.Time),
	}
}

// Issue creates a six digit code for email, replacing any earlier one for the
// same purpose.
func (s *CodeStore) Issue(purpose Purpose, email, displayName string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	code := fmt.Sprintf("%06d", n.Int64())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[codeKey{purpose, normalizeEmail(email)}] = &pendingCode{
		code:        code,
		displayName: displayName,
		expires:     s.now().Add(s.ttl),
	}
	return code, nil
}

// Consume checks code and, when it matches, removes it and returns the
// display name stored with it.
func (s *CodeStore) Consume(purpose Purpose, email, code string) (displayName string, ok bool) {
	key := codeKey{purpose, normalizeEmail(email)}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, found := s.pending[key]
	if !found {
		return "", false
	}
	if s.now().After(p.expires) {
		delete(s.pending, key)
		return "", false
	}
	if subtle.ConstantTimeCompare([]byte(p.code), []byte(code)) != 1 {
		p.attempts++
		if p.attempts >= maxCodeAttempts {
			delete(s.pending, key)
		}
		return "", false
	}
	delete(s.pending, key)
	return p.displayName, true
}

// GrantPasswordSetup allows one SetPassword call for email within the code
// lifetime.
func (s *CodeStore) GrantPasswordSetup(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grants[normalizeEmail(email)] = s.now().Add(s.ttl)
}

// TakePasswordSetup consumes the grant for email.
func (s *CodeStore) TakePasswordSetup(email string) bool {
	key := normalizeEmail(email)

	s.mu.Lock()
	defer s.mu.Unlock()

	exp, ok := s.grants[key]
	delete(s.grants, key)
	return ok && !s.now().After(exp)
}
