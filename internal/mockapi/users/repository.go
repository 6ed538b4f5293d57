package users

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/budgetup/budgetup/internal/mockapi/domain"
	"github.com/budgetup/budgetup/internal/mockapi/id"
)

type Repository interface {
	Create(ctx context.Context, user *User) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
}

// MemoryRepository keeps users in process memory. Emails are matched
// case-insensitively. Values handed in or out are copies.
type MemoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]*User
	byEmail map[string]string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:    make(map[string]*User),
		byEmail: make(map[string]string),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create stores a new user with a fresh id. A taken email is domain.ErrConflict.
func (r *MemoryRepository) Create(_ context.Context, user *User) (*User, error) {
	key := normalizeEmail(user.Email)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[key]; ok {
		return nil, domain.ErrConflict
	}
	u := user.clone()
	u.ID = id.New()
	u.Email = key
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now

	r.byID[u.ID] = u
	r.byEmail[key] = u.ID
	return u.clone(), nil
}

func (r *MemoryRepository) GetByID(_ context.Context, userID string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u.clone(), nil
}

func (r *MemoryRepository) GetByEmail(_ context.Context, email string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	userID, ok := r.byEmail[normalizeEmail(email)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r.byID[userID].clone(), nil
}

// Update replaces the stored record with the same id. The email is fixed at
// creation.
func (r *MemoryRepository) Update(_ context.Context, user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.byID[user.ID]
	if !ok {
		return domain.ErrNotFound
	}
	u := user.clone()
	u.Email = cur.Email
	u.CreatedAt = cur.CreatedAt
	u.UpdatedAt = time.Now().UTC()
	r.byID[u.ID] = u
	return nil
}
