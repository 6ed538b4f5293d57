package session

import (
	"context"
	"database/sql"
	"sync"

	"github.com/budgetup/budgetup/internal/client/repositories/metadata"
	"github.com/budgetup/budgetup/internal/common"
	"github.com/budgetup/budgetup/internal/dbx"
)

// Record is the persisted form of a session: the raw bearer token and the
// serialised user. A zero field means the entry is absent.
type Record struct {
	Token string
	User  string
}

// Empty reports whether neither entry is present.
func (r Record) Empty() bool { return r.Token == "" && r.User == "" }

// Partial reports whether exactly one entry is present.
func (r Record) Partial() bool { return (r.Token == "") != (r.User == "") }

// Storage persists the session record. Save and Clear act on both entries as
// one operation, so a reader never observes half a session.
type Storage interface {
	Load(ctx context.Context) (Record, error)
	Save(ctx context.Context, rec Record) error
	Clear(ctx context.Context) error
}

// SQLiteStorage keeps the record in the metadata table under the "token"
// and "currentUser" keys.
type SQLiteStorage struct {
	db *sql.DB
}

func NewSQLiteStorage(db *sql.DB) *SQLiteStorage {
	return &SQLiteStorage{db: db}
}

func (s *SQLiteStorage) Load(ctx context.Context) (Record, error) {
	var rec Record
	err := dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		var err error
		if rec.Token, _, err = repo.Get(ctx, common.TokenKey); err != nil {
			return err
		}
		rec.User, _, err = repo.Get(ctx, common.CurrentUserKey)
		return err
	})
	return rec, err
}

func (s *SQLiteStorage) Save(ctx context.Context, rec Record) error {
	return dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, common.TokenKey, rec.Token); err != nil {
			return err
		}
		return repo.Set(ctx, common.CurrentUserKey, rec.User)
	})
}

func (s *SQLiteStorage) Clear(ctx context.Context) error {
	return metadata.NewSQLiteRepository(s.db).Delete(ctx, common.TokenKey, common.CurrentUserKey)
}

// MemoryStorage is a process-local Storage. It backs tests and the client's
// -d ":memory:" mode.
type MemoryStorage struct {
	mu  sync.Mutex
	rec Record

	// SaveErr and ClearErr, when set, are returned instead of writing.
	SaveErr  error
	ClearErr error
}

func NewMemoryStorage(rec Record) *MemoryStorage {
	return &MemoryStorage{rec: rec}
}

func (m *MemoryStorage) Load(context.Context) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rec, nil
}

func (m *MemoryStorage) Save(_ context.Context, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.rec = rec
	return nil
}

func (m *MemoryStorage) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ClearErr != nil {
		return m.ClearErr
	}
	m.rec = Record{}
	return nil
}

// Snapshot returns the currently stored record.
func (m *MemoryStorage) Snapshot() Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rec
}
