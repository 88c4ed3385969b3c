package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/tokenauth/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers implement it and
// expose sub-repositories so a transaction hands out the same repos bound to
// the transaction.
type Store interface {
	Users() Users
	Ledger() Ledger

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise. Inside fn only the repos of tx may be used.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail matches case-insensitively.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user. ErrAlreadyExists when the email is taken.
	CreateUser(ctx context.Context, u domain.User) error
}

// Ledger is the durable record of issued token pairs.
type Ledger interface {
	CreateEntry(ctx context.Context, e domain.LedgerEntry) error

	// FindPairing returns the active entry whose access and refresh
	// fingerprints both equal the given ones.
	FindPairing(ctx context.Context, accessHash, refreshHash string, now time.Time) (domain.LedgerEntry, error)

	// FindActiveByAccessToken returns the active entry for an access token
	// regardless of which refresh token it was paired with.
	FindActiveByAccessToken(ctx context.Context, accessHash string, now time.Time) (domain.LedgerEntry, error)

	// Supersede retires entry id in favour of nextID. It only succeeds for a
	// not yet superseded entry and returns ErrNotFound otherwise, which makes
	// it the single-use gate of a refresh exchange.
	Supersede(ctx context.Context, id, nextID string) error

	// DeleteExpiredEntries drops entries whose refresh token has expired, and
	// superseded entries whose access token has expired. It returns how many
	// were removed.
	DeleteExpiredEntries(ctx context.Context, now time.Time) (int64, error)
}
