package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/tokenauth/internal/auth/domain"
	"github.com/aussiebroadwan/tokenauth/internal/auth/store"
)

type ledgerRepo struct {
	db dbtx
}

const ledgerColumns = `id, session_id, user_id, access_token_hash, refresh_token_hash,
	access_expires_at, refresh_expires_at, user_agent, ip_address, superseded_by, created_at`

func (r *ledgerRepo) CreateEntry(ctx context.Context, e domain.LedgerEntry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO token_ledger (`+ledgerColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, NULL, ?)`,
		e.ID, e.SessionID, e.UserID, e.AccessTokenHash, e.RefreshTokenHash,
		unix(e.AccessTokenExpiresAt), unix(e.RefreshTokenExpiresAt),
		e.Requester.UserAgent, e.Requester.IPAddress,
		unix(e.CreatedAt),
	)
	return mapConstraint(err)
}

func (r *ledgerRepo) FindPairing(
	ctx context.Context,
	accessHash, refreshHash string,
	now time.Time,
) (domain.LedgerEntry, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+ledgerColumns+` FROM token_ledger
		 WHERE access_token_hash = ? AND refresh_token_hash = ?
		   AND superseded_by IS NULL AND refresh_expires_at > ?`,
		accessHash, refreshHash, unix(now),
	)
	return scanEntry(row)
}

func (r *ledgerRepo) FindActiveByAccessToken(
	ctx context.Context,
	accessHash string,
	now time.Time,
) (domain.LedgerEntry, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+ledgerColumns+` FROM token_ledger
		 WHERE access_token_hash = ?
		   AND superseded_by IS NULL AND refresh_expires_at > ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT 1`,
		accessHash, unix(now),
	)
	return scanEntry(row)
}

func (r *ledgerRepo) Supersede(ctx context.Context, id, nextID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE token_ledger SET superseded_by = ? WHERE id = ? AND superseded_by IS NULL`,
		nextID, id,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *ledgerRepo) DeleteExpiredEntries(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM token_ledger
		 WHERE refresh_expires_at <= ?
		    OR (superseded_by IS NOT NULL AND access_expires_at <= ?)`,
		unix(now), unix(now),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanEntry(row *sql.Row) (domain.LedgerEntry, error) {
	var (
		e                     domain.LedgerEntry
		accessExp, refreshExp int64
		created               int64
		supersededBy          sql.NullString
	)
	err := row.Scan(
		&e.ID, &e.SessionID, &e.UserID, &e.AccessTokenHash, &e.RefreshTokenHash,
		&accessExp, &refreshExp, &e.Requester.UserAgent, &e.Requester.IPAddress,
		&supersededBy, &created,
	)
	if err != nil {
		return domain.LedgerEntry{}, mapNotFound(err)
	}
	e.AccessTokenExpiresAt = fromUnix(accessExp)
	e.RefreshTokenExpiresAt = fromUnix(refreshExp)
	e.SupersededBy = mapNullString(supersededBy)
	e.CreatedAt = fromUnix(created)
	return e, nil
}
