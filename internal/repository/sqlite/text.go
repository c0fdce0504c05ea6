package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sakif/textshare/internal/apperror"
	"github.com/sakif/textshare/internal/model"
	"github.com/sakif/textshare/internal/repository"
)

// Compile-time check that *DB implements the repository contract.
var _ repository.TextRepository = (*DB)(nil)

// Save writes a snippet, overwriting any existing record at the same id.
//
// INSERT ... ON CONFLICT makes the overwrite a single atomic statement —
// there is no window where a concurrent Load sees half a record. Save is
// the write path for both creation and activity refresh, so CreatedAt is
// only stamped when the caller hasn't set it (first save).
func (db *DB) Save(ctx context.Context, snippet *model.Snippet) error {
	if snippet.CreatedAt.IsZero() {
		snippet.CreatedAt = time.Now()
	}
	if snippet.LastActivity.IsZero() {
		snippet.LastActivity = snippet.CreatedAt
	}

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO texts
		   (id, text, syntax, created_at, last_activity, expires_at,
		    is_protected, password_hash, password_salt)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   text          = excluded.text,
		   syntax        = excluded.syntax,
		   last_activity = excluded.last_activity,
		   expires_at    = excluded.expires_at,
		   is_protected  = excluded.is_protected,
		   password_hash = excluded.password_hash,
		   password_salt = excluded.password_salt`,
		snippet.ID,
		snippet.Text,
		snippet.Syntax,
		snippet.CreatedAt,
		snippet.LastActivity,
		nullableTime(snippet.ExpiresAt),
		snippet.IsProtected,
		snippet.PasswordHash,
		snippet.PasswordSalt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: saving text %s: %w", snippet.ID, err)
	}
	return nil
}

// Load reads a snippet by id, enforcing lazy expiration: an expired record
// is deleted on the spot and reported as not found, so there is no
// background sweeper to run and a second read is not-found too.
func (db *DB) Load(ctx context.Context, id string) (*model.Snippet, error) {
	var (
		snippet   model.Snippet
		expiresAt sql.NullTime
	)

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, text, syntax, created_at, last_activity, expires_at,
		        is_protected, password_hash, password_salt
		 FROM texts
		 WHERE id = ?`,
		id,
	).Scan(
		&snippet.ID,
		&snippet.Text,
		&snippet.Syntax,
		&snippet.CreatedAt,
		&snippet.LastActivity,
		&expiresAt,
		&snippet.IsProtected,
		&snippet.PasswordHash,
		&snippet.PasswordSalt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("text", id)
		}
		return nil, fmt.Errorf("sqlite: loading text %s: %w", id, err)
	}

	if expiresAt.Valid {
		t := expiresAt.Time
		snippet.ExpiresAt = &t
	}

	if snippet.Expired(time.Now()) {
		// Best effort: even if the delete fails, the caller still sees
		// not-found and the next read retries the cleanup.
		_ = db.Delete(ctx, id)
		return nil, apperror.NotFound("text", id)
	}

	return &snippet, nil
}

// Delete removes a snippet. Deleting an absent id is a no-op, not an error —
// expiration and explicit deletes race, and both ending in "gone" is fine.
func (db *DB) Delete(ctx context.Context, id string) error {
	_, err := db.conn.ExecContext(ctx, `DELETE FROM texts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting text %s: %w", id, err)
	}
	return nil
}

// Exists reports whether a record is stored under id. Expired-but-not-yet-
// reaped records count as existing — the code generator must not hand out an
// id that still has a row, even one about to be reaped.
func (db *DB) Exists(ctx context.Context, id string) (bool, error) {
	var one int
	err := db.conn.QueryRowContext(ctx,
		`SELECT 1 FROM texts WHERE id = ?`, id,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("sqlite: checking text %s: %w", id, err)
	}
	return true, nil
}

// nullableTime converts a *time.Time into the driver's nullable form.
func nullableTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
