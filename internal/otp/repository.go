package otp

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists one-time codes keyed by uid.
type Repository interface {
	// Upsert atomically replaces any existing record for the uid. After it
	// returns, exactly one record exists for the uid, even under concurrent
	// issuance.
	Upsert(ctx context.Context, rec Record) error
	// Find returns the current record for the uid, or nil.
	Find(ctx context.Context, uid string) (*Record, error)
	// Delete removes the record only if it still holds the given code and
	// reports whether one was removed. The condition keeps a reissue that
	// lands after the caller's Find from being consumed by a stale code.
	Delete(ctx context.Context, uid, code string) (bool, error)
}

// PostgresRepository stores codes in PostgreSQL. The uid primary key makes
// supersession a single upsert instead of a racy delete-then-insert.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed OTP repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Upsert inserts or replaces the code for the uid in one statement.
func (r *PostgresRepository) Upsert(ctx context.Context, rec Record) error {
	_, err := r.db.Exec(ctx, `INSERT INTO otp_codes (uid, code, issued_at)
        VALUES ($1, $2, $3)
        ON CONFLICT (uid) DO UPDATE SET code = EXCLUDED.code, issued_at = EXCLUDED.issued_at`,
		rec.UID, rec.Code, rec.IssuedAt.UTC())
	return err
}

// Find fetches the current code for the uid.
func (r *PostgresRepository) Find(ctx context.Context, uid string) (*Record, error) {
	row := r.db.QueryRow(ctx, `SELECT uid, code, issued_at FROM otp_codes WHERE uid = $1`, uid)
	var rec Record
	if err := row.Scan(&rec.UID, &rec.Code, &rec.IssuedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query otp: %w", err)
	}
	rec.IssuedAt = rec.IssuedAt.UTC()
	return &rec, nil
}

// Delete removes the code for the uid if it still matches.
func (r *PostgresRepository) Delete(ctx context.Context, uid, code string) (bool, error) {
	cmd, err := r.db.Exec(ctx, `DELETE FROM otp_codes WHERE uid = $1 AND code = $2`, uid, code)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() == 1, nil
}
