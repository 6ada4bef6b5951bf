package credit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ola-fintech/microcredit/internal/apperror"
)

// Eligibility failures surfaced by Insert. Exposed so callers can branch on
// the outcome with errors.Is.
var (
	// ErrActiveRequestExists means a pending, active or extended request
	// already blocks the user.
	ErrActiveRequestExists = apperror.BusinessRule("user already has an active or pending credit request")
	// ErrCooldownActive means a rejection still blocks the user.
	ErrCooldownActive = apperror.BusinessRule("a new request is only allowed 180 days after a rejection")
)

// Repository persists credit requests. Lookups return (nil, nil) when no
// request matches.
type Repository interface {
	// Insert persists a new pending request. The eligibility checks and the
	// insert are a single atomic operation against the store: two concurrent
	// inserts for the same uid cannot both succeed.
	Insert(ctx context.Context, req Request, cooldownStart time.Time) (string, error)
	FindByID(ctx context.Context, id string) (*Request, error)
	// FindBlocking returns the request currently blocking the user, if any.
	FindBlocking(ctx context.Context, uid string) (*Request, error)
	// FindRejectedSince returns the most recent rejected request whose OTP
	// was issued at or after the given instant.
	FindRejectedSince(ctx context.Context, uid string, since time.Time) (*Request, error)
	FindActive(ctx context.Context, uid string) (*Request, error)
	// SetExtensionRequested flips only the extension_requested field.
	SetExtensionRequested(ctx context.Context, id string) error
	// UpdateDecision writes only the decision fields (status, approved amount).
	UpdateDecision(ctx context.Context, id string, status Status, approvedAmount *float64) (*Request, error)
	ListByUID(ctx context.Context, uid string) ([]Request, error)
}

// PostgresRepository implements Repository using PostgreSQL. The
// single-blocking-request invariant is enforced by a partial unique index:
//
//	CREATE UNIQUE INDEX credit_requests_one_blocking_per_uid
//	    ON credit_requests (uid)
//	    WHERE status IN ('pending', 'active', 'extended');
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed credit repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const requestColumns = `id, uid, status, requested_amount, current_interest, admin_fee, vat,
        total_payable, due_date, otp_code, otp_issued_at, approved_amount, extension_requested,
        extension, created_at`

// Insert runs the eligibility checks and the insert in one transaction. The
// partial unique index closes the race two concurrent transactions would
// otherwise win together.
func (r *PostgresRepository) Insert(ctx context.Context, req Request, cooldownStart time.Time) (string, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM credit_requests
        WHERE uid = $1 AND status IN ('pending', 'active', 'extended'))`, req.UID).Scan(&exists); err != nil {
		return "", err
	}
	if exists {
		return "", ErrActiveRequestExists
	}

	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM credit_requests
        WHERE uid = $1 AND status = 'rejected' AND otp_issued_at >= $2)`, req.UID, cooldownStart.UTC()).Scan(&exists); err != nil {
		return "", err
	}
	if exists {
		return "", ErrCooldownActive
	}

	_, err = tx.Exec(ctx, `INSERT INTO credit_requests (`+requestColumns+`)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		req.ID, req.UID, string(req.Status), req.RequestedAmount, req.CurrentInterest, req.AdminFee, req.VAT,
		req.TotalPayable, req.DueDate, req.OTPCode, req.OTPIssuedAt.UTC(), req.ApprovedAmount,
		req.ExtensionRequested, req.Extension, req.CreatedAt.UTC())
	if err != nil {
		if isUniqueViolation(err) {
			// A concurrent request won the insert between our check and now.
			return "", ErrActiveRequestExists
		}
		return "", err
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return req.ID, nil
}

// FindByID fetches a request by identifier.
func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*Request, error) {
	return r.findOne(ctx, `SELECT `+requestColumns+` FROM credit_requests WHERE id = $1`, id)
}

// FindBlocking returns the pending, active or extended request for the user, if any.
func (r *PostgresRepository) FindBlocking(ctx context.Context, uid string) (*Request, error) {
	return r.findOne(ctx, `SELECT `+requestColumns+` FROM credit_requests
        WHERE uid = $1 AND status IN ('pending', 'active', 'extended')`, uid)
}

// FindRejectedSince returns the most recent rejected request inside the window.
func (r *PostgresRepository) FindRejectedSince(ctx context.Context, uid string, since time.Time) (*Request, error) {
	return r.findOne(ctx, `SELECT `+requestColumns+` FROM credit_requests
        WHERE uid = $1 AND status = 'rejected' AND otp_issued_at >= $2
        ORDER BY otp_issued_at DESC LIMIT 1`, uid, since.UTC())
}

// FindActive returns the active request for the user, if any.
func (r *PostgresRepository) FindActive(ctx context.Context, uid string) (*Request, error) {
	return r.findOne(ctx, `SELECT `+requestColumns+` FROM credit_requests
        WHERE uid = $1 AND status = 'active'`, uid)
}

// SetExtensionRequested flips the extension flag without touching any other field.
func (r *PostgresRepository) SetExtensionRequested(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `UPDATE credit_requests SET extension_requested = TRUE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("credit request %s not found", id)
	}
	return nil
}

// UpdateDecision writes the decision fields and returns the updated request.
func (r *PostgresRepository) UpdateDecision(ctx context.Context, id string, status Status, approvedAmount *float64) (*Request, error) {
	cmd, err := r.db.Exec(ctx, `UPDATE credit_requests
        SET status = $1, approved_amount = COALESCE($2, approved_amount) WHERE id = $3`,
		string(status), approvedAmount, id)
	if err != nil {
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, nil
	}
	return r.FindByID(ctx, id)
}

// ListByUID returns the full request history for a user, newest first.
func (r *PostgresRepository) ListByUID(ctx context.Context, uid string) ([]Request, error) {
	rows, err := r.db.Query(ctx, `SELECT `+requestColumns+` FROM credit_requests
        WHERE uid = $1 ORDER BY created_at DESC`, uid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := make([]Request, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *req)
	}
	return requests, rows.Err()
}

func (r *PostgresRepository) findOne(ctx context.Context, query string, args ...any) (*Request, error) {
	row := r.db.QueryRow(ctx, query, args...)
	req, err := scanRequest(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query credit request: %w", err)
	}
	return req, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRequest(row rowScanner) (*Request, error) {
	var (
		req       Request
		status    string
		issuedAt  time.Time
		createdAt time.Time
	)
	if err := row.Scan(&req.ID, &req.UID, &status, &req.RequestedAmount, &req.CurrentInterest,
		&req.AdminFee, &req.VAT, &req.TotalPayable, &req.DueDate, &req.OTPCode, &issuedAt,
		&req.ApprovedAmount, &req.ExtensionRequested, &req.Extension, &createdAt); err != nil {
		return nil, err
	}
	req.Status = Status(status)
	req.OTPIssuedAt = issuedAt.UTC()
	req.CreatedAt = createdAt.UTC()
	return &req, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
