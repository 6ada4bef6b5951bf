package message

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists the delivery log.
type Repository interface {
	Insert(ctx context.Context, m Message) error
	ListByUID(ctx context.Context, uid string) ([]Message, error)
}

// PostgresRepository stores messages in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed message repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Insert appends a delivery attempt to the log.
func (r *PostgresRepository) Insert(ctx context.Context, m Message) error {
	_, err := r.db.Exec(ctx, `INSERT INTO messages
        (id, uid, message_type, status, destination, body, provider_ref, error, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		m.ID, m.UID, m.Type, m.Status, m.Destination, m.Body, m.ProviderRef, m.Error, m.CreatedAt.UTC())
	return err
}

// ListByUID returns every delivery attempt for a user, newest first.
func (r *PostgresRepository) ListByUID(ctx context.Context, uid string) ([]Message, error) {
	rows, err := r.db.Query(ctx, `SELECT id, uid, message_type, status, destination, body,
        provider_ref, error, created_at
        FROM messages WHERE uid = $1 ORDER BY created_at DESC`, uid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]Message, 0)
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.UID, &m.Type, &m.Status, &m.Destination, &m.Body,
			&m.ProviderRef, &m.Error, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.CreatedAt = m.CreatedAt.UTC()
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
