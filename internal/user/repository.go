package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists users. Lookups return (nil, nil) when no user matches.
type Repository interface {
	Create(ctx context.Context, u User) error
	FindByUID(ctx context.Context, uid string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByDocument(ctx context.Context, documentNumber string) (*User, error)
	// FindMatching returns every user sharing any of the given credentials,
	// used for duplicate checks at registration.
	FindMatching(ctx context.Context, documentNumber, phoneNumber, email string) ([]User, error)
	// UpdateProfile writes only the profile sub-documents, leaving admin and
	// status fields untouched.
	UpdateProfile(ctx context.Context, uid string, personal *PersonalInfo, professional *ProfessionalInfo) (*User, error)
	UpdateBankAccount(ctx context.Context, uid string, account BankAccount) (*User, error)
	Search(ctx context.Context, f Filter) ([]User, error)
	Count(ctx context.Context, f Filter) (int, error)
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed user repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `uid, username, document_type, document_number, email, phone_number,
        admin, status, financial_check, personal_info, professional_info, bank_account, created_at`

// Create inserts a new user row.
func (r *PostgresRepository) Create(ctx context.Context, u User) error {
	_, err := r.db.Exec(ctx, `INSERT INTO users (`+userColumns+`)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		u.UID, u.Username, u.DocumentType, u.DocumentNumber, u.Email, u.PhoneNumber,
		u.Admin, nullable(u.Status), nullable(u.FinancialCheck),
		u.PersonalInfo, u.ProfessionalInfo, u.BankAccount, u.CreatedAt.UTC())
	return err
}

// FindByUID fetches a user by identity provider UID.
func (r *PostgresRepository) FindByUID(ctx context.Context, uid string) (*User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE uid = $1`, uid)
}

// FindByEmail fetches a user by email address.
func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

// FindByDocument fetches a user by document number.
func (r *PostgresRepository) FindByDocument(ctx context.Context, documentNumber string) (*User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE document_number = $1`, documentNumber)
}

// FindMatching returns users sharing the document number, phone number or email.
func (r *PostgresRepository) FindMatching(ctx context.Context, documentNumber, phoneNumber, email string) ([]User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users
        WHERE document_number = $1 OR phone_number = $2 OR email = $3`,
		documentNumber, phoneNumber, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}

// UpdateProfile writes the personal and professional sub-documents for a user.
func (r *PostgresRepository) UpdateProfile(ctx context.Context, uid string, personal *PersonalInfo, professional *ProfessionalInfo) (*User, error) {
	cmd, err := r.db.Exec(ctx, `UPDATE users SET personal_info = $1, professional_info = $2 WHERE uid = $3`,
		personal, professional, uid)
	if err != nil {
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, nil
	}
	return r.FindByUID(ctx, uid)
}

// UpdateBankAccount writes only the disbursement account sub-document.
func (r *PostgresRepository) UpdateBankAccount(ctx context.Context, uid string, account BankAccount) (*User, error) {
	cmd, err := r.db.Exec(ctx, `UPDATE users SET bank_account = $1 WHERE uid = $2`, &account, uid)
	if err != nil {
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, nil
	}
	return r.FindByUID(ctx, uid)
}

// Search returns a page of non-admin users matching the filter.
func (r *PostgresRepository) Search(ctx context.Context, f Filter) ([]User, error) {
	query := `SELECT ` + userColumns + ` FROM users ` + filterClause + `
        ORDER BY created_at DESC OFFSET $3 LIMIT $4`
	rows, err := r.db.Query(ctx, query, escapeLike(f.SearchTerm), f.Status, f.Skip, f.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}

// Count returns the unpaged number of users matching the filter.
func (r *PostgresRepository) Count(ctx context.Context, f Filter) (int, error) {
	var total int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users `+filterClause, escapeLike(f.SearchTerm), f.Status).Scan(&total)
	return total, err
}

// filterClause keeps Search and Count agreeing on what a match is. Admin
// accounts never match. Callers pass the search term through escapeLike so
// the ILIKE matches it literally.
const filterClause = `WHERE NOT admin
        AND ($1 = '' OR username ILIKE '%' || $1 || '%' OR email ILIKE '%' || $1 || '%' OR document_number ILIKE '%' || $1 || '%')
        AND ($2 = '' OR status = $2)`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike neutralizes LIKE pattern metacharacters in a search term.
func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}

func (r *PostgresRepository) findOne(ctx context.Context, query string, arg any) (*User, error) {
	row := r.db.QueryRow(ctx, query, arg)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	return u, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*User, error) {
	var (
		u                User
		status, finCheck *string
		createdAt        time.Time
	)
	if err := row.Scan(&u.UID, &u.Username, &u.DocumentType, &u.DocumentNumber, &u.Email, &u.PhoneNumber,
		&u.Admin, &status, &finCheck, &u.PersonalInfo, &u.ProfessionalInfo, &u.BankAccount, &createdAt); err != nil {
		return nil, err
	}
	if status != nil {
		u.Status = *status
	}
	if finCheck != nil {
		u.FinancialCheck = *finCheck
	}
	u.CreatedAt = createdAt.UTC()
	return &u, nil
}

func scanUsers(rows pgx.Rows) ([]User, error) {
	users := make([]User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
