package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/loopital/loopital-backend/internal/domain"
)

// storageKey is the fixed key the acting user's record lives under. The demo
// is single-seat: there is at most one persisted identity at a time.
const storageKey = "loopital_user"

// sessionRepository implements domain.SessionRepository
type sessionRepository struct {
	db *DB
}

// NewSessionRepository creates a new session repository and ensures its
// schema exists
func NewSessionRepository(db *DB) (domain.SessionRepository, error) {
	r := &sessionRepository{db: db}
	if err := r.migrate(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *sessionRepository) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS session_users (
			storage_key    TEXT PRIMARY KEY,
			id             TEXT NOT NULL,
			name           TEXT NOT NULL,
			role           TEXT NOT NULL,
			wallet_balance TEXT NOT NULL,
			company_name   TEXT NOT NULL DEFAULT ''
		)
	`
	if _, err := r.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create session_users table: %w", err)
	}
	return nil
}

// Save writes the user record, replacing any previous one
func (r *sessionRepository) Save(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO session_users (storage_key, id, name, role, wallet_balance, company_name)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(storage_key) DO UPDATE SET
			id = excluded.id,
			name = excluded.name,
			role = excluded.role,
			wallet_balance = excluded.wallet_balance,
			company_name = excluded.company_name
	`

	_, err := r.db.ExecContext(ctx, query,
		storageKey,
		user.ID.String(),
		user.Name,
		string(user.Role),
		user.WalletBalance.String(),
		user.CompanyName,
	)
	if err != nil {
		return fmt.Errorf("failed to save user record: %w", err)
	}
	return nil
}

// Load reads the persisted user record
func (r *sessionRepository) Load(ctx context.Context) (*domain.User, error) {
	query := `
		SELECT id, name, role, wallet_balance, company_name
		FROM session_users
		WHERE storage_key = ?
	`

	var idStr, balanceStr string
	var user domain.User

	err := r.db.QueryRowContext(ctx, query, storageKey).Scan(
		&idStr,
		&user.Name,
		&user.Role,
		&balanceStr,
		&user.CompanyName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user record: %w", err)
	}

	user.ID, err = uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse persisted user id: %w", err)
	}

	user.WalletBalance, err = decimal.NewFromString(balanceStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse persisted wallet balance: %w", err)
	}

	return &user, nil
}

// Delete removes the persisted record; deleting an absent record is not an
// error
func (r *sessionRepository) Delete(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM session_users WHERE storage_key = ?`, storageKey)
	if err != nil {
		return fmt.Errorf("failed to delete user record: %w", err)
	}
	return nil
}
