package db

import (
	"context"
	"fmt"
	"strings"

	"gajanji-server/src/models"

	"github.com/google/uuid"
)

const userColumns = `id, name, email, password_hash, is_verified, picture, provider, roles,
	phone, gender, job, currency, notifications, mailing, created_at`

func scanUser(row scanner) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.IsVerified,
		&u.Picture,
		&u.Provider,
		&u.Roles,
		&u.Phone,
		&u.Gender,
		&u.Job,
		&u.Currency,
		&u.Notifications,
		&u.Mailing,
		&u.CreatedAt,
	)
	if err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *Store) CreateUser(ctx context.Context, u *models.User) (*models.User, error) {
	query := `
		INSERT INTO users (id, name, email, password_hash, is_verified, picture, provider, roles, currency, notifications, mailing)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + userColumns

	roles := u.Roles
	if roles == nil {
		roles = []string{}
	}
	provider := u.Provider
	if provider == "" {
		provider = models.ProviderLocal
	}
	currency := u.Currency
	if currency == "" {
		currency = "USD"
	}

	created, err := scanUser(s.pool.QueryRow(ctx, query,
		uuid.NewString(),
		u.Name,
		strings.ToLower(strings.TrimSpace(u.Email)),
		u.PasswordHash,
		u.IsVerified,
		u.Picture,
		provider,
		roles,
		currency,
		u.Notifications,
		u.Mailing,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return created, nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(s.pool.QueryRow(ctx, query, id))
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(s.pool.QueryRow(ctx, query, strings.ToLower(strings.TrimSpace(email))))
}

// UpsertGoogleUser creates or refreshes the account behind a verified Google
// identity. Such accounts are always verified and keep any local password.
func (s *Store) UpsertGoogleUser(ctx context.Context, email, name, picture string) (*models.User, error) {
	query := `
		INSERT INTO users (id, name, email, is_verified, picture, provider)
		VALUES ($1, $2, $3, TRUE, $4, 'google')
		ON CONFLICT (email) DO UPDATE SET
			name = EXCLUDED.name,
			picture = EXCLUDED.picture,
			provider = 'google',
			is_verified = TRUE
		RETURNING ` + userColumns

	u, err := scanUser(s.pool.QueryRow(ctx, query, uuid.NewString(), name, strings.ToLower(strings.TrimSpace(email)), picture))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert google user: %w", err)
	}
	return u, nil
}

func (s *Store) UpdateUserProfile(ctx context.Context, u *models.User) (*models.User, error) {
	query := `
		UPDATE users
		SET name = $2, picture = $3, phone = $4, gender = $5, job = $6,
			currency = $7, notifications = $8, mailing = $9
		WHERE id = $1
		RETURNING ` + userColumns

	return scanUser(s.pool.QueryRow(ctx, query,
		u.ID, u.Name, u.Picture, u.Phone, u.Gender, u.Job, u.Currency, u.Notifications, u.Mailing,
	))
}

func (s *Store) UpdateUserPassword(ctx context.Context, id, passwordHash string) error {
	query := `UPDATE users SET password_hash = $2 WHERE id = $1`
	cmd, err := s.pool.Exec(ctx, query, id, passwordHash)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
