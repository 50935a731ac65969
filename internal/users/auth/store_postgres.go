// Copyright (c) 2026 Prika. All rights reserved.
// Author: dev@prika.app

package auth

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/prikalab/prika/internal/platform/dberr"
	"github.com/prikalab/prika/internal/platform/sec"
)

// # Postgres User Repository

// PostgresUserRepository implements [UserRepository] backed by PostgreSQL.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresUserRepository constructs a new [PostgresUserRepository].
func NewPostgresUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// userColumns is the canonical select list shared by every account lookup.
const userColumns = `id, name, studentid, email, microsoftid, roles, createdat, updatedat`

// FindByID returns the account with the given ID.
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	return repository.findBy(context, "id", id)
}

// FindByMicrosoftID returns the account with the given provider identifier.
func (repository *PostgresUserRepository) FindByMicrosoftID(context context.Context, microsoftID string) (*User, error) {
	return repository.findBy(context, "microsoftid", microsoftID)
}

// FindByEmail returns the account with the given email.
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	return repository.findBy(context, "email", email)
}

// FindByStudentID returns the account with the given student identifier.
func (repository *PostgresUserRepository) FindByStudentID(context context.Context, studentID string) (*User, error) {
	return repository.findBy(context, "studentid", studentID)
}

// findBy runs a single-row account lookup on the given column. The column
// name is always one of our own constants, never caller input.
func (repository *PostgresUserRepository) findBy(context context.Context, column, value string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users.account WHERE %s = $1`, userColumns, column)

	row := repository.pool.QueryRow(context, query, value)

	user, err := scanUser(row)
	if err != nil {
		return nil, dberr.Wrap(fmt.Errorf("postgres_user_repo_find_by_%s_failed: %w", column, err))
	}

	return user, nil
}

// Create persists a brand-new user account.
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	query := `
		INSERT INTO users.account (id, name, studentid, email, microsoftid, roles, createdat, updatedat)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Name,
		user.StudentID,
		user.Email,
		user.MicrosoftID,
		user.RoleStrings(),
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(fmt.Errorf("postgres_user_repo_create_failed: %w", err))
	}

	return nil
}

// Update overwrites the mutable profile fields of an existing account.
func (repository *PostgresUserRepository) Update(context context.Context, user *User) error {
	query := `
		UPDATE users.account
		SET name = $2, studentid = $3, email = $4, microsoftid = $5, roles = $6, updatedat = $7
		WHERE id = $1`

	tag, err := repository.pool.Exec(context, query,
		user.ID,
		user.Name,
		user.StudentID,
		user.Email,
		user.MicrosoftID,
		user.RoleStrings(),
		user.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(fmt.Errorf("postgres_user_repo_update_failed: %w", err))
	}

	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	return nil
}

// scanUser hydrates a User from a single account row. Roles travel through
// the wire as text[] and are converted back to the typed role set.
func scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	roles := []string{}

	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.StudentID,
		&user.Email,
		&user.MicrosoftID,
		&roles,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.Roles = make([]sec.UserRole, 0, len(roles))
	for _, role := range roles {
		user.Roles = append(user.Roles, sec.UserRole(role))
	}

	return user, nil
}

// # Postgres Refresh Token Repository

// PostgresRefreshTokenRepository implements [RefreshTokenRepository] backed by PostgreSQL.
type PostgresRefreshTokenRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRefreshTokenRepository constructs a new [PostgresRefreshTokenRepository].
func NewPostgresRefreshTokenRepository(pool *pgxpool.Pool) *PostgresRefreshTokenRepository {
	return &PostgresRefreshTokenRepository{pool: pool}
}

// Create persists a freshly issued refresh token.
func (repository *PostgresRefreshTokenRepository) Create(context context.Context, token *RefreshToken) error {
	query := `
		INSERT INTO users.refresh_token (token, userid, validuntil, createdat)
		VALUES ($1, $2, $3, $4)`

	_, err := repository.pool.Exec(context, query,
		token.Token,
		token.UserID,
		token.ValidUntil,
		token.CreatedAt,
	)
	if err != nil {
		return dberr.Wrap(fmt.Errorf("postgres_refresh_token_repo_create_failed: %w", err))
	}

	return nil
}

// FindByToken returns the refresh token with the given value, expired or not.
func (repository *PostgresRefreshTokenRepository) FindByToken(context context.Context, tokenValue string) (*RefreshToken, error) {
	query := `
		SELECT token, userid, validuntil, createdat
		FROM users.refresh_token
		WHERE token = $1`

	token := &RefreshToken{}
	err := repository.pool.QueryRow(context, query, tokenValue).Scan(
		&token.Token,
		&token.UserID,
		&token.ValidUntil,
		&token.CreatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(fmt.Errorf("postgres_refresh_token_repo_find_failed: %w", err))
	}

	return token, nil
}

// Delete removes a single refresh token. Unknown tokens are not an error.
func (repository *PostgresRefreshTokenRepository) Delete(context context.Context, tokenValue string) error {
	query := `DELETE FROM users.refresh_token WHERE token = $1`

	if _, err := repository.pool.Exec(context, query, tokenValue); err != nil {
		return dberr.Wrap(fmt.Errorf("postgres_refresh_token_repo_delete_failed: %w", err))
	}

	return nil
}

// DeleteForUser removes every refresh token owned by the given user.
func (repository *PostgresRefreshTokenRepository) DeleteForUser(context context.Context, userID string) error {
	query := `DELETE FROM users.refresh_token WHERE userid = $1`

	if _, err := repository.pool.Exec(context, query, userID); err != nil {
		return dberr.Wrap(fmt.Errorf("postgres_refresh_token_repo_delete_for_user_failed: %w", err))
	}

	return nil
}

// DeleteExpired physically removes tokens past their validity deadline.
func (repository *PostgresRefreshTokenRepository) DeleteExpired(context context.Context) error {
	query := `DELETE FROM users.refresh_token WHERE validuntil < now()`

	if _, err := repository.pool.Exec(context, query); err != nil {
		return dberr.Wrap(fmt.Errorf("postgres_refresh_token_repo_delete_expired_failed: %w", err))
	}

	return nil
}
