package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/tribalcouncil/fantasy-survivor/internal/domain/user"
)

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) List(ctx context.Context) ([]user.User, error) {
	const query = `
SELECT id, username, role, created_at, updated_at
FROM users
ORDER BY id`

	var rows []userTableModel
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	users := make([]user.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, row.toDomain())
	}

	return users, nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID int64) (user.User, bool, error) {
	const query = `
SELECT id, username, role, created_at, updated_at
FROM users
WHERE id = $1`

	var row userTableModel
	if err := r.db.GetContext(ctx, &row, query, userID); err != nil {
		if isNotFound(err) {
			return user.User{}, false, nil
		}
		return user.User{}, false, fmt.Errorf("get user: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (user.User, bool, error) {
	const query = `
SELECT id, username, role, created_at, updated_at
FROM users
WHERE username = $1`

	var row userTableModel
	if err := r.db.GetContext(ctx, &row, query, username); err != nil {
		if isNotFound(err) {
			return user.User{}, false, nil
		}
		return user.User{}, false, fmt.Errorf("get user by username: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *UserRepository) Create(ctx context.Context, u user.User) (user.User, error) {
	const query = `
INSERT INTO users (username, role)
VALUES (:username, :role)
RETURNING id, username, role, created_at, updated_at`

	insertSQL, args, err := sqlx.Named(query, map[string]any{
		"username": u.Username,
		"role":     string(u.Role),
	})
	if err != nil {
		return user.User{}, fmt.Errorf("bind insert user query: %w", err)
	}
	insertSQL = r.db.Rebind(insertSQL)

	var row userTableModel
	if err := r.db.GetContext(ctx, &row, insertSQL, args...); err != nil {
		return user.User{}, fmt.Errorf("insert user: %w", err)
	}

	return row.toDomain(), nil
}
