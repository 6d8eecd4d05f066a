package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sanosuguru/go-event-ticket-booking/internal/domain/user"
)

type userRow struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`
	Name         *string   `db:"name"`
	PasswordHash string    `db:"password_hash"`
	Role         string    `db:"role"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (r *userRow) toEntity() *user.User {
	var name string
	if r.Name != nil {
		name = *r.Name
	}
	return &user.User{
		ID: r.ID, Email: r.Email, Name: name,
		PasswordHash: r.PasswordHash, Role: user.Role(r.Role),
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

type UserRepository struct{ db *sqlx.DB }

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	query := `INSERT INTO users (email, name, password_hash, role, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	var name *string
	if u.Name != "" {
		name = &u.Name
	}
	if err := r.db.QueryRowContext(ctx, query, u.Email, name, u.PasswordHash, string(u.Role), u.CreatedAt, u.UpdatedAt).Scan(&u.ID); err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			return user.ErrEmailAlreadyExists
		}
		return fmt.Errorf("ユーザー作成に失敗: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	var row userRow
	query := `SELECT id, email, name, password_hash, role, created_at, updated_at FROM users WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("ユーザー取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	var row userRow
	query := `SELECT id, email, name, password_hash, role, created_at, updated_at FROM users WHERE email = $1`
	if err := r.db.GetContext(ctx, &row, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("ユーザー取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]*user.User, error) {
	var rows []userRow
	query := `SELECT id, email, name, password_hash, role, created_at, updated_at FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	if err := r.db.SelectContext(ctx, &rows, query, limit, offset); err != nil {
		return nil, fmt.Errorf("ユーザー一覧取得に失敗: %w", err)
	}
	result := make([]*user.User, len(rows))
	for i, row := range rows {
		result[i] = row.toEntity()
	}
	return result, nil
}

func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	query := `UPDATE users SET email = $1, name = $2, role = $3, updated_at = NOW() WHERE id = $4`
	var name *string
	if u.Name != "" {
		name = &u.Name
	}
	result, err := r.db.ExecContext(ctx, query, u.Email, name, string(u.Role), u.ID)
	if err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			return user.ErrEmailAlreadyExists
		}
		return fmt.Errorf("ユーザー更新に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ユーザー削除に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

var _ user.Repository = (*UserRepository)(nil)
