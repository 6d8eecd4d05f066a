package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sanosuguru/go-event-ticket-booking/internal/domain/promotion"
)

type promotionRow struct {
	ID              string    `db:"id"`
	Code            string    `db:"code"`
	DiscountPercent int       `db:"discount_percent"`
	ValidUntil      time.Time `db:"valid_until"`
	IsActive        bool      `db:"is_active"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

func (r *promotionRow) toEntity() *promotion.Promotion {
	return &promotion.Promotion{
		ID: r.ID, Code: r.Code, DiscountPercent: r.DiscountPercent,
		ValidUntil: r.ValidUntil, IsActive: r.IsActive,
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

type PromotionRepository struct{ db *sqlx.DB }

func NewPromotionRepository(db *sqlx.DB) *PromotionRepository {
	return &PromotionRepository{db: db}
}

func (r *PromotionRepository) Create(ctx context.Context, p *promotion.Promotion) error {
	query := `INSERT INTO promotions (code, discount_percent, valid_until, is_active, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	if err := r.db.QueryRowContext(ctx, query, p.Code, p.DiscountPercent, p.ValidUntil, p.IsActive, p.CreatedAt, p.UpdatedAt).Scan(&p.ID); err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			return promotion.ErrCodeAlreadyExists
		}
		return fmt.Errorf("プロモーション作成に失敗: %w", err)
	}
	return nil
}

func (r *PromotionRepository) GetByID(ctx context.Context, id string) (*promotion.Promotion, error) {
	var row promotionRow
	query := `SELECT id, code, discount_percent, valid_until, is_active, created_at, updated_at FROM promotions WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, promotion.ErrPromotionNotFound
		}
		return nil, fmt.Errorf("プロモーション取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

func (r *PromotionRepository) GetByCode(ctx context.Context, code string) (*promotion.Promotion, error) {
	var row promotionRow
	query := `SELECT id, code, discount_percent, valid_until, is_active, created_at, updated_at FROM promotions WHERE code = $1`
	if err := r.db.GetContext(ctx, &row, query, code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, promotion.ErrPromotionNotFound
		}
		return nil, fmt.Errorf("プロモーション取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

func (r *PromotionRepository) List(ctx context.Context, limit, offset int) ([]*promotion.Promotion, error) {
	var rows []promotionRow
	query := `SELECT id, code, discount_percent, valid_until, is_active, created_at, updated_at FROM promotions ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	if err := r.db.SelectContext(ctx, &rows, query, limit, offset); err != nil {
		return nil, fmt.Errorf("プロモーション一覧取得に失敗: %w", err)
	}
	result := make([]*promotion.Promotion, len(rows))
	for i, row := range rows {
		result[i] = row.toEntity()
	}
	return result, nil
}

func (r *PromotionRepository) Update(ctx context.Context, p *promotion.Promotion) error {
	query := `UPDATE promotions SET code = $1, discount_percent = $2, valid_until = $3, is_active = $4, updated_at = NOW() WHERE id = $5`
	result, err := r.db.ExecContext(ctx, query, p.Code, p.DiscountPercent, p.ValidUntil, p.IsActive, p.ID)
	if err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			return promotion.ErrCodeAlreadyExists
		}
		return fmt.Errorf("プロモーション更新に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return promotion.ErrPromotionNotFound
	}
	return nil
}

func (r *PromotionRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM promotions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("プロモーション削除に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return promotion.ErrPromotionNotFound
	}
	return nil
}

// DeactivateExpired は期限切れの有効なプロモーションを一括で無効化する
func (r *PromotionRepository) DeactivateExpired(ctx context.Context, now time.Time) (int, error) {
	result, err := r.db.ExecContext(ctx, `UPDATE promotions SET is_active = FALSE, updated_at = NOW() WHERE is_active = TRUE AND valid_until < $1`, now)
	if err != nil {
		return 0, fmt.Errorf("期限切れプロモーションの無効化に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	return int(rows), nil
}

var _ promotion.Repository = (*PromotionRepository)(nil)
