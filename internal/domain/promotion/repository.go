package promotion

import (
	"context"
	"time"
)

// Repository はプロモーションリポジトリのインターフェース
type Repository interface {
	// Create は新しいプロモーションを作成する
	Create(ctx context.Context, p *Promotion) error

	// GetByID はIDからプロモーションを取得する
	GetByID(ctx context.Context, id string) (*Promotion, error)

	// GetByCode はコードからプロモーションを取得する
	GetByCode(ctx context.Context, code string) (*Promotion, error)

	// List はプロモーション一覧を取得する
	List(ctx context.Context, limit, offset int) ([]*Promotion, error)

	// Update はプロモーションを更新する
	Update(ctx context.Context, p *Promotion) error

	// Delete はプロモーションを削除する
	Delete(ctx context.Context, id string) error

	// DeactivateExpired は期限切れの有効なプロモーションを一括で無効化し、件数を返す
	DeactivateExpired(ctx context.Context, now time.Time) (int, error)
}
