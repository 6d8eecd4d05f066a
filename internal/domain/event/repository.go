package event

import (
	"context"

	"github.com/sanosuguru/go-event-ticket-booking/internal/domain/transaction"
)

// Repository はイベントリポジトリのインターフェース
type Repository interface {
	// Create は新しいイベントを作成する（トランザクション必須）
	Create(ctx context.Context, tx transaction.Tx, event *Event) error

	// GetByID はIDからイベントを取得する
	GetByID(ctx context.Context, id string) (*Event, error)

	// List はイベント一覧を取得する
	List(ctx context.Context, limit, offset int) ([]*Event, error)

	// Update はイベントを更新する（楽観的ロック、トランザクション必須）
	Update(ctx context.Context, tx transaction.Tx, event *Event) error

	// Delete はイベントを削除する（トランザクション必須）
	Delete(ctx context.Context, tx transaction.Tx, id string) error
}
