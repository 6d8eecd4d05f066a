package ticket

import (
	"context"

	"github.com/sanosuguru/go-event-ticket-booking/internal/domain/transaction"
)

// Repository はチケット区分リポジトリのインターフェース
type Repository interface {
	// Create は新しいチケット区分を作成する（トランザクション必須）
	Create(ctx context.Context, tx transaction.Tx, t *TicketType) error

	// CreateBulk は複数のチケット区分を一括作成する（トランザクション必須）
	CreateBulk(ctx context.Context, tx transaction.Tx, types []*TicketType) error

	// GetByID はIDからチケット区分を取得する
	GetByID(ctx context.Context, id string) (*TicketType, error)

	// GetByIDForUpdate はIDからチケット区分を行ロック付きで取得する（トランザクション必須）
	// 在庫検証と減算を同一トランザクションで直列化するために使用する
	GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id string) (*TicketType, error)

	// GetByEventID はイベントIDからチケット区分一覧を取得する
	GetByEventID(ctx context.Context, eventID string) ([]*TicketType, error)

	// DecrementQuantity は残数を減算する（トランザクション必須）
	// 残数が不足する場合は1行も更新せずエラーを返す
	DecrementQuantity(ctx context.Context, tx transaction.Tx, id string, quantity int) error

	// Update はチケット区分を更新する（トランザクション必須）
	Update(ctx context.Context, tx transaction.Tx, t *TicketType) error

	// Delete はチケット区分を削除する（トランザクション必須）
	Delete(ctx context.Context, tx transaction.Tx, id string) error

	// CountRemainingByEventID はイベントの残チケット総数を取得する
	CountRemainingByEventID(ctx context.Context, eventID string) (int, error)
}
