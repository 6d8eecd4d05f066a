package booking

import (
	"context"

	"github.com/sanosuguru/go-event-ticket-booking/internal/domain/transaction"
)

// Repository は予約リポジトリのインターフェース
type Repository interface {
	// Create は予約と明細を作成する（トランザクション必須）
	Create(ctx context.Context, tx transaction.Tx, booking *Booking) error

	// GetByID はIDから予約を取得する（明細込み）
	GetByID(ctx context.Context, id string) (*Booking, error)

	// GetByUserID はユーザーIDから予約一覧を取得する
	GetByUserID(ctx context.Context, userID string, limit, offset int) ([]*Booking, error)
}
