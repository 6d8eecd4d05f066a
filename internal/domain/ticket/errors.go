package ticket

import (
	"errors"
	"fmt"
)

// TicketType ドメインのエラー定義
var (
	ErrTicketTypeNotFound = errors.New("チケット区分が見つかりません")
	ErrEventIDRequired    = errors.New("イベントIDは必須です")
	ErrNameRequired       = errors.New("チケット区分名は必須です")
	ErrInvalidPrice       = errors.New("価格は0以上である必要があります")
	ErrInvalidQuantity    = errors.New("数量は0以上である必要があります")
)

// InsufficientStockError は在庫不足を表す
// UI側が残数を提示できるよう、チケット区分名と現在の残数を保持する
type InsufficientStockError struct {
	Name      string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("チケット「%s」の在庫が不足しています（残り%d枚、要求%d枚）", e.Name, e.Available, e.Requested)
}
