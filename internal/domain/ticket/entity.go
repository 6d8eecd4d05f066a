package ticket

import "time"

// TicketType はイベント内の購入可能なチケット区分（例: VIP）を表す
// 残数カウンターは予約コミット時の減算と管理者編集でのみ変化する
type TicketType struct {
	ID        string
	EventID   string
	Name      string
	Price     int
	Quantity  int // 残数（0未満には絶対にならない）
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewTicketType は新しいチケット区分を作成する
func NewTicketType(eventID, name string, price, quantity int) *TicketType {
	now := time.Now()
	return &TicketType{
		EventID:   eventID,
		Name:      name,
		Price:     price,
		Quantity:  quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// HasStock は要求数量分の在庫があるかを返す
func (t *TicketType) HasStock(quantity int) bool {
	return quantity >= 1 && t.Quantity >= quantity
}

// Validate はチケット区分の検証を行う
func (t *TicketType) Validate() error {
	if t.EventID == "" {
		return ErrEventIDRequired
	}
	if t.Name == "" {
		return ErrNameRequired
	}
	if t.Price < 0 {
		return ErrInvalidPrice
	}
	if t.Quantity < 0 {
		return ErrInvalidQuantity
	}
	return nil
}
