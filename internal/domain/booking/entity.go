package booking

import "time"

// Status は予約の状態を表す
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
)

// Item は予約の明細行を表す（作成後は不変）
type Item struct {
	ID           string
	BookingID    string
	TicketTypeID string
	Quantity     int
}

// Booking は1回のチェックアウトによる購入を表す
type Booking struct {
	ID          string
	UserID      string
	TotalAmount int
	Status      Status
	Items       []Item
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewBooking は新しい予約を作成する
// 決済ゲートウェイがないため作成時点でCONFIRMEDとする
func NewBooking(userID string, totalAmount int, items []Item) *Booking {
	now := time.Now()
	return &Booking{
		UserID:      userID,
		TotalAmount: totalAmount,
		Status:      StatusConfirmed,
		Items:       items,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// IsCancelled は予約がキャンセル済みかを返す
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// Validate は予約の検証を行う
func (b *Booking) Validate() error {
	if b.UserID == "" {
		return ErrUserIDRequired
	}
	if len(b.Items) == 0 {
		return ErrItemsRequired
	}
	for _, item := range b.Items {
		if item.TicketTypeID == "" {
			return ErrTicketTypeIDRequired
		}
		if item.Quantity < 1 {
			return ErrInvalidItemQuantity
		}
	}
	if b.TotalAmount < 0 {
		return ErrInvalidTotalAmount
	}
	return nil
}
