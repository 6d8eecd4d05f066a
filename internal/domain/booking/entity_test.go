package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBooking(t *testing.T) {
	items := []Item{
		{TicketTypeID: "tt-1", Quantity: 2},
		{TicketTypeID: "tt-2", Quantity: 1},
	}

	b := NewBooking("user-123", 25000, items)

	assert.Equal(t, "user-123", b.UserID)
	assert.Equal(t, 25000, b.TotalAmount)
	// 決済ゲートウェイ未導入のため作成時点で確定
	assert.Equal(t, StatusConfirmed, b.Status)
	assert.Len(t, b.Items, 2)
	assert.NotZero(t, b.CreatedAt)
}

func TestBooking_Validate(t *testing.T) {
	tests := []struct {
		name        string
		booking     *Booking
		expectedErr error
	}{
		{
			name: "有効な予約",
			booking: &Booking{
				UserID:      "user-1",
				TotalAmount: 10000,
				Items:       []Item{{TicketTypeID: "tt-1", Quantity: 2}},
			},
			expectedErr: nil,
		},
		{
			name: "ユーザーIDが空",
			booking: &Booking{
				TotalAmount: 10000,
				Items:       []Item{{TicketTypeID: "tt-1", Quantity: 2}},
			},
			expectedErr: ErrUserIDRequired,
		},
		{
			name: "明細が空",
			booking: &Booking{
				UserID:      "user-1",
				TotalAmount: 10000,
				Items:       []Item{},
			},
			expectedErr: ErrItemsRequired,
		},
		{
			name: "チケット区分IDが空の明細",
			booking: &Booking{
				UserID:      "user-1",
				TotalAmount: 10000,
				Items:       []Item{{TicketTypeID: "", Quantity: 2}},
			},
			expectedErr: ErrTicketTypeIDRequired,
		},
		{
			name: "数量ゼロの明細",
			booking: &Booking{
				UserID:      "user-1",
				TotalAmount: 10000,
				Items:       []Item{{TicketTypeID: "tt-1", Quantity: 0}},
			},
			expectedErr: ErrInvalidItemQuantity,
		},
		{
			name: "合計金額が負数",
			booking: &Booking{
				UserID:      "user-1",
				TotalAmount: -1,
				Items:       []Item{{TicketTypeID: "tt-1", Quantity: 1}},
			},
			expectedErr: ErrInvalidTotalAmount,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.booking.Validate()
			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBooking_IsCancelled(t *testing.T) {
	assert.True(t, (&Booking{Status: StatusCancelled}).IsCancelled())
	assert.False(t, (&Booking{Status: StatusConfirmed}).IsCancelled())
}
