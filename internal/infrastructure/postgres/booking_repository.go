package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-event-ticket-booking/internal/domain/booking"
	"github.com/sanosuguru/go-event-ticket-booking/internal/domain/transaction"
)

type bookingRow struct {
	ID          string    `db:"id"`
	UserID      string    `db:"user_id"`
	TotalAmount int       `db:"total_amount"`
	Status      string    `db:"status"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type bookingItemRow struct {
	ID           string `db:"id"`
	BookingID    string `db:"booking_id"`
	TicketTypeID string `db:"ticket_type_id"`
	Quantity     int    `db:"quantity"`
}

type BookingRepository struct{ db *sqlx.DB }

func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create は予約と全明細を同一トランザクション内で作成する
func (r *BookingRepository) Create(ctx context.Context, tx transaction.Tx, b *booking.Booking) error {
	sqlxTx := UnwrapTx(tx)

	query := `INSERT INTO bookings (user_id, total_amount, status, created_at, updated_at) VALUES ($1, $2, $3, $4, $5) RETURNING id`
	if err := sqlxTx.QueryRowContext(ctx, query, b.UserID, b.TotalAmount, string(b.Status), b.CreatedAt, b.UpdatedAt).Scan(&b.ID); err != nil {
		return mapConflict(fmt.Errorf("予約作成に失敗: %w", err))
	}

	for i := range b.Items {
		b.Items[i].BookingID = b.ID
		if err := sqlxTx.QueryRowContext(ctx,
			`INSERT INTO booking_items (booking_id, ticket_type_id, quantity) VALUES ($1, $2, $3) RETURNING id`,
			b.ID, b.Items[i].TicketTypeID, b.Items[i].Quantity,
		).Scan(&b.Items[i].ID); err != nil {
			return mapConflict(fmt.Errorf("予約明細作成に失敗: %w", err))
		}
	}
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id string) (*booking.Booking, error) {
	var row bookingRow
	query := `SELECT id, user_id, total_amount, status, created_at, updated_at FROM bookings WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrBookingNotFound
		}
		return nil, fmt.Errorf("予約取得に失敗: %w", err)
	}
	items, err := r.getItems(ctx, id)
	if err != nil {
		return nil, err
	}
	return r.toEntity(&row, items), nil
}

func (r *BookingRepository) GetByUserID(ctx context.Context, userID string, limit, offset int) ([]*booking.Booking, error) {
	var rows []bookingRow
	query := `SELECT id, user_id, total_amount, status, created_at, updated_at FROM bookings WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	if err := r.db.SelectContext(ctx, &rows, query, userID, limit, offset); err != nil {
		return nil, fmt.Errorf("予約一覧取得に失敗: %w", err)
	}
	result := make([]*booking.Booking, len(rows))
	for i, row := range rows {
		items, err := r.getItems(ctx, row.ID)
		if err != nil {
			return nil, err
		}
		result[i] = r.toEntity(&row, items)
	}
	return result, nil
}

func (r *BookingRepository) getItems(ctx context.Context, bookingID string) ([]booking.Item, error) {
	var rows []bookingItemRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT id, booking_id, ticket_type_id, quantity FROM booking_items WHERE booking_id = $1`, bookingID); err != nil {
		return nil, fmt.Errorf("予約明細取得に失敗: %w", err)
	}
	items := make([]booking.Item, len(rows))
	for i, row := range rows {
		items[i] = booking.Item{
			ID: row.ID, BookingID: row.BookingID,
			TicketTypeID: row.TicketTypeID, Quantity: row.Quantity,
		}
	}
	return items, nil
}

func (r *BookingRepository) toEntity(row *bookingRow, items []booking.Item) *booking.Booking {
	return &booking.Booking{
		ID: row.ID, UserID: row.UserID,
		TotalAmount: row.TotalAmount, Status: booking.Status(row.Status),
		Items: items, CreatedAt: row.CreatedAt, UpdatedAt: row.UpdatedAt,
	}
}

var _ booking.Repository = (*BookingRepository)(nil)
