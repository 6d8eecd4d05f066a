package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-event-ticket-booking/internal/domain/ticket"
	"github.com/sanosuguru/go-event-ticket-booking/internal/domain/transaction"
)

type ticketTypeRow struct {
	ID        string    `db:"id"`
	EventID   string    `db:"event_id"`
	Name      string    `db:"name"`
	Price     int       `db:"price"`
	Quantity  int       `db:"quantity"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r *ticketTypeRow) toEntity() *ticket.TicketType {
	return &ticket.TicketType{
		ID: r.ID, EventID: r.EventID, Name: r.Name,
		Price: r.Price, Quantity: r.Quantity,
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

type TicketTypeRepository struct{ db *sqlx.DB }

func NewTicketTypeRepository(db *sqlx.DB) *TicketTypeRepository {
	return &TicketTypeRepository{db: db}
}

func (r *TicketTypeRepository) Create(ctx context.Context, tx transaction.Tx, t *ticket.TicketType) error {
	query := `INSERT INTO ticket_types (event_id, name, price, quantity, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	if err := UnwrapTx(tx).QueryRowContext(ctx, query, t.EventID, t.Name, t.Price, t.Quantity, t.CreatedAt, t.UpdatedAt).Scan(&t.ID); err != nil {
		return fmt.Errorf("チケット区分作成に失敗: %w", err)
	}
	return nil
}

func (r *TicketTypeRepository) CreateBulk(ctx context.Context, tx transaction.Tx, types []*ticket.TicketType) error {
	if len(types) == 0 {
		return nil
	}

	// マルチバリューINSERTを構築
	query := `INSERT INTO ticket_types (event_id, name, price, quantity, created_at, updated_at) VALUES `
	args := make([]interface{}, 0, len(types)*6)
	placeholders := make([]string, 0, len(types))

	for i, t := range types {
		base := i * 6
		placeholders = append(placeholders, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6))
		args = append(args, t.EventID, t.Name, t.Price, t.Quantity, t.CreatedAt, t.UpdatedAt)
	}

	query += strings.Join(placeholders, ", ") + " RETURNING id"
	rows, err := UnwrapTx(tx).QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("チケット区分一括作成に失敗: %w", err)
	}
	defer rows.Close()

	for i := 0; rows.Next(); i++ {
		if err := rows.Scan(&types[i].ID); err != nil {
			return fmt.Errorf("チケット区分ID取得に失敗: %w", err)
		}
	}
	return rows.Err()
}

func (r *TicketTypeRepository) GetByID(ctx context.Context, id string) (*ticket.TicketType, error) {
	query := `SELECT id, event_id, name, price, quantity, created_at, updated_at FROM ticket_types WHERE id = $1`
	var row ticketTypeRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ticket.ErrTicketTypeNotFound
		}
		return nil, fmt.Errorf("チケット区分取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

// GetByIDForUpdate は行ロック付きでチケット区分を取得する
// 在庫検証から減算までを同一トランザクションで直列化するために使用する
func (r *TicketTypeRepository) GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id string) (*ticket.TicketType, error) {
	query := `SELECT id, event_id, name, price, quantity, created_at, updated_at FROM ticket_types WHERE id = $1 FOR UPDATE`
	var row ticketTypeRow
	if err := UnwrapTx(tx).GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ticket.ErrTicketTypeNotFound
		}
		return nil, mapConflict(fmt.Errorf("チケット区分取得に失敗: %w", err))
	}
	return row.toEntity(), nil
}

func (r *TicketTypeRepository) GetByEventID(ctx context.Context, eventID string) ([]*ticket.TicketType, error) {
	query := `SELECT id, event_id, name, price, quantity, created_at, updated_at FROM ticket_types WHERE event_id = $1 ORDER BY price ASC`
	var rows []ticketTypeRow
	if err := r.db.SelectContext(ctx, &rows, query, eventID); err != nil {
		return nil, fmt.Errorf("チケット区分一覧取得に失敗: %w", err)
	}
	types := make([]*ticket.TicketType, len(rows))
	for i, row := range rows {
		types[i] = row.toEntity()
	}
	return types, nil
}

// DecrementQuantity は残数をガード付きで減算する
// WHERE句の quantity >= $2 により残数が負になる更新は1行も行われない
func (r *TicketTypeRepository) DecrementQuantity(ctx context.Context, tx transaction.Tx, id string, quantity int) error {
	query := `UPDATE ticket_types SET quantity = quantity - $1, updated_at = NOW() WHERE id = $2 AND quantity >= $1`
	result, err := UnwrapTx(tx).ExecContext(ctx, query, quantity, id)
	if err != nil {
		return mapConflict(fmt.Errorf("在庫減算に失敗: %w", err))
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		// 行ロック取得後に呼ばれる限り到達しないが、ガードとして残数を読み直して報告する
		// 同一トランザクション内の減算を反映するため、プール接続ではなくtx経由で読む
		var row ticketTypeRow
		selectQuery := `SELECT id, event_id, name, price, quantity, created_at, updated_at FROM ticket_types WHERE id = $1`
		if getErr := UnwrapTx(tx).GetContext(ctx, &row, selectQuery, id); getErr != nil {
			if errors.Is(getErr, sql.ErrNoRows) {
				return ticket.ErrTicketTypeNotFound
			}
			return fmt.Errorf("在庫再確認に失敗: %w", getErr)
		}
		return &ticket.InsufficientStockError{Name: row.Name, Available: row.Quantity, Requested: quantity}
	}
	return nil
}

func (r *TicketTypeRepository) Update(ctx context.Context, tx transaction.Tx, t *ticket.TicketType) error {
	query := `UPDATE ticket_types SET name = $1, price = $2, quantity = $3, updated_at = NOW() WHERE id = $4`
	result, err := UnwrapTx(tx).ExecContext(ctx, query, t.Name, t.Price, t.Quantity, t.ID)
	if err != nil {
		return fmt.Errorf("チケット区分更新に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ticket.ErrTicketTypeNotFound
	}
	return nil
}

func (r *TicketTypeRepository) Delete(ctx context.Context, tx transaction.Tx, id string) error {
	result, err := UnwrapTx(tx).ExecContext(ctx, `DELETE FROM ticket_types WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("チケット区分削除に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ticket.ErrTicketTypeNotFound
	}
	return nil
}

func (r *TicketTypeRepository) CountRemainingByEventID(ctx context.Context, eventID string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COALESCE(SUM(quantity), 0) FROM ticket_types WHERE event_id = $1`, eventID)
	return count, err
}

var _ ticket.Repository = (*TicketTypeRepository)(nil)
