package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-event-ticket-booking/internal/domain/event"
	"github.com/sanosuguru/go-event-ticket-booking/internal/domain/transaction"
)

// eventRow はDBの行を表す構造体
type eventRow struct {
	ID          string    `db:"id"`
	Title       string    `db:"title"`
	Description *string   `db:"description"`
	Date        time.Time `db:"date"`
	Location    string    `db:"location"`
	ImageURL    *string   `db:"image_url"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
	Version     int       `db:"version"`
}

// toEntity はeventRowをEventエンティティに変換する
func (r *eventRow) toEntity() *event.Event {
	var desc, imageURL string
	if r.Description != nil {
		desc = *r.Description
	}
	if r.ImageURL != nil {
		imageURL = *r.ImageURL
	}
	return &event.Event{
		ID:          r.ID,
		Title:       r.Title,
		Description: desc,
		Date:        r.Date,
		Location:    r.Location,
		ImageURL:    imageURL,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		Version:     r.Version,
	}
}

// EventRepository はイベントリポジトリのPostgreSQL実装
type EventRepository struct {
	db *sqlx.DB
}

// NewEventRepository はEventRepositoryを作成する
func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Create は新しいイベントを作成する
func (r *EventRepository) Create(ctx context.Context, tx transaction.Tx, e *event.Event) error {
	query := `
		INSERT INTO events (title, description, date, location, image_url, created_at, updated_at, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	var desc, imageURL *string
	if e.Description != "" {
		desc = &e.Description
	}
	if e.ImageURL != "" {
		imageURL = &e.ImageURL
	}

	err := UnwrapTx(tx).QueryRowContext(ctx, query,
		e.Title, desc, e.Date, e.Location, imageURL, e.CreatedAt, e.UpdatedAt, e.Version,
	).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("イベント作成に失敗しました: %w", err)
	}
	return nil
}

// GetByID はIDからイベントを取得する
func (r *EventRepository) GetByID(ctx context.Context, id string) (*event.Event, error) {
	query := `SELECT id, title, description, date, location, image_url, created_at, updated_at, version FROM events WHERE id = $1`

	var row eventRow
	err := r.db.GetContext(ctx, &row, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, event.ErrEventNotFound
		}
		return nil, fmt.Errorf("イベント取得に失敗しました: %w", err)
	}
	return row.toEntity(), nil
}

// List はイベント一覧を取得する
func (r *EventRepository) List(ctx context.Context, limit, offset int) ([]*event.Event, error) {
	query := `
		SELECT id, title, description, date, location, image_url, created_at, updated_at, version
		FROM events
		ORDER BY date ASC
		LIMIT $1 OFFSET $2
	`

	var rows []eventRow
	err := r.db.SelectContext(ctx, &rows, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("イベント一覧取得に失敗しました: %w", err)
	}

	events := make([]*event.Event, len(rows))
	for i, row := range rows {
		events[i] = row.toEntity()
	}
	return events, nil
}

// Update はイベントを更新する（楽観的ロック）
func (r *EventRepository) Update(ctx context.Context, tx transaction.Tx, e *event.Event) error {
	query := `
		UPDATE events
		SET title = $1, description = $2, date = $3, location = $4, image_url = $5,
		    updated_at = $6, version = version + 1
		WHERE id = $7 AND version = $8
	`

	var desc, imageURL *string
	if e.Description != "" {
		desc = &e.Description
	}
	if e.ImageURL != "" {
		imageURL = &e.ImageURL
	}

	result, err := UnwrapTx(tx).ExecContext(ctx, query,
		e.Title, desc, e.Date, e.Location, imageURL, time.Now(), e.ID, e.Version,
	)
	if err != nil {
		return fmt.Errorf("イベント更新に失敗しました: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("更新結果の確認に失敗しました: %w", err)
	}
	if rowsAffected == 0 {
		return event.ErrOptimisticLockConflict
	}

	e.Version++
	return nil
}

// Delete はイベントを削除する（チケット区分はFKのCASCADEで削除される）
func (r *EventRepository) Delete(ctx context.Context, tx transaction.Tx, id string) error {
	query := `DELETE FROM events WHERE id = $1`

	result, err := UnwrapTx(tx).ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("イベント削除に失敗しました: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("削除結果の確認に失敗しました: %w", err)
	}
	if rowsAffected == 0 {
		return event.ErrEventNotFound
	}
	return nil
}

// インターフェースを満たしているか確認
var _ event.Repository = (*EventRepository)(nil)
