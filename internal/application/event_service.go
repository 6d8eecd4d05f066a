package application

import (
	"context"
	"fmt"
	"time"

	"github.com/sanosuguru/go-event-ticket-booking/internal/domain/event"
	"github.com/sanosuguru/go-event-ticket-booking/internal/domain/ticket"
	"github.com/sanosuguru/go-event-ticket-booking/internal/domain/transaction"
)

type EventService struct {
	txManager  transaction.Manager
	eventRepo  event.Repository
	ticketRepo ticket.Repository
}

func NewEventService(txManager transaction.Manager, er event.Repository, tr ticket.Repository) *EventService {
	return &EventService{txManager: txManager, eventRepo: er, ticketRepo: tr}
}

// TicketTypeInput はイベント作成・更新時のチケット区分入力
// IDが空の場合は新規作成、設定されている場合は既存区分の更新として扱う
type TicketTypeInput struct {
	ID       string
	Name     string
	Price    int
	Quantity int
}

type CreateEventInput struct {
	Title       string
	Description string
	Date        time.Time
	Location    string
	ImageURL    string
	TicketTypes []TicketTypeInput
}

// CreateEvent はイベントとチケット区分を1つのトランザクションで作成する
func (s *EventService) CreateEvent(ctx context.Context, input CreateEventInput) (*event.Event, error) {
	e := event.NewEvent(input.Title, input.Description, input.Date, input.Location, input.ImageURL)
	if err := e.Validate(); err != nil {
		return nil, fmt.Errorf("バリデーションエラー: %w", err)
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	if err := s.eventRepo.Create(ctx, tx, e); err != nil {
		return nil, fmt.Errorf("イベント作成に失敗しました: %w", err)
	}

	types := make([]*ticket.TicketType, len(input.TicketTypes))
	for i, tt := range input.TicketTypes {
		types[i] = ticket.NewTicketType(e.ID, tt.Name, tt.Price, tt.Quantity)
		if err := types[i].Validate(); err != nil {
			return nil, fmt.Errorf("バリデーションエラー: %w", err)
		}
	}
	if err := s.ticketRepo.CreateBulk(ctx, tx, types); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("コミットに失敗: %w", err)
	}
	return e, nil
}

func (s *EventService) GetEvent(ctx context.Context, id string) (*event.Event, error) {
	return s.eventRepo.GetByID(ctx, id)
}

func (s *EventService) ListEvents(ctx context.Context, limit, offset int) ([]*event.Event, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.eventRepo.List(ctx, limit, offset)
}

type UpdateEventInput struct {
	ID          string
	Title       string
	Description string
	Date        time.Time
	Location    string
	ImageURL    string
	TicketTypes []TicketTypeInput
}

// UpdateEvent はイベントとチケット区分を更新する
// チケット区分は全削除・再作成ではなく差分更新とする
// （予約済みの区分を一時的にでも消さないため）
func (s *EventService) UpdateEvent(ctx context.Context, input UpdateEventInput) (*event.Event, error) {
	e, err := s.eventRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	e.Title = input.Title
	e.Description = input.Description
	e.Date = input.Date
	e.Location = input.Location
	e.ImageURL = input.ImageURL
	if err := e.Validate(); err != nil {
		return nil, fmt.Errorf("バリデーションエラー: %w", err)
	}

	existing, err := s.ticketRepo.GetByEventID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	if err := s.eventRepo.Update(ctx, tx, e); err != nil {
		return nil, err
	}

	// 差分更新: ID付き入力は更新、ID無しは新規作成、入力に無い既存区分は削除
	kept := make(map[string]bool)
	var created []*ticket.TicketType
	for _, in := range input.TicketTypes {
		if in.ID == "" {
			tt := ticket.NewTicketType(e.ID, in.Name, in.Price, in.Quantity)
			if err := tt.Validate(); err != nil {
				return nil, fmt.Errorf("バリデーションエラー: %w", err)
			}
			created = append(created, tt)
			continue
		}
		kept[in.ID] = true
		tt := &ticket.TicketType{ID: in.ID, EventID: e.ID, Name: in.Name, Price: in.Price, Quantity: in.Quantity}
		if err := tt.Validate(); err != nil {
			return nil, fmt.Errorf("バリデーションエラー: %w", err)
		}
		if err := s.ticketRepo.Update(ctx, tx, tt); err != nil {
			return nil, err
		}
	}
	if err := s.ticketRepo.CreateBulk(ctx, tx, created); err != nil {
		return nil, err
	}
	for _, tt := range existing {
		if !kept[tt.ID] {
			if err := s.ticketRepo.Delete(ctx, tx, tt.ID); err != nil {
				return nil, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("コミットに失敗: %w", err)
	}
	return e, nil
}

func (s *EventService) DeleteEvent(ctx context.Context, id string) error {
	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	if err := s.eventRepo.Delete(ctx, tx, id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("コミットに失敗: %w", err)
	}
	return nil
}
