package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-event-ticket-booking/internal/domain/event"
	"github.com/sanosuguru/go-event-ticket-booking/internal/domain/ticket"
	redisinfra "github.com/sanosuguru/go-event-ticket-booking/internal/infrastructure/redis"
	"github.com/sanosuguru/go-event-ticket-booking/internal/pkg/logger"
)

const (
	availabilityCacheTTL = 30 * time.Second
)

// TicketService はカタログ向けのチケット区分読み取りを提供する
// 残数はベストエフォートなキャッシュ経由で、古い値が返ることは許容される
type TicketService struct {
	ticketRepo ticket.Repository
	eventRepo  event.Repository
	cache      *redisinfra.AvailabilityCache
}

func NewTicketService(tr ticket.Repository, er event.Repository, cache *redisinfra.AvailabilityCache) *TicketService {
	return &TicketService{ticketRepo: tr, eventRepo: er, cache: cache}
}

func (s *TicketService) GetTicketType(ctx context.Context, id string) (*ticket.TicketType, error) {
	return s.ticketRepo.GetByID(ctx, id)
}

func (s *TicketService) GetTicketTypesByEvent(ctx context.Context, eventID string) ([]*ticket.TicketType, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, fmt.Errorf("イベント取得に失敗: %w", err)
	}
	return s.ticketRepo.GetByEventID(ctx, eventID)
}

// CountRemainingTickets はイベントの残チケット総数を返す
func (s *TicketService) CountRemainingTickets(ctx context.Context, eventID string) (int, error) {
	// キャッシュから取得を試みる
	if s.cache != nil {
		count, err := s.cache.GetRemainingCount(ctx, eventID)
		if err == nil {
			logger.Debug("キャッシュヒット", zap.String("event_id", eventID), zap.Int("count", count))
			return count, nil
		}
		if !errors.Is(err, redisinfra.ErrCacheMiss) {
			logger.Warn("キャッシュ取得エラー", zap.Error(err))
		}
	}

	// DBから取得
	count, err := s.ticketRepo.CountRemainingByEventID(ctx, eventID)
	if err != nil {
		return 0, err
	}

	// キャッシュに保存
	if s.cache != nil {
		if cacheErr := s.cache.SetRemainingCount(ctx, eventID, count, availabilityCacheTTL); cacheErr != nil {
			logger.Warn("キャッシュ保存エラー", zap.Error(cacheErr))
		}
	}

	return count, nil
}
