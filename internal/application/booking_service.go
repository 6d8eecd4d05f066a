package application

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-event-ticket-booking/internal/domain/booking"
	"github.com/sanosuguru/go-event-ticket-booking/internal/domain/ticket"
	"github.com/sanosuguru/go-event-ticket-booking/internal/domain/transaction"
	redisinfra "github.com/sanosuguru/go-event-ticket-booking/internal/infrastructure/redis"
	"github.com/sanosuguru/go-event-ticket-booking/internal/pkg/logger"
	"github.com/sanosuguru/go-event-ticket-booking/internal/pkg/metrics"
)

const (
	// 直列化競合時の再試行回数（競合以外のエラーは再試行しない）
	maxConflictRetries = 3

	bookingLockTTL = 10 * time.Second
)

type BookingService struct {
	txManager   transaction.Manager
	bookingRepo booking.Repository
	ticketRepo  ticket.Repository
	lockManager *redisinfra.LockManager
	cache       *redisinfra.AvailabilityCache
	metrics     *metrics.Metrics
}

func NewBookingService(
	txManager transaction.Manager,
	br booking.Repository,
	tr ticket.Repository,
	lm *redisinfra.LockManager,
	cache *redisinfra.AvailabilityCache,
	m *metrics.Metrics,
) *BookingService {
	return &BookingService{
		txManager: txManager, bookingRepo: br, ticketRepo: tr,
		lockManager: lm, cache: cache, metrics: m,
	}
}

// LineItemInput は予約リクエストの明細行
type LineItemInput struct {
	TicketTypeID string
	Quantity     int
}

// CreateBookingInput は予約作成の入力
// クライアントが提示する合計金額は信用せず、ここには含めない
type CreateBookingInput struct {
	UserID  string
	EventID string
	Items   []LineItemInput
}

// CreateBooking は在庫検証・合計再計算・在庫減算・予約作成を
// 1つのトランザクションとして実行する
// 同一チケット区分への並行予約は行ロックで直列化され、売り越しは発生しない
func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*booking.Booking, error) {
	if input.UserID == "" {
		return nil, booking.ErrUserIDRequired
	}
	if len(input.Items) == 0 {
		return nil, booking.ErrItemsRequired
	}
	for _, item := range input.Items {
		if item.TicketTypeID == "" {
			return nil, booking.ErrTicketTypeIDRequired
		}
		if item.Quantity < 1 {
			return nil, booking.ErrInvalidItemQuantity
		}
	}

	// チケット区分IDでソートしてロック取得順を固定（デッドロック防止）
	items := make([]LineItemInput, len(input.Items))
	copy(items, input.Items)
	sort.Slice(items, func(i, j int) bool { return items[i].TicketTypeID < items[j].TicketTypeID })

	// 分散ロックは競合の間引きのみが目的で、正しさはDBトランザクションが保証する
	if s.lockManager != nil {
		lockKey := s.buildTicketLockKey(items)
		start := time.Now()
		lock, err := s.lockManager.AcquireLockWithRetry(ctx, lockKey, bookingLockTTL, 3, 100*time.Millisecond)
		s.observeLock("acquire", err, time.Since(start))
		if err != nil {
			if errors.Is(err, redisinfra.ErrLockNotAcquired) {
				return nil, transaction.ErrConflict
			}
			return nil, fmt.Errorf("ロック取得に失敗: %w", err)
		}
		defer func() {
			start := time.Now()
			releaseErr := lock.Release(ctx)
			s.observeLock("release", releaseErr, time.Since(start))
		}()
	}

	var created *booking.Booking
	var err error
	for attempt := 0; ; attempt++ {
		created, err = s.createBookingTx(ctx, input.UserID, items)
		if err == nil {
			break
		}
		if errors.Is(err, transaction.ErrConflict) && attempt < maxConflictRetries {
			logger.Warn("トランザクション競合のため再試行",
				zap.Int("attempt", attempt+1),
				zap.String("user_id", input.UserID),
			)
			continue
		}
		s.recordBooking(err)
		return nil, err
	}

	s.recordBooking(nil)
	if s.metrics != nil && input.EventID != "" {
		var sold int
		for _, item := range items {
			sold += item.Quantity
		}
		s.metrics.TicketsSoldTotal.WithLabelValues(input.EventID).Add(float64(sold))
	}

	// 表示用キャッシュの無効化はベストエフォート
	if s.cache != nil && input.EventID != "" {
		if cacheErr := s.cache.Invalidate(ctx, input.EventID); cacheErr != nil {
			logger.Warn("キャッシュ無効化エラー", zap.Error(cacheErr))
		}
	}

	return created, nil
}

// createBookingTx は予約トランザクション本体
// 検証と減算を同一トランザクションで行い、check-then-actの競合を排除する
func (s *BookingService) createBookingTx(ctx context.Context, userID string, items []LineItemInput) (*booking.Booking, error) {
	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	// 在庫検証と合計の再計算（永続化された価格のみを使用）
	totalAmount := 0
	for _, item := range items {
		tt, err := s.ticketRepo.GetByIDForUpdate(ctx, tx, item.TicketTypeID)
		if err != nil {
			return nil, err
		}
		if !tt.HasStock(item.Quantity) {
			return nil, &ticket.InsufficientStockError{
				Name:      tt.Name,
				Available: tt.Quantity,
				Requested: item.Quantity,
			}
		}
		totalAmount += tt.Price * item.Quantity
	}

	// 在庫減算
	for _, item := range items {
		if err := s.ticketRepo.DecrementQuantity(ctx, tx, item.TicketTypeID, item.Quantity); err != nil {
			return nil, err
		}
	}

	// 予約と明細を作成
	bookingItems := make([]booking.Item, len(items))
	for i, item := range items {
		bookingItems[i] = booking.Item{TicketTypeID: item.TicketTypeID, Quantity: item.Quantity}
	}
	b := booking.NewBooking(userID, totalAmount, bookingItems)
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if err := s.bookingRepo.Create(ctx, tx, b); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return b, nil
}

// buildTicketLockKey はチケット区分IDからロックキーを生成（ソート済み前提）
func (s *BookingService) buildTicketLockKey(items []LineItemInput) string {
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.TicketTypeID
	}
	return "tickets:" + strings.Join(ids, ",")
}

func (s *BookingService) recordBooking(err error) {
	if s.metrics == nil {
		return
	}
	status := "success"
	var insufficientErr *ticket.InsufficientStockError
	switch {
	case err == nil:
	case errors.As(err, &insufficientErr):
		status = "insufficient_stock"
	case errors.Is(err, ticket.ErrTicketTypeNotFound):
		status = "not_found"
	case errors.Is(err, transaction.ErrConflict):
		status = "conflict"
	default:
		status = "error"
	}
	s.metrics.BookingsTotal.WithLabelValues(status).Inc()
}

func (s *BookingService) observeLock(operation string, err error, d time.Duration) {
	if s.metrics == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failed"
	}
	s.metrics.DistributedLockDuration.WithLabelValues(operation, status).Observe(d.Seconds())
}

func (s *BookingService) GetBooking(ctx context.Context, id string) (*booking.Booking, error) {
	return s.bookingRepo.GetByID(ctx, id)
}

func (s *BookingService) GetUserBookings(ctx context.Context, userID string, limit, offset int) ([]*booking.Booking, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.bookingRepo.GetByUserID(ctx, userID, limit, offset)
}
