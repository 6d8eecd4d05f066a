package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-event-ticket-booking/internal/pkg/logger"
)

// PromotionDeactivator は期限切れプロモーションを無効化するインターフェース
type PromotionDeactivator interface {
	DeactivateExpiredPromotions(ctx context.Context) (int, error)
}

// PromotionSweeper は期限切れプロモーションを定期的に無効化するワーカー
type PromotionSweeper struct {
	promotionService PromotionDeactivator
	interval         time.Duration
	stopCh           chan struct{}
	doneCh           chan struct{}
}

// NewPromotionSweeper は新しいスイーパーを作成
func NewPromotionSweeper(ps PromotionDeactivator, interval time.Duration) *PromotionSweeper {
	return &PromotionSweeper{
		promotionService: ps,
		interval:         interval,
		stopCh:           make(chan struct{}),
		doneCh:           make(chan struct{}),
	}
}

// Start はスイーパーを開始
func (s *PromotionSweeper) Start(ctx context.Context) {
	logger.Info("プロモーションスイーパー開始", zap.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	defer close(s.doneCh)

	for {
		select {
		case <-ctx.Done():
			logger.Info("プロモーションスイーパー停止（コンテキストキャンセル）")
			return
		case <-s.stopCh:
			logger.Info("プロモーションスイーパー停止（シグナル受信）")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// Stop はスイーパーを停止
func (s *PromotionSweeper) Stop() {
	close(s.stopCh)
	<-s.doneCh
}

// sweep は期限切れプロモーションを無効化
func (s *PromotionSweeper) sweep(ctx context.Context) {
	log := logger.Get()
	log.Debug("期限切れプロモーションの無効化開始")

	count, err := s.promotionService.DeactivateExpiredPromotions(ctx)
	if err != nil {
		log.Error("期限切れプロモーションの無効化失敗", zap.Error(err))
		return
	}

	if count > 0 {
		log.Info("期限切れプロモーションを無効化", zap.Int("count", count))
	} else {
		log.Debug("期限切れプロモーションなし")
	}
}
