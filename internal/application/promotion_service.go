package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sanosuguru/go-event-ticket-booking/internal/domain/promotion"
)

type PromotionService struct {
	promotionRepo promotion.Repository
}

func NewPromotionService(pr promotion.Repository) *PromotionService {
	return &PromotionService{promotionRepo: pr}
}

type CreatePromotionInput struct {
	Code            string
	DiscountPercent int
	ValidUntil      time.Time
}

func (s *PromotionService) CreatePromotion(ctx context.Context, input CreatePromotionInput) (*promotion.Promotion, error) {
	p := promotion.NewPromotion(input.Code, input.DiscountPercent, input.ValidUntil)
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("バリデーションエラー: %w", err)
	}
	if err := s.promotionRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PromotionService) GetPromotion(ctx context.Context, id string) (*promotion.Promotion, error) {
	return s.promotionRepo.GetByID(ctx, id)
}

func (s *PromotionService) ListPromotions(ctx context.Context, limit, offset int) ([]*promotion.Promotion, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.promotionRepo.List(ctx, limit, offset)
}

type UpdatePromotionInput struct {
	ID              string
	Code            string
	DiscountPercent int
	ValidUntil      time.Time
	IsActive        bool
}

func (s *PromotionService) UpdatePromotion(ctx context.Context, input UpdatePromotionInput) (*promotion.Promotion, error) {
	p, err := s.promotionRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	p.Code = strings.ToUpper(strings.TrimSpace(input.Code))
	p.DiscountPercent = input.DiscountPercent
	p.ValidUntil = input.ValidUntil
	p.IsActive = input.IsActive
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("バリデーションエラー: %w", err)
	}
	if err := s.promotionRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PromotionService) DeletePromotion(ctx context.Context, id string) error {
	return s.promotionRepo.Delete(ctx, id)
}

// ValidateCode は有効なプロモーションコードの割引率を返す
// 割引は表示用の参照値であり、予約合計の計算には関与しない
func (s *PromotionService) ValidateCode(ctx context.Context, code string) (*promotion.Promotion, error) {
	p, err := s.promotionRepo.GetByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, err
	}
	if !p.IsValid(time.Now()) {
		return nil, promotion.ErrPromotionInvalid
	}
	return p, nil
}

// DeactivateExpiredPromotions は期限切れプロモーションを無効化し、件数を返す
// バックグラウンドワーカーから定期的に呼ばれる
func (s *PromotionService) DeactivateExpiredPromotions(ctx context.Context) (int, error) {
	return s.promotionRepo.DeactivateExpired(ctx, time.Now())
}
