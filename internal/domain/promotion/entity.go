package promotion

import (
	"strings"
	"time"
)

// Promotion は割引コードを表す
// 単純な参照テーブルであり、予約コアの整合性には関与しない
type Promotion struct {
	ID              string
	Code            string
	DiscountPercent int
	ValidUntil      time.Time
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewPromotion は新しいプロモーションを作成する（コードは大文字に正規化）
func NewPromotion(code string, discountPercent int, validUntil time.Time) *Promotion {
	now := time.Now()
	return &Promotion{
		Code:            strings.ToUpper(strings.TrimSpace(code)),
		DiscountPercent: discountPercent,
		ValidUntil:      validUntil,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// IsValid はプロモーションが現在有効かを返す
func (p *Promotion) IsValid(now time.Time) bool {
	return p.IsActive && now.Before(p.ValidUntil)
}

// Deactivate はプロモーションを無効化する
func (p *Promotion) Deactivate() {
	p.IsActive = false
	p.UpdatedAt = time.Now()
}

// Validate はプロモーションの検証を行う
func (p *Promotion) Validate() error {
	if p.Code == "" {
		return ErrCodeRequired
	}
	if p.DiscountPercent < 0 || p.DiscountPercent > 100 {
		return ErrInvalidDiscount
	}
	if p.ValidUntil.IsZero() {
		return ErrValidUntilRequired
	}
	return nil
}
