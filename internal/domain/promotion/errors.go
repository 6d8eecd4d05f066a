package promotion

import "errors"

// Promotion ドメインのエラー定義
var (
	ErrPromotionNotFound  = errors.New("プロモーションが見つかりません")
	ErrCodeRequired       = errors.New("プロモーションコードは必須です")
	ErrInvalidDiscount    = errors.New("割引率は0〜100である必要があります")
	ErrValidUntilRequired = errors.New("有効期限は必須です")
	ErrCodeAlreadyExists  = errors.New("同じプロモーションコードが既に存在します")
	ErrPromotionInvalid   = errors.New("プロモーションは無効か期限切れです")
)
