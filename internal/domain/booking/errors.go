package booking

import "errors"

// Booking ドメインのエラー定義
var (
	ErrBookingNotFound      = errors.New("予約が見つかりません")
	ErrUserIDRequired       = errors.New("ユーザーIDは必須です")
	ErrItemsRequired        = errors.New("明細は1件以上必要です")
	ErrTicketTypeIDRequired = errors.New("チケット区分IDは必須です")
	ErrInvalidItemQuantity  = errors.New("明細の数量は1以上である必要があります")
	ErrInvalidTotalAmount   = errors.New("合計金額は0以上である必要があります")
)
