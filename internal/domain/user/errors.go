package user

import "errors"

// User ドメインのエラー定義
var (
	ErrUserNotFound       = errors.New("ユーザーが見つかりません")
	ErrEmailRequired      = errors.New("メールアドレスは必須です")
	ErrInvalidRole        = errors.New("権限はADMINまたはUSERである必要があります")
	ErrEmailAlreadyExists = errors.New("同じメールアドレスのユーザーが既に存在します")
)
