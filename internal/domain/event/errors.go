package event

import "errors"

// Event ドメインのエラー定義
var (
	ErrEventNotFound          = errors.New("イベントが見つかりません")
	ErrTitleRequired          = errors.New("イベントタイトルは必須です")
	ErrLocationRequired       = errors.New("開催場所は必須です")
	ErrDateRequired           = errors.New("開催日時は必須です")
	ErrOptimisticLockConflict = errors.New("楽観的ロックの競合が発生しました")
)
