package transaction

import (
	"context"
	"errors"
)

// ErrConflict はストレージが直列化競合を検出したことを表す
// 競合したトランザクションは全体を再試行できる
var ErrConflict = errors.New("トランザクションの競合が発生しました")

// Tx は進行中のトランザクションを表す
// ドメイン層とアプリケーション層はこの抽象を介して操作し、
// sqlx等のインフラ実装を直接参照しない
type Tx interface {
	Commit() error
	Rollback() error
}

// Manager はトランザクションの開始点
type Manager interface {
	Begin(ctx context.Context) (Tx, error)
}
