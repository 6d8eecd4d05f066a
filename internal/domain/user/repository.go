package user

import "context"

// Repository はユーザーリポジトリのインターフェース
type Repository interface {
	// Create は新しいユーザーを作成する
	Create(ctx context.Context, u *User) error

	// GetByID はIDからユーザーを取得する
	GetByID(ctx context.Context, id string) (*User, error)

	// GetByEmail はメールアドレスからユーザーを取得する
	GetByEmail(ctx context.Context, email string) (*User, error)

	// List はユーザー一覧を取得する
	List(ctx context.Context, limit, offset int) ([]*User, error)

	// Update はユーザーを更新する
	Update(ctx context.Context, u *User) error

	// Delete はユーザーを削除する
	Delete(ctx context.Context, id string) error
}
