package user

import "time"

// Role はユーザーの権限を表す
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// User はユーザーエンティティを表す
// 認証自体は外部のIDプロバイダーに委ねており、ここでは管理用の属性のみ扱う
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser は新しいユーザーを作成する
func NewUser(email, name, passwordHash string, role Role) *User {
	now := time.Now()
	return &User{
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// IsAdmin は管理者権限を持つかを返す
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Validate はユーザーの検証を行う
func (u *User) Validate() error {
	if u.Email == "" {
		return ErrEmailRequired
	}
	if u.Role != RoleAdmin && u.Role != RoleUser {
		return ErrInvalidRole
	}
	return nil
}
