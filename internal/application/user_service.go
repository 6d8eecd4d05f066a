package application

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/sanosuguru/go-event-ticket-booking/internal/domain/user"
)

const bcryptCost = 12

type UserService struct {
	userRepo user.Repository
}

func NewUserService(ur user.Repository) *UserService {
	return &UserService{userRepo: ur}
}

type CreateUserInput struct {
	Email    string
	Name     string
	Password string
	Role     user.Role
}

func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (*user.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("パスワードハッシュ化に失敗: %w", err)
	}

	u := user.NewUser(input.Email, input.Name, string(hash), input.Role)
	if err := u.Validate(); err != nil {
		return nil, fmt.Errorf("バリデーションエラー: %w", err)
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (*user.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]*user.User, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.userRepo.List(ctx, limit, offset)
}

type UpdateUserInput struct {
	ID    string
	Email string
	Name  string
	Role  user.Role
}

func (s *UserService) UpdateUser(ctx context.Context, input UpdateUserInput) (*user.User, error) {
	u, err := s.userRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	u.Email = input.Email
	u.Name = input.Name
	u.Role = input.Role
	if err := u.Validate(); err != nil {
		return nil, fmt.Errorf("バリデーションエラー: %w", err)
	}
	if err := s.userRepo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	return s.userRepo.Delete(ctx, id)
}
