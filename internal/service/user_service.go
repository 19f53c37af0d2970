package service

import (
	"context"
	"fmt"
	"strings"

	"appointment-booking/internal/domain"
)

type CreateUserInput struct {
	Name  string
	Email string
	Role  string
}

type UserService struct {
	users domain.UserRepository
	appts domain.AppointmentRepository
}

func NewUserService(users domain.UserRepository, appts domain.AppointmentRepository) *UserService {
	return &UserService{users: users, appts: appts}
}

func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*domain.User, error) {
	email := strings.TrimSpace(in.Email)
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("email %q already registered: %w", email, domain.ErrConflict)
	}
	u := &domain.User{
		Name:  strings.TrimSpace(in.Name),
		Email: email,
		Role:  strings.TrimSpace(in.Role),
	}
	if err := s.users.Create(ctx, u); err != nil {
		// 并发注册同一邮箱：唯一索引兜底，repo 已翻译成 ErrConflict
		return nil, err
	}
	return u, nil
}

func (s *UserService) Get(ctx context.Context, id uint) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

// Delete 仍有预约时拒绝删除（RESTRICT），不级联
func (s *UserService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	appts, err := s.appts.FindByUserID(ctx, id)
	if err != nil {
		return err
	}
	if len(appts) > 0 {
		return fmt.Errorf("user %d has %d appointment(s): %w", id, len(appts), domain.ErrConflict)
	}
	n, err := s.users.Delete(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
