package service

import (
	"context"

	"appointment-booking/internal/domain"
)

type CreateAppointmentInput struct {
	UserID uint
	Date   string
	Time   string
}

// UpdateAppointmentInput nil 表示保留原值
type UpdateAppointmentInput struct {
	Date *string
	Time *string
}

type AppointmentService struct {
	users domain.UserRepository
	appts domain.AppointmentRepository
}

func NewAppointmentService(users domain.UserRepository, appts domain.AppointmentRepository) *AppointmentService {
	return &AppointmentService{users: users, appts: appts}
}

// Create 先确认用户存在再写入；用户不存在时不落库
func (s *AppointmentService) Create(ctx context.Context, in CreateAppointmentInput) (*domain.Appointment, error) {
	u, err := s.users.FindByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	a := &domain.Appointment{UserID: u.ID, Date: in.Date, Time: in.Time}
	if err := s.appts.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AppointmentService) Get(ctx context.Context, id uint) (*domain.Appointment, error) {
	a, err := s.appts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.ErrAppointmentNotFound
	}
	return a, nil
}

// Update 局部更新 date/time，不重新校验用户
func (s *AppointmentService) Update(ctx context.Context, id uint, in UpdateAppointmentInput) (*domain.Appointment, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Date != nil {
		a.Date = *in.Date
	}
	if in.Time != nil {
		a.Time = *in.Time
	}
	if err := s.appts.UpdateSchedule(ctx, a.ID, a.Date, a.Time); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AppointmentService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	n, err := s.appts.Delete(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		// 查到之后被并发删掉了
		return domain.ErrAppointmentNotFound
	}
	return nil
}

func (s *AppointmentService) ListByUser(ctx context.Context, userID uint) ([]domain.Appointment, error) {
	return s.appts.FindByUserID(ctx, userID)
}
