package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"appointment-booking/internal/domain"
)

type AppointmentRepo struct{ db *gorm.DB }

func NewAppointmentRepo(db *gorm.DB) *AppointmentRepo { return &AppointmentRepo{db: db} }

// Create 外键不成立（用户已被删，而上层拿到的是旧数据）时返回 domain.ErrUserNotFound
func (r *AppointmentRepo) Create(ctx context.Context, a *domain.Appointment) error {
	err := r.db.WithContext(ctx).Create(a).Error
	if err != nil && isForeignKeyViolation(err) {
		return fmt.Errorf("user %d: %w", a.UserID, domain.ErrUserNotFound)
	}
	return err
}

func (r *AppointmentRepo) FindByID(ctx context.Context, id uint) (*domain.Appointment, error) {
	var a domain.Appointment
	err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AppointmentRepo) FindByUserID(ctx context.Context, userID uint) ([]domain.Appointment, error) {
	var out []domain.Appointment
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&out).Error
	return out, err
}

// UpdateSchedule 只写 date/time 两列；不看 RowsAffected（MySQL 值未变时返回 0）
func (r *AppointmentRepo) UpdateSchedule(ctx context.Context, id uint, date, time string) error {
	return r.db.WithContext(ctx).
		Model(&domain.Appointment{}).
		Where("id = ?", id).
		Updates(map[string]any{"date": date, "time": time}).Error
}

func (r *AppointmentRepo) Delete(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Appointment{})
	return res.RowsAffected, res.Error
}
