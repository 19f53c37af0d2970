package domain

import "context"

// Appointment 只持有 UserID 外键值，不反向挂到 User 上
type Appointment struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Date   string `gorm:"size:50;not null" json:"date"`
	Time   string `gorm:"size:50;not null" json:"time"`
	UserID uint   `gorm:"not null;index" json:"user_id"`
}

func (Appointment) TableName() string { return "appointment" }

type AppointmentRepository interface {
	Create(ctx context.Context, a *Appointment) error
	FindByID(ctx context.Context, id uint) (*Appointment, error)
	FindByUserID(ctx context.Context, userID uint) ([]Appointment, error)
	UpdateSchedule(ctx context.Context, id uint, date, time string) error
	Delete(ctx context.Context, id uint) (int64, error)
}
