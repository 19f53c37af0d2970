package repo

import (
	"gorm.io/gorm"

	"appointment-booking/internal/domain"
)

// appointmentTable 仅用于迁移：带上外键约束，领域模型本身不挂关联
type appointmentTable struct {
	domain.Appointment
	User domain.User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

func (appointmentTable) TableName() string { return "appointment" }

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&domain.User{}, &appointmentTable{})
}
