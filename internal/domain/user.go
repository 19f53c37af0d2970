package domain

import "context"

// 角色只是约定值，不做枚举校验
const (
	RoleAdmin    = "Admin"
	RoleCustomer = "Customer"
)

type User struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"size:100;not null" json:"name"`
	Email string `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Role  string `gorm:"size:50;not null" json:"role"`
}

func (User) TableName() string { return "user" }

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id uint) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Delete(ctx context.Context, id uint) (int64, error)
}
