package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID *uuid.UUID `gorm:"type:uuid;index"`
	Name       string     `gorm:"type:varchar(120);not null"`
	Email      string     `gorm:"type:varchar(160);not null;uniqueIndex"`
	Password   string     `gorm:"type:varchar(100);not null"`
	Role       string     `gorm:"type:varchar(30);not null;default:'STAFF'"`
	IsActive   bool       `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

func (User) TableName() string {
	return "users"
}
