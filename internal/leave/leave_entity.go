package leave

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"

	TypeCasual = "CASUAL"
	TypeSick   = "SICK"
	TypeEarned = "EARNED"
	TypeUnpaid = "UNPAID"
)

type LeaveRequest struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID uuid.UUID `gorm:"type:uuid;index"`
	LeaveType  string    `gorm:"type:varchar(10);not null"`
	StartDate  time.Time `gorm:"type:date"`
	EndDate    time.Time `gorm:"type:date"`
	Days       int       `gorm:"not null"`
	Reason     string
	Status     string     `gorm:"type:varchar(10);default:'PENDING';index"`
	DecidedBy  *uuid.UUID `gorm:"type:uuid"`
	DecidedAt  *time.Time
	Comment    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (LeaveRequest) TableName() string { return "leave_requests" }
