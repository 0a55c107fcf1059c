package loan

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"

	EMIStatusPending   = "pending"
	EMIStatusPaid      = "paid"
	EMIStatusCancelled = "cancelled"

	SettledByPayRun = "payrun"
	SettledByManual = "manual"
)

// Loan is an employee loan recovered in fixed monthly instalments.
// Amounts are in paise.
type Loan struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID      uuid.UUID `gorm:"type:uuid;index"`
	PrincipalAmount int64     `gorm:"not null"`
	EMIAmount       int64     `gorm:"not null"`
	TenureMonths    int       `gorm:"not null"`
	StartMonth      int       `gorm:"not null"`
	StartYear       int       `gorm:"not null"`
	Reason          string
	Status          string `gorm:"type:varchar(10);default:'active';index"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Schedule []LoanEMI `gorm:"foreignKey:LoanID;constraint:OnDelete:CASCADE"`
}

// LoanEMI is one instalment of a loan's repayment schedule. EmployeeID is
// denormalized so the payroll snapshot query never needs a join.
type LoanEMI struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	LoanID     uuid.UUID `gorm:"type:uuid;index"`
	EmployeeID uuid.UUID `gorm:"type:uuid;index:idx_emi_schedule"`
	Sequence   int       `gorm:"not null"`
	Month      int       `gorm:"index:idx_emi_schedule"`
	Year       int       `gorm:"index:idx_emi_schedule"`
	Amount     int64     `gorm:"not null"`
	Status     string    `gorm:"type:varchar(10);default:'pending';index"`
	SettledBy  string    `gorm:"type:varchar(10)"`
	SettledAt  *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (LoanEMI) TableName() string { return "loan_emis" }
