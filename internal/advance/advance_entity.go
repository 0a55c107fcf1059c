package advance

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending  = "pending"
	StatusPartial  = "partial"
	StatusDeducted = "deducted"

	SettledByPayRun = "payrun"
	SettledByManual = "manual"
)

// Advance is a cash advance recovered through payroll. Amounts are in paise.
// RemainingAmount is what the next pay run will deduct; SettledBy records
// whether the recovery happened inside a pay run or by manual HR action.
type Advance struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID      uuid.UUID `gorm:"type:uuid;index"`
	Amount          int64     `gorm:"not null"`
	RemainingAmount int64     `gorm:"not null"`
	SettledAmount   int64
	Reason          string
	DeductionMonth  int    `gorm:"index:idx_advance_schedule"`
	DeductionYear   int    `gorm:"index:idx_advance_schedule"`
	Status          string `gorm:"type:varchar(10);default:'pending';index"`
	SettledBy       string `gorm:"type:varchar(10)"`
	SettledAt       *time.Time
	DisbursedOn     time.Time `gorm:"type:date"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
