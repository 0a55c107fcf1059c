package payrun

import (
	"time"

	"github.com/google/uuid"
)

const StatusCompleted = "COMPLETED"

// PayRun is the persisted result of one payroll generation for a period.
// Regeneration replaces the whole batch; there is never more than one row
// per (month, year).
type PayRun struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	Month           int       `gorm:"uniqueIndex:idx_payrun_period"`
	Year            int       `gorm:"uniqueIndex:idx_payrun_period"`
	Status          string    `gorm:"type:varchar(12);default:'COMPLETED'"`
	EmployeeCount   int       `gorm:"not null"`
	ProcessedCount  int       `gorm:"not null"`
	TotalGross      int64     `gorm:"not null"`
	TotalDeductions int64     `gorm:"not null"`
	TotalNet        int64     `gorm:"not null"`
	GeneratedBy     *uuid.UUID `gorm:"type:uuid"`
	GeneratedAt     time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Items    []PayRunItem    `gorm:"foreignKey:PayRunID;constraint:OnDelete:CASCADE"`
	Failures []PayRunFailure `gorm:"foreignKey:PayRunID;constraint:OnDelete:CASCADE"`
}

func (PayRun) TableName() string { return "pay_runs" }

// PayRunItem is one employee's pay record. Everything needed to explain the
// number is snapshotted here; later edits to the employee or attendance do
// not rewrite history. Amounts in paise.
type PayRunItem struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	PayRunID     uuid.UUID `gorm:"type:uuid;index"`
	EmployeeID   uuid.UUID `gorm:"type:uuid;index"`
	EmployeeCode string
	EmployeeName string

	TotalWorkingDays    int
	PayableDays         int
	LossOfPayDays       int
	AttendanceDefaulted bool

	Basic           int64
	LossOfPayAmount int64
	AdjustedBasic   int64
	HRA             int64
	Conveyance      int64
	TelephoneAllow  int64
	MedicalAllow    int64
	SpecialAllow    int64
	TotalAllowances int64
	GrossSalary     int64

	PFEmployee       int64
	PFEmployer       int64
	ESIEmployee      int64
	ESIEmployer      int64
	ProfessionalTax  int64
	TDS              int64
	AdvanceDeduction int64
	LoanDeduction    int64
	TotalDeductions  int64
	NetPay           int64

	CreatedAt time.Time
}

func (PayRunItem) TableName() string { return "pay_run_items" }

// PayRunFailure records an employee skipped by a run, so a partial run is
// visible rather than silent.
type PayRunFailure struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	PayRunID     uuid.UUID `gorm:"type:uuid;index"`
	EmployeeID   uuid.UUID `gorm:"type:uuid"`
	EmployeeCode string
	Reason       string
	CreatedAt    time.Time
}

func (PayRunFailure) TableName() string { return "pay_run_failures" }
