package attendance

import (
	"time"

	"github.com/google/uuid"
)

// Attendance is the HR-entered monthly sheet, one row per employee per period.
type Attendance struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID       uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_attendance_period"`
	Month            int       `gorm:"uniqueIndex:idx_attendance_period"`
	Year             int       `gorm:"uniqueIndex:idx_attendance_period"`
	TotalWorkingDays int       `gorm:"not null"`
	PresentDays      int
	AbsentDays       int
	PaidLeaveDays    int
	UnpaidLeaveDays  int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// PayableDays counts the days the employee is paid for.
func (a Attendance) PayableDays() int {
	return a.PresentDays + a.PaidLeaveDays
}

// LossOfPayDays counts unpaid days.
func (a Attendance) LossOfPayDays() int {
	return a.AbsentDays + a.UnpaidLeaveDays
}
