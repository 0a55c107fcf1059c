package attendance

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Upsert(ctx context.Context, att *Attendance) error
	FindByEmployeePeriod(ctx context.Context, employeeID string, month, year int) (*Attendance, error)
	ListByPeriod(ctx context.Context, month, year int) ([]Attendance, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]Attendance, error)
	Delete(ctx context.Context, id string) error
	EmployeeExists(ctx context.Context, employeeID string) (bool, error)
	PeriodHasPayRun(ctx context.Context, month, year int) (bool, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Upsert(ctx context.Context, att *Attendance) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "employee_id"}, {Name: "month"}, {Name: "year"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"total_working_days", "present_days", "absent_days",
			"paid_leave_days", "unpaid_leave_days", "updated_at",
		}),
	}).Create(att).Error
}

func (r *repository) FindByEmployeePeriod(ctx context.Context, employeeID string, month, year int) (*Attendance, error) {
	var att Attendance
	err := r.db.WithContext(ctx).
		First(&att, "employee_id = ? AND month = ? AND year = ?", employeeID, month, year).Error
	return &att, err
}

func (r *repository) ListByPeriod(ctx context.Context, month, year int) ([]Attendance, error) {
	var atts []Attendance
	err := r.db.WithContext(ctx).
		Where("month = ? AND year = ?", month, year).
		Order("employee_id ASC").
		Find(&atts).Error
	return atts, err
}

func (r *repository) ListByEmployee(ctx context.Context, employeeID string) ([]Attendance, error) {
	var atts []Attendance
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("year DESC, month DESC").
		Find(&atts).Error
	return atts, err
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&Attendance{}, "id = ?", id).Error
}

func (r *repository) EmployeeExists(ctx context.Context, employeeID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("employees").
		Where("id = ? AND deleted_at IS NULL", employeeID).
		Count(&count).Error
	return count > 0, err
}

// PeriodHasPayRun reports whether payroll was already generated for the period.
func (r *repository) PeriodHasPayRun(ctx context.Context, month, year int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("pay_runs").
		Where("month = ? AND year = ?", month, year).
		Count(&count).Error
	return count > 0, err
}
