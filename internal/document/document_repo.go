package document

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EmployeeInfo is the slice of the employee profile letters print.
type EmployeeInfo struct {
	ID           uuid.UUID
	Code         string
	FullName     string
	Email        string
	Designation  string
	Department   string
	JoinDate     time.Time
	Status       string
	AnnualCTC    int64
	MonthlyBasic int64
}

// PayslipInfo joins the stored pay record with its run period.
type PayslipInfo struct {
	ItemID           uuid.UUID
	PayRunID         uuid.UUID
	EmployeeID       uuid.UUID
	EmployeeCode     string
	EmployeeName     string
	Month            int
	Year             int
	TotalWorkingDays int
	PayableDays      int
	LossOfPayDays    int

	AdjustedBasic    int64
	TotalAllowances  int64
	GrossSalary      int64
	PFEmployee       int64
	ESIEmployee      int64
	ProfessionalTax  int64
	TDS              int64
	AdvanceDeduction int64
	LoanDeduction    int64
	TotalDeductions  int64
	NetPay           int64
}

type Repository interface {
	Create(ctx context.Context, doc *GeneratedDocument) error
	FindAll(ctx context.Context) ([]GeneratedDocument, error)
	FindByEmployee(ctx context.Context, employeeID string) ([]GeneratedDocument, error)
	FindByID(ctx context.Context, id string) (*GeneratedDocument, error)
	FindEmployeeInfo(ctx context.Context, employeeID string) (*EmployeeInfo, error)
	FindPayslipInfo(ctx context.Context, payRunID, itemID string) (*PayslipInfo, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, doc *GeneratedDocument) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

func (r *repository) FindAll(ctx context.Context) ([]GeneratedDocument, error) {
	var docs []GeneratedDocument
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&docs).Error
	return docs, err
}

func (r *repository) FindByEmployee(ctx context.Context, employeeID string) ([]GeneratedDocument, error) {
	var docs []GeneratedDocument
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("created_at DESC").
		Find(&docs).Error
	return docs, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*GeneratedDocument, error) {
	var doc GeneratedDocument
	err := r.db.WithContext(ctx).First(&doc, "id = ?", id).Error
	return &doc, err
}

func (r *repository) FindEmployeeInfo(ctx context.Context, employeeID string) (*EmployeeInfo, error) {
	var info EmployeeInfo
	err := r.db.WithContext(ctx).Raw(`
		SELECT e.id, e.employee_code AS code, e.full_name, e.email,
		       COALESCE(dg.title, '') AS designation,
		       COALESCE(dp.name, '') AS department,
		       e.join_date, e.status, e.annual_ctc, e.monthly_basic
		FROM employees e
		LEFT JOIN designations dg ON dg.id = e.designation_id
		LEFT JOIN departments dp ON dp.id = e.department_id
		WHERE e.id = ? AND e.deleted_at IS NULL
	`, employeeID).Scan(&info).Error
	if err != nil {
		return nil, err
	}
	if info.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &info, nil
}

func (r *repository) FindPayslipInfo(ctx context.Context, payRunID, itemID string) (*PayslipInfo, error) {
	var info PayslipInfo
	err := r.db.WithContext(ctx).Raw(`
		SELECT i.id AS item_id, i.pay_run_id, i.employee_id,
		       i.employee_code, i.employee_name,
		       p.month, p.year,
		       i.total_working_days, i.payable_days, i.loss_of_pay_days,
		       i.adjusted_basic, i.total_allowances, i.gross_salary,
		       i.pf_employee, i.esi_employee, i.professional_tax, i.tds,
		       i.advance_deduction, i.loan_deduction, i.total_deductions, i.net_pay
		FROM pay_run_items i
		JOIN pay_runs p ON p.id = i.pay_run_id
		WHERE i.id = ? AND i.pay_run_id = ?
	`, itemID, payRunID).Scan(&info).Error
	if err != nil {
		return nil, err
	}
	if info.ItemID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &info, nil
}
