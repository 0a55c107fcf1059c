package loan

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, loan *Loan) error
	FindAll(ctx context.Context) ([]Loan, error)
	FindByEmployee(ctx context.Context, employeeID string) ([]Loan, error)
	FindByID(ctx context.Context, id string) (*Loan, error)
	UpdateLoan(ctx context.Context, loan *Loan) error
	UpdateEMI(ctx context.Context, emi *LoanEMI) error
	FindEMIByID(ctx context.Context, id string) (*LoanEMI, error)
	CountPendingEMIs(ctx context.Context, loanID string) (int64, error)
	CancelPendingEMIs(ctx context.Context, loanID string) error
	Delete(ctx context.Context, id string) error
	EmployeeExists(ctx context.Context, employeeID string) (bool, error)
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

// Create persists the loan and its full schedule in one gorm create.
func (r *repository) Create(ctx context.Context, loan *Loan) error {
	return r.db.WithContext(ctx).Create(loan).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Loan, error) {
	var loans []Loan
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&loans).Error
	return loans, err
}

func (r *repository) FindByEmployee(ctx context.Context, employeeID string) ([]Loan, error) {
	var loans []Loan
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("created_at DESC").
		Find(&loans).Error
	return loans, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Loan, error) {
	var loan Loan
	err := r.db.WithContext(ctx).
		Preload("Schedule", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence ASC")
		}).
		First(&loan, "id = ?", id).Error
	return &loan, err
}

func (r *repository) UpdateLoan(ctx context.Context, loan *Loan) error {
	return r.db.WithContext(ctx).Omit("Schedule").Save(loan).Error
}

func (r *repository) UpdateEMI(ctx context.Context, emi *LoanEMI) error {
	return r.db.WithContext(ctx).Save(emi).Error
}

func (r *repository) FindEMIByID(ctx context.Context, id string) (*LoanEMI, error) {
	var emi LoanEMI
	err := r.db.WithContext(ctx).First(&emi, "id = ?", id).Error
	return &emi, err
}

func (r *repository) CountPendingEMIs(ctx context.Context, loanID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&LoanEMI{}).
		Where("loan_id = ? AND status = ?", loanID, EMIStatusPending).
		Count(&count).Error
	return count, err
}

func (r *repository) CancelPendingEMIs(ctx context.Context, loanID string) error {
	return r.db.WithContext(ctx).
		Model(&LoanEMI{}).
		Where("loan_id = ? AND status = ?", loanID, EMIStatusPending).
		Update("status", EMIStatusCancelled).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&LoanEMI{}, "loan_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&Loan{}, "id = ?", id).Error
	})
}

func (r *repository) EmployeeExists(ctx context.Context, employeeID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("employees").
		Where("id = ? AND deleted_at IS NULL AND status = ?", employeeID, "ACTIVE").
		Count(&count).Error
	return count > 0, err
}
