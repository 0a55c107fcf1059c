package advance

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, adv *Advance) error
	FindAll(ctx context.Context) ([]Advance, error)
	FindByEmployee(ctx context.Context, employeeID string) ([]Advance, error)
	FindByID(ctx context.Context, id string) (*Advance, error)
	Update(ctx context.Context, adv *Advance) error
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

func (r *repository) Create(ctx context.Context, adv *Advance) error {
	return r.db.WithContext(ctx).Create(adv).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Advance, error) {
	var advs []Advance
	err := r.db.WithContext(ctx).
		Order("deduction_year DESC, deduction_month DESC, created_at DESC").
		Find(&advs).Error
	return advs, err
}

func (r *repository) FindByEmployee(ctx context.Context, employeeID string) ([]Advance, error) {
	var advs []Advance
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("deduction_year DESC, deduction_month DESC").
		Find(&advs).Error
	return advs, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Advance, error) {
	var adv Advance
	err := r.db.WithContext(ctx).First(&adv, "id = ?", id).Error
	return &adv, err
}

func (r *repository) Update(ctx context.Context, adv *Advance) error {
	return r.db.WithContext(ctx).Save(adv).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&Advance{}, "id = ?", id).Error
}

func (r *repository) EmployeeExists(ctx context.Context, employeeID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("employees").
		Where("id = ? AND deleted_at IS NULL AND status = ?", employeeID, "ACTIVE").
		Count(&count).Error
	return count > 0, err
}
