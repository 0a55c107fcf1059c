package counter

import (
	"context"
	"time"

	"gorm.io/gorm"
)

const (
	TypeEmployeeCode = "employee_code"
	TypeLetterNumber = "letter_number"
)

type Repository interface {
	GetNextValue(ctx context.Context, counterType string) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetNextValue(ctx context.Context, counterType string) (int64, error) {
	var nextValue int64

	// Raw atomic UPSERT so concurrent requests never hand out the same value.
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO counters (counter_type, last_value, updated_at)
		VALUES (?, 1, now())
		ON CONFLICT (counter_type) DO UPDATE
		SET last_value = counters.last_value + 1, updated_at = now()
		RETURNING last_value
	`, counterType).Scan(&nextValue).Error

	if err != nil {
		return 0, err
	}

	return nextValue, nil
}

type Counter struct {
	CounterType string    `gorm:"primaryKey;type:varchar(40)"`
	LastValue   int64     `gorm:"not null;default:0"`
	UpdatedAt   time.Time `gorm:"type:timestamptz"`
}

func (Counter) TableName() string {
	return "counters"
}
