package department

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeRepo struct {
	createFn         func(ctx context.Context, dept *Department) error
	findAllFn        func(ctx context.Context) ([]Department, error)
	findByIDFn       func(ctx context.Context, id string) (*Department, error)
	updateFn         func(ctx context.Context, dept *Department) error
	deleteFn         func(ctx context.Context, id string) error
	countEmployeesFn func(ctx context.Context, id string) (int64, error)
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository { return f }

func (f *fakeRepo) Create(ctx context.Context, dept *Department) error {
	if f.createFn != nil {
		return f.createFn(ctx, dept)
	}
	return nil
}

func (f *fakeRepo) FindAll(ctx context.Context) ([]Department, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return nil, nil
}

func (f *fakeRepo) FindByID(ctx context.Context, id string) (*Department, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) Update(ctx context.Context, dept *Department) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, dept)
	}
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func (f *fakeRepo) CountEmployees(ctx context.Context, id string) (int64, error) {
	if f.countEmployeesFn != nil {
		return f.countEmployeesFn(ctx, id)
	}
	return 0, nil
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	var saved Department
	repo := &fakeRepo{
		createFn: func(ctx context.Context, dept *Department) error {
			saved = *dept
			return nil
		},
	}
	svc := NewService(repo)

	resp, err := svc.Create(ctx, CreateDepartmentRequest{Name: "Engineering", Description: "Product development"})

	assert.NoError(t, err)
	assert.Equal(t, "Engineering", saved.Name)
	assert.Equal(t, saved.ID.String(), resp.ID)
}

func TestService_Create_DuplicateName(t *testing.T) {
	repo := &fakeRepo{
		createFn: func(ctx context.Context, dept *Department) error {
			return &pgconn.PgError{Code: "23505"}
		},
	}
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), CreateDepartmentRequest{Name: "Engineering"})
	assert.ErrorIs(t, err, ErrNameTaken)
}

func TestService_Delete_BlockedByEmployees(t *testing.T) {
	repo := &fakeRepo{
		countEmployeesFn: func(ctx context.Context, id string) (int64, error) {
			return 4, nil
		},
	}
	svc := NewService(repo)

	err := svc.Delete(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, ErrHasEmployees)
}

func TestService_GetByID_NotFound(t *testing.T) {
	svc := NewService(&fakeRepo{})

	_, err := svc.GetByID(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, ErrDepartmentNotFound)
}
