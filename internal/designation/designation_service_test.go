package designation

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeRepo struct {
	createFn         func(ctx context.Context, d *Designation) error
	findAllFn        func(ctx context.Context) ([]Designation, error)
	findByIDFn       func(ctx context.Context, id string) (*Designation, error)
	updateFn         func(ctx context.Context, d *Designation) error
	deleteFn         func(ctx context.Context, id string) error
	countEmployeesFn func(ctx context.Context, id string) (int64, error)
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository { return f }

func (f *fakeRepo) Create(ctx context.Context, d *Designation) error {
	if f.createFn != nil {
		return f.createFn(ctx, d)
	}
	return nil
}

func (f *fakeRepo) FindAll(ctx context.Context) ([]Designation, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return nil, nil
}

func (f *fakeRepo) FindByID(ctx context.Context, id string) (*Designation, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) Update(ctx context.Context, d *Designation) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, d)
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

func TestDesignationService_Create(t *testing.T) {
	deptID := uuid.New().String()
	svc := NewService(&fakeRepo{})

	resp, err := svc.Create(context.Background(), CreateDesignationRequest{
		Title:        "Senior Accountant",
		DepartmentID: &deptID,
		Level:        3,
	})
	require.NoError(t, err)

	assert.Equal(t, "Senior Accountant", resp.Title)
	assert.Equal(t, 3, resp.Level)
	require.NotNil(t, resp.DepartmentID)
	assert.Equal(t, deptID, *resp.DepartmentID)
}

func TestDesignationService_Create_DefaultsLevel(t *testing.T) {
	svc := NewService(&fakeRepo{})

	resp, err := svc.Create(context.Background(), CreateDesignationRequest{Title: "Trainee"})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Level)
}

func TestDesignationService_Create_DuplicateTitle(t *testing.T) {
	repo := &fakeRepo{
		createFn: func(ctx context.Context, d *Designation) error {
			return &pgconn.PgError{Code: "23505"}
		},
	}
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), CreateDesignationRequest{Title: "Trainee"})
	assert.ErrorIs(t, err, ErrTitleTaken)
}

func TestDesignationService_Update_ClearsDepartment(t *testing.T) {
	id := uuid.New()
	deptID := uuid.New()
	repo := &fakeRepo{
		findByIDFn: func(ctx context.Context, got string) (*Designation, error) {
			return &Designation{ID: id, Title: "Trainee", Level: 1, DepartmentID: &deptID}, nil
		},
	}
	svc := NewService(repo)

	empty := ""
	resp, err := svc.Update(context.Background(), id.String(), UpdateDesignationRequest{DepartmentID: &empty})
	require.NoError(t, err)
	assert.Nil(t, resp.DepartmentID)
}

func TestDesignationService_Delete_BlockedByEmployees(t *testing.T) {
	deleted := false
	repo := &fakeRepo{
		countEmployeesFn: func(ctx context.Context, id string) (int64, error) { return 4, nil },
		deleteFn: func(ctx context.Context, id string) error {
			deleted = true
			return nil
		},
	}
	svc := NewService(repo)

	err := svc.Delete(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, ErrHasEmployees)
	assert.False(t, deleted)
}

func TestDesignationService_GetByID_NotFound(t *testing.T) {
	svc := NewService(&fakeRepo{})

	_, err := svc.GetByID(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, ErrDesignationNotFound)

	_, err = svc.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrInvalidID)
}
