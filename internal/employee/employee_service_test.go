package employee

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeRepo struct {
	createFn            func(ctx context.Context, empl *Employee) error
	findAllFn           func(ctx context.Context) ([]Employee, error)
	findOptionsFn       func(ctx context.Context) ([]Employee, error)
	findByIDFn          func(ctx context.Context, id string) (*Employee, error)
	updateFn            func(ctx context.Context, empl *Employee) error
	deleteFn            func(ctx context.Context, id string) error
	departmentExistsFn  func(ctx context.Context, id string) (bool, error)
	designationExistsFn func(ctx context.Context, id string) (bool, error)
	countPayRecordsFn   func(ctx context.Context, id string) (int64, error)
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository { return f }

func (f *fakeRepo) Create(ctx context.Context, empl *Employee) error {
	if f.createFn != nil {
		return f.createFn(ctx, empl)
	}
	return nil
}

func (f *fakeRepo) FindAll(ctx context.Context) ([]Employee, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return nil, nil
}

func (f *fakeRepo) FindOptions(ctx context.Context) ([]Employee, error) {
	if f.findOptionsFn != nil {
		return f.findOptionsFn(ctx)
	}
	return nil, nil
}

func (f *fakeRepo) FindByID(ctx context.Context, id string) (*Employee, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) Update(ctx context.Context, empl *Employee) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, empl)
	}
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func (f *fakeRepo) DepartmentExists(ctx context.Context, id string) (bool, error) {
	if f.departmentExistsFn != nil {
		return f.departmentExistsFn(ctx, id)
	}
	return true, nil
}

func (f *fakeRepo) DesignationExists(ctx context.Context, id string) (bool, error) {
	if f.designationExistsFn != nil {
		return f.designationExistsFn(ctx, id)
	}
	return true, nil
}

func (f *fakeRepo) CountPayRecords(ctx context.Context, id string) (int64, error) {
	if f.countPayRecordsFn != nil {
		return f.countPayRecordsFn(ctx, id)
	}
	return 0, nil
}

type fakeCounterRepo struct {
	next int64
}

func (f *fakeCounterRepo) GetNextValue(ctx context.Context, counterType string) (int64, error) {
	f.next++
	return f.next, nil
}

func validCreateRequest() CreateEmployeeRequest {
	return CreateEmployeeRequest{
		FullName: "Asha Nair",
		Email:    "asha.nair@ecovale.in",
		Phone:    "9876543210",
		JoinDate: "2024-06-01",
		Compensation: CompensationInput{
			AnnualCTC:    144_000_000, // ₹14.4L
			MonthlyBasic: 8_000_000,
			HRA:          3_200_000,
			IncludePF:    true,
		},
	}
}

func TestService_Create_GeneratesEmployeeCode(t *testing.T) {
	ctx := context.Background()

	var saved Employee
	repo := &fakeRepo{
		createFn: func(ctx context.Context, empl *Employee) error {
			saved = *empl
			return nil
		},
	}
	svc := NewService(repo, &fakeCounterRepo{}, nil)

	resp, err := svc.Create(ctx, validCreateRequest())

	assert.NoError(t, err)
	assert.Equal(t, "EMP-00001", saved.EmployeeCode)
	assert.Equal(t, StatusActive, saved.Status)
	assert.Equal(t, "EMP-00001", resp.EmployeeCode)
	assert.Equal(t, int64(8_000_000), resp.Compensation.MonthlyBasic)
}

func TestService_Create_KeepsProvidedCode(t *testing.T) {
	ctx := context.Background()

	var saved Employee
	repo := &fakeRepo{
		createFn: func(ctx context.Context, empl *Employee) error {
			saved = *empl
			return nil
		},
	}
	svc := NewService(repo, &fakeCounterRepo{}, nil)

	req := validCreateRequest()
	req.EmployeeCode = "EMP-LEGACY-7"

	_, err := svc.Create(ctx, req)

	assert.NoError(t, err)
	assert.Equal(t, "EMP-LEGACY-7", saved.EmployeeCode)
}

func TestService_Create_CompensationExceedsCTC(t *testing.T) {
	svc := NewService(&fakeRepo{}, &fakeCounterRepo{}, nil)

	req := validCreateRequest()
	req.Compensation.AnnualCTC = 100_000_000 // monthly parts × 12 overshoot this

	_, err := svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, ErrBasicExceedsCTC)
}

func TestService_Create_UnknownDepartment(t *testing.T) {
	repo := &fakeRepo{
		departmentExistsFn: func(ctx context.Context, id string) (bool, error) {
			return false, nil
		},
	}
	svc := NewService(repo, &fakeCounterRepo{}, nil)

	req := validCreateRequest()
	req.DepartmentID = uuid.New().String()

	_, err := svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, ErrDepartmentNotFound)
}

func TestService_Create_BadJoinDate(t *testing.T) {
	svc := NewService(&fakeRepo{}, &fakeCounterRepo{}, nil)

	req := validCreateRequest()
	req.JoinDate = "01-06-2024"

	_, err := svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidJoinDate)
}

func TestService_Update_Compensation(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	var saved Employee
	repo := &fakeRepo{
		findByIDFn: func(ctx context.Context, _ string) (*Employee, error) {
			return &Employee{ID: id, EmployeeCode: "EMP-00001", Status: StatusActive}, nil
		},
		updateFn: func(ctx context.Context, empl *Employee) error {
			saved = *empl
			return nil
		},
	}
	svc := NewService(repo, &fakeCounterRepo{}, nil)

	comp := CompensationInput{AnnualCTC: 120_000_000, MonthlyBasic: 6_000_000, HRA: 2_400_000}
	resp, err := svc.Update(ctx, id.String(), UpdateEmployeeRequest{Compensation: &comp})

	assert.NoError(t, err)
	assert.Equal(t, int64(6_000_000), saved.MonthlyBasic)
	assert.Equal(t, int64(120_000_000), resp.Compensation.AnnualCTC)
}

func TestService_Delete_BlockedByPayrollHistory(t *testing.T) {
	ctx := context.Background()

	deleteCalled := false
	repo := &fakeRepo{
		countPayRecordsFn: func(ctx context.Context, id string) (int64, error) {
			return 3, nil
		},
		deleteFn: func(ctx context.Context, id string) error {
			deleteCalled = true
			return nil
		},
	}
	svc := NewService(repo, &fakeCounterRepo{}, nil)

	err := svc.Delete(ctx, uuid.New().String())
	assert.ErrorIs(t, err, ErrHasPayrollHistory)
	assert.False(t, deleteCalled)
}

func TestService_GetByID_NotFound(t *testing.T) {
	svc := NewService(&fakeRepo{}, &fakeCounterRepo{}, nil)

	_, err := svc.GetByID(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, ErrEmployeeNotFound)

	_, err = svc.GetByID(context.Background(), "bad-id")
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestService_GetOptions_FallsThroughToRepo(t *testing.T) {
	ctx := context.Background()

	repo := &fakeRepo{
		findOptionsFn: func(ctx context.Context) ([]Employee, error) {
			return []Employee{
				{ID: uuid.New(), EmployeeCode: "EMP-00001", FullName: "Asha Nair", Status: StatusActive},
				{ID: uuid.New(), EmployeeCode: "EMP-00002", FullName: "Ravi Iyer", Status: StatusActive},
			}, nil
		},
	}
	svc := NewService(repo, &fakeCounterRepo{}, nil)

	resp, err := svc.GetOptions(ctx)
	assert.NoError(t, err)
	assert.Len(t, resp, 2)
	assert.Equal(t, "EMP-00001", resp[0].EmployeeCode)
}
