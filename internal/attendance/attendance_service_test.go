package attendance

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeRepo struct {
	upsertFn               func(ctx context.Context, att *Attendance) error
	findByEmployeePeriodFn func(ctx context.Context, employeeID string, month, year int) (*Attendance, error)
	listByPeriodFn         func(ctx context.Context, month, year int) ([]Attendance, error)
	listByEmployeeFn       func(ctx context.Context, employeeID string) ([]Attendance, error)
	deleteFn               func(ctx context.Context, id string) error
	employeeExistsFn       func(ctx context.Context, employeeID string) (bool, error)
	periodHasPayRunFn      func(ctx context.Context, month, year int) (bool, error)
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository { return f }

func (f *fakeRepo) Upsert(ctx context.Context, att *Attendance) error {
	if f.upsertFn != nil {
		return f.upsertFn(ctx, att)
	}
	return nil
}

func (f *fakeRepo) FindByEmployeePeriod(ctx context.Context, employeeID string, month, year int) (*Attendance, error) {
	if f.findByEmployeePeriodFn != nil {
		return f.findByEmployeePeriodFn(ctx, employeeID, month, year)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) ListByPeriod(ctx context.Context, month, year int) ([]Attendance, error) {
	if f.listByPeriodFn != nil {
		return f.listByPeriodFn(ctx, month, year)
	}
	return nil, nil
}

func (f *fakeRepo) ListByEmployee(ctx context.Context, employeeID string) ([]Attendance, error) {
	if f.listByEmployeeFn != nil {
		return f.listByEmployeeFn(ctx, employeeID)
	}
	return nil, nil
}

func (f *fakeRepo) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func (f *fakeRepo) EmployeeExists(ctx context.Context, employeeID string) (bool, error) {
	if f.employeeExistsFn != nil {
		return f.employeeExistsFn(ctx, employeeID)
	}
	return true, nil
}

func (f *fakeRepo) PeriodHasPayRun(ctx context.Context, month, year int) (bool, error) {
	if f.periodHasPayRunFn != nil {
		return f.periodHasPayRunFn(ctx, month, year)
	}
	return false, nil
}

func upsertRequest(employeeID string) UpsertAttendanceRequest {
	return UpsertAttendanceRequest{
		EmployeeID:       employeeID,
		Month:            3,
		Year:             2026,
		TotalWorkingDays: 26,
		PresentDays:      22,
		AbsentDays:       2,
		PaidLeaveDays:    1,
		UnpaidLeaveDays:  1,
	}
}

func TestService_Upsert(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New().String()

	var saved Attendance
	repo := &fakeRepo{
		upsertFn: func(ctx context.Context, att *Attendance) error {
			saved = *att
			return nil
		},
	}
	svc := NewService(repo)

	resp, err := svc.Upsert(ctx, upsertRequest(employeeID))

	assert.NoError(t, err)
	assert.Equal(t, employeeID, saved.EmployeeID.String())
	assert.Equal(t, 23, resp.PayableDays)
	assert.Equal(t, 3, resp.LossOfPayDays)
}

func TestService_Upsert_DaysInconsistent(t *testing.T) {
	ctx := context.Background()

	svc := NewService(&fakeRepo{})

	req := upsertRequest(uuid.New().String())
	req.PresentDays = 26
	req.AbsentDays = 5

	_, err := svc.Upsert(ctx, req)
	assert.ErrorIs(t, err, ErrDaysInconsistent)
}

func TestService_Upsert_UnknownEmployee(t *testing.T) {
	ctx := context.Background()

	repo := &fakeRepo{
		employeeExistsFn: func(ctx context.Context, employeeID string) (bool, error) {
			return false, nil
		},
	}
	svc := NewService(repo)

	_, err := svc.Upsert(ctx, upsertRequest(uuid.New().String()))
	assert.ErrorIs(t, err, ErrEmployeeNotFound)
}

func TestService_Upsert_PeriodLockedAfterPayRun(t *testing.T) {
	ctx := context.Background()

	upsertCalled := false
	repo := &fakeRepo{
		periodHasPayRunFn: func(ctx context.Context, month, year int) (bool, error) {
			return true, nil
		},
		upsertFn: func(ctx context.Context, att *Attendance) error {
			upsertCalled = true
			return nil
		},
	}
	svc := NewService(repo)

	_, err := svc.Upsert(ctx, upsertRequest(uuid.New().String()))
	assert.ErrorIs(t, err, ErrPeriodLocked)
	assert.False(t, upsertCalled)
}

func TestService_GetForEmployee(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New()

	repo := &fakeRepo{
		findByEmployeePeriodFn: func(ctx context.Context, id string, month, year int) (*Attendance, error) {
			return &Attendance{
				ID: uuid.New(), EmployeeID: employeeID,
				Month: month, Year: year,
				TotalWorkingDays: 26, PresentDays: 24, AbsentDays: 2,
			}, nil
		},
	}
	svc := NewService(repo)

	resp, err := svc.GetForEmployee(ctx, employeeID.String(), 3, 2026)
	assert.NoError(t, err)
	assert.Equal(t, 24, resp.PayableDays)

	_, err = svc.GetForEmployee(ctx, "not-a-uuid", 3, 2026)
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestService_GetForEmployee_NotFound(t *testing.T) {
	ctx := context.Background()

	svc := NewService(&fakeRepo{})

	_, err := svc.GetForEmployee(ctx, uuid.New().String(), 3, 2026)
	assert.ErrorIs(t, err, ErrAttendanceNotFound)
}
