package attendance

import (
	"context"
	"errors"
	"net/http"

	"ecovale-hr/internal/shared/apperror"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrAttendanceNotFound = apperror.New(apperror.CodeNotFound, "attendance record not found", http.StatusNotFound)
	ErrEmployeeNotFound   = apperror.New(apperror.CodeInvalidInput, "employee does not exist", http.StatusBadRequest)
	ErrInvalidID          = apperror.New(apperror.CodeInvalidInput, "invalid attendance id", http.StatusBadRequest)
	ErrDaysInconsistent   = apperror.New(apperror.CodeInvalidInput, "day components exceed total working days", http.StatusBadRequest)
	ErrPeriodLocked       = apperror.New(apperror.CodeConflict, "payroll already generated for this period", http.StatusConflict)
)

type Service interface {
	Upsert(ctx context.Context, req UpsertAttendanceRequest) (AttendanceResponse, error)
	GetForEmployee(ctx context.Context, employeeID string, month, year int) (AttendanceResponse, error)
	ListByPeriod(ctx context.Context, month, year int) ([]AttendanceResponse, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]AttendanceResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Upsert(ctx context.Context, req UpsertAttendanceRequest) (AttendanceResponse, error) {
	counted := req.PresentDays + req.AbsentDays + req.PaidLeaveDays + req.UnpaidLeaveDays
	if counted > req.TotalWorkingDays {
		return AttendanceResponse{}, ErrDaysInconsistent
	}

	ok, err := s.repo.EmployeeExists(ctx, req.EmployeeID)
	if err != nil {
		return AttendanceResponse{}, err
	}
	if !ok {
		return AttendanceResponse{}, ErrEmployeeNotFound
	}

	// A generated run snapshots attendance; edits after the fact would make
	// the stored pay records unexplainable.
	locked, err := s.repo.PeriodHasPayRun(ctx, req.Month, req.Year)
	if err != nil {
		return AttendanceResponse{}, err
	}
	if locked {
		return AttendanceResponse{}, ErrPeriodLocked
	}

	att := &Attendance{
		ID:               uuid.New(),
		EmployeeID:       uuid.MustParse(req.EmployeeID),
		Month:            req.Month,
		Year:             req.Year,
		TotalWorkingDays: req.TotalWorkingDays,
		PresentDays:      req.PresentDays,
		AbsentDays:       req.AbsentDays,
		PaidLeaveDays:    req.PaidLeaveDays,
		UnpaidLeaveDays:  req.UnpaidLeaveDays,
	}

	if err := s.repo.Upsert(ctx, att); err != nil {
		s.logger.Error("upsert attendance failed",
			zap.String("employee_id", req.EmployeeID),
			zap.Int("month", req.Month),
			zap.Int("year", req.Year),
			zap.Error(err),
		)
		return AttendanceResponse{}, err
	}

	s.logger.Info("attendance recorded",
		zap.String("employee_id", req.EmployeeID),
		zap.Int("month", req.Month),
		zap.Int("year", req.Year),
	)

	return mapToResponse(*att), nil
}

func (s *service) GetForEmployee(ctx context.Context, employeeID string, month, year int) (AttendanceResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return AttendanceResponse{}, ErrInvalidID
	}

	att, err := s.repo.FindByEmployeePeriod(ctx, employeeID, month, year)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, ErrAttendanceNotFound
		}
		return AttendanceResponse{}, err
	}

	return mapToResponse(*att), nil
}

func (s *service) ListByPeriod(ctx context.Context, month, year int) ([]AttendanceResponse, error) {
	atts, err := s.repo.ListByPeriod(ctx, month, year)
	if err != nil {
		return nil, err
	}

	resp := make([]AttendanceResponse, len(atts))
	for i, a := range atts {
		resp[i] = mapToResponse(a)
	}
	return resp, nil
}

func (s *service) ListByEmployee(ctx context.Context, employeeID string) ([]AttendanceResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, ErrInvalidID
	}

	atts, err := s.repo.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	resp := make([]AttendanceResponse, len(atts))
	for i, a := range atts {
		resp[i] = mapToResponse(a)
	}
	return resp, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidID
	}
	return s.repo.Delete(ctx, id)
}

func mapToResponse(a Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:               a.ID.String(),
		EmployeeID:       a.EmployeeID.String(),
		Month:            a.Month,
		Year:             a.Year,
		TotalWorkingDays: a.TotalWorkingDays,
		PresentDays:      a.PresentDays,
		AbsentDays:       a.AbsentDays,
		PaidLeaveDays:    a.PaidLeaveDays,
		UnpaidLeaveDays:  a.UnpaidLeaveDays,
		PayableDays:      a.PayableDays(),
		LossOfPayDays:    a.LossOfPayDays(),
	}
}
