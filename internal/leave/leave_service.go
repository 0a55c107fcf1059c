package leave

import (
	"context"
	"errors"
	"net/http"
	"time"

	"ecovale-hr/internal/shared/apperror"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrLeaveNotFound    = apperror.New(apperror.CodeNotFound, "leave request not found", http.StatusNotFound)
	ErrEmployeeNotFound = apperror.New(apperror.CodeInvalidInput, "employee does not exist or is inactive", http.StatusBadRequest)
	ErrInvalidID        = apperror.New(apperror.CodeInvalidInput, "invalid leave request id", http.StatusBadRequest)
	ErrInvalidDates     = apperror.New(apperror.CodeInvalidInput, "invalid date range, expected YYYY-MM-DD with end on or after start", http.StatusBadRequest)
	ErrOverlap          = apperror.New(apperror.CodeConflict, "overlapping leave request exists", http.StatusConflict)
	ErrAlreadyDecided   = apperror.New(apperror.CodeInvalidState, "leave request already decided", http.StatusConflict)
)

type Service interface {
	Create(ctx context.Context, req CreateLeaveRequest) (LeaveResponse, error)
	GetAll(ctx context.Context, status string) ([]LeaveResponse, error)
	GetByEmployee(ctx context.Context, employeeID string) ([]LeaveResponse, error)
	GetByID(ctx context.Context, id string) (LeaveResponse, error)
	Approve(ctx context.Context, id, deciderID string, req DecideLeaveRequest) (LeaveResponse, error)
	Reject(ctx context.Context, id, deciderID string, req DecideLeaveRequest) (LeaveResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, req CreateLeaveRequest) (LeaveResponse, error) {
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return LeaveResponse{}, ErrInvalidDates
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil || end.Before(start) {
		return LeaveResponse{}, ErrInvalidDates
	}

	ok, err := s.repo.EmployeeExists(ctx, req.EmployeeID)
	if err != nil {
		return LeaveResponse{}, err
	}
	if !ok {
		return LeaveResponse{}, ErrEmployeeNotFound
	}

	overlap, err := s.repo.HasOverlap(ctx, req.EmployeeID, req.StartDate, req.EndDate)
	if err != nil {
		return LeaveResponse{}, err
	}
	if overlap {
		return LeaveResponse{}, ErrOverlap
	}

	lr := &LeaveRequest{
		ID:         uuid.New(),
		EmployeeID: uuid.MustParse(req.EmployeeID),
		LeaveType:  req.LeaveType,
		StartDate:  start,
		EndDate:    end,
		Days:       int(end.Sub(start).Hours()/24) + 1,
		Reason:     req.Reason,
		Status:     StatusPending,
	}

	if err := s.repo.Create(ctx, lr); err != nil {
		s.logger.Error("create leave request failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	s.logger.Info("leave request submitted",
		zap.String("leave_id", lr.ID.String()),
		zap.String("employee_id", req.EmployeeID),
		zap.Int("days", lr.Days),
	)

	return mapToResponse(*lr), nil
}

func (s *service) GetAll(ctx context.Context, status string) ([]LeaveResponse, error) {
	reqs, err := s.repo.FindAll(ctx, status)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(reqs), nil
}

func (s *service) GetByEmployee(ctx context.Context, employeeID string) ([]LeaveResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, ErrInvalidID
	}

	reqs, err := s.repo.FindByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(reqs), nil
}

func (s *service) GetByID(ctx context.Context, id string) (LeaveResponse, error) {
	lr, err := s.findByID(ctx, id)
	if err != nil {
		return LeaveResponse{}, err
	}
	return mapToResponse(*lr), nil
}

func (s *service) Approve(ctx context.Context, id, deciderID string, req DecideLeaveRequest) (LeaveResponse, error) {
	return s.decide(ctx, id, deciderID, StatusApproved, req.Comment)
}

func (s *service) Reject(ctx context.Context, id, deciderID string, req DecideLeaveRequest) (LeaveResponse, error) {
	return s.decide(ctx, id, deciderID, StatusRejected, req.Comment)
}

func (s *service) decide(ctx context.Context, id, deciderID, status, comment string) (LeaveResponse, error) {
	lr, err := s.findByID(ctx, id)
	if err != nil {
		return LeaveResponse{}, err
	}
	if lr.Status != StatusPending {
		return LeaveResponse{}, ErrAlreadyDecided
	}

	now := time.Now().UTC()
	lr.Status = status
	lr.DecidedAt = &now
	lr.Comment = comment
	if decider, err := uuid.Parse(deciderID); err == nil {
		lr.DecidedBy = &decider
	}

	if err := s.repo.Update(ctx, lr); err != nil {
		return LeaveResponse{}, err
	}

	s.logger.Info("leave request decided",
		zap.String("leave_id", id),
		zap.String("status", status),
	)

	return mapToResponse(*lr), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	lr, err := s.findByID(ctx, id)
	if err != nil {
		return err
	}
	if lr.Status != StatusPending {
		return ErrAlreadyDecided
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) findByID(ctx context.Context, id string) (*LeaveRequest, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrInvalidID
	}

	lr, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeaveNotFound
		}
		return nil, err
	}
	return lr, nil
}

func mapToResponse(lr LeaveRequest) LeaveResponse {
	resp := LeaveResponse{
		ID:         lr.ID.String(),
		EmployeeID: lr.EmployeeID.String(),
		LeaveType:  lr.LeaveType,
		StartDate:  lr.StartDate.Format("2006-01-02"),
		EndDate:    lr.EndDate.Format("2006-01-02"),
		Days:       lr.Days,
		Reason:     lr.Reason,
		Status:     lr.Status,
		Comment:    lr.Comment,
	}
	if lr.DecidedBy != nil {
		resp.DecidedBy = lr.DecidedBy.String()
	}
	if lr.DecidedAt != nil {
		resp.DecidedAt = lr.DecidedAt.Format(time.RFC3339)
	}
	return resp
}

func mapToListResponse(reqs []LeaveRequest) []LeaveResponse {
	res := make([]LeaveResponse, len(reqs))
	for i, r := range reqs {
		res[i] = mapToResponse(r)
	}
	return res
}
