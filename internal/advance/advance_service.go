package advance

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
	ErrAdvanceNotFound  = apperror.New(apperror.CodeNotFound, "advance not found", http.StatusNotFound)
	ErrEmployeeNotFound = apperror.New(apperror.CodeInvalidInput, "employee does not exist or is inactive", http.StatusBadRequest)
	ErrInvalidID        = apperror.New(apperror.CodeInvalidInput, "invalid advance id", http.StatusBadRequest)
	ErrInvalidDate      = apperror.New(apperror.CodeInvalidInput, "invalid disbursed_on format, expected YYYY-MM-DD", http.StatusBadRequest)
	ErrAlreadySettled   = apperror.New(apperror.CodeInvalidState, "advance is already settled", http.StatusConflict)
)

type Service interface {
	Create(ctx context.Context, req CreateAdvanceRequest) (AdvanceResponse, error)
	GetAll(ctx context.Context) ([]AdvanceResponse, error)
	GetByEmployee(ctx context.Context, employeeID string) ([]AdvanceResponse, error)
	GetByID(ctx context.Context, id string) (AdvanceResponse, error)
	Update(ctx context.Context, id string, req UpdateAdvanceRequest) (AdvanceResponse, error)
	Settle(ctx context.Context, id string) (AdvanceResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("advance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("advance.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, req CreateAdvanceRequest) (AdvanceResponse, error) {
	disbursedOn, err := time.Parse("2006-01-02", req.DisbursedOn)
	if err != nil {
		return AdvanceResponse{}, ErrInvalidDate
	}

	ok, err := s.repo.EmployeeExists(ctx, req.EmployeeID)
	if err != nil {
		return AdvanceResponse{}, err
	}
	if !ok {
		return AdvanceResponse{}, ErrEmployeeNotFound
	}

	adv := &Advance{
		ID:              uuid.New(),
		EmployeeID:      uuid.MustParse(req.EmployeeID),
		Amount:          req.Amount,
		RemainingAmount: req.Amount,
		Reason:          req.Reason,
		DeductionMonth:  req.DeductionMonth,
		DeductionYear:   req.DeductionYear,
		Status:          StatusPending,
		DisbursedOn:     disbursedOn,
	}

	if err := s.repo.Create(ctx, adv); err != nil {
		s.logger.Error("create advance failed", zap.Error(err))
		return AdvanceResponse{}, err
	}

	s.logger.Info("advance recorded",
		zap.String("advance_id", adv.ID.String()),
		zap.String("employee_id", req.EmployeeID),
		zap.Int64("amount", req.Amount),
	)

	return mapToResponse(*adv), nil
}

func (s *service) GetAll(ctx context.Context) ([]AdvanceResponse, error) {
	advs, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(advs), nil
}

func (s *service) GetByEmployee(ctx context.Context, employeeID string) ([]AdvanceResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, ErrInvalidID
	}

	advs, err := s.repo.FindByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(advs), nil
}

func (s *service) GetByID(ctx context.Context, id string) (AdvanceResponse, error) {
	adv, err := s.findByID(ctx, id)
	if err != nil {
		return AdvanceResponse{}, err
	}
	return mapToResponse(*adv), nil
}

// Update reschedules or resizes an advance; only unsettled advances may change.
func (s *service) Update(ctx context.Context, id string, req UpdateAdvanceRequest) (AdvanceResponse, error) {
	adv, err := s.findByID(ctx, id)
	if err != nil {
		return AdvanceResponse{}, err
	}
	if adv.Status == StatusDeducted {
		return AdvanceResponse{}, ErrAlreadySettled
	}

	if req.Amount > 0 {
		// Keep remaining consistent when the principal changes.
		adv.RemainingAmount = req.Amount - adv.SettledAmount
		if adv.RemainingAmount < 0 {
			adv.RemainingAmount = 0
		}
		adv.Amount = req.Amount
	}
	if req.Reason != "" {
		adv.Reason = req.Reason
	}
	if req.DeductionMonth > 0 {
		adv.DeductionMonth = req.DeductionMonth
	}
	if req.DeductionYear > 0 {
		adv.DeductionYear = req.DeductionYear
	}

	if err := s.repo.Update(ctx, adv); err != nil {
		return AdvanceResponse{}, err
	}

	return mapToResponse(*adv), nil
}

// Settle closes an advance outside payroll, e.g. a cash repayment.
func (s *service) Settle(ctx context.Context, id string) (AdvanceResponse, error) {
	adv, err := s.findByID(ctx, id)
	if err != nil {
		return AdvanceResponse{}, err
	}
	if adv.Status == StatusDeducted {
		return AdvanceResponse{}, ErrAlreadySettled
	}

	now := time.Now().UTC()
	adv.SettledAmount += adv.RemainingAmount
	adv.RemainingAmount = 0
	adv.Status = StatusDeducted
	adv.SettledBy = SettledByManual
	adv.SettledAt = &now

	if err := s.repo.Update(ctx, adv); err != nil {
		return AdvanceResponse{}, err
	}

	s.logger.Info("advance settled manually", zap.String("advance_id", id))
	return mapToResponse(*adv), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	adv, err := s.findByID(ctx, id)
	if err != nil {
		return err
	}
	if adv.Status != StatusPending {
		return ErrAlreadySettled
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) findByID(ctx context.Context, id string) (*Advance, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrInvalidID
	}

	adv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdvanceNotFound
		}
		return nil, err
	}
	return adv, nil
}

func mapToResponse(a Advance) AdvanceResponse {
	resp := AdvanceResponse{
		ID:              a.ID.String(),
		EmployeeID:      a.EmployeeID.String(),
		Amount:          a.Amount,
		RemainingAmount: a.RemainingAmount,
		SettledAmount:   a.SettledAmount,
		Reason:          a.Reason,
		DeductionMonth:  a.DeductionMonth,
		DeductionYear:   a.DeductionYear,
		Status:          a.Status,
		SettledBy:       a.SettledBy,
		DisbursedOn:     a.DisbursedOn.Format("2006-01-02"),
	}
	if a.SettledAt != nil {
		resp.SettledAt = a.SettledAt.Format(time.RFC3339)
	}
	return resp
}

func mapToListResponse(advs []Advance) []AdvanceResponse {
	res := make([]AdvanceResponse, len(advs))
	for i, a := range advs {
		res[i] = mapToResponse(a)
	}
	return res
}
