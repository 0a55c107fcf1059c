package loan

import (
	"context"
	"errors"
	"net/http"
	"time"

	"ecovale-hr/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrLoanNotFound     = apperror.New(apperror.CodeNotFound, "loan not found", http.StatusNotFound)
	ErrEMINotFound      = apperror.New(apperror.CodeNotFound, "loan EMI not found", http.StatusNotFound)
	ErrEmployeeNotFound = apperror.New(apperror.CodeInvalidInput, "employee does not exist or is inactive", http.StatusBadRequest)
	ErrInvalidID        = apperror.New(apperror.CodeInvalidInput, "invalid loan id", http.StatusBadRequest)
	ErrLoanNotActive    = apperror.New(apperror.CodeInvalidState, "loan is not active", http.StatusConflict)
	ErrEMINotPending    = apperror.New(apperror.CodeInvalidState, "EMI is not pending", http.StatusConflict)
	ErrHasPaidEMIs      = apperror.New(apperror.CodeConflict, "loan has paid EMIs and cannot be deleted", http.StatusConflict)
)

type Service interface {
	Create(ctx context.Context, req CreateLoanRequest) (LoanResponse, error)
	GetAll(ctx context.Context) ([]LoanResponse, error)
	GetByEmployee(ctx context.Context, employeeID string) ([]LoanResponse, error)
	GetByID(ctx context.Context, id string) (LoanResponse, error)
	PayEMI(ctx context.Context, emiID string) (LoanResponse, error)
	Cancel(ctx context.Context, id string) (LoanResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("loan.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("loan.service")
	}
	return &service{repo: repo, logger: l}
}

// buildSchedule splits the principal into tenure instalments. Every EMI gets
// the rounded-down even share; the last one absorbs the remainder so the
// schedule sums to the principal exactly.
func buildSchedule(loanID, employeeID uuid.UUID, principal int64, tenure, startMonth, startYear int) ([]LoanEMI, int64) {
	emiAmount := decimal.NewFromInt(principal).
		DivRound(decimal.NewFromInt(int64(tenure)), 0).
		IntPart()

	schedule := make([]LoanEMI, tenure)
	var allocated int64
	for i := 0; i < tenure; i++ {
		amount := emiAmount
		if i == tenure-1 {
			amount = principal - allocated
		}
		allocated += amount

		monthIndex := (startMonth - 1 + i)
		schedule[i] = LoanEMI{
			ID:         uuid.New(),
			LoanID:     loanID,
			EmployeeID: employeeID,
			Sequence:   i + 1,
			Month:      monthIndex%12 + 1,
			Year:       startYear + monthIndex/12,
			Amount:     amount,
			Status:     EMIStatusPending,
		}
	}
	return schedule, emiAmount
}

func (s *service) Create(ctx context.Context, req CreateLoanRequest) (LoanResponse, error) {
	ok, err := s.repo.EmployeeExists(ctx, req.EmployeeID)
	if err != nil {
		return LoanResponse{}, err
	}
	if !ok {
		return LoanResponse{}, ErrEmployeeNotFound
	}

	loanID := uuid.New()
	employeeID := uuid.MustParse(req.EmployeeID)
	schedule, emiAmount := buildSchedule(
		loanID, employeeID,
		req.PrincipalAmount, req.TenureMonths, req.StartMonth, req.StartYear,
	)

	loan := &Loan{
		ID:              loanID,
		EmployeeID:      employeeID,
		PrincipalAmount: req.PrincipalAmount,
		EMIAmount:       emiAmount,
		TenureMonths:    req.TenureMonths,
		StartMonth:      req.StartMonth,
		StartYear:       req.StartYear,
		Reason:          req.Reason,
		Status:          StatusActive,
		Schedule:        schedule,
	}

	if err := s.repo.Create(ctx, loan); err != nil {
		s.logger.Error("create loan failed", zap.Error(err))
		return LoanResponse{}, err
	}

	s.logger.Info("loan created",
		zap.String("loan_id", loanID.String()),
		zap.String("employee_id", req.EmployeeID),
		zap.Int64("principal", req.PrincipalAmount),
		zap.Int("tenure_months", req.TenureMonths),
	)

	return mapToResponse(*loan), nil
}

func (s *service) GetAll(ctx context.Context) ([]LoanResponse, error) {
	loans, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(loans), nil
}

func (s *service) GetByEmployee(ctx context.Context, employeeID string) ([]LoanResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, ErrInvalidID
	}

	loans, err := s.repo.FindByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(loans), nil
}

func (s *service) GetByID(ctx context.Context, id string) (LoanResponse, error) {
	loan, err := s.findByID(ctx, id)
	if err != nil {
		return LoanResponse{}, err
	}
	return mapToResponse(*loan), nil
}

// PayEMI marks one instalment paid outside payroll and completes the loan
// when it was the last pending one.
func (s *service) PayEMI(ctx context.Context, emiID string) (LoanResponse, error) {
	if _, err := uuid.Parse(emiID); err != nil {
		return LoanResponse{}, ErrInvalidID
	}

	emi, err := s.repo.FindEMIByID(ctx, emiID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LoanResponse{}, ErrEMINotFound
		}
		return LoanResponse{}, err
	}
	if emi.Status != EMIStatusPending {
		return LoanResponse{}, ErrEMINotPending
	}

	now := time.Now().UTC()
	emi.Status = EMIStatusPaid
	emi.SettledBy = SettledByManual
	emi.SettledAt = &now
	if err := s.repo.UpdateEMI(ctx, emi); err != nil {
		return LoanResponse{}, err
	}

	loan, err := s.findByID(ctx, emi.LoanID.String())
	if err != nil {
		return LoanResponse{}, err
	}

	pending, err := s.repo.CountPendingEMIs(ctx, loan.ID.String())
	if err != nil {
		return LoanResponse{}, err
	}
	if pending == 0 && loan.Status == StatusActive {
		loan.Status = StatusCompleted
		if err := s.repo.UpdateLoan(ctx, loan); err != nil {
			return LoanResponse{}, err
		}
	}

	s.logger.Info("loan EMI paid manually",
		zap.String("loan_id", loan.ID.String()),
		zap.String("emi_id", emiID),
	)

	return mapToResponse(*loan), nil
}

// Cancel writes off the remaining schedule.
func (s *service) Cancel(ctx context.Context, id string) (LoanResponse, error) {
	loan, err := s.findByID(ctx, id)
	if err != nil {
		return LoanResponse{}, err
	}
	if loan.Status != StatusActive {
		return LoanResponse{}, ErrLoanNotActive
	}

	if err := s.repo.CancelPendingEMIs(ctx, id); err != nil {
		return LoanResponse{}, err
	}

	loan.Status = StatusCancelled
	if err := s.repo.UpdateLoan(ctx, loan); err != nil {
		return LoanResponse{}, err
	}

	loan, err = s.findByID(ctx, id)
	if err != nil {
		return LoanResponse{}, err
	}

	s.logger.Info("loan cancelled", zap.String("loan_id", id))
	return mapToResponse(*loan), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	loan, err := s.findByID(ctx, id)
	if err != nil {
		return err
	}

	for _, emi := range loan.Schedule {
		if emi.Status == EMIStatusPaid {
			return ErrHasPaidEMIs
		}
	}

	return s.repo.Delete(ctx, id)
}

func (s *service) findByID(ctx context.Context, id string) (*Loan, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrInvalidID
	}

	loan, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLoanNotFound
		}
		return nil, err
	}
	return loan, nil
}

func mapToResponse(l Loan) LoanResponse {
	resp := LoanResponse{
		ID:              l.ID.String(),
		EmployeeID:      l.EmployeeID.String(),
		PrincipalAmount: l.PrincipalAmount,
		EMIAmount:       l.EMIAmount,
		TenureMonths:    l.TenureMonths,
		StartMonth:      l.StartMonth,
		StartYear:       l.StartYear,
		Reason:          l.Reason,
		Status:          l.Status,
	}
	for _, emi := range l.Schedule {
		if emi.Status == EMIStatusPending {
			resp.OutstandingAmt += emi.Amount
		}
		item := LoanEMIResponse{
			ID:        emi.ID.String(),
			Sequence:  emi.Sequence,
			Month:     emi.Month,
			Year:      emi.Year,
			Amount:    emi.Amount,
			Status:    emi.Status,
			SettledBy: emi.SettledBy,
		}
		if emi.SettledAt != nil {
			item.SettledAt = emi.SettledAt.Format(time.RFC3339)
		}
		resp.Schedule = append(resp.Schedule, item)
	}
	return resp
}

func mapToListResponse(loans []Loan) []LoanResponse {
	res := make([]LoanResponse, len(loans))
	for i, l := range loans {
		res[i] = mapToResponse(l)
	}
	return res
}
