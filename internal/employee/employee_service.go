package employee

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"ecovale-hr/internal/shared/apperror"
	"ecovale-hr/internal/shared/contextutil"
	"ecovale-hr/internal/shared/counter"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const EmployeeOptionsCacheKey = "employees:options"

var (
	ErrEmployeeNotFound    = apperror.New(apperror.CodeNotFound, "employee not found", http.StatusNotFound)
	ErrEmailTaken          = apperror.New(apperror.CodeConflict, "email or employee code already in use", http.StatusConflict)
	ErrDepartmentNotFound  = apperror.New(apperror.CodeInvalidInput, "department does not exist", http.StatusBadRequest)
	ErrDesignationNotFound = apperror.New(apperror.CodeInvalidInput, "designation does not exist", http.StatusBadRequest)
	ErrInvalidID           = apperror.New(apperror.CodeInvalidInput, "invalid employee id", http.StatusBadRequest)
	ErrInvalidJoinDate     = apperror.New(apperror.CodeInvalidInput, "invalid join_date format, expected YYYY-MM-DD", http.StatusBadRequest)
	ErrHasPayrollHistory   = apperror.New(apperror.CodeConflict, "employee has payroll history and cannot be deleted", http.StatusConflict)
	ErrBasicExceedsCTC     = apperror.New(apperror.CodeInvalidInput, "monthly compensation exceeds annual CTC", http.StatusBadRequest)
)

type Service interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context) ([]EmployeeResponse, error)
	GetOptions(ctx context.Context) ([]EmployeeResponse, error)
	GetByID(ctx context.Context, id string) (EmployeeResponse, error)
	Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo    Repository
	counter counter.Repository
	rdb     *redis.Client
	sf      *singleflight.Group
	logger  *zap.Logger
}

func NewService(repo Repository, counterRepo counter.Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		repo:    repo,
		counter: counterRepo,
		rdb:     rdb,
		sf:      &singleflight.Group{},
		logger:  l,
	}
}

func validateCompensation(c CompensationInput) error {
	monthly := c.MonthlyBasic + c.HRA + c.Conveyance + c.TelephoneAllow + c.MedicalAllow + c.SpecialAllow
	if monthly*12 > c.AnnualCTC {
		return ErrBasicExceedsCTC
	}
	return nil
}

func (s *service) Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create employee requested",
		zap.String("request_id", rid),
		zap.String("email", req.Email),
	)

	joinDate, err := time.Parse("2006-01-02", req.JoinDate)
	if err != nil {
		return EmployeeResponse{}, ErrInvalidJoinDate
	}
	if err := validateCompensation(req.Compensation); err != nil {
		return EmployeeResponse{}, err
	}

	if req.DepartmentID != "" {
		ok, err := s.repo.DepartmentExists(ctx, req.DepartmentID)
		if err != nil {
			return EmployeeResponse{}, err
		}
		if !ok {
			return EmployeeResponse{}, ErrDepartmentNotFound
		}
	}
	if req.DesignationID != "" {
		ok, err := s.repo.DesignationExists(ctx, req.DesignationID)
		if err != nil {
			return EmployeeResponse{}, err
		}
		if !ok {
			return EmployeeResponse{}, ErrDesignationNotFound
		}
	}

	if req.EmployeeCode == "" {
		nextVal, err := s.counter.GetNextValue(ctx, counter.TypeEmployeeCode)
		if err != nil {
			s.logger.Error("create employee generate code failed", zap.Error(err))
			return EmployeeResponse{}, err
		}
		req.EmployeeCode = fmt.Sprintf("EMP-%05d", nextVal)
	}

	status := req.Status
	if status == "" {
		status = StatusActive
	}

	empl := &Employee{
		ID:                uuid.New(),
		EmployeeCode:      req.EmployeeCode,
		FullName:          req.FullName,
		Email:             req.Email,
		Phone:             req.Phone,
		DepartmentID:      uuidPtr(req.DepartmentID),
		DesignationID:     uuidPtr(req.DesignationID),
		JoinDate:          joinDate,
		Status:            status,
		AnnualCTC:         req.Compensation.AnnualCTC,
		MonthlyBasic:      req.Compensation.MonthlyBasic,
		HRA:               req.Compensation.HRA,
		Conveyance:        req.Compensation.Conveyance,
		TelephoneAllow:    req.Compensation.TelephoneAllow,
		MedicalAllow:      req.Compensation.MedicalAllow,
		SpecialAllow:      req.Compensation.SpecialAllow,
		IncludePF:         req.Compensation.IncludePF,
		IncludeESI:        req.Compensation.IncludeESI,
		ProfessionalTax:   req.Compensation.ProfessionalTax,
		TDS:               req.Compensation.TDS,
		BankAccountNumber: req.BankAccountNumber,
		BankIFSC:          req.BankIFSC,
		PAN:               req.PAN,
	}

	if err := s.repo.Create(ctx, empl); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return EmployeeResponse{}, ErrEmailTaken
		}
		s.logger.Error("create employee persist failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.invalidateOptionsCache(ctx)
	s.logger.Info("create employee success",
		zap.String("request_id", rid),
		zap.String("employee_id", empl.ID.String()),
		zap.String("employee_code", empl.EmployeeCode),
	)

	return mapToResponse(*empl), nil
}

func (s *service) GetAll(ctx context.Context) ([]EmployeeResponse, error) {
	empls, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("get all employees failed", zap.Error(err))
		return nil, err
	}
	return mapToListResponse(empls), nil
}

func (s *service) GetOptions(ctx context.Context) ([]EmployeeResponse, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, EmployeeOptionsCacheKey).Result(); err == nil {
			var resp []EmployeeResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	// Collapse concurrent cache misses into one query.
	v, err, _ := s.sf.Do(EmployeeOptionsCacheKey, func() (interface{}, error) {
		empls, err := s.repo.FindOptions(ctx)
		if err != nil {
			return nil, err
		}

		resp := mapToListResponse(empls)

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, EmployeeOptionsCacheKey, jsonData, 1*time.Hour)
			}
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]EmployeeResponse), nil
}

func (s *service) GetByID(ctx context.Context, id string) (EmployeeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, ErrInvalidID
	}

	empl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeResponse{}, ErrEmployeeNotFound
		}
		return EmployeeResponse{}, err
	}

	return mapToResponse(*empl), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, ErrInvalidID
	}

	empl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeResponse{}, ErrEmployeeNotFound
		}
		return EmployeeResponse{}, err
	}

	if req.FullName != "" {
		empl.FullName = req.FullName
	}
	if req.Email != "" {
		empl.Email = req.Email
	}
	if req.Phone != "" {
		empl.Phone = req.Phone
	}
	if req.DepartmentID != "" {
		ok, err := s.repo.DepartmentExists(ctx, req.DepartmentID)
		if err != nil {
			return EmployeeResponse{}, err
		}
		if !ok {
			return EmployeeResponse{}, ErrDepartmentNotFound
		}
		empl.DepartmentID = uuidPtr(req.DepartmentID)
	}
	if req.DesignationID != "" {
		ok, err := s.repo.DesignationExists(ctx, req.DesignationID)
		if err != nil {
			return EmployeeResponse{}, err
		}
		if !ok {
			return EmployeeResponse{}, ErrDesignationNotFound
		}
		empl.DesignationID = uuidPtr(req.DesignationID)
	}
	if req.JoinDate != "" {
		joinDate, err := time.Parse("2006-01-02", req.JoinDate)
		if err != nil {
			return EmployeeResponse{}, ErrInvalidJoinDate
		}
		empl.JoinDate = joinDate
	}
	if req.Status != "" {
		empl.Status = req.Status
	}
	if req.Compensation != nil {
		if err := validateCompensation(*req.Compensation); err != nil {
			return EmployeeResponse{}, err
		}
		empl.AnnualCTC = req.Compensation.AnnualCTC
		empl.MonthlyBasic = req.Compensation.MonthlyBasic
		empl.HRA = req.Compensation.HRA
		empl.Conveyance = req.Compensation.Conveyance
		empl.TelephoneAllow = req.Compensation.TelephoneAllow
		empl.MedicalAllow = req.Compensation.MedicalAllow
		empl.SpecialAllow = req.Compensation.SpecialAllow
		empl.IncludePF = req.Compensation.IncludePF
		empl.IncludeESI = req.Compensation.IncludeESI
		empl.ProfessionalTax = req.Compensation.ProfessionalTax
		empl.TDS = req.Compensation.TDS
	}
	if req.BankAccountNumber != "" {
		empl.BankAccountNumber = req.BankAccountNumber
	}
	if req.BankIFSC != "" {
		empl.BankIFSC = req.BankIFSC
	}
	if req.PAN != "" {
		empl.PAN = req.PAN
	}

	if err := s.repo.Update(ctx, empl); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return EmployeeResponse{}, ErrEmailTaken
		}
		s.logger.Error("update employee persist failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.invalidateOptionsCache(ctx)
	s.logger.Info("update employee success", zap.String("employee_id", id))

	return mapToResponse(*empl), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidID
	}

	count, err := s.repo.CountPayRecords(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrHasPayrollHistory
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("delete employee failed", zap.Error(err))
		return err
	}

	s.invalidateOptionsCache(ctx)
	s.logger.Info("delete employee success", zap.String("employee_id", id))
	return nil
}

func (s *service) invalidateOptionsCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, EmployeeOptionsCacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate employee options cache",
			zap.Error(err),
			zap.String("key", EmployeeOptionsCacheKey),
		)
	}
}

func mapToResponse(empl Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:            empl.ID.String(),
		EmployeeCode:  empl.EmployeeCode,
		FullName:      empl.FullName,
		Email:         empl.Email,
		Phone:         empl.Phone,
		DepartmentID:  uuidToString(empl.DepartmentID),
		DesignationID: uuidToString(empl.DesignationID),
		JoinDate:      empl.JoinDate.Format("2006-01-02"),
		Status:        empl.Status,
		Compensation: CompensationResponse{
			AnnualCTC:       empl.AnnualCTC,
			MonthlyBasic:    empl.MonthlyBasic,
			HRA:             empl.HRA,
			Conveyance:      empl.Conveyance,
			TelephoneAllow:  empl.TelephoneAllow,
			MedicalAllow:    empl.MedicalAllow,
			SpecialAllow:    empl.SpecialAllow,
			IncludePF:       empl.IncludePF,
			IncludeESI:      empl.IncludeESI,
			ProfessionalTax: empl.ProfessionalTax,
			TDS:             empl.TDS,
		},
		BankAccountNumber: empl.BankAccountNumber,
		BankIFSC:          empl.BankIFSC,
		PAN:               empl.PAN,
	}
	if empl.Department != nil {
		resp.Department = &EmployeeDepartmentResponse{
			ID:   empl.Department.ID.String(),
			Name: empl.Department.Name,
		}
	}
	if empl.Designation != nil {
		resp.Designation = &EmployeeDesignationResponse{
			ID:    empl.Designation.ID.String(),
			Title: empl.Designation.Title,
		}
	}
	return resp
}

func mapToListResponse(empls []Employee) []EmployeeResponse {
	res := make([]EmployeeResponse, len(empls))
	for i, e := range empls {
		res[i] = mapToResponse(e)
	}
	return res
}

func uuidPtr(v string) *uuid.UUID {
	id, err := uuid.Parse(v)
	if err != nil {
		return nil
	}
	return &id
}

func uuidToString(v *uuid.UUID) string {
	if v == nil {
		return ""
	}
	return v.String()
}
