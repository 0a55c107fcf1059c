package designation

import (
	"context"
	"errors"
	"net/http"

	"ecovale-hr/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrDesignationNotFound = apperror.New(apperror.CodeNotFound, "designation not found", http.StatusNotFound)
	ErrTitleTaken          = apperror.New(apperror.CodeConflict, "designation title already exists", http.StatusConflict)
	ErrHasEmployees        = apperror.New(apperror.CodeConflict, "designation still has employees assigned", http.StatusConflict)
	ErrInvalidID           = apperror.New(apperror.CodeInvalidInput, "invalid designation id", http.StatusBadRequest)
	ErrInvalidDepartmentID = apperror.New(apperror.CodeInvalidInput, "invalid department id", http.StatusBadRequest)
)

type Service interface {
	Create(ctx context.Context, req CreateDesignationRequest) (DesignationResponse, error)
	GetAll(ctx context.Context) ([]DesignationResponse, error)
	GetByID(ctx context.Context, id string) (DesignationResponse, error)
	Update(ctx context.Context, id string, req UpdateDesignationRequest) (DesignationResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateDesignationRequest) (DesignationResponse, error) {
	d := &Designation{
		ID:    uuid.New(),
		Title: req.Title,
		Level: req.Level,
	}
	if d.Level == 0 {
		d.Level = 1
	}

	if req.DepartmentID != nil && *req.DepartmentID != "" {
		deptID, err := uuid.Parse(*req.DepartmentID)
		if err != nil {
			return DesignationResponse{}, ErrInvalidDepartmentID
		}
		d.DepartmentID = &deptID
	}

	if err := s.repo.Create(ctx, d); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return DesignationResponse{}, ErrTitleTaken
		}
		return DesignationResponse{}, err
	}

	return mapToResponse(*d), nil
}

func (s *service) GetAll(ctx context.Context) ([]DesignationResponse, error) {
	rows, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]DesignationResponse, len(rows))
	for i, d := range rows {
		resp[i] = mapToResponse(d)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, id string) (DesignationResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return DesignationResponse{}, ErrInvalidID
	}

	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DesignationResponse{}, ErrDesignationNotFound
		}
		return DesignationResponse{}, err
	}

	return mapToResponse(*d), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateDesignationRequest) (DesignationResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return DesignationResponse{}, ErrInvalidID
	}

	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DesignationResponse{}, ErrDesignationNotFound
		}
		return DesignationResponse{}, err
	}

	if req.Title != "" {
		d.Title = req.Title
	}
	if req.Level != nil {
		d.Level = *req.Level
	}
	if req.DepartmentID != nil {
		if *req.DepartmentID == "" {
			d.DepartmentID = nil
		} else {
			deptID, err := uuid.Parse(*req.DepartmentID)
			if err != nil {
				return DesignationResponse{}, ErrInvalidDepartmentID
			}
			d.DepartmentID = &deptID
		}
	}

	if err := s.repo.Update(ctx, d); err != nil {
		return DesignationResponse{}, err
	}

	return mapToResponse(*d), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidID
	}

	count, err := s.repo.CountEmployees(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrHasEmployees
	}

	return s.repo.Delete(ctx, id)
}

func mapToResponse(d Designation) DesignationResponse {
	resp := DesignationResponse{
		ID:    d.ID.String(),
		Title: d.Title,
		Level: d.Level,
	}
	if d.DepartmentID != nil {
		v := d.DepartmentID.String()
		resp.DepartmentID = &v
	}
	return resp
}
