package document

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"ecovale-hr/internal/shared/apperror"
	"ecovale-hr/internal/shared/counter"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrDocumentNotFound = apperror.New(apperror.CodeNotFound, "document not found", http.StatusNotFound)
	ErrEmployeeNotFound = apperror.New(apperror.CodeInvalidInput, "employee does not exist", http.StatusBadRequest)
	ErrPayslipNotFound  = apperror.New(apperror.CodeNotFound, "pay record not found for payslip", http.StatusNotFound)
	ErrInvalidID        = apperror.New(apperror.CodeInvalidInput, "invalid document id", http.StatusBadRequest)
	ErrUnknownDocType   = apperror.New(apperror.CodeInvalidInput, "unknown document type", http.StatusBadRequest)
)

type Service interface {
	GenerateLetter(ctx context.Context, actorID string, req GenerateLetterRequest) (DocumentResponse, error)
	GeneratePayslip(ctx context.Context, payRunID, itemID string) (string, error)
	List(ctx context.Context, employeeID string) ([]DocumentResponse, error)
	GetByID(ctx context.Context, id string) (DocumentResponse, error)
}

type service struct {
	repo       Repository
	counter    counter.Repository
	storageDir string
	logger     *zap.Logger
}

func NewService(repo Repository, counterRepo counter.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("document.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("document.service")
	}

	dir := os.Getenv("DOCUMENT_STORAGE_DIR")
	if dir == "" {
		dir = "storage/documents"
	}

	return &service{
		repo:       repo,
		counter:    counterRepo,
		storageDir: dir,
		logger:     l,
	}
}

func (s *service) GenerateLetter(ctx context.Context, actorID string, req GenerateLetterRequest) (DocumentResponse, error) {
	info, err := s.repo.FindEmployeeInfo(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DocumentResponse{}, ErrEmployeeNotFound
		}
		return DocumentResponse{}, err
	}

	seq, err := s.counter.GetNextValue(ctx, counter.TypeLetterNumber)
	if err != nil {
		return DocumentResponse{}, err
	}
	refNo := fmt.Sprintf("ECO-HR-%d-%05d", time.Now().Year(), seq)

	var pdf *gofpdf.Fpdf
	switch req.DocType {
	case TypeOfferLetter:
		pdf = renderOfferLetter(refNo, *info)
	case TypeExperienceLetter:
		pdf = renderExperienceLetter(refNo, *info)
	case TypeSalaryCertificate:
		pdf = renderSalaryCertificate(refNo, *info)
	default:
		return DocumentResponse{}, ErrUnknownDocType
	}

	path, err := s.writePDF(pdf, "letters", refNo+".pdf")
	if err != nil {
		s.logger.Error("write letter pdf failed", zap.String("ref_no", refNo), zap.Error(err))
		return DocumentResponse{}, err
	}

	doc := &GeneratedDocument{
		ID:          uuid.New(),
		EmployeeID:  info.ID,
		DocType:     req.DocType,
		ReferenceNo: refNo,
		FilePath:    path,
	}
	if actor, err := uuid.Parse(actorID); err == nil {
		doc.GeneratedBy = &actor
	}

	if err := s.repo.Create(ctx, doc); err != nil {
		return DocumentResponse{}, err
	}

	s.logger.Info("letter generated",
		zap.String("doc_type", req.DocType),
		zap.String("ref_no", refNo),
		zap.String("employee_id", req.EmployeeID),
	)

	return mapToResponse(*doc), nil
}

// GeneratePayslip renders a stored pay record to PDF and returns the path.
// Called by the Kafka consumer; rerendering the same item overwrites the file,
// which is safe because the record is immutable once written.
func (s *service) GeneratePayslip(ctx context.Context, payRunID, itemID string) (string, error) {
	info, err := s.repo.FindPayslipInfo(ctx, payRunID, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrPayslipNotFound
		}
		return "", err
	}

	pdf := renderPayslip(*info)
	filename := fmt.Sprintf("payslip-%04d-%02d-%s.pdf", info.Year, info.Month, info.EmployeeCode)
	path, err := s.writePDF(pdf, "payslips", filename)
	if err != nil {
		s.logger.Error("write payslip pdf failed", zap.String("item_id", itemID), zap.Error(err))
		return "", err
	}

	refNo := fmt.Sprintf("PSLIP-%04d%02d-%s", info.Year, info.Month, info.EmployeeCode)
	doc := &GeneratedDocument{
		ID:          uuid.New(),
		EmployeeID:  info.EmployeeID,
		DocType:     TypePayslip,
		ReferenceNo: refNo,
		FilePath:    path,
	}
	if err := s.repo.Create(ctx, doc); err != nil {
		// Regeneration hits the unique reference; the file is already fresh.
		s.logger.Debug("payslip ledger insert skipped", zap.String("ref_no", refNo), zap.Error(err))
	}

	return path, nil
}

func (s *service) List(ctx context.Context, employeeID string) ([]DocumentResponse, error) {
	var (
		docs []GeneratedDocument
		err  error
	)
	if employeeID != "" {
		if _, perr := uuid.Parse(employeeID); perr != nil {
			return nil, ErrInvalidID
		}
		docs, err = s.repo.FindByEmployee(ctx, employeeID)
	} else {
		docs, err = s.repo.FindAll(ctx)
	}
	if err != nil {
		return nil, err
	}

	resp := make([]DocumentResponse, len(docs))
	for i, d := range docs {
		resp[i] = mapToResponse(d)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, id string) (DocumentResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return DocumentResponse{}, ErrInvalidID
	}

	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DocumentResponse{}, ErrDocumentNotFound
		}
		return DocumentResponse{}, err
	}

	return mapToResponse(*doc), nil
}

func (s *service) writePDF(pdf *gofpdf.Fpdf, subdir, filename string) (string, error) {
	dir := filepath.Join(s.storageDir, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	path := filepath.Join(dir, filename)
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", err
	}
	return path, nil
}

func mapToResponse(d GeneratedDocument) DocumentResponse {
	return DocumentResponse{
		ID:          d.ID.String(),
		EmployeeID:  d.EmployeeID.String(),
		DocType:     d.DocType,
		ReferenceNo: d.ReferenceNo,
		FilePath:    d.FilePath,
		CreatedAt:   d.CreatedAt.Format(time.RFC3339),
	}
}
