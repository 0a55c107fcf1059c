package document

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeRepo struct {
	createFn           func(ctx context.Context, doc *GeneratedDocument) error
	findAllFn          func(ctx context.Context) ([]GeneratedDocument, error)
	findByEmployeeFn   func(ctx context.Context, employeeID string) ([]GeneratedDocument, error)
	findByIDFn         func(ctx context.Context, id string) (*GeneratedDocument, error)
	findEmployeeInfoFn func(ctx context.Context, employeeID string) (*EmployeeInfo, error)
	findPayslipInfoFn  func(ctx context.Context, payRunID, itemID string) (*PayslipInfo, error)
}

func (f *fakeRepo) Create(ctx context.Context, doc *GeneratedDocument) error {
	if f.createFn != nil {
		return f.createFn(ctx, doc)
	}
	return nil
}

func (f *fakeRepo) FindAll(ctx context.Context) ([]GeneratedDocument, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return nil, nil
}

func (f *fakeRepo) FindByEmployee(ctx context.Context, employeeID string) ([]GeneratedDocument, error) {
	if f.findByEmployeeFn != nil {
		return f.findByEmployeeFn(ctx, employeeID)
	}
	return nil, nil
}

func (f *fakeRepo) FindByID(ctx context.Context, id string) (*GeneratedDocument, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) FindEmployeeInfo(ctx context.Context, employeeID string) (*EmployeeInfo, error) {
	if f.findEmployeeInfoFn != nil {
		return f.findEmployeeInfoFn(ctx, employeeID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) FindPayslipInfo(ctx context.Context, payRunID, itemID string) (*PayslipInfo, error) {
	if f.findPayslipInfoFn != nil {
		return f.findPayslipInfoFn(ctx, payRunID, itemID)
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeCounterRepo struct {
	next int64
}

func (f *fakeCounterRepo) GetNextValue(ctx context.Context, counterType string) (int64, error) {
	f.next++
	return f.next, nil
}

func setupDocumentTest(t *testing.T) (*fakeRepo, Service) {
	t.Helper()

	tmpDir := t.TempDir()
	_ = os.Setenv("DOCUMENT_STORAGE_DIR", tmpDir)
	t.Cleanup(func() { _ = os.Unsetenv("DOCUMENT_STORAGE_DIR") })

	repo := &fakeRepo{}
	return repo, NewService(repo, &fakeCounterRepo{})
}

func sampleEmployeeInfo() *EmployeeInfo {
	return &EmployeeInfo{
		ID:           uuid.New(),
		Code:         "EMP-00001",
		FullName:     "asha nair",
		Email:        "asha.nair@ecovale.in",
		Designation:  "Senior Accountant",
		Department:   "Finance",
		JoinDate:     time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		Status:       "ACTIVE",
		AnnualCTC:    144_000_000,
		MonthlyBasic: 8_000_000,
	}
}

func TestService_GenerateLetter(t *testing.T) {
	ctx := context.Background()
	repo, svc := setupDocumentTest(t)

	info := sampleEmployeeInfo()
	repo.findEmployeeInfoFn = func(ctx context.Context, employeeID string) (*EmployeeInfo, error) {
		return info, nil
	}

	var saved GeneratedDocument
	repo.createFn = func(ctx context.Context, doc *GeneratedDocument) error {
		saved = *doc
		return nil
	}

	resp, err := svc.GenerateLetter(ctx, uuid.New().String(), GenerateLetterRequest{
		EmployeeID: info.ID.String(),
		DocType:    TypeOfferLetter,
	})

	assert.NoError(t, err)
	assert.Equal(t, TypeOfferLetter, saved.DocType)
	assert.Regexp(t, `^ECO-HR-\d{4}-00001$`, resp.ReferenceNo)

	_, statErr := os.Stat(resp.FilePath)
	assert.NoError(t, statErr)
}

func TestService_GenerateLetter_UnknownType(t *testing.T) {
	ctx := context.Background()
	repo, svc := setupDocumentTest(t)

	repo.findEmployeeInfoFn = func(ctx context.Context, employeeID string) (*EmployeeInfo, error) {
		return sampleEmployeeInfo(), nil
	}

	_, err := svc.GenerateLetter(ctx, uuid.New().String(), GenerateLetterRequest{
		EmployeeID: uuid.New().String(),
		DocType:    "appointment_letter",
	})
	assert.ErrorIs(t, err, ErrUnknownDocType)
}

func TestService_GeneratePayslip(t *testing.T) {
	ctx := context.Background()
	repo, svc := setupDocumentTest(t)

	repo.findPayslipInfoFn = func(ctx context.Context, payRunID, itemID string) (*PayslipInfo, error) {
		return &PayslipInfo{
			ItemID:           uuid.New(),
			PayRunID:         uuid.New(),
			EmployeeID:       uuid.New(),
			EmployeeCode:     "EMP-00001",
			EmployeeName:     "Asha Nair",
			Month:            3,
			Year:             2026,
			TotalWorkingDays: 26,
			PayableDays:      24,
			LossOfPayDays:    2,
			AdjustedBasic:    7_384_615,
			TotalAllowances:  3_692_307,
			GrossSalary:      11_076_922,
			PFEmployee:       180_000,
			ProfessionalTax:  18_462,
			TDS:              415_385,
			TotalDeductions:  613_847,
			NetPay:           10_463_075,
		}, nil
	}

	path, err := svc.GeneratePayslip(ctx, uuid.New().String(), uuid.New().String())

	assert.NoError(t, err)
	assert.Equal(t, "payslip-2026-03-EMP-00001.pdf", filepath.Base(path))

	_, statErr := os.Stat(path)
	assert.NoError(t, statErr)
}

func TestService_GeneratePayslip_UnknownItem(t *testing.T) {
	ctx := context.Background()
	_, svc := setupDocumentTest(t)

	_, err := svc.GeneratePayslip(ctx, uuid.New().String(), uuid.New().String())
	assert.ErrorIs(t, err, ErrPayslipNotFound)
}

func TestINRFormatting(t *testing.T) {
	cases := []struct {
		paise int64
		want  string
	}{
		{0, "Rs. 0.00"},
		{50, "Rs. 0.50"},
		{100_000, "Rs. 1,000.00"},
		{8_000_000, "Rs. 80,000.00"},
		{150_000_000, "Rs. 15,00,000.00"},
		{1_234_567_890, "Rs. 1,23,45,678.90"},
		{-100_000, "-Rs. 1,000.00"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, inr(tc.paise), "%d paise", tc.paise)
	}
}

func TestSalutationName(t *testing.T) {
	assert.Equal(t, "Asha Nair", salutationName("  asha nair "))
	assert.Equal(t, "Ravi Iyer", salutationName("RAVI IYER"))
}
