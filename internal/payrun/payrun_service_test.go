package payrun_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"ecovale-hr/internal/events"
	"ecovale-hr/internal/messaging/kafka"
	"ecovale-hr/internal/payrun"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakePayRunRepository struct {
	findRunByPeriodFn    func(ctx context.Context, month, year int) (*payrun.PayRun, error)
	listRunsFn           func(ctx context.Context) ([]payrun.PayRun, error)
	findItemByIDFn       func(ctx context.Context, id string) (*payrun.PayRunItem, error)
	resetSettlementsFn   func(ctx context.Context, month, year int) error
	findActiveFn         func(ctx context.Context) ([]payrun.EmployeeFacts, error)
	findAttendanceFn     func(ctx context.Context, month, year int) ([]payrun.AttendanceRow, error)
	findDueAdvancesFn    func(ctx context.Context, month, year int) ([]payrun.DueAdvance, error)
	findDueEMIsFn        func(ctx context.Context, month, year int) ([]payrun.DueEMI, error)
	settleAdvanceFn      func(ctx context.Context, id uuid.UUID, amount int64, at time.Time) error
	settleEMIFn          func(ctx context.Context, id uuid.UUID, at time.Time) error
	completeLoansFn      func(ctx context.Context) error
	deleteRunByPeriodFn  func(ctx context.Context, month, year int) error
	insertRunFn          func(ctx context.Context, run *payrun.PayRun) error
	insertItemsFn        func(ctx context.Context, items []payrun.PayRunItem) error
	insertFailuresFn     func(ctx context.Context, failures []payrun.PayRunFailure) error
	settledAdvances      []uuid.UUID
	settledAmounts       []int64
	settledEMIs          []uuid.UUID
	resetCalled          bool
	deleteCalledBefore   bool
	insertRunCalledAfter bool
}

func (f *fakePayRunRepository) WithTx(tx *sql.Tx) payrun.Repository { return f }

func (f *fakePayRunRepository) FindRunByPeriod(ctx context.Context, month, year int) (*payrun.PayRun, error) {
	if f.findRunByPeriodFn != nil {
		return f.findRunByPeriodFn(ctx, month, year)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePayRunRepository) ListRuns(ctx context.Context) ([]payrun.PayRun, error) {
	if f.listRunsFn != nil {
		return f.listRunsFn(ctx)
	}
	return nil, nil
}

func (f *fakePayRunRepository) FindItemByID(ctx context.Context, id string) (*payrun.PayRunItem, error) {
	if f.findItemByIDFn != nil {
		return f.findItemByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePayRunRepository) ResetSettlements(ctx context.Context, month, year int) error {
	f.resetCalled = true
	if f.resetSettlementsFn != nil {
		return f.resetSettlementsFn(ctx, month, year)
	}
	return nil
}

func (f *fakePayRunRepository) FindActiveEmployees(ctx context.Context) ([]payrun.EmployeeFacts, error) {
	if f.findActiveFn != nil {
		return f.findActiveFn(ctx)
	}
	return nil, nil
}

func (f *fakePayRunRepository) FindAttendanceRows(ctx context.Context, month, year int) ([]payrun.AttendanceRow, error) {
	if f.findAttendanceFn != nil {
		return f.findAttendanceFn(ctx, month, year)
	}
	return nil, nil
}

func (f *fakePayRunRepository) FindDueAdvances(ctx context.Context, month, year int) ([]payrun.DueAdvance, error) {
	if f.findDueAdvancesFn != nil {
		return f.findDueAdvancesFn(ctx, month, year)
	}
	return nil, nil
}

func (f *fakePayRunRepository) FindDueEMIs(ctx context.Context, month, year int) ([]payrun.DueEMI, error) {
	if f.findDueEMIsFn != nil {
		return f.findDueEMIsFn(ctx, month, year)
	}
	return nil, nil
}

func (f *fakePayRunRepository) SettleAdvance(ctx context.Context, id uuid.UUID, amount int64, at time.Time) error {
	f.settledAdvances = append(f.settledAdvances, id)
	f.settledAmounts = append(f.settledAmounts, amount)
	if f.settleAdvanceFn != nil {
		return f.settleAdvanceFn(ctx, id, amount, at)
	}
	return nil
}

func (f *fakePayRunRepository) SettleEMI(ctx context.Context, id uuid.UUID, at time.Time) error {
	f.settledEMIs = append(f.settledEMIs, id)
	if f.settleEMIFn != nil {
		return f.settleEMIFn(ctx, id, at)
	}
	return nil
}

func (f *fakePayRunRepository) CompleteRecoveredLoans(ctx context.Context) error {
	if f.completeLoansFn != nil {
		return f.completeLoansFn(ctx)
	}
	return nil
}

func (f *fakePayRunRepository) DeleteRunByPeriod(ctx context.Context, month, year int) error {
	f.deleteCalledBefore = !f.insertRunCalledAfter
	if f.deleteRunByPeriodFn != nil {
		return f.deleteRunByPeriodFn(ctx, month, year)
	}
	return nil
}

func (f *fakePayRunRepository) InsertRun(ctx context.Context, run *payrun.PayRun) error {
	f.insertRunCalledAfter = true
	if f.insertRunFn != nil {
		return f.insertRunFn(ctx, run)
	}
	return nil
}

func (f *fakePayRunRepository) InsertItems(ctx context.Context, items []payrun.PayRunItem) error {
	if f.insertItemsFn != nil {
		return f.insertItemsFn(ctx, items)
	}
	return nil
}

func (f *fakePayRunRepository) InsertFailures(ctx context.Context, failures []payrun.PayRunFailure) error {
	if f.insertFailuresFn != nil {
		return f.insertFailuresFn(ctx, failures)
	}
	return nil
}

type fakeOutboxRepository struct {
	withTxFn func(tx *sql.Tx) kafka.OutboxRepository
	createFn func(ctx context.Context, event kafka.OutboxEvent) error
}

func (f *fakeOutboxRepository) WithTx(tx *sql.Tx) kafka.OutboxRepository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
	if f.createFn != nil {
		return f.createFn(ctx, event)
	}
	return nil
}

func (f *fakeOutboxRepository) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error { return nil }

func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}

type payRunServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	repo    *fakePayRunRepository
	outbox  *fakeOutboxRepository
	service payrun.Service
}

func setupPayRunServiceTest(t *testing.T) *payRunServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakePayRunRepository{}
	outbox := &fakeOutboxRepository{}
	svc := payrun.NewService(db, repo, outbox, payrun.DefaultConfig(), nil)

	return &payRunServiceDeps{db: db, sqlMock: sqlMock, repo: repo, outbox: outbox, service: svc}
}

func activeEmployees() []payrun.EmployeeFacts {
	return []payrun.EmployeeFacts{
		{
			ID:    uuid.New(),
			Code:  "EMP-00001",
			Name:  "Asha Nair",
			Basic: 8_000_000, HRA: 3_200_000, SpecialAllow: 415_000,
			IncludePF: true, TDS: 450_000, ProfessionalTax: 20_000,
		},
		{
			ID:    uuid.New(),
			Code:  "EMP-00002",
			Name:  "Ravi Iyer",
			Basic: 1_400_000, HRA: 500_000,
			IncludePF: true, IncludeESI: true,
		},
	}
}

func TestPayRunService_Generate(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New().String()

	deps := setupPayRunServiceTest(t)
	defer deps.db.Close()

	employees := activeEmployees()
	advanceID := uuid.New()
	emiID := uuid.New()

	deps.sqlMock.ExpectBegin()
	deps.sqlMock.ExpectCommit()

	deps.repo.findActiveFn = func(ctx context.Context) ([]payrun.EmployeeFacts, error) {
		return employees, nil
	}
	deps.repo.findAttendanceFn = func(ctx context.Context, month, year int) ([]payrun.AttendanceRow, error) {
		return []payrun.AttendanceRow{
			{EmployeeID: employees[0].ID, TotalWorkingDays: 26, PresentDays: 24, AbsentDays: 2},
		}, nil
	}
	deps.repo.findDueAdvancesFn = func(ctx context.Context, month, year int) ([]payrun.DueAdvance, error) {
		return []payrun.DueAdvance{{ID: advanceID, EmployeeID: employees[0].ID, Remaining: 500_000}}, nil
	}
	deps.repo.findDueEMIsFn = func(ctx context.Context, month, year int) ([]payrun.DueEMI, error) {
		return []payrun.DueEMI{{ID: emiID, LoanID: uuid.New(), EmployeeID: employees[1].ID, Amount: 250_000}}, nil
	}

	var inserted []payrun.PayRunItem
	deps.repo.insertItemsFn = func(ctx context.Context, items []payrun.PayRunItem) error {
		inserted = items
		return nil
	}

	var outboxEvent kafka.OutboxEvent
	deps.outbox.createFn = func(ctx context.Context, event kafka.OutboxEvent) error {
		outboxEvent = event
		return nil
	}

	resp, err := deps.service.Generate(ctx, actorID, payrun.GeneratePayRunRequest{Month: "3", Year: "2026"})

	assert.NoError(t, err)
	assert.Equal(t, 3, resp.Month)
	assert.Equal(t, 2026, resp.Year)
	assert.Equal(t, 2, resp.EmployeeCount)
	assert.Equal(t, 2, resp.ProcessedCount)
	assert.Len(t, resp.Items, 2)
	assert.Empty(t, resp.Failures)

	// run totals are the exact sums of the items
	var gross, deductions, net int64
	for _, it := range resp.Items {
		gross += it.GrossSalary
		deductions += it.TotalDeductions
		net += it.NetPay
	}
	assert.Equal(t, gross, resp.TotalGross)
	assert.Equal(t, deductions, resp.TotalDeductions)
	assert.Equal(t, net, resp.TotalNet)

	// the attendance record drove pro-ration, the missing one defaulted
	assert.Equal(t, 2, resp.Items[0].LossOfPayDays)
	assert.False(t, resp.Items[0].AttendanceDefaulted)
	assert.True(t, resp.Items[1].AttendanceDefaulted)

	// obligations recovered in full and stamped
	assert.Equal(t, int64(500_000), resp.Items[0].AdvanceDeduction)
	assert.Equal(t, int64(250_000), resp.Items[1].LoanDeduction)
	assert.Equal(t, []uuid.UUID{advanceID}, deps.repo.settledAdvances)
	assert.Equal(t, []int64{500_000}, deps.repo.settledAmounts)
	assert.Equal(t, []uuid.UUID{emiID}, deps.repo.settledEMIs)

	assert.True(t, deps.repo.resetCalled)
	assert.True(t, deps.repo.deleteCalledBefore)
	assert.Len(t, inserted, 2)

	assert.Equal(t, events.PayRunCompletedTopic, outboxEvent.Topic)
	var completed events.PayRunCompletedEvent
	assert.NoError(t, json.Unmarshal(outboxEvent.Payload, &completed))
	assert.Equal(t, net, completed.TotalNet)
	assert.Equal(t, 2, completed.ProcessedCount)

	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestPayRunService_Generate_ExistingRunNeedsRegenerateFlag(t *testing.T) {
	ctx := context.Background()

	deps := setupPayRunServiceTest(t)
	defer deps.db.Close()

	deps.repo.findRunByPeriodFn = func(ctx context.Context, month, year int) (*payrun.PayRun, error) {
		return &payrun.PayRun{ID: uuid.New(), Month: month, Year: year}, nil
	}

	_, err := deps.service.Generate(ctx, uuid.New().String(), payrun.GeneratePayRunRequest{Month: "3", Year: "2026"})
	assert.ErrorIs(t, err, payrun.ErrRunExists)

	// with the flag the replace goes through
	deps.sqlMock.ExpectBegin()
	deps.sqlMock.ExpectCommit()
	deps.repo.findActiveFn = func(ctx context.Context) ([]payrun.EmployeeFacts, error) {
		return activeEmployees(), nil
	}

	_, err = deps.service.Generate(ctx, uuid.New().String(), payrun.GeneratePayRunRequest{Month: "3", Year: "2026", Regenerate: true})
	assert.NoError(t, err)
	assert.True(t, deps.repo.resetCalled)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestPayRunService_Generate_RegenerateMatchesOriginal(t *testing.T) {
	ctx := context.Background()

	deps := setupPayRunServiceTest(t)
	defer deps.db.Close()

	employee := activeEmployees()[0]
	advanceID := uuid.New()

	// Stateful obligation store: settling removes the advance from the due
	// set, resetting restores it, the way the real tables behave.
	due := map[uuid.UUID]int64{advanceID: 500_000}
	settled := map[uuid.UUID]int64{}

	deps.repo.findActiveFn = func(ctx context.Context) ([]payrun.EmployeeFacts, error) {
		return []payrun.EmployeeFacts{employee}, nil
	}
	deps.repo.findDueAdvancesFn = func(ctx context.Context, month, year int) ([]payrun.DueAdvance, error) {
		var out []payrun.DueAdvance
		for id, remaining := range due {
			if remaining > 0 {
				out = append(out, payrun.DueAdvance{ID: id, EmployeeID: employee.ID, Remaining: remaining})
			}
		}
		return out, nil
	}
	deps.repo.settleAdvanceFn = func(ctx context.Context, id uuid.UUID, amount int64, at time.Time) error {
		due[id] -= amount
		settled[id] += amount
		return nil
	}
	deps.repo.resetSettlementsFn = func(ctx context.Context, month, year int) error {
		for id, amount := range settled {
			due[id] += amount
			settled[id] = 0
		}
		return nil
	}

	var storedRun *payrun.PayRun
	deps.repo.insertRunFn = func(ctx context.Context, run *payrun.PayRun) error {
		storedRun = run
		return nil
	}
	deps.repo.findRunByPeriodFn = func(ctx context.Context, month, year int) (*payrun.PayRun, error) {
		if storedRun == nil {
			return nil, gorm.ErrRecordNotFound
		}
		return storedRun, nil
	}

	deps.sqlMock.ExpectBegin()
	deps.sqlMock.ExpectCommit()
	first, err := deps.service.Generate(ctx, uuid.New().String(), payrun.GeneratePayRunRequest{Month: "3", Year: "2026"})
	assert.NoError(t, err)

	deps.sqlMock.ExpectBegin()
	deps.sqlMock.ExpectCommit()
	second, err := deps.service.Generate(ctx, uuid.New().String(), payrun.GeneratePayRunRequest{Month: "3", Year: "2026", Regenerate: true})
	assert.NoError(t, err)

	// Regeneration reproduces the original numbers exactly.
	assert.Equal(t, first.TotalGross, second.TotalGross)
	assert.Equal(t, first.TotalDeductions, second.TotalDeductions)
	assert.Equal(t, first.TotalNet, second.TotalNet)
	assert.Len(t, second.Items, 1)
	assert.Equal(t, int64(500_000), first.Items[0].AdvanceDeduction)
	assert.Equal(t, int64(500_000), second.Items[0].AdvanceDeduction)
	assert.Equal(t, first.Items[0].NetPay, second.Items[0].NetPay)

	// The advance ends up recovered exactly once, never doubled.
	assert.Equal(t, int64(500_000), settled[advanceID])
	assert.Equal(t, int64(0), due[advanceID])
	assert.Equal(t, []int64{500_000, 500_000}, deps.repo.settledAmounts)

	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestPayRunService_Generate_PartialAdvanceRecovery(t *testing.T) {
	ctx := context.Background()

	deps := setupPayRunServiceTest(t)
	defer deps.db.Close()

	employee := payrun.EmployeeFacts{
		ID:    uuid.New(),
		Code:  "EMP-00003",
		Name:  "Meera Pillai",
		Basic: 1_000_000,
	}
	advanceID := uuid.New()
	emiID := uuid.New()

	deps.sqlMock.ExpectBegin()
	deps.sqlMock.ExpectCommit()

	deps.repo.findActiveFn = func(ctx context.Context) ([]payrun.EmployeeFacts, error) {
		return []payrun.EmployeeFacts{employee}, nil
	}
	deps.repo.findDueAdvancesFn = func(ctx context.Context, month, year int) ([]payrun.DueAdvance, error) {
		return []payrun.DueAdvance{{ID: advanceID, EmployeeID: employee.ID, Remaining: 1_500_000}}, nil
	}
	deps.repo.findDueEMIsFn = func(ctx context.Context, month, year int) ([]payrun.DueEMI, error) {
		return []payrun.DueEMI{{ID: emiID, LoanID: uuid.New(), EmployeeID: employee.ID, Amount: 1_200_000}}, nil
	}

	resp, err := deps.service.Generate(ctx, uuid.New().String(), payrun.GeneratePayRunRequest{Month: "3", Year: "2026"})

	assert.NoError(t, err)
	assert.Len(t, resp.Items, 1)

	// The EMI does not fit and stays pending; the advance is recovered only
	// up to the month's pay, never past zero.
	assert.Empty(t, deps.repo.settledEMIs)
	assert.Equal(t, int64(0), resp.Items[0].LoanDeduction)
	assert.Equal(t, int64(1_000_000), resp.Items[0].AdvanceDeduction)
	assert.Equal(t, int64(0), resp.Items[0].NetPay)
	assert.Equal(t, []uuid.UUID{advanceID}, deps.repo.settledAdvances)
	assert.Equal(t, []int64{1_000_000}, deps.repo.settledAmounts)

	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestPayRunService_Generate_PartialFailure(t *testing.T) {
	ctx := context.Background()

	deps := setupPayRunServiceTest(t)
	defer deps.db.Close()

	employees := activeEmployees()
	employees[1].Basic = 0
	brokenAdvance := uuid.New()

	deps.sqlMock.ExpectBegin()
	deps.sqlMock.ExpectCommit()

	deps.repo.findActiveFn = func(ctx context.Context) ([]payrun.EmployeeFacts, error) {
		return employees, nil
	}
	deps.repo.findDueAdvancesFn = func(ctx context.Context, month, year int) ([]payrun.DueAdvance, error) {
		return []payrun.DueAdvance{{ID: brokenAdvance, EmployeeID: employees[1].ID, Remaining: 100_000}}, nil
	}

	resp, err := deps.service.Generate(ctx, uuid.New().String(), payrun.GeneratePayRunRequest{Month: "3", Year: "2026"})

	assert.NoError(t, err)
	assert.Equal(t, 2, resp.EmployeeCount)
	assert.Equal(t, 1, resp.ProcessedCount)
	assert.Len(t, resp.Failures, 1)
	assert.Equal(t, "EMP-00002", resp.Failures[0].EmployeeCode)
	assert.Contains(t, resp.Failures[0].Reason, "no basic salary")

	// a failed employee's obligations stay untouched
	assert.Empty(t, deps.repo.settledAdvances)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestPayRunService_Generate_InvalidPeriod(t *testing.T) {
	ctx := context.Background()

	deps := setupPayRunServiceTest(t)
	defer deps.db.Close()

	_, err := deps.service.Generate(ctx, uuid.New().String(), payrun.GeneratePayRunRequest{Month: "13", Year: "2026"})
	assert.ErrorIs(t, err, payrun.ErrInvalidPeriod)

	_, err = deps.service.Generate(ctx, uuid.New().String(), payrun.GeneratePayRunRequest{Month: "3", Year: "1999"})
	assert.ErrorIs(t, err, payrun.ErrInvalidPeriod)
}

func TestPayRunService_Generate_NoActiveEmployees(t *testing.T) {
	ctx := context.Background()

	deps := setupPayRunServiceTest(t)
	defer deps.db.Close()

	deps.sqlMock.ExpectBegin()
	deps.sqlMock.ExpectRollback()

	deps.repo.findActiveFn = func(ctx context.Context) ([]payrun.EmployeeFacts, error) {
		return nil, nil
	}

	_, err := deps.service.Generate(ctx, uuid.New().String(), payrun.GeneratePayRunRequest{Month: "3", Year: "2026"})

	assert.ErrorIs(t, err, payrun.ErrNoActiveEmployees)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestPayRunService_GetByPeriod_NotFound(t *testing.T) {
	ctx := context.Background()

	deps := setupPayRunServiceTest(t)
	defer deps.db.Close()

	_, err := deps.service.GetByPeriod(ctx, 3, 2026)
	assert.ErrorIs(t, err, payrun.ErrRunNotFound)

	_, err = deps.service.GetByPeriod(ctx, 0, 2026)
	assert.ErrorIs(t, err, payrun.ErrInvalidPeriod)
}

func TestPayRunService_GetByPeriod_CacheHit(t *testing.T) {
	ctx := context.Background()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()
	_ = sqlMock

	rdb, redisMock := redismock.NewClientMock()
	repo := &fakePayRunRepository{
		findRunByPeriodFn: func(ctx context.Context, month, year int) (*payrun.PayRun, error) {
			t.Fatal("cache hit must not reach the repository")
			return nil, nil
		},
	}
	svc := payrun.NewService(db, repo, &fakeOutboxRepository{}, payrun.DefaultConfig(), rdb)

	cached := payrun.PayRunResponse{
		ID:     uuid.NewString(),
		Month:  3,
		Year:   2026,
		Status: "completed",
	}
	body, err := json.Marshal(cached)
	assert.NoError(t, err)
	redisMock.ExpectGet("payrun:2026-03").SetVal(string(body))

	got, err := svc.GetByPeriod(ctx, 3, 2026)
	assert.NoError(t, err)
	assert.Equal(t, cached.ID, got.ID)
	assert.Equal(t, "completed", got.Status)
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestPayRunService_RequestPayslip(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New().String()

	deps := setupPayRunServiceTest(t)
	defer deps.db.Close()

	t.Run("unknown item", func(t *testing.T) {
		err := deps.service.RequestPayslip(ctx, actorID, uuid.New().String())
		assert.ErrorIs(t, err, payrun.ErrItemNotFound)
	})

	t.Run("queues outbox event", func(t *testing.T) {
		item := &payrun.PayRunItem{ID: uuid.New(), PayRunID: uuid.New(), EmployeeID: uuid.New()}
		deps.repo.findItemByIDFn = func(ctx context.Context, id string) (*payrun.PayRunItem, error) {
			return item, nil
		}

		var outboxEvent kafka.OutboxEvent
		deps.outbox.createFn = func(ctx context.Context, event kafka.OutboxEvent) error {
			outboxEvent = event
			return nil
		}

		err := deps.service.RequestPayslip(ctx, actorID, item.ID.String())

		assert.NoError(t, err)
		assert.Equal(t, events.PayslipRequestedTopic, outboxEvent.Topic)

		var event events.PayslipRequestedEvent
		assert.NoError(t, json.Unmarshal(outboxEvent.Payload, &event))
		assert.Equal(t, item.PayRunID.String(), event.PayRunID)
		assert.Equal(t, item.ID.String(), event.ItemID)
		assert.Equal(t, actorID, event.RequestedBy)
	})
}
