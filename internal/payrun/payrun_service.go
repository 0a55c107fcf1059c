package payrun

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"ecovale-hr/internal/events"
	"ecovale-hr/internal/messaging/kafka"
	"ecovale-hr/internal/shared/apperror"
	"ecovale-hr/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

var (
	ErrInvalidPeriod     = apperror.New(apperror.CodeInvalidInput, "invalid month or year", http.StatusBadRequest)
	ErrRunNotFound       = apperror.New(apperror.CodeNotFound, "no pay run for this period", http.StatusNotFound)
	ErrItemNotFound      = apperror.New(apperror.CodeNotFound, "pay record not found", http.StatusNotFound)
	ErrRunExists         = apperror.New(apperror.CodeConflict, "pay run already exists for this period, pass regenerate to replace it", http.StatusConflict)
	ErrRunInProgress     = apperror.New(apperror.CodeConflict, "pay run generation already in progress for this period", http.StatusConflict)
	ErrNoActiveEmployees = apperror.New(apperror.CodeInvalidState, "no active employees to pay", http.StatusUnprocessableEntity)
)

func periodCacheKey(month, year int) string {
	return fmt.Sprintf("payrun:%04d-%02d", year, month)
}

// advanceSettlement is one advance recovery decided for this run, possibly
// below the advance's remaining balance.
type advanceSettlement struct {
	ID     uuid.UUID
	Amount int64
}

type Service interface {
	Generate(ctx context.Context, actorID string, req GeneratePayRunRequest) (PayRunResponse, error)
	GetByPeriod(ctx context.Context, month, year int) (PayRunResponse, error)
	List(ctx context.Context) ([]PayRunSummaryResponse, error)
	RequestPayslip(ctx context.Context, actorID, itemID string) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	outbox kafka.OutboxRepository
	cfg    Config
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger

	// One generation per period at a time; concurrent calls get a conflict
	// instead of racing the replace.
	periodLocks sync.Map
}

func NewService(
	db *sql.DB,
	repo Repository,
	outboxRepo kafka.OutboxRepository,
	cfg Config,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("payrun.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payrun.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		outbox: outboxRepo,
		cfg:    cfg,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func (s *service) Generate(ctx context.Context, actorID string, req GeneratePayRunRequest) (PayRunResponse, error) {
	month, ok := ParseMonth(req.Month)
	if !ok {
		return PayRunResponse{}, ErrInvalidPeriod
	}
	year, ok := ParseYear(req.Year)
	if !ok {
		return PayRunResponse{}, ErrInvalidPeriod
	}

	rid := contextutil.GetRequestID(ctx)
	s.logger.Info("pay run generation requested",
		zap.String("request_id", rid),
		zap.Int("month", month),
		zap.Int("year", year),
		zap.Bool("regenerate", req.Regenerate),
	)

	lockAny, _ := s.periodLocks.LoadOrStore(periodCacheKey(month, year), &sync.Mutex{})
	lock := lockAny.(*sync.Mutex)
	if !lock.TryLock() {
		return PayRunResponse{}, ErrRunInProgress
	}
	defer lock.Unlock()

	existing, err := s.repo.FindRunByPeriod(ctx, month, year)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return PayRunResponse{}, err
	}
	if err == nil && existing != nil && !req.Regenerate {
		return PayRunResponse{}, ErrRunExists
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("pay run begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return PayRunResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	// A rerun must see the same pending obligations the first run saw.
	if err := qtx.ResetSettlements(ctx, month, year); err != nil {
		s.logger.Error("pay run reset settlements failed", zap.Error(err))
		return PayRunResponse{}, err
	}

	employees, err := qtx.FindActiveEmployees(ctx)
	if err != nil {
		return PayRunResponse{}, err
	}
	if len(employees) == 0 {
		return PayRunResponse{}, ErrNoActiveEmployees
	}

	attendanceRows, err := qtx.FindAttendanceRows(ctx, month, year)
	if err != nil {
		return PayRunResponse{}, err
	}
	attendanceByEmployee := make(map[uuid.UUID]AttendanceRow, len(attendanceRows))
	for _, row := range attendanceRows {
		attendanceByEmployee[row.EmployeeID] = row
	}

	dueAdvances, err := qtx.FindDueAdvances(ctx, month, year)
	if err != nil {
		return PayRunResponse{}, err
	}
	advancesByEmployee := make(map[uuid.UUID][]DueAdvance)
	for _, adv := range dueAdvances {
		advancesByEmployee[adv.EmployeeID] = append(advancesByEmployee[adv.EmployeeID], adv)
	}

	dueEMIs, err := qtx.FindDueEMIs(ctx, month, year)
	if err != nil {
		return PayRunResponse{}, err
	}
	emisByEmployee := make(map[uuid.UUID][]DueEMI)
	for _, emi := range dueEMIs {
		emisByEmployee[emi.EmployeeID] = append(emisByEmployee[emi.EmployeeID], emi)
	}

	now := time.Now().UTC()
	runID := uuid.New()

	run := &PayRun{
		ID:            runID,
		Month:         month,
		Year:          year,
		Status:        StatusCompleted,
		EmployeeCount: len(employees),
		GeneratedAt:   now,
	}
	if actor, err := uuid.Parse(actorID); err == nil {
		run.GeneratedBy = &actor
	}

	var items []PayRunItem
	var failures []PayRunFailure
	var settledAdvances []advanceSettlement
	var settledEMIs []uuid.UUID

	for _, e := range employees {
		att := defaultAttendance(s.cfg.DefaultWorkingDays)
		if row, ok := attendanceByEmployee[e.ID]; ok {
			att, err = attendanceFromRecord(
				row.TotalWorkingDays, row.PresentDays, row.AbsentDays,
				row.PaidLeaveDays, row.UnpaidLeaveDays,
			)
			if err != nil {
				failures = append(failures, PayRunFailure{
					ID:           uuid.New(),
					PayRunID:     runID,
					EmployeeID:   e.ID,
					EmployeeCode: e.Code,
					Reason:       err.Error(),
				})
				continue
			}
		}

		base, err := buildItem(s.cfg, e, att, 0, 0)
		if err != nil {
			failures = append(failures, PayRunFailure{
				ID:           uuid.New(),
				PayRunID:     runID,
				EmployeeID:   e.ID,
				EmployeeCode: e.Code,
				Reason:       err.Error(),
			})
			continue
		}

		// Recovery never pushes net pay below zero. EMIs are fixed
		// instalments, so one that does not fit stays pending; advances
		// absorb what is left, the boundary one partially.
		available := base.NetPay
		var loanDeduction int64
		var emiIDs []uuid.UUID
		for _, emi := range emisByEmployee[e.ID] {
			if loanDeduction+emi.Amount > available {
				continue
			}
			loanDeduction += emi.Amount
			emiIDs = append(emiIDs, emi.ID)
		}

		room := available - loanDeduction
		var advanceDeduction int64
		var advanceCuts []advanceSettlement
		for _, adv := range advancesByEmployee[e.ID] {
			if room <= 0 {
				break
			}
			take := adv.Remaining
			if take > room {
				take = room
			}
			advanceDeduction += take
			room -= take
			advanceCuts = append(advanceCuts, advanceSettlement{ID: adv.ID, Amount: take})
		}

		item, err := buildItem(s.cfg, e, att, advanceDeduction, loanDeduction)
		if err != nil {
			failures = append(failures, PayRunFailure{
				ID:           uuid.New(),
				PayRunID:     runID,
				EmployeeID:   e.ID,
				EmployeeCode: e.Code,
				Reason:       err.Error(),
			})
			continue
		}
		item.PayRunID = runID

		settledAdvances = append(settledAdvances, advanceCuts...)
		settledEMIs = append(settledEMIs, emiIDs...)

		run.TotalGross += item.GrossSalary
		run.TotalDeductions += item.TotalDeductions
		run.TotalNet += item.NetPay
		items = append(items, item)
	}
	run.ProcessedCount = len(items)

	for _, cut := range settledAdvances {
		if err := qtx.SettleAdvance(ctx, cut.ID, cut.Amount, now); err != nil {
			s.logger.Error("pay run settle advance failed", zap.String("advance_id", cut.ID.String()), zap.Error(err))
			return PayRunResponse{}, err
		}
	}
	for _, id := range settledEMIs {
		if err := qtx.SettleEMI(ctx, id, now); err != nil {
			s.logger.Error("pay run settle emi failed", zap.String("emi_id", id.String()), zap.Error(err))
			return PayRunResponse{}, err
		}
	}
	if len(settledEMIs) > 0 {
		if err := qtx.CompleteRecoveredLoans(ctx); err != nil {
			return PayRunResponse{}, err
		}
	}

	// Replace, never merge: the period's previous batch goes away wholesale.
	if err := qtx.DeleteRunByPeriod(ctx, month, year); err != nil {
		return PayRunResponse{}, err
	}
	if err := qtx.InsertRun(ctx, run); err != nil {
		return PayRunResponse{}, err
	}
	if err := qtx.InsertItems(ctx, items); err != nil {
		return PayRunResponse{}, err
	}
	if err := qtx.InsertFailures(ctx, failures); err != nil {
		return PayRunResponse{}, err
	}

	if s.outbox != nil {
		event := events.PayRunCompletedEvent{
			EventType:      "payrun_completed",
			PayRunID:       runID.String(),
			Month:          month,
			Year:           year,
			EmployeeCount:  run.EmployeeCount,
			ProcessedCount: run.ProcessedCount,
			FailedCount:    len(failures),
			TotalNet:       run.TotalNet,
			GeneratedBy:    actorID,
			OccurredAt:     now,
		}
		payload, err := json.Marshal(event)
		if err != nil {
			return PayRunResponse{}, err
		}
		if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     rid,
			AggregateType: "payrun",
			AggregateID:   runID.String(),
			EventType:     event.EventType,
			Topic:         events.PayRunCompletedTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			s.logger.Error("pay run outbox persist failed", zap.Error(err))
			return PayRunResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("pay run commit failed", zap.String("request_id", rid), zap.Error(err))
		return PayRunResponse{}, err
	}

	s.invalidatePeriodCache(ctx, month, year)

	s.logger.Info("pay run generated",
		zap.String("request_id", rid),
		zap.String("pay_run_id", runID.String()),
		zap.Int("month", month),
		zap.Int("year", year),
		zap.Int("processed", run.ProcessedCount),
		zap.Int("failed", len(failures)),
		zap.Int64("total_net", run.TotalNet),
	)

	run.Items = items
	run.Failures = failures
	return mapToResponse(*run), nil
}

func (s *service) GetByPeriod(ctx context.Context, month, year int) (PayRunResponse, error) {
	if month < 1 || month > 12 || year < 2000 || year > 2100 {
		return PayRunResponse{}, ErrInvalidPeriod
	}

	cacheKey := periodCacheKey(month, year)
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp PayRunResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		run, err := s.repo.FindRunByPeriod(ctx, month, year)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return PayRunResponse{}, ErrRunNotFound
			}
			return PayRunResponse{}, err
		}

		resp := mapToResponse(*run)

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, cacheKey, jsonData, 10*time.Minute)
			}
		}
		return resp, nil
	})
	if err != nil {
		return PayRunResponse{}, err
	}

	return v.(PayRunResponse), nil
}

func (s *service) List(ctx context.Context) ([]PayRunSummaryResponse, error) {
	runs, err := s.repo.ListRuns(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]PayRunSummaryResponse, len(runs))
	for i, run := range runs {
		resp[i] = PayRunSummaryResponse{
			ID:             run.ID.String(),
			Month:          run.Month,
			Year:           run.Year,
			Status:         run.Status,
			EmployeeCount:  run.EmployeeCount,
			ProcessedCount: run.ProcessedCount,
			TotalNet:       run.TotalNet,
			GeneratedAt:    run.GeneratedAt.Format(time.RFC3339),
		}
	}
	return resp, nil
}

// RequestPayslip queues asynchronous payslip rendering for one pay record.
func (s *service) RequestPayslip(ctx context.Context, actorID, itemID string) error {
	if _, err := uuid.Parse(itemID); err != nil {
		return ErrItemNotFound
	}

	item, err := s.repo.FindItemByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrItemNotFound
		}
		return err
	}

	event := events.PayslipRequestedEvent{
		EventType:   "payslip_requested",
		PayRunID:    item.PayRunID.String(),
		ItemID:      item.ID.String(),
		EmployeeID:  item.EmployeeID.String(),
		RequestedBy: actorID,
		OccurredAt:  time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.outbox.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "payrun_item",
		AggregateID:   item.ID.String(),
		EventType:     event.EventType,
		Topic:         events.PayslipRequestedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func (s *service) invalidatePeriodCache(ctx context.Context, month, year int) {
	if s.rdb == nil {
		return
	}
	key := periodCacheKey(month, year)
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		s.logger.Error("failed to invalidate pay run cache", zap.String("key", key), zap.Error(err))
	}
}

func mapToResponse(run PayRun) PayRunResponse {
	resp := PayRunResponse{
		ID:              run.ID.String(),
		Month:           run.Month,
		Year:            run.Year,
		Status:          run.Status,
		EmployeeCount:   run.EmployeeCount,
		ProcessedCount:  run.ProcessedCount,
		TotalGross:      run.TotalGross,
		TotalDeductions: run.TotalDeductions,
		TotalNet:        run.TotalNet,
		GeneratedAt:     run.GeneratedAt.Format(time.RFC3339),
	}
	for _, it := range run.Items {
		resp.Items = append(resp.Items, PayRunItemResponse{
			ID:           it.ID.String(),
			EmployeeID:   it.EmployeeID.String(),
			EmployeeCode: it.EmployeeCode,
			EmployeeName: it.EmployeeName,

			TotalWorkingDays:    it.TotalWorkingDays,
			PayableDays:         it.PayableDays,
			LossOfPayDays:       it.LossOfPayDays,
			AttendanceDefaulted: it.AttendanceDefaulted,

			Basic:           it.Basic,
			LossOfPayAmount: it.LossOfPayAmount,
			AdjustedBasic:   it.AdjustedBasic,
			HRA:             it.HRA,
			Conveyance:      it.Conveyance,
			TelephoneAllow:  it.TelephoneAllow,
			MedicalAllow:    it.MedicalAllow,
			SpecialAllow:    it.SpecialAllow,
			TotalAllowances: it.TotalAllowances,
			GrossSalary:     it.GrossSalary,

			PFEmployee:       it.PFEmployee,
			PFEmployer:       it.PFEmployer,
			ESIEmployee:      it.ESIEmployee,
			ESIEmployer:      it.ESIEmployer,
			ProfessionalTax:  it.ProfessionalTax,
			TDS:              it.TDS,
			AdvanceDeduction: it.AdvanceDeduction,
			LoanDeduction:    it.LoanDeduction,
			TotalDeductions:  it.TotalDeductions,
			NetPay:           it.NetPay,
		})
	}
	for _, f := range run.Failures {
		resp.Failures = append(resp.Failures, PayRunFailureResponse{
			EmployeeID:   f.EmployeeID.String(),
			EmployeeCode: f.EmployeeCode,
			Reason:       f.Reason,
		})
	}
	return resp
}
