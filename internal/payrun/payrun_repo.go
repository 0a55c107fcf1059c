package payrun

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AttendanceRow is the raw HR-entered sheet row for one employee.
type AttendanceRow struct {
	EmployeeID       uuid.UUID
	TotalWorkingDays int
	PresentDays      int
	AbsentDays       int
	PaidLeaveDays    int
	UnpaidLeaveDays  int
}

// DueAdvance is an advance scheduled for recovery in the target period.
type DueAdvance struct {
	ID         uuid.UUID
	EmployeeID uuid.UUID
	Remaining  int64
}

// DueEMI is a pending instalment of an active loan due in the target period.
type DueEMI struct {
	ID         uuid.UUID
	LoanID     uuid.UUID
	EmployeeID uuid.UUID
	Amount     int64
}

var errNoTx = errors.New("payrun repository: operation requires a transaction")

type Repository interface {
	WithTx(tx *sql.Tx) Repository

	FindRunByPeriod(ctx context.Context, month, year int) (*PayRun, error)
	ListRuns(ctx context.Context) ([]PayRun, error)
	FindItemByID(ctx context.Context, id string) (*PayRunItem, error)

	// Snapshot reads and writes below run inside the generation transaction.
	ResetSettlements(ctx context.Context, month, year int) error
	FindActiveEmployees(ctx context.Context) ([]EmployeeFacts, error)
	FindAttendanceRows(ctx context.Context, month, year int) ([]AttendanceRow, error)
	FindDueAdvances(ctx context.Context, month, year int) ([]DueAdvance, error)
	FindDueEMIs(ctx context.Context, month, year int) ([]DueEMI, error)
	SettleAdvance(ctx context.Context, id uuid.UUID, amount int64, at time.Time) error
	SettleEMI(ctx context.Context, id uuid.UUID, at time.Time) error
	CompleteRecoveredLoans(ctx context.Context) error
	DeleteRunByPeriod(ctx context.Context, month, year int) error
	InsertRun(ctx context.Context, run *PayRun) error
	InsertItems(ctx context.Context, items []PayRunItem) error
	InsertFailures(ctx context.Context, failures []PayRunFailure) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) FindRunByPeriod(ctx context.Context, month, year int) (*PayRun, error) {
	var run PayRun
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("employee_code ASC")
		}).
		Preload("Failures").
		First(&run, "month = ? AND year = ?", month, year).Error
	return &run, err
}

func (r *repository) ListRuns(ctx context.Context) ([]PayRun, error) {
	var runs []PayRun
	err := r.db.WithContext(ctx).
		Order("year DESC, month DESC").
		Find(&runs).Error
	return runs, err
}

func (r *repository) FindItemByID(ctx context.Context, id string) (*PayRunItem, error) {
	var item PayRunItem
	err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error
	return &item, err
}

// ResetSettlements unwinds obligation mutations a previous run made for this
// period, so regeneration sees the same pending set the original run saw.
// Manual settlements are left alone.
func (r *repository) ResetSettlements(ctx context.Context, month, year int) error {
	if r.tx == nil {
		return errNoTx
	}

	// Loans a prior run completed go back to active before their EMIs flip.
	if _, err := r.tx.ExecContext(ctx, `
		UPDATE loans SET status = 'active', updated_at = now()
		WHERE status = 'completed'
		  AND id IN (
			SELECT loan_id FROM loan_emis
			WHERE month = $1 AND year = $2 AND settled_by = 'payrun'
		  )
	`, month, year); err != nil {
		return err
	}

	if _, err := r.tx.ExecContext(ctx, `
		UPDATE loan_emis
		SET status = 'pending', settled_by = NULL, settled_at = NULL, updated_at = now()
		WHERE month = $1 AND year = $2 AND settled_by = 'payrun'
	`, month, year); err != nil {
		return err
	}

	_, err := r.tx.ExecContext(ctx, `
		UPDATE advances
		SET remaining_amount = remaining_amount + settled_amount,
		    settled_amount = 0,
		    status = 'pending',
		    settled_by = NULL,
		    settled_at = NULL,
		    updated_at = now()
		WHERE deduction_month = $1 AND deduction_year = $2 AND settled_by = 'payrun'
	`, month, year)
	return err
}

func (r *repository) FindActiveEmployees(ctx context.Context) ([]EmployeeFacts, error) {
	if r.tx == nil {
		return nil, errNoTx
	}

	rows, err := r.tx.QueryContext(ctx, `
		SELECT id, employee_code, full_name,
		       monthly_basic, hra, conveyance, telephone_allow, medical_allow, special_allow,
		       include_pf, include_esi, professional_tax, tds
		FROM employees
		WHERE status = 'ACTIVE' AND deleted_at IS NULL
		ORDER BY employee_code ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var facts []EmployeeFacts
	for rows.Next() {
		var f EmployeeFacts
		if err := rows.Scan(
			&f.ID, &f.Code, &f.Name,
			&f.Basic, &f.HRA, &f.Conveyance, &f.TelephoneAllow, &f.MedicalAllow, &f.SpecialAllow,
			&f.IncludePF, &f.IncludeESI, &f.ProfessionalTax, &f.TDS,
		); err != nil {
			return nil, err
		}
		facts = append(facts, f)
	}
	return facts, rows.Err()
}

func (r *repository) FindAttendanceRows(ctx context.Context, month, year int) ([]AttendanceRow, error) {
	if r.tx == nil {
		return nil, errNoTx
	}

	rows, err := r.tx.QueryContext(ctx, `
		SELECT employee_id, total_working_days, present_days, absent_days,
		       paid_leave_days, unpaid_leave_days
		FROM attendances
		WHERE month = $1 AND year = $2
	`, month, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AttendanceRow
	for rows.Next() {
		var row AttendanceRow
		if err := rows.Scan(
			&row.EmployeeID, &row.TotalWorkingDays, &row.PresentDays,
			&row.AbsentDays, &row.PaidLeaveDays, &row.UnpaidLeaveDays,
		); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *repository) FindDueAdvances(ctx context.Context, month, year int) ([]DueAdvance, error) {
	if r.tx == nil {
		return nil, errNoTx
	}

	rows, err := r.tx.QueryContext(ctx, `
		SELECT id, employee_id, remaining_amount
		FROM advances
		WHERE deduction_month = $1 AND deduction_year = $2
		  AND status <> 'deducted'
		  AND remaining_amount > 0
		ORDER BY created_at ASC
	`, month, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DueAdvance
	for rows.Next() {
		var d DueAdvance
		if err := rows.Scan(&d.ID, &d.EmployeeID, &d.Remaining); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *repository) FindDueEMIs(ctx context.Context, month, year int) ([]DueEMI, error) {
	if r.tx == nil {
		return nil, errNoTx
	}

	rows, err := r.tx.QueryContext(ctx, `
		SELECT e.id, e.loan_id, e.employee_id, e.amount
		FROM loan_emis e
		JOIN loans l ON l.id = e.loan_id
		WHERE e.month = $1 AND e.year = $2
		  AND e.status = 'pending'
		  AND l.status = 'active'
		ORDER BY e.sequence ASC
	`, month, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DueEMI
	for rows.Next() {
		var d DueEMI
		if err := rows.Scan(&d.ID, &d.LoanID, &d.EmployeeID, &d.Amount); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// SettleAdvance records a recovery of amount paise. A recovery below the
// remaining balance leaves the advance partial; the remainder stays visible
// for HR to reschedule or settle manually.
func (r *repository) SettleAdvance(ctx context.Context, id uuid.UUID, amount int64, at time.Time) error {
	if r.tx == nil {
		return errNoTx
	}
	_, err := r.tx.ExecContext(ctx, `
		UPDATE advances
		SET settled_amount = settled_amount + $2,
		    remaining_amount = remaining_amount - $2,
		    status = CASE WHEN remaining_amount <= $2 THEN 'deducted' ELSE 'partial' END,
		    settled_by = 'payrun',
		    settled_at = $3,
		    updated_at = now()
		WHERE id = $1
	`, id, amount, at)
	return err
}

func (r *repository) SettleEMI(ctx context.Context, id uuid.UUID, at time.Time) error {
	if r.tx == nil {
		return errNoTx
	}
	_, err := r.tx.ExecContext(ctx, `
		UPDATE loan_emis
		SET status = 'paid', settled_by = 'payrun', settled_at = $2, updated_at = now()
		WHERE id = $1
	`, id, at)
	return err
}

func (r *repository) CompleteRecoveredLoans(ctx context.Context) error {
	if r.tx == nil {
		return errNoTx
	}
	_, err := r.tx.ExecContext(ctx, `
		UPDATE loans SET status = 'completed', updated_at = now()
		WHERE status = 'active'
		  AND NOT EXISTS (
			SELECT 1 FROM loan_emis
			WHERE loan_emis.loan_id = loans.id AND loan_emis.status = 'pending'
		  )
	`)
	return err
}

func (r *repository) DeleteRunByPeriod(ctx context.Context, month, year int) error {
	if r.tx == nil {
		return errNoTx
	}

	for _, q := range []string{
		`DELETE FROM pay_run_items WHERE pay_run_id IN (SELECT id FROM pay_runs WHERE month = $1 AND year = $2)`,
		`DELETE FROM pay_run_failures WHERE pay_run_id IN (SELECT id FROM pay_runs WHERE month = $1 AND year = $2)`,
		`DELETE FROM pay_runs WHERE month = $1 AND year = $2`,
	} {
		if _, err := r.tx.ExecContext(ctx, q, month, year); err != nil {
			return err
		}
	}
	return nil
}

func (r *repository) InsertRun(ctx context.Context, run *PayRun) error {
	if r.tx == nil {
		return errNoTx
	}
	_, err := r.tx.ExecContext(ctx, `
		INSERT INTO pay_runs (
			id, month, year, status, employee_count, processed_count,
			total_gross, total_deductions, total_net,
			generated_by, generated_at, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,now(),now())
	`,
		run.ID, run.Month, run.Year, run.Status, run.EmployeeCount, run.ProcessedCount,
		run.TotalGross, run.TotalDeductions, run.TotalNet,
		run.GeneratedBy, run.GeneratedAt,
	)
	return err
}

func (r *repository) InsertItems(ctx context.Context, items []PayRunItem) error {
	if r.tx == nil {
		return errNoTx
	}

	stmt, err := r.tx.PrepareContext(ctx, `
		INSERT INTO pay_run_items (
			id, pay_run_id, employee_id, employee_code, employee_name,
			total_working_days, payable_days, loss_of_pay_days, attendance_defaulted,
			basic, loss_of_pay_amount, adjusted_basic,
			hra, conveyance, telephone_allow, medical_allow, special_allow,
			total_allowances, gross_salary,
			pf_employee, pf_employer, esi_employee, esi_employer,
			professional_tax, tds, advance_deduction, loan_deduction,
			total_deductions, net_pay, created_at
		) VALUES (
			$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,
			$20,$21,$22,$23,$24,$25,$26,$27,$28,$29,now()
		)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, it := range items {
		if _, err := stmt.ExecContext(ctx,
			it.ID, it.PayRunID, it.EmployeeID, it.EmployeeCode, it.EmployeeName,
			it.TotalWorkingDays, it.PayableDays, it.LossOfPayDays, it.AttendanceDefaulted,
			it.Basic, it.LossOfPayAmount, it.AdjustedBasic,
			it.HRA, it.Conveyance, it.TelephoneAllow, it.MedicalAllow, it.SpecialAllow,
			it.TotalAllowances, it.GrossSalary,
			it.PFEmployee, it.PFEmployer, it.ESIEmployee, it.ESIEmployer,
			it.ProfessionalTax, it.TDS, it.AdvanceDeduction, it.LoanDeduction,
			it.TotalDeductions, it.NetPay,
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *repository) InsertFailures(ctx context.Context, failures []PayRunFailure) error {
	if r.tx == nil {
		return errNoTx
	}

	for _, f := range failures {
		if _, err := r.tx.ExecContext(ctx, `
			INSERT INTO pay_run_failures (id, pay_run_id, employee_id, employee_code, reason, created_at)
			VALUES ($1,$2,$3,$4,$5,now())
		`, f.ID, f.PayRunID, f.EmployeeID, f.EmployeeCode, f.Reason); err != nil {
			return err
		}
	}
	return nil
}
