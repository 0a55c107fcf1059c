package payrun

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EmployeeFacts is the payroll-relevant snapshot of one employee, read once
// at generation time. Amounts in paise.
type EmployeeFacts struct {
	ID             uuid.UUID
	Code           string
	Name           string
	Basic          int64
	HRA            int64
	Conveyance     int64
	TelephoneAllow int64
	MedicalAllow   int64
	SpecialAllow   int64
	IncludePF      bool
	IncludeESI     bool
	// Stored flat monthly figures, pro-rated by attendance.
	ProfessionalTax int64
	TDS             int64
}

// AttendanceFacts is the resolved attendance for one employee and period.
type AttendanceFacts struct {
	TotalWorkingDays int
	PayableDays      int
	LossOfPayDays    int
	// Defaulted marks "no record entered", which pays as a full month but
	// must stay distinguishable from real perfect attendance.
	Defaulted bool
}

func defaultAttendance(workingDays int) AttendanceFacts {
	return AttendanceFacts{
		TotalWorkingDays: workingDays,
		PayableDays:      workingDays,
		LossOfPayDays:    0,
		Defaulted:        true,
	}
}

func attendanceFromRecord(totalWorking, present, absent, paidLeave, unpaidLeave int) (AttendanceFacts, error) {
	if totalWorking <= 0 {
		return AttendanceFacts{}, fmt.Errorf("total working days must be positive, got %d", totalWorking)
	}
	return AttendanceFacts{
		TotalWorkingDays: totalWorking,
		PayableDays:      present + paidLeave,
		LossOfPayDays:    absent + unpaidLeave,
	}, nil
}

// roundMoney rounds to whole paise, half up.
func roundMoney(d decimal.Decimal) int64 {
	return d.Round(0).IntPart()
}

// scale returns amount × num/den rounded to paise.
func scale(amount int64, num, den int) int64 {
	if den == 0 {
		return 0
	}
	return roundMoney(decimal.NewFromInt(amount).
		Mul(decimal.NewFromInt(int64(num))).
		Div(decimal.NewFromInt(int64(den))))
}

func pct(amount int64, rate decimal.Decimal) int64 {
	return roundMoney(decimal.NewFromInt(amount).Mul(rate).Div(decimal.NewFromInt(100)))
}

type Proration struct {
	LossOfPayAmount int64
	AdjustedBasic   int64
	HRA             int64
	Conveyance      int64
	TelephoneAllow  int64
	MedicalAllow    int64
	SpecialAllow    int64
	TotalAllowances int64
	Gross           int64
}

// prorate applies attendance to the fixed monthly components. The basic is
// reduced by the loss-of-pay amount; allowances scale by payable/total. Gross
// is the exact sum of adjusted basic and scaled allowances, so no rounding
// drift can appear between the parts and the total.
func prorate(e EmployeeFacts, att AttendanceFacts) Proration {
	p := Proration{
		LossOfPayAmount: scale(e.Basic, att.LossOfPayDays, att.TotalWorkingDays),
		HRA:             scale(e.HRA, att.PayableDays, att.TotalWorkingDays),
		Conveyance:      scale(e.Conveyance, att.PayableDays, att.TotalWorkingDays),
		TelephoneAllow:  scale(e.TelephoneAllow, att.PayableDays, att.TotalWorkingDays),
		MedicalAllow:    scale(e.MedicalAllow, att.PayableDays, att.TotalWorkingDays),
		SpecialAllow:    scale(e.SpecialAllow, att.PayableDays, att.TotalWorkingDays),
	}
	p.AdjustedBasic = e.Basic - p.LossOfPayAmount
	p.TotalAllowances = p.HRA + p.Conveyance + p.TelephoneAllow + p.MedicalAllow + p.SpecialAllow
	p.Gross = p.AdjustedBasic + p.TotalAllowances
	return p
}

type Statutory struct {
	PFEmployee      int64
	PFEmployer      int64
	ESIEmployee     int64
	ESIEmployer     int64
	ProfessionalTax int64
	TDS             int64
}

// statutory computes PF, ESI, PT and TDS for one employee.
//
// PF applies to the adjusted basic capped by the wage ceiling. ESI eligibility
// is re-evaluated every run against the gross of that run; the ceiling is
// exclusive, a gross of exactly the ceiling pays no ESI. PT and TDS are the
// stored flat monthly figures pro-rated by attendance.
func statutory(cfg Config, e EmployeeFacts, att AttendanceFacts, p Proration) Statutory {
	var st Statutory

	if e.IncludePF {
		base := p.AdjustedBasic
		if base > cfg.PFWageCeiling {
			base = cfg.PFWageCeiling
		}
		st.PFEmployee = pct(base, cfg.PFRatePct)
		st.PFEmployer = pct(base, cfg.PFRatePct)
	}

	if e.IncludeESI && p.Gross < cfg.ESIGrossCeiling {
		st.ESIEmployee = pct(p.Gross, cfg.ESIEmployeePct)
		st.ESIEmployer = pct(p.Gross, cfg.ESIEmployerPct)
	}

	st.ProfessionalTax = scale(e.ProfessionalTax, att.PayableDays, att.TotalWorkingDays)
	st.TDS = scale(e.TDS, att.PayableDays, att.TotalWorkingDays)

	return st
}

// buildItem assembles one employee's pay record. A missing basic fails this
// employee only; the caller collects the failure and continues the batch.
func buildItem(cfg Config, e EmployeeFacts, att AttendanceFacts, advanceDeduction, loanDeduction int64) (PayRunItem, error) {
	if e.Basic <= 0 {
		return PayRunItem{}, fmt.Errorf("employee %s has no basic salary configured", e.Code)
	}

	p := prorate(e, att)
	st := statutory(cfg, e, att, p)

	totalDeductions := advanceDeduction + loanDeduction +
		st.PFEmployee + st.ESIEmployee + st.ProfessionalTax + st.TDS

	return PayRunItem{
		ID:           uuid.New(),
		EmployeeID:   e.ID,
		EmployeeCode: e.Code,
		EmployeeName: e.Name,

		TotalWorkingDays:    att.TotalWorkingDays,
		PayableDays:         att.PayableDays,
		LossOfPayDays:       att.LossOfPayDays,
		AttendanceDefaulted: att.Defaulted,

		Basic:           e.Basic,
		LossOfPayAmount: p.LossOfPayAmount,
		AdjustedBasic:   p.AdjustedBasic,
		HRA:             p.HRA,
		Conveyance:      p.Conveyance,
		TelephoneAllow:  p.TelephoneAllow,
		MedicalAllow:    p.MedicalAllow,
		SpecialAllow:    p.SpecialAllow,
		TotalAllowances: p.TotalAllowances,
		GrossSalary:     p.Gross,

		PFEmployee:       st.PFEmployee,
		PFEmployer:       st.PFEmployer,
		ESIEmployee:      st.ESIEmployee,
		ESIEmployer:      st.ESIEmployer,
		ProfessionalTax:  st.ProfessionalTax,
		TDS:              st.TDS,
		AdvanceDeduction: advanceDeduction,
		LoanDeduction:    loanDeduction,
		TotalDeductions:  totalDeductions,
		NetPay:           p.Gross - totalDeductions,
	}, nil
}
