package payrun

import (
	"strconv"
	"strings"
	"time"
)

// The SPA sends the period as {"month": "January", "year": "2026"}; numeric
// strings are accepted too.
type GeneratePayRunRequest struct {
	Month      string `json:"month" binding:"required"`
	Year       string `json:"year" binding:"required"`
	Regenerate bool   `json:"regenerate"`
}

func ParseMonth(v string) (int, bool) {
	if n, err := strconv.Atoi(v); err == nil {
		if n >= 1 && n <= 12 {
			return n, true
		}
		return 0, false
	}
	t, err := time.Parse("January", strings.TrimSpace(v))
	if err != nil {
		return 0, false
	}
	return int(t.Month()), true
}

func ParseYear(v string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 2000 || n > 2100 {
		return 0, false
	}
	return n, true
}

type PayRunItemResponse struct {
	ID           string `json:"id"`
	EmployeeID   string `json:"employee_id"`
	EmployeeCode string `json:"employee_code"`
	EmployeeName string `json:"employee_name"`

	TotalWorkingDays    int  `json:"total_working_days"`
	PayableDays         int  `json:"payable_days"`
	LossOfPayDays       int  `json:"loss_of_pay_days"`
	AttendanceDefaulted bool `json:"attendance_defaulted"`

	Basic           int64 `json:"basic"`
	LossOfPayAmount int64 `json:"loss_of_pay_amount"`
	AdjustedBasic   int64 `json:"adjusted_basic"`
	HRA             int64 `json:"hra"`
	Conveyance      int64 `json:"conveyance"`
	TelephoneAllow  int64 `json:"telephone_allowance"`
	MedicalAllow    int64 `json:"medical_allowance"`
	SpecialAllow    int64 `json:"special_allowance"`
	TotalAllowances int64 `json:"total_allowances"`
	GrossSalary     int64 `json:"gross_salary"`

	PFEmployee       int64 `json:"pf_employee"`
	PFEmployer       int64 `json:"pf_employer"`
	ESIEmployee      int64 `json:"esi_employee"`
	ESIEmployer      int64 `json:"esi_employer"`
	ProfessionalTax  int64 `json:"professional_tax"`
	TDS              int64 `json:"tds"`
	AdvanceDeduction int64 `json:"advance_deduction"`
	LoanDeduction    int64 `json:"loan_deduction"`
	TotalDeductions  int64 `json:"total_deductions"`
	NetPay           int64 `json:"net_pay"`
}

type PayRunFailureResponse struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeCode string `json:"employee_code"`
	Reason       string `json:"reason"`
}

type PayRunResponse struct {
	ID              string `json:"id"`
	Month           int    `json:"month"`
	Year            int    `json:"year"`
	Status          string `json:"status"`
	EmployeeCount   int    `json:"employee_count"`
	ProcessedCount  int    `json:"processed_count"`
	TotalGross      int64  `json:"total_gross"`
	TotalDeductions int64  `json:"total_deductions"`
	TotalNet        int64  `json:"total_net"`
	GeneratedAt     string `json:"generated_at"`

	Items    []PayRunItemResponse    `json:"items,omitempty"`
	Failures []PayRunFailureResponse `json:"failures,omitempty"`
}

type PayRunSummaryResponse struct {
	ID             string `json:"id"`
	Month          int    `json:"month"`
	Year           int    `json:"year"`
	Status         string `json:"status"`
	EmployeeCount  int    `json:"employee_count"`
	ProcessedCount int    `json:"processed_count"`
	TotalNet       int64  `json:"total_net"`
	GeneratedAt    string `json:"generated_at"`
}
