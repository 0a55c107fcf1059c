package advance

type CreateAdvanceRequest struct {
	EmployeeID     string `json:"employee_id" binding:"required,uuid"`
	Amount         int64  `json:"amount" binding:"required,gt=0"`
	Reason         string `json:"reason"`
	DeductionMonth int    `json:"deduction_month" binding:"required,min=1,max=12"`
	DeductionYear  int    `json:"deduction_year" binding:"required,min=2000,max=2100"`
	DisbursedOn    string `json:"disbursed_on" binding:"required"`
}

type UpdateAdvanceRequest struct {
	Amount         int64  `json:"amount" binding:"omitempty,gt=0"`
	Reason         string `json:"reason"`
	DeductionMonth int    `json:"deduction_month" binding:"omitempty,min=1,max=12"`
	DeductionYear  int    `json:"deduction_year" binding:"omitempty,min=2000,max=2100"`
}

type AdvanceResponse struct {
	ID              string `json:"id"`
	EmployeeID      string `json:"employee_id"`
	Amount          int64  `json:"amount"`
	RemainingAmount int64  `json:"remaining_amount"`
	SettledAmount   int64  `json:"settled_amount"`
	Reason          string `json:"reason,omitempty"`
	DeductionMonth  int    `json:"deduction_month"`
	DeductionYear   int    `json:"deduction_year"`
	Status          string `json:"status"`
	SettledBy       string `json:"settled_by,omitempty"`
	SettledAt       string `json:"settled_at,omitempty"`
	DisbursedOn     string `json:"disbursed_on"`
}
