package loan

type CreateLoanRequest struct {
	EmployeeID      string `json:"employee_id" binding:"required,uuid"`
	PrincipalAmount int64  `json:"principal_amount" binding:"required,gt=0"`
	TenureMonths    int    `json:"tenure_months" binding:"required,min=1,max=120"`
	StartMonth      int    `json:"start_month" binding:"required,min=1,max=12"`
	StartYear       int    `json:"start_year" binding:"required,min=2000,max=2100"`
	Reason          string `json:"reason"`
}

type LoanEMIResponse struct {
	ID        string `json:"id"`
	Sequence  int    `json:"sequence"`
	Month     int    `json:"month"`
	Year      int    `json:"year"`
	Amount    int64  `json:"amount"`
	Status    string `json:"status"`
	SettledBy string `json:"settled_by,omitempty"`
	SettledAt string `json:"settled_at,omitempty"`
}

type LoanResponse struct {
	ID              string            `json:"id"`
	EmployeeID      string            `json:"employee_id"`
	PrincipalAmount int64             `json:"principal_amount"`
	EMIAmount       int64             `json:"emi_amount"`
	TenureMonths    int               `json:"tenure_months"`
	StartMonth      int               `json:"start_month"`
	StartYear       int               `json:"start_year"`
	Reason          string            `json:"reason,omitempty"`
	Status          string            `json:"status"`
	OutstandingAmt  int64             `json:"outstanding_amount"`
	Schedule        []LoanEMIResponse `json:"schedule,omitempty"`
}
