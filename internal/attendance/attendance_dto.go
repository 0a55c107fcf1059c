package attendance

type UpsertAttendanceRequest struct {
	EmployeeID       string `json:"employee_id" binding:"required,uuid"`
	Month            int    `json:"month" binding:"required,min=1,max=12"`
	Year             int    `json:"year" binding:"required,min=2000,max=2100"`
	TotalWorkingDays int    `json:"total_working_days" binding:"required,gt=0"`
	PresentDays      int    `json:"present_days" binding:"gte=0"`
	AbsentDays       int    `json:"absent_days" binding:"gte=0"`
	PaidLeaveDays    int    `json:"paid_leave_days" binding:"gte=0"`
	UnpaidLeaveDays  int    `json:"unpaid_leave_days" binding:"gte=0"`
}

type AttendanceResponse struct {
	ID               string `json:"id"`
	EmployeeID       string `json:"employee_id"`
	Month            int    `json:"month"`
	Year             int    `json:"year"`
	TotalWorkingDays int    `json:"total_working_days"`
	PresentDays      int    `json:"present_days"`
	AbsentDays       int    `json:"absent_days"`
	PaidLeaveDays    int    `json:"paid_leave_days"`
	UnpaidLeaveDays  int    `json:"unpaid_leave_days"`
	PayableDays      int    `json:"payable_days"`
	LossOfPayDays    int    `json:"loss_of_pay_days"`
}
