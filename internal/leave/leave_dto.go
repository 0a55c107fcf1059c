package leave

type CreateLeaveRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,uuid"`
	LeaveType  string `json:"leave_type" binding:"required,oneof=CASUAL SICK EARNED UNPAID"`
	StartDate  string `json:"start_date" binding:"required"`
	EndDate    string `json:"end_date" binding:"required"`
	Reason     string `json:"reason"`
}

type DecideLeaveRequest struct {
	Comment string `json:"comment"`
}

type LeaveResponse struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	LeaveType  string `json:"leave_type"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Days       int    `json:"days"`
	Reason     string `json:"reason,omitempty"`
	Status     string `json:"status"`
	DecidedBy  string `json:"decided_by,omitempty"`
	DecidedAt  string `json:"decided_at,omitempty"`
	Comment    string `json:"comment,omitempty"`
}
