package events

import "time"

const PayslipRequestedTopic = "hr.payrun.payslip.requested.v1"

type PayslipRequestedEvent struct {
	EventType   string    `json:"event_type"`
	PayRunID    string    `json:"pay_run_id"`
	ItemID      string    `json:"item_id"`
	EmployeeID  string    `json:"employee_id"`
	RequestedBy string    `json:"requested_by"`
	OccurredAt  time.Time `json:"occurred_at"`
}
