package events

import "time"

const PayRunCompletedTopic = "hr.payrun.completed.v1"

type PayRunCompletedEvent struct {
	EventType      string    `json:"event_type"`
	PayRunID       string    `json:"pay_run_id"`
	Month          int       `json:"month"`
	Year           int       `json:"year"`
	EmployeeCount  int       `json:"employee_count"`
	ProcessedCount int       `json:"processed_count"`
	FailedCount    int       `json:"failed_count"`
	TotalNet       int64     `json:"total_net"`
	GeneratedBy    string    `json:"generated_by"`
	OccurredAt     time.Time `json:"occurred_at"`
}
