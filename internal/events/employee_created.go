package events

import "time"

const EmployeeCreatedTopic = "employee.created.v1"

type EmployeeCreatedEvent struct {
	EventType  string    `json:"event_type"`
	TraceID    string    `json:"trace_id"`
	EmployeeID string    `json:"employee_id"`
	CompanyID  string    `json:"company_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
