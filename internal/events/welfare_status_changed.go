package events

import "time"

const WelfareStatusChangedTopic = "welfare.request.status.v1"

// WelfareStatusChangedEvent is emitted once per committed workflow transition.
// Consumers key idempotency on (request_id, to_status).
type WelfareStatusChangedEvent struct {
	EventType     string    `json:"event_type"`
	TraceID       string    `json:"trace_id"`
	RequestID     string    `json:"request_id"`
	RequestNumber string    `json:"request_number"`
	CompanyID     string    `json:"company_id"`
	EmployeeID    string    `json:"employee_id"`
	RequestType   string    `json:"request_type"`
	Amount        string    `json:"amount"`
	FromStatus    string    `json:"from_status"`
	ToStatus      string    `json:"to_status"`
	ActorID       string    `json:"actor_id"`
	ActorName     string    `json:"actor_name"`
	Note          string    `json:"note,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}
