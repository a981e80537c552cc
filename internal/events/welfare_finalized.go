package events

import "time"

const WelfareRequestFinalizedTopic = "welfare.request.finalized.v1"

// WelfareRequestFinalizedEvent is emitted exactly once when a request reaches
// a terminal status (completed or any rejected variant). The document
// consumer renders the signed form snapshot from it.
type WelfareRequestFinalizedEvent struct {
	EventType     string    `json:"event_type"`
	TraceID       string    `json:"trace_id"`
	RequestID     string    `json:"request_id"`
	RequestNumber string    `json:"request_number"`
	CompanyID     string    `json:"company_id"`
	FinalStatus   string    `json:"final_status"`
	OccurredAt    time.Time `json:"occurred_at"`
}
