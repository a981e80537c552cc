package notification

import "time"

type NotificationResponse struct {
	ID        string     `json:"id"`
	RequestID string     `json:"request_id"`
	ToStatus  string     `json:"to_status"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	Category  string     `json:"category"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

type UnreadCountResponse struct {
	Unread int64 `json:"unread"`
}

func mapToResponse(n Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID.String(),
		RequestID: n.RequestID.String(),
		ToStatus:  n.ToStatus,
		Title:     n.Title,
		Body:      n.Body,
		Category:  n.Category,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}

func mapToListResponse(rows []Notification) []NotificationResponse {
	resp := make([]NotificationResponse, len(rows))
	for i, n := range rows {
		resp[i] = mapToResponse(n)
	}
	return resp
}
