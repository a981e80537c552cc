package notification

import (
	"time"

	"github.com/google/uuid"
)

// Notification is one in-app inbox entry. The unique index makes delivery
// idempotent when the same status event is consumed more than once.
type Notification struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	RecipientID uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:idx_notification_delivery"`
	RequestID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_notification_delivery"`
	ToStatus    string     `gorm:"type:varchar(40);not null;uniqueIndex:idx_notification_delivery"`
	Title       string     `gorm:"type:varchar(160);not null"`
	Body        string     `gorm:"type:text;not null"`
	Category    string     `gorm:"type:varchar(16);not null;default:'info'"`
	ReadAt      *time.Time
	CreatedAt   time.Time
}

func (Notification) TableName() string { return "notifications" }
