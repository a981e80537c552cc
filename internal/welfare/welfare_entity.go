package welfare

import (
	"time"

	"go-welfare/internal/employee"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type WelfareRequest struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RequestNumber string    `gorm:"type:varchar(20);not null;uniqueIndex"`
	CompanyID     uuid.UUID `gorm:"type:uuid;not null;index:idx_welfare_company_status"`
	EmployeeID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Employee      *employee.Employee

	RequestType string          `gorm:"type:varchar(30);not null;index"`
	Amount      decimal.Decimal `gorm:"type:numeric(14,2);not null"`

	// Accounting subtype breakdown, null for plain welfare types.
	TaxAmount         *decimal.Decimal `gorm:"type:numeric(14,2)"`
	WithholdingAmount *decimal.Decimal `gorm:"type:numeric(14,2)"`
	ExcessAmount      *decimal.Decimal `gorm:"type:numeric(14,2)"`
	CompanyPortion    *decimal.Decimal `gorm:"type:numeric(14,2)"`
	EmployeePortion   *decimal.Decimal `gorm:"type:numeric(14,2)"`

	Status  Status `gorm:"type:varchar(30);not null;index:idx_welfare_company_status"`
	Details string `gorm:"type:text"`
	Notes   string `gorm:"type:text"`

	RequiresSpecialApproval bool `gorm:"not null;default:false"`

	// Revision side-state bookkeeping; populated only while status is
	// pending_revision.
	RevisionNote        *string    `gorm:"type:text"`
	RevisionRequestedBy *uuid.UUID `gorm:"type:uuid"`
	RevisionRequestedAt *time.Time
	ResumeStatus        *string `gorm:"type:varchar(30)"`

	FormPath *string `gorm:"type:varchar(255)"`

	Approvals   []ApprovalTrailEntry `gorm:"foreignKey:RequestID"`
	Attachments []Attachment         `gorm:"foreignKey:RequestID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ApprovalTrailEntry records one stage decision. A stage appears at most
// once per request.
type ApprovalTrailEntry struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RequestID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_trail_request_stage"`
	Stage        string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_trail_request_stage"`
	Decision     string    `gorm:"type:varchar(20);not null"`
	ApproverID   uuid.UUID `gorm:"type:uuid;not null"`
	ApproverName string    `gorm:"type:varchar(255);not null"`
	Signature    *string   `gorm:"type:text"`
	CreatedAt    time.Time
}

func (ApprovalTrailEntry) TableName() string { return "welfare_approvals" }

// Attachment is evidence for a request. Rows are append-only until the
// request is finalized.
type Attachment struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RequestID   uuid.UUID `gorm:"type:uuid;not null;index"`
	FileName    string    `gorm:"type:varchar(255);not null"`
	FilePath    string    `gorm:"type:varchar(255);not null"`
	ContentType string    `gorm:"type:varchar(100)"`
	UploadedBy  uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt   time.Time
}

func (Attachment) TableName() string { return "welfare_attachments" }
