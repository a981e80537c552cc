package benefit

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	PeriodCalendarYear = "calendar_year"
	PeriodRollingMonth = "rolling_month"
)

// BenefitLimit is per-company configuration, not code: the period budget per
// request type and the threshold above which training requests need the
// special sign-off.
type BenefitLimit struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_benefit_company_type"`
	RequestType string          `gorm:"type:varchar(30);not null;uniqueIndex:idx_benefit_company_type"`
	LimitAmount decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	PeriodType  string          `gorm:"type:varchar(20);not null;default:'calendar_year'"`

	// SpecialApprovalThreshold only applies to training types.
	SpecialApprovalThreshold *decimal.Decimal `gorm:"type:numeric(14,2)"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (BenefitLimit) TableName() string { return "benefit_limits" }
