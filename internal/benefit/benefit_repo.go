package benefit

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

//go:generate mockgen -source=benefit_repo.go -destination=mock/benefit_repo_mock.go -package=mock
type Repository interface {
	FindAllByCompany(ctx context.Context, companyID string) ([]BenefitLimit, error)
	FindByCompanyAndType(ctx context.Context, companyID, requestType string) (*BenefitLimit, error)

	// SumConsumed totals the employee's requests of a type that consume
	// budget within the period: every pending state plus completed.
	// Rejected requests release their budget.
	SumConsumed(ctx context.Context, companyID, employeeID, requestType string, since time.Time) (decimal.Decimal, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]BenefitLimit, error) {
	var limits []BenefitLimit
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("request_type ASC").
		Find(&limits).Error
	return limits, err
}

func (r *repository) FindByCompanyAndType(ctx context.Context, companyID, requestType string) (*BenefitLimit, error) {
	var limit BenefitLimit
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Where("request_type = ?", requestType).
		First(&limit).Error
	if err != nil {
		return nil, err
	}
	return &limit, nil
}

func (r *repository) SumConsumed(ctx context.Context, companyID, employeeID, requestType string, since time.Time) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Table("welfare_requests").
		Select("SUM(amount)").
		Where("company_id = ?", companyID).
		Where("employee_id = ?", employeeID).
		Where("request_type = ?", requestType).
		Where("status NOT LIKE 'rejected_%'").
		Where("created_at >= ?", since).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}
