package benefit

import (
	"context"
	"testing"
	"time"

	benefiterrors "go-welfare/internal/benefit/errors"
	"go-welfare/internal/welfare"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeRepo struct {
	findAllFn       func(ctx context.Context, companyID string) ([]BenefitLimit, error)
	findByTypeFn    func(ctx context.Context, companyID, requestType string) (*BenefitLimit, error)
	sumConsumedFn   func(ctx context.Context, companyID, employeeID, requestType string, since time.Time) (decimal.Decimal, error)
	lastSince  time.Time
}

func (f *fakeRepo) FindAllByCompany(ctx context.Context, companyID string) ([]BenefitLimit, error) {
	return f.findAllFn(ctx, companyID)
}
func (f *fakeRepo) FindByCompanyAndType(ctx context.Context, companyID, requestType string) (*BenefitLimit, error) {
	return f.findByTypeFn(ctx, companyID, requestType)
}
func (f *fakeRepo) SumConsumed(ctx context.Context, companyID, employeeID, requestType string, since time.Time) (decimal.Decimal, error) {
	f.lastSince = since
	return f.sumConsumedFn(ctx, companyID, employeeID, requestType, since)
}

func limitOf(amount int64, periodType string) *BenefitLimit {
	return &BenefitLimit{
		ID:          uuid.New(),
		CompanyID:   uuid.New(),
		LimitAmount: decimal.NewFromInt(amount),
		PeriodType:  periodType,
	}
}

func TestService_Check_WithinLimit(t *testing.T) {
	repo := &fakeRepo{
		findByTypeFn: func(ctx context.Context, companyID, requestType string) (*BenefitLimit, error) {
			return limitOf(5000, PeriodCalendarYear), nil
		},
		sumConsumedFn: func(ctx context.Context, companyID, employeeID, requestType string, since time.Time) (decimal.Decimal, error) {
			return decimal.NewFromInt(2000), nil
		},
	}

	svc := NewService(repo)
	eval, err := svc.Check(context.Background(), uuid.New().String(), uuid.New().String(),
		welfare.TypeDental, decimal.NewFromInt(1000))
	assert.NoError(t, err)
	assert.True(t, eval.Configured)
	assert.False(t, eval.RequiresSpecialApproval)
	assert.Equal(t, "3000", eval.Remaining.String())
}

func TestService_Check_Exceeded(t *testing.T) {
	repo := &fakeRepo{
		findByTypeFn: func(ctx context.Context, companyID, requestType string) (*BenefitLimit, error) {
			return limitOf(5000, PeriodCalendarYear), nil
		},
		sumConsumedFn: func(ctx context.Context, companyID, employeeID, requestType string, since time.Time) (decimal.Decimal, error) {
			return decimal.NewFromInt(4500), nil
		},
	}

	svc := NewService(repo)
	_, err := svc.Check(context.Background(), uuid.New().String(), uuid.New().String(),
		welfare.TypeDental, decimal.NewFromInt(1000))
	assert.ErrorIs(t, err, benefiterrors.ErrLimitExceeded)
}

func TestService_Check_UnconfiguredTypePasses(t *testing.T) {
	repo := &fakeRepo{
		findByTypeFn: func(ctx context.Context, companyID, requestType string) (*BenefitLimit, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}

	svc := NewService(repo)
	eval, err := svc.Check(context.Background(), uuid.New().String(), uuid.New().String(),
		welfare.TypeFuneral, decimal.NewFromInt(999999))
	assert.NoError(t, err)
	assert.False(t, eval.Configured)
	assert.False(t, eval.RequiresSpecialApproval)
}

func TestService_Check_TrainingThresholdFork(t *testing.T) {
	threshold := decimal.NewFromInt(10000)
	limit := limitOf(50000, PeriodCalendarYear)
	limit.SpecialApprovalThreshold = &threshold

	repo := &fakeRepo{
		findByTypeFn: func(ctx context.Context, companyID, requestType string) (*BenefitLimit, error) {
			return limit, nil
		},
		sumConsumedFn: func(ctx context.Context, companyID, employeeID, requestType string, since time.Time) (decimal.Decimal, error) {
			return decimal.Zero, nil
		},
	}

	svc := NewService(repo)

	eval, err := svc.Check(context.Background(), uuid.New().String(), uuid.New().String(),
		welfare.TypeTraining, decimal.NewFromInt(10000))
	assert.NoError(t, err)
	assert.False(t, eval.RequiresSpecialApproval, "at the threshold does not fork")

	eval, err = svc.Check(context.Background(), uuid.New().String(), uuid.New().String(),
		welfare.TypeTraining, decimal.NewFromInt(10001))
	assert.NoError(t, err)
	assert.True(t, eval.RequiresSpecialApproval)

	// The fork is training-only even when a threshold is configured.
	eval, err = svc.Check(context.Background(), uuid.New().String(), uuid.New().String(),
		welfare.TypeDental, decimal.NewFromInt(20000))
	assert.NoError(t, err)
	assert.False(t, eval.RequiresSpecialApproval)
}

func TestService_Check_RollingMonthWindow(t *testing.T) {
	repo := &fakeRepo{
		findByTypeFn: func(ctx context.Context, companyID, requestType string) (*BenefitLimit, error) {
			return limitOf(1500, PeriodRollingMonth), nil
		},
		sumConsumedFn: func(ctx context.Context, companyID, employeeID, requestType string, since time.Time) (decimal.Decimal, error) {
			return decimal.Zero, nil
		},
	}

	svc := NewService(repo)
	_, err := svc.Check(context.Background(), uuid.New().String(), uuid.New().String(),
		welfare.TypeFitness, decimal.NewFromInt(500))
	assert.NoError(t, err)

	// Rolling month looks back ~30 days rather than to January 1st.
	assert.WithinDuration(t, time.Now().UTC().AddDate(0, -1, 0), repo.lastSince, time.Minute)
}

func TestService_GetRemaining(t *testing.T) {
	repo := &fakeRepo{
		findByTypeFn: func(ctx context.Context, companyID, requestType string) (*BenefitLimit, error) {
			return limitOf(5000, PeriodCalendarYear), nil
		},
		sumConsumedFn: func(ctx context.Context, companyID, employeeID, requestType string, since time.Time) (decimal.Decimal, error) {
			return decimal.NewFromInt(1250), nil
		},
	}

	svc := NewService(repo)
	resp, err := svc.GetRemaining(context.Background(), uuid.New().String(), uuid.New().String(), "dental")
	assert.NoError(t, err)
	assert.Equal(t, "5000.00", resp.LimitAmount)
	assert.Equal(t, "1250.00", resp.Consumed)
	assert.Equal(t, "3750.00", resp.Remaining)

	_, err = svc.GetRemaining(context.Background(), uuid.New().String(), uuid.New().String(), "vacation")
	assert.ErrorIs(t, err, benefiterrors.ErrInvalidRequestType)
}
