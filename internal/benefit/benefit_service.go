package benefit

import (
	"context"
	"errors"
	"fmt"
	"time"

	benefiterrors "go-welfare/internal/benefit/errors"
	"go-welfare/internal/welfare"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

//go:generate mockgen -source=benefit_service.go -destination=mock/benefit_service_mock.go -package=mock
type Service interface {
	// Check gates a prospective amount against the employee's remaining
	// budget and decides the special-approval flag. Types without a
	// configured limit pass unconstrained. Implements welfare.LimitChecker.
	Check(ctx context.Context, companyID, employeeID string, requestType welfare.RequestType, amount decimal.Decimal) (welfare.LimitEvaluation, error)
	GetLimits(ctx context.Context, companyID string) ([]LimitResponse, error)
	GetRemaining(ctx context.Context, companyID, employeeID, requestType string) (RemainingResponse, error)
}

type service struct {
	repo   Repository
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("benefit.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("benefit.service")
	}
	return &service{repo: repo, sf: &singleflight.Group{}, logger: l}
}

// periodStart returns the beginning of the consuming window. Fitness resets
// on a rolling month; everything else on the calendar year.
func periodStart(periodType string, now time.Time) time.Time {
	switch periodType {
	case PeriodRollingMonth:
		return now.AddDate(0, -1, 0)
	default:
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	}
}

func (s *service) Check(ctx context.Context, companyID, employeeID string, requestType welfare.RequestType, amount decimal.Decimal) (welfare.LimitEvaluation, error) {
	if !requestType.Valid() {
		return welfare.LimitEvaluation{}, benefiterrors.ErrInvalidRequestType
	}

	limit, err := s.repo.FindByCompanyAndType(ctx, companyID, string(requestType))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// no configured limit: nothing to gate
			return welfare.LimitEvaluation{}, nil
		}
		s.logger.Error("load benefit limit failed",
			zap.String("company_id", companyID),
			zap.String("request_type", string(requestType)),
			zap.Error(err),
		)
		return welfare.LimitEvaluation{}, err
	}

	since := periodStart(limit.PeriodType, time.Now().UTC())
	consumed, err := s.repo.SumConsumed(ctx, companyID, employeeID, string(requestType), since)
	if err != nil {
		s.logger.Error("sum consumed benefit failed",
			zap.String("employee_id", employeeID),
			zap.String("request_type", string(requestType)),
			zap.Error(err),
		)
		return welfare.LimitEvaluation{}, err
	}

	remaining := limit.LimitAmount.Sub(consumed)
	eval := welfare.LimitEvaluation{
		Remaining:  remaining,
		Configured: true,
	}

	if amount.GreaterThan(remaining) {
		s.logger.Warn("benefit limit exceeded",
			zap.String("employee_id", employeeID),
			zap.String("request_type", string(requestType)),
			zap.String("amount", amount.StringFixed(2)),
			zap.String("remaining", remaining.StringFixed(2)),
		)
		return eval, benefiterrors.ErrLimitExceeded
	}

	if requestType.TrainingType() && limit.SpecialApprovalThreshold != nil &&
		amount.GreaterThan(*limit.SpecialApprovalThreshold) {
		eval.RequiresSpecialApproval = true
	}

	return eval, nil
}

func (s *service) GetLimits(ctx context.Context, companyID string) ([]LimitResponse, error) {
	limits, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	resp := make([]LimitResponse, len(limits))
	for i, l := range limits {
		resp[i] = LimitResponse{
			RequestType: l.RequestType,
			LimitAmount: l.LimitAmount.StringFixed(2),
			PeriodType:  l.PeriodType,
		}
		if l.SpecialApprovalThreshold != nil {
			v := l.SpecialApprovalThreshold.StringFixed(2)
			resp[i].SpecialApprovalThreshold = &v
		}
	}
	return resp, nil
}

func (s *service) GetRemaining(ctx context.Context, companyID, employeeID, requestType string) (RemainingResponse, error) {
	if !welfare.RequestType(requestType).Valid() {
		return RemainingResponse{}, benefiterrors.ErrInvalidRequestType
	}

	// collapse concurrent identical lookups; the dashboard polls this
	key := fmt.Sprintf("remaining:%s:%s:%s", companyID, employeeID, requestType)
	v, err, _ := s.sf.Do(key, func() (any, error) {
		limit, err := s.repo.FindByCompanyAndType(ctx, companyID, requestType)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return RemainingResponse{}, benefiterrors.ErrLimitNotFound
			}
			return RemainingResponse{}, err
		}

		since := periodStart(limit.PeriodType, time.Now().UTC())
		consumed, err := s.repo.SumConsumed(ctx, companyID, employeeID, requestType, since)
		if err != nil {
			return RemainingResponse{}, err
		}

		return RemainingResponse{
			RequestType: requestType,
			LimitAmount: limit.LimitAmount.StringFixed(2),
			Consumed:    consumed.StringFixed(2),
			Remaining:   limit.LimitAmount.Sub(consumed).StringFixed(2),
			PeriodType:  limit.PeriodType,
			PeriodStart: since.Format("2006-01-02"),
		}, nil
	})
	if err != nil {
		return RemainingResponse{}, err
	}
	return v.(RemainingResponse), nil
}
