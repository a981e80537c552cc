package document

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go-welfare/internal/shared/storage"
	"go-welfare/internal/welfare"

	"go.uber.org/zap"
)

//go:generate mockgen -source=document_service.go -destination=mock/document_service_mock.go -package=mock
type Service interface {
	// GenerateForm renders the signed approval form for a finalized request,
	// stores the PDF and records its path on the request. Regeneration for
	// the same request overwrites the previous file.
	GenerateForm(ctx context.Context, companyID, requestID string) (string, error)
}

type service struct {
	welfareRepo welfare.Repository
	files       *storage.FileStorage
	logger      *zap.Logger
}

func NewService(welfareRepo welfare.Repository, files *storage.FileStorage, logger ...*zap.Logger) Service {
	l := zap.L().Named("document.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("document.service")
	}
	return &service{welfareRepo: welfareRepo, files: files, logger: l}
}

func (s *service) GenerateForm(ctx context.Context, companyID, requestID string) (string, error) {
	r, err := s.welfareRepo.FindByIDAndCompany(ctx, companyID, requestID)
	if err != nil {
		return "", err
	}

	trail, err := s.welfareRepo.FindTrail(ctx, requestID)
	if err != nil {
		return "", err
	}

	pdf, err := buildFormPDF(formLines(r, trail))
	if err != nil {
		return "", err
	}

	relPath := filepath.Join("forms", fmt.Sprintf("%s.pdf", r.RequestNumber))
	storedPath, err := s.files.Save(relPath, bytes.NewReader(pdf))
	if err != nil {
		s.logger.Error("store form failed",
			zap.String("welfare_id", requestID),
			zap.Error(err),
		)
		return "", err
	}

	if err := s.welfareRepo.SetFormPath(ctx, requestID, storedPath); err != nil {
		return "", err
	}

	s.logger.Info("form generated",
		zap.String("welfare_id", requestID),
		zap.String("request_number", r.RequestNumber),
		zap.String("path", storedPath),
	)
	return storedPath, nil
}

func formLines(r *welfare.WelfareRequest, trail []welfare.ApprovalTrailEntry) []string {
	lines := []string{
		"Welfare Reimbursement Form",
		"",
		fmt.Sprintf("Request Number: %s", r.RequestNumber),
		fmt.Sprintf("Request Type:   %s", r.RequestType),
		fmt.Sprintf("Amount:         %s THB", r.Amount.StringFixed(2)),
		fmt.Sprintf("Status:         %s", r.Status),
		fmt.Sprintf("Submitted:      %s", r.CreatedAt.Format("2006-01-02 15:04")),
	}

	if r.Employee != nil {
		lines = append(lines, fmt.Sprintf("Employee:       %s", r.Employee.FullName))
	}

	if r.TaxAmount != nil || r.WithholdingAmount != nil || r.CompanyPortion != nil {
		lines = append(lines, "", "Accounting Breakdown")
		appendAmount := func(label string, v fmt.Stringer) {
			lines = append(lines, fmt.Sprintf("  %-14s %s", label+":", v.String()))
		}
		if r.TaxAmount != nil {
			appendAmount("Tax", r.TaxAmount)
		}
		if r.WithholdingAmount != nil {
			appendAmount("Withholding", r.WithholdingAmount)
		}
		if r.ExcessAmount != nil {
			appendAmount("Excess", r.ExcessAmount)
		}
		if r.CompanyPortion != nil {
			appendAmount("Company", r.CompanyPortion)
		}
		if r.EmployeePortion != nil {
			appendAmount("Employee", r.EmployeePortion)
		}
	}

	if r.Details != "" {
		lines = append(lines, "", "Details: "+r.Details)
	}

	lines = append(lines, "", "Approvals")
	if len(trail) == 0 {
		lines = append(lines, "  (none)")
	}
	for _, e := range trail {
		signed := ""
		if e.Signature != nil && *e.Signature != "" {
			signed = " [signed]"
		}
		lines = append(lines, fmt.Sprintf("  %-12s %-9s %s  %s%s",
			strings.ToUpper(e.Stage),
			e.Decision,
			e.ApproverName,
			e.CreatedAt.Format("2006-01-02 15:04"),
			signed,
		))
	}

	if r.Notes != "" {
		lines = append(lines, "", "Notes: "+r.Notes)
	}

	return lines
}
