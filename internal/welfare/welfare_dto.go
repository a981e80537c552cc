package welfare

import (
	"time"

	"github.com/shopspring/decimal"
)

func decimalString(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	v := d.StringFixed(2)
	return &v
}

type CreateWelfareRequest struct {
	RequestType  string  `json:"request_type" binding:"required"`
	Amount       string  `json:"amount" binding:"required"`
	Details      string  `json:"details"`
	Notes        string  `json:"notes"`
	TaxAmount    *string `json:"tax_amount"`
	Withholding  *string `json:"withholding_amount"`
	Excess       *string `json:"excess_amount"`
	CompanyPart  *string `json:"company_portion"`
	EmployeePart *string `json:"employee_portion"`
}

type DecisionRequest struct {
	Signature *string `json:"signature"`
}

type RejectRequest struct {
	Reason    string  `json:"reason" binding:"required"`
	Signature *string `json:"signature"`
}

type RevisionRequest struct {
	Note string `json:"note" binding:"required"`
}

type ListQuery struct {
	Status string `form:"status"`
	Type   string `form:"type"`
	Mine   bool   `form:"mine"`
}

type AttachmentResponse struct {
	ID          string `json:"id"`
	FileName    string `json:"file_name"`
	FilePath    string `json:"file_path"`
	ContentType string `json:"content_type,omitempty"`
	UploadedBy  string `json:"uploaded_by"`
	CreatedAt   string `json:"created_at"`
}

type TrailResponse struct {
	Stage        string  `json:"stage"`
	Decision     string  `json:"decision"`
	ApproverID   string  `json:"approver_id"`
	ApproverName string  `json:"approver_name"`
	Signature    *string `json:"signature,omitempty"`
	CreatedAt    string  `json:"created_at"`
}

type WelfareResponse struct {
	ID            string `json:"id"`
	RequestNumber string `json:"request_number"`
	CompanyID     string `json:"company_id"`
	EmployeeID    string `json:"employee_id"`
	EmployeeName  string `json:"employee_name,omitempty"`
	RequestType   string `json:"request_type"`
	Amount        string `json:"amount"`

	TaxAmount         *string `json:"tax_amount,omitempty"`
	WithholdingAmount *string `json:"withholding_amount,omitempty"`
	ExcessAmount      *string `json:"excess_amount,omitempty"`
	CompanyPortion    *string `json:"company_portion,omitempty"`
	EmployeePortion   *string `json:"employee_portion,omitempty"`

	Status                  string  `json:"status"`
	Details                 string  `json:"details,omitempty"`
	Notes                   string  `json:"notes,omitempty"`
	RequiresSpecialApproval bool    `json:"requires_special_approval"`
	RevisionNote            *string `json:"revision_note,omitempty"`
	RevisionRequestedBy     *string `json:"revision_requested_by,omitempty"`
	FormPath                *string `json:"form_path,omitempty"`

	Attachments []AttachmentResponse `json:"attachments,omitempty"`
	Approvals   []TrailResponse      `json:"approvals,omitempty"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func mapAttachment(a Attachment) AttachmentResponse {
	return AttachmentResponse{
		ID:          a.ID.String(),
		FileName:    a.FileName,
		FilePath:    a.FilePath,
		ContentType: a.ContentType,
		UploadedBy:  a.UploadedBy.String(),
		CreatedAt:   a.CreatedAt.Format(time.RFC3339),
	}
}

func mapTrail(e ApprovalTrailEntry) TrailResponse {
	return TrailResponse{
		Stage:        e.Stage,
		Decision:     e.Decision,
		ApproverID:   e.ApproverID.String(),
		ApproverName: e.ApproverName,
		Signature:    e.Signature,
		CreatedAt:    e.CreatedAt.Format(time.RFC3339),
	}
}

func mapToResponse(r WelfareRequest) WelfareResponse {
	resp := WelfareResponse{
		ID:                      r.ID.String(),
		RequestNumber:           r.RequestNumber,
		CompanyID:               r.CompanyID.String(),
		EmployeeID:              r.EmployeeID.String(),
		RequestType:             r.RequestType,
		Amount:                  r.Amount.StringFixed(2),
		Status:                  string(r.Status),
		Details:                 r.Details,
		Notes:                   r.Notes,
		RequiresSpecialApproval: r.RequiresSpecialApproval,
		RevisionNote:            r.RevisionNote,
		FormPath:                r.FormPath,
		CreatedAt:               r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:               r.UpdatedAt.Format(time.RFC3339),
	}
	if r.Employee != nil {
		resp.EmployeeName = r.Employee.FullName
	}
	if r.RevisionRequestedBy != nil {
		v := r.RevisionRequestedBy.String()
		resp.RevisionRequestedBy = &v
	}
	resp.TaxAmount = decimalString(r.TaxAmount)
	resp.WithholdingAmount = decimalString(r.WithholdingAmount)
	resp.ExcessAmount = decimalString(r.ExcessAmount)
	resp.CompanyPortion = decimalString(r.CompanyPortion)
	resp.EmployeePortion = decimalString(r.EmployeePortion)

	for _, a := range r.Attachments {
		resp.Attachments = append(resp.Attachments, mapAttachment(a))
	}
	for _, e := range r.Approvals {
		resp.Approvals = append(resp.Approvals, mapTrail(e))
	}
	return resp
}

func mapToListResponse(requests []WelfareRequest) []WelfareResponse {
	resp := make([]WelfareResponse, len(requests))
	for i, r := range requests {
		resp[i] = mapToResponse(r)
	}
	return resp
}
