package document

import (
	"bytes"
	"context"
	"database/sql"
	"testing"
	"time"

	"go-welfare/internal/shared/storage"
	"go-welfare/internal/welfare"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWelfareRepo struct {
	request   *welfare.WelfareRequest
	trail     []welfare.ApprovalTrailEntry
	formPaths map[string]string
}

func (f *fakeWelfareRepo) WithTx(tx *sql.Tx) welfare.Repository { return f }
func (f *fakeWelfareRepo) Create(ctx context.Context, r *welfare.WelfareRequest) error {
	return nil
}
func (f *fakeWelfareRepo) FindAllByCompany(ctx context.Context, companyID string, q welfare.ListQuery, employeeID string) ([]welfare.WelfareRequest, error) {
	return nil, nil
}
func (f *fakeWelfareRepo) FindByIDAndCompany(ctx context.Context, companyID, id string) (*welfare.WelfareRequest, error) {
	return f.request, nil
}
func (f *fakeWelfareRepo) UpdateStatusCAS(ctx context.Context, id string, from welfare.Status, fields map[string]any) (bool, error) {
	return true, nil
}
func (f *fakeWelfareRepo) AppendTrail(ctx context.Context, entry *welfare.ApprovalTrailEntry) error {
	return nil
}
func (f *fakeWelfareRepo) AppendAttachment(ctx context.Context, att *welfare.Attachment) error {
	return nil
}
func (f *fakeWelfareRepo) FindTrail(ctx context.Context, requestID string) ([]welfare.ApprovalTrailEntry, error) {
	return f.trail, nil
}
func (f *fakeWelfareRepo) HasAttachmentSince(ctx context.Context, requestID string, since time.Time) (bool, error) {
	return false, nil
}
func (f *fakeWelfareRepo) SetFormPath(ctx context.Context, requestID, path string) error {
	if f.formPaths == nil {
		f.formPaths = make(map[string]string)
	}
	f.formPaths[requestID] = path
	return nil
}

func TestService_GenerateForm(t *testing.T) {
	files, err := storage.NewFileStorage(t.TempDir())
	require.NoError(t, err)

	sig := "signed-by-manager"
	requestID := uuid.New()
	repo := &fakeWelfareRepo{
		request: &welfare.WelfareRequest{
			ID:            requestID,
			RequestNumber: "WR-000123",
			CompanyID:     uuid.New(),
			EmployeeID:    uuid.New(),
			RequestType:   string(welfare.TypeWedding),
			Amount:        decimal.NewFromInt(3000),
			Status:        welfare.StatusCompleted,
			Details:       "wedding gift",
		},
		trail: []welfare.ApprovalTrailEntry{
			{Stage: "manager", Decision: "approved", ApproverName: "Manager A", Signature: &sig},
			{Stage: "hr", Decision: "approved", ApproverName: "HR B"},
			{Stage: "accounting", Decision: "approved", ApproverName: "Acct C"},
		},
	}

	svc := NewService(repo, files)
	path, err := svc.GenerateForm(context.Background(), repo.request.CompanyID.String(), requestID.String())
	require.NoError(t, err)
	assert.Equal(t, "forms/WR-000123.pdf", path)
	assert.Equal(t, path, repo.formPaths[requestID.String()])
	assert.True(t, files.Exists(path))

	rc, err := files.Open(path)
	require.NoError(t, err)
	defer rc.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(rc)
	require.NoError(t, err)

	pdf := buf.String()
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-1.4")))
	assert.Contains(t, pdf, "WR-000123")
	assert.Contains(t, pdf, "Manager A")
	assert.Contains(t, pdf, "%%EOF")
}

func TestBuildFormPDF_EscapesDelimiters(t *testing.T) {
	pdf, err := buildFormPDF([]string{"Details: travel (BKK) 50% refund"})
	assert.NoError(t, err)
	assert.Contains(t, string(pdf), `travel \(BKK\) 50% refund`)
}

func TestBuildFormPDF_EmptyInput(t *testing.T) {
	pdf, err := buildFormPDF(nil)
	assert.NoError(t, err)
	assert.Contains(t, string(pdf), "Welfare Request")
	assert.Contains(t, string(pdf), "xref")
}
