package welfare_test

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-welfare/internal/shared/storage"
	"go-welfare/internal/welfare"
	welfareerrors "go-welfare/internal/welfare/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeService struct {
	createFn          func(ctx context.Context, actor welfare.Actor, req welfare.CreateWelfareRequest) (welfare.WelfareResponse, error)
	getAllFn          func(ctx context.Context, actor welfare.Actor, q welfare.ListQuery) ([]welfare.WelfareResponse, error)
	getByIDFn         func(ctx context.Context, companyID, id string) (welfare.WelfareResponse, error)
	getTrailFn        func(ctx context.Context, companyID, id string) ([]welfare.TrailResponse, error)
	approveFn         func(ctx context.Context, actor welfare.Actor, id string, req welfare.DecisionRequest) (welfare.WelfareResponse, error)
	rejectFn          func(ctx context.Context, actor welfare.Actor, id string, req welfare.RejectRequest) (welfare.WelfareResponse, error)
	requestRevisionFn func(ctx context.Context, actor welfare.Actor, id string, req welfare.RevisionRequest) (welfare.WelfareResponse, error)
	resubmitFn        func(ctx context.Context, actor welfare.Actor, id string) (welfare.WelfareResponse, error)
	addAttachmentFn   func(ctx context.Context, actor welfare.Actor, id string, up welfare.AttachmentUpload) (welfare.AttachmentResponse, error)
}

func (f *fakeService) Create(ctx context.Context, actor welfare.Actor, req welfare.CreateWelfareRequest) (welfare.WelfareResponse, error) {
	return f.createFn(ctx, actor, req)
}
func (f *fakeService) GetAll(ctx context.Context, actor welfare.Actor, q welfare.ListQuery) ([]welfare.WelfareResponse, error) {
	return f.getAllFn(ctx, actor, q)
}
func (f *fakeService) GetByID(ctx context.Context, companyID, id string) (welfare.WelfareResponse, error) {
	return f.getByIDFn(ctx, companyID, id)
}
func (f *fakeService) GetTrail(ctx context.Context, companyID, id string) ([]welfare.TrailResponse, error) {
	return f.getTrailFn(ctx, companyID, id)
}
func (f *fakeService) Approve(ctx context.Context, actor welfare.Actor, id string, req welfare.DecisionRequest) (welfare.WelfareResponse, error) {
	return f.approveFn(ctx, actor, id, req)
}
func (f *fakeService) Reject(ctx context.Context, actor welfare.Actor, id string, req welfare.RejectRequest) (welfare.WelfareResponse, error) {
	return f.rejectFn(ctx, actor, id, req)
}
func (f *fakeService) RequestRevision(ctx context.Context, actor welfare.Actor, id string, req welfare.RevisionRequest) (welfare.WelfareResponse, error) {
	return f.requestRevisionFn(ctx, actor, id, req)
}
func (f *fakeService) Resubmit(ctx context.Context, actor welfare.Actor, id string) (welfare.WelfareResponse, error) {
	return f.resubmitFn(ctx, actor, id)
}
func (f *fakeService) AddAttachment(ctx context.Context, actor welfare.Actor, id string, up welfare.AttachmentUpload) (welfare.AttachmentResponse, error) {
	return f.addAttachmentFn(ctx, actor, id, up)
}

func TestHandler_Create(t *testing.T) {
	gin.SetMode(gin.TestMode)
	companyID := uuid.New().String()
	employeeID := uuid.New().String()

	svc := &fakeService{
		createFn: func(ctx context.Context, actor welfare.Actor, req welfare.CreateWelfareRequest) (welfare.WelfareResponse, error) {
			assert.Equal(t, companyID, actor.CompanyID)
			assert.Equal(t, employeeID, actor.EmployeeID)
			assert.Equal(t, "wedding", req.RequestType)
			return welfare.WelfareResponse{
				ID:            uuid.New().String(),
				RequestNumber: "WR-000042",
				Status:        "pending_manager",
			}, nil
		},
	}

	h := welfare.NewHandler(svc, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("company_id", companyID)
	c.Set("employee_id", employeeID)
	c.Set("role", "EMPLOYEE")
	c.Request = httptest.NewRequest(http.MethodPost, "/welfare-requests",
		strings.NewReader(`{"request_type":"wedding","amount":"3000"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "WR-000042")
	assert.Contains(t, w.Body.String(), "pending_manager")
}

func TestHandler_Create_ValidationError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := welfare.NewHandler(&fakeService{}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("role", "EMPLOYEE")
	c.Request = httptest.NewRequest(http.MethodPost, "/welfare-requests", strings.NewReader(`{"amount":"10"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
}

func TestHandler_GetAll_Paginates(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeService{
		getAllFn: func(ctx context.Context, actor welfare.Actor, q welfare.ListQuery) ([]welfare.WelfareResponse, error) {
			return []welfare.WelfareResponse{
				{ID: uuid.New().String()},
				{ID: uuid.New().String()},
				{ID: uuid.New().String()},
			}, nil
		},
	}

	h := welfare.NewHandler(svc, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("company_id", uuid.New().String())
	c.Set("role", "EMPLOYEE")
	c.Request = httptest.NewRequest(http.MethodGet, "/welfare-requests?page=1&page_size=2", nil)
	h.GetAll(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "\"meta\"")
	assert.Contains(t, w.Body.String(), "\"total\":3")
}

func TestHandler_Approve_ServiceErrorMapped(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeService{
		approveFn: func(ctx context.Context, actor welfare.Actor, id string, req welfare.DecisionRequest) (welfare.WelfareResponse, error) {
			return welfare.WelfareResponse{}, welfareerrors.ErrRoleNotAllowed
		},
	}

	h := welfare.NewHandler(svc, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("company_id", uuid.New().String())
	c.Set("employee_id", uuid.New().String())
	c.Set("role", "EMPLOYEE")
	c.Params = gin.Params{{Key: "id", Value: uuid.New().String()}}
	c.Request = httptest.NewRequest(http.MethodPost, "/welfare-requests/x/approve", nil)
	h.Approve(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestHandler_Reject_ConcurrentUpdateIsConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeService{
		rejectFn: func(ctx context.Context, actor welfare.Actor, id string, req welfare.RejectRequest) (welfare.WelfareResponse, error) {
			return welfare.WelfareResponse{}, welfareerrors.ErrConcurrentUpdate
		},
	}

	h := welfare.NewHandler(svc, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("company_id", uuid.New().String())
	c.Set("role", "MANAGER")
	c.Params = gin.Params{{Key: "id", Value: uuid.New().String()}}
	c.Request = httptest.NewRequest(http.MethodPost, "/welfare-requests/x/reject",
		strings.NewReader(`{"reason":"missing receipt"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	h.Reject(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestHandler_AddAttachment_RemovesBlobWhenLocked(t *testing.T) {
	gin.SetMode(gin.TestMode)

	files, err := storage.NewFileStorage(t.TempDir())
	assert.NoError(t, err)

	var storedPath string
	svc := &fakeService{
		addAttachmentFn: func(ctx context.Context, actor welfare.Actor, id string, up welfare.AttachmentUpload) (welfare.AttachmentResponse, error) {
			storedPath = up.FilePath
			assert.True(t, files.Exists(storedPath))
			return welfare.AttachmentResponse{}, welfareerrors.ErrAttachmentsLocked
		},
	}

	h := welfare.NewHandler(svc, files)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "receipt.pdf")
	assert.NoError(t, err)
	_, _ = part.Write([]byte("%PDF-1.4 receipt"))
	assert.NoError(t, mw.Close())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("company_id", uuid.New().String())
	c.Set("employee_id", uuid.New().String())
	c.Set("role", "EMPLOYEE")
	requestID := uuid.New().String()
	c.Params = gin.Params{{Key: "id", Value: requestID}}
	c.Request = httptest.NewRequest(http.MethodPost, "/welfare-requests/"+requestID+"/attachments", &body)
	c.Request.Header.Set("Content-Type", mw.FormDataContentType())
	h.AddAttachment(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_STATE")

	// The stored blob must not survive the rejected upload.
	assert.NotEmpty(t, storedPath)
	assert.False(t, files.Exists(storedPath))
}
