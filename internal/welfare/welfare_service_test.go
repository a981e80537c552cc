package welfare

import (
	"context"
	"database/sql"
	"testing"
	"time"

	welfareerrors "go-welfare/internal/welfare/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeRepo struct {
	withTxFn             func(tx *sql.Tx) Repository
	createFn             func(ctx context.Context, r *WelfareRequest) error
	findAllFn            func(ctx context.Context, companyID string, q ListQuery, employeeID string) ([]WelfareRequest, error)
	findByIDFn           func(ctx context.Context, companyID, id string) (*WelfareRequest, error)
	updateStatusCASFn    func(ctx context.Context, id string, from Status, fields map[string]any) (bool, error)
	appendTrailFn        func(ctx context.Context, entry *ApprovalTrailEntry) error
	appendAttachmentFn   func(ctx context.Context, att *Attachment) error
	findTrailFn          func(ctx context.Context, requestID string) ([]ApprovalTrailEntry, error)
	hasAttachmentSinceFn func(ctx context.Context, requestID string, since time.Time) (bool, error)
	setFormPathFn        func(ctx context.Context, requestID, path string) error
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository { return f.withTxFn(tx) }
func (f *fakeRepo) Create(ctx context.Context, r *WelfareRequest) error {
	return f.createFn(ctx, r)
}
func (f *fakeRepo) FindAllByCompany(ctx context.Context, companyID string, q ListQuery, employeeID string) ([]WelfareRequest, error) {
	return f.findAllFn(ctx, companyID, q, employeeID)
}
func (f *fakeRepo) FindByIDAndCompany(ctx context.Context, companyID, id string) (*WelfareRequest, error) {
	return f.findByIDFn(ctx, companyID, id)
}
func (f *fakeRepo) UpdateStatusCAS(ctx context.Context, id string, from Status, fields map[string]any) (bool, error) {
	return f.updateStatusCASFn(ctx, id, from, fields)
}
func (f *fakeRepo) AppendTrail(ctx context.Context, entry *ApprovalTrailEntry) error {
	return f.appendTrailFn(ctx, entry)
}
func (f *fakeRepo) AppendAttachment(ctx context.Context, att *Attachment) error {
	return f.appendAttachmentFn(ctx, att)
}
func (f *fakeRepo) FindTrail(ctx context.Context, requestID string) ([]ApprovalTrailEntry, error) {
	return f.findTrailFn(ctx, requestID)
}
func (f *fakeRepo) HasAttachmentSince(ctx context.Context, requestID string, since time.Time) (bool, error) {
	return f.hasAttachmentSinceFn(ctx, requestID, since)
}
func (f *fakeRepo) SetFormPath(ctx context.Context, requestID, path string) error {
	return f.setFormPathFn(ctx, requestID, path)
}

type fakeLimits struct {
	checkFn func(ctx context.Context, companyID, employeeID string, t RequestType, amount decimal.Decimal) (LimitEvaluation, error)
}

func (f *fakeLimits) Check(ctx context.Context, companyID, employeeID string, t RequestType, amount decimal.Decimal) (LimitEvaluation, error) {
	return f.checkFn(ctx, companyID, employeeID, t, amount)
}

type fakeCounter struct{ next int64 }

func (f *fakeCounter) GetNextValue(ctx context.Context, companyID, counterType string) (int64, error) {
	f.next++
	return f.next, nil
}

func passthroughRepo(repo *fakeRepo) {
	repo.withTxFn = func(tx *sql.Tx) Repository { return repo }
}

func TestService_Create(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	actor := Actor{
		EmployeeID: uuid.New().String(),
		CompanyID:  uuid.New().String(),
		Name:       "Somchai",
		Role:       RoleEmployee,
	}

	var saved WelfareRequest
	repo := &fakeRepo{}
	passthroughRepo(repo)
	repo.createFn = func(ctx context.Context, r *WelfareRequest) error { saved = *r; return nil }

	limits := &fakeLimits{checkFn: func(ctx context.Context, cid, eid string, rt RequestType, amount decimal.Decimal) (LimitEvaluation, error) {
		return LimitEvaluation{Configured: true, Remaining: decimal.NewFromInt(5000)}, nil
	}}

	svc := NewService(db, repo, limits, &fakeCounter{}, nil)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Create(context.Background(), actor, CreateWelfareRequest{
		RequestType: "wedding",
		Amount:      "3000.00",
		Details:     "wedding gift",
	})
	assert.NoError(t, err)
	assert.Equal(t, "WR-000001", resp.RequestNumber)
	assert.Equal(t, string(StatusPendingManager), resp.Status)
	assert.Equal(t, StatusPendingManager, saved.Status)
	assert.False(t, saved.RequiresSpecialApproval)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Create_AccountingTypeSkipsManager(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := &fakeRepo{}
	passthroughRepo(repo)
	repo.createFn = func(ctx context.Context, r *WelfareRequest) error { return nil }

	limits := &fakeLimits{checkFn: func(ctx context.Context, cid, eid string, rt RequestType, amount decimal.Decimal) (LimitEvaluation, error) {
		return LimitEvaluation{}, nil
	}}

	svc := NewService(db, repo, limits, &fakeCounter{}, nil)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Create(context.Background(), Actor{
		EmployeeID: uuid.New().String(),
		CompanyID:  uuid.New().String(),
		Role:       RoleEmployee,
	}, CreateWelfareRequest{RequestType: "advance", Amount: "10000"})
	assert.NoError(t, err)
	assert.Equal(t, string(StatusPendingAccounting), resp.Status)
}

func TestService_Create_RejectsBadInput(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	repo := &fakeRepo{}
	passthroughRepo(repo)
	limits := &fakeLimits{checkFn: func(ctx context.Context, cid, eid string, rt RequestType, amount decimal.Decimal) (LimitEvaluation, error) {
		return LimitEvaluation{}, nil
	}}
	svc := NewService(db, repo, limits, &fakeCounter{}, nil)

	actor := Actor{EmployeeID: uuid.New().String(), CompanyID: uuid.New().String(), Role: RoleEmployee}

	_, err := svc.Create(context.Background(), actor, CreateWelfareRequest{RequestType: "vacation", Amount: "100"})
	assert.ErrorIs(t, err, welfareerrors.ErrInvalidRequestType)

	_, err = svc.Create(context.Background(), actor, CreateWelfareRequest{RequestType: "wedding", Amount: "-5"})
	assert.ErrorIs(t, err, welfareerrors.ErrInvalidAmount)
}

func TestService_Approve_MovesToNextStage(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	requestID := uuid.New()
	stored := WelfareRequest{
		ID:          requestID,
		CompanyID:   uuid.New(),
		EmployeeID:  uuid.New(),
		RequestType: string(TypeWedding),
		Amount:      decimal.NewFromInt(3000),
		Status:      StatusPendingManager,
	}

	var trail []ApprovalTrailEntry
	repo := &fakeRepo{}
	passthroughRepo(repo)
	repo.findByIDFn = func(ctx context.Context, companyID, id string) (*WelfareRequest, error) {
		cp := stored
		return &cp, nil
	}
	repo.appendTrailFn = func(ctx context.Context, entry *ApprovalTrailEntry) error {
		trail = append(trail, *entry)
		return nil
	}
	repo.updateStatusCASFn = func(ctx context.Context, id string, from Status, fields map[string]any) (bool, error) {
		assert.Equal(t, StatusPendingManager, from)
		assert.Equal(t, string(StatusPendingHR), fields["status"])
		return true, nil
	}

	svc := NewService(db, repo, nil, &fakeCounter{}, nil)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Approve(context.Background(), Actor{
		EmployeeID: uuid.New().String(),
		CompanyID:  stored.CompanyID.String(),
		Name:       "Manager A",
		Role:       RoleManager,
	}, requestID.String(), DecisionRequest{})
	assert.NoError(t, err)
	assert.Equal(t, string(StatusPendingHR), resp.Status)
	if assert.Len(t, trail, 1) {
		assert.Equal(t, string(StageManager), trail[0].Stage)
		assert.Equal(t, "approved", trail[0].Decision)
		assert.Equal(t, "Manager A", trail[0].ApproverName)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Approve_WrongRoleRollsBack(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	stored := WelfareRequest{
		ID:         uuid.New(),
		CompanyID:  uuid.New(),
		EmployeeID: uuid.New(),
		Status:     StatusPendingManager,
	}

	repo := &fakeRepo{}
	passthroughRepo(repo)
	repo.findByIDFn = func(ctx context.Context, companyID, id string) (*WelfareRequest, error) {
		cp := stored
		return &cp, nil
	}

	svc := NewService(db, repo, nil, &fakeCounter{}, nil)

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.Approve(context.Background(), Actor{
		EmployeeID: uuid.New().String(),
		CompanyID:  stored.CompanyID.String(),
		Role:       RoleHR,
	}, stored.ID.String(), DecisionRequest{})
	assert.ErrorIs(t, err, welfareerrors.ErrRoleNotAllowed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Approve_CompletedIsIdempotent(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	stored := WelfareRequest{
		ID:         uuid.New(),
		CompanyID:  uuid.New(),
		EmployeeID: uuid.New(),
		Status:     StatusCompleted,
	}

	repo := &fakeRepo{}
	passthroughRepo(repo)
	repo.findByIDFn = func(ctx context.Context, companyID, id string) (*WelfareRequest, error) {
		cp := stored
		return &cp, nil
	}
	repo.updateStatusCASFn = func(ctx context.Context, id string, from Status, fields map[string]any) (bool, error) {
		t.Fatal("completed request must not be written")
		return false, nil
	}

	svc := NewService(db, repo, nil, &fakeCounter{}, nil)

	mock.ExpectBegin()
	mock.ExpectRollback()
	resp, err := svc.Approve(context.Background(), Actor{
		EmployeeID: uuid.New().String(),
		CompanyID:  stored.CompanyID.String(),
		Role:       RoleAccounting,
	}, stored.ID.String(), DecisionRequest{})
	assert.NoError(t, err)
	assert.Equal(t, string(StatusCompleted), resp.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Approve_LostRace(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	stored := WelfareRequest{
		ID:         uuid.New(),
		CompanyID:  uuid.New(),
		EmployeeID: uuid.New(),
		Status:     StatusPendingAccounting,
	}

	repo := &fakeRepo{}
	passthroughRepo(repo)
	repo.findByIDFn = func(ctx context.Context, companyID, id string) (*WelfareRequest, error) {
		cp := stored
		return &cp, nil
	}
	repo.appendTrailFn = func(ctx context.Context, entry *ApprovalTrailEntry) error { return nil }
	repo.updateStatusCASFn = func(ctx context.Context, id string, from Status, fields map[string]any) (bool, error) {
		// Another approver moved the row first.
		return false, nil
	}

	svc := NewService(db, repo, nil, &fakeCounter{}, nil)

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.Approve(context.Background(), Actor{
		EmployeeID: uuid.New().String(),
		CompanyID:  stored.CompanyID.String(),
		Role:       RoleAccounting,
	}, stored.ID.String(), DecisionRequest{})
	assert.ErrorIs(t, err, welfareerrors.ErrConcurrentUpdate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Reject_RequiresReason(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	svc := NewService(db, &fakeRepo{}, nil, &fakeCounter{}, nil)
	_, err := svc.Reject(context.Background(), Actor{
		EmployeeID: uuid.New().String(),
		CompanyID:  uuid.New().String(),
		Role:       RoleManager,
	}, uuid.New().String(), RejectRequest{})
	assert.ErrorIs(t, err, welfareerrors.ErrRejectionReasonRequired)
}

func TestService_Resubmit(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	employeeID := uuid.New()
	revisedAt := time.Now().Add(-time.Hour)
	resume := string(StatusPendingHR)
	stored := WelfareRequest{
		ID:                  uuid.New(),
		CompanyID:           uuid.New(),
		EmployeeID:          employeeID,
		Status:              StatusPendingRevision,
		RevisionRequestedAt: &revisedAt,
		ResumeStatus:        &resume,
	}

	repo := &fakeRepo{}
	passthroughRepo(repo)
	repo.findByIDFn = func(ctx context.Context, companyID, id string) (*WelfareRequest, error) {
		cp := stored
		return &cp, nil
	}

	t.Run("resumes recorded stage after new evidence", func(t *testing.T) {
		repo.hasAttachmentSinceFn = func(ctx context.Context, requestID string, since time.Time) (bool, error) {
			assert.Equal(t, revisedAt.Unix(), since.Unix())
			return true, nil
		}
		repo.updateStatusCASFn = func(ctx context.Context, id string, from Status, fields map[string]any) (bool, error) {
			assert.Equal(t, StatusPendingRevision, from)
			assert.Equal(t, string(StatusPendingHR), fields["status"])
			assert.Nil(t, fields["resume_status"])
			return true, nil
		}

		svc := NewService(db, repo, nil, &fakeCounter{}, nil)
		mock.ExpectBegin()
		mock.ExpectCommit()
		resp, err := svc.Resubmit(context.Background(), Actor{
			EmployeeID: employeeID.String(),
			CompanyID:  stored.CompanyID.String(),
			Role:       RoleEmployee,
		}, stored.ID.String())
		assert.NoError(t, err)
		assert.Equal(t, string(StatusPendingHR), resp.Status)
	})

	t.Run("blocked without new attachment", func(t *testing.T) {
		repo.hasAttachmentSinceFn = func(ctx context.Context, requestID string, since time.Time) (bool, error) {
			return false, nil
		}

		svc := NewService(db, repo, nil, &fakeCounter{}, nil)
		mock.ExpectBegin()
		mock.ExpectRollback()
		_, err := svc.Resubmit(context.Background(), Actor{
			EmployeeID: employeeID.String(),
			CompanyID:  stored.CompanyID.String(),
			Role:       RoleEmployee,
		}, stored.ID.String())
		assert.ErrorIs(t, err, welfareerrors.ErrAttachmentRequired)
	})

	t.Run("only the requester may resubmit", func(t *testing.T) {
		svc := NewService(db, repo, nil, &fakeCounter{}, nil)
		mock.ExpectBegin()
		mock.ExpectRollback()
		_, err := svc.Resubmit(context.Background(), Actor{
			EmployeeID: uuid.New().String(),
			CompanyID:  stored.CompanyID.String(),
			Role:       RoleEmployee,
		}, stored.ID.String())
		assert.ErrorIs(t, err, welfareerrors.ErrNotRequester)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_AddAttachment_Guards(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	stored := WelfareRequest{
		ID:         uuid.New(),
		CompanyID:  uuid.New(),
		EmployeeID: uuid.New(),
		Status:     StatusRejectedHR,
	}

	repo := &fakeRepo{}
	passthroughRepo(repo)
	repo.findByIDFn = func(ctx context.Context, companyID, id string) (*WelfareRequest, error) {
		cp := stored
		return &cp, nil
	}

	svc := NewService(db, repo, nil, &fakeCounter{}, nil)
	_, err := svc.AddAttachment(context.Background(), Actor{
		EmployeeID: stored.EmployeeID.String(),
		CompanyID:  stored.CompanyID.String(),
		Role:       RoleEmployee,
	}, stored.ID.String(), AttachmentUpload{FileName: "receipt.pdf"})
	assert.ErrorIs(t, err, welfareerrors.ErrAttachmentsLocked)
}

func TestService_GetByID_NotFound(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	repo := &fakeRepo{}
	passthroughRepo(repo)
	repo.findByIDFn = func(ctx context.Context, companyID, id string) (*WelfareRequest, error) {
		return nil, gorm.ErrRecordNotFound
	}

	svc := NewService(db, repo, nil, &fakeCounter{}, nil)
	_, err := svc.GetByID(context.Background(), uuid.New().String(), uuid.New().String())
	assert.ErrorIs(t, err, welfareerrors.ErrRequestNotFound)
}
