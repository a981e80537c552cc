package welfare

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=welfare_repo.go -destination=mock/welfare_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, r *WelfareRequest) error
	FindAllByCompany(ctx context.Context, companyID string, q ListQuery, employeeID string) ([]WelfareRequest, error)
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*WelfareRequest, error)

	// UpdateStatusCAS moves the request from an observed status to the next
	// one in a single compare-and-swap. It reports false when the row was no
	// longer in the observed status, which means another actor won the race.
	UpdateStatusCAS(ctx context.Context, id string, from Status, fields map[string]any) (bool, error)

	AppendTrail(ctx context.Context, entry *ApprovalTrailEntry) error
	AppendAttachment(ctx context.Context, att *Attachment) error
	FindTrail(ctx context.Context, requestID string) ([]ApprovalTrailEntry, error)
	HasAttachmentSince(ctx context.Context, requestID string, since time.Time) (bool, error)
	SetFormPath(ctx context.Context, requestID, path string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx rebinds the repository onto an open transaction so that trail and
// outbox writes commit atomically with the status change.
func (r *repository) WithTx(tx *sql.Tx) Repository {
	session := r.db.Session(&gorm.Session{NewDB: true})
	session.Statement.ConnPool = tx
	return &repository{db: session}
}

func (r *repository) Create(ctx context.Context, req *WelfareRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string, q ListQuery, employeeID string) ([]WelfareRequest, error) {
	db := r.db.WithContext(ctx).
		Preload("Employee").
		Where("company_id = ?", companyID)

	if q.Status != "" {
		db = db.Where("status = ?", q.Status)
	}
	if q.Type != "" {
		db = db.Where("request_type = ?", q.Type)
	}
	if q.Mine && employeeID != "" {
		db = db.Where("employee_id = ?", employeeID)
	}

	var requests []WelfareRequest
	err := db.Order("created_at DESC").Find(&requests).Error
	return requests, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*WelfareRequest, error) {
	var req WelfareRequest
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Preload("Attachments").
		Preload("Approvals").
		Where("company_id = ?", companyID).
		First(&req, "id = ?", id).Error
	return &req, err
}

func (r *repository) UpdateStatusCAS(ctx context.Context, id string, from Status, fields map[string]any) (bool, error) {
	fields["updated_at"] = time.Now().UTC()

	res := r.db.WithContext(ctx).
		Model(&WelfareRequest{}).
		Where("id = ?", id).
		Where("status = ?", from).
		Updates(fields)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) AppendTrail(ctx context.Context, entry *ApprovalTrailEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) AppendAttachment(ctx context.Context, att *Attachment) error {
	return r.db.WithContext(ctx).Create(att).Error
}

func (r *repository) FindTrail(ctx context.Context, requestID string) ([]ApprovalTrailEntry, error) {
	var entries []ApprovalTrailEntry
	err := r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Order("created_at ASC").
		Find(&entries).Error
	return entries, err
}

func (r *repository) HasAttachmentSince(ctx context.Context, requestID string, since time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Attachment{}).
		Where("request_id = ?", requestID).
		Where("created_at > ?", since).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) SetFormPath(ctx context.Context, requestID, path string) error {
	return r.db.WithContext(ctx).
		Model(&WelfareRequest{}).
		Where("id = ?", requestID).
		Update("form_path", path).Error
}
