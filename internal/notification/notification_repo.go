package notification

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=notification_repo.go -destination=mock/notification_repo_mock.go -package=mock
type Repository interface {
	// CreateIdempotent inserts the row unless the same (recipient, request,
	// to_status) delivery already exists. It reports whether a row was written.
	CreateIdempotent(ctx context.Context, n *Notification) (bool, error)
	FindAllByRecipient(ctx context.Context, companyID, recipientID string, limit int) ([]Notification, error)
	FindByIDAndRecipient(ctx context.Context, companyID, recipientID, id string) (*Notification, error)
	CountUnread(ctx context.Context, companyID, recipientID string) (int64, error)
	MarkRead(ctx context.Context, companyID, recipientID, id string) error
	MarkAllRead(ctx context.Context, companyID, recipientID string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateIdempotent(ctx context.Context, n *Notification) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "recipient_id"},
				{Name: "request_id"},
				{Name: "to_status"},
			},
			DoNothing: true,
		}).
		Create(n)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) FindAllByRecipient(ctx context.Context, companyID, recipientID string, limit int) ([]Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []Notification
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND recipient_id = ?", companyID, recipientID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindByIDAndRecipient(ctx context.Context, companyID, recipientID, id string) (*Notification, error) {
	var n Notification
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND recipient_id = ?", companyID, recipientID).
		First(&n, "id = ?", id).Error
	return &n, err
}

func (r *repository) CountUnread(ctx context.Context, companyID, recipientID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Notification{}).
		Where("company_id = ? AND recipient_id = ? AND read_at IS NULL", companyID, recipientID).
		Count(&count).Error
	return count, err
}

func (r *repository) MarkRead(ctx context.Context, companyID, recipientID, id string) error {
	return r.db.WithContext(ctx).
		Model(&Notification{}).
		Where("company_id = ? AND recipient_id = ? AND id = ?", companyID, recipientID, id).
		Update("read_at", time.Now().UTC()).Error
}

func (r *repository) MarkAllRead(ctx context.Context, companyID, recipientID string) error {
	return r.db.WithContext(ctx).
		Model(&Notification{}).
		Where("company_id = ? AND recipient_id = ? AND read_at IS NULL", companyID, recipientID).
		Update("read_at", time.Now().UTC()).Error
}
