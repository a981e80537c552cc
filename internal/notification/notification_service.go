package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go-welfare/internal/events"
	notificationerrors "go-welfare/internal/notification/errors"
	"go-welfare/internal/welfare"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const unreadCacheTTL = 5 * time.Minute

// Recipient is the delivery view of an employee.
type Recipient struct {
	EmployeeID string
	FullName   string
	LineUserID string
}

// Directory resolves who should hear about a status change. The employee
// package provides the production implementation.
type Directory interface {
	FindByRole(ctx context.Context, companyID, role string) ([]Recipient, error)
	FindByEmployeeID(ctx context.Context, companyID, employeeID string) (*Recipient, error)
}

//go:generate mockgen -source=notification_service.go -destination=mock/notification_service_mock.go -package=mock
type Service interface {
	GetAll(ctx context.Context, companyID, employeeID string) ([]NotificationResponse, error)
	UnreadCount(ctx context.Context, companyID, employeeID string) (UnreadCountResponse, error)
	MarkRead(ctx context.Context, companyID, employeeID, id string) error
	MarkAllRead(ctx context.Context, companyID, employeeID string) error

	// Dispatch fans one status event out to its recipients: inbox rows first,
	// then websocket and LINE pushes for rows that were actually new.
	Dispatch(ctx context.Context, event events.WelfareStatusChangedEvent) error
}

type service struct {
	repo      Repository
	directory Directory
	broadcast Broadcaster
	line      LinePusher
	rdb       *redis.Client
	logger    *zap.Logger
}

func NewService(
	repo Repository,
	directory Directory,
	broadcaster Broadcaster,
	line LinePusher,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("notification.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.service")
	}
	return &service{
		repo:      repo,
		directory: directory,
		broadcast: broadcaster,
		line:      line,
		rdb:       rdb,
		logger:    l,
	}
}

func (s *service) GetAll(ctx context.Context, companyID, employeeID string) ([]NotificationResponse, error) {
	rows, err := s.repo.FindAllByRecipient(ctx, companyID, employeeID, 50)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(rows), nil
}

func unreadCacheKey(employeeID string) string {
	return "notification:unread:" + employeeID
}

func (s *service) UnreadCount(ctx context.Context, companyID, employeeID string) (UnreadCountResponse, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, unreadCacheKey(employeeID)).Result(); err == nil {
			if count, err := strconv.ParseInt(cached, 10, 64); err == nil {
				return UnreadCountResponse{Unread: count}, nil
			}
		}
	}

	count, err := s.repo.CountUnread(ctx, companyID, employeeID)
	if err != nil {
		return UnreadCountResponse{}, err
	}

	if s.rdb != nil {
		if err := s.rdb.Set(ctx, unreadCacheKey(employeeID), strconv.FormatInt(count, 10), unreadCacheTTL).Err(); err != nil {
			s.logger.Warn("unread count cache write failed", zap.Error(err))
		}
	}
	return UnreadCountResponse{Unread: count}, nil
}

func (s *service) invalidateUnread(ctx context.Context, employeeID string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, unreadCacheKey(employeeID)).Err(); err != nil {
		s.logger.Warn("unread count cache invalidate failed", zap.Error(err))
	}
}

func (s *service) MarkRead(ctx context.Context, companyID, employeeID, id string) error {
	if _, err := s.repo.FindByIDAndRecipient(ctx, companyID, employeeID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notificationerrors.ErrNotificationNotFound
		}
		return err
	}
	if err := s.repo.MarkRead(ctx, companyID, employeeID, id); err != nil {
		return err
	}
	s.invalidateUnread(ctx, employeeID)
	return nil
}

func (s *service) MarkAllRead(ctx context.Context, companyID, employeeID string) error {
	if err := s.repo.MarkAllRead(ctx, companyID, employeeID); err != nil {
		return err
	}
	s.invalidateUnread(ctx, employeeID)
	return nil
}

func (s *service) Dispatch(ctx context.Context, event events.WelfareStatusChangedEvent) error {
	recipients, err := s.resolveRecipients(ctx, event)
	if err != nil {
		return err
	}

	requestID, err := uuid.Parse(event.RequestID)
	if err != nil {
		return fmt.Errorf("dispatch: bad request id %q: %w", event.RequestID, err)
	}
	companyID, err := uuid.Parse(event.CompanyID)
	if err != nil {
		return fmt.Errorf("dispatch: bad company id %q: %w", event.CompanyID, err)
	}

	title, body, category := composeMessage(event)

	for _, rcpt := range recipients {
		recipientID, err := uuid.Parse(rcpt.EmployeeID)
		if err != nil {
			s.logger.Warn("skip recipient with bad id",
				zap.String("employee_id", rcpt.EmployeeID),
			)
			continue
		}

		n := &Notification{
			ID:          uuid.New(),
			CompanyID:   companyID,
			RecipientID: recipientID,
			RequestID:   requestID,
			ToStatus:    event.ToStatus,
			Title:       title,
			Body:        body,
			Category:    category,
		}

		created, err := s.repo.CreateIdempotent(ctx, n)
		if err != nil {
			return err
		}
		if !created {
			// Same event consumed twice; the first delivery already pushed.
			continue
		}

		s.invalidateUnread(ctx, rcpt.EmployeeID)

		if s.broadcast != nil {
			if payload, err := json.Marshal(mapToResponse(*n)); err == nil {
				s.broadcast.SendTo(rcpt.EmployeeID, payload)
			}
		}

		if s.line != nil && rcpt.LineUserID != "" {
			if err := s.line.PushText(ctx, rcpt.LineUserID, title+"\n"+body); err != nil {
				// LINE is best effort; the inbox row is the durable delivery.
				s.logger.Warn("line delivery failed",
					zap.String("employee_id", rcpt.EmployeeID),
					zap.String("welfare_id", event.RequestID),
					zap.Error(err),
				)
			}
		}
	}

	s.logger.Info("status event dispatched",
		zap.String("welfare_id", event.RequestID),
		zap.String("to_status", event.ToStatus),
		zap.Int("recipients", len(recipients)),
	)
	return nil
}

// resolveRecipients returns the requester plus the reviewers of the new
// pending stage, minus the actor who caused the change.
func (s *service) resolveRecipients(ctx context.Context, event events.WelfareStatusChangedEvent) ([]Recipient, error) {
	seen := make(map[string]bool)
	var out []Recipient

	add := func(r Recipient) {
		if r.EmployeeID == "" || r.EmployeeID == event.ActorID || seen[r.EmployeeID] {
			return
		}
		seen[r.EmployeeID] = true
		out = append(out, r)
	}

	requester, err := s.directory.FindByEmployeeID(ctx, event.CompanyID, event.EmployeeID)
	if err != nil {
		return nil, err
	}
	if requester != nil {
		add(*requester)
	}

	if role, ok := welfare.ReviewerFor(welfare.Status(event.ToStatus)); ok {
		reviewers, err := s.directory.FindByRole(ctx, event.CompanyID, string(role))
		if err != nil {
			return nil, err
		}
		for _, r := range reviewers {
			add(r)
		}
	}

	return out, nil
}

func composeMessage(event events.WelfareStatusChangedEvent) (title, body, category string) {
	switch welfare.Status(event.ToStatus) {
	case welfare.StatusPendingManager:
		title = fmt.Sprintf("Request %s awaits manager review", event.RequestNumber)
		category = "info"
	case welfare.StatusPendingHR:
		title = fmt.Sprintf("Request %s awaits HR review", event.RequestNumber)
		category = "info"
	case welfare.StatusPendingSpecialApproval:
		title = fmt.Sprintf("Request %s awaits special approval", event.RequestNumber)
		category = "info"
	case welfare.StatusPendingAccounting:
		title = fmt.Sprintf("Request %s awaits accounting review", event.RequestNumber)
		category = "info"
	case welfare.StatusPendingRevision:
		title = fmt.Sprintf("Request %s was returned for revision", event.RequestNumber)
		category = "warning"
	case welfare.StatusCompleted:
		title = fmt.Sprintf("Request %s was approved", event.RequestNumber)
		category = "success"
	default:
		title = fmt.Sprintf("Request %s was rejected", event.RequestNumber)
		category = "error"
	}

	body = fmt.Sprintf("%s for %s THB is now %s.", event.RequestType, event.Amount, event.ToStatus)
	if event.Note != "" {
		body += " Note: " + event.Note
	}
	return title, body, category
}
