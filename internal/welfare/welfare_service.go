package welfare

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-welfare/internal/events"
	"go-welfare/internal/messaging/kafka"
	"go-welfare/internal/shared/contextutil"
	"go-welfare/internal/shared/counter"
	welfareerrors "go-welfare/internal/welfare/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// LimitEvaluation is the benefit-limit gate result at submission time.
type LimitEvaluation struct {
	Remaining               decimal.Decimal
	RequiresSpecialApproval bool
	Configured              bool
}

// LimitChecker gates submissions against the per-type period budget. The
// benefit package provides the production implementation.
type LimitChecker interface {
	Check(ctx context.Context, companyID, employeeID string, requestType RequestType, amount decimal.Decimal) (LimitEvaluation, error)
}

type AttachmentUpload struct {
	FileName    string
	FilePath    string
	ContentType string
}

//go:generate mockgen -source=welfare_service.go -destination=mock/welfare_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actor Actor, req CreateWelfareRequest) (WelfareResponse, error)
	GetAll(ctx context.Context, actor Actor, q ListQuery) ([]WelfareResponse, error)
	GetByID(ctx context.Context, companyID, id string) (WelfareResponse, error)
	GetTrail(ctx context.Context, companyID, id string) ([]TrailResponse, error)

	Approve(ctx context.Context, actor Actor, id string, req DecisionRequest) (WelfareResponse, error)
	Reject(ctx context.Context, actor Actor, id string, req RejectRequest) (WelfareResponse, error)
	RequestRevision(ctx context.Context, actor Actor, id string, req RevisionRequest) (WelfareResponse, error)
	Resubmit(ctx context.Context, actor Actor, id string) (WelfareResponse, error)

	AddAttachment(ctx context.Context, actor Actor, id string, up AttachmentUpload) (AttachmentResponse, error)
}

type service struct {
	db      *sql.DB
	repo    Repository
	limits  LimitChecker
	counter counter.Repository
	outbox  kafka.OutboxRepository
	logger  *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	limits LimitChecker,
	counterRepo counter.Repository,
	outboxRepo kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("welfare.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("welfare.service")
	}
	return &service{
		db:      db,
		repo:    repo,
		limits:  limits,
		counter: counterRepo,
		outbox:  outboxRepo,
		logger:  l,
	}
}

func (s *service) Create(ctx context.Context, actor Actor, req CreateWelfareRequest) (WelfareResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create welfare request",
		zap.String("request_id", rid),
		zap.String("company_id", actor.CompanyID),
		zap.String("employee_id", actor.EmployeeID),
		zap.String("request_type", req.RequestType),
	)

	companyUUID, err := uuid.Parse(actor.CompanyID)
	if err != nil {
		return WelfareResponse{}, welfareerrors.ErrInvalidCompanyID
	}
	employeeUUID, err := uuid.Parse(actor.EmployeeID)
	if err != nil {
		return WelfareResponse{}, welfareerrors.ErrInvalidActorID
	}

	requestType := RequestType(req.RequestType)
	if !requestType.Valid() {
		return WelfareResponse{}, welfareerrors.ErrInvalidRequestType
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || amount.IsNegative() {
		return WelfareResponse{}, welfareerrors.ErrInvalidAmount
	}

	eval, err := s.limits.Check(ctx, actor.CompanyID, actor.EmployeeID, requestType, amount)
	if err != nil {
		s.logger.Warn("benefit limit check rejected submission",
			zap.String("employee_id", actor.EmployeeID),
			zap.String("request_type", req.RequestType),
			zap.Error(err),
		)
		return WelfareResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create welfare begin tx failed", zap.Error(err))
		return WelfareResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	nextVal, err := s.counter.GetNextValue(ctx, actor.CompanyID, "welfare_request_number")
	if err != nil {
		s.logger.Error("create welfare generate number failed", zap.Error(err))
		return WelfareResponse{}, err
	}

	r := &WelfareRequest{
		ID:                      uuid.New(),
		RequestNumber:           fmt.Sprintf("WR-%06d", nextVal),
		CompanyID:               companyUUID,
		EmployeeID:              employeeUUID,
		RequestType:             string(requestType),
		Amount:                  amount,
		Status:                  InitialStatus(requestType),
		Details:                 req.Details,
		Notes:                   req.Notes,
		RequiresSpecialApproval: eval.RequiresSpecialApproval,
	}

	if requestType.AccountingType() {
		if r.TaxAmount, err = parseOptionalAmount(req.TaxAmount); err != nil {
			return WelfareResponse{}, err
		}
		if r.WithholdingAmount, err = parseOptionalAmount(req.Withholding); err != nil {
			return WelfareResponse{}, err
		}
		if r.ExcessAmount, err = parseOptionalAmount(req.Excess); err != nil {
			return WelfareResponse{}, err
		}
		if r.CompanyPortion, err = parseOptionalAmount(req.CompanyPart); err != nil {
			return WelfareResponse{}, err
		}
		if r.EmployeePortion, err = parseOptionalAmount(req.EmployeePart); err != nil {
			return WelfareResponse{}, err
		}
	}

	if err := qtx.Create(ctx, r); err != nil {
		s.logger.Error("create welfare persist failed", zap.Error(err))
		return WelfareResponse{}, err
	}

	if err := s.queueStatusEvent(ctx, tx, rid, r, "", r.Status, actor, ""); err != nil {
		return WelfareResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create welfare commit failed", zap.Error(err))
		return WelfareResponse{}, err
	}

	s.logger.Info("create welfare success",
		zap.String("request_id", rid),
		zap.String("welfare_id", r.ID.String()),
		zap.String("request_number", r.RequestNumber),
		zap.String("status", string(r.Status)),
	)

	return mapToResponse(*r), nil
}

func (s *service) GetAll(ctx context.Context, actor Actor, q ListQuery) ([]WelfareResponse, error) {
	requests, err := s.repo.FindAllByCompany(ctx, actor.CompanyID, q, actor.EmployeeID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(requests), nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (WelfareResponse, error) {
	r, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return WelfareResponse{}, welfareerrors.ErrRequestNotFound
		}
		return WelfareResponse{}, err
	}
	return mapToResponse(*r), nil
}

func (s *service) GetTrail(ctx context.Context, companyID, id string) ([]TrailResponse, error) {
	if _, err := s.repo.FindByIDAndCompany(ctx, companyID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, welfareerrors.ErrRequestNotFound
		}
		return nil, err
	}

	entries, err := s.repo.FindTrail(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := make([]TrailResponse, len(entries))
	for i, e := range entries {
		resp[i] = mapTrail(e)
	}
	return resp, nil
}

func (s *service) Approve(ctx context.Context, actor Actor, id string, req DecisionRequest) (WelfareResponse, error) {
	return s.transition(ctx, actor, id, ActionApprove, transitionParams{signature: req.Signature})
}

func (s *service) Reject(ctx context.Context, actor Actor, id string, req RejectRequest) (WelfareResponse, error) {
	if req.Reason == "" {
		return WelfareResponse{}, welfareerrors.ErrRejectionReasonRequired
	}
	return s.transition(ctx, actor, id, ActionReject, transitionParams{
		signature: req.Signature,
		note:      req.Reason,
	})
}

func (s *service) RequestRevision(ctx context.Context, actor Actor, id string, req RevisionRequest) (WelfareResponse, error) {
	if req.Note == "" {
		return WelfareResponse{}, welfareerrors.ErrRevisionNoteRequired
	}
	return s.transition(ctx, actor, id, ActionRequestRevision, transitionParams{note: req.Note})
}

func (s *service) Resubmit(ctx context.Context, actor Actor, id string) (WelfareResponse, error) {
	return s.transition(ctx, actor, id, ActionResubmit, transitionParams{})
}

type transitionParams struct {
	signature *string
	note      string
}

func (s *service) transition(ctx context.Context, actor Actor, id string, action Action, p transitionParams) (WelfareResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("welfare transition requested",
		zap.String("request_id", rid),
		zap.String("welfare_id", id),
		zap.String("actor_id", actor.EmployeeID),
		zap.String("role", string(actor.Role)),
		zap.String("action", string(action)),
	)

	actorUUID, err := uuid.Parse(actor.EmployeeID)
	if err != nil {
		return WelfareResponse{}, welfareerrors.ErrInvalidActorID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("welfare transition begin tx failed", zap.Error(err))
		return WelfareResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	r, err := qtx.FindByIDAndCompany(ctx, actor.CompanyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return WelfareResponse{}, welfareerrors.ErrRequestNotFound
		}
		return WelfareResponse{}, err
	}

	// Re-approving a completed request is a read, not a transition: return
	// the current state and emit nothing.
	if r.Status == StatusCompleted && action == ActionApprove {
		return mapToResponse(*r), nil
	}

	in := TransitionInput{
		Current:                 r.Status,
		Role:                    actor.Role,
		Action:                  action,
		RequiresSpecialApproval: r.RequiresSpecialApproval,
	}
	if r.ResumeStatus != nil {
		in.ResumeStatus = Status(*r.ResumeStatus)
	}

	next, err := Transition(in)
	if err != nil {
		s.logger.Warn("welfare transition rejected",
			zap.String("welfare_id", id),
			zap.String("from_status", string(r.Status)),
			zap.String("action", string(action)),
			zap.String("role", string(actor.Role)),
			zap.Error(err),
		)
		return WelfareResponse{}, err
	}

	fields := map[string]any{"status": string(next)}
	now := time.Now().UTC()

	switch action {
	case ActionApprove, ActionReject:
		stage, _ := StageFor(r.Status)
		decision := "approved"
		if action == ActionReject {
			decision = "rejected"
		}
		if err := qtx.AppendTrail(ctx, &ApprovalTrailEntry{
			ID:           uuid.New(),
			RequestID:    r.ID,
			Stage:        string(stage),
			Decision:     decision,
			ApproverID:   actorUUID,
			ApproverName: actor.Name,
			Signature:    p.signature,
		}); err != nil {
			s.logger.Error("welfare trail persist failed",
				zap.String("welfare_id", id),
				zap.Error(err),
			)
			return WelfareResponse{}, err
		}
		if action == ActionReject {
			fields["notes"] = p.note
		}

	case ActionRequestRevision:
		fields["revision_note"] = p.note
		fields["revision_requested_by"] = actorUUID
		fields["revision_requested_at"] = now
		fields["resume_status"] = string(r.Status)

	case ActionResubmit:
		if r.EmployeeID != actorUUID {
			return WelfareResponse{}, welfareerrors.ErrNotRequester
		}
		if r.RevisionRequestedAt == nil {
			return WelfareResponse{}, welfareerrors.ErrResumeStageMissing
		}
		added, err := qtx.HasAttachmentSince(ctx, id, *r.RevisionRequestedAt)
		if err != nil {
			return WelfareResponse{}, err
		}
		if !added {
			return WelfareResponse{}, welfareerrors.ErrAttachmentRequired
		}
		fields["revision_note"] = nil
		fields["revision_requested_by"] = nil
		fields["revision_requested_at"] = nil
		fields["resume_status"] = nil
	}

	ok, err := qtx.UpdateStatusCAS(ctx, id, r.Status, fields)
	if err != nil {
		s.logger.Error("welfare transition persist failed",
			zap.String("welfare_id", id),
			zap.Error(err),
		)
		return WelfareResponse{}, err
	}
	if !ok {
		s.logger.Warn("welfare transition lost status race",
			zap.String("welfare_id", id),
			zap.String("expected_status", string(r.Status)),
		)
		return WelfareResponse{}, welfareerrors.ErrConcurrentUpdate
	}

	if err := s.queueStatusEvent(ctx, tx, rid, r, r.Status, next, actor, p.note); err != nil {
		return WelfareResponse{}, err
	}
	if next.Terminal() {
		if err := s.queueFinalizedEvent(ctx, tx, rid, r, next); err != nil {
			return WelfareResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("welfare transition commit failed",
			zap.String("welfare_id", id),
			zap.Error(err),
		)
		return WelfareResponse{}, err
	}

	s.logger.Info("welfare transition success",
		zap.String("request_id", rid),
		zap.String("welfare_id", id),
		zap.String("from_status", string(r.Status)),
		zap.String("to_status", string(next)),
		zap.String("action", string(action)),
	)

	r.Status = next
	r.UpdatedAt = now
	return mapToResponse(*r), nil
}

func (s *service) AddAttachment(ctx context.Context, actor Actor, id string, up AttachmentUpload) (AttachmentResponse, error) {
	actorUUID, err := uuid.Parse(actor.EmployeeID)
	if err != nil {
		return AttachmentResponse{}, welfareerrors.ErrInvalidActorID
	}

	r, err := s.repo.FindByIDAndCompany(ctx, actor.CompanyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttachmentResponse{}, welfareerrors.ErrRequestNotFound
		}
		return AttachmentResponse{}, err
	}

	if r.Status.Terminal() {
		return AttachmentResponse{}, welfareerrors.ErrAttachmentsLocked
	}
	// During revision only the requester may add evidence.
	if r.Status == StatusPendingRevision && r.EmployeeID != actorUUID {
		return AttachmentResponse{}, welfareerrors.ErrNotRequester
	}

	att := &Attachment{
		ID:          uuid.New(),
		RequestID:   r.ID,
		FileName:    up.FileName,
		FilePath:    up.FilePath,
		ContentType: up.ContentType,
		UploadedBy:  actorUUID,
	}
	if err := s.repo.AppendAttachment(ctx, att); err != nil {
		s.logger.Error("append attachment failed",
			zap.String("welfare_id", id),
			zap.Error(err),
		)
		return AttachmentResponse{}, err
	}

	s.logger.Info("attachment added",
		zap.String("welfare_id", id),
		zap.String("file_name", up.FileName),
	)
	return mapAttachment(*att), nil
}

func (s *service) queueStatusEvent(ctx context.Context, tx *sql.Tx, traceID string, r *WelfareRequest, from, to Status, actor Actor, note string) error {
	if s.outbox == nil {
		return nil
	}

	event := events.WelfareStatusChangedEvent{
		EventType:     "welfare_status_changed",
		TraceID:       traceID,
		RequestID:     r.ID.String(),
		RequestNumber: r.RequestNumber,
		CompanyID:     r.CompanyID.String(),
		EmployeeID:    r.EmployeeID.String(),
		RequestType:   r.RequestType,
		Amount:        r.Amount.StringFixed(2),
		FromStatus:    string(from),
		ToStatus:      string(to),
		ActorID:       actor.EmployeeID,
		ActorName:     actor.Name,
		Note:          note,
		OccurredAt:    time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	outboxRepo := s.outbox.WithTx(tx)
	if err := outboxRepo.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		TraceID:       traceID,
		AggregateType: "welfare_request",
		AggregateID:   r.ID.String(),
		EventType:     event.EventType,
		Topic:         events.WelfareStatusChangedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		s.logger.Error("queue status event failed",
			zap.String("welfare_id", r.ID.String()),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *service) queueFinalizedEvent(ctx context.Context, tx *sql.Tx, traceID string, r *WelfareRequest, final Status) error {
	if s.outbox == nil {
		return nil
	}

	event := events.WelfareRequestFinalizedEvent{
		EventType:     "welfare_request_finalized",
		TraceID:       traceID,
		RequestID:     r.ID.String(),
		RequestNumber: r.RequestNumber,
		CompanyID:     r.CompanyID.String(),
		FinalStatus:   string(final),
		OccurredAt:    time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	outboxRepo := s.outbox.WithTx(tx)
	if err := outboxRepo.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		TraceID:       traceID,
		AggregateType: "welfare_request",
		AggregateID:   r.ID.String(),
		EventType:     event.EventType,
		Topic:         events.WelfareRequestFinalizedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		s.logger.Error("queue finalized event failed",
			zap.String("welfare_id", r.ID.String()),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func parseOptionalAmount(v *string) (*decimal.Decimal, error) {
	if v == nil || *v == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(*v)
	if err != nil || d.IsNegative() {
		return nil, welfareerrors.ErrInvalidAmount
	}
	return &d, nil
}
