package welfare

import (
	welfareerrors "go-welfare/internal/welfare/errors"
)

// Status is the closed set of workflow states a welfare request moves
// through. Requests are never deleted, they only reach a terminal status.
type Status string

const (
	StatusPendingManager          Status = "pending_manager"
	StatusPendingHR               Status = "pending_hr"
	StatusPendingAccounting       Status = "pending_accounting"
	StatusPendingSpecialApproval  Status = "pending_special_approval"
	StatusPendingRevision         Status = "pending_revision"
	StatusCompleted               Status = "completed"
	StatusRejectedManager         Status = "rejected_manager"
	StatusRejectedHR              Status = "rejected_hr"
	StatusRejectedAccounting      Status = "rejected_accounting"
	StatusRejectedSpecialApproval Status = "rejected_special_approval"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPendingManager, StatusPendingHR, StatusPendingAccounting,
		StatusPendingSpecialApproval, StatusPendingRevision, StatusCompleted,
		StatusRejectedManager, StatusRejectedHR, StatusRejectedAccounting,
		StatusRejectedSpecialApproval:
		return true
	}
	return false
}

// Terminal reports whether no further transition is possible.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusRejectedManager, StatusRejectedHR,
		StatusRejectedAccounting, StatusRejectedSpecialApproval:
		return true
	}
	return false
}

// ReviewPending reports whether the status is a stage waiting on an approver
// (pending_revision waits on the requester instead).
func (s Status) ReviewPending() bool {
	switch s {
	case StatusPendingManager, StatusPendingHR, StatusPendingAccounting,
		StatusPendingSpecialApproval:
		return true
	}
	return false
}

// Role is the closed set of workflow actors. Authorization for a transition
// is checked against the acting role before any mutation, never assumed from
// the caller's UI state.
type Role string

const (
	RoleEmployee        Role = "EMPLOYEE"
	RoleManager         Role = "MANAGER"
	RoleHR              Role = "HR"
	RoleAccounting      Role = "ACCOUNTING"
	RoleSpecialApprover Role = "SPECIAL_APPROVER"
)

func ParseRole(v string) (Role, bool) {
	switch Role(v) {
	case RoleEmployee, RoleManager, RoleHR, RoleAccounting, RoleSpecialApprover:
		return Role(v), true
	}
	return "", false
}

type Action string

const (
	ActionApprove         Action = "approve"
	ActionReject          Action = "reject"
	ActionRequestRevision Action = "request_revision"
	ActionResubmit        Action = "resubmit"
)

// Stage identifies an approval-trail stage. Exactly one trail entry exists
// per stage a request actually traversed.
type Stage string

const (
	StageManager    Stage = "manager"
	StageHR         Stage = "hr"
	StageSpecial    Stage = "special"
	StageAccounting Stage = "accounting"
)

// RequestType is the closed set of welfare and accounting request types.
type RequestType string

const (
	TypeWedding          RequestType = "wedding"
	TypeTraining         RequestType = "training"
	TypeChildbirth       RequestType = "childbirth"
	TypeFuneral          RequestType = "funeral"
	TypeGlasses          RequestType = "glasses"
	TypeDental           RequestType = "dental"
	TypeFitness          RequestType = "fitness"
	TypeMedical          RequestType = "medical"
	TypeInternalTraining RequestType = "internal_training"
	TypeAdvance          RequestType = "advance"
	TypeGeneralAdvance   RequestType = "general_advance"
	TypeExpenseClearing  RequestType = "expense_clearing"
)

func (t RequestType) Valid() bool {
	switch t {
	case TypeWedding, TypeTraining, TypeChildbirth, TypeFuneral, TypeGlasses,
		TypeDental, TypeFitness, TypeMedical, TypeInternalTraining,
		TypeAdvance, TypeGeneralAdvance, TypeExpenseClearing:
		return true
	}
	return false
}

// AccountingType reports whether the request is a cash movement handled by
// accounting rather than a welfare benefit.
func (t RequestType) AccountingType() bool {
	switch t {
	case TypeAdvance, TypeGeneralAdvance, TypeExpenseClearing:
		return true
	}
	return false
}

// TrainingType reports whether the special-approval fork can apply.
func (t RequestType) TrainingType() bool {
	return t == TypeTraining || t == TypeInternalTraining
}

// InitialStatus returns the first workflow stage for a new request.
// Accounting cash movements enter directly at the accounting stage; all
// welfare benefits start with the requester's manager.
func InitialStatus(t RequestType) Status {
	if t.AccountingType() {
		return StatusPendingAccounting
	}
	return StatusPendingManager
}

// ReviewerFor returns the role that owns a review stage.
func ReviewerFor(s Status) (Role, bool) {
	switch s {
	case StatusPendingManager:
		return RoleManager, true
	case StatusPendingHR:
		return RoleHR, true
	case StatusPendingSpecialApproval:
		return RoleSpecialApprover, true
	case StatusPendingAccounting:
		return RoleAccounting, true
	}
	return "", false
}

// StageFor maps a review status to its approval-trail stage.
func StageFor(s Status) (Stage, bool) {
	switch s {
	case StatusPendingManager:
		return StageManager, true
	case StatusPendingHR:
		return StageHR, true
	case StatusPendingSpecialApproval:
		return StageSpecial, true
	case StatusPendingAccounting:
		return StageAccounting, true
	}
	return "", false
}

// TransitionInput is everything the transition function needs. It is built
// from the loaded request plus the acting session, keeping the function pure.
type TransitionInput struct {
	Current Status
	Role    Role
	Action  Action

	// RequiresSpecialApproval forks HR approval of training requests into the
	// special-approval stage. Set at submit time from the benefit threshold.
	RequiresSpecialApproval bool

	// ResumeStatus is the stage recorded when the request entered
	// pending_revision; resubmission returns there.
	ResumeStatus Status
}

// Transition computes the next status for an action, or an error when the
// edge does not exist. It performs no I/O and mutates nothing, so every
// rejection here is guaranteed to leave the stored request untouched.
func Transition(in TransitionInput) (Status, error) {
	if in.Current.Terminal() {
		return "", welfareerrors.ErrRequestFinalized
	}

	switch in.Action {
	case ActionApprove, ActionReject:
		reviewer, ok := ReviewerFor(in.Current)
		if !ok {
			return "", welfareerrors.ErrInvalidTransition
		}
		if in.Role != reviewer {
			return "", welfareerrors.ErrRoleNotAllowed
		}
		if in.Action == ActionReject {
			return rejectedStatus(in.Current), nil
		}
		return approvedStatus(in), nil

	case ActionRequestRevision:
		reviewer, ok := ReviewerFor(in.Current)
		if !ok {
			return "", welfareerrors.ErrInvalidTransition
		}
		if in.Role != reviewer {
			return "", welfareerrors.ErrRoleNotAllowed
		}
		return StatusPendingRevision, nil

	case ActionResubmit:
		if in.Current != StatusPendingRevision {
			return "", welfareerrors.ErrInvalidTransition
		}
		if in.Role != RoleEmployee {
			return "", welfareerrors.ErrRoleNotAllowed
		}
		if !in.ResumeStatus.ReviewPending() {
			return "", welfareerrors.ErrResumeStageMissing
		}
		return in.ResumeStatus, nil
	}

	return "", welfareerrors.ErrInvalidTransition
}

func approvedStatus(in TransitionInput) Status {
	switch in.Current {
	case StatusPendingManager:
		return StatusPendingHR
	case StatusPendingHR:
		if in.RequiresSpecialApproval {
			return StatusPendingSpecialApproval
		}
		return StatusPendingAccounting
	case StatusPendingSpecialApproval:
		return StatusPendingAccounting
	case StatusPendingAccounting:
		return StatusCompleted
	}
	// unreachable: ReviewerFor already filtered non-review states
	return in.Current
}

func rejectedStatus(s Status) Status {
	switch s {
	case StatusPendingManager:
		return StatusRejectedManager
	case StatusPendingHR:
		return StatusRejectedHR
	case StatusPendingSpecialApproval:
		return StatusRejectedSpecialApproval
	case StatusPendingAccounting:
		return StatusRejectedAccounting
	}
	return s
}
