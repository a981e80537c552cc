package welfareerrors

import (
	"net/http"

	"go-welfare/internal/shared/apperror"
)

var (
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid company id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidRequestType = apperror.New(
		apperror.CodeInvalidInput,
		"invalid welfare request type",
		http.StatusBadRequest,
	)
	ErrInvalidAmount = apperror.New(
		apperror.CodeInvalidInput,
		"amount must be a non-negative number",
		http.StatusBadRequest,
	)
	ErrRequestNotFound = apperror.New(
		apperror.CodeNotFound,
		"welfare request not found",
		http.StatusNotFound,
	)
	ErrInvalidTransition = apperror.New(
		apperror.CodeInvalidState,
		"the request is not in a state that allows this action",
		http.StatusBadRequest,
	)
	ErrRoleNotAllowed = apperror.New(
		apperror.CodeForbidden,
		"your role is not authorized to act on this request at its current stage",
		http.StatusForbidden,
	)
	ErrRequestFinalized = apperror.New(
		apperror.CodeInvalidState,
		"the request has already been finalized",
		http.StatusBadRequest,
	)
	ErrNotRequester = apperror.New(
		apperror.CodeForbidden,
		"only the original requester may resubmit this request",
		http.StatusForbidden,
	)
	ErrRevisionNoteRequired = apperror.New(
		apperror.CodeInvalidInput,
		"revision_note is required when requesting a revision",
		http.StatusBadRequest,
	)
	ErrRejectionReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"reason is required when rejecting a request",
		http.StatusBadRequest,
	)
	ErrAttachmentRequired = apperror.New(
		apperror.CodeInvalidInput,
		"at least one new attachment must be added before resubmitting",
		http.StatusBadRequest,
	)
	ErrAttachmentsLocked = apperror.New(
		apperror.CodeInvalidState,
		"attachments cannot be added to a finalized request",
		http.StatusBadRequest,
	)
	ErrConcurrentUpdate = apperror.New(
		apperror.CodeConflict,
		"the request was modified by another approver, reload and retry",
		http.StatusConflict,
	)
	ErrResumeStageMissing = apperror.New(
		apperror.CodeInvalidState,
		"the request has no recorded stage to resume",
		http.StatusInternalServerError,
	)
)
