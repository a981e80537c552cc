package errors

import (
	"net/http"

	"go-welfare/internal/shared/apperror"
)

var (
	ErrInvalidState    = apperror.New("INVALID_LINK_STATE", "link state is invalid or expired", http.StatusBadRequest)
	ErrExchangeFailed  = apperror.New("LINE_EXCHANGE_FAILED", "could not exchange authorization code", http.StatusBadGateway)
	ErrProfileFailed   = apperror.New("LINE_PROFILE_FAILED", "could not fetch LINE profile", http.StatusBadGateway)
	ErrAlreadyLinked   = apperror.New("LINE_ALREADY_LINKED", "this LINE account is linked to another employee", http.StatusConflict)
	ErrNotLinked       = apperror.New("LINE_NOT_LINKED", "no LINE account linked", http.StatusNotFound)
	ErrLinkingDisabled = apperror.New("LINE_LINKING_DISABLED", "LINE channel is not configured", http.StatusServiceUnavailable)
)
