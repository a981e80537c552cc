package benefiterrors

import (
	"net/http"

	"go-welfare/internal/shared/apperror"
)

var (
	ErrLimitExceeded = apperror.New(
		apperror.CodeInvalidState,
		"amount exceeds the remaining benefit limit for this period",
		http.StatusBadRequest,
	)
	ErrLimitNotFound = apperror.New(
		apperror.CodeNotFound,
		"no benefit limit is configured for this request type",
		http.StatusNotFound,
	)
	ErrInvalidRequestType = apperror.New(
		apperror.CodeInvalidInput,
		"invalid welfare request type",
		http.StatusBadRequest,
	)
)
