package errors

import (
	"net/http"

	"go-welfare/internal/shared/apperror"
)

var (
	ErrNotificationNotFound = apperror.New("NOTIFICATION_NOT_FOUND", "notification not found", http.StatusNotFound)
	ErrNotRecipient         = apperror.New("NOT_RECIPIENT", "notification belongs to another employee", http.StatusForbidden)
)
