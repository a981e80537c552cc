package errors

import (
	"net/http"

	"go-welfare/internal/shared/apperror"
)

var (
	ErrInvalidCredentials     = apperror.New("INVALID_CREDENTIALS", "invalid email or password", http.StatusUnauthorized)
	ErrInvalidToken           = apperror.New("INVALID_TOKEN", "invalid token", http.StatusUnauthorized)
	ErrInvalidRefreshToken    = apperror.New("INVALID_REFRESH_TOKEN", "invalid or expired refresh token", http.StatusUnauthorized)
	ErrInvalidUserID          = apperror.New("INVALID_USER_ID", "invalid user id", http.StatusBadRequest)
	ErrUserNotFound           = apperror.New("USER_NOT_FOUND", "user not found", http.StatusNotFound)
	ErrUserInactive           = apperror.New("USER_INACTIVE", "user account is disabled", http.StatusForbidden)
	ErrEmailAlreadyRegistered = apperror.New("EMAIL_ALREADY_REGISTERED", "email already registered", http.StatusConflict)
	ErrTokenGenerationFailed  = apperror.New("TOKEN_GENERATION_FAILED", "could not generate token", http.StatusInternalServerError)
	ErrTokenExpired           = apperror.New("TOKEN_EXPIRED", "token has expired", http.StatusUnauthorized)
	ErrForbidden              = apperror.New("FORBIDDEN", "you do not have permission to access this resource", http.StatusForbidden)
)
