package errors

import (
	"net/http"

	"go-welfare/internal/shared/apperror"
)

var ErrDepartmentNotFound = apperror.New("DEPARTMENT_NOT_FOUND", "department not found", http.StatusNotFound)
