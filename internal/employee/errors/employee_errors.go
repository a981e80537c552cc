package errors

import (
	"net/http"

	"go-welfare/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound   = apperror.New("EMPLOYEE_NOT_FOUND", "employee not found", http.StatusNotFound)
	ErrEmailTaken         = apperror.New("EMAIL_TAKEN", "email already registered", http.StatusConflict)
	ErrDepartmentNotFound = apperror.New("DEPARTMENT_NOT_FOUND", "department not found for this company", http.StatusBadRequest)
	ErrInvalidHireDate    = apperror.New("INVALID_HIRE_DATE", "invalid hire_date format, expected YYYY-MM-DD", http.StatusBadRequest)
	ErrInvalidRole        = apperror.New("INVALID_ROLE", "unknown employee role", http.StatusBadRequest)
)
