package employee

import (
	"time"

	"go-welfare/internal/department"

	"github.com/google/uuid"
)

type Employee struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CompanyID    uuid.UUID  `gorm:"type:uuid;index"`
	DepartmentID *uuid.UUID `gorm:"type:uuid"`
	Department   *department.Department

	EmployeeNumber string `gorm:"type:varchar(20);not null"`
	FullName       string `gorm:"type:varchar(255);not null"`
	Email          string `gorm:"uniqueIndex"`
	Phone          string `gorm:"type:varchar(30)"`

	// Role drives both RBAC and review-stage routing.
	Role string `gorm:"type:varchar(30);not null;index"`

	// LineUserID is set once the employee links their LINE account.
	LineUserID *string `gorm:"type:varchar(64);uniqueIndex"`

	HireDate         time.Time
	EmploymentStatus string `gorm:"type:varchar(20);not null;default:'active'"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Employee) TableName() string { return "employees" }
