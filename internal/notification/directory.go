package notification

import (
	"context"

	"go-welfare/internal/employee"
)

type employeeDirectory struct {
	repo employee.Repository
}

// NewEmployeeDirectory adapts the employee repository into the recipient
// lookup the dispatcher needs.
func NewEmployeeDirectory(repo employee.Repository) Directory {
	return &employeeDirectory{repo: repo}
}

func (d *employeeDirectory) FindByRole(ctx context.Context, companyID, role string) ([]Recipient, error) {
	employees, err := d.repo.FindByRole(ctx, companyID, role)
	if err != nil {
		return nil, err
	}
	out := make([]Recipient, len(employees))
	for i, e := range employees {
		out[i] = toRecipient(e)
	}
	return out, nil
}

func (d *employeeDirectory) FindByEmployeeID(ctx context.Context, companyID, employeeID string) (*Recipient, error) {
	e, err := d.repo.FindByIDAndCompany(ctx, companyID, employeeID)
	if err != nil {
		if employee.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	r := toRecipient(*e)
	return &r, nil
}

func toRecipient(e employee.Employee) Recipient {
	r := Recipient{
		EmployeeID: e.ID.String(),
		FullName:   e.FullName,
	}
	if e.LineUserID != nil {
		r.LineUserID = *e.LineUserID
	}
	return r
}
