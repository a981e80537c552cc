package welfare

// Actor is the explicit session context passed into every workflow
// operation. Handlers build it from the verified JWT claims; services never
// look identity up ambiently.
type Actor struct {
	UserID     string
	EmployeeID string
	CompanyID  string
	Name       string
	Role       Role
}
