package domain

// Role differentiates the gated views.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleMaintenance Role = "maintenance"
	// RoleSubmitter marks changes made through the public submission form.
	RoleSubmitter Role = "submitter"
)

// Valid reports whether r can log in.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleMaintenance
}
