package domain

import "time"

// Role enumerates caller roles across the system.
type Role string

const (
	RoleEndUser        Role = "END_USER"
	RoleTechnician     Role = "TECHNICIAN"
	RoleDepartmentHead Role = "DEPARTMENT_HEAD"
	RoleSuperAdmin     Role = "SUPER_ADMIN"
)

// RequiresDepartment reports whether accounts with this role must carry
// a department affiliation.
func (r Role) RequiresDepartment() bool {
	return r == RoleTechnician || r == RoleDepartmentHead
}

// UserStatus represents lifecycle states for an account. Accounts are
// suspended rather than deleted.
type UserStatus string

const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusSuspended UserStatus = "SUSPENDED"
)

// User is the domain model for every account: complainants, technicians,
// department heads and the super-admin.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	DepartmentID *string
	Status       UserStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
