package model

type UserRole string

const (
	UserRoleCustomer UserRole = "customer"
	UserRoleBusiness UserRole = "business"
)

// Profile is the backend-managed account record. The gateway reads it
// for display and role checks; all profile writes stay with the backend.
type Profile struct {
	Base
	FullName string   `db:"full_name" json:"full_name"`
	Email    string   `db:"email" json:"email"`
	Phone    string   `db:"phone" json:"phone"`
	Role     UserRole `db:"role" json:"role"`
}
