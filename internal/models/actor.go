package models

// Role is supplied by the auth layer with every command.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleCustomer
}

// Actor is the verified caller of a command or query.
type Actor struct {
	Role Role `json:"role"`
	ID   uint `json:"id"`
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

func (a Actor) IsCustomer() bool {
	return a.Role == RoleCustomer
}
