package models

import "time"

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

type User struct {
	ID        int       `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Identity is the authenticated caller as carried by a bearer token.
// A nil *Identity is an anonymous caller.
type Identity struct {
	UserID int
	Email  string
	Role   string
}

func (i *Identity) IsStaff() bool {
	return i != nil && i.Role == RoleAdmin
}
