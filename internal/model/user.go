package model

import "time"

// Role is the closed set of user roles.  Values are stored verbatim in
// users.role and compared case-sensitively.
type Role string

const (
	RoleAdministrador Role = "administrador"
	RoleGestor        Role = "gestor"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdministrador || r == RoleGestor
}

// User represents an application user record as stored in the `users`
// table.  PasswordHash and Token never leave the service: they are
// excluded from JSON.
//
// Fields:
//
//	ID           – primary key identifier of the user.
//	Name         – display name.
//	Email        – unique, normalized (lower-case) email address.
//	PasswordHash – bcrypt hashed password.
//	Role         – administrador or gestor.
//	Token        – current session token; nil when logged out.
//	CreatedAt    – timestamp of creation.
//	UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Token        *string   `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserPatch carries the optional fields of a partial user update.  Nil
// fields are left untouched.  Password is the already hashed value.
type UserPatch struct {
	Name         *string
	Email        *string
	PasswordHash *string
	Role         *Role
}

// Empty reports whether the patch changes nothing.
func (p UserPatch) Empty() bool {
	return p.Name == nil && p.Email == nil && p.PasswordHash == nil && p.Role == nil
}
