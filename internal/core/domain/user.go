package domain

import "time"

// Role is one of the fixed Sol-X roles. Roles carry no ordering; every
// permission check is written against an explicit RoleSet.
type Role string

const (
	RoleMasterAdmin    Role = "MASTER_ADMIN"
	RoleAdmin          Role = "ADMIN"
	RoleProjectManager Role = "PROJECT_MANAGER"
	RoleSiteEngineer   Role = "SITE_ENGINEER"
	RoleViewer         Role = "VIEWER"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return AllRoles.Contains(r)
}

// User models an account held in the credential store.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// PublicUser is the projection of a User that may leave the server.
type PublicUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Public returns the client-safe projection of u.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}

// Identity is the set of claims carried by a bearer token.
type Identity struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
}

// IdentityOf builds the token identity for u.
func IdentityOf(u *User) Identity {
	return Identity{UserID: u.ID, Email: u.Email, Role: u.Role}
}
