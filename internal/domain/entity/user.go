package entity

import "github.com/google/uuid"

// Roles known to the back office
const (
	RoleAdmin  = "admin"
	RoleSeller = "seller"
)

// User is the signed-in back-office user as reported by the API
type User struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
}

// HasRole checks if the user holds any of the given roles
func (u *User) HasRole(roles ...string) bool {
	if u == nil {
		return false
	}
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}
