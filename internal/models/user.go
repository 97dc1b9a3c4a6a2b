package models

import (
	"time"

	"github.com/google/uuid"
)

// Role constants
const (
	RoleCustomer = "customer"
	RoleSales    = "sales"
	RoleFinance  = "finance"
	RoleAdmin    = "admin"
)

// User is a storefront account. Staff may also sign in through OIDC, in which
// case Sub is set and PasswordHash may be empty.
type User struct {
	ID           uuid.UUID `json:"id"`
	Sub          *string   `json:"-"` // OIDC subject identifier
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"` // customer, sales, finance, admin
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// IsValidRole returns true if role is one of the known roles.
func IsValidRole(role string) bool {
	switch role {
	case RoleCustomer, RoleSales, RoleFinance, RoleAdmin:
		return true
	}
	return false
}

// IsAdmin returns true if the user is an admin.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsStaff returns true for every role except customer.
func (u *User) IsStaff() bool {
	return u.Role == RoleSales || u.Role == RoleFinance || u.Role == RoleAdmin
}

// HasRole returns true if the user holds any of the given roles.
func (u *User) HasRole(roles ...string) bool {
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}

// CanAccessCart returns true if the user may read or modify the given user's cart.
func (u *User) CanAccessCart(ownerID uuid.UUID) bool {
	return u.ID == ownerID || u.IsAdmin() || u.Role == RoleSales
}

// UserUpdate is a partial update of a user. Nil fields are left unchanged.
type UserUpdate struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Role  *string `json:"role"`
}

// IsEmpty returns true if no field is set.
func (u *UserUpdate) IsEmpty() bool {
	return u.Name == nil && u.Email == nil && u.Role == nil
}
