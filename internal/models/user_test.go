package models

import (
	"testing"

	"github.com/google/uuid"
)

func TestUser_IsAdmin(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		expected bool
	}{
		{"admin user", RoleAdmin, true},
		{"sales user", RoleSales, false},
		{"finance user", RoleFinance, false},
		{"customer", RoleCustomer, false},
		{"empty role", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := &User{Role: tt.role}
			if got := user.IsAdmin(); got != tt.expected {
				t.Errorf("IsAdmin() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUser_IsStaff(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		expected bool
	}{
		{"admin user", RoleAdmin, true},
		{"sales user", RoleSales, true},
		{"finance user", RoleFinance, true},
		{"customer", RoleCustomer, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := &User{Role: tt.role}
			if got := user.IsStaff(); got != tt.expected {
				t.Errorf("IsStaff() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUser_HasRole(t *testing.T) {
	user := &User{Role: RoleFinance}

	if !user.HasRole(RoleAdmin, RoleFinance) {
		t.Error("HasRole(admin, finance) = false, want true")
	}
	if user.HasRole(RoleAdmin, RoleSales) {
		t.Error("HasRole(admin, sales) = true, want false")
	}
	if user.HasRole() {
		t.Error("HasRole() with no roles = true, want false")
	}
}

func TestUser_CanAccessCart(t *testing.T) {
	ownerID := uuid.New()

	tests := []struct {
		name     string
		user     *User
		expected bool
	}{
		{"owner", &User{ID: ownerID, Role: RoleCustomer}, true},
		{"other customer", &User{ID: uuid.New(), Role: RoleCustomer}, false},
		{"admin", &User{ID: uuid.New(), Role: RoleAdmin}, true},
		{"sales", &User{ID: uuid.New(), Role: RoleSales}, true},
		{"finance", &User{ID: uuid.New(), Role: RoleFinance}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.CanAccessCart(ownerID); got != tt.expected {
				t.Errorf("CanAccessCart() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestIsValidRole(t *testing.T) {
	for _, role := range []string{RoleCustomer, RoleSales, RoleFinance, RoleAdmin} {
		if !IsValidRole(role) {
			t.Errorf("IsValidRole(%q) = false, want true", role)
		}
	}
	for _, role := range []string{"", "user", "Admin"} {
		if IsValidRole(role) {
			t.Errorf("IsValidRole(%q) = true, want false", role)
		}
	}
}
