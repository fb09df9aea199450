package model

import (
	"golang.org/x/crypto/bcrypt"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStaff   Role = "staff"
	RoleKitchen Role = "kitchen"
	RoleDisplay Role = "display"
)

// SuperAdminID is the distinguished account that cannot be deleted and cannot
// be renamed by anyone else.
const SuperAdminID = "0"

// ValidRole reports whether r is one of the four known roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleStaff, RoleKitchen, RoleDisplay:
		return true
	}
	return false
}

// Views returns the screens a role may open. The users screen is visible to
// every authenticated role; mutations inside it are admin-gated separately.
func (r Role) Views() []string {
	switch r {
	case RoleAdmin:
		return []string{"pos", "kitchen", "reports", "users", "display"}
	case RoleStaff:
		return []string{"pos", "users"}
	case RoleKitchen:
		return []string{"kitchen", "users"}
	case RoleDisplay:
		return []string{"display", "users"}
	}
	return nil
}

// User represents an operator account. IDs are short stable strings chosen at
// seed time or by the admin, matching what the login screen shows.
type User struct {
	ID           string `gorm:"type:varchar(64);primaryKey" json:"id"`
	Name         string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Password     string `gorm:"type:varchar(255);not null" json:"-"` // bcrypt hash
	Role         Role   `gorm:"type:varchar(20);not null" json:"role" validate:"required"`
	TokenVersion string `gorm:"type:varchar(64);default:''" json:"-"` // single-session enforcement
}

func (User) TableName() string { return "app_users" }

// SetPassword hashes and sets the user's password.
func (u *User) SetPassword(password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

// CheckPassword verifies the provided password against the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}

// UserResponse is the API shape of a user, without the credential hash.
type UserResponse struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Role  Role     `json:"role"`
	Views []string `json:"views"`
}

func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:    u.ID,
		Name:  u.Name,
		Role:  u.Role,
		Views: u.Role.Views(),
	}
}

// DefaultUsers seeds the stall crew on first boot. Passwords are set at seed
// time from DEFAULT_USER_PASSWORD and hashed before storage.
var DefaultUsers = []User{
	{ID: SuperAdminID, Name: "Coordinator", Role: RoleAdmin},
	{ID: "1", Name: "Manager", Role: RoleAdmin},
	{ID: "2", Name: "Cashier 1", Role: RoleStaff},
	{ID: "3", Name: "Cashier 2", Role: RoleStaff},
	{ID: "99", Name: "Kitchen", Role: RoleKitchen},
	{ID: "100", Name: "Hall Display", Role: RoleDisplay},
}
