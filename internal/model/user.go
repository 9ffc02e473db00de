package model

import (
	"sort"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// User represents an authenticated user in the system. Users are provisioned
// out-of-band; there is no self-registration.
type User struct {
	BaseModel
	Username string  `gorm:"type:varchar(255);uniqueIndex;not null" json:"username" validate:"required"`
	Password string  `gorm:"type:varchar(255);not null" json:"-"` // Hidden from JSON
	Email    *string `gorm:"type:varchar(255);uniqueIndex" json:"email,omitempty"`
	Roles    []Role  `gorm:"many2many:user_roles;" json:"roles,omitempty"`
}

// SetPassword hashes and sets the user's password
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// EffectivePermissions returns the deduplicated union of the permission IDs
// granted by every role assigned to the user, in ascending order. A
// permission reachable through two roles counts once.
func (u *User) EffectivePermissions() []uint {
	seen := make(map[uint]struct{})
	for _, role := range u.Roles {
		for _, p := range role.Permissions {
			seen[p.ID] = struct{}{}
		}
	}
	perms := make([]uint, 0, len(seen))
	for id := range seen {
		perms = append(perms, id)
	}
	sort.Slice(perms, func(i, j int) bool { return perms[i] < perms[j] })
	return perms
}

// UserResponse is used for API responses (without sensitive data)
type UserResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    *string   `json:"email,omitempty"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
	}
}
