package user

import (
	"time"

	"github.com/google/uuid"
)

// User maps to the users table. The password hash never serializes.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FirstName    string    `db:"first_name" json:"firstName"`
	LastName     string    `db:"last_name" json:"lastName"`
	Role         string    `db:"role" json:"role"`
	Phone        *string   `db:"phone" json:"phone,omitempty"`
	IsActive     bool      `db:"is_active" json:"isActive"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// Stats summarizes the user directory for the admin overview.
type Stats struct {
	TotalUsers     int            `json:"totalUsers"`
	ActiveUsers    int            `json:"activeUsers"`
	InactiveUsers  int            `json:"inactiveUsers"`
	ByRole         map[string]int `json:"byRole"`
	NewLast30Days  int            `json:"newUsersLast30Days"`
}
