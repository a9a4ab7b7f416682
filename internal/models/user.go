package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID              string          `json:"id"`
	Email           string          `json:"email"`
	FirstName       *string         `json:"first_name,omitempty"`
	LastName        *string         `json:"last_name,omitempty"`
	ProfileImageURL *string         `json:"profile_image_url,omitempty"`
	Role            string          `json:"role"`
	Balance         decimal.Decimal `json:"balance"`
	IsActive        bool            `json:"is_active"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
)

// UpsertUser carries the identity-provider fields merged into the user
// record on every login. Role, balance and the active flag are never
// written through this path.
type UpsertUser struct {
	ID              string  `json:"id"`
	Email           string  `json:"email"`
	FirstName       *string `json:"first_name,omitempty"`
	LastName        *string `json:"last_name,omitempty"`
	ProfileImageURL *string `json:"profile_image_url,omitempty"`
}

// PublicProfile is the subset of user fields exposed to admins alongside
// pending withdrawals.
type PublicProfile struct {
	ID              string  `json:"id"`
	Email           string  `json:"email"`
	FirstName       *string `json:"first_name,omitempty"`
	LastName        *string `json:"last_name,omitempty"`
	ProfileImageURL *string `json:"profile_image_url,omitempty"`
}

func (u *User) Public() PublicProfile {
	return PublicProfile{
		ID:              u.ID,
		Email:           u.Email,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		ProfileImageURL: u.ProfileImageURL,
	}
}

type UserFilter struct {
	Search string
	Limit  int
	Offset int
}

type UserStatusRequest struct {
	IsActive *bool `json:"is_active"`
}

func (r *UserStatusRequest) Validate() error {
	if r.IsActive == nil {
		return ValidationErrors{{Field: "is_active", Message: "is_active is required"}}
	}
	return nil
}
