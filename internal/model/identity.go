package model

import (
	"github.com/google/uuid"
)

// Role is the single role tag of an identity. Exactly one role per
// identity, fixed at signup.
type Role string

const (
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleDoctor, RolePatient, RoleAdmin:
		return true
	}
	return false
}

// Identity represents an authenticated account.
type Identity struct {
	Base
	Username     string `json:"username" db:"username"`
	Email        string `json:"email" db:"email"`
	PasswordHash string `json:"-" db:"password_hash"`
	Role         Role   `json:"role" db:"role"`
	FirstName    string `json:"first_name" db:"first_name"`
	LastName     string `json:"last_name" db:"last_name"`
	Phone        string `json:"phone" db:"phone"`
	Address      string `json:"address" db:"address"`
}

func (i *Identity) FullName() string {
	if i.FirstName == "" && i.LastName == "" {
		return i.Username
	}
	if i.LastName == "" {
		return i.FirstName
	}
	return i.FirstName + " " + i.LastName
}

// SignupRequest creates an identity plus its role profile.
type SignupRequest struct {
	Username  string `json:"username" binding:"required,min=3"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	Role      string `json:"role" binding:"required,oneof=doctor patient"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`

	// Doctor-only fields
	Specialty     string `json:"specialty"`
	LicenseNumber string `json:"license_number"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
}

type TokenClaims struct {
	IdentityID uuid.UUID
	Username   string
	Role       Role
}
