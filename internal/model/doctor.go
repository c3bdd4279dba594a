package model

import (
	"github.com/google/uuid"
)

// DoctorProfile is the 1:1 clinical profile of a doctor identity.
type DoctorProfile struct {
	Base
	IdentityID    uuid.UUID `json:"identity_id" db:"identity_id"`
	Specialty     string    `json:"specialty" db:"specialty"`
	LicenseNumber string    `json:"license_number" db:"license_number"`

	// Denormalized from the identity row on list/get queries.
	FirstName string `json:"first_name,omitempty" db:"first_name"`
	LastName  string `json:"last_name,omitempty" db:"last_name"`
}
