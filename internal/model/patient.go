package model

import (
	"time"

	"github.com/google/uuid"
)

// PatientProfile is the 1:1 clinical profile of a patient identity.
// DoctorID is a weak reference: it nulls out when the doctor is deleted.
type PatientProfile struct {
	Base
	IdentityID            uuid.UUID  `json:"identity_id" db:"identity_id"`
	DoctorID              *uuid.UUID `json:"doctor_id" db:"doctor_id"`
	DOB                   *time.Time `json:"dob" db:"dob"`
	Gender                string     `json:"gender" db:"gender"`
	BloodType             string     `json:"blood_type" db:"blood_type"`
	Height                *float64   `json:"height" db:"height"`
	Weight                *float64   `json:"weight" db:"weight"`
	Allergies             string     `json:"allergies" db:"allergies"`
	MedicalHistory        string     `json:"medical_history" db:"medical_history"`
	ChronicConditions     string     `json:"chronic_conditions" db:"chronic_conditions"`
	CurrentMedications    string     `json:"current_medications" db:"current_medications"`
	EmergencyContactName  string     `json:"emergency_contact_name" db:"emergency_contact_name"`
	EmergencyContactPhone string     `json:"emergency_contact_phone" db:"emergency_contact_phone"`
	RegistrationComplete  bool       `json:"registration_complete" db:"registration_complete"`
	LastVisit             *time.Time `json:"last_visit" db:"last_visit"`

	// Denormalized from the identity row on list/get queries.
	FirstName string `json:"first_name,omitempty" db:"first_name"`
	LastName  string `json:"last_name,omitempty" db:"last_name"`
}

// Age derives the patient's age from date of birth, nil when unknown.
func (p *PatientProfile) Age(now time.Time) *int {
	if p.DOB == nil {
		return nil
	}
	age := now.Year() - p.DOB.Year()
	if now.Month() < p.DOB.Month() ||
		(now.Month() == p.DOB.Month() && now.Day() < p.DOB.Day()) {
		age--
	}
	return &age
}

// CompleteRegistrationRequest fills in the demographic and history fields
// collected after first login. Calling it again overwrites the same profile.
type CompleteRegistrationRequest struct {
	DOB                string `json:"dob" binding:"required"`
	Gender             string `json:"gender" binding:"omitempty,oneof=M F O"`
	BloodType          string `json:"blood_type" binding:"omitempty,bloodtype"`
	Allergies          string `json:"allergies"`
	MedicalHistory     string `json:"medical_history"`
	ChronicConditions  string `json:"chronic_conditions"`
	CurrentMedications string `json:"current_medications"`
}
