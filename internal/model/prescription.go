package model

import (
	"time"

	"github.com/google/uuid"
)

// Prescription is authored by a doctor for a patient. DatePrescribed is
// set at creation and never updated.
type Prescription struct {
	Base
	PatientID      uuid.UUID `json:"patient_id" db:"patient_id"`
	DoctorID       uuid.UUID `json:"doctor_id" db:"doctor_id"`
	Medication     string    `json:"medication" db:"medication"`
	Dosage         string    `json:"dosage" db:"dosage"`
	Frequency      string    `json:"frequency" db:"frequency"`
	Duration       string    `json:"duration" db:"duration"`
	Instructions   string    `json:"instructions" db:"instructions"`
	RefillsLeft    int       `json:"refills_left" db:"refills_left"`
	DatePrescribed time.Time `json:"date_prescribed" db:"date_prescribed"`
	IsActive       bool      `json:"is_active" db:"is_active"`
}

type PrescribeRequest struct {
	PatientID    string `json:"patient_id" binding:"required,uuid"`
	Medication   string `json:"medication" binding:"required"`
	Dosage       string `json:"dosage" binding:"required"`
	Frequency    string `json:"frequency" binding:"required"`
	Duration     string `json:"duration"`
	Instructions string `json:"instructions"`
	Refills      int    `json:"refills" binding:"min=0"`
}

// RefillRequest is acknowledged but never persisted.
type RefillRequest struct {
	PrescriptionID string `json:"prescription_id" binding:"required,uuid"`
	Notes          string `json:"notes"`
}
