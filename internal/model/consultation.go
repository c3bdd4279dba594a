package model

import (
	"time"

	"github.com/google/uuid"
)

// ConsultationNote is immutable once created.
type ConsultationNote struct {
	Base
	PatientID uuid.UUID `json:"patient_id" db:"patient_id"`
	DoctorID  uuid.UUID `json:"doctor_id" db:"doctor_id"`
	Date      time.Time `json:"date" db:"date"`
	Reason    string    `json:"reason" db:"reason"`
	Diagnosis string    `json:"diagnosis" db:"diagnosis"`
	Treatment string    `json:"treatment" db:"treatment"`
	Notes     string    `json:"notes" db:"notes"`
}

type ConsultationNoteRequest struct {
	PatientID string `json:"patient_id" binding:"required,uuid"`
	Date      string `json:"date" binding:"required"`
	Reason    string `json:"reason" binding:"required"`
	Diagnosis string `json:"diagnosis" binding:"required"`
	Treatment string `json:"treatment" binding:"required"`
	Notes     string `json:"notes"`
}

// DiagnosisRequest is accepted and role-checked but never persisted;
// there is no diagnosis table.
type DiagnosisRequest struct {
	PatientID   string `json:"patient_id" binding:"required,uuid"`
	Date        string `json:"date" binding:"required"`
	Code        string `json:"code"`
	Description string `json:"description" binding:"required"`
	Notes       string `json:"notes"`
}
