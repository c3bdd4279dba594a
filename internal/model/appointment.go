package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "Scheduled"
	AppointmentStatusCompleted AppointmentStatus = "Completed"
	AppointmentStatusCancelled AppointmentStatus = "Cancelled"
	AppointmentStatusNoShow    AppointmentStatus = "No Show"
)

// Terminal reports whether no further transitions are allowed.
func (s AppointmentStatus) Terminal() bool {
	return s != AppointmentStatusScheduled
}

// Appointment links one patient and one doctor at a date and time of day.
type Appointment struct {
	Base
	PatientID uuid.UUID         `json:"patient_id" db:"patient_id"`
	DoctorID  uuid.UUID         `json:"doctor_id" db:"doctor_id"`
	Date      time.Time         `json:"date" db:"date"`
	Time      string            `json:"time" db:"time"`
	Reason    string            `json:"reason" db:"reason"`
	Status    AppointmentStatus `json:"status" db:"status"`
}

type ScheduleAppointmentRequest struct {
	DoctorID string `json:"doctor_id" binding:"required,uuid"`
	Date     string `json:"date" binding:"required"`
	Time     string `json:"time" binding:"required"`
	Reason   string `json:"reason" binding:"required"`
}

type UpdateAppointmentStatusRequest struct {
	Status AppointmentStatus `json:"status" binding:"required,oneof=Completed Cancelled 'No Show'"`
}
