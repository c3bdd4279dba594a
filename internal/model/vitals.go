package model

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// VitalsRecord is an append-only measurement entry. The numeric fields are
// nullable: malformed input degrades to null instead of failing the write.
type VitalsRecord struct {
	Base
	PatientID              uuid.UUID `json:"patient_id" db:"patient_id"`
	RecordedBy             uuid.UUID `json:"recorded_by" db:"recorded_by"`
	Date                   time.Time `json:"date" db:"date"`
	BloodPressureSystolic  *int      `json:"blood_pressure_systolic" db:"blood_pressure_systolic"`
	BloodPressureDiastolic *int      `json:"blood_pressure_diastolic" db:"blood_pressure_diastolic"`
	Temperature            *float64  `json:"temperature" db:"temperature"`
	Pulse                  *int      `json:"pulse" db:"pulse"`
	OxygenSaturation       *int      `json:"oxygen_saturation" db:"oxygen_saturation"`
	Weight                 *float64  `json:"weight" db:"weight"`
	Height                 *float64  `json:"height" db:"height"`
	Notes                  string    `json:"notes" db:"notes"`
}

// RecordVitalsRequest carries raw form values; parsing is lenient and
// malformed numbers become null.
type RecordVitalsRequest struct {
	BloodPressure string `json:"blood_pressure"`
	Temperature   string `json:"temperature"`
	Pulse         string `json:"pulse"`
	Oxygen        string `json:"oxygen"`
	Weight        string `json:"weight"`
	Height        string `json:"height"`
	Notes         string `json:"notes"`
}

// ParseBloodPressure splits a "systolic/diastolic" string into its two
// components. Each side is kept only when it is a plain unsigned integer;
// anything else, including a missing slash, yields nil for that side.
func ParseBloodPressure(raw string) (systolic, diastolic *int) {
	if raw == "" || !strings.Contains(raw, "/") {
		return nil, nil
	}
	parts := strings.Split(raw, "/")
	if len(parts) != 2 {
		return nil, nil
	}
	if v, err := strconv.Atoi(parts[0]); err == nil && v >= 0 {
		systolic = &v
	}
	if v, err := strconv.Atoi(parts[1]); err == nil && v >= 0 {
		diastolic = &v
	}
	return systolic, diastolic
}

// ParseOptionalInt returns nil for empty or non-numeric input.
func ParseOptionalInt(raw string) *int {
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &v
}

// ParseOptionalFloat returns nil for empty or non-numeric input.
func ParseOptionalFloat(raw string) *float64 {
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}
