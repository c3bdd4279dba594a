package model

import (
	"time"

	"github.com/google/uuid"
)

// Base contains common fields for all models
type Base struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// JSONMap represents a generic JSON object
type JSONMap map[string]interface{}

// DateOnly is the wire format for date fields.
const DateOnly = "2006-01-02"

// TimeOnly is the wire format for time-of-day fields.
const TimeOnly = "15:04"
