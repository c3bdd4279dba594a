package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/clinicore/ehr-api/internal/model"
	"github.com/clinicore/ehr-api/internal/repository"
)

type appointmentRepository struct {
	db *sqlx.DB
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{db: db}
}

func (r *appointmentRepository) Create(ctx context.Context, apt *model.Appointment) error {
	query := `
		INSERT INTO appointments (id, patient_id, doctor_id, date, time, reason, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	apt.CreatedAt = time.Now()
	apt.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		apt.ID,
		apt.PatientID,
		apt.DoctorID,
		apt.Date,
		apt.Time,
		apt.Reason,
		apt.Status,
		apt.CreatedAt,
		apt.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `SELECT * FROM appointments WHERE id = $1`
	var apt model.Appointment
	if err := r.db.GetContext(ctx, &apt, query, id); err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &apt, nil
}

func (r *appointmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus) error {
	query := `UPDATE appointments SET status = $1, updated_at = $2 WHERE id = $3`
	if _, err := r.db.ExecContext(ctx, query, status, time.Now(), id); err != nil {
		return fmt.Errorf("failed to update appointment status: %w", err)
	}
	return nil
}

func (r *appointmentRepository) CountForDoctorOnDate(ctx context.Context, doctorID uuid.UUID, date time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM appointments WHERE doctor_id = $1 AND date = $2`
	var count int
	if err := r.db.GetContext(ctx, &count, query, doctorID, date); err != nil {
		return 0, fmt.Errorf("failed to count appointments: %w", err)
	}
	return count, nil
}

func (r *appointmentRepository) ListForDoctorOnDate(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]*model.Appointment, error) {
	query := `
		SELECT * FROM appointments
		WHERE doctor_id = $1 AND date = $2
		ORDER BY time ASC
	`
	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, doctorID, date); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListUpcomingForDoctor(ctx context.Context, doctorID uuid.UUID, after time.Time, limit int) ([]*model.Appointment, error) {
	query := `
		SELECT * FROM appointments
		WHERE doctor_id = $1 AND date > $2
		ORDER BY date ASC, time ASC
		LIMIT $3
	`
	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, doctorID, after, limit); err != nil {
		return nil, fmt.Errorf("failed to list upcoming appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListUpcomingForPatient(ctx context.Context, patientID uuid.UUID, from time.Time) ([]*model.Appointment, error) {
	query := `
		SELECT * FROM appointments
		WHERE patient_id = $1 AND date >= $2
		ORDER BY date ASC, time ASC
	`
	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, patientID, from); err != nil {
		return nil, fmt.Errorf("failed to list upcoming appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Appointment, error) {
	query := `
		SELECT * FROM appointments
		WHERE patient_id = $1
		ORDER BY date DESC, time DESC
	`
	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}
