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

type vitalsRepository struct {
	db *sqlx.DB
}

func NewVitalsRepository(db *sqlx.DB) repository.VitalsRepository {
	return &vitalsRepository{db: db}
}

func (r *vitalsRepository) Create(ctx context.Context, rec *model.VitalsRecord) error {
	query := `
		INSERT INTO vitals_records (id, patient_id, recorded_by, date,
			blood_pressure_systolic, blood_pressure_diastolic, temperature,
			pulse, oxygen_saturation, weight, height, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	rec.CreatedAt = time.Now()
	rec.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		rec.ID,
		rec.PatientID,
		rec.RecordedBy,
		rec.Date,
		rec.BloodPressureSystolic,
		rec.BloodPressureDiastolic,
		rec.Temperature,
		rec.Pulse,
		rec.OxygenSaturation,
		rec.Weight,
		rec.Height,
		rec.Notes,
		rec.CreatedAt,
		rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create vitals record: %w", err)
	}
	return nil
}

func (r *vitalsRepository) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.VitalsRecord, error) {
	query := `
		SELECT * FROM vitals_records
		WHERE patient_id = $1
		ORDER BY date DESC
	`
	var records []*model.VitalsRecord
	if err := r.db.SelectContext(ctx, &records, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list vitals records: %w", err)
	}
	return records, nil
}
