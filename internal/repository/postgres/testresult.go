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

type testResultRepository struct {
	db *sqlx.DB
}

func NewTestResultRepository(db *sqlx.DB) repository.TestResultRepository {
	return &testResultRepository{db: db}
}

func (r *testResultRepository) Create(ctx context.Context, tr *model.TestResult) error {
	query := `
		INSERT INTO test_results (id, patient_id, ordered_by, test_name, test_date,
			result_summary, report_file, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	tr.CreatedAt = time.Now()
	tr.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		tr.ID,
		tr.PatientID,
		tr.OrderedBy,
		tr.TestName,
		tr.TestDate,
		tr.ResultSummary,
		tr.ReportFile,
		tr.Status,
		tr.CreatedAt,
		tr.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create test result: %w", err)
	}
	return nil
}

func (r *testResultRepository) Get(ctx context.Context, id uuid.UUID) (*model.TestResult, error) {
	query := `SELECT * FROM test_results WHERE id = $1`
	var tr model.TestResult
	if err := r.db.GetContext(ctx, &tr, query, id); err != nil {
		return nil, fmt.Errorf("failed to get test result: %w", err)
	}
	return &tr, nil
}

func (r *testResultRepository) Update(ctx context.Context, tr *model.TestResult) error {
	query := `
		UPDATE test_results
		SET status = $1, result_summary = $2, report_file = $3, updated_at = $4
		WHERE id = $5
	`
	if _, err := r.db.ExecContext(ctx, query, tr.Status, tr.ResultSummary, tr.ReportFile, time.Now(), tr.ID); err != nil {
		return fmt.Errorf("failed to update test result: %w", err)
	}
	return nil
}

func (r *testResultRepository) CountPendingByDoctor(ctx context.Context, doctorID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM test_results WHERE ordered_by = $1 AND status = $2`
	var count int
	if err := r.db.GetContext(ctx, &count, query, doctorID, model.TestResultStatusPending); err != nil {
		return 0, fmt.Errorf("failed to count test results: %w", err)
	}
	return count, nil
}

func (r *testResultRepository) ListCompletedByDoctor(ctx context.Context, doctorID uuid.UUID, limit int) ([]*model.TestResult, error) {
	query := `
		SELECT * FROM test_results
		WHERE ordered_by = $1 AND status = $2
		ORDER BY test_date DESC
		LIMIT $3
	`
	var results []*model.TestResult
	if err := r.db.SelectContext(ctx, &results, query, doctorID, model.TestResultStatusCompleted, limit); err != nil {
		return nil, fmt.Errorf("failed to list test results: %w", err)
	}
	return results, nil
}

func (r *testResultRepository) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.TestResult, error) {
	query := `
		SELECT * FROM test_results
		WHERE patient_id = $1
		ORDER BY test_date DESC
	`
	var results []*model.TestResult
	if err := r.db.SelectContext(ctx, &results, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list test results: %w", err)
	}
	return results, nil
}
