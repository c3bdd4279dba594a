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

type billingRepository struct {
	db *sqlx.DB
}

func NewBillingRepository(db *sqlx.DB) repository.BillingRepository {
	return &billingRepository{db: db}
}

func (r *billingRepository) CreateInvoice(ctx context.Context, rec *model.BillingRecord) error {
	query := `
		INSERT INTO billing_records (id, patient_id, invoice_number, date_issued, due_date,
			service_description, amount, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	rec.CreatedAt = time.Now()
	rec.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		rec.ID,
		rec.PatientID,
		rec.InvoiceNumber,
		rec.DateIssued,
		rec.DueDate,
		rec.ServiceDescription,
		rec.Amount,
		rec.Status,
		rec.CreatedAt,
		rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create billing record: %w", err)
	}
	return nil
}

func (r *billingRepository) GetInvoice(ctx context.Context, id uuid.UUID) (*model.BillingRecord, error) {
	query := `SELECT * FROM billing_records WHERE id = $1`
	var rec model.BillingRecord
	if err := r.db.GetContext(ctx, &rec, query, id); err != nil {
		return nil, fmt.Errorf("failed to get billing record: %w", err)
	}
	return &rec, nil
}

func (r *billingRepository) UpdateInvoiceStatus(ctx context.Context, id uuid.UUID, status model.BillingStatus) error {
	query := `UPDATE billing_records SET status = $1, updated_at = $2 WHERE id = $3`
	if _, err := r.db.ExecContext(ctx, query, status, time.Now(), id); err != nil {
		return fmt.Errorf("failed to update billing record status: %w", err)
	}
	return nil
}

func (r *billingRepository) ListPendingForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.BillingRecord, error) {
	query := `
		SELECT * FROM billing_records
		WHERE patient_id = $1 AND status = $2
		ORDER BY due_date ASC
	`
	var records []*model.BillingRecord
	if err := r.db.SelectContext(ctx, &records, query, patientID, model.BillingStatusPending); err != nil {
		return nil, fmt.Errorf("failed to list billing records: %w", err)
	}
	return records, nil
}

func (r *billingRepository) CreatePayment(ctx context.Context, payment *model.Payment) error {
	query := `
		INSERT INTO payments (id, billing_record_id, payment_date, amount, payment_method, receipt, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	payment.CreatedAt = time.Now()
	payment.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		payment.ID,
		payment.BillingRecordID,
		payment.PaymentDate,
		payment.Amount,
		payment.PaymentMethod,
		payment.Receipt,
		payment.CreatedAt,
		payment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

func (r *billingRepository) ListPaymentsForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Payment, error) {
	query := `
		SELECT p.* FROM payments p
		JOIN billing_records b ON b.id = p.billing_record_id
		WHERE b.patient_id = $1
		ORDER BY p.payment_date DESC
	`
	var payments []*model.Payment
	if err := r.db.SelectContext(ctx, &payments, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}

func (r *billingRepository) SumPaymentsForInvoice(ctx context.Context, billingRecordID uuid.UUID) (float64, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM payments WHERE billing_record_id = $1`
	var total float64
	if err := r.db.GetContext(ctx, &total, query, billingRecordID); err != nil {
		return 0, fmt.Errorf("failed to sum payments: %w", err)
	}
	return total, nil
}
