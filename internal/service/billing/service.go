package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinicore/ehr-api/internal/model"
	"github.com/clinicore/ehr-api/internal/repository"
	"github.com/clinicore/ehr-api/internal/service/event"
	apperrors "github.com/clinicore/ehr-api/pkg/errors"
	"github.com/clinicore/ehr-api/pkg/logger"
)

// Service owns invoices and the append-only payment ledger. Invoices
// are doctor-issued; payments are patient-recorded against their own
// invoices only.
type Service struct {
	billingRepo repository.BillingRepository
	patientRepo repository.PatientRepository
	eventSvc    *event.Service
	logger      *logger.Logger
	now         func() time.Time
}

func NewService(
	billingRepo repository.BillingRepository,
	patientRepo repository.PatientRepository,
	eventSvc *event.Service,
	logger *logger.Logger,
) *Service {
	return &Service{
		billingRepo: billingRepo,
		patientRepo: patientRepo,
		eventSvc:    eventSvc,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *Service) CreateInvoice(ctx context.Context, claims *model.TokenClaims, req *model.CreateInvoiceRequest) (*model.BillingRecord, error) {
	if claims.Role != model.RoleDoctor {
		return nil, apperrors.Authorization("only doctors can issue invoices")
	}

	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		return nil, apperrors.Validation("invalid patient ID", err)
	}
	patient, err := s.patientRepo.Get(ctx, patientID)
	if err != nil {
		return nil, apperrors.NotFound("patient", err)
	}

	dueDate, err := time.Parse(model.DateOnly, req.DueDate)
	if err != nil {
		return nil, apperrors.Validation("invalid due date", err)
	}

	rec := &model.BillingRecord{
		Base:               model.Base{ID: uuid.New()},
		PatientID:          patient.ID,
		InvoiceNumber:      req.InvoiceNumber,
		DateIssued:         s.now(),
		DueDate:            dueDate,
		ServiceDescription: req.ServiceDescription,
		Amount:             req.Amount,
		Status:             model.BillingStatusPending,
	}

	if err := s.billingRepo.CreateInvoice(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}

	if err := s.eventSvc.Emit(ctx, "invoice.created", rec); err != nil {
		s.logger.Error(err, "failed to emit invoice.created event", "invoice_id", rec.ID.String())
	}

	return rec, nil
}

// RecordPayment appends a payment against one of the caller's own
// invoices. Once the payment sum reaches the invoice amount the invoice
// flips to Paid.
func (s *Service) RecordPayment(ctx context.Context, claims *model.TokenClaims, req *model.RecordPaymentRequest) (*model.Payment, error) {
	if claims.Role != model.RolePatient {
		return nil, apperrors.Authorization("only patients can record payments")
	}

	patient, err := s.patientRepo.GetByIdentity(ctx, claims.IdentityID)
	if err != nil {
		return nil, apperrors.NotFound("patient profile", err)
	}

	invoiceID, err := uuid.Parse(req.BillingRecordID)
	if err != nil {
		return nil, apperrors.Validation("invalid billing record ID", err)
	}
	invoice, err := s.billingRepo.GetInvoice(ctx, invoiceID)
	if err != nil {
		return nil, apperrors.NotFound("billing record", err)
	}
	if invoice.PatientID != patient.ID {
		return nil, apperrors.Authorization("invoice belongs to another patient")
	}

	payment := &model.Payment{
		Base:            model.Base{ID: uuid.New()},
		BillingRecordID: invoice.ID,
		PaymentDate:     s.now(),
		Amount:          req.Amount,
		PaymentMethod:   req.PaymentMethod,
		Receipt:         req.Receipt,
	}

	if err := s.billingRepo.CreatePayment(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	if err := s.settleIfPaid(ctx, invoice); err != nil {
		// The payment itself is committed; settlement retries on the
		// next payment against this invoice.
		s.logger.Error(err, "failed to settle invoice", "invoice_id", invoice.ID.String())
	}

	if err := s.eventSvc.Emit(ctx, "payment.recorded", payment); err != nil {
		s.logger.Error(err, "failed to emit payment.recorded event", "payment_id", payment.ID.String())
	}

	return payment, nil
}

func (s *Service) settleIfPaid(ctx context.Context, invoice *model.BillingRecord) error {
	if invoice.Status != model.BillingStatusPending {
		return nil
	}

	total, err := s.billingRepo.SumPaymentsForInvoice(ctx, invoice.ID)
	if err != nil {
		return fmt.Errorf("failed to sum payments: %w", err)
	}
	if total < invoice.Amount {
		return nil
	}

	if err := s.billingRepo.UpdateInvoiceStatus(ctx, invoice.ID, model.BillingStatusPaid); err != nil {
		return fmt.Errorf("failed to mark invoice paid: %w", err)
	}
	invoice.Status = model.BillingStatusPaid

	if err := s.eventSvc.Emit(ctx, "invoice.paid", invoice); err != nil {
		s.logger.Error(err, "failed to emit invoice.paid event", "invoice_id", invoice.ID.String())
	}
	return nil
}
