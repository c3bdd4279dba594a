package model

import (
	"time"

	"github.com/google/uuid"
)

type BillingStatus string

const (
	BillingStatusPending   BillingStatus = "Pending"
	BillingStatusPaid      BillingStatus = "Paid"
	BillingStatusOverdue   BillingStatus = "Overdue"
	BillingStatusCancelled BillingStatus = "Cancelled"
)

// BillingRecord is an invoice issued to a patient. InvoiceNumber is unique.
type BillingRecord struct {
	Base
	PatientID          uuid.UUID     `json:"patient_id" db:"patient_id"`
	InvoiceNumber      string        `json:"invoice_number" db:"invoice_number"`
	DateIssued         time.Time     `json:"date_issued" db:"date_issued"`
	DueDate            time.Time     `json:"due_date" db:"due_date"`
	ServiceDescription string        `json:"service_description" db:"service_description"`
	Amount             float64       `json:"amount" db:"amount"`
	Status             BillingStatus `json:"status" db:"status"`
}

// Payment is an append-only entry against a billing record. Receipt holds
// a storage reference only.
type Payment struct {
	Base
	BillingRecordID uuid.UUID `json:"billing_record_id" db:"billing_record_id"`
	PaymentDate     time.Time `json:"payment_date" db:"payment_date"`
	Amount          float64   `json:"amount" db:"amount"`
	PaymentMethod   string    `json:"payment_method" db:"payment_method"`
	Receipt         *string   `json:"receipt" db:"receipt"`
}

type CreateInvoiceRequest struct {
	PatientID          string  `json:"patient_id" binding:"required,uuid"`
	InvoiceNumber      string  `json:"invoice_number" binding:"required"`
	DueDate            string  `json:"due_date" binding:"required"`
	ServiceDescription string  `json:"service_description" binding:"required"`
	Amount             float64 `json:"amount" binding:"required,gt=0"`
}

type RecordPaymentRequest struct {
	BillingRecordID string  `json:"billing_record_id" binding:"required,uuid"`
	Amount          float64 `json:"amount" binding:"required,gt=0"`
	PaymentMethod   string  `json:"payment_method" binding:"required,paymentmethod"`
	Receipt         *string `json:"receipt"`
}
