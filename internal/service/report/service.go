package report

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"

	"github.com/clinicore/ehr-api/internal/model"
	"github.com/clinicore/ehr-api/internal/repository"
	apperrors "github.com/clinicore/ehr-api/pkg/errors"
)

// Service renders downloadable reports. The only supported combination
// is the patient summary as PDF; unknown types and formats are rejected
// before any data is loaded.
type Service struct {
	patientRepo      repository.PatientRepository
	identityRepo     repository.IdentityRepository
	appointmentRepo  repository.AppointmentRepository
	prescriptionRepo repository.PrescriptionRepository
	testResultRepo   repository.TestResultRepository
	consultationRepo repository.ConsultationRepository
}

func NewService(
	patientRepo repository.PatientRepository,
	identityRepo repository.IdentityRepository,
	appointmentRepo repository.AppointmentRepository,
	prescriptionRepo repository.PrescriptionRepository,
	testResultRepo repository.TestResultRepository,
	consultationRepo repository.ConsultationRepository,
) *Service {
	return &Service{
		patientRepo:      patientRepo,
		identityRepo:     identityRepo,
		appointmentRepo:  appointmentRepo,
		prescriptionRepo: prescriptionRepo,
		testResultRepo:   testResultRepo,
		consultationRepo: consultationRepo,
	}
}

func (s *Service) Generate(ctx context.Context, claims *model.TokenClaims, req *model.ReportRequest) (*model.Report, error) {
	if claims.Role != model.RoleDoctor {
		return nil, apperrors.Authorization("only doctors can export reports")
	}
	if req.ReportType != model.ReportTypePatientSummary {
		return nil, apperrors.Unsupported(fmt.Sprintf("unknown report type %q", req.ReportType))
	}
	if req.Format != model.ReportFormatPDF {
		return nil, apperrors.Unsupported(fmt.Sprintf("unknown report format %q", req.Format))
	}

	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		return nil, apperrors.Validation("invalid patient ID", err)
	}
	patient, err := s.patientRepo.Get(ctx, patientID)
	if err != nil {
		return nil, apperrors.NotFound("patient", err)
	}
	identity, err := s.identityRepo.Get(ctx, patient.IdentityID)
	if err != nil {
		return nil, apperrors.NotFound("patient identity", err)
	}

	appointments, err := s.appointmentRepo.ListForPatient(ctx, patient.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	prescriptions, err := s.prescriptionRepo.ListForPatient(ctx, patient.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list prescriptions: %w", err)
	}
	testResults, err := s.testResultRepo.ListForPatient(ctx, patient.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list test results: %w", err)
	}
	notes, err := s.consultationRepo.ListForPatient(ctx, patient.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list consultation notes: %w", err)
	}

	data, err := s.renderSummary(identity, patient, appointments, prescriptions, testResults, notes)
	if err != nil {
		return nil, apperrors.RenderFailure(err)
	}

	return &model.Report{
		Filename:    fmt.Sprintf("patient_summary_%s.pdf", identity.Username),
		ContentType: "application/pdf",
		Data:        data,
	}, nil
}

func (s *Service) renderSummary(
	identity *model.Identity,
	patient *model.PatientProfile,
	appointments []*model.Appointment,
	prescriptions []*model.Prescription,
	testResults []*model.TestResult,
	notes []*model.ConsultationNote,
) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Patient Summary", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	s.writeProfile(pdf, identity, patient)
	s.writeAppointments(pdf, appointments)
	s.writePrescriptions(pdf, prescriptions)
	s.writeTestResults(pdf, testResults)
	s.writeNotes(pdf, notes)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *Service) writeProfile(pdf *gofpdf.Fpdf, identity *model.Identity, patient *model.PatientProfile) {
	sectionHeader(pdf, "Profile")

	field(pdf, "Name", identity.FullName())
	field(pdf, "Email", identity.Email)
	if patient.DOB != nil {
		field(pdf, "Date of Birth", patient.DOB.Format(model.DateOnly))
	}
	if patient.Gender != "" {
		field(pdf, "Gender", patient.Gender)
	}
	if patient.BloodType != "" {
		field(pdf, "Blood Type", patient.BloodType)
	}
	if patient.Allergies != "" {
		field(pdf, "Allergies", patient.Allergies)
	}
	if patient.ChronicConditions != "" {
		field(pdf, "Chronic Conditions", patient.ChronicConditions)
	}
	if patient.MedicalHistory != "" {
		field(pdf, "Medical History", patient.MedicalHistory)
	}
	pdf.Ln(4)
}

func (s *Service) writeAppointments(pdf *gofpdf.Fpdf, appointments []*model.Appointment) {
	sectionHeader(pdf, "Appointments")
	if len(appointments) == 0 {
		emptyLine(pdf, "No appointments on record.")
		return
	}
	for _, apt := range appointments {
		line(pdf, fmt.Sprintf("%s %s  %s (%s)",
			apt.Date.Format(model.DateOnly), apt.Time, apt.Reason, apt.Status))
	}
	pdf.Ln(4)
}

func (s *Service) writePrescriptions(pdf *gofpdf.Fpdf, prescriptions []*model.Prescription) {
	sectionHeader(pdf, "Prescriptions")
	if len(prescriptions) == 0 {
		emptyLine(pdf, "No prescriptions on record.")
		return
	}
	for _, p := range prescriptions {
		line(pdf, fmt.Sprintf("%s  %s %s, %s (%d refills left)",
			p.DatePrescribed.Format(model.DateOnly), p.Medication, p.Dosage, p.Frequency, p.RefillsLeft))
	}
	pdf.Ln(4)
}

func (s *Service) writeTestResults(pdf *gofpdf.Fpdf, testResults []*model.TestResult) {
	sectionHeader(pdf, "Test Results")
	if len(testResults) == 0 {
		emptyLine(pdf, "No test results on record.")
		return
	}
	for _, tr := range testResults {
		entry := fmt.Sprintf("%s  %s (%s)", tr.TestDate.Format(model.DateOnly), tr.TestName, tr.Status)
		if tr.ResultSummary != "" {
			entry += ": " + tr.ResultSummary
		}
		line(pdf, entry)
	}
	pdf.Ln(4)
}

func (s *Service) writeNotes(pdf *gofpdf.Fpdf, notes []*model.ConsultationNote) {
	sectionHeader(pdf, "Consultation Notes")
	if len(notes) == 0 {
		emptyLine(pdf, "No consultation notes on record.")
		return
	}
	for _, n := range notes {
		line(pdf, fmt.Sprintf("%s  %s", n.Date.Format(model.DateOnly), n.Reason))
		line(pdf, fmt.Sprintf("    Diagnosis: %s", n.Diagnosis))
		line(pdf, fmt.Sprintf("    Treatment: %s", n.Treatment))
	}
	pdf.Ln(4)
}

func sectionHeader(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, title, "B", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.Ln(1)
}

func field(pdf *gofpdf.Fpdf, label, value string) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(45, 6, label+":", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(0, 6, value, "", "L", false)
}

func line(pdf *gofpdf.Fpdf, text string) {
	pdf.MultiCell(0, 6, text, "", "L", false)
}

func emptyLine(pdf *gofpdf.Fpdf, text string) {
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, text, "", "L", false)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Ln(4)
}
