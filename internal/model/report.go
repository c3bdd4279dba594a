package model

// Report types and formats. Only the patient summary PDF is implemented;
// everything else is accepted as input and rejected as unsupported.
const (
	ReportTypePatientSummary = "patientSummary"
	ReportFormatPDF          = "pdf"
)

type ReportRequest struct {
	ReportType string `json:"report_type" binding:"required"`
	PatientID  string `json:"patient_id" binding:"required,uuid"`
	Format     string `json:"format" binding:"required"`
}

// Report is a rendered document ready for download.
type Report struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"-"`
}
