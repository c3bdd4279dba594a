package model

// DoctorDashboard aggregates everything a doctor sees on login: their
// assigned patients, today's workload and recent results. Every query
// behind it is scoped to the doctor's own profile.
type DoctorDashboard struct {
	Doctor                  *DoctorProfile    `json:"doctor"`
	Patients                []*PatientProfile `json:"patients"`
	TodayAppointmentCount   int               `json:"today_appointment_count"`
	ActivePrescriptionCount int               `json:"active_prescription_count"`
	PendingTestResultCount  int               `json:"pending_test_result_count"`
	TodaysAppointments      []*Appointment    `json:"todays_appointments"`
	UpcomingAppointments    []*Appointment    `json:"upcoming_appointments"`
	CompletedTestResults    []*TestResult     `json:"completed_test_results"`
}

// PatientDashboard aggregates a patient's own records plus the doctor
// roster used for scheduling.
type PatientDashboard struct {
	Profile              *PatientProfile     `json:"profile"`
	Age                  *int                `json:"age"`
	UpcomingAppointments []*Appointment      `json:"upcoming_appointments"`
	ActivePrescriptions  []*Prescription     `json:"active_prescriptions"`
	TestResults          []*TestResult       `json:"test_results"`
	OutstandingBills     []*BillingRecord    `json:"outstanding_bills"`
	Payments             []*Payment          `json:"payments"`
	ConsultationNotes    []*ConsultationNote `json:"consultation_notes"`
	Doctors              []*DoctorProfile    `json:"doctors"`
}

// Dashboard is the role-tagged union returned to the caller. Exactly one
// of the role views is set.
type Dashboard struct {
	Role    Role              `json:"role"`
	Admin   bool              `json:"admin,omitempty"`
	Doctor  *DoctorDashboard  `json:"doctor_view,omitempty"`
	Patient *PatientDashboard `json:"patient_view,omitempty"`
}
