package model

import (
	"time"

	"github.com/google/uuid"
)

type TestResultStatus string

const (
	TestResultStatusPending   TestResultStatus = "Pending"
	TestResultStatusCompleted TestResultStatus = "Completed"
	TestResultStatusAbnormal  TestResultStatus = "Abnormal"
	TestResultStatusCritical  TestResultStatus = "Critical"
)

// TestResult is ordered by a doctor for a patient. ReportFile holds a
// storage reference only; the file itself lives outside this service.
type TestResult struct {
	Base
	PatientID     uuid.UUID        `json:"patient_id" db:"patient_id"`
	OrderedBy     uuid.UUID        `json:"ordered_by" db:"ordered_by"`
	TestName      string           `json:"test_name" db:"test_name"`
	TestDate      time.Time        `json:"test_date" db:"test_date"`
	ResultSummary string           `json:"result_summary" db:"result_summary"`
	ReportFile    *string          `json:"report_file" db:"report_file"`
	Status        TestResultStatus `json:"status" db:"status"`
}

type OrderTestRequest struct {
	PatientID     string `json:"patient_id" binding:"required,uuid"`
	TestName      string `json:"test_name" binding:"required"`
	TestDate      string `json:"test_date" binding:"required"`
	ResultSummary string `json:"result_summary"`
}

type UpdateTestResultRequest struct {
	Status        TestResultStatus `json:"status" binding:"required,oneof=Pending Completed Abnormal Critical"`
	ResultSummary string           `json:"result_summary"`
	ReportFile    *string          `json:"report_file"`
}
