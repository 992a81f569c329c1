package models

import (
	"time"

	"gorm.io/datatypes"
)

// PatientRecord is the persisted union of one intake submission and its
// normalized triage result. Records are written once at triage time and are
// never updated or deleted.
type PatientRecord struct {
	ID     string `json:"id" gorm:"primaryKey;column:id"`
	Name   string `json:"name,omitempty" gorm:"column:name"`
	Age    *int   `json:"age,omitempty" gorm:"column:age"`
	Gender string `json:"gender,omitempty" gorm:"column:gender"`

	SystolicBP  *float64 `json:"systolicBP,omitempty" gorm:"column:systolic_bp"`
	DiastolicBP *float64 `json:"diastolicBP,omitempty" gorm:"column:diastolic_bp"`
	HeartRate   *float64 `json:"heartRate,omitempty" gorm:"column:heart_rate"`
	Temperature *float64 `json:"temperature,omitempty" gorm:"column:temperature"`
	SpO2        *float64 `json:"spo2,omitempty" gorm:"column:spo2"`
	RespRate    *float64 `json:"respRate,omitempty" gorm:"column:resp_rate"`

	Symptoms              datatypes.JSONSlice[string] `json:"symptoms" gorm:"column:symptoms"`
	PreExistingConditions datatypes.JSONSlice[string] `json:"preExistingConditions" gorm:"column:pre_existing_conditions"`
	EHRText               string                      `json:"ehrText,omitempty" gorm:"column:ehr_text;type:text"`

	RiskLevel           string                      `json:"riskLevel" gorm:"column:risk_level;index"`
	TriagePriority      string                      `json:"triagePriority" gorm:"column:triage_priority"`
	SeverityScore       float64                     `json:"severityScore" gorm:"column:severity_score"`
	VitalStatus         string                      `json:"vitalStatus" gorm:"column:vital_status"`
	DepartmentPrimary   string                      `json:"departmentPrimary" gorm:"column:department_primary;index"`
	DepartmentSecondary string                      `json:"departmentSecondary,omitempty" gorm:"column:department_secondary"`
	ContributingFactors datatypes.JSONSlice[string] `json:"contributingFactors" gorm:"column:contributing_factors"`
	Recommendations     datatypes.JSONSlice[string] `json:"recommendations" gorm:"column:recommendations"`
	Confidence          float64                     `json:"confidence" gorm:"column:confidence"`

	PromptVersion string    `json:"promptVersion,omitempty" gorm:"column:prompt_version"`
	CreatedAt     time.Time `json:"createdAt" gorm:"column:created_at;index:,sort:desc"`
}

func (PatientRecord) TableName() string {
	return "patient_records"
}

// NewPatientRecord combines an intake and its normalized result.
func NewPatientRecord(id string, intake IntakeRecord, result TriageResult, promptVersion string) *PatientRecord {
	return &PatientRecord{
		ID:          id,
		Name:        intake.Name,
		Age:         intake.Age,
		Gender:      intake.Gender,
		SystolicBP:  intake.SystolicBP,
		DiastolicBP: intake.DiastolicBP,
		HeartRate:   intake.HeartRate,
		Temperature: intake.Temperature,
		SpO2:        intake.SpO2,
		RespRate:    intake.RespRate,

		Symptoms:              datatypes.NewJSONSlice(sliceOrEmpty(intake.Symptoms)),
		PreExistingConditions: datatypes.NewJSONSlice(sliceOrEmpty(intake.PreExistingConditions)),
		EHRText:               intake.EHRText,

		RiskLevel:           result.RiskLevel,
		TriagePriority:      result.TriagePriority,
		SeverityScore:       result.SeverityScore,
		VitalStatus:         result.VitalStatus,
		DepartmentPrimary:   result.DepartmentPrimary,
		DepartmentSecondary: result.DepartmentSecondary,
		ContributingFactors: datatypes.NewJSONSlice(sliceOrEmpty(result.ContributingFactors)),
		Recommendations:     datatypes.NewJSONSlice(sliceOrEmpty(result.Recommendations)),
		Confidence:          result.Confidence,

		PromptVersion: promptVersion,
	}
}

// Result re-derives the triage result view of a stored record.
func (r *PatientRecord) Result() TriageResult {
	return TriageResult{
		RiskLevel:           r.RiskLevel,
		TriagePriority:      r.TriagePriority,
		SeverityScore:       r.SeverityScore,
		VitalStatus:         r.VitalStatus,
		DepartmentPrimary:   r.DepartmentPrimary,
		DepartmentSecondary: r.DepartmentSecondary,
		ContributingFactors: sliceOrEmpty(r.ContributingFactors),
		Recommendations:     sliceOrEmpty(r.Recommendations),
		Confidence:          r.Confidence,
	}
}

func sliceOrEmpty(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
