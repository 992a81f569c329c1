package models

import "time"

// Intake fields arrive as one flat object from the intake form. Vitals are
// pointers so "not provided" is distinguishable from a measured zero.
type IntakeRecord struct {
	Name                  string   `json:"name,omitempty"`
	Age                   *int     `json:"age,omitempty"`
	Gender                string   `json:"gender,omitempty"` // Male, Female, Other
	SystolicBP            *float64 `json:"systolicBP,omitempty"`
	DiastolicBP           *float64 `json:"diastolicBP,omitempty"`
	HeartRate             *float64 `json:"heartRate,omitempty"`
	Temperature           *float64 `json:"temperature,omitempty"`
	SpO2                  *float64 `json:"spo2,omitempty"`
	RespRate              *float64 `json:"respRate,omitempty"`
	Symptoms              []string `json:"symptoms,omitempty"`
	PreExistingConditions []string `json:"preExistingConditions,omitempty"`
	EHRText               string   `json:"ehrText,omitempty"`
}

// Risk levels.
const (
	RiskLow    = "Low"
	RiskMedium = "Medium"
	RiskHigh   = "High"
)

// Triage priorities.
const (
	PriorityImmediate = "Immediate"
	PriorityUrgent    = "Urgent"
	PriorityRoutine   = "Routine"
)

// Vital statuses.
const (
	VitalStable   = "Stable"
	VitalUnstable = "Unstable"
)

// TriageResult is the structured judgment returned by the reasoning service
// after normalization. severityScore is clamped to [0,100], confidence to [0,1].
type TriageResult struct {
	RiskLevel           string   `json:"riskLevel"`
	TriagePriority      string   `json:"triagePriority"`
	SeverityScore       float64  `json:"severityScore"`
	VitalStatus         string   `json:"vitalStatus"`
	DepartmentPrimary   string   `json:"departmentPrimary"`
	DepartmentSecondary string   `json:"departmentSecondary,omitempty"`
	ContributingFactors []string `json:"contributingFactors"`
	Recommendations     []string `json:"recommendations"`
	Confidence          float64  `json:"confidence"`
}

// SeverityPoint is one day of the dashboard severity trend.
type SeverityPoint struct {
	Day          string  `json:"day"` // UTC date, YYYY-MM-DD
	MeanSeverity float64 `json:"meanSeverity"`
	Count        int     `json:"count"`
}

// DashboardSummary is the read-side aggregate served to the dashboard.
type DashboardSummary struct {
	TotalPatients            int             `json:"totalPatients"`
	HighRisk                 int             `json:"highRisk"`
	MediumRisk               int             `json:"mediumRisk"`
	LowRisk                  int             `json:"lowRisk"`
	UnstableCount            int             `json:"unstableCount"`
	AvgSeverity              float64         `json:"avgSeverity"`
	AvgConfidence            float64         `json:"avgConfidence"`
	DepartmentStats          map[string]int  `json:"departmentStats"`
	SecondaryDepartmentStats map[string]int  `json:"secondaryDepartmentStats,omitempty"`
	SeverityTrend            []SeverityPoint `json:"severityTrend,omitempty"`
}

// Event Bus models
type Event struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"` // triage.completed
	Source    string                 `json:"source"`
	Data      map[string]interface{} `json:"data"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]string      `json:"metadata,omitempty"`
}
