package report

import (
	"testing"
	"time"

	"github.com/smart-triage/platform/pkg/common/models"
)

func record(risk, vitals, dept, secondary string, severity, confidence float64, createdAt time.Time) models.PatientRecord {
	return models.PatientRecord{
		RiskLevel:           risk,
		VitalStatus:         vitals,
		DepartmentPrimary:   dept,
		DepartmentSecondary: secondary,
		SeverityScore:       severity,
		Confidence:          confidence,
		CreatedAt:           createdAt,
	}
}

func TestSummarizeCounts(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	records := []models.PatientRecord{
		record(models.RiskHigh, models.VitalUnstable, "Cardiology", "ICU", 90, 0.9, now),
		record(models.RiskHigh, models.VitalStable, "Cardiology", "", 80, 0.8, now),
		record(models.RiskMedium, models.VitalStable, "General Medicine", "", 50, 0.7, now),
		record(models.RiskLow, models.VitalStable, "Orthopedics", "", 20, 0.6, now),
		record(models.RiskLow, models.VitalUnstable, "Emergency Medicine", "Neurology", 35, 0.5, now),
	}

	summary := summarizeAt(records, 7, now)

	if summary.TotalPatients != 5 {
		t.Fatalf("expected 5 patients, got %d", summary.TotalPatients)
	}
	if summary.HighRisk != 2 || summary.MediumRisk != 1 || summary.LowRisk != 2 {
		t.Fatalf("unexpected risk counts: %+v", summary)
	}
	if summary.UnstableCount != 2 {
		t.Fatalf("expected 2 unstable, got %d", summary.UnstableCount)
	}
	// (90+80+50+20+35)/5 = 55.0
	if summary.AvgSeverity != 55.0 {
		t.Fatalf("expected avg severity 55.0, got %v", summary.AvgSeverity)
	}
	// (0.9+0.8+0.7+0.6+0.5)/5 = 0.7
	if summary.AvgConfidence != 0.7 {
		t.Fatalf("expected avg confidence 0.7, got %v", summary.AvgConfidence)
	}
	if summary.DepartmentStats["Cardiology"] != 2 || summary.DepartmentStats["Orthopedics"] != 1 {
		t.Fatalf("unexpected department stats: %v", summary.DepartmentStats)
	}
	if len(summary.SecondaryDepartmentStats) != 2 || summary.SecondaryDepartmentStats["ICU"] != 1 {
		t.Fatalf("unexpected secondary stats: %v", summary.SecondaryDepartmentStats)
	}
}

func TestSummarizeEmptySet(t *testing.T) {
	summary := Summarize(nil, 7)

	if summary.TotalPatients != 0 {
		t.Fatalf("expected zero patients, got %d", summary.TotalPatients)
	}
	if summary.AvgSeverity != 0 || summary.AvgConfidence != 0 {
		t.Fatalf("expected zero averages, got %v / %v", summary.AvgSeverity, summary.AvgConfidence)
	}
	if len(summary.DepartmentStats) != 0 {
		t.Fatalf("expected empty department stats, got %v", summary.DepartmentStats)
	}
	if summary.SecondaryDepartmentStats != nil {
		t.Fatalf("expected nil secondary stats, got %v", summary.SecondaryDepartmentStats)
	}
	if summary.SeverityTrend != nil {
		t.Fatalf("expected nil trend, got %v", summary.SeverityTrend)
	}
}

func TestSummarizeRounding(t *testing.T) {
	now := time.Now().UTC()
	records := []models.PatientRecord{
		record(models.RiskLow, models.VitalStable, "General Medicine", "", 33, 0.333, now),
		record(models.RiskLow, models.VitalStable, "General Medicine", "", 34, 0.334, now),
		record(models.RiskLow, models.VitalStable, "General Medicine", "", 34, 0.334, now),
	}

	summary := Summarize(records, 0)

	// 101/3 = 33.666... -> 33.7 at one decimal place
	if summary.AvgSeverity != 33.7 {
		t.Fatalf("expected 33.7, got %v", summary.AvgSeverity)
	}
	// 1.001/3 = 0.33366... -> 0.33 at two decimal places
	if summary.AvgConfidence != 0.33 {
		t.Fatalf("expected 0.33, got %v", summary.AvgConfidence)
	}
}

func TestSeverityTrendBucketsByDay(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	records := []models.PatientRecord{
		record(models.RiskLow, models.VitalStable, "General Medicine", "", 40, 0.5, now),
		record(models.RiskLow, models.VitalStable, "General Medicine", "", 60, 0.5, now.Add(-2*time.Hour)),
		record(models.RiskLow, models.VitalStable, "General Medicine", "", 80, 0.5, now.AddDate(0, 0, -1)),
		// outside the 7-day window
		record(models.RiskLow, models.VitalStable, "General Medicine", "", 10, 0.5, now.AddDate(0, 0, -10)),
	}

	summary := summarizeAt(records, 7, now)

	if len(summary.SeverityTrend) != 2 {
		t.Fatalf("expected 2 trend days, got %v", summary.SeverityTrend)
	}
	first := summary.SeverityTrend[0]
	if first.Day != "2026-03-09" || first.MeanSeverity != 80 || first.Count != 1 {
		t.Fatalf("unexpected first bucket: %+v", first)
	}
	second := summary.SeverityTrend[1]
	if second.Day != "2026-03-10" || second.MeanSeverity != 50 || second.Count != 2 {
		t.Fatalf("unexpected second bucket: %+v", second)
	}
}
