package report

import (
	"math"
	"sort"
	"time"

	"github.com/smart-triage/platform/pkg/common/models"
)

// Summarize computes the dashboard aggregate over the given records. It is a
// pure read-side computation, recomputed in full on every call. Averages are
// 0 for an empty record set.
func Summarize(records []models.PatientRecord, trendDays int) models.DashboardSummary {
	return summarizeAt(records, trendDays, time.Now().UTC())
}

func summarizeAt(records []models.PatientRecord, trendDays int, now time.Time) models.DashboardSummary {
	summary := models.DashboardSummary{
		TotalPatients:   len(records),
		DepartmentStats: make(map[string]int),
	}

	var severitySum, confidenceSum float64
	secondary := make(map[string]int)

	for _, rec := range records {
		switch rec.RiskLevel {
		case models.RiskHigh:
			summary.HighRisk++
		case models.RiskMedium:
			summary.MediumRisk++
		case models.RiskLow:
			summary.LowRisk++
		}

		if rec.VitalStatus == models.VitalUnstable {
			summary.UnstableCount++
		}

		severitySum += rec.SeverityScore
		confidenceSum += rec.Confidence

		if rec.DepartmentPrimary != "" {
			summary.DepartmentStats[rec.DepartmentPrimary]++
		}
		if rec.DepartmentSecondary != "" {
			secondary[rec.DepartmentSecondary]++
		}
	}

	if len(records) > 0 {
		summary.AvgSeverity = round(severitySum/float64(len(records)), 1)
		summary.AvgConfidence = round(confidenceSum/float64(len(records)), 2)
	}
	if len(secondary) > 0 {
		summary.SecondaryDepartmentStats = secondary
	}
	summary.SeverityTrend = severityTrend(records, trendDays, now)

	return summary
}

// severityTrend buckets mean severity by UTC day over the most recent window.
func severityTrend(records []models.PatientRecord, days int, now time.Time) []models.SeverityPoint {
	if days <= 0 {
		return nil
	}

	cutoff := now.AddDate(0, 0, -days)
	sums := make(map[string]float64)
	counts := make(map[string]int)

	for _, rec := range records {
		if rec.CreatedAt.Before(cutoff) {
			continue
		}
		day := rec.CreatedAt.UTC().Format("2006-01-02")
		sums[day] += rec.SeverityScore
		counts[day]++
	}

	if len(counts) == 0 {
		return nil
	}

	dayKeys := make([]string, 0, len(counts))
	for day := range counts {
		dayKeys = append(dayKeys, day)
	}
	sort.Strings(dayKeys)

	trend := make([]models.SeverityPoint, 0, len(dayKeys))
	for _, day := range dayKeys {
		trend = append(trend, models.SeverityPoint{
			Day:          day,
			MeanSeverity: round(sums[day]/float64(counts[day]), 1),
			Count:        counts[day],
		})
	}
	return trend
}

func round(value float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(value*factor) / factor
}
