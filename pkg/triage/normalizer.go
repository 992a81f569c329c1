package triage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/smart-triage/platform/pkg/common/models"
)

// ErrMalformed marks a reasoner response that cannot be turned into a valid
// triage result: unparseable text, or an unrecognized enum value.
var ErrMalformed = errors.New("reasoning response malformed")

// maxListItems caps the contributing-factor and recommendation lists at the
// size advertised in the prompt.
const maxListItems = 5

var (
	riskLevels  = []string{models.RiskLow, models.RiskMedium, models.RiskHigh}
	priorities  = []string{models.PriorityImmediate, models.PriorityUrgent, models.PriorityRoutine}
	vitalStates = []string{models.VitalStable, models.VitalUnstable}
)

// Normalize parses the raw reasoner output against the triage result schema
// and applies the repair policy: numeric fields are clamped into range with 0
// substituted for absent or non-numeric values, list fields default to empty
// and are truncated, enum fields are validated fail-closed, and department
// fields pass through as free text.
func Normalize(raw string) (models.TriageResult, error) {
	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(stripFences(raw)), &payload); err != nil {
		return models.TriageResult{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	risk, err := enumField(payload, "riskLevel", riskLevels)
	if err != nil {
		return models.TriageResult{}, err
	}
	priority, err := enumField(payload, "triagePriority", priorities)
	if err != nil {
		return models.TriageResult{}, err
	}
	vitals, err := enumField(payload, "vitalStatus", vitalStates)
	if err != nil {
		return models.TriageResult{}, err
	}

	return models.TriageResult{
		RiskLevel:           risk,
		TriagePriority:      priority,
		SeverityScore:       clamp(numberField(payload["severityScore"]), 0, 100),
		VitalStatus:         vitals,
		DepartmentPrimary:   stringField(payload["departmentPrimary"]),
		DepartmentSecondary: stringField(payload["departmentSecondary"]),
		ContributingFactors: listField(payload["contributingFactors"]),
		Recommendations:     listField(payload["recommendations"]),
		Confidence:          clamp(numberField(payload["confidence"]), 0, 1),
	}, nil
}

// stripFences removes a surrounding markdown code fence, which some models
// emit even when asked for bare JSON.
func stripFences(raw string) string {
	text := strings.TrimSpace(raw)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

func enumField(payload map[string]interface{}, key string, allowed []string) (string, error) {
	value := strings.TrimSpace(stringField(payload[key]))
	for _, candidate := range allowed {
		if strings.EqualFold(value, candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: %s %q not in %v", ErrMalformed, key, value, allowed)
}

func stringField(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func numberField(v interface{}) float64 {
	if f, ok := v.(float64); ok {
		return f
	}
	return 0
}

func listField(v interface{}) []string {
	items, ok := v.([]interface{})
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
		if len(out) == maxListItems {
			break
		}
	}
	return out
}

func clamp(value, lower, upper float64) float64 {
	if value < lower {
		return lower
	}
	if value > upper {
		return upper
	}
	return value
}
