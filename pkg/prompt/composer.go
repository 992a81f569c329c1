package prompt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/smart-triage/platform/pkg/common/models"
)

const (
	// SystemInstruction frames every reasoning request.
	SystemInstruction = "You are a professional emergency triage medical assistant."

	notProvided   = "Not provided"
	noEHRDocument = "No EHR document provided"
)

// Composer renders a validated intake record into the single prompt sent to
// the reasoning service. Composition is a pure function of the intake and the
// rule set: the same input always yields byte-identical output.
type Composer struct {
	rules RuleSet
}

func NewComposer(rules RuleSet) *Composer {
	return &Composer{rules: rules}
}

func (c *Composer) Version() string {
	return c.rules.Version
}

func (c *Composer) Compose(intake models.IntakeRecord) string {
	var b strings.Builder

	b.WriteString("You are an AI-powered hospital triage assistant.\n\n")
	b.WriteString("Analyze the patient intake below and produce a triage assessment.\n\n")

	b.WriteString("Patient Details:\n")
	writeField(&b, "Name", stringOr(intake.Name))
	writeField(&b, "Age", intOr(intake.Age))
	writeField(&b, "Gender", stringOr(intake.Gender))
	writeField(&b, "Systolic BP (mmHg)", floatOr(intake.SystolicBP))
	writeField(&b, "Diastolic BP (mmHg)", floatOr(intake.DiastolicBP))
	writeField(&b, "Heart Rate (bpm)", floatOr(intake.HeartRate))
	writeField(&b, "Temperature (C)", floatOr(intake.Temperature))
	writeField(&b, "SpO2 (%)", floatOr(intake.SpO2))
	writeField(&b, "Respiratory Rate (breaths/min)", floatOr(intake.RespRate))
	writeField(&b, "Symptoms", listOr(intake.Symptoms))
	writeField(&b, "Pre-existing Conditions", listOr(intake.PreExistingConditions))

	b.WriteString("\nEHR Document:\n")
	if text := strings.TrimSpace(intake.EHRText); text != "" {
		b.WriteString(text)
		b.WriteString("\n")
	} else {
		b.WriteString(noEHRDocument)
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "\nClinical Triage Rules (%s):\n", c.rules.Version)
	for _, h := range c.rules.Heuristics {
		b.WriteString("- ")
		b.WriteString(h)
		b.WriteString("\n")
	}
	b.WriteString("- If the structured fields conflict with the EHR document, prefer the most recent or most abnormal value.\n")

	b.WriteString("\nAssign departments from this list: ")
	b.WriteString(strings.Join(c.rules.Departments, ", "))
	b.WriteString(".\n")

	b.WriteString(`
Respond ONLY with a single JSON object in this exact shape:

{
  "riskLevel": "Low | Medium | High",
  "triagePriority": "Immediate | Urgent | Routine",
  "severityScore": 0,
  "vitalStatus": "Stable | Unstable",
  "departmentPrimary": "",
  "departmentSecondary": "",
  "contributingFactors": [],
  "recommendations": [],
  "confidence": 0
}

severityScore is 0-100, confidence is 0-1. contributingFactors and
recommendations each hold at most 5 short strings.
`)

	return b.String()
}

func writeField(b *strings.Builder, label, value string) {
	b.WriteString(label)
	b.WriteString(": ")
	b.WriteString(value)
	b.WriteString("\n")
}

func stringOr(s string) string {
	if strings.TrimSpace(s) == "" {
		return notProvided
	}
	return strings.TrimSpace(s)
}

func intOr(v *int) string {
	if v == nil {
		return notProvided
	}
	return strconv.Itoa(*v)
}

func floatOr(v *float64) string {
	if v == nil {
		return notProvided
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func listOr(items []string) string {
	var kept []string
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			kept = append(kept, trimmed)
		}
	}
	if len(kept) == 0 {
		return notProvided
	}
	return strings.Join(kept, ", ")
}
