package triage

import (
	"errors"
	"strings"

	"github.com/smart-triage/platform/pkg/common/models"
)

// minEHRLength is the shortest trimmed EHR excerpt considered clinically
// meaningful on its own.
const minEHRLength = 20

var errInsufficientData = errors.New("no sufficient clinical data provided")

type ValidationError struct {
	reason error
}

func (e ValidationError) Error() string {
	return e.reason.Error()
}

func (e ValidationError) Unwrap() error {
	return e.reason
}

func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

// ValidateIntake enforces the minimum-data invariant: a submission must carry
// at least one manual vital or symptom, or an EHR excerpt longer than 20
// characters after trimming. Anything less is rejected before the reasoning
// service is contacted.
func ValidateIntake(intake models.IntakeRecord) error {
	if hasManualData(intake) {
		return nil
	}
	if len(strings.TrimSpace(intake.EHRText)) > minEHRLength {
		return nil
	}
	return ValidationError{reason: errInsufficientData}
}

func hasManualData(intake models.IntakeRecord) bool {
	if intake.Age != nil {
		return true
	}
	for _, vital := range []*float64{
		intake.SystolicBP,
		intake.DiastolicBP,
		intake.HeartRate,
		intake.Temperature,
		intake.SpO2,
		intake.RespRate,
	} {
		if vital != nil {
			return true
		}
	}
	for _, symptom := range intake.Symptoms {
		if strings.TrimSpace(symptom) != "" {
			return true
		}
	}
	return false
}
