package triage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/smart-triage/platform/pkg/common/logger"
	"github.com/smart-triage/platform/pkg/common/models"
	"github.com/smart-triage/platform/pkg/phi"
	"github.com/smart-triage/platform/pkg/prompt"
	"github.com/smart-triage/platform/pkg/reasoning"
)

// RecordStore is the persistence surface the service needs.
type RecordStore interface {
	Create(ctx context.Context, rec *models.PatientRecord) error
	ListRecent(ctx context.Context, limit int) ([]models.PatientRecord, error)
	Get(ctx context.Context, id string) (*models.PatientRecord, error)
}

// EventPublisher emits audit events after a record is persisted.
type EventPublisher interface {
	PublishEvent(ctx context.Context, eventType string, source string, data map[string]interface{}) error
}

type Service struct {
	composer  *prompt.Composer
	reasoner  reasoning.Completer
	store     RecordStore
	redactor  *phi.Redactor
	publisher EventPublisher
}

type Option func(*Service)

// WithRedactor masks identifiers in the EHR excerpt before it is embedded in
// the prompt.
func WithRedactor(redactor *phi.Redactor) Option {
	return func(s *Service) { s.redactor = redactor }
}

// WithPublisher emits a triage.completed event for each persisted record.
func WithPublisher(publisher EventPublisher) Option {
	return func(s *Service) { s.publisher = publisher }
}

func NewService(composer *prompt.Composer, reasoner reasoning.Completer, store RecordStore, opts ...Option) *Service {
	svc := &Service{composer: composer, reasoner: reasoner, store: store}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc
}

// Submit runs one intake through the triage pipeline: validate, compose,
// reason, normalize, persist. Nothing is persisted on any failure path.
func (s *Service) Submit(ctx context.Context, intake models.IntakeRecord) (models.TriageResult, error) {
	if err := ValidateIntake(intake); err != nil {
		return models.TriageResult{}, err
	}

	if s.redactor != nil {
		intake.EHRText = s.redactor.Redact(intake.EHRText)
	}

	composed := s.composer.Compose(intake)

	raw, err := s.reasoner.Complete(ctx, prompt.SystemInstruction, composed)
	if err != nil {
		return models.TriageResult{}, err
	}

	result, err := Normalize(raw)
	if err != nil {
		return models.TriageResult{}, err
	}

	record := models.NewPatientRecord(uuid.New().String(), intake, result, s.composer.Version())
	if err := s.store.Create(ctx, record); err != nil {
		return models.TriageResult{}, fmt.Errorf("persisting patient record: %w", err)
	}

	s.publishCompleted(ctx, record)

	logger.Log.WithFields(map[string]interface{}{
		"record_id":  record.ID,
		"risk_level": record.RiskLevel,
		"department": record.DepartmentPrimary,
	}).Info("triage completed")

	return result, nil
}

// ListRecent returns persisted records newest-first.
func (s *Service) ListRecent(ctx context.Context, limit int) ([]models.PatientRecord, error) {
	return s.store.ListRecent(ctx, limit)
}

// GetRecord fetches a single record by its identifier.
func (s *Service) GetRecord(ctx context.Context, id string) (*models.PatientRecord, error) {
	return s.store.Get(ctx, id)
}

// publishCompleted is best-effort: the record is already durable, a missed
// audit event must not fail the submission.
func (s *Service) publishCompleted(ctx context.Context, record *models.PatientRecord) {
	if s.publisher == nil {
		return
	}
	err := s.publisher.PublishEvent(ctx, "triage.completed", "triage-service", map[string]interface{}{
		"record_id":      record.ID,
		"risk_level":     record.RiskLevel,
		"department":     record.DepartmentPrimary,
		"severity_score": record.SeverityScore,
		"prompt_version": record.PromptVersion,
	})
	if err != nil {
		logger.Log.WithError(err).Warn("failed to publish triage event")
	}
}
