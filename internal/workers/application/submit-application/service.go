package submitapplication

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "recruitment-portal/internal/common/errors"
	"recruitment-portal/internal/common/logger"
	"recruitment-portal/internal/common/metrics"
	"recruitment-portal/internal/common/observability"
	createapplicationrecord "recruitment-portal/internal/workers/application/create-application-record"
	sendnotification "recruitment-portal/internal/workers/application/send-notification"
	validateapplicationdata "recruitment-portal/internal/workers/application/validate-application-data"
)

const (
	TaskType = "submit-application"
)

// Service runs one submission: validate, reject duplicates, store, then hand
// the stored record to the notifier without waiting for it.
type Service struct {
	validator ApplicationValidator
	records   RecordCreator
	notifier  sendnotification.Dispatcher
	obs       *observability.Observability
	logger    logger.Logger
}

func NewService(validator ApplicationValidator, records RecordCreator, notifier sendnotification.Dispatcher, obs *observability.Observability, log logger.Logger) *Service {
	return &Service{
		validator: validator,
		records:   records,
		notifier:  notifier,
		obs:       obs,
		logger:    log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

// Execute returns a *errors.StandardError on every failure path.
func (s *Service) Execute(ctx context.Context, raw map[string]interface{}) (*Output, error) {
	start := time.Now()
	ctx, span := s.obs.Tracer().Start(ctx, "submit-application")
	defer span.End()

	log := s.logger
	if sc := span.SpanContext(); sc.IsValid() {
		log = log.WithFields(map[string]interface{}{"trace_id": sc.TraceID().String()})
	}

	out, err := s.execute(ctx, span, log, raw)
	outcome := outcomeOf(err)

	elapsed := time.Since(start)
	metrics.SubmissionsTotal.WithLabelValues(outcome).Inc()
	metrics.SubmissionDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
	s.obs.RecordSubmission(ctx, outcome, elapsed)

	span.SetAttributes(attribute.String("submission.outcome", outcome))
	if err != nil {
		if se, ok := apperrors.As(err); ok {
			span.SetAttributes(attribute.String("error.code", string(se.Code)))
			if se.Category() == apperrors.CategoryValidation {
				metrics.SubmissionRejections.WithLabelValues(string(se.Code)).Inc()
			}
		}
		if outcome == metrics.OutcomeFailed {
			span.SetStatus(codes.Error, err.Error())
		}
		return nil, err
	}
	return out, nil
}

func (s *Service) execute(ctx context.Context, span trace.Span, log logger.Logger, raw map[string]interface{}) (*Output, error) {
	validated, err := s.validator.Execute(ctx, &validateapplicationdata.Input{Raw: raw})
	if err != nil {
		return nil, err
	}
	span.AddEvent("validated")

	created, err := s.records.Execute(ctx, &createapplicationrecord.Input{Application: validated.Application})
	if err != nil {
		if !apperrors.HasCode(err, apperrors.ErrCodeDuplicateEmail) {
			log.Error("submission failed", map[string]interface{}{"error": err})
		}
		return nil, err
	}
	span.SetAttributes(attribute.String("application.id", created.ApplicationID))

	if s.notifier != nil {
		s.notifier.Notify(created.Application)
	}

	log.Info("application submitted", map[string]interface{}{
		"applicationId": created.ApplicationID,
		"email":         created.Application.Email,
	})

	return &Output{
		ApplicationID: created.ApplicationID,
		Timestamp:     created.SubmittedAt.UTC().Format(TimestampLayout),
	}, nil
}

func outcomeOf(err error) string {
	if err == nil {
		return metrics.OutcomeAccepted
	}
	se, ok := apperrors.As(err)
	if !ok {
		return metrics.OutcomeFailed
	}
	switch se.Category() {
	case apperrors.CategoryValidation:
		return metrics.OutcomeRejected
	case apperrors.CategoryConflict:
		return metrics.OutcomeDuplicate
	default:
		return metrics.OutcomeFailed
	}
}
