package createapplicationrecord

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "recruitment-portal/internal/common/errors"
	"recruitment-portal/internal/common/logger"
	"recruitment-portal/internal/models"
	"recruitment-portal/internal/repository"
)

const (
	TaskType = "create-application-record"
)

var (
	ErrIDSpaceExhausted = errors.New("APPLICATION_ID_EXHAUSTED")
)

type Handler struct {
	config *Config
	store  repository.ApplicationStore
	ids    *IDGenerator
	now    func() time.Time
	logger logger.Logger
}

func NewHandler(config *Config, store repository.ApplicationStore, ids *IDGenerator, log logger.Logger) *Handler {
	if ids == nil {
		ids = NewIDGenerator()
	}
	return &Handler{
		config: config,
		store:  store,
		ids:    ids,
		now:    time.Now,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

// WithClock replaces the clock used for submittedAt and lastUpdated.
func (h *Handler) WithClock(now func() time.Time) *Handler {
	h.now = now
	return h
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	draft := input.Application

	// Check-then-insert; concurrent submissions with one email can both pass.
	existing, err := h.store.FindByEmail(ctx, draft.Email)
	switch {
	case err == nil && existing != nil:
		h.logger.Info("duplicate application rejected", map[string]interface{}{
			"email":                 draft.Email,
			"existingApplicationId": existing.ApplicationID,
		})
		return nil, apperrors.NewDuplicateEmailError(draft.Email)
	case err != nil && !errors.Is(err, repository.ErrApplicationNotFound):
		h.logger.Error("duplicate check failed", map[string]interface{}{
			"error": err,
			"email": draft.Email,
		})
		return nil, apperrors.NewSubmissionFailedError(fmt.Errorf("duplicate check: %w", err))
	}

	now := h.now().UTC().Truncate(time.Millisecond)
	app := *draft
	app.Status = models.StatusPending
	app.AgreedToTerms = true
	app.SubmittedAt = now
	app.LastUpdated = now

	for attempt := 1; attempt <= h.config.IDAttempts; attempt++ {
		app.ApplicationID = h.ids.Generate()

		err := h.store.Insert(ctx, &app)
		if err == nil {
			h.logger.Info("application record created", map[string]interface{}{
				"applicationId": app.ApplicationID,
				"email":         app.Email,
				"positions":     len(app.Positions),
				"attempt":       attempt,
			})
			return &Output{
				ApplicationID:     app.ApplicationID,
				ApplicationStatus: app.Status,
				SubmittedAt:       app.SubmittedAt,
				Application:       &app,
			}, nil
		}

		if !errors.Is(err, repository.ErrApplicationIDTaken) {
			h.logger.Error("insert failed", map[string]interface{}{
				"error":         err,
				"applicationId": app.ApplicationID,
			})
			return nil, apperrors.NewSubmissionFailedError(fmt.Errorf("insert: %w", err))
		}

		h.logger.Warn("application id collision, regenerating", map[string]interface{}{
			"applicationId": app.ApplicationID,
			"attempt":       attempt,
		})
	}

	err = fmt.Errorf("%w: %d attempts", ErrIDSpaceExhausted, h.config.IDAttempts)
	h.logger.Error("no free application id", map[string]interface{}{
		"error": err,
	})
	return nil, apperrors.NewSubmissionFailedError(err)
}
