package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"recruitment-portal/internal/models"
)

// MemoryStore keeps applications in process memory. Used in dev mode and tests.
type MemoryStore struct {
	mu   sync.RWMutex
	byID map[string]models.Application
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[string]models.Application)}
}

func (s *MemoryStore) Insert(_ context.Context, app *models.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[app.ApplicationID]; exists {
		return fmt.Errorf("%w: %s", ErrApplicationIDTaken, app.ApplicationID)
	}
	s.byID[app.ApplicationID] = cloneApplication(*app)
	return nil
}

func (s *MemoryStore) FindByEmail(_ context.Context, email string) (*models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, app := range s.byID {
		if app.Email == email {
			found := cloneApplication(app)
			return &found, nil
		}
	}
	return nil, ErrApplicationNotFound
}

func (s *MemoryStore) List(_ context.Context) ([]models.Application, error) {
	s.mu.RLock()
	out := make([]models.Application, 0, len(s.byID))
	for _, app := range s.byID {
		out = append(out, cloneApplication(app))
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SubmittedAt.Equal(out[j].SubmittedAt) {
			return out[i].ApplicationID > out[j].ApplicationID
		}
		return out[i].SubmittedAt.After(out[j].SubmittedAt)
	})
	return out, nil
}

func (s *MemoryStore) UpdateStatus(_ context.Context, applicationID string, status models.ApplicationStatus, at time.Time) (*models.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	app, ok := s.byID[applicationID]
	if !ok {
		return nil, ErrApplicationNotFound
	}
	app.Status = status
	app.LastUpdated = at
	s.byID[applicationID] = app

	updated := cloneApplication(app)
	return &updated, nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

// Len reports how many applications are stored.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

func cloneApplication(app models.Application) models.Application {
	positions := make([]models.PositionEntry, len(app.Positions))
	for i, p := range app.Positions {
		if p.DomainAnswers.Pairs != nil {
			pairs := make([]models.QuestionAnswer, len(p.DomainAnswers.Pairs))
			copy(pairs, p.DomainAnswers.Pairs)
			p.DomainAnswers.Pairs = pairs
		}
		positions[i] = p
	}
	app.Positions = positions
	return app
}
