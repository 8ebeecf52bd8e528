// Package repository persists board applications.
package repository

import (
	"context"
	"errors"
	"time"

	"recruitment-portal/internal/models"
)

var (
	ErrApplicationNotFound = errors.New("APPLICATION_NOT_FOUND")
	// ErrApplicationIDTaken is returned by Insert when the application ID is
	// already stored. Callers regenerate the ID and try again.
	ErrApplicationIDTaken = errors.New("APPLICATION_ID_TAKEN")
)

// ApplicationStore is implemented by every storage driver.
type ApplicationStore interface {
	Insert(ctx context.Context, app *models.Application) error
	FindByEmail(ctx context.Context, email string) (*models.Application, error)
	// List returns every application, newest submission first.
	List(ctx context.Context) ([]models.Application, error)
	UpdateStatus(ctx context.Context, applicationID string, status models.ApplicationStatus, at time.Time) (*models.Application, error)
	Ping(ctx context.Context) error
}
