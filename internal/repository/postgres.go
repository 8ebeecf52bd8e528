package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"recruitment-portal/internal/models"
)

const pgUniqueViolation = "23505"

const createApplicationsTable = `
CREATE TABLE IF NOT EXISTS applications (
	application_id  TEXT PRIMARY KEY,
	name            TEXT NOT NULL,
	email           TEXT NOT NULL,
	mobile          TEXT NOT NULL,
	reg_number      TEXT NOT NULL,
	positions       JSONB NOT NULL,
	resume_link     TEXT NOT NULL,
	portfolio_link  TEXT NOT NULL DEFAULT '',
	github_link     TEXT NOT NULL DEFAULT '',
	linkedin_link   TEXT NOT NULL DEFAULT '',
	agreed_to_terms BOOLEAN NOT NULL,
	status          TEXT NOT NULL,
	submitted_at    TIMESTAMPTZ NOT NULL,
	last_updated    TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS applications_email_idx ON applications (email);
CREATE INDEX IF NOT EXISTS applications_submitted_at_idx ON applications (submitted_at DESC);`

const applicationColumns = `application_id, name, email, mobile, reg_number, positions,
	resume_link, portfolio_link, github_link, linkedin_link,
	agreed_to_terms, status, submitted_at, last_updated`

// PostgresStore keeps applications in a single table with positions as JSONB.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createApplicationsTable); err != nil {
		return fmt.Errorf("create applications table: %w", err)
	}
	return nil
}

func (s *PostgresStore) Insert(ctx context.Context, app *models.Application) error {
	positionsJSON, err := json.Marshal(app.Positions)
	if err != nil {
		return fmt.Errorf("marshal positions: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO applications (`+applicationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		app.ApplicationID,
		app.Name,
		app.Email,
		app.Mobile,
		app.RegNumber,
		positionsJSON,
		app.ResumeLink,
		app.PortfolioLink,
		app.GithubLink,
		app.LinkedinLink,
		app.AgreedToTerms,
		string(app.Status),
		app.SubmittedAt,
		app.LastUpdated,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
			return fmt.Errorf("%w: %s", ErrApplicationIDTaken, app.ApplicationID)
		}
		return fmt.Errorf("insert application: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*models.Application, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+applicationColumns+`
		FROM applications WHERE email = $1 LIMIT 1`, email)

	app, err := scanApplication(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrApplicationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find application by email: %w", err)
	}
	return app, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]models.Application, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+applicationColumns+`
		FROM applications ORDER BY submitted_at DESC, application_id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()

	apps := []models.Application{}
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		apps = append(apps, *app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate applications: %w", err)
	}
	return apps, nil
}

func (s *PostgresStore) UpdateStatus(ctx context.Context, applicationID string, status models.ApplicationStatus, at time.Time) (*models.Application, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE applications SET status = $2, last_updated = $3
		WHERE application_id = $1
		RETURNING `+applicationColumns,
		applicationID, string(status), at)

	app, err := scanApplication(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrApplicationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update application status: %w", err)
	}
	return app, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanApplication(row rowScanner) (*models.Application, error) {
	var (
		app           models.Application
		positionsJSON []byte
		status        string
	)
	err := row.Scan(
		&app.ApplicationID,
		&app.Name,
		&app.Email,
		&app.Mobile,
		&app.RegNumber,
		&positionsJSON,
		&app.ResumeLink,
		&app.PortfolioLink,
		&app.GithubLink,
		&app.LinkedinLink,
		&app.AgreedToTerms,
		&status,
		&app.SubmittedAt,
		&app.LastUpdated,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(positionsJSON, &app.Positions); err != nil {
		return nil, fmt.Errorf("decode positions: %w", err)
	}
	app.Status = models.ApplicationStatus(status)
	return &app, nil
}
