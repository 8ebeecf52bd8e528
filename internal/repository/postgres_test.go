package repository

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recruitment-portal/internal/models"
)

var columns = []string{
	"application_id", "name", "email", "mobile", "reg_number", "positions",
	"resume_link", "portfolio_link", "github_link", "linkedin_link",
	"agreed_to_terms", "status", "submitted_at", "last_updated",
}

func applicationRow(t *testing.T, app *models.Application) *sqlmock.Rows {
	positions, err := json.Marshal(app.Positions)
	require.NoError(t, err)
	return sqlmock.NewRows(columns).AddRow(
		app.ApplicationID, app.Name, app.Email, app.Mobile, app.RegNumber, positions,
		app.ResumeLink, app.PortfolioLink, app.GithubLink, app.LinkedinLink,
		app.AgreedToTerms, string(app.Status), app.SubmittedAt, app.LastUpdated,
	)
}

func TestPostgresStore_EnsureSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS applications`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, NewPostgresStore(db).EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Insert(t *testing.T) {
	app := sampleApplication("SC250001", "asha@vitstudent.ac.in", baseTime)

	tests := []struct {
		name      string
		execErr   error
		wantErr   error
		wantNoErr bool
	}{
		{name: "success", wantNoErr: true},
		{name: "primary key conflict", execErr: &pq.Error{Code: "23505"}, wantErr: ErrApplicationIDTaken},
		{name: "connection error", execErr: errors.New("connection refused")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			exp := mock.ExpectExec(`INSERT INTO applications`).
				WithArgs(
					"SC250001", "Asha Verma", "asha@vitstudent.ac.in", "9876543210", "23BCE1234",
					sqlmock.AnyArg(),
					"https://drive.example.com/resume", "", "https://github.com/asha", "",
					true, "pending", baseTime, baseTime,
				)
			if tt.execErr != nil {
				exp.WillReturnError(tt.execErr)
			} else {
				exp.WillReturnResult(sqlmock.NewResult(1, 1))
			}

			err = NewPostgresStore(db).Insert(context.Background(), app)
			switch {
			case tt.wantNoErr:
				assert.NoError(t, err)
			case tt.wantErr != nil:
				assert.True(t, errors.Is(err, tt.wantErr))
			default:
				assert.Error(t, err)
				assert.False(t, errors.Is(err, ErrApplicationIDTaken))
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresStore_FindByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	app := sampleApplication("SC250001", "asha@vitstudent.ac.in", baseTime)
	mock.ExpectQuery(`SELECT .+ FROM applications WHERE email = \$1`).
		WithArgs("asha@vitstudent.ac.in").
		WillReturnRows(applicationRow(t, app))
	mock.ExpectQuery(`SELECT .+ FROM applications WHERE email = \$1`).
		WithArgs("nobody@vit.ac.in").
		WillReturnRows(sqlmock.NewRows(columns))

	store := NewPostgresStore(db)
	found, err := store.FindByEmail(context.Background(), "asha@vitstudent.ac.in")
	require.NoError(t, err)
	assert.Equal(t, "SC250001", found.ApplicationID)
	assert.Equal(t, models.StatusPending, found.Status)
	require.Len(t, found.Positions, 2)
	assert.Equal(t, models.DomainAnswersStructured, found.Positions[0].DomainAnswers.Kind)
	assert.Equal(t, models.DomainAnswersFlattened, found.Positions[1].DomainAnswers.Kind)

	_, err = store.FindByEmail(context.Background(), "nobody@vit.ac.in")
	assert.True(t, errors.Is(err, ErrApplicationNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	newer := sampleApplication("SC250002", "b@vit.ac.in", baseTime.Add(time.Hour))
	older := sampleApplication("SC250001", "a@vit.ac.in", baseTime)

	rows := applicationRow(t, newer)
	olderPositions, _ := json.Marshal(older.Positions)
	rows.AddRow(
		older.ApplicationID, older.Name, older.Email, older.Mobile, older.RegNumber, olderPositions,
		older.ResumeLink, "", older.GithubLink, "", true, "pending", older.SubmittedAt, older.LastUpdated,
	)
	mock.ExpectQuery(`SELECT .+ FROM applications ORDER BY submitted_at DESC`).WillReturnRows(rows)

	apps, err := NewPostgresStore(db).List(context.Background())
	require.NoError(t, err)
	require.Len(t, apps, 2)
	assert.Equal(t, "SC250002", apps[0].ApplicationID)
	assert.Equal(t, "SC250001", apps[1].ApplicationID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_List_Error(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT .+ FROM applications`).WillReturnError(errors.New("timeout"))

	_, err = NewPostgresStore(db).List(context.Background())
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpdateStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	later := baseTime.Add(24 * time.Hour)
	app := sampleApplication("SC250001", "a@vit.ac.in", baseTime)
	app.Status = models.StatusSelected
	app.LastUpdated = later

	mock.ExpectQuery(`UPDATE applications SET status = \$2, last_updated = \$3`).
		WithArgs("SC250001", "selected", later).
		WillReturnRows(applicationRow(t, app))
	mock.ExpectQuery(`UPDATE applications SET status`).
		WithArgs("SC259999", "selected", later).
		WillReturnRows(sqlmock.NewRows(columns))

	store := NewPostgresStore(db)
	updated, err := store.UpdateStatus(context.Background(), "SC250001", models.StatusSelected, later)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSelected, updated.Status)
	assert.True(t, updated.LastUpdated.Equal(later))

	_, err = store.UpdateStatus(context.Background(), "SC259999", models.StatusSelected, later)
	assert.True(t, errors.Is(err, ErrApplicationNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}
