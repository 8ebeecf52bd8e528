// test/e2e/e2e_test.go
package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recruitment-portal/internal/api"
	"recruitment-portal/internal/common/config"
	"recruitment-portal/internal/common/logger"
	"recruitment-portal/internal/models"
	"recruitment-portal/internal/repository"
	createapplicationrecord "recruitment-portal/internal/workers/application/create-application-record"
	sendnotification "recruitment-portal/internal/workers/application/send-notification"
	submitapplication "recruitment-portal/internal/workers/application/submit-application"
	validateapplicationdata "recruitment-portal/internal/workers/application/validate-application-data"
	"recruitment-portal/pkg/catalog"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []*models.ConfirmationMessage
}

func (m *recordingMailer) Send(_ context.Context, msg *models.ConfirmationMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

func (m *recordingMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

type portal struct {
	server *httptest.Server
	store  *repository.MemoryStore
	mailer *recordingMailer
}

func startPortal(t *testing.T) *portal {
	t.Helper()
	log := logger.NewTestLogger(t)

	cat, err := catalog.Default()
	require.NoError(t, err)

	cfg := &config.Config{
		App:   config.AppConfig{Version: "e2e", RecruitmentYear: "2025-2026"},
		Admin: config.AdminConfig{Email: "admin@example.com", Password: "secret"},
	}
	cfg.Notifications.Enabled = true
	cfg.Notifications.FromName = "Standards Club VIT"
	cfg.Notifications.FromEmail = "recruitment@example.com"
	cfg.Notifications.Subject = "Application Received"
	cfg.Notifications.Workers = 1
	cfg.Notifications.Buffer = 8
	cfg.Notifications.Timeout = 5000

	store := repository.NewMemoryStore()
	mailer := &recordingMailer{}
	notifier := sendnotification.NewHandler(sendnotification.LoadConfig(cfg), mailer, nil, log)
	queue := sendnotification.NewLocalQueue(notifier, 1, 8, log)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = queue.Run(ctx)
		close(done)
	}()

	validator := validateapplicationdata.NewValidator(&validateapplicationdata.Config{StrictPositions: true}, cat, log)
	records := createapplicationrecord.NewHandler(&createapplicationrecord.Config{IDAttempts: 5}, store, createapplicationrecord.NewIDGenerator(), log)
	submitter := submitapplication.NewService(validator, records, queue, nil, log)

	srv := api.NewServer(api.Options{
		Submitter: submitter,
		Catalog:   cat,
		Store:     store,
		Admin:     cfg.Admin,
		Version:   cfg.App.Version,
		Logger:    log,
	})
	ts := httptest.NewServer(srv.Router())

	t.Cleanup(func() {
		ts.Close()
		cancel()
		<-done
	})
	return &portal{server: ts, store: store, mailer: mailer}
}

func (p *portal) postJSON(t *testing.T, path string, body interface{}, headers map[string]string) (*http.Response, map[string]interface{}) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	return p.do(t, http.MethodPost, path, bytes.NewReader(raw), headers)
}

func (p *portal) do(t *testing.T, method, path string, body *bytes.Reader, headers map[string]string) (*http.Response, map[string]interface{}) {
	t.Helper()
	var req *http.Request
	var err error
	if body == nil {
		req, err = http.NewRequest(method, p.server.URL+path, nil)
	} else {
		req, err = http.NewRequest(method, p.server.URL+path, body)
		req.Header.Set("Content-Type", "application/json")
	}
	require.NoError(t, err)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := p.server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}

func application(email string) map[string]interface{} {
	return map[string]interface{}{
		"name":          "Asha Verma",
		"email":         email,
		"mobile":        "9876543210",
		"regNumber":     "23BCE1234",
		"resumeLink":    "https://drive.example.com/resume",
		"agreedToTerms": true,
		"positions": []interface{}{
			map[string]interface{}{
				"positionName": "Technical Head",
				"preference":   1,
				"motivation":   words(230),
				"domainAnswers": []interface{}{
					map[string]interface{}{"question": "Describe a project", "answer": words(80)},
				},
			},
		},
	}
}

func TestSubmissionFlow(t *testing.T) {
	p := startPortal(t)

	t.Log("🚀 Submitting a fresh application...")
	resp, body := p.postJSON(t, "/api/submit-application", application("asha@vitstudent.ac.in"), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, true, body["success"])
	assert.Regexp(t, `^SC\d{6}$`, body["applicationId"])
	_, err := time.Parse(submitapplication.TimestampLayout, body["timestamp"].(string))
	assert.NoError(t, err)
	assert.Equal(t, 1, p.store.Len())

	require.Eventually(t, func() bool { return p.mailer.count() == 1 }, 2*time.Second, 10*time.Millisecond,
		"confirmation email should be dispatched after the response")

	t.Log("🔁 Resubmitting the same email with different case...")
	resp, body = p.postJSON(t, "/submit-application", application("ASHA@vitstudent.ac.in"), nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "DUPLICATE_EMAIL", body["error"])
	assert.Equal(t, 1, p.store.Len())

	t.Log("🧾 Submitting without a resume link...")
	incomplete := application("ravi@vitstudent.ac.in")
	delete(incomplete, "resumeLink")
	resp, body = p.postJSON(t, "/api/submit-application", incomplete, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "MISSING_FIELDS", body["error"])
	assert.Equal(t, 1, p.store.Len())
	assert.Equal(t, 1, p.mailer.count())

	t.Log("✅ Submission flow passed")
}

func TestAdminFlow(t *testing.T) {
	p := startPortal(t)

	resp, _ := p.postJSON(t, "/api/submit-application", application("asha@vitstudent.ac.in"), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := p.postJSON(t, "/api/admin/login", map[string]string{"email": "admin@example.com", "password": "wrong"}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid credentials", body["message"])

	resp, body = p.postJSON(t, "/api/admin/login", map[string]string{"email": "admin@example.com", "password": "secret"}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	auth := map[string]string{"Authorization": "Bearer " + token}

	resp, _ = p.do(t, http.MethodGet, "/api/admin/get-applications", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body = p.do(t, http.MethodGet, "/api/admin/get-applications", nil, auth)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, body["count"])
	apps := body["applications"].([]interface{})
	id := apps[0].(map[string]interface{})["applicationId"].(string)

	patch, err := json.Marshal(map[string]string{"status": "shortlisted"})
	require.NoError(t, err)
	resp, body = p.do(t, http.MethodPatch, "/api/admin/applications/"+id+"/status", bytes.NewReader(patch), auth)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)

	stored, err := p.store.FindByEmail(context.Background(), "asha@vitstudent.ac.in")
	require.NoError(t, err)
	assert.Equal(t, models.StatusShortlisted, stored.Status)
}

func TestPositionsAndHealth(t *testing.T) {
	p := startPortal(t)

	resp, body := p.do(t, http.MethodGet, "/api/get-positions", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 16, body["totalPositions"])

	resp, body = p.do(t, http.MethodGet, "/ready", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode, body)
}
