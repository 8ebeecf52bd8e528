package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	warns  []map[string]interface{}
	errors []map[string]interface{}
}

func (l *recordingLogger) Warn(_ string, fields map[string]interface{}) {
	l.warns = append(l.warns, fields)
}

func (l *recordingLogger) Error(_ string, fields map[string]interface{}) {
	l.errors = append(l.errors, fields)
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{ErrCodeMissingFields, http.StatusBadRequest},
		{ErrCodeInvalidMotivationLength, http.StatusBadRequest},
		{ErrCodeTermsNotAgreed, http.StatusBadRequest},
		{ErrCodeDuplicateEmail, http.StatusConflict},
		{ErrCodeApplicationNotFound, http.StatusNotFound},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		{ErrCodeSubmissionFailed, http.StatusInternalServerError},
		{ErrorCode("SOMETHING_NEW"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.code))
		})
	}
}

func TestStandardError_UnwrapAndAs(t *testing.T) {
	cause := stderrors.New("connection refused")
	wrapped := fmt.Errorf("insert: %w", NewSubmissionFailedError(cause))

	stdErr, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, ErrCodeSubmissionFailed, stdErr.Code)
	assert.True(t, stderrors.Is(wrapped, cause))
	assert.True(t, HasCode(wrapped, ErrCodeSubmissionFailed))
	assert.False(t, HasCode(wrapped, ErrCodeDuplicateEmail))
	assert.Equal(t, "StandardError[SUBMISSION_FAILED]: Failed to submit application. Please try again.", stdErr.Error())
}

func TestErrorHandler_Write_ValidationError(t *testing.T) {
	log := &recordingLogger{}
	h := NewErrorHandler(log)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/submit-application", nil)

	h.Write(rec, req, NewValidationError(ErrCodeInvalidEmail, "Please use a valid VIT email address (@vitstudent.ac.in)"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "INVALID_EMAIL", body.Error)
	assert.Len(t, log.warns, 1)
	assert.Empty(t, log.errors)
}

func TestErrorHandler_Write_SystemErrorHidesCause(t *testing.T) {
	log := &recordingLogger{}
	h := NewErrorHandler(log)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/submit-application", nil)

	h.Write(rec, req, stderrors.New("mongo: server selection timeout"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "mongo")
	require.Len(t, log.errors, 1)
	assert.Equal(t, "mongo: server selection timeout", log.errors[0]["details"])
}
