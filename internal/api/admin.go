package api

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	apperrors "recruitment-portal/internal/common/errors"
	"recruitment-portal/internal/models"
	"recruitment-portal/internal/repository"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token"`
}

type statusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending shortlisted selected"`
}

type applicationsResponse struct {
	Success      bool                 `json:"success"`
	Applications []models.Application `json:"applications"`
	Count        int                  `json:"count"`
}

type applicationResponse struct {
	Success     bool                `json:"success"`
	Message     string              `json:"message"`
	Application *models.Application `json:"application"`
}

// handleLogin compares against the single configured admin account. The token
// is an opaque session marker, not a signed credential.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := s.decodeStruct(w, r, &req); err != nil {
		s.errs.Write(w, r, err)
		return
	}
	if err := s.validate.Struct(&req); err != nil || !s.credentialsMatch(req) {
		s.errs.Write(w, r, apperrors.NewInvalidCredentialsError())
		return
	}

	raw := fmt.Sprintf("%s:%d", req.Email, s.now().UnixMilli())
	s.logger.Info("admin logged in", map[string]interface{}{"email": req.Email})
	apperrors.WriteJSON(w, http.StatusOK, loginResponse{
		Success: true,
		Message: "Login successful",
		Token:   base64.StdEncoding.EncodeToString([]byte(raw)),
	})
}

func (s *Server) credentialsMatch(req loginRequest) bool {
	if s.admin.Email == "" || s.admin.Password == "" {
		return false
	}
	emailOK := subtle.ConstantTimeCompare([]byte(strings.ToLower(req.Email)), []byte(strings.ToLower(s.admin.Email))) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(s.admin.Password)) == 1
	return emailOK && passOK
}

func (s *Server) handleGetApplications(w http.ResponseWriter, r *http.Request) {
	apps, err := s.store.List(r.Context())
	if err != nil {
		s.errs.Write(w, r, apperrors.NewFetchFailedError(err))
		return
	}
	if apps == nil {
		apps = []models.Application{}
	}
	apperrors.WriteJSON(w, http.StatusOK, applicationsResponse{
		Success:      true,
		Applications: apps,
		Count:        len(apps),
	})
}

func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "applicationId")

	var req statusRequest
	if err := s.decodeStruct(w, r, &req); err != nil {
		s.errs.Write(w, r, err)
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		se := apperrors.NewValidationError(apperrors.ErrCodeInvalidStatus, "Status must be one of pending, shortlisted, selected")
		se.Details = err.Error()
		s.errs.Write(w, r, se)
		return
	}

	app, err := s.store.UpdateStatus(r.Context(), id, models.ApplicationStatus(req.Status), s.now().UTC())
	switch {
	case errors.Is(err, repository.ErrApplicationNotFound):
		s.errs.Write(w, r, apperrors.NewApplicationNotFoundError(id))
		return
	case err != nil:
		s.errs.Write(w, r, apperrors.NewInternalError(err))
		return
	}

	s.logger.Info("application status updated", map[string]interface{}{
		"applicationId": id,
		"status":        req.Status,
	})
	apperrors.WriteJSON(w, http.StatusOK, applicationResponse{
		Success:     true,
		Message:     "Status updated",
		Application: app,
	})
}
