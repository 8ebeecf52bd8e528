package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	apperrors "recruitment-portal/internal/common/errors"
	"recruitment-portal/internal/models"
)

type infoResponse struct {
	Success   bool     `json:"success"`
	Message   string   `json:"message"`
	Version   string   `json:"version"`
	Endpoints []string `json:"endpoints"`
}

type submitResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	ApplicationID string `json:"applicationId"`
	Timestamp     string `json:"timestamp"`
}

type positionsResponse struct {
	Success         bool                     `json:"success"`
	Positions       []models.PositionSummary `json:"positions"`
	AllPositions    []models.Position        `json:"allPositions"`
	TotalPositions  int                      `json:"totalPositions"`
	RecruitmentYear string                   `json:"recruitmentYear"`
}

var endpoints = []string{
	"GET /api/get-positions",
	"POST /api/submit-application",
	"POST /api/admin/login",
	"GET /api/admin/get-applications",
	"PATCH /api/admin/applications/{applicationId}/status",
}

func (s *Server) handleInfo(w http.ResponseWriter, _ *http.Request) {
	apperrors.WriteJSON(w, http.StatusOK, infoResponse{
		Success:   true,
		Message:   "Standards Club Recruitment API",
		Version:   s.version,
		Endpoints: endpoints,
	})
}

func (s *Server) handleGetPositions(w http.ResponseWriter, _ *http.Request) {
	all := s.catalog.All()
	apperrors.WriteJSON(w, http.StatusOK, positionsResponse{
		Success:         true,
		Positions:       s.catalog.Summaries(),
		AllPositions:    all,
		TotalPositions:  len(all),
		RecruitmentYear: s.catalog.RecruitmentYear(),
	})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	raw, err := s.decodeObject(w, r)
	if err != nil {
		s.errs.Write(w, r, err)
		return
	}

	out, err := s.submitter.Execute(r.Context(), raw)
	if err != nil {
		s.errs.Write(w, r, err)
		return
	}

	apperrors.WriteJSON(w, http.StatusOK, submitResponse{
		Success:       true,
		Message:       "Application submitted successfully",
		ApplicationID: out.ApplicationID,
		Timestamp:     out.Timestamp,
	})
}

// decodeObject reads a JSON object, keeping numbers as json.Number so
// preferences like "2" and 2 are told apart later.
func (s *Server) decodeObject(w http.ResponseWriter, r *http.Request) (map[string]interface{}, error) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBody))
	dec.UseNumber()

	var raw map[string]interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, invalidBody(err)
	}
	if dec.More() {
		return nil, invalidBody(errors.New("trailing data after JSON object"))
	}
	return raw, nil
}

func (s *Server) decodeStruct(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err := dec.Decode(dst); err != nil {
		return invalidBody(err)
	}
	return nil
}

func invalidBody(err error) error {
	se := apperrors.NewValidationError(apperrors.ErrCodeInvalidRequestBody, "Request body must be a valid JSON object")
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		se.Message = fmt.Sprintf("Request body must not exceed %d bytes", tooLarge.Limit)
	}
	se.Details = err.Error()
	return se
}
