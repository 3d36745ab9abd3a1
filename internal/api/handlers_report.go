package api

import (
	"net/http"

	"github.com/fraud-desk/internal/service"
)

// handleCreateReport handles POST /api/reports
func (s *Server) handleCreateReport(w http.ResponseWriter, r *http.Request) {
	var req service.CreateReportInput
	if err := parseJSONBody(w, r, &req); err != nil {
		respondServiceError(w, r, err)
		return
	}

	report, err := s.reportService.CreateReport(r.Context(), &req)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"id":     report.ID,
		"status": report.Status,
	})
}

// handleListReports handles GET /api/reports
func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	reports, err := s.reportService.ListReports(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, reports)
}

// handleGetReport handles GET /api/reports/{id}
func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "report")
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	report, err := s.reportService.GetReport(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, report)
}

// handleUpdateReportStatus handles PUT /api/reports/{id}/status.
// The body is validated before the report is looked up.
func (s *Server) handleUpdateReportStatus(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateStatusInput
	if err := parseJSONBody(w, r, &req); err != nil {
		respondServiceError(w, r, err)
		return
	}

	id, err := pathID(r, "report")
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	report, err := s.reportService.UpdateStatus(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"id":     report.ID,
		"status": report.Status,
	})
}

// handleListReportInvestigations handles GET /api/reports/{id}/investigations
func (s *Server) handleListReportInvestigations(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "report")
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	investigations, err := s.investigationService.ListForReport(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, investigations)
}
