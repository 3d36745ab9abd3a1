package api

import (
	"net/http"

	"github.com/fraud-desk/internal/service"
)

// handleCreateInvestigation handles POST /api/investigations
func (s *Server) handleCreateInvestigation(w http.ResponseWriter, r *http.Request) {
	var req service.CreateInvestigationInput
	if err := parseJSONBody(w, r, &req); err != nil {
		respondServiceError(w, r, err)
		return
	}

	inv, err := s.investigationService.CreateInvestigation(r.Context(), &req)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"id":             inv.ID,
		"wallet_address": inv.WalletAddress,
	})
}

// handleGetInvestigation handles GET /api/investigations/{id}
func (s *Server) handleGetInvestigation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "investigation")
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	inv, err := s.investigationService.GetInvestigation(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, inv)
}
