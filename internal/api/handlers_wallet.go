package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

// handleGetWallet handles GET /api/wallet/{address}.
// The address is forwarded to the provider as given. Provider failures
// degrade the body instead of failing the request.
func (s *Server) handleGetWallet(w http.ResponseWriter, r *http.Request) {
	address := mux.Vars(r)["address"]

	respondJSON(w, http.StatusOK, s.walletService.Lookup(r.Context(), address))
}
