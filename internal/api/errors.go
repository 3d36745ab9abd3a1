package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	apperrors "github.com/fraud-desk/internal/errors"
	"github.com/fraud-desk/internal/logging"
	"github.com/gorilla/mux"
)

// maxBodyBytes caps request bodies
const maxBodyBytes = 1 << 20

// ErrorResponse represents an API error response.
type ErrorResponse struct {
	Error   string                 `json:"error"`
	Code    string                 `json:"code"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Error codes used only by the router
const (
	ErrCodeNotFound         = apperrors.CodeNotFound
	ErrCodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	ErrCodeInternalError    = apperrors.CodeInternalError
)

var (
	errNotJSONObject = errors.New("request body must be a JSON object")
	errTrailingData  = errors.New("request body has data after the JSON object")
)

// respondError sends an error response.
func respondError(w http.ResponseWriter, statusCode int, code, message string) {
	respondJSON(w, statusCode, ErrorResponse{Error: message, Code: code})
}

// respondServiceError maps a service error to its status code and body.
// Server-side failures are logged with their cause, which is never sent to the client.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	catErr := apperrors.Categorize(err)

	if catErr.StatusCode >= http.StatusInternalServerError {
		logging.FromContext(r.Context()).WithError(err).WithFields(map[string]interface{}{
			"code":     catErr.Code,
			"category": string(catErr.Category),
		}).Error("request failed")
	}

	response := ErrorResponse{Error: catErr.Message, Code: catErr.Code}
	if apperrors.IsUserError(err) {
		response.Details = catErr.Details
	}
	respondJSON(w, catErr.StatusCode, response)
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			logging.WithError(err).Warn("failed to encode response")
		}
	}
}

// parseJSONBody decodes a JSON object body into v. Empty bodies, null,
// arrays, scalars and anything after the object are rejected. Unknown fields
// are ignored.
func parseJSONBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	var raw json.RawMessage
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := decoder.Decode(&raw); err != nil {
		return apperrors.NewInvalidJSONError(err)
	}

	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return apperrors.NewInvalidJSONError(errTrailingData)
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return apperrors.NewInvalidJSONError(errNotJSONObject)
	}

	if err := json.Unmarshal(raw, v); err != nil {
		return apperrors.NewInvalidJSONError(err)
	}
	return nil
}

// pathID reads the numeric {id} route variable. Ids too large for int64
// cannot exist, so they are reported as not found.
func pathID(r *http.Request, resource string) (int64, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperrors.NewNotFoundError(resource, raw)
	}
	return id, nil
}
