package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"express-ledger-service/internal/platform/logging"
	"express-ledger-service/internal/platform/obs"
	"express-ledger-service/internal/services"
)

// maxBodyBytes bounds request bodies; a pasted roll-call is a few KB.
const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, r *http.Request, log logging.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn("encode failed",
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path),
			logging.Err(err),
		)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, log logging.Logger, status int, msg string) {
	writeJSON(w, r, log, status, map[string]string{"error": msg})
}

// decodeJSON reads exactly one JSON object into dst, rejecting unknown fields.
// It writes the 400 response itself and reports whether decoding succeeded.
func decodeJSON(w http.ResponseWriter, r *http.Request, log logging.Logger, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		writeError(w, r, log, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, log, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}
	return true
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound), errors.Is(err, services.ErrNothingToExport):
		return http.StatusNotFound
	case errors.Is(err, services.ErrEmptyContent), errors.Is(err, services.ErrInvalidRecord):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrNoEntries):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// writeServiceError answers with the status for err. Server errors are logged
// and their detail is withheld from the client.
func writeServiceError(w http.ResponseWriter, r *http.Request, log logging.Logger, op string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error(op+" failed",
			logging.String("req_id", obs.RequestID(r.Context())),
			logging.Err(err),
		)
		writeError(w, r, log, status, "internal server error")
		return
	}
	writeError(w, r, log, status, err.Error())
}
