// SPDX-License-Identifier: MIT

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ManuGH/filmshelf/internal/film"
	"github.com/ManuGH/filmshelf/internal/log"
)

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

type validationBody struct {
	Detail []film.FieldError `json:"detail"`
}

// writeValidationError writes a 422 with the offending locations.
func writeValidationError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *film.ValidationError
	if !errors.As(err, &verr) {
		writeInternalError(w, r, err)
		return
	}
	log.FromContext(r.Context()).Debug().
		Str(log.FieldEvent, "request.invalid").
		Int("errors", len(verr.Errors)).
		Msg(verr.Error())
	writeJSON(w, http.StatusUnprocessableEntity, validationBody{Detail: verr.Errors})
}

// writeInternalError logs err and writes an opaque 500 carrying the request id.
func writeInternalError(w http.ResponseWriter, r *http.Request, err error) {
	reqID := log.RequestIDFromContext(r.Context())
	log.FromContext(r.Context()).Error().
		Err(err).
		Str(log.FieldEvent, "request.failed").
		Msg("request failed")
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error":      "internal server error",
		"request_id": reqID,
	})
}

// writeTooLarge writes a 413 for bodies over maxBodyBytes.
func writeTooLarge(w http.ResponseWriter) {
	writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "request body too large"})
}
