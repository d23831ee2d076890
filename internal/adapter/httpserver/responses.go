// Package httpserver contains the REST handlers and middleware for the
// resume parsing API: upload, result polling, listing, enhancement and
// health endpoints.
package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/talentsift/resume-parser/internal/domain"
)

type errorEnvelope struct {
	Error apiError `json:"error"`
}

type apiError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, _ *http.Request, err error, details interface{}) {
	code := http.StatusInternalServerError
	codeStr := "INTERNAL"
	switch {
	case errors.Is(err, domain.ErrInvalidFileType):
		code = http.StatusUnsupportedMediaType
		codeStr = "UNSUPPORTED_MEDIA_TYPE"
	case errors.Is(err, domain.ErrFileTooLarge):
		code = http.StatusRequestEntityTooLarge
		codeStr = "PAYLOAD_TOO_LARGE"
	case errors.Is(err, domain.ErrExtraction):
		code = http.StatusUnprocessableEntity
		codeStr = "EXTRACTION_FAILED"
	case errors.Is(err, domain.ErrInvalidArgument):
		code = http.StatusBadRequest
		codeStr = "INVALID_ARGUMENT"
	case errors.Is(err, domain.ErrNotFound):
		code = http.StatusNotFound
		codeStr = "NOT_FOUND"
	}
	writeJSON(w, code, errorEnvelope{Error: apiError{Code: codeStr, Message: err.Error(), Details: details}})
}
