package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/Notifuse/emailbuilder/internal/domain"
	"github.com/Notifuse/emailbuilder/pkg/emailbuilder"
	"github.com/Notifuse/emailbuilder/pkg/logger"
)

// maxRequestBytes caps request bodies; imported documents with embedded
// images are the largest payloads.
const maxRequestBytes = 16 << 20

// WriteJSONError writes a JSON error response with the given message and status code.
// It sets the Content-Type header to application/json and automatically formats
// the response as {"error": "message"}.
func WriteJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}

// writeJSON writes a JSON response with the given status code and data.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeFile sends an export as a download.
func writeFile(w http.ResponseWriter, file *emailbuilder.ExportFile) {
	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(file.Body)
}

// readBody reads a capped request body.
func readBody(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBytes+1))
	if err != nil {
		return nil, err
	}
	if len(body) > maxRequestBytes {
		return nil, domain.NewValidationError("request body too large")
	}
	return body, nil
}

// decodeJSON decodes a capped request body into v.
func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBytes)).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// errorStatus maps domain and editor errors to HTTP status codes.
func errorStatus(err error) int {
	var (
		validationErr   domain.ValidationError
		settingErr      *emailbuilder.SettingError
		templateMissing *domain.ErrTemplateNotFound
		sessionMissing  *domain.ErrSessionNotFound
		mediaMissing    *domain.ErrMediaNotFound
	)
	switch {
	case errors.As(err, &validationErr), errors.As(err, &settingErr):
		return http.StatusBadRequest
	case errors.As(err, &templateMissing), errors.As(err, &sessionMissing), errors.As(err, &mediaMissing):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrSaveInProgress):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnsupportedMedia):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, domain.ErrMediaUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError answers with the status of err. Unexpected errors are
// logged and hidden behind fallback.
func writeServiceError(w http.ResponseWriter, log logger.Logger, err error, fallback string) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		log.WithField("error", err.Error()).Error(fallback)
		WriteJSONError(w, fallback, status)
		return
	}
	WriteJSONError(w, err.Error(), status)
}
