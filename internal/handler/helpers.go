package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/lojaviva/admin-api-go/internal/domain"

	"go.uber.org/zap"
)

// ============================================================
// Response helpers
// ============================================================

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// ============================================================
// Error mapping
// ============================================================

// handleServiceError translates domain errors into HTTP status codes.
func handleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	var (
		notFound     *domain.ErrNotFound
		validation   *domain.ErrValidation
		invalidPer   *domain.ErrInvalidPeriod
		malformed    *domain.ErrMalformedPromotion
		emptyExport  *domain.ErrEmptyExport
		conflict     *domain.ErrConflict
		dispatchConf *domain.ErrDispatchConflict
		unauthorized *domain.ErrUnauthorized
		circuitOpen  *domain.ErrCircuitOpen
		timeout      *domain.ErrTimeout
		external     *domain.ErrExternalService
	)

	switch {
	case errors.As(err, &notFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &validation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &invalidPer):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &malformed):
		logger.Warn("malformed promotion record", zap.Error(err))
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &emptyExport):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &conflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.As(err, &dispatchConf):
		writeError(w, http.StatusConflict, err.Error())
	case errors.As(err, &unauthorized):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.As(err, &circuitOpen):
		logger.Warn("circuit breaker open", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.As(err, &timeout):
		logger.Warn("upstream timeout", zap.Error(err))
		writeError(w, http.StatusGatewayTimeout, err.Error())
	case errors.As(err, &external):
		logger.Error("external service failure", zap.Error(err))
		writeError(w, http.StatusBadGateway, "upstream service error")
	default:
		logger.Error("unhandled error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
