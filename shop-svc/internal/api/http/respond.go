package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"sivik-storefront/shop-svc/internal/domain"
	"sivik-storefront/shop-svc/internal/service"

	"github.com/gorilla/mux"
)

const maxBodyBytes = 1 << 20

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

// writeError is the single place domain errors become HTTP statuses.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validationErr *domain.ValidationError
		upstreamErr   *domain.UpstreamError
	)
	switch {
	case errors.As(err, &validationErr):
		respondWithJSON(w, http.StatusBadRequest, map[string]string{
			"error": validationErr.Error(),
			"field": validationErr.Field,
		})
	case errors.Is(err, service.ErrInvalidCredentials):
		respondWithError(w, http.StatusUnauthorized, "invalid username or password")
	case errors.Is(err, domain.ErrUnauthenticated):
		respondWithError(w, http.StatusUnauthorized, "authentication required")
	case errors.Is(err, domain.ErrForbidden):
		respondWithError(w, http.StatusForbidden, "access denied")
	case errors.Is(err, domain.ErrNotFound):
		respondWithError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrConflict):
		respondWithError(w, http.StatusConflict, "already exists")
	case errors.As(err, &upstreamErr):
		h.logger.Warn("partner platform call failed", "path", r.URL.Path, "status", upstreamErr.Status, "error", err)
		respondWithJSON(w, http.StatusBadGateway, map[string]interface{}{
			"error":           upstreamErr.Error(),
			"upstream_status": upstreamErr.Status,
		})
	default:
		h.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		respondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domain.NewValidationError("", "invalid JSON body")
	}
	return nil
}

func pathID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError("id", "must be a positive integer")
	}
	return id, nil
}
