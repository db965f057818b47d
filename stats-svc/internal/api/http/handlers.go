package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"sivik-storefront/stats-svc/internal/domain"
	"sivik-storefront/stats-svc/internal/service"

	"github.com/gorilla/mux"
)

type Handler struct {
	Stats  service.StatsInterface
	logger *slog.Logger
}

func NewHandler(svc service.StatsInterface, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{Stats: svc, logger: logger}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")
	r.HandleFunc("/api/stats/today", h.getToday).Methods("GET")
	r.HandleFunc("/api/stats/{date}", h.getDay).Methods("GET")
}

func (h *Handler) getToday(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Stats.Today(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, stats)
}

func (h *Handler) getDay(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Stats.Day(r.Context(), mux.Vars(r)["date"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, stats)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, domain.ErrInvalidDate) {
		respondWithJSON(w, http.StatusBadRequest, map[string]string{
			"error": err.Error(),
			"field": "date",
		})
		return
	}
	h.logger.Error("stats request failed", "path", r.URL.Path, "error", err)
	respondWithError(w, http.StatusInternalServerError, "internal server error")
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		h.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds())
	})
}
