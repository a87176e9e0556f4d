package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samarthumrao/BrandPulse-AI/internal/audit"
	"github.com/samarthumrao/BrandPulse-AI/internal/dashboard"
	"github.com/samarthumrao/BrandPulse-AI/internal/models"
	"github.com/samarthumrao/BrandPulse-AI/internal/sentiment"
	"github.com/samarthumrao/BrandPulse-AI/internal/session"
	"github.com/sirupsen/logrus"
)

// Sessions is the interactive search the API drives
type Sessions interface {
	Submit(query string) error
	Snapshot() session.Snapshot
	Result() *models.AnalysisResult
}

// Auditor is the audit service surface the API needs
type Auditor interface {
	GetMetrics() string
	RunWatchlist(ctx context.Context) error
	CrossCheck(result *models.AnalysisResult) *sentiment.Report
	History(ctx context.Context, brandName string) ([]audit.ArchivedAudit, error)
	Latest(ctx context.Context, brandName string) (*models.AnalysisResult, audit.ArchivedAudit, error)
	PurgeHistory(ctx context.Context, brandName string) (int, error)
}

type analyzeRequest struct {
	Query string `json:"query"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type historyResponse struct {
	Brand  string                `json:"brand"`
	Audits []audit.ArchivedAudit `json:"audits"`
}

type latestResponse struct {
	Audit     audit.ArchivedAudit    `json:"audit"`
	Result    *models.AnalysisResult `json:"result"`
	Dashboard *dashboard.Dashboard   `json:"dashboard"`
}

// NewRouter builds the HTTP routes. live may be nil to disable the websocket feed.
func NewRouter(sessions Sessions, auditor Auditor, live http.Handler) *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/health", healthCheckHandler).Methods("GET")
	router.HandleFunc("/metrics", metricsHandler(auditor)).Methods("GET")
	router.Handle("/metrics/prometheus", promhttp.Handler()).Methods("GET")
	router.HandleFunc("/trigger", triggerHandler(auditor)).Methods("POST")

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/analyze", analyzeHandler(sessions)).Methods("POST")
	api.HandleFunc("/session", sessionHandler(sessions)).Methods("GET")
	api.HandleFunc("/dashboard", dashboardHandler(sessions, auditor)).Methods("GET")
	api.HandleFunc("/audits/{brand}", historyHandler(auditor)).Methods("GET")
	api.HandleFunc("/audits/{brand}", purgeHandler(auditor)).Methods("DELETE")
	api.HandleFunc("/audits/{brand}/latest", latestHandler(auditor)).Methods("GET")

	if live != nil {
		router.Handle("/ws", live).Methods("GET")
	}

	return router
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func metricsHandler(auditor Auditor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(auditor.GetMetrics()))
	}
}

func triggerHandler(auditor Auditor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		go func() {
			if err := auditor.RunWatchlist(context.Background()); err != nil {
				logrus.Errorf("Manual watchlist trigger failed: %v", err)
			}
		}()

		writeJSON(w, http.StatusAccepted, map[string]string{"message": "Watchlist audit triggered successfully"})
	}
}

func analyzeHandler(sessions Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req analyzeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "request body must be JSON with a query field"})
			return
		}

		err := sessions.Submit(req.Query)
		switch {
		case errors.Is(err, session.ErrEmptyQuery):
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		case errors.Is(err, session.ErrSearchInFlight):
			writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
			return
		case err != nil:
			logrus.Errorf("Failed to start search: %v", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to start search"})
			return
		}

		writeJSON(w, http.StatusAccepted, sessions.Snapshot())
	}
}

func sessionHandler(sessions Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, sessions.Snapshot())
	}
}

func dashboardHandler(sessions Sessions, auditor Auditor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result := sessions.Result()
		if result == nil {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "no analysis result yet"})
			return
		}

		writeJSON(w, http.StatusOK, dashboard.Build(result, auditor.CrossCheck(result)))
	}
}

func historyHandler(auditor Auditor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		brand := mux.Vars(r)["brand"]
		audits, err := auditor.History(r.Context(), brand)
		if err != nil {
			writeArchiveError(w, brand, err)
			return
		}

		writeJSON(w, http.StatusOK, historyResponse{Brand: brand, Audits: audits})
	}
}

func latestHandler(auditor Auditor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		brand := mux.Vars(r)["brand"]
		result, archived, err := auditor.Latest(r.Context(), brand)
		if err != nil {
			writeArchiveError(w, brand, err)
			return
		}

		writeJSON(w, http.StatusOK, latestResponse{
			Audit:     archived,
			Result:    result,
			Dashboard: dashboard.Build(result, auditor.CrossCheck(result)),
		})
	}
}

func purgeHandler(auditor Auditor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		brand := mux.Vars(r)["brand"]
		deleted, err := auditor.PurgeHistory(r.Context(), brand)
		if err != nil {
			writeArchiveError(w, brand, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]int{"deleted": deleted})
	}
}

func writeArchiveError(w http.ResponseWriter, brand string, err error) {
	switch {
	case errors.Is(err, audit.ErrInvalidBrand):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, audit.ErrNoAudits):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, audit.ErrArchiveDisabled):
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
	default:
		logrus.Errorf("Archive lookup for %q failed: %v", brand, err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to read audit archive"})
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logrus.Errorf("Failed to write response: %v", err)
	}
}
