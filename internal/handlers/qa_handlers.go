package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"samarth-platform/internal/models"
	"samarth-platform/internal/nlsql"
	"samarth-platform/internal/repository"
	"samarth-platform/internal/services"
	"samarth-platform/internal/snapshot"
	"samarth-platform/pkg/logging"
	"samarth-platform/pkg/metrics"
)

// maxQuestionBytes bounds request bodies on the ask endpoints.
const maxQuestionBytes = 1 << 16

// QAHandler serves the question-answering API and the HTML dashboard.
type QAHandler struct {
	qaService *services.QAService
	catalog   *services.CatalogService
	repo      repository.AnalyticsRepository
	logger    *logging.StructuredLogger
	metrics   *metrics.Collector
	page      *dashboardPage
}

// NewQAHandler creates a new question-answering handler
func NewQAHandler(
	qaService *services.QAService,
	catalog *services.CatalogService,
	repo repository.AnalyticsRepository,
	logger *logging.StructuredLogger,
	metricsCollector *metrics.Collector,
) *QAHandler {
	return &QAHandler{
		qaService: qaService,
		catalog:   catalog,
		repo:      repo,
		logger:    logger,
		metrics:   metricsCollector,
		page:      newDashboardPage(),
	}
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// AskRequest is the body of POST /api/ask.
type AskRequest struct {
	Question string `json:"question"`
}

// SamplesResponse lists the suggested questions.
type SamplesResponse struct {
	Questions []string `json:"questions"`
}

// ProvenanceEntry is one parsed citation sidecar.
type ProvenanceEntry struct {
	Label     string             `json:"label"`
	Path      string             `json:"path"`
	Available bool               `json:"available"`
	Source    *models.Provenance `json:"source,omitempty"`
}

// Ask handles POST /api/ask
func (h *QAHandler) Ask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	defer h.observe("/api/ask", time.Now())

	var req AskRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxQuestionBytes)).Decode(&req); err != nil {
		h.sendError(w, r, "invalid JSON body, expected {\"question\": \"...\"}", http.StatusBadRequest)
		return
	}

	if err := validateQuestion(req.Question); err != nil {
		h.metrics.RecordAPIError("validation", "/api/ask")
		h.sendError(w, r, err.Error(), http.StatusBadRequest)
		return
	}

	answer := h.qaService.Answer(ctx, req.Question)
	if answer.State == models.StateResultReady {
		answer.MarkPresented()
	}

	h.metrics.RecordAPIRequest("/api/ask", "POST", "200")
	h.sendJSON(w, answer, http.StatusOK)
}

// GetSamples handles GET /api/samples
func (h *QAHandler) GetSamples(w http.ResponseWriter, r *http.Request) {
	defer h.observe("/api/samples", time.Now())

	h.metrics.RecordAPIRequest("/api/samples", "GET", "200")
	h.sendJSON(w, SamplesResponse{Questions: nlsql.SampleQuestions}, http.StatusOK)
}

// GetProvenance handles GET /api/provenance
func (h *QAHandler) GetProvenance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	defer h.observe("/api/provenance", time.Now())

	var entries []ProvenanceEntry
	for _, c := range h.qaService.Citations() {
		entry := ProvenanceEntry{Label: c.Label, Path: c.Path}

		prov, err := snapshot.ReadSidecar(c.Path)
		switch {
		case err == nil:
			entry.Available = true
			entry.Source = prov
		case errors.Is(err, os.ErrNotExist):
		default:
			h.logger.Error(ctx, "[API_PROVENANCE_ERROR] Failed to read sidecar", logging.Fields{
				"path": c.Path,
			}, err)
			h.metrics.RecordAPIError("internal_error", "/api/provenance")
			h.sendError(w, r, "failed to read provenance", http.StatusInternalServerError)
			return
		}
		entries = append(entries, entry)
	}

	h.metrics.RecordAPIRequest("/api/provenance", "GET", "200")
	h.sendJSON(w, entries, http.StatusOK)
}

// GetCatalog handles GET /api/catalog
func (h *QAHandler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	defer h.observe("/api/catalog", time.Now())

	catalog, err := h.catalog.Summarize(ctx)
	if err != nil {
		h.logger.Error(ctx, "[API_CATALOG_ERROR] Failed to summarize tables", logging.Fields{}, err)
		h.metrics.RecordAPIError("internal_error", "/api/catalog")
		h.sendError(w, r, "failed to summarize tables", http.StatusInternalServerError)
		return
	}

	h.metrics.RecordAPIRequest("/api/catalog", "GET", "200")
	h.sendJSON(w, catalog, http.StatusOK)
}

// HealthCheck handles GET /health
func (h *QAHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	status := map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if err := h.repo.HealthCheck(ctx); err != nil {
		h.logger.Warn(ctx, "[HEALTH_CHECK] Analytical engine unhealthy", logging.Fields{
			"error": err.Error(),
		})
		status["status"] = "unhealthy"
		h.sendJSON(w, status, http.StatusServiceUnavailable)
		return
	}

	h.logger.Debug(ctx, "[HEALTH_CHECK] Health check requested", logging.Fields{})
	h.sendJSON(w, status, http.StatusOK)
}

// validateQuestion rejects blank input. Accepted questions are passed on
// verbatim since the model cache is keyed by the exact text.
func validateQuestion(q string) error {
	if strings.TrimSpace(q) == "" {
		return &models.ValidationError{Field: "question", Message: "question must not be empty"}
	}
	return nil
}

func (h *QAHandler) observe(endpoint string, start time.Time) {
	h.metrics.APIRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}

// sendJSON sends a JSON response
func (h *QAHandler) sendJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// sendError sends an error response
func (h *QAHandler) sendError(w http.ResponseWriter, r *http.Request, message string, statusCode int) {
	h.metrics.RecordAPIRequest(r.URL.Path, r.Method, strconv.Itoa(statusCode))

	response := ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    statusCode,
	}

	h.sendJSON(w, response, statusCode)
}

// RegisterRoutes registers the dashboard and API routes
func (h *QAHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/", h.Dashboard).Methods("GET")
	router.HandleFunc("/", h.SubmitQuestion).Methods("POST")
	router.HandleFunc("/api/ask", h.Ask).Methods("POST")
	router.HandleFunc("/api/samples", h.GetSamples).Methods("GET")
	router.HandleFunc("/api/provenance", h.GetProvenance).Methods("GET")
	router.HandleFunc("/api/catalog", h.GetCatalog).Methods("GET")
	router.HandleFunc("/api/docs", SwaggerUI).Methods("GET")
	router.HandleFunc("/api/docs/openapi.json", OpenAPISpec).Methods("GET")
	router.HandleFunc("/health", h.HealthCheck).Methods("GET")
}
