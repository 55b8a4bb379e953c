package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5"

	"tableside/internal/logger"
	"tableside/internal/models"
	"tableside/internal/services/menu"
	"tableside/internal/services/recommend"
)

// Handler exposes the diner-facing HTTP API.
type Handler struct {
	service   *Service
	menu      *menu.Service
	recommend *recommend.Service
	settings  models.SettingsResponse
	logger    *logger.Logger
}

// NewHandler creates a new HTTP handler. recommender may be nil when the
// AI collaborator is not configured.
func NewHandler(service *Service, menuService *menu.Service, recommender *recommend.Service,
	settings models.SettingsResponse, log *logger.Logger) *Handler {
	return &Handler{
		service:   service,
		menu:      menuService,
		recommend: recommender,
		settings:  settings,
		logger:    log,
	}
}

// SetupRoutes sets up the HTTP routes
func (h *Handler) SetupRoutes() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/api/orders", h.withLogging(h.CreateOrder)).Methods(http.MethodPost)
	router.HandleFunc("/api/orders/{number}", h.withLogging(h.GetOrder)).Methods(http.MethodGet)
	router.HandleFunc("/api/menu", h.withLogging(h.GetMenu)).Methods(http.MethodGet)
	router.HandleFunc("/api/settings", h.withLogging(h.GetSettings)).Methods(http.MethodGet)
	router.HandleFunc("/api/recommendation", h.withLogging(h.Recommend)).Methods(http.MethodPost)
	router.HandleFunc("/health", h.withLogging(h.HealthCheck)).Methods(http.MethodGet)

	return router
}

// CreateOrder handles POST /api/orders requests
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	requestID := requestIDFromContext(r.Context())

	var req models.CreateOrderRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&req); err != nil {
		h.logger.Error("validation_failed", "Failed to parse request body", requestID, err, nil)
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON format", requestID)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	response, err := h.service.CreateOrder(ctx, &req, requestID)
	if err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			h.logger.Error("validation_failed", "Request validation failed", requestID, err, map[string]interface{}{
				"table_label": req.TableLabel,
				"field":       verr.Field,
			})
			h.writeErrorResponse(w, http.StatusBadRequest, verr.Error(), requestID)
			return
		}

		h.logger.Error("order_creation_failed", "Failed to create order", requestID, err, map[string]interface{}{
			"table_label": req.TableLabel,
		})
		h.writeErrorResponse(w, http.StatusInternalServerError, "Failed to store order", requestID)
		return
	}

	h.writeJSONResponse(w, http.StatusCreated, response, requestID)
}

// GetOrder handles GET /api/orders/{number} requests
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	requestID := requestIDFromContext(r.Context())
	number := mux.Vars(r)["number"]

	order, err := h.service.GetOrder(r.Context(), number)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			h.writeErrorResponse(w, http.StatusNotFound, "Order not found", requestID)
			return
		}
		h.logger.Error("order_lookup_failed", "Failed to load order", requestID, err, map[string]interface{}{
			"order_number": number,
		})
		h.writeErrorResponse(w, http.StatusInternalServerError, "Failed to load order", requestID)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, order, requestID)
}

// GetMenu handles GET /api/menu requests
func (h *Handler) GetMenu(w http.ResponseWriter, r *http.Request) {
	requestID := requestIDFromContext(r.Context())

	sections, err := h.menu.Menu(r.Context())
	if err != nil {
		h.logger.Error("menu_load_failed", "Failed to load menu", requestID, err, nil)
		h.writeErrorResponse(w, http.StatusInternalServerError, "Failed to load menu", requestID)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, sections, requestID)
}

// GetSettings handles GET /api/settings requests
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	requestID := requestIDFromContext(r.Context())
	h.writeJSONResponse(w, http.StatusOK, h.settings, requestID)
}

// Recommend handles POST /api/recommendation requests
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	requestID := requestIDFromContext(r.Context())

	if h.recommend == nil {
		h.writeErrorResponse(w, http.StatusServiceUnavailable, "Recommendations are not enabled", requestID)
		return
	}

	var req recommend.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON format", requestID)
		return
	}

	text, err := h.recommend.Recommend(r.Context(), &req)
	if err != nil {
		h.logger.Error("recommendation_failed", "Recommendation collaborator failed", requestID, err, nil)
		h.writeErrorResponse(w, http.StatusBadGateway, "Recommendation service unavailable", requestID)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, map[string]string{"recommendation": text}, requestID)
}

// HealthCheck handles GET /health requests
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	requestID := requestIDFromContext(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	healthy := h.service.HealthCheck(ctx)

	response := map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "order-service",
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
		response["status"] = "unhealthy"
	}

	h.writeJSONResponse(w, status, response, requestID)
}

// writeJSONResponse writes a JSON response with the given status code
func (h *Handler) writeJSONResponse(w http.ResponseWriter, statusCode int, payload interface{}, requestID string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("response_encoding_failed", "Failed to encode response", requestID, err, nil)
	}
}

// writeErrorResponse writes an error response in JSON format
func (h *Handler) writeErrorResponse(w http.ResponseWriter, statusCode int, message, requestID string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errorResponse := map[string]interface{}{
		"error":      message,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"request_id": requestID,
	}

	json.NewEncoder(w).Encode(errorResponse)
}

type contextKey string

const requestIDKey contextKey = "request_id"

func requestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// withLogging adds request logging middleware
func (h *Handler) withLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := logger.GenerateRequestID()

		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		r = r.WithContext(ctx)

		h.logger.Debug("request_started",
			fmt.Sprintf("%s %s", r.Method, r.URL.Path),
			requestID,
			map[string]interface{}{
				"method":      r.Method,
				"path":        r.URL.Path,
				"remote_addr": r.RemoteAddr,
			})

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next(rw, r)

		duration := time.Since(start)
		h.logger.Debug("request_completed",
			fmt.Sprintf("%s %s - %d", r.Method, r.URL.Path, rw.statusCode),
			requestID,
			map[string]interface{}{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status_code": rw.statusCode,
				"duration_ms": duration.Milliseconds(),
			})
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
