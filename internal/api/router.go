package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/tradelens/backend/internal/api/handlers"
	"github.com/tradelens/backend/internal/realtime"
	"github.com/tradelens/backend/pkg/logger"
	"github.com/tradelens/backend/pkg/redis"
)

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: routing lives only in this function
func NewRouter(
	analyticsHandler *handlers.AnalyticsHandler,
	hub *realtime.Hub,
	limiter *redis.RateLimiter, // nil disables API rate limiting
	perMinute int,
	log *logger.Logger,
) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	// Refresh notifications
	if hub != nil {
		r.HandleFunc("/ws/refresh", func(w http.ResponseWriter, req *http.Request) {
			userID := req.URL.Query().Get("user_id")
			if userID == "" {
				http.Error(w, "user_id is required", http.StatusBadRequest)
				return
			}
			hub.ServeWS(w, req, userID)
		}).Methods("GET")
	}

	// API v1
	api := r.PathPrefix("/api").Subrouter()
	api.Use(rateLimitMiddleware(limiter, perMinute, log))

	// Analytics endpoints
	api.HandleFunc("/analytics/summary", analyticsHandler.GetSummary).Methods("GET")
	api.HandleFunc("/analytics/timeline", analyticsHandler.GetTimeline).Methods("GET")
	api.HandleFunc("/analytics/heatmap", analyticsHandler.GetHeatmap).Methods("GET")
	api.HandleFunc("/analytics/whatif", analyticsHandler.RunWhatIf).Methods("POST")
	api.HandleFunc("/analytics/invalidate", analyticsHandler.Invalidate).Methods("POST")
	api.HandleFunc("/analytics/runs", analyticsHandler.GetRuns).Methods("GET")

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "tradelens-api",
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// rateLimitMiddleware enforces a per-user sliding window over all
// analytics endpoints. Requests without user_id pass through; the
// handler rejects them with 400 anyway.
func rateLimitMiddleware(limiter *redis.RateLimiter, perMinute int, log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := r.URL.Query().Get("user_id")
			if limiter == nil || userID == "" {
				next.ServeHTTP(w, r)
				return
			}

			allowed, remaining, err := limiter.Allow(r.Context(), redis.APIRateLimit(userID, perMinute))
			if err != nil {
				// Limiter backend trouble must not take the API down
				log.WithError(err).Warn("Rate limiter unavailable")
				next.ServeHTTP(w, r)
				return
			}
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			if !allowed {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(map[string]string{
					"error": "Rate limit exceeded",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
