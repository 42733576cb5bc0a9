package rest

import (
	"net/http"
	"net/netip"

	"github.com/gorilla/mux"
	"github.com/swaggo/swag"
	"go.uber.org/zap"

	_ "hurdl/docs"
	"hurdl/internal/config"
	"hurdl/internal/service"
	"hurdl/internal/transport/rest/handler"
	"hurdl/internal/transport/rest/middleware"
	"hurdl/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	Config           *config.Config
	AuthService      *service.AuthService
	CheckinService   *service.CheckinService
	DashboardService *service.DashboardService
	ExportService    *service.ExportService
	WSHub            *ws.Hub
	Logger           *zap.Logger
	// TrustedProxies may set X-Forwarded-For for rate limiting
	TrustedProxies []netip.Prefix
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	checkinHandler := handler.NewCheckinHandler(c.CheckinService, c.Logger)
	dashboardHandler := handler.NewDashboardHandler(c.DashboardService, c.ExportService, c.Logger)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService, c.Logger)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)
	limiter := middleware.NewRateLimiter(c.Config.SubmitRatePerMin, c.TrustedProxies)

	// CORS middleware (apply first)
	r.Use(corsMiddleware(c.Config))

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	v1.HandleFunc("/questions", checkinHandler.Questions).Methods("GET", "OPTIONS")
	v1.HandleFunc("/checkins/{id}", checkinHandler.Get).Methods("GET", "OPTIONS")
	v1.HandleFunc("/checkins/{id}/chat", checkinHandler.ChatHistory).Methods("GET", "OPTIONS")

	// Anonymous writes (rate limited per IP)
	checkinRoutes := v1.NewRoute().Subrouter()
	checkinRoutes.Use(limiter.Limit)

	checkinRoutes.HandleFunc("/checkins", checkinHandler.Start).Methods("POST", "OPTIONS")
	checkinRoutes.HandleFunc("/checkins/{id}/advance", checkinHandler.Advance).Methods("POST", "OPTIONS")
	checkinRoutes.HandleFunc("/checkins/{id}/chat", checkinHandler.Chat).Methods("POST", "OPTIONS")

	// WebSocket routes (token in query param)
	v1.HandleFunc("/ws/dashboard", wsHandler.DashboardWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// API docs
	r.HandleFunc("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		doc, err := swag.ReadDoc()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(doc))
	}).Methods("GET")

	// Admin routes
	adminRoutes := v1.NewRoute().Subrouter()
	adminRoutes.Use(authMW.RequireAdmin)

	adminRoutes.HandleFunc("/dashboard", dashboardHandler.Get).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/dashboard/export.xlsx", dashboardHandler.Export).Methods("GET", "OPTIONS")

	return r
}

func corsMiddleware(cfg *config.Config) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", cfg.CORSAllowedOrigins)
			w.Header().Set("Access-Control-Allow-Methods", cfg.CORSAllowedMethods)
			w.Header().Set("Access-Control-Allow-Headers", cfg.CORSAllowedHeaders)

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
