package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"hurdl/internal/app"
	"hurdl/internal/cache"
	"hurdl/internal/config"
	"hurdl/internal/logger"
	"hurdl/internal/service"
	"hurdl/internal/transport/rest"
	"hurdl/internal/transport/rest/middleware"
	"hurdl/internal/transport/ws"
)

// @title Hurdl Wellbeing API
// @version 1.0
// @description Anonymous weekly check-ins and the HR wellbeing dashboard
// @host localhost:8080
// @BasePath /v1
func main() {
	_ = godotenv.Load(".env.local")
	cfg := config.Load()

	zl, err := logger.New(cfg.LogLevel, cfg.LogFormat, "hurdl")
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer zl.Sync()

	ctx := context.Background()

	aiConfig := cfg.AI
	zl.Info("ai config",
		zap.String("assistant_model", aiConfig.Models.Assistant),
		zap.String("sentiment_model", aiConfig.Models.Sentiment),
		zap.String("scorer", aiConfig.Scorer),
		zap.Bool("api_key_configured", aiConfig.IsEnabled()),
	)

	trustedProxies, err := middleware.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		zl.Fatal("invalid TRUSTED_PROXIES", zap.Error(err))
	}

	questions, err := config.LoadQuestions()
	if err != nil {
		zl.Fatal("failed to load question set", zap.Error(err))
	}

	a, err := app.Open(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("failed to connect", zap.Error(err))
	}
	defer a.Close(context.Background())

	// Initialize WebSocket hub
	wsHub := ws.NewHub(zl)

	// Initialize caches
	dashboardCache := cache.NewDashboardCache(a.Redis, cfg.DashboardCacheTTL)
	sessionCache := cache.NewSessionCache(a.Redis, cfg.SessionTTL)
	attemptCache := cache.NewAttemptCache(a.Redis)

	// Initialize services
	llm := service.NewLLMClient(aiConfig, zl)
	scorer := service.NewScorer(aiConfig, llm, zl)
	authSvc, err := service.NewAuthService(cfg, attemptCache, zl)
	if err != nil {
		zl.Fatal("failed to init auth", zap.Error(err))
	}
	dashboardSvc := service.NewDashboardService(a.Repo, dashboardCache, scorer, questions, zl)
	assistantSvc := service.NewAssistantService(aiConfig, llm, zl)
	checkinSvc := service.NewCheckinService(questions, sessionCache, a.Repo, dashboardSvc, assistantSvc, zl)
	exportSvc := service.NewExportService(dashboardSvc)

	// Inject broadcaster (wsHub implements service.Broadcaster)
	checkinSvc.SetBroadcaster(wsHub)

	router := rest.NewRouter(&rest.Container{
		Config:           cfg,
		AuthService:      authSvc,
		CheckinService:   checkinSvc,
		DashboardService: dashboardSvc,
		ExportService:    exportSvc,
		WSHub:            wsHub,
		Logger:           zl,
		TrustedProxies:   trustedProxies,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zl.Info("server starting",
			zap.String("port", cfg.Port),
			zap.String("store", cfg.StoreDriver),
			zap.String("admin", cfg.AdminUsername),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zl.Fatal("listen failed", zap.Error(err))
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zl.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("server forced to shutdown", zap.Error(err))
	}

	zl.Info("server exited")
}
