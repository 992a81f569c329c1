package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/smart-triage/platform/pkg/common/config"
	"github.com/smart-triage/platform/pkg/common/database"
	"github.com/smart-triage/platform/pkg/common/kafka"
	"github.com/smart-triage/platform/pkg/common/logger"
	"github.com/smart-triage/platform/pkg/common/middleware"
	"github.com/smart-triage/platform/pkg/phi"
	"github.com/smart-triage/platform/pkg/prompt"
	"github.com/smart-triage/platform/pkg/reasoning"
	"github.com/smart-triage/platform/pkg/triage"
)

func main() {
	logger.Init()
	cfg := config.Load()

	db, err := database.GetPostgres()
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to connect to postgres")
	}

	repo := triage.NewRepository(db)
	if err := repo.AutoMigrate(); err != nil {
		logger.Log.WithError(err).Fatal("failed to migrate patient record table")
	}
	if cfg.RecordCacheTTL > 0 {
		repo.WithCache(database.GetRedis(), cfg.RecordCacheTTL)
	}

	rules, err := prompt.LoadRules(cfg.TriageRulesPath)
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to load triage rule set")
	}
	composer := prompt.NewComposer(rules)

	reasoner := reasoning.NewClient(reasoning.Options{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Model:   cfg.OpenAIModel,
		Timeout: cfg.ReasoningTimeout,
		Retries: cfg.ReasoningRetries,
		Backoff: cfg.ReasoningBackoff,
	})

	var opts []triage.Option

	if cfg.RedactEHRText {
		phiRules, err := phi.LoadRules(cfg.PHIRulesPath)
		if err != nil {
			logger.Log.WithError(err).Warn("falling back to default PHI rules")
		}
		redactor, err := phi.NewRedactor(phiRules)
		if err != nil {
			logger.Log.WithError(err).Fatal("failed to compile PHI rules")
		}
		opts = append(opts, triage.WithRedactor(redactor))
	}

	if cfg.AuditKafkaTopic != "" {
		producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.AuditKafkaTopic)
		defer producer.Close()
		opts = append(opts, triage.WithPublisher(producer))
	}

	svc := triage.NewService(composer, reasoner, repo, opts...)
	handler := triage.NewHTTPHandler(svc, cfg.MaxRequestBody, cfg.DashboardTrendDays)

	router := mux.NewRouter()
	router.Use(middleware.Recovery, middleware.Logging, middleware.CORS)
	router.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)

	router.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ready"}`))
	}).Methods(http.MethodGet)

	// Preflight requests need a matching route for the CORS middleware to run.
	router.PathPrefix("/").Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	api := router.PathPrefix("/api").Subrouter()
	handler.Register(api)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Log.WithFields(map[string]interface{}{
			"host": cfg.ServerHost,
			"port": cfg.ServerPort,
		}).Info("Triage Service started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down Triage Service...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Error("server forced to shutdown")
	}

	if err := database.ClosePostgres(); err != nil {
		logger.Log.WithError(err).Error("failed to close postgres connection")
	}
	if cfg.RecordCacheTTL > 0 {
		if err := database.CloseRedis(); err != nil {
			logger.Log.WithError(err).Error("failed to close redis connection")
		}
	}

	logger.Log.Info("Triage Service stopped")
}
