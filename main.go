package main

import (
	"context"
	"log"
	"log/slog"
	"time"

	"github.com/gorilla/mux"
	"github.com/serisow/knackflow/action_step"
	"github.com/serisow/knackflow/config"
	"github.com/serisow/knackflow/db"
	"github.com/serisow/knackflow/logging"
	"github.com/serisow/knackflow/pipeline"
	"github.com/serisow/knackflow/pipeline/step"
	"github.com/serisow/knackflow/plugin_registry"
	"github.com/serisow/knackflow/server"
	"github.com/serisow/knackflow/services/action_service"
	"github.com/serisow/knackflow/services/knack"

	"github.com/urfave/negroni"
)

func main() {
	cfg := config.Load()

	logger, closeLogger, err := initLogger(cfg.LogDir)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer closeLogger()

	knackClient, err := knack.NewClient(knack.Credentials{
		ApplicationID: cfg.KnackApplicationID,
		APIKey:        cfg.KnackAPIKey,
	}, logger, knack.WithBaseURL(cfg.KnackAPIURL), knack.WithTimeout(cfg.KnackTimeout))
	if err != nil {
		log.Fatalf("Failed to initialize Knack client: %v", err)
	}

	registry := plugin_registry.NewPluginRegistry()
	registerStepTypes(registry, knackClient, logger)

	if cfg.DatabaseURL != "" {
		setupExecutionRecorder(cfg.DatabaseURL, logger)
	}

	pipeline.StartExecutionStoreCleanup(cfg.ExecutionRetention, cfg.CleanupInterval)
	defer pipeline.StopExecutionStoreCleanup()

	r := server.SetupRoutes(registry, knackClient, logger)
	n := setupNegroni(r)

	serverCfg := server.Config{
		Domains:      cfg.Domains,
		CertCacheDir: cfg.CertCacheDir,
		HTTPPort:     cfg.HTTPPort,
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.KnackTimeout + 10*time.Second,
	}

	logger.Info("Starting action runner",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.HTTPPort))

	if cfg.Environment == "production" {
		err = server.ServeProduction(n, serverCfg)
	} else {
		err = server.ServeDevelopment(n, serverCfg)
	}
	logger.Error("Server stopped", slog.String("error", err.Error()))
}

func setupNegroni(r *mux.Router) *negroni.Negroni {
	n := negroni.New()

	n.Use(negroni.NewRecovery())
	n.Use(negroni.NewLogger())

	n.UseHandler(r)
	return n
}

func registerStepTypes(registry *plugin_registry.PluginRegistry, knackClient knack.Connection, logger *slog.Logger) {
	registry.RegisterStepType("action_step", func() step.Step {
		return &action_step.ActionStepImpl{}
	})

	registry.RegisterActionService(action_service.UpdateRecordServiceName, action_service.NewUpdateRecordAction(knackClient, logger))
}

func setupExecutionRecorder(databaseURL string, logger *slog.Logger) {
	ctx := context.Background()

	pool, err := db.Connect(ctx, databaseURL, logger)
	if err != nil {
		logger.Error("Execution history disabled", slog.String("error", err.Error()))
		return
	}

	recorder := db.NewExecutionRecorder(pool)
	if err := recorder.EnsureSchema(ctx); err != nil {
		logger.Error("Execution history disabled", slog.String("error", err.Error()))
		pool.Close()
		return
	}
	pipeline.RecordExecutionFunc = recorder.Record
}

func initLogger(logDir string) (*slog.Logger, func(), error) {
	fileHandler, err := logging.NewDailyFileHandler(logDir, "actions", &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	if err != nil {
		return nil, nil, err
	}

	return slog.New(fileHandler), func() { fileHandler.Close() }, nil
}
