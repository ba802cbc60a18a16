package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Felipwz/dataops-governance-lab-TF/internal/config"
	"github.com/Felipwz/dataops-governance-lab-TF/internal/handler"
	"github.com/Felipwz/dataops-governance-lab-TF/internal/loader"
	"github.com/Felipwz/dataops-governance-lab-TF/internal/logger"
	"github.com/Felipwz/dataops-governance-lab-TF/internal/metrics"
	"github.com/Felipwz/dataops-governance-lab-TF/internal/quality"
	"github.com/Felipwz/dataops-governance-lab-TF/internal/queue/sqs"
	"github.com/Felipwz/dataops-governance-lab-TF/internal/repository/clickhouse"
	"github.com/Felipwz/dataops-governance-lab-TF/internal/service"
)

func main() {
	// .env is optional, real deployments configure through the environment
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log, err := logger.New(cfg.Service.Environment)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer func(log *zap.Logger) {
		err := log.Sync()
		if err != nil {
			log.Error("Failed to sync logger", zap.Error(err))
		}
	}(log)

	log.Info("Starting governance API",
		zap.String("environment", cfg.Service.Environment),
		zap.String("port", cfg.Service.APIPort))

	ctx := context.Background()

	sqsClient, err := sqs.NewClient(ctx, cfg.SQS, log)
	if err != nil {
		log.Fatal("Failed to create SQS client", zap.Error(err))
	}

	clickhouseClient, err := clickhouse.NewClient(ctx, &cfg.ClickHouse, log)
	if err != nil {
		log.Fatal("Failed to create ClickHouse client", zap.Error(err))
	}
	defer func(clickhouseClient *clickhouse.Client) {
		if err := clickhouseClient.Close(); err != nil {
			log.Error("Failed to close ClickHouse client", zap.Error(err))
		}
	}(clickhouseClient)

	repo := clickhouse.NewRepository(clickhouseClient, log)

	if err := repo.InitSchema(ctx); err != nil {
		log.Fatal("Failed to initialize schema", zap.Error(err))
	}

	suites := loadSuites(cfg.Pipeline.SuitePath, log)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	pipelineMetrics := metrics.New(registry)

	pipelineService := service.NewPipelineService(
		loader.New(cfg.Pipeline.DataDir, log),
		suites,
		repo,
		sqsClient,
		pipelineMetrics,
		log,
	)

	h := handler.NewHandler(pipelineService, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}), log)

	addr := fmt.Sprintf(":%s", cfg.Service.APIPort)
	log.Info("API server starting", zap.String("address", addr))

	if err := http.ListenAndServe(addr, h); err != nil {
		log.Fatal("Failed to start API server", zap.Error(err))
	}
}

// loadSuites reads the configured suite file, falling back to the built-in
// rule sets when no file is present.
func loadSuites(path string, log *zap.Logger) []quality.Suite {
	if path == "" {
		return quality.DefaultSuites()
	}

	suites, err := quality.LoadSuites(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Info("No suite file found, using built-in quality suites",
				zap.String("path", path))
		} else {
			log.Warn("Failed to load suite file, using built-in quality suites",
				zap.String("path", path), zap.Error(err))
		}
		return quality.DefaultSuites()
	}

	log.Info("Quality suites loaded", zap.String("path", path), zap.Int("suites", len(suites)))
	return suites
}
