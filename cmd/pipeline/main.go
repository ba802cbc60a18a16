package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Felipwz/dataops-governance-lab-TF/internal/config"
	"github.com/Felipwz/dataops-governance-lab-TF/internal/loader"
	"github.com/Felipwz/dataops-governance-lab-TF/internal/logger"
	"github.com/Felipwz/dataops-governance-lab-TF/internal/quality"
	"github.com/Felipwz/dataops-governance-lab-TF/internal/queue"
	"github.com/Felipwz/dataops-governance-lab-TF/internal/queue/sqs"
	"github.com/Felipwz/dataops-governance-lab-TF/internal/report"
	"github.com/Felipwz/dataops-governance-lab-TF/internal/repository"
	"github.com/Felipwz/dataops-governance-lab-TF/internal/repository/clickhouse"
	"github.com/Felipwz/dataops-governance-lab-TF/internal/service"
)

// main runs the pipeline once and prints the executive report. Exit code 2
// signals that the run finished but left the data at a critical quality
// level, so CI jobs can gate on it.
func main() {
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

	log.Info("Starting pipeline run",
		zap.String("environment", cfg.Service.Environment),
		zap.String("data_dir", cfg.Pipeline.DataDir),
		zap.Bool("persist", cfg.Pipeline.PersistResults))

	ctx := context.Background()

	var repo repository.RunRepository
	var publisher queue.EscalationPublisher

	if cfg.Pipeline.PersistResults {
		clickhouseClient, err := clickhouse.NewClient(ctx, &cfg.ClickHouse, log)
		if err != nil {
			log.Fatal("Failed to create ClickHouse client", zap.Error(err))
		}
		defer func() {
			if err := clickhouseClient.Close(); err != nil {
				log.Error("Failed to close ClickHouse client", zap.Error(err))
			}
		}()

		chRepo := clickhouse.NewRepository(clickhouseClient, log)
		if err := chRepo.InitSchema(ctx); err != nil {
			log.Fatal("Failed to initialize schema", zap.Error(err))
		}
		repo = chRepo

		sqsClient, err := sqs.NewClient(ctx, cfg.SQS, log)
		if err != nil {
			log.Fatal("Failed to create SQS client", zap.Error(err))
		}
		publisher = sqsClient
	}

	suites, err := quality.LoadSuites(cfg.Pipeline.SuitePath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Fatal("Failed to load suite file", zap.String("path", cfg.Pipeline.SuitePath), zap.Error(err))
		}
		log.Info("No suite file found, using built-in quality suites",
			zap.String("path", cfg.Pipeline.SuitePath))
		suites = quality.DefaultSuites()
	}

	pipelineService := service.NewPipelineService(
		loader.New(cfg.Pipeline.DataDir, log),
		suites,
		repo,
		publisher,
		nil,
		log,
	)

	run, err := pipelineService.RunPipeline(ctx)
	if err != nil {
		log.Fatal("Pipeline run failed", zap.Error(err))
	}

	fmt.Println(report.Render(*run))

	if report.QualityLevel(run.Quality.Summary.SuccessRate) == report.LevelCritical {
		log.Warn("Run finished at critical quality level",
			zap.Float64("success_rate", run.Quality.Summary.SuccessRate))
		os.Exit(2)
	}
}
