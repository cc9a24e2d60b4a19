package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"sproutlens/adapters/heuristic"
	"sproutlens/adapters/localfs"
	"sproutlens/adapters/postgres"
	"sproutlens/adapters/postgres/migrations"
	"sproutlens/app"
	"sproutlens/internal"
	"sproutlens/internal/api"
	"sproutlens/internal/config"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	logger := internal.NewDefaultLogger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	gin.SetMode(cfg.Server.GinMode)

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migrations.Up(context.Background(), db); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	hypotheses := postgres.NewHypothesisRepository(db)
	evidence := postgres.NewEvidenceRepository(db)
	adjustments := postgres.NewAdjustmentRepository(db)
	videos := postgres.NewVideoRepository(db)
	corrections := postgres.NewCorrectionRepository(db)

	ledger := app.NewLedger(hypotheses, evidence, adjustments, logger)
	registry := app.NewRegistry(hypotheses, logger)
	audit := app.NewAuditTrail(corrections, logger)

	videoDir := os.Getenv("VIDEO_DIR")
	if videoDir == "" {
		videoDir = "data/videos"
	}
	workflow := app.NewVideoWorkflow(
		videos,
		hypotheses,
		ledger,
		heuristic.NewAnalyzer(),
		localfs.NewTransport(videoDir),
		cfg.Video.AnalyzeTimeout,
		logger,
	)

	server := api.NewServer(registry, ledger, workflow, audit, logger)
	if err := server.Start(cfg.Server.Port); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
