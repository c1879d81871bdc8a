package main

import (
	"context"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/liqinglq666/ECC-Analyzer-Pro/adapters/excel"
	"github.com/liqinglq666/ECC-Analyzer-Pro/adapters/postgres"
	"github.com/liqinglq666/ECC-Analyzer-Pro/adapters/report"
	"github.com/liqinglq666/ECC-Analyzer-Pro/app"
	"github.com/liqinglq666/ECC-Analyzer-Pro/internal"
	"github.com/liqinglq666/ECC-Analyzer-Pro/internal/config"
	"github.com/liqinglq666/ECC-Analyzer-Pro/ports"
	"github.com/liqinglq666/ECC-Analyzer-Pro/ui"
)

func main() {
	_ = godotenv.Load()

	log := internal.DefaultLogger
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}

	var repo ports.BatchRepository
	if url := strings.TrimSpace(cfg.Database.URL); url != "" {
		db, err := sqlx.Connect("postgres", url)
		if err != nil {
			log.Error("failed to connect to database: %v", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := postgres.EnsureSchema(context.Background(), db); err != nil {
			log.Error("failed to ensure schema: %v", err)
			os.Exit(1)
		}
		repo = postgres.NewBatchRepository(db)
		log.Info("batch archive enabled")
	} else {
		log.Warn("DATABASE_URL not set, batch archive disabled")
	}

	runner := app.NewBatchRunner(app.NewAnalysisService(log), log)
	server := ui.NewServer(cfg, runner, repo, excel.NewExporter(), report.NewRenderer(), log)
	if err := server.Run(); err != nil {
		log.Error("server stopped: %v", err)
		os.Exit(1)
	}
}
