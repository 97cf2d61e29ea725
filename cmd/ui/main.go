package main

import (
	"log"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"drawforge/adapters/entropy"
	"drawforge/adapters/postgres"
	"drawforge/adapters/weather"
	"drawforge/app"
	"drawforge/internal/analysis"
	"drawforge/internal/config"
	"drawforge/ports"
	"drawforge/ui"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("[UI] no .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	collector := entropy.NewSystemCollector(weather.NewClient(cfg.Weather))
	generator, err := app.NewGeneratorService(collector, cfg.Generator.Rules())
	if err != nil {
		log.Fatalf("Failed to create generator: %v", err)
	}
	engine, err := analysis.NewEngine(cfg.Generator.Rules())
	if err != nil {
		log.Fatalf("Failed to create analysis engine: %v", err)
	}

	var repo ports.BatchRepository
	if cfg.Database.URL != "" {
		db, err := sqlx.Connect("postgres", cfg.Database.URL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()
		repo = postgres.NewBatchRepository(db)
	}

	uiApp, err := ui.NewApp(generator, engine, repo)
	if err != nil {
		log.Fatal("Failed to create UI app:", err)
	}

	log.Printf("Starting Drawforge UI on http://localhost:%s", cfg.Server.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Server.Port, uiApp.Handler()))
}
