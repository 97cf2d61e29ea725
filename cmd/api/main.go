package main

import (
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"drawforge/adapters/api"
	"drawforge/adapters/entropy"
	"drawforge/adapters/postgres"
	"drawforge/adapters/weather"
	"drawforge/app"
	"drawforge/internal/analysis"
	"drawforge/internal/config"
	"drawforge/ports"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("[API] no .env file loaded: %v", err)
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

	server := api.NewServer(generator, engine, repo)
	log.Fatal(server.Run(":" + cfg.Server.Port))
}
