package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"drawforge/adapters/entropy"
	"drawforge/adapters/excel"
	"drawforge/adapters/postgres"
	"drawforge/adapters/weather"
	"drawforge/app"
	"drawforge/domain/draw"
	"drawforge/domain/stats"
	"drawforge/internal/analysis"
	"drawforge/internal/config"
	"drawforge/ports"
	"drawforge/ui"
)

func main() {
	draws := flag.Int("n", 0, "number of draws to generate (default BATCH_SIZE)")
	workers := flag.Int("workers", 0, "parallel draw workers (default WORKERS)")
	export := flag.String("export", "", "write the analysis report to this .xlsx file")
	store := flag.Bool("store", false, "persist the batch and report (requires DATABASE_URL)")
	markdown := flag.Bool("markdown", false, "print the report as markdown instead of plain text")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("[CLI] no .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *draws <= 0 {
		*draws = cfg.Generator.BatchSize
	}
	if *workers <= 0 {
		*workers = cfg.Generator.Workers
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	collector := entropy.NewSystemCollector(weather.NewClient(cfg.Weather))
	generator, err := app.NewGeneratorService(collector, cfg.Generator.Rules())
	if err != nil {
		log.Fatalf("Failed to create generator: %v", err)
	}
	engine, err := analysis.NewEngine(cfg.Generator.Rules())
	if err != nil {
		log.Fatalf("Failed to create analysis engine: %v", err)
	}

	fmt.Printf("Generating %d draws...\n", *draws)
	batch, err := generator.GenerateBatchParallel(ctx, *draws, *workers, printProgress)
	if err != nil {
		log.Fatalf("Batch generation failed: %v", err)
	}
	fmt.Println()

	report, err := engine.Analyze(batch)
	if err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}

	chosen := batch.Draws[rand.IntN(len(batch.Draws))]
	printDraw(chosen, "FINAL RESULT")
	fmt.Printf("Draw selected among the %d generated\n", batch.Size())

	if *markdown {
		fmt.Println(ui.RenderMarkdown(batch, report))
	} else {
		printReport(report)
	}

	if *export != "" {
		if err := excel.NewReportWriter().Export(batch, report, *export); err != nil {
			log.Fatalf("Export failed: %v", err)
		}
		fmt.Printf("Report exported to %s\n", *export)
	}

	if *store {
		if err := persist(ctx, cfg, batch, report); err != nil {
			log.Fatalf("Persistence failed: %v", err)
		}
		fmt.Printf("Batch %s persisted\n", batch.ID)
	}
}

func persist(ctx context.Context, cfg *config.Config, batch *draw.Batch, report *stats.AnalysisReport) error {
	if cfg.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is not configured")
	}
	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	var repo ports.BatchRepository = postgres.NewBatchRepository(db)
	if err := repo.SaveBatch(ctx, batch); err != nil {
		return err
	}
	return repo.SaveReport(ctx, batch.ID, report)
}

func printProgress(completed, total int) {
	fmt.Printf("\rProgress %d/%d (%d%%)", completed, total, completed*100/total)
}

func printDraw(d draw.Draw, title string) {
	fmt.Printf("\n===== %s =====\n", title)
	fmt.Printf("Numbers: %v\n", d.Numbers)
	fmt.Printf("Stars: %v\n", d.Stars)
	fmt.Printf("Seed used: %s\n", d.Seed)
}

func printReport(report *stats.AnalysisReport) {
	fmt.Printf("\n===== RANDOMNESS ANALYSIS =====\n")
	printClass("MAIN NUMBERS ANALYSIS", report.Numbers)
	printClass("STARS ANALYSIS", report.Stars)
	fmt.Println("\nFor truly reliable randomness assessment, a larger sample size may be needed.")
	if report.SampleSize < 100 {
		fmt.Println("Sample size is relatively small, results should be interpreted with caution.")
	}
}

func printClass(title string, class stats.ClassReport) {
	fmt.Printf("\n%s:\n", title)
	fmt.Printf("Expected frequency per value: %.2f\n", class.ExpectedFreq)
	fmt.Printf("Variation between min and max: %.2f%%\n", class.VariationPct)
	fmt.Printf("Least frequent value(s): %s (x%d)\n", class.Min.FormatValues(), class.Min.Count)
	fmt.Printf("Most frequent value(s): %s (x%d)\n", class.Max.FormatValues(), class.Max.Count)
	fmt.Printf("Standard deviation: %.2f\n", class.StdDev)
	fmt.Printf("Chi-square value: %.2f\n", class.ChiSquare)
	fmt.Printf("P-value: %.4f\n", class.PValue)
	fmt.Printf("Assessment: %s\n", strings.ToUpper(class.Verdict))
}
