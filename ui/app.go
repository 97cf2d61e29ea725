package ui

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"drawforge/app"
	"drawforge/internal/analysis"
	"drawforge/ports"
)

//go:embed templates/*.html
var embeddedFiles embed.FS

// App represents the web UI application
type App struct {
	router    *chi.Mux
	generator *app.GeneratorService
	engine    *analysis.Engine
	repo      ports.BatchRepository // optional; nil disables history pages
	templates *template.Template
}

// Config holds UI application configuration
type Config struct {
	Port string
}

// NewApp creates the UI application over an already-wired generator and
// analysis engine.
func NewApp(generator *app.GeneratorService, engine *analysis.Engine, repo ports.BatchRepository) (*App, error) {
	templates, err := template.ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	a := &App{
		router:    chi.NewRouter(),
		generator: generator,
		engine:    engine,
		repo:      repo,
		templates: templates,
	}

	a.setupMiddleware()
	a.setupRoutes()

	return a, nil
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/", a.handleIndex)
	a.router.Post("/generate", a.handleGenerate)
	a.router.Get("/batches/{id}", a.handleBatchReport)
}

// Handler returns the HTTP handler, used by the server main and tests.
func (a *App) Handler() http.Handler {
	return a.router
}
