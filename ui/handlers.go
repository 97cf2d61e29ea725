package ui

import (
	"log"
	"math/rand/v2"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"drawforge/domain/core"
	"drawforge/domain/draw"
)

const maxUIDraws = 100000

func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := map[string]interface{}{
		"Title":        "Drawforge",
		"DefaultDraws": 100,
	}
	if a.repo != nil {
		batches, err := a.repo.ListBatches(r.Context(), 10)
		if err != nil {
			log.Printf("[UI] failed to list batches: %v", err)
		} else {
			data["Batches"] = batches
		}
	}
	a.render(w, "index.html", data)
}

// handleGenerate runs the full pipeline for a form submission: generate,
// analyze, persist when configured, and show the report with one randomly
// chosen draw.
func (a *App) handleGenerate(w http.ResponseWriter, r *http.Request) {
	draws, err := strconv.Atoi(r.FormValue("draws"))
	if err != nil || draws < 1 || draws > maxUIDraws {
		http.Error(w, "draws must be between 1 and 100000", http.StatusBadRequest)
		return
	}
	workers, err := strconv.Atoi(r.FormValue("workers"))
	if err != nil || workers < 1 {
		workers = 1
	}

	ctx := r.Context()
	batch, err := a.generator.GenerateBatchParallel(ctx, draws, workers, nil)
	if err != nil {
		log.Printf("[UI] batch generation failed: %v", err)
		http.Error(w, "batch generation failed", http.StatusInternalServerError)
		return
	}

	report, err := a.engine.Analyze(batch)
	if err != nil {
		log.Printf("[UI] analysis failed: %v", err)
		http.Error(w, "analysis failed", http.StatusInternalServerError)
		return
	}

	if a.repo != nil {
		if err := a.repo.SaveBatch(ctx, batch); err != nil {
			log.Printf("[UI] failed to persist batch %s: %v", batch.ID, err)
		} else if err := a.repo.SaveReport(ctx, batch.ID, report); err != nil {
			log.Printf("[UI] failed to persist report for %s: %v", batch.ID, err)
		}
	}

	chosen := batch.Draws[rand.IntN(len(batch.Draws))]
	a.render(w, "report.html", map[string]interface{}{
		"Title":      "Randomness Analysis",
		"Draw":       chosen,
		"ReportHTML": markdownToHTML(RenderMarkdown(batch, report)),
	})
}

// handleBatchReport shows the stored report for a past batch.
func (a *App) handleBatchReport(w http.ResponseWriter, r *http.Request) {
	if a.repo == nil {
		http.Error(w, "persistence is not configured", http.StatusNotFound)
		return
	}
	id, err := core.ParseBatchID(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	batch, err := a.repo.GetBatch(r.Context(), id)
	if err != nil {
		a.renderRepoError(w, err)
		return
	}
	report, err := a.repo.GetReport(r.Context(), id)
	if err != nil {
		a.renderRepoError(w, err)
		return
	}

	var chosen *draw.Draw
	if len(batch.Draws) > 0 {
		chosen = &batch.Draws[0]
	}
	a.render(w, "report.html", map[string]interface{}{
		"Title":      "Randomness Analysis",
		"Draw":       chosen,
		"ReportHTML": markdownToHTML(RenderMarkdown(batch, report)),
	})
}

func (a *App) renderRepoError(w http.ResponseWriter, err error) {
	if core.IsNotFoundError(err) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	log.Printf("[UI] repository error: %v", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func (a *App) render(w http.ResponseWriter, name string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := a.templates.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("[UI] template %s failed: %v", name, err)
	}
}
