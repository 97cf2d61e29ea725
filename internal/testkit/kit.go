// Package testkit provides deterministic fakes for the entropy, weather,
// shuffle, and persistence ports, plus synthetic batch builders for the
// statistics engine tests.
package testkit

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"

	"drawforge/domain/core"
	"drawforge/domain/draw"
	"drawforge/domain/stats"
	"drawforge/ports"
)

// FixedWeather always returns the same fingerprint.
type FixedWeather struct {
	FP string
}

func (w FixedWeather) Fingerprint(ctx context.Context) string {
	return w.FP
}

// FakeEntropy serves fixed-size pools of synthetic tokens and records how
// often each pool was built, so tests can assert the static pool is shared
// across a batch while dynamic pools are fresh per draw.
type FakeEntropy struct {
	mu           sync.Mutex
	staticCalls  int
	dynamicCalls int
}

// NewFakeEntropy creates a fake entropy adapter.
func NewFakeEntropy() *FakeEntropy {
	return &FakeEntropy{}
}

func (f *FakeEntropy) StaticPool(ctx context.Context) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.staticCalls++
	pool := make([]string, 9)
	for i := range pool {
		pool[i] = fmt.Sprintf("static_%d", i)
	}
	return pool
}

func (f *FakeEntropy) DynamicPool() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dynamicCalls++
	pool := make([]string, 12)
	for i := range pool {
		pool[i] = fmt.Sprintf("dynamic_%d_%d", f.dynamicCalls, i)
	}
	return pool
}

// StaticCalls returns how many times the static pool was built.
func (f *FakeEntropy) StaticCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.staticCalls
}

// DynamicCalls returns how many times a dynamic pool was built.
func (f *FakeEntropy) DynamicCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dynamicCalls
}

// FixedShuffleSource is a deterministic shuffle source for tests needing
// reproducible seed derivation.
type FixedShuffleSource struct {
	rng *rand.Rand
}

// NewFixedShuffleSource creates a shuffle source with a pinned seed.
func NewFixedShuffleSource(seed uint64) *FixedShuffleSource {
	return &FixedShuffleSource{rng: rand.New(rand.NewPCG(seed, seed))}
}

func (s *FixedShuffleSource) Shuffle(n int, swap func(i, j int)) {
	s.rng.Shuffle(n, swap)
}

// NoopShuffleSource leaves the pool order untouched, pinning derivation to
// pure concatenation order.
type NoopShuffleSource struct{}

func (NoopShuffleSource) Shuffle(n int, swap func(i, j int)) {}

// InMemoryBatchRepository is a map-backed BatchRepository.
type InMemoryBatchRepository struct {
	mu      sync.Mutex
	batches map[core.BatchID]*draw.Batch
	reports map[core.BatchID]*stats.AnalysisReport
}

// NewInMemoryBatchRepository creates an empty repository.
func NewInMemoryBatchRepository() *InMemoryBatchRepository {
	return &InMemoryBatchRepository{
		batches: make(map[core.BatchID]*draw.Batch),
		reports: make(map[core.BatchID]*stats.AnalysisReport),
	}
}

func (r *InMemoryBatchRepository) SaveBatch(ctx context.Context, batch *draw.Batch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches[batch.ID] = batch
	return nil
}

func (r *InMemoryBatchRepository) GetBatch(ctx context.Context, id core.BatchID) (*draw.Batch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	batch, ok := r.batches[id]
	if !ok {
		return nil, core.NewNotFoundError("batch", id.String())
	}
	return batch, nil
}

func (r *InMemoryBatchRepository) ListBatches(ctx context.Context, limit int) ([]*draw.Batch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	batches := make([]*draw.Batch, 0, len(r.batches))
	for _, b := range r.batches {
		batches = append(batches, b)
		if len(batches) == limit {
			break
		}
	}
	return batches, nil
}

func (r *InMemoryBatchRepository) SaveReport(ctx context.Context, id core.BatchID, report *stats.AnalysisReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports[id] = report
	return nil
}

func (r *InMemoryBatchRepository) GetReport(ctx context.Context, id core.BatchID) (*stats.AnalysisReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	report, ok := r.reports[id]
	if !ok {
		return nil, core.NewNotFoundError("analysis report", id.String())
	}
	return report, nil
}

// BatchFromValues builds a synthetic batch from explicit per-draw numbers
// and stars, bypassing the sampler. Both slices must have equal length.
func BatchFromValues(rules draw.Rules, numbers [][]int, starsSets [][]int) *draw.Batch {
	if len(numbers) != len(starsSets) {
		panic("testkit: numbers and stars slices must align")
	}
	batch := draw.NewBatch(rules, len(numbers))
	for i := range numbers {
		batch.Draws = append(batch.Draws, draw.Draw{
			Numbers: numbers[i],
			Stars:   starsSets[i],
		})
	}
	return batch
}

// Interface guards
var (
	_ ports.WeatherPort     = FixedWeather{}
	_ ports.EntropyPort     = (*FakeEntropy)(nil)
	_ ports.ShuffleSource   = (*FixedShuffleSource)(nil)
	_ ports.ShuffleSource   = NoopShuffleSource{}
	_ ports.BatchRepository = (*InMemoryBatchRepository)(nil)
)
