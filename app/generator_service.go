package app

import (
	"context"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"drawforge/domain/draw"
	"drawforge/internal"
	"drawforge/internal/sampler"
	"drawforge/internal/seeder"
	"drawforge/ports"
)

// ProgressFunc reports how many draws of a batch have completed. Invoked
// from the generating goroutine(s); implementations must be cheap.
type ProgressFunc func(completed, total int)

// GeneratorService orchestrates batch generation: one static entropy pool
// per batch, a fresh dynamic pool, seed, and sampled draw per iteration.
// No draw depends on any other draw's output.
type GeneratorService struct {
	entropy ports.EntropyPort
	rules   draw.Rules
	logger  *internal.Logger // Logger for controlled verbosity
}

// NewGeneratorService creates a generator service, failing fast on
// degenerate rules.
func NewGeneratorService(entropy ports.EntropyPort, rules draw.Rules) (*GeneratorService, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	return &GeneratorService{
		entropy: entropy,
		rules:   rules,
		logger:  internal.NewDefaultLogger(),
	}, nil
}

// Rules returns the draw configuration the service was built with.
func (s *GeneratorService) Rules() draw.Rules {
	return s.rules
}

// GenerateBatch builds n draws sequentially. n = 0 returns an empty batch
// without error. Cancellation stops between draws and surfaces ctx.Err().
func (s *GeneratorService) GenerateBatch(ctx context.Context, n int, progress ProgressFunc) (*draw.Batch, error) {
	started := time.Now()
	staticPool := s.entropy.StaticPool(ctx)
	sdr := seeder.NewDefault()

	batch := draw.NewBatch(s.rules, n)
	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		d, err := s.makeDraw(sdr, staticPool)
		if err != nil {
			return nil, err
		}
		if s.logger.GetLevel() >= internal.LogLevelDebug {
			s.logger.Debug("draw %d/%d seed=%s", i+1, n, d.Seed)
		}
		batch.Draws = append(batch.Draws, d)
		if progress != nil {
			progress(i+1, n)
		}
	}

	log.Printf("[Generator] batch %s: %d draws in %v", batch.ID, n, time.Since(started).Round(time.Millisecond))
	return batch, nil
}

// GenerateBatchParallel builds n draws across at most workers concurrent
// goroutines. Every worker owns its own seeder (and thus its own shuffle
// source) and its own sampling generator, so no state is shared and no
// locking is needed around draw construction. Cancellation stops enqueueing
// remaining draws; in-flight ones are awaited before the error is returned.
func (s *GeneratorService) GenerateBatchParallel(ctx context.Context, n, workers int, progress ProgressFunc) (*draw.Batch, error) {
	if workers <= 1 || n <= 1 {
		return s.GenerateBatch(ctx, n, progress)
	}

	started := time.Now()
	staticPool := s.entropy.StaticPool(ctx)

	batch := draw.NewBatch(s.rules, n)
	draws := make([]draw.Draw, n)

	sem := semaphore.NewWeighted(int64(workers))
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		firstErr  error
		completed int
	)

	for i := 0; i < n; i++ {
		if err := sem.Acquire(ctx, 1); err != nil {
			// Context cancelled: stop enqueueing remaining draws.
			mu.Lock()
			if firstErr == nil {
				firstErr = err
			}
			mu.Unlock()
			break
		}

		mu.Lock()
		failed := firstErr != nil
		mu.Unlock()
		if failed {
			sem.Release(1)
			break
		}

		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			defer sem.Release(1)

			// Per-worker generator instances; see ports.ShuffleSource.
			d, err := s.makeDraw(seeder.NewDefault(), staticPool)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			draws[slot] = d
			completed++
			if progress != nil {
				progress(completed, n)
			}
		}(i)
	}

	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}

	batch.Draws = draws
	log.Printf("[Generator] batch %s: %d draws on %d workers in %v", batch.ID, n, workers, time.Since(started).Round(time.Millisecond))
	return batch, nil
}

// makeDraw builds one draw: fresh dynamic pool, derived seed, sampled sets.
// Pure given its inputs apart from reading collaborator state, hence safely
// parallelizable.
func (s *GeneratorService) makeDraw(sdr *seeder.Seeder, staticPool []string) (draw.Draw, error) {
	dynamicPool := s.entropy.DynamicPool()
	seed := sdr.Derive(staticPool, dynamicPool)
	return sampler.Sample(seed, s.rules)
}
