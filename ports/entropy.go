package ports

import "context"

// EntropyPort supplies the raw string material for seed derivation. Both
// pools are ordered sequences of opaque UTF-8 tokens; the core never assumes
// internal structure beyond byte content.
//
// Building a pool never fails: sources that cannot be obtained are replaced
// by the adapter with a fixed-format fallback string before they reach the
// core.
type EntropyPort interface {
	// StaticPool collects the slow-changing sources, built once per batch
	// and shared by every draw in it. Exactly one slot carries the weather
	// fingerprint (real or fallback; the core does not distinguish).
	StaticPool(ctx context.Context) []string

	// DynamicPool collects sources expected to differ on every invocation,
	// even within the same millisecond. Rebuilt fresh for every draw,
	// never reused.
	DynamicPool() []string
}
