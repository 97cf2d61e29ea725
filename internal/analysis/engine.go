package analysis

import (
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"

	"drawforge/domain/core"
	"drawforge/domain/draw"
	domstats "drawforge/domain/stats"
)

// randomnessThreshold is the fixed acceptance criterion for the verdict.
// Not user-configurable.
const randomnessThreshold = 0.05

// Engine evaluates whether a batch of draws shows statistically detectable
// bias. Each value class (numbers, stars) is analyzed independently against
// a uniform expected distribution.
type Engine struct {
	rules draw.Rules

	// pValue computes the chi-square p-value for a statistic and degrees
	// of freedom. Overridable in tests to pin verdict behavior.
	pValue func(chiSquare, degreesOfFreedom float64) float64
}

// NewEngine creates an analysis engine. Degenerate rules fail fast here
// rather than poisoning the chi-square computation later.
func NewEngine(rules draw.Rules) (*Engine, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	return &Engine{rules: rules, pValue: chiSquarePValue}, nil
}

// Analyze computes the full randomness report for a batch. Returns
// core.ErrEmptyBatch when the batch holds zero draws: there is no meaningful
// frequency distribution to analyze, and the caller must supply a non-empty
// batch instead.
func (e *Engine) Analyze(batch *draw.Batch) (*domstats.AnalysisReport, error) {
	if batch == nil || batch.Size() == 0 {
		return nil, core.ErrEmptyBatch
	}

	numbers, stars := flatten(batch)

	return &domstats.AnalysisReport{
		SampleSize: batch.Size(),
		Numbers:    e.analyzeClass(numbers, e.rules.MaxNumber),
		Stars:      e.analyzeClass(stars, e.rules.MaxStar),
	}, nil
}

// analyzeClass runs the frequency and chi-square pipeline for one value
// class. values is the flattened multiset of every slot across the batch;
// maxValue is that class's range ceiling.
func (e *Engine) analyzeClass(values []int, maxValue int) domstats.ClassReport {
	table := domstats.NewFrequencyTable(values, maxValue)
	expected := float64(len(values)) / float64(maxValue)

	chiSquare := 0.0
	sumSquares := 0.0
	for _, count := range table.Counts {
		diff := float64(count) - expected
		sumSquares += diff * diff
		if expected > 0 {
			chiSquare += diff * diff / expected
		}
	}
	stdDev := math.Sqrt(sumSquares / float64(maxValue))

	pValue := e.pValue(chiSquare, float64(maxValue-1))

	min, max := findExtremes(table)

	// expected is zero only for degenerate inputs already rejected by the
	// empty-batch check and rules validation; the guard keeps the metric
	// total anyway.
	variationPct := 0.0
	if expected > 0 {
		variationPct = float64(max.Count-min.Count) / expected * 100
	}

	verdict := domstats.VerdictPossiblyBiased
	if pValue > randomnessThreshold {
		verdict = domstats.VerdictLikelyRandom
	}

	return domstats.ClassReport{
		Frequencies:  table,
		ExpectedFreq: expected,
		ChiSquare:    chiSquare,
		PValue:       pValue,
		Min:          min,
		Max:          max,
		StdDev:       stdDev,
		VariationPct: variationPct,
		Verdict:      verdict,
	}
}

// flatten extracts the numbers and stars multisets from a batch.
func flatten(batch *draw.Batch) (numbers, stars []int) {
	numbers = make([]int, 0, batch.Size()*batch.Rules.NumbersPerDraw)
	stars = make([]int, 0, batch.Size()*batch.Rules.StarsPerDraw)
	for _, d := range batch.Draws {
		numbers = append(numbers, d.Numbers...)
		stars = append(stars, d.Stars...)
	}
	return numbers, stars
}

// findExtremes locates the least and most frequent value sets. Ties yield
// every value at the extreme count, never an arbitrary single one.
func findExtremes(table domstats.FrequencyTable) (min, max domstats.Extreme) {
	counts := make([]float64, 0, table.MaxValue)
	for _, c := range table.Ordered() {
		counts = append(counts, float64(c))
	}

	minCount, _ := stats.Min(counts)
	maxCount, _ := stats.Max(counts)

	min = domstats.Extreme{Count: int(minCount)}
	max = domstats.Extreme{Count: int(maxCount)}
	for v := 1; v <= table.MaxValue; v++ {
		switch table.Counts[v] {
		case min.Count:
			min.Values = append(min.Values, v)
		case max.Count:
			max.Values = append(max.Values, v)
		}
	}
	// min == max happens when every count is identical; both extremes then
	// cover the whole range.
	if min.Count == max.Count {
		max.Values = min.Values
	}
	return min, max
}

// chiSquarePValue is the production p-value: the upper tail of the
// chi-square distribution with the given degrees of freedom.
func chiSquarePValue(chiSquare, degreesOfFreedom float64) float64 {
	dist := distuv.ChiSquared{K: degreesOfFreedom}
	return 1 - dist.CDF(chiSquare)
}
