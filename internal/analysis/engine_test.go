package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drawforge/domain/core"
	"drawforge/domain/draw"
	domstats "drawforge/domain/stats"
	"drawforge/internal/testkit"
)

var smallRules = draw.Rules{NumbersPerDraw: 3, MaxNumber: 5, StarsPerDraw: 1, MaxStar: 3}

func TestNewEngine_RejectsInvalidRules(t *testing.T) {
	_, err := NewEngine(draw.Rules{NumbersPerDraw: 5, MaxNumber: 0, StarsPerDraw: 2, MaxStar: 12})
	assert.Error(t, err)
}

func TestAnalyze_EmptyBatch(t *testing.T) {
	engine, err := NewEngine(draw.DefaultRules)
	require.NoError(t, err)

	_, err = engine.Analyze(draw.NewBatch(draw.DefaultRules, 0))
	assert.ErrorIs(t, err, core.ErrEmptyBatch)

	_, err = engine.Analyze(nil)
	assert.ErrorIs(t, err, core.ErrEmptyBatch)
}

func TestAnalyze_FrequencyTotals(t *testing.T) {
	engine, err := NewEngine(smallRules)
	require.NoError(t, err)

	batch := testkit.BatchFromValues(smallRules,
		[][]int{{1, 2, 3}, {3, 4, 5}, {1, 1, 2}},
		[][]int{{1}, {2}, {3}},
	)

	report, err := engine.Analyze(batch)
	require.NoError(t, err)

	assert.Equal(t, 3, report.SampleSize)
	assert.Equal(t, 9, report.Numbers.Frequencies.Total(), "numbers counts must sum to draws * slots")
	assert.Equal(t, 3, report.Stars.Frequencies.Total())

	// Every value of the range appears, observed or not.
	assert.Len(t, report.Numbers.Frequencies.Counts, 5)
	assert.Len(t, report.Stars.Frequencies.Counts, 3)
}

func TestAnalyze_FrequencyCounts(t *testing.T) {
	engine, err := NewEngine(smallRules)
	require.NoError(t, err)

	// Numbers multiset: 1x1, 2x2, 3x3, 4x4, 5x0.
	batch := testkit.BatchFromValues(smallRules,
		[][]int{{1, 2, 3}, {2, 3, 4}, {3, 4, 4}, {4, 3, 2}},
		[][]int{{1}, {1}, {2}, {3}},
	)

	report, err := engine.Analyze(batch)
	require.NoError(t, err)

	table := report.Numbers.Frequencies
	assert.Equal(t, 1, table.Count(1))
	assert.Equal(t, 3, table.Count(2))
	assert.Equal(t, 4, table.Count(3))
	assert.Equal(t, 4, table.Count(4))
	assert.Equal(t, 0, table.Count(5))
	assert.Equal(t, 12, table.Total())
}

func TestAnalyze_UniformDistribution(t *testing.T) {
	engine, err := NewEngine(smallRules)
	require.NoError(t, err)

	// Every number appears exactly 3 times, every star exactly 5 times.
	batch := testkit.BatchFromValues(smallRules,
		[][]int{{1, 2, 3}, {4, 5, 1}, {2, 3, 4}, {5, 1, 2}, {3, 4, 5}},
		[][]int{{1}, {2}, {3}, {1}, {2}},
	)

	report, err := engine.Analyze(batch)
	require.NoError(t, err)

	numbers := report.Numbers
	assert.Zero(t, numbers.ChiSquare)
	assert.Zero(t, numbers.StdDev)
	assert.Zero(t, numbers.VariationPct)
	assert.Equal(t, domstats.VerdictLikelyRandom, numbers.Verdict)

	// All counts identical: both extremes cover the whole range.
	assert.Equal(t, numbers.Min.Count, numbers.Max.Count)
	assert.ElementsMatch(t, []int{1, 2, 3, 4, 5}, numbers.Min.Values)
	assert.ElementsMatch(t, []int{1, 2, 3, 4, 5}, numbers.Max.Values)
}

func TestAnalyze_ExtremesWithTies(t *testing.T) {
	engine, err := NewEngine(smallRules)
	require.NoError(t, err)

	// Numbers multiset: 1 five times, 2..5 once each.
	batch := testkit.BatchFromValues(smallRules,
		[][]int{{1, 1, 1}, {1, 1, 2}, {3, 4, 5}},
		[][]int{{1}, {2}, {3}},
	)

	report, err := engine.Analyze(batch)
	require.NoError(t, err)

	numbers := report.Numbers
	assert.Equal(t, 5, numbers.Max.Count)
	assert.Equal(t, []int{1}, numbers.Max.Values)
	assert.Equal(t, 1, numbers.Min.Count)
	assert.ElementsMatch(t, []int{2, 3, 4, 5}, numbers.Min.Values)
}

func TestAnalyze_ExpectedFrequencyAndVariation(t *testing.T) {
	engine, err := NewEngine(smallRules)
	require.NoError(t, err)

	batch := testkit.BatchFromValues(smallRules,
		[][]int{{1, 1, 1}, {1, 1, 2}, {3, 4, 5}},
		[][]int{{1}, {2}, {3}},
	)

	report, err := engine.Analyze(batch)
	require.NoError(t, err)

	// 9 values over a range of 5.
	assert.InDelta(t, 1.8, report.Numbers.ExpectedFreq, 1e-9)
	// (max 5 - min 1) / 1.8 * 100
	assert.InDelta(t, 222.2222222, report.Numbers.VariationPct, 1e-6)
}

func TestAnalyze_VerdictThreshold(t *testing.T) {
	cases := []struct {
		name    string
		pValue  float64
		verdict string
	}{
		{"well above threshold", 0.5, domstats.VerdictLikelyRandom},
		{"just above threshold", 0.0500001, domstats.VerdictLikelyRandom},
		{"exactly at threshold", 0.05, domstats.VerdictPossiblyBiased},
		{"below threshold", 0.01, domstats.VerdictPossiblyBiased},
	}

	batch := testkit.BatchFromValues(smallRules,
		[][]int{{1, 2, 3}, {3, 4, 5}},
		[][]int{{1}, {2}},
	)

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			engine, err := NewEngine(smallRules)
			require.NoError(t, err)
			engine.pValue = func(chiSquare, degreesOfFreedom float64) float64 {
				return tc.pValue
			}

			report, err := engine.Analyze(batch)
			require.NoError(t, err)
			assert.Equal(t, tc.verdict, report.Numbers.Verdict)
			assert.Equal(t, tc.verdict, report.Stars.Verdict)
		})
	}
}

func TestAnalyze_DegreesOfFreedom(t *testing.T) {
	engine, err := NewEngine(smallRules)
	require.NoError(t, err)

	var gotNumbersDF, gotStarsDF float64
	calls := 0
	engine.pValue = func(chiSquare, degreesOfFreedom float64) float64 {
		if calls == 0 {
			gotNumbersDF = degreesOfFreedom
		} else {
			gotStarsDF = degreesOfFreedom
		}
		calls++
		return 0.5
	}

	batch := testkit.BatchFromValues(smallRules,
		[][]int{{1, 2, 3}},
		[][]int{{1}},
	)
	_, err = engine.Analyze(batch)
	require.NoError(t, err)

	assert.Equal(t, float64(smallRules.MaxNumber-1), gotNumbersDF)
	assert.Equal(t, float64(smallRules.MaxStar-1), gotStarsDF)
}

func TestChiSquarePValue(t *testing.T) {
	// A zero statistic sits at the bottom of the distribution.
	assert.InDelta(t, 1.0, chiSquarePValue(0, 4), 1e-9)

	// A huge statistic is far in the upper tail.
	assert.InDelta(t, 0.0, chiSquarePValue(1000, 4), 1e-9)

	// Monotonic decrease in the statistic.
	assert.Greater(t, chiSquarePValue(1, 4), chiSquarePValue(10, 4))
}
