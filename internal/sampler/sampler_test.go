package sampler

import (
	"crypto/sha256"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drawforge/domain/draw"
)

func seedFrom(label string) draw.Seed {
	return draw.SeedFromDigest(sha256.Sum256([]byte(label)))
}

func TestSample_Deterministic(t *testing.T) {
	seed := seedFrom("fixed")

	first, err := Sample(seed, draw.DefaultRules)
	require.NoError(t, err)
	second, err := Sample(seed, draw.DefaultRules)
	require.NoError(t, err)

	assert.Equal(t, first.Numbers, second.Numbers)
	assert.Equal(t, first.Stars, second.Stars)
	assert.True(t, first.Seed.Equals(second.Seed))
}

func TestSample_DifferentSeedsDiverge(t *testing.T) {
	a, err := Sample(seedFrom("one"), draw.DefaultRules)
	require.NoError(t, err)
	b, err := Sample(seedFrom("two"), draw.DefaultRules)
	require.NoError(t, err)

	// Both classes colliding across independent seeds is possible but
	// astronomically unlikely for these ranges.
	diverged := !assert.ObjectsAreEqual(a.Numbers, b.Numbers) || !assert.ObjectsAreEqual(a.Stars, b.Stars)
	assert.True(t, diverged)
}

func TestSample_CardinalityRangeAndOrder(t *testing.T) {
	rules := draw.DefaultRules

	for _, label := range []string{"a", "b", "c", "d", "e"} {
		d, err := Sample(seedFrom(label), rules)
		require.NoError(t, err)

		require.Len(t, d.Numbers, rules.NumbersPerDraw)
		require.Len(t, d.Stars, rules.StarsPerDraw)
		assert.True(t, sort.IntsAreSorted(d.Numbers))
		assert.True(t, sort.IntsAreSorted(d.Stars))

		assertDistinctInRange(t, d.Numbers, rules.MaxNumber)
		assertDistinctInRange(t, d.Stars, rules.MaxStar)
	}
}

func TestSample_FullRangeRules(t *testing.T) {
	// k equal to the range size must yield the entire range.
	rules := draw.Rules{NumbersPerDraw: 6, MaxNumber: 6, StarsPerDraw: 3, MaxStar: 3}

	d, err := Sample(seedFrom("full"), rules)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, d.Numbers)
	assert.Equal(t, []int{1, 2, 3}, d.Stars)
}

func TestSample_InvalidRules(t *testing.T) {
	invalid := []draw.Rules{
		{NumbersPerDraw: 0, MaxNumber: 50, StarsPerDraw: 2, MaxStar: 12},
		{NumbersPerDraw: 5, MaxNumber: 0, StarsPerDraw: 2, MaxStar: 12},
		{NumbersPerDraw: 51, MaxNumber: 50, StarsPerDraw: 2, MaxStar: 12},
		{NumbersPerDraw: 5, MaxNumber: 50, StarsPerDraw: 13, MaxStar: 12},
	}

	for _, rules := range invalid {
		_, err := Sample(seedFrom("x"), rules)
		assert.Error(t, err)
	}
}

func assertDistinctInRange(t *testing.T, values []int, maxValue int) {
	t.Helper()
	seen := make(map[int]bool, len(values))
	for _, v := range values {
		require.GreaterOrEqual(t, v, 1)
		require.LessOrEqual(t, v, maxValue)
		require.False(t, seen[v], "value %d sampled twice", v)
		seen[v] = true
	}
}
