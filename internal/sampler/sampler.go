package sampler

import (
	"math/rand/v2"
	"sort"

	"drawforge/domain/draw"
)

// Sample produces the draw determined by a seed. The generator is re-seeded
// from the full 256 bits of the seed, then numbers are sampled strictly
// before stars from the same stream; that call order is part of the
// observable contract, since seed-to-draw reproducibility depends on it.
//
// Unlike seed derivation, this step is fully deterministic: the same seed
// always yields a bit-identical draw.
func Sample(seed draw.Seed, rules draw.Rules) (draw.Draw, error) {
	if err := rules.Validate(); err != nil {
		return draw.Draw{}, err
	}

	rng := rand.New(rand.NewChaCha8(seed.Bytes32()))

	numbers := sampleWithoutReplacement(rng, rules.MaxNumber, rules.NumbersPerDraw)
	stars := sampleWithoutReplacement(rng, rules.MaxStar, rules.StarsPerDraw)

	sort.Ints(numbers)
	sort.Ints(stars)

	return draw.Draw{
		Seed:    seed,
		Numbers: numbers,
		Stars:   stars,
	}, nil
}

// sampleWithoutReplacement picks k distinct integers uniformly from
// [1, maxValue] via a partial Fisher-Yates pass. Callers guarantee
// 0 < k <= maxValue.
func sampleWithoutReplacement(rng *rand.Rand, maxValue, k int) []int {
	values := make([]int, maxValue)
	for i := range values {
		values[i] = i + 1
	}
	for i := 0; i < k; i++ {
		// rand.IntN panics on zero; the final slot has nothing left to swap.
		j := i
		if remaining := maxValue - i; remaining > 1 {
			j += rng.IntN(remaining)
		}
		values[i], values[j] = values[j], values[i]
	}
	return values[:k:k]
}
