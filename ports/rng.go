package ports

// ShuffleSource supplies the ambient randomness for the seed derivation
// shuffle. It is deliberately independent of the entropy pools: the shuffle
// randomizes positional contribution, at the cost that identical pools do
// not replay to identical seeds.
//
// Implementations are not required to be safe for concurrent use. Workers
// generating draws in parallel must each own their own source; sharing one
// across goroutines would race and silently correlate outputs.
type ShuffleSource interface {
	// Shuffle applies a uniform-random permutation to n elements,
	// following the contract of rand.Shuffle.
	Shuffle(n int, swap func(i, j int))
}
