package stats

import (
	"fmt"
	"sort"
)

// Verdict values are load-bearing acceptance criteria: the analysis is
// compared against these exact strings by callers and must not change.
const (
	VerdictLikelyRandom   = "likely random"
	VerdictPossiblyBiased = "possibly biased"
)

// FrequencyTable maps every integer of a complete range [1, MaxValue] to its
// occurrence count. Values never observed carry an explicit zero.
// INVARIANT: the sum of counts over a batch of N draws with k slots per draw
// equals N*k.
type FrequencyTable struct {
	MaxValue int         `json:"max_value"`
	Counts   map[int]int `json:"counts"`
}

// NewFrequencyTable counts occurrences of values over the full [1, maxValue]
// domain. Values outside the range are ignored; a well-formed batch never
// produces any.
func NewFrequencyTable(values []int, maxValue int) FrequencyTable {
	counts := make(map[int]int, maxValue)
	for v := 1; v <= maxValue; v++ {
		counts[v] = 0
	}
	for _, v := range values {
		if v >= 1 && v <= maxValue {
			counts[v]++
		}
	}
	return FrequencyTable{MaxValue: maxValue, Counts: counts}
}

// Total returns the sum of all counts.
func (ft FrequencyTable) Total() int {
	total := 0
	for _, c := range ft.Counts {
		total += c
	}
	return total
}

// Count returns the count for a value, zero for anything outside the domain.
func (ft FrequencyTable) Count(value int) int {
	return ft.Counts[value]
}

// Ordered returns the counts for 1..MaxValue in ascending value order.
func (ft FrequencyTable) Ordered() []int {
	ordered := make([]int, ft.MaxValue)
	for v := 1; v <= ft.MaxValue; v++ {
		ordered[v-1] = ft.Counts[v]
	}
	return ordered
}

// Extreme is a frequency extreme: every value tied at the given count.
// Ties produce multiple values, never an arbitrary single one.
type Extreme struct {
	Values []int `json:"values"`
	Count  int   `json:"count"`
}

// ClassReport is the per-value-class half of an analysis: one for numbers,
// one for stars.
type ClassReport struct {
	Frequencies  FrequencyTable `json:"frequencies"`
	ExpectedFreq float64        `json:"expected_freq"`
	ChiSquare    float64        `json:"chi_square"`
	PValue       float64        `json:"p_value"`
	Min          Extreme        `json:"min"`
	Max          Extreme        `json:"max"`
	StdDev       float64        `json:"std_dev"`
	VariationPct float64        `json:"variation_pct"`
	Verdict      string         `json:"verdict"`
}

// AnalysisReport is the read-only summary of one batch's randomness
// assessment. Produced on demand, never persisted by the engine itself.
type AnalysisReport struct {
	SampleSize int         `json:"sample_size"`
	Numbers    ClassReport `json:"numbers"`
	Stars      ClassReport `json:"stars"`
}

// FormatValues renders a tied value set as "[2 3 4]" with values sorted
// ascending, for presentation layers.
func (e Extreme) FormatValues() string {
	sorted := make([]int, len(e.Values))
	copy(sorted, e.Values)
	sort.Ints(sorted)
	return fmt.Sprintf("%v", sorted)
}
