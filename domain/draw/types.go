package draw

import (
	"encoding/json"
	"time"

	"github.com/holiman/uint256"

	"drawforge/domain/core"
)

// Rules holds the fixed configuration of a draw: how many values are sampled
// per class and the inclusive ceiling of each range. Rules are set at startup
// and never mutated afterward.
type Rules struct {
	NumbersPerDraw int `json:"numbers_per_draw"`
	MaxNumber      int `json:"max_number"`
	StarsPerDraw   int `json:"stars_per_draw"`
	MaxStar        int `json:"max_star"`
}

// DefaultRules matches the EuroMillions format: 5 numbers of 1..50 and
// 2 stars of 1..12.
var DefaultRules = Rules{
	NumbersPerDraw: 5,
	MaxNumber:      50,
	StarsPerDraw:   2,
	MaxStar:        12,
}

// Validate fails fast on degenerate configurations. Sampling without
// replacement is impossible when a class requests more values than its range
// holds, and a zero ceiling would produce invalid chi-square degrees of
// freedom downstream.
func (r Rules) Validate() error {
	if r.MaxNumber <= 0 {
		return core.NewRulesError("max_number", "must be positive")
	}
	if r.MaxStar <= 0 {
		return core.NewRulesError("max_star", "must be positive")
	}
	if r.NumbersPerDraw <= 0 {
		return core.NewRulesError("numbers_per_draw", "must be positive")
	}
	if r.StarsPerDraw <= 0 {
		return core.NewRulesError("stars_per_draw", "must be positive")
	}
	if r.NumbersPerDraw > r.MaxNumber {
		return core.NewRulesError("numbers_per_draw", "exceeds max_number, sampling without replacement impossible")
	}
	if r.StarsPerDraw > r.MaxStar {
		return core.NewRulesError("stars_per_draw", "exceeds max_star, sampling without replacement impossible")
	}
	return nil
}

// Seed is the 256-bit unsigned integer derived from one entropy combination.
// Each seed belongs to exactly one draw and is never reused.
type Seed struct {
	value uint256.Int
}

// SeedFromDigest interprets a 256-bit hash digest as an unsigned integer.
func SeedFromDigest(digest [32]byte) Seed {
	var s Seed
	s.value.SetBytes32(digest[:])
	return s
}

// SeedFromDecimal parses the decimal representation produced by String.
func SeedFromDecimal(dec string) (Seed, error) {
	v, err := uint256.FromDecimal(dec)
	if err != nil {
		return Seed{}, err
	}
	return Seed{value: *v}, nil
}

// Bytes32 returns the big-endian 32-byte representation, used to key the
// draw sampler's generator.
func (s Seed) Bytes32() [32]byte {
	return s.value.Bytes32()
}

// String returns the seed in decimal, the printable form shown to users.
func (s Seed) String() string {
	return s.value.Dec()
}

// Hex returns the 0x-prefixed hexadecimal form.
func (s Seed) Hex() string {
	return s.value.Hex()
}

// MarshalJSON encodes the seed as its decimal string form.
func (s Seed) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.value.Dec())
}

// UnmarshalJSON decodes a decimal string seed.
func (s *Seed) UnmarshalJSON(data []byte) error {
	var dec string
	if err := json.Unmarshal(data, &dec); err != nil {
		return err
	}
	parsed, err := SeedFromDecimal(dec)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// IsZero reports whether the seed is the zero value.
func (s Seed) IsZero() bool {
	return s.value.IsZero()
}

// Equals checks two seeds for equality.
func (s Seed) Equals(other Seed) bool {
	return s.value.Eq(&other.value)
}

// Draw is one sampled result. Numbers and Stars are strictly increasing,
// distinct-valued, and of the cardinality fixed by the batch's Rules.
// A Draw is created once by the sampler and never mutated.
type Draw struct {
	Seed    Seed  `json:"seed"`
	Numbers []int `json:"numbers"`
	Stars   []int `json:"stars"`
}

// Batch is an ordered sequence of draws sharing one static entropy pool
// snapshot. Read-only once fully built.
type Batch struct {
	ID        core.BatchID `json:"id"`
	Rules     Rules        `json:"rules"`
	Draws     []Draw       `json:"draws"`
	CreatedAt time.Time    `json:"created_at"`
}

// NewBatch creates an empty batch for the given rules.
func NewBatch(rules Rules, capacity int) *Batch {
	return &Batch{
		ID:        core.NewBatchID(),
		Rules:     rules,
		Draws:     make([]Draw, 0, capacity),
		CreatedAt: time.Now().UTC(),
	}
}

// Size returns the number of draws in the batch.
func (b *Batch) Size() int {
	return len(b.Draws)
}
