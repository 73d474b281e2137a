package prizes

import (
	"errors"
	"fmt"
	"math"
)

// ProbabilityEpsilon is the tolerance allowed when checking that a table's
// probabilities sum to 100.
const ProbabilityEpsilon = 1e-6

var (
	// ErrEmptyTable is returned when a prize table has no entries
	ErrEmptyTable = errors.New("prize table has no entries")
	// ErrBadProbabilitySum is returned when probabilities do not sum to 100
	ErrBadProbabilitySum = errors.New("prize table probabilities must sum to 100")
)

// Prize is a single segment of a spin wheel. Value > 0 means a cash win.
type Prize struct {
	Label       string  `bson:"label" json:"label"`
	Value       float64 `bson:"value" json:"value"`
	Color       string  `bson:"color" json:"color"`
	Probability float64 `bson:"probability" json:"probability"`
}

// IsWin reports whether landing on this prize pays out
func (p Prize) IsWin() bool {
	return p.Value > 0
}

// Table is an ordered prize table for one spin tier
type Table []Prize

// RandSource yields uniform draws in [0,1). *math/rand.Rand satisfies it;
// tests inject a fixed sequence.
type RandSource interface {
	Float64() float64
}

// Validate checks that the table is non-empty, every probability is
// non-negative, and the probabilities sum to 100 within epsilon.
func Validate(t Table) error {
	if len(t) == 0 {
		return ErrEmptyTable
	}
	sum := 0.0
	for i, p := range t {
		if p.Probability < 0 {
			return fmt.Errorf("prize %q (index %d): negative probability %v", p.Label, i, p.Probability)
		}
		sum += p.Probability
	}
	if math.Abs(sum-100) > ProbabilityEpsilon {
		return fmt.Errorf("%w (got %v)", ErrBadProbabilitySum, sum)
	}
	return nil
}

// Select draws one prize from the table: a uniform draw in [0,100) is walked
// against the cumulative probability mass, and the first entry whose
// cumulative mass exceeds the draw wins. For a validated table this always
// returns an entry; the final entry absorbs any floating-point shortfall.
func Select(t Table, rng RandSource) (Prize, error) {
	if len(t) == 0 {
		return Prize{}, ErrEmptyTable
	}

	draw := rng.Float64() * 100
	cumulative := 0.0
	for _, p := range t {
		cumulative += p.Probability
		if draw < cumulative {
			return p, nil
		}
	}

	// Only reachable when rounding leaves the cumulative sum a hair under
	// the draw; fall back to the last entry.
	return t[len(t)-1], nil
}
