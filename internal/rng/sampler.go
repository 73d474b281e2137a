package rng

import (
	"crypto/rand"
	"errors"
	"math/big"
)

// WeightedEntry represents one raffle entrant with its weight (ticket count)
// and running cumulative total.
type WeightedEntry struct {
	Key        string // platform ID or user ID
	Weight     int
	Cumulative int
}

// BuildWeighted computes cumulative weights over the entries. Entries with a
// non-positive weight are rejected; callers filter zero-ticket users first.
func BuildWeighted(entries []WeightedEntry) ([]WeightedEntry, error) {
	if len(entries) == 0 {
		return nil, errors.New("no entries to weight")
	}
	total := 0
	for i := range entries {
		if entries[i].Weight <= 0 {
			return nil, errors.New("entry weight must be > 0")
		}
		total += entries[i].Weight
		entries[i].Cumulative = total
	}
	return entries, nil
}

// drawOneIndex picks one random integer in [0, totalWeight) using crypto/rand
func drawOneIndex(totalWeight int) (int, error) {
	if totalWeight <= 0 {
		return 0, errors.New("totalWeight must be > 0")
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(totalWeight)))
	if err != nil {
		return 0, err
	}
	return int(n.Int64()), nil
}

// DrawUnique picks up to count distinct keys from a pre-built weighted pool.
// Each selected entry is removed from the pool (and subsequent cumulative
// totals adjusted) so a key can win at most once per draw.
func DrawUnique(pool []WeightedEntry, count int) ([]string, error) {
	if count <= 0 {
		return nil, errors.New("must draw at least 1 winner")
	}
	if len(pool) == 0 {
		return nil, errors.New("pool is empty")
	}

	tmp := make([]WeightedEntry, len(pool))
	copy(tmp, pool)

	winners := make([]string, 0, count)
	for i := 0; i < count && len(tmp) > 0; i++ {
		totalWeight := tmp[len(tmp)-1].Cumulative

		rnd, err := drawOneIndex(totalWeight)
		if err != nil {
			return nil, err
		}

		idx := 0
		for idx < len(tmp) && tmp[idx].Cumulative <= rnd {
			idx++
		}
		selected := tmp[idx]
		winners = append(winners, selected.Key)

		// Remove the winner and shift cumulative totals down
		tmp = append(tmp[:idx], tmp[idx+1:]...)
		for j := idx; j < len(tmp); j++ {
			tmp[j].Cumulative -= selected.Weight
		}
	}
	return winners, nil
}
