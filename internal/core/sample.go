package core

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
	"sync"

	"github.com/seckatie/urlrota/internal/core/db"
)

// Sampler draws distinct URL records with probability proportional to weight.
//
// It works on the in-memory snapshot passed to Sample and never touches the
// store. A Sampler is safe for concurrent use.
type Sampler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSampler returns a Sampler drawing from src. A nil src is seeded from the
// runtime's random source.
func NewSampler(src rand.Source) *Sampler {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Sampler{rng: rand.New(src)}
}

// Sample returns needed records chosen without replacement at the record
// level: a record appears at most once, with a higher weight making it more
// likely to be among those chosen.
//
// Each round draws from the records still available, with probability
// weight/sum(weights) of that remaining set. The input slice is not modified.
func (s *Sampler) Sample(records []db.URLRecord, needed int) ([]db.URLRecord, error) {
	if needed < 0 {
		return nil, fmt.Errorf("%w: needed must not be negative, got %d", ErrInvalidInput, needed)
	}
	if needed == 0 {
		return []db.URLRecord{}, nil
	}
	if needed > len(records) {
		return nil, fmt.Errorf("%w: requested %d, available %d", ErrInsufficientPopulation, needed, len(records))
	}

	probs, err := probabilities(records)
	if err != nil {
		return nil, err
	}

	remaining := make([]int, len(records))
	for i := range remaining {
		remaining[i] = i
	}
	cumulative := make([]float64, len(records))
	out := make([]db.URLRecord, 0, needed)

	s.mu.Lock()
	defer s.mu.Unlock()

	for len(out) < needed {
		var mass float64
		for i, idx := range remaining {
			mass += probs[idx]
			cumulative[i] = mass
		}
		u := s.rng.Float64() * mass
		j := sort.Search(len(remaining), func(i int) bool { return cumulative[i] > u })
		if j == len(remaining) {
			// u landed on the rounding edge of the last bucket.
			j = len(remaining) - 1
		}

		out = append(out, records[remaining[j]])
		remaining = append(remaining[:j], remaining[j+1:]...)
	}
	return out, nil
}

// probabilities validates the snapshot and returns each record's share of the
// total weight.
func probabilities(records []db.URLRecord) ([]float64, error) {
	seen := make(map[int64]struct{}, len(records))
	var total int64
	for _, r := range records {
		if r.Weight <= 0 {
			return nil, fmt.Errorf("%w: url %d has weight %d", ErrInvalidWeight, r.ID, r.Weight)
		}
		if _, dup := seen[r.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate url id %d", ErrInvalidInput, r.ID)
		}
		seen[r.ID] = struct{}{}
		total += int64(r.Weight)
	}
	if total == 0 {
		return nil, ErrZeroWeight
	}

	probs := make([]float64, len(records))
	var sum float64
	for i, r := range records {
		probs[i] = float64(r.Weight) / float64(total)
		sum += probs[i]
	}
	if math.Abs(sum-1) > probabilityTolerance {
		return nil, fmt.Errorf("%w: probabilities sum to %v", ErrInvalidWeight, sum)
	}
	return probs, nil
}
