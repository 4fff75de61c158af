package core

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/seckatie/urlrota/internal/core/db"
)

// BatchItem is one URL scheduled for opening.
type BatchItem struct {
	ID  int64  `json:"id"`
	URL string `json:"url"`
}

// SampledBatch is an ordered list of distinct URLs for one run.
type SampledBatch []BatchItem

// NewBatch builds a batch from sampled records, keeping their order.
func NewBatch(records []db.URLRecord) SampledBatch {
	batch := make(SampledBatch, 0, len(records))
	for _, r := range records {
		batch = append(batch, BatchItem{ID: r.ID, URL: r.URL})
	}
	return batch
}

// OrderingMode is the order the opener applies before launching.
type OrderingMode int

const (
	// AsSampled keeps the order the batch was given in.
	AsSampled OrderingMode = iota
	// ByIDAscending sorts the batch by URL id.
	ByIDAscending
)

func (m OrderingMode) String() string {
	switch m {
	case AsSampled:
		return "sampled"
	case ByIDAscending:
		return "id"
	default:
		return "unknown"
	}
}

// ParseOrdering accepts "sampled" and "id".
func ParseOrdering(s string) (OrderingMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sampled":
		return AsSampled, nil
	case "id":
		return ByIDAscending, nil
	default:
		return AsSampled, fmt.Errorf("%w: unknown ordering %q", ErrInvalidInput, s)
	}
}

// ApplyOrdering returns a reordered copy of batch.
func ApplyOrdering(batch SampledBatch, mode OrderingMode) SampledBatch {
	out := slices.Clone(batch)
	if mode == ByIDAscending {
		slices.SortStableFunc(out, func(a, b BatchItem) int { return cmp.Compare(a.ID, b.ID) })
	}
	return out
}

// SortBatchByID returns a copy of batch sorted by id. Callers use it to
// express "oldest first" (ascending) and "newest first" (descending) before
// handing the batch to the opener with AsSampled.
func SortBatchByID(batch SampledBatch, descending bool) SampledBatch {
	out := slices.Clone(batch)
	slices.SortStableFunc(out, func(a, b BatchItem) int {
		if descending {
			return cmp.Compare(b.ID, a.ID)
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

// Order names accepted by the CLI and HTTP surfaces.
var OrderNames = []string{"id", "sampled", "newest", "oldest"}

// PrepareBatch maps a user-facing order name onto a pre-sorted batch and the
// ordering mode to run it with.
func PrepareBatch(records []db.URLRecord, order string) (SampledBatch, OrderingMode, error) {
	batch := NewBatch(records)
	switch strings.ToLower(strings.TrimSpace(order)) {
	case "":
		return batch, ByIDAscending, nil
	case "newest":
		return SortBatchByID(batch, true), AsSampled, nil
	case "oldest":
		return SortBatchByID(batch, false), AsSampled, nil
	}
	mode, err := ParseOrdering(order)
	if err != nil {
		return nil, AsSampled, fmt.Errorf("%w: unknown order %q (want one of %s)",
			ErrInvalidInput, order, strings.Join(OrderNames, ", "))
	}
	return batch, mode, nil
}
