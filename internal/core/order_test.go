package core

import (
	"errors"
	"testing"

	"github.com/seckatie/urlrota/internal/core/db"
)

func ids(batch SampledBatch) []int64 {
	out := make([]int64, len(batch))
	for i, it := range batch {
		out[i] = it.ID
	}
	return out
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestApplyOrdering(t *testing.T) {
	batch := SampledBatch{{3, "a"}, {1, "b"}, {2, "c"}}

	if got := ids(ApplyOrdering(batch, AsSampled)); !equalIDs(got, []int64{3, 1, 2}) {
		t.Errorf("AsSampled = %v", got)
	}
	if got := ids(ApplyOrdering(batch, ByIDAscending)); !equalIDs(got, []int64{1, 2, 3}) {
		t.Errorf("ByIDAscending = %v", got)
	}
	if batch[0].ID != 3 {
		t.Error("ApplyOrdering modified its input")
	}
}

func TestSortBatchByID(t *testing.T) {
	batch := SampledBatch{{3, "a"}, {1, "b"}, {2, "c"}}

	if got := ids(SortBatchByID(batch, false)); !equalIDs(got, []int64{1, 2, 3}) {
		t.Errorf("ascending = %v", got)
	}
	if got := ids(SortBatchByID(batch, true)); !equalIDs(got, []int64{3, 2, 1}) {
		t.Errorf("descending = %v", got)
	}
}

func TestParseOrdering(t *testing.T) {
	tests := []struct {
		in      string
		want    OrderingMode
		wantErr bool
	}{
		{"sampled", AsSampled, false},
		{"ID", ByIDAscending, false},
		{" id ", ByIDAscending, false},
		{"random", AsSampled, true},
	}
	for _, tt := range tests {
		got, err := ParseOrdering(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("ParseOrdering(%q) expected ErrInvalidInput, got %v", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseOrdering(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
}

func TestPrepareBatch(t *testing.T) {
	recs := []db.URLRecord{{ID: 3, URL: "a"}, {ID: 1, URL: "b"}, {ID: 2, URL: "c"}}

	tests := []struct {
		order    string
		wantIDs  []int64
		wantMode OrderingMode
	}{
		{"", []int64{3, 1, 2}, ByIDAscending},
		{"id", []int64{3, 1, 2}, ByIDAscending},
		{"sampled", []int64{3, 1, 2}, AsSampled},
		{"newest", []int64{3, 2, 1}, AsSampled},
		{"oldest", []int64{1, 2, 3}, AsSampled},
	}
	for _, tt := range tests {
		t.Run(tt.order, func(t *testing.T) {
			batch, mode, err := PrepareBatch(recs, tt.order)
			if err != nil {
				t.Fatalf("PrepareBatch failed: %v", err)
			}
			if mode != tt.wantMode {
				t.Errorf("mode = %v, want %v", mode, tt.wantMode)
			}
			if got := ids(batch); !equalIDs(got, tt.wantIDs) {
				t.Errorf("ids = %v, want %v", got, tt.wantIDs)
			}
		})
	}

	if _, _, err := PrepareBatch(recs, "shuffled"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for unknown order, got %v", err)
	}
}
