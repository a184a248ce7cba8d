package models

import (
	json "github.com/goccy/go-json"
)

// HistoryCapacity is the sliding window of merge records kept for trend
// computation.
const HistoryCapacity = 30

// HistoryRing is a bounded ring buffer of HistoryEntry, oldest first.
// Appending beyond capacity evicts the oldest entry; the buffer never
// grows past its capacity, so eviction is structural rather than a trim
// applied after the fact.
type HistoryRing struct {
	entries []HistoryEntry
	start   int
	count   int
}

func NewHistoryRing(capacity int) *HistoryRing {
	if capacity <= 0 {
		capacity = HistoryCapacity
	}
	return &HistoryRing{entries: make([]HistoryEntry, capacity)}
}

func (r *HistoryRing) Cap() int {
	return len(r.entries)
}

func (r *HistoryRing) Len() int {
	return r.count
}

func (r *HistoryRing) Append(e HistoryEntry) {
	if r.count < len(r.entries) {
		r.entries[(r.start+r.count)%len(r.entries)] = e
		r.count++
		return
	}
	r.entries[r.start] = e
	r.start = (r.start + 1) % len(r.entries)
}

// At returns the entry at position i, 0 being the oldest retained.
func (r *HistoryRing) At(i int) (HistoryEntry, bool) {
	if i < 0 || i >= r.count {
		return HistoryEntry{}, false
	}
	return r.entries[(r.start+i)%len(r.entries)], true
}

// Last returns the i-th entry from the end: Last(0) is the most recent.
func (r *HistoryRing) Last(i int) (HistoryEntry, bool) {
	return r.At(r.count - 1 - i)
}

// Entries returns the retained window as a slice, oldest first. Entry
// metric maps are copied so callers cannot reach the ring's interior.
func (r *HistoryRing) Entries() []HistoryEntry {
	out := make([]HistoryEntry, 0, r.count)
	for i := 0; i < r.count; i++ {
		e := r.entries[(r.start+i)%len(r.entries)]
		metrics := make(map[Platform]PlatformMetrics, len(e.Metrics))
		for k, v := range e.Metrics {
			metrics[k] = v
		}
		out = append(out, HistoryEntry{Date: e.Date, Metrics: metrics})
	}
	return out
}

func (r *HistoryRing) Clone() *HistoryRing {
	clone := NewHistoryRing(len(r.entries))
	for _, e := range r.Entries() {
		clone.Append(e)
	}
	return clone
}

// MarshalJSON serializes the ring as a plain array, oldest first,
// matching the persisted document shape.
func (r *HistoryRing) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Entries())
}

// UnmarshalJSON refills the ring from an array. Documents holding more
// than the capacity keep only the most recent entries.
func (r *HistoryRing) UnmarshalJSON(data []byte) error {
	var entries []HistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	if r.entries == nil {
		r.entries = make([]HistoryEntry, HistoryCapacity)
	}
	r.start = 0
	r.count = 0
	for _, e := range entries {
		r.Append(e)
	}
	return nil
}
