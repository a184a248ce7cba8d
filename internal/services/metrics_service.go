package services

import (
	"smd/internal/models"
	"sync"
	"time"
)

// StatePersister is the slot the canonical state is written to after every
// merge. Implementations log their own failures; persistence is
// best-effort and never blocks a commit.
type StatePersister interface {
	Save(state *models.UserMetricsState) error
	Clear() error
}

type MetricsServiceInterface interface {
	// Merge commits a partial update: each reported platform record
	// replaces the prior record for that platform whole, platforms absent
	// from the update stay untouched. Returns a snapshot of the committed
	// state.
	Merge(update *models.PartialUpdate) *models.UserMetricsState
	// Reset restores the default zero state and clears the persisted slot.
	Reset()
	// Snapshot returns a deep copy of the current state.
	Snapshot() *models.UserMetricsState
	// Restore replaces the in-memory state, used once at startup.
	Restore(state *models.UserMetricsState)
	// Generation increments on every mutation; read endpoints key their
	// cache entries by it.
	Generation() uint64
	// Persist writes the current state to the persisted slot.
	Persist() error
}

// MetricsService exclusively owns the UserMetricsState. Every other
// component works against snapshots or submits merge requests; nothing
// else ever holds a reference into the canonical maps.
type MetricsService struct {
	mu         sync.RWMutex
	state      *models.UserMetricsState
	persister  StatePersister
	generation uint64
	now        func() time.Time
}

func NewMetricsService(persister StatePersister) MetricsServiceInterface {
	return &MetricsService{
		state:     models.NewDefaultState(),
		persister: persister,
		now:       time.Now,
	}
}

func (ms *MetricsService) Merge(update *models.PartialUpdate) *models.UserMetricsState {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if update.Empty() {
		return ms.state.Clone()
	}

	touched := make(map[models.Platform]models.PlatformMetrics, len(update.Platforms))
	for p, m := range update.Platforms {
		if !models.KnownPlatform(p) {
			continue
		}
		touched[p] = m.Sanitize()
	}
	if len(touched) == 0 {
		return ms.state.Clone()
	}

	now := ms.now()
	for p, m := range touched {
		ms.state.Platforms[p] = m
	}
	ms.state.History.Append(models.HistoryEntry{Date: now, Metrics: touched})
	ms.state.LastUpdated = &now
	ms.state.HasData = true
	ms.generation++

	snapshot := ms.state.Clone()
	_ = ms.persister.Save(snapshot)
	return snapshot
}

func (ms *MetricsService) Reset() {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.state = models.NewDefaultState()
	ms.generation++
	_ = ms.persister.Clear()
}

func (ms *MetricsService) Snapshot() *models.UserMetricsState {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return ms.state.Clone()
}

func (ms *MetricsService) Restore(state *models.UserMetricsState) {
	if state == nil {
		return
	}
	state.Normalize()

	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.state = state
	ms.generation++
}

func (ms *MetricsService) Generation() uint64 {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return ms.generation
}

func (ms *MetricsService) Persist() error {
	return ms.persister.Save(ms.Snapshot())
}
