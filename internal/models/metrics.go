package models

import "time"

type Platform string

const (
	PlatformInstagram Platform = "instagram"
	PlatformTwitter   Platform = "twitter"
	PlatformTiktok    Platform = "tiktok"
)

// Platforms is the closed key set. No dynamic platforms: state always
// carries exactly these three records.
var Platforms = []Platform{PlatformInstagram, PlatformTwitter, PlatformTiktok}

func KnownPlatform(p Platform) bool {
	switch p {
	case PlatformInstagram, PlatformTwitter, PlatformTiktok:
		return true
	}
	return false
}

type PlatformMetrics struct {
	Followers      float64 `json:"followers" validate:"min:0"`
	EngagementRate float64 `json:"engagement_rate" validate:"min:0|max:100"`
	Reach          float64 `json:"reach" validate:"min:0"`
	Posts          float64 `json:"posts" validate:"min:0"`
}

// PartialUpdate covers a subset of platforms. Each record in Platforms is
// meant to replace the prior record for that platform whole, not patch it.
type PartialUpdate struct {
	Platforms map[Platform]PlatformMetrics `json:"platforms"`
}

func (u *PartialUpdate) Empty() bool {
	return u == nil || len(u.Platforms) == 0
}

// HistoryEntry records the platforms touched by one merge. Metrics holds
// only those platforms, not a full three-platform snapshot.
type HistoryEntry struct {
	Date    time.Time                    `json:"date"`
	Metrics map[Platform]PlatformMetrics `json:"metrics"`
}

func (e HistoryEntry) TotalFollowers() float64 {
	var total float64
	for _, m := range e.Metrics {
		total += m.Followers
	}
	return total
}

type UserMetricsState struct {
	Platforms   map[Platform]PlatformMetrics `json:"platforms"`
	History     *HistoryRing                 `json:"history"`
	LastUpdated *time.Time                   `json:"lastUpdated"`
	HasData     bool                         `json:"hasData"`
}

func NewDefaultState() *UserMetricsState {
	platforms := make(map[Platform]PlatformMetrics, len(Platforms))
	for _, p := range Platforms {
		platforms[p] = PlatformMetrics{}
	}
	return &UserMetricsState{
		Platforms: platforms,
		History:   NewHistoryRing(HistoryCapacity),
	}
}

// Normalize repairs a state loaded from an untrusted persisted document so
// every invariant holds: all three platform keys present, history bounded,
// hasData consistent with history length.
func (s *UserMetricsState) Normalize() {
	if s.Platforms == nil {
		s.Platforms = make(map[Platform]PlatformMetrics, len(Platforms))
	}
	for k := range s.Platforms {
		if !KnownPlatform(k) {
			delete(s.Platforms, k)
		}
	}
	for _, p := range Platforms {
		if _, ok := s.Platforms[p]; !ok {
			s.Platforms[p] = PlatformMetrics{}
		}
	}
	if s.History == nil {
		s.History = NewHistoryRing(HistoryCapacity)
	}
	s.HasData = s.History.Len() > 0
	if !s.HasData {
		s.LastUpdated = nil
	}
}

// Clone returns a deep copy. Consumers outside the store only ever see
// clones, never the canonical maps.
func (s *UserMetricsState) Clone() *UserMetricsState {
	platforms := make(map[Platform]PlatformMetrics, len(s.Platforms))
	for k, v := range s.Platforms {
		platforms[k] = v
	}
	clone := &UserMetricsState{
		Platforms: platforms,
		History:   s.History.Clone(),
		HasData:   s.HasData,
	}
	if s.LastUpdated != nil {
		t := *s.LastUpdated
		clone.LastUpdated = &t
	}
	return clone
}

// Sanitize floors negative fields to zero and caps engagement at 100.
// Applied at the merge boundary so no committed state can violate the
// numeric invariants regardless of input path.
func (m PlatformMetrics) Sanitize() PlatformMetrics {
	clamp := func(v float64) float64 {
		if v < 0 {
			return 0
		}
		return v
	}
	m.Followers = clamp(m.Followers)
	m.Reach = clamp(m.Reach)
	m.Posts = clamp(m.Posts)
	m.EngagementRate = clamp(m.EngagementRate)
	if m.EngagementRate > 100 {
		m.EngagementRate = 100
	}
	return m
}
