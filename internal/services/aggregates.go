package services

import (
	"smd/internal/models"
	"strconv"
)

// Aggregates are computed on demand from a state snapshot; nothing is
// cached here.

type Summary struct {
	TotalFollowers    float64 `json:"total_followers"`
	AverageEngagement string  `json:"average_engagement"`
	TotalReach        float64 `json:"total_reach"`
	GrowthRate        string  `json:"growth_rate"`
}

// ExportRow is the flat per-platform view handed to CSV/PDF/table
// renderers.
type ExportRow struct {
	Platform       models.Platform `json:"platform"`
	Followers      float64         `json:"followers"`
	EngagementRate float64         `json:"engagement_rate"`
	Reach          float64         `json:"reach"`
	Posts          float64         `json:"posts"`
}

type Export struct {
	Rows    []ExportRow `json:"rows"`
	Summary Summary     `json:"summary"`
}

func TotalFollowers(state *models.UserMetricsState) float64 {
	var total float64
	for _, p := range models.Platforms {
		total += state.Platforms[p].Followers
	}
	return total
}

func TotalReach(state *models.UserMetricsState) float64 {
	var total float64
	for _, p := range models.Platforms {
		total += state.Platforms[p].Reach
	}
	return total
}

// AverageEngagement is the mean engagement rate over the three platforms,
// formatted to one decimal place.
func AverageEngagement(state *models.UserMetricsState) string {
	var total float64
	for _, p := range models.Platforms {
		total += state.Platforms[p].EngagementRate
	}
	return formatRate(total / float64(len(models.Platforms)))
}

// GrowthRate compares the follower sums of the last two history entries,
// each summed over whatever platform keys that entry holds. A history
// entry covers only the platforms touched by its merge, so consecutive
// updates touching different subsets can undercount; partial entries are
// kept as recorded rather than backfilled.
//
// With fewer than two entries, or a previous sum of zero, the rate is
// reported as "0.0" instead of propagating a non-finite division.
func GrowthRate(state *models.UserMetricsState) string {
	current, ok := state.History.Last(0)
	if !ok {
		return formatRate(0)
	}
	previous, ok := state.History.Last(1)
	if !ok {
		return formatRate(0)
	}

	prevTotal := previous.TotalFollowers()
	if prevTotal == 0 {
		return formatRate(0)
	}
	return formatRate((current.TotalFollowers() - prevTotal) / prevTotal * 100)
}

func Summarize(state *models.UserMetricsState) Summary {
	return Summary{
		TotalFollowers:    TotalFollowers(state),
		AverageEngagement: AverageEngagement(state),
		TotalReach:        TotalReach(state),
		GrowthRate:        GrowthRate(state),
	}
}

func ExportView(state *models.UserMetricsState) Export {
	rows := make([]ExportRow, 0, len(models.Platforms))
	for _, p := range models.Platforms {
		m := state.Platforms[p]
		rows = append(rows, ExportRow{
			Platform:       p,
			Followers:      m.Followers,
			EngagementRate: m.EngagementRate,
			Reach:          m.Reach,
			Posts:          m.Posts,
		})
	}
	return Export{Rows: rows, Summary: Summarize(state)}
}

func formatRate(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
