package services

import (
	"smd/internal/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func stateWith(metrics map[models.Platform]models.PlatformMetrics) *models.UserMetricsState {
	s := models.NewDefaultState()
	for p, m := range metrics {
		s.Platforms[p] = m
	}
	return s
}

func appendEntry(s *models.UserMetricsState, metrics map[models.Platform]models.PlatformMetrics) {
	s.History.Append(models.HistoryEntry{Date: time.Now(), Metrics: metrics})
}

func TestTotalFollowers(t *testing.T) {
	s := stateWith(map[models.Platform]models.PlatformMetrics{
		models.PlatformInstagram: {Followers: 100},
		models.PlatformTwitter:   {Followers: 50},
		models.PlatformTiktok:    {Followers: 25},
	})
	assert.Equal(t, 175.0, TotalFollowers(s))
}

func TestTotalReach(t *testing.T) {
	s := stateWith(map[models.Platform]models.PlatformMetrics{
		models.PlatformInstagram: {Reach: 1000},
		models.PlatformTiktok:    {Reach: 500},
	})
	assert.Equal(t, 1500.0, TotalReach(s))
}

func TestAverageEngagement_OneDecimal(t *testing.T) {
	s := stateWith(map[models.Platform]models.PlatformMetrics{
		models.PlatformInstagram: {EngagementRate: 5.0},
		models.PlatformTwitter:   {EngagementRate: 3.0},
		models.PlatformTiktok:    {EngagementRate: 4.0},
	})
	assert.Equal(t, "4.0", AverageEngagement(s))
}

func TestAverageEngagement_ZeroState(t *testing.T) {
	assert.Equal(t, "0.0", AverageEngagement(models.NewDefaultState()))
}

func TestGrowthRate_RequiresTwoEntries(t *testing.T) {
	s := models.NewDefaultState()
	assert.Equal(t, "0.0", GrowthRate(s))

	appendEntry(s, map[models.Platform]models.PlatformMetrics{
		models.PlatformInstagram: {Followers: 1000},
	})
	assert.Equal(t, "0.0", GrowthRate(s))
}

func TestGrowthRate_LastTwoEntries(t *testing.T) {
	s := models.NewDefaultState()
	appendEntry(s, map[models.Platform]models.PlatformMetrics{
		models.PlatformInstagram: {Followers: 1000},
	})
	appendEntry(s, map[models.Platform]models.PlatformMetrics{
		models.PlatformInstagram: {Followers: 1100},
	})
	assert.Equal(t, "10.0", GrowthRate(s))
}

func TestGrowthRate_Negative(t *testing.T) {
	s := models.NewDefaultState()
	appendEntry(s, map[models.Platform]models.PlatformMetrics{
		models.PlatformTwitter: {Followers: 1000},
	})
	appendEntry(s, map[models.Platform]models.PlatformMetrics{
		models.PlatformTwitter: {Followers: 900},
	})
	assert.Equal(t, "-10.0", GrowthRate(s))
}

// A previous total of zero reports 0.0 instead of propagating a
// non-finite division.
func TestGrowthRate_ZeroPrevious(t *testing.T) {
	s := models.NewDefaultState()
	appendEntry(s, map[models.Platform]models.PlatformMetrics{
		models.PlatformInstagram: {Followers: 0},
	})
	appendEntry(s, map[models.Platform]models.PlatformMetrics{
		models.PlatformInstagram: {Followers: 500},
	})
	assert.Equal(t, "0.0", GrowthRate(s))
}

// Entries cover only the platforms touched by their merge, so entries for
// disjoint subsets compare those subsets as recorded.
func TestGrowthRate_PartialEntriesSumPresentKeysOnly(t *testing.T) {
	s := models.NewDefaultState()
	appendEntry(s, map[models.Platform]models.PlatformMetrics{
		models.PlatformInstagram: {Followers: 1000},
		models.PlatformTwitter:   {Followers: 1000},
	})
	appendEntry(s, map[models.Platform]models.PlatformMetrics{
		models.PlatformInstagram: {Followers: 1000},
	})
	// 2000 -> 1000: the twitter record did not carry over.
	assert.Equal(t, "-50.0", GrowthRate(s))
}

func TestSummarize(t *testing.T) {
	s := stateWith(map[models.Platform]models.PlatformMetrics{
		models.PlatformInstagram: {Followers: 100, EngagementRate: 6, Reach: 200},
		models.PlatformTwitter:   {Followers: 50, EngagementRate: 3, Reach: 100},
		models.PlatformTiktok:    {Followers: 0, EngagementRate: 0, Reach: 0},
	})

	sum := Summarize(s)
	assert.Equal(t, 150.0, sum.TotalFollowers)
	assert.Equal(t, "3.0", sum.AverageEngagement)
	assert.Equal(t, 300.0, sum.TotalReach)
	assert.Equal(t, "0.0", sum.GrowthRate)
}

func TestExportView_RowsInPlatformOrder(t *testing.T) {
	s := stateWith(map[models.Platform]models.PlatformMetrics{
		models.PlatformInstagram: {Followers: 1, EngagementRate: 2, Reach: 3, Posts: 4},
	})

	view := ExportView(s)
	assert.Len(t, view.Rows, 3)
	assert.Equal(t, models.PlatformInstagram, view.Rows[0].Platform)
	assert.Equal(t, models.PlatformTwitter, view.Rows[1].Platform)
	assert.Equal(t, models.PlatformTiktok, view.Rows[2].Platform)
	assert.Equal(t, 4.0, view.Rows[0].Posts)
	assert.Equal(t, 1.0, view.Summary.TotalFollowers)
}
