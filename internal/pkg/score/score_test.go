package score

import (
	"testing"
	"time"

	"github.com/market-notify-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlertTriggered_Above(t *testing.T) {
	assert.True(t, AlertTriggered(domain.DirectionAbove, 150, 151.20))
	assert.True(t, AlertTriggered(domain.DirectionAbove, 150, 150)) // boundary inclusive
	assert.False(t, AlertTriggered(domain.DirectionAbove, 150, 149.99))
}

func TestAlertTriggered_Below(t *testing.T) {
	assert.True(t, AlertTriggered(domain.DirectionBelow, 100, 99.5))
	assert.True(t, AlertTriggered(domain.DirectionBelow, 100, 100))
	assert.False(t, AlertTriggered(domain.DirectionBelow, 100, 100.01))
}

func TestAlertTriggered_UnknownDirection(t *testing.T) {
	assert.False(t, AlertTriggered("sideways", 100, 200))
}

func TestQualifyMovers_ThresholdBoundaries(t *testing.T) {
	tests := []struct {
		name      string
		mover     domain.MoverSignal
		qualifies bool
	}{
		{"exactly 5.0 percent qualifies", domain.MoverSignal{Symbol: "A", Price: 10, ChangePercent: 5.0}, true},
		{"4.99 percent does not", domain.MoverSignal{Symbol: "B", Price: 10, ChangePercent: 4.99}, false},
		{"negative 5.0 percent qualifies", domain.MoverSignal{Symbol: "C", Price: 10, ChangePercent: -5.0}, true},
		{"price exactly 1.00 qualifies", domain.MoverSignal{Symbol: "D", Price: 1.00, ChangePercent: 8}, true},
		{"price 0.99 does not", domain.MoverSignal{Symbol: "E", Price: 0.99, ChangePercent: 8}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := QualifyMovers([]domain.MoverSignal{tt.mover}, 5.0, 1.0)
			if tt.qualifies {
				assert.Len(t, out, 1)
			} else {
				assert.Empty(t, out)
			}
		})
	}
}

func TestQualifyMovers_SortsAndCaps(t *testing.T) {
	movers := []domain.MoverSignal{
		{Symbol: "A", Price: 10, ChangePercent: 6},
		{Symbol: "B", Price: 10, ChangePercent: -12},
		{Symbol: "C", Price: 10, ChangePercent: 8},
		{Symbol: "D", Price: 10, ChangePercent: 7},
		{Symbol: "E", Price: 10, ChangePercent: -9},
		{Symbol: "F", Price: 10, ChangePercent: 5.5},
		{Symbol: "G", Price: 10, ChangePercent: 20},
	}
	out := QualifyMovers(movers, 5.0, 1.0)
	require.Len(t, out, MaxMovers)
	assert.Equal(t, "G", out[0].Symbol)
	assert.Equal(t, "B", out[1].Symbol)
	assert.Equal(t, "E", out[2].Symbol)
	assert.Equal(t, "C", out[3].Symbol)
	assert.Equal(t, "D", out[4].Symbol)
}

func TestScoreArticle_MacroTerms(t *testing.T) {
	a := domain.NewsSignal{
		Title: "Federal Reserve signals another rate hike",
		Body:  "Markets slid after the announcement.",
	}
	assert.GreaterOrEqual(t, ScoreArticle(a), 6, "two high-tier matches score at least 6")
}

func TestScoreArticle_NoMatches(t *testing.T) {
	a := domain.NewsSignal{
		Title: "Local bakery wins award",
		Body:  "The croissants were excellent.",
	}
	assert.Equal(t, 0, ScoreArticle(a))
}

func TestScoreArticle_MegaCapBonus(t *testing.T) {
	base := domain.NewsSignal{Title: "Company announces merger", Body: ""}
	withSymbol := base
	withSymbol.Symbol = "AAPL"
	assert.Equal(t, ScoreArticle(base)+2, ScoreArticle(withSymbol))
}

func TestScoreArticle_CaseInsensitive(t *testing.T) {
	upper := domain.NewsSignal{Title: "RECESSION FEARS GROW"}
	lower := domain.NewsSignal{Title: "recession fears grow"}
	assert.Equal(t, ScoreArticle(lower), ScoreArticle(upper))
	assert.Greater(t, ScoreArticle(upper), 0)
}

func TestRankArticles_DropsStaleAndLowScore(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	articles := []domain.NewsSignal{
		{Title: "Federal Reserve rate decision", PublishedAt: now.Add(-time.Hour), URL: "a"},
		{Title: "Federal Reserve rate decision", PublishedAt: now.Add(-48 * time.Hour), URL: "b"}, // stale
		{Title: "Nothing interesting here", PublishedAt: now.Add(-time.Hour), URL: "c"},           // score 0
	}
	out := RankArticles(articles, now, 6*time.Hour, 1)
	require.Len(t, out, 1)
	assert.Equal(t, "a", out[0].URL)
}

func TestRankArticles_CapsAtTwoSortedByScore(t *testing.T) {
	now := time.Now()
	articles := []domain.NewsSignal{
		{Title: "merger talk", PublishedAt: now, URL: "low"},                                     // 1 point
		{Title: "Federal Reserve rate hike recession", PublishedAt: now, URL: "high"},            // 9 points
		{Title: "bankruptcy filing after downgrade and layoffs", PublishedAt: now, URL: "mid"},   // 3 points
	}
	out := RankArticles(articles, now, time.Hour, 1)
	require.Len(t, out, MaxArticles)
	assert.Equal(t, "high", out[0].URL)
	assert.Equal(t, "mid", out[1].URL)
	assert.Greater(t, out[0].Score, out[1].Score)
}
