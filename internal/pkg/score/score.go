package score

import (
	"sort"
	"strings"
	"time"

	"github.com/market-notify-api/internal/domain"
)

// Static scoring configuration. These are immutable lookup tables loaded at
// package init, not runtime-mutable state.

// highKeywords are macro/systemic terms worth 3 points per match.
var highKeywords = []string{
	"federal reserve",
	"fed ",
	"rate hike",
	"rate cut",
	"rate decision",
	"interest rate",
	"recession",
	"inflation",
	"cpi",
	"jobs report",
	"nonfarm payrolls",
	"gdp",
	"market crash",
	"circuit breaker",
	"sell-off",
	"treasury yield",
}

// mediumKeywords are corporate-action terms worth 1 point per match.
var mediumKeywords = []string{
	"merger",
	"acquisition",
	"buyout",
	"bankruptcy",
	"chapter 11",
	"guidance",
	"downgrade",
	"upgrade",
	"layoffs",
	"sec investigation",
	"delisting",
	"stock split",
	"ipo",
}

// megaCaps earn an article a +2 bonus when its tagged symbol is one of them.
var megaCaps = map[string]bool{
	"AAPL":  true,
	"MSFT":  true,
	"GOOGL": true,
	"AMZN":  true,
	"NVDA":  true,
	"META":  true,
	"TSLA":  true,
	"BRK.B": true,
	"JPM":   true,
	"V":     true,
}

const (
	highKeywordPoints   = 3
	mediumKeywordPoints = 1
	megaCapBonus        = 2

	// MaxMovers is the cap on qualifying movers kept per run.
	MaxMovers = 5
	// MaxArticles is the cap on news articles composed per run.
	MaxArticles = 2
)

// AlertTriggered applies the price-alert policy: a deterministic comparison
// with no hysteresis. Idempotency is the is_triggered flag's job, not ours.
func AlertTriggered(direction string, targetPrice, currentPrice float64) bool {
	switch direction {
	case domain.DirectionAbove:
		return currentPrice >= targetPrice
	case domain.DirectionBelow:
		return currentPrice <= targetPrice
	default:
		return false
	}
}

// QualifyMovers filters movers to those with abs(percent change) >= minPercent
// and price >= minPrice, sorts by abs(percent change) descending and keeps at
// most MaxMovers.
func QualifyMovers(movers []domain.MoverSignal, minPercent, minPrice float64) []domain.MoverSignal {
	qualified := make([]domain.MoverSignal, 0, len(movers))
	for _, m := range movers {
		if abs(m.ChangePercent) >= minPercent && m.Price >= minPrice {
			qualified = append(qualified, m)
		}
	}
	sort.SliceStable(qualified, func(i, j int) bool {
		return abs(qualified[i].ChangePercent) > abs(qualified[j].ChangePercent)
	})
	if len(qualified) > MaxMovers {
		qualified = qualified[:MaxMovers]
	}
	return qualified
}

// ScoredArticle pairs a news signal with its keyword score.
type ScoredArticle struct {
	domain.NewsSignal
	Score int
}

// ScoreArticle computes the weighted keyword score of one article:
// case-insensitive substring matches over title + body, 3 points per
// high-tier term, 1 per medium-tier term, +2 when the tagged symbol is a
// mega cap. Each keyword counts once no matter how often it appears.
func ScoreArticle(a domain.NewsSignal) int {
	text := strings.ToLower(a.Title + " " + a.Body)
	score := 0
	for _, kw := range highKeywords {
		if strings.Contains(text, kw) {
			score += highKeywordPoints
		}
	}
	for _, kw := range mediumKeywords {
		if strings.Contains(text, kw) {
			score += mediumKeywordPoints
		}
	}
	if megaCaps[strings.ToUpper(a.Symbol)] {
		score += megaCapBonus
	}
	return score
}

// RankArticles discards articles published before now-maxAge, scores the
// survivors, drops those below minScore, and returns at most MaxArticles
// sorted by score descending.
func RankArticles(articles []domain.NewsSignal, now time.Time, maxAge time.Duration, minScore int) []ScoredArticle {
	cutoff := now.Add(-maxAge)
	scored := make([]ScoredArticle, 0, len(articles))
	for _, a := range articles {
		if a.PublishedAt.Before(cutoff) {
			continue
		}
		s := ScoreArticle(a)
		if s < minScore {
			continue
		}
		scored = append(scored, ScoredArticle{NewsSignal: a, Score: s})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if len(scored) > MaxArticles {
		scored = scored[:MaxArticles]
	}
	return scored
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
