package compose

import (
	"strings"
	"testing"

	"github.com/market-notify-api/internal/domain"
	"github.com/market-notify-api/internal/pkg/score"
	"github.com/stretchr/testify/assert"
)

func TestPriceAlert_Body(t *testing.T) {
	a := &domain.PriceAlert{Symbol: "AAPL", TargetPrice: 150, Direction: domain.DirectionAbove}
	msg := PriceAlert(a, 151.20)
	assert.Equal(t, "Price Alert: AAPL", msg.Title)
	assert.Contains(t, msg.Body, "AAPL")
	assert.Contains(t, msg.Body, "$151.20")
	assert.Contains(t, msg.Body, "above")
	assert.Contains(t, msg.Body, "$150.00")
}

func TestPriceAlert_BelowDirection(t *testing.T) {
	a := &domain.PriceAlert{Symbol: "TSLA", TargetPrice: 200, Direction: domain.DirectionBelow}
	msg := PriceAlert(a, 195.5)
	assert.Contains(t, msg.Body, "below")
}

func TestMovers_ListsTopFour(t *testing.T) {
	msg := Movers([]domain.MoverSignal{
		{Symbol: "TSLA", ChangePercent: 12.3},
		{Symbol: "NVDA", ChangePercent: 8.1},
	})
	assert.Equal(t, "TSLA +12.3%, NVDA +8.1%", msg.Body)
}

func TestMovers_ElidesPastFour(t *testing.T) {
	msg := Movers([]domain.MoverSignal{
		{Symbol: "A", ChangePercent: 20},
		{Symbol: "B", ChangePercent: -15},
		{Symbol: "C", ChangePercent: 10},
		{Symbol: "D", ChangePercent: 9},
		{Symbol: "E", ChangePercent: 8},
	})
	assert.Contains(t, msg.Body, "and 1 more")
	assert.NotContains(t, msg.Body, "E ")
}

func TestNews_Truncates(t *testing.T) {
	a := score.ScoredArticle{NewsSignal: domain.NewsSignal{
		Title: strings.Repeat("x", 100),
		Body:  strings.Repeat("y", 300),
	}}
	msg := News(a)
	assert.LessOrEqual(t, len([]rune(msg.Title)), 65)
	assert.LessOrEqual(t, len([]rune(msg.Body)), 120)
	assert.True(t, strings.HasSuffix(msg.Title, "…"))
}

func TestNews_ShortArticleUntouched(t *testing.T) {
	a := score.ScoredArticle{NewsSignal: domain.NewsSignal{Title: "Fed holds rates", Body: "Short body."}}
	msg := News(a)
	assert.Equal(t, "Fed holds rates", msg.Title)
	assert.Equal(t, "Short body.", msg.Body)
}

func TestRecap_DirectionEmoji(t *testing.T) {
	up := Recap(domain.IndexSnapshot{Symbol: "^GSPC", Label: "S&P 500", ChangePercent: 1.2}, nil, nil)
	assert.Contains(t, up.Title, "📈")

	down := Recap(domain.IndexSnapshot{Symbol: "^GSPC", Label: "S&P 500", ChangePercent: -0.8}, nil, nil)
	assert.Contains(t, down.Title, "📉")
	assert.Contains(t, down.Body, "S&P 500 -0.8%")
}

func TestRecap_IncludesGainerAndLoser(t *testing.T) {
	gainer := &domain.MoverSignal{Symbol: "NVDA", ChangePercent: 8.1}
	loser := &domain.MoverSignal{Symbol: "XYZ", ChangePercent: -6.3}
	msg := Recap(domain.IndexSnapshot{Symbol: "^GSPC", ChangePercent: 0.5}, gainer, loser)
	assert.Contains(t, msg.Body, "Top gainer NVDA +8.1%")
	assert.Contains(t, msg.Body, "Top loser XYZ -6.3%")
}

func TestPercent_Formatting(t *testing.T) {
	assert.Equal(t, "+5.3%", Percent(5.31))
	assert.Equal(t, "-0.8%", Percent(-0.75))
	assert.Equal(t, "+0.0%", Percent(0))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 5))
	assert.Equal(t, "ab…", Truncate("abcdef", 3))
	assert.Equal(t, "héll…", Truncate("héllo wörld", 5))
}
