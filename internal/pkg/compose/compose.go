// Package compose turns scored signals into provider-safe title/body pairs.
// Everything here is pure formatting; no I/O, no state.
package compose

import (
	"fmt"
	"strings"

	"github.com/market-notify-api/internal/domain"
	"github.com/market-notify-api/internal/pkg/score"
)

const (
	// Provider-safe lengths for news pushes. Numeric summaries are short by
	// construction and are not truncated.
	maxNewsTitleLen = 65
	maxNewsBodyLen  = 120

	// Movers listed individually before eliding the rest as a count.
	moversShown = 4
)

// Message is a composed title/body pair.
type Message struct {
	Title string
	Body  string
}

// PriceAlert formats the push for a triggered alert.
func PriceAlert(a *domain.PriceAlert, currentPrice float64) Message {
	word := "above"
	if a.Direction == domain.DirectionBelow {
		word = "below"
	}
	return Message{
		Title: fmt.Sprintf("Price Alert: %s", a.Symbol),
		Body: fmt.Sprintf("%s is now $%.2f, %s your target of $%.2f",
			a.Symbol, currentPrice, word, a.TargetPrice),
	}
}

// Movers formats a qualifying mover batch. The top moversShown entries are
// listed individually; anything past that is elided as "and K more".
func Movers(movers []domain.MoverSignal) Message {
	parts := make([]string, 0, moversShown)
	for i, m := range movers {
		if i == moversShown {
			break
		}
		parts = append(parts, fmt.Sprintf("%s %s", m.Symbol, Percent(m.ChangePercent)))
	}
	body := strings.Join(parts, ", ")
	if extra := len(movers) - moversShown; extra > 0 {
		body = fmt.Sprintf("%s and %d more", body, extra)
	}
	return Message{
		Title: "Big moves in the market",
		Body:  body,
	}
}

// News formats one scored article, truncated to provider-safe lengths.
func News(a score.ScoredArticle) Message {
	return Message{
		Title: Truncate(a.Title, maxNewsTitleLen),
		Body:  Truncate(a.Body, maxNewsBodyLen),
	}
}

// Recap formats the end-of-day summary. The index drives the headline
// direction; gainer and loser are optional.
func Recap(index domain.IndexSnapshot, gainer, loser *domain.MoverSignal) Message {
	emoji := "📈"
	if index.ChangePercent < 0 {
		emoji = "📉"
	}
	label := index.Label
	if label == "" {
		label = index.Symbol
	}
	parts := []string{fmt.Sprintf("%s %s", label, Percent(index.ChangePercent))}
	if gainer != nil {
		parts = append(parts, fmt.Sprintf("Top gainer %s %s", gainer.Symbol, Percent(gainer.ChangePercent)))
	}
	if loser != nil {
		parts = append(parts, fmt.Sprintf("Top loser %s %s", loser.Symbol, Percent(loser.ChangePercent)))
	}
	return Message{
		Title: fmt.Sprintf("%s Daily Market Recap", emoji),
		Body:  strings.Join(parts, ". "),
	}
}

// Percent renders a signed fixed-decimal percentage, e.g. "+5.3%" / "-0.8%".
func Percent(pct float64) string {
	return fmt.Sprintf("%+.1f%%", pct)
}

// Truncate shortens s to at most max runes, appending an ellipsis when
// anything was cut.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 1 {
		return string(runes[:max])
	}
	return string(runes[:max-1]) + "…"
}
