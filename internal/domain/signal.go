package domain

import "time"

// Ephemeral market signals. Each is produced fresh by the fetcher for one
// job run and discarded afterwards; none of these are persisted.

// Quote is the provider's current snapshot for one symbol.
type Quote struct {
	Symbol        string  `json:"symbol"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changesPercentage"`
}

// MoverSignal is one row of a gainers/losers/actives list.
type MoverSignal struct {
	Symbol        string  `json:"symbol"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changesPercentage"`
}

// NewsSignal is one article from the provider's news feed.
// URL is the article's natural external identity.
type NewsSignal struct {
	Symbol      string    `json:"symbol"`
	PublishedAt time.Time `json:"publishedDate"`
	Title       string    `json:"title"`
	Body        string    `json:"text"`
	URL         string    `json:"url"`
	Source      string    `json:"site"`
	Image       string    `json:"image"`
}

// IndexSnapshot is a major-index quote used only by the daily recap.
type IndexSnapshot struct {
	Symbol        string  `json:"symbol"`
	Label         string  `json:"name"`
	Price         float64 `json:"price"`
	ChangePercent float64 `json:"changesPercentage"`
}
