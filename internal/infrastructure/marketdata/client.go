// Package marketdata is a thin read-only client for the market data
// provider: quotes by symbol list, gainers/losers/actives, recent news and
// major index quotes. One round trip per call, no caching, no retries;
// callers decide whether a failed fetch aborts their run.
package marketdata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/market-notify-api/internal/config"
	"github.com/market-notify-api/internal/domain"
	"github.com/sony/gobreaker"
)

// Client talks to the provider over HTTP with a bounded timeout. A circuit
// breaker fails calls fast once the provider starts flapping, so a run
// against a dead provider aborts within its execution budget instead of
// timing out once per call.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.MarketBaseURL, "/"),
		apiKey:  cfg.MarketAPIKey,
		http:    &http.Client{Timeout: cfg.MarketTimeout},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "marketdata",
			MaxRequests: 1,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
		}),
	}
}

// Quotes fetches current quotes for the given symbols in one call.
func (c *Client) Quotes(ctx context.Context, symbols []string) ([]domain.Quote, error) {
	var quotes []domain.Quote
	path := "/quote/" + url.PathEscape(strings.Join(symbols, ","))
	if err := c.getList(ctx, path, nil, &quotes); err != nil {
		return nil, err
	}
	return quotes, nil
}

// Gainers fetches the provider's biggest-gainer list.
func (c *Client) Gainers(ctx context.Context) ([]domain.MoverSignal, error) {
	var movers []domain.MoverSignal
	if err := c.getList(ctx, "/stock_market/gainers", nil, &movers); err != nil {
		return nil, err
	}
	return movers, nil
}

// Losers fetches the provider's biggest-loser list.
func (c *Client) Losers(ctx context.Context) ([]domain.MoverSignal, error) {
	var movers []domain.MoverSignal
	if err := c.getList(ctx, "/stock_market/losers", nil, &movers); err != nil {
		return nil, err
	}
	return movers, nil
}

// Indexes fetches quotes for the major indices.
func (c *Client) Indexes(ctx context.Context) ([]domain.IndexSnapshot, error) {
	var indexes []domain.IndexSnapshot
	if err := c.getList(ctx, "/quotes/index", nil, &indexes); err != nil {
		return nil, err
	}
	return indexes, nil
}

// newsArticle is the provider's wire format for one article.
type newsArticle struct {
	Symbol        string `json:"symbol"`
	PublishedDate string `json:"publishedDate"` // "2006-01-02 15:04:05"
	Title         string `json:"title"`
	Image         string `json:"image"`
	Site          string `json:"site"`
	Text          string `json:"text"`
	URL           string `json:"url"`
}

const newsDateLayout = "2006-01-02 15:04:05"

// News fetches the most recent articles. Articles whose publish date fails
// to parse are kept with a zero time so the recency filter drops them.
func (c *Client) News(ctx context.Context, limit int) ([]domain.NewsSignal, error) {
	var raw []newsArticle
	q := url.Values{"limit": {fmt.Sprint(limit)}}
	if err := c.getList(ctx, "/stock_news", q, &raw); err != nil {
		return nil, err
	}
	articles := make([]domain.NewsSignal, 0, len(raw))
	for _, a := range raw {
		published, _ := time.Parse(newsDateLayout, a.PublishedDate)
		articles = append(articles, domain.NewsSignal{
			Symbol:      a.Symbol,
			PublishedAt: published,
			Title:       a.Title,
			Body:        a.Text,
			URL:         a.URL,
			Source:      a.Site,
			Image:       a.Image,
		})
	}
	return articles, nil
}

// getList performs one GET through the circuit breaker and decodes a JSON
// array into out. A payload that is not a JSON array decodes as empty rather
// than failing, so one malformed signal family does not abort drivers that
// combine several fetches.
func (c *Client) getList(ctx context.Context, path string, query url.Values, out interface{}) error {
	if query == nil {
		query = url.Values{}
	}
	query.Set("apikey", c.apiKey)
	endpoint := c.baseURL + path + "?" + query.Encode()

	body, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("provider returned HTTP %d", resp.StatusCode)
		}
		return io.ReadAll(resp.Body)
	})
	if err != nil {
		return fmt.Errorf("%s: %v: %w", path, err, domain.ErrProvider)
	}

	payload := bytes.TrimSpace(body.([]byte))
	if len(payload) == 0 || payload[0] != '[' {
		return nil // tolerate malformed/non-array payloads as empty
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return nil
	}
	return nil
}
