// Package news implements the market-news sweep: score recent articles and
// broadcast the few that matter, each article at most once ever.
package news

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/market-notify-api/internal/config"
	"github.com/market-notify-api/internal/domain"
	"github.com/market-notify-api/internal/infrastructure/sns"
	"github.com/market-notify-api/internal/pkg/compose"
	"github.com/market-notify-api/internal/pkg/dedup"
	"github.com/market-notify-api/internal/pkg/score"
	"github.com/rs/zerolog/log"
)

// fetchLimit is how many recent articles one sweep considers.
const fetchLimit = 50

type Service interface {
	Run(ctx context.Context) (*Result, error)
}

type newsFetcher interface {
	News(ctx context.Context, limit int) ([]domain.NewsSignal, error)
}

type ledger interface {
	HasSent(ctx context.Context, typ domain.NotificationType, externalID string) (bool, error)
	HasSentRecently(ctx context.Context, typ domain.NotificationType, within time.Duration) (bool, error)
	Record(ctx context.Context, s *domain.SentNotification) error
}

// Result is the job's auditable summary.
type Result struct {
	Success bool     `json:"success"`
	Reason  string   `json:"reason,omitempty"`
	Scanned int      `json:"scanned"`
	Sent    int      `json:"sent"`
	Skipped int      `json:"skipped"`
	Titles  []string `json:"titles,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

type service struct {
	fetcher newsFetcher
	ledger  ledger
	push    sns.PushSender
	jobs    config.JobConfig
	now     func() time.Time
}

func NewService(fetcher newsFetcher, ledger ledger, push sns.PushSender, jobs config.JobConfig) Service {
	return &service{
		fetcher: fetcher,
		ledger:  ledger,
		push:    push,
		jobs:    jobs,
		now:     time.Now,
	}
}

// Run checks the type-level cooldown first (before any fetch), then scores
// and dispatches the surviving articles. Per-article duplicates, including
// a duplicate-key race on record, are skips, never failures.
func (s *service) Run(ctx context.Context) (*Result, error) {
	recent, err := s.ledger.HasSentRecently(ctx, domain.TypeMarketNews, s.jobs.NewsCooldown)
	if err != nil {
		return nil, fmt.Errorf("ledger recency lookup: %w", err)
	}
	if recent {
		return &Result{Success: true, Reason: "rate limited"}, nil
	}

	articles, err := s.fetcher.News(ctx, fetchLimit)
	if err != nil {
		return nil, fmt.Errorf("fetch news: %w", err)
	}

	ranked := score.RankArticles(articles, s.now(), s.jobs.NewsMaxAge, s.jobs.NewsMinScore)
	result := &Result{Success: true, Scanned: len(articles)}

	for _, article := range ranked {
		key := dedup.NewsKey(article.URL)
		sent, err := s.ledger.HasSent(ctx, domain.TypeMarketNews, key)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("ledger lookup: %v", err))
			continue
		}
		if sent {
			result.Skipped++
			continue
		}

		msg := compose.News(article)
		payload := map[string]string{
			"type": "market_news",
			"url":  article.URL,
		}
		if article.Symbol != "" {
			payload["symbol"] = article.Symbol
		}
		if article.Image != "" {
			payload["image"] = article.Image
		}
		delivery, err := s.push.Send(ctx, msg.Title, msg.Body, payload)
		if err != nil {
			log.Error().Err(err).Str("url", article.URL).Msg("news push failed")
			result.Errors = append(result.Errors, fmt.Sprintf("%s: push failed: %v", msg.Title, err))
			continue
		}

		record := &domain.SentNotification{
			Type:           domain.TypeMarketNews,
			ExternalID:     key,
			Title:          msg.Title,
			RecipientCount: delivery.RecipientCount,
			DeliveryID:     &delivery.ID,
			SentAt:         s.now(),
		}
		if err := s.ledger.Record(ctx, record); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				// Concurrent sweep dispatched the same article.
				result.Skipped++
				continue
			}
			result.Errors = append(result.Errors, fmt.Sprintf("ledger record: %v", err))
			continue
		}

		result.Sent++
		result.Titles = append(result.Titles, msg.Title)
		log.Info().Str("url", article.URL).Int("score", article.Score).Msg("news notification sent")
	}
	return result, nil
}
