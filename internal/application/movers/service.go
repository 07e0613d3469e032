// Package movers implements the market-mover sweep: one broadcast per
// qualifying gainer/loser batch per day, rate limited across runs.
package movers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/market-notify-api/internal/config"
	"github.com/market-notify-api/internal/domain"
	"github.com/market-notify-api/internal/infrastructure/sns"
	"github.com/market-notify-api/internal/pkg/compose"
	"github.com/market-notify-api/internal/pkg/dedup"
	"github.com/market-notify-api/internal/pkg/score"
	"github.com/rs/zerolog/log"
)

type Service interface {
	Run(ctx context.Context) (*Result, error)
}

type moverFetcher interface {
	Gainers(ctx context.Context) ([]domain.MoverSignal, error)
	Losers(ctx context.Context) ([]domain.MoverSignal, error)
}

type ledger interface {
	HasSent(ctx context.Context, typ domain.NotificationType, externalID string) (bool, error)
	HasSentRecently(ctx context.Context, typ domain.NotificationType, within time.Duration) (bool, error)
	Record(ctx context.Context, s *domain.SentNotification) error
	PurgeOlderThan(ctx context.Context, typ domain.NotificationType, retention time.Duration) int
}

// Result is the job's auditable summary.
type Result struct {
	Success bool     `json:"success"`
	Sent    bool     `json:"sent"`
	Reason  string   `json:"reason,omitempty"`
	Symbols []string `json:"symbols,omitempty"`
	Title   string   `json:"title,omitempty"`
}

type service struct {
	fetcher moverFetcher
	ledger  ledger
	push    sns.PushSender
	jobs    config.JobConfig
	now     func() time.Time
}

func NewService(fetcher moverFetcher, ledger ledger, push sns.PushSender, jobs config.JobConfig) Service {
	return &service{
		fetcher: fetcher,
		ledger:  ledger,
		push:    push,
		jobs:    jobs,
		now:     time.Now,
	}
}

// Run fetches gainers and losers, qualifies and ranks them, and dispatches
// at most one broadcast per batch key per day. A fetch failure aborts the
// run with no side effects. Ledger rows past retention are purged as a side
// effect of a successful dispatch.
func (s *service) Run(ctx context.Context) (*Result, error) {
	gainers, err := s.fetcher.Gainers(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch gainers: %w", err)
	}
	losers, err := s.fetcher.Losers(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch losers: %w", err)
	}

	qualified := score.QualifyMovers(append(gainers, losers...), s.jobs.MoverMinPercent, s.jobs.MoverMinPrice)
	if len(qualified) == 0 {
		return &Result{Success: true, Sent: false, Reason: "no qualifying movers"}, nil
	}

	symbols := make([]string, 0, len(qualified))
	for _, m := range qualified {
		symbols = append(symbols, m.Symbol)
	}
	key := dedup.MoverKey(symbols, s.now())

	sent, err := s.ledger.HasSent(ctx, domain.TypeMarketMover, key)
	if err != nil {
		return nil, fmt.Errorf("ledger lookup: %w", err)
	}
	if sent {
		return &Result{Success: true, Sent: false, Reason: "already sent", Symbols: symbols}, nil
	}
	recent, err := s.ledger.HasSentRecently(ctx, domain.TypeMarketMover, s.jobs.MoverCooldown)
	if err != nil {
		return nil, fmt.Errorf("ledger recency lookup: %w", err)
	}
	if recent {
		return &Result{Success: true, Sent: false, Reason: "rate limited", Symbols: symbols}, nil
	}

	msg := compose.Movers(qualified)
	payload := map[string]string{
		"type":    "market_mover",
		"symbols": strings.Join(symbols, ","),
	}
	delivery, err := s.push.Send(ctx, msg.Title, msg.Body, payload)
	if err != nil {
		return nil, fmt.Errorf("push failed: %v: %w", err, domain.ErrDelivery)
	}

	record := &domain.SentNotification{
		Type:           domain.TypeMarketMover,
		ExternalID:     key,
		Title:          msg.Title,
		RecipientCount: delivery.RecipientCount,
		DeliveryID:     &delivery.ID,
		SentAt:         s.now(),
	}
	if err := s.ledger.Record(ctx, record); err != nil {
		if !errors.Is(err, domain.ErrDuplicate) {
			return nil, fmt.Errorf("ledger record: %w", err)
		}
		// A concurrent run recorded first. The dispatch happened either way.
		log.Warn().Str("external_id", key).Msg("mover batch recorded by concurrent run")
	}

	for _, typ := range []domain.NotificationType{domain.TypeMarketMover, domain.TypeMarketNews, domain.TypeDailyRecap} {
		if n := s.ledger.PurgeOlderThan(ctx, typ, s.jobs.LedgerRetention); n > 0 {
			log.Info().Str("type", string(typ)).Int("purged", n).Msg("ledger purge")
		}
	}

	log.Info().Strs("symbols", symbols).Str("external_id", key).Msg("market mover notification sent")
	return &Result{Success: true, Sent: true, Symbols: symbols, Title: msg.Title}, nil
}
