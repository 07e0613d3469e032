// Package recap implements the daily recap job: one end-of-day market
// summary per calendar date, driven by the S&P 500.
package recap

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/market-notify-api/internal/domain"
	"github.com/market-notify-api/internal/infrastructure/sns"
	"github.com/market-notify-api/internal/pkg/compose"
	"github.com/market-notify-api/internal/pkg/dedup"
	"github.com/rs/zerolog/log"
)

// minRecapPrice excludes penny stocks from the recap's gainer/loser picks.
const minRecapPrice = 1.0

type Service interface {
	Run(ctx context.Context) (*Result, error)
}

type marketFetcher interface {
	Indexes(ctx context.Context) ([]domain.IndexSnapshot, error)
	Gainers(ctx context.Context) ([]domain.MoverSignal, error)
	Losers(ctx context.Context) ([]domain.MoverSignal, error)
}

type ledger interface {
	HasSent(ctx context.Context, typ domain.NotificationType, externalID string) (bool, error)
	Record(ctx context.Context, s *domain.SentNotification) error
}

// Result is the job's auditable summary.
type Result struct {
	Success bool   `json:"success"`
	Sent    bool   `json:"sent"`
	Message string `json:"message,omitempty"`
}

type service struct {
	fetcher marketFetcher
	ledger  ledger
	push    sns.PushSender
	now     func() time.Time
}

func NewService(fetcher marketFetcher, ledger ledger, push sns.PushSender) Service {
	return &service{
		fetcher: fetcher,
		ledger:  ledger,
		push:    push,
		now:     time.Now,
	}
}

// Run dispatches at most one recap per calendar date. The date check comes
// before any fetch so a re-invocation is a cheap no-op; a fetch failure
// aborts the run with no side effects.
func (s *service) Run(ctx context.Context) (*Result, error) {
	key := dedup.RecapKey(s.now())
	sent, err := s.ledger.HasSent(ctx, domain.TypeDailyRecap, key)
	if err != nil {
		return nil, fmt.Errorf("ledger lookup: %w", err)
	}
	if sent {
		return &Result{Success: true, Sent: false, Message: "already sent"}, nil
	}

	indexes, err := s.fetcher.Indexes(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch indexes: %w", err)
	}
	if len(indexes) == 0 {
		return nil, fmt.Errorf("no index data: %w", domain.ErrProvider)
	}
	gainers, err := s.fetcher.Gainers(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch gainers: %w", err)
	}
	losers, err := s.fetcher.Losers(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch losers: %w", err)
	}

	index := pickIndex(indexes)
	msg := compose.Recap(index, pickMover(gainers), pickMover(losers))

	payload := map[string]string{
		"type": "daily_recap",
		"date": key,
	}
	delivery, err := s.push.Send(ctx, msg.Title, msg.Body, payload)
	if err != nil {
		return nil, fmt.Errorf("push failed: %v: %w", err, domain.ErrDelivery)
	}

	record := &domain.SentNotification{
		Type:           domain.TypeDailyRecap,
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
		log.Warn().Str("date", key).Msg("recap recorded by concurrent run")
	}

	log.Info().Str("date", key).Str("index", index.Symbol).Msg("daily recap sent")
	return &Result{Success: true, Sent: true, Message: msg.Body}, nil
}

// pickIndex prefers the S&P 500; absent that, the first index drives the recap.
func pickIndex(indexes []domain.IndexSnapshot) domain.IndexSnapshot {
	for _, idx := range indexes {
		if idx.Symbol == "^GSPC" || strings.Contains(idx.Label, "S&P 500") {
			return idx
		}
	}
	return indexes[0]
}

// pickMover returns the first mover above the penny-stock floor, or nil.
func pickMover(movers []domain.MoverSignal) *domain.MoverSignal {
	for i := range movers {
		if movers[i].Price >= minRecapPrice {
			return &movers[i]
		}
	}
	return nil
}
