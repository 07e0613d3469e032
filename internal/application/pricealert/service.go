// Package pricealert implements the price-alert check job: evaluate every
// pending alert against a fresh quote and notify the owner on trigger.
package pricealert

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/market-notify-api/internal/domain"
	"github.com/market-notify-api/internal/infrastructure/sns"
	"github.com/market-notify-api/internal/pkg/compose"
	"github.com/market-notify-api/internal/pkg/id"
	"github.com/market-notify-api/internal/pkg/score"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

type Service interface {
	Run(ctx context.Context) (*Result, error)
}

type alertStore interface {
	ListPending(ctx context.Context) ([]domain.PriceAlert, error)
	MarkTriggered(ctx context.Context, alertID string, at time.Time) error
}

type notificationStore interface {
	Put(ctx context.Context, n *domain.Notification) error
}

type quoteFetcher interface {
	Quotes(ctx context.Context, symbols []string) ([]domain.Quote, error)
}

// Result is the job's auditable summary.
type Result struct {
	Success   bool             `json:"success"`
	Checked   int              `json:"checked"`
	Triggered int              `json:"triggered"`
	Errors    []string         `json:"errors,omitempty"`
	Alerts    []TriggeredAlert `json:"triggered_alerts,omitempty"`
}

// TriggeredAlert reports one trigger with enough detail to audit the
// dispatch without re-deriving it from the store.
type TriggeredAlert struct {
	AlertID     string  `json:"alert_id"`
	UserID      string  `json:"user_id"`
	Symbol      string  `json:"symbol"`
	TargetPrice float64 `json:"target_price"`
	Price       float64 `json:"price"`
}

type service struct {
	alerts        alertStore
	notifications notificationStore
	fetcher       quoteFetcher
	push          sns.PushSender
	limiter       *rate.Limiter
	now           func() time.Time
}

type ServiceDeps struct {
	AlertRepo        alertStore
	NotificationRepo notificationStore
	Fetcher          quoteFetcher
	Push             sns.PushSender
	SymbolPacing     time.Duration
}

func NewService(deps ServiceDeps) Service {
	pacing := deps.SymbolPacing
	if pacing <= 0 {
		pacing = 200 * time.Millisecond
	}
	return &service{
		alerts:        deps.AlertRepo,
		notifications: deps.NotificationRepo,
		fetcher:       deps.Fetcher,
		push:          deps.Push,
		limiter:       rate.NewLimiter(rate.Every(pacing), 1),
		now:           time.Now,
	}
}

// Run fetches all pending alerts, groups them by symbol and evaluates each
// group against one quote. An alert that triggers is marked first and
// notified best-effort: a push failure after the mark is logged, not rolled
// back, so the alert never fires twice.
func (s *service) Run(ctx context.Context) (*Result, error) {
	alerts, err := s.alerts.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pending alerts: %w", err)
	}

	result := &Result{Success: true}
	bySymbol := make(map[string][]domain.PriceAlert)
	for _, a := range alerts {
		bySymbol[a.Symbol] = append(bySymbol[a.Symbol], a)
	}
	symbols := make([]string, 0, len(bySymbol))
	for sym := range bySymbol {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)

	for _, sym := range symbols {
		// Pace quote fetches so a large alert table does not burst the provider.
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		quotes, err := s.fetcher.Quotes(ctx, []string{sym})
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: quote fetch failed: %v", sym, err))
			result.Checked += len(bySymbol[sym])
			continue
		}
		if len(quotes) == 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: no quote returned", sym))
			result.Checked += len(bySymbol[sym])
			continue
		}
		price := quotes[0].Price

		for _, alert := range bySymbol[sym] {
			result.Checked++
			if !score.AlertTriggered(alert.Direction, alert.TargetPrice, price) {
				continue
			}
			if err := s.trigger(ctx, alert, price, result); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("%s (%s): %v", alert.AlertID, sym, err))
			}
		}
	}
	return result, nil
}

func (s *service) trigger(ctx context.Context, alert domain.PriceAlert, price float64, result *Result) error {
	now := s.now()
	if err := s.alerts.MarkTriggered(ctx, alert.AlertID, now); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			// A concurrent run already triggered this alert.
			log.Debug().Str("alert_id", alert.AlertID).Msg("alert already triggered, skipping")
			return nil
		}
		return err
	}

	result.Triggered++
	result.Alerts = append(result.Alerts, TriggeredAlert{
		AlertID:     alert.AlertID,
		UserID:      alert.UserID,
		Symbol:      alert.Symbol,
		TargetPrice: alert.TargetPrice,
		Price:       price,
	})

	msg := compose.PriceAlert(&alert, price)

	// The trigger is persisted at this point; everything below is best-effort.
	n := &domain.Notification{
		NotificationID: id.New(),
		UserID:         alert.UserID,
		AlertID:        &alert.AlertID,
		Title:          msg.Title,
		Message:        msg.Body,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.notifications.Put(ctx, n); err != nil {
		log.Error().Err(err).Str("alert_id", alert.AlertID).Msg("in-app notification write failed")
		return fmt.Errorf("notification write failed: %v: %w", err, domain.ErrDelivery)
	}

	payload := map[string]string{
		"type":   "price_alert",
		"symbol": alert.Symbol,
	}
	if _, err := s.push.Send(ctx, msg.Title, msg.Body, payload); err != nil {
		log.Error().Err(err).Str("alert_id", alert.AlertID).Str("symbol", alert.Symbol).
			Msg("push delivery failed after trigger persisted")
		return fmt.Errorf("push failed: %v: %w", err, domain.ErrDelivery)
	}

	log.Info().Str("alert_id", alert.AlertID).Str("symbol", alert.Symbol).
		Float64("price", price).Msg("price alert triggered")
	return nil
}
