// Package alert is the operator CRUD surface over price alerts. Alerts are
// created and toggled here; only the price-alert job ever triggers them.
package alert

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/market-notify-api/internal/domain"
	"github.com/market-notify-api/internal/pkg/id"
	"github.com/market-notify-api/internal/pkg/validate"
)

type Service interface {
	Create(ctx context.Context, req domain.CreateAlertRequest) (*domain.PriceAlert, error)
	ListByUser(ctx context.Context, userID string) ([]domain.PriceAlert, error)
	SetActive(ctx context.Context, alertID string, active bool) (*domain.PriceAlert, error)
	Delete(ctx context.Context, alertID string) error
}

type alertStore interface {
	Put(ctx context.Context, a *domain.PriceAlert) error
	Get(ctx context.Context, alertID string) (*domain.PriceAlert, error)
	ListByUser(ctx context.Context, userID string) ([]domain.PriceAlert, error)
	SetActive(ctx context.Context, alertID string, active bool) error
	Delete(ctx context.Context, alertID string) error
}

type service struct {
	repo alertStore
}

func NewService(repo alertStore) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req domain.CreateAlertRequest) (*domain.PriceAlert, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrBadRequest)
	}
	now := time.Now().UTC()
	a := &domain.PriceAlert{
		AlertID:     id.New(),
		UserID:      req.UserID,
		Symbol:      strings.ToUpper(req.Symbol),
		TargetPrice: req.TargetPrice,
		Direction:   req.Direction,
		IsActive:    1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Put(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *service) ListByUser(ctx context.Context, userID string) ([]domain.PriceAlert, error) {
	if userID == "" {
		return nil, fmt.Errorf("user_id is required: %w", domain.ErrBadRequest)
	}
	return s.repo.ListByUser(ctx, userID)
}

// SetActive toggles an alert. Reactivation clears the triggered state so the
// alert is evaluated again on the next job run.
func (s *service) SetActive(ctx context.Context, alertID string, active bool) (*domain.PriceAlert, error) {
	if _, err := s.repo.Get(ctx, alertID); err != nil {
		return nil, err
	}
	if err := s.repo.SetActive(ctx, alertID, active); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, alertID)
}

func (s *service) Delete(ctx context.Context, alertID string) error {
	if _, err := s.repo.Get(ctx, alertID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, alertID)
}
