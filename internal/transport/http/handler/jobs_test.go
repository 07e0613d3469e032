package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/market-notify-api/internal/application/movers"
	"github.com/market-notify-api/internal/application/news"
	"github.com/market-notify-api/internal/application/pricealert"
	"github.com/market-notify-api/internal/application/recap"
	"github.com/market-notify-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPriceAlertService struct{ mock.Mock }

func (m *mockPriceAlertService) Run(ctx context.Context) (*pricealert.Result, error) {
	args := m.Called(ctx)
	if res, _ := args.Get(0).(*pricealert.Result); res != nil {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockMoversService struct{ mock.Mock }

func (m *mockMoversService) Run(ctx context.Context) (*movers.Result, error) {
	args := m.Called(ctx)
	if res, _ := args.Get(0).(*movers.Result); res != nil {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockNewsService struct{ mock.Mock }

func (m *mockNewsService) Run(ctx context.Context) (*news.Result, error) {
	args := m.Called(ctx)
	if res, _ := args.Get(0).(*news.Result); res != nil {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockRecapService struct{ mock.Mock }

func (m *mockRecapService) Run(ctx context.Context) (*recap.Result, error) {
	args := m.Called(ctx)
	if res, _ := args.Get(0).(*recap.Result); res != nil {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}

func TestJobHandler_MarketMoversOK(t *testing.T) {
	mv := &mockMoversService{}
	mv.On("Run", mock.Anything).Return(&movers.Result{Success: true, Sent: true, Symbols: []string{"TSLA"}}, nil)
	h := NewJobHandler(&mockPriceAlertService{}, mv, &mockNewsService{}, &mockRecapService{})

	req := httptest.NewRequest(http.MethodPost, "/jobs/market-movers", nil)
	rec := httptest.NewRecorder()
	h.MarketMovers(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body movers.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Sent)
	assert.Equal(t, []string{"TSLA"}, body.Symbols)
}

func TestJobHandler_ProviderFailureIsBadGateway(t *testing.T) {
	nw := &mockNewsService{}
	nw.On("Run", mock.Anything).Return(nil, fmt.Errorf("fetch news: %w", domain.ErrProvider))
	h := NewJobHandler(&mockPriceAlertService{}, &mockMoversService{}, nw, &mockRecapService{})

	req := httptest.NewRequest(http.MethodPost, "/jobs/market-news", nil)
	rec := httptest.NewRecorder()
	h.MarketNews(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "fetch news")
}

func TestJobHandler_DeliveryFailureIsBadGateway(t *testing.T) {
	rc := &mockRecapService{}
	rc.On("Run", mock.Anything).Return(nil, fmt.Errorf("push failed: %w", domain.ErrDelivery))
	h := NewJobHandler(&mockPriceAlertService{}, &mockMoversService{}, &mockNewsService{}, rc)

	req := httptest.NewRequest(http.MethodPost, "/jobs/daily-recap", nil)
	rec := httptest.NewRecorder()
	h.DailyRecap(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestJobHandler_UnknownFailureIsInternalError(t *testing.T) {
	pa := &mockPriceAlertService{}
	pa.On("Run", mock.Anything).Return(nil, fmt.Errorf("store timeout"))
	h := NewJobHandler(pa, &mockMoversService{}, &mockNewsService{}, &mockRecapService{})

	req := httptest.NewRequest(http.MethodPost, "/jobs/price-alerts", nil)
	rec := httptest.NewRecorder()
	h.PriceAlerts(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestJobHandler_PartialResultStillOK(t *testing.T) {
	pa := &mockPriceAlertService{}
	pa.On("Run", mock.Anything).Return(&pricealert.Result{
		Success: true,
		Checked: 3,
		Errors:  []string{"XYZ: quote fetch failed"},
	}, nil)
	h := NewJobHandler(pa, &mockMoversService{}, &mockNewsService{}, &mockRecapService{})

	req := httptest.NewRequest(http.MethodPost, "/jobs/price-alerts", nil)
	rec := httptest.NewRecorder()
	h.PriceAlerts(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body pricealert.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 3, body.Checked)
	assert.Len(t, body.Errors, 1)
}
