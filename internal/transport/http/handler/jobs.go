package handler

import (
	"net/http"

	"github.com/market-notify-api/internal/application/movers"
	"github.com/market-notify-api/internal/application/news"
	"github.com/market-notify-api/internal/application/pricealert"
	"github.com/market-notify-api/internal/application/recap"
)

// JobHandler exposes the four notification jobs as trigger endpoints for the
// external scheduler. Each invocation is one linear pass; all state between
// invocations lives in the store.
type JobHandler struct {
	priceAlerts pricealert.Service
	movers      movers.Service
	news        news.Service
	recap       recap.Service
}

func NewJobHandler(pa pricealert.Service, mv movers.Service, nw news.Service, rc recap.Service) *JobHandler {
	return &JobHandler{priceAlerts: pa, movers: mv, news: nw, recap: rc}
}

func (h *JobHandler) PriceAlerts(w http.ResponseWriter, r *http.Request) {
	result, err := h.priceAlerts.Run(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *JobHandler) MarketMovers(w http.ResponseWriter, r *http.Request) {
	result, err := h.movers.Run(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *JobHandler) MarketNews(w http.ResponseWriter, r *http.Request) {
	result, err := h.news.Run(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *JobHandler) DailyRecap(w http.ResponseWriter, r *http.Request) {
	result, err := h.recap.Run(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
