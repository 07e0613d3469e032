package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/market-notify-api/internal/application/alert"
	"github.com/market-notify-api/internal/domain"
)

// AlertHandler handles the price-alert CRUD endpoints.
type AlertHandler struct {
	svc alert.Service
}

func NewAlertHandler(svc alert.Service) *AlertHandler { return &AlertHandler{svc: svc} }

func (h *AlertHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	created, err := h.svc.Create(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *AlertHandler) List(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.svc.ListByUser(r.Context(), r.URL.Query().Get("user_id"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, alerts)
}

func (h *AlertHandler) Activate(w http.ResponseWriter, r *http.Request) {
	updated, err := h.svc.SetActive(r.Context(), chi.URLParam(r, "id"), true)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *AlertHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	updated, err := h.svc.SetActive(r.Context(), chi.URLParam(r, "id"), false)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *AlertHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "deleted"})
}
