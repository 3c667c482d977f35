package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/senyabanana/shipquote-service/internal/models"
	"github.com/senyabanana/shipquote-service/internal/services"
	"github.com/senyabanana/shipquote-service/internal/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// RouteHandler - обработчики маршрутов и тарифов.
type RouteHandler struct {
	Service *services.RouteService
	Logger  *zap.Logger
	Timeout time.Duration
}

// NewRouteHandler создаёт новый экземпляр RouteHandler.
func NewRouteHandler(service *services.RouteService, logger *zap.Logger, timeout time.Duration) *RouteHandler {
	return &RouteHandler{
		Service: service,
		Logger:  logger,
		Timeout: timeout,
	}
}

// ListRoutes обрабатывает запросы для получения списка маршрутов.
func (h *RouteHandler) ListRoutes(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	query := r.URL.Query()
	limit, offset, err := utils.ParseLimitOffset(query.Get("limit"), query.Get("offset"))
	if err != nil {
		fail(h.Logger, w, r, err)
		return
	}
	onlyActive, err := utils.ParseBool(query.Get("active"), "active", false)
	if err != nil {
		fail(h.Logger, w, r, err)
		return
	}

	routes, err := h.Service.ListRoutes(ctx, limit, offset, onlyActive)
	if err != nil {
		fail(h.Logger, w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, routes)
}

// GetRoute обрабатывает запросы для получения маршрута.
func (h *RouteHandler) GetRoute(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	routeId := chi.URLParam(r, "routeId")
	route, err := h.Service.GetRoute(ctx, routeId)
	if err != nil {
		fail(h.Logger, w, r, err, zap.String("routeId", routeId))
		return
	}
	utils.WriteJSON(w, http.StatusOK, route)
}

// CreateRoute обрабатывает запросы для создания маршрута.
func (h *RouteHandler) CreateRoute(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var routeReq models.RouteRequest
	if err := decodeBody(r, &routeReq); err != nil {
		fail(h.Logger, w, r, err)
		return
	}

	route, err := h.Service.CreateRoute(ctx, routeReq)
	if err != nil {
		fail(h.Logger, w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, route)
}

// SetRouteActive обрабатывает запросы для включения и выключения маршрута.
func (h *RouteHandler) SetRouteActive(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	routeId := chi.URLParam(r, "routeId")
	activeStr := r.URL.Query().Get("active")
	if activeStr == "" {
		fail(h.Logger, w, r, fmt.Errorf("%w: active", models.ErrMissingParameter))
		return
	}
	active, err := utils.ParseBool(activeStr, "active", true)
	if err != nil {
		fail(h.Logger, w, r, err)
		return
	}

	route, err := h.Service.SetRouteActive(ctx, routeId, active)
	if err != nil {
		fail(h.Logger, w, r, err, zap.String("routeId", routeId))
		return
	}
	utils.WriteJSON(w, http.StatusOK, route)
}

// ListRates обрабатывает запросы для получения тарифов маршрута.
func (h *RouteHandler) ListRates(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	routeId := chi.URLParam(r, "routeId")
	rates, err := h.Service.ListRates(ctx, routeId, r.URL.Query().Get("containerTypeId"))
	if err != nil {
		fail(h.Logger, w, r, err, zap.String("routeId", routeId))
		return
	}
	utils.WriteJSON(w, http.StatusOK, rates)
}

// CreateRate обрабатывает запросы для создания тарифа маршрута.
func (h *RouteHandler) CreateRate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var rateReq models.RateRequest
	if err := decodeBody(r, &rateReq); err != nil {
		fail(h.Logger, w, r, err)
		return
	}
	rateReq.RouteID = chi.URLParam(r, "routeId")

	rate, err := h.Service.CreateRate(ctx, rateReq)
	if err != nil {
		fail(h.Logger, w, r, err, zap.String("routeId", rateReq.RouteID))
		return
	}
	utils.WriteJSON(w, http.StatusCreated, rate)
}

// ActiveRate обрабатывает запросы для получения тарифа, действующего на дату.
func (h *RouteHandler) ActiveRate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	routeId := chi.URLParam(r, "routeId")
	query := r.URL.Query()
	rate, err := h.Service.ActiveRate(ctx, routeId, query.Get("containerTypeId"), query.Get("date"))
	if err != nil {
		fail(h.Logger, w, r, err, zap.String("routeId", routeId))
		return
	}
	utils.WriteJSON(w, http.StatusOK, rate)
}

// GetRate обрабатывает запросы для получения тарифа.
func (h *RouteHandler) GetRate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	rateId := chi.URLParam(r, "rateId")
	rate, err := h.Service.GetRate(ctx, rateId)
	if err != nil {
		fail(h.Logger, w, r, err, zap.String("rateId", rateId))
		return
	}
	utils.WriteJSON(w, http.StatusOK, rate)
}

// DeactivateRate обрабатывает запросы для выключения тарифа.
func (h *RouteHandler) DeactivateRate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	rateId := chi.URLParam(r, "rateId")
	rate, err := h.Service.DeactivateRate(ctx, rateId)
	if err != nil {
		fail(h.Logger, w, r, err, zap.String("rateId", rateId))
		return
	}
	utils.WriteJSON(w, http.StatusOK, rate)
}
