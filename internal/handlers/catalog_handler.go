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

// CatalogHandler - обработчики справочников.
type CatalogHandler struct {
	Service *services.CatalogService
	Logger  *zap.Logger
	Timeout time.Duration
}

// NewCatalogHandler создаёт новый экземпляр CatalogHandler.
func NewCatalogHandler(service *services.CatalogService, logger *zap.Logger, timeout time.Duration) *CatalogHandler {
	return &CatalogHandler{
		Service: service,
		Logger:  logger,
		Timeout: timeout,
	}
}

// ListCountries обрабатывает запросы для получения списка стран.
func (h *CatalogHandler) ListCountries(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	countries, err := h.Service.ListCountries(ctx)
	if err != nil {
		fail(h.Logger, w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, countries)
}

// GetCountry обрабатывает запросы для получения страны.
func (h *CatalogHandler) GetCountry(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	countryId := chi.URLParam(r, "countryId")
	country, err := h.Service.GetCountry(ctx, countryId)
	if err != nil {
		fail(h.Logger, w, r, err, zap.String("countryId", countryId))
		return
	}
	utils.WriteJSON(w, http.StatusOK, country)
}

// CreateCountry обрабатывает запросы для создания страны.
func (h *CatalogHandler) CreateCountry(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var countryReq models.CountryRequest
	if err := decodeBody(r, &countryReq); err != nil {
		fail(h.Logger, w, r, err)
		return
	}

	country, err := h.Service.CreateCountry(ctx, countryReq)
	if err != nil {
		fail(h.Logger, w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, country)
}

// ListPorts обрабатывает запросы для получения списка портов.
func (h *CatalogHandler) ListPorts(w http.ResponseWriter, r *http.Request) {
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

	ports, err := h.Service.ListPorts(ctx, models.PortFilter{
		Limit:        limit,
		Offset:       offset,
		CountryCodes: utils.SplitList(query["country"]),
		OnlyActive:   onlyActive,
	})
	if err != nil {
		fail(h.Logger, w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, ports)
}

// GetPort обрабатывает запросы для получения порта.
func (h *CatalogHandler) GetPort(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	portId := chi.URLParam(r, "portId")
	port, err := h.Service.GetPort(ctx, portId)
	if err != nil {
		fail(h.Logger, w, r, err, zap.String("portId", portId))
		return
	}
	utils.WriteJSON(w, http.StatusOK, port)
}

// CreatePort обрабатывает запросы для создания порта.
func (h *CatalogHandler) CreatePort(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var portReq models.PortRequest
	if err := decodeBody(r, &portReq); err != nil {
		fail(h.Logger, w, r, err)
		return
	}

	port, err := h.Service.CreatePort(ctx, portReq)
	if err != nil {
		fail(h.Logger, w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, port)
}

// SetPortActive обрабатывает запросы для включения и выключения порта.
func (h *CatalogHandler) SetPortActive(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	portId := chi.URLParam(r, "portId")
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

	port, err := h.Service.SetPortActive(ctx, portId, active)
	if err != nil {
		fail(h.Logger, w, r, err, zap.String("portId", portId))
		return
	}
	utils.WriteJSON(w, http.StatusOK, port)
}

// ListContainerTypes обрабатывает запросы для получения списка типов контейнеров.
func (h *CatalogHandler) ListContainerTypes(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	onlyActive, err := utils.ParseBool(r.URL.Query().Get("active"), "active", false)
	if err != nil {
		fail(h.Logger, w, r, err)
		return
	}

	containerTypes, err := h.Service.ListContainerTypes(ctx, onlyActive)
	if err != nil {
		fail(h.Logger, w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, containerTypes)
}

// GetContainerType обрабатывает запросы для получения типа контейнера.
func (h *CatalogHandler) GetContainerType(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	containerTypeId := chi.URLParam(r, "containerTypeId")
	containerType, err := h.Service.GetContainerType(ctx, containerTypeId)
	if err != nil {
		fail(h.Logger, w, r, err, zap.String("containerTypeId", containerTypeId))
		return
	}
	utils.WriteJSON(w, http.StatusOK, containerType)
}

// CreateContainerType обрабатывает запросы для создания типа контейнера.
func (h *CatalogHandler) CreateContainerType(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var req models.ContainerTypeRequest
	if err := decodeBody(r, &req); err != nil {
		fail(h.Logger, w, r, err)
		return
	}

	containerType, err := h.Service.CreateContainerType(ctx, req)
	if err != nil {
		fail(h.Logger, w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, containerType)
}

// ListCargoTypes обрабатывает запросы для получения списка типов грузов.
func (h *CatalogHandler) ListCargoTypes(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	cargoTypes, err := h.Service.ListCargoTypes(ctx)
	if err != nil {
		fail(h.Logger, w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, cargoTypes)
}

// GetCargoType обрабатывает запросы для получения типа груза.
func (h *CatalogHandler) GetCargoType(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	cargoTypeId := chi.URLParam(r, "cargoTypeId")
	cargoType, err := h.Service.GetCargoType(ctx, cargoTypeId)
	if err != nil {
		fail(h.Logger, w, r, err, zap.String("cargoTypeId", cargoTypeId))
		return
	}
	utils.WriteJSON(w, http.StatusOK, cargoType)
}

// CreateCargoType обрабатывает запросы для создания типа груза.
func (h *CatalogHandler) CreateCargoType(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var req models.CargoTypeRequest
	if err := decodeBody(r, &req); err != nil {
		fail(h.Logger, w, r, err)
		return
	}

	cargoType, err := h.Service.CreateCargoType(ctx, req)
	if err != nil {
		fail(h.Logger, w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, cargoType)
}
