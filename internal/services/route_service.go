package services

import (
	"context"
	"time"

	"github.com/senyabanana/shipquote-service/internal/models"
	"github.com/senyabanana/shipquote-service/internal/pricing"
	"github.com/senyabanana/shipquote-service/internal/repository"
	"github.com/senyabanana/shipquote-service/internal/utils"

	"github.com/shopspring/decimal"
)

// RouteService - маршруты и тарифы.
type RouteService struct {
	Repo     repository.RouteRepository
	Catalog  repository.CatalogRepository
	Resolver *pricing.Resolver
}

// NewRouteService создаёт новый экземпляр RouteService.
func NewRouteService(repo repository.RouteRepository, catalog repository.CatalogRepository, resolver *pricing.Resolver) *RouteService {
	return &RouteService{Repo: repo, Catalog: catalog, Resolver: resolver}
}

var hundred = decimal.NewFromInt(100)

// ListRoutes возвращает список маршрутов.
func (s *RouteService) ListRoutes(ctx context.Context, limit, offset int, onlyActive bool) ([]models.Route, error) {
	return s.Repo.ListRoutes(ctx, limit, offset, onlyActive)
}

// GetRoute возвращает маршрут по ID.
func (s *RouteService) GetRoute(ctx context.Context, routeId string) (*models.Route, error) {
	return s.Repo.GetRoute(ctx, routeId)
}

// CreateRoute создаёт маршрут между двумя существующими портами.
func (s *RouteService) CreateRoute(ctx context.Context, routeReq models.RouteRequest) (*models.Route, error) {
	if routeReq.OriginPortID == "" || routeReq.DestinationPortID == "" {
		return nil, missing("originPortId", "destinationPortId")
	}
	if routeReq.OriginPortID == routeReq.DestinationPortID {
		return nil, invalid("origin and destination ports must differ")
	}
	if routeReq.DistanceNauticalMiles < 0 {
		return nil, invalid("distanceNauticalMiles must be non-negative")
	}
	if routeReq.EstimatedTransitDays <= 0 {
		return nil, invalid("estimatedTransitDays must be positive")
	}
	if _, err := s.Catalog.GetPort(ctx, routeReq.OriginPortID); err != nil {
		return nil, err
	}
	if _, err := s.Catalog.GetPort(ctx, routeReq.DestinationPortID); err != nil {
		return nil, err
	}
	return s.Repo.CreateRoute(ctx, routeReq)
}

// SetRouteActive включает или выключает маршрут.
func (s *RouteService) SetRouteActive(ctx context.Context, routeId string, active bool) (*models.Route, error) {
	return s.Repo.SetRouteActive(ctx, routeId, active)
}

// ListRates возвращает тарифы маршрута, при необходимости только для одного типа контейнера.
func (s *RouteService) ListRates(ctx context.Context, routeId, containerTypeId string) ([]models.Rate, error) {
	if _, err := s.Repo.GetRoute(ctx, routeId); err != nil {
		return nil, err
	}
	return s.Repo.ListRates(ctx, routeId, containerTypeId)
}

// GetRate возвращает тариф по ID.
func (s *RouteService) GetRate(ctx context.Context, rateId string) (*models.Rate, error) {
	return s.Repo.GetRate(ctx, rateId)
}

// CreateRate проверяет и создаёт тариф маршрута.
func (s *RouteService) CreateRate(ctx context.Context, rateReq models.RateRequest) (*models.Rate, error) {
	if rateReq.RouteID == "" || rateReq.ContainerTypeID == "" || rateReq.BaseRateUSD == nil ||
		rateReq.FuelSurchargePercentage == nil || rateReq.EffectiveFrom == "" {
		return nil, missing("routeId", "containerTypeId", "baseRateUsd", "fuelSurchargePercentage", "effectiveFrom")
	}

	rate := models.Rate{
		RouteID:                  rateReq.RouteID,
		ContainerTypeID:          rateReq.ContainerTypeID,
		BaseRateUSD:              *rateReq.BaseRateUSD,
		FuelSurchargePercentage:  *rateReq.FuelSurchargePercentage,
		CurrencyAdjustmentFactor: decimal.NewFromInt(1),
	}
	if rateReq.CurrencyAdjustmentFactor != nil {
		rate.CurrencyAdjustmentFactor = *rateReq.CurrencyAdjustmentFactor
	}

	if rate.BaseRateUSD.IsNegative() {
		return nil, invalid("baseRateUsd must be non-negative")
	}
	if rate.FuelSurchargePercentage.IsNegative() || rate.FuelSurchargePercentage.GreaterThan(hundred) {
		return nil, invalid("fuelSurchargePercentage must be within [0, 100]")
	}
	if !rate.CurrencyAdjustmentFactor.IsPositive() {
		return nil, invalid("currencyAdjustmentFactor must be positive")
	}

	from, err := utils.ParseDate(rateReq.EffectiveFrom, "effectiveFrom")
	if err != nil {
		return nil, err
	}
	rate.EffectiveFrom = from
	if rateReq.EffectiveTo != "" {
		to, err := utils.ParseDate(rateReq.EffectiveTo, "effectiveTo")
		if err != nil {
			return nil, err
		}
		if to.Before(from) {
			return nil, invalid("effectiveTo must not be before effectiveFrom")
		}
		rate.EffectiveTo = &to
	}

	if _, err := s.Repo.GetRoute(ctx, rate.RouteID); err != nil {
		return nil, err
	}
	if _, err := s.Catalog.GetContainerType(ctx, rate.ContainerTypeID); err != nil {
		return nil, err
	}
	return s.Repo.CreateRate(ctx, rate)
}

// DeactivateRate выключает тариф.
func (s *RouteService) DeactivateRate(ctx context.Context, rateId string) (*models.Rate, error) {
	return s.Repo.DeactivateRate(ctx, rateId)
}

// ActiveRate возвращает тариф, действующий на дату. Пустая дата означает сегодня.
func (s *RouteService) ActiveRate(ctx context.Context, routeId, containerTypeId, date string) (*models.Rate, error) {
	if containerTypeId == "" {
		return nil, missing("containerTypeId")
	}
	asOf, err := utils.ParseDate(date, "date")
	if err != nil {
		return nil, err
	}
	if _, err := s.Repo.GetRoute(ctx, routeId); err != nil {
		return nil, err
	}
	if _, err := s.Catalog.GetContainerType(ctx, containerTypeId); err != nil {
		return nil, err
	}
	rate, err := s.Resolver.Resolve(ctx, routeId, containerTypeId, asOf)
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

func parseAsOf(value string, now func() time.Time) (time.Time, error) {
	asOf, err := utils.ParseDate(value, "asOf")
	if err != nil {
		return time.Time{}, err
	}
	if asOf.IsZero() {
		asOf = now()
	}
	return models.TruncateDate(asOf), nil
}
