package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Route представляет маршрут между портом отправления и портом назначения.
type Route struct {
	ID                    string `json:"id"`
	OriginPortID          string `json:"originPortId"`
	DestinationPortID     string `json:"destinationPortId"`
	DistanceNauticalMiles int    `json:"distanceNauticalMiles"`
	EstimatedTransitDays  int    `json:"estimatedTransitDays"`
	IsActive              bool   `json:"isActive"`
}

// RouteRequest представляет структуру запроса для создания маршрута.
type RouteRequest struct {
	OriginPortID          string `json:"originPortId"`
	DestinationPortID     string `json:"destinationPortId"`
	DistanceNauticalMiles int    `json:"distanceNauticalMiles"`
	EstimatedTransitDays  int    `json:"estimatedTransitDays"`
}

// Rate представляет базовый тариф маршрута для типа контейнера с периодом действия.
type Rate struct {
	ID                       string          `json:"id"`
	RouteID                  string          `json:"routeId"`
	ContainerTypeID          string          `json:"containerTypeId"`
	BaseRateUSD              decimal.Decimal `json:"baseRateUsd"`
	FuelSurchargePercentage  decimal.Decimal `json:"fuelSurchargePercentage"`
	CurrencyAdjustmentFactor decimal.Decimal `json:"currencyAdjustmentFactor"`
	EffectiveFrom            time.Time       `json:"effectiveFrom"`
	EffectiveTo              *time.Time      `json:"effectiveTo,omitempty"`
	IsActive                 bool            `json:"isActive"`
}

// CoversDate сообщает, действует ли тариф на указанную дату.
// Обе границы периода включительные, пустая верхняя граница - бессрочный тариф.
func (r Rate) CoversDate(date time.Time) bool {
	if !r.IsActive {
		return false
	}
	day := TruncateDate(date)
	if TruncateDate(r.EffectiveFrom).After(day) {
		return false
	}
	return r.EffectiveTo == nil || !TruncateDate(*r.EffectiveTo).Before(day)
}

// RateRequest представляет структуру запроса для создания тарифа.
// Даты передаются в формате YYYY-MM-DD.
type RateRequest struct {
	RouteID                  string           `json:"routeId"`
	ContainerTypeID          string           `json:"containerTypeId"`
	BaseRateUSD              *decimal.Decimal `json:"baseRateUsd"`
	FuelSurchargePercentage  *decimal.Decimal `json:"fuelSurchargePercentage"`
	CurrencyAdjustmentFactor *decimal.Decimal `json:"currencyAdjustmentFactor"`
	EffectiveFrom            string           `json:"effectiveFrom"`
	EffectiveTo              string           `json:"effectiveTo"`
}

// DateLayout - формат дат в запросах и ответах.
const DateLayout = "2006-01-02"

// TruncateDate отбрасывает время суток, оставляя календарную дату в UTC.
func TruncateDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
