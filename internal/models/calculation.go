package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// CalculateRequest представляет запрос на расчёт стоимости перевозки.
type CalculateRequest struct {
	OriginPortID      string           `json:"originPortId"`
	DestinationPortID string           `json:"destinationPortId"`
	ContainerTypeID   string           `json:"containerTypeId"`
	CargoTypeID       string           `json:"cargoTypeId"`
	Quantity          *int             `json:"quantity"`
	WeightKg          *decimal.Decimal `json:"weightKg"`
	VolumeCbm         *decimal.Decimal `json:"volumeCbm"`
	AsOf              string           `json:"asOf"`
}

// CommitQuoteRequest - расчёт плюс данные клиента для сохранения предложения.
type CommitQuoteRequest struct {
	CalculateRequest
	CustomerName    string `json:"customerName"`
	CustomerEmail   string `json:"customerEmail"`
	CustomerCompany string `json:"customerCompany"`
	CreatedBy       string `json:"createdBy"`
	Notes           string `json:"notes"`
}

// PriceBreakdown - разбивка стоимости по сборам. Все суммы в точной десятичной арифметике.
type PriceBreakdown struct {
	Quantity                int
	BaseRate                decimal.Decimal
	FuelSurchargePercentage decimal.Decimal
	FuelSurchargeAmount     decimal.Decimal
	HandlingFee             decimal.Decimal
	InsuranceFee            decimal.Decimal
	DocumentationFee        decimal.Decimal
	PerUnitCost             decimal.Decimal
	TotalItemCost           decimal.Decimal
	TotalQuoteAmount        decimal.Decimal
}

// MarshalJSON отдаёт суммы числами с двумя знаками после запятой.
func (b PriceBreakdown) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		BaseRatePerContainer            float64 `json:"baseRatePerContainer"`
		FuelSurchargePercentage         float64 `json:"fuelSurchargePercentage"`
		FuelSurchargeAmountPerContainer float64 `json:"fuelSurchargeAmountPerContainer"`
		HandlingFeePerContainer         float64 `json:"handlingFeePerContainer"`
		InsuranceFeePerContainer        float64 `json:"insuranceFeePerContainer"`
		DocumentationFeePerQuote        float64 `json:"documentationFeePerQuote"`
		PerUnitCost                     float64 `json:"perUnitCost"`
	}{
		BaseRatePerContainer:            ToFloat(b.BaseRate),
		FuelSurchargePercentage:         ToFloat(b.FuelSurchargePercentage),
		FuelSurchargeAmountPerContainer: ToFloat(b.FuelSurchargeAmount),
		HandlingFeePerContainer:         ToFloat(b.HandlingFee),
		InsuranceFeePerContainer:        ToFloat(b.InsuranceFee),
		DocumentationFeePerQuote:        ToFloat(b.DocumentationFee),
		PerUnitCost:                     ToFloat(b.PerUnitCost),
	})
}

// QuoteCalculation - результат расчёта, ещё не сохранённый как предложение.
type QuoteCalculation struct {
	OriginPort           Port
	DestinationPort      Port
	ContainerType        ContainerType
	CargoType            CargoType
	RateID               string
	Quantity             int
	WeightKg             decimal.Decimal
	VolumeCbm            decimal.Decimal
	EstimatedTransitDays int
	Breakdown            PriceBreakdown
	Currency             string
	AsOf                 time.Time
	ValidUntil           time.Time
}

// MarshalJSON формирует ответ эндпоинта расчёта.
func (c QuoteCalculation) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		OriginPort           Port           `json:"originPort"`
		DestinationPort      Port           `json:"destinationPort"`
		ContainerType        ContainerType  `json:"containerType"`
		CargoType            CargoType      `json:"cargoType"`
		RateID               string         `json:"rateId"`
		Quantity             int            `json:"quantity"`
		WeightKg             float64        `json:"weightKg"`
		VolumeCbm            float64        `json:"volumeCbm"`
		EstimatedTransitDays int            `json:"estimatedTransitDays"`
		Breakdown            PriceBreakdown `json:"breakdown"`
		TotalItemCost        float64        `json:"totalItemCost"`
		TotalQuoteAmount     float64        `json:"totalQuoteAmount"`
		Currency             string         `json:"currency"`
		ValidUntil           string         `json:"validUntil"`
	}{
		OriginPort:           c.OriginPort,
		DestinationPort:      c.DestinationPort,
		ContainerType:        c.ContainerType,
		CargoType:            c.CargoType,
		RateID:               c.RateID,
		Quantity:             c.Quantity,
		WeightKg:             ToFloat(c.WeightKg),
		VolumeCbm:            ToFloat(c.VolumeCbm),
		EstimatedTransitDays: c.EstimatedTransitDays,
		Breakdown:            c.Breakdown,
		TotalItemCost:        ToFloat(c.Breakdown.TotalItemCost),
		TotalQuoteAmount:     ToFloat(c.Breakdown.TotalQuoteAmount),
		Currency:             c.Currency,
		ValidUntil:           c.ValidUntil.Format(DateLayout),
	})
}

// ToFloat округляет значение до центов и переводит в float64 для ответа клиенту.
func ToFloat(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
