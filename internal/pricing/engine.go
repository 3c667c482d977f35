package pricing

import (
	"fmt"
	"time"

	"github.com/senyabanana/shipquote-service/internal/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Price раскладывает стоимость перевозки по тарифу на сборы.
// Производные суммы округляются до центов до сложения, поэтому
// TotalItemCost = PerUnitCost * quantity и TotalQuoteAmount = TotalItemCost + DocumentationFee
// выполняются точно.
func Price(rate models.Rate, quantity int, fees FeeSchedule) (models.PriceBreakdown, error) {
	if quantity <= 0 {
		return models.PriceBreakdown{}, fmt.Errorf("%w: got %d", models.ErrInvalidQuantity, quantity)
	}
	if rate.BaseRateUSD.IsNegative() || rate.FuelSurchargePercentage.IsNegative() {
		return models.PriceBreakdown{}, fmt.Errorf("%w: rate %s has negative components", models.ErrInternalComputation, rate.ID)
	}

	base := rate.BaseRateUSD.Round(2)
	fuelSurcharge := base.Mul(rate.FuelSurchargePercentage).Div(hundred).Round(2)
	insurance := base.Add(fuelSurcharge).Mul(fees.InsuranceRate).Round(2)
	handling := fees.HandlingFee.Round(2)
	documentation := fees.DocumentationFee.Round(2)

	perUnit := base.Add(fuelSurcharge).Add(handling).Add(insurance)
	totalItem := perUnit.Mul(decimal.NewFromInt(int64(quantity)))

	return models.PriceBreakdown{
		Quantity:                quantity,
		BaseRate:                base,
		FuelSurchargePercentage: rate.FuelSurchargePercentage,
		FuelSurchargeAmount:     fuelSurcharge,
		HandlingFee:             handling,
		InsuranceFee:            insurance,
		DocumentationFee:        documentation,
		PerUnitCost:             perUnit,
		TotalItemCost:           totalItem,
		TotalQuoteAmount:        totalItem.Add(documentation),
	}, nil
}

// ValidUntil возвращает рекомендуемый срок действия расчёта.
func ValidUntil(asOf time.Time, fees FeeSchedule) time.Time {
	return models.TruncateDate(asOf).AddDate(0, 0, fees.ValidityDays)
}
