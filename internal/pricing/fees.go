package pricing

import "github.com/shopspring/decimal"

// FeeSchedule - фиксированные сборы, применяемые к каждому расчёту.
type FeeSchedule struct {
	HandlingFee      decimal.Decimal // за контейнер
	DocumentationFee decimal.Decimal // один раз на предложение
	InsuranceRate    decimal.Decimal // доля от фрахта с топливной надбавкой
	ValidityDays     int
	Currency         string
}

// DefaultFeeSchedule возвращает стандартные сборы: 50.00 обработка, 25.00 документы, 1% страховка.
func DefaultFeeSchedule() FeeSchedule {
	return FeeSchedule{
		HandlingFee:      decimal.RequireFromString("50.00"),
		DocumentationFee: decimal.RequireFromString("25.00"),
		InsuranceRate:    decimal.RequireFromString("0.01"),
		ValidityDays:     7,
		Currency:         "USD",
	}
}
