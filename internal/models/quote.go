package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// QuoteStatus - статус коммерческого предложения.
type QuoteStatus string

const (
	DraftQuote    QuoteStatus = "DRAFT"    // Предложение создано
	SentQuote     QuoteStatus = "SENT"     // Предложение отправлено клиенту
	AcceptedQuote QuoteStatus = "ACCEPTED" // Клиент принял предложение
	RejectedQuote QuoteStatus = "REJECTED" // Клиент отклонил предложение
	ExpiredQuote  QuoteStatus = "EXPIRED"  // Срок действия истёк
)

// QuoteStatusTransitions - допустимые переходы между статусами.
var QuoteStatusTransitions = map[QuoteStatus][]QuoteStatus{
	DraftQuote:    {SentQuote, ExpiredQuote},
	SentQuote:     {AcceptedQuote, RejectedQuote, ExpiredQuote},
	AcceptedQuote: {},
	RejectedQuote: {},
	ExpiredQuote:  {},
}

// Quote представляет модель коммерческого предложения.
type Quote struct {
	ID                string          `json:"id"`
	QuoteNumber       string          `json:"quoteNumber"`
	CustomerName      string          `json:"customerName"`
	CustomerEmail     string          `json:"customerEmail"`
	CustomerCompany   string          `json:"customerCompany"`
	OriginPortID      string          `json:"originPortId"`
	DestinationPortID string          `json:"destinationPortId"`
	Status            QuoteStatus     `json:"status"`
	DocumentationFee  decimal.Decimal `json:"documentationFee"`
	TotalAmount       decimal.Decimal `json:"totalAmount"`
	Currency          string          `json:"currency"`
	ValidUntil        time.Time       `json:"validUntil"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
	CreatedBy         *string         `json:"createdBy,omitempty"`
	Notes             string          `json:"notes"`
	Items             []QuoteItem     `json:"items"`
}

// Recalculate пересчитывает итоговую сумму предложения по текущим позициям.
// Сбор за документы начисляется один раз на всё предложение.
func (q *Quote) Recalculate() {
	total := q.DocumentationFee
	for i := range q.Items {
		q.Items[i].Recalculate()
		total = total.Add(q.Items[i].Subtotal)
	}
	q.TotalAmount = total
}

// QuoteItem представляет позицию предложения со снимком сборов на момент расчёта.
type QuoteItem struct {
	ID               string          `json:"id"`
	QuoteID          string          `json:"quoteId"`
	ContainerTypeID  string          `json:"containerTypeId"`
	CargoTypeID      string          `json:"cargoTypeId"`
	Quantity         int             `json:"quantity"`
	WeightKg         decimal.Decimal `json:"weightKg"`
	VolumeCbm        decimal.Decimal `json:"volumeCbm"`
	BaseRate         decimal.Decimal `json:"baseRate"`
	FuelSurcharge    decimal.Decimal `json:"fuelSurcharge"`
	HandlingFee      decimal.Decimal `json:"handlingFee"`
	DocumentationFee decimal.Decimal `json:"documentationFee"`
	InsuranceFee     decimal.Decimal `json:"insuranceFee"`
	Subtotal         decimal.Decimal `json:"subtotal"`
}

// ItemSubtotal вычисляет стоимость позиции: сумма пяти сборов, умноженная на количество.
func ItemSubtotal(baseRate, fuelSurcharge, handlingFee, documentationFee, insuranceFee decimal.Decimal, quantity int) decimal.Decimal {
	perUnit := baseRate.Add(fuelSurcharge).Add(handlingFee).Add(documentationFee).Add(insuranceFee)
	return perUnit.Mul(decimal.NewFromInt(int64(quantity)))
}

// Recalculate выставляет Subtotal заново из текущих полей позиции.
func (it *QuoteItem) Recalculate() {
	it.Subtotal = ItemSubtotal(it.BaseRate, it.FuelSurcharge, it.HandlingFee, it.DocumentationFee, it.InsuranceFee, it.Quantity)
}

// QuoteItemRequest представляет структуру запроса для создания или обновления позиции.
type QuoteItemRequest struct {
	ContainerTypeID  string           `json:"containerTypeId"`
	CargoTypeID      string           `json:"cargoTypeId"`
	Quantity         *int             `json:"quantity"`
	WeightKg         *decimal.Decimal `json:"weightKg"`
	VolumeCbm        *decimal.Decimal `json:"volumeCbm"`
	BaseRate         *decimal.Decimal `json:"baseRate"`
	FuelSurcharge    *decimal.Decimal `json:"fuelSurcharge"`
	HandlingFee      *decimal.Decimal `json:"handlingFee"`
	DocumentationFee *decimal.Decimal `json:"documentationFee"`
	InsuranceFee     *decimal.Decimal `json:"insuranceFee"`
}

// QuoteRequest представляет структуру запроса для создания предложения.
type QuoteRequest struct {
	CustomerName      string             `json:"customerName"`
	CustomerEmail     string             `json:"customerEmail"`
	CustomerCompany   string             `json:"customerCompany"`
	OriginPortID      string             `json:"originPortId"`
	DestinationPortID string             `json:"destinationPortId"`
	DocumentationFee  *decimal.Decimal   `json:"documentationFee"`
	Currency          string             `json:"currency"`
	ValidUntil        *time.Time         `json:"validUntil"`
	CreatedBy         string             `json:"createdBy"`
	Notes             string             `json:"notes"`
	Items             []QuoteItemRequest `json:"items"`
}

// QuoteFilter - параметры выборки списка предложений.
type QuoteFilter struct {
	Limit         int
	Offset        int
	Statuses      []string
	CustomerEmail string
}
