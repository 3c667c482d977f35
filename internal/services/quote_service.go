package services

import (
	"context"
	"fmt"
	"math"
	"net/mail"
	"strings"
	"time"

	"github.com/senyabanana/shipquote-service/internal/models"
	"github.com/senyabanana/shipquote-service/internal/pricing"
	"github.com/senyabanana/shipquote-service/internal/quotepdf"
	"github.com/senyabanana/shipquote-service/internal/repository"
	"github.com/senyabanana/shipquote-service/internal/utils"

	"github.com/shopspring/decimal"
)

// QuoteService - расчёт стоимости и работа с коммерческими предложениями.
type QuoteService struct {
	Quotes   repository.QuoteRepository
	Routes   repository.RouteRepository
	Catalog  repository.CatalogRepository
	Resolver *pricing.Resolver
	Numberer repository.QuoteNumberer
	Fees     pricing.FeeSchedule
	now      func() time.Time
}

// NewQuoteService создаёт новый экземпляр QuoteService.
func NewQuoteService(
	quotes repository.QuoteRepository,
	routes repository.RouteRepository,
	catalog repository.CatalogRepository,
	resolver *pricing.Resolver,
	numberer repository.QuoteNumberer,
	fees pricing.FeeSchedule,
) *QuoteService {
	return &QuoteService{
		Quotes:   quotes,
		Routes:   routes,
		Catalog:  catalog,
		Resolver: resolver,
		Numberer: numberer,
		Fees:     fees,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Calculate рассчитывает стоимость перевозки без сохранения.
// Проверки идут по порядку: параметры, маршрут, контейнер, груз, тариф.
func (s *QuoteService) Calculate(ctx context.Context, req models.CalculateRequest) (*models.QuoteCalculation, error) {
	var absent []string
	if req.OriginPortID == "" {
		absent = append(absent, "originPortId")
	}
	if req.DestinationPortID == "" {
		absent = append(absent, "destinationPortId")
	}
	if req.ContainerTypeID == "" {
		absent = append(absent, "containerTypeId")
	}
	if req.CargoTypeID == "" {
		absent = append(absent, "cargoTypeId")
	}
	if req.WeightKg == nil {
		absent = append(absent, "weightKg")
	}
	if req.VolumeCbm == nil {
		absent = append(absent, "volumeCbm")
	}
	if len(absent) > 0 {
		return nil, missing(absent...)
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	if quantity <= 0 {
		return nil, models.ErrInvalidQuantity
	}
	if req.WeightKg.IsNegative() || req.VolumeCbm.IsNegative() {
		return nil, invalid("weightKg and volumeCbm must be non-negative")
	}
	asOf, err := parseAsOf(req.AsOf, s.now)
	if err != nil {
		return nil, err
	}

	route, err := s.Routes.GetActiveRouteByPorts(ctx, req.OriginPortID, req.DestinationPortID)
	if err != nil {
		return nil, err
	}
	containerType, err := s.Catalog.GetContainerType(ctx, req.ContainerTypeID)
	if err != nil {
		return nil, err
	}
	cargoType, err := s.Catalog.GetCargoType(ctx, req.CargoTypeID)
	if err != nil {
		return nil, err
	}

	rate, err := s.Resolver.Resolve(ctx, route.ID, containerType.ID, asOf)
	if err != nil {
		return nil, err
	}
	breakdown, err := pricing.Price(rate, quantity, s.Fees)
	if err != nil {
		return nil, err
	}

	origin, err := s.Catalog.GetPort(ctx, route.OriginPortID)
	if err != nil {
		return nil, err
	}
	destination, err := s.Catalog.GetPort(ctx, route.DestinationPortID)
	if err != nil {
		return nil, err
	}

	return &models.QuoteCalculation{
		OriginPort:           *origin,
		DestinationPort:      *destination,
		ContainerType:        *containerType,
		CargoType:            *cargoType,
		RateID:               rate.ID,
		Quantity:             quantity,
		WeightKg:             *req.WeightKg,
		VolumeCbm:            *req.VolumeCbm,
		EstimatedTransitDays: route.EstimatedTransitDays,
		Breakdown:            breakdown,
		Currency:             s.Fees.Currency,
		AsOf:                 asOf,
		ValidUntil:           pricing.ValidUntil(asOf, s.Fees),
	}, nil
}

// Commit рассчитывает стоимость и сохраняет результат как черновик предложения с одной позицией.
func (s *QuoteService) Commit(ctx context.Context, req models.CommitQuoteRequest) (*models.Quote, error) {
	if err := validateCustomer(req.CustomerName, req.CustomerEmail); err != nil {
		return nil, err
	}

	calc, err := s.Calculate(ctx, req.CalculateRequest)
	if err != nil {
		return nil, err
	}

	b := calc.Breakdown
	quote := &models.Quote{
		CustomerName:      req.CustomerName,
		CustomerEmail:     req.CustomerEmail,
		CustomerCompany:   req.CustomerCompany,
		OriginPortID:      calc.OriginPort.ID,
		DestinationPortID: calc.DestinationPort.ID,
		Status:            models.DraftQuote,
		DocumentationFee:  b.DocumentationFee,
		Currency:          calc.Currency,
		ValidUntil:        calc.ValidUntil,
		CreatedBy:         optional(req.CreatedBy),
		Notes:             req.Notes,
		Items: []models.QuoteItem{{
			ContainerTypeID:  calc.ContainerType.ID,
			CargoTypeID:      calc.CargoType.ID,
			Quantity:         calc.Quantity,
			WeightKg:         calc.WeightKg,
			VolumeCbm:        calc.VolumeCbm,
			BaseRate:         b.BaseRate,
			FuelSurcharge:    b.FuelSurchargeAmount,
			HandlingFee:      b.HandlingFee,
			DocumentationFee: decimal.Zero,
			InsuranceFee:     b.InsuranceFee,
		}},
	}
	if err := validateItem(quote.Items[0]); err != nil {
		return nil, err
	}
	quote.Recalculate()
	if err := checkTotals(quote); err != nil {
		return nil, err
	}
	if !quote.TotalAmount.Equal(b.TotalQuoteAmount) {
		return nil, fmt.Errorf("%w: stored total %s differs from calculated %s",
			models.ErrInternalComputation, quote.TotalAmount, b.TotalQuoteAmount)
	}

	if err := s.persist(ctx, quote); err != nil {
		return nil, err
	}
	return quote, nil
}

// CreateQuote создаёт предложение вручную, вместе с позициями.
func (s *QuoteService) CreateQuote(ctx context.Context, quoteReq models.QuoteRequest) (*models.Quote, error) {
	if quoteReq.OriginPortID == "" || quoteReq.DestinationPortID == "" {
		return nil, missing("originPortId", "destinationPortId")
	}
	if err := validateCustomer(quoteReq.CustomerName, quoteReq.CustomerEmail); err != nil {
		return nil, err
	}
	if quoteReq.OriginPortID == quoteReq.DestinationPortID {
		return nil, invalid("origin and destination ports must differ")
	}
	if _, err := s.Catalog.GetPort(ctx, quoteReq.OriginPortID); err != nil {
		return nil, err
	}
	if _, err := s.Catalog.GetPort(ctx, quoteReq.DestinationPortID); err != nil {
		return nil, err
	}

	quote := &models.Quote{
		CustomerName:      quoteReq.CustomerName,
		CustomerEmail:     quoteReq.CustomerEmail,
		CustomerCompany:   quoteReq.CustomerCompany,
		OriginPortID:      quoteReq.OriginPortID,
		DestinationPortID: quoteReq.DestinationPortID,
		Status:            models.DraftQuote,
		DocumentationFee:  decimal.Zero,
		Currency:          s.Fees.Currency,
		CreatedBy:         optional(quoteReq.CreatedBy),
		Notes:             quoteReq.Notes,
		Items:             []models.QuoteItem{},
	}
	if quoteReq.DocumentationFee != nil {
		if err := validateAmount("documentationFee", *quoteReq.DocumentationFee); err != nil {
			return nil, err
		}
		quote.DocumentationFee = *quoteReq.DocumentationFee
	}
	if quoteReq.Currency != "" {
		quote.Currency = strings.ToUpper(quoteReq.Currency)
		if len(quote.Currency) != 3 {
			return nil, invalid("currency must be a 3-letter code")
		}
	}
	if quoteReq.ValidUntil != nil {
		quote.ValidUntil = quoteReq.ValidUntil.UTC()
	} else {
		quote.ValidUntil = pricing.ValidUntil(s.now(), s.Fees)
	}

	for i, itemReq := range quoteReq.Items {
		item, err := s.newItem(ctx, itemReq)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		quote.Items = append(quote.Items, *item)
	}

	quote.Recalculate()
	if err := checkTotals(quote); err != nil {
		return nil, err
	}
	if err := s.persist(ctx, quote); err != nil {
		return nil, err
	}
	return quote, nil
}

func (s *QuoteService) persist(ctx context.Context, quote *models.Quote) error {
	number, err := s.Numberer.NextQuoteNumber(ctx, s.now())
	if err != nil {
		return err
	}
	quote.QuoteNumber = number
	return s.Quotes.CreateQuote(ctx, quote)
}

// GetQuote возвращает предложение с позициями.
func (s *QuoteService) GetQuote(ctx context.Context, quoteId string) (*models.Quote, error) {
	return s.Quotes.GetQuote(ctx, quoteId)
}

// ListQuotes возвращает список предложений с фильтром по статусам.
func (s *QuoteService) ListQuotes(ctx context.Context, filter models.QuoteFilter) ([]models.Quote, error) {
	for i, status := range filter.Statuses {
		filter.Statuses[i] = strings.ToUpper(status)
		if _, ok := models.QuoteStatusTransitions[models.QuoteStatus(filter.Statuses[i])]; !ok {
			return nil, invalid("unsupported quote status: %s", status)
		}
	}
	return s.Quotes.ListQuotes(ctx, filter)
}

// UpdateQuoteStatus меняет статус предложения по таблице допустимых переходов.
func (s *QuoteService) UpdateQuoteStatus(ctx context.Context, quoteId, status string) (*models.Quote, error) {
	if status == "" {
		return nil, missing("status")
	}
	newStatus := models.QuoteStatus(strings.ToUpper(status))
	if _, ok := models.QuoteStatusTransitions[newStatus]; !ok {
		return nil, invalid("unsupported quote status: %s", status)
	}

	quote, err := s.Quotes.GetQuote(ctx, quoteId)
	if err != nil {
		return nil, err
	}
	if !utils.ContainsStatus(models.QuoteStatusTransitions[quote.Status], newStatus) {
		return nil, fmt.Errorf("%w: %s -> %s", models.ErrInvalidStatus, quote.Status, newStatus)
	}
	return s.Quotes.UpdateQuoteStatus(ctx, quoteId, newStatus)
}

// AddItem добавляет позицию в черновик предложения.
func (s *QuoteService) AddItem(ctx context.Context, quoteId string, itemReq models.QuoteItemRequest) (*models.Quote, error) {
	quote, err := s.editableQuote(ctx, quoteId)
	if err != nil {
		return nil, err
	}
	item, err := s.newItem(ctx, itemReq)
	if err != nil {
		return nil, err
	}
	item.QuoteID = quote.ID

	quote.Items = append(quote.Items, *item)
	quote.Recalculate()
	if err := checkTotals(quote); err != nil {
		return nil, err
	}
	if err := s.Quotes.InsertItem(ctx, item); err != nil {
		return nil, err
	}
	return s.Quotes.GetQuote(ctx, quote.ID)
}

// UpdateItem меняет переданные поля позиции и пересчитывает её стоимость.
func (s *QuoteService) UpdateItem(ctx context.Context, quoteId, itemId string, itemReq models.QuoteItemRequest) (*models.Quote, error) {
	quote, err := s.editableQuote(ctx, quoteId)
	if err != nil {
		return nil, err
	}
	idx := findItem(quote.Items, itemId)
	if idx < 0 {
		return nil, models.ErrQuoteItemNotFound
	}

	item := quote.Items[idx]
	if itemReq.ContainerTypeID != "" && itemReq.ContainerTypeID != item.ContainerTypeID {
		if _, err := s.Catalog.GetContainerType(ctx, itemReq.ContainerTypeID); err != nil {
			return nil, err
		}
	}
	if itemReq.CargoTypeID != "" && itemReq.CargoTypeID != item.CargoTypeID {
		if _, err := s.Catalog.GetCargoType(ctx, itemReq.CargoTypeID); err != nil {
			return nil, err
		}
	}
	applyItemRequest(&item, itemReq)
	if err := validateItem(item); err != nil {
		return nil, err
	}

	quote.Items[idx] = item
	quote.Recalculate()
	if err := checkTotals(quote); err != nil {
		return nil, err
	}
	if err := s.Quotes.UpdateItem(ctx, &quote.Items[idx]); err != nil {
		return nil, err
	}
	return s.Quotes.GetQuote(ctx, quote.ID)
}

// DeleteItem удаляет позицию из черновика предложения.
func (s *QuoteService) DeleteItem(ctx context.Context, quoteId, itemId string) (*models.Quote, error) {
	quote, err := s.editableQuote(ctx, quoteId)
	if err != nil {
		return nil, err
	}
	idx := findItem(quote.Items, itemId)
	if idx < 0 {
		return nil, models.ErrQuoteItemNotFound
	}

	if err := s.Quotes.DeleteItem(ctx, quote.ID, itemId); err != nil {
		return nil, err
	}
	return s.Quotes.GetQuote(ctx, quote.ID)
}

// Document собирает предложение и названия справочных записей для печати.
func (s *QuoteService) Document(ctx context.Context, quoteId string) (*quotepdf.Document, error) {
	quote, err := s.Quotes.GetQuote(ctx, quoteId)
	if err != nil {
		return nil, err
	}
	origin, err := s.Catalog.GetPort(ctx, quote.OriginPortID)
	if err != nil {
		return nil, err
	}
	destination, err := s.Catalog.GetPort(ctx, quote.DestinationPortID)
	if err != nil {
		return nil, err
	}

	doc := &quotepdf.Document{
		Quote:           *quote,
		OriginPort:      *origin,
		DestinationPort: *destination,
		ContainerNames:  map[string]string{},
		CargoNames:      map[string]string{},
	}
	for _, it := range quote.Items {
		if _, ok := doc.ContainerNames[it.ContainerTypeID]; !ok {
			ct, err := s.Catalog.GetContainerType(ctx, it.ContainerTypeID)
			if err != nil {
				return nil, err
			}
			doc.ContainerNames[ct.ID] = ct.Name
		}
		if _, ok := doc.CargoNames[it.CargoTypeID]; !ok {
			cargo, err := s.Catalog.GetCargoType(ctx, it.CargoTypeID)
			if err != nil {
				return nil, err
			}
			doc.CargoNames[cargo.ID] = cargo.Name
		}
	}
	return doc, nil
}

func (s *QuoteService) editableQuote(ctx context.Context, quoteId string) (*models.Quote, error) {
	quote, err := s.Quotes.GetQuote(ctx, quoteId)
	if err != nil {
		return nil, err
	}
	if quote.Status != models.DraftQuote {
		return nil, fmt.Errorf("%w: status is %s", models.ErrQuoteNotEditable, quote.Status)
	}
	return quote, nil
}

func (s *QuoteService) newItem(ctx context.Context, itemReq models.QuoteItemRequest) (*models.QuoteItem, error) {
	var absent []string
	if itemReq.ContainerTypeID == "" {
		absent = append(absent, "containerTypeId")
	}
	if itemReq.CargoTypeID == "" {
		absent = append(absent, "cargoTypeId")
	}
	if itemReq.WeightKg == nil {
		absent = append(absent, "weightKg")
	}
	if itemReq.VolumeCbm == nil {
		absent = append(absent, "volumeCbm")
	}
	if itemReq.BaseRate == nil {
		absent = append(absent, "baseRate")
	}
	if len(absent) > 0 {
		return nil, missing(absent...)
	}

	item := models.QuoteItem{Quantity: 1}
	applyItemRequest(&item, itemReq)
	if err := validateItem(item); err != nil {
		return nil, err
	}
	if _, err := s.Catalog.GetContainerType(ctx, item.ContainerTypeID); err != nil {
		return nil, err
	}
	if _, err := s.Catalog.GetCargoType(ctx, item.CargoTypeID); err != nil {
		return nil, err
	}
	item.Recalculate()
	return &item, nil
}

func applyItemRequest(item *models.QuoteItem, req models.QuoteItemRequest) {
	if req.ContainerTypeID != "" {
		item.ContainerTypeID = req.ContainerTypeID
	}
	if req.CargoTypeID != "" {
		item.CargoTypeID = req.CargoTypeID
	}
	if req.Quantity != nil {
		item.Quantity = *req.Quantity
	}
	setDecimal(&item.WeightKg, req.WeightKg)
	setDecimal(&item.VolumeCbm, req.VolumeCbm)
	setDecimal(&item.BaseRate, req.BaseRate)
	setDecimal(&item.FuelSurcharge, req.FuelSurcharge)
	setDecimal(&item.HandlingFee, req.HandlingFee)
	setDecimal(&item.DocumentationFee, req.DocumentationFee)
	setDecimal(&item.InsuranceFee, req.InsuranceFee)
}

// Границы соответствуют колонкам NUMERIC(10,2), NUMERIC(12,2) и INTEGER.
var (
	maxAmount   = decimal.RequireFromString("99999999.99")
	maxTotal    = decimal.RequireFromString("9999999999.99")
	maxQuantity = math.MaxInt32
)

// validateAmount требует неотрицательную сумму с точностью до центов, которая помещается в колонку.
// Тогда сохранённый subtotal совпадает с суммой сохранённых сборов, умноженной на количество.
func validateAmount(name string, value decimal.Decimal) error {
	if value.IsNegative() {
		return invalid("%s must be non-negative", name)
	}
	if !value.Equal(value.Round(2)) {
		return invalid("%s must have at most two decimal places", name)
	}
	if value.GreaterThan(maxAmount) {
		return invalid("%s must not exceed %s", name, maxAmount)
	}
	return nil
}

func checkTotals(quote *models.Quote) error {
	for _, it := range quote.Items {
		if it.Subtotal.GreaterThan(maxTotal) {
			return invalid("item subtotal must not exceed %s", maxTotal)
		}
	}
	if quote.TotalAmount.GreaterThan(maxTotal) {
		return invalid("quote total must not exceed %s", maxTotal)
	}
	return nil
}

func validateItem(item models.QuoteItem) error {
	if item.Quantity <= 0 || item.Quantity > maxQuantity {
		return models.ErrInvalidQuantity
	}
	amounts := []struct {
		name  string
		value decimal.Decimal
	}{
		{"weightKg", item.WeightKg},
		{"volumeCbm", item.VolumeCbm},
		{"baseRate", item.BaseRate},
		{"fuelSurcharge", item.FuelSurcharge},
		{"handlingFee", item.HandlingFee},
		{"documentationFee", item.DocumentationFee},
		{"insuranceFee", item.InsuranceFee},
	}
	for _, a := range amounts {
		if err := validateAmount(a.name, a.value); err != nil {
			return err
		}
	}
	return nil
}

func validateCustomer(name, email string) error {
	if name == "" || email == "" {
		return missing("customerName", "customerEmail")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return invalid("customerEmail is not a valid address")
	}
	return nil
}

func findItem(items []models.QuoteItem, itemId string) int {
	for i := range items {
		if items[i].ID == itemId {
			return i
		}
	}
	return -1
}

func setDecimal(dst *decimal.Decimal, src *decimal.Decimal) {
	if src != nil {
		*dst = *src
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
