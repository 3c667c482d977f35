// Package repotest - хранилище в памяти для тестов сервисов и обработчиков.
package repotest

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/senyabanana/shipquote-service/internal/models"
	"github.com/senyabanana/shipquote-service/internal/repository"

	"github.com/google/uuid"
)

// Store реализует все репозитории и нумератор предложений в памяти. Не потокобезопасен.
type Store struct {
	countries      map[string]models.Country
	ports          map[string]models.Port
	containerTypes map[string]models.ContainerType
	cargoTypes     map[string]models.CargoType
	routes         map[string]models.Route
	rates          map[string]models.Rate
	Quotes         map[string]*models.Quote
	seq            map[string]int64
}

var (
	_ repository.CatalogRepository = (*Store)(nil)
	_ repository.RouteRepository   = (*Store)(nil)
	_ repository.QuoteRepository   = (*Store)(nil)
	_ repository.QuoteNumberer     = (*Store)(nil)
)

// NewStore создаёт пустое хранилище.
func NewStore() *Store {
	return &Store{
		countries:      map[string]models.Country{},
		ports:          map[string]models.Port{},
		containerTypes: map[string]models.ContainerType{},
		cargoTypes:     map[string]models.CargoType{},
		routes:         map[string]models.Route{},
		rates:          map[string]models.Rate{},
		Quotes:         map[string]*models.Quote{},
		seq:            map[string]int64{},
	}
}

func (m *Store) ListCountries(ctx context.Context) ([]models.Country, error) {
	result := []models.Country{}
	for _, c := range m.countries {
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *Store) GetCountry(ctx context.Context, countryId string) (*models.Country, error) {
	c, ok := m.countries[countryId]
	if !ok {
		return nil, models.ErrCountryNotFound
	}
	return &c, nil
}

func (m *Store) CreateCountry(ctx context.Context, req models.CountryRequest) (*models.Country, error) {
	for _, c := range m.countries {
		if c.Code == req.Code {
			return nil, fmt.Errorf("%w: duplicate country code", models.ErrPersistenceConflict)
		}
	}
	c := models.Country{ID: uuid.New().String(), Name: req.Name, Code: req.Code, Continent: req.Continent}
	m.countries[c.ID] = c
	return &c, nil
}

func (m *Store) ListPorts(ctx context.Context, filter models.PortFilter) ([]models.Port, error) {
	result := []models.Port{}
	for _, p := range m.ports {
		if filter.OnlyActive && !p.IsActive {
			continue
		}
		result = append(result, p)
	}
	return result, nil
}

func (m *Store) GetPort(ctx context.Context, portId string) (*models.Port, error) {
	p, ok := m.ports[portId]
	if !ok {
		return nil, models.ErrPortNotFound
	}
	return &p, nil
}

func (m *Store) CreatePort(ctx context.Context, req models.PortRequest) (*models.Port, error) {
	p := models.Port{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Code:      req.Code,
		CountryID: req.CountryID,
		City:      req.City,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		IsActive:  true,
	}
	m.ports[p.ID] = p
	return &p, nil
}

func (m *Store) SetPortActive(ctx context.Context, portId string, active bool) (*models.Port, error) {
	p, ok := m.ports[portId]
	if !ok {
		return nil, models.ErrPortNotFound
	}
	p.IsActive = active
	m.ports[portId] = p
	return &p, nil
}

func (m *Store) ListContainerTypes(ctx context.Context, onlyActive bool) ([]models.ContainerType, error) {
	result := []models.ContainerType{}
	for _, ct := range m.containerTypes {
		if onlyActive && !ct.IsActive {
			continue
		}
		result = append(result, ct)
	}
	return result, nil
}

func (m *Store) GetContainerType(ctx context.Context, containerTypeId string) (*models.ContainerType, error) {
	ct, ok := m.containerTypes[containerTypeId]
	if !ok {
		return nil, models.ErrContainerTypeNotFound
	}
	return &ct, nil
}

func (m *Store) CreateContainerType(ctx context.Context, req models.ContainerTypeRequest) (*models.ContainerType, error) {
	ct := models.ContainerType{
		ID:             uuid.New().String(),
		Name:           req.Name,
		Size:           req.Size,
		Type:           req.Type,
		MaxWeight:      req.MaxWeight,
		InternalLength: req.InternalLength,
		InternalWidth:  req.InternalWidth,
		InternalHeight: req.InternalHeight,
		Volume:         req.Volume,
		IsActive:       true,
	}
	m.containerTypes[ct.ID] = ct
	return &ct, nil
}

func (m *Store) ListCargoTypes(ctx context.Context) ([]models.CargoType, error) {
	result := []models.CargoType{}
	for _, ct := range m.cargoTypes {
		result = append(result, ct)
	}
	return result, nil
}

func (m *Store) GetCargoType(ctx context.Context, cargoTypeId string) (*models.CargoType, error) {
	ct, ok := m.cargoTypes[cargoTypeId]
	if !ok {
		return nil, models.ErrCargoTypeNotFound
	}
	return &ct, nil
}

func (m *Store) CreateCargoType(ctx context.Context, req models.CargoTypeRequest) (*models.CargoType, error) {
	ct := models.CargoType{
		ID:                      uuid.New().String(),
		Name:                    req.Name,
		Description:             req.Description,
		Hazardous:               req.Hazardous,
		RequiresSpecialHandling: req.RequiresSpecialHandling,
		DensityFactor:           *req.DensityFactor,
	}
	m.cargoTypes[ct.ID] = ct
	return &ct, nil
}

func (m *Store) ListRoutes(ctx context.Context, limit, offset int, onlyActive bool) ([]models.Route, error) {
	result := []models.Route{}
	for _, r := range m.routes {
		if onlyActive && !r.IsActive {
			continue
		}
		result = append(result, r)
	}
	return result, nil
}

func (m *Store) GetRoute(ctx context.Context, routeId string) (*models.Route, error) {
	r, ok := m.routes[routeId]
	if !ok {
		return nil, models.ErrRouteNotFound
	}
	return &r, nil
}

func (m *Store) GetActiveRouteByPorts(ctx context.Context, originPortId, destinationPortId string) (*models.Route, error) {
	for _, r := range m.routes {
		if r.OriginPortID == originPortId && r.DestinationPortID == destinationPortId && r.IsActive {
			return &r, nil
		}
	}
	return nil, models.ErrRouteNotFound
}

func (m *Store) CreateRoute(ctx context.Context, req models.RouteRequest) (*models.Route, error) {
	for _, r := range m.routes {
		if r.OriginPortID == req.OriginPortID && r.DestinationPortID == req.DestinationPortID {
			return nil, fmt.Errorf("%w: duplicate route", models.ErrPersistenceConflict)
		}
	}
	r := models.Route{
		ID:                    uuid.New().String(),
		OriginPortID:          req.OriginPortID,
		DestinationPortID:     req.DestinationPortID,
		DistanceNauticalMiles: req.DistanceNauticalMiles,
		EstimatedTransitDays:  req.EstimatedTransitDays,
		IsActive:              true,
	}
	m.routes[r.ID] = r
	return &r, nil
}

func (m *Store) SetRouteActive(ctx context.Context, routeId string, active bool) (*models.Route, error) {
	r, ok := m.routes[routeId]
	if !ok {
		return nil, models.ErrRouteNotFound
	}
	r.IsActive = active
	m.routes[routeId] = r
	return &r, nil
}

func (m *Store) ListRates(ctx context.Context, routeId, containerTypeId string) ([]models.Rate, error) {
	result := []models.Rate{}
	for _, r := range m.rates {
		if r.RouteID == routeId && (containerTypeId == "" || r.ContainerTypeID == containerTypeId) {
			result = append(result, r)
		}
	}
	return result, nil
}

func (m *Store) GetRate(ctx context.Context, rateId string) (*models.Rate, error) {
	r, ok := m.rates[rateId]
	if !ok {
		return nil, models.ErrRateNotFound
	}
	return &r, nil
}

func (m *Store) CreateRate(ctx context.Context, rate models.Rate) (*models.Rate, error) {
	if rate.ID == "" {
		rate.ID = uuid.New().String()
	}
	rate.IsActive = true
	m.rates[rate.ID] = rate
	return &rate, nil
}

func (m *Store) DeactivateRate(ctx context.Context, rateId string) (*models.Rate, error) {
	r, ok := m.rates[rateId]
	if !ok {
		return nil, models.ErrRateNotFound
	}
	r.IsActive = false
	m.rates[rateId] = r
	return &r, nil
}

// ListRateCandidates отдаёт все тарифы маршрута: отбор по дате делает Resolver.
func (m *Store) ListRateCandidates(ctx context.Context, routeId, containerTypeId string, asOf time.Time) ([]models.Rate, error) {
	return m.ListRates(ctx, routeId, containerTypeId)
}

func cloneQuote(q *models.Quote) *models.Quote {
	c := *q
	c.Items = append([]models.QuoteItem{}, q.Items...)
	return &c
}

func (m *Store) CreateQuote(ctx context.Context, quote *models.Quote) error {
	for _, q := range m.Quotes {
		if q.QuoteNumber == quote.QuoteNumber {
			return fmt.Errorf("%w: duplicate quote number", models.ErrPersistenceConflict)
		}
	}
	quote.ID = uuid.New().String()
	quote.CreatedAt = time.Now().UTC()
	quote.UpdatedAt = quote.CreatedAt
	for i := range quote.Items {
		quote.Items[i].ID = uuid.New().String()
		quote.Items[i].QuoteID = quote.ID
	}
	m.Quotes[quote.ID] = cloneQuote(quote)
	return nil
}

func (m *Store) GetQuote(ctx context.Context, quoteId string) (*models.Quote, error) {
	q, ok := m.Quotes[quoteId]
	if !ok {
		return nil, models.ErrQuoteNotFound
	}
	return cloneQuote(q), nil
}

func (m *Store) ListQuotes(ctx context.Context, filter models.QuoteFilter) ([]models.Quote, error) {
	result := []models.Quote{}
	for _, q := range m.Quotes {
		if len(filter.Statuses) > 0 && !containsString(filter.Statuses, string(q.Status)) {
			continue
		}
		c := cloneQuote(q)
		c.Items = []models.QuoteItem{}
		result = append(result, *c)
	}
	return result, nil
}

func (m *Store) UpdateQuoteStatus(ctx context.Context, quoteId string, status models.QuoteStatus) (*models.Quote, error) {
	q, ok := m.Quotes[quoteId]
	if !ok {
		return nil, models.ErrQuoteNotFound
	}
	q.Status = status
	return cloneQuote(q), nil
}

func (m *Store) InsertItem(ctx context.Context, item *models.QuoteItem) error {
	q, ok := m.Quotes[item.QuoteID]
	if !ok {
		return models.ErrQuoteNotFound
	}
	item.ID = uuid.New().String()
	q.Items = append(q.Items, *item)
	sumTotal(q)
	return nil
}

func (m *Store) UpdateItem(ctx context.Context, item *models.QuoteItem) error {
	q, ok := m.Quotes[item.QuoteID]
	if !ok {
		return models.ErrQuoteNotFound
	}
	for i := range q.Items {
		if q.Items[i].ID == item.ID {
			q.Items[i] = *item
			sumTotal(q)
			return nil
		}
	}
	return models.ErrQuoteItemNotFound
}

func (m *Store) DeleteItem(ctx context.Context, quoteId, itemId string) error {
	q, ok := m.Quotes[quoteId]
	if !ok {
		return models.ErrQuoteNotFound
	}
	for i := range q.Items {
		if q.Items[i].ID == itemId {
			q.Items = append(q.Items[:i], q.Items[i+1:]...)
			sumTotal(q)
			return nil
		}
	}
	return models.ErrQuoteItemNotFound
}

// sumTotal складывает сохранённые стоимости позиций так же, как это делает SQL-запрос.
func sumTotal(q *models.Quote) {
	total := q.DocumentationFee
	for _, it := range q.Items {
		total = total.Add(it.Subtotal)
	}
	q.TotalAmount = total
}

func (m *Store) NextQuoteNumber(ctx context.Context, day time.Time) (string, error) {
	key := day.UTC().Format("20060102")
	m.seq[key]++
	return repository.FormatQuoteNumber(day, m.seq[key]), nil
}

func containsString(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
