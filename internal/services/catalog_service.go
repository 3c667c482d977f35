package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/senyabanana/shipquote-service/internal/models"
	"github.com/senyabanana/shipquote-service/internal/repository"

	"github.com/shopspring/decimal"
)

// CatalogService - справочники стран, портов, контейнеров и грузов.
type CatalogService struct {
	Repo repository.CatalogRepository
}

// NewCatalogService создаёт новый экземпляр CatalogService.
func NewCatalogService(repo repository.CatalogRepository) *CatalogService {
	return &CatalogService{Repo: repo}
}

var (
	allowedContainerSizes = map[models.ContainerSize]bool{
		models.Size20:   true,
		models.Size40:   true,
		models.Size40HC: true,
		models.Size45:   true,
	}
	allowedContainerKinds = map[models.ContainerKind]bool{
		models.DryContainer:      true,
		models.ReeferContainer:   true,
		models.OpenTopContainer:  true,
		models.FlatRackContainer: true,
		models.TankContainer:     true,
	}
)

func missing(fields ...string) error {
	return fmt.Errorf("%w: %s", models.ErrMissingParameter, strings.Join(fields, ", "))
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", models.ErrInvalidParameter, fmt.Sprintf(format, args...))
}

// ListCountries возвращает список стран.
func (s *CatalogService) ListCountries(ctx context.Context) ([]models.Country, error) {
	return s.Repo.ListCountries(ctx)
}

// GetCountry возвращает страну по ID.
func (s *CatalogService) GetCountry(ctx context.Context, countryId string) (*models.Country, error) {
	return s.Repo.GetCountry(ctx, countryId)
}

// CreateCountry создаёт страну.
func (s *CatalogService) CreateCountry(ctx context.Context, countryReq models.CountryRequest) (*models.Country, error) {
	if countryReq.Name == "" || countryReq.Code == "" || countryReq.Continent == "" {
		return nil, missing("name", "code", "continent")
	}
	countryReq.Code = strings.ToUpper(countryReq.Code)
	if len(countryReq.Code) < 2 || len(countryReq.Code) > 3 {
		return nil, invalid("country code must have 2 or 3 letters")
	}
	return s.Repo.CreateCountry(ctx, countryReq)
}

// ListPorts возвращает список портов.
func (s *CatalogService) ListPorts(ctx context.Context, filter models.PortFilter) ([]models.Port, error) {
	for i, code := range filter.CountryCodes {
		filter.CountryCodes[i] = strings.ToUpper(code)
	}
	return s.Repo.ListPorts(ctx, filter)
}

// GetPort возвращает порт по ID.
func (s *CatalogService) GetPort(ctx context.Context, portId string) (*models.Port, error) {
	return s.Repo.GetPort(ctx, portId)
}

// CreatePort создаёт порт в существующей стране.
func (s *CatalogService) CreatePort(ctx context.Context, portReq models.PortRequest) (*models.Port, error) {
	if portReq.Name == "" || portReq.Code == "" || portReq.CountryID == "" || portReq.City == "" {
		return nil, missing("name", "code", "countryId", "city")
	}
	if portReq.Latitude != nil && portReq.Latitude.Abs().GreaterThan(decimal.NewFromInt(90)) {
		return nil, invalid("latitude must be within [-90, 90]")
	}
	if portReq.Longitude != nil && portReq.Longitude.Abs().GreaterThan(decimal.NewFromInt(180)) {
		return nil, invalid("longitude must be within [-180, 180]")
	}
	if _, err := s.Repo.GetCountry(ctx, portReq.CountryID); err != nil {
		return nil, err
	}
	portReq.Code = strings.ToUpper(portReq.Code)
	return s.Repo.CreatePort(ctx, portReq)
}

// SetPortActive включает или выключает порт.
func (s *CatalogService) SetPortActive(ctx context.Context, portId string, active bool) (*models.Port, error) {
	return s.Repo.SetPortActive(ctx, portId, active)
}

// ListContainerTypes возвращает список типов контейнеров.
func (s *CatalogService) ListContainerTypes(ctx context.Context, onlyActive bool) ([]models.ContainerType, error) {
	return s.Repo.ListContainerTypes(ctx, onlyActive)
}

// GetContainerType возвращает тип контейнера по ID.
func (s *CatalogService) GetContainerType(ctx context.Context, containerTypeId string) (*models.ContainerType, error) {
	return s.Repo.GetContainerType(ctx, containerTypeId)
}

// CreateContainerType создаёт тип контейнера.
func (s *CatalogService) CreateContainerType(ctx context.Context, req models.ContainerTypeRequest) (*models.ContainerType, error) {
	if req.Name == "" || req.Size == "" || req.Type == "" {
		return nil, missing("name", "size", "type")
	}
	if !allowedContainerSizes[req.Size] {
		return nil, invalid("unsupported container size: %s", req.Size)
	}
	if !allowedContainerKinds[req.Type] {
		return nil, invalid("unsupported container type: %s", req.Type)
	}
	dimensions := []struct {
		name  string
		value decimal.Decimal
	}{
		{"maxWeight", req.MaxWeight},
		{"internalLength", req.InternalLength},
		{"internalWidth", req.InternalWidth},
		{"internalHeight", req.InternalHeight},
		{"volume", req.Volume},
	}
	for _, d := range dimensions {
		if !d.value.IsPositive() {
			return nil, invalid("%s must be positive", d.name)
		}
	}
	return s.Repo.CreateContainerType(ctx, req)
}

// ListCargoTypes возвращает список типов грузов.
func (s *CatalogService) ListCargoTypes(ctx context.Context) ([]models.CargoType, error) {
	return s.Repo.ListCargoTypes(ctx)
}

// GetCargoType возвращает тип груза по ID.
func (s *CatalogService) GetCargoType(ctx context.Context, cargoTypeId string) (*models.CargoType, error) {
	return s.Repo.GetCargoType(ctx, cargoTypeId)
}

// CreateCargoType создаёт тип груза. Коэффициент плотности по умолчанию 1.0.
func (s *CatalogService) CreateCargoType(ctx context.Context, req models.CargoTypeRequest) (*models.CargoType, error) {
	if req.Name == "" {
		return nil, missing("name")
	}
	if req.DensityFactor == nil {
		one := decimal.NewFromInt(1)
		req.DensityFactor = &one
	}
	if !req.DensityFactor.IsPositive() {
		return nil, invalid("densityFactor must be positive")
	}
	return s.Repo.CreateCargoType(ctx, req)
}
