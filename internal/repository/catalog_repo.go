package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/senyabanana/shipquote-service/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// CatalogRepository - интерфейс для работы со справочниками.
type CatalogRepository interface {
	ListCountries(ctx context.Context) ([]models.Country, error)
	GetCountry(ctx context.Context, countryId string) (*models.Country, error)
	CreateCountry(ctx context.Context, countryReq models.CountryRequest) (*models.Country, error)

	ListPorts(ctx context.Context, filter models.PortFilter) ([]models.Port, error)
	GetPort(ctx context.Context, portId string) (*models.Port, error)
	CreatePort(ctx context.Context, portReq models.PortRequest) (*models.Port, error)
	SetPortActive(ctx context.Context, portId string, active bool) (*models.Port, error)

	ListContainerTypes(ctx context.Context, onlyActive bool) ([]models.ContainerType, error)
	GetContainerType(ctx context.Context, containerTypeId string) (*models.ContainerType, error)
	CreateContainerType(ctx context.Context, req models.ContainerTypeRequest) (*models.ContainerType, error)

	ListCargoTypes(ctx context.Context) ([]models.CargoType, error)
	GetCargoType(ctx context.Context, cargoTypeId string) (*models.CargoType, error)
	CreateCargoType(ctx context.Context, req models.CargoTypeRequest) (*models.CargoType, error)
}

// PostgresCatalogRepository - реализация CatalogRepository для базы данных.
type PostgresCatalogRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresCatalogRepository создаёт новый экземпляр PostgresCatalogRepository.
func NewPostgresCatalogRepository(db *pgxpool.Pool) *PostgresCatalogRepository {
	return &PostgresCatalogRepository{DB: db}
}

// ListCountries возвращает список стран.
func (r *PostgresCatalogRepository) ListCountries(ctx context.Context) ([]models.Country, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, name, code, continent FROM country ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	countries := []models.Country{}
	for rows.Next() {
		var c models.Country
		if err := rows.Scan(&c.ID, &c.Name, &c.Code, &c.Continent); err != nil {
			return nil, err
		}
		countries = append(countries, c)
	}
	return countries, rows.Err()
}

// GetCountry возвращает страну по ID.
func (r *PostgresCatalogRepository) GetCountry(ctx context.Context, countryId string) (*models.Country, error) {
	var c models.Country
	err := r.DB.QueryRow(ctx, `SELECT id, name, code, continent FROM country WHERE id = $1`, countryId).
		Scan(&c.ID, &c.Name, &c.Code, &c.Continent)
	if err != nil {
		return nil, wrapPgError(err, models.ErrCountryNotFound)
	}
	return &c, nil
}

// CreateCountry создаёт страну.
func (r *PostgresCatalogRepository) CreateCountry(ctx context.Context, countryReq models.CountryRequest) (*models.Country, error) {
	c := models.Country{
		ID:        uuid.New().String(),
		Name:      countryReq.Name,
		Code:      strings.ToUpper(countryReq.Code),
		Continent: countryReq.Continent,
	}
	_, err := r.DB.Exec(ctx, `INSERT INTO country (id, name, code, continent) VALUES ($1, $2, $3, $4)`,
		c.ID, c.Name, c.Code, c.Continent)
	if err != nil {
		return nil, fmt.Errorf("failed to insert country: %w", wrapPgError(err, nil))
	}
	return &c, nil
}

const portColumns = `p.id, p.name, p.code, p.country_id, c.code, p.city, p.latitude, p.longitude, p.is_active, p.created_at, p.updated_at`

func scanPort(row pgx.Row) (*models.Port, error) {
	var (
		p        models.Port
		lat, lng decimal.NullDecimal
	)
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Code,
		&p.CountryID,
		&p.CountryCode,
		&p.City,
		&lat,
		&lng,
		&p.IsActive,
		&p.CreatedAt,
		&p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if lat.Valid {
		p.Latitude = &lat.Decimal
	}
	if lng.Valid {
		p.Longitude = &lng.Decimal
	}
	return &p, nil
}

// ListPorts возвращает список портов.
func (r *PostgresCatalogRepository) ListPorts(ctx context.Context, filter models.PortFilter) ([]models.Port, error) {
	query := `SELECT ` + portColumns + ` FROM port p JOIN country c ON c.id = p.country_id`
	var filters []string
	var args []interface{}
	argIndex := 1

	if len(filter.CountryCodes) > 0 {
		filters = append(filters, fmt.Sprintf("c.code = ANY($%d)", argIndex))
		args = append(args, pq.Array(filter.CountryCodes))
		argIndex++
	}
	if filter.OnlyActive {
		filters = append(filters, "p.is_active")
	}

	if len(filters) > 0 {
		query += " WHERE " + strings.Join(filters, " AND ")
	}

	query += fmt.Sprintf(" ORDER BY p.name LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ports := []models.Port{}
	for rows.Next() {
		p, err := scanPort(rows)
		if err != nil {
			return nil, err
		}
		ports = append(ports, *p)
	}
	return ports, rows.Err()
}

// GetPort возвращает порт по ID.
func (r *PostgresCatalogRepository) GetPort(ctx context.Context, portId string) (*models.Port, error) {
	row := r.DB.QueryRow(ctx, `SELECT `+portColumns+` FROM port p JOIN country c ON c.id = p.country_id WHERE p.id = $1`, portId)
	p, err := scanPort(row)
	if err != nil {
		return nil, wrapPgError(err, models.ErrPortNotFound)
	}
	return p, nil
}

// CreatePort создаёт порт.
func (r *PostgresCatalogRepository) CreatePort(ctx context.Context, portReq models.PortRequest) (*models.Port, error) {
	now := time.Now().UTC()
	id := uuid.New().String()
	_, err := r.DB.Exec(ctx, `
       INSERT INTO port (id, name, code, country_id, city, latitude, longitude, is_active, created_at, updated_at)
       VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE, $8, $8)
   `,
		id,
		portReq.Name,
		strings.ToUpper(portReq.Code),
		portReq.CountryID,
		portReq.City,
		nullDecimal(portReq.Latitude),
		nullDecimal(portReq.Longitude),
		now)
	if err != nil {
		return nil, fmt.Errorf("failed to insert port: %w", wrapPgError(err, nil))
	}
	return r.GetPort(ctx, id)
}

// SetPortActive включает или выключает порт.
func (r *PostgresCatalogRepository) SetPortActive(ctx context.Context, portId string, active bool) (*models.Port, error) {
	tag, err := r.DB.Exec(ctx, `UPDATE port SET is_active = $1, updated_at = NOW() WHERE id = $2`, active, portId)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, models.ErrPortNotFound
	}
	return r.GetPort(ctx, portId)
}

const containerTypeColumns = `id, name, size, type, max_weight, internal_length, internal_width, internal_height, volume, is_active`

func scanContainerType(row pgx.Row) (*models.ContainerType, error) {
	var ct models.ContainerType
	err := row.Scan(
		&ct.ID,
		&ct.Name,
		&ct.Size,
		&ct.Type,
		&ct.MaxWeight,
		&ct.InternalLength,
		&ct.InternalWidth,
		&ct.InternalHeight,
		&ct.Volume,
		&ct.IsActive)
	if err != nil {
		return nil, err
	}
	return &ct, nil
}

// ListContainerTypes возвращает список типов контейнеров.
func (r *PostgresCatalogRepository) ListContainerTypes(ctx context.Context, onlyActive bool) ([]models.ContainerType, error) {
	query := `SELECT ` + containerTypeColumns + ` FROM container_type`
	if onlyActive {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY size, type`

	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	containerTypes := []models.ContainerType{}
	for rows.Next() {
		ct, err := scanContainerType(rows)
		if err != nil {
			return nil, err
		}
		containerTypes = append(containerTypes, *ct)
	}
	return containerTypes, rows.Err()
}

// GetContainerType возвращает тип контейнера по ID.
func (r *PostgresCatalogRepository) GetContainerType(ctx context.Context, containerTypeId string) (*models.ContainerType, error) {
	row := r.DB.QueryRow(ctx, `SELECT `+containerTypeColumns+` FROM container_type WHERE id = $1`, containerTypeId)
	ct, err := scanContainerType(row)
	if err != nil {
		return nil, wrapPgError(err, models.ErrContainerTypeNotFound)
	}
	return ct, nil
}

// CreateContainerType создаёт тип контейнера.
func (r *PostgresCatalogRepository) CreateContainerType(ctx context.Context, req models.ContainerTypeRequest) (*models.ContainerType, error) {
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
	_, err := r.DB.Exec(ctx, `
       INSERT INTO container_type (`+containerTypeColumns+`)
       VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
   `,
		ct.ID,
		ct.Name,
		ct.Size,
		ct.Type,
		ct.MaxWeight,
		ct.InternalLength,
		ct.InternalWidth,
		ct.InternalHeight,
		ct.Volume,
		ct.IsActive)
	if err != nil {
		return nil, fmt.Errorf("failed to insert container type: %w", wrapPgError(err, nil))
	}
	return &ct, nil
}

const cargoTypeColumns = `id, name, description, hazardous, requires_special_handling, density_factor`

func scanCargoType(row pgx.Row) (*models.CargoType, error) {
	var ct models.CargoType
	err := row.Scan(
		&ct.ID,
		&ct.Name,
		&ct.Description,
		&ct.Hazardous,
		&ct.RequiresSpecialHandling,
		&ct.DensityFactor)
	if err != nil {
		return nil, err
	}
	return &ct, nil
}

// ListCargoTypes возвращает список типов груза.
func (r *PostgresCatalogRepository) ListCargoTypes(ctx context.Context) ([]models.CargoType, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+cargoTypeColumns+` FROM cargo_type ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cargoTypes := []models.CargoType{}
	for rows.Next() {
		ct, err := scanCargoType(rows)
		if err != nil {
			return nil, err
		}
		cargoTypes = append(cargoTypes, *ct)
	}
	return cargoTypes, rows.Err()
}

// GetCargoType возвращает тип груза по ID.
func (r *PostgresCatalogRepository) GetCargoType(ctx context.Context, cargoTypeId string) (*models.CargoType, error) {
	row := r.DB.QueryRow(ctx, `SELECT `+cargoTypeColumns+` FROM cargo_type WHERE id = $1`, cargoTypeId)
	ct, err := scanCargoType(row)
	if err != nil {
		return nil, wrapPgError(err, models.ErrCargoTypeNotFound)
	}
	return ct, nil
}

// CreateCargoType создаёт тип груза.
func (r *PostgresCatalogRepository) CreateCargoType(ctx context.Context, req models.CargoTypeRequest) (*models.CargoType, error) {
	ct := models.CargoType{
		ID:                      uuid.New().String(),
		Name:                    req.Name,
		Description:             req.Description,
		Hazardous:               req.Hazardous,
		RequiresSpecialHandling: req.RequiresSpecialHandling,
		DensityFactor:           decimal.NewFromInt(1),
	}
	if req.DensityFactor != nil {
		ct.DensityFactor = *req.DensityFactor
	}
	_, err := r.DB.Exec(ctx, `INSERT INTO cargo_type (`+cargoTypeColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		ct.ID,
		ct.Name,
		ct.Description,
		ct.Hazardous,
		ct.RequiresSpecialHandling,
		ct.DensityFactor)
	if err != nil {
		return nil, fmt.Errorf("failed to insert cargo type: %w", wrapPgError(err, nil))
	}
	return &ct, nil
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}
