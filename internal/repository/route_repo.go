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
)

// RouteRepository - интерфейс для работы с маршрутами и тарифами.
type RouteRepository interface {
	ListRoutes(ctx context.Context, limit, offset int, onlyActive bool) ([]models.Route, error)
	GetRoute(ctx context.Context, routeId string) (*models.Route, error)
	GetActiveRouteByPorts(ctx context.Context, originPortId, destinationPortId string) (*models.Route, error)
	CreateRoute(ctx context.Context, routeReq models.RouteRequest) (*models.Route, error)
	SetRouteActive(ctx context.Context, routeId string, active bool) (*models.Route, error)

	ListRates(ctx context.Context, routeId, containerTypeId string) ([]models.Rate, error)
	GetRate(ctx context.Context, rateId string) (*models.Rate, error)
	CreateRate(ctx context.Context, rate models.Rate) (*models.Rate, error)
	DeactivateRate(ctx context.Context, rateId string) (*models.Rate, error)
	ListRateCandidates(ctx context.Context, routeId, containerTypeId string, asOf time.Time) ([]models.Rate, error)
}

// PostgresRouteRepository - реализация RouteRepository для базы данных.
type PostgresRouteRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresRouteRepository создаёт новый экземпляр PostgresRouteRepository.
func NewPostgresRouteRepository(db *pgxpool.Pool) *PostgresRouteRepository {
	return &PostgresRouteRepository{DB: db}
}

const routeColumns = `id, origin_port_id, destination_port_id, distance_nautical_miles, estimated_transit_days, is_active`

func scanRoute(row pgx.Row) (*models.Route, error) {
	var route models.Route
	err := row.Scan(
		&route.ID,
		&route.OriginPortID,
		&route.DestinationPortID,
		&route.DistanceNauticalMiles,
		&route.EstimatedTransitDays,
		&route.IsActive)
	if err != nil {
		return nil, err
	}
	return &route, nil
}

// ListRoutes возвращает список маршрутов.
func (r *PostgresRouteRepository) ListRoutes(ctx context.Context, limit, offset int, onlyActive bool) ([]models.Route, error) {
	query := `SELECT ` + routeColumns + ` FROM shipping_route`
	if onlyActive {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY origin_port_id, destination_port_id LIMIT $1 OFFSET $2`

	rows, err := r.DB.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	routes := []models.Route{}
	for rows.Next() {
		route, err := scanRoute(rows)
		if err != nil {
			return nil, err
		}
		routes = append(routes, *route)
	}
	return routes, rows.Err()
}

// GetRoute возвращает маршрут по ID.
func (r *PostgresRouteRepository) GetRoute(ctx context.Context, routeId string) (*models.Route, error) {
	route, err := scanRoute(r.DB.QueryRow(ctx, `SELECT `+routeColumns+` FROM shipping_route WHERE id = $1`, routeId))
	if err != nil {
		return nil, wrapPgError(err, models.ErrRouteNotFound)
	}
	return route, nil
}

// GetActiveRouteByPorts возвращает активный маршрут между портами.
func (r *PostgresRouteRepository) GetActiveRouteByPorts(ctx context.Context, originPortId, destinationPortId string) (*models.Route, error) {
	query := `SELECT ` + routeColumns + ` FROM shipping_route
	          WHERE origin_port_id = $1 AND destination_port_id = $2 AND is_active`
	route, err := scanRoute(r.DB.QueryRow(ctx, query, originPortId, destinationPortId))
	if err != nil {
		return nil, wrapPgError(err, models.ErrRouteNotFound)
	}
	return route, nil
}

// CreateRoute создаёт маршрут.
func (r *PostgresRouteRepository) CreateRoute(ctx context.Context, routeReq models.RouteRequest) (*models.Route, error) {
	route := models.Route{
		ID:                    uuid.New().String(),
		OriginPortID:          routeReq.OriginPortID,
		DestinationPortID:     routeReq.DestinationPortID,
		DistanceNauticalMiles: routeReq.DistanceNauticalMiles,
		EstimatedTransitDays:  routeReq.EstimatedTransitDays,
		IsActive:              true,
	}
	_, err := r.DB.Exec(ctx, `
       INSERT INTO shipping_route (`+routeColumns+`)
       VALUES ($1, $2, $3, $4, $5, $6)
   `,
		route.ID,
		route.OriginPortID,
		route.DestinationPortID,
		route.DistanceNauticalMiles,
		route.EstimatedTransitDays,
		route.IsActive)
	if err != nil {
		return nil, fmt.Errorf("failed to insert route: %w", wrapPgError(err, nil))
	}
	return &route, nil
}

// SetRouteActive включает или выключает маршрут.
func (r *PostgresRouteRepository) SetRouteActive(ctx context.Context, routeId string, active bool) (*models.Route, error) {
	query := `UPDATE shipping_route SET is_active = $1 WHERE id = $2 RETURNING ` + routeColumns
	route, err := scanRoute(r.DB.QueryRow(ctx, query, active, routeId))
	if err != nil {
		return nil, wrapPgError(err, models.ErrRouteNotFound)
	}
	return route, nil
}

const rateColumns = `id, route_id, container_type_id, base_rate_usd, fuel_surcharge_percentage, currency_adjustment_factor, effective_from, effective_to, is_active`

func scanRate(row pgx.Row) (*models.Rate, error) {
	var rate models.Rate
	err := row.Scan(
		&rate.ID,
		&rate.RouteID,
		&rate.ContainerTypeID,
		&rate.BaseRateUSD,
		&rate.FuelSurchargePercentage,
		&rate.CurrencyAdjustmentFactor,
		&rate.EffectiveFrom,
		&rate.EffectiveTo,
		&rate.IsActive)
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

func collectRates(rows pgx.Rows) ([]models.Rate, error) {
	defer rows.Close()

	rates := []models.Rate{}
	for rows.Next() {
		rate, err := scanRate(rows)
		if err != nil {
			return nil, err
		}
		rates = append(rates, *rate)
	}
	return rates, rows.Err()
}

// ListRates возвращает тарифы маршрута, при необходимости только для одного типа контейнера.
func (r *PostgresRouteRepository) ListRates(ctx context.Context, routeId, containerTypeId string) ([]models.Rate, error) {
	query := `SELECT ` + rateColumns + ` FROM base_rate`
	filters := []string{"route_id = $1"}
	args := []interface{}{routeId}

	if containerTypeId != "" {
		filters = append(filters, "container_type_id = $2")
		args = append(args, containerTypeId)
	}
	query += " WHERE " + strings.Join(filters, " AND ") + " ORDER BY effective_from DESC, id"

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectRates(rows)
}

// GetRate возвращает тариф по ID.
func (r *PostgresRouteRepository) GetRate(ctx context.Context, rateId string) (*models.Rate, error) {
	rate, err := scanRate(r.DB.QueryRow(ctx, `SELECT `+rateColumns+` FROM base_rate WHERE id = $1`, rateId))
	if err != nil {
		return nil, wrapPgError(err, models.ErrRateNotFound)
	}
	return rate, nil
}

// CreateRate создаёт тариф.
func (r *PostgresRouteRepository) CreateRate(ctx context.Context, rate models.Rate) (*models.Rate, error) {
	rate.ID = uuid.New().String()
	rate.IsActive = true
	_, err := r.DB.Exec(ctx, `
       INSERT INTO base_rate (`+rateColumns+`)
       VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
   `,
		rate.ID,
		rate.RouteID,
		rate.ContainerTypeID,
		rate.BaseRateUSD,
		rate.FuelSurchargePercentage,
		rate.CurrencyAdjustmentFactor,
		rate.EffectiveFrom,
		rate.EffectiveTo,
		rate.IsActive)
	if err != nil {
		return nil, fmt.Errorf("failed to insert rate: %w", wrapPgError(err, nil))
	}
	return &rate, nil
}

// DeactivateRate выключает тариф. Запись тарифа не удаляется.
func (r *PostgresRouteRepository) DeactivateRate(ctx context.Context, rateId string) (*models.Rate, error) {
	query := `UPDATE base_rate SET is_active = FALSE WHERE id = $1 RETURNING ` + rateColumns
	rate, err := scanRate(r.DB.QueryRow(ctx, query, rateId))
	if err != nil {
		return nil, wrapPgError(err, models.ErrRateNotFound)
	}
	return rate, nil
}

// ListRateCandidates возвращает активные тарифы, период которых покрывает дату.
func (r *PostgresRouteRepository) ListRateCandidates(ctx context.Context, routeId, containerTypeId string, asOf time.Time) ([]models.Rate, error) {
	query := `SELECT ` + rateColumns + ` FROM base_rate
	          WHERE route_id = $1
	            AND container_type_id = $2
	            AND is_active
	            AND effective_from <= $3
	            AND (effective_to IS NULL OR effective_to >= $3)
	          ORDER BY effective_from DESC, id`
	rows, err := r.DB.Query(ctx, query, routeId, containerTypeId, models.TruncateDate(asOf))
	if err != nil {
		return nil, err
	}
	return collectRates(rows)
}
