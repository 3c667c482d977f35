package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/senyabanana/shipquote-service/internal/models"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("SHIPQUOTE_TEST_DSN")
	if dsn == "" {
		t.Skip("SHIPQUOTE_TEST_DSN not set; skipping DB-backed repository tests")
	}

	_, file, _, _ := runtime.Caller(0)
	migrationsDir := filepath.Join(filepath.Dir(file), "..", "..", "migrations")

	m, err := migrate.New("file://"+migrationsDir, dsn)
	require.NoError(t, err)
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		t.Fatalf("apply migrations: %v", err)
	}
	srcErr, dbErr := m.Close()
	require.NoError(t, srcErr)
	require.NoError(t, dbErr)

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, `TRUNCATE TABLE quote_item, quote, base_rate, shipping_route, port, country,
		container_type, cargo_type, quote_number_sequence CASCADE`)
	require.NoError(t, err)

	return pool
}

type fixture struct {
	origin      *models.Port
	destination *models.Port
	container   *models.ContainerType
	cargo       *models.CargoType
	route       *models.Route
}

func seedFixture(t *testing.T, catalog *PostgresCatalogRepository, routes *PostgresRouteRepository) fixture {
	t.Helper()
	ctx := context.Background()

	country, err := catalog.CreateCountry(ctx, models.CountryRequest{Name: "Testland", Code: "TST", Continent: "Europe"})
	require.NoError(t, err)

	origin, err := catalog.CreatePort(ctx, models.PortRequest{Name: "Alpha", Code: "TSALP", CountryID: country.ID, City: "Alpha"})
	require.NoError(t, err)
	destination, err := catalog.CreatePort(ctx, models.PortRequest{Name: "Beta", Code: "TSBET", CountryID: country.ID, City: "Beta"})
	require.NoError(t, err)

	container, err := catalog.CreateContainerType(ctx, models.ContainerTypeRequest{
		Name:           "20ft Dry",
		Size:           models.Size20,
		Type:           models.DryContainer,
		MaxWeight:      decimal.RequireFromString("28200"),
		InternalLength: decimal.RequireFromString("5.90"),
		InternalWidth:  decimal.RequireFromString("2.35"),
		InternalHeight: decimal.RequireFromString("2.39"),
		Volume:         decimal.RequireFromString("33.20"),
	})
	require.NoError(t, err)

	cargo, err := catalog.CreateCargoType(ctx, models.CargoTypeRequest{Name: "General"})
	require.NoError(t, err)

	route, err := routes.CreateRoute(ctx, models.RouteRequest{
		OriginPortID:          origin.ID,
		DestinationPortID:     destination.ID,
		DistanceNauticalMiles: 1200,
		EstimatedTransitDays:  5,
	})
	require.NoError(t, err)

	return fixture{origin: origin, destination: destination, container: container, cargo: cargo, route: route}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPostgresRouteRepository(t *testing.T) {
	pool := setupTestPool(t)
	ctx := context.Background()
	catalog := NewPostgresCatalogRepository(pool)
	routes := NewPostgresRouteRepository(pool)
	fx := seedFixture(t, catalog, routes)

	t.Run("duplicate route is a conflict", func(t *testing.T) {
		_, err := routes.CreateRoute(ctx, models.RouteRequest{
			OriginPortID:      fx.origin.ID,
			DestinationPortID: fx.destination.ID,
		})
		assert.ErrorIs(t, err, models.ErrPersistenceConflict)
	})

	t.Run("active route by ports", func(t *testing.T) {
		got, err := routes.GetActiveRouteByPorts(ctx, fx.origin.ID, fx.destination.ID)
		require.NoError(t, err)
		assert.Equal(t, fx.route.ID, got.ID)

		_, err = routes.GetActiveRouteByPorts(ctx, fx.destination.ID, fx.origin.ID)
		assert.ErrorIs(t, err, models.ErrRouteNotFound)
	})

	t.Run("rate candidates honour the validity window", func(t *testing.T) {
		mayEnd := day(2024, time.May, 31)
		may, err := routes.CreateRate(ctx, models.Rate{
			RouteID:                  fx.route.ID,
			ContainerTypeID:          fx.container.ID,
			BaseRateUSD:              decimal.RequireFromString("1000.00"),
			FuelSurchargePercentage:  decimal.RequireFromString("10.00"),
			CurrencyAdjustmentFactor: decimal.NewFromInt(1),
			EffectiveFrom:            day(2024, time.May, 1),
			EffectiveTo:              &mayEnd,
		})
		require.NoError(t, err)
		june, err := routes.CreateRate(ctx, models.Rate{
			RouteID:                  fx.route.ID,
			ContainerTypeID:          fx.container.ID,
			BaseRateUSD:              decimal.RequireFromString("1100.00"),
			FuelSurchargePercentage:  decimal.RequireFromString("12.00"),
			CurrencyAdjustmentFactor: decimal.NewFromInt(1),
			EffectiveFrom:            day(2024, time.June, 1),
		})
		require.NoError(t, err)

		got, err := routes.ListRateCandidates(ctx, fx.route.ID, fx.container.ID, mayEnd)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, may.ID, got[0].ID)

		got, err = routes.ListRateCandidates(ctx, fx.route.ID, fx.container.ID, day(2024, time.June, 15))
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, june.ID, got[0].ID)
		assert.True(t, decimal.RequireFromString("1100").Equal(got[0].BaseRateUSD))

		_, err = routes.DeactivateRate(ctx, june.ID)
		require.NoError(t, err)
		got, err = routes.ListRateCandidates(ctx, fx.route.ID, fx.container.ID, day(2024, time.June, 15))
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestPostgresQuoteRepository(t *testing.T) {
	pool := setupTestPool(t)
	ctx := context.Background()
	catalog := NewPostgresCatalogRepository(pool)
	routes := NewPostgresRouteRepository(pool)
	quotes := NewPostgresQuoteRepository(pool)
	numberer := NewPostgresQuoteNumberer(pool)
	fx := seedFixture(t, catalog, routes)

	number, err := numberer.NextQuoteNumber(ctx, day(2024, time.June, 5))
	require.NoError(t, err)
	assert.Equal(t, "SQ202406050001", number)

	quote := &models.Quote{
		QuoteNumber:       number,
		CustomerName:      "Jane Doe",
		CustomerEmail:     "jane@example.com",
		OriginPortID:      fx.origin.ID,
		DestinationPortID: fx.destination.ID,
		Status:            models.DraftQuote,
		DocumentationFee:  decimal.RequireFromString("25.00"),
		Currency:          "USD",
		ValidUntil:        day(2024, time.June, 12),
		Items: []models.QuoteItem{{
			ContainerTypeID: fx.container.ID,
			CargoTypeID:     fx.cargo.ID,
			Quantity:        2,
			WeightKg:        decimal.RequireFromString("1000"),
			VolumeCbm:       decimal.RequireFromString("20"),
			BaseRate:        decimal.RequireFromString("2500.00"),
			FuelSurcharge:   decimal.RequireFromString("375.00"),
			HandlingFee:     decimal.RequireFromString("50.00"),
			InsuranceFee:    decimal.RequireFromString("28.75"),
		}},
	}
	quote.Recalculate()
	require.NoError(t, quotes.CreateQuote(ctx, quote))

	stored, err := quotes.GetQuote(ctx, quote.ID)
	require.NoError(t, err)
	assert.Equal(t, number, stored.QuoteNumber)
	require.Len(t, stored.Items, 1)
	assert.True(t, decimal.RequireFromString("5907.50").Equal(stored.Items[0].Subtotal))
	assert.True(t, decimal.RequireFromString("5932.50").Equal(stored.TotalAmount))

	t.Run("duplicate quote number is a conflict", func(t *testing.T) {
		dup := *quote
		dup.Items = nil
		err := quotes.CreateQuote(ctx, &dup)
		assert.ErrorIs(t, err, models.ErrPersistenceConflict)
	})

	t.Run("item lifecycle keeps total in sync", func(t *testing.T) {
		item := stored.Items[0]
		item.Quantity = 1
		stored.Items[0] = item
		stored.Recalculate()
		require.NoError(t, quotes.UpdateItem(ctx, &stored.Items[0]))

		reloaded, err := quotes.GetQuote(ctx, quote.ID)
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("2978.75").Equal(reloaded.TotalAmount))

		require.NoError(t, quotes.DeleteItem(ctx, quote.ID, item.ID))
		err = quotes.DeleteItem(ctx, quote.ID, item.ID)
		assert.ErrorIs(t, err, models.ErrQuoteItemNotFound)

		reloaded, err = quotes.GetQuote(ctx, quote.ID)
		require.NoError(t, err)
		assert.True(t, reloaded.DocumentationFee.Equal(reloaded.TotalAmount))
	})

	t.Run("concurrent inserts keep every subtotal in the total", func(t *testing.T) {
		base, err := quotes.GetQuote(ctx, quote.ID)
		require.NoError(t, err)

		errs := make(chan error, 2)
		for i := 0; i < 2; i++ {
			go func() {
				item := &models.QuoteItem{
					QuoteID:         quote.ID,
					ContainerTypeID: fx.container.ID,
					CargoTypeID:     fx.cargo.ID,
					Quantity:        1,
					WeightKg:        decimal.NewFromInt(1000),
					VolumeCbm:       decimal.NewFromInt(10),
					BaseRate:        decimal.RequireFromString("100.00"),
				}
				item.Recalculate()
				errs <- quotes.InsertItem(ctx, item)
			}()
		}
		require.NoError(t, <-errs)
		require.NoError(t, <-errs)

		reloaded, err := quotes.GetQuote(ctx, quote.ID)
		require.NoError(t, err)
		assert.Len(t, reloaded.Items, len(base.Items)+2)
		assert.True(t, base.TotalAmount.Add(decimal.RequireFromString("200.00")).Equal(reloaded.TotalAmount),
			"total %s", reloaded.TotalAmount)
	})

	t.Run("status filter", func(t *testing.T) {
		updated, err := quotes.UpdateQuoteStatus(ctx, quote.ID, models.SentQuote)
		require.NoError(t, err)
		assert.Equal(t, models.SentQuote, updated.Status)

		list, err := quotes.ListQuotes(ctx, models.QuoteFilter{Limit: 10, Statuses: []string{string(models.SentQuote)}})
		require.NoError(t, err)
		require.Len(t, list, 1)

		list, err = quotes.ListQuotes(ctx, models.QuoteFilter{Limit: 10, Statuses: []string{string(models.DraftQuote)}})
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("unknown quote", func(t *testing.T) {
		_, err := quotes.GetQuote(ctx, "00000000-0000-0000-0000-000000000000")
		assert.ErrorIs(t, err, models.ErrQuoteNotFound)
	})
}
