package services

import (
	"context"
	"testing"

	"github.com/senyabanana/shipquote-service/internal/models"
	"github.com/senyabanana/shipquote-service/internal/repository/repotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCountry(t *testing.T) {
	svc := NewCatalogService(repotest.NewStore())
	ctx := context.Background()

	_, err := svc.CreateCountry(ctx, models.CountryRequest{Name: "Chile"})
	assert.ErrorIs(t, err, models.ErrMissingParameter)

	_, err = svc.CreateCountry(ctx, models.CountryRequest{Name: "Chile", Code: "CHIL", Continent: "South America"})
	assert.ErrorIs(t, err, models.ErrInvalidParameter)

	country, err := svc.CreateCountry(ctx, models.CountryRequest{Name: "Chile", Code: "chl", Continent: "South America"})
	require.NoError(t, err)
	assert.Equal(t, "CHL", country.Code)

	_, err = svc.CreateCountry(ctx, models.CountryRequest{Name: "Chile", Code: "CHL", Continent: "South America"})
	assert.ErrorIs(t, err, models.ErrPersistenceConflict)
}

func TestCreatePort(t *testing.T) {
	store := repotest.NewStore()
	svc := NewCatalogService(store)
	ctx := context.Background()

	country, err := svc.CreateCountry(ctx, models.CountryRequest{Name: "Peru", Code: "PER", Continent: "South America"})
	require.NoError(t, err)

	tests := []struct {
		name string
		req  models.PortRequest
		want error
	}{
		{"missing city", models.PortRequest{Name: "Callao", Code: "PECLL", CountryID: country.ID}, models.ErrMissingParameter},
		{"unknown country", models.PortRequest{Name: "Callao", Code: "PECLL", CountryID: "missing", City: "Callao"}, models.ErrCountryNotFound},
		{"latitude out of range", models.PortRequest{Name: "Callao", Code: "PECLL", CountryID: country.ID, City: "Callao", Latitude: decPtr("91")}, models.ErrInvalidParameter},
		{"longitude out of range", models.PortRequest{Name: "Callao", Code: "PECLL", CountryID: country.ID, City: "Callao", Longitude: decPtr("-180.5")}, models.ErrInvalidParameter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreatePort(ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	port, err := svc.CreatePort(ctx, models.PortRequest{
		Name:      "Callao",
		Code:      "pecll",
		CountryID: country.ID,
		City:      "Callao",
		Latitude:  decPtr("-12.0464"),
		Longitude: decPtr("-77.1428"),
	})
	require.NoError(t, err)
	assert.Equal(t, "PECLL", port.Code)
	assert.True(t, port.IsActive)

	port, err = svc.SetPortActive(ctx, port.ID, false)
	require.NoError(t, err)
	assert.False(t, port.IsActive)

	active, err := svc.ListPorts(ctx, models.PortFilter{Limit: 5, OnlyActive: true})
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestCreateContainerType(t *testing.T) {
	svc := NewCatalogService(repotest.NewStore())
	ctx := context.Background()

	valid := models.ContainerTypeRequest{
		Name:           "40ft High Cube",
		Size:           models.Size40HC,
		Type:           models.DryContainer,
		MaxWeight:      dec("26580"),
		InternalLength: dec("12.03"),
		InternalWidth:  dec("2.35"),
		InternalHeight: dec("2.69"),
		Volume:         dec("76.40"),
	}

	ct, err := svc.CreateContainerType(ctx, valid)
	require.NoError(t, err)
	assert.True(t, ct.IsActive)

	badSize := valid
	badSize.Size = "30"
	_, err = svc.CreateContainerType(ctx, badSize)
	assert.ErrorIs(t, err, models.ErrInvalidParameter)

	badKind := valid
	badKind.Type = "BULK"
	_, err = svc.CreateContainerType(ctx, badKind)
	assert.ErrorIs(t, err, models.ErrInvalidParameter)

	noVolume := valid
	noVolume.Volume = dec("0")
	_, err = svc.CreateContainerType(ctx, noVolume)
	assert.ErrorIs(t, err, models.ErrInvalidParameter)
	assert.Contains(t, err.Error(), "volume")
}

func TestCreateCargoTypeDefaultsDensity(t *testing.T) {
	svc := NewCatalogService(repotest.NewStore())
	ctx := context.Background()

	ct, err := svc.CreateCargoType(ctx, models.CargoTypeRequest{Name: "Electronics", RequiresSpecialHandling: true})
	require.NoError(t, err)
	assert.True(t, dec("1").Equal(ct.DensityFactor))

	_, err = svc.CreateCargoType(ctx, models.CargoTypeRequest{Name: "Feathers", DensityFactor: decPtr("0")})
	assert.ErrorIs(t, err, models.ErrInvalidParameter)

	_, err = svc.CreateCargoType(ctx, models.CargoTypeRequest{})
	assert.ErrorIs(t, err, models.ErrMissingParameter)
}
