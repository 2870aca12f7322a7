package geo

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	pkgerrors "github.com/casamichael/shopping-backend/pkg/errors"
	"github.com/casamichael/shopping-backend/pkg/migrate"
)

func setupGeoTest(t *testing.T) Service {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(migrate.AllModels()...))

	svc, err := NewService(NewRepository(conn))
	require.NoError(t, err)
	return svc
}

func TestGeographyHierarchy(t *testing.T) {
	svc := setupGeoTest(t)
	ctx := context.Background()

	country, err := svc.CreateCountry(ctx, NameRequest{Name: "Colombia"})
	require.NoError(t, err)

	state, err := svc.CreateState(ctx, country.ID, NameRequest{Name: "Antioquia"})
	require.NoError(t, err)
	assert.Equal(t, country.ID, state.CountryID)

	city, err := svc.CreateCity(ctx, state.ID, NameRequest{Name: "Medellín"})
	require.NoError(t, err)
	assert.Equal(t, state.ID, city.StateID)

	detail, err := svc.GetCountry(ctx, country.ID)
	require.NoError(t, err)
	require.Len(t, detail.States, 1)
	assert.Equal(t, "Antioquia", detail.States[0].Name)
	assert.Equal(t, 1, detail.States[0].CityCount)

	stateDetail, err := svc.GetState(ctx, state.ID)
	require.NoError(t, err)
	require.Len(t, stateDetail.Cities, 1)
	assert.Equal(t, "Medellín", stateDetail.Cities[0].Name)
}

func TestCreateStateUnderUnknownCountry(t *testing.T) {
	svc := setupGeoTest(t)

	_, err := svc.CreateState(context.Background(), uuid.New(), NameRequest{Name: "Nowhere"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestDuplicateCountryNameConflicts(t *testing.T) {
	svc := setupGeoTest(t)
	ctx := context.Background()

	_, err := svc.CreateCountry(ctx, NameRequest{Name: "Chile"})
	require.NoError(t, err)

	_, err = svc.CreateCountry(ctx, NameRequest{Name: "Chile"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestSameStateNameAllowedAcrossCountries(t *testing.T) {
	svc := setupGeoTest(t)
	ctx := context.Background()

	first, err := svc.CreateCountry(ctx, NameRequest{Name: "Mexico"})
	require.NoError(t, err)
	second, err := svc.CreateCountry(ctx, NameRequest{Name: "Spain"})
	require.NoError(t, err)

	_, err = svc.CreateState(ctx, first.ID, NameRequest{Name: "Santander"})
	require.NoError(t, err)
	_, err = svc.CreateState(ctx, second.ID, NameRequest{Name: "Santander"})
	require.NoError(t, err)

	_, err = svc.CreateState(ctx, second.ID, NameRequest{Name: "Santander"})
	require.Error(t, err)
}

func TestRenameAndDeleteCity(t *testing.T) {
	svc := setupGeoTest(t)
	ctx := context.Background()

	country, err := svc.CreateCountry(ctx, NameRequest{Name: "Peru"})
	require.NoError(t, err)
	state, err := svc.CreateState(ctx, country.ID, NameRequest{Name: "Lima"})
	require.NoError(t, err)
	city, err := svc.CreateCity(ctx, state.ID, NameRequest{Name: "Miraflores"})
	require.NoError(t, err)

	renamed, err := svc.UpdateCity(ctx, city.ID, NameRequest{Name: "Barranco"})
	require.NoError(t, err)
	assert.Equal(t, "Barranco", renamed.Name)

	require.NoError(t, svc.DeleteCity(ctx, city.ID))

	cities, err := svc.ListCities(ctx, state.ID)
	require.NoError(t, err)
	assert.Empty(t, cities)
}
