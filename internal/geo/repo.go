package geo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/casamichael/shopping-backend/pkg/db/models"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateCountry(ctx context.Context, country *models.Country) error {
	return r.db.WithContext(ctx).Create(country).Error
}

func (r *Repository) FindCountry(ctx context.Context, id uuid.UUID) (*models.Country, error) {
	var country models.Country
	if err := r.db.WithContext(ctx).First(&country, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &country, nil
}

// FindCountryWithStates preloads the states and their cities for the
// country detail view.
func (r *Repository) FindCountryWithStates(ctx context.Context, id uuid.UUID) (*models.Country, error) {
	var country models.Country
	err := r.db.WithContext(ctx).
		Preload("States", func(db *gorm.DB) *gorm.DB { return db.Order("states.name ASC") }).
		Preload("States.Cities", func(db *gorm.DB) *gorm.DB { return db.Order("cities.name ASC") }).
		First(&country, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &country, nil
}

func (r *Repository) ListCountries(ctx context.Context) ([]models.Country, error) {
	var list []models.Country
	err := r.db.WithContext(ctx).
		Preload("States.Cities").
		Order("name ASC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *Repository) UpdateCountry(ctx context.Context, country *models.Country) error {
	return r.db.WithContext(ctx).
		Model(&models.Country{}).
		Where("id = ?", country.ID).
		Update("name", country.Name).Error
}

// DeleteCountry removes the country; its states and cities cascade.
func (r *Repository) DeleteCountry(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Country{}, "id = ?", id).Error
}

func (r *Repository) CreateState(ctx context.Context, state *models.State) error {
	return r.db.WithContext(ctx).Create(state).Error
}

func (r *Repository) FindState(ctx context.Context, id uuid.UUID) (*models.State, error) {
	var state models.State
	if err := r.db.WithContext(ctx).First(&state, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &state, nil
}

func (r *Repository) FindStateWithCities(ctx context.Context, id uuid.UUID) (*models.State, error) {
	var state models.State
	err := r.db.WithContext(ctx).
		Preload("Cities", func(db *gorm.DB) *gorm.DB { return db.Order("cities.name ASC") }).
		First(&state, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &state, nil
}

// ListStatesByCountry returns a country's states ordered by name.
func (r *Repository) ListStatesByCountry(ctx context.Context, countryID uuid.UUID) ([]models.State, error) {
	var list []models.State
	err := r.db.WithContext(ctx).
		Preload("Cities").
		Where("country_id = ?", countryID).
		Order("name ASC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *Repository) UpdateState(ctx context.Context, state *models.State) error {
	return r.db.WithContext(ctx).
		Model(&models.State{}).
		Where("id = ?", state.ID).
		Update("name", state.Name).Error
}

func (r *Repository) DeleteState(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.State{}, "id = ?", id).Error
}

func (r *Repository) CreateCity(ctx context.Context, city *models.City) error {
	return r.db.WithContext(ctx).Create(city).Error
}

func (r *Repository) FindCity(ctx context.Context, id uuid.UUID) (*models.City, error) {
	var city models.City
	if err := r.db.WithContext(ctx).First(&city, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &city, nil
}

// ListCitiesByState returns a state's cities ordered by name.
func (r *Repository) ListCitiesByState(ctx context.Context, stateID uuid.UUID) ([]models.City, error) {
	var list []models.City
	err := r.db.WithContext(ctx).
		Where("state_id = ?", stateID).
		Order("name ASC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *Repository) UpdateCity(ctx context.Context, city *models.City) error {
	return r.db.WithContext(ctx).
		Model(&models.City{}).
		Where("id = ?", city.ID).
		Update("name", city.Name).Error
}

func (r *Repository) DeleteCity(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.City{}, "id = ?", id).Error
}
