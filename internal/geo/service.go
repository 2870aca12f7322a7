package geo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/casamichael/shopping-backend/pkg/db"
	"github.com/casamichael/shopping-backend/pkg/db/models"
	pkgerrors "github.com/casamichael/shopping-backend/pkg/errors"
)

// Service manages the country > state > city hierarchy used for shipping
// addresses. Names are unique per parent; deletes cascade down.
type Service interface {
	CreateCountry(ctx context.Context, req NameRequest) (*CountryDTO, error)
	GetCountry(ctx context.Context, id uuid.UUID) (*CountryDetailDTO, error)
	ListCountries(ctx context.Context) ([]CountryDTO, error)
	UpdateCountry(ctx context.Context, id uuid.UUID, req NameRequest) (*CountryDTO, error)
	DeleteCountry(ctx context.Context, id uuid.UUID) error

	CreateState(ctx context.Context, countryID uuid.UUID, req NameRequest) (*StateDTO, error)
	GetState(ctx context.Context, id uuid.UUID) (*StateDetailDTO, error)
	ListStates(ctx context.Context, countryID uuid.UUID) ([]StateDTO, error)
	UpdateState(ctx context.Context, id uuid.UUID, req NameRequest) (*StateDTO, error)
	DeleteState(ctx context.Context, id uuid.UUID) error

	CreateCity(ctx context.Context, stateID uuid.UUID, req NameRequest) (*CityDTO, error)
	GetCity(ctx context.Context, id uuid.UUID) (*CityDTO, error)
	ListCities(ctx context.Context, stateID uuid.UUID) ([]CityDTO, error)
	UpdateCity(ctx context.Context, id uuid.UUID, req NameRequest) (*CityDTO, error)
	DeleteCity(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo *Repository
}

func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("geo repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) CreateCountry(ctx context.Context, req NameRequest) (*CountryDTO, error) {
	country := &models.Country{ID: uuid.New(), Name: req.Name}
	if err := s.repo.CreateCountry(ctx, country); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a country with that name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating country")
	}
	dto := toCountryDTO(*country)
	return &dto, nil
}

func (s *service) GetCountry(ctx context.Context, id uuid.UUID) (*CountryDetailDTO, error) {
	country, err := s.repo.FindCountryWithStates(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "country")
	}
	dto := toCountryDetailDTO(*country)
	return &dto, nil
}

func (s *service) ListCountries(ctx context.Context) ([]CountryDTO, error) {
	list, err := s.repo.ListCountries(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing countries")
	}
	out := make([]CountryDTO, 0, len(list))
	for _, country := range list {
		out = append(out, toCountryDTO(country))
	}
	return out, nil
}

func (s *service) UpdateCountry(ctx context.Context, id uuid.UUID, req NameRequest) (*CountryDTO, error) {
	country, err := s.repo.FindCountry(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "country")
	}
	country.Name = req.Name
	if err := s.repo.UpdateCountry(ctx, country); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a country with that name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating country")
	}
	dto := toCountryDTO(*country)
	return &dto, nil
}

func (s *service) DeleteCountry(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindCountry(ctx, id); err != nil {
		return notFoundOr(err, "country")
	}
	if err := s.repo.DeleteCountry(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting country")
	}
	return nil
}

func (s *service) CreateState(ctx context.Context, countryID uuid.UUID, req NameRequest) (*StateDTO, error) {
	if _, err := s.repo.FindCountry(ctx, countryID); err != nil {
		return nil, notFoundOr(err, "country")
	}
	state := &models.State{ID: uuid.New(), CountryID: countryID, Name: req.Name}
	if err := s.repo.CreateState(ctx, state); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a state with that name already exists in this country")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating state")
	}
	dto := toStateDTO(*state)
	return &dto, nil
}

func (s *service) GetState(ctx context.Context, id uuid.UUID) (*StateDetailDTO, error) {
	state, err := s.repo.FindStateWithCities(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "state")
	}
	dto := toStateDetailDTO(*state)
	return &dto, nil
}

func (s *service) ListStates(ctx context.Context, countryID uuid.UUID) ([]StateDTO, error) {
	if _, err := s.repo.FindCountry(ctx, countryID); err != nil {
		return nil, notFoundOr(err, "country")
	}
	list, err := s.repo.ListStatesByCountry(ctx, countryID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing states")
	}
	out := make([]StateDTO, 0, len(list))
	for _, state := range list {
		out = append(out, toStateDTO(state))
	}
	return out, nil
}

func (s *service) UpdateState(ctx context.Context, id uuid.UUID, req NameRequest) (*StateDTO, error) {
	state, err := s.repo.FindState(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "state")
	}
	state.Name = req.Name
	if err := s.repo.UpdateState(ctx, state); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a state with that name already exists in this country")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating state")
	}
	dto := toStateDTO(*state)
	return &dto, nil
}

func (s *service) DeleteState(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindState(ctx, id); err != nil {
		return notFoundOr(err, "state")
	}
	if err := s.repo.DeleteState(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting state")
	}
	return nil
}

func (s *service) CreateCity(ctx context.Context, stateID uuid.UUID, req NameRequest) (*CityDTO, error) {
	if _, err := s.repo.FindState(ctx, stateID); err != nil {
		return nil, notFoundOr(err, "state")
	}
	city := &models.City{ID: uuid.New(), StateID: stateID, Name: req.Name}
	if err := s.repo.CreateCity(ctx, city); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a city with that name already exists in this state")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating city")
	}
	dto := toCityDTO(*city)
	return &dto, nil
}

func (s *service) GetCity(ctx context.Context, id uuid.UUID) (*CityDTO, error) {
	city, err := s.repo.FindCity(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "city")
	}
	dto := toCityDTO(*city)
	return &dto, nil
}

func (s *service) ListCities(ctx context.Context, stateID uuid.UUID) ([]CityDTO, error) {
	if _, err := s.repo.FindState(ctx, stateID); err != nil {
		return nil, notFoundOr(err, "state")
	}
	list, err := s.repo.ListCitiesByState(ctx, stateID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing cities")
	}
	out := make([]CityDTO, 0, len(list))
	for _, city := range list {
		out = append(out, toCityDTO(city))
	}
	return out, nil
}

func (s *service) UpdateCity(ctx context.Context, id uuid.UUID, req NameRequest) (*CityDTO, error) {
	city, err := s.repo.FindCity(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "city")
	}
	city.Name = req.Name
	if err := s.repo.UpdateCity(ctx, city); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a city with that name already exists in this state")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating city")
	}
	dto := toCityDTO(*city)
	return &dto, nil
}

func (s *service) DeleteCity(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindCity(ctx, id); err != nil {
		return notFoundOr(err, "city")
	}
	if err := s.repo.DeleteCity(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting city")
	}
	return nil
}

func notFoundOr(err error, entity string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, entity+" not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading "+entity)
}
