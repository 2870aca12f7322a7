package geo

import (
	"github.com/google/uuid"

	"github.com/casamichael/shopping-backend/pkg/db/models"
)

// NameRequest renames or creates any level of the hierarchy.
type NameRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type CountryDTO struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	StateCount int       `json:"state_count"`
	CityCount  int       `json:"city_count"`
}

type CountryDetailDTO struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	States []StateDTO `json:"states"`
}

type StateDTO struct {
	ID        uuid.UUID `json:"id"`
	CountryID uuid.UUID `json:"country_id"`
	Name      string    `json:"name"`
	CityCount int       `json:"city_count"`
}

type StateDetailDTO struct {
	ID        uuid.UUID `json:"id"`
	CountryID uuid.UUID `json:"country_id"`
	Name      string    `json:"name"`
	Cities    []CityDTO `json:"cities"`
}

type CityDTO struct {
	ID      uuid.UUID `json:"id"`
	StateID uuid.UUID `json:"state_id"`
	Name    string    `json:"name"`
}

func toCountryDTO(country models.Country) CountryDTO {
	dto := CountryDTO{
		ID:         country.ID,
		Name:       country.Name,
		StateCount: len(country.States),
	}
	for _, state := range country.States {
		dto.CityCount += len(state.Cities)
	}
	return dto
}

func toCountryDetailDTO(country models.Country) CountryDetailDTO {
	dto := CountryDetailDTO{
		ID:     country.ID,
		Name:   country.Name,
		States: make([]StateDTO, 0, len(country.States)),
	}
	for _, state := range country.States {
		dto.States = append(dto.States, toStateDTO(state))
	}
	return dto
}

func toStateDTO(state models.State) StateDTO {
	return StateDTO{
		ID:        state.ID,
		CountryID: state.CountryID,
		Name:      state.Name,
		CityCount: len(state.Cities),
	}
}

func toStateDetailDTO(state models.State) StateDetailDTO {
	dto := StateDetailDTO{
		ID:        state.ID,
		CountryID: state.CountryID,
		Name:      state.Name,
		Cities:    make([]CityDTO, 0, len(state.Cities)),
	}
	for _, city := range state.Cities {
		dto.Cities = append(dto.Cities, toCityDTO(city))
	}
	return dto
}

func toCityDTO(city models.City) CityDTO {
	return CityDTO{ID: city.ID, StateID: city.StateID, Name: city.Name}
}
