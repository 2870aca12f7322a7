package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/casamichael/shopping-backend/api/responses"
	"github.com/casamichael/shopping-backend/api/validators"
	internalgeo "github.com/casamichael/shopping-backend/internal/geo"
	"github.com/casamichael/shopping-backend/pkg/logger"
)

func CreateCountry(svc internalgeo.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req internalgeo.NameRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		country, err := svc.CreateCountry(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, country)
	}
}

func GetCountry(svc internalgeo.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "countryID"), "countryID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		country, err := svc.GetCountry(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, country)
	}
}

func ListCountries(svc internalgeo.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.ListCountries(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func UpdateCountry(svc internalgeo.Service, logg *logger.Logger) http.HandlerFunc {
	return geoRename(logg, "countryID", func(ctx context.Context, id uuid.UUID, req internalgeo.NameRequest) (any, error) {
		return svc.UpdateCountry(ctx, id, req)
	})
}

func DeleteCountry(svc internalgeo.Service, logg *logger.Logger) http.HandlerFunc {
	return geoDelete(logg, "countryID", svc.DeleteCountry)
}

func CreateState(svc internalgeo.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		countryID, err := validators.ParsePathUUID(chi.URLParam(r, "countryID"), "countryID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req internalgeo.NameRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		state, err := svc.CreateState(r.Context(), countryID, req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, state)
	}
}

func GetState(svc internalgeo.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "stateID"), "stateID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		state, err := svc.GetState(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, state)
	}
}

// ListStates is the combo feeding country > state dropdowns.
func ListStates(svc internalgeo.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		countryID, err := validators.ParsePathUUID(chi.URLParam(r, "countryID"), "countryID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListStates(r.Context(), countryID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func UpdateState(svc internalgeo.Service, logg *logger.Logger) http.HandlerFunc {
	return geoRename(logg, "stateID", func(ctx context.Context, id uuid.UUID, req internalgeo.NameRequest) (any, error) {
		return svc.UpdateState(ctx, id, req)
	})
}

func DeleteState(svc internalgeo.Service, logg *logger.Logger) http.HandlerFunc {
	return geoDelete(logg, "stateID", svc.DeleteState)
}

func CreateCity(svc internalgeo.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stateID, err := validators.ParsePathUUID(chi.URLParam(r, "stateID"), "stateID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req internalgeo.NameRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		city, err := svc.CreateCity(r.Context(), stateID, req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, city)
	}
}

func GetCity(svc internalgeo.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "cityID"), "cityID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		city, err := svc.GetCity(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, city)
	}
}

// ListCities is the combo feeding state > city dropdowns.
func ListCities(svc internalgeo.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stateID, err := validators.ParsePathUUID(chi.URLParam(r, "stateID"), "stateID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListCities(r.Context(), stateID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func UpdateCity(svc internalgeo.Service, logg *logger.Logger) http.HandlerFunc {
	return geoRename(logg, "cityID", func(ctx context.Context, id uuid.UUID, req internalgeo.NameRequest) (any, error) {
		return svc.UpdateCity(ctx, id, req)
	})
}

func DeleteCity(svc internalgeo.Service, logg *logger.Logger) http.HandlerFunc {
	return geoDelete(logg, "cityID", svc.DeleteCity)
}

func geoRename(
	logg *logger.Logger,
	param string,
	op func(ctx context.Context, id uuid.UUID, req internalgeo.NameRequest) (any, error),
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, param), param)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req internalgeo.NameRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := op(r.Context(), id, req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func geoDelete(
	logg *logger.Logger,
	param string,
	op func(ctx context.Context, id uuid.UUID) error,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, param), param)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := op(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
