package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/casamichael/shopping-backend/api/responses"
	"github.com/casamichael/shopping-backend/api/validators"
	internalcatalog "github.com/casamichael/shopping-backend/internal/catalog"
	"github.com/casamichael/shopping-backend/pkg/logger"
	"github.com/casamichael/shopping-backend/pkg/pagination"
)

// Browse serves the public storefront page.
func Browse(svc internalcatalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := validators.ParseQueryInt(r, "page", 1, 1, 1000000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		pageSize, err := validators.ParseQueryInt(r, "page_size", 0, 0, pagination.MaxPageSize)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		query := internalcatalog.Query{
			Search: r.URL.Query().Get("search"),
			Sort:   internalcatalog.ParseSort(r.URL.Query().Get("sort")),
			Page:   pagination.Params{Page: page, PageSize: pageSize},
		}

		result, err := svc.Browse(r.Context(), query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// CatalogProduct serves the public product detail.
func CatalogProduct(svc internalcatalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "productID"), "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}
