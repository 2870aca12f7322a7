package middleware

import (
	"net/http"

	"github.com/casamichael/shopping-backend/api/responses"
	"github.com/casamichael/shopping-backend/pkg/enums"
	pkgerrors "github.com/casamichael/shopping-backend/pkg/errors"
	"github.com/casamichael/shopping-backend/pkg/logger"
)

// RequireAdmin gates the admin surface. Auth must run first.
func RequireAdmin(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if UserTypeFromContext(r.Context()) != enums.UserTypeAdmin.String() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "administrator access required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
