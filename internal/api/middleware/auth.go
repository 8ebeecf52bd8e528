package middleware

import (
	"net/http"
	"strings"

	apperrors "recruitment-portal/internal/common/errors"
)

const bearerPrefix = "Bearer "

// RequireBearer only checks that a bearer token is present. Tokens are not
// verified.
func RequireBearer(errs *apperrors.ErrorHandler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasPrefix(r.Header.Get("Authorization"), bearerPrefix) {
				errs.Write(w, r, apperrors.NewUnauthorizedError())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
