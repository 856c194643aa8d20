package middleware

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tanzim-io/tanzim/pkg/composables"
	"github.com/tanzim-io/tanzim/pkg/configuration"
)

// RequestParams collects per-request metadata into composables.Params so
// services can read it without touching the raw request.
func RequestParams() mux.MiddlewareFunc {
	conf := configuration.Use()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			params := &composables.Params{
				IP:        getRealIP(r, conf),
				UserAgent: r.UserAgent(),
				RequestID: getRequestID(r, conf),
				Request:   r,
				Writer:    w,
			}
			next.ServeHTTP(w, r.WithContext(composables.WithParams(r.Context(), params)))
		})
	}
}
