package middleware

import (
	"net/http"

	"github.com/baechuer/real-time-ressys/services/invoice-service/internal/application/gate"
)

// Gate must run after Identity.
func Gate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		present := IdentityFromContext(r.Context()).Present()

		d := gate.Authorize(present, r.URL.Path)
		if !d.Allow {
			GateRedirectsTotal.WithLabelValues(d.Redirect).Inc()
			http.Redirect(w, r, d.Redirect, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
