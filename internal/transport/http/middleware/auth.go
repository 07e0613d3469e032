package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// SchedulerAuth returns middleware that validates the external scheduler's
// shared secret before any handler side effect. The secret travels either as
// a bearer token or in the X-Scheduler-Token header. Comparison is constant
// time. An empty configured secret rejects everything so a misconfigured
// deployment never exposes the trigger surface.
func SchedulerAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			presented := r.Header.Get("X-Scheduler-Token")
			if presented == "" {
				authHeader := r.Header.Get("Authorization")
				if strings.HasPrefix(authHeader, "Bearer ") {
					presented = strings.TrimPrefix(authHeader, "Bearer ")
				}
			}
			if secret == "" || presented == "" ||
				subtle.ConstantTimeCompare([]byte(presented), []byte(secret)) != 1 {
				writeJSONError(w, http.StatusUnauthorized, "missing or invalid scheduler credential")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
