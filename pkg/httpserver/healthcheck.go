package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// HealthCheck validates one dependency, returning an error when unhealthy.
type HealthCheck func(ctx context.Context) error

// HealthcheckHandler runs the named checks on every request and reports
// 200 when all pass, 503 otherwise. Each check gets a short deadline so a
// hung dependency cannot stall the probe.
func HealthcheckHandler(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		status := http.StatusOK
		results := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				status = http.StatusServiceUnavailable
				results[name] = err.Error()
				continue
			}
			results[name] = "ok"
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(results)
	}
}
