package http

import (
	"net/http"
	"time"

	"github.com/abdurmasood/rafeyxmunisah/internal/auth/store"
	"github.com/abdurmasood/rafeyxmunisah/pkg/authsdk"
	"github.com/abdurmasood/rafeyxmunisah/pkg/httpx"
)

// ReadyzHandler is the readiness probe: checks the database connection and
// reports degraded with a 503 when it is unreachable.
func ReadyzHandler(startTime time.Time, version string, st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &authsdk.HealthChecks{Database: "ok"}
		overallStatus := "ok"
		statusCode := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, statusCode, authsdk.HealthResponse{
			Status:  overallStatus,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
