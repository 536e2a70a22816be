package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/accounts/internal/accounts/store"
	"github.com/aussiebroadwan/accounts/pkg/accountsdk"
	"github.com/aussiebroadwan/accounts/pkg/httpx"
)

// ReadyzHandler godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness probe endpoint pinging the credential, profile and session stores
//	@Description	Only the credential store is required; the others degrade the service without stopping it
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	accountsdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	accountsdk.HealthResponse	"status, uptime, version, checks - service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(
	startTime time.Time,
	version string,
	st store.Store,
	profiles store.Profiles,
	sessions store.Sessions,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		checks := &accountsdk.HealthChecks{
			Credentials: "ok",
			Profiles:    "ok",
			Sessions:    "ok",
		}
		overallStatus := "ok"
		statusCode := http.StatusOK

		// Check credential store connectivity
		if err := st.Ping(ctx); err != nil {
			checks.Credentials = "error: " + err.Error()
			overallStatus = "unavailable"
			statusCode = http.StatusServiceUnavailable
		}

		// Secondary stores only degrade the service
		if err := profiles.Ping(ctx); err != nil {
			checks.Profiles = "error: " + err.Error()
			if statusCode == http.StatusOK {
				overallStatus = "degraded"
			}
		}
		if err := sessions.Ping(ctx); err != nil {
			checks.Sessions = "error: " + err.Error()
			if statusCode == http.StatusOK {
				overallStatus = "degraded"
			}
		}

		response := accountsdk.HealthResponse{
			Status:  overallStatus,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		}
		httpx.WriteJSON(w, statusCode, response)
	}
}
