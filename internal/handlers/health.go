package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	applog "mlsweb/internal/log"
)

type healthResponse struct {
	Status      string    `json:"status"`
	Time        time.Time `json:"time"`
	Database    string    `json:"database"`
	ActiveForms int       `json:"activeForms"`
}

// Health is a readiness handler for infrastructure health checks. A configured but
// unreachable database reports "degraded" with a 503.
func Health(w http.ResponseWriter, r *http.Request) {
	applog.Debug(r.Context(), "health check requested", "method", r.Method)
	resp := healthResponse{
		Status:   "ok",
		Time:     time.Now().UTC(),
		Database: "disabled",
	}
	code := http.StatusOK

	if database != nil {
		resp.Database = "ok"
		sqlDB, err := database.DB()
		if err == nil {
			err = sqlDB.PingContext(r.Context())
		}
		if err != nil {
			applog.Error(r.Context(), "database ping failed", "error", err)
			resp.Status = "degraded"
			resp.Database = "unreachable"
			code = http.StatusServiceUnavailable
		}
	}
	if forms != nil {
		resp.ActiveForms = forms.Len()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		applog.Error(r.Context(), "failed to encode health response", "error", err)
		return
	}
	applog.Debug(r.Context(), "health check responded", "status", resp.Status)
}
