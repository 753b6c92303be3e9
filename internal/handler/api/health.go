package api

import (
	"database/sql"
	"net/http"
)

type HealthResponse struct {
	Status string `json:"status"`
}

// HealthHandler reports liveness plus a database ping.
func HealthHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				WriteError(w, http.StatusServiceUnavailable, "database unreachable", err)
				return
			}
		}
		RespondJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
	}
}
