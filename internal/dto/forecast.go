package dto

import "contas/internal/forecast"

// ForecastRequest carries a client-held snapshot to be evaluated without
// touching stored data. Now is optional and accepts YYYY-MM-DD or RFC 3339.
type ForecastRequest struct {
	forecast.RawSnapshot
	Now string `json:"now"`
}

// DashboardResponse wraps the computed dashboard with its evaluation context
type DashboardResponse struct {
	forecast.Dashboard
	GeneratedAt   string `json:"generated_at"`
	HorizonMonths int    `json:"horizon_months"`
	Cached        bool   `json:"cached"`
}
