package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/osse101/PotSettle_Go/internal/calendar"
	"github.com/osse101/PotSettle_Go/internal/logger"
)

const (
	healthOK          = "ok"
	healthUnavailable = "unavailable"
	readinessTimeout  = 2 * time.Second
)

// HealthResponse reports liveness along with the pot calendar the process
// is running on, so a misconfigured time zone is visible at a glance
type HealthResponse struct {
	Status   string `json:"status"`
	Today    string `json:"today"`
	Timezone string `json:"timezone"`
	ResetDay string `json:"reset_day"`
	IsReset  bool   `json:"is_reset_day"`
}

// ReadinessResponse lists each dependency check
type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Pinger is satisfied by the relational store and the in-memory store
type Pinger interface {
	Ping(ctx context.Context) error
}

// ReadinessCheck is one named dependency probed by /readyz
type ReadinessCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// PingCheck wraps a Pinger as a readiness check
func PingCheck(name string, p Pinger) ReadinessCheck {
	return ReadinessCheck{Name: name, Check: p.Ping}
}

// HandleHealthz provides a basic liveness check
// @Summary Liveness check
// @Description Returns OK and the current pot calendar day
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /healthz [get]
func HandleHealthz(cal *calendar.Calendar) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		today := cal.Today()
		respondJSON(w, http.StatusOK, HealthResponse{
			Status:   healthOK,
			Today:    calendar.FormatDate(today),
			Timezone: cal.Location().String(),
			ResetDay: cal.ResetDay().String(),
			IsReset:  cal.IsResetDay(today),
		})
	}
}

// HandleReadyz runs every check and reports 503 if any fails
// @Summary Readiness check
// @Description Returns OK when every dependency answers
// @Tags health
// @Produce json
// @Success 200 {object} ReadinessResponse
// @Failure 503 {object} ReadinessResponse
// @Router /readyz [get]
func HandleReadyz(checks ...ReadinessCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		resp := ReadinessResponse{Status: healthOK, Checks: make(map[string]string, len(checks))}
		for _, c := range checks {
			if err := c.Check(ctx); err != nil {
				logger.FromContext(ctx).Error("Readiness check failed", "check", c.Name, "error", err)
				resp.Status = healthUnavailable
				resp.Checks[c.Name] = healthUnavailable
				continue
			}
			resp.Checks[c.Name] = healthOK
		}

		status := http.StatusOK
		if resp.Status != healthOK {
			status = http.StatusServiceUnavailable
		}
		respondJSON(w, status, resp)
	}
}
