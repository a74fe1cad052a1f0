package routes

import (
	"context"
	"github.com/labstack/echo/v4"
	"net/http"
	"sort"
	"time"
)

type HealthCheck func(ctx context.Context) error

type DefaultHealthRoute struct {
	Checks  map[string]HealthCheck
	Timeout time.Duration
}

func NewHealthDefault(checks map[string]HealthCheck) *DefaultHealthRoute {
	return &DefaultHealthRoute{Checks: checks, Timeout: 2 * time.Second}
}

// Health answers 200 when every check passes and 503 with the failing
// check names otherwise.
func (h *DefaultHealthRoute) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.Timeout)
	defer cancel()

	failed := make([]string, 0)
	for name, check := range h.Checks {
		if err := check(ctx); err != nil {
			c.Logger().Warnf("health check %s failed: %v", name, err)
			failed = append(failed, name)
		}
	}

	if len(failed) > 0 {
		sort.Strings(failed)
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "unavailable", "failed": failed})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
