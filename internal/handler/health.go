package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health responds to load balancer and monitoring probes.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
