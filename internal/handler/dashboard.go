package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/powertune/garage/internal/repository"
)

// DashboardHandler serves the landing page with headline counts.
type DashboardHandler struct {
	Vehicles  *repository.VehicleRepo
	Customers *repository.CustomerRepo
	Visits    *repository.VisitRepo
}

func NewDashboardHandler(v *repository.VehicleRepo, cu *repository.CustomerRepo, vi *repository.VisitRepo) *DashboardHandler {
	return &DashboardHandler{Vehicles: v, Customers: cu, Visits: vi}
}

// Show renders the dashboard with vehicle, customer and visit counts.
func (h *DashboardHandler) Show(c echo.Context) error {
	ctx := c.Request().Context()
	vehicles, err := h.Vehicles.Count(ctx)
	if err != nil {
		return serverError(c, err)
	}
	customers, err := h.Customers.Count(ctx)
	if err != nil {
		return serverError(c, err)
	}
	visits, err := h.Visits.Count(ctx)
	if err != nil {
		return serverError(c, err)
	}
	return render(c, http.StatusOK, "dashboard.html", echo.Map{
		"VehicleCount":  vehicles,
		"CustomerCount": customers,
		"VisitCount":    visits,
	})
}
