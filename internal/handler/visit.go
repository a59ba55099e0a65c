package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/powertune/garage/internal/billing"
	"github.com/powertune/garage/internal/queue"
	"github.com/powertune/garage/internal/repository"
	"github.com/powertune/garage/internal/service/queuepublisher"
	"github.com/powertune/garage/internal/utils"
)

// AddVisitForm renders the visit creation page for a vehicle.
func (h *VehicleHandler) AddVisitForm(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return notFound(c)
	}
	v, err := h.Vehicles.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c)
		}
		return serverError(c, err)
	}
	return render(c, http.StatusOK, "add_visit.html", echo.Map{"Vehicle": v})
}

// AddVisit handles POST /vehicles/:id/add_visit.  The visit record and all
// its items are committed as one atomic unit; a persistence failure leaves
// nothing behind.  On success a visit.recorded event is published to the
// broker on a best-effort basis.
func (h *VehicleHandler) AddVisit(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return notFound(c)
	}
	ctx := c.Request().Context()
	v, err := h.Vehicles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c)
		}
		return serverError(c, err)
	}

	form, err := c.FormParams()
	if err != nil {
		utils.SetFlash(c, "danger", "Invalid form submission.")
		return redirect(c, "/vehicles/"+c.Param("id"))
	}
	visit := &repository.ServiceVisit{
		VehicleID:     id,
		Notes:         strings.TrimSpace(c.FormValue("notes")),
		VisitCategory: strings.TrimSpace(c.FormValue("visit_category")),
		Labour:        parseMoney(c.FormValue("labour")),
	}
	if d := strings.TrimSpace(c.FormValue("date")); d != "" {
		if t, err := time.Parse("2006-01-02", d); err == nil {
			visit.Date = t
		}
	}
	items := assembleItems(
		form["item_name"],
		form["part_number"],
		form["quantity"],
		form["price"],
		form["item_labour"],
	)

	if err := h.Visits.CreateWithItems(ctx, visit, items); err != nil {
		return serverError(c, err)
	}

	totals := billing.Compute(visit, items)
	go func() {
		pubCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = queuepublisher.PublishVisitRecorded(pubCtx, queue.VisitRecordedEvent{
			VisitID:       visit.ID,
			VehicleID:     v.ID,
			Plate:         v.Plate,
			VisitCategory: visit.VisitCategory,
			ItemCount:     len(items),
			GrandTotal:    totals.Grand,
			RecordedAt:    time.Now().UTC().Format(time.RFC3339),
		})
	}()

	utils.SetFlash(c, "success", "Visit recorded!")
	return redirect(c, "/vehicles/"+c.Param("id"))
}

// PrintVisit handles GET /visit/:id/print, rendering a single visit as a
// printable HTML page with its computed totals.
func (h *VehicleHandler) PrintVisit(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return notFound(c)
	}
	ctx := c.Request().Context()
	visit, err := h.Visits.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c)
		}
		return serverError(c, err)
	}
	v, err := h.Vehicles.GetByID(ctx, visit.VehicleID)
	if err != nil {
		return serverError(c, err)
	}
	var customer *repository.Customer
	if v.CustomerID != nil {
		if customer, err = h.Customers.GetByID(ctx, *v.CustomerID); err != nil && !errors.Is(err, repository.ErrNotFound) {
			return serverError(c, err)
		}
	}
	items, err := h.Visits.ItemsByVisit(ctx, id)
	if err != nil {
		return serverError(c, err)
	}
	return render(c, http.StatusOK, "visit_print.html", echo.Map{
		"Vehicle":  v,
		"Customer": customer,
		"Visit":    visit,
		"Items":    items,
		"Totals":   billing.Compute(visit, items),
	})
}
