package handler

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/powertune/garage/internal/billing"
	"github.com/powertune/garage/internal/config"
	"github.com/powertune/garage/internal/report"
	"github.com/powertune/garage/internal/repository"
	"github.com/powertune/garage/internal/utils"
)

// VehicleHandler serves the vehicle registry pages, the visit ledger and
// the service report.
type VehicleHandler struct {
	Cfg       config.Config
	Vehicles  *repository.VehicleRepo
	Customers *repository.CustomerRepo
	Visits    *repository.VisitRepo
}

func NewVehicleHandler(cfg config.Config, v *repository.VehicleRepo, cu *repository.CustomerRepo, vi *repository.VisitRepo) *VehicleHandler {
	return &VehicleHandler{Cfg: cfg, Vehicles: v, Customers: cu, Visits: vi}
}

// defaultStatus is assigned to every newly created vehicle; status is not
// user-settable at creation, only on edit.
const defaultStatus = "Active"

// customMakeSentinel is the select value that switches the make field to
// the free-text alternative.
const customMakeSentinel = "custom"

// List handles GET /vehicles with an optional ?q= substring filter over
// plate, model and name.
func (h *VehicleHandler) List(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	vehicles, err := h.Vehicles.Search(c.Request().Context(), q)
	if err != nil {
		return serverError(c, err)
	}
	return render(c, http.StatusOK, "vehicles.html", echo.Map{
		"Vehicles": vehicles,
		"Query":    q,
	})
}

// visitView pairs a visit with its items and computed totals for display.
type visitView struct {
	Visit  *repository.ServiceVisit
	Items  []*repository.ServiceItem
	Totals billing.Totals
}

// loadVisitViews fetches a vehicle's visits most recent first, together
// with their items and billing totals.
func (h *VehicleHandler) loadVisitViews(c echo.Context, vehicleID uint64) ([]visitView, error) {
	ctx := c.Request().Context()
	visits, err := h.Visits.ListByVehicle(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	out := make([]visitView, 0, len(visits))
	for _, v := range visits {
		items, err := h.Visits.ItemsByVisit(ctx, v.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, visitView{Visit: v, Items: items, Totals: billing.Compute(v, items)})
	}
	return out, nil
}

// Detail handles GET /vehicles/:id showing the vehicle, its customer and
// the full visit history with totals.
func (h *VehicleHandler) Detail(c echo.Context) error {
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
	var customer *repository.Customer
	if v.CustomerID != nil {
		if customer, err = h.Customers.GetByID(ctx, *v.CustomerID); err != nil && !errors.Is(err, repository.ErrNotFound) {
			return serverError(c, err)
		}
	}
	views, err := h.loadVisitViews(c, id)
	if err != nil {
		return serverError(c, err)
	}
	return render(c, http.StatusOK, "vehicle_detail.html", echo.Map{
		"Vehicle":  v,
		"Customer": customer,
		"Visits":   views,
	})
}

// vehicleFromForm builds a Vehicle from the submitted form fields, applying
// the custom-make override.
func vehicleFromForm(c echo.Context) *repository.Vehicle {
	name := strings.TrimSpace(c.FormValue("name"))
	if name == customMakeSentinel {
		if custom := strings.TrimSpace(c.FormValue("custom_name")); custom != "" {
			name = custom
		}
	}
	v := &repository.Vehicle{
		Name:       name,
		Model:      strings.TrimSpace(c.FormValue("model")),
		Plate:      strings.TrimSpace(c.FormValue("plate")),
		VinNumber:  strings.TrimSpace(c.FormValue("vin_number")),
		Type:       strings.TrimSpace(c.FormValue("type")),
		DateBooked: strings.TrimSpace(c.FormValue("date_booked")),
		Technician: strings.TrimSpace(c.FormValue("technician")),
		History:    strings.TrimSpace(c.FormValue("history")),
	}
	if cid, err := strconv.ParseUint(c.FormValue("customer_id"), 10, 64); err == nil && cid > 0 {
		v.CustomerID = &cid
	}
	return v
}

// AddForm renders the vehicle creation page.  Creating a vehicle requires
// at least one customer; otherwise the user is sent to the customer form
// with a warning.
func (h *VehicleHandler) AddForm(c echo.Context) error {
	customers, err := h.Customers.Search(c.Request().Context(), "")
	if err != nil {
		return serverError(c, err)
	}
	if len(customers) == 0 {
		utils.SetFlash(c, "warning", "Please add a customer first before adding a vehicle.")
		return redirect(c, "/customers/add")
	}
	return render(c, http.StatusOK, "add_vehicle.html", echo.Map{"Customers": customers})
}

// Add creates a vehicle.  Status is forced to the default regardless of
// input, and a duplicate plate redisplays the form with a danger notice,
// leaving the store unchanged.
func (h *VehicleHandler) Add(c echo.Context) error {
	ctx := c.Request().Context()
	customers, err := h.Customers.Search(ctx, "")
	if err != nil {
		return serverError(c, err)
	}
	if len(customers) == 0 {
		utils.SetFlash(c, "warning", "Please add a customer first before adding a vehicle.")
		return redirect(c, "/customers/add")
	}

	v := vehicleFromForm(c)
	v.Status = defaultStatus
	if v.Name == "" || v.Model == "" || v.Plate == "" {
		return render(c, http.StatusBadRequest, "add_vehicle.html", echo.Map{
			"Customers": customers,
			"Vehicle":   v,
			"Flash":     &utils.Flash{Level: "danger", Message: "Make, model and plate are required."},
		})
	}
	if err := h.Vehicles.Create(ctx, v); err != nil {
		if errors.Is(err, repository.ErrPlateExists) {
			return render(c, http.StatusConflict, "add_vehicle.html", echo.Map{
				"Customers": customers,
				"Vehicle":   v,
				"Flash":     &utils.Flash{Level: "danger", Message: "A vehicle with this plate number already exists."},
			})
		}
		return serverError(c, err)
	}
	utils.SetFlash(c, "success", "Vehicle added successfully!")
	return redirect(c, "/vehicles")
}

// EditForm renders the vehicle edit page.  The route is admin-gated by the
// router.
func (h *VehicleHandler) EditForm(c echo.Context) error {
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
	customers, err := h.Customers.Search(ctx, "")
	if err != nil {
		return serverError(c, err)
	}
	return render(c, http.StatusOK, "edit_vehicle.html", echo.Map{"Vehicle": v, "Customers": customers})
}

// Edit applies a full field replacement to a vehicle, including status.
func (h *VehicleHandler) Edit(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return notFound(c)
	}
	v := vehicleFromForm(c)
	v.ID = id
	v.Status = strings.TrimSpace(c.FormValue("status"))
	if v.Status == "" {
		v.Status = defaultStatus
	}
	if v.Name == "" || v.Model == "" || v.Plate == "" {
		utils.SetFlash(c, "danger", "Make, model and plate are required.")
		return redirect(c, "/vehicles/edit/"+c.Param("id"))
	}
	if err := h.Vehicles.Update(c.Request().Context(), v); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return notFound(c)
		case errors.Is(err, repository.ErrPlateExists):
			utils.SetFlash(c, "danger", "A vehicle with this plate number already exists.")
			return redirect(c, "/vehicles/edit/"+c.Param("id"))
		default:
			return serverError(c, err)
		}
	}
	utils.SetFlash(c, "success", "Vehicle updated!")
	return redirect(c, "/vehicles")
}

// Delete removes a vehicle and its visit history.  The route is
// admin-gated by the router.
func (h *VehicleHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return notFound(c)
	}
	if err := h.Vehicles.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c)
		}
		return serverError(c, err)
	}
	utils.SetFlash(c, "info", "Vehicle deleted!")
	return redirect(c, "/vehicles")
}

// Report handles GET /vehicles/:id/report, streaming the vehicle's service
// history as a downloadable PDF.
func (h *VehicleHandler) Report(c echo.Context) error {
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
	var customer *repository.Customer
	if v.CustomerID != nil {
		if customer, err = h.Customers.GetByID(ctx, *v.CustomerID); err != nil && !errors.Is(err, repository.ErrNotFound) {
			return serverError(c, err)
		}
	}
	views, err := h.loadVisitViews(c, id)
	if err != nil {
		return serverError(c, err)
	}
	entries := make([]report.Visit, 0, len(views))
	for _, vw := range views {
		entries = append(entries, report.Visit{Visit: vw.Visit, Items: vw.Items})
	}

	doc := report.Build(v, customer, entries, h.Cfg.LogoPath)
	var buf bytes.Buffer
	if err := report.RenderPDF(&buf, doc); err != nil {
		return serverError(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="vehicle_%s_report.pdf"`, v.Plate))
	return c.Blob(http.StatusOK, "application/pdf", buf.Bytes())
}
