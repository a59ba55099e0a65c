package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/powertune/garage/internal/repository"
	"github.com/powertune/garage/internal/utils"
)

// CustomerHandler serves the customer directory pages.
type CustomerHandler struct {
	Customers *repository.CustomerRepo
}

func NewCustomerHandler(cu *repository.CustomerRepo) *CustomerHandler {
	return &CustomerHandler{Customers: cu}
}

// List handles GET /customers with an optional ?q= substring filter over
// name, phone and email.
func (h *CustomerHandler) List(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	customers, err := h.Customers.Search(c.Request().Context(), q)
	if err != nil {
		return serverError(c, err)
	}
	return render(c, http.StatusOK, "customers.html", echo.Map{
		"Customers": customers,
		"Query":     q,
	})
}

// AddForm renders the customer creation page.
func (h *CustomerHandler) AddForm(c echo.Context) error {
	return render(c, http.StatusOK, "add_customer.html", nil)
}

// Add creates a customer from the submitted form.  All three fields are
// required; an incomplete submission redisplays the form without touching
// the store.
func (h *CustomerHandler) Add(c echo.Context) error {
	cust := &repository.Customer{
		Name:  strings.TrimSpace(c.FormValue("name")),
		Phone: strings.TrimSpace(c.FormValue("phone")),
		Email: strings.TrimSpace(c.FormValue("email")),
	}
	if cust.Name == "" || cust.Phone == "" || cust.Email == "" {
		utils.SetFlash(c, "danger", "Name, phone and email are all required.")
		return redirect(c, "/customers/add")
	}
	if err := h.Customers.Create(c.Request().Context(), cust); err != nil {
		return serverError(c, err)
	}
	utils.SetFlash(c, "success", "Customer added!")
	return redirect(c, "/customers")
}

// EditForm renders the customer edit page.
func (h *CustomerHandler) EditForm(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return notFound(c)
	}
	cust, err := h.Customers.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c)
		}
		return serverError(c, err)
	}
	return render(c, http.StatusOK, "edit_customer.html", echo.Map{"Customer": cust})
}

// Edit applies a full field replacement to a customer.
func (h *CustomerHandler) Edit(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return notFound(c)
	}
	cust := &repository.Customer{
		ID:    id,
		Name:  strings.TrimSpace(c.FormValue("name")),
		Phone: strings.TrimSpace(c.FormValue("phone")),
		Email: strings.TrimSpace(c.FormValue("email")),
	}
	if cust.Name == "" || cust.Phone == "" || cust.Email == "" {
		utils.SetFlash(c, "danger", "Name, phone and email are all required.")
		return redirect(c, "/customers/edit/"+c.Param("id"))
	}
	if err := h.Customers.Update(c.Request().Context(), cust); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c)
		}
		return serverError(c, err)
	}
	utils.SetFlash(c, "success", "Customer updated!")
	return redirect(c, "/customers")
}

// Delete removes a customer and, through the repository's transaction, the
// customer's vehicles with their visit history.  The route is admin-gated
// by the router.
func (h *CustomerHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return notFound(c)
	}
	if err := h.Customers.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c)
		}
		return serverError(c, err)
	}
	utils.SetFlash(c, "info", "Customer deleted!")
	return redirect(c, "/customers")
}
