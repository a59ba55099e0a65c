// Package handler implements the HTML-facing request handlers.  Handlers
// bind and validate form input, call into the repositories, and translate
// outcomes into redirects with one-shot flash notices or re-rendered forms,
// mirroring the error taxonomy: validation errors redisplay the form,
// authorization errors redirect, missing rows become 404 pages and
// anything unexpected becomes a generic 500.
package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/powertune/garage/internal/utils"
)

// getUserID extracts the authenticated user's ID stored by the session
// middleware.  Handlers behind the session gate can rely on it being set;
// a missing value is reported as an error so callers can bail out with an
// auth redirect instead of acting as nobody.
func getUserID(c echo.Context) (uint64, error) {
	id, ok := c.Get("user_id").(uint64)
	if !ok || id == 0 {
		return 0, echo.ErrUnauthorized
	}
	return id, nil
}

// render executes a page template, merging the pending flash notice and the
// session identity into the template data.  A notice already present in the
// data wins over the cookie: re-rendered forms pass theirs directly because
// a cookie set in this response cannot be read back in the same request.
func render(c echo.Context, status int, name string, data echo.Map) error {
	if data == nil {
		data = echo.Map{}
	}
	if f := utils.PopFlash(c); f != nil {
		if _, ok := data["Flash"]; !ok {
			data["Flash"] = f
		}
	}
	if user, ok := c.Get("username").(string); ok {
		data["Username"] = user
	}
	if role, ok := c.Get("role").(string); ok {
		data["Role"] = role
	}
	return c.Render(status, name, data)
}

// redirect is a small wrapper so every post-mutation redirect uses the
// same status code.
func redirect(c echo.Context, location string) error {
	return c.Redirect(http.StatusSeeOther, location)
}

// notFound renders the generic not-found response used when a referenced
// customer, vehicle or visit id does not exist.
func notFound(c echo.Context) error {
	return c.String(http.StatusNotFound, "Not found.")
}

// serverError renders the generic failure response for unexpected errors.
// The underlying error is logged, never shown to the user.
func serverError(c echo.Context, err error) error {
	c.Logger().Error(err)
	return c.String(http.StatusInternalServerError, "Something went wrong. Please try again.")
}
